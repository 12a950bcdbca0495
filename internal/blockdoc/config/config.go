// Управление конфигурацией ядра документов из переменных окружения.
//
// Основные возможности:
//   - Загрузка конфигурации из переменных окружения с использованием тегов struct.
//   - Преобразование типов данных из переменных окружения (string, int, bool).
//   - Значения по умолчанию и ограничение диапазонов параметров.
package config

import (
	"log/slog"
	"reflect"
	"strconv"
)

type Config struct {
	// Глубина стека истории (снапшотов на документ).
	HistoryLimit int `env:"HISTORY_LIMIT"`
	// Дебаунс коалесцирования непрерывных правок, мс.
	HistoryDebounceMS int `env:"HISTORY_DEBOUNCE_MS"`
	// Порог предупреждения о размере экспорта, байт.
	ExportWarnSize int `env:"EXPORT_WARN_SIZE"`
	// Минифицировать HTML при экспорте.
	ExportMinify bool `env:"EXPORT_MINIFY"`
}

// ReadConfig загружает конфигурацию из переменных окружения и приводит
// параметры к допустимым диапазонам.
func ReadConfig() *Config {
	config := &Config{}

	envConfig("env", config)

	if config.HistoryLimit <= 0 || config.HistoryLimit > 1000 {
		config.HistoryLimit = 50
	}
	if config.HistoryDebounceMS <= 0 || config.HistoryDebounceMS > 10000 {
		config.HistoryDebounceMS = 400
	}
	if config.ExportWarnSize <= 0 {
		config.ExportWarnSize = 200 * 1024
	}

	return config
}

// Присваивает полям в переданной структуре значения переменных.
// Название переменной для каждого поля лежит в теге этого поля.
func envConfig(key string, s interface{}) {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fEnvTag := typeParam.Field(i).Tag.Get(key)
		if fEnvTag == "" || !Exist(fEnvTag) {
			continue
		}

		raw := GetEnv(fEnvTag)
		if raw == "" {
			continue
		}

		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				slog.Error("Invalid int env", "env", fEnvTag, "value", raw)
				continue
			}
			field.SetInt(int64(n))
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				slog.Error("Invalid bool env", "env", fEnvTag, "value", raw)
				continue
			}
			field.SetBool(b)
		}

		slog.Info("Config", "env", fEnvTag, "value", raw)
	}
}
