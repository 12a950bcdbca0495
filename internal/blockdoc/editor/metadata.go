// Нативный формат: полный документ, встроенный JSON-блобом в HTML-комментарий.
// Экспорт всегда вкладывает блоб, импорт проверяет его до эвристического
// разбора DOM и при успехе восстанавливает документ без потерь.
package editor

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
	"github.com/go-playground/validator"
	"golang.org/x/net/html"
)

const (
	metadataPrefix  = "doc-metadata:"
	metadataVersion = "1"
)

var validate = validator.New()

// docMetadata - содержимое комментария <!-- doc-metadata: ... -->.
type docMetadata struct {
	Version  string            `json:"version" validate:"required"`
	Sections []edtypes.Section `json:"sections" validate:"required"`
}

// EmbedMetadata возвращает комментарий с каноническим блобом документа.
func EmbedMetadata(doc *Document) string {
	meta := docMetadata{
		Version:  metadataVersion,
		Sections: doc.Sections,
	}
	data, err := json.Marshal(meta)
	if err != nil {
		slog.Error("Marshal doc metadata", "err", err)
		return ""
	}
	// Внутри HTML-комментария не может быть "--"; в JSON такая пара возможна
	// только внутри строки, где ее безопасно заменяет unicode-escape.
	safe := strings.ReplaceAll(string(data), "--", `-\u002d`)
	return "<!-- " + metadataPrefix + " " + safe + " -->"
}

// detectMetadata ищет в дереве первый валидный блоб метаданных.
// Возвращает восстановленные секции, признак находки и предупреждения.
func detectMetadata(root *html.Node) ([]Section, []Warning, bool) {
	var sections []Section
	var warnings []Warning
	found := false

	iterNodes(root, func(n *html.Node) bool {
		if found || n.Type != html.CommentNode {
			return false
		}
		raw := strings.TrimSpace(n.Data)
		if !strings.HasPrefix(raw, metadataPrefix) {
			return false
		}

		var meta docMetadata
		if err := json.Unmarshal([]byte(strings.TrimPrefix(raw, metadataPrefix)), &meta); err != nil {
			slog.Warn("Invalid doc metadata blob", "err", err)
			warnings = append(warnings, Warning{Kind: WarnSchemaMismatch, Detail: "metadata blob is not valid JSON: " + err.Error()})
			return false
		}
		if meta.Version != metadataVersion {
			slog.Warn("Unsupported doc metadata version", "version", meta.Version)
			warnings = append(warnings, Warning{Kind: WarnSchemaMismatch, Detail: "unsupported metadata version " + meta.Version})
			return false
		}

		// Поврежденный или устаревший экспорт не прерывает импорт:
		// недостающие поля дозаполняет фабрика значений по умолчанию.
		if err := validate.Struct(meta); err != nil {
			warnings = append(warnings, Warning{Kind: WarnSchemaMismatch, Detail: err.Error()})
		}
		before, _ := json.Marshal(meta.Sections)
		for si := range meta.Sections {
			edtypes.ApplySectionDefaults(&meta.Sections[si])
		}
		after, _ := json.Marshal(meta.Sections)
		if string(before) != string(after) {
			warnings = append(warnings, Warning{Kind: WarnSchemaMismatch, Detail: "metadata blocks missing required fields, defaults applied"})
		}

		sections = meta.Sections
		found = true
		return true
	})

	return sections, warnings, found
}
