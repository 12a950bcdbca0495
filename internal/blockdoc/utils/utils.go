// Вспомогательные generic-функции для работы со слайсами,
// используемые операциями сеанса редактирования.
package utils

// InsertAt вставляет элемент по индексу; выход за границы прижимается к краям.
func InsertAt[T any](s []T, idx int, v T) []T {
	if idx < 0 {
		idx = 0
	}
	if idx > len(s) {
		idx = len(s)
	}
	s = append(s, v)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}

// RemoveAt удаляет элемент по индексу с сохранением порядка.
func RemoveAt[T any](s []T, idx int) []T {
	if idx < 0 || idx >= len(s) {
		return s
	}
	return append(s[:idx], s[idx+1:]...)
}

// Move переносит элемент с позиции from на позицию to.
func Move[T any](s []T, from, to int) []T {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) || from == to {
		return s
	}
	v := s[from]
	s = append(s[:from], s[from+1:]...)
	return InsertAt(s, to, v)
}

// MapSlice преобразует слайс одного типа в слайс другого.
func MapSlice[T, R any](s []T, f func(T) R) []R {
	res := make([]R, len(s))
	for i, v := range s {
		res[i] = f(v)
	}
	return res
}
