package editor

import (
	"errors"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
)

// Реэкспорт типов модели для краткости внутри пакета и у потребителей.
type (
	Document    = edtypes.Document
	Section     = edtypes.Section
	Column      = edtypes.Column
	Block       = edtypes.Block
	BlockKind   = edtypes.BlockKind
	TextSegment = edtypes.TextSegment
	Mark        = edtypes.Mark
	MarkKind    = edtypes.MarkKind
	MarkSet     = edtypes.MarkSet
	TextAlign   = edtypes.TextAlign
	Color       = edtypes.Color
)

const (
	LeftAlign   = edtypes.LeftAlign
	CenterAlign = edtypes.CenterAlign
	RightAlign  = edtypes.RightAlign
)

// ErrMalformedInput - единственная фатальная ошибка импорта: из строки не
// удалось построить никакое дерево. Все остальные случаи восстанавливаются
// и сопровождаются предупреждениями.
var ErrMalformedInput = errors.New("malformed input: no parseable tree")

type WarningKind string

const (
	// WarnUnrecognized - элемент не подошел ни под одно правило и сохранен как rawHtml блок.
	WarnUnrecognized WarningKind = "unrecognizedElement"
	// WarnSchemaMismatch - блок нативного формата не совпал с ожидаемой схемой, поля дозаполнены.
	WarnSchemaMismatch WarningKind = "schemaMismatch"
	// WarnOversize - размер экспортированного HTML превысил порог.
	WarnOversize WarningKind = "oversizeExport"
)

// Warning - нефатальное замечание импорта или экспорта.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Tag    string      `json:"tag,omitempty"`
	Detail string      `json:"detail,omitempty"`
}

// ParseResult - результат импорта HTML.
type ParseResult struct {
	Sections       []Section `json:"sections"`
	Warnings       []Warning `json:"warnings"`
	IsNativeFormat bool      `json:"isNativeFormat"`
}

// Document собирает секции результата в документ.
func (r *ParseResult) Document() *Document {
	return &Document{Sections: r.Sections}
}

// PreservedRawCount - число элементов, сохраненных как rawHtml.
// По нему оператор оценивает потерю точности импорта.
func PreservedRawCount(warnings []Warning) int {
	n := 0
	for _, w := range warnings {
		if w.Kind == WarnUnrecognized {
			n++
		}
	}
	return n
}
