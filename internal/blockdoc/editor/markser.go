// Инлайновый слой сериализатора: сегменты с марками -> HTML-фрагмент.
//
// Марки применяются в одном фиксированном порядке вложенности (размер шрифта
// внутри, обертка плейсхолдера снаружи), поэтому повторный парсинг дает
// эквивалентный канонизированный набор независимо от авторской вложенности
// исходника. Это намеренная нормализация.
package editor

import (
	"strings"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
	"golang.org/x/net/html"
)

// SerializeMarks сериализует список сегментов в HTML-фрагмент.
func SerializeMarks(segments []TextSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(serializeSegment(seg))
	}
	return b.String()
}

func serializeSegment(seg TextSegment) string {
	if seg.Text == "\n" {
		return "<br/>"
	}
	// Переносы внутри текста появляются только из <br> исходника:
	// normalizeSpace схлопывает все прочие пробельные прогоны.
	out := strings.ReplaceAll(escapeText(seg.Text), "\n", "<br/>")
	// seg.Marks канонически упорядочены; каждая следующая марка оборачивает снаружи.
	for _, mark := range seg.Marks {
		out = wrapMark(out, mark)
	}
	return out
}

func wrapMark(inner string, mark Mark) string {
	switch mark.Kind {
	case edtypes.MarkFontSize:
		return `<span style="font-size:` + escapeAttr(mark.Value) + `">` + inner + `</span>`
	case edtypes.MarkFontFamily:
		return `<span style="font-family:` + escapeAttr(mark.Value) + `">` + inner + `</span>`
	case edtypes.MarkTextColor:
		return `<span style="color:` + escapeAttr(mark.Value) + `">` + inner + `</span>`
	case edtypes.MarkBgColor:
		return `<span style="background-color:` + escapeAttr(mark.Value) + `">` + inner + `</span>`
	case edtypes.MarkBold:
		return "<strong>" + inner + "</strong>"
	case edtypes.MarkItalic:
		return "<em>" + inner + "</em>"
	case edtypes.MarkUnderline:
		return "<u>" + inner + "</u>"
	case edtypes.MarkStrikethrough:
		return "<s>" + inner + "</s>"
	case edtypes.MarkLink:
		return `<a href="` + escapeAttr(mark.Value) + `">` + inner + `</a>`
	case edtypes.MarkPlaceholder:
		// Визуально выделенная обертка; текст внутри остается обычным
		// токеном и при реимпорте снова распознается сканером плейсхолдеров.
		return `<span class="doc-placeholder" data-placeholder="` + escapeAttr(mark.Value) + `">` + inner + `</span>`
	default:
		return inner
	}
}

func escapeText(s string) string {
	return html.EscapeString(s)
}

func escapeAttr(s string) string {
	return html.EscapeString(s)
}
