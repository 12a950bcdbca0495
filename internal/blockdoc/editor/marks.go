// Инлайновый слой парсера: HTML-фрагмент -> список текстовых сегментов с марками.
//
// Обход рекурсивный, набор марок передается вниз неизменяемым: каждый потомок
// получает собственную копию inherited ∪ own. При конфликте значений
// эксклюзивной марки на разных уровнях вложенности побеждает внутренняя.
package editor

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseMarks парсит HTML-фрагмент в сегменты с учетом унаследованных марок.
func ParseMarks(fragment string, inherited MarkSet) ([]TextSegment, error) {
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, err
	}
	if inherited == nil {
		inherited = MarkSet{}
	}
	var segments []TextSegment
	for _, n := range nodes {
		segments = append(segments, parseInline(n, inherited)...)
	}
	return edtypes.MergeAdjacent(segments), nil
}

// parseInlineChildren собирает сегменты всех потомков узла.
func parseInlineChildren(n *html.Node, inherited MarkSet) []TextSegment {
	var segments []TextSegment
	for el := n.FirstChild; el != nil; el = el.NextSibling {
		segments = append(segments, parseInline(el, inherited)...)
	}
	return edtypes.MergeAdjacent(segments)
}

func parseInline(n *html.Node, inherited MarkSet) []TextSegment {
	switch n.Type {
	case html.TextNode:
		return splitPlaceholders(normalizeSpace(n.Data), inherited)
	case html.ElementNode:
		if n.Data == "br" {
			return []TextSegment{{Text: "\n", Marks: inherited.Ordered()}}
		}
		own := inherited.Clone()
		applyTagMarks(n, own)
		applyStyleMarks(n, own)
		return parseInlineChildren(n, own)
	default:
		return nil
	}
}

// applyTagMarks добавляет марки по семантическим тегам.
func applyTagMarks(n *html.Node, set MarkSet) {
	switch n.Data {
	case "strong", "b":
		set.Add(edtypes.MarkBold, "")
	case "em", "i":
		set.Add(edtypes.MarkItalic, "")
	case "u", "ins":
		set.Add(edtypes.MarkUnderline, "")
	case "s", "del", "strike":
		set.Add(edtypes.MarkStrikethrough, "")
	case "a":
		if href := getAttrValue("href", n.Attr); href != "" {
			set.Add(edtypes.MarkLink, href)
		}
	case "mark":
		if _, ok := set[edtypes.MarkBgColor]; !ok {
			set.Add(edtypes.MarkBgColor, "#ffff00")
		}
	}
}

// applyStyleMarks добавляет марки по инлайновым CSS-свойствам.
func applyStyleMarks(n *html.Node, set MarkSet) {
	for key, val := range parseStyleAttr(getAttrValue("style", n.Attr)) {
		if val == "inherit" {
			continue
		}
		switch key {
		case "font-weight":
			if weight, err := strconv.Atoi(val); err == nil {
				if weight >= 600 {
					set.Add(edtypes.MarkBold, "")
				}
			} else if val == "bold" || val == "bolder" {
				set.Add(edtypes.MarkBold, "")
			}
		case "font-style":
			if val == "italic" || val == "oblique" {
				set.Add(edtypes.MarkItalic, "")
			}
		case "text-decoration", "text-decoration-line":
			if strings.Contains(val, "underline") {
				set.Add(edtypes.MarkUnderline, "")
			}
			if strings.Contains(val, "line-through") {
				set.Add(edtypes.MarkStrikethrough, "")
			}
		case "color":
			set.Add(edtypes.MarkTextColor, normalizeColor(val))
		case "background-color":
			set.Add(edtypes.MarkBgColor, normalizeColor(val))
		case "font-size":
			if size := sizeToInt(val); size > 0 {
				set.Add(edtypes.MarkFontSize, strconv.Itoa(size)+"px")
			} else {
				slog.Debug("Skip unparsable font size", "input", val)
			}
		case "font-family":
			set.Add(edtypes.MarkFontFamily, strings.Trim(val, `'" `))
		}
	}
}

// splitPlaceholders режет текстовый прогон по границам токенов @Name / PH@Name.
// Сегмент токена получает дополнительную марку placeholder.
func splitPlaceholders(text string, inherited MarkSet) []TextSegment {
	if text == "" {
		return nil
	}
	locs := edtypes.PlaceholderReg.FindAllStringIndex(text, -1)
	if locs == nil {
		return []TextSegment{{Text: text, Marks: inherited.Ordered()}}
	}

	var segments []TextSegment
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			segments = append(segments, TextSegment{Text: text[prev:loc[0]], Marks: inherited.Ordered()})
		}
		token := text[loc[0]:loc[1]]
		withToken := inherited.Clone()
		withToken.Add(edtypes.MarkPlaceholder, token)
		segments = append(segments, TextSegment{Text: token, Marks: withToken.Ordered()})
		prev = loc[1]
	}
	if prev < len(text) {
		segments = append(segments, TextSegment{Text: text[prev:], Marks: inherited.Ordered()})
	}
	return segments
}

// normalizeSpace схлопывает прогоны пробельных символов источника в один пробел.
// Переносы строк внутри контента выражаются только через <br>.
func normalizeSpace(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeColor приводит значение цвета к hex-форме, если оно распознано.
func normalizeColor(raw string) string {
	if c, err := edtypes.ParseColor(raw); err == nil {
		return c.Hex()
	}
	return raw
}
