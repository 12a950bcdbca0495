package editor

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

func getAttrValue(key string, attrs []html.Attribute) string {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func attrExists(key string, attrs []html.Attribute) bool {
	return slices.ContainsFunc(attrs, func(attr html.Attribute) bool {
		return attr.Key == key
	})
}

func iterNodes(node *html.Node, f func(child *html.Node) bool) {
	if f(node) {
		return
	}
	for p := node.FirstChild; p != nil; p = p.NextSibling {
		iterNodes(p, f)
	}
}

func findElementByTagName(rootNode *html.Node, tagName string) *html.Node {
	var el *html.Node
	iterNodes(rootNode, func(child *html.Node) bool {
		if child.Type == html.ElementNode && child.Data == tagName {
			el = child
			return true
		}
		return false
	})
	return el
}

// parseStyleAttr парсит строку style в map свойств.
// Например: "color: red; font-size: 14px" -> {"color": "red", "font-size": "14px"}
func parseStyleAttr(style string) map[string]string {
	result := make(map[string]string)
	if style == "" {
		return result
	}

	for _, part := range strings.Split(style, ";") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		if key != "" && value != "" {
			result[key] = value
		}
	}

	return result
}

// sizeToInt извлекает число из CSS-размера ("14px" -> 14). 0 при неудаче.
func sizeToInt(raw string) int {
	raw = strings.TrimSpace(raw)
	for _, suffix := range []string{"px", "pt", "%"} {
		raw = strings.TrimSuffix(raw, suffix)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func toTextAlign(raw string) TextAlign {
	switch strings.TrimSpace(raw) {
	case "center":
		return CenterAlign
	case "right":
		return RightAlign
	}
	return LeftAlign
}

func alignString(align TextAlign) string {
	switch align {
	case CenterAlign:
		return "center"
	case RightAlign:
		return "right"
	}
	return "left"
}

// trimSegments отбрасывает чисто пробельные сегменты по краям и
// обрезает крайние пробелы, оставшиеся от переносов строк источника.
func trimSegments(segments []TextSegment) []TextSegment {
	for len(segments) > 0 && strings.TrimSpace(segments[0].Text) == "" {
		segments = segments[1:]
	}
	for len(segments) > 0 && strings.TrimSpace(segments[len(segments)-1].Text) == "" {
		segments = segments[:len(segments)-1]
	}
	if len(segments) > 0 {
		segments[0].Text = strings.TrimLeft(segments[0].Text, " ")
		last := len(segments) - 1
		segments[last].Text = strings.TrimRight(segments[last].Text, " ")
	}
	return segments
}

// hasSingleElementChild возвращает единственного элемента-потомка,
// если других значимых узлов нет (обертки div/span/center).
func hasSingleElementChild(n *html.Node) *html.Node {
	var only *html.Node
	for el := n.FirstChild; el != nil; el = el.NextSibling {
		switch el.Type {
		case html.ElementNode:
			if only != nil {
				return nil
			}
			only = el
		case html.TextNode:
			if strings.TrimSpace(el.Data) != "" {
				return nil
			}
		}
	}
	return only
}

// hasDirectText сообщает, есть ли у узла непустые текстовые потомки первого уровня.
func hasDirectText(n *html.Node) bool {
	for el := n.FirstChild; el != nil; el = el.NextSibling {
		if el.Type == html.TextNode && strings.TrimSpace(el.Data) != "" {
			return true
		}
	}
	return false
}

// renderNode возвращает outerHTML узла.
func renderNode(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// parseBoxShorthand разбирает CSS-сокращение из 1, 2 или 4 значений
// в порядке top, right, bottom, left.
func parseBoxShorthand(raw string) (int, int, int, int) {
	fields := strings.Fields(raw)
	vals := make([]int, len(fields))
	for i, f := range fields {
		vals[i] = sizeToInt(f)
	}
	switch len(vals) {
	case 1:
		return vals[0], vals[0], vals[0], vals[0]
	case 2:
		return vals[0], vals[1], vals[0], vals[1]
	case 4:
		return vals[0], vals[1], vals[2], vals[3]
	}
	return 0, 0, 0, 0
}
