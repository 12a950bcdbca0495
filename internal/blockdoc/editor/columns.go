// Определение многоколоночного макета: CSS grid с 2-3 дорожками либо
// таблица верстки с одной строкой из 2-3 ячеек становятся секцией с
// соответствующим числом колонок.
package editor

import (
	"strings"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
	"golang.org/x/net/html"
)

const maxColumns = 3

// detectSection пытается превратить узел верхнего уровня в многоколоночную
// секцию. nil - узел секцией не является и классифицируется как блок.
func (p *parseState) detectSection(n *html.Node) *Section {
	if n.Type != html.ElementNode {
		return nil
	}

	switch n.Data {
	case "div", "section":
		if attrExists("data-section-id", n.Attr) || hasClass(n, "doc-section") {
			return p.buildExplicitSection(n)
		}
		if cols := gridColumnCount(n); cols >= 2 {
			return p.buildGridSection(n, cols)
		}
	case "table":
		if isLayoutTable(n) {
			rows := tableRows(n)
			if len(rows) == 1 {
				cells := rowCells(rows[0])
				if len(cells) >= 2 && len(cells) <= maxColumns {
					return p.buildCellSection(n, cells)
				}
			}
		}
	}
	return nil
}

// gridColumnCount возвращает число дорожек grid-контейнера (0, если это не grid 2-3 колонок).
func gridColumnCount(n *html.Node) int {
	styles := parseStyleAttr(getAttrValue("style", n.Attr))
	if styles["display"] != "grid" {
		return 0
	}
	tracks := strings.Fields(styles["grid-template-columns"])
	if len(tracks) < 2 || len(tracks) > maxColumns {
		return 0
	}
	return len(tracks)
}

// buildGridSection распределяет потомков grid-контейнера по колонкам.
// При совпадении числа потомков и дорожек каждый потомок - колонка;
// иначе потомки распределяются по дорожкам последовательными группами.
func (p *parseState) buildGridSection(n *html.Node, cols int) *Section {
	var children []*html.Node
	for el := n.FirstChild; el != nil; el = el.NextSibling {
		if el.Type == html.ElementNode {
			children = append(children, el)
		}
	}
	if len(children) == 0 {
		return nil
	}

	sec := edtypes.NewSection(cols)
	if id := getAttrValue("data-section-id", n.Attr); id != "" {
		sec.ID = id
	}

	if len(children) == cols {
		for ci, child := range children {
			sec.Columns[ci].Blocks = p.parseBlocks(child)
		}
	} else {
		for i, child := range children {
			ci := i * cols / len(children)
			sec.Columns[ci].Blocks = append(sec.Columns[ci].Blocks, p.classifyElement(child)...)
		}
	}
	return &sec
}

// buildExplicitSection восстанавливает секцию собственного экспорта:
// контейнер doc-section, колонки - потомки doc-column.
func (p *parseState) buildExplicitSection(n *html.Node) *Section {
	var colNodes []*html.Node
	for el := n.FirstChild; el != nil; el = el.NextSibling {
		if el.Type == html.ElementNode && hasClass(el, "doc-column") {
			colNodes = append(colNodes, el)
		}
	}

	cols := sizeToInt(getAttrValue("data-columns", n.Attr))
	if cols < 1 {
		cols = max(len(colNodes), 1)
	}
	if cols > maxColumns {
		cols = maxColumns
	}

	sec := edtypes.NewSection(cols)
	if id := getAttrValue("data-section-id", n.Attr); id != "" {
		sec.ID = id
	}
	if len(colNodes) == 0 {
		sec.Columns[0].Blocks = p.parseBlocks(n)
		return &sec
	}
	for ci, cn := range colNodes {
		if ci >= sec.ColumnCount {
			last := &sec.Columns[sec.ColumnCount-1]
			last.Blocks = append(last.Blocks, p.parseBlocks(cn)...)
			continue
		}
		sec.Columns[ci].Blocks = p.parseBlocks(cn)
	}
	return &sec
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttrValue("class", n.Attr)) {
		if c == class {
			return true
		}
	}
	return false
}

// buildCellSection превращает ячейки строки таблицы верстки в колонки секции.
func (p *parseState) buildCellSection(n *html.Node, cells []*html.Node) *Section {
	sec := edtypes.NewSection(len(cells))
	if id := getAttrValue("data-section-id", n.Attr); id != "" {
		sec.ID = id
	}
	for ci, td := range cells {
		sec.Columns[ci].Blocks = p.parseBlocks(td)
	}
	return &sec
}
