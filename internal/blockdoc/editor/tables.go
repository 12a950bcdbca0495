// Разделение таблиц на таблицы верстки и таблицы данных.
//
// Таблица верстки разворачивается: содержимое ячеек разбирается как обычные
// блоки, сама таблица как структура отбрасывается. Таблица данных становится
// одним блоком Table. Эвристика принципиально нечеткая; ошибка классификации
// деградирует до развернутых блоков или rawHtml, но не до потери контента.
//
// Таблица решения (первое сработавшее правило):
//  1. role="presentation"                      -> верстка
//  2. есть <th> или <thead>                    -> данные
//  3. легаси-атрибуты cellpadding/cellspacing/
//     bgcolor/background                       -> верстка
//  4. явный width >= 300px                     -> верстка
//  5. >= 2 строк с одинаковым числом ячеек     -> данные
//  6. иначе                                    -> верстка
package editor

import (
	"strings"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
	"golang.org/x/net/html"
)

const layoutWidthThreshold = 300

// parseTableNode возвращает блок таблицы данных либо развернутое
// содержимое ячеек таблицы верстки.
func (p *parseState) parseTableNode(n *html.Node) []Block {
	if isLayoutTable(n) {
		return p.unwrapLayoutTable(n)
	}
	return []Block{p.parseDataTable(n)}
}

func isLayoutTable(n *html.Node) bool {
	if getAttrValue("role", n.Attr) == "presentation" {
		return true
	}
	if hasHeaderCells(n) {
		return false
	}
	for _, attr := range []string{"cellpadding", "cellspacing", "bgcolor", "background"} {
		if attrExists(attr, n.Attr) {
			return true
		}
	}
	if w := getAttrValue("width", n.Attr); w != "" && !strings.HasSuffix(w, "%") {
		if sizeToInt(w) >= layoutWidthThreshold {
			return true
		}
	}
	rows := tableRows(n)
	if len(rows) >= 2 {
		cells := len(rowCells(rows[0]))
		uniform := cells > 0
		for _, tr := range rows[1:] {
			if len(rowCells(tr)) != cells {
				uniform = false
				break
			}
		}
		if uniform {
			return false
		}
	}
	return true
}

func hasHeaderCells(n *html.Node) bool {
	found := false
	iterNodes(n, func(el *html.Node) bool {
		if el.Type == html.ElementNode && (el.Data == "th" || el.Data == "thead") {
			found = true
			return true
		}
		// Заголовки вложенной таблицы относятся к ней, не к родительской.
		return el != n && el.Type == html.ElementNode && el.Data == "table"
	})
	return found
}

// tableRows собирает все tr таблицы в порядке документа (thead раньше tbody).
func tableRows(n *html.Node) []*html.Node {
	var rows []*html.Node
	iterNodes(n, func(el *html.Node) bool {
		if el.Type == html.ElementNode && el.Data == "tr" {
			rows = append(rows, el)
			return true
		}
		// Во вложенные таблицы не спускаемся.
		return el != n && el.Type == html.ElementNode && el.Data == "table"
	})
	return rows
}

func rowCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for td := tr.FirstChild; td != nil; td = td.NextSibling {
		if td.Type == html.ElementNode && (td.Data == "td" || td.Data == "th") {
			cells = append(cells, td)
		}
	}
	return cells
}

func (p *parseState) parseDataTable(n *html.Node) Block {
	b := edtypes.NewBlock(edtypes.KindTable)
	t := b.Table
	t.Rows = nil
	t.HeaderRow = hasHeaderCells(n)
	t.ColumnWidths = parseColGroup(findElementByTagName(n, "colgroup"))
	t.RowHeights = nil

	for _, tr := range tableRows(n) {
		var row []edtypes.TableCell
		for _, td := range rowCells(tr) {
			content := trimSegments(parseInlineChildren(td, MarkSet{}))
			if content == nil {
				content = []TextSegment{}
			}
			row = append(row, edtypes.TableCell{Content: content})
		}
		if len(row) > 0 {
			t.Rows = append(t.Rows, row)
		}
	}

	// Прямоугольность и согласование длин ColumnWidths/RowHeights.
	edtypes.NormalizeTable(t)
	p.applyGeometry(&b, n)
	return b
}

func (p *parseState) unwrapLayoutTable(n *html.Node) []Block {
	var blocks []Block
	for _, tr := range tableRows(n) {
		for _, td := range rowCells(tr) {
			blocks = append(blocks, p.parseBlocks(td)...)
		}
	}
	return blocks
}

func parseColGroup(root *html.Node) []int {
	if root == nil {
		return nil
	}
	var res []int
	iterNodes(root, func(child *html.Node) bool {
		if child.Type != html.ElementNode || child.Data != "col" {
			return false
		}
		styles := parseStyleAttr(getAttrValue("style", child.Attr))
		if w, ok := styles["width"]; ok {
			res = append(res, sizeToInt(w))
			return false
		}
		res = append(res, sizeToInt(getAttrValue("width", child.Attr)))
		return false
	})
	return res
}
