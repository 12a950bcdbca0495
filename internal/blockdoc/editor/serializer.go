// Структурный слой сериализатора: секции -> HTML.
//
// Каждому виду блока соответствует фиксированный HTML-шаблон, геометрия и
// типографика отражаются инлайновыми стилями. Экспорт всегда встраивает
// канонический блоб метаданных, поэтому реимпорт собственного HTML безпотерен.
package editor

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
	"github.com/tdewolff/minify/v2"
	htmlmin "github.com/tdewolff/minify/v2/html"
)

// SizeWarnThreshold - порог нефатального предупреждения о размере экспорта в байтах.
var SizeWarnThreshold = 200 * 1024

const documentCSS = `body{font-family:Arial,Helvetica,sans-serif;margin:0;padding:24px;color:#1a1a1a}
.doc-section{margin:0 auto;max-width:800px}
.doc-column{min-width:0}
.doc-placeholder{background-color:#eef2ff;border-radius:3px;padding:0 2px}
.doc-field label{display:block;margin-bottom:4px;font-size:13px;color:#444}
.doc-signature-line{border-bottom:1px solid #888;height:48px}
.doc-button{display:inline-block;padding:8px 20px;border-radius:4px;text-decoration:none}`

var minifier *minify.M = minify.New()

func init() {
	minifier.Add("text/html", &htmlmin.Minifier{
		KeepComments:     true,
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
}

// Serialize экспортирует документ в полный HTML (head + стили + body).
func Serialize(doc *Document) (string, []Warning) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n<style>\n")
	b.WriteString(documentCSS)
	b.WriteString("\n</style>\n</head>\n<body>\n")
	b.WriteString(EmbedMetadata(doc))
	b.WriteString("\n")
	writeSections(&b, doc.Sections)
	b.WriteString("</body>\n</html>\n")
	return b.String(), sizeWarnings(b.Len())
}

// SerializeBody экспортирует только фрагмент body. Блоб метаданных
// присутствует и во фрагменте, чтобы реимпорт оставался безпотерьным.
func SerializeBody(doc *Document) (string, []Warning) {
	var b strings.Builder
	b.WriteString(EmbedMetadata(doc))
	b.WriteString("\n")
	writeSections(&b, doc.Sections)
	return b.String(), sizeWarnings(b.Len())
}

// SerializeMinified - полный документ, пропущенный через HTML-минификатор.
func SerializeMinified(doc *Document) (string, []Warning, error) {
	out, warnings := Serialize(doc)
	minified, err := minifier.String("text/html", out)
	if err != nil {
		return "", warnings, err
	}
	return minified, warnings, nil
}

func sizeWarnings(size int) []Warning {
	if size <= SizeWarnThreshold {
		return nil
	}
	w := Warning{
		Kind:   WarnOversize,
		Detail: fmt.Sprintf("export size %d bytes exceeds threshold %d", size, SizeWarnThreshold),
	}
	slog.Warn("Oversize export", "size", size, "threshold", SizeWarnThreshold)
	return []Warning{w}
}

func writeSections(b *strings.Builder, sections []Section) {
	for i := range sections {
		writeSection(b, &sections[i])
	}
}

func writeSection(b *strings.Builder, sec *Section) {
	if sec.ColumnCount <= 1 {
		fmt.Fprintf(b, `<div class="doc-section" data-section-id="%s">`, escapeAttr(sec.ID))
		b.WriteString("\n")
		for ci := range sec.Columns {
			writeBlocks(b, sec.Columns[ci].Blocks)
		}
		b.WriteString("</div>\n")
		return
	}

	tracks := strings.TrimSuffix(strings.Repeat("1fr ", sec.ColumnCount), " ")
	fmt.Fprintf(b, `<div class="doc-section" data-section-id="%s" data-columns="%d" style="display:grid;grid-template-columns:%s;gap:16px">`,
		escapeAttr(sec.ID), sec.ColumnCount, tracks)
	b.WriteString("\n")
	for ci := range sec.Columns {
		b.WriteString(`<div class="doc-column">` + "\n")
		writeBlocks(b, sec.Columns[ci].Blocks)
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")
}

func writeBlocks(b *strings.Builder, blocks []Block) {
	for i := range blocks {
		writeBlock(b, &blocks[i])
	}
}

// writeBlock применяет фиксированный шаблон вида блока.
// Каждый вид закрытого объединения обязан быть обработан здесь.
func writeBlock(b *strings.Builder, block *Block) {
	switch block.Kind {
	case edtypes.KindHeading:
		h := block.Heading
		fmt.Fprintf(b, `<h%d %s>%s</h%d>`, h.Level, blockAttrs(block, textStyleCSS(h.Style)), SerializeMarks(h.Content), h.Level)
	case edtypes.KindParagraph:
		p := block.Paragraph
		fmt.Fprintf(b, `<p %s>%s</p>`, blockAttrs(block, textStyleCSS(p.Style)), SerializeMarks(p.Content))
	case edtypes.KindDivider:
		d := block.Divider
		css := fmt.Sprintf("border:none;height:%dpx;background-color:%s", d.Thickness, dividerColor(d.Color))
		fmt.Fprintf(b, `<hr %s/>`, blockAttrs(block, css))
	case edtypes.KindImage:
		img := block.Image
		css := ""
		if img.Width > 0 {
			css = fmt.Sprintf("width:%dpx", img.Width)
		}
		switch img.Align {
		case LeftAlign:
			css = joinCSS(css, "float:left")
		case RightAlign:
			css = joinCSS(css, "float:right")
		}
		fmt.Fprintf(b, `<img src="%s" alt="%s" %s/>`, escapeAttr(img.Src), escapeAttr(img.Alt), blockAttrs(block, css))
	case edtypes.KindTextInput:
		in := block.TextInput
		fmt.Fprintf(b, `<div class="doc-field" data-block="textInput" %s><label>%s</label><input type="%s" value="%s" placeholder="%s"%s/></div>`,
			blockAttrs(block, ""), escapeText(in.Label), escapeAttr(in.InputType), escapeAttr(in.Value), escapeAttr(in.Hint), boolAttr("required", in.Required))
	case edtypes.KindTextarea:
		ta := block.Textarea
		fmt.Fprintf(b, `<div class="doc-field" data-block="textarea" %s><label>%s</label><textarea rows="%d" placeholder="%s"%s>%s</textarea></div>`,
			blockAttrs(block, ""), escapeText(ta.Label), ta.Rows, escapeAttr(ta.Hint), boolAttr("required", ta.Required), escapeText(ta.Value))
	case edtypes.KindDropdown:
		writeDropdown(b, block)
	case edtypes.KindRadioGroup:
		rg := block.RadioGroup
		fmt.Fprintf(b, `<fieldset data-block="radioGroup" %s><legend>%s</legend>`, blockAttrs(block, ""), escapeText(rg.Label))
		for _, opt := range rg.Options {
			fmt.Fprintf(b, `<label><input type="radio" name="%s" value="%s"%s/>%s</label>`,
				escapeAttr(rg.Name), escapeAttr(opt), boolAttr("checked", opt == rg.Selected && opt != ""), escapeText(opt))
		}
		b.WriteString("</fieldset>")
	case edtypes.KindCheckboxGroup:
		cg := block.CheckboxGroup
		fmt.Fprintf(b, `<fieldset data-block="checkboxGroup" %s><legend>%s</legend>`, blockAttrs(block, ""), escapeText(cg.Label))
		for _, opt := range cg.Options {
			fmt.Fprintf(b, `<label><input type="checkbox" name="%s" value="%s"%s/>%s</label>`,
				escapeAttr(cg.Name), escapeAttr(opt.Label), boolAttr("checked", opt.Checked), escapeText(opt.Label))
		}
		b.WriteString("</fieldset>")
	case edtypes.KindSingleCheckbox:
		sc := block.SingleCheckbox
		fmt.Fprintf(b, `<div class="doc-field" data-block="singleCheckbox" %s><label><input type="checkbox"%s/>%s</label></div>`,
			blockAttrs(block, ""), boolAttr("checked", sc.Checked), escapeText(sc.Label))
	case edtypes.KindDatePicker:
		dp := block.DatePicker
		fmt.Fprintf(b, `<div class="doc-field" data-block="datePicker" %s><label>%s</label><input type="date" value="%s"%s/></div>`,
			blockAttrs(block, ""), escapeText(dp.Label), escapeAttr(dp.Value), boolAttr("required", dp.Required))
	case edtypes.KindFileUpload:
		fu := block.FileUpload
		fmt.Fprintf(b, `<div class="doc-field" data-block="fileUpload" %s><label>%s</label><input type="file" accept="%s"%s/></div>`,
			blockAttrs(block, ""), escapeText(fu.Label), escapeAttr(fu.Accept), boolAttr("required", fu.Required))
	case edtypes.KindSignature:
		// Инертный элемент захвата подписи; интерактив - забота внешнего слоя.
		sg := block.Signature
		fmt.Fprintf(b, `<div class="doc-signature" data-block="signature" %s><span>%s</span><div class="doc-signature-line"></div></div>`,
			blockAttrs(block, ""), escapeText(sg.Label))
	case edtypes.KindTable:
		writeTable(b, block)
	case edtypes.KindList:
		writeList(b, block)
	case edtypes.KindButton:
		bt := block.Button
		css := ""
		if bt.Color != nil {
			css = joinCSS(css, "background-color:"+bt.Color.Hex())
		}
		if bt.TextColor != nil {
			css = joinCSS(css, "color:"+bt.TextColor.Hex())
		}
		fmt.Fprintf(b, `<div style="text-align:%s"><a class="doc-button" data-block="button" href="%s" %s>%s</a></div>`,
			alignString(bt.Align), escapeAttr(bt.URL), blockAttrs(block, css), escapeText(bt.Label))
	case edtypes.KindRawHTML:
		// Контент rawHtml уже прошел санацию на импорте и выводится как есть.
		b.WriteString(block.RawHTML.HTML)
	default:
		slog.Warn("Unknown block kind for serialization", "kind", string(block.Kind))
	}
	b.WriteString("\n")
}

func writeDropdown(b *strings.Builder, block *Block) {
	dd := block.Dropdown
	fmt.Fprintf(b, `<div class="doc-field" data-block="dropdown" %s><label>%s</label><select%s>`,
		blockAttrs(block, ""), escapeText(dd.Label), boolAttr("required", dd.Required))
	for _, opt := range dd.Options {
		fmt.Fprintf(b, `<option%s>%s</option>`, boolAttr("selected", opt == dd.Selected && opt != ""), escapeText(opt))
	}
	b.WriteString("</select></div>")
}

func writeTable(b *strings.Builder, block *Block) {
	t := block.Table
	fmt.Fprintf(b, `<table data-header-row="%t" %s><colgroup>`, t.HeaderRow, blockAttrs(block, "border-collapse:collapse"))
	for _, w := range t.ColumnWidths {
		if w > 0 {
			fmt.Fprintf(b, `<col style="width:%d%%"/>`, w)
		} else {
			b.WriteString("<col/>")
		}
	}
	b.WriteString("</colgroup>")

	rows := t.Rows
	if t.HeaderRow && len(rows) > 0 {
		b.WriteString("<thead><tr>")
		for _, cell := range rows[0] {
			fmt.Fprintf(b, "<th>%s</th>", SerializeMarks(cell.Content))
		}
		b.WriteString("</tr></thead>")
		rows = rows[1:]
	}
	b.WriteString("<tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(b, "<td>%s</td>", SerializeMarks(cell.Content))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
}

func writeList(b *strings.Builder, block *Block) {
	l := block.List
	tag := "ul"
	if l.Numbered {
		tag = "ol"
	}
	fmt.Fprintf(b, `<%s %s>`, tag, blockAttrs(block, textStyleCSS(l.Style)))
	for _, item := range l.Items {
		fmt.Fprintf(b, "<li>%s</li>", SerializeMarks(item))
	}
	fmt.Fprintf(b, "</%s>", tag)
}

// blockAttrs собирает общие атрибуты блока: идентификатор, признак
// блокировки и инлайновый стиль из геометрии плюс стиля вида.
func blockAttrs(block *Block, extraCSS string) string {
	css := geometryCSS(block)
	css = joinCSS(css, extraCSS)

	var b strings.Builder
	fmt.Fprintf(&b, `data-block-id="%s"`, escapeAttr(block.ID))
	if block.Locked {
		b.WriteString(` data-locked="true"`)
	}
	if css != "" {
		fmt.Fprintf(&b, ` style="%s"`, escapeAttr(css))
	}
	return b.String()
}

func geometryCSS(block *Block) string {
	css := ""
	if block.WidthPct > 0 && block.WidthPct != 100 {
		css = joinCSS(css, fmt.Sprintf("width:%d%%", block.WidthPct))
	}
	m := block.Margins
	if m.Top != 0 || m.Right != 0 || m.Bottom != 0 || m.Left != 0 {
		css = joinCSS(css, fmt.Sprintf("margin:%dpx %dpx %dpx %dpx", m.Top, m.Right, m.Bottom, m.Left))
	}
	if block.PaddingY != 0 || block.PaddingX != 0 {
		css = joinCSS(css, fmt.Sprintf("padding:%dpx %dpx", block.PaddingY, block.PaddingX))
	}
	return css
}

func textStyleCSS(style edtypes.TextStyle) string {
	css := ""
	if style.FontSize > 0 {
		css = joinCSS(css, "font-size:"+strconv.Itoa(style.FontSize)+"px")
	}
	if style.FontWeight > 0 {
		css = joinCSS(css, "font-weight:"+strconv.Itoa(style.FontWeight))
	}
	if style.Align != LeftAlign {
		css = joinCSS(css, "text-align:"+alignString(style.Align))
	}
	if style.LineHeight > 0 {
		css = joinCSS(css, "line-height:"+strconv.FormatFloat(style.LineHeight, 'g', -1, 64))
	}
	if style.Color != nil {
		css = joinCSS(css, "color:"+style.Color.Hex())
	}
	return css
}

func joinCSS(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + ";" + b
}

func dividerColor(c *Color) string {
	if c != nil {
		return c.Hex()
	}
	return "#d0d0d0"
}

func boolAttr(name string, on bool) string {
	if on {
		return " " + name
	}
	return ""
}
