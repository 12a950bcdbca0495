// Пакет для экспорта документов в PDF формат.
// Предоставляет функциональность для создания PDF документов из блочной
// модели: секции с колонками раскладываются по ширине страницы, каждый
// вид блока отрисовывается своим способом.
//
// Основные возможности:
//   - Генерация PDF из документа (секции, колонки, блоки).
//   - Поддержка стилизации текста (жирный, курсив, подчеркнутый, цвет).
//   - Создание таблиц с заголовочной строкой и шириной колонок.
//   - Инертная отрисовка полей форм (подпись, значение, рамка).
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
)

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string

	defaultMargins Margins
}

type Margins struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func (m *Margins) GetMargins(pdf fpdf.Pdf) {
	m.Left, m.Top, m.Right, m.Bottom = pdf.GetMargins()
}

// DocumentToFPDF отрисовывает документ в PDF (A4, портрет) и пишет результат в out.
func DocumentToFPDF(doc *edtypes.Document, out io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "") // 210*297 mm

	w := pdfWriter{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor("cp1251"),
	}
	w.defaultMargins.GetMargins(w.pdf)

	pdf.AddPage()

	for i := range doc.Sections {
		w.writeSection(&doc.Sections[i])
	}

	return pdf.Output(out)
}

func (w *pdfWriter) writeSection(sec *edtypes.Section) {
	if sec.ColumnCount <= 1 {
		for bi := range sec.Columns[0].Blocks {
			w.writeBlock(&sec.Columns[0].Blocks[bi], w.pageWidth())
		}
		w.pdf.Ln(3)
		return
	}

	const gap = 4.0
	total := w.pageWidth()
	colWidth := (total - gap*float64(sec.ColumnCount-1)) / float64(sec.ColumnCount)

	startY := w.pdf.GetY()
	maxY := startY
	for ci := range sec.Columns {
		x := w.defaultMargins.Left + float64(ci)*(colWidth+gap)
		w.pdf.SetXY(x, startY)
		w.pdf.SetLeftMargin(x)
		w.pdf.SetRightMargin(210 - x - colWidth)
		for bi := range sec.Columns[ci].Blocks {
			w.writeBlock(&sec.Columns[ci].Blocks[bi], colWidth)
		}
		if w.pdf.GetY() > maxY {
			maxY = w.pdf.GetY()
		}
	}
	w.resetMargins()
	w.pdf.SetY(maxY + 3)
}

func (w *pdfWriter) writeBlock(b *edtypes.Block, width float64) {
	switch b.Kind {
	case edtypes.KindHeading:
		if b.Heading == nil {
			return
		}
		size := [5]float64{0, 22, 18, 15, 13}[clampLevel(b.Heading.Level)]
		for _, seg := range b.Heading.Content {
			bolded := seg
			if _, ok := seg.HasMark(edtypes.MarkBold); !ok {
				bolded.Marks = append([]edtypes.Mark{{Kind: edtypes.MarkBold}}, seg.Marks...)
			}
			w.writeSegment(bolded, size)
		}
		w.pdf.Ln(-1)
		w.pdf.Ln(3)
	case edtypes.KindParagraph:
		if b.Paragraph == nil {
			return
		}
		w.writeSegments(b.Paragraph.Content, styleSize(b.Paragraph.Style))
		w.pdf.Ln(2)
	case edtypes.KindDivider:
		w.pdf.Ln(2)
		w.pdf.SetDrawColor(180, 180, 180)
		w.pdf.Line(w.pdf.GetX(), w.pdf.GetY(), w.pdf.GetX()+width, w.pdf.GetY())
		w.pdf.Ln(3)
	case edtypes.KindImage:
		w.writeImagePlaceholder(b.Image, width)
	case edtypes.KindTextInput:
		if b.TextInput != nil {
			w.writeField(b.TextInput.Label, b.TextInput.Value, width)
		}
	case edtypes.KindTextarea:
		if b.Textarea != nil {
			w.writeField(b.Textarea.Label, b.Textarea.Value, width)
		}
	case edtypes.KindDropdown:
		if b.Dropdown != nil {
			w.writeField(b.Dropdown.Label, b.Dropdown.Selected, width)
		}
	case edtypes.KindRadioGroup:
		if b.RadioGroup != nil {
			opts := make([]edtypes.ChoiceOption, len(b.RadioGroup.Options))
			for i, o := range b.RadioGroup.Options {
				opts[i] = edtypes.ChoiceOption{Label: o, Checked: o == b.RadioGroup.Selected}
			}
			w.writeChoices(b.RadioGroup.Label, opts)
		}
	case edtypes.KindCheckboxGroup:
		if b.CheckboxGroup != nil {
			w.writeChoices(b.CheckboxGroup.Label, b.CheckboxGroup.Options)
		}
	case edtypes.KindSingleCheckbox:
		if b.SingleCheckbox != nil {
			mark := " "
			if b.SingleCheckbox.Checked {
				mark = "x"
			}
			w.setBodyFont()
			w.write(fmt.Sprintf("[%s] %s", mark, b.SingleCheckbox.Label))
			w.pdf.Ln(-1)
		}
	case edtypes.KindDatePicker:
		if b.DatePicker != nil {
			w.writeField(b.DatePicker.Label, b.DatePicker.Value, width)
		}
	case edtypes.KindFileUpload:
		if b.FileUpload != nil {
			w.writeField(b.FileUpload.Label, "", width)
		}
	case edtypes.KindSignature:
		if b.Signature != nil {
			w.setBodyFont()
			w.write(b.Signature.Label)
			w.pdf.Ln(10)
			w.pdf.SetDrawColor(0, 0, 0)
			w.pdf.Line(w.pdf.GetX(), w.pdf.GetY(), w.pdf.GetX()+width*0.6, w.pdf.GetY())
			w.pdf.Ln(4)
		}
	case edtypes.KindTable:
		if b.Table != nil {
			w.writeTable(b.Table, width)
		}
	case edtypes.KindList:
		w.writeList(b.List)
	case edtypes.KindButton:
		if b.Button != nil {
			w.setSegmentFont(edtypes.TextSegment{Marks: []edtypes.Mark{{Kind: edtypes.MarkBold}}}, 14)
			w.pdf.SetTextColor(37, 99, 235)
			if b.Button.URL != "" {
				w.pdf.WriteLinkString(6, w.tr(cleanUnsupportedSymbols(b.Button.Label)), b.Button.URL)
			} else {
				w.write(b.Button.Label)
			}
			w.pdf.SetTextColor(0, 0, 0)
			w.pdf.Ln(8)
		}
	case edtypes.KindRawHTML:
		// сырой HTML в PDF не раскладывается, выводим текстовое содержимое
		if b.RawHTML != nil {
			w.setBodyFont()
			w.pdf.SetTextColor(120, 120, 120)
			w.write(stripTags(b.RawHTML.HTML))
			w.pdf.SetTextColor(0, 0, 0)
			w.pdf.Ln(-1)
		}
	}
}

func (w *pdfWriter) writeSegments(segs []edtypes.TextSegment, size float64) {
	for _, seg := range segs {
		if seg.Text == "\n" {
			w.pdf.Ln(-1)
			continue
		}
		w.writeSegment(seg, size)
	}
	w.pdf.Ln(-1)
}

func (w *pdfWriter) writeSegment(seg edtypes.TextSegment, size float64) {
	w.setSegmentFont(seg, size)
	_, s := w.pdf.GetFontSize()

	if bg, ok := seg.HasMark(edtypes.MarkBgColor); ok {
		w.SetHexFillColor(bg)
		x := w.pdf.GetX()
		w.pdf.SetX(x + w.pdf.GetCellMargin())
		w.pdf.CellFormat(w.pdf.GetStringWidth(w.tr(seg.Text)), s+0.1, "", "", 0, "L", true, 0, "")
		w.pdf.SetX(x)
	}

	if link, ok := seg.HasMark(edtypes.MarkLink); ok {
		w.write(seg.Text, link)
		return
	}
	w.write(seg.Text)
}

func (w *pdfWriter) setSegmentFont(seg edtypes.TextSegment, size float64) {
	styleStr := ""
	if _, ok := seg.HasMark(edtypes.MarkBold); ok {
		styleStr += "B"
	}
	if _, ok := seg.HasMark(edtypes.MarkItalic); ok {
		styleStr += "I"
	}
	if _, ok := seg.HasMark(edtypes.MarkStrikethrough); ok {
		styleStr += "S"
	}
	if _, ok := seg.HasMark(edtypes.MarkUnderline); ok {
		styleStr += "U"
	}

	if v, ok := seg.HasMark(edtypes.MarkFontSize); ok {
		if px, err := strconv.Atoi(strings.TrimSuffix(v, "px")); err == nil && px > 0 {
			size = float64(px)
		}
	}
	if size == 0 {
		size = 14
	}
	w.pdf.SetFont("Helvetica", styleStr, size*0.75)

	if v, ok := seg.HasMark(edtypes.MarkTextColor); ok {
		if c, err := edtypes.ParseColor(v); err == nil {
			w.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
			return
		}
	}
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *pdfWriter) setBodyFont() {
	w.pdf.SetFont("Helvetica", "", 10.5)
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *pdfWriter) writeField(label, value string, width float64) {
	w.setBodyFont()
	w.write(label)
	w.pdf.Ln(-1)
	w.pdf.SetDrawColor(160, 160, 160)
	w.pdf.CellFormat(width*0.8, 8, w.tr(cleanUnsupportedSymbols(value)), "1", 1, "LM", false, 0, "")
	w.pdf.Ln(2)
}

func (w *pdfWriter) writeChoices(label string, options []edtypes.ChoiceOption) {
	w.setBodyFont()
	w.write(label)
	w.pdf.Ln(-1)
	w.pdf.SetLeftMargin(w.defaultMargins.Left + 3)
	for _, opt := range options {
		mark := "[ ]"
		if opt.Checked {
			mark = "[x]"
		}
		w.pdf.SetX(w.defaultMargins.Left + 3)
		w.write(mark + " " + opt.Label)
		w.pdf.Ln(-1)
	}
	w.pdf.SetLeftMargin(w.defaultMargins.Left)
	w.pdf.Ln(2)
}

func (w *pdfWriter) writeList(l *edtypes.List) {
	if l == nil {
		return
	}
	w.setBodyFont()
	w.pdf.SetLeftMargin(w.defaultMargins.Left + 3)
	for i, item := range l.Items {
		w.pdf.SetX(w.defaultMargins.Left + 3)
		if l.Numbered {
			w.write(fmt.Sprintf("%d.", i+1))
		} else {
			w.write("-")
		}
		w.pdf.SetX(w.defaultMargins.Left + 8)
		for _, seg := range item {
			w.writeSegment(seg, 14)
		}
		w.pdf.Ln(-1)
	}
	w.pdf.SetLeftMargin(w.defaultMargins.Left)
	w.pdf.Ln(2)
}

func (w *pdfWriter) writeImagePlaceholder(img *edtypes.Image, width float64) {
	if img == nil {
		return
	}
	// изображения по внешним URL не выкачиваются, выводится подпись со ссылкой
	w.setBodyFont()
	w.pdf.SetTextColor(37, 99, 235)
	label := img.Alt
	if label == "" {
		label = img.Src
	}
	w.pdf.WriteLinkString(6, w.tr(cleanUnsupportedSymbols(label)), img.Src)
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(-1)
}

func (w *pdfWriter) writeTable(t *edtypes.Table, width float64) {
	const heightOffset = 2

	colWidth := w.getTableWidthUnits(t, width)
	_, fz := w.pdf.GetFontSize()
	rowHeight := fz + 4

	for ri, row := range t.Rows {
		header := t.HeaderRow && ri == 0
		for ci, cell := range row {
			if ci >= len(colWidth) {
				break
			}
			if header {
				w.SetHexFillColor("#e5edfa")
				w.pdf.SetFont("Helvetica", "B", 10.5)
			} else {
				w.setBodyFont()
			}
			text := w.tr(cleanUnsupportedSymbols(edtypes.PlainText(cell.Content)))
			w.pdf.CellFormat(colWidth[ci], rowHeight+heightOffset, text, "1", 0, "LM", header, 0, "")
		}
		w.pdf.Ln(rowHeight + heightOffset)
	}
	w.pdf.Ln(fz)
}

func (w *pdfWriter) getTableWidthUnits(t *edtypes.Table, width float64) []float64 {
	cols := len(t.ColumnWidths)
	if cols == 0 {
		return nil
	}

	sum := 0
	autoColCount := 0
	for _, s := range t.ColumnWidths {
		sum += s
		if s == 0 {
			autoColCount++
		}
	}

	res := make([]float64, cols)
	if sum == 0 {
		for i := range res {
			res[i] = width / float64(cols)
		}
		return res
	}

	total := sum
	if autoColCount > 0 {
		total += autoColCount * (sum / max(cols-autoColCount, 1))
	}
	for i, s := range t.ColumnWidths {
		if s == 0 {
			s = sum / max(cols-autoColCount, 1)
		}
		res[i] = width / float64(total) * float64(s)
	}
	return res
}

func (w *pdfWriter) write(text string, link ...string) float64 {
	_, s := w.pdf.GetFontSize()
	s += 0.1
	text = w.tr(cleanUnsupportedSymbols(text))
	if len(link) > 0 {
		w.pdf.WriteLinkString(s, text, link[0])
		return 0
	}
	w.pdf.WriteLinkString(s, text, "")
	return w.pdf.GetStringWidth(text)
}

func (w *pdfWriter) SetHexFillColor(hex string) {
	hex = strings.TrimPrefix(hex, "#")
	values, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return
	}
	w.pdf.SetFillColor(
		int(uint8(values>>16)),
		int(uint8((values>>8)&0xFF)),
		int(uint8(values&0xFF)),
	)
}

func (w *pdfWriter) pageWidth() float64 {
	pW, _ := w.pdf.GetPageSize()
	return pW - w.defaultMargins.Left - w.defaultMargins.Right
}

func (w *pdfWriter) resetMargins() {
	w.pdf.SetMargins(w.defaultMargins.Left, w.defaultMargins.Top, w.defaultMargins.Right)
	w.pdf.SetX(w.defaultMargins.Left)
}

func cleanUnsupportedSymbols(text string) string {
	result := ""
	for _, s := range text {
		if s < 65536 {
			result += string(s)
		}
	}
	return result
}

func clampLevel(l int) int {
	if l < 1 {
		return 1
	}
	if l > 4 {
		return 4
	}
	return l
}

func styleSize(st edtypes.TextStyle) float64 {
	if st.FontSize == 0 {
		return 14
	}
	return float64(st.FontSize)
}

func stripTags(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
