package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
)

func TestParseHeadingAndPlaceholderParagraph(t *testing.T) {
	res, err := Parse("<h1>Welcome</h1><p>Hello @Name</p>")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.IsNativeFormat {
		t.Error("heuristic input marked as native")
	}
	if len(res.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(res.Sections))
	}

	sec := res.Sections[0]
	if sec.ColumnCount != 1 {
		t.Errorf("columnCount = %d, want 1", sec.ColumnCount)
	}
	blocks := sec.Columns[0].Blocks
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}

	h := blocks[0]
	if h.Kind != edtypes.KindHeading || h.Heading == nil {
		t.Fatalf("first block kind = %s", h.Kind)
	}
	if h.Heading.Level != 1 {
		t.Errorf("level = %d, want 1", h.Heading.Level)
	}
	if edtypes.PlainText(h.Heading.Content) != "Welcome" {
		t.Errorf("heading text = %q", edtypes.PlainText(h.Heading.Content))
	}

	p := blocks[1]
	if p.Kind != edtypes.KindParagraph || p.Paragraph == nil {
		t.Fatalf("second block kind = %s", p.Kind)
	}
	segs := p.Paragraph.Content
	if len(segs) != 2 {
		t.Fatalf("paragraph segments = %d, want 2: %+v", len(segs), segs)
	}
	if segs[0].Text != "Hello " {
		t.Errorf("segment 0 = %q, want \"Hello \"", segs[0].Text)
	}
	if segs[1].Text != "@Name" {
		t.Errorf("segment 1 = %q, want \"@Name\"", segs[1].Text)
	}
	if v, ok := segs[1].HasMark(edtypes.MarkPlaceholder); !ok || v != "@Name" {
		t.Errorf("placeholder mark = %q, ok=%v", v, ok)
	}
}

// Таблица верстки с одной строкой из двух ячеек не становится блоком-таблицей:
// ее содержимое превращается в обычные блоки контента.
func TestParseLayoutTableUnwrapped(t *testing.T) {
	res, err := Parse(`<table width="500" cellpadding="4"><tr><td>A</td><td>B</td></tr></table>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var texts []string
	for _, sec := range res.Sections {
		for _, col := range sec.Columns {
			for _, b := range col.Blocks {
				if b.Kind == edtypes.KindTable {
					t.Fatal("layout table classified as data table")
				}
				if b.Kind == edtypes.KindParagraph {
					texts = append(texts, edtypes.PlainText(b.Paragraph.Content))
				}
			}
		}
	}
	if len(texts) != 2 || texts[0] != "A" || texts[1] != "B" {
		t.Errorf("content blocks = %v, want [A B]", texts)
	}
}

func TestParseDataTable(t *testing.T) {
	res, err := Parse("<table><thead><tr><th>Name</th></tr></thead><tbody><tr><td>John</td></tr></tbody></table>")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(res.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(res.Sections))
	}
	blocks := res.Sections[0].Columns[0].Blocks
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
	b := blocks[0]
	if b.Kind != edtypes.KindTable || b.Table == nil {
		t.Fatalf("kind = %s, want table", b.Kind)
	}
	if !b.Table.HeaderRow {
		t.Error("headerRow = false, want true")
	}
	if len(b.Table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(b.Table.Rows))
	}
	if got := edtypes.PlainText(b.Table.Rows[0][0].Content); got != "Name" {
		t.Errorf("header cell = %q, want Name", got)
	}
	if got := edtypes.PlainText(b.Table.Rows[1][0].Content); got != "John" {
		t.Errorf("body cell = %q, want John", got)
	}
}

func TestParseGridColumns(t *testing.T) {
	res, err := Parse(`<div style="display:grid;grid-template-columns:1fr 1fr"><div><p>left</p></div><div><p>right</p></div></div>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(res.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(res.Sections))
	}
	sec := res.Sections[0]
	if sec.ColumnCount != 2 || len(sec.Columns) != 2 {
		t.Fatalf("columnCount = %d, columns = %d", sec.ColumnCount, len(sec.Columns))
	}
	if got := edtypes.PlainText(sec.Columns[0].Blocks[0].Paragraph.Content); got != "left" {
		t.Errorf("column 0 = %q", got)
	}
	if got := edtypes.PlainText(sec.Columns[1].Blocks[0].Paragraph.Content); got != "right" {
		t.Errorf("column 1 = %q", got)
	}
}

func TestParseUnrecognizedPreservedAsRaw(t *testing.T) {
	res, err := Parse("<p>before</p><pre><code>x = 1</code></pre><p>after</p>")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var rawCount int
	for _, sec := range res.Sections {
		for _, col := range sec.Columns {
			for _, b := range col.Blocks {
				if b.Kind == edtypes.KindRawHTML {
					rawCount++
					if !strings.Contains(b.RawHTML.HTML, "x = 1") {
						t.Errorf("raw content lost: %q", b.RawHTML.HTML)
					}
				}
			}
		}
	}
	if rawCount != 1 {
		t.Errorf("raw blocks = %d, want 1", rawCount)
	}
	if PreservedRawCount(res.Warnings) != 1 {
		t.Errorf("warning count = %d, want 1", PreservedRawCount(res.Warnings))
	}
}

func TestParseFormControls(t *testing.T) {
	res, err := Parse(`
		<label for="n">Имя</label><input id="n" type="text" placeholder="введите имя"/>
		<input type="date"/>
		<input type="checkbox" checked/> Согласен
		<select><option>One</option><option selected>Two</option></select>
		<textarea rows="6">note</textarea>
	`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	kinds := map[BlockKind]int{}
	for _, sec := range res.Sections {
		for _, col := range sec.Columns {
			for _, b := range col.Blocks {
				kinds[b.Kind]++
			}
		}
	}
	for _, want := range []BlockKind{
		edtypes.KindTextInput, edtypes.KindDatePicker, edtypes.KindSingleCheckbox,
		edtypes.KindDropdown, edtypes.KindTextarea,
	} {
		if kinds[want] == 0 {
			t.Errorf("kind %s not produced, got %v", want, kinds)
		}
	}
}

func TestParseFieldsetRadioGroup(t *testing.T) {
	res, err := Parse(`<fieldset><legend>Выбор</legend>
		<label><input type="radio" name="opt" value="a" checked/>A</label>
		<label><input type="radio" name="opt" value="b"/>B</label>
	</fieldset>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var rg *edtypes.RadioGroup
	for _, sec := range res.Sections {
		for _, col := range sec.Columns {
			for _, b := range col.Blocks {
				if b.Kind == edtypes.KindRadioGroup {
					rg = b.RadioGroup
				}
			}
		}
	}
	if rg == nil {
		t.Fatal("radio group not produced")
	}
	if len(rg.Options) != 2 {
		t.Fatalf("options = %d, want 2", len(rg.Options))
	}
	if rg.Selected != "A" {
		t.Errorf("selected = %q, want A", rg.Selected)
	}
	if rg.Name != "opt" {
		t.Errorf("name = %q, want opt", rg.Name)
	}
}

// float переживает санацию и задает выравнивание изображения.
func TestParseFloatedImage(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want edtypes.TextAlign
	}{
		{name: "left", src: `<img src="logo.png" style="float:left"/>`, want: edtypes.LeftAlign},
		{name: "right", src: `<img src="logo.png" style="float:right"/>`, want: edtypes.RightAlign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			b := res.Sections[0].Columns[0].Blocks[0]
			if b.Kind != edtypes.KindImage || b.Image == nil {
				t.Fatalf("kind = %s, want image", b.Kind)
			}
			if b.Image.Align != tt.want {
				t.Errorf("align = %q, want %q", b.Image.Align, tt.want)
			}
		})
	}
}

// Параграф, разрезанный вокруг изображения, не дублирует data-block-id.
func TestParseSplitParagraphKeepsIDsUnique(t *testing.T) {
	res, err := Parse(`<p data-block-id="orig">before<img src="pic.png"/>after</p>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var blocks []Block
	for _, sec := range res.Sections {
		for _, col := range sec.Columns {
			blocks = append(blocks, col.Blocks...)
		}
	}
	if len(blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(blocks))
	}
	if blocks[0].Kind != edtypes.KindParagraph || blocks[0].ID != "orig" {
		t.Errorf("first fragment: kind = %s, id = %q, want paragraph orig", blocks[0].Kind, blocks[0].ID)
	}
	seen := map[string]bool{}
	for i, b := range blocks {
		if seen[b.ID] {
			t.Errorf("block %d reuses id %q", i, b.ID)
		}
		seen[b.ID] = true
	}
}

func TestParseMalformedInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t  "} {
		_, err := Parse(input)
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedInput", input, err)
		}
	}
}

// Скрипты вырезаются санацией до классификации.
func TestParseStripsScripts(t *testing.T) {
	res, err := Parse(`<p onclick="evil()">text</p><script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for _, sec := range res.Sections {
		for _, col := range sec.Columns {
			for _, b := range col.Blocks {
				if b.Kind == edtypes.KindRawHTML && strings.Contains(b.RawHTML.HTML, "alert") {
					t.Error("script survived sanitization")
				}
			}
		}
	}
}

func TestParseHeadingLevelClamped(t *testing.T) {
	res, err := Parse("<h6>deep</h6>")
	if err != nil {
		t.Fatal(err)
	}
	b := res.Sections[0].Columns[0].Blocks[0]
	if b.Kind != edtypes.KindHeading {
		t.Fatalf("kind = %s", b.Kind)
	}
	if b.Heading.Level != 4 {
		t.Errorf("level = %d, want 4", b.Heading.Level)
	}
}
