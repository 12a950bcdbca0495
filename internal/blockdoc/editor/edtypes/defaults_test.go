package edtypes

import (
	"testing"
)

// Каждый вид закрытого объединения обязан получать непустую полезную нагрузку.
func TestNewBlockCoversAllKinds(t *testing.T) {
	for _, kind := range AllKinds {
		t.Run(string(kind), func(t *testing.T) {
			b := NewBlock(kind)
			if b.ID == "" {
				t.Error("missing ID")
			}
			if b.Kind != kind {
				t.Errorf("kind = %s, want %s", b.Kind, kind)
			}
			if b.WidthPct != 100 {
				t.Errorf("widthPct = %d, want 100", b.WidthPct)
			}
			if payloadCount(&b) != 1 {
				t.Errorf("expected exactly one payload, got %d", payloadCount(&b))
			}
		})
	}
}

func payloadCount(b *Block) int {
	n := 0
	for _, set := range []bool{
		b.Heading != nil, b.Paragraph != nil, b.Divider != nil, b.Image != nil,
		b.TextInput != nil, b.Textarea != nil, b.Dropdown != nil, b.RadioGroup != nil,
		b.CheckboxGroup != nil, b.SingleCheckbox != nil, b.DatePicker != nil,
		b.FileUpload != nil, b.Signature != nil, b.Table != nil, b.List != nil,
		b.Button != nil, b.RawHTML != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func TestNewBlockUnknownKindBecomesRawHTML(t *testing.T) {
	b := NewBlock(BlockKind("videoEmbed"))
	if b.Kind != KindRawHTML || b.RawHTML == nil {
		t.Errorf("unknown kind: got %s, rawHtml=%v", b.Kind, b.RawHTML != nil)
	}
}

func TestDefaultTableShape(t *testing.T) {
	b := NewBlock(KindTable)
	tbl := b.Table
	if !tbl.HeaderRow {
		t.Error("default table must have a header row")
	}
	if len(tbl.Rows) != 2 || len(tbl.ColumnWidths) != 3 || len(tbl.RowHeights) != 2 {
		t.Errorf("shape: rows=%d widths=%d heights=%d", len(tbl.Rows), len(tbl.ColumnWidths), len(tbl.RowHeights))
	}
	for ri, row := range tbl.Rows {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", ri, len(row))
		}
	}
}

func TestApplyDefaultsFillsMissingPayload(t *testing.T) {
	b := Block{Kind: KindHeading}
	ApplyDefaults(&b)
	if b.ID == "" {
		t.Error("ID not filled")
	}
	if b.Heading == nil {
		t.Fatal("heading payload not filled")
	}
	if b.Heading.Level != 1 {
		t.Errorf("level = %d, want 1", b.Heading.Level)
	}
}

func TestApplyDefaultsClampsHeadingLevel(t *testing.T) {
	b := NewBlock(KindHeading)
	b.Heading.Level = 9
	ApplyDefaults(&b)
	if b.Heading.Level != 1 {
		t.Errorf("level = %d, want 1", b.Heading.Level)
	}
}

func TestApplyDefaultsUnknownKind(t *testing.T) {
	b := Block{Kind: BlockKind("carousel")}
	ApplyDefaults(&b)
	if b.Kind != KindRawHTML || b.RawHTML == nil {
		t.Errorf("unknown kind not downgraded: %s", b.Kind)
	}
}

func TestNormalizeTableRepairsRaggedRows(t *testing.T) {
	tbl := &Table{
		Rows: [][]TableCell{
			{{Content: []TextSegment{{Text: "a"}}}, {}, {}},
			{{Content: []TextSegment{{Text: "b"}}}},
		},
	}
	NormalizeTable(tbl)

	if len(tbl.ColumnWidths) != 3 {
		t.Errorf("widths = %d, want 3", len(tbl.ColumnWidths))
	}
	if len(tbl.RowHeights) != 2 {
		t.Errorf("heights = %d, want 2", len(tbl.RowHeights))
	}
	for ri, row := range tbl.Rows {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", ri, len(row))
		}
		for ci, cell := range row {
			if cell.Content == nil {
				t.Errorf("cell (%d,%d) content is nil", ri, ci)
			}
		}
	}
}

func TestNormalizeTableEmptyFallsBackToDefault(t *testing.T) {
	tbl := &Table{}
	NormalizeTable(tbl)
	if len(tbl.Rows) != 2 || len(tbl.ColumnWidths) != 3 {
		t.Errorf("empty table not reset: rows=%d widths=%d", len(tbl.Rows), len(tbl.ColumnWidths))
	}
}

func TestApplySectionDefaultsMergesExtraColumns(t *testing.T) {
	s := Section{
		ColumnCount: 2,
		Columns: []Column{
			{Blocks: []Block{NewBlock(KindParagraph)}},
			{Blocks: []Block{NewBlock(KindParagraph)}},
			{Blocks: []Block{NewBlock(KindHeading), NewBlock(KindDivider)}},
		},
	}
	ApplySectionDefaults(&s)

	if len(s.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(s.Columns))
	}
	if len(s.Columns[1].Blocks) != 3 {
		t.Errorf("last column blocks = %d, want 3 (merged)", len(s.Columns[1].Blocks))
	}
}
