package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
)

func newTestSession() *Session {
	return New(50, time.Minute)
}

func TestAddRemoveSection(t *testing.T) {
	s := newTestSession()

	sec := s.AddSection(2, 0)
	require.NotNil(t, sec)
	assert.Equal(t, 2, sec.ColumnCount)
	assert.Len(t, s.Document().Sections, 1)

	require.NoError(t, s.RemoveSection(sec.ID))
	assert.Empty(t, s.Document().Sections)

	assert.ErrorIs(t, s.RemoveSection("missing"), ErrSectionNotFound)
}

// Индекс вставки за границами прижимается к краям, а не паникует.
func TestAddSectionClampsIndex(t *testing.T) {
	s := newTestSession()
	middle := s.AddSection(1, 0)

	first := s.AddSection(1, -1)
	require.NotNil(t, first)
	assert.Equal(t, first.ID, s.Document().Sections[0].ID)
	assert.Equal(t, middle.ID, s.Document().Sections[1].ID)

	last := s.AddSection(1, 100)
	require.NotNil(t, last)
	assert.Equal(t, last.ID, s.Document().Sections[2].ID)
}

func TestAddBlockAndUpdate(t *testing.T) {
	s := newTestSession()
	sec := s.AddSection(1, 0)

	b, err := s.AddBlock(edtypes.KindParagraph, sec.ID, 0, 0)
	require.NoError(t, err)
	require.NotNil(t, b)
	require.NotNil(t, b.Paragraph)

	require.NoError(t, s.UpdateBlock(b.ID, func(blk *edtypes.Block) {
		blk.Paragraph.Content = []edtypes.TextSegment{{Text: "hello"}}
	}))

	got, _, _, _ := s.Document().FindBlock(b.ID)
	require.NotNil(t, got)
	assert.Equal(t, "hello", edtypes.PlainText(got.Paragraph.Content))

	_, err = s.AddBlock(edtypes.KindParagraph, sec.ID, 5, 0)
	assert.ErrorIs(t, err, ErrBadPosition)
	_, err = s.AddBlock(edtypes.KindParagraph, "missing", 0, 0)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestLockedBlockRejectsEdits(t *testing.T) {
	s := newTestSession()
	sec := s.AddSection(1, 0)
	b, err := s.AddBlock(edtypes.KindParagraph, sec.ID, 0, 0)
	require.NoError(t, err)

	require.NoError(t, s.UpdateBlock(b.ID, func(blk *edtypes.Block) {
		blk.Locked = true
	}))

	err = s.UpdateBlock(b.ID, func(blk *edtypes.Block) {
		blk.Paragraph.Content = []edtypes.TextSegment{{Text: "nope"}}
	})
	assert.ErrorIs(t, err, ErrBlockLocked)
}

func TestMoveBlockAcrossSections(t *testing.T) {
	s := newTestSession()
	src := s.AddSection(1, 0)
	dst := s.AddSection(2, 1)
	b, err := s.AddBlock(edtypes.KindHeading, src.ID, 0, 0)
	require.NoError(t, err)

	require.NoError(t, s.MoveBlock(b.ID, dst.ID, 1, 0))

	_, si, ci, _ := s.Document().FindBlock(b.ID)
	assert.Equal(t, dst.ID, s.Document().Sections[si].ID)
	assert.Equal(t, 1, ci)

	assert.ErrorIs(t, s.MoveBlock(b.ID, dst.ID, 9, 0), ErrBadPosition)
}

func TestDuplicateBlockGetsNewID(t *testing.T) {
	s := newTestSession()
	sec := s.AddSection(1, 0)
	b, err := s.AddBlock(edtypes.KindParagraph, sec.ID, 0, 0)
	require.NoError(t, err)
	require.NoError(t, s.UpdateBlock(b.ID, func(blk *edtypes.Block) {
		blk.Paragraph.Content = []edtypes.TextSegment{{Text: "origin"}}
	}))

	dup, err := s.DuplicateBlock(b.ID)
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, dup.ID)
	assert.Equal(t, "origin", edtypes.PlainText(dup.Paragraph.Content))

	blocks := s.Document().Sections[0].Columns[0].Blocks
	require.Len(t, blocks, 2)
	assert.Equal(t, b.ID, blocks[0].ID, "duplicate inserted after the original")
	assert.Equal(t, dup.ID, blocks[1].ID)
}

func TestClipboardCopyCutPaste(t *testing.T) {
	s := newTestSession()
	sec := s.AddSection(1, 0)
	b, err := s.AddBlock(edtypes.KindButton, sec.ID, 0, 0)
	require.NoError(t, err)

	_, err = s.Paste(sec.ID, 0, 0)
	assert.ErrorIs(t, err, ErrEmptyClipboard)

	require.NoError(t, s.CopyToClipboard(b.ID))
	pasted, err := s.Paste(sec.ID, 0, 1)
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, pasted.ID)

	require.NoError(t, s.CutToClipboard(b.ID))
	got, _, _, _ := s.Document().FindBlock(b.ID)
	assert.Nil(t, got, "cut removes the original")

	again, err := s.Paste(sec.ID, 0, 0)
	require.NoError(t, err)
	assert.NotEqual(t, pasted.ID, again.ID)
}

func TestTableRowColumnOpsKeepRectangular(t *testing.T) {
	s := newTestSession()
	sec := s.AddSection(1, 0)
	b, err := s.AddBlock(edtypes.KindTable, sec.ID, 0, 0)
	require.NoError(t, err)

	assertRectangular := func() {
		t.Helper()
		got, _, _, _ := s.Document().FindBlock(b.ID)
		require.NotNil(t, got)
		tbl := got.Table
		cols := len(tbl.ColumnWidths)
		for ri, row := range tbl.Rows {
			assert.Len(t, row, cols, "row %d", ri)
		}
		assert.Len(t, tbl.RowHeights, len(tbl.Rows))
	}

	require.NoError(t, s.AddTableRow(b.ID, 1))
	assertRectangular()
	require.NoError(t, s.AddTableColumn(b.ID, 0))
	assertRectangular()
	require.NoError(t, s.RemoveTableRow(b.ID, 2))
	assertRectangular()
	require.NoError(t, s.RemoveTableColumn(b.ID, 1))
	assertRectangular()

	got, _, _, _ := s.Document().FindBlock(b.ID)
	assert.Len(t, got.Table.Rows, 2)
	assert.Len(t, got.Table.ColumnWidths, 3)
}

func TestRemoveTableRowKeepsLastRow(t *testing.T) {
	s := newTestSession()
	sec := s.AddSection(1, 0)
	b, err := s.AddBlock(edtypes.KindTable, sec.ID, 0, 0)
	require.NoError(t, err)

	require.NoError(t, s.RemoveTableRow(b.ID, 0))
	require.NoError(t, s.RemoveTableRow(b.ID, 0))

	got, _, _, _ := s.Document().FindBlock(b.ID)
	assert.Len(t, got.Table.Rows, 1, "last row never removed")
}

func TestRemoveHeaderRowClearsFlag(t *testing.T) {
	s := newTestSession()
	sec := s.AddSection(1, 0)
	b, err := s.AddBlock(edtypes.KindTable, sec.ID, 0, 0)
	require.NoError(t, err)

	got, _, _, _ := s.Document().FindBlock(b.ID)
	require.True(t, got.Table.HeaderRow)

	require.NoError(t, s.RemoveTableRow(b.ID, 0))
	got, _, _, _ = s.Document().FindBlock(b.ID)
	assert.False(t, got.Table.HeaderRow)
}

// k правок, k undo, k redo - документ возвращается в конечное состояние.
func TestUndoRedoInverse(t *testing.T) {
	s := newTestSession()

	const k = 5
	for i := 0; i < k; i++ {
		s.AddSection(1, i)
	}
	final := s.Snapshot()

	for i := 0; i < k; i++ {
		require.True(t, s.Undo(), "undo %d", i)
	}
	assert.Empty(t, s.Document().Sections)

	for i := 0; i < k; i++ {
		require.True(t, s.Redo(), "redo %d", i)
	}
	assert.Equal(t, len(final.Sections), len(s.Document().Sections))
	for i := range final.Sections {
		assert.Equal(t, final.Sections[i].ID, s.Document().Sections[i].ID)
	}

	assert.False(t, s.Redo(), "redo past newest is a silent no-op")
}

func TestUndoClearsSelection(t *testing.T) {
	s := newTestSession()
	sec := s.AddSection(1, 0)
	b, err := s.AddBlock(edtypes.KindParagraph, sec.ID, 0, 0)
	require.NoError(t, err)

	s.SetSelection(b.ID)
	require.True(t, s.Undo())
	assert.Empty(t, s.Selection())
}

func TestRemoveBlockClearsSelection(t *testing.T) {
	s := newTestSession()
	sec := s.AddSection(1, 0)
	b, err := s.AddBlock(edtypes.KindParagraph, sec.ID, 0, 0)
	require.NoError(t, err)

	s.SetSelection(b.ID)
	require.NoError(t, s.RemoveBlock(b.ID))
	assert.Empty(t, s.Selection())
}

func TestRemoveSectionClearsSelectionInside(t *testing.T) {
	s := newTestSession()
	sec := s.AddSection(1, 0)
	other := s.AddSection(1, 1)
	b, err := s.AddBlock(edtypes.KindParagraph, sec.ID, 0, 0)
	require.NoError(t, err)

	s.SetSelection(b.ID)
	require.NoError(t, s.RemoveSection(other.ID))
	assert.Equal(t, b.ID, s.Selection(), "selection outside removed section survives")

	require.NoError(t, s.RemoveSection(sec.ID))
	assert.Empty(t, s.Selection())
}

func TestLoadAndSnapshotAreValueTransfers(t *testing.T) {
	s := newTestSession()

	external := edtypes.Document{Sections: []edtypes.Section{edtypes.NewSection(1)}}
	external.Sections[0].Columns[0].Blocks = []edtypes.Block{edtypes.NewBlock(edtypes.KindHeading)}

	s.Load(external)
	external.Sections[0].ID = "mutated-outside"
	assert.NotEqual(t, "mutated-outside", s.Document().Sections[0].ID)

	snap := s.Snapshot()
	snap.Sections[0].ID = "mutated-snapshot"
	assert.NotEqual(t, "mutated-snapshot", s.Document().Sections[0].ID)
}

// Дебаунс-путь: непрерывные правки коалесцируются в одну запись истории.
func TestContinuousEditsCoalesce(t *testing.T) {
	s := New(50, 20*time.Millisecond)
	sec := s.AddSection(1, 0)
	b, err := s.AddBlock(edtypes.KindParagraph, sec.ID, 0, 0)
	require.NoError(t, err)

	depthBefore := s.History().Depth()
	for _, text := range []string{"h", "he", "hel", "hell", "hello"} {
		text := text
		require.NoError(t, s.UpdateBlock(b.ID, func(blk *edtypes.Block) {
			blk.Paragraph.Content = []edtypes.TextSegment{{Text: text}}
		}))
	}
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, depthBefore+1, s.History().Depth(), "typing burst coalesced")

	require.True(t, s.Undo())
	got, _, _, _ := s.Document().FindBlock(b.ID)
	require.NotNil(t, got)
	assert.Empty(t, edtypes.PlainText(got.Paragraph.Content), "undo reverts the whole burst")
}
