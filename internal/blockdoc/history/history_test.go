package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
)

// Документ, различимый по идентификатору единственной секции.
func taggedDoc(i int) edtypes.Document {
	return edtypes.Document{Sections: []edtypes.Section{{
		ID:          fmt.Sprintf("snapshot-%d", i),
		ColumnCount: 1,
		Columns:     []edtypes.Column{{}},
	}}}
}

func tag(d edtypes.Document) string {
	if len(d.Sections) == 0 {
		return ""
	}
	return d.Sections[0].ID
}

func TestPushUndoRedo(t *testing.T) {
	m := NewManager(10, time.Minute)

	m.Push(taggedDoc(1), true)
	m.Push(taggedDoc(2), true)
	m.Push(taggedDoc(3), true)

	d, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "snapshot-2", tag(d))

	d, ok = m.Undo()
	require.True(t, ok)
	assert.Equal(t, "snapshot-1", tag(d))

	d, ok = m.Redo()
	require.True(t, ok)
	assert.Equal(t, "snapshot-2", tag(d))
}

func TestUndoRedoBoundariesAreSilent(t *testing.T) {
	m := NewManager(10, time.Minute)

	_, ok := m.Undo()
	assert.False(t, ok, "undo on empty history")
	_, ok = m.Redo()
	assert.False(t, ok, "redo on empty history")

	m.Push(taggedDoc(1), true)
	_, ok = m.Undo()
	assert.False(t, ok, "undo past oldest")
	_, ok = m.Redo()
	assert.False(t, ok, "redo past newest")
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, 0, m.Cursor())
}

func TestBoundedStackEvictsOldest(t *testing.T) {
	m := NewManager(50, time.Minute)

	for i := 1; i <= 60; i++ {
		m.Push(taggedDoc(i), true)
	}

	assert.Equal(t, 50, m.Depth())
	oldest, ok := m.Oldest()
	require.True(t, ok)
	assert.Equal(t, "snapshot-11", tag(oldest))

	// Откат до дна: доступен именно снапшот #11, дальше тихий no-op.
	var last edtypes.Document
	for {
		d, ok := m.Undo()
		if !ok {
			break
		}
		last = d
	}
	assert.Equal(t, "snapshot-11", tag(last))
}

func TestPushAfterUndoTruncatesRedoTail(t *testing.T) {
	m := NewManager(10, time.Minute)

	m.Push(taggedDoc(1), true)
	m.Push(taggedDoc(2), true)
	m.Push(taggedDoc(3), true)
	m.Undo()
	m.Undo()

	m.Push(taggedDoc(4), true)

	assert.Equal(t, 2, m.Depth())
	assert.False(t, m.CanRedo())

	d, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "snapshot-1", tag(d))
}

func TestDebounceCoalescesBurst(t *testing.T) {
	m := NewManager(10, 20*time.Millisecond)

	m.Push(taggedDoc(1), false)
	m.Push(taggedDoc(2), false)
	m.Push(taggedDoc(3), false)
	assert.Equal(t, 0, m.Depth(), "nothing committed before debounce fires")

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, m.Depth(), "burst coalesced into one snapshot")

	oldest, _ := m.Oldest()
	assert.Equal(t, "snapshot-3", tag(oldest), "last write wins")
}

func TestImmediatePushFlushesPendingFirst(t *testing.T) {
	m := NewManager(10, time.Minute)

	m.Push(taggedDoc(1), true)
	m.Push(taggedDoc(2), false)
	m.Push(taggedDoc(3), true)

	assert.Equal(t, 3, m.Depth(), "pending snapshot committed before the immediate one")

	d, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "snapshot-2", tag(d))
}

func TestUndoFlushesPending(t *testing.T) {
	m := NewManager(10, time.Minute)

	m.Push(taggedDoc(1), true)
	m.Push(taggedDoc(2), false)

	d, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "snapshot-1", tag(d))
	assert.Equal(t, 2, m.Depth())
}

func TestFlush(t *testing.T) {
	m := NewManager(10, time.Minute)

	m.Flush() // пустой flush безопасен
	assert.Equal(t, 0, m.Depth())

	m.Push(taggedDoc(1), false)
	m.Flush()
	assert.Equal(t, 1, m.Depth())

	m.Flush() // повторный flush ничего не дублирует
	assert.Equal(t, 1, m.Depth())
}

// Снапшоты изолированы от живого документа с обеих сторон.
func TestSnapshotsAreIsolatedCopies(t *testing.T) {
	m := NewManager(10, time.Minute)

	live := taggedDoc(1)
	m.Push(live, true)
	m.Push(taggedDoc(2), true)

	live.Sections[0].ID = "mutated-after-push"

	d, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "snapshot-1", tag(d), "pushed snapshot must not alias the live document")

	d.Sections[0].ID = "mutated-after-undo"
	again, ok := m.Redo()
	require.True(t, ok)
	_, ok = m.Undo()
	require.True(t, ok)
	assert.Equal(t, "snapshot-2", tag(again))

	d2, _ := m.Oldest()
	assert.Equal(t, "snapshot-1", tag(d2), "returned copy must not alias the stored snapshot")
}

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(0, 0)
	assert.Equal(t, DefaultLimit, m.limit)
	assert.Equal(t, DefaultDebounce, m.debounce)
}
