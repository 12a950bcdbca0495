// Сеанс редактирования: единственный владелец живого документа.
//
// Внешний слой отрисовки шлет сюда намерения мутации (добавить/изменить/
// переместить/удалить блок или секцию), сеанс применяет их и фиксирует
// состояние в истории. Дискретные структурные правки попадают в историю
// немедленно, непрерывные правки контента - через дебаунс. Буфер обмена -
// явное состояние сеанса, а не глобальная переменная процесса.
//
// Основные возможности:
//   - Операции над блоками и секциями с поддержанием инвариантов модели.
//   - Операции над строками и колонками таблиц с сохранением прямоугольности.
//   - Undo/Redo с заменой живого документа копией снапшота и сбросом выделения.
//   - Load/Snapshot как передача значений для внешнего слоя персистентности.
package session

import (
	"errors"
	"time"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/history"
	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/utils"
)

var (
	ErrBlockNotFound   = errors.New("block not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrBlockLocked     = errors.New("block is locked")
	ErrEmptyClipboard  = errors.New("clipboard is empty")
	ErrBadPosition     = errors.New("position out of range")
)

// Session - один сеанс редактирования одного документа.
type Session struct {
	doc       edtypes.Document
	hist      *history.Manager
	selection string         // ID выделенного блока, пуст если ничего не выделено
	clipboard *edtypes.Block // явное состояние, передается через сеанс
}

func New(limit int, debounce time.Duration) *Session {
	s := &Session{
		hist: history.NewManager(limit, debounce),
	}
	s.hist.Push(s.doc, true)
	return s
}

// Load заменяет живой документ переданным значением (импорт, восстановление).
func (s *Session) Load(doc edtypes.Document) {
	s.doc = doc.Copy()
	s.selection = ""
	s.hist.Push(s.doc, true)
}

// Snapshot возвращает копию живого документа для внешнего слоя персистентности.
func (s *Session) Snapshot() edtypes.Document {
	return s.doc.Copy()
}

// Document - доступ к живому документу на чтение.
func (s *Session) Document() *edtypes.Document {
	return &s.doc
}

func (s *Session) History() *history.Manager {
	return s.hist
}

func (s *Session) Selection() string {
	return s.selection
}

func (s *Session) SetSelection(blockID string) {
	s.selection = blockID
}

// --- операции над секциями (дискретные, история немедленно) ---

// AddSection вставляет новую секцию с заданным числом колонок по индексу.
// Индекс за границами прижимается к краям, как в InsertAt.
func (s *Session) AddSection(columnCount, idx int) *edtypes.Section {
	if idx < 0 {
		idx = 0
	}
	sec := edtypes.NewSection(columnCount)
	s.doc.Sections = utils.InsertAt(s.doc.Sections, idx, sec)
	s.hist.Push(s.doc, true)
	return &s.doc.Sections[min(idx, len(s.doc.Sections)-1)]
}

func (s *Session) RemoveSection(sectionID string) error {
	idx := s.sectionIndex(sectionID)
	if idx < 0 {
		return ErrSectionNotFound
	}
	if s.selectionInSection(sectionID) {
		s.selection = ""
	}
	s.doc.Sections = utils.RemoveAt(s.doc.Sections, idx)
	s.hist.Push(s.doc, true)
	return nil
}

func (s *Session) MoveSection(sectionID string, to int) error {
	idx := s.sectionIndex(sectionID)
	if idx < 0 {
		return ErrSectionNotFound
	}
	if to < 0 || to >= len(s.doc.Sections) {
		return ErrBadPosition
	}
	s.doc.Sections = utils.Move(s.doc.Sections, idx, to)
	s.hist.Push(s.doc, true)
	return nil
}

// --- операции над блоками ---

// AddBlock создает блок заданного вида и вставляет его в колонку секции.
func (s *Session) AddBlock(kind edtypes.BlockKind, sectionID string, column, idx int) (*edtypes.Block, error) {
	si := s.sectionIndex(sectionID)
	if si < 0 {
		return nil, ErrSectionNotFound
	}
	sec := &s.doc.Sections[si]
	if column < 0 || column >= sec.ColumnCount {
		return nil, ErrBadPosition
	}
	b := edtypes.NewBlock(kind)
	col := &sec.Columns[column]
	col.Blocks = utils.InsertAt(col.Blocks, idx, b)
	s.hist.Push(s.doc, true)
	return s.findBlock(b.ID), nil
}

// UpdateBlock применяет функцию-мутатор к блоку. Непрерывная правка:
// фиксация в истории откладывается дебаунсом.
func (s *Session) UpdateBlock(blockID string, mutate func(*edtypes.Block)) error {
	b := s.findBlock(blockID)
	if b == nil {
		return ErrBlockNotFound
	}
	if b.Locked {
		return ErrBlockLocked
	}
	mutate(b)
	edtypes.ApplyDefaults(b)
	s.hist.Push(s.doc, false)
	return nil
}

func (s *Session) RemoveBlock(blockID string) error {
	_, si, ci, bi := s.doc.FindBlock(blockID)
	if si < 0 {
		return ErrBlockNotFound
	}
	col := &s.doc.Sections[si].Columns[ci]
	col.Blocks = utils.RemoveAt(col.Blocks, bi)
	if s.selection == blockID {
		s.selection = ""
	}
	s.hist.Push(s.doc, true)
	return nil
}

// MoveBlock переносит блок в колонку другой (или той же) секции.
func (s *Session) MoveBlock(blockID, toSectionID string, toColumn, toIdx int) error {
	b, si, ci, bi := s.doc.FindBlock(blockID)
	if si < 0 {
		return ErrBlockNotFound
	}
	ti := s.sectionIndex(toSectionID)
	if ti < 0 {
		return ErrSectionNotFound
	}
	target := &s.doc.Sections[ti]
	if toColumn < 0 || toColumn >= target.ColumnCount {
		return ErrBadPosition
	}

	moved := *b
	src := &s.doc.Sections[si].Columns[ci]
	src.Blocks = utils.RemoveAt(src.Blocks, bi)
	dst := &s.doc.Sections[ti].Columns[toColumn]
	dst.Blocks = utils.InsertAt(dst.Blocks, toIdx, moved)
	s.hist.Push(s.doc, true)
	return nil
}

// DuplicateBlock вставляет глубокую копию блока с новым ID сразу после оригинала.
func (s *Session) DuplicateBlock(blockID string) (*edtypes.Block, error) {
	b, si, ci, bi := s.doc.FindBlock(blockID)
	if si < 0 {
		return nil, ErrBlockNotFound
	}
	dup := edtypes.CopyBlock(*b)
	dup.ID = edtypes.NewID()
	col := &s.doc.Sections[si].Columns[ci]
	col.Blocks = utils.InsertAt(col.Blocks, bi+1, dup)
	s.hist.Push(s.doc, true)
	return s.findBlock(dup.ID), nil
}

// --- буфер обмена ---

func (s *Session) CopyToClipboard(blockID string) error {
	b := s.findBlock(blockID)
	if b == nil {
		return ErrBlockNotFound
	}
	c := edtypes.CopyBlock(*b)
	s.clipboard = &c
	return nil
}

func (s *Session) CutToClipboard(blockID string) error {
	if err := s.CopyToClipboard(blockID); err != nil {
		return err
	}
	return s.RemoveBlock(blockID)
}

// Paste вставляет копию блока из буфера с новым ID.
func (s *Session) Paste(sectionID string, column, idx int) (*edtypes.Block, error) {
	if s.clipboard == nil {
		return nil, ErrEmptyClipboard
	}
	si := s.sectionIndex(sectionID)
	if si < 0 {
		return nil, ErrSectionNotFound
	}
	sec := &s.doc.Sections[si]
	if column < 0 || column >= sec.ColumnCount {
		return nil, ErrBadPosition
	}
	b := edtypes.CopyBlock(*s.clipboard)
	b.ID = edtypes.NewID()
	col := &sec.Columns[column]
	col.Blocks = utils.InsertAt(col.Blocks, idx, b)
	s.hist.Push(s.doc, true)
	return s.findBlock(b.ID), nil
}

// --- операции над таблицами (прямоугольность сохраняется всегда) ---

func (s *Session) AddTableRow(blockID string, idx int) error {
	return s.mutateTable(blockID, func(t *edtypes.Table) {
		cols := len(t.ColumnWidths)
		row := make([]edtypes.TableCell, cols)
		for c := range row {
			row[c] = edtypes.TableCell{Content: []edtypes.TextSegment{}}
		}
		t.Rows = utils.InsertAt(t.Rows, idx, row)
		t.RowHeights = utils.InsertAt(t.RowHeights, idx, 0)
	})
}

func (s *Session) RemoveTableRow(blockID string, idx int) error {
	return s.mutateTable(blockID, func(t *edtypes.Table) {
		if len(t.Rows) <= 1 {
			return
		}
		t.Rows = utils.RemoveAt(t.Rows, idx)
		t.RowHeights = utils.RemoveAt(t.RowHeights, idx)
		if idx == 0 {
			t.HeaderRow = false
		}
	})
}

func (s *Session) AddTableColumn(blockID string, idx int) error {
	return s.mutateTable(blockID, func(t *edtypes.Table) {
		for ri := range t.Rows {
			t.Rows[ri] = utils.InsertAt(t.Rows[ri], idx, edtypes.TableCell{Content: []edtypes.TextSegment{}})
		}
		t.ColumnWidths = utils.InsertAt(t.ColumnWidths, idx, 0)
	})
}

func (s *Session) RemoveTableColumn(blockID string, idx int) error {
	return s.mutateTable(blockID, func(t *edtypes.Table) {
		if len(t.ColumnWidths) <= 1 {
			return
		}
		for ri := range t.Rows {
			t.Rows[ri] = utils.RemoveAt(t.Rows[ri], idx)
		}
		t.ColumnWidths = utils.RemoveAt(t.ColumnWidths, idx)
	})
}

func (s *Session) mutateTable(blockID string, mutate func(*edtypes.Table)) error {
	b := s.findBlock(blockID)
	if b == nil {
		return ErrBlockNotFound
	}
	if b.Kind != edtypes.KindTable || b.Table == nil {
		return ErrBlockNotFound
	}
	if b.Locked {
		return ErrBlockLocked
	}
	mutate(b.Table)
	edtypes.NormalizeTable(b.Table)
	s.hist.Push(s.doc, true)
	return nil
}

// --- история ---

// Undo заменяет живой документ копией предыдущего снапшота.
// Выделение сбрасывается: выделенной сущности может не быть в той точке истории.
func (s *Session) Undo() bool {
	doc, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.doc = doc
	s.selection = ""
	return true
}

func (s *Session) Redo() bool {
	doc, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.doc = doc
	s.selection = ""
	return true
}

// --- внутреннее ---

func (s *Session) findBlock(id string) *edtypes.Block {
	b, _, _, _ := s.doc.FindBlock(id)
	return b
}

func (s *Session) sectionIndex(id string) int {
	for i := range s.doc.Sections {
		if s.doc.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) selectionInSection(sectionID string) bool {
	if s.selection == "" {
		return false
	}
	_, si, _, _ := s.doc.FindBlock(s.selection)
	return si >= 0 && s.doc.Sections[si].ID == sectionID
}
