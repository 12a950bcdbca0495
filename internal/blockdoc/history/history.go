// Линейная история изменений документа: ограниченный стек снапшотов с курсором.
//
// Снапшот - неизменяемая глубокая копия документа; менеджер никогда не
// алиасит живой документ, копирование происходит и на входе, и на выходе.
// Непрерывные правки (набор текста, перетаскивание ползунка) коалесцируются
// отложенным слотом: повторное планирование заменяет ожидающий таймер, а не
// ставит второй. Немедленный push сначала сбрасывает отложенный, сохраняя
// детерминированный порядок между коалесцированными и дискретными правками.
//
// Основные возможности:
//   - Ограниченный стек снапшотов с вытеснением самого старого.
//   - Отложенный push с дебаунсом и немедленный push со сбросом отложенного.
//   - Undo/Redo как тихие no-op на границах стека.
package history

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
)

const (
	DefaultLimit    = 50
	DefaultDebounce = 400 * time.Millisecond
)

// Manager владеет стеком снапшотов одного документа.
type Manager struct {
	mu     sync.Mutex
	stack  []edtypes.Document
	cursor int

	limit    int
	debounce time.Duration

	// Единственный слот отложенного push: новый Push(false) заменяет
	// и ожидающий документ, и таймер.
	timer   *time.Timer
	pending *edtypes.Document
}

func NewManager(limit int, debounce time.Duration) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Manager{
		stack:    make([]edtypes.Document, 0, limit),
		cursor:   -1,
		limit:    limit,
		debounce: debounce,
	}
}

// Push фиксирует состояние документа в истории.
// immediate=false: снапшот откладывается на время дебаунса, повторный вызов
// заменяет ожидающий. immediate=true: сначала сбрасывается отложенный
// снапшот, затем фиксируется переданный.
func (m *Manager) Push(doc edtypes.Document, immediate bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !immediate {
		snapshot := doc.Copy()
		m.pending = &snapshot
		if m.timer != nil {
			m.timer.Reset(m.debounce)
			return
		}
		m.timer = time.AfterFunc(m.debounce, m.firePending)
		return
	}

	m.flushPendingLocked()
	m.pushLocked(doc.Copy())
}

// Flush немедленно фиксирует отложенный снапшот, если он есть.
func (m *Manager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushPendingLocked()
}

func (m *Manager) firePending() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushPendingLocked()
}

func (m *Manager) flushPendingLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.pending == nil {
		return
	}
	snapshot := *m.pending
	m.pending = nil
	m.pushLocked(snapshot)
}

// pushLocked обрезает redo-хвост, добавляет снапшот и вытесняет самый
// старый при переполнении.
func (m *Manager) pushLocked(snapshot edtypes.Document) {
	m.stack = append(m.stack[:m.cursor+1], snapshot)
	if len(m.stack) > m.limit {
		m.stack = m.stack[len(m.stack)-m.limit:]
	}
	m.cursor = len(m.stack) - 1
	slog.Debug("History push", "cursor", m.cursor, "depth", len(m.stack))
}

// Undo возвращает копию предыдущего снапшота. false - курсор на самом
// старом снапшоте, состояние не меняется.
func (m *Manager) Undo() (edtypes.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.flushPendingLocked()
	if m.cursor <= 0 {
		return edtypes.Document{}, false
	}
	m.cursor--
	return m.stack[m.cursor].Copy(), true
}

// Redo возвращает копию следующего снапшота. false - курсор на самом новом.
func (m *Manager) Redo() (edtypes.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.flushPendingLocked()
	if m.cursor >= len(m.stack)-1 {
		return edtypes.Document{}, false
	}
	m.cursor++
	return m.stack[m.cursor].Copy(), true
}

// Depth - текущая глубина стека снапшотов.
func (m *Manager) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
}

// Cursor - позиция курсора в стеке (-1 для пустой истории).
func (m *Manager) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// CanUndo/CanRedo - проверки границ для внешнего слоя.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.stack)-1
}

// Oldest возвращает копию самого старого сохраненного снапшота.
func (m *Manager) Oldest() (edtypes.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stack) == 0 {
		return edtypes.Document{}, false
	}
	return m.stack[0].Copy(), true
}
