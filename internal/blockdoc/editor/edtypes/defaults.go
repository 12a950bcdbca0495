// Фабрика значений по умолчанию: полностью заполненные блоки каждого вида.
// Используется при создании новых блоков и для дозаполнения блоков,
// пришедших из нативного импорта с отсутствующими полями (SchemaMismatch).
package edtypes

import (
	"github.com/gofrs/uuid"
)

const (
	defaultWidthPct     = 100
	defaultTableRows    = 2
	defaultTableColumns = 3
)

// NewID возвращает новый уникальный идентификатор блока или секции.
func NewID() string {
	id, err := uuid.NewV4()
	if err != nil {
		panic(err)
	}
	return id.String()
}

// NewSection создает секцию с заданным числом пустых колонок (1-3).
func NewSection(columnCount int) Section {
	if columnCount < 1 {
		columnCount = 1
	}
	if columnCount > 3 {
		columnCount = 3
	}
	s := Section{
		ID:          NewID(),
		ColumnCount: columnCount,
		Columns:     make([]Column, columnCount),
	}
	return s
}

// NewBlock возвращает полностью заполненный блок заданного вида.
// Неизвестный вид превращается в пустой rawHtml блок: контент важнее строгости.
func NewBlock(kind BlockKind) Block {
	b := Block{
		ID:       NewID(),
		Kind:     kind,
		WidthPct: defaultWidthPct,
	}

	switch kind {
	case KindHeading:
		b.Heading = &Heading{Level: 1, Content: []TextSegment{}, Style: TextStyle{FontSize: 24, FontWeight: 700, LineHeight: 1.2}}
	case KindParagraph:
		b.Paragraph = &Paragraph{Content: []TextSegment{}, Style: TextStyle{FontSize: 14, FontWeight: 400, LineHeight: 1.5}}
	case KindDivider:
		b.Divider = &Divider{Thickness: 1}
	case KindImage:
		b.Image = &Image{Align: CenterAlign}
	case KindTextInput:
		b.TextInput = &TextInput{Label: "Текстовое поле", InputType: "text"}
	case KindTextarea:
		b.Textarea = &Textarea{Label: "Многострочное поле", Rows: 4}
	case KindDropdown:
		b.Dropdown = &Dropdown{Label: "Выпадающий список", Options: []string{"Вариант 1", "Вариант 2"}}
	case KindRadioGroup:
		b.RadioGroup = &RadioGroup{Label: "Выбор варианта", Name: "radio-" + b.ID[:8], Options: []string{"Вариант 1", "Вариант 2"}}
	case KindCheckboxGroup:
		b.CheckboxGroup = &CheckboxGroup{Label: "Множественный выбор", Name: "check-" + b.ID[:8], Options: []ChoiceOption{{Label: "Вариант 1"}, {Label: "Вариант 2"}}}
	case KindSingleCheckbox:
		b.SingleCheckbox = &SingleCheckbox{Label: "Согласие"}
	case KindDatePicker:
		b.DatePicker = &DatePicker{Label: "Дата"}
	case KindFileUpload:
		b.FileUpload = &FileUpload{Label: "Загрузка файла"}
	case KindSignature:
		b.Signature = &Signature{Label: "Подпись"}
	case KindTable:
		b.Table = defaultTable()
	case KindList:
		b.List = &List{Items: [][]TextSegment{}, Style: TextStyle{FontSize: 14, LineHeight: 1.5}}
	case KindButton:
		b.Button = &Button{Label: "Кнопка", Align: CenterAlign}
	case KindRawHTML:
		b.RawHTML = &RawHTML{}
	default:
		b.Kind = KindRawHTML
		b.RawHTML = &RawHTML{}
	}

	return b
}

// Стартовая сетка 2x3 со строкой заголовка.
func defaultTable() *Table {
	t := &Table{
		HeaderRow:    true,
		ColumnWidths: make([]int, defaultTableColumns),
		RowHeights:   make([]int, defaultTableRows),
	}
	for r := 0; r < defaultTableRows; r++ {
		row := make([]TableCell, defaultTableColumns)
		for c := range row {
			row[c] = TableCell{Content: []TextSegment{}}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ApplyDefaults дозаполняет отсутствующие обязательные поля блока.
// Блок с пустым или чужим видом становится rawHtml, а не отбрасывается.
func ApplyDefaults(b *Block) {
	if b.ID == "" {
		b.ID = NewID()
	}
	if b.WidthPct <= 0 || b.WidthPct > 100 {
		b.WidthPct = defaultWidthPct
	}

	def := NewBlock(b.Kind)
	b.Kind = def.Kind

	switch b.Kind {
	case KindHeading:
		if b.Heading == nil {
			b.Heading = def.Heading
		}
		if b.Heading.Level < 1 || b.Heading.Level > 4 {
			b.Heading.Level = 1
		}
		if b.Heading.Content == nil {
			b.Heading.Content = []TextSegment{}
		}
	case KindParagraph:
		if b.Paragraph == nil {
			b.Paragraph = def.Paragraph
		}
		if b.Paragraph.Content == nil {
			b.Paragraph.Content = []TextSegment{}
		}
	case KindDivider:
		if b.Divider == nil {
			b.Divider = def.Divider
		}
		if b.Divider.Thickness <= 0 {
			b.Divider.Thickness = 1
		}
	case KindImage:
		if b.Image == nil {
			b.Image = def.Image
		}
	case KindTextInput:
		if b.TextInput == nil {
			b.TextInput = def.TextInput
		}
		if b.TextInput.InputType == "" {
			b.TextInput.InputType = "text"
		}
	case KindTextarea:
		if b.Textarea == nil {
			b.Textarea = def.Textarea
		}
		if b.Textarea.Rows <= 0 {
			b.Textarea.Rows = 4
		}
	case KindDropdown:
		if b.Dropdown == nil {
			b.Dropdown = def.Dropdown
		}
		if b.Dropdown.Options == nil {
			b.Dropdown.Options = []string{}
		}
	case KindRadioGroup:
		if b.RadioGroup == nil {
			b.RadioGroup = def.RadioGroup
		}
		if b.RadioGroup.Name == "" {
			b.RadioGroup.Name = "radio-" + b.ID[:8]
		}
		if b.RadioGroup.Options == nil {
			b.RadioGroup.Options = []string{}
		}
	case KindCheckboxGroup:
		if b.CheckboxGroup == nil {
			b.CheckboxGroup = def.CheckboxGroup
		}
		if b.CheckboxGroup.Name == "" {
			b.CheckboxGroup.Name = "check-" + b.ID[:8]
		}
		if b.CheckboxGroup.Options == nil {
			b.CheckboxGroup.Options = []ChoiceOption{}
		}
	case KindSingleCheckbox:
		if b.SingleCheckbox == nil {
			b.SingleCheckbox = def.SingleCheckbox
		}
	case KindDatePicker:
		if b.DatePicker == nil {
			b.DatePicker = def.DatePicker
		}
	case KindFileUpload:
		if b.FileUpload == nil {
			b.FileUpload = def.FileUpload
		}
	case KindSignature:
		if b.Signature == nil {
			b.Signature = def.Signature
		}
	case KindTable:
		if b.Table == nil {
			b.Table = def.Table
		}
		normalizeTable(b.Table)
	case KindList:
		if b.List == nil {
			b.List = def.List
		}
		if b.List.Items == nil {
			b.List.Items = [][]TextSegment{}
		}
	case KindButton:
		if b.Button == nil {
			b.Button = def.Button
		}
	case KindRawHTML:
		if b.RawHTML == nil {
			b.RawHTML = def.RawHTML
		}
	default:
		// NewBlock уже привел вид к rawHtml; сюда попадать не должны.
		b.RawHTML = &RawHTML{}
	}
}

// ApplySectionDefaults восстанавливает инвариант len(Columns) == ColumnCount
// и дозаполняет все блоки секции.
func ApplySectionDefaults(s *Section) {
	if s.ID == "" {
		s.ID = NewID()
	}
	if s.ColumnCount < 1 {
		s.ColumnCount = 1
	}
	if s.ColumnCount > 3 {
		s.ColumnCount = 3
	}
	for len(s.Columns) < s.ColumnCount {
		s.Columns = append(s.Columns, Column{})
	}
	if len(s.Columns) > s.ColumnCount {
		// Лишние колонки не отбрасываются: их блоки переезжают в последнюю допустимую.
		for _, extra := range s.Columns[s.ColumnCount:] {
			last := &s.Columns[s.ColumnCount-1]
			last.Blocks = append(last.Blocks, extra.Blocks...)
		}
		s.Columns = s.Columns[:s.ColumnCount]
	}
	for ci := range s.Columns {
		for bi := range s.Columns[ci].Blocks {
			ApplyDefaults(&s.Columns[ci].Blocks[bi])
		}
	}
}

// normalizeTable восстанавливает прямоугольность таблицы и длины
// ColumnWidths/RowHeights после любого изменения строк или колонок.
func normalizeTable(t *Table) {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		*t = *defaultTable()
		return
	}
	for ri := range t.Rows {
		for len(t.Rows[ri]) < cols {
			t.Rows[ri] = append(t.Rows[ri], TableCell{Content: []TextSegment{}})
		}
		for ci := range t.Rows[ri] {
			if t.Rows[ri][ci].Content == nil {
				t.Rows[ri][ci].Content = []TextSegment{}
			}
		}
	}
	for len(t.ColumnWidths) < cols {
		t.ColumnWidths = append(t.ColumnWidths, 0)
	}
	t.ColumnWidths = t.ColumnWidths[:cols]
	for len(t.RowHeights) < len(t.Rows) {
		t.RowHeights = append(t.RowHeights, 0)
	}
	t.RowHeights = t.RowHeights[:len(t.Rows)]
}

// NormalizeTable - экспортируемая обертка для операций сеанса над таблицами.
func NormalizeTable(t *Table) { normalizeTable(t) }
