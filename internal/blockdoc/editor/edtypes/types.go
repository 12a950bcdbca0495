// Пакет определяет модель данных документа-конструктора: секции, колонки, блоки и текстовые сегменты с марками.
// Модель является закрытым объединением из 17 видов блоков; парсер, сериализатор и фабрика значений по умолчанию обязаны обрабатывать каждый вид.
//
// Основные возможности:
//   - Представление документа как упорядоченного списка секций с 1-3 колонками.
//   - Типизированные блоки контента и форм (заголовки, параграфы, таблицы, поля ввода и др.).
//   - Текстовые сегменты с марками форматирования (жирный, курсив, цвет, ссылка, плейсхолдер).
//   - Парсинг и сериализация цветов в формате hex и rgb().
//   - Глубокое копирование документа для снапшотов истории.
package edtypes

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"
)

type TextAlign int

const (
	LeftAlign TextAlign = iota
	CenterAlign
	RightAlign
)

var (
	colorReg = regexp.MustCompile(`[rgb()#\s"]`)

	// PlaceholderReg - шаблон токена плейсхолдера (@Name или PH@Name).
	// Токен остается обычным текстом, разрешается внешней системой merge-полей.
	PlaceholderReg = regexp.MustCompile(`(?:PH@|@)\w+`)
)

// Document - упорядоченный список секций. Владеет им ровно один сеанс редактирования.
type Document struct {
	Sections []Section `json:"sections"`
}

// Section - горизонтальная область макета, разбитая на 1-3 колонки блоков.
// Инвариант: len(Columns) == ColumnCount.
type Section struct {
	ID          string   `json:"id" validate:"required"`
	ColumnCount int      `json:"columnCount" validate:"min=1,max=3"`
	Columns     []Column `json:"columns"`
}

// Column - упорядоченный список блоков внутри секции.
type Column struct {
	Blocks []Block `json:"blocks"`
}

type BlockKind string

const (
	KindHeading        BlockKind = "heading"
	KindParagraph      BlockKind = "paragraph"
	KindDivider        BlockKind = "divider"
	KindImage          BlockKind = "image"
	KindTextInput      BlockKind = "textInput"
	KindTextarea       BlockKind = "textarea"
	KindDropdown       BlockKind = "dropdown"
	KindRadioGroup     BlockKind = "radioGroup"
	KindCheckboxGroup  BlockKind = "checkboxGroup"
	KindSingleCheckbox BlockKind = "singleCheckbox"
	KindDatePicker     BlockKind = "datePicker"
	KindFileUpload     BlockKind = "fileUpload"
	KindSignature      BlockKind = "signature"
	KindTable          BlockKind = "table"
	KindList           BlockKind = "list"
	KindButton         BlockKind = "button"
	KindRawHTML        BlockKind = "rawHtml"
)

// AllKinds - полный перечень видов блоков. Используется фабрикой значений по умолчанию и тестами на исчерпывающую обработку.
var AllKinds = []BlockKind{
	KindHeading, KindParagraph, KindDivider, KindImage,
	KindTextInput, KindTextarea, KindDropdown, KindRadioGroup,
	KindCheckboxGroup, KindSingleCheckbox, KindDatePicker, KindFileUpload,
	KindSignature, KindTable, KindList, KindButton, KindRawHTML,
}

// Margins - внешние отступы блока в пикселях.
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Block - один блок контента или поля формы. Закрытое объединение:
// Kind определяет, какой из указателей на полезную нагрузку заполнен.
// Общие поля геометрии присутствуют у всех видов.
type Block struct {
	ID       string    `json:"id" validate:"required"`
	Kind     BlockKind `json:"kind" validate:"required"`
	WidthPct int       `json:"widthPct"`
	Margins  Margins   `json:"margins"`
	PaddingX int       `json:"paddingX"`
	PaddingY int       `json:"paddingY"`
	Locked   bool      `json:"locked,omitempty"`

	Heading        *Heading        `json:"heading,omitempty"`
	Paragraph      *Paragraph      `json:"paragraph,omitempty"`
	Divider        *Divider        `json:"divider,omitempty"`
	Image          *Image          `json:"image,omitempty"`
	TextInput      *TextInput      `json:"textInput,omitempty"`
	Textarea       *Textarea       `json:"textarea,omitempty"`
	Dropdown       *Dropdown       `json:"dropdown,omitempty"`
	RadioGroup     *RadioGroup     `json:"radioGroup,omitempty"`
	CheckboxGroup  *CheckboxGroup  `json:"checkboxGroup,omitempty"`
	SingleCheckbox *SingleCheckbox `json:"singleCheckbox,omitempty"`
	DatePicker     *DatePicker     `json:"datePicker,omitempty"`
	FileUpload     *FileUpload     `json:"fileUpload,omitempty"`
	Signature      *Signature      `json:"signature,omitempty"`
	Table          *Table          `json:"table,omitempty"`
	List           *List           `json:"list,omitempty"`
	Button         *Button         `json:"button,omitempty"`
	RawHTML        *RawHTML        `json:"rawHtml,omitempty"`
}

// TextStyle - стилистика текстовых блоков: размер, насыщенность, выравнивание, межстрочный интервал и цвет.
type TextStyle struct {
	FontSize   int       `json:"fontSize,omitempty"`
	FontWeight int       `json:"fontWeight,omitempty"`
	Align      TextAlign `json:"align"`
	LineHeight float64   `json:"lineHeight,omitempty"`
	Color      *Color    `json:"color,omitempty"`
}

type Heading struct {
	Level   int           `json:"level" validate:"min=1,max=4"`
	Content []TextSegment `json:"content"`
	Style   TextStyle     `json:"style"`
}

type Paragraph struct {
	Content []TextSegment `json:"content"`
	Style   TextStyle     `json:"style"`
}

type Divider struct {
	Thickness int    `json:"thickness"`
	Color     *Color `json:"color,omitempty"`
}

type Image struct {
	Src   string    `json:"src"`
	Alt   string    `json:"alt,omitempty"`
	Width int       `json:"width,omitempty"`
	Align TextAlign `json:"align"`
}

type TextInput struct {
	Label     string `json:"label"`
	InputType string `json:"inputType"` // text, email, tel, number
	Hint      string `json:"hint,omitempty"`
	Value     string `json:"value,omitempty"`
	Required  bool   `json:"required,omitempty"`
}

type Textarea struct {
	Label    string `json:"label"`
	Hint     string `json:"hint,omitempty"`
	Rows     int    `json:"rows"`
	Value    string `json:"value,omitempty"`
	Required bool   `json:"required,omitempty"`
}

type Dropdown struct {
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected,omitempty"`
	Required bool     `json:"required,omitempty"`
}

type RadioGroup struct {
	Label    string   `json:"label"`
	Name     string   `json:"name"`
	Options  []string `json:"options"`
	Selected string   `json:"selected,omitempty"`
}

// ChoiceOption - один пункт группы чекбоксов с признаком отметки.
type ChoiceOption struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked,omitempty"`
}

type CheckboxGroup struct {
	Label   string         `json:"label"`
	Name    string         `json:"name"`
	Options []ChoiceOption `json:"options"`
}

type SingleCheckbox struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked,omitempty"`
}

type DatePicker struct {
	Label    string `json:"label"`
	Value    string `json:"value,omitempty"` // ISO 8601 дата
	Required bool   `json:"required,omitempty"`
}

type FileUpload struct {
	Label    string `json:"label"`
	Accept   string `json:"accept,omitempty"`
	Required bool   `json:"required,omitempty"`
}

type Signature struct {
	Label string `json:"label"`
}

// TableCell - ячейка таблицы данных.
type TableCell struct {
	Content []TextSegment `json:"content"`
}

// Table - таблица данных. Инвариант прямоугольности: каждая строка содержит одинаковое число ячеек,
// len(ColumnWidths) равен числу колонок, len(RowHeights) - числу строк.
type Table struct {
	Rows         [][]TableCell `json:"rows"`
	HeaderRow    bool          `json:"headerRow"`
	ColumnWidths []int         `json:"columnWidths"`
	RowHeights   []int         `json:"rowHeights"`
}

type List struct {
	Numbered bool            `json:"numbered,omitempty"`
	Items    [][]TextSegment `json:"items"`
	Style    TextStyle       `json:"style"`
}

type Button struct {
	Label     string    `json:"label"`
	URL       string    `json:"url,omitempty"`
	Color     *Color    `json:"color,omitempty"`
	TextColor *Color    `json:"textColor,omitempty"`
	Align     TextAlign `json:"align"`
}

// RawHTML - запасной блок для нераспознанного контента. Содержимое никогда не отбрасывается.
type RawHTML struct {
	HTML string `json:"html"`
}

// Color - цвет в формате RGBA с парсингом hex и rgb() строк.
type Color color.RGBA

func ParseColor(raw string) (Color, error) {
	if len(raw) < 2 {
		return Color{}, errors.New("unsupported color format")
	}
	isDecRGB := strings.Contains(raw, "rgb(")
	isHex := raw[0] == '#' || raw[1] == '#'
	raw = colorReg.ReplaceAllString(raw, "")
	if isDecRGB {
		c := Color{}
		for i, n := range strings.Split(raw, ",") {
			nn, err := strconv.ParseUint(n, 10, 8)
			if err != nil {
				return c, err
			}

			switch i {
			case 0:
				c.R = uint8(nn)
			case 1:
				c.G = uint8(nn)
			case 2:
				c.B = uint8(nn)
			case 3:
				c.A = uint8(nn)
			}
		}
		return c, nil
	} else if isHex {
		b, err := hex.DecodeString(raw)
		if err != nil {
			return Color{}, err
		}
		if len(b) < 3 {
			return Color{}, errors.New("unsupported color format")
		}
		c := Color{
			R: b[0],
			G: b[1],
			B: b[2],
		}
		if len(b) > 3 {
			c.A = b[3]
		}
		return c, nil
	}
	return Color{}, errors.New("unsupported color format")
}

// Hex возвращает цвет в виде #rrggbb (альфа опускается, если равна нулю).
func (c Color) Hex() string {
	if c.A != 0 {
		return "#" + hex.EncodeToString([]byte{c.R, c.G, c.B, c.A})
	}
	return "#" + hex.EncodeToString([]byte{c.R, c.G, c.B})
}

func (c Color) MarshalJSON() ([]byte, error) {
	return fmt.Appendf(nil, "\"#%s\"", hex.EncodeToString([]byte{c.R, c.G, c.B, c.A})), nil
}

func (c *Color) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || string(data) == `""` {
		return nil
	}

	cc, err := ParseColor(string(data))
	*c = cc

	return err
}

// Copy возвращает глубокую копию документа через JSON round-trip.
// Модель состоит только из значений и сериализуемых указателей, поэтому
// JSON-копия эквивалентна исходнику. Используется историей и буфером обмена.
func (d Document) Copy() Document {
	data, err := json.Marshal(d)
	if err != nil {
		// Модель всегда сериализуема; сюда можно попасть только при порче памяти.
		panic(fmt.Sprintf("document copy: %v", err))
	}
	var c Document
	if err := json.Unmarshal(data, &c); err != nil {
		panic(fmt.Sprintf("document copy: %v", err))
	}
	return c
}

// CopyBlock - глубокая копия одного блока (буфер обмена, дублирование).
func CopyBlock(b Block) Block {
	data, err := json.Marshal(b)
	if err != nil {
		panic(fmt.Sprintf("block copy: %v", err))
	}
	var c Block
	if err := json.Unmarshal(data, &c); err != nil {
		panic(fmt.Sprintf("block copy: %v", err))
	}
	return c
}

// FindBlock возвращает блок по идентификатору и позицию (секция, колонка, индекс).
func (d *Document) FindBlock(id string) (*Block, int, int, int) {
	for si := range d.Sections {
		for ci := range d.Sections[si].Columns {
			for bi := range d.Sections[si].Columns[ci].Blocks {
				b := &d.Sections[si].Columns[ci].Blocks[bi]
				if b.ID == id {
					return b, si, ci, bi
				}
			}
		}
	}
	return nil, -1, -1, -1
}
