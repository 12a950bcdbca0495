// Марки форматирования текстовых сегментов и операции над их наборами.
package edtypes

type MarkKind string

const (
	MarkBold          MarkKind = "bold"
	MarkItalic        MarkKind = "italic"
	MarkUnderline     MarkKind = "underline"
	MarkStrikethrough MarkKind = "strike"
	MarkLink          MarkKind = "link"
	MarkTextColor     MarkKind = "textColor"
	MarkBgColor       MarkKind = "backgroundColor"
	MarkFontSize      MarkKind = "fontSize"
	MarkFontFamily    MarkKind = "fontFamily"
	MarkPlaceholder   MarkKind = "placeholder"
)

// markOrder - канонический порядок марок. Он же - фиксированный порядок
// вложенности тегов при сериализации, поэтому повторный парсинг дает
// эквивалентный набор независимо от авторской вложенности.
var markOrder = []MarkKind{
	MarkFontSize,
	MarkFontFamily,
	MarkTextColor,
	MarkBgColor,
	MarkBold,
	MarkItalic,
	MarkUnderline,
	MarkStrikethrough,
	MarkLink,
	MarkPlaceholder,
}

// exclusiveKinds - виды, допускающие не более одной марки на сегмент.
// Булевы виды (bold, italic и т.д.) идемпотентны и значения не несут.
var exclusiveKinds = map[MarkKind]bool{
	MarkLink:       true,
	MarkTextColor:  true,
	MarkBgColor:    true,
	MarkFontSize:   true,
	MarkFontFamily: true,
}

// Mark - одна аннотация форматирования. Value пуст для булевых видов.
type Mark struct {
	Kind  MarkKind `json:"kind"`
	Value string   `json:"value,omitempty"`
}

// TextSegment - непрерывный фрагмент текста с единым набором марок.
// Marks хранятся в каноническом порядке markOrder.
type TextSegment struct {
	Text  string `json:"text"`
	Marks []Mark `json:"marks,omitempty"`
}

// MarkSet - рабочий набор марок при обходе вложенных элементов.
// Не более одной марки на вид; у потомков всегда собственная копия.
type MarkSet map[MarkKind]string

// Clone возвращает независимую копию набора. Родительский аккумулятор
// никогда не мутируется при спуске в потомков.
func (s MarkSet) Clone() MarkSet {
	c := make(MarkSet, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Add добавляет марку. Для эксклюзивных видов значение потомка
// перекрывает унаследованное: внутренняя марка побеждает.
func (s MarkSet) Add(kind MarkKind, value string) {
	s[kind] = value
}

// Ordered возвращает марки набора в каноническом порядке.
func (s MarkSet) Ordered() []Mark {
	if len(s) == 0 {
		return nil
	}
	res := make([]Mark, 0, len(s))
	for _, kind := range markOrder {
		if v, ok := s[kind]; ok {
			res = append(res, Mark{Kind: kind, Value: v})
		}
	}
	return res
}

// SetOf собирает MarkSet из канонического списка марок сегмента.
func SetOf(marks []Mark) MarkSet {
	s := make(MarkSet, len(marks))
	for _, m := range marks {
		s[m.Kind] = m.Value
	}
	return s
}

// SameMarks - равенство наборов марок двух сегментов.
// Оба списка канонически упорядочены, достаточно поэлементного сравнения.
func SameMarks(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// HasMark сообщает, несет ли сегмент марку данного вида, и ее значение.
func (t TextSegment) HasMark(kind MarkKind) (string, bool) {
	for _, m := range t.Marks {
		if m.Kind == kind {
			return m.Value, true
		}
	}
	return "", false
}

// PlainText - текст списка сегментов без форматирования.
func PlainText(segments []TextSegment) string {
	var b []byte
	for _, s := range segments {
		b = append(b, s.Text...)
	}
	return string(b)
}

// MergeAdjacent склеивает соседние сегменты с одинаковыми наборами марок.
func MergeAdjacent(segments []TextSegment) []TextSegment {
	if len(segments) < 2 {
		return segments
	}
	res := segments[:1]
	for _, s := range segments[1:] {
		last := &res[len(res)-1]
		if SameMarks(last.Marks, s.Marks) {
			last.Text += s.Text
		} else {
			res = append(res, s)
		}
	}
	return res
}
