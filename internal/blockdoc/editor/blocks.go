// Классификация HTML-элементов в блоки модели по тегам и атрибутам.
// Нераспознанный элемент с контентом сохраняется как rawHtml блок и
// попадает в предупреждения; молча не отбрасывается ничего.
package editor

import (
	"strconv"
	"strings"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
	"golang.org/x/net/html"
)

// Контейнеры, прозрачные для классификации: их потомки разбираются как
// последовательность блоков, сам тег структуры не несет.
var transparentTags = map[string]bool{
	"article": true, "main": true, "header": true, "footer": true,
	"aside": true, "form": true, "blockquote": true, "section": true,
}

// classifyElement превращает один элемент в ноль или более блоков.
func (p *parseState) classifyElement(n *html.Node) []Block {
	if n.Type != html.ElementNode {
		return nil
	}

	// Обертки нашего экспорта и нативно размеченные блоки.
	if kind := getAttrValue("data-block", n.Attr); kind != "" {
		if blocks := p.parseMarkedBlock(n, edtypes.BlockKind(kind)); blocks != nil {
			return blocks
		}
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return []Block{p.parseHeading(n)}
	case "p":
		return p.parseParagraph(n)
	case "hr":
		return []Block{p.parseDivider(n)}
	case "img":
		return []Block{p.parseImage(n)}
	case "ul", "ol":
		return []Block{p.parseList(n)}
	case "table":
		return p.parseTableNode(n)
	case "input":
		return []Block{p.parseInput(n, "")}
	case "textarea":
		return []Block{p.parseTextarea(n, "")}
	case "select":
		return []Block{p.parseSelect(n, "")}
	case "button":
		return []Block{p.parseButton(n)}
	case "fieldset":
		return p.parseFieldset(n)
	case "label":
		return p.parseParagraph(n)
	case "a":
		return p.parseParagraph(n)
	case "div", "span", "center":
		return p.parseContainer(n)
	case "style", "title", "meta", "link", "head":
		return nil
	default:
		if transparentTags[n.Data] {
			return p.parseBlocks(n)
		}
		return p.preserveRaw(n)
	}
}

// parseBlocks разбирает потомков узла как последовательность блоков.
func (p *parseState) parseBlocks(n *html.Node) []Block {
	var blocks []Block
	var pending []TextSegment

	for el := n.FirstChild; el != nil; el = el.NextSibling {
		switch el.Type {
		case html.TextNode:
			// Свободный текст между блоками становится параграфом.
			pending = append(pending, splitPlaceholders(normalizeSpace(el.Data), MarkSet{})...)
		case html.ElementNode:
			if isInlineTag(el.Data) {
				pending = append(pending, parseInline(el, MarkSet{})...)
				continue
			}
			if segs := trimSegments(edtypes.MergeAdjacent(pending)); len(segs) > 0 {
				blocks = append(blocks, wrapSegments(segs))
			}
			pending = []TextSegment{}
			blocks = append(blocks, p.classifyElement(el)...)
		}
	}
	if segs := trimSegments(edtypes.MergeAdjacent(pending)); len(segs) > 0 {
		blocks = append(blocks, wrapSegments(segs))
	}
	return blocks
}

func isInlineTag(tag string) bool {
	switch tag {
	case "strong", "b", "em", "i", "u", "ins", "s", "del", "strike", "mark", "br", "small", "sub", "sup", "code":
		return true
	}
	return false
}

func wrapSegments(segments []TextSegment) Block {
	b := edtypes.NewBlock(edtypes.KindParagraph)
	b.Paragraph.Content = segments
	return b
}

// parseContainer обрабатывает div/span/center: обертка с единственным
// потомком снимается на один уровень, контейнер с текстом становится
// параграфом, остальное разбирается как последовательность блоков.
func (p *parseState) parseContainer(n *html.Node) []Block {
	if only := hasSingleElementChild(n); only != nil {
		return p.classifyElement(only)
	}
	if hasDirectText(n) || n.FirstChild == nil {
		return p.parseParagraph(n)
	}
	return p.parseBlocks(n)
}

func (p *parseState) parseHeading(n *html.Node) Block {
	b := edtypes.NewBlock(edtypes.KindHeading)
	level := int(n.Data[1] - '0')
	if level > 4 {
		level = 4
	}
	b.Heading.Level = level
	b.Heading.Content = trimSegments(parseInlineChildren(n, MarkSet{}))
	b.Heading.Style = p.parseTextStyle(n, b.Heading.Style)
	p.applyGeometry(&b, n)
	return b
}

// parseParagraph разбирает параграф; изображения внутри выносятся
// в отдельные image-блоки, текст вокруг них сохраняется.
func (p *parseState) parseParagraph(n *html.Node) []Block {
	var blocks []Block
	var segments []TextSegment

	style := edtypes.NewBlock(edtypes.KindParagraph).Paragraph.Style
	style = p.parseTextStyle(n, style)

	// data-block-id исходного узла достается только первому фрагменту:
	// при разрезе вокруг изображений остальные фрагменты получают свои ID.
	idClaimed := false
	flush := func() {
		segments = trimSegments(edtypes.MergeAdjacent(segments))
		if len(segments) == 0 {
			segments = nil
			return
		}
		b := edtypes.NewBlock(edtypes.KindParagraph)
		b.Paragraph.Content = segments
		b.Paragraph.Style = style
		p.applyGeometry(&b, n)
		if idClaimed {
			b.ID = edtypes.NewID()
		}
		idClaimed = true
		blocks = append(blocks, b)
		segments = nil
	}

	for el := n.FirstChild; el != nil; el = el.NextSibling {
		if el.Type == html.ElementNode && el.Data == "img" {
			flush()
			blocks = append(blocks, p.parseImage(el))
			continue
		}
		segments = append(segments, parseInline(el, MarkSet{})...)
	}
	flush()

	if len(blocks) == 0 {
		// Пустой параграф сохраняет вертикальный ритм документа.
		b := edtypes.NewBlock(edtypes.KindParagraph)
		b.Paragraph.Style = style
		p.applyGeometry(&b, n)
		blocks = append(blocks, b)
	}
	return blocks
}

func (p *parseState) parseTextStyle(n *html.Node, base edtypes.TextStyle) edtypes.TextStyle {
	styles := parseStyleAttr(getAttrValue("style", n.Attr))
	if v, ok := styles["font-size"]; ok {
		if size := sizeToInt(v); size > 0 {
			base.FontSize = size
		}
	}
	if v, ok := styles["font-weight"]; ok {
		if w := sizeToInt(v); w > 0 {
			base.FontWeight = w
		} else if v == "bold" {
			base.FontWeight = 700
		}
	}
	if v, ok := styles["text-align"]; ok {
		base.Align = toTextAlign(v)
	}
	if v, ok := styles["line-height"]; ok {
		if lh, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && lh > 0 {
			base.LineHeight = lh
		}
	}
	if v, ok := styles["color"]; ok {
		if c, err := edtypes.ParseColor(v); err == nil {
			base.Color = &c
		}
	}
	return base
}

func (p *parseState) parseDivider(n *html.Node) Block {
	b := edtypes.NewBlock(edtypes.KindDivider)
	styles := parseStyleAttr(getAttrValue("style", n.Attr))
	if v, ok := styles["height"]; ok {
		if t := sizeToInt(v); t > 0 {
			b.Divider.Thickness = t
		}
	}
	if v, ok := styles["border-color"]; ok {
		if c, err := edtypes.ParseColor(v); err == nil {
			b.Divider.Color = &c
		}
	}
	p.applyGeometry(&b, n)
	return b
}

func (p *parseState) parseImage(n *html.Node) Block {
	b := edtypes.NewBlock(edtypes.KindImage)
	b.Image.Src = getAttrValue("src", n.Attr)
	b.Image.Alt = getAttrValue("alt", n.Attr)

	styles := parseStyleAttr(getAttrValue("style", n.Attr))
	if v, ok := styles["width"]; ok {
		b.Image.Width = sizeToInt(v)
	} else if v := getAttrValue("width", n.Attr); v != "" {
		b.Image.Width = sizeToInt(v)
	}
	if v, ok := styles["float"]; ok {
		switch v {
		case "left":
			b.Image.Align = LeftAlign
		case "right":
			b.Image.Align = RightAlign
		}
	}
	p.applyGeometry(&b, n)
	return b
}

func (p *parseState) parseList(n *html.Node) Block {
	b := edtypes.NewBlock(edtypes.KindList)
	b.List.Numbered = n.Data == "ol"
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		item := trimSegments(parseInlineChildren(li, MarkSet{}))
		if item == nil {
			item = []TextSegment{}
		}
		b.List.Items = append(b.List.Items, item)
	}
	b.List.Style = p.parseTextStyle(n, b.List.Style)
	p.applyGeometry(&b, n)
	return b
}

// parseInput классифицирует одиночный элемент управления по его type.
func (p *parseState) parseInput(n *html.Node, label string) Block {
	inputType := strings.ToLower(getAttrValue("type", n.Attr))
	required := attrExists("required", n.Attr)

	switch inputType {
	case "date":
		b := edtypes.NewBlock(edtypes.KindDatePicker)
		b.DatePicker.Label = label
		b.DatePicker.Value = getAttrValue("value", n.Attr)
		b.DatePicker.Required = required
		p.applyGeometry(&b, n)
		return b
	case "file":
		b := edtypes.NewBlock(edtypes.KindFileUpload)
		b.FileUpload.Label = label
		b.FileUpload.Accept = getAttrValue("accept", n.Attr)
		b.FileUpload.Required = required
		p.applyGeometry(&b, n)
		return b
	case "checkbox":
		b := edtypes.NewBlock(edtypes.KindSingleCheckbox)
		b.SingleCheckbox.Label = label
		b.SingleCheckbox.Checked = attrExists("checked", n.Attr)
		p.applyGeometry(&b, n)
		return b
	case "radio":
		// Одиночная радиокнопка вне fieldset: группа из одного пункта.
		b := edtypes.NewBlock(edtypes.KindRadioGroup)
		b.RadioGroup.Label = label
		if name := getAttrValue("name", n.Attr); name != "" {
			b.RadioGroup.Name = name
		}
		value := getAttrValue("value", n.Attr)
		if value == "" {
			value = label
		}
		b.RadioGroup.Options = []string{value}
		if attrExists("checked", n.Attr) {
			b.RadioGroup.Selected = value
		}
		p.applyGeometry(&b, n)
		return b
	case "submit", "button":
		b := edtypes.NewBlock(edtypes.KindButton)
		if v := getAttrValue("value", n.Attr); v != "" {
			b.Button.Label = v
		}
		p.applyGeometry(&b, n)
		return b
	default: // text, email, tel, number и отсутствующий type
		b := edtypes.NewBlock(edtypes.KindTextInput)
		b.TextInput.Label = label
		if inputType != "" {
			b.TextInput.InputType = inputType
		}
		b.TextInput.Hint = getAttrValue("placeholder", n.Attr)
		b.TextInput.Value = getAttrValue("value", n.Attr)
		b.TextInput.Required = required
		p.applyGeometry(&b, n)
		return b
	}
}

func (p *parseState) parseTextarea(n *html.Node, label string) Block {
	b := edtypes.NewBlock(edtypes.KindTextarea)
	b.Textarea.Label = label
	b.Textarea.Hint = getAttrValue("placeholder", n.Attr)
	if rows := sizeToInt(getAttrValue("rows", n.Attr)); rows > 0 {
		b.Textarea.Rows = rows
	}
	b.Textarea.Required = attrExists("required", n.Attr)
	b.Textarea.Value = strings.TrimSpace(textContent(n))
	p.applyGeometry(&b, n)
	return b
}

func (p *parseState) parseSelect(n *html.Node, label string) Block {
	b := edtypes.NewBlock(edtypes.KindDropdown)
	b.Dropdown.Label = label
	b.Dropdown.Options = nil
	b.Dropdown.Required = attrExists("required", n.Attr)
	iterNodes(n, func(opt *html.Node) bool {
		if opt.Type != html.ElementNode || opt.Data != "option" {
			return false
		}
		text := strings.TrimSpace(textContent(opt))
		b.Dropdown.Options = append(b.Dropdown.Options, text)
		if attrExists("selected", opt.Attr) {
			b.Dropdown.Selected = text
		}
		return true
	})
	if b.Dropdown.Options == nil {
		b.Dropdown.Options = []string{}
	}
	p.applyGeometry(&b, n)
	return b
}

func (p *parseState) parseButton(n *html.Node) Block {
	b := edtypes.NewBlock(edtypes.KindButton)
	if text := strings.TrimSpace(textContent(n)); text != "" {
		b.Button.Label = text
	}
	if n.Data == "a" {
		b.Button.URL = getAttrValue("href", n.Attr)
	}
	styles := parseStyleAttr(getAttrValue("style", n.Attr))
	if v, ok := styles["background-color"]; ok {
		if c, err := edtypes.ParseColor(v); err == nil {
			b.Button.Color = &c
		}
	}
	if v, ok := styles["color"]; ok {
		if c, err := edtypes.ParseColor(v); err == nil {
			b.Button.TextColor = &c
		}
	}
	if v, ok := styles["text-align"]; ok {
		b.Button.Align = toTextAlign(v)
	}
	p.applyGeometry(&b, n)
	return b
}

// parseFieldset группирует радиокнопки и чекбоксы по общему name.
func (p *parseState) parseFieldset(n *html.Node) []Block {
	legend := ""
	if l := findElementByTagName(n, "legend"); l != nil {
		legend = strings.TrimSpace(textContent(l))
	}

	type control struct {
		node  *html.Node
		label string
	}
	var radios, checkboxes []control

	iterNodes(n, func(el *html.Node) bool {
		if el.Type != html.ElementNode || el.Data != "input" {
			return false
		}
		c := control{node: el, label: controlLabel(el)}
		switch strings.ToLower(getAttrValue("type", el.Attr)) {
		case "radio":
			radios = append(radios, c)
		case "checkbox":
			checkboxes = append(checkboxes, c)
		}
		return true
	})

	switch {
	case len(radios) > 0:
		b := edtypes.NewBlock(edtypes.KindRadioGroup)
		b.RadioGroup.Label = legend
		b.RadioGroup.Options = nil
		for _, c := range radios {
			if name := getAttrValue("name", c.node.Attr); name != "" {
				b.RadioGroup.Name = name
			}
			b.RadioGroup.Options = append(b.RadioGroup.Options, c.label)
			if attrExists("checked", c.node.Attr) {
				b.RadioGroup.Selected = c.label
			}
		}
		p.applyGeometry(&b, n)
		return []Block{b}
	case len(checkboxes) > 0:
		b := edtypes.NewBlock(edtypes.KindCheckboxGroup)
		b.CheckboxGroup.Label = legend
		b.CheckboxGroup.Options = nil
		for _, c := range checkboxes {
			if name := getAttrValue("name", c.node.Attr); name != "" {
				b.CheckboxGroup.Name = name
			}
			b.CheckboxGroup.Options = append(b.CheckboxGroup.Options, edtypes.ChoiceOption{
				Label:   c.label,
				Checked: attrExists("checked", c.node.Attr),
			})
		}
		p.applyGeometry(&b, n)
		return []Block{b}
	default:
		return p.parseBlocks(n)
	}
}

// controlLabel возвращает подпись элемента управления: текст родительского
// label, либо текст соседнего label, либо атрибут value.
func controlLabel(input *html.Node) string {
	if input.Parent != nil && input.Parent.Data == "label" {
		return strings.TrimSpace(textContent(input.Parent))
	}
	if next := input.NextSibling; next != nil {
		if next.Type == html.TextNode && strings.TrimSpace(next.Data) != "" {
			return strings.TrimSpace(next.Data)
		}
		if next.Type == html.ElementNode && next.Data == "label" {
			return strings.TrimSpace(textContent(next))
		}
	}
	return getAttrValue("value", input.Attr)
}

// parseMarkedBlock разбирает блоки, размеченные нашим экспортом через data-block.
func (p *parseState) parseMarkedBlock(n *html.Node, kind BlockKind) []Block {
	switch kind {
	case edtypes.KindSignature:
		b := edtypes.NewBlock(edtypes.KindSignature)
		b.Signature.Label = strings.TrimSpace(textContent(n))
		p.applyGeometry(&b, n)
		return []Block{b}
	case edtypes.KindButton:
		return []Block{p.parseButton(n)}
	case edtypes.KindRadioGroup, edtypes.KindCheckboxGroup:
		return p.parseFieldset(n)
	case edtypes.KindTextInput, edtypes.KindDatePicker, edtypes.KindFileUpload, edtypes.KindSingleCheckbox:
		if input := findElementByTagName(n, "input"); input != nil {
			b := p.parseInput(input, wrapperLabel(n))
			p.applyGeometry(&b, n)
			return []Block{b}
		}
	case edtypes.KindTextarea:
		if ta := findElementByTagName(n, "textarea"); ta != nil {
			b := p.parseTextarea(ta, wrapperLabel(n))
			p.applyGeometry(&b, n)
			return []Block{b}
		}
	case edtypes.KindDropdown:
		if sel := findElementByTagName(n, "select"); sel != nil {
			b := p.parseSelect(sel, wrapperLabel(n))
			p.applyGeometry(&b, n)
			return []Block{b}
		}
	}
	return nil
}

// wrapperLabel - текст первого label внутри обертки поля.
func wrapperLabel(n *html.Node) string {
	if l := findElementByTagName(n, "label"); l != nil {
		return strings.TrimSpace(textContent(l))
	}
	return ""
}

// preserveRaw сохраняет нераспознанный элемент как rawHtml блок.
// Пустые элементы без контента пропускаются без предупреждения.
func (p *parseState) preserveRaw(n *html.Node) []Block {
	outer := renderNode(n)
	if strings.TrimSpace(textContent(n)) == "" && n.FirstChild == nil && !selfContained(n.Data) {
		return nil
	}
	b := edtypes.NewBlock(edtypes.KindRawHTML)
	b.RawHTML.HTML = outer
	p.warn(Warning{Kind: WarnUnrecognized, Tag: n.Data, Detail: "preserved as raw HTML"})
	return []Block{b}
}

// selfContained - теги, значимые и без потомков.
func selfContained(tag string) bool {
	switch tag {
	case "iframe", "video", "audio", "embed", "object", "canvas", "svg":
		return true
	}
	return false
}

// textContent - конкатенация всех текстовых узлов поддерева.
func textContent(n *html.Node) string {
	var b strings.Builder
	iterNodes(n, func(el *html.Node) bool {
		if el.Type == html.TextNode {
			b.WriteString(el.Data)
		}
		return false
	})
	return b.String()
}

// applyGeometry переносит width/margin/padding/locked из атрибутов в блок.
func (p *parseState) applyGeometry(b *Block, n *html.Node) {
	if id := getAttrValue("data-block-id", n.Attr); id != "" {
		b.ID = id
	}
	if getAttrValue("data-locked", n.Attr) == "true" {
		b.Locked = true
	}
	styles := parseStyleAttr(getAttrValue("style", n.Attr))
	if v, ok := styles["width"]; ok && strings.HasSuffix(strings.TrimSpace(v), "%") {
		if w := sizeToInt(v); w > 0 && w <= 100 {
			b.WidthPct = w
		}
	}
	if v, ok := styles["margin"]; ok {
		b.Margins.Top, b.Margins.Right, b.Margins.Bottom, b.Margins.Left = parseBoxShorthand(v)
	}
	for key, dst := range map[string]*int{
		"margin-top":    &b.Margins.Top,
		"margin-right":  &b.Margins.Right,
		"margin-bottom": &b.Margins.Bottom,
		"margin-left":   &b.Margins.Left,
	} {
		if v, ok := styles[key]; ok {
			*dst = sizeToInt(v)
		}
	}
	if v, ok := styles["padding"]; ok {
		top, right, _, _ := parseBoxShorthand(v)
		b.PaddingY, b.PaddingX = top, right
	}
}
