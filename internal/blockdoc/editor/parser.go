// Пакет реализует двунаправленный конвертер между HTML и блочной моделью
// документа: структурный парсер (HTML -> секции/колонки/блоки), инлайновый
// парсер марок (фрагмент -> стилизованные сегменты) и обратный сериализатор.
//
// Основные возможности:
//   - Импорт произвольного HTML с санацией и эвристической классификацией элементов.
//   - Безпотерьный реимпорт собственного экспорта через встроенные метаданные.
//   - Сохранение нераспознанного контента как rawHtml блоков с предупреждениями.
//   - Экспорт в полный HTML-документ или фрагмент с каноническими шаблонами блоков.
package editor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/editor/edtypes"
	policy "github.com/aisa-it/blockdoc/blockdoc.go/internal/blockdoc/redactor-policy"
	"golang.org/x/net/html"
)

type parseState struct {
	warnings []Warning
}

func (p *parseState) warn(w Warning) {
	p.warnings = append(p.warnings, w)
	slog.Debug("Import warning", "kind", string(w.Kind), "tag", w.Tag, "detail", w.Detail)
}

// Parse импортирует HTML-строку произвольного происхождения.
// MalformedInput - единственная фатальная ошибка; любой другой исход
// возвращает секции и список предупреждений.
func Parse(htmlStr string) (*ParseResult, error) {
	if strings.TrimSpace(htmlStr) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedInput)
	}

	sanitized := policy.Sanitize(htmlStr)

	root, err := html.Parse(strings.NewReader(sanitized))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedInput, err.Error())
	}

	p := &parseState{}

	// Нативный формат: валидный блоб метаданных восстанавливает документ
	// напрямую, эвристический разбор DOM пропускается.
	if sections, metaWarnings, ok := detectMetadata(root); ok {
		return &ParseResult{
			Sections:       sections,
			Warnings:       append(p.warnings, metaWarnings...),
			IsNativeFormat: true,
		}, nil
	} else {
		p.warnings = append(p.warnings, metaWarnings...)
	}

	body := getBody(root)
	if body == nil {
		return nil, fmt.Errorf("%w: no document body", ErrMalformedInput)
	}

	sections := p.parseBody(body)
	result := &ParseResult{
		Sections: sections,
		Warnings: p.warnings,
	}
	if result.Warnings == nil {
		result.Warnings = []Warning{}
	}
	return result, nil
}

// parseBody обходит потомков body: многоколоночные контейнеры становятся
// секциями, последовательные обычные блоки накапливаются в одну одноколоночную
// секцию до ближайшей границы.
func (p *parseState) parseBody(body *html.Node) []Section {
	var sections []Section
	var pendingBlocks []Block
	var pendingText []TextSegment

	flushText := func() {
		if segs := trimSegments(pendingText); len(segs) > 0 {
			pendingBlocks = append(pendingBlocks, wrapSegments(segs))
		}
		pendingText = nil
	}
	flushBlocks := func() {
		flushText()
		if len(pendingBlocks) == 0 {
			return
		}
		sec := newSingleColumnSection(pendingBlocks)
		sections = append(sections, sec)
		pendingBlocks = nil
	}

	for el := body.FirstChild; el != nil; el = el.NextSibling {
		switch el.Type {
		case html.TextNode:
			pendingText = append(pendingText, splitPlaceholders(normalizeSpace(el.Data), MarkSet{})...)
		case html.ElementNode:
			if sec := p.detectSection(el); sec != nil {
				flushBlocks()
				sections = append(sections, *sec)
				continue
			}
			flushText()
			pendingBlocks = append(pendingBlocks, p.classifyElement(el)...)
		}
	}
	flushBlocks()

	return sections
}

func newSingleColumnSection(blocks []Block) Section {
	sec := edtypes.NewSection(1)
	sec.Columns[0].Blocks = blocks
	return sec
}

func getBody(rootNode *html.Node) *html.Node {
	return findElementByTagName(rootNode, "body")
}
