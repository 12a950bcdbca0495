// Определяет политику безопасности для импортируемого HTML произвольного происхождения.
// Скрипты и обработчики событий вырезаются, инлайновые стили и data-атрибуты сохраняются:
// они несут структурную и стилистическую информацию, которую восстанавливает парсер.
//
// Основные возможности:
//   - Запрет script-тегов и on*-атрибутов (политика не разрешает их явно).
//   - Сохранение style с валидацией значений по регулярным выражениям.
//   - Сохранение data-* атрибутов нативного формата и комментариев с метаданными.
//   - Сохранение структурных тегов: секции, таблицы, списки, элементы форм.
package policy

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var ImportPolicy *bluemonday.Policy = bluemonday.UGCPolicy()

func init() {
	colorRegexp := regexp.MustCompile(`^(#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|rgb\((\d+),\s*(\d+),\s*(\d+)\)|inherit)$`)
	sizeRegexp := regexp.MustCompile(`^-?\d+(\.\d+)?(px|em|rem|pt|%)?$`)
	fontWeightRegexp := regexp.MustCompile(`^(normal|bold|[1-9]00)$`)
	fontFamilyRegexp := regexp.MustCompile(`^[\w\s,'"-]+$`)
	displayRegexp := regexp.MustCompile(`^(block|inline|inline-block|grid|flex|none)$`)
	gridRegexp := regexp.MustCompile(`^[\w\s.%()]+$`)
	boolRegexp := regexp.MustCompile(`^(true|false)$`)
	intRegexp := regexp.MustCompile(`^\d+$`)

	ImportPolicy.AllowComments()
	ImportPolicy.AllowElements("section", "fieldset", "legend", "label", "button", "select", "option", "textarea", "colgroup", "col", "center", "hr", "input", "style")
	ImportPolicy.AllowAttrs("type", "name", "value", "checked", "selected", "placeholder", "required", "accept", "multiple", "rows", "cols").Globally()
	ImportPolicy.AllowAttrs("colspan", "rowspan", "width", "height", "cellpadding", "cellspacing", "bgcolor", "background", "border", "role").Globally()
	ImportPolicy.AllowDataAttributes()
	ImportPolicy.AllowAttrs("data-block", "data-block-id", "data-section-id", "data-columns", "data-placeholder", "data-header-row").Globally()
	ImportPolicy.AllowAttrs("class", "id", "for").Globally()
	ImportPolicy.AllowImages()
	ImportPolicy.AllowLists()
	ImportPolicy.AllowTables()

	ImportPolicy.AllowStyles("color", "background-color", "border-color").Matching(colorRegexp).Globally()
	ImportPolicy.AllowStyles("width", "height", "font-size", "line-height", "margin", "margin-top", "margin-right", "margin-bottom", "margin-left", "padding", "letter-spacing", "gap").Matching(sizeRegexp).Globally()
	ImportPolicy.AllowStyles("font-weight").Matching(fontWeightRegexp).Globally()
	ImportPolicy.AllowStyles("font-family").Matching(fontFamilyRegexp).Globally()
	ImportPolicy.AllowStyles("text-align").Matching(bluemonday.CellAlign).Globally()
	ImportPolicy.AllowStyles("font-style", "text-decoration", "text-decoration-line").Matching(regexp.MustCompile(`^[\w\s-]+$`)).Globally()
	ImportPolicy.AllowStyles("display").Matching(displayRegexp).Globally()
	ImportPolicy.AllowStyles("float").Matching(regexp.MustCompile(`^(left|right|none)$`)).Globally()
	ImportPolicy.AllowStyles("grid-template-columns").Matching(gridRegexp).Globally()

	ImportPolicy.AllowAttrs("data-checked").Matching(boolRegexp).OnElements("li")
	ImportPolicy.AllowAttrs("start").Matching(intRegexp).OnElements("ol")
}

// Sanitize вырезает опасный контент, сохраняя структуру и стили.
func Sanitize(html string) string {
	return ImportPolicy.Sanitize(html)
}
