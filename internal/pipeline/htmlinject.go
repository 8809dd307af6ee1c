package pipeline

import (
	"html"
	"strings"
)

// Page describes a standalone HTML document built around a view fragment.
type Page struct {
	Title     string
	CSS       string
	BodyClass string
	Body      string
}

// WrapDocument renders p as a complete HTML5 document.
// The view is placed inside a <main class="preview"> so the page styles
// apply the same way they do in the editor.
func WrapDocument(p Page) string {
	var buf strings.Builder

	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	buf.WriteString(html.EscapeString(p.Title))
	buf.WriteString("</title>\n")
	if p.CSS != "" {
		buf.WriteString("<style>")
		buf.WriteString(sanitizeCSS(p.CSS))
		buf.WriteString("</style>\n")
	}
	buf.WriteString("</head>\n<body")
	if p.BodyClass != "" {
		buf.WriteString(` class="`)
		buf.WriteString(html.EscapeString(p.BodyClass))
		buf.WriteString(`"`)
	}
	buf.WriteString(">\n<main class=\"preview\">\n")
	buf.WriteString(p.Body)
	buf.WriteString("\n</main>\n</body>\n</html>")

	return buf.String()
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
