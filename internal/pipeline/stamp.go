package pipeline

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Footer placeholder tokens.
const (
	PagePlaceholder  = "{page}"
	PagesPlaceholder = "{pages}"
)

// Chrome replaces the content of these spans while printing each page.
const (
	chromePageNumber = `<span class="pageNumber"></span>`
	chromeTotalPages = `<span class="totalPages"></span>`
)

// stampFontSize matches a 10pt running text.
const stampFontSize = "10pt"

// stampOffsetIn is the distance of the running text from the page edge.
const stampOffsetIn = 0.5

// Stamp holds the running header and footer text drawn on every page.
// Footer may contain {page} and {pages}.
type Stamp struct {
	Header string
	Footer string
}

// Empty reports whether there is nothing to draw.
func (s Stamp) Empty() bool {
	return s.Header == "" && s.Footer == ""
}

// footerText returns the footer as Chrome draws it on page of pages.
// FooterTemplate makes the same substitution with Chrome's page counters.
func (s Stamp) footerText(page, pages int) string {
	return ExpandFooter(s.Footer, strconv.Itoa(page), strconv.Itoa(pages))
}

// ExpandFooter substitutes the first {page} and the first {pages} in tmpl.
// Later occurrences are kept literally.
func ExpandFooter(tmpl, page, pages string) string {
	out := strings.Replace(tmpl, PagePlaceholder, page, 1)
	return strings.Replace(out, PagesPlaceholder, pages, 1)
}

// HeaderTemplate returns the Chrome print header for the stamp, indented by
// marginIn inches. Returns an empty span when there is no header, which
// suppresses Chrome's default date and title header.
func (s Stamp) HeaderTemplate(marginIn float64) string {
	if s.Header == "" {
		return "<span></span>"
	}
	return stampTemplate(html.EscapeString(s.Header), marginIn, "top")
}

// FooterTemplate returns the Chrome print footer with the page tokens bound
// to Chrome's page counters.
func (s Stamp) FooterTemplate(marginIn float64) string {
	if s.Footer == "" {
		return "<span></span>"
	}
	return stampTemplate(ExpandFooter(html.EscapeString(s.Footer), chromePageNumber, chromeTotalPages), marginIn, "bottom")
}

// stampTemplate positions escaped content at the page edge. Chrome renders
// header and footer templates without the page styles, so the font is set
// inline.
func stampTemplate(content string, marginIn float64, edge string) string {
	return fmt.Sprintf(
		`<div style="width:100%%;font-size:%s;font-family:sans-serif;padding-left:%.3fin;position:absolute;%s:%.2fin;">%s</div>`,
		stampFontSize, marginIn, edge, stampOffsetIn, content,
	)
}
