package pipeline

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	nethtml "golang.org/x/net/html"
)

// ErrAnchorMismatch indicates anchors do not line up with the view headings.
var ErrAnchorMismatch = errors.New("anchors do not match view headings")

// TOC defaults.
const (
	AnchorPrefix    = "toc-heading-"
	DefaultTOCTitle = "Tabla de Contenidos"

	// minTOCHeadings is the smallest heading count that produces a TOC.
	minTOCHeadings = 2

	// tocIndentPx is the left margin added per heading level below h1.
	tocIndentPx = 20
)

// tocLevels maps the heading tags scanned for the outline to their level.
var tocLevels = map[string]int{"h1": 1, "h2": 2, "h3": 3}

// Anchor is one outline entry: a heading in the view and the id it receives.
type Anchor struct {
	Index int    // zero-based position in document order
	Level int    // 1-3
	ID    string // toc-heading-<Index>
	Text  string // heading text content
}

// TOC is a synthesized outline. Fragment is empty when the view has fewer
// than two headings, in which case Anchors is nil.
type TOC struct {
	Fragment string
	Anchors  []Anchor
}

// Empty reports whether the outline has no entries.
func (t TOC) Empty() bool {
	return len(t.Anchors) == 0
}

// BuildTOC scans viewHTML for h1-h3 headings in document order and returns
// the outline without touching viewHTML. Use ApplyAnchors to put the ids on
// the headings the fragment links to.
func BuildTOC(viewHTML, title string) (TOC, error) {
	doc, _, err := parseHTML(viewHTML)
	if err != nil {
		return TOC{}, fmt.Errorf("parsing view: %w", err)
	}

	headings := tocHeadings(doc)
	if len(headings) < minTOCHeadings {
		return TOC{}, nil
	}

	anchors := make([]Anchor, len(headings))
	for i, h := range headings {
		anchors[i] = Anchor{
			Index: i,
			Level: tocLevels[h.Data],
			ID:    AnchorPrefix + strconv.Itoa(i),
			Text:  textContent(h),
		}
	}

	return TOC{
		Fragment: generateTOC(anchors, title),
		Anchors:  anchors,
	}, nil
}

// ApplyAnchors returns viewHTML with each anchor's id set on the heading at
// the anchor's index. The view must have the same headings BuildTOC saw.
func ApplyAnchors(viewHTML string, anchors []Anchor) (string, error) {
	if len(anchors) == 0 {
		return viewHTML, nil
	}

	doc, isFragment, err := parseHTML(viewHTML)
	if err != nil {
		return "", fmt.Errorf("parsing view: %w", err)
	}

	headings := tocHeadings(doc)
	for _, a := range anchors {
		if a.Index < 0 || a.Index >= len(headings) {
			return "", fmt.Errorf("%w: index %d, %d headings", ErrAnchorMismatch, a.Index, len(headings))
		}
		setAttr(headings[a.Index], "id", a.ID)
	}

	return renderHTML(doc, isFragment)
}

// tocHeadings collects h1-h3 elements in document order.
func tocHeadings(doc *nethtml.Node) []*nethtml.Node {
	var headings []*nethtml.Node
	walkElements(doc, func(n *nethtml.Node) {
		if _, ok := tocLevels[n.Data]; ok {
			headings = append(headings, n)
		}
	})
	return headings
}

// generateTOC renders the outline as a nav-wrapped ordered list.
func generateTOC(anchors []Anchor, title string) string {
	var buf strings.Builder
	buf.WriteString(`<nav class="toc">`)

	if title != "" {
		buf.WriteString(`<div class="toc-title">`)
		buf.WriteString(html.EscapeString(title))
		buf.WriteString(`</div>`)
	}

	buf.WriteString(`<ol class="toc-list">`)
	for _, a := range anchors {
		fmt.Fprintf(&buf, `<li style="margin-left: %dpx;"><a href="#%s">%s</a></li>`,
			(a.Level-1)*tocIndentPx, html.EscapeString(a.ID), html.EscapeString(a.Text))
	}
	buf.WriteString(`</ol></nav>`)

	return buf.String()
}
