package pipeline

import "strings"

// PrintClass is the body class that switches the page to print styling.
const PrintClass = "print"

// LegacyBreakClass marks an element that forces a page break after itself.
const LegacyBreakClass = "html2pdf__page-break"

// BreakMode is one page-break policy.
type BreakMode string

// Page-break policies.
const (
	BreakAvoidAll BreakMode = "avoid-all" // avoid breaks inside block elements
	BreakCSS      BreakMode = "css"       // honor break-before/after in the page CSS
	BreakLegacy   BreakMode = "legacy"    // break after .html2pdf__page-break
)

// DefaultBreakModes is the policy applied to PDF exports.
var DefaultBreakModes = []BreakMode{BreakAvoidAll, BreakCSS, BreakLegacy}

// PageBreakCSS generates print rules for the given policies.
// Headings are never left alone at the bottom of a page.
func PageBreakCSS(modes []BreakMode) string {
	var buf strings.Builder

	buf.WriteString(`
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
}
`)

	for _, m := range modes {
		switch m {
		case BreakAvoidAll:
			buf.WriteString(`
p, li, pre, blockquote, table, tr, img, figure, h1, h2, h3, h4, h5, h6 {
  break-inside: avoid;
  page-break-inside: avoid;
}
`)
		case BreakCSS:
			buf.WriteString(`
.page-break-before { break-before: page; page-break-before: always; }
.page-break-after { break-after: page; page-break-after: always; }
.page-break-avoid { break-inside: avoid; page-break-inside: avoid; }
`)
		case BreakLegacy:
			buf.WriteString(`
.` + LegacyBreakClass + ` {
  display: block;
  height: 0;
  break-after: page;
  page-break-after: always;
}
`)
		}
	}

	return buf.String()
}
