package pipeline

import (
	"regexp"
	"strings"
)

// frontMatterPattern matches a leading block delimited by "---" lines.
// \A anchors at the very start of the text, never at a line start.
var frontMatterPattern = regexp.MustCompile(`\A---\s*[\s\S]*?---\s*`)

// Clean prepares raw editor text for rendering and plain-text exports.
//
// It strips a leading front-matter block and trims surrounding whitespace.
// Stripping repeats until the text no longer starts with a block, so stacked
// blocks are removed together and Clean(Clean(t)) == Clean(t).
//
// Citation markers are left untouched.
func Clean(text string) string {
	for {
		next := strings.TrimSpace(frontMatterPattern.ReplaceAllLiteralString(text, ""))
		if next == text {
			return next
		}
		text = next
	}
}
