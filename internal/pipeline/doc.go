// Package pipeline implements the text-to-view stages of the editor.
//
// The stages are pure functions over strings:
//   - Clean strips front matter from raw editor text
//   - Renderer converts Markdown to an HTML fragment via Goldmark
//   - Guard removes script, iframe and inline event handlers
//   - BuildTOC and ApplyAnchors synthesize the outline and tag headings
//   - WrapDocument turns a fragment into a standalone printable page
//   - Stamp expands running header and footer text
//
// Browser-backed exports live in the root mdstudio package. This package
// never holds state between calls, so callers own the live view and decide
// when anchors are applied to it.
package pipeline
