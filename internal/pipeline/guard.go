package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ErrGuard indicates the rendered HTML could not be parsed or serialized.
var ErrGuard = errors.New("HTML guard failed")

// eventHandlerPrefix is the attribute prefix of inline event handlers.
const eventHandlerPrefix = "on"

// unsafeElements are dropped together with their whole subtree.
var unsafeElements = map[string]bool{
	"script": true,
	"iframe": true,
}

// foreignRoots start MathML or SVG content.
var foreignRoots = map[string]bool{
	"math": true,
	"svg":  true,
}

// foreignUnsafeElements are dropped inside MathML or SVG content. Browsers
// parse them differently from x/net/html there: mglyph and malignmark keep
// the following tags in the MathML namespace, and raw text elements stop
// being raw text, so markup hidden in their text would come back to life.
var foreignUnsafeElements = map[string]bool{
	"mglyph":     true,
	"malignmark": true,
	"style":      true,
	"xmp":        true,
	"noembed":    true,
	"noframes":   true,
	"noscript":   true,
	"textarea":   true,
	"title":      true,
	"plaintext":  true,
}

// HTMLGuard defines the contract for removing executable constructs from
// rendered HTML.
type HTMLGuard interface {
	Sanitize(htmlContent string) (string, error)
}

// Guard removes script and iframe elements and inline event handler
// attributes from an HTML fragment. It always works on a parsed copy.
//
// In strict mode the result is also filtered through a bluemonday UGC policy,
// which drops javascript: URLs and any other construct outside the policy.
type Guard struct {
	strict *bluemonday.Policy
}

// NewGuard creates a Guard. strict enables the allowlist pass.
func NewGuard(strict bool) *Guard {
	g := &Guard{}
	if strict {
		g.strict = newStrictPolicy()
	}
	return g
}

// newStrictPolicy builds the UGC policy used in strict mode.
// Heading ids and highlighter classes survive so TOC anchors and code
// colors keep working.
func newStrictPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span", "pre", "div", "nav", "ol", "li")
	p.AllowAttrs("style").OnElements("span", "pre")
	return p
}

// Sanitize returns htmlContent with every script and iframe element removed
// and every on* attribute stripped, at any nesting depth.
func (g *Guard) Sanitize(htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", nil
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGuard, err)
	}

	guardTree(doc, false)

	out, err := renderHTML(doc, isFragment)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGuard, err)
	}

	if g.strict != nil {
		out = g.strict.Sanitize(out)
	}
	return out, nil
}

// guardTree removes unsafe children of n and strips handlers from n and its
// descendants. foreign is set below a math or svg element.
func guardTree(n *html.Node, foreign bool) {
	if n.Type == html.ElementNode {
		stripEventHandlers(n)
		foreign = foreign || foreignRoots[strings.ToLower(n.Data)]
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isUnsafeElement(c) || (foreign && isForeignUnsafeElement(c)) {
			n.RemoveChild(c)
		} else {
			guardTree(c, foreign)
		}
		c = next
	}
}

// isForeignUnsafeElement reports whether n must not appear inside MathML or
// SVG content.
func isForeignUnsafeElement(n *html.Node) bool {
	return n.Type == html.ElementNode && foreignUnsafeElements[strings.ToLower(n.Data)]
}

// isUnsafeElement reports whether n is an element the guard always removes.
// The check ignores the namespace so <svg><script> is caught too.
func isUnsafeElement(n *html.Node) bool {
	return n.Type == html.ElementNode && unsafeElements[strings.ToLower(n.Data)]
}

// stripEventHandlers drops every attribute whose name starts with "on".
func stripEventHandlers(n *html.Node) {
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if strings.HasPrefix(strings.ToLower(attr.Key), eventHandlerPrefix) {
			continue
		}
		kept = append(kept, attr)
	}
	n.Attr = kept
}
