package pipeline

import (
	"regexp"
	"strings"
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// SplitLines returns the lines of content after line-ending normalization.
// An empty content yields a single empty line, matching a split on "\n".
func SplitLines(content string) []string {
	return strings.Split(NormalizeLineEndings(content), "\n")
}
