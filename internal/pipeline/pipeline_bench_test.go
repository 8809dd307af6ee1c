//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// generateMixedMarkdown creates markdown with n sections of headings,
// paragraphs, lists and code.
func generateMixedMarkdown(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "## Section %d\n\n", i)
		sb.WriteString("Paragraph with **bold** and `code` and <span onclick=\"x()\">raw</span>.\n\n")
		sb.WriteString("- item one\n- item two\n\n")
		sb.WriteString("```go\nfunc f() int { return 1 }\n```\n\n")
	}
	return sb.String()
}

// BenchmarkPreviewStages measures each stage of a preview render.
func BenchmarkPreviewStages(b *testing.B) {
	ctx := context.Background()
	renderer := NewRenderer()
	guard := NewGuard(false)

	for _, size := range []int{1, 10, 100} {
		md := generateMixedMarkdown(size)
		view, err := renderer.Render(ctx, Clean(md))
		if err != nil {
			b.Fatal(err)
		}

		b.Run(fmt.Sprintf("render_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := renderer.Render(ctx, md); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("guard_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := guard.Sanitize(view); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("toc_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				toc, err := BuildTOC(view, DefaultTOCTitle)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := ApplyAnchors(view, toc.Anchors); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
