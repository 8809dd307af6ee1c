package mdstudio

import (
	"context"
	"fmt"

	"github.com/alnah/go-mdstudio/internal/pipeline"
)

// Previewer turns editor text into a guarded HTML fragment.
type Previewer struct {
	renderer pipeline.MarkdownRenderer
	guard    pipeline.HTMLGuard
}

// NewPreviewer creates a Previewer. Nil collaborators get the defaults:
// goldmark rendering and the non-strict guard.
func NewPreviewer(renderer pipeline.MarkdownRenderer, guard pipeline.HTMLGuard) *Previewer {
	if renderer == nil {
		renderer = pipeline.NewRenderer()
	}
	if guard == nil {
		guard = pipeline.NewGuard(false)
	}
	return &Previewer{renderer: renderer, guard: guard}
}

// Render runs Clean, line-ending normalization, markup rendering and the
// guard, in that order. Empty text renders to an empty fragment.
func (p *Previewer) Render(ctx context.Context, text string) (string, error) {
	content := pipeline.NormalizeLineEndings(pipeline.Clean(text))
	if content == "" {
		return "", nil
	}

	raw, err := p.renderer.Render(ctx, content)
	if err != nil {
		return "", fmt.Errorf("rendering preview: %w", err)
	}

	guarded, err := p.guard.Sanitize(raw)
	if err != nil {
		return "", fmt.Errorf("guarding preview: %w", err)
	}
	return guarded, nil
}
