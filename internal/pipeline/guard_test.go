package pipeline

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// assertGuarded fails if out contains a script or iframe element or an on*
// attribute anywhere in its tree.
func assertGuarded(t *testing.T, out string) {
	t.Helper()

	doc, _, err := parseHTML(out)
	if err != nil {
		t.Fatalf("reparsing guarded output: %v", err)
	}
	walkElements(doc, func(n *html.Node) {
		if isUnsafeElement(n) {
			t.Errorf("output contains <%s>: %s", n.Data, out)
		}
		for _, a := range n.Attr {
			if strings.HasPrefix(strings.ToLower(a.Key), "on") {
				t.Errorf("output contains attribute %q: %s", a.Key, out)
			}
		}
	})
}

func TestGuard_Sanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "empty input",
			input:        "",
			wantContains: nil,
		},
		{
			name:         "safe content unchanged",
			input:        `<h1>Title</h1><p>Hello <strong>world</strong></p>`,
			wantContains: []string{`<h1>Title</h1>`, `<p>Hello <strong>world</strong></p>`},
		},
		{
			name:         "top-level script removed",
			input:        `<script>alert(1)</script><p>ok</p>`,
			wantContains: []string{`<p>ok</p>`},
			wantExcludes: []string{"alert"},
		},
		{
			name:         "nested script removed",
			input:        `<div><section><p>a<script src="x.js"></script></p></section></div>`,
			wantContains: []string{`<p>a</p>`},
			wantExcludes: []string{"x.js"},
		},
		{
			name:         "iframe removed",
			input:        `<p>before</p><iframe src="https://evil.example"></iframe><p>after</p>`,
			wantContains: []string{`<p>before</p>`, `<p>after</p>`},
			wantExcludes: []string{"evil.example"},
		},
		{
			name:         "uppercase tags removed",
			input:        `<SCRIPT>alert(1)</SCRIPT><IFRAME></IFRAME>`,
			wantExcludes: []string{"alert"},
		},
		{
			name:         "script inside svg removed",
			input:        `<svg><script>alert(1)</script><circle r="1"></circle></svg>`,
			wantContains: []string{"<circle"},
			wantExcludes: []string{"alert"},
		},
		{
			name:         "event handlers stripped",
			input:        `<img src="a.png" onerror="alert(1)"><p onclick="x()" class="c">t</p>`,
			wantContains: []string{`src="a.png"`, `class="c"`},
			wantExcludes: []string{"onerror", "onclick", "alert"},
		},
		{
			name:         "mixed case handler stripped",
			input:        `<a href="#x" OnMouseOver="steal()">x</a>`,
			wantContains: []string{`href="#x"`},
			wantExcludes: []string{"steal"},
		},
		{
			name:         "deep handler stripped",
			input:        `<ul><li><span><b onfocus="f()">x</b></span></li></ul>`,
			wantContains: []string{`<b>x</b>`},
		},
		{
			name:         "javascript URL kept in default mode",
			input:        `<a href="javascript:alert(1)">x</a>`,
			wantContains: []string{`javascript:alert(1)`},
		},
	}

	guard := NewGuard(false)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := guard.Sanitize(tt.input)
			if err != nil {
				t.Fatalf("Sanitize() error = %v", err)
			}

			assertGuarded(t, got)

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize() = %q, want to contain %q", got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Sanitize() = %q, should not contain %q", got, exclude)
				}
			}
		})
	}
}

func TestGuard_ForeignContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
	}{
		{
			name:  "style under mglyph",
			input: `<math><mtext><table><mglyph><style><img src=x onerror=alert(1)>`,
		},
		{
			name:  "xmp under mglyph",
			input: `<math><mtext><table><mglyph><xmp><img src=x onerror=alert(1)>`,
		},
		{
			name:  "noscript under malignmark",
			input: `<math><mtext><table><malignmark><noscript><img src=x onerror=alert(1)>`,
		},
		{
			name:  "style inside svg",
			input: `<svg><style><img src=x onerror=alert(1)></style></svg>`,
		},
		{
			name:  "noembed inside math",
			input: `<math><noembed><img src=x onerror=alert(1)></noembed></math>`,
		},
		{
			name:         "plain math kept",
			input:        `<math><mi>x</mi><mo>=</mo><mn>1</mn></math>`,
			wantContains: []string{"<mi>x</mi>", "<mn>1</mn>"},
		},
		{
			name:         "plain svg kept",
			input:        `<svg viewBox="0 0 1 1"><circle r="1"></circle></svg>`,
			wantContains: []string{"<circle"},
		},
	}

	guard := NewGuard(false)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := guard.Sanitize(tt.input)
			if err != nil {
				t.Fatalf("Sanitize() error = %v", err)
			}

			assertGuarded(t, got)

			for _, banned := range []string{"onerror", "alert", "<mglyph", "<malignmark", "<style", "<xmp", "<noscript", "<noembed"} {
				if strings.Contains(got, banned) {
					t.Errorf("Sanitize() = %q, should not contain %q", got, banned)
				}
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestGuard_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := `<p onclick="x()">a</p><script>b</script>`
	original := strings.Clone(input)

	if _, err := NewGuard(false).Sanitize(input); err != nil {
		t.Fatalf("Sanitize() error = %v", err)
	}
	if input != original {
		t.Errorf("input changed: %q", input)
	}
}

func TestGuard_Strict(t *testing.T) {
	t.Parallel()

	guard := NewGuard(true)

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "javascript URL removed",
			input:        `<p><a href="javascript:alert(1)">x</a></p>`,
			wantExcludes: []string{"javascript:"},
		},
		{
			name:         "heading anchors kept",
			input:        `<h2 id="toc-heading-1">Section</h2>`,
			wantContains: []string{`id="toc-heading-1"`},
		},
		{
			name:         "highlighter classes kept",
			input:        `<pre class="chroma"><code><span class="kd">func</span></code></pre>`,
			wantContains: []string{`class="chroma"`, `class="kd"`},
		},
		{
			name:         "style element removed",
			input:        `<style>body{display:none}</style><p>ok</p>`,
			wantContains: []string{`<p>ok</p>`},
			wantExcludes: []string{"display:none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := guard.Sanitize(tt.input)
			if err != nil {
				t.Fatalf("Sanitize() error = %v", err)
			}

			assertGuarded(t, got)

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize() = %q, want to contain %q", got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Sanitize() = %q, should not contain %q", got, exclude)
				}
			}
		})
	}
}
