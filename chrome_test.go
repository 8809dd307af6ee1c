package mdstudio

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/alnah/go-mdstudio/internal/pipeline"
)

// ---------------------------------------------------------------------------
// TestBuildPDFOptions
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	t.Run("A4 portrait with equal margins", func(t *testing.T) {
		t.Parallel()

		got := buildPDFOptions(PDFOptions{MarginIn: 0.75})

		if *got.PaperWidth != paperWidthInches || *got.PaperHeight != paperHeightInches {
			t.Errorf("paper = %vx%v, want A4", *got.PaperWidth, *got.PaperHeight)
		}
		for name, m := range map[string]*float64{
			"top": got.MarginTop, "bottom": got.MarginBottom,
			"left": got.MarginLeft, "right": got.MarginRight,
		} {
			if *m != 0.75 {
				t.Errorf("margin %s = %v, want 0.75", name, *m)
			}
		}
		if got.Landscape {
			t.Error("Landscape = true, want portrait")
		}
		if !got.PrintBackground {
			t.Error("PrintBackground = false")
		}
		if got.DisplayHeaderFooter {
			t.Error("DisplayHeaderFooter = true without a stamp")
		}
	})

	t.Run("stamp enables header and footer", func(t *testing.T) {
		t.Parallel()

		got := buildPDFOptions(PDFOptions{
			MarginIn: 1,
			Stamp:    pipeline.Stamp{Header: "Informe", Footer: "Pág. {page}/{pages}"},
		})

		if !got.DisplayHeaderFooter {
			t.Fatal("DisplayHeaderFooter = false with a stamp")
		}
		if !strings.Contains(got.HeaderTemplate, "Informe") {
			t.Errorf("HeaderTemplate = %q", got.HeaderTemplate)
		}
		want := `Pág. <span class="pageNumber"></span>/<span class="totalPages"></span>`
		if !strings.Contains(got.FooterTemplate, want) {
			t.Errorf("FooterTemplate = %q, want it to contain %q", got.FooterTemplate, want)
		}
	})

	t.Run("footer only keeps an empty header", func(t *testing.T) {
		t.Parallel()

		got := buildPDFOptions(PDFOptions{Stamp: pipeline.Stamp{Footer: "pie"}})

		if got.HeaderTemplate != "<span></span>" {
			t.Errorf("HeaderTemplate = %q, want empty span", got.HeaderTemplate)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLookupBrowser
// ---------------------------------------------------------------------------

func TestLookupBrowser_MissingEnvBinary(t *testing.T) {
	t.Setenv(EnvBrowserBin, "/nonexistent/chrome-binary")

	_, err := LookupBrowser()
	if !errors.Is(err, ErrDependencyMissing) {
		t.Errorf("LookupBrowser() error = %v, want ErrDependencyMissing", err)
	}

	p := NewRendererPool(1, 0)
	defer p.Close()
	if err := p.Check(t.Context()); !errors.Is(err, ErrDependencyMissing) {
		t.Errorf("Check() error = %v, want ErrDependencyMissing", err)
	}
}

func TestLookupBrowser_EnvBinary(t *testing.T) {
	bin := t.TempDir() + "/chrome"
	if err := writeExecutable(bin); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBrowserBin, bin)

	got, err := LookupBrowser()
	if err != nil {
		t.Fatalf("LookupBrowser() unexpected error: %v", err)
	}
	if got != bin {
		t.Errorf("LookupBrowser() = %q, want %q", got, bin)
	}
}

func writeExecutable(path string) error {
	return os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755)
}
