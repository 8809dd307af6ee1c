package mdstudio

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

// DocumentComposer builds a word-processor document from plain paragraphs.
type DocumentComposer interface {
	DOCX(paragraphs []string) ([]byte, error)
}

// Compile-time interface check.
var _ DocumentComposer = DocxComposer{}

// DocxComposer writes Office Open XML documents with go-docx.
// Each paragraph becomes one run of plain text with no markup.
type DocxComposer struct{}

// DOCX returns a .docx file holding one paragraph per entry.
func (DocxComposer) DOCX(paragraphs []string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()
	for _, p := range paragraphs {
		para := doc.AddParagraph()
		if p != "" {
			para.AddText(p)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocxGeneration, err)
	}
	return buf.Bytes(), nil
}
