package mdstudio

import "sync"

// WelcomeText seeds the document when the editor starts.
const WelcomeText = "# ¡Bienvenido al Conversor Universal Premium!\n\n" +
	"## Nuevas Funciones\n\n" +
	"- **Tabla de Contenidos Automática:** Actívala arriba.\n" +
	"- **Encabezados y Pies de Página:** Personalízalos para tu PDF."

// Document is the text buffer being edited. Safe for concurrent use.
type Document struct {
	mu        sync.RWMutex
	text      string
	sourceDir string
	seq       uint64
	rev       uint64
}

// NewDocument creates a Document holding text.
func NewDocument(text string) *Document {
	return &Document{text: text}
}

// Text returns the current content.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// Snapshot returns the content and its revision. The revision grows with
// every change.
func (d *Document) Snapshot() (string, uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text, d.rev
}

// Revision returns the revision of the current content.
func (d *Document) Revision() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rev
}

// SourceDir returns the directory relative image paths resolve against.
// Empty unless the document was loaded from disk.
func (d *Document) SourceDir() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sourceDir
}

// Set replaces the content and keeps the source directory.
func (d *Document) Set(text string) {
	d.mu.Lock()
	d.text = text
	d.rev++
	d.mu.Unlock()
}

// SetSeq replaces the content with an edit numbered seq. Edits that arrive
// with a number not above the last applied one are dropped; the return value
// reports whether text was applied.
func (d *Document) SetSeq(seq uint64, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq <= d.seq {
		return false
	}
	d.seq = seq
	d.text = text
	d.rev++
	return true
}

// Replace replaces the content and the source directory.
func (d *Document) Replace(text, sourceDir string) {
	d.mu.Lock()
	d.text = text
	d.sourceDir = sourceDir
	d.rev++
	d.mu.Unlock()
}

// Clear empties the document.
func (d *Document) Clear() {
	d.Replace("", "")
}
