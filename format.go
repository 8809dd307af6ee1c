package mdstudio

import (
	"fmt"
	"strings"
)

// Format is an export target. The set is closed: every value below has one
// handler in Exporter.
type Format int

// Export formats, in button order.
const (
	FormatPDF Format = iota + 1
	FormatDOCX
	FormatPNG
	FormatTXT
	FormatMD
)

// allFormats lists every Format in button order.
var allFormats = []Format{FormatPDF, FormatDOCX, FormatPNG, FormatTXT, FormatMD}

// AllFormats returns every export format in button order.
func AllFormats() []Format {
	out := make([]Format, len(allFormats))
	copy(out, allFormats)
	return out
}

// FormatNames returns the lowercase names of every format.
func FormatNames() []string {
	names := make([]string, len(allFormats))
	for i, f := range allFormats {
		names[i] = f.Extension()
	}
	return names
}

// ParseFormat parses a case-insensitive format name such as "pdf" or "MD".
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, f := range allFormats {
		if f.Extension() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Valid reports whether f is one of the declared formats.
func (f Format) Valid() bool {
	return f >= FormatPDF && f <= FormatMD
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	case FormatPNG:
		return "png"
	case FormatTXT:
		return "txt"
	case FormatMD:
		return "md"
	}
	return ""
}

// MIMEType returns the media type of the exported artifact.
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPNG:
		return "image/png"
	case FormatTXT:
		return "text/plain; charset=utf-8"
	case FormatMD:
		return "text/markdown; charset=utf-8"
	}
	return "application/octet-stream"
}

// String returns the uppercase name shown to the user, e.g. "PDF".
func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return strings.ToUpper(f.Extension())
}

// ButtonID returns the id of the export button bound to f.
func (f Format) ButtonID() string {
	return f.Extension()
}
