package mdstudio

import (
	"fmt"
	"time"

	"github.com/alnah/go-mdstudio/internal/dateutil"
)

// DefaultFilePrefix is the base name of every exported file.
const DefaultFilePrefix = "documento"

// Namer builds export file names: <prefix>-<date>.<ext>.
// The date is taken from Now in UTC, truncated to the day.
type Namer struct {
	Prefix     string           // empty means DefaultFilePrefix
	DateFormat string           // dateutil tokens, empty means YYYY-MM-DD
	Now        func() time.Time // nil means time.Now
}

// FileName returns the file name for an export of format f.
// Two formats exported on the same day differ only by extension.
func (n Namer) FileName(f Format) (string, error) {
	if !f.Valid() {
		return "", fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}

	now := time.Now
	if n.Now != nil {
		now = n.Now
	}

	day, err := dateutil.FormatDay(now().UTC(), n.DateFormat)
	if err != nil {
		return "", err
	}

	prefix := n.Prefix
	if prefix == "" {
		prefix = DefaultFilePrefix
	}

	return prefix + "-" + day + "." + f.Extension(), nil
}
