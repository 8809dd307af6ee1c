package mdstudio

import (
	"fmt"
	"math"
)

// Margin bounds in millimetres.
const (
	DefaultMarginMM = 20.0
	MinMarginMM     = 0.0
	MaxMarginMM     = 100.0

	// mmPerInch converts millimetres to the inches Chrome expects.
	mmPerInch = 25.4
)

// ExportOptions are the per-export settings read from the editor controls.
// Only PDF uses them.
type ExportOptions struct {
	MarginMM   float64 `json:"margin_mm"`
	Header     string  `json:"header"`
	Footer     string  `json:"footer"` // may contain {page} and {pages}
	IncludeTOC bool    `json:"include_toc"`
}

// DefaultExportOptions returns the options of an untouched editor page.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{MarginMM: DefaultMarginMM}
}

// Validate checks the margin bounds.
func (o ExportOptions) Validate() error {
	if math.IsNaN(o.MarginMM) || o.MarginMM < MinMarginMM || o.MarginMM > MaxMarginMM {
		return fmt.Errorf("%w: %.2f mm (must be between %.0f and %.0f)", ErrInvalidMargin, o.MarginMM, MinMarginMM, MaxMarginMM)
	}
	return nil
}

// MarginInches returns the margin converted for the PDF composer.
func (o ExportOptions) MarginInches() float64 {
	return o.MarginMM / mmPerInch
}

// Artifact is an exported file ready to be written or downloaded.
type Artifact struct {
	Name     string
	MIMEType string
	Data     []byte
}

// View is a rendered, guarded preview fragment. Version increases with every
// publication, so subscribers can drop stale views.
type View struct {
	HTML    string `json:"html"`
	Version uint64 `json:"version"`
}

// ButtonState is what an export button shows.
type ButtonState struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
	Spinner  bool   `json:"spinner"`
}

// EventType names a message pushed to subscribers.
type EventType string

// Event types.
const (
	EventPreview EventType = "preview"
	EventError   EventType = "error"
	EventBusy    EventType = "busy"
)

// Event is a state change pushed to subscribers.
// Exactly one of View, Message or Button is set, matching Type.
type Event struct {
	Type    EventType
	View    *View
	Message string
	Button  *ButtonState
}
