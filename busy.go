package mdstudio

import (
	"fmt"
	"sync"
)

// BusyLabel replaces the button label while its export runs.
const BusyLabel = "Generando..."

// ClearButtonID is the id of the clear button. It never shows a busy state.
const ClearButtonID = "clear"

// DefaultButtons returns the editor buttons in display order with their
// idle labels.
func DefaultButtons() []ButtonState {
	return []ButtonState{
		{ID: FormatPDF.ButtonID(), Label: "Exportar PDF"},
		{ID: FormatDOCX.ButtonID(), Label: "Exportar DOCX"},
		{ID: FormatPNG.ButtonID(), Label: "Exportar PNG"},
		{ID: FormatTXT.ButtonID(), Label: "Exportar TXT"},
		{ID: FormatMD.ButtonID(), Label: "Exportar MD"},
		{ID: ClearButtonID, Label: "Limpiar"},
	}
}

// BusyRegistry tracks the Idle/Busy state of every button.
// Buttons are independent: one busy export never blocks another button.
type BusyRegistry struct {
	mu       sync.Mutex
	order    []string
	shown    map[string]string // label currently displayed
	original map[string]string // captured on the first Busy transition
	busy     map[string]bool
	notify   func(ButtonState)
}

// NewBusyRegistry creates a registry for buttons. notify, if not nil, is
// called after every transition, outside the registry lock.
func NewBusyRegistry(buttons []ButtonState, notify func(ButtonState)) *BusyRegistry {
	r := &BusyRegistry{
		order:    make([]string, 0, len(buttons)),
		shown:    make(map[string]string, len(buttons)),
		original: make(map[string]string, len(buttons)),
		busy:     make(map[string]bool, len(buttons)),
		notify:   notify,
	}
	for _, b := range buttons {
		r.order = append(r.order, b.ID)
		r.shown[b.ID] = b.Label
	}
	return r
}

// Begin moves button id to Busy and returns the function that moves it back
// to Idle. The release function is safe to call more than once.
// Returns ErrBusy if the button is already busy.
func (r *BusyRegistry) Begin(id string) (release func(), err error) {
	r.mu.Lock()
	if _, ok := r.shown[id]; !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: no button %q", ErrUnknownFormat, id)
	}
	if r.busy[id] {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrBusy, id)
	}
	if _, ok := r.original[id]; !ok {
		r.original[id] = r.shown[id]
	}
	r.busy[id] = true
	r.shown[id] = BusyLabel
	state := r.stateLocked(id)
	r.mu.Unlock()

	r.emit(state)

	var once sync.Once
	return func() { once.Do(func() { r.end(id) }) }, nil
}

// end moves button id back to Idle with its original label.
func (r *BusyRegistry) end(id string) {
	r.mu.Lock()
	r.busy[id] = false
	r.shown[id] = r.original[id]
	state := r.stateLocked(id)
	r.mu.Unlock()

	r.emit(state)
}

// IsBusy reports whether button id is busy.
func (r *BusyRegistry) IsBusy(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy[id]
}

// State returns the current state of button id.
func (r *BusyRegistry) State(id string) (ButtonState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shown[id]; !ok {
		return ButtonState{}, false
	}
	return r.stateLocked(id), true
}

// States returns every button state in display order.
func (r *BusyRegistry) States() []ButtonState {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ButtonState, len(r.order))
	for i, id := range r.order {
		out[i] = r.stateLocked(id)
	}
	return out
}

func (r *BusyRegistry) stateLocked(id string) ButtonState {
	busy := r.busy[id]
	return ButtonState{
		ID:       id,
		Label:    r.shown[id],
		Disabled: busy,
		Spinner:  busy,
	}
}

func (r *BusyRegistry) emit(state ButtonState) {
	if r.notify != nil {
		r.notify(state)
	}
}
