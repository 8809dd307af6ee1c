package mdstudio

import (
	"errors"
	"math"
	"testing"
)

// ---------------------------------------------------------------------------
// TestExportOptions_Validate
// ---------------------------------------------------------------------------

func TestExportOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		margin  float64
		wantErr bool
	}{
		{name: "default", margin: DefaultMarginMM},
		{name: "zero", margin: 0},
		{name: "maximum", margin: MaxMarginMM},
		{name: "negative", margin: -1, wantErr: true},
		{name: "too large", margin: 100.5, wantErr: true},
		{name: "NaN", margin: math.NaN(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ExportOptions{MarginMM: tt.margin}.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMargin) {
					t.Errorf("Validate() error = %v, want ErrInvalidMargin", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestExportOptions_MarginInches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mm   float64
		want float64
	}{
		{25.4, 1},
		{20, 20 / 25.4},
		{0, 0},
	}

	for _, tt := range tests {
		got := ExportOptions{MarginMM: tt.mm}.MarginInches()
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MarginInches(%v mm) = %v, want %v", tt.mm, got, tt.want)
		}
	}
}

func TestDefaultExportOptions(t *testing.T) {
	t.Parallel()

	got := DefaultExportOptions()
	if got.MarginMM != 20 {
		t.Errorf("MarginMM = %v, want 20", got.MarginMM)
	}
	if got.IncludeTOC || got.Header != "" || got.Footer != "" {
		t.Errorf("DefaultExportOptions() = %+v, want only the margin set", got)
	}
}
