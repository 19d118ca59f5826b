package keymap

import (
	"testing"

	"github.com/caksoylar/keymap/pkg/errors"
)

func key(tap string) *Key {
	return &Key{Tap: tap}
}

func TestValidate(t *testing.T) {
	valid := &Document{
		Layout: Layout{Split: true, Rows: 1, Columns: 2, Thumbs: 1},
		Layers: []NamedLayer{{
			Name: "base",
			Layer: Layer{
				Left:        KeyBlock{{key("A"), key("B")}},
				Right:       KeyBlock{{key("C"), key("D")}},
				LeftThumbs:  KeyRow{key("Space")},
				RightThumbs: KeyRow{key("Enter")},
				Combos:      []Combo{{Positions: [2]int{0, 3}, Key: Key{Tap: "X"}}},
			},
		}},
	}
	if err := Validate(valid); err != nil {
		t.Fatalf("Validate(valid) error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Document)
		code   errors.Code
	}{
		{
			name:   "zero rows",
			mutate: func(d *Document) { d.Layout.Rows = 0 },
			code:   errors.ErrCodeInvalidLayout,
		},
		{
			name:   "zero columns",
			mutate: func(d *Document) { d.Layout.Columns = 0 },
			code:   errors.ErrCodeInvalidLayout,
		},
		{
			name:   "negative thumbs",
			mutate: func(d *Document) { d.Layout.Thumbs = -1 },
			code:   errors.ErrCodeInvalidLayout,
		},
		{
			name:   "thumbs exceed columns",
			mutate: func(d *Document) { d.Layout.Thumbs = 3 },
			code:   errors.ErrCodeInvalidLayout,
		},
		{
			name:   "no layers",
			mutate: func(d *Document) { d.Layers = nil },
			code:   errors.ErrCodeInvalidDocument,
		},
		{
			name: "non-split with right block",
			mutate: func(d *Document) {
				d.Layout.Split = false
				d.Layout.Thumbs = 0
				d.Layers[0].Layer.LeftThumbs = nil
				d.Layers[0].Layer.RightThumbs = nil
				d.Layers[0].Layer.Combos = nil
			},
			code: errors.ErrCodeInvalidLayer,
		},
		{
			name: "combo position out of range",
			mutate: func(d *Document) {
				d.Layers[0].Layer.Combos = []Combo{{Positions: [2]int{0, 4}, Key: Key{Tap: "X"}}}
			},
			code: errors.ErrCodeInvalidCombo,
		},
		{
			name: "negative combo position",
			mutate: func(d *Document) {
				d.Layers[0].Layer.Combos = []Combo{{Positions: [2]int{-1, 0}, Key: Key{Tap: "X"}}}
			},
			code: errors.ErrCodeInvalidCombo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{
				Layout: valid.Layout,
				Layers: []NamedLayer{{Name: "base", Layer: valid.Layers[0].Layer}},
			}
			tt.mutate(doc)

			err := Validate(doc)
			if err == nil {
				t.Fatal("Validate should fail")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %s, want %s (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestLayoutTotals(t *testing.T) {
	tests := []struct {
		name      string
		layout    Layout
		totalCols int
		totalKeys int
	}{
		{"split", Layout{Split: true, Rows: 3, Columns: 5}, 10, 30},
		{"non-split", Layout{Split: false, Rows: 3, Columns: 3}, 3, 9},
		{"single key", Layout{Split: false, Rows: 1, Columns: 1}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.layout.TotalColumns(); got != tt.totalCols {
				t.Errorf("TotalColumns() = %d, want %d", got, tt.totalCols)
			}
			if got := tt.layout.TotalKeys(); got != tt.totalKeys {
				t.Errorf("TotalKeys() = %d, want %d", got, tt.totalKeys)
			}
		})
	}
}
