// Package keymap defines the in-memory model of a keymap document and its
// loading from TOML.
//
// A document describes one physical layout (rows, columns, optional split
// halves and thumb clusters) and an ordered list of layers, each assigning a
// label to every physical key position. Layer order is significant: it is the
// vertical stacking order of the rendered board.
//
// The model is immutable input to the rendering engine in
// [github.com/caksoylar/keymap/pkg/render/board]; nothing in this package or
// downstream mutates a decoded document.
package keymap

import "fmt"

// Emphasis selects the fill style of a key. The set of legal values is closed.
type Emphasis int

const (
	// EmphasisNone renders the key with the default fill.
	EmphasisNone Emphasis = iota
	// EmphasisHeld renders the key with the held-key fill, used for keys
	// that are held while the layer is active.
	EmphasisHeld
)

// String returns the style identifier for the emphasis, empty for none.
func (e Emphasis) String() string {
	if e == EmphasisHeld {
		return "held"
	}
	return ""
}

// UnmarshalText decodes an emphasis from its textual form ("", "none", "held").
func (e *Emphasis) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "none":
		*e = EmphasisNone
	case "held":
		*e = EmphasisHeld
	default:
		return fmt.Errorf("unknown emphasis %q (must be \"none\" or \"held\")", text)
	}
	return nil
}

// Key is one physical key's labeling in one layer. Tap is the main label,
// Hold an optional secondary label rendered smaller below it.
//
// Key values compare with ==; two adjacent slots holding equal Keys are
// rendered as a single doubled key.
type Key struct {
	Tap      string
	Hold     string
	Emphasis Emphasis
}

// KeyRow is an ordered sequence of key slots. A nil slot is absent: it
// renders as a blank key and never merges with its neighbors.
type KeyRow []*Key

// KeyBlock is one half of a layer's main grid, one KeyRow per layout row.
type KeyBlock []KeyRow

// Layout is the physical geometry shared by all layers of a document.
type Layout struct {
	// Split indicates independent left and right halves separated by a gap.
	Split bool
	// Rows and Columns describe one half's main grid.
	Rows    int
	Columns int
	// Thumbs is the number of keys in each thumb row, 0 for none.
	// Must not exceed Columns.
	Thumbs int
}

// TotalColumns returns the column count of the flattened non-thumb grid,
// spanning both halves when split.
func (l Layout) TotalColumns() int {
	if l.Split {
		return 2 * l.Columns
	}
	return l.Columns
}

// TotalKeys returns the number of non-thumb key positions addressable by
// combo indices.
func (l Layout) TotalKeys() int {
	return l.Rows * l.TotalColumns()
}

// Combo binds two key positions to an emergent action, rendered as a marker
// between them. Positions index the flattened non-thumb grid row-major, left
// half then right half when split.
type Combo struct {
	Positions [2]int
	Key       Key
}

// Layer is one complete labeling of the physical layout. Right and the thumb
// rows are only present for split layouts.
type Layer struct {
	Left        KeyBlock
	Right       KeyBlock
	LeftThumbs  KeyRow
	RightThumbs KeyRow
	Combos      []Combo
}

// NamedLayer pairs a layer with its document name.
type NamedLayer struct {
	Name  string
	Layer Layer
}

// Document is a fully decoded keymap. Layers preserve document order.
type Document struct {
	Layout Layout
	Layers []NamedLayer
}

// Layer returns the layer with the given name, or false if absent.
func (d *Document) Layer(name string) (Layer, bool) {
	for _, nl := range d.Layers {
		if nl.Name == name {
			return nl.Layer, true
		}
	}
	return Layer{}, false
}

// LayerNames returns the layer names in document order.
func (d *Document) LayerNames() []string {
	names := make([]string, len(d.Layers))
	for i, nl := range d.Layers {
		names[i] = nl.Name
	}
	return names
}
