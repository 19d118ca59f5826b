package board

// Primitive is one drawing instruction produced by the engine. The set is
// closed: a board is a sequence of rectangles and centered text runs, and
// sinks switch exhaustively over the two.
type Primitive interface {
	primitive()
}

// Rect is a rounded rectangle. Class selects the fill style: "" for the
// default key fill, "held" for emphasized keys, "combo" for combo markers.
type Rect struct {
	X, Y   float64
	W, H   float64
	RX, RY float64
	Class  string
}

// Text is a text run anchored at (X, Y), centered both horizontally and
// vertically. Small reduces the font size, Bold increases the weight.
type Text struct {
	X, Y    float64
	Content string
	Small   bool
	Bold    bool
}

func (Rect) primitive() {}
func (Text) primitive() {}

// Board is the fully computed drawing: canvas dimensions plus the ordered
// primitive sequence. Rendering the same document always yields an
// identical Board.
type Board struct {
	Width      float64
	Height     float64
	Primitives []Primitive
}
