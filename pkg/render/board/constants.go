package board

// Visual constants, in drawing units. These are implementation constants,
// not user options: every position the engine computes is a multiple or
// offset of the keyspace dimensions derived here.
const (
	// KeyW and KeyH are the dimensions of a single key rectangle.
	KeyW = 55.0
	KeyH = 50.0

	// KeyRX and KeyRY are the corner radii of key rectangles.
	KeyRX = 6.0
	KeyRY = 6.0

	// InnerPadW and InnerPadH pad the key rectangle inside its keyspace.
	InnerPadW = 2.0
	InnerPadH = 2.0

	// OuterPadW separates the split halves and frames the board
	// horizontally; OuterPadH separates stacked layers.
	OuterPadW = KeyW / 2
	OuterPadH = KeyH

	// KeyspaceW and KeyspaceH are the dimensions of the uniform grid cell
	// (key rectangle plus inner padding), the atomic unit of layout
	// arithmetic.
	KeyspaceW = KeyW + 2*InnerPadW
	KeyspaceH = KeyH + 2*InnerPadH

	// LineSpacing is the vertical distance between stacked label words.
	LineSpacing = 18.0
)
