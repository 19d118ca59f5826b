package sink

import (
	"github.com/caksoylar/keymap/pkg/render"
	"github.com/caksoylar/keymap/pkg/render/board"
)

// RenderPDF renders the board as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(b board.Board) ([]byte, error) {
	return render.ToPDF(RenderSVG(b))
}
