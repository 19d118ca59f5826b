// Package sink serializes a computed board into output formats.
//
// [RenderSVG] is the primary sink; [RenderPNG] and [RenderPDF] wrap it and
// convert the result with rsvg-convert.
package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/caksoylar/keymap/pkg/render/board"
)

// styleSheet is the fixed global style block emitted once per document.
// Class "held" marks emphasized keys, "combo" marks combo markers; plain
// rectangles get the default key fill.
const styleSheet = `
    svg {
        font-family: SFMono-Regular,Consolas,Liberation Mono,Menlo,monospace;
        font-size: 14px;
        font-kerning: normal;
        text-rendering: optimizeLegibility;
        fill: #24292e;
    }

    rect {
        fill: #f6f8fa;
        stroke: #d6d8da;
        stroke-width: 1;
    }

    .held {
        fill: #fdd;
    }

    .combo {
        fill: #cdf;
    }
`

// RenderSVG serializes the board as a standalone SVG document. The output
// is deterministic: primitives are written in engine order, so rendering
// the same document twice yields byte-identical bytes.
func RenderSVG(b board.Board) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">`+"\n",
		b.Width, b.Height, b.Width, b.Height)
	fmt.Fprintf(&buf, "<style>%s</style>\n", styleSheet)

	for _, p := range b.Primitives {
		switch p := p.(type) {
		case board.Rect:
			writeRect(&buf, p)
		case board.Text:
			writeText(&buf, p)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeRect(buf *bytes.Buffer, r board.Rect) {
	fmt.Fprintf(buf, `<rect rx="%g" ry="%g" x="%g" y="%g" width="%g" height="%g" class="%s" />`+"\n",
		r.RX, r.RY, r.X, r.Y, r.W, r.H, r.Class)
}

func writeText(buf *bytes.Buffer, t board.Text) {
	fmt.Fprintf(buf, `<text text-anchor="middle" dominant-baseline="middle" x="%g" y="%g"`, t.X, t.Y)
	if t.Small {
		buf.WriteString(` font-size="80%"`)
	}
	if t.Bold {
		buf.WriteString(` font-weight="bold"`)
	}
	fmt.Fprintf(buf, ">%s</text>\n", escapeXML(t.Content))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
