// Package board computes the drawing primitives for a keymap document.
//
// The engine is a one-shot pure transform: it walks the validated model
// layer by layer, row by row, and emits an ordered sequence of rectangles
// and centered text runs together with the overall canvas dimensions. It
// performs no I/O and keeps no state between invocations; sinks in
// [github.com/caksoylar/keymap/pkg/render/board/sink] serialize the result.
//
// Layers stack top to bottom in document order, each half of a split layout
// is laid out as a grid of fixed keyspaces, thumb rows sit right-aligned
// under their half, and combos draw a small marker midway between their two
// key positions. Two adjacent slots holding equal keys merge into a single
// doubled key spanning both keyspaces.
package board

import (
	"strings"

	"github.com/caksoylar/keymap/pkg/errors"
	"github.com/caksoylar/keymap/pkg/keymap"
)

// Render computes the full board for a validated document. Shape violations
// the validator could not see (row lengths, missing blocks) surface as
// INVALID_SHAPE errors and nothing is emitted: the board either renders
// completely or not at all.
func Render(doc *keymap.Document) (Board, error) {
	r := newRenderer(doc.Layout)

	x, y := OuterPadW, 0.0
	for _, nl := range doc.Layers {
		y += OuterPadH
		if err := r.layer(x, y, nl.Name, nl.Layer); err != nil {
			return Board{}, err
		}
		y += r.layerH
	}

	return Board{
		Width:      r.boardW(),
		Height:     r.boardH(len(doc.Layers)),
		Primitives: r.prims,
	}, nil
}

// renderer carries the layout-derived metrics and accumulates primitives
// during a single Render pass.
type renderer struct {
	layout    keymap.Layout
	totalCols int
	blockW    float64
	blockH    float64
	layerW    float64
	layerH    float64
	prims     []Primitive
}

func newRenderer(l keymap.Layout) *renderer {
	r := &renderer{layout: l, totalCols: l.TotalColumns()}

	thumbRows := 0.0
	if l.Thumbs > 0 {
		thumbRows = 1
	}
	r.blockW = float64(l.Columns) * KeyspaceW
	r.blockH = (float64(l.Rows) + thumbRows) * KeyspaceH

	halves := 1.0
	if l.Split {
		halves = 2
	}
	r.layerW = halves*r.blockW + OuterPadW
	r.layerH = r.blockH
	return r
}

func (r *renderer) boardW() float64 {
	return r.layerW + 2*OuterPadW
}

func (r *renderer) boardH(layers int) float64 {
	return float64(layers)*r.layerH + float64(layers+1)*OuterPadH
}

func (r *renderer) rect(x, y, w, h float64, class string) {
	r.prims = append(r.prims, Rect{X: x, Y: y, W: w, H: h, RX: KeyRX, RY: KeyRY, Class: class})
}

func (r *renderer) text(x, y float64, content string, small, bold bool) {
	r.prims = append(r.prims, Text{X: x, Y: y, Content: content, Small: small, Bold: bold})
}

// key draws one key occupying one keyspace, or two adjacent keyspaces when
// doubled. The tap label splits on whitespace and stacks vertically around
// the keyspace midpoint; a non-empty hold label is drawn smaller near the
// bottom edge.
func (r *renderer) key(x, y float64, k keymap.Key, doubled bool) {
	w := KeyW
	if doubled {
		w = 2*KeyW + 2*InnerPadW
	}
	r.rect(x+InnerPadW, y+InnerPadH, w, KeyH, k.Emphasis.String())

	cx := x + KeyspaceW/2
	if doubled {
		cx = x + KeyspaceW
	}

	words := strings.Fields(k.Tap)
	ty := y + (KeyspaceH-float64(len(words)-1)*LineSpacing)/2
	for _, word := range words {
		r.text(cx, ty, word, false, false)
		ty += LineSpacing
	}

	if k.Hold != "" {
		r.text(cx, y+KeyspaceH-LineSpacing/2, k.Hold, true, false)
	}
}

// row lays out one key row left to right. Adjacent slots holding equal keys
// merge into one doubled key and consume both positions; absent (nil) slots
// render as blank keys and never merge.
func (r *renderer) row(x, y float64, row keymap.KeyRow, thumb bool) error {
	want := r.layout.Columns
	if thumb {
		want = r.layout.Thumbs
	}
	if len(row) != want {
		return errors.New(errors.ErrCodeInvalidShape, "row has %d keys, layout expects %d", len(row), want)
	}

	for i := 0; i < len(row); {
		k := row[i]
		if i+1 < len(row) && k != nil && row[i+1] != nil && *k == *row[i+1] {
			r.key(x, y, *k, true)
			x += 2 * KeyspaceW
			i += 2
			continue
		}
		var single keymap.Key
		if k != nil {
			single = *k
		}
		r.key(x, y, single, false)
		x += KeyspaceW
		i++
	}
	return nil
}

func (r *renderer) block(x, y float64, block keymap.KeyBlock) error {
	if len(block) != r.layout.Rows {
		return errors.New(errors.ErrCodeInvalidShape, "block has %d rows, layout expects %d", len(block), r.layout.Rows)
	}
	for _, row := range block {
		if err := r.row(x, y, row, false); err != nil {
			return err
		}
		y += KeyspaceH
	}
	return nil
}

// keyOrigin maps a flattened combo position to the pixel origin of its
// keyspace, given the layer origin. Positions run row-major across both
// halves; once the column index crosses into the right half the split gap
// shifts everything by OuterPadW. This is the trickiest arithmetic in the
// engine, so it stays in one place.
func (r *renderer) keyOrigin(x, y float64, pos int) (float64, float64) {
	col := pos % r.totalCols
	row := pos / r.totalCols

	px := x + float64(col)*KeyspaceW
	if r.layout.Split && col >= r.layout.Columns {
		px += OuterPadW
	}
	return px, y + float64(row)*KeyspaceH
}

// combo draws the marker for a two-position combo: a small square centered
// within the averaged keyspace of the two keys, labeled with the combo's
// tap text. Averaging the two origins keeps the marker visually between the
// keys regardless of their row or column offset, including across the split
// gap.
func (r *renderer) combo(x, y float64, c keymap.Combo) {
	x1, y1 := r.keyOrigin(x, y, c.Positions[0])
	x2, y2 := r.keyOrigin(x, y, c.Positions[1])
	xm, ym := (x1+x2)/2, (y1+y2)/2

	r.rect(xm+InnerPadW+KeyW/4, ym+InnerPadH+KeyH/4, KeyW/2, KeyH/2, "combo")
	r.text(xm+KeyspaceW/2, ym+InnerPadH+KeyH/2, c.Key.Tap, true, false)
}

// layer draws one named layer: the bold name label, the left block, the
// right block and thumb rows where the layout configures them, then every
// combo marker.
func (r *renderer) layer(x, y float64, name string, layer keymap.Layer) error {
	r.text(KeyW/2, y-KeyH/2, name+":", false, true)

	if err := r.block(x, y, layer.Left); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidShape, err, "layer %q left", name)
	}

	if r.layout.Split {
		if layer.Right == nil {
			return errors.New(errors.ErrCodeInvalidShape, "layer %q: split layout requires a right block", name)
		}
		if err := r.block(x+r.blockW+OuterPadW, y, layer.Right); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidShape, err, "layer %q right", name)
		}
	}

	if r.layout.Thumbs > 0 {
		if layer.LeftThumbs == nil || layer.RightThumbs == nil {
			return errors.New(errors.ErrCodeInvalidShape, "layer %q: layout configures %d thumbs but thumb rows are missing", name, r.layout.Thumbs)
		}
		thumbY := y + float64(r.layout.Rows)*KeyspaceH
		leftX := x + float64(r.layout.Columns-r.layout.Thumbs)*KeyspaceW
		if err := r.row(leftX, thumbY, layer.LeftThumbs, true); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidShape, err, "layer %q left thumbs", name)
		}
		if err := r.row(x+r.blockW+OuterPadW, thumbY, layer.RightThumbs, true); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidShape, err, "layer %q right thumbs", name)
		}
	}

	for _, combo := range layer.Combos {
		r.combo(x, y, combo)
	}
	return nil
}
