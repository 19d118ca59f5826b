package keymap

import "github.com/caksoylar/keymap/pkg/errors"

// Validate checks all cross-entity invariants of a decoded document. It is
// called once at load time; the rendering engine assumes a validated model
// and treats any violation it still detects as a fatal precondition failure.
//
// Checked here:
//   - layout has at least one row and column, thumbs within [0, columns]
//   - at least one layer
//   - non-split layers carry no right block and no thumb rows
//   - every combo position indexes an existing non-thumb key
//
// Row and block lengths are checked by the engine per row, where the
// offending coordinates are known.
func Validate(doc *Document) error {
	l := doc.Layout

	if l.Rows < 1 || l.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout needs at least one row and one column, got %dx%d", l.Rows, l.Columns)
	}
	if l.Thumbs < 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "thumb count cannot be negative, got %d", l.Thumbs)
	}
	if l.Thumbs > l.Columns {
		return errors.New(errors.ErrCodeInvalidLayout, "thumb count %d exceeds column count %d", l.Thumbs, l.Columns)
	}
	if len(doc.Layers) == 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "document declares no layers")
	}

	total := l.TotalKeys()
	for _, nl := range doc.Layers {
		layer := nl.Layer
		if !l.Split {
			if layer.Right != nil || layer.LeftThumbs != nil || layer.RightThumbs != nil {
				return errors.New(errors.ErrCodeInvalidLayer,
					"layer %q: non-split layouts cannot have right or thumb blocks", nl.Name)
			}
		}
		for i, combo := range layer.Combos {
			for _, pos := range combo.Positions {
				if pos < 0 || pos >= total {
					return errors.New(errors.ErrCodeInvalidCombo,
						"layer %q: combo %d position %d outside the %d non-thumb keys", nl.Name, i, pos, total)
				}
			}
		}
	}
	return nil
}
