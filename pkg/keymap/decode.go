package keymap

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/caksoylar/keymap/pkg/errors"
)

// Load reads, decodes, and validates a TOML keymap document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "keymap file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read %s", path)
	}
	return Decode(data)
}

// Decode parses a TOML keymap document and validates all cross-entity
// invariants. The returned document is safe to render.
//
// Key cells are either a bare string (tap label only, with "" marking an
// absent slot) or an inline table {tap, hold, emphasis}. Layer tables are
// returned in the order they appear in the document.
func Decode(data []byte) (*Document, error) {
	var raw rawKeymap
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode keymap")
	}

	doc := &Document{Layout: raw.Layout.layout()}

	for _, name := range layerOrder(md) {
		rl, ok := raw.Layers[name]
		if !ok {
			continue
		}
		layer, err := decodeLayer(md, rl)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayer, err, "layer %q", name)
		}
		doc.Layers = append(doc.Layers, NamedLayer{Name: name, Layer: layer})
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type rawKeymap struct {
	Layout rawLayout           `toml:"layout"`
	Layers map[string]rawLayer `toml:"layers"`
}

type rawLayout struct {
	Split   *bool `toml:"split"`
	Rows    int   `toml:"rows"`
	Columns int   `toml:"columns"`
	Thumbs  int   `toml:"thumbs"`
}

func (r rawLayout) layout() Layout {
	split := true
	if r.Split != nil {
		split = *r.Split
	}
	return Layout{Split: split, Rows: r.Rows, Columns: r.Columns, Thumbs: r.Thumbs}
}

type rawLayer struct {
	Left        [][]toml.Primitive `toml:"left"`
	Right       [][]toml.Primitive `toml:"right"`
	LeftThumbs  []toml.Primitive   `toml:"left_thumbs"`
	RightThumbs []toml.Primitive   `toml:"right_thumbs"`
	Combos      []rawCombo         `toml:"combos"`
}

type rawCombo struct {
	Positions []int          `toml:"positions"`
	Key       toml.Primitive `toml:"key"`
}

// rawKey is the table form of a key cell.
type rawKey struct {
	Tap      string   `toml:"tap"`
	Hold     string   `toml:"hold"`
	Emphasis Emphasis `toml:"emphasis"`
}

// layerOrder recovers the layer declaration order from the TOML metadata.
// Map iteration order would lose it, and stacking order is a user-visible
// contract.
func layerOrder(md toml.MetaData) []string {
	var names []string
	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		if len(key) < 2 || key[0] != "layers" {
			continue
		}
		if name := key[1]; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func decodeLayer(md toml.MetaData, raw rawLayer) (Layer, error) {
	var layer Layer
	var err error

	if layer.Left, err = decodeBlock(md, raw.Left); err != nil {
		return Layer{}, err
	}
	if raw.Right != nil {
		if layer.Right, err = decodeBlock(md, raw.Right); err != nil {
			return Layer{}, err
		}
	}
	if raw.LeftThumbs != nil {
		if layer.LeftThumbs, err = decodeRow(md, raw.LeftThumbs); err != nil {
			return Layer{}, err
		}
	}
	if raw.RightThumbs != nil {
		if layer.RightThumbs, err = decodeRow(md, raw.RightThumbs); err != nil {
			return Layer{}, err
		}
	}

	for _, rc := range raw.Combos {
		combo, err := decodeCombo(md, rc)
		if err != nil {
			return Layer{}, err
		}
		layer.Combos = append(layer.Combos, combo)
	}
	return layer, nil
}

func decodeBlock(md toml.MetaData, rows [][]toml.Primitive) (KeyBlock, error) {
	block := make(KeyBlock, len(rows))
	for i, row := range rows {
		decoded, err := decodeRow(md, row)
		if err != nil {
			return nil, err
		}
		block[i] = decoded
	}
	return block, nil
}

func decodeRow(md toml.MetaData, prims []toml.Primitive) (KeyRow, error) {
	row := make(KeyRow, len(prims))
	for i, prim := range prims {
		key, err := decodeKey(md, prim)
		if err != nil {
			return nil, err
		}
		row[i] = key
	}
	return row, nil
}

// decodeKey decodes a key cell, which is either a bare tap string or a
// {tap, hold, emphasis} table. An empty string decodes to a nil (absent)
// slot so that adjacent empty cells never merge.
func decodeKey(md toml.MetaData, prim toml.Primitive) (*Key, error) {
	var tap string
	if err := md.PrimitiveDecode(prim, &tap); err == nil {
		if tap == "" {
			return nil, nil
		}
		return &Key{Tap: tap}, nil
	}

	var raw rawKey
	if err := md.PrimitiveDecode(prim, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayer, err, "key must be a string or a {tap, hold, emphasis} table")
	}
	return &Key{Tap: raw.Tap, Hold: raw.Hold, Emphasis: raw.Emphasis}, nil
}

func decodeCombo(md toml.MetaData, raw rawCombo) (Combo, error) {
	if len(raw.Positions) != 2 {
		return Combo{}, errors.New(errors.ErrCodeInvalidCombo, "combo must name exactly two positions, got %d", len(raw.Positions))
	}
	key, err := decodeKey(md, raw.Key)
	if err != nil {
		return Combo{}, err
	}
	if key == nil {
		return Combo{}, errors.New(errors.ErrCodeInvalidCombo, "combo requires a key label")
	}
	return Combo{Positions: [2]int{raw.Positions[0], raw.Positions[1]}, Key: *key}, nil
}
