// Package combograph renders a keymap's combo bindings as a node-link
// diagram via Graphviz.
//
// Each key position referenced by a combo becomes a node, labeled with the
// position's tap label on the first layer that defines combos; each combo
// becomes an edge between its two positions, labeled with the combo key.
// This is a debugging view for dense combo setups where the in-board
// markers overlap.
package combograph

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/caksoylar/keymap/pkg/keymap"
	"github.com/caksoylar/keymap/pkg/render"
)

// ToDOT converts the document's combos to Graphviz DOT format. The
// resulting string can be rendered with [RenderSVG], [RenderPNG], or
// [RenderPDF]. Documents without combos yield an empty graph.
func ToDOT(doc *keymap.Document) string {
	var buf bytes.Buffer
	buf.WriteString("graph combos {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\"];\n")
	buf.WriteString("  edge [fontname=\"monospace\", fontsize=11];\n")
	buf.WriteString("\n")

	for _, nl := range doc.Layers {
		if len(nl.Layer.Combos) == 0 {
			continue
		}
		writeLayer(&buf, doc.Layout, nl)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeLayer(buf *bytes.Buffer, layout keymap.Layout, nl keymap.NamedLayer) {
	positions := make(map[int]bool)
	for _, c := range nl.Layer.Combos {
		positions[c.Positions[0]] = true
		positions[c.Positions[1]] = true
	}
	sorted := make([]int, 0, len(positions))
	for pos := range positions {
		sorted = append(sorted, pos)
	}
	sort.Ints(sorted)

	fmt.Fprintf(buf, "  subgraph cluster_%s {\n", sanitize(nl.Name))
	fmt.Fprintf(buf, "    label=%q;\n", nl.Name)
	for _, pos := range sorted {
		fmt.Fprintf(buf, "    %q [label=%q];\n", nodeID(nl.Name, pos), positionLabel(layout, nl.Layer, pos))
	}
	for _, c := range nl.Layer.Combos {
		fmt.Fprintf(buf, "    %q -- %q [label=%q];\n",
			nodeID(nl.Name, c.Positions[0]), nodeID(nl.Name, c.Positions[1]), c.Key.Tap)
	}
	buf.WriteString("  }\n")
}

func nodeID(layer string, pos int) string {
	return fmt.Sprintf("%s/%d", layer, pos)
}

// positionLabel resolves a flattened combo position to the tap label at
// that position, falling back to the bare index for blank keys.
func positionLabel(layout keymap.Layout, layer keymap.Layer, pos int) string {
	totalCols := layout.TotalColumns()
	col, row := pos%totalCols, pos/totalCols

	block := layer.Left
	if layout.Split && col >= layout.Columns {
		block = layer.Right
		col -= layout.Columns
	}
	if row < len(block) && col < len(block[row]) && block[row][col] != nil {
		if tap := block[row][col].Tap; tap != "" {
			return tap
		}
	}
	return fmt.Sprintf("#%d", pos)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}

// RenderSVG renders a DOT graph to SVG using Graphviz. Returns the SVG
// bytes ready for display or further conversion with [render.ToPDF] or
// [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPNG renders a DOT graph to PNG at the given scale factor.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

// RenderPDF renders a DOT graph to PDF.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}
