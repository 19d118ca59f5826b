package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/caksoylar/keymap/pkg/render/board"
)

func testBoard() board.Board {
	return board.Board{
		Width:  200.5,
		Height: 154,
		Primitives: []board.Primitive{
			board.Rect{X: 29.5, Y: 52, W: 55, H: 50, RX: 6, RY: 6},
			board.Rect{X: 88.5, Y: 52, W: 27.5, H: 25, RX: 6, RY: 6, Class: "combo"},
			board.Text{X: 57, Y: 79, Content: "A"},
			board.Text{X: 57, Y: 97, Content: "Gui", Small: true},
			board.Text{X: 27.5, Y: 25, Content: "base:", Bold: true},
		},
	}
}

func TestRenderSVGDocument(t *testing.T) {
	svg := string(RenderSVG(testBoard()))

	if !strings.HasPrefix(svg, `<svg width="200.5" height="154" viewBox="0 0 200.5 154"`) {
		t.Errorf("unexpected SVG header: %s", svg[:80])
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG should end with closing tag")
	}

	// The fixed style block is emitted once with the standard fills.
	for _, want := range []string{"<style>", "#f6f8fa", ".held", "#fdd", ".combo", "#cdf", "monospace"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Count(svg, "<style>") != 1 {
		t.Error("style block should appear exactly once")
	}
}

func TestRenderSVGPrimitives(t *testing.T) {
	svg := string(RenderSVG(testBoard()))

	tests := []string{
		`<rect rx="6" ry="6" x="29.5" y="52" width="55" height="50" class="" />`,
		`<rect rx="6" ry="6" x="88.5" y="52" width="27.5" height="25" class="combo" />`,
		`<text text-anchor="middle" dominant-baseline="middle" x="57" y="79">A</text>`,
		`<text text-anchor="middle" dominant-baseline="middle" x="57" y="97" font-size="80%">Gui</text>`,
		`<text text-anchor="middle" dominant-baseline="middle" x="27.5" y="25" font-weight="bold">base:</text>`,
	}
	for _, want := range tests {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing line %q", want)
		}
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	b := board.Board{
		Width:  100,
		Height: 100,
		Primitives: []board.Primitive{
			board.Text{X: 10, Y: 10, Content: "<&>"},
		},
	}
	svg := string(RenderSVG(b))

	if strings.Contains(svg, "><&></text>") {
		t.Error("text content should be XML-escaped")
	}
	if !strings.Contains(svg, "&lt;&amp;&gt;") {
		t.Errorf("expected escaped entities in output: %s", svg)
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	b := testBoard()
	if !bytes.Equal(RenderSVG(b), RenderSVG(b)) {
		t.Error("RenderSVG should produce byte-identical output for the same board")
	}
}
