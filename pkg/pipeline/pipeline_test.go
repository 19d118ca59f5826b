package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/caksoylar/keymap/pkg/cache"
	"github.com/caksoylar/keymap/pkg/errors"
)

const testDoc = `
[layout]
split = true
rows = 1
columns = 2
thumbs = 1

[layers.base]
left = [["A", "B"]]
right = [["C", "D"]]
left_thumbs = ["Space"]
right_thumbs = ["Enter"]

[[layers.base.combos]]
positions = [0, 1]
key = "Tab"

[layers.nav]
left = [["", ""]]
right = [["Left arrow", "Right arrow"]]
left_thumbs = [{ tap = "Space", emphasis = "held" }]
right_thumbs = ["Enter"]
`

func writeTestDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.toml")
	if err := os.WriteFile(path, []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Input: "keymap.toml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("default formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("default scale = %g, want %g", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("default logger should be set")
	}

	// Missing input fails
	empty := Options{}
	if err := empty.ValidateAndSetDefaults(); err == nil {
		t.Error("empty input should fail validation")
	}

	// Bad format fails
	bad := Options{Input: "x.toml", Formats: []string{"gif"}}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %s, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatSVG, FormatPNG, FormatPDF} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) error: %v", f, err)
		}
	}
	if err := ValidateFormat("gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Error("ValidateFormat should reject unknown formats")
	}
}

func TestCacheInfoCached(t *testing.T) {
	tests := []struct {
		name string
		hits map[string]bool
		want bool
	}{
		{"empty", nil, false},
		{"all hits", map[string]bool{"png": true, "pdf": true}, true},
		{"partial", map[string]bool{"png": true, "svg": false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := CacheInfo{Hits: tt.hits}
			if got := info.Cached(); got != tt.want {
				t.Errorf("Cached() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunnerExecuteSVG(t *testing.T) {
	path := writeTestDoc(t)
	runner := NewRunner(cache.NewNullCache())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{Input: path})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	svg := result.Artifacts[FormatSVG]
	if len(svg) == 0 {
		t.Fatal("SVG artifact is empty")
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Error("SVG artifact should start with an svg tag")
	}

	if result.Stats.LayerCount != 2 {
		t.Errorf("LayerCount = %d, want 2", result.Stats.LayerCount)
	}
	if result.Stats.ComboCount != 1 {
		t.Errorf("ComboCount = %d, want 1", result.Stats.ComboCount)
	}
	if result.DocumentHash == "" {
		t.Error("DocumentHash should be set")
	}
	if result.CacheInfo.Hits[FormatSVG] {
		t.Error("SVG is always rendered fresh, never a cache hit")
	}
}

func TestRunnerExecuteSingleLayer(t *testing.T) {
	path := writeTestDoc(t)
	runner := NewRunner(nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{Input: path, Layer: "nav"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Stats.LayerCount != 1 {
		t.Errorf("LayerCount = %d, want 1", result.Stats.LayerCount)
	}
	if got := result.Document.LayerNames(); len(got) != 1 || got[0] != "nav" {
		t.Errorf("layers = %v, want [nav]", got)
	}

	// Unknown layer fails
	_, err = runner.Execute(context.Background(), Options{Input: path, Layer: "gaming"})
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("error code = %s, want INVALID_DOCUMENT", errors.GetCode(err))
	}
}

func TestRunnerLoadMissingFile(t *testing.T) {
	runner := NewRunner(nil)
	defer runner.Close()

	_, _, err := runner.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %s, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestRunnerLoadHashStability(t *testing.T) {
	path := writeTestDoc(t)
	runner := NewRunner(nil)
	defer runner.Close()

	_, h1, err := runner.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	_, h2, err := runner.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if h1 != h2 {
		t.Error("same file content should hash identically")
	}
}
