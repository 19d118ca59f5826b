package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caksoylar/keymap/pkg/pipeline"
)

// drawOpts holds the command-line flags for the draw command.
type drawOpts struct {
	output  string   // output file path (or base path for multiple formats)
	formats []string // output formats: "svg", "png", "pdf"
	scale   float64  // PNG scale factor
	layer   string   // restrict rendering to a single named layer
	noCache bool     // disable the artifact cache
	refresh bool     // bypass the cache and re-render
}

// drawCommand creates the draw command for rendering keymap diagrams.
func (c *CLI) drawCommand() *cobra.Command {
	var formatsStr string
	opts := drawOpts{
		scale: pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "draw [keymap.toml]",
		Short: "Render a keymap to SVG, PNG, or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runDraw(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVarP(&opts.layer, "layer", "l", "", "render only the named layer")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached artifacts and re-render")

	return cmd
}

// runDraw executes the render pipeline and writes the requested artifacts.
func (c *CLI) runDraw(ctx context.Context, input string, opts *drawOpts) error {
	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)

	var spin *Spinner
	if hasConversion(opts.formats) {
		spin = newSpinner(ctx, "Converting with rsvg-convert...")
		spin.Start()
	}

	result, err := runner.Execute(ctx, pipeline.Options{
		Input:   input,
		Formats: opts.formats,
		Scale:   opts.scale,
		Layer:   opts.layer,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		if spin != nil {
			spin.StopWithError("Render failed")
		}
		return err
	}
	if spin != nil {
		spin.Stop()
	}

	paths, err := writeArtifacts(result, input, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts from %s", len(paths), input))

	printSuccess("Rendered %s", input)
	printStats(result.Stats.LayerCount, result.Stats.ComboCount, result.CacheInfo.Cached())
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes every produced artifact to disk and returns the
// output paths. A single format with an explicit --output writes to that
// path verbatim; otherwise paths derive from the base path plus format
// extension.
func writeArtifacts(result *pipeline.Result, input string, opts *drawOpts) ([]string, error) {
	base := basePath(opts.output, input)

	paths := make([]string, 0, len(opts.formats))
	for _, format := range opts.formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile writes an artifact to disk with standard permissions.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// hasConversion reports whether any format requires shelling out to
// rsvg-convert.
func hasConversion(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return true
		}
	}
	return false
}
