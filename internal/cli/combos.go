package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caksoylar/keymap/pkg/keymap"
	"github.com/caksoylar/keymap/pkg/pipeline"
	"github.com/caksoylar/keymap/pkg/render/combograph"
)

// formatDOT is only supported by the combos command, so it lives here rather
// than in the pipeline format set.
const formatDOT = "dot"

// combosCommand creates the combos command for rendering combo bindings as a
// node-link diagram.
func (c *CLI) combosCommand() *cobra.Command {
	var (
		output string
		format string
		scale  float64
	)

	cmd := &cobra.Command{
		Use:   "combos [keymap.toml]",
		Short: "Render combo bindings as a node-link diagram",
		Long: `Render every layer's combo bindings as a Graphviz node-link diagram,
with key positions as nodes and combos as labeled edges. Useful for dense
combo setups where the in-board markers overlap.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT {
				if err := pipeline.ValidateFormat(format); err != nil {
					return err
				}
			}
			return c.runCombos(cmd.Context(), args[0], output, format, scale)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to input name with _combos suffix)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, png, pdf, dot")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	return cmd
}

func (c *CLI) runCombos(ctx context.Context, input, output, format string, scale float64) error {
	prog := newProgress(c.Logger)

	doc, err := keymap.Load(input)
	if err != nil {
		return err
	}

	total := 0
	for _, nl := range doc.Layers {
		total += len(nl.Layer.Combos)
	}
	if total == 0 {
		printInfo("No combos defined in %s", input)
		return nil
	}

	dot := combograph.ToDOT(doc)

	var data []byte
	switch format {
	case formatDOT:
		data = []byte(dot)
	case pipeline.FormatSVG:
		data, err = combograph.RenderSVG(dot)
	case pipeline.FormatPNG:
		spin := newSpinner(ctx, "Rendering combo diagram...")
		spin.Start()
		data, err = combograph.RenderPNG(dot, scale)
		if err != nil {
			spin.StopWithError("Conversion failed")
			return err
		}
		spin.Stop()
	case pipeline.FormatPDF:
		spin := newSpinner(ctx, "Rendering combo diagram...")
		spin.Start()
		data, err = combograph.RenderPDF(dot)
		if err != nil {
			spin.StopWithError("Conversion failed")
			return err
		}
		spin.Stop()
	}
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = fmt.Sprintf("%s_combos.%s", basePath("", input), format)
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d combos to %s", total, format))

	printSuccess("Rendered %d combos", total)
	printFile(path)
	return nil
}
