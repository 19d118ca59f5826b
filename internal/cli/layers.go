package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/caksoylar/keymap/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// layersCommand creates the layers command for inspecting and rendering
// individual layers interactively.
func (c *CLI) layersCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "layers [keymap.toml]",
		Short: "Pick a layer interactively and render it on its own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runLayers(cmd.Context(), args[0], output, formats, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "base output path (defaults to input name)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// runLayers loads the document, lets the user pick a layer, and renders the
// selection to per-format files named base_layer.format.
func (c *CLI) runLayers(ctx context.Context, input, output string, formats []string, noCache bool) error {
	runner := c.newRunner(noCache)
	defer runner.Close()

	doc, _, err := runner.Load(input)
	if err != nil {
		return err
	}

	items := make([]layerItem, len(doc.Layers))
	for i, nl := range doc.Layers {
		items[i] = layerItem{name: nl.Name, combos: len(nl.Layer.Combos)}
	}

	model := newLayerListModel(items)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("layer picker: %w", err)
	}
	selected := final.(layerListModel).Selected
	if selected == "" {
		printInfo("No layer selected")
		return nil
	}

	result, err := runner.Execute(ctx, pipeline.Options{
		Input:   input,
		Formats: formats,
		Layer:   selected,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}

	base := basePath(output, input)
	printSuccess("Rendered layer %s", selected)
	for _, format := range formats {
		path := fmt.Sprintf("%s_%s.%s", base, selected, format)
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// =============================================================================
// LayerListModel - Interactive layer selection
// =============================================================================

// layerItem is one row in the layer picker.
type layerItem struct {
	name   string
	combos int
}

// layerListModel is the bubbletea model for interactive layer selection.
type layerListModel struct {
	Items    []layerItem
	Cursor   int
	Selected string
}

func newLayerListModel(items []layerItem) layerListModel {
	return layerListModel{Items: items}
}

func (m layerListModel) Init() tea.Cmd {
	return nil
}

func (m layerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Items[m.Cursor].name
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m layerListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layer"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, item := range m.Items {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		detail := ""
		if item.combos > 0 {
			detail = listDimStyle.Render(fmt.Sprintf("%d combos", item.combos))
		}
		line := fmt.Sprintf("%s%-15s  %s", cursor, item.name, detail)

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))

	return b.String()
}
