package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	graphio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/layout"
)

func (c *CLI) layersCommand() *cobra.Command {
	var numberFormat string

	cmd := &cobra.Command{
		Use:   "layers <graph>",
		Short: "Print the layer assignment and flow totals of each node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graphio.Import(args[0])
			if err != nil {
				return err
			}
			format := layout.FormatPlain
			if numberFormat != "" {
				format = func(v float64) string { return fmt.Sprintf(numberFormat, v) }
			}
			return printLayers(cmd.OutOrStdout(), g, format)
		},
	}

	cmd.Flags().StringVar(&numberFormat, "number-format", "", "printf template for values")
	return cmd
}

// layerRows builds one table row per node, in layer order.
func layerRows(g *graphio.Graph, format layout.NumberFormat) ([][]string, error) {
	layers, err := layout.AssignLayers(g.Graph)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, layer := range layers {
		for _, id := range layer {
			n, _ := g.Node(id)
			value := "—"
			if v, ok := g.Value(id); ok {
				value = format(v)
			}
			rows = append(rows, []string{
				strconv.Itoa(i),
				g.IDs[id],
				n.Label,
				value,
				format(g.CurrentInput(id)),
				format(g.CurrentOutput(id)),
				format(g.Flow(id)),
			})
		}
	}
	return rows, nil
}

func printLayers(w io.Writer, g *graphio.Graph, format layout.NumberFormat) error {
	rows, err := layerRows(g, format)
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Layer", "Node", "Label", "Value", "In", "Out", "Flow").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return StyleDim
			case col >= 3:
				return StyleNumber
			}
			return StyleValue
		})

	fmt.Fprintln(w, t.Render())
	return nil
}
