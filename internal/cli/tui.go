package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/flow"
	graphio "github.com/matzehuels/sankey/pkg/io"
	"github.com/matzehuels/sankey/pkg/layout"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

func (c *CLI) inspectCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inspect <graph>",
		Short: "Browse a computed layout layer by layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := loadStyle(configPath)
			if err != nil {
				return err
			}
			g, err := graphio.Import(args[0])
			if err != nil {
				return err
			}
			l, err := pipeline.ComputeLayout(g.Graph, pipeline.Options{Config: style})
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewInspectModel(g, l),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML style file")
	return cmd
}

// InspectModel is the bubbletea model of the inspect command. Left and right
// move between layers, up and down between the nodes of a layer.
type InspectModel struct {
	Graph  *graphio.Graph
	Layout layout.Layout
	Layer  int
	Cursor int
}

// NewInspectModel creates a model positioned on the first node.
func NewInspectModel(g *graphio.Graph, l layout.Layout) InspectModel {
	return InspectModel{Graph: g, Layout: l}
}

// Selected returns the node under the cursor.
func (m InspectModel) Selected() (flow.NodeID, bool) {
	if m.Layer >= len(m.Layout.Layers) || m.Cursor >= len(m.Layout.Layers[m.Layer]) {
		return 0, false
	}
	return m.Layout.Layers[m.Layer][m.Cursor], true
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if isQuit(key) {
		return m, tea.Quit
	}
	if len(m.Layout.Layers) == 0 {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Layout.Layers[m.Layer])-1 {
			m.Cursor++
		}
	case "left", "h":
		if m.Layer > 0 {
			m.Layer--
			m.Cursor = min(m.Cursor, len(m.Layout.Layers[m.Layer])-1)
		}
	case "right", "l":
		if m.Layer < len(m.Layout.Layers)-1 {
			m.Layer++
			m.Cursor = min(m.Cursor, len(m.Layout.Layers[m.Layer])-1)
		}
	}
	return m, nil
}

func isQuit(key tea.KeyMsg) bool {
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return true
	}
	return false
}

func (m InspectModel) View() string {
	var b strings.Builder

	if len(m.Layout.Layers) == 0 {
		b.WriteString(StyleTitle.Render("Empty graph"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("q quit"))
		return b.String()
	}

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Layer %d/%d", m.Layer+1, len(m.Layout.Layers))))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  scale %s", layout.FormatPlain(m.Layout.Scale))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ layer  ↑/↓ node  q quit"))
	b.WriteString("\n\n")

	layer := m.Layout.Layers[m.Layer]
	rows := make([][]string, len(layer))
	for i, id := range layer {
		box := m.Layout.Nodes[id]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, m.Graph.Name(id), box.ValueText, num(box.Y), num(box.Height)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "Node", "Flow", "Y", "Height").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case row == m.Cursor:
				return listSelectedStyle
			}
			return StyleValue
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if id, ok := m.Selected(); ok {
		b.WriteString(m.detail(id))
	}
	return b.String()
}

// detail describes the box of id and the ribbons attached to it.
func (m InspectModel) detail(id flow.NodeID) string {
	var b strings.Builder
	box := m.Layout.Nodes[id]

	b.WriteString(StyleTitle.Render(m.Graph.Name(id)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s x=%s y=%s w=%s h=%s\n", listDimStyle.Render("box"),
		num(box.X), num(box.Y), num(box.Width), num(box.Height))

	for _, r := range m.Layout.Ribbons {
		switch id {
		case r.To:
			fmt.Fprintf(&b, "  %s %s %s %s\n", listDimStyle.Render("in "),
				m.Graph.Name(r.From), listDimStyle.Render(iconArrow), StyleNumber.Render(r.ValueText))
		case r.From:
			fmt.Fprintf(&b, "  %s %s %s %s\n", listDimStyle.Render("out"),
				listDimStyle.Render(iconArrow), m.Graph.Name(r.To), StyleNumber.Render(r.ValueText))
		}
	}
	return b.String()
}

func num(v float64) string { return fmt.Sprintf("%.1f", v) }
