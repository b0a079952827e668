package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mattlianje/pipeviz-sub000/pkg/engine"
	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newExploreCmd creates the explore command, an interactive node browser.
// The list shows every node of the derived graph; selecting one displays its
// upstream and downstream closures side by side.
func newExploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse the estate interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			model := newExploreModel(e)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	addFileFlag(cmd)
	return cmd
}

// exploreModel is the bubbletea model for the estate browser. It has two
// states: the node list, and a detail view of the selected node's closures.
type exploreModel struct {
	engine *engine.Engine
	nodes  []*graph.Node

	cursor   int
	offset   int
	height   int
	selected *graph.Node
}

func newExploreModel(e *engine.Engine) exploreModel {
	return exploreModel{
		engine: e,
		nodes:  e.Model().Nodes(),
		height: 15,
	}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.selected != nil {
				m.selected = nil
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.selected == nil && m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.selected == nil && m.cursor < len(m.nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if m.selected == nil && len(m.nodes) > 0 {
				m.selected = m.nodes[m.cursor]
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m exploreModel) View() string {
	if m.selected != nil {
		return m.detailView()
	}
	return m.listView()
}

func (m exploreModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Estate Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ inspect  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.nodes) {
		end = len(m.nodes)
	}

	for i := m.offset; i < end; i++ {
		n := m.nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		tag := n.Kind.String()
		if n.Implicit {
			tag += ", auto-created"
		}
		line := fmt.Sprintf("%s%-40s %s", cursor, n.Name, listDimStyle.Render(tag))

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.nodes))))
	return b.String()
}

func (m exploreModel) detailView() string {
	var b strings.Builder

	n := m.selected
	b.WriteString(StyleTitle.Render(n.Name))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(n.Kind.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	if p := m.engine.Model().Pipeline(n.Name); p != nil {
		if p.Schedule != "" {
			b.WriteString(listDimStyle.Render("schedule: "+p.Schedule) + "\n")
		}
		if p.Owner != "" {
			b.WriteString(listDimStyle.Render("owner: "+p.Owner) + "\n")
		}
		if p.Cluster != "" {
			b.WriteString(listDimStyle.Render("cluster: "+p.Cluster) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.closureView("Upstream", graph.Upstream))
	b.WriteString("\n")
	b.WriteString(m.closureView("Downstream", graph.Downstream))
	return b.String()
}

func (m exploreModel) closureView(title string, dir graph.Direction) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(title))
	b.WriteString("\n")

	closure, err := m.engine.Lineage(m.selected.Name, dir)
	if err != nil || len(closure) == 0 {
		b.WriteString(listDimStyle.Render("  none"))
		b.WriteString("\n")
		return b.String()
	}
	for _, entry := range closure {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			listNormalStyle.Render(entry.ID),
			listDimStyle.Render(fmt.Sprintf("depth %d", entry.Depth))))
	}
	return b.String()
}
