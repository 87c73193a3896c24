package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/issuegraph/pkg/diagram"
	"github.com/matzehuels/issuegraph/pkg/graphview"
	"github.com/matzehuels/issuegraph/pkg/interaction"
)

// nudgeStep is how far one key press drags a node.
const nudgeStep = 20.0

// maxActivity bounds the activity log shown under the table.
const maxActivity = 6

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ExploreModel - Interactive diagram browser
// =============================================================================

// ExploreModel is the bubbletea model of the explore command. It lists the
// clickable nodes of a view and turns keys into gestures.
type ExploreModel struct {
	ctx  context.Context
	view *graphview.View

	Frame    graphview.Frame
	Nodes    []diagram.Node
	Cursor   int
	Offset   int
	Height   int
	Activity []string
}

// NewExploreModel creates a model over an already built view.
func NewExploreModel(ctx context.Context, view *graphview.View) ExploreModel {
	m := ExploreModel{ctx: ctx, view: view, Height: 15}
	m.refresh()
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			m.move(-1)
		case "down":
			m.move(1)
		case "enter":
			m.click(false)
		case "n":
			m.click(true)
		case "w":
			m.nudge(0, -nudgeStep, diagram.SideNorth)
		case "s":
			m.nudge(0, nudgeStep, diagram.SideSouth)
		case "a":
			m.nudge(-nudgeStep, 0, diagram.SideWest)
		case "d":
			m.nudge(nudgeStep, 0, diagram.SideEast)
		case "r":
			m.reload()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m *ExploreModel) move(delta int) {
	if len(m.Nodes) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Nodes)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *ExploreModel) selected() (diagram.Node, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Nodes) {
		return diagram.Node{}, false
	}
	return m.Nodes[m.Cursor], true
}

// click sends a click on the selected node; shift asks for navigation.
func (m *ExploreModel) click(shift bool) {
	n, ok := m.selected()
	if !ok {
		return
	}
	_, intents := m.view.Handle(m.ctx, interaction.NodeClick{NodeID: n.ID, Shift: shift})
	if len(intents) == 0 {
		m.record(StyleDim.Render("click " + n.ID + ": no intent"))
	}
	for _, in := range intents {
		m.record(describeIntent(in))
	}
	m.refresh()
}

// nudge drags the selected node by (dx, dy). A selected folder instead
// drags its container to side.
func (m *ExploreModel) nudge(dx, dy float64, side diagram.Side) {
	n, ok := m.selected()
	if !ok {
		return
	}
	ev := interaction.NodeDragEnd{NodeID: n.ID, Position: n.Position.Add(diagram.Point{X: dx, Y: dy})}
	desc := fmt.Sprintf("to (%.0f, %.0f)", ev.Position.X, ev.Position.Y)
	if n.Kind == diagram.KindIssueFolder {
		ev = interaction.NodeDragEnd{NodeID: n.Parent, Side: side}
		desc = "to the " + string(side)
	}
	out, _ := m.view.Handle(m.ctx, ev)
	status := StyleWarning.Render("not saved")
	if out.Saved {
		status = StyleSuccess.Render("saved")
	}
	m.record(fmt.Sprintf("drag %s %s %s", ev.NodeID, desc, status))
	m.refresh()
}

// reload requests a fit and rebuilds from the current snapshot.
func (m *ExploreModel) reload() {
	m.view.RequestReload()
	frame, err := m.view.Update(m.ctx, m.view.Snapshot())
	if err != nil {
		m.record(StyleWarning.Render("reload failed: " + err.Error()))
		return
	}
	m.record(fmt.Sprintf("reload: fit=%v", frame.Fit.Fit))
	m.refresh()
}

func (m *ExploreModel) record(line string) {
	m.Activity = append(m.Activity, line)
	if len(m.Activity) > maxActivity {
		m.Activity = m.Activity[len(m.Activity)-maxActivity:]
	}
}

// refresh reloads the frame and keeps the cursor on the same node.
func (m *ExploreModel) refresh() {
	var current string
	if n, ok := m.selected(); ok {
		current = n.ID
	}
	m.Frame = m.view.Frame()
	m.Nodes = nil
	for _, n := range m.Frame.Nodes {
		if n.Kind != diagram.KindIssueGroupContainer {
			m.Nodes = append(m.Nodes, n)
		}
	}
	slices.SortFunc(m.Nodes, func(a, b diagram.Node) int { return cmp.Compare(a.ID, b.ID) })
	if i := slices.IndexFunc(m.Nodes, func(n diagram.Node) bool { return n.ID == current }); i >= 0 {
		m.Cursor = i
	}
	m.move(0)
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore " + m.Frame.Project))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render("viewport: " + m.Frame.State.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ⏎ click  n navigate  w/a/s/d drag  r reload  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		label := n.DisplayLabel()
		if n.Kind == diagram.KindIssueFolder {
			label = folderBadge(n)
		}
		rows = append(rows, []string{
			cursor, n.ID, n.Kind.String(), label,
			fmt.Sprintf("%.0f, %.0f", n.Position.X, n.Position.Y),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Kind", "Label", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 || col == 4 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(statsLine(m.Frame.Build.Nodes, m.Frame.Build.Edges, m.Frame.Build.Placed, m.Frame.Build.Skipped))
	b.WriteString("\n\n")
	for _, line := range m.Activity {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// describeIntent renders an intent as one activity line.
func describeIntent(in interaction.Intent) string {
	subject := in.NodeID
	if in.SourceID != "" {
		subject = in.SourceID + " " + iconArrow + " " + in.TargetID
	}
	return styleCommand.Render(string(in.Name)) + " " + StyleValue.Render(subject)
}
