package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avdwal/mbtree/internal/compose"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	border = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// row is one line of the flattened component tree.
type row struct {
	component compose.Component
	kind      string
	depth     int
}

// Explorer is a bubbletea model that navigates a built component tree and
// shows per-node stage, symbols and descriptions.
type Explorer struct {
	title  string
	rows   []row
	cursor int
	width  int
	height int
}

// NewExplorer creates an explorer over the tree rooted at root.
func NewExplorer(title string, root compose.Component) *Explorer {
	e := &Explorer{title: title, width: 80, height: 24}
	e.flatten(root, "model", 0)
	return e
}

func (e *Explorer) flatten(c compose.Component, kind string, depth int) {
	e.rows = append(e.rows, row{component: c, kind: kind, depth: depth})
	if m, ok := c.(interface{ Submodels() []compose.ModelComponent }); ok {
		for _, s := range m.Submodels() {
			e.flatten(s, "model", depth+1)
		}
	}
	if m, ok := c.(interface{ Connections() []compose.ConnectionComponent }); ok {
		for _, cn := range m.Connections() {
			e.flatten(cn, "connection", depth+1)
		}
	}
	if m, ok := c.(interface{ LoadGroups() []compose.LoadGroupComponent }); ok {
		for _, lg := range m.LoadGroups() {
			e.flatten(lg, "load group", depth+1)
		}
	}
}

func (e Explorer) Init() tea.Cmd { return nil }

func (e Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return e, tea.Quit
		case "up", "k":
			if e.cursor > 0 {
				e.cursor--
			}
		case "down", "j":
			if e.cursor < len(e.rows)-1 {
				e.cursor++
			}
		case "g":
			e.cursor = 0
		case "G":
			e.cursor = len(e.rows) - 1
		}
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
	}
	return e, nil
}

func (e Explorer) View() string {
	var b strings.Builder
	b.WriteString(cyan.Bold(true).Render(e.title) + "\n\n")

	tree := e.renderTree()
	detail := e.renderDetail()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		border.Render(tree), " ", border.Render(detail)))
	b.WriteString("\n" + dim.Render("↑/↓ navigate · g/G first/last · q quit") + "\n")
	return b.String()
}

func (e Explorer) renderTree() string {
	var b strings.Builder
	for i, r := range e.rows {
		indent := strings.Repeat("  ", r.depth)
		marker := "  "
		name := white.Render(r.component.Name())
		if i == e.cursor {
			marker = cyan.Render("> ")
			name = cyan.Render(r.component.Name())
		}
		b.WriteString(fmt.Sprintf("%s%s%s %s\n", marker, indent, name, dim.Render(r.kind)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e Explorer) renderDetail() string {
	c := e.rows[e.cursor].component
	var b strings.Builder
	b.WriteString(white.Bold(true).Render(c.Name()) + "\n")
	b.WriteString(dim.Render("stage: ") + stageStyle(c.Stage()).Render(c.Stage().String()) + "\n")

	if qs := c.Coordinates(); len(qs) > 0 {
		b.WriteString("\n" + yellow.Render("coordinates") + "\n")
		for _, q := range qs {
			b.WriteString("  " + q.String() + "\n")
		}
	}
	if us := c.Speeds(); len(us) > 0 {
		b.WriteString("\n" + yellow.Render("speeds") + "\n")
		for _, u := range us {
			b.WriteString("  " + u.String() + "\n")
		}
	}
	if as := c.AuxiliarySpeeds(); len(as) > 0 {
		b.WriteString("\n" + yellow.Render("auxiliary speeds") + "\n")
		for _, a := range as {
			b.WriteString("  " + a.String() + "\n")
		}
	}

	desc := c.Descriptions()
	if len(desc) > 0 {
		b.WriteString("\n" + yellow.Render("symbols") + "\n")
		names := make([]string, 0, len(desc))
		for name := range desc {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString("  " + white.Render(name) + " " + dim.Render(desc[name]) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func stageStyle(s compose.Stage) lipgloss.Style {
	if s == compose.ConstraintsDefined {
		return green
	}
	return yellow
}

// Run starts the explorer program and blocks until it exits.
func Run(title string, root compose.Component) error {
	p := tea.NewProgram(NewExplorer(title, root), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
