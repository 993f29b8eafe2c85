package help

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/justchokingaround/enjoi/internal/tui/styles"
)

// Context represents which view the help is being shown in
type Context int

const (
	GlobalContext Context = iota
	SearchContext
	DetailContext
	EpisodeContext
)

// Shortcut represents a keyboard shortcut with its description
type Shortcut struct {
	Key         string
	Description string
	Context     []Context
}

// Model represents the help panel state
type Model struct {
	context      Context
	width        int
	height       int
	visible      bool
	scrollOffset int
}

var allShortcuts = []Shortcut{
	{Key: "esc", Description: "Go back", Context: []Context{GlobalContext}},
	{Key: "ctrl+c", Description: "Quit application", Context: []Context{GlobalContext}},
	{Key: "? / f1", Description: "Show/hide this help", Context: []Context{GlobalContext}},

	{Key: "type", Description: "Search as you type", Context: []Context{SearchContext}},
	{Key: "↑/↓", Description: "Move through results", Context: []Context{SearchContext}},
	{Key: "enter", Description: "Open selected anime", Context: []Context{SearchContext}},
	{Key: "esc", Description: "Clear the search", Context: []Context{SearchContext}},

	{Key: "←/→ h/l", Description: "Choose episode", Context: []Context{DetailContext}},
	{Key: "g/G", Description: "First/last episode", Context: []Context{DetailContext}},
	{Key: "enter", Description: "Watch chosen episode", Context: []Context{DetailContext}},
	{Key: "r", Description: "Retry after a failure", Context: []Context{DetailContext, EpisodeContext}},

	{Key: "tab/shift+tab", Description: "Cycle providers", Context: []Context{EpisodeContext}},
	{Key: "1-9", Description: "Pick provider by number", Context: []Context{EpisodeContext}},
	{Key: "enter/o", Description: "Open source in browser", Context: []Context{EpisodeContext}},
	{Key: "y", Description: "Copy source URL", Context: []Context{EpisodeContext}},
	{Key: "n/p", Description: "Next/previous episode", Context: []Context{EpisodeContext}},
}

// New creates a new help model
func New() Model {
	return Model{context: GlobalContext}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "esc", "?", "f1", "q":
			m.Hide()
		case "up", "k":
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}
		case "down", "j":
			m.scrollOffset++
		case "home", "g":
			m.scrollOffset = 0
		}
	}
	return m, nil
}

// View renders the help panel
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	var content strings.Builder
	content.WriteString(styles.HelpStyle.Render("↑/↓ j/k scroll • esc/? close") + "\n\n")

	sections := []struct {
		name string
		ctx  Context
	}{
		{"General", GlobalContext},
		{m.contextName() + " Actions", m.context},
	}
	for _, s := range sections {
		if s.ctx == GlobalContext && s.name != "General" {
			continue
		}
		shortcuts := lo.Filter(allShortcuts, func(sc Shortcut, _ int) bool {
			return lo.Contains(sc.Context, s.ctx)
		})
		if len(shortcuts) == 0 {
			continue
		}
		content.WriteString(styles.SubtitleStyle.Render(s.name) + "\n")
		for _, sc := range shortcuts {
			content.WriteString(renderShortcutLine(sc) + "\n")
		}
		content.WriteString("\n")
	}

	lines := strings.Split(strings.TrimRight(content.String(), "\n"), "\n")

	availableHeight := 10
	if m.height > 0 {
		availableHeight = max(m.height-6, 10)
	}
	offset := lo.Clamp(m.scrollOffset, 0, max(len(lines)-availableHeight, 0))
	end := min(offset+availableHeight, len(lines))

	title := "KEYBOARD SHORTCUTS"
	if len(lines) > availableHeight {
		title += fmt.Sprintf(" (%d-%d/%d)", offset+1, end, len(lines))
	}

	boxWidth := 60
	if m.width > 0 && m.width < boxWidth+4 {
		boxWidth = max(m.width-4, 40)
	}

	titleBar := lipgloss.NewStyle().
		Foreground(styles.OxocarbonWhite).
		Background(styles.OxocarbonPurple).
		Padding(0, 2).
		Bold(true).
		Width(boxWidth - 4).
		Align(lipgloss.Center).
		Render(title)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OxocarbonPurple).
		Padding(0, 2).
		Width(boxWidth).
		Render(titleBar + "\n\n" + strings.Join(lines[offset:end], "\n"))

	if m.width == 0 || m.height == 0 || lipgloss.Height(box) >= m.height {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetContext sets the current help context
func (m *Model) SetContext(ctx Context) {
	m.context = ctx
}

// Toggle toggles the visibility of the help panel
func (m *Model) Toggle() {
	if m.visible {
		m.Hide()
		return
	}
	m.Show()
}

// Show shows the help panel
func (m *Model) Show() {
	m.visible = true
	m.scrollOffset = 0
}

// Hide hides the help panel
func (m *Model) Hide() {
	m.visible = false
	m.scrollOffset = 0
}

// IsVisible returns whether the help panel is visible
func (m Model) IsVisible() bool {
	return m.visible
}

func renderShortcutLine(sc Shortcut) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.OxocarbonPurple).
		Bold(true).
		Width(18)

	return "  " + keyStyle.Render(sc.Key) + styles.MetadataStyle.Render(sc.Description)
}

func (m Model) contextName() string {
	switch m.context {
	case SearchContext:
		return "Search"
	case DetailContext:
		return "Detail"
	case EpisodeContext:
		return "Episode"
	default:
		return ""
	}
}
