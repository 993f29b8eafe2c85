package search

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justchokingaround/enjoi/internal/backend"
	"github.com/justchokingaround/enjoi/internal/query"
	"github.com/justchokingaround/enjoi/internal/route"
	"github.com/justchokingaround/enjoi/internal/tui/common"
	"github.com/justchokingaround/enjoi/internal/tui/styles"
	"github.com/justchokingaround/enjoi/internal/tui/utils"
)

// debounceMsg fires once the quiescence window of a submission has elapsed
type debounceMsg struct {
	token query.Token
}

// ResultsMsg carries a backend search response back into the update loop
type ResultsMsg struct {
	Token   query.Token
	Text    string
	Results []backend.SearchResult
	Err     error
}

type Model struct {
	input    textinput.Model
	spinner  spinner.Model
	pipeline *query.Pipeline
	backend  backend.Backend
	timeout  time.Duration
	logger   *slog.Logger
	cursor   int
	width    int
	height   int
}

func New(b backend.Backend, settings query.Settings, timeout time.Duration, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "Search anime..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.OxocarbonBase05)
	ti.PlaceholderStyle = styles.MutedStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)

	return Model{
		input:    ti,
		spinner:  sp,
		pipeline: query.New(settings),
		backend:  b,
		timeout:  timeout,
		logger:   logger.With("component", "search"),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width > 20 {
			m.input.Width = m.width - 20
		}
		return m, nil

	case common.SearchSettingsMsg:
		m.pipeline.Configure(msg.Settings)
		m.logger.Debug("search settings updated",
			"min_length", msg.Settings.MinLength,
			"debounce", msg.Settings.Window)
		return m, nil

	case debounceMsg:
		text, ok := m.pipeline.Fire(msg.token)
		if !ok {
			return m, nil
		}
		m.logger.Debug("searching", "text", text, "token", msg.token)
		return m, tea.Batch(m.search(msg.token, text), m.spinner.Tick)

	case ResultsMsg:
		if !m.pipeline.Settle(msg.Token, msg.Results, msg.Err) {
			m.logger.Debug("dropping stale search response", "text", msg.Text, "token", msg.Token)
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("search failed", "text", msg.Text, "error", msg.Err)
		}
		m.cursor = 0
		return m, nil

	case spinner.TickMsg:
		if m.pipeline.Phase() != query.Searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		results := m.pipeline.Results()
		switch msg.String() {
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(results)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.cursor >= len(results) {
				return m, nil
			}
			slug := results[m.cursor].Slug
			return m, func() tea.Msg {
				return common.NavigateMsg{Route: route.ForDetail(slug)}
			}
		case "esc":
			if m.input.Value() == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.cursor = 0
			return m, m.submit()
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m.cursor = 0
	return m, tea.Batch(cmd, m.submit())
}

// submit hands the current input to the pipeline and schedules its debounce tick
func (m Model) submit() tea.Cmd {
	sub := m.pipeline.Submit(m.input.Value())
	if sub.Settled {
		return nil
	}
	token := sub.Token
	return tea.Tick(m.pipeline.Window(), func(time.Time) tea.Msg {
		return debounceMsg{token: token}
	})
}

func (m Model) search(token query.Token, text string) tea.Cmd {
	b, timeout := m.backend, m.timeout
	return func() tea.Msg {
		ctx, cancel := common.CallContext(timeout)
		defer cancel()

		results, err := b.Search(ctx, text)
		return ResultsMsg{Token: token, Text: text, Results: results, Err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render("  SEARCH  ") + "\n")
	b.WriteString(styles.SubtitleStyle.Render("  Find your next watch") + "\n\n")
	b.WriteString(styles.InputBoxStyle.Render(m.input.View()) + "\n\n")
	b.WriteString(m.statusLine() + "\n")

	results := m.pipeline.Results()
	start, end := m.visibleRange(len(results))
	for i := start; i < end; i++ {
		b.WriteString(m.renderItem(results[i], i == m.cursor) + "\n")
	}

	b.WriteString("\n" + styles.HelpStyle.Render("  type to search • ↑/↓ nav • enter open • esc clear • ctrl+c quit"))
	return b.String()
}

func (m Model) statusLine() string {
	switch m.pipeline.Phase() {
	case query.Idle:
		return styles.MutedStyle.Render("  Start typing to search")
	case query.Typing:
		return styles.MutedStyle.Render("  ...")
	case query.Searching:
		return "  " + m.spinner.View() + styles.MetadataStyle.Render(" Searching")
	}

	if !m.pipeline.Qualifies(m.pipeline.Text()) {
		return styles.MutedStyle.Render(fmt.Sprintf("  Type at least %d characters", m.pipeline.Settings().MinLength))
	}
	if n := len(m.pipeline.Results()); n > 0 {
		return styles.SubtitleStyle.Render(fmt.Sprintf("  %d found", n))
	}
	return styles.WarningStyle.Render("  No results found.")
}

func (m Model) renderItem(r backend.SearchResult, selected bool) string {
	width := 60
	if m.width > 10 {
		width = m.width - 10
	}
	title := utils.Truncate(r.Title, width)
	if selected {
		return styles.SelectedItemStyle.Render("▌ " + title)
	}
	return styles.NormalItemStyle.Render("  " + title)
}

func (m Model) visibleRange(total int) (int, int) {
	// header, input box, status and help take about 10 lines
	maxVisible := 10
	if m.height > 0 {
		maxVisible = m.height - 10
	}
	if maxVisible < 1 {
		maxVisible = 1
	}
	if total <= maxVisible {
		return 0, total
	}

	// Keep selection centered
	start := m.cursor - maxVisible/2
	if start < 0 {
		start = 0
	}
	end := start + maxVisible
	if end > total {
		end = total
		start = end - maxVisible
	}
	return start, end
}

// Value returns the current search text
func (m Model) Value() string {
	return m.input.Value()
}

// Phase returns the pipeline phase
func (m Model) Phase() query.Phase {
	return m.pipeline.Phase()
}

// Results returns the result set currently on screen
func (m Model) Results() []backend.SearchResult {
	return m.pipeline.Results()
}

// Cursor returns the index of the highlighted result
func (m Model) Cursor() int {
	return m.cursor
}

// Settings returns the active search policy
func (m Model) Settings() query.Settings {
	return m.pipeline.Settings()
}
