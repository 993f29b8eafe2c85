package episode

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/pkg/browser"
	"github.com/samber/mo"

	"github.com/justchokingaround/enjoi/internal/backend"
	"github.com/justchokingaround/enjoi/internal/clipboard"
	"github.com/justchokingaround/enjoi/internal/detailcache"
	"github.com/justchokingaround/enjoi/internal/providers"
	"github.com/justchokingaround/enjoi/internal/route"
	"github.com/justchokingaround/enjoi/internal/tui/common"
	"github.com/justchokingaround/enjoi/internal/tui/styles"
	"github.com/justchokingaround/enjoi/internal/tui/utils"
)

// loads hands out fetch tokens shared by every episode view
var loads atomic.Uint64

// Phase of the episode view
type Phase int

const (
	Loading Phase = iota
	Ready
	Failed
	Unplayable
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Unplayable:
		return "unplayable"
	default:
		return "unknown"
	}
}

// LoadedMsg carries an episode response back into the update loop
type LoadedMsg struct {
	Token   uint64
	Slug    string
	Number  int
	Episode *backend.Episode
	Err     error
}

type Model struct {
	backend   backend.Backend
	cache     detailcache.Reader
	clipboard clipboard.Service
	open      func(url string) error
	timeout   time.Duration
	logger    *slog.Logger
	spinner   spinner.Model

	slug      string
	number    int
	token     uint64
	phase     Phase
	providers []backend.Provider
	selected  mo.Option[backend.Provider]
	err       error

	width  int
	height int
}

// New creates the episode view for one series. It only ever reads the detail cache.
func New(b backend.Backend, cache detailcache.Reader, clip clipboard.Service, timeout time.Duration, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)

	return Model{
		backend:   b,
		cache:     cache,
		clipboard: clip,
		open:      browser.OpenURL,
		timeout:   timeout,
		logger:    logger.With("component", "episode"),
		spinner:   sp,
		selected:  mo.None[backend.Provider](),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Load points the view at episode number of slug. The current provider
// selection is kept and becomes the continuity input for the new episode.
func (m *Model) Load(slug string, number int) tea.Cmd {
	if slug == m.slug && number == m.number && m.phase != Failed {
		return nil
	}
	return m.fetch(slug, number)
}

// Reload fetches the current episode again
func (m *Model) Reload() tea.Cmd {
	return m.fetch(m.slug, m.number)
}

func (m *Model) fetch(slug string, number int) tea.Cmd {
	m.token = loads.Add(1)
	m.slug = slug
	m.number = number
	m.phase = Loading
	m.providers = nil
	m.err = nil

	m.logger.Debug("loading episode", "slug", slug, "episode", number, "token", m.token)

	token, b, timeout := m.token, m.backend, m.timeout
	load := func() tea.Msg {
		ctx, cancel := common.CallContext(timeout)
		defer cancel()

		ep, err := b.Episode(ctx, slug, number)
		return LoadedMsg{Token: token, Slug: slug, Number: number, Episode: ep, Err: err}
	}
	return tea.Batch(load, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LoadedMsg:
		if msg.Token != m.token || msg.Slug != m.slug || msg.Number != m.number {
			m.logger.Debug("dropping stale episode response",
				"slug", msg.Slug, "episode", msg.Number, "token", msg.Token)
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Error("failed to load episode", "slug", msg.Slug, "episode", msg.Number, "error", msg.Err)
			m.phase = Failed
			m.err = msg.Err
			return m, nil
		}

		var list []backend.Provider
		if msg.Episode != nil {
			list = msg.Episode.Providers
		}
		p, err := providers.Resolve(list, m.selected)
		if err != nil {
			m.logger.Warn("episode is unplayable", "slug", msg.Slug, "episode", msg.Number, "error", err)
			m.phase = Unplayable
			m.err = err
			return m, nil
		}

		m.providers = list
		m.selected = mo.Some(p)
		m.phase = Ready
		return m, nil

	case spinner.TickMsg:
		if m.phase != Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc", "backspace", "q":
		return m, func() tea.Msg { return common.BackMsg{} }
	case "n":
		return m, m.navigate(m.number + 1)
	case "p":
		if m.number <= 1 {
			return m, nil
		}
		return m, m.navigate(m.number - 1)
	case "r":
		if m.phase == Failed {
			return m, m.Reload()
		}
		return m, nil
	}

	if m.phase != Ready {
		return m, nil
	}

	switch key {
	case "tab", "down", "j":
		m.step(1)
	case "shift+tab", "up", "k":
		m.step(-1)
	case "enter", "o":
		return m, m.openSelected()
	case "y":
		if p, ok := m.selected.Get(); ok {
			return m, m.clipboard.Write(p.SourceURL)
		}
	default:
		if i, err := strconv.Atoi(key); err == nil && i >= 1 && i <= len(m.providers) {
			m.Select(i - 1)
		}
	}
	return m, nil
}

func (m Model) navigate(number int) tea.Cmd {
	r := route.ForEpisode(m.slug, number)
	return func() tea.Msg { return common.NavigateMsg{Route: r} }
}

// step moves the selection through the provider list, wrapping at both ends
func (m *Model) step(delta int) {
	n := len(m.providers)
	if n == 0 {
		return
	}
	current := 0
	if p, ok := m.selected.Get(); ok {
		current = max(providers.IndexOf(m.providers, p), 0)
	}
	m.Select(((current+delta)%n + n) % n)
}

// Select picks provider i of the loaded episode without fetching anything
func (m *Model) Select(i int) {
	if i < 0 || i >= len(m.providers) {
		return
	}
	m.selected = mo.Some(m.providers[i])
	m.logger.Debug("provider selected", "label", m.providers[i].Label)
}

func (m Model) openSelected() tea.Cmd {
	p, ok := m.selected.Get()
	if !ok {
		return nil
	}
	url, open := p.SourceURL, m.open
	return func() tea.Msg {
		return common.LinkOpenedMsg{URL: url, Err: open(url)}
	}
}

func (m Model) View() string {
	details := m.cache.GetFor(m.slug)

	var b strings.Builder
	b.WriteString("\n")

	title := m.slug
	if d, ok := details.Get(); ok && d.Title != "" {
		title = d.Title
	}
	width := 76
	if m.width > 10 {
		width = m.width - 6
	}
	b.WriteString(styles.TitleStyle.Render("  "+utils.Truncate(title, width-4)+"  ") + "\n")

	heading := fmt.Sprintf("  %s episode", humanize.Ordinal(m.number))
	if d, ok := details.Get(); ok && d.EpisodeCount > 0 {
		heading += fmt.Sprintf(" of %d", d.EpisodeCount)
	}
	b.WriteString(styles.SubtitleStyle.Render(heading) + "\n\n")

	switch m.phase {
	case Loading:
		b.WriteString(fmt.Sprintf("  %s %s\n", m.spinner.View(), styles.MetadataStyle.Render("Loading providers...")))
		b.WriteString("\n" + styles.HelpStyle.Render("  n next • p prev • esc back"))
		return b.String()

	case Failed:
		b.WriteString(styles.ErrorStyle.Render("  Failed to load episode") + "\n")
		b.WriteString(styles.MetadataStyle.Render("  "+m.err.Error()) + "\n")
		b.WriteString("\n" + styles.HelpStyle.Render("  r retry • n next • p prev • esc back"))
		return b.String()

	case Unplayable:
		b.WriteString(styles.WarningStyle.Render("  No provider available for this episode") + "\n")
		if p, ok := m.selected.Get(); ok {
			b.WriteString(styles.MutedStyle.Render("  keeping "+p.Label+" for the next episode") + "\n")
		}
		b.WriteString("\n" + styles.HelpStyle.Render("  n next • p prev • esc back"))
		return b.String()
	}

	selected, _ := m.selected.Get()
	for i, p := range m.providers {
		label := fmt.Sprintf("%d. %s", i+1, p.Label)
		if i == 0 {
			label += styles.MutedStyle.Render(" (default)")
		}
		if p == selected {
			b.WriteString(styles.SelectedItemStyle.Render("▌ "+label) + "\n")
		} else {
			b.WriteString(styles.NormalItemStyle.Render("  "+label) + "\n")
		}
	}

	b.WriteString("\n" + styles.URLStyle.Render("  "+utils.Truncate(selected.SourceURL, width-2)) + "\n")
	b.WriteString("\n" + styles.HelpStyle.Render("  tab provider • enter/o open • y copy • n next • p prev • esc back"))

	return b.String()
}

// Slug returns the series the view belongs to
func (m Model) Slug() string { return m.slug }

// Number returns the episode number on screen
func (m Model) Number() int { return m.number }

// Phase returns the current phase
func (m Model) Phase() Phase { return m.phase }

// Providers returns the providers of the loaded episode in backend order
func (m Model) Providers() []backend.Provider { return m.providers }

// Selected returns the active provider, absent until the first playable episode loads
func (m Model) Selected() mo.Option[backend.Provider] { return m.selected }

// Err returns the failure behind the Failed or Unplayable phase
func (m Model) Err() error { return m.err }
