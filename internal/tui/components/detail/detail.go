package detail

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/justchokingaround/enjoi/internal/backend"
	"github.com/justchokingaround/enjoi/internal/detailcache"
	"github.com/justchokingaround/enjoi/internal/route"
	"github.com/justchokingaround/enjoi/internal/tui/common"
	"github.com/justchokingaround/enjoi/internal/tui/styles"
	"github.com/justchokingaround/enjoi/internal/tui/utils"
)

// Phase of the detail view
type Phase int

const (
	Loading Phase = iota
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoadedMsg carries a details response back into the update loop
type LoadedMsg struct {
	Token   uint64
	Slug    string
	Details *backend.Details
	Err     error
}

type Model struct {
	backend backend.Backend
	cache   detailcache.Writer
	timeout time.Duration
	logger  *slog.Logger
	spinner spinner.Model

	slug    string
	token   uint64
	phase   Phase
	details backend.Details
	err     error
	episode int

	width  int
	height int
}

// New creates the detail view. It is the only holder of the cache's write side.
func New(b backend.Backend, cache detailcache.Writer, timeout time.Duration, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.OxocarbonPurple)

	return Model{
		backend: b,
		cache:   cache,
		timeout: timeout,
		logger:  logger.With("component", "detail"),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Load points the view at slug. Re-entering the slug that is already loaded
// or loading keeps the current state and issues no request.
func (m *Model) Load(slug string) tea.Cmd {
	if slug == m.slug && m.phase != Failed {
		return nil
	}
	return m.fetch(slug)
}

// Reload fetches slug again regardless of the current phase
func (m *Model) Reload() tea.Cmd {
	return m.fetch(m.slug)
}

func (m *Model) fetch(slug string) tea.Cmd {
	m.token++
	m.slug = slug
	m.phase = Loading
	m.details = backend.Details{}
	m.err = nil
	m.episode = 0

	m.logger.Debug("loading details", "slug", slug, "token", m.token)

	token, b, timeout := m.token, m.backend, m.timeout
	load := func() tea.Msg {
		ctx, cancel := common.CallContext(timeout)
		defer cancel()

		details, err := b.Details(ctx, slug)
		return LoadedMsg{Token: token, Slug: slug, Details: details, Err: err}
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
		if msg.Token != m.token || msg.Slug != m.slug {
			m.logger.Debug("dropping stale details response", "slug", msg.Slug, "token", msg.Token)
			return m, nil
		}
		if msg.Err == nil && msg.Details == nil {
			msg.Err = fmt.Errorf("details %q: empty response", msg.Slug)
		}
		if msg.Err != nil {
			m.logger.Error("failed to load details", "slug", msg.Slug, "error", msg.Err)
			m.phase = Failed
			m.err = msg.Err
			return m, nil
		}

		m.details = *msg.Details
		m.details.Slug = m.slug
		m.cache.Set(m.details)
		m.phase = Loaded
		m.episode = m.clamp(m.details.DefaultEpisode)
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
	switch msg.String() {
	case "esc", "backspace", "q":
		return m, func() tea.Msg { return common.BackMsg{} }
	case "r":
		if m.phase == Failed {
			return m, m.Reload()
		}
		return m, nil
	}

	if m.phase != Loaded {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		m.episode = m.clamp(m.episode - 1)
	case "right", "l":
		m.episode = m.clamp(m.episode + 1)
	case "home", "g":
		m.episode = 1
	case "end", "G":
		m.episode = m.clamp(m.details.EpisodeCount)
	case "enter":
		r := route.ForEpisode(m.slug, m.episode)
		return m, func() tea.Msg { return common.NavigateMsg{Route: r} }
	}
	return m, nil
}

// clamp keeps n within the episodes the series has; an unknown count only bounds below
func (m Model) clamp(n int) int {
	if count := m.details.EpisodeCount; count > 0 {
		return lo.Clamp(n, 1, count)
	}
	return max(n, 1)
}

func (m Model) View() string {
	switch m.phase {
	case Loading:
		return fmt.Sprintf("\n  %s %s\n", m.spinner.View(), styles.MetadataStyle.Render("Loading "+m.slug+"..."))
	case Failed:
		return "\n" + styles.ErrorStyle.Render("  Failed to load details") + "\n\n" +
			styles.MetadataStyle.Render("  "+m.err.Error()) + "\n\n" +
			styles.HelpStyle.Render("  r retry • esc back")
	}

	width := 76
	if m.width > 10 {
		width = m.width - 6
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.TitleStyle.Render("  "+utils.Truncate(m.details.Title, width-4)+"  ") + "\n\n")

	var meta []string
	if m.details.ReleaseYear > 0 {
		meta = append(meta, fmt.Sprintf("Released in %d", m.details.ReleaseYear))
	}
	if m.details.EpisodeCount > 0 {
		meta = append(meta, fmt.Sprintf("%d episodes", m.details.EpisodeCount))
	}
	if len(meta) > 0 {
		b.WriteString(styles.MetadataStyle.Render("  "+strings.Join(meta, " • ")) + "\n")
	}

	if len(m.details.Genres) > 0 {
		badges := lo.Map(m.details.Genres, func(g string, _ int) string {
			return styles.GenreBadgeStyle.Render(g)
		})
		b.WriteString(" " + lipgloss.JoinHorizontal(lipgloss.Top, badges...) + "\n")
	}

	if m.details.Summary != "" {
		lines := 6
		if m.height > 0 {
			lines = max(m.height-14, 2)
		}
		b.WriteString("\n" + styles.SynopsisStyle.Render(utils.ClampLines(m.details.Summary, lines, width-2)) + "\n")
	}

	b.WriteString("\n")
	chooser := fmt.Sprintf("  Episode ‹ %d ›", m.episode)
	if m.details.EpisodeCount > 0 {
		chooser += fmt.Sprintf(" of %d", m.details.EpisodeCount)
	}
	b.WriteString(styles.SubtitleStyle.Render(chooser))
	if m.episode == m.details.DefaultEpisode {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("  (%s, default)", humanize.Ordinal(m.episode))))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("  ←/→ episode • enter watch • esc back"))

	return b.String()
}

// Slug returns the slug the view points at
func (m Model) Slug() string { return m.slug }

// Phase returns the current phase
func (m Model) Phase() Phase { return m.phase }

// Details returns the loaded record; it is the zero value unless Phase is Loaded
func (m Model) Details() backend.Details { return m.details }

// Err returns the failure shown in the Failed phase
func (m Model) Err() error { return m.err }

// Episode returns the episode number currently chosen
func (m Model) Episode() int { return m.episode }
