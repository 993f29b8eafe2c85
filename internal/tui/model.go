package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/enjoi/internal/backend"
	"github.com/justchokingaround/enjoi/internal/clipboard"
	"github.com/justchokingaround/enjoi/internal/detailcache"
	"github.com/justchokingaround/enjoi/internal/query"
	"github.com/justchokingaround/enjoi/internal/route"
	"github.com/justchokingaround/enjoi/internal/tui/common"
	"github.com/justchokingaround/enjoi/internal/tui/components/detail"
	"github.com/justchokingaround/enjoi/internal/tui/components/episode"
	"github.com/justchokingaround/enjoi/internal/tui/components/help"
	"github.com/justchokingaround/enjoi/internal/tui/components/search"
	"github.com/justchokingaround/enjoi/internal/tui/styles"
)

// statusTTL is how long a footer status line stays up
const statusTTL = 3 * time.Second

// Options configure a new App
type Options struct {
	Backend   backend.Backend
	Clipboard clipboard.Service
	Search    query.Settings
	Timeout   time.Duration
	Start     route.Route
	Logger    *slog.Logger
}

// App is the root model. It owns the current route, the detail cache and
// the three views, and hands each view only the side of the cache it needs.
type App struct {
	width  int
	height int

	route   route.Route
	start   route.Route
	cache   *detailcache.Store
	backend backend.Backend
	clip    clipboard.Service
	timeout time.Duration
	logger  *slog.Logger

	search  search.Model
	detail  detail.Model
	episode episode.Model
	help    help.Model

	statusMsg string
	statusErr bool
	statusID  int
}

func NewApp(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.NewService("", logger)
	}

	cache := detailcache.New()

	return &App{
		route:   route.ForSearch(),
		start:   opts.Start,
		cache:   cache,
		backend: opts.Backend,
		clip:    clip,
		timeout: opts.Timeout,
		logger:  logger,
		search:  search.New(opts.Backend, opts.Search, opts.Timeout, logger),
		detail:  detail.New(opts.Backend, cache, opts.Timeout, logger),
		episode: episode.New(opts.Backend, cache, clip, opts.Timeout, logger),
		help:    help.New(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.search.Init(), a.enter(a.start))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleWindowSizeMsg(msg)

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case common.NavigateMsg:
		return a.handleNavigateMsg(msg)
	case common.BackMsg:
		return a.handleBackMsg()
	case common.SearchSettingsMsg:
		return a.updateSearch(msg)

	case search.ResultsMsg:
		return a.updateSearch(msg)
	case detail.LoadedMsg:
		return a.updateDetail(msg)
	case episode.LoadedMsg:
		return a.updateEpisode(msg)

	case spinner.TickMsg:
		// each spinner ignores ticks that carry another spinner's id
		var cmds []tea.Cmd
		_, cmd := a.updateSearch(msg)
		cmds = append(cmds, cmd)
		_, cmd = a.updateDetail(msg)
		cmds = append(cmds, cmd)
		_, cmd = a.updateEpisode(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case clipboard.CopiedMsg:
		return a.handleCopiedMsg(msg)
	case common.LinkOpenedMsg:
		return a.handleLinkOpenedMsg(msg)
	case common.StatusMsg:
		return a, a.setStatus(msg.Text, msg.Err)
	case common.ClearStatusMsg:
		return a.handleClearStatusMsg(msg)
	}

	// debounce ticks and cursor blinks belong to the search input even while
	// another view is on screen
	return a.updateSearch(msg)
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.help.IsVisible() {
		var cmd tea.Cmd
		a.help, cmd = a.help.Update(msg)
		return a, cmd
	}

	// "?" is plain text while the search input has focus
	if key == "f1" || (key == "?" && a.route.Kind != route.Search) {
		a.help.SetContext(helpContext(a.route))
		a.help.Toggle()
		return a, nil
	}

	return a.updateActive(msg)
}

func helpContext(r route.Route) help.Context {
	switch r.Kind {
	case route.Detail:
		return help.DetailContext
	case route.Episode:
		return help.EpisodeContext
	default:
		return help.SearchContext
	}
}

func (a *App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.route.Kind {
	case route.Detail:
		return a.updateDetail(msg)
	case route.Episode:
		return a.updateEpisode(msg)
	default:
		return a.updateSearch(msg)
	}
}

func (a *App) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.search.Update(msg)
	a.search = m.(search.Model)
	return a, cmd
}

func (a *App) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.detail.Update(msg)
	a.detail = m.(detail.Model)
	return a, cmd
}

func (a *App) updateEpisode(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.episode.Update(msg)
	a.episode = m.(episode.Model)
	return a, cmd
}

func (a *App) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	// the footer takes two lines
	inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-2, 0)}
	a.updateSearch(inner)
	a.updateDetail(inner)
	a.updateEpisode(inner)
	a.help, _ = a.help.Update(msg)
	return a, nil
}

func (a *App) View() string {
	if a.help.IsVisible() {
		return a.help.View()
	}

	var body string
	switch a.route.Kind {
	case route.Detail:
		body = a.detail.View()
	case route.Episode:
		body = a.episode.View()
	default:
		body = a.search.View()
	}

	var footer string
	switch {
	case a.statusMsg == "":
		footer = styles.MutedStyle.Render(a.route.String())
	case a.statusErr:
		footer = styles.ErrorStyle.Render(a.statusMsg)
	default:
		footer = styles.StatusStyle.Render(a.statusMsg)
	}

	if a.height > 0 {
		if pad := a.height - 2 - strings.Count(body, "\n") - 1; pad > 0 {
			body += strings.Repeat("\n", pad)
		}
	}
	return body + "\n" + styles.FooterStyle.Render(footer)
}

// Route returns the route on screen
func (a *App) Route() route.Route {
	return a.route
}

// Status returns the footer status line, if any
func (a *App) Status() string {
	return a.statusMsg
}
