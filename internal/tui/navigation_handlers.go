package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/enjoi/internal/route"
	"github.com/justchokingaround/enjoi/internal/tui/common"
	"github.com/justchokingaround/enjoi/internal/tui/components/episode"
)

func (a *App) handleNavigateMsg(msg common.NavigateMsg) (tea.Model, tea.Cmd) {
	return a, a.enter(msg.Route)
}

func (a *App) handleBackMsg() (tea.Model, tea.Cmd) {
	a.statusMsg = ""
	return a, a.enter(a.route.Parent())
}

// enter switches to r and starts whatever fetch the new view needs
func (a *App) enter(r route.Route) tea.Cmd {
	a.logger.Debug("navigating", "from", a.route.String(), "to", r.String())
	from := a.route
	a.route = r

	switch r.Kind {
	case route.Detail:
		return a.detail.Load(r.Slug)

	case route.Episode:
		var cmds []tea.Cmd
		if from.Kind != route.Episode || from.Slug != r.Slug {
			// the selection only lives while the episode view stays mounted
			a.episode = episode.New(a.backend, a.cache, a.clip, a.timeout, a.logger)
			a.updateEpisode(tea.WindowSizeMsg{Width: a.width, Height: max(a.height-2, 0)})
		}
		cmds = append(cmds, a.episode.Load(r.Slug, r.Episode))

		// opened straight at an episode: fill the cache so titles and counts appear
		if a.cache.GetFor(r.Slug).IsAbsent() && a.detail.Slug() != r.Slug {
			cmds = append(cmds, a.detail.Load(r.Slug))
		}
		return tea.Batch(cmds...)
	}

	return nil
}
