package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justchokingaround/enjoi/internal/clipboard"
	"github.com/justchokingaround/enjoi/internal/tui/common"
)

// setStatus shows text in the footer and schedules its removal
func (a *App) setStatus(text string, err error) tea.Cmd {
	a.statusID++
	a.statusMsg = text
	a.statusErr = err != nil
	if err != nil {
		a.statusMsg = text + ": " + err.Error()
	}

	id := a.statusID
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return common.ClearStatusMsg{ID: id}
	})
}

func (a *App) handleClearStatusMsg(msg common.ClearStatusMsg) (tea.Model, tea.Cmd) {
	if msg.ID == a.statusID {
		a.statusMsg = ""
		a.statusErr = false
	}
	return a, nil
}

func (a *App) handleCopiedMsg(msg clipboard.CopiedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.logger.Error("copy failed", "error", msg.Err)
		return a, a.setStatus("Copy failed", msg.Err)
	}
	return a, a.setStatus("Source URL copied to clipboard", nil)
}

func (a *App) handleLinkOpenedMsg(msg common.LinkOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.logger.Error("failed to open link", "url", msg.URL, "error", msg.Err)
		return a, a.setStatus("Could not open browser", msg.Err)
	}
	return a, a.setStatus("Opened in browser", nil)
}
