package common

import (
	"context"
	"time"

	"github.com/justchokingaround/enjoi/internal/query"
	"github.com/justchokingaround/enjoi/internal/route"
)

// This file contains custom tea.Msg types for communication between components.

// NavigateMsg asks the root model to switch to another route.
type NavigateMsg struct {
	Route route.Route
}

// BackMsg is a generic message to go back to the parent route.
type BackMsg struct{}

// SearchSettingsMsg carries reloaded search settings into the running UI.
type SearchSettingsMsg struct {
	Settings query.Settings
}

// StatusMsg shows a short-lived line in the footer.
type StatusMsg struct {
	Text string
	Err  error
}

// ClearStatusMsg removes the footer line set by the StatusMsg with the same ID.
type ClearStatusMsg struct {
	ID int
}

// LinkOpenedMsg reports the outcome of opening a source URL in the browser.
type LinkOpenedMsg struct {
	URL string
	Err error
}

// CallContext bounds a backend call by timeout. A non-positive timeout means no deadline.
func CallContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
