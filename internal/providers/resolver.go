package providers

import (
	"errors"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/justchokingaround/enjoi/internal/backend"
)

// ErrNoProviders means an episode has no playable source
var ErrNoProviders = errors.New("no provider available")

// Resolve picks the active provider of a freshly fetched episode.
//
// With no previous selection the first provider wins. Otherwise the first
// provider carrying the previous label is returned, with this episode's URL;
// when the label is gone the first provider is used again.
func Resolve(providers []backend.Provider, previous mo.Option[backend.Provider]) (backend.Provider, error) {
	if len(providers) == 0 {
		return backend.Provider{}, ErrNoProviders
	}

	prev, ok := previous.Get()
	if !ok {
		return providers[0], nil
	}

	if match, found := lo.Find(providers, func(p backend.Provider) bool {
		return p.Label == prev.Label
	}); found {
		return match, nil
	}

	return providers[0], nil
}

// IndexOf returns the position of p in providers by label and URL, or -1
func IndexOf(providers []backend.Provider, p backend.Provider) int {
	return lo.IndexOf(providers, p)
}
