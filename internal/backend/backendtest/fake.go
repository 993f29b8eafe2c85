// Package backendtest provides an in-memory backend for view and CLI tests
package backendtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/justchokingaround/enjoi/internal/backend"
)

// EpisodeCall records one Episode request
type EpisodeCall struct {
	Slug   string
	Number int
}

// Fake serves canned records and records every call it receives.
// The *Func hooks, when set, take precedence over the canned maps.
type Fake struct {
	SearchFunc  func(ctx context.Context, text string) ([]backend.SearchResult, error)
	DetailsFunc func(ctx context.Context, slug string) (*backend.Details, error)
	EpisodeFunc func(ctx context.Context, slug string, number int) (*backend.Episode, error)

	Results       map[string][]backend.SearchResult
	DetailsBySlug map[string]backend.Details
	Episodes      map[EpisodeCall]backend.Episode

	mu           sync.Mutex
	searchCalls  []string
	detailsCalls []string
	episodeCalls []EpisodeCall
}

var _ backend.Backend = (*Fake)(nil)

// New creates an empty fake
func New() *Fake {
	return &Fake{
		Results:       map[string][]backend.SearchResult{},
		DetailsBySlug: map[string]backend.Details{},
		Episodes:      map[EpisodeCall]backend.Episode{},
	}
}

// Search implements backend.Backend
func (f *Fake) Search(ctx context.Context, text string) ([]backend.SearchResult, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, text)
	f.mu.Unlock()

	if f.SearchFunc != nil {
		return f.SearchFunc(ctx, text)
	}
	return f.Results[text], nil
}

// Details implements backend.Backend
func (f *Fake) Details(ctx context.Context, slug string) (*backend.Details, error) {
	f.mu.Lock()
	f.detailsCalls = append(f.detailsCalls, slug)
	f.mu.Unlock()

	if f.DetailsFunc != nil {
		return f.DetailsFunc(ctx, slug)
	}
	d, ok := f.DetailsBySlug[slug]
	if !ok {
		return nil, fmt.Errorf("details %q: %w", slug, backend.ErrNotFound)
	}
	d.Slug = slug
	return &d, nil
}

// Episode implements backend.Backend
func (f *Fake) Episode(ctx context.Context, slug string, number int) (*backend.Episode, error) {
	call := EpisodeCall{Slug: slug, Number: number}

	f.mu.Lock()
	f.episodeCalls = append(f.episodeCalls, call)
	f.mu.Unlock()

	if f.EpisodeFunc != nil {
		return f.EpisodeFunc(ctx, slug, number)
	}
	ep, ok := f.Episodes[call]
	if !ok {
		return nil, fmt.Errorf("episode %d of %q: %w", number, slug, backend.ErrNotFound)
	}
	return &ep, nil
}

// SearchCalls returns the texts searched so far
func (f *Fake) SearchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchCalls...)
}

// DetailsCalls returns the slugs requested so far
func (f *Fake) DetailsCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.detailsCalls...)
}

// EpisodeCalls returns the episodes requested so far
func (f *Fake) EpisodeCalls() []EpisodeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]EpisodeCall(nil), f.episodeCalls...)
}
