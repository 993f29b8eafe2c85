package detailcache

import (
	"slices"
	"sync"

	"github.com/samber/mo"

	"github.com/justchokingaround/enjoi/internal/backend"
)

// Reader is the read capability handed to views that only consume details
type Reader interface {
	Get() mo.Option[backend.Details]
	GetFor(slug string) mo.Option[backend.Details]
}

// Writer is the write capability, held by the view that fetches details
type Writer interface {
	Set(details backend.Details)
}

// Store holds the most recently fetched details record. It has exactly one
// slot: every Set replaces the previous record, whatever its slug.
type Store struct {
	mu      sync.RWMutex
	details backend.Details
	present bool
}

var (
	_ Reader = (*Store)(nil)
	_ Writer = (*Store)(nil)
)

// New creates an empty store
func New() *Store {
	return &Store{}
}

// Set overwrites the slot unconditionally
func (s *Store) Set(details backend.Details) {
	details.Genres = slices.Clone(details.Genres)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = details
	s.present = true
}

// Get returns the cached record, or None before the first Set
func (s *Store) Get() mo.Option[backend.Details] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return mo.None[backend.Details]()
	}
	return mo.Some(s.copyLocked())
}

// GetFor returns the cached record only if it was fetched for slug
func (s *Store) GetFor(slug string) mo.Option[backend.Details] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present || s.details.Slug != slug {
		return mo.None[backend.Details]()
	}
	return mo.Some(s.copyLocked())
}

func (s *Store) copyLocked() backend.Details {
	d := s.details
	d.Genres = slices.Clone(s.details.Genres)
	return d
}
