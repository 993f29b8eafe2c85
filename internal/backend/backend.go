package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Backend is the content-lookup service the views talk to.
// Calls may be slow and may fail; callers own ordering and staleness checks.
type Backend interface {
	Search(ctx context.Context, text string) ([]SearchResult, error)
	Details(ctx context.Context, slug string) (*Details, error)
	Episode(ctx context.Context, slug string, number int) (*Episode, error)
}

// ErrNotFound is returned when the backend has no record for a slug or episode
var ErrNotFound = errors.New("not found")

// SearchResult is a single hit of a text search
type SearchResult struct {
	CoverImageURL string `json:"cover_image_url"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
}

// Details describes one show. Slug is not part of the wire record; clients
// fill it from the request so readers can tell which slug a record belongs to.
type Details struct {
	Slug           string   `json:"-"`
	ID             int      `json:"id"`
	CoverImageURL  string   `json:"cover_image_url"`
	Summary        string   `json:"summary"`
	Title          string   `json:"title"`
	Genres         []string `json:"genres"`
	ReleaseYear    int      `json:"release_year"`
	DefaultEpisode int      `json:"default_episode"`
	EpisodeCount   int      `json:"episode_count"`
}

// Episode lists the playback sources of one episode. The first provider is the default.
type Episode struct {
	Providers []Provider `json:"providers"`
}

// Provider is a labeled playback source
type Provider struct {
	Label     string `json:"label"`
	SourceURL string `json:"url"`
}

// UnmarshalJSON accepts both the ["label", "url"] pair form and the object form
func (p *Provider) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("provider pair must have 2 elements, got %d", len(pair))
		}
		p.Label, p.SourceURL = pair[0], pair[1]
		return nil
	}

	type plain Provider
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid provider: %w", err)
	}
	*p = Provider(obj)
	return nil
}
