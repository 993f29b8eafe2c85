// Package route parses and formats the navigation paths the views are addressed by:
//
//	/                          search
//	/anime/{slug}              details of one show
//	/anime/{slug}/{episode}    one episode of a show
package route

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrInvalidRoute is returned for paths outside the three known shapes
	ErrInvalidRoute = errors.New("invalid route")
	// ErrInvalidEpisode is returned when the episode segment is not a positive integer
	ErrInvalidEpisode = errors.New("invalid episode number")
)

// Kind identifies which view a route addresses
type Kind int

const (
	Search Kind = iota
	Detail
	Episode
)

func (k Kind) String() string {
	switch k {
	case Search:
		return "search"
	case Detail:
		return "detail"
	case Episode:
		return "episode"
	default:
		return "unknown"
	}
}

// Route is a parsed navigation target
type Route struct {
	Kind    Kind
	Slug    string
	Episode int
}

// ForSearch returns the search route
func ForSearch() Route { return Route{Kind: Search} }

// ForDetail returns the detail route of slug
func ForDetail(slug string) Route { return Route{Kind: Detail, Slug: slug} }

// ForEpisode returns the route of episode n of slug
func ForEpisode(slug string, n int) Route { return Route{Kind: Episode, Slug: slug, Episode: n} }

// Parse turns a path into a Route
func Parse(path string) (Route, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ForSearch(), nil
	}

	parts := strings.Split(trimmed, "/")
	if parts[0] != "anime" || len(parts) < 2 || len(parts) > 3 {
		return Route{}, fmt.Errorf("%w: %q", ErrInvalidRoute, path)
	}

	slug, err := url.PathUnescape(parts[1])
	if err != nil || slug == "" {
		return Route{}, fmt.Errorf("%w: bad slug in %q", ErrInvalidRoute, path)
	}

	if len(parts) == 2 {
		return ForDetail(slug), nil
	}

	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return Route{}, fmt.Errorf("%w: %q", ErrInvalidEpisode, parts[2])
	}

	return ForEpisode(slug, n), nil
}

// String formats the route back into a path
func (r Route) String() string {
	switch r.Kind {
	case Detail:
		return "/anime/" + url.PathEscape(r.Slug)
	case Episode:
		return "/anime/" + url.PathEscape(r.Slug) + "/" + strconv.Itoa(r.Episode)
	default:
		return "/"
	}
}

// Parent returns the route one level up: episode -> detail -> search
func (r Route) Parent() Route {
	switch r.Kind {
	case Episode:
		return ForDetail(r.Slug)
	default:
		return ForSearch()
	}
}

// Slugify turns a free-text title into a slug: spaces become dashes, ASCII
// letters and digits are lowercased, everything else is dropped.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
