package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/enjoi/internal/backend"
	"github.com/justchokingaround/enjoi/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = server.URL
	cfg.API.Timeout = 5 * time.Second

	return NewClient(cfg, nil)
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "onepi", r.URL.Query().Get("text"))
		_, _ = w.Write([]byte(`[
			{"cover_image_url":"https://img/1.jpg","title":"One Piece","slug":"one-piece"},
			{"cover_image_url":"https://img/2.jpg","title":"One Piece Film: Red","slug":"one-piece-film-red"}
		]`))
	})

	results, err := client.Search(context.Background(), "onepi")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, backend.SearchResult{
		CoverImageURL: "https://img/1.jpg",
		Title:         "One Piece",
		Slug:          "one-piece",
	}, results[0])
	assert.Equal(t, "one-piece-film-red", results[1].Slug)
}

func TestClient_Details(t *testing.T) {
	t.Run("decodes record and stamps slug", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/details/naruto", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"id": 42, "cover_image_url": "https://img/n.jpg", "summary": "Ninja.",
				"title": "Naruto", "genres": ["Action","Comedy"], "release_year": 2002,
				"default_episode": 1, "episode_count": 220
			}`))
		})

		details, err := client.Details(context.Background(), "naruto")
		require.NoError(t, err)

		assert.Equal(t, &backend.Details{
			Slug:           "naruto",
			ID:             42,
			CoverImageURL:  "https://img/n.jpg",
			Summary:        "Ninja.",
			Title:          "Naruto",
			Genres:         []string{"Action", "Comedy"},
			ReleaseYear:    2002,
			DefaultEpisode: 1,
			EpisodeCount:   220,
		}, details)
	})

	t.Run("maps 404 to ErrNotFound", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.Details(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("wraps other statuses in StatusError", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		})

		_, err := client.Details(context.Background(), "naruto")
		require.Error(t, err)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
		assert.Equal(t, "/details/naruto", statusErr.Endpoint)
		assert.Contains(t, statusErr.Body, "upstream down")
	})

	t.Run("shortens long bodies on rune boundaries", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("x" + strings.Repeat("進", 300)))
		})

		_, err := client.Details(context.Background(), "naruto")

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.True(t, utf8.ValidString(statusErr.Body))
		assert.Equal(t, "x"+strings.Repeat("進", 199)+"...", statusErr.Body)
	})

	t.Run("reports malformed bodies", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": "not a number"`))
		})

		_, err := client.Details(context.Background(), "naruto")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})
}

func TestClient_Episode(t *testing.T) {
	t.Run("keeps provider order", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/episode/naruto/5", r.URL.Path)
			_, _ = w.Write([]byte(`{"providers":[["vidcdn","https://a"],["streamsb","https://b"]]}`))
		})

		episode, err := client.Episode(context.Background(), "naruto", 5)
		require.NoError(t, err)

		assert.Equal(t, []backend.Provider{
			{Label: "vidcdn", SourceURL: "https://a"},
			{Label: "streamsb", SourceURL: "https://b"},
		}, episode.Providers)
	})

	t.Run("passes out of range numbers through", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/episode/naruto/0", r.URL.Path)
			_, _ = w.Write([]byte(`{"providers":[]}`))
		})

		episode, err := client.Episode(context.Background(), "naruto", 0)
		require.NoError(t, err)
		assert.Empty(t, episode.Providers)
	})
}
