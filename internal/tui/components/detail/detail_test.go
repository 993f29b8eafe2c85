package detail

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/enjoi/internal/backend"
	"github.com/justchokingaround/enjoi/internal/backend/backendtest"
	"github.com/justchokingaround/enjoi/internal/detailcache"
	"github.com/justchokingaround/enjoi/internal/route"
	"github.com/justchokingaround/enjoi/internal/tui/common"
	"github.com/justchokingaround/enjoi/internal/tui/tuitest"
)

func steinsGate() backend.Details {
	return backend.Details{
		ID:             9253,
		Title:          "Steins;Gate",
		Summary:        "A self-proclaimed mad scientist discovers a way to send messages to the past.",
		Genres:         []string{"Sci-Fi", "Thriller"},
		ReleaseYear:    2011,
		DefaultEpisode: 3,
		EpisodeCount:   4,
	}
}

func setup(t *testing.T) (Model, *backendtest.Fake, *detailcache.Store) {
	t.Helper()
	fake := backendtest.New()
	fake.DetailsBySlug["steins-gate"] = steinsGate()
	fake.DetailsBySlug["clannad"] = backend.Details{Title: "Clannad", DefaultEpisode: 1, EpisodeCount: 23}
	store := detailcache.New()
	return New(fake, store, time.Second, slog.Default()), fake, store
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func loaded(t *testing.T, cmd tea.Cmd) LoadedMsg {
	t.Helper()
	msg, ok := tuitest.Find[LoadedMsg](tuitest.Run(cmd))
	require.True(t, ok)
	return msg
}

func load(t *testing.T, m Model, slug string) Model {
	t.Helper()
	cmd := m.Load(slug)
	require.NotNil(t, cmd)
	m, _ = send(m, loaded(t, cmd))
	return m
}

func TestLoadWritesCache(t *testing.T) {
	m, fake, store := setup(t)

	cmd := m.Load("steins-gate")
	assert.Equal(t, Loading, m.Phase())
	assert.True(t, store.Get().IsAbsent())

	m, _ = send(m, loaded(t, cmd))

	assert.Equal(t, Loaded, m.Phase())
	assert.Equal(t, []string{"steins-gate"}, fake.DetailsCalls())

	cached, ok := store.Get().Get()
	require.True(t, ok)
	assert.Equal(t, "steins-gate", cached.Slug)
	assert.Equal(t, "Steins;Gate", cached.Title)
	assert.Equal(t, 3, m.Episode(), "chooser starts at the default episode")
}

func TestReenteringLoadedSlugDoesNotRefetch(t *testing.T) {
	m, fake, _ := setup(t)
	m = load(t, m, "steins-gate")

	assert.Nil(t, m.Load("steins-gate"))
	assert.Equal(t, Loaded, m.Phase())
	assert.Len(t, fake.DetailsCalls(), 1)
}

func TestReenteringLoadingSlugDoesNotRefetch(t *testing.T) {
	m, _, _ := setup(t)

	require.NotNil(t, m.Load("steins-gate"))
	assert.Nil(t, m.Load("steins-gate"))
}

func TestStaleResponseIsDropped(t *testing.T) {
	m, _, store := setup(t)

	first := loaded(t, m.Load("steins-gate"))
	second := loaded(t, m.Load("clannad"))

	m, _ = send(m, second)
	m, _ = send(m, first)

	assert.Equal(t, "clannad", m.Slug())
	assert.Equal(t, "Clannad", m.Details().Title)

	cached, ok := store.Get().Get()
	require.True(t, ok)
	assert.Equal(t, "clannad", cached.Slug, "a dropped response never reaches the cache")
}

func TestStaleResponseForSameSlugIsDropped(t *testing.T) {
	m, fake, _ := setup(t)
	fake.DetailsFunc = func(_ context.Context, slug string) (*backend.Details, error) {
		return nil, errors.New("timeout")
	}

	first := loaded(t, m.Load("steins-gate"))
	m, _ = send(m, first)
	require.Equal(t, Failed, m.Phase())

	fake.DetailsFunc = nil
	retry := m.Reload()
	assert.Equal(t, Loading, m.Phase())

	m, _ = send(m, first)
	assert.Equal(t, Loading, m.Phase(), "old token is ignored")

	m, _ = send(m, loaded(t, retry))
	assert.Equal(t, Loaded, m.Phase())
}

func TestFailureAndRetry(t *testing.T) {
	m, fake, store := setup(t)
	fake.DetailsFunc = func(context.Context, string) (*backend.Details, error) {
		return nil, errors.New("connection refused")
	}

	m = load(t, m, "steins-gate")

	assert.Equal(t, Failed, m.Phase())
	assert.EqualError(t, m.Err(), "connection refused")
	assert.True(t, store.Get().IsAbsent())
	assert.Contains(t, tuitest.Plain(m.View()), "connection refused")
	assert.Len(t, fake.DetailsCalls(), 1, "no automatic retry")

	fake.DetailsFunc = nil
	m, cmd := send(m, tuitest.Key("r"))
	require.NotNil(t, cmd)
	m, _ = send(m, loaded(t, cmd))

	assert.Equal(t, Loaded, m.Phase())
	assert.True(t, store.Get().IsPresent())
	assert.Len(t, fake.DetailsCalls(), 2)
}

func TestLoadAfterFailureRefetches(t *testing.T) {
	m, fake, _ := setup(t)
	fake.DetailsFunc = func(context.Context, string) (*backend.Details, error) {
		return nil, errors.New("boom")
	}
	m = load(t, m, "steins-gate")
	require.Equal(t, Failed, m.Phase())

	fake.DetailsFunc = nil
	m = load(t, m, "steins-gate")

	assert.Equal(t, Loaded, m.Phase())
}

func TestNotFound(t *testing.T) {
	m, _, _ := setup(t)

	m = load(t, m, "missing")

	assert.Equal(t, Failed, m.Phase())
	assert.ErrorIs(t, m.Err(), backend.ErrNotFound)
}

func TestEpisodeChooser(t *testing.T) {
	m, _, _ := setup(t)
	m = load(t, m, "steins-gate")

	for range 3 {
		m, _ = send(m, tuitest.Key("right"))
	}
	assert.Equal(t, 4, m.Episode(), "clamped to the episode count")

	for range 6 {
		m, _ = send(m, tuitest.Key("left"))
	}
	assert.Equal(t, 1, m.Episode(), "clamped to the first episode")

	m, _ = send(m, tuitest.Key("l"))
	m, cmd := send(m, tuitest.Key("enter"))
	require.NotNil(t, cmd)

	nav, ok := cmd().(common.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, route.ForEpisode("steins-gate", 2), nav.Route)
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	m, _, _ := setup(t)
	m.Load("steins-gate")

	_, cmd := send(m, tuitest.Key("enter"))
	assert.Nil(t, cmd)

	_, cmd = send(m, tuitest.Key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, common.BackMsg{}, cmd())
}

func TestView(t *testing.T) {
	m, _, _ := setup(t)
	m, _ = send(m, tea.WindowSizeMsg{Width: 80, Height: 30})

	m.Load("steins-gate")
	assert.Contains(t, tuitest.Plain(m.View()), "Loading steins-gate...")

	m = load(t, m, "clannad")
	m = load(t, m, "steins-gate")

	tuitest.AssertSnapshot(t, m.View())

	view := tuitest.Plain(m.View())
	assert.Contains(t, view, "Steins;Gate")
	assert.Contains(t, view, "Released in 2011 • 4 episodes")
	assert.Contains(t, view, "Episode ‹ 3 › of 4")
	assert.Contains(t, view, "3rd, default")
}
