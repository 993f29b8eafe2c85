package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/enjoi/internal/backend"
	"github.com/justchokingaround/enjoi/internal/backend/backendtest"
)

func TestRunSearch(t *testing.T) {
	fake := backendtest.New()
	fake.Results["naruto"] = []backend.SearchResult{
		{Title: "Naruto", Slug: "naruto"},
		{Title: "Naruto Shippuden", Slug: "naruto-shippuden"},
	}

	var out bytes.Buffer
	err := runSearch(context.Background(), &out, fake, "https://example.test/", "naruto")

	require.NoError(t, err)
	assert.Equal(t,
		"Naruto https://example.test/category/naruto\n"+
			"Naruto Shippuden https://example.test/category/naruto-shippuden\n",
		out.String())
}

func TestRunSearchNoResults(t *testing.T) {
	var out bytes.Buffer
	err := runSearch(context.Background(), &out, backendtest.New(), "https://example.test", "zzz")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "No results found.")
}

func TestRunDetails(t *testing.T) {
	fake := backendtest.New()
	fake.DetailsBySlug["naruto-shippuden"] = backend.Details{
		ID:            1735,
		Title:         "Naruto: Shippuden",
		CoverImageURL: "https://example.test/cover.jpg",
		ReleaseYear:   2007,
		EpisodeCount:  500,
		Genres:        []string{"Action", "Adventure"},
		Summary:       "Naruto returns.",
	}

	var out bytes.Buffer
	err := runDetails(context.Background(), &out, fake, "Naruto: Shippuden")

	require.NoError(t, err)
	assert.Equal(t, []string{"naruto-shippuden"}, fake.DetailsCalls())
	text := out.String()
	assert.Contains(t, text, "Id: 1735")
	assert.Contains(t, text, "Cover Image: https://example.test/cover.jpg")
	assert.Contains(t, text, "Released in: 2007")
	assert.Contains(t, text, "Episodes: 500")
	assert.Contains(t, text, "Genres: Action, Adventure")
	assert.Contains(t, text, "Summary: Naruto returns.")
}

func TestRunDetailsFallsBackToSearch(t *testing.T) {
	fake := backendtest.New()
	fake.Results["Shingeki no Kyojin"] = []backend.SearchResult{
		{Title: "Attack on Titan", Slug: "aot"},
		{Title: "Shingeki no Kyojin Season 2", Slug: "snk-2"},
	}
	fake.DetailsBySlug["snk-2"] = backend.Details{ID: 2, Title: "Shingeki no Kyojin Season 2"}

	var out bytes.Buffer
	err := runDetails(context.Background(), &out, fake, "Shingeki no Kyojin")

	require.NoError(t, err)
	assert.Equal(t, []string{"shingeki-no-kyojin", "snk-2"}, fake.DetailsCalls())
	assert.Contains(t, out.String(), "Id: 2")
}

func TestRunDetailsFallsBackOnWrappedNotFound(t *testing.T) {
	fake := backendtest.New()
	fake.Results["Frieren"] = []backend.SearchResult{{Title: "Sousou no Frieren", Slug: "frieren-beyond"}}
	fake.DetailsFunc = func(_ context.Context, slug string) (*backend.Details, error) {
		if slug == "frieren-beyond" {
			return &backend.Details{ID: 7, Title: "Sousou no Frieren"}, nil
		}
		return nil, fmt.Errorf("get details of %q failed: %w", slug, backend.ErrNotFound)
	}

	var out bytes.Buffer
	err := runDetails(context.Background(), &out, fake, "Frieren")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Id: 7")
}

func TestRunDetailsNotFound(t *testing.T) {
	var out bytes.Buffer
	err := runDetails(context.Background(), &out, backendtest.New(), "nothing here")

	assert.ErrorIs(t, err, backend.ErrNotFound)
	assert.Empty(t, out.String())
}

func TestRunDetailsKeepsOtherErrors(t *testing.T) {
	fake := backendtest.New()
	fake.DetailsFunc = func(context.Context, string) (*backend.Details, error) {
		return nil, errors.New("connection refused")
	}

	err := runDetails(context.Background(), &bytes.Buffer{}, fake, "naruto")

	assert.EqualError(t, err, "connection refused")
	assert.Empty(t, fake.SearchCalls(), "only a missing slug falls back to search")
}

func TestRunEpisode(t *testing.T) {
	fake := backendtest.New()
	fake.Episodes[backendtest.EpisodeCall{Slug: "naruto", Number: 3}] = backend.Episode{
		Providers: []backend.Provider{
			{Label: "Vidstreaming", SourceURL: "https://example.test/a"},
			{Label: "Streamtape", SourceURL: "https://example.test/b"},
		},
	}

	var out bytes.Buffer
	err := runEpisode(context.Background(), &out, fake, "naruto", 3)

	require.NoError(t, err)
	assert.Equal(t,
		"3rd episode of naruto\n"+
			"1. Vidstreaming https://example.test/a (default)\n"+
			"2. Streamtape https://example.test/b\n",
		out.String())
}

func TestRunEpisodeWithoutProviders(t *testing.T) {
	fake := backendtest.New()
	fake.Episodes[backendtest.EpisodeCall{Slug: "naruto", Number: 1}] = backend.Episode{}

	var out bytes.Buffer
	require.NoError(t, runEpisode(context.Background(), &out, fake, "naruto", 1))

	assert.Contains(t, out.String(), "No provider available for the 1st episode.")
}

func TestPrintError(t *testing.T) {
	var out bytes.Buffer
	printError(&out, errors.New("backend down"))

	assert.Equal(t, "[ERROR]: backend down\n", out.String())
}
