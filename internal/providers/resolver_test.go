package providers

import (
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justchokingaround/enjoi/internal/backend"
)

func p(label, url string) backend.Provider {
	return backend.Provider{Label: label, SourceURL: url}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		providers []backend.Provider
		previous  mo.Option[backend.Provider]
		want      backend.Provider
	}{
		{
			name:      "no previous selection picks the default",
			providers: []backend.Provider{p("Sub", "urlA"), p("Dub", "urlB")},
			previous:  mo.None[backend.Provider](),
			want:      p("Sub", "urlA"),
		},
		{
			name:      "previous label carries over with the new URL",
			providers: []backend.Provider{p("Raw", "urlC"), p("Dub", "urlD")},
			previous:  mo.Some(p("Dub", "urlB")),
			want:      p("Dub", "urlD"),
		},
		{
			name:      "missing label falls back to the default",
			providers: []backend.Provider{p("Sub", "urlX")},
			previous:  mo.Some(p("Dub", "urlB")),
			want:      p("Sub", "urlX"),
		},
		{
			name:      "first matching label wins on duplicates",
			providers: []backend.Provider{p("Sub", "u1"), p("Dub", "u2"), p("Dub", "u3")},
			previous:  mo.Some(p("Dub", "old")),
			want:      p("Dub", "u2"),
		},
		{
			name:      "labels compare exactly",
			providers: []backend.Provider{p("sub", "u1"), p("Sub", "u2")},
			previous:  mo.Some(p("Sub", "old")),
			want:      p("Sub", "u2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.providers, tt.previous)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveEmpty(t *testing.T) {
	_, err := Resolve(nil, mo.Some(p("Dub", "urlB")))
	assert.ErrorIs(t, err, ErrNoProviders)

	_, err = Resolve([]backend.Provider{}, mo.None[backend.Provider]())
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestResolveDefaultForAnyList(t *testing.T) {
	lists := [][]backend.Provider{
		{p("a", "1")},
		{p("b", "2"), p("a", "1")},
		{p("c", "3"), p("c", "4"), p("d", "5")},
	}
	for _, list := range lists {
		got, err := Resolve(list, mo.None[backend.Provider]())
		require.NoError(t, err)
		assert.Equal(t, list[0], got)
	}
}

func TestIndexOf(t *testing.T) {
	list := []backend.Provider{p("Sub", "a"), p("Dub", "b")}

	assert.Equal(t, 1, IndexOf(list, p("Dub", "b")))
	assert.Equal(t, -1, IndexOf(list, p("Dub", "x")))
}
