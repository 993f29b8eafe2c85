// Package query turns raw search keystrokes into debounced, token-tagged
// backend searches and decides which responses are still worth showing.
//
// The pipeline itself never sleeps or spawns goroutines. Callers schedule
// Fire after Window() (the TUI does it with tea.Tick) and hand responses back
// through Settle.
package query

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/justchokingaround/enjoi/internal/backend"
)

// Token identifies one submitted query. Tokens only ever grow.
type Token uint64

// Phase is where the pipeline is in the idle -> typing -> searching -> displaying cycle
type Phase int

const (
	Idle Phase = iota
	Typing
	Searching
	Displaying
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	case Searching:
		return "searching"
	case Displaying:
		return "displaying"
	default:
		return "unknown"
	}
}

// Settings are the pipeline's policy knobs
type Settings struct {
	MinLength int
	Window    time.Duration
}

// DefaultSettings matches the shipped configuration
func DefaultSettings() Settings {
	return Settings{MinLength: 3, Window: 300 * time.Millisecond}
}

// Submission tells the caller what to do after Submit.
// When Settled is true the result set is already final and nothing must be scheduled.
type Submission struct {
	Token   Token
	Text    string
	Settled bool
}

// Pipeline holds the query state of one search view
type Pipeline struct {
	settings Settings
	latest   Token
	text     string
	phase    Phase
	results  []backend.SearchResult
}

// New creates an idle pipeline
func New(settings Settings) *Pipeline {
	return &Pipeline{settings: normalize(settings)}
}

func normalize(s Settings) Settings {
	if s.MinLength < 1 {
		s.MinLength = 1
	}
	if s.Window < 0 {
		s.Window = 0
	}
	return s
}

// Submit records a new text value. Every call supersedes whatever was
// pending or in flight and clears the shown results. Text below the
// minimum length settles immediately with no results and no backend call.
func (p *Pipeline) Submit(text string) Submission {
	p.latest++
	p.text = text
	p.results = nil

	if !p.Qualifies(text) {
		if text == "" {
			p.phase = Idle
		} else {
			p.phase = Displaying
		}
		return Submission{Token: p.latest, Text: text, Settled: true}
	}

	p.phase = Typing
	return Submission{Token: p.latest, Text: text}
}

// Fire is called when the quiescence window of token has elapsed. It returns
// the text to search for, or false when a later Submit superseded token.
func (p *Pipeline) Fire(token Token) (string, bool) {
	if token != p.latest || p.phase != Typing {
		return "", false
	}
	p.phase = Searching
	return p.text, true
}

// Settle applies a backend response. Responses for superseded tokens are
// dropped without touching any state. A failed search settles as empty.
func (p *Pipeline) Settle(token Token, results []backend.SearchResult, err error) bool {
	if token != p.latest || p.phase != Searching {
		return false
	}
	if err != nil {
		results = nil
	}
	p.results = results
	p.phase = Displaying
	return true
}

// Qualifies reports whether text passes the minimum length predicate.
// Surrounding whitespace does not count; length is measured in runes.
func (p *Pipeline) Qualifies(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= p.settings.MinLength
}

// Configure swaps the policy. Pending work keeps its token; the new window
// applies to the next Submit.
func (p *Pipeline) Configure(settings Settings) {
	p.settings = normalize(settings)
}

// Window is the quiescence delay before a submission may fire
func (p *Pipeline) Window() time.Duration { return p.settings.Window }

// Settings returns the active policy
func (p *Pipeline) Settings() Settings { return p.settings }

// Latest returns the most recently issued token
func (p *Pipeline) Latest() Token { return p.latest }

// Text returns the current text
func (p *Pipeline) Text() string { return p.text }

// Phase returns the current phase
func (p *Pipeline) Phase() Phase { return p.phase }

// Results returns the result set of the latest settled query
func (p *Pipeline) Results() []backend.SearchResult { return p.results }
