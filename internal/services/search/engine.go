package search

import (
	"regexp"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/killallgit/transcript-search/pkg/transcript"
)

// Options controls how a query is matched
type Options struct {
	CaseSensitive bool
	WholeWords    bool
	// Limit caps the number of results; zero means no cap
	Limit int
}

// Result is one matching segment
type Result struct {
	SegmentID       string  `json:"segmentId"`
	EpisodeID       string  `json:"episodeId"`
	EpisodeTitle    string  `json:"episodeTitle"`
	Text            string  `json:"text"`
	Timestamp       float64 `json:"timestamp"`
	HighlightedText string  `json:"highlightedText"`
	Matches         int     `json:"matches"`
}

type snapshot struct {
	episodes []transcript.Episode
	byID     map[string]int
}

// Engine answers ranked queries over a corpus snapshot. The corpus is replaced wholesale,
// so readers always see either the previous or the next corpus in full.
type Engine struct {
	current atomic.Pointer[snapshot]
}

// NewEngine creates an engine over the given episodes
func NewEngine(episodes []transcript.Episode) *Engine {
	e := &Engine{}
	e.Replace(episodes)
	return e
}

// Replace swaps in a new corpus. The slice is copied; episodes must not be mutated afterwards.
func (e *Engine) Replace(episodes []transcript.Episode) {
	snap := &snapshot{
		episodes: make([]transcript.Episode, len(episodes)),
		byID:     make(map[string]int, len(episodes)),
	}
	copy(snap.episodes, episodes)
	for i, ep := range snap.episodes {
		snap.byID[ep.ID] = i
	}
	e.current.Store(snap)
}

// Len returns the number of episodes in the corpus
func (e *Engine) Len() int {
	return len(e.current.Load().episodes)
}

// Episode resolves an episode by id
func (e *Engine) Episode(id string) (*transcript.Episode, bool) {
	snap := e.current.Load()
	i, ok := snap.byID[id]
	if !ok {
		return nil, false
	}
	ep := snap.episodes[i]
	return &ep, true
}

// Segment resolves a segment by episode and segment id
func (e *Engine) Segment(episodeID, segmentID string) (*transcript.Segment, bool) {
	ep, ok := e.Episode(episodeID)
	if !ok {
		return nil, false
	}
	return ep.Segment(segmentID)
}

// Search returns every segment matching query, most matches first and earliest first among
// equals. A blank query matches nothing.
func (e *Engine) Search(query string, opts Options) []Result {
	results := []Result{}

	query = strings.TrimSpace(query)
	if query == "" {
		return results
	}

	m := newMatcher(query, opts)
	snap := e.current.Load()
	for _, ep := range snap.episodes {
		for _, seg := range ep.Transcript {
			count := m.count(seg.Text)
			if count == 0 {
				continue
			}
			results = append(results, Result{
				SegmentID:       seg.ID,
				EpisodeID:       ep.ID,
				EpisodeTitle:    ep.Title,
				Text:            seg.Text,
				Timestamp:       seg.Timestamp,
				HighlightedText: Highlight(seg.Text, query),
				Matches:         count,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Matches != results[j].Matches {
			return results[i].Matches > results[j].Matches
		}
		return results[i].Timestamp < results[j].Timestamp
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// matcher counts occurrences of a query in segment text. Matching and counting share one
// casing rule.
type matcher struct {
	query   string
	folded  bool
	pattern *regexp.Regexp
}

func newMatcher(query string, opts Options) *matcher {
	m := &matcher{query: query, folded: !opts.CaseSensitive}
	if m.folded {
		m.query = strings.ToLower(query)
	}
	if opts.WholeWords {
		expr := `\b` + regexp.QuoteMeta(query) + `\b`
		if m.folded {
			expr = `(?i)` + expr
		}
		m.pattern = regexp.MustCompile(expr)
	}
	return m
}

func (m *matcher) count(text string) int {
	if m.pattern != nil {
		return len(m.pattern.FindAllStringIndex(text, -1))
	}
	if m.folded {
		text = strings.ToLower(text)
	}
	return strings.Count(text, m.query)
}
