package search

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/transcript-search/pkg/transcript"
)

func episode(id string, texts ...string) transcript.Episode {
	ep := transcript.Episode{ID: id, Title: "Episode " + id, PodcastTitle: "Show"}
	for i, text := range texts {
		ep.Transcript = append(ep.Transcript, transcript.Segment{
			ID:        fmt.Sprintf("seg-%d", i),
			Text:      text,
			Timestamp: float64(i) * 10,
		})
	}
	return ep
}

func TestSearchEqualCountsOrderByTimestamp(t *testing.T) {
	a := episode("A", "intro", "intro", "The quick brown fox") // timestamp 20
	b := episode("B", "A quick fox jumps")                      // timestamp 0

	engine := NewEngine([]transcript.Episode{a, b})
	results := engine.Search("quick", Options{})

	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].EpisodeID)
	assert.Equal(t, "A", results[1].EpisodeID)
	assert.Equal(t, "A <mark>quick</mark> fox jumps", results[0].HighlightedText)
	assert.Equal(t, "The <mark>quick</mark> brown fox", results[1].HighlightedText)
	assert.Equal(t, "seg-2", results[1].SegmentID)
	assert.Equal(t, 20.0, results[1].Timestamp)
}

func TestSearchRanksByMatchCount(t *testing.T) {
	engine := NewEngine([]transcript.Episode{
		episode("A", "fox once", "later fox and another fox"),
	})

	results := engine.Search("fox", Options{})
	require.Len(t, results, 2)
	assert.Equal(t, "later fox and another fox", results[0].Text)
	assert.Equal(t, 2, results[0].Matches)
	assert.Equal(t, "fox once", results[1].Text)
}

func TestSearchBlankQuery(t *testing.T) {
	engine := NewEngine([]transcript.Episode{episode("A", "anything at all")})

	for _, q := range []string{"", "   ", "\t\n"} {
		results := engine.Search(q, Options{})
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestSearchOptions(t *testing.T) {
	engine := NewEngine([]transcript.Episode{
		episode("A", "Category theory", "the cat sat", "CAT scan results", "concatenate"),
	})

	tests := []struct {
		name  string
		query string
		opts  Options
		want  []string
	}{
		{
			name:  "substring, case-insensitive",
			query: "cat",
			want:  []string{"Category theory", "the cat sat", "CAT scan results", "concatenate"},
		},
		{
			name:  "substring, case-sensitive",
			query: "cat",
			opts:  Options{CaseSensitive: true},
			want:  []string{"the cat sat", "concatenate"},
		},
		{
			name:  "whole words, case-insensitive",
			query: "cat",
			opts:  Options{WholeWords: true},
			want:  []string{"the cat sat", "CAT scan results"},
		},
		{
			name:  "whole words, case-sensitive",
			query: "CAT",
			opts:  Options{WholeWords: true, CaseSensitive: true},
			want:  []string{"CAT scan results"},
		},
		{
			name:  "limit",
			query: "cat",
			opts:  Options{Limit: 2},
			want:  []string{"Category theory", "the cat sat"},
		},
		{
			name:  "query is trimmed",
			query: "  sat  ",
			want:  []string{"the cat sat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := engine.Search(tt.query, tt.opts)
			got := make([]string, len(results))
			for i, r := range results {
				got[i] = r.Text
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchEscapesMetacharacters(t *testing.T) {
	engine := NewEngine([]transcript.Episode{
		episode("A", "what costs $5.00 (roughly)?", "costs 5000 dollars"),
	})

	results := engine.Search("$5.00 (roughly)?", Options{})
	require.Len(t, results, 1)
	assert.Equal(t, "what costs <mark>$5.00 (roughly)?</mark>", results[0].HighlightedText)

	results = engine.Search("5.00", Options{WholeWords: true})
	require.Len(t, results, 1)
	assert.Equal(t, "what costs $5.00 (roughly)?", results[0].Text)
}

func TestHighlightRoundTrip(t *testing.T) {
	texts := []string{
		"The Quick brown fox, the QUICK dog",
		"no match here",
		"<b>quick</b> & quick",
		"quickquick",
		"ünïcödé quick ✓",
		"<mark>quick</mark> was already marked",
		"a stray <mark> then quick</mark>",
		"<mark></mark> empty tags",
	}
	for _, text := range texts {
		highlighted := Highlight(text, "quick")
		assert.Equal(t, text, StripHighlight(highlighted, "quick"), "text %q", text)
	}
	assert.Equal(t, "<mark><mark>quick</mark></mark> was already marked", Highlight(texts[5], "quick"))
	assert.Equal(t, "keep <mark>", StripHighlight("keep <mark>", ""))

	assert.Equal(t, "The <mark>Quick</mark> brown fox, the <mark>QUICK</mark> dog", Highlight(texts[0], "quick"))
	assert.Equal(t, "<mark>quick</mark><mark>quick</mark>", Highlight("quickquick", "quick"))
	assert.Equal(t, "unchanged", Highlight("unchanged", "  "))
}

func TestEngineLookups(t *testing.T) {
	engine := NewEngine([]transcript.Episode{episode("A", "first", "second")})

	ep, ok := engine.Episode("A")
	require.True(t, ok)
	assert.Equal(t, "Episode A", ep.Title)

	_, ok = engine.Episode("missing")
	assert.False(t, ok)

	seg, ok := engine.Segment("A", "seg-1")
	require.True(t, ok)
	assert.Equal(t, "second", seg.Text)

	_, ok = engine.Segment("A", "seg-9")
	assert.False(t, ok)
	_, ok = engine.Segment("missing", "seg-0")
	assert.False(t, ok)
}

func TestEngineReplaceIsWholesale(t *testing.T) {
	corpus := []transcript.Episode{episode("A", "old text")}
	engine := NewEngine(corpus)

	corpus[0] = episode("Z", "mutated by the caller")
	_, ok := engine.Episode("A")
	assert.True(t, ok, "engine keeps its own copy of the corpus slice")

	engine.Replace([]transcript.Episode{episode("B", "new text")})
	assert.Equal(t, 1, engine.Len())
	assert.Empty(t, engine.Search("old", Options{}))
	assert.Len(t, engine.Search("new", Options{}), 1)
}

func TestEngineConcurrentReadsDuringReplace(t *testing.T) {
	engine := NewEngine([]transcript.Episode{episode("A", "alpha beta")})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				results := engine.Search("alpha", Options{})
				assert.Len(t, results, 1)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		engine.Replace([]transcript.Episode{episode(fmt.Sprintf("E%d", i), "alpha gamma")})
	}
	wg.Wait()
}
