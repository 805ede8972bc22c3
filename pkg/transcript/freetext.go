package transcript

import (
	"strings"
	"unicode/utf8"
)

const (
	minTranscriptLen   = 100
	minKeywordHits     = 2
	minFreeTextLineLen = 10
)

var transcriptKeywords = []string{
	"transcript",
	"speaker",
	"timestamp",
	"time",
	"text",
	"dialogue",
	"conversation",
}

// LooksLikeTranscript reports whether free text mentions at least two transcript keywords
// and is longer than 100 characters
func LooksLikeTranscript(text string) bool {
	if utf8.RuneCountInString(text) <= minTranscriptLen {
		return false
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range transcriptKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits >= minKeywordHits
}

// FreeTextDetector is the last-resort heuristic for unstructured text
type FreeTextDetector struct{}

func (FreeTextDetector) Name() string { return "free-text" }

// Detect emits one segment per line longer than 10 characters, spaced 5 seconds apart
func (FreeTextDetector) Detect(p Payload) (*Draft, bool) {
	if !LooksLikeTranscript(p.Text) {
		return nil, false
	}

	var segments []Segment
	for _, line := range strings.Split(p.Text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= minFreeTextLineLen {
			continue
		}
		index := len(segments)
		segments = append(segments, Segment{
			ID:        segmentID(index),
			Text:      line,
			Timestamp: syntheticTimestamp(index),
		})
	}
	if len(segments) == 0 {
		return nil, false
	}

	duration := float64(len(segments)) * SyntheticSpacing
	return &Draft{
		PodcastTitle: UnknownPodcast,
		Duration:     &duration,
		Segments:     segments,
	}, true
}
