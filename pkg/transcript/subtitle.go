package transcript

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// cue timing line, e.g. "00:00:01.000 --> 00:00:05.000" (VTT) or "00:00:01,000 --> 00:00:05,000" (SRT)
	cueTimingRegex = regexp.MustCompile(`((?:\d{1,2}:)?\d{1,2}:\d{2}[.,]\d{3})\s*-->\s*((?:\d{1,2}:)?\d{1,2}:\d{2}[.,]\d{3})`)
	voiceTagRegex  = regexp.MustCompile(`<v(?:\.[^\s>]*)?\s+([^>]+)>`)
	anyTagRegex    = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	cueNumberRegex = regexp.MustCompile(`^\d+$`)
)

// SubtitleDetector parses WebVTT and SRT caption files
type SubtitleDetector struct{}

func (SubtitleDetector) Name() string { return "subtitle" }

// Detect turns each cue into a segment timed at the cue start. A WebVTT voice tag
// (<v Speaker>) becomes the segment speaker.
func (SubtitleDetector) Detect(p Payload) (*Draft, bool) {
	var (
		segments []Segment
		current  *cue
		end      float64
		index    int
	)

	flush := func() {
		if current == nil {
			return
		}
		if seg, ok := current.segment(index); ok {
			segments = append(segments, seg)
		}
		index++
		current = nil
	}

	for _, line := range strings.Split(p.Text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "WEBVTT"), strings.HasPrefix(line, "NOTE"):
			continue
		case cueTimingRegex.MatchString(line):
			flush()
			m := cueTimingRegex.FindStringSubmatch(line)
			start, _ := parseCueTimestamp(m[1])
			end, _ = parseCueTimestamp(m[2])
			current = &cue{start: start}
		case current == nil && cueNumberRegex.MatchString(line):
			continue
		case current != nil:
			current.lines = append(current.lines, line)
		}
	}
	flush()

	if len(segments) == 0 {
		return nil, false
	}
	return &Draft{Duration: &end, Segments: segments}, true
}

type cue struct {
	start float64
	lines []string
}

func (c *cue) segment(index int) (Segment, bool) {
	var speaker string
	texts := make([]string, 0, len(c.lines))
	for _, line := range c.lines {
		if m := voiceTagRegex.FindStringSubmatch(line); m != nil && speaker == "" {
			speaker = strings.TrimSpace(m[1])
		}
		if clean := strings.TrimSpace(anyTagRegex.ReplaceAllString(line, "")); clean != "" {
			texts = append(texts, clean)
		}
	}

	text := strings.Join(texts, " ")
	if text == "" {
		return Segment{}, false
	}
	seg := Segment{ID: segmentID(index), Text: text, Timestamp: c.start}
	if speaker != "" {
		seg.Speaker = &speaker
	}
	return seg, true
}

// parseCueTimestamp parses HH:MM:SS.mmm, MM:SS.mmm and the SRT comma variants into seconds
func parseCueTimestamp(ts string) (float64, bool) {
	ts = strings.Replace(ts, ",", ".", 1)
	parts := strings.Split(ts, ":")

	var secs float64
	for i, part := range parts {
		if i == len(parts)-1 {
			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return 0, false
			}
			secs = secs*60 + f
			break
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, false
		}
		secs = secs*60 + float64(n)
	}
	return secs, true
}
