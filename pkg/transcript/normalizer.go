package transcript

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SyntheticSpacing is the gap in seconds given to segments without real timing
const SyntheticSpacing = 5.0

var (
	clockRegex      = regexp.MustCompile(`^(\d+):(\d{1,2})(?::(\d{1,2}))?(?:[.,](\d+))?$`)
	leadingNumRegex = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
)

var defaultSegFields = segmentFields{
	text:       textAliases,
	timestamp:  timestampAliases,
	speaker:    speakerAliases,
	confidence: confidenceAliases,
}

// segmentFields is the alias set used to read one segment record
type segmentFields struct {
	text       aliases
	timestamp  aliases
	speaker    aliases
	confidence aliases
}

// NormalizeSegment turns a string or record node at ordinal position index into a Segment.
// It reports false when the node carries no usable text.
func NormalizeSegment(node Value, index int) (Segment, bool) {
	return normalizeSegment(node, index, defaultSegFields)
}

func normalizeSegment(node Value, index int, fields segmentFields) (Segment, bool) {
	seg := Segment{ID: segmentID(index)}

	switch node.Kind() {
	case KindString:
		s, _ := node.Str()
		seg.Text = strings.TrimSpace(s)
		seg.Timestamp = syntheticTimestamp(index)
	case KindMap:
		seg.Text, _ = firstText(node, fields.text)

		ts, ok := resolve(node, fields.timestamp, parseSeconds)
		if !ok {
			ts = syntheticTimestamp(index)
		}
		seg.Timestamp = ts

		if speaker, ok := firstText(node, fields.speaker); ok {
			seg.Speaker = &speaker
		}
		if confidence, ok := resolve(node, fields.confidence, parseNumber); ok {
			seg.Confidence = &confidence
		}
	default:
		return Segment{}, false
	}

	if seg.Text == "" {
		return Segment{}, false
	}
	return seg, true
}

// normalizeSegments runs the normalizer over a list, keeping input positions as ordinals
func normalizeSegments(nodes []Value, fields segmentFields) []Segment {
	segments := make([]Segment, 0, len(nodes))
	for i, node := range nodes {
		if seg, ok := normalizeSegment(node, i, fields); ok {
			segments = append(segments, seg)
		}
	}
	return segments
}

func segmentID(index int) string {
	return fmt.Sprintf("seg-%d", index)
}

func syntheticTimestamp(index int) float64 {
	return float64(index) * SyntheticSpacing
}

// parseSeconds reads a non-negative offset from a number, a clock string (H:MM:SS.mmm, MM:SS)
// or the leading number of a string
func parseSeconds(v Value) (float64, bool) {
	var secs float64
	switch v.Kind() {
	case KindNumber:
		secs, _ = v.Num()
	case KindString:
		s, _ := v.Str()
		s = strings.TrimSpace(s)
		if parsed, ok := parseClock(s); ok {
			secs = parsed
			break
		}
		m := leadingNumRegex.FindString(s)
		if m == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		secs = parsed
	default:
		return 0, false
	}

	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 {
		return 0, false
	}
	return secs, true
}

func parseClock(s string) (float64, bool) {
	m := clockRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	parts := []string{m[1], m[2]}
	if m[3] != "" {
		parts = append(parts, m[3])
	}

	var secs float64
	for _, p := range parts {
		n, _ := strconv.Atoi(p)
		secs = secs*60 + float64(n)
	}
	if m[4] != "" {
		frac, _ := strconv.ParseFloat("0."+m[4], 64)
		secs += frac
	}
	return secs, true
}

// parseNumber accepts numbers and fully numeric strings
func parseNumber(v Value) (float64, bool) {
	switch v.Kind() {
	case KindNumber:
		return v.Num()
	case KindString:
		s, _ := v.Str()
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
