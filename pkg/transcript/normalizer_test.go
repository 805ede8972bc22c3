package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSegment(t *testing.T) {
	tests := []struct {
		name        string
		node        Value
		index       int
		wantOK      bool
		wantText    string
		wantTime    float64
		wantSpeaker string
	}{
		{
			name:     "plain string",
			node:     StringValue("  Hello there  "),
			index:    3,
			wantOK:   true,
			wantText: "Hello there",
			wantTime: 15,
		},
		{
			name:     "text and timestamp",
			node:     MapValue("text", "Welcome back", "timestamp", 12.5),
			wantOK:   true,
			wantText: "Welcome back",
			wantTime: 12.5,
		},
		{
			name:        "aliased fields",
			node:        MapValue("content", "From content", "startTime", "42", "author", "Ada"),
			index:       1,
			wantOK:      true,
			wantText:    "From content",
			wantTime:    42,
			wantSpeaker: "Ada",
		},
		{
			name:     "empty text falls through to the next alias",
			node:     MapValue("text", "   ", "body", "Body text"),
			wantOK:   true,
			wantText: "Body text",
		},
		{
			name:     "unparsable timestamp uses ordinal spacing",
			node:     MapValue("message", "Late arrival", "time", "soon"),
			index:    4,
			wantOK:   true,
			wantText: "Late arrival",
			wantTime: 20,
		},
		{
			name:     "clock timestamp",
			node:     MapValue("text", "Clocked", "start", "01:02:03.5"),
			wantOK:   true,
			wantText: "Clocked",
			wantTime: 3723.5,
		},
		{
			name:     "negative timestamp uses ordinal spacing",
			node:     MapValue("text", "Negative", "timestamp", -3),
			index:    2,
			wantOK:   true,
			wantText: "Negative",
			wantTime: 10,
		},
		{
			name:   "whitespace only text is rejected",
			node:   MapValue("text", " \t "),
			wantOK: false,
		},
		{
			name:   "record without text",
			node:   MapValue("timestamp", 3, "speaker", "Bob"),
			wantOK: false,
		},
		{
			name:   "lists are not segments",
			node:   ListValue(StringValue("a")),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg, ok := NormalizeSegment(tt.node, tt.index)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantText, seg.Text)
			assert.Equal(t, tt.wantTime, seg.Timestamp)
			assert.Equal(t, segmentID(tt.index), seg.ID)
			if tt.wantSpeaker == "" {
				assert.Nil(t, seg.Speaker)
			} else {
				require.NotNil(t, seg.Speaker)
				assert.Equal(t, tt.wantSpeaker, *seg.Speaker)
			}
		})
	}
}

func TestNormalizeSegmentConfidence(t *testing.T) {
	seg, ok := NormalizeSegment(MapValue("text", "Sure", "confidence", 0.87), 0)
	require.True(t, ok)
	require.NotNil(t, seg.Confidence)
	assert.Equal(t, 0.87, *seg.Confidence)

	seg, ok = NormalizeSegment(MapValue("text", "Sure"), 0)
	require.True(t, ok)
	assert.Nil(t, seg.Confidence)
}

func TestNormalizeSegmentIsIdempotent(t *testing.T) {
	first, ok := NormalizeSegment(MapValue("content", "Round and round", "time", "7", "name", "Kim"), 2)
	require.True(t, ok)

	again, ok := NormalizeSegment(MapValue(
		"id", first.ID,
		"text", first.Text,
		"timestamp", first.Timestamp,
		"speaker", *first.Speaker,
	), 2)
	require.True(t, ok)

	assert.Equal(t, first, again)
}

func TestNormalizeSegmentsKeepOrdinalIDs(t *testing.T) {
	segments := normalizeSegments([]Value{
		MapValue("text", "one"),
		MapValue("text", ""),
		MapValue("text", "three"),
	}, defaultSegFields)

	require.Len(t, segments, 2)
	assert.Equal(t, "seg-0", segments[0].ID)
	assert.Equal(t, "seg-2", segments[1].ID)
	assert.Equal(t, 10.0, segments[1].Timestamp)
}
