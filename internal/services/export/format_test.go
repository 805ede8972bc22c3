package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/transcript-search/pkg/transcript"
)

func sampleEpisode() transcript.Episode {
	host := "Host"
	desc := "Notes about the show"
	return transcript.Episode{
		ID:           "ep-1",
		Title:        "Pilot",
		PodcastTitle: "The Show",
		Duration:     3725,
		PublishDate:  "2024-05-01T12:00:00Z",
		Description:  &desc,
		Transcript: []transcript.Segment{
			{ID: "seg-0", Text: "Welcome in", Timestamp: 0, Speaker: &host},
			{ID: "seg-1", Text: "Let us begin", Timestamp: 65.7},
		},
	}
}

func TestFormatPlain(t *testing.T) {
	got := Format(sampleEpisode(), StylePlain, true)

	want := "Pilot\n" +
		"The Show\n" +
		"Published: 2024-05-01T12:00:00Z\n" +
		"Duration: 1:02:05\n" +
		"\n" +
		"[00:00] Host: Welcome in\n" +
		"[01:05] Let us begin\n"
	assert.Equal(t, want, got)
}

func TestFormatPlainWithoutTimestamps(t *testing.T) {
	got := Format(sampleEpisode(), StylePlain, false)
	assert.Contains(t, got, "\nHost: Welcome in\nLet us begin\n")
	assert.NotContains(t, got, "[00:00]")
}

func TestFormatMarkdown(t *testing.T) {
	got := Format(sampleEpisode(), StyleMarkdown, true)

	want := "# Pilot\n\n" +
		"**Podcast:** The Show  \n" +
		"**Published:** 2024-05-01T12:00:00Z  \n" +
		"**Duration:** 1:02:05\n\n" +
		"Notes about the show\n\n" +
		"## Transcript\n\n" +
		"[00:00] **Host:** Welcome in\n\n" +
		"[01:05] Let us begin\n"
	assert.Equal(t, want, got)
}

func TestTimestamp(t *testing.T) {
	tests := map[float64]string{
		0:      "00:00",
		59.9:   "00:59",
		61:     "01:01",
		3599:   "59:59",
		3600:   "1:00:00",
		36000:  "10:00:00",
		-5:     "00:00",
		7384.2: "2:03:04",
	}
	for in, want := range tests {
		assert.Equal(t, want, Timestamp(in), "seconds %v", in)
	}
}

func TestParseStyle(t *testing.T) {
	for in, want := range map[string]Style{
		"":         StylePlain,
		"plain":    StylePlain,
		"TXT":      StylePlain,
		"markdown": StyleMarkdown,
		" md ":     StyleMarkdown,
	} {
		got, err := ParseStyle(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStyle("pdf")
	assert.Error(t, err)

	assert.Equal(t, ".md", StyleMarkdown.Extension())
	assert.Equal(t, ".txt", StylePlain.Extension())
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		id    string
		style Style
		want  string
	}{
		{"Pilot", "ep-1", StylePlain, "pilot.txt"},
		{"Episode 12: The Return!", "ep-1", StyleMarkdown, "episode-12-the-return.md"},
		{"  ¿Qué pasa?  ", "ep-1", StylePlain, "qué-pasa.txt"},
		{"!!!", "ep-9", StylePlain, "ep-9.txt"},
		{"", "", StyleMarkdown, "transcript.md"},
	}
	for _, tt := range tests {
		got := Filename(transcript.Episode{ID: tt.id, Title: tt.title}, tt.style)
		assert.Equal(t, tt.want, got, tt.title)
	}
}
