package transcript

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioJSON = `{"title":"Ep1","transcript":[{"text":"Hello world","timestamp":0},{"text":"","timestamp":5}]}`

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ep-%d", n)
	}
}

func newTestExtractor(opts ...Option) *Extractor {
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return fixedNow }),
	}
	return NewExtractor(append(base, opts...)...)
}

func TestProcessFileStructuredJSON(t *testing.T) {
	e := newTestExtractor()

	result := e.ProcessFile(context.Background(), FileFromBytes("episode.json", []byte(scenarioJSON), "application/json"))

	assert.Empty(t, result.Errors)
	require.Len(t, result.Episodes, 1)

	ep := result.Episodes[0]
	assert.Equal(t, "ep-1", ep.ID)
	assert.Equal(t, "Ep1", ep.Title)
	assert.Equal(t, UnknownPodcast, ep.PodcastTitle)
	assert.Equal(t, 30.0, ep.Duration, "duration defaults to the last timestamp plus 30 seconds")
	assert.Equal(t, "2024-05-01T12:00:00Z", ep.PublishDate)
	assert.Nil(t, ep.Description)
	require.Len(t, ep.Transcript, 1)
	assert.Equal(t, "Hello world", ep.Transcript[0].Text)
	assert.Equal(t, OutcomeFound, result.Outcome())
}

func TestProcessFileSegmentIDsAreStable(t *testing.T) {
	payload := []byte(`{"transcript":[{"text":"a"},{"text":"b"},{"text":"c"}]}`)

	first := NewExtractor().ProcessFile(context.Background(), FileFromBytes("x.json", payload, "application/json"))
	second := NewExtractor().ProcessFile(context.Background(), FileFromBytes("x.json", payload, "application/json"))

	require.Len(t, first.Episodes, 1)
	require.Len(t, second.Episodes, 1)
	assert.NotEqual(t, first.Episodes[0].ID, second.Episodes[0].ID)
	assert.Equal(t, first.Episodes[0].Transcript, second.Episodes[0].Transcript)

	seen := map[string]bool{}
	for _, seg := range first.Episodes[0].Transcript {
		assert.False(t, seen[seg.ID], "duplicate segment id %s", seg.ID)
		seen[seg.ID] = true
	}
}

func TestProcessFileSQLiteIsUnsupported(t *testing.T) {
	for _, name := range []string{"library.sqlite", "MTLibrary.db"} {
		t.Run(name, func(t *testing.T) {
			result := newTestExtractor().ProcessFile(context.Background(), FileFromBytes(name, []byte("SQLite format 3\x00"), "application/octet-stream"))

			assert.Empty(t, result.Episodes)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], name)
			assert.Contains(t, result.Errors[0], "SQLite")
			assert.Contains(t, result.Errors[0], "not supported")
			assert.Equal(t, OutcomeErrors, result.Outcome())
		})
	}
}

func TestProcessFileDatabaseIsNeverRead(t *testing.T) {
	opened := false
	f := File{
		Name:        "cache.db",
		Size:        4096,
		ContentType: "application/octet-stream",
		Open: func() (io.ReadCloser, error) {
			opened = true
			return io.NopCloser(strings.NewReader("")), nil
		},
	}

	newTestExtractor().ProcessFile(context.Background(), f)
	assert.False(t, opened)
}

func TestProcessFileDirectoryPlaceholder(t *testing.T) {
	result := newTestExtractor().ProcessFile(context.Background(), File{Name: "Transcripts"})

	assert.Empty(t, result.Episodes)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Transcripts")
	assert.Contains(t, result.Errors[0], "folder")
}

func TestProcessFileGenericPath(t *testing.T) {
	freeText := strings.Join([]string{
		"Speaker 1: this is the transcript of our conversation",
		"Speaker 2: and this is what was said in reply",
		"Speaker 1: and the final words of the episode",
	}, "\n")

	tests := []struct {
		name         string
		file         File
		wantEpisodes int
		wantErrors   int
		wantTitle    string
	}{
		{
			name:         "unknown extension with free text",
			file:         FileFromBytes("show notes.txt", []byte(freeText), "text/plain"),
			wantEpisodes: 1,
			wantTitle:    "show notes",
		},
		{
			name:         "unknown extension with structured content",
			file:         FileFromBytes("export.dat", []byte(scenarioJSON), "application/octet-stream"),
			wantEpisodes: 1,
			wantTitle:    "Ep1",
		},
		{
			name:         "unknown extension with markup content",
			file:         FileFromBytes("export", []byte(plistTranscript), "application/octet-stream"),
			wantEpisodes: 1,
			wantTitle:    "Plist Episode",
		},
		{
			name: "unrelated file is silently skipped",
			file: FileFromBytes("cover.png", []byte("\x89PNG binary data"), "image/png"),
		},
		{
			name:       "transcript-named file with nothing inside reports an error",
			file:       FileFromBytes("my-transcript.txt", []byte("nothing to see"), "text/plain"),
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newTestExtractor().ProcessFile(context.Background(), tt.file)

			assert.Len(t, result.Episodes, tt.wantEpisodes)
			assert.Len(t, result.Errors, tt.wantErrors)
			if tt.wantEpisodes > 0 {
				assert.Equal(t, tt.wantTitle, result.Episodes[0].Title)
			}
			if tt.wantEpisodes == 0 && tt.wantErrors == 0 {
				assert.Equal(t, OutcomeNone, result.Outcome())
			}
		})
	}
}

func TestProcessFileExtensionRouting(t *testing.T) {
	// free text under a .json name must not reach the free-text detector
	freeText := strings.Repeat("Speaker: a line of transcript text for the conversation\n", 4)
	result := newTestExtractor().ProcessFile(context.Background(), FileFromBytes("notes.json", []byte(freeText), "application/json"))
	assert.Empty(t, result.Episodes)
	assert.Empty(t, result.Errors)

	// .xml only runs the markup detector
	result = newTestExtractor().ProcessFile(context.Background(), FileFromBytes("notes.xml", []byte(scenarioJSON), "text/xml"))
	assert.Empty(t, result.Episodes)
}

func TestProcessFileDeeplyNestedDocuments(t *testing.T) {
	depth := maxNestingDepth * 5
	files := []File{
		FileFromBytes("deep.json", []byte(strings.Repeat("[", depth)+strings.Repeat("]", depth)), "application/json"),
		FileFromBytes("deep.xml", []byte(strings.Repeat("<a>", depth)+strings.Repeat("</a>", depth)), "text/xml"),
		FileFromBytes("ok.json", []byte(scenarioJSON), "application/json"),
	}

	result := NewProcessor(newTestExtractor(), nil).Process(context.Background(), files)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Episodes, 1)
	assert.Equal(t, "Ep1", result.Episodes[0].Title)
}

func TestRouteFor(t *testing.T) {
	assert.Equal(t, routeArchive, routeFor("Export.ZIP"))
	assert.Equal(t, routeDatabase, routeFor("library.sqlite"))
	assert.Equal(t, routeGeneric, routeFor("notes.txt"))
	assert.Equal(t, routeGeneric, routeFor("transcript"))

	assert.Equal(t, []string{".json", ".plist", ".srt", ".vtt", ".xml", ".zip"}, Extensions())
}

func TestProcessFileSubtitles(t *testing.T) {
	vtt := "WEBVTT\n\n00:00:02.000 --> 00:00:04.000\nhello there\n"
	result := newTestExtractor().ProcessFile(context.Background(), FileFromBytes("Episode 12.vtt", []byte(vtt), "text/vtt"))

	require.Len(t, result.Episodes, 1)
	assert.Equal(t, "Episode 12", result.Episodes[0].Title)
	assert.Equal(t, 4.0, result.Episodes[0].Duration)
}

func TestProcessFileTooLarge(t *testing.T) {
	e := newTestExtractor(WithMaxFileSize(16))
	result := e.ProcessFile(context.Background(), FileFromBytes("big.json", []byte(scenarioJSON), "application/json"))

	assert.Empty(t, result.Episodes)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "big.json")
	assert.Contains(t, result.Errors[0], "too large")
}

func TestProcessFileReadFailure(t *testing.T) {
	f := File{
		Name:        "broken.json",
		Size:        10,
		ContentType: "application/json",
		Open: func() (io.ReadCloser, error) {
			return nil, fmt.Errorf("permission denied")
		},
	}

	result := newTestExtractor().ProcessFile(context.Background(), f)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken.json")
	assert.Contains(t, result.Errors[0], "permission denied")
}

type panickingDetector struct{}

func (panickingDetector) Name() string { return "panics" }

func (panickingDetector) Detect(Payload) (*Draft, bool) { panic("detector blew up") }

func TestProcessFileRecoversPanics(t *testing.T) {
	e := newTestExtractor()
	e.structured = panickingDetector{}

	result := e.ProcessFile(context.Background(), FileFromBytes("boom.json", []byte(scenarioJSON), "application/json"))
	assert.Empty(t, result.Episodes)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "boom.json")
	assert.Contains(t, result.Errors[0], "detector blew up")
}

func TestProcessFileDecodesBOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte(scenarioJSON)...)
	result := newTestExtractor().ProcessFile(context.Background(), FileFromBytes("bom.json", withBOM, "application/json"))
	require.Len(t, result.Episodes, 1)
}

func TestProcessFileDescriptionFlattened(t *testing.T) {
	payload := `{"title":"D","description":"<p>Show <b>notes</b> &amp; links</p>","transcript":["hi there"]}`
	result := newTestExtractor().ProcessFile(context.Background(), FileFromBytes("d.json", []byte(payload), "application/json"))

	require.Len(t, result.Episodes, 1)
	require.NotNil(t, result.Episodes[0].Description)
	assert.Equal(t, "Show notes & links", *result.Episodes[0].Description)
}

func TestFileFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "episode.json")
	require.NoError(t, os.WriteFile(path, []byte(scenarioJSON), 0o644))

	f, err := FileFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "episode.json", f.Name)
	assert.Equal(t, int64(len(scenarioJSON)), f.Size)
	assert.NotEmpty(t, f.ContentType)

	result := newTestExtractor().ProcessFile(context.Background(), f)
	require.Len(t, result.Episodes, 1)

	folder, err := FileFromPath(dir)
	require.NoError(t, err)
	assert.Zero(t, folder.Size)
	assert.Empty(t, folder.ContentType)

	_, err = FileFromPath(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "Episode 1", titleFromFilename("Episode 1.json"))
	assert.Equal(t, "notes", titleFromFilename("exports/2024/notes.txt"))
	assert.Equal(t, "inner", titleFromFilename(`C:\exports\inner.xml`))
	assert.Equal(t, untitledEpisode, titleFromFilename(".json"))
}
