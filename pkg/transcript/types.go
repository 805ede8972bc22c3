package transcript

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// Segment is one unit of transcript text with its playback offset in seconds
type Segment struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Timestamp  float64  `json:"timestamp"`
	Speaker    *string  `json:"speaker,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Episode is a normalized podcast episode. Transcript order is playback order.
type Episode struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	PodcastTitle string    `json:"podcastTitle"`
	Duration     float64   `json:"duration"`
	PublishDate  string    `json:"publishDate"`
	Description  *string   `json:"description,omitempty"`
	Transcript   []Segment `json:"transcript"`
}

// Segment returns the segment with the given id
func (e *Episode) Segment(id string) (*Segment, bool) {
	for i := range e.Transcript {
		if e.Transcript[i].ID == id {
			return &e.Transcript[i], true
		}
	}
	return nil, false
}

// Outcome classifies a processing result for callers that report back to a user
type Outcome string

const (
	OutcomeFound  Outcome = "found"
	OutcomeErrors Outcome = "errors"
	OutcomeNone   Outcome = "none"
)

// FileProcessingResult collects everything discovered in one batch, in discovery order
type FileProcessingResult struct {
	Episodes []Episode `json:"episodes"`
	Errors   []string  `json:"errors"`
}

// Outcome reports whether episodes were found, only errors occurred, or neither
func (r *FileProcessingResult) Outcome() Outcome {
	switch {
	case len(r.Episodes) > 0:
		return OutcomeFound
	case len(r.Errors) > 0:
		return OutcomeErrors
	default:
		return OutcomeNone
	}
}

// Message is a one-line summary suitable for showing to whoever submitted the files
func (r *FileProcessingResult) Message() string {
	switch r.Outcome() {
	case OutcomeFound:
		if len(r.Errors) > 0 {
			return fmt.Sprintf("Found %d episode(s); %d file(s) could not be processed", len(r.Episodes), len(r.Errors))
		}
		return fmt.Sprintf("Found %d episode(s)", len(r.Episodes))
	case OutcomeErrors:
		return fmt.Sprintf("No episodes found; %d file(s) could not be processed", len(r.Errors))
	default:
		return "No podcast transcript data was detected in the provided files"
	}
}

func (r *FileProcessingResult) merge(other FileProcessingResult) {
	r.Episodes = append(r.Episodes, other.Episodes...)
	r.Errors = append(r.Errors, other.Errors...)
}

func (r *FileProcessingResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func newResult() FileProcessingResult {
	return FileProcessingResult{
		Episodes: []Episode{},
		Errors:   []string{},
	}
}

// File is one named input payload
type File struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FileFromBytes wraps an in-memory payload
func FileFromBytes(name string, data []byte, contentType string) File {
	return File{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileFromPath describes a file on disk. The content type is guessed from the extension.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}

	f := File{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	if !info.IsDir() {
		f.Size = info.Size()
		f.ContentType = mime.TypeByExtension(filepath.Ext(path))
		if f.ContentType == "" && f.Size > 0 {
			f.ContentType = "application/octet-stream"
		}
	}
	return f, nil
}
