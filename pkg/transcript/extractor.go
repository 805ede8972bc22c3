package transcript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const (
	// UnknownPodcast is the podcast title given to episodes whose source names none
	UnknownPodcast = "Unknown Podcast"

	untitledEpisode = "Untitled Episode"

	// trailing allowance added to the last segment when a source has no duration
	lastSegmentAllowance = 30.0

	DefaultMaxFileSize int64 = 100 << 20
)

type route int

const (
	routeGeneric route = iota
	routeArchive
	routeStructured
	routeMarkup
	routeSubtitle
	routeDatabase
)

var extensionRoutes = map[string]route{
	".zip":    routeArchive,
	".json":   routeStructured,
	".plist":  routeMarkup,
	".xml":    routeMarkup,
	".vtt":    routeSubtitle,
	".srt":    routeSubtitle,
	".sqlite": routeDatabase,
	".db":     routeDatabase,
}

// routeFor picks a processing path from the file extension
func routeFor(name string) route {
	if r, ok := extensionRoutes[strings.ToLower(path.Ext(name))]; ok {
		return r
	}
	return routeGeneric
}

// Extensions lists the file extensions that are read by a dedicated detector, sorted.
// Files with any other extension go through the generic fallback chain.
func Extensions() []string {
	exts := make([]string, 0, len(extensionRoutes))
	for ext, r := range extensionRoutes {
		if r != routeDatabase {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

func namedTranscript(name string) bool {
	return strings.Contains(strings.ToLower(name), "transcript")
}

// Extractor turns single files into episodes
type Extractor struct {
	structured  Detector
	markup      Detector
	freeText    Detector
	subtitle    Detector
	newID       func() string
	now         func() time.Time
	maxFileSize int64
	logger      *slog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithIDGenerator replaces the episode ID source
func WithIDGenerator(fn func() string) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithClock replaces the time source used for default publish dates
func WithClock(fn func() time.Time) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.now = fn
		}
	}
}

// WithMaxFileSize rejects files and archive entries larger than limit bytes
func WithMaxFileSize(limit int64) Option {
	return func(e *Extractor) {
		if limit > 0 {
			e.maxFileSize = limit
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an extractor with the standard detectors
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		structured:  StructuredDetector{},
		markup:      MarkupDetector{},
		freeText:    FreeTextDetector{},
		subtitle:    SubtitleDetector{},
		newID:       uuid.NewString,
		now:         time.Now,
		maxFileSize: DefaultMaxFileSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessFile extracts the episodes in one file. Problems with the file are reported in the
// result's errors, never returned.
func (e *Extractor) ProcessFile(ctx context.Context, f File) (result FileProcessingResult) {
	result = newResult()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic while processing file", "file", f.Name, "panic", r)
			result = newResult()
			result.addError("Error processing %s: %v", f.Name, r)
		}
	}()

	if f.ContentType == "" && f.Size == 0 {
		result.addError("%s: looks like a folder or an empty file and was skipped", f.Name)
		return result
	}

	rt := routeFor(f.Name)
	if rt == routeDatabase {
		result.addError("%s: SQLite database files are not supported; export the transcripts to JSON first", f.Name)
		return result
	}

	if f.Size > e.maxFileSize {
		result.addError("%s: file is too large (%s, limit %s)", f.Name,
			humanize.IBytes(uint64(f.Size)), humanize.IBytes(uint64(e.maxFileSize)))
		return result
	}

	data, err := readAll(ctx, f)
	if err != nil {
		result.addError("Error processing %s: %v", f.Name, err)
		return result
	}

	if rt == routeArchive {
		return e.ExpandArchive(f.Name, data)
	}

	text, err := decodeText(data)
	if err != nil {
		result.addError("Error processing %s: %v", f.Name, err)
		return result
	}

	p := Payload{Name: f.Name, Text: text}
	var detectors []Detector
	switch rt {
	case routeStructured:
		detectors = []Detector{e.structured}
	case routeMarkup:
		detectors = []Detector{e.markup}
	case routeSubtitle:
		detectors = []Detector{e.subtitle}
	default:
		detectors = []Detector{e.structured, e.markup, e.freeText}
	}

	if ep, ok := e.extract(p, detectors...); ok {
		result.Episodes = append(result.Episodes, ep)
	} else if rt == routeGeneric && namedTranscript(f.Name) {
		result.addError("%s: no transcript content could be detected", f.Name)
	}
	return result
}

// Extract runs the generic detector chain over a decoded payload
func (e *Extractor) Extract(p Payload) (Episode, bool) {
	return e.extract(p, e.structured, e.markup, e.freeText)
}

func (e *Extractor) extract(p Payload, detectors ...Detector) (Episode, bool) {
	draft, d, ok := detectFirst(p, detectors...)
	if !ok {
		e.logger.Debug("no transcript detected", "source", p.Name)
		return Episode{}, false
	}
	ep := e.finalize(draft, p.Name)
	e.logger.Debug("transcript detected",
		"source", p.Name,
		"detector", d.Name(),
		"episode", ep.ID,
		"segments", len(ep.Transcript),
	)
	return ep, true
}

// finalize assigns identity and fills the defaults a detector left open
func (e *Extractor) finalize(d *Draft, source string) Episode {
	ep := Episode{
		ID:           e.newID(),
		Title:        d.Title,
		PodcastTitle: d.PodcastTitle,
		PublishDate:  d.PublishDate,
		Transcript:   d.Segments,
	}
	if ep.Title == "" {
		ep.Title = titleFromFilename(source)
	}
	if ep.PodcastTitle == "" {
		ep.PodcastTitle = UnknownPodcast
	}
	if d.Duration != nil {
		ep.Duration = *d.Duration
	} else {
		ep.Duration = d.Segments[len(d.Segments)-1].Timestamp + lastSegmentAllowance
	}
	if ep.PublishDate == "" {
		ep.PublishDate = e.now().UTC().Format(time.RFC3339)
	}
	if desc := flattenHTML(d.Description); desc != "" {
		ep.Description = &desc
	}
	return ep
}

func titleFromFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	title := strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
	if title == "" || title == "." || title == "/" {
		return untitledEpisode
	}
	return title
}

func readAll(ctx context.Context, f File) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Open == nil {
		return nil, fmt.Errorf("no content available")
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return data, nil
}
