package transcript

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// Payload is one decoded text document and the name it came from
type Payload struct {
	Name string
	Text string
}

// Draft is what a detector recognized before the extractor assigns identity and defaults
type Draft struct {
	Title        string
	PodcastTitle string
	Duration     *float64
	PublishDate  string
	Description  string
	Segments     []Segment
}

// Detector recognizes one input shape. It reports false when the payload is not its shape
// or yields no segments.
type Detector interface {
	Name() string
	Detect(p Payload) (*Draft, bool)
}

// detectFirst runs detectors in order and returns the first match
func detectFirst(p Payload, detectors ...Detector) (*Draft, Detector, bool) {
	for _, d := range detectors {
		if draft, ok := d.Detect(p); ok && len(draft.Segments) > 0 {
			return draft, d, true
		}
	}
	return nil, nil, false
}

// draftMetadata resolves episode-level fields from a record node
func draftMetadata(node Value, keys episodeFields) *Draft {
	d := &Draft{}
	d.Title, _ = firstText(node, keys.title)
	d.PodcastTitle, _ = firstText(node, keys.podcastTitle)
	if dur, ok := resolve(node, keys.duration, parseSeconds); ok {
		d.Duration = &dur
	}
	d.PublishDate, _ = resolve(node, keys.publishDate, normalizePublishDate)
	d.Description, _ = firstText(node, keys.description)
	return d
}

type episodeFields struct {
	title        aliases
	podcastTitle aliases
	duration     aliases
	publishDate  aliases
	description  aliases
}

var defaultEpisodeFields = episodeFields{
	title:        titleAliases,
	podcastTitle: podcastTitleAliases,
	duration:     durationAliases,
	publishDate:  publishDateAliases,
	description:  descriptionAliases,
}

func (f episodeFields) lower() episodeFields {
	return episodeFields{
		title:        f.title.lower(),
		podcastTitle: f.podcastTitle.lower(),
		duration:     f.duration.lower(),
		publishDate:  f.publishDate.lower(),
		description:  f.description.lower(),
	}
}

// normalizePublishDate renders dates as RFC 3339 in UTC. Numbers are epoch seconds, or
// milliseconds when too large to be seconds. Strings nothing can parse are kept verbatim.
func normalizePublishDate(v Value) (string, bool) {
	switch v.Kind() {
	case KindNumber:
		n, _ := v.Num()
		if n <= 0 {
			return "", false
		}
		if n > 1e11 {
			return time.UnixMilli(int64(n)).UTC().Format(time.RFC3339), true
		}
		return time.Unix(int64(n), 0).UTC().Format(time.RFC3339), true
	case KindString:
		s, _ := v.Str()
		s = strings.TrimSpace(s)
		if s == "" {
			return "", false
		}
		t, err := dateparse.ParseAny(s)
		if err != nil {
			return s, true
		}
		return t.UTC().Format(time.RFC3339), true
	default:
		return "", false
	}
}

// flattenHTML reduces markup in descriptions to its visible text
func flattenHTML(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
