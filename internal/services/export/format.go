package export

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/killallgit/transcript-search/pkg/transcript"
)

// Style selects the rendering of an exported episode
type Style string

const (
	StylePlain    Style = "plain"
	StyleMarkdown Style = "markdown"
)

// ParseStyle accepts "plain", "text", "txt", "markdown" and "md"
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain", "text", "txt":
		return StylePlain, nil
	case "markdown", "md":
		return StyleMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Extension returns the file extension for exported files
func (s Style) Extension() string {
	if s == StyleMarkdown {
		return ".md"
	}
	return ".txt"
}

// ContentType returns the MIME type for exported content
func (s Style) ContentType() string {
	if s == StyleMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Format renders an episode as text
func Format(ep transcript.Episode, style Style, includeTimestamps bool) string {
	var b strings.Builder

	if style == StyleMarkdown {
		fmt.Fprintf(&b, "# %s\n\n", ep.Title)
		fmt.Fprintf(&b, "**Podcast:** %s  \n", ep.PodcastTitle)
		fmt.Fprintf(&b, "**Published:** %s  \n", ep.PublishDate)
		fmt.Fprintf(&b, "**Duration:** %s\n\n", Timestamp(ep.Duration))
		if ep.Description != nil && *ep.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", *ep.Description)
		}
		b.WriteString("## Transcript\n\n")
	} else {
		fmt.Fprintf(&b, "%s\n", ep.Title)
		fmt.Fprintf(&b, "%s\n", ep.PodcastTitle)
		fmt.Fprintf(&b, "Published: %s\n", ep.PublishDate)
		fmt.Fprintf(&b, "Duration: %s\n\n", Timestamp(ep.Duration))
	}

	for _, seg := range ep.Transcript {
		b.WriteString(line(seg, style, includeTimestamps))
		b.WriteString("\n")
		if style == StyleMarkdown {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func line(seg transcript.Segment, style Style, includeTimestamps bool) string {
	var parts []string
	if includeTimestamps {
		parts = append(parts, "["+Timestamp(seg.Timestamp)+"]")
	}
	if seg.Speaker != nil && *seg.Speaker != "" {
		if style == StyleMarkdown {
			parts = append(parts, "**"+*seg.Speaker+":**")
		} else {
			parts = append(parts, *seg.Speaker+":")
		}
	}
	parts = append(parts, seg.Text)
	return strings.Join(parts, " ")
}

// Timestamp renders seconds as MM:SS, or H:MM:SS from an hour up
func Timestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Filename suggests a file name for an exported episode, derived from its title
func Filename(ep transcript.Episode, style Style) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(ep.Title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimRight(b.String(), "-")
	if name == "" {
		name = ep.ID
	}
	if name == "" {
		name = "transcript"
	}
	return name + style.Extension()
}
