package transcript

import (
	"strings"
)

// aliases lists the field names a logical field is known by, in priority order
type aliases []string

var (
	textAliases       = aliases{"text", "content", "transcript", "body", "message"}
	timestampAliases  = aliases{"timestamp", "time", "start", "startTime"}
	speakerAliases    = aliases{"speaker", "name", "author"}
	confidenceAliases = aliases{"confidence"}

	titleAliases        = aliases{"title", "name", "episodeTitle", "trackName"}
	podcastTitleAliases = aliases{"podcastTitle", "showTitle", "podcast", "collectionName"}
	durationAliases     = aliases{"duration", "length", "totalDuration"}
	publishDateAliases  = aliases{"publishDate", "pubDate", "releaseDate", "date"}
	descriptionAliases  = aliases{"description", "summary", "notes"}

	segmentListAliases = aliases{"transcript", "segments", "lines"}

	// markup dictionaries only count as segments when they carry one of these
	markupTextAliases = aliases{"text", "content", "transcript"}
)

func (a aliases) lower() aliases {
	out := make(aliases, len(a))
	for i, key := range a {
		out[i] = strings.ToLower(key)
	}
	return out
}

// resolve returns the first alias whose value parses, in alias order
func resolve[T any](node Value, keys aliases, parse func(Value) (T, bool)) (T, bool) {
	for _, key := range keys {
		val, ok := node.Get(key)
		if !ok {
			continue
		}
		if out, ok := parse(val); ok {
			return out, true
		}
	}
	var zero T
	return zero, false
}

// nonEmptyText accepts scalar nodes whose trimmed text is not empty
func nonEmptyText(v Value) (string, bool) {
	s, ok := v.Text()
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func firstText(node Value, keys aliases) (string, bool) {
	return resolve(node, keys, nonEmptyText)
}

// hasAny reports whether a map node carries any of the keys
func hasAny(node Value, keys aliases) bool {
	for _, key := range keys {
		if node.Has(key) {
			return true
		}
	}
	return false
}
