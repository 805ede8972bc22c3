package transcript

// StructuredDetector recognizes JSON exports
type StructuredDetector struct{}

func (StructuredDetector) Name() string { return "structured" }

// Detect decodes the payload and tries the known envelope shapes in priority order
func (d StructuredDetector) Detect(p Payload) (*Draft, bool) {
	doc, err := DecodeJSON([]byte(p.Text))
	if err != nil {
		return nil, false
	}
	return d.fromDocument(doc)
}

func (d StructuredDetector) fromDocument(doc Value) (*Draft, bool) {
	switch doc.Kind() {
	case KindMap:
		strategies := []func(Value) (*Draft, bool){
			appleEnvelope,
			multiEpisodeEnvelope,
			singleEpisode,
			scanSegmentArrays,
		}
		for _, strategy := range strategies {
			if draft, ok := strategy(doc); ok && len(draft.Segments) > 0 {
				return draft, true
			}
		}
	case KindList:
		items := doc.List()
		if len(items) == 0 {
			return nil, false
		}
		switch first := items[0]; {
		case looksLikeSegment(first):
			draft := &Draft{Segments: normalizeSegments(items, defaultSegFields)}
			return draft, len(draft.Segments) > 0
		case looksLikeEpisode(first):
			return d.fromDocument(first)
		}
	}
	return nil, false
}

// appleEnvelope handles {"episode": {...}, "podcast": {...}} style exports
func appleEnvelope(doc Value) (*Draft, bool) {
	episode, ok := doc.Get("episode")
	if !ok || episode.Kind() != KindMap {
		return nil, false
	}

	draft := draftMetadata(episode, defaultEpisodeFields)
	draft.Segments = segmentList(episode)
	if len(draft.Segments) == 0 {
		draft.Segments = segmentList(doc)
	}
	if draft.PodcastTitle == "" {
		draft.PodcastTitle = envelopePodcastTitle(doc)
	}
	return draft, true
}

// multiEpisodeEnvelope extracts the first entry of {"episodes": [...]}
func multiEpisodeEnvelope(doc Value) (*Draft, bool) {
	episodes, ok := doc.Get("episodes")
	if !ok {
		return nil, false
	}
	items := episodes.List()
	if len(items) == 0 || items[0].Kind() != KindMap {
		return nil, false
	}

	draft, ok := singleEpisode(items[0])
	if !ok {
		return nil, false
	}
	if draft.PodcastTitle == "" {
		draft.PodcastTitle = envelopePodcastTitle(doc)
	}
	return draft, true
}

func singleEpisode(doc Value) (*Draft, bool) {
	if !hasAny(doc, segmentListAliases) {
		return nil, false
	}
	draft := draftMetadata(doc, defaultEpisodeFields)
	draft.Segments = segmentList(doc)
	return draft, true
}

// scanSegmentArrays takes the first top-level array of segment-like records
func scanSegmentArrays(doc Value) (*Draft, bool) {
	for _, key := range doc.Keys() {
		val, _ := doc.Get(key)
		items := val.List()
		if len(items) == 0 || !looksLikeSegment(items[0]) {
			continue
		}
		draft := draftMetadata(doc, defaultEpisodeFields)
		draft.Segments = normalizeSegments(items, defaultSegFields)
		return draft, true
	}
	return nil, false
}

// segmentList normalizes the first transcript-bearing field of a record. A plain string
// transcript is split into lines.
func segmentList(node Value) []Segment {
	for _, key := range segmentListAliases {
		val, ok := node.Get(key)
		if !ok {
			continue
		}
		switch val.Kind() {
		case KindList:
			if items := val.List(); len(items) > 0 {
				return normalizeSegments(items, defaultSegFields)
			}
		case KindString:
			s, _ := val.Str()
			if lines := splitLines(s); len(lines) > 0 {
				return normalizeSegments(lines, defaultSegFields)
			}
		}
	}
	return nil
}

func envelopePodcastTitle(doc Value) string {
	if title, ok := firstText(doc, podcastTitleAliases); ok {
		return title
	}
	for _, key := range []string{"podcast", "show"} {
		if nested, ok := doc.Get(key); ok && nested.Kind() == KindMap {
			if title, ok := firstText(nested, aliases{"title", "name"}); ok {
				return title
			}
		}
	}
	return ""
}

func looksLikeSegment(v Value) bool {
	return v.Kind() == KindMap && (v.Has("text") || v.Has("content"))
}

func looksLikeEpisode(v Value) bool {
	return v.Kind() == KindMap && (hasAny(v, segmentListAliases) || v.Has("episode") || v.Has("episodes"))
}
