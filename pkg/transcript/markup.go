package transcript

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	xpp "github.com/mmcdole/goxpp"
)

const minFallbackTextLen = 20

var (
	urlRegex           = regexp.MustCompile(`(?i)^(?:[a-z][a-z0-9+.-]*://|www\.)`)
	digitsRegex        = regexp.MustCompile(`^[\d\s.,:/-]+$`)
	capsTokenRegex     = regexp.MustCompile(`^[A-Z0-9_-]+$`)
	dottedIdentRegex   = regexp.MustCompile(`^[\w-]+(?:\.[\w-]+)+$`)
	errNoRootElement   = errors.New("document has no root element")
	markupSegmentField = segmentFields{
		text:       markupTextAliases.lower(),
		timestamp:  timestampAliases.lower(),
		speaker:    speakerAliases.lower(),
		confidence: confidenceAliases.lower(),
	}
)

// MarkupDetector recognizes property-list and other XML exports
type MarkupDetector struct{}

func (MarkupDetector) Name() string { return "markup" }

// Detect reads key/value dictionaries as segment records. Episode metadata comes from the
// first dictionary that is not a segment. When no dictionary carries text, it falls back to
// harvesting long string leaves that read like speech.
func (MarkupDetector) Detect(p Payload) (*Draft, bool) {
	root, err := parseMarkup(p.Text)
	if err != nil {
		return nil, false
	}

	var (
		draft   *Draft
		records []Value
	)
	root.walk(func(n *markupNode) {
		rec, ok := n.record()
		if !ok {
			return
		}
		if hasAny(rec, markupSegmentField.text) {
			records = append(records, rec)
			return
		}
		if draft == nil {
			draft = draftMetadata(rec, defaultEpisodeFields.lower())
		}
	})
	if draft == nil {
		draft = &Draft{}
	}

	draft.Segments = normalizeSegments(records, markupSegmentField)
	if len(draft.Segments) == 0 {
		draft.Segments = spokenLeaves(root)
	}
	return draft, len(draft.Segments) > 0
}

// spokenLeaves collects string leaves that look like transcript sentences
func spokenLeaves(root *markupNode) []Segment {
	var segments []Segment
	root.walk(func(n *markupNode) {
		if len(n.children) > 0 || n.name == "key" {
			return
		}
		text := strings.TrimSpace(n.text.String())
		if utf8.RuneCountInString(text) <= minFallbackTextLen || !looksLikeSpokenText(text) {
			return
		}
		index := len(segments)
		segments = append(segments, Segment{
			ID:        segmentID(index),
			Text:      text,
			Timestamp: syntheticTimestamp(index),
		})
	})
	return segments
}

func looksLikeSpokenText(s string) bool {
	switch {
	case urlRegex.MatchString(s):
		return false
	case digitsRegex.MatchString(s):
		return false
	case capsTokenRegex.MatchString(s):
		return false
	case dottedIdentRegex.MatchString(s):
		return false
	}
	return len(strings.Fields(s)) >= 4
}

type markupNode struct {
	name     string
	text     strings.Builder
	children []*markupNode
}

func (n *markupNode) walk(fn func(*markupNode)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

func (n *markupNode) isLeaf() bool { return len(n.children) == 0 }

// record reads a node as a flat key/value map with lower-cased keys. Property-list dicts
// pair <key> children with the following value element; other elements qualify when every
// child is a leaf. Only leaf values are kept.
func (n *markupNode) record() (Value, bool) {
	if len(n.children) == 0 {
		return Value{}, false
	}

	rec := Value{kind: KindMap, fields: map[string]Value{}}
	if n.name == "dict" {
		for i := 0; i+1 < len(n.children); i++ {
			key, val := n.children[i], n.children[i+1]
			if key.name != "key" {
				continue
			}
			i++
			if val.isLeaf() {
				rec.set(strings.ToLower(strings.TrimSpace(key.text.String())), StringValue(val.text.String()))
			}
		}
		return rec, len(rec.keys) > 0
	}

	for _, c := range n.children {
		if !c.isLeaf() {
			return Value{}, false
		}
		rec.set(c.name, StringValue(c.text.String()))
	}
	return rec, true
}

// parseMarkup builds a node tree with a strict XML pull parser. Element names are lower-cased.
func parseMarkup(text string) (*markupNode, error) {
	p := xpp.NewXMLPullParser(strings.NewReader(text), true, nil)

	var (
		root  *markupNode
		stack []*markupNode
	)
	for {
		event, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse markup: %w", err)
		}

		switch event {
		case xpp.StartTag:
			node := &markupNode{name: strings.ToLower(p.Name)}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("parse markup: multiple root elements")
				}
				root = node
			} else {
				if len(stack) >= maxNestingDepth {
					return nil, fmt.Errorf("parse markup: %w", errTooDeep)
				}
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xpp.EndTag:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xpp.Text:
			if len(stack) > 0 {
				stack[len(stack)-1].text.WriteString(p.Text)
			}
		}
		if event == xpp.EndDocument {
			break
		}
	}

	if root == nil {
		return nil, errNoRootElement
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("parse markup: unclosed element <%s>", stack[len(stack)-1].name)
	}
	return root, nil
}
