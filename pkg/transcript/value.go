package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind is the shape of a decoded document node
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is a loosely-typed document node. Map keys keep their document order.
type Value struct {
	kind   Kind
	str    string
	num    float64
	flag   bool
	list   []Value
	keys   []string
	fields map[string]Value
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }
func BoolValue(b bool) Value { return Value{kind: KindBool, flag: b} }
func ListValue(items ...Value) Value { return Value{kind: KindList, list: items} }

// MapValue builds a map from alternating key, value pairs
func MapValue(pairs ...any) Value {
	v := Value{kind: KindMap, fields: make(map[string]Value, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		switch val := pairs[i+1].(type) {
		case Value:
			v.set(key, val)
		case string:
			v.set(key, StringValue(val))
		case float64:
			v.set(key, NumberValue(val))
		case int:
			v.set(key, NumberValue(float64(val)))
		case bool:
			v.set(key, BoolValue(val))
		}
	}
	return v
}

func (v *Value) set(key string, val Value) {
	if _, exists := v.fields[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = val
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Keys returns map keys in document order
func (v Value) Keys() []string { return v.keys }

// Get returns the value stored under key of a map node
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	val, ok := v.fields[key]
	return val, ok
}

func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// List returns the items of a list node
func (v Value) List() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Str returns the string payload of a string node
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Num returns the numeric payload of a number node
func (v Value) Num() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text renders scalar nodes as text. Lists, maps and nulls have no text.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.flag), true
	default:
		return "", false
	}
}

// maxNestingDepth bounds JSON and markup nesting so deep documents cannot exhaust the stack
const maxNestingDepth = 10000

var (
	errTrailingData = errors.New("unexpected data after document")
	errTooDeep      = fmt.Errorf("document nests deeper than %d levels", maxNestingDepth)
)

// DecodeJSON parses a JSON document into a Value, preserving object key order
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errTrailingData
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{', '[':
			if depth >= maxNestingDepth {
				return Value{}, errTooDeep
			}
			if t == '{' {
				return decodeObject(dec, depth+1)
			}
			return decodeArray(dec, depth+1)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return StringValue(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t, err)
		}
		return NumberValue(n), nil
	case bool:
		return BoolValue(t), nil
	case nil:
		return Value{}, nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	obj := Value{kind: KindMap, fields: map[string]Value{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key must be a string, got %v", tok)
		}
		val, err := decodeValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		obj.set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder, depth int) (Value, error) {
	arr := Value{kind: KindList, list: []Value{}}
	for dec.More() {
		val, err := decodeValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		arr.list = append(arr.list, val)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return arr, nil
}

// splitLines turns a block of text into trimmed, non-blank string nodes
func splitLines(s string) []Value {
	var out []Value
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, StringValue(line))
		}
	}
	return out
}
