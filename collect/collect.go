// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package collect assembles jstream parser events into a flat map from index
// keys to values.
package collect

import (
	"slices"
	"strings"

	"github.com/creachadair/jstream"
)

// A Map accumulates the events of a parse into a mapping from index keys to
// leaf values. Strings still in flight are visible as the concatenation of
// the pieces received so far, so a caller can display partial values while
// the rest of the document arrives.
type Map struct {
	final map[string]any
	parts map[string]*strings.Builder
}

// New constructs a new empty Map.
func New() *Map {
	return &Map{
		final: make(map[string]any),
		parts: make(map[string]*strings.Builder),
	}
}

// Add applies one event to the map. A ValuePiece extends the partial string
// at its key; a Value settles the key to its complete value.
func (m *Map) Add(evt jstream.Event) {
	switch e := evt.(type) {
	case jstream.ValuePiece:
		b := m.parts[e.Key]
		if b == nil {
			b = new(strings.Builder)
			m.parts[e.Key] = b
		}
		b.WriteRune(e.Char)
	case jstream.Value:
		m.final[e.Key] = e.Data
		delete(m.parts, e.Key)
	}
}

// Get returns the value at key. A string whose closing quote has not yet
// arrived is returned as the characters decoded so far. The second result
// reports whether anything has been received at key.
func (m *Map) Get(key string) (any, bool) {
	if v, ok := m.final[key]; ok {
		return v, true
	}
	if b, ok := m.parts[key]; ok {
		return b.String(), true
	}
	return nil, false
}

// Complete reports whether the value at key is settled, that is, a Value
// event has been received for it.
func (m *Map) Complete(key string) bool { _, ok := m.final[key]; return ok }

// Len reports the number of keys with received values, complete or partial.
func (m *Map) Len() int { return len(m.final) + len(m.parts) }

// Keys returns the keys with received values in lexicographic order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	for key := range m.final {
		keys = append(keys, key)
	}
	for key := range m.parts {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Values returns a copy of the settled key-to-value mapping. Partial strings
// are not included.
func (m *Map) Values() map[string]any {
	out := make(map[string]any, len(m.final))
	for key, val := range m.final {
		out[key] = val
	}
	return out
}
