// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

// An Event is a unit of parser output, either a [Value] or a [ValuePiece].
// Events are emitted in the order the corresponding input resolves, and are
// never reordered or coalesced.
type Event interface {
	// IndexKey returns the index key (dot-joined path) of the value the event
	// belongs to.
	IndexKey() string

	isEvent()
}

// A Value reports a fully-resolved leaf value of the document.
type Value struct {
	Key  string // the index key of the value
	Data any    // string, int64, float64, bool, or nil
}

// IndexKey satisfies the [Event] interface.
func (v Value) IndexKey() string { return v.Key }

func (Value) isEvent() {}

// A ValuePiece reports one decoded character of a string value that is still
// being assembled. The pieces sharing a key, concatenated in emission order,
// spell the complete string that is later reported as a [Value] at that key.
type ValuePiece struct {
	Key  string // the index key of the enclosing string value
	Char rune   // the decoded character
}

// IndexKey satisfies the [Event] interface.
func (p ValuePiece) IndexKey() string { return p.Key }

func (ValuePiece) isEvent() {}
