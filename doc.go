// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jstream implements an incremental JSON parser.
//
// A [Parser] accepts JSON text in chunks of any size, down to a single
// character at a time, and emits completed values as soon as they become
// determinable, without waiting for the rest of the document. It is intended
// for input that arrives gradually, for example over a slow or chunked
// transport, and for consumers that want to react to individual values before
// the whole document has arrived.
//
// # Feeding input
//
// Construct a Parser and deliver input with Feed (one character), FeedString
// (a chunk of characters), or Write (a chunk of bytes; Parser implements
// io.Writer). Chunk boundaries never affect the output: feeding a document
// character by character produces exactly the events of feeding it whole,
// even when a boundary falls inside an escape sequence.
//
//	p := jstream.New()
//	if err := p.FeedString(chunk); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// A feed operation fails by reporting an error of concrete type [*ParseError]
// identifying the offending character and its position. A failed parser is
// permanently invalid; the caller starts over with a fresh Parser if it wants
// to retry.
//
// # Draining events
//
// Parsed values queue up as events, drained in FIFO order with Next or by
// ranging over Events. Draining is safe at any time, including mid-document:
//
//	for evt := range p.Events() {
//	   switch e := evt.(type) {
//	   case jstream.Value:      // a complete value at e.Key
//	   case jstream.ValuePiece: // one character of a string at e.Key
//	   }
//	}
//
// A [Value] carries a complete leaf value: a string, an int64, a float64, a
// bool, or nil. A [ValuePiece] carries a single decoded character of a string
// value still in flight; the pieces of a string arrive in order and are
// followed by a Value bearing the whole string.
//
// # Index keys
//
// Every event addresses its value by an index key: the path from the document
// root, segments joined with periods. Array elements contribute their base-10
// index, object members their key, bare when its first character matches
// [0-9a-zA-Z_-] and otherwise as a JSON-quoted string. For example, parsing
//
//	{"a": [1, {"b": 2}]}
//
// emits Value events for 1 at "a.0" and for 2 at "a.1.b".
//
// The subpackage [github.com/creachadair/jstream/collect] reassembles an
// event stream into a flat map of index keys to values.
package jstream
