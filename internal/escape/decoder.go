// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings, including
// incremental decoding of string contents delivered one character at a time.
package escape

import (
	"unicode/utf16"
	"unicode/utf8"
)

// A Result reports the outcome of a call to [Decoder.Next].
type Result int

const (
	More Result = iota // not enough input buffered to decode a character
	Char               // one character was decoded
	End                // the (unconsumed) closing quote was reached
)

// A Decoder incrementally decodes the contents of a JSON string, the
// characters strictly between its quotation marks. Characters are delivered
// one at a time via Feed, and decoded characters are read back via Next.
// A zero Decoder is ready for use.
//
// The decoder accepts the escape sequences \n \t \r \\ \", along with the
// numeric forms \xHH, \uHHHH, and \UHHHHHHHH denoting code points. A \uHHHH
// escape encoding a high surrogate combines with an immediately-following low
// surrogate escape into a single character; unpaired surrogates and code
// points outside the Unicode range decode as U+FFFD. Any other \c sequence
// decodes as the literal character c. This vocabulary is intentionally more
// permissive than RFC 8259 and must not be changed without care: callers
// depend on the exact acceptance behavior.
type Decoder struct {
	pending []rune
}

// Feed appends one raw character to the decoder's pending buffer.
// Feed performs no validation and always succeeds.
func (d *Decoder) Feed(c rune) { d.pending = append(d.pending, c) }

// Next attempts to decode one character from the pending buffer.
//
// If the buffer begins with an unescaped quotation mark, Next reports End and
// leaves the quote in place; closing semantics belong to the caller. If the
// buffered input cannot yet be resolved, for example because the tail of a
// multi-character escape has not arrived, Next reports More without consuming
// anything. Otherwise Next consumes one character or escape sequence and
// returns its decoded value with Char.
//
// Next never fails: a malformed numeric escape (such as \xZZ) simply stalls
// as More no matter how much further input arrives.
func (d *Decoder) Next() (rune, Result) {
	if len(d.pending) == 0 {
		return 0, More
	}
	c := d.pending[0]
	if c == '"' {
		return 0, End
	}
	if c != '\\' {
		d.shift(1)
		return c, Char
	}
	if len(d.pending) < 2 {
		return 0, More
	}
	switch e := d.pending[1]; e {
	case 'n':
		d.shift(2)
		return '\n', Char
	case 't':
		d.shift(2)
		return '\t', Char
	case 'r':
		d.shift(2)
		return '\r', Char
	case '\\', '"':
		d.shift(2)
		return e, Char
	case 'x':
		return d.codeEscape(2)
	case 'u':
		return d.unicodeEscape()
	case 'U':
		return d.codeEscape(8)
	default:
		// Unrecognized escapes pass the escaped character through.
		d.shift(2)
		return e, Char
	}
}

// Pending reports the number of raw characters buffered but not yet decoded.
func (d *Decoder) Pending() int { return len(d.pending) }

func (d *Decoder) shift(n int) { d.pending = d.pending[n:] }

// codeEscape decodes a \x or \U escape comprising nd hex digits after the
// two-character introducer.
func (d *Decoder) codeEscape(nd int) (rune, Result) {
	if len(d.pending) < 2+nd {
		return 0, More
	}
	v, ok := parseHex(d.pending[2 : 2+nd])
	if !ok {
		return 0, More // stall on invalid digits
	}
	d.shift(2 + nd)
	return sanitize(rune(v))
}

// unicodeEscape decodes a \uHHHH escape. A high surrogate waits for enough
// input to decide whether a low surrogate escape follows immediately, so that
// a pair split across delivery boundaries still combines correctly.
func (d *Decoder) unicodeEscape() (rune, Result) {
	if len(d.pending) < 6 {
		return 0, More
	}
	v, ok := parseHex(d.pending[2:6])
	if !ok {
		return 0, More // stall on invalid digits
	}
	r := rune(v)
	if !utf16.IsSurrogate(r) {
		d.shift(6)
		return sanitize(r)
	}
	if r >= 0xDC00 {
		// An unpaired low surrogate.
		d.shift(6)
		return utf8.RuneError, Char
	}

	// A high surrogate: check for a following \uHHHH low surrogate.
	if len(d.pending) < 7 {
		return 0, More
	} else if d.pending[6] != '\\' {
		d.shift(6)
		return utf8.RuneError, Char
	}
	if len(d.pending) < 8 {
		return 0, More
	} else if d.pending[7] != 'u' {
		d.shift(6)
		return utf8.RuneError, Char
	}
	if len(d.pending) < 12 {
		return 0, More
	}
	v2, ok := parseHex(d.pending[8:12])
	if !ok {
		// The next escape is malformed; it will stall on its own.
		d.shift(6)
		return utf8.RuneError, Char
	}
	if c := utf16.DecodeRune(r, rune(v2)); c != utf8.RuneError {
		d.shift(12)
		return c, Char
	}
	d.shift(6)
	return utf8.RuneError, Char
}

// sanitize maps invalid code points to the replacement rune.
func sanitize(r rune) (rune, Result) {
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return r, Char
}

// parseHex decodes digits as a hexadecimal value, reporting whether all the
// digits were valid.
func parseHex(digits []rune) (int64, bool) {
	var v int64
	for _, b := range digits {
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, false
		}
	}
	return v, true
}
