// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"errors"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Unquote is built on the same [Decoder] used for incremental decoding, so a
// string decoded all at once yields exactly the characters an incremental
// decode of the same input would deliver. Unquote reports an error for an
// unresolvable escape sequence, and for an unescaped interior quotation mark.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())

	// drain consumes decoded characters until the decoder needs more input
	// (false) or reaches a closing quote (true).
	var d Decoder
	drain := func() bool {
		for {
			c, res := d.Next()
			switch res {
			case Char:
				dec = utf8.AppendRune(dec, c)
			case End:
				return true
			case More:
				return false
			}
		}
	}

	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}
		src = src.SliceFrom(n)
		d.Feed(r)
		if drain() {
			return nil, errors.New("unescaped quote in string")
		}
	}

	// Feed the closing quote so that escapes whose resolution depends on what
	// follows them, such as a trailing high surrogate, settle the same way
	// they would in an incremental decode.
	d.Feed('"')
	if !drain() {
		return nil, errors.New("incomplete escape sequence")
	}
	return dec, nil
}
