// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"errors"
	"strings"

	"github.com/creachadair/jstream/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	esc := escape.Quote(mem.S(src))
	buf := make([]byte, 0, len(esc)+2)
	buf = append(buf, '"')
	buf = append(buf, esc...)
	buf = append(buf, '"')
	return string(buf)
}

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Unquote accepts the same escape vocabulary as the parser's incremental
// string decoder, which admits \xHH and \UHHHHHHHH code point escapes and
// passes unrecognized \c sequences through as the literal character c.
// Unquote reports an error for an unresolvable escape sequence.
func Unquote(src string) (string, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return "", errors.New("missing quotations")
	}
	dec, err := escape.Unquote(mem.S(src[1 : len(src)-1]))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
