// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/jstream/internal/escape"
	"github.com/google/go-cmp/cmp"

	"go4.org/mem"
)

// decodeAll feeds each character of input to a decoder, collecting every
// character that resolves along the way, and reports whether the closing
// quote was reached.
func decodeAll(input string) (chars []rune, ended bool) {
	var d escape.Decoder
	for _, c := range input {
		d.Feed(c)
		for {
			ch, res := d.Next()
			if res == escape.Char {
				chars = append(chars, ch)
				continue
			}
			ended = res == escape.End
			break
		}
	}
	return
}

func TestDecoder(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{``, ``},
		{`abc`, "abc"},
		{`a b`, "a b"},

		// Single-character escapes.
		{`a\nb`, "a\nb"},
		{`\t\r\n`, "\t\r\n"},
		{`\\`, `\`},
		{`\"`, `"`},

		// Unrecognized escapes pass the character through.
		{`\q`, "q"},
		{`\b\f\/`, "bf/"},

		// Hex and Unicode escapes.
		{`\x41\x6a`, "Aj"},
		{`\xe9`, "é"},
		{` `, " "},
		{`泡泡浴`, "泡泡浴"},
		{`\U0001F600`, "😀"},
		{`\U0000006A`, "j"},

		// Surrogate pairs combine; unpaired surrogates are replaced.
		{`😀`, "😀"},
		{`😭X`, "😭X"},
		{`\ud83dZ`, "�Z"},
		{`\ud83d\n`, "�\n"},
		{`\ud83dA`, "�A"},
		{`\ude00A`, "�A"},

		// Out-of-range code points are replaced.
		{`\UFFFFFFFF`, "�"},
		{`\U0000D800`, "�"},

		// Multibyte literals pass through unchanged.
		{`漢字!`, "漢字!"},
	}
	for _, test := range tests {
		got, ended := decodeAll(test.input)
		if ended {
			t.Errorf("Input %#q: decoder reported end of string", test.input)
		}
		if diff := cmp.Diff(test.want, string(got)); diff != "" {
			t.Errorf("Input %#q: decoded (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestDecoderEnd(t *testing.T) {
	chars, ended := decodeAll(`ab"cd`)
	if !ended {
		t.Error("decoder did not report end of string")
	}
	if got := string(chars); got != "ab" {
		t.Errorf("Decoded %q, want %q", got, "ab")
	}

	// The quote is left unconsumed: the decoder keeps reporting End.
	var d escape.Decoder
	d.Feed('"')
	for i := 0; i < 3; i++ {
		if _, res := d.Next(); res != escape.End {
			t.Errorf("Next: got %v, want End", res)
		}
	}
	if d.Pending() != 1 {
		t.Errorf("Pending: got %d, want 1", d.Pending())
	}
}

// A malformed numeric escape never resolves, no matter how much further
// input arrives.
func TestDecoderStall(t *testing.T) {
	for _, input := range []string{`\xZZ`, `\uQQQQ`, `\u12`, `\x4`} {
		var d escape.Decoder
		for _, c := range input {
			d.Feed(c)
			if ch, res := d.Next(); res != escape.More {
				t.Errorf("Input %#q: got %q, %v, want More", input, ch, res)
			}
		}
		for _, c := range "morestuff" {
			d.Feed(c)
			if _, res := d.Next(); res != escape.More {
				t.Errorf("Input %#q: decoder resolved after %q", input, c)
			}
		}
	}
}

// An escape split across deliveries resolves only once its tail arrives.
func TestDecoderBoundary(t *testing.T) {
	var d escape.Decoder
	for _, c := range `\u6ce` {
		d.Feed(c)
		if _, res := d.Next(); res != escape.More {
			t.Fatalf("premature resolution at %q", c)
		}
	}
	d.Feed('1')
	ch, res := d.Next()
	if res != escape.Char || ch != '泡' {
		t.Errorf("Next: got %q, %v, want %q, Char", ch, res, '泡')
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{``, ""},
		{`plain text`, "plain text"},
		{`a\tb\nc`, "a\tb\nc"},
		{`泡泡浴`, "泡泡浴"},
		{`😀`, "😀"},
		{`\ud83d`, "�"}, // a trailing high surrogate settles unpaired
		{`\x41`, "A"},
		{`\q`, "q"},
		{`snow☃man`, "snow☃man"},
	}
	for _, test := range tests {
		got, err := escape.Unquote(mem.S(test.input))
		if err != nil {
			t.Errorf("Unquote %#q: unexpected error: %v", test.input, err)
			continue
		}
		if string(got) != test.want {
			t.Errorf("Unquote %#q: got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestUnquoteErrors(t *testing.T) {
	for _, input := range []string{`\`, `\xZZ`, `\u123`, `a"b`, `ok\uQQQQ`} {
		if got, err := escape.Unquote(mem.S(input)); err == nil {
			t.Errorf("Unquote %#q: got %q, want error", input, got)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"abc", "abc"},
		{"a\nb", `a\nb`},
		{"a\tb\rc", `a\tb\rc`},
		{`say "what"`, `say \"what\"`},
		{`back\slash`, `back\\slash`},
		{"\x01", `\u0001`},
		{"泡泡浴", "泡泡浴"},
		{"  ", `\u2028\u2029`},
		{"a\uFFFDb", `a\ufffdb`},
	}
	for _, test := range tests {
		if got := escape.Quote(mem.S(test.input)); string(got) != test.want {
			t.Errorf("Quote %#q: got %#q, want %#q", test.input, got, test.want)
		}
	}
}
