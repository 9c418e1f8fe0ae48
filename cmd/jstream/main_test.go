// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"testing"

	"github.com/creachadair/jstream"
	"github.com/google/go-cmp/cmp"
)

func TestPrinter(t *testing.T) {
	tests := []struct {
		name   string
		events []jstream.Event
		want   string
	}{
		{"Empty", nil, ""},

		{"Atomics", []jstream.Event{
			jstream.Value{Key: "a", Data: int64(1)},
			jstream.Value{Key: "b", Data: true},
		}, "a = 1\nb = true\n"},

		{"StreamedString", []jstream.Event{
			jstream.ValuePiece{Key: "s", Char: 'h'},
			jstream.ValuePiece{Key: "s", Char: 'i'},
			jstream.Value{Key: "s", Data: "hi"},
		}, "s = hi\n"},

		{"EmptyString", []jstream.Event{
			jstream.Value{Key: "e", Data: ""},
		}, "e = \n"},

		// A value arriving while another key's line is streaming closes
		// that line before starting its own.
		{"InterruptedLine", []jstream.Event{
			jstream.ValuePiece{Key: "s", Char: 'x'},
			jstream.Value{Key: "n", Data: int64(5)},
		}, "s = x\nn = 5\n"},

		{"KeyChange", []jstream.Event{
			jstream.ValuePiece{Key: "a", Char: 'p'},
			jstream.ValuePiece{Key: "b", Char: 'q'},
			jstream.Value{Key: "b", Data: "q"},
		}, "a = p\nb = q\n"},

		// An unterminated line is completed by the final flush.
		{"DanglingLine", []jstream.Event{
			jstream.ValuePiece{Key: "s", Char: 'p'},
			jstream.ValuePiece{Key: "s", Char: 'a'},
		}, "s = pa\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			pr := newPrinter(&buf)
			for _, evt := range test.events {
				pr.print(evt)
			}
			pr.flush()
			if diff := cmp.Diff(test.want, buf.String()); diff != "" {
				t.Errorf("Printer output (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestPrinterChunked(t *testing.T) {
	const input = `{"name":"ok","n":[1,2]}`
	const want = "name = ok\nn.0 = 1\nn.1 = 2\n"

	// Output must not depend on how the input is chunked.
	for _, size := range []int{1, 3, len(input)} {
		var buf bytes.Buffer
		pr := newPrinter(&buf)
		p := jstream.New()
		for data := []byte(input); len(data) > 0; {
			n := min(size, len(data))
			if _, err := p.Write(data[:n]); err != nil {
				t.Fatalf("Write: unexpected error: %v", err)
			}
			data = data[n:]
			for evt := range p.Events() {
				pr.print(evt)
			}
		}
		pr.flush()
		if got := buf.String(); got != want {
			t.Errorf("Chunk size %d: got %#q, want %#q", size, got, want)
		}
	}
}
