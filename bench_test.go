// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/creachadair/jstream"
)

func BenchmarkParser(b *testing.B) {
	input, err := os.ReadFile("testdata/input.json")
	if err != nil {
		b.Fatalf("Reading test input: %v", err)
	}
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Decoder", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			dec := json.NewDecoder(bytes.NewReader(input))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("Parser", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			p := jstream.New()
			if _, err := p.Write(input); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
			for evt, ok := p.Next(); ok; evt, ok = p.Next() {
				_ = evt
			}
			if !p.Done() {
				b.Fatal("Input did not complete")
			}
		}
	})
}
