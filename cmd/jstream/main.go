// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Program jstream incrementally parses a JSON document and prints each value
// as it resolves, one "key = value" line per value, with string values
// appearing character by character as they decode.
//
// The input is delivered to the parser in fixed-size chunks, optionally rate
// limited to make the incremental behaviour visible on fast input.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/creachadair/jstream"
	"golang.org/x/time/rate"
)

var (
	chunkSize = flag.Int("chunk", 4, "Chunk size in bytes (0 feeds the whole input at once)")
	chunkRate = flag.Float64("rate", 0, "Maximum chunks delivered per second (0 for no limit)")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("jstream: ")
	flag.Parse()

	input, name := os.Stdin, "stdin"
	if flag.NArg() > 0 && flag.Arg(0) != "-" {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("Open input: %v", err)
		}
		defer f.Close()
		input, name = f, flag.Arg(0)
	}

	data, err := io.ReadAll(input)
	if err != nil {
		log.Fatalf("Read %s: %v", name, err)
	}

	limit := rate.NewLimiter(rate.Inf, 1)
	if *chunkRate > 0 {
		limit = rate.NewLimiter(rate.Limit(*chunkRate), 1)
	}
	size := *chunkSize
	if size <= 0 {
		size = len(data)
	}

	ctx := context.Background()
	pr := newPrinter(os.Stdout)
	p := jstream.New()
	for len(data) > 0 {
		if err := limit.Wait(ctx); err != nil {
			log.Fatalf("Rate limit: %v", err)
		}
		n := min(size, len(data))
		if _, err := p.Write(data[:n]); err != nil {
			pr.flush()
			log.Fatalf("Parse %s: %v", name, err)
		}
		data = data[n:]

		for evt := range p.Events() {
			pr.print(evt)
		}
	}
	pr.flush()
	if !p.Done() {
		log.Fatalf("Parse %s: input ended with an incomplete document", name)
	}
}

// A printer renders events as "key = value" lines. The characters of a
// string value stream onto its line as they arrive, so the line is not
// terminated until the string's final value resolves.
type printer struct {
	w    io.Writer
	open string // key of the line being streamed, "" if none
}

func newPrinter(w io.Writer) *printer { return &printer{w: w} }

func (p *printer) print(evt jstream.Event) {
	switch e := evt.(type) {
	case jstream.ValuePiece:
		if p.open != e.Key {
			p.flush()
			fmt.Fprintf(p.w, "%s = ", e.Key)
			p.open = e.Key
		}
		fmt.Fprintf(p.w, "%c", e.Char)

	case jstream.Value:
		if p.open == e.Key {
			// The line already holds the string's characters.
			fmt.Fprintln(p.w)
			p.open = ""
			return
		}
		p.flush()
		fmt.Fprintf(p.w, "%s = %v\n", e.Key, e.Data)
	}
}

// flush terminates a partially-printed string line, if one is open.
func (p *printer) flush() {
	if p.open != "" {
		fmt.Fprintln(p.w)
		p.open = ""
	}
}
