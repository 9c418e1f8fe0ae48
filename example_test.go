// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"fmt"
	"log"

	"github.com/creachadair/jstream"
)

func ExampleParser() {
	const input = `{"name":"x","age":24,"pref":["a","b"]}`

	p := jstream.New()
	for i := 0; i < len(input); i += 4 { // deliver the document in 4-byte chunks
		end := min(i+4, len(input))
		if _, err := p.Write([]byte(input[i:end])); err != nil {
			log.Fatalf("Parse failed: %v", err)
		}
		for evt := range p.Events() {
			if v, ok := evt.(jstream.Value); ok {
				fmt.Printf("%s = %v\n", v.Key, v.Data)
			}
		}
	}
	fmt.Println("done:", p.Done())
	// Output:
	// name = x
	// age = 24
	// pref.0 = a
	// pref.1 = b
	// done: true
}

func ExampleParser_Next() {
	p := jstream.New()
	if err := p.FeedString(`["strea`); err != nil {
		log.Fatal(err)
	}

	// Pieces of the string are available even though neither the string nor
	// the document is complete.
	for {
		evt, ok := p.Next()
		if !ok {
			break
		}
		fmt.Printf("%c", evt.(jstream.ValuePiece).Char)
	}
	fmt.Println()
	// Output:
	// strea
}
