// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"unicode/utf8"

	"github.com/creachadair/jstream/internal/escape"
)

// A state is the parser's position in the JSON grammar.
type state byte

const (
	stateOutside state = iota // between tokens
	stateKey                  // inside a quoted object key
	stateAtomic               // inside a number, boolean, or null literal
	stateString               // inside a quoted string value
	stateInvalid              // terminal: parsing has failed
)

func (s state) String() string {
	switch s {
	case stateOutside:
		return "outside"
	case stateKey:
		return "key"
	case stateAtomic:
		return "atomic-value"
	case stateString:
		return "string-value"
	}
	return "invalid"
}

// A Parser is an incremental JSON parser. Input is delivered as characters in
// chunks of any size via Feed, FeedString, or Write, and completed values are
// read back as a FIFO sequence of events via Next or Events. Values are
// reported as soon as they become determinable; the characters of string
// values are additionally reported one at a time as they decode.
//
// A Parser processes a single logical character stream and is not safe for
// concurrent use without external synchronization. The zero value is ready
// for use.
type Parser struct {
	state   state
	stack   frameStack
	queue   []Event         // emitted events not yet drained
	payload []rune          // raw text of the value being assembled
	dec     *escape.Decoder // in effect while state == stateString
	started bool            // the stack has been non-empty at least once
	err     error           // terminal error, once invalid

	line, col int    // position of the next character, 0-based
	wbuf      []byte // partial UTF-8 sequence carried between Writes
}

// New constructs a new empty Parser.
func New() *Parser { return new(Parser) }

// Feed processes a single character of input. If the character cannot be
// accepted, Feed reports an error of concrete type [*ParseError] and the
// parser becomes permanently invalid: all further input is rejected with the
// same error, and no further events will be produced. Events queued before
// the failure remain drainable.
func (p *Parser) Feed(c rune) error {
	if p.state == stateInvalid {
		return p.err
	}

	// A character that terminates an atomic value belongs to the next token:
	// finish the value, then reprocess the character in the new state.
	for {
		consumed, err := p.step(c)
		if err != nil {
			return err
		} else if consumed {
			break
		}
	}

	if c == '\n' {
		p.line++
		p.col = 0
	} else {
		p.col++
	}
	return nil
}

// FeedString processes each character of s in order, stopping at the first
// failure. It is equivalent to calling Feed for each character.
func (p *Parser) FeedString(s string) error {
	for _, c := range s {
		if err := p.Feed(c); err != nil {
			return err
		}
	}
	return nil
}

// Write processes a chunk of UTF-8 text, implementing [io.Writer]. A partial
// encoding at the end of data is carried over and completed by a subsequent
// Write.
func (p *Parser) Write(data []byte) (int, error) {
	buf := data
	if len(p.wbuf) != 0 {
		buf = append(p.wbuf, data...)
		p.wbuf = nil
	}
	for len(buf) != 0 {
		if !utf8.FullRune(buf) {
			p.wbuf = append([]byte(nil), buf...)
			break
		}
		c, size := utf8.DecodeRune(buf)
		buf = buf[size:]
		if err := p.Feed(c); err != nil {
			return max(0, len(data)-len(buf)), err
		}
	}
	return len(data), nil
}

// Next removes and returns the oldest queued event. It reports false without
// an event if the queue is empty, which is exhaustion, not failure: feeding
// more input may queue further events. Next is safe to call at any time,
// including mid-document.
func (p *Parser) Next() (Event, bool) {
	if len(p.queue) == 0 {
		return nil, false
	}
	evt := p.queue[0]
	p.queue = p.queue[1:]
	return evt, true
}

// Events returns an iterator that drains the queued events in order. Each
// event is consumed from the queue as it is yielded. The iterator is
// restartable: once it stops, feeding more input and ranging again resumes
// with the events queued since.
func (p *Parser) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			evt, ok := p.Next()
			if !ok || !yield(evt) {
				return
			}
		}
	}
}

// Done reports whether the top-level value has fully closed: the nesting
// stack has been non-empty at least once and has returned to empty.
func (p *Parser) Done() bool { return p.started && len(p.stack) == 0 }

// Err returns the terminal error reported by a feed operation, or nil if the
// parser is still valid.
func (p *Parser) Err() error { return p.err }

// step processes c in the current state, reporting whether the character was
// consumed. A character reported unconsumed must be processed again.
func (p *Parser) step(c rune) (bool, error) {
	switch p.state {
	case stateOutside:
		return p.stepOutside(c)
	case stateKey:
		return true, p.stepKey(c)
	case stateAtomic:
		return p.stepAtomic(c)
	case stateString:
		return true, p.stepString(c)
	}
	panic("jstream: step in invalid state")
}

// stepOutside looks for structural punctuation, a key, or the start of a
// value, depending on the top of the nesting stack.
func (p *Parser) stepOutside(c rune) (bool, error) {
	switch c {
	case '{', '[':
		p.pushContainer(c)
		return true, nil
	case '}', ']':
		return true, p.closeContainer(c)
	case ' ', '\n', '\t', '\r':
		return true, nil
	}

	top, _ := p.stack.top()
	switch {
	case c == ',':
		if top.kind == openObject || top.kind == openArray {
			return true, nil
		}
	case c == ':':
		if top.kind == pendingKey && p.inMemberValue() {
			return true, nil
		}
	case c == '"':
		switch {
		case top.kind == openObject:
			p.payload = append(p.payload[:0], c)
			p.state = stateKey
			return true, nil
		case top.kind == openArray:
			p.stack.push(frame{kind: pendingIndex, index: top.index})
			p.beginString()
			return true, nil
		case top.kind == pendingKey && p.inMemberValue():
			p.beginString()
			return true, nil
		}
	case isAtomicChar(c):
		switch {
		case top.kind == openArray:
			p.stack.push(frame{kind: pendingIndex, index: top.index})
			p.payload = append(p.payload[:0], c)
			p.state = stateAtomic
			return true, nil
		case top.kind == pendingKey && p.inMemberValue():
			p.payload = append(p.payload[:0], c)
			p.state = stateAtomic
			return true, nil
		}
	}
	return true, p.failf(c, "unexpected %q", c)
}

// stepKey accumulates the raw text of an object key up to its unescaped
// closing quote, then pushes the decoded key as the pending slot.
func (p *Parser) stepKey(c rune) error {
	p.payload = append(p.payload, c)
	if c != '"' || openEscape(p.payload[:len(p.payload)-1]) {
		return nil
	}
	key, err := Unquote(string(p.payload))
	if err != nil {
		return p.failf(c, "invalid object key: %w", err)
	}
	p.stack.push(frame{kind: pendingKey, key: key})
	p.payload = p.payload[:0]
	p.state = stateOutside
	return nil
}

// stepAtomic accumulates the characters of a number, boolean, or null
// literal. The first non-literal character completes the value and is left
// unconsumed for the caller to reprocess.
func (p *Parser) stepAtomic(c rune) (bool, error) {
	if isAtomicChar(c) {
		p.payload = append(p.payload, c)
		return true, nil
	}
	key := p.stack.indexKey()
	data, err := parseAtom(string(p.payload))
	if err != nil {
		return true, p.failf(c, "%w", err)
	}
	p.queue = append(p.queue, Value{Key: key, Data: data})
	p.stack.popSlot()
	p.payload = p.payload[:0]
	p.state = stateOutside
	return false, nil
}

// stepString delegates one character to the escape decoder and reports every
// character the decoder can now resolve. The raw text is retained alongside,
// and when the closing quote arrives the whole payload is decoded again so
// the final Value carries the canonical decoding of the string.
func (p *Parser) stepString(c rune) error {
	p.dec.Feed(c)
	p.payload = append(p.payload, c)

	key := p.stack.indexKey()
	for {
		ch, res := p.dec.Next()
		switch res {
		case escape.Char:
			p.queue = append(p.queue, ValuePiece{Key: key, Char: ch})

		case escape.More:
			return nil

		case escape.End:
			data, err := Unquote(string(p.payload))
			if err != nil {
				return p.failf(c, "invalid string: %w", err)
			}
			p.queue = append(p.queue, Value{Key: key, Data: data})
			p.stack.popSlot()
			p.payload = p.payload[:0]
			p.dec = nil
			p.state = stateOutside
			return nil
		}
	}
}

// pushContainer opens an object or array. A container opening in array
// element position reserves the index slot for the element it will become.
func (p *Parser) pushContainer(c rune) {
	if top, ok := p.stack.top(); ok && top.kind == openArray {
		p.stack.push(frame{kind: pendingIndex, index: top.index})
	}
	kind := openObject
	if c == '[' {
		kind = openArray
	}
	p.stack.push(frame{kind: kind})
	p.started = true
}

// closeContainer matches a closing bracket against the open container on top
// of the stack and, if the container occupied a key or index slot, releases
// that slot as well.
func (p *Parser) closeContainer(c rune) error {
	want := openObject
	if c == ']' {
		want = openArray
	}
	top, ok := p.stack.top()
	if !ok {
		return p.failf(c, "unbalanced %q", c)
	} else if top.kind != want {
		return p.failf(c, "mismatched %q closing %v", c, top.kind)
	}
	p.stack.pop()
	if top, ok := p.stack.top(); ok && top.isSlot() {
		p.stack.popSlot()
	}
	return nil
}

// beginString starts a string value. The payload retains the raw text
// including both quotes for the final decoding.
func (p *Parser) beginString() {
	p.payload = append(p.payload[:0], '"')
	p.dec = new(escape.Decoder)
	p.state = stateString
}

// inMemberValue reports whether the parser is positioned at an object member
// value: a pending key on top of the stack with its object directly beneath.
func (p *Parser) inMemberValue() bool {
	n := len(p.stack)
	return n >= 2 && p.stack[n-2].kind == openObject
}

func (p *Parser) failf(c rune, msg string, args ...any) error {
	err := fmt.Errorf(msg, args...)
	p.state = stateInvalid
	p.err = &ParseError{
		Location: LineCol{Line: p.line + 1, Column: p.col},
		Char:     c,
		Message:  err.Error(),
		err:      errors.Unwrap(err),
	}
	return p.err
}

// openEscape reports whether payload ends in an unfinished escape, that is,
// an odd number of trailing backslashes.
func openEscape(payload []rune) bool {
	var n int
	for i := len(payload) - 1; i >= 0 && payload[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// isAtomicChar reports whether c can appear in a number, boolean, or null
// literal. The vocabulary is exactly the digits and the letters of "true",
// "false", and "null"; signs, decimal points, and anything else terminate
// the literal.
func isAtomicChar(c rune) bool {
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
		't', 'r', 'u', 'e', 'f', 'a', 'l', 's', 'n':
		return true
	}
	return false
}

// parseAtom decodes the text of an atomic literal.
func parseAtom(text string) (any, error) {
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if b := text[0]; '0' <= b && b <= '9' {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return v, nil
		}
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return v, nil
		}
	}
	return nil, fmt.Errorf("invalid literal %q", text)
}

// A ParseError describes a character the parser could not accept. After a
// ParseError is reported the parser is permanently invalid.
type ParseError struct {
	Location LineCol // the position of the offending character
	Char     rune    // the offending character
	Message  string

	err error
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("at %s: %s", e.Location, e.Message)
}

// Unwrap supports error wrapping.
func (e *ParseError) Unwrap() error { return e.err }
