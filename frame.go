// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"fmt"
	"strconv"
	"strings"
)

// A frameKind distinguishes the kinds of entry on the nesting stack.
type frameKind byte

const (
	openObject   frameKind = 1 + iota // an object whose close brace is pending
	openArray                         // an array whose close bracket is pending
	pendingKey                        // the member key of the value being parsed
	pendingIndex                      // the array index of the value being parsed
)

func (k frameKind) String() string {
	switch k {
	case openObject:
		return "object"
	case openArray:
		return "array"
	case pendingKey:
		return "key"
	case pendingIndex:
		return "index"
	}
	return "invalid"
}

// A frame is one entry of the nesting stack: an open container, or the path
// slot reserved for the value currently being parsed inside that container.
// For an openArray frame, index counts the elements completed so far; it
// becomes the pendingIndex of the next element to start.
type frame struct {
	kind  frameKind
	key   string // the member key, for pendingKey
	index int    // the element index, for pendingIndex
}

func (f frame) isSlot() bool { return f.kind == pendingKey || f.kind == pendingIndex }

// pathSegment renders the frame as one segment of an index key. Container
// frames contribute nothing to the path.
func (f frame) pathSegment() (string, bool) {
	switch f.kind {
	case pendingKey:
		if isBareKey(f.key) {
			return f.key, true
		}
		return Quote(f.key), true
	case pendingIndex:
		return strconv.Itoa(f.index), true
	}
	return "", false
}

// isBareKey reports whether key renders bare in an index key, without JSON
// quoting. Only the first character decides.
func isBareKey(key string) bool {
	for _, r := range key {
		return r == '-' || r == '_' ||
			('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
	}
	return false // empty keys are quoted
}

// A frameStack is the parser's nesting stack. The bottom of the stack is at
// index 0. Read bottom-up, the stack alternates container frames with the
// slot reserved for the value being parsed within each container.
type frameStack []frame

func (s *frameStack) push(f frame) { *s = append(*s, f) }

func (s frameStack) top() (frame, bool) {
	if len(s) == 0 {
		return frame{}, false
	}
	return s[len(s)-1], true
}

// pop removes and returns the top frame. Popping an empty stack is a logic
// error and panics.
func (s *frameStack) pop() frame {
	old := *s
	if len(old) == 0 {
		panic("jstream: pop of empty stack")
	}
	f := old[len(old)-1]
	*s = old[:len(old)-1]
	return f
}

// popSlot removes the reserved key or index slot for a value that just
// completed and, when the slot belongs to an array, credits the element to
// the array's index counter. The top of the stack must be a slot; anything
// else is a logic error, not an input error.
func (s *frameStack) popSlot() {
	f := s.pop()
	if !f.isSlot() {
		panic(fmt.Sprintf("jstream: completed value has %v on the stack, want a key or index", f.kind))
	}
	if f.kind == pendingIndex {
		old := *s
		if len(old) == 0 || old[len(old)-1].kind != openArray {
			panic("jstream: index slot without an enclosing array")
		}
		old[len(old)-1].index++
	}
}

// indexKey computes the canonical dot-joined path from the document root to
// the position currently being parsed.
func (s frameStack) indexKey() string {
	var segs []string
	for _, f := range s {
		if seg, ok := f.pathSegment(); ok {
			segs = append(segs, seg)
		}
	}
	return strings.Join(segs, ".")
}
