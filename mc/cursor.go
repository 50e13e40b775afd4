// Package mc implements the front end of the mcc toolchain: a character-level
// parser for scalar type names and C expressions, the AST it builds, and a
// numeric evaluator over that AST.
package mc

import (
	"fmt"
	"os"

	"github.com/anvielabs/mcc/logger"
)

// Cursor is a read position over an immutable source buffer.
//
// Every read is bounds checked before it happens. Operations that fail leave
// the position unchanged, so a failed match can always be retried elsewhere.
type Cursor struct {
	src []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of src.
func NewCursor(src []byte) *Cursor {
	return &Cursor{src: src}
}

// NewCursorString returns a cursor over a copy of s.
func NewCursorString(s string) *Cursor {
	return &Cursor{src: []byte(s)}
}

// LoadFile reads the whole named file and returns a cursor over its contents.
func LoadFile(name string) (*Cursor, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		logger.Error("failed to read complete file", "file", name, "error", err)
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return NewCursor(data), nil
}

// CanRead reports whether n bytes can be read from the current position.
// Positive n reads forward, negative n reads backward. Reading zero bytes
// always succeeds.
func (c *Cursor) CanRead(n int) bool {
	if n == 0 {
		return true
	}
	end := c.pos + n
	return end >= 0 && end <= len(c.src)
}

// Peek returns the byte at the current position without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if !c.CanRead(1) {
		return 0, false
	}
	return c.src[c.pos], true
}

// peekAt returns the byte off bytes ahead of the current position.
func (c *Cursor) peekAt(off int) (byte, bool) {
	if off < 0 || !c.CanRead(off+1) {
		return 0, false
	}
	return c.src[c.pos+off], true
}

// ReadChar consumes one byte iff it equals ch.
func (c *Cursor) ReadChar(ch byte) bool {
	if b, ok := c.Peek(); ok && b == ch {
		c.pos++
		return true
	}
	return false
}

// ReadLiteral consumes lit iff it appears verbatim at the current position.
// The empty literal always matches.
func (c *Cursor) ReadLiteral(lit string) bool {
	if !c.HasPrefix(lit) {
		return false
	}
	c.pos += len(lit)
	return true
}

// HasPrefix reports whether lit appears at the current position.
func (c *Cursor) HasPrefix(lit string) bool {
	if !c.CanRead(len(lit)) {
		return false
	}
	return string(c.src[c.pos:c.pos+len(lit)]) == lit
}

// SkipWhitespace advances past spaces, tabs, CR, LF, backspace and form feed.
func (c *Cursor) SkipWhitespace() {
	for {
		b, ok := c.Peek()
		if !ok || !isSpace(b) {
			return
		}
		c.pos++
	}
}

// Mark returns the current position for a later Reset.
func (c *Cursor) Mark() int {
	return c.pos
}

// Reset moves the cursor back to a position returned by Mark. Out of range
// marks are rejected and logged.
func (c *Cursor) Reset(mark int) {
	if mark < 0 || mark > len(c.src) {
		logger.Error("invalid arguments", "op", "Reset", "mark", mark, "len", len(c.src))
		return
	}
	c.pos = mark
}

// Pos returns the current read position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the length of the source buffer.
func (c *Cursor) Len() int {
	return len(c.src)
}

// AtEnd reports whether every byte has been consumed.
func (c *Cursor) AtEnd() bool {
	return !c.CanRead(1)
}

// Rest returns the unconsumed input.
func (c *Cursor) Rest() string {
	return string(c.src[c.pos:])
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\b', '\f':
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isAlpha(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isIdentChar(b byte) bool {
	return b == '_' || isAlpha(b) || isDigit(b)
}

func hexValue(b byte) (uint64, bool) {
	switch {
	case isDigit(b):
		return uint64(b - '0'), true
	case 'a' <= b && b <= 'f':
		return uint64(b-'a') + 10, true
	case 'A' <= b && b <= 'F':
		return uint64(b-'A') + 10, true
	}
	return 0, false
}
