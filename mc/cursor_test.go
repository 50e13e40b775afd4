package mc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func TestCursorCanRead(t *testing.T) {
	c := NewCursorString("abcd")
	be.True(t, c.CanRead(0))
	be.True(t, c.CanRead(4))
	be.True(t, !c.CanRead(5))
	be.True(t, !c.CanRead(-1))

	c.Reset(2)
	be.True(t, c.CanRead(-2))
	be.True(t, !c.CanRead(-3))
	be.True(t, c.CanRead(2))
	be.True(t, !c.CanRead(3))
}

func TestCursorPeek(t *testing.T) {
	c := NewCursorString("x")
	b, ok := c.Peek()
	be.True(t, ok)
	be.Equal(t, b, byte('x'))
	be.Equal(t, c.Pos(), 0)

	c.Reset(1)
	_, ok = c.Peek()
	be.True(t, !ok)
	be.True(t, c.AtEnd())
}

func TestCursorReadChar(t *testing.T) {
	c := NewCursorString("ab")
	be.True(t, !c.ReadChar('b'))
	be.Equal(t, c.Pos(), 0)
	be.True(t, c.ReadChar('a'))
	be.True(t, c.ReadChar('b'))
	be.True(t, !c.ReadChar('b'))
	be.Equal(t, c.Pos(), 2)
}

func TestCursorReadLiteral(t *testing.T) {
	c := NewCursorString(">>= 1")
	be.True(t, c.ReadLiteral(""))
	be.Equal(t, c.Pos(), 0)
	be.True(t, !c.ReadLiteral(">>=>"))
	be.Equal(t, c.Pos(), 0)
	be.True(t, !c.ReadLiteral("<<="))
	be.True(t, c.ReadLiteral(">>="))
	be.Equal(t, c.Pos(), 3)
	be.Equal(t, c.Rest(), " 1")
}

func TestCursorSkipWhitespace(t *testing.T) {
	c := NewCursorString(" \t\r\n\b\fx ")
	c.SkipWhitespace()
	be.Equal(t, c.Pos(), 6)
	be.True(t, c.ReadChar('x'))
	c.SkipWhitespace()
	be.True(t, c.AtEnd())
	c.SkipWhitespace()
	be.Equal(t, c.Pos(), c.Len())
}

func TestCursorResetOutOfRange(t *testing.T) {
	c := NewCursorString("abc")
	c.Reset(2)
	c.Reset(10)
	be.Equal(t, c.Pos(), 2)
	c.Reset(-1)
	be.Equal(t, c.Pos(), 2)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expr.mc")
	be.Err(t, os.WriteFile(path, []byte("1 + 2"), 0644), nil)

	c, err := LoadFile(path)
	be.Err(t, err, nil)
	be.Equal(t, c.Len(), 5)
	be.Equal(t, c.Rest(), "1 + 2")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.mc"))
	be.Err(t, err, os.ErrNotExist)
}
