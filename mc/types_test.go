package mc

import (
	"bytes"
	"testing"

	"github.com/nalgeon/be"

	"github.com/anvielabs/mcc/logger"
)

func TestNewTypeSpec(t *testing.T) {
	ts, err := NewTypeSpec(TypeInteger, ModNone, true, 32)
	be.Err(t, err, nil)
	be.Equal(t, ts.Kind, TypeInteger)
	be.True(t, ts.Unsigned)
	be.Equal(t, ts.Bits, uint64(32))
	be.Equal(t, ts.ArraySize, uint64(1))
	be.Equal(t, ts.String(), "u32")
}

func TestNewTypeSpecFloatIgnoresSignedness(t *testing.T) {
	ts, err := NewTypeSpec(TypeFloat, ModNone, true, 64)
	be.Err(t, err, nil)
	be.True(t, !ts.Unsigned)
	be.Equal(t, ts.String(), "f64")
}

func TestNewTypeSpecRejects(t *testing.T) {
	tests := []struct {
		name string
		make func() (TypeSpec, error)
	}{
		{"invalid kind", func() (TypeSpec, error) { return NewTypeSpec(TypeInvalid, ModNone, false, 8) }},
		{"unknown kind", func() (TypeSpec, error) { return NewTypeSpec(TypeKind(42), ModNone, false, 8) }},
		{"zero bits", func() (TypeSpec, error) { return NewTypeSpec(TypeInteger, ModNone, false, 0) }},
		{"unknown modifier", func() (TypeSpec, error) { return NewTypeSpec(TypeInteger, TypeMod(4), false, 8) }},
		{"zero array size", func() (TypeSpec, error) { return NewArrayTypeSpec(TypeInteger, ModNone, false, 8, 0) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ts, err := test.make()
			be.Err(t, err, ErrInvalidType)
			be.True(t, !ts.IsValid())
		})
	}
}

func TestTypeSpecString(t *testing.T) {
	constPtr, err := NewTypeSpec(TypeFloat, ModConst|ModPointer, false, 32)
	be.Err(t, err, nil)
	be.Equal(t, constPtr.String(), "const f32*")

	arr, err := NewArrayTypeSpec(TypeInteger, ModNone, false, 8, 4)
	be.Err(t, err, nil)
	be.Equal(t, arr.String(), "i8[4]")

	unsized, err := NewUnsizedTypeSpec(TypeInteger, ModNone, true, 16)
	be.Err(t, err, nil)
	be.Equal(t, unsized.ArraySize, uint64(0))
	be.Equal(t, unsized.String(), "u16[]")

	be.Equal(t, TypeSpec{}.String(), "<invalid>")
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		kind     TypeKind
		unsigned bool
		bits     uint64
		pos      int
	}{
		{"u32", TypeInteger, true, 32, 3},
		{"i8", TypeInteger, false, 8, 2},
		{"f64", TypeFloat, false, 64, 3},
		{"  u16 x", TypeInteger, true, 16, 5},
		{"i64)", TypeInteger, false, 64, 3},
	}

	for _, test := range tests {
		c := NewCursorString(test.input)
		ts, ok := ParseType(c)
		be.True(t, ok)
		be.Equal(t, ts.Kind, test.kind)
		be.Equal(t, ts.Unsigned, test.unsigned)
		be.Equal(t, ts.Bits, test.bits)
		be.Equal(t, ts.Mods, ModNone)
		be.Equal(t, ts.ArraySize, uint64(1))
		be.Equal(t, c.Pos(), test.pos)
	}
}

func TestParseTypeFailureRestoresCursor(t *testing.T) {
	inputs := []string{"x32", "u", "ux", "u32x", "u32_", "u0", "u 32", " f", "", "1"}

	for _, input := range inputs {
		c := NewCursorString(input)
		_, ok := ParseType(c)
		be.True(t, !ok)
		be.Equal(t, c.Pos(), 0)
	}
}

func TestZeroWidthNamesParseQuietly(t *testing.T) {
	var buf bytes.Buffer
	_, err := logger.Init(logger.Config{Level: logger.LevelWarn, Format: "text", Output: &buf})
	be.Err(t, err, nil)
	t.Cleanup(func() { _, _ = logger.Init(logger.DefaultConfig()) })

	e, err := Parse("(i0) + 1")
	be.Err(t, err, nil)
	be.Equal(t, ToSExpr(e), `(add (ident "i0") (int 1))`)

	e, err = Parse("u0")
	be.Err(t, err, nil)
	be.Equal(t, ToSExpr(e), `(ident "u0")`)

	_, err = ParseProgram([]byte("f0; u0 = 1;"))
	be.Err(t, err, nil)

	be.Equal(t, buf.String(), "")
}

func TestParseTypeNilCursor(t *testing.T) {
	_, ok := ParseType(nil)
	be.True(t, !ok)
}
