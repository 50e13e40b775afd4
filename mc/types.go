package mc

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/anvielabs/mcc/logger"
)

// ErrInvalidType is returned when a TypeSpec cannot be constructed.
var ErrInvalidType = errors.New("invalid type specification")

// TypeKind is the kind of a basic type.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeInteger
	TypeFloat
	typeKindMax
)

func (k TypeKind) String() string {
	switch k {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	default:
		return "invalid"
	}
}

// TypeMod is a set of type modifiers.
type TypeMod uint8

const (
	ModNone    TypeMod = 0
	ModConst   TypeMod = 1 << 0
	ModPointer TypeMod = 1 << 1

	modMask = ModConst | ModPointer
)

// TypeSpec describes a scalar type such as u32 or f64.
type TypeSpec struct {
	Kind     TypeKind
	Mods     TypeMod
	Unsigned bool // integers only
	Bits     uint64

	// ArraySize is 1 for plain scalars and 0 for an unsized array, which
	// behaves like a pointer.
	ArraySize uint64
}

// NewTypeSpec returns a non-array type.
func NewTypeSpec(kind TypeKind, mods TypeMod, unsigned bool, bits uint64) (TypeSpec, error) {
	return newTypeSpec(kind, mods, unsigned, bits, 1, false)
}

// NewArrayTypeSpec returns an array of size elements. size must be positive.
func NewArrayTypeSpec(kind TypeKind, mods TypeMod, unsigned bool, bits, size uint64) (TypeSpec, error) {
	return newTypeSpec(kind, mods, unsigned, bits, size, false)
}

// NewUnsizedTypeSpec returns an array type with no compile time size.
func NewUnsizedTypeSpec(kind TypeKind, mods TypeMod, unsigned bool, bits uint64) (TypeSpec, error) {
	return newTypeSpec(kind, mods, unsigned, bits, 0, true)
}

func newTypeSpec(kind TypeKind, mods TypeMod, unsigned bool, bits, size uint64, unsized bool) (TypeSpec, error) {
	var errs []error
	if kind <= TypeInvalid || kind >= typeKindMax {
		errs = append(errs, fmt.Errorf("%w: kind %d", ErrInvalidType, int(kind)))
	}
	if mods&^modMask != 0 {
		errs = append(errs, fmt.Errorf("%w: modifier bits %#x", ErrInvalidType, uint8(mods)))
	}
	if bits == 0 {
		errs = append(errs, fmt.Errorf("%w: zero bit width", ErrInvalidType))
	}
	if size == 0 && !unsized {
		errs = append(errs, fmt.Errorf("%w: zero array size", ErrInvalidType))
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		logger.Error("rejected type specification", "error", err)
		return TypeSpec{}, err
	}

	if kind != TypeInteger {
		unsigned = false
	}
	return TypeSpec{
		Kind:      kind,
		Mods:      mods,
		Unsigned:  unsigned,
		Bits:      bits,
		ArraySize: size,
	}, nil
}

// IsValid reports whether t was produced by one of the constructors.
func (t TypeSpec) IsValid() bool {
	return t.Kind != TypeInvalid
}

func (t TypeSpec) String() string {
	if !t.IsValid() {
		return "<invalid>"
	}
	var s string
	if t.Mods&ModConst != 0 {
		s = "const "
	}
	switch {
	case t.Kind == TypeFloat:
		s += "f"
	case t.Unsigned:
		s += "u"
	default:
		s += "i"
	}
	s += strconv.FormatUint(t.Bits, 10)
	if t.Mods&ModPointer != 0 {
		s += "*"
	}
	switch t.ArraySize {
	case 0:
		s += "[]"
	case 1:
	default:
		s += "[" + strconv.FormatUint(t.ArraySize, 10) + "]"
	}
	return s
}

// ParseType reads a scalar type name: 'u', 'i' or 'f' directly followed by a
// decimal bit width, for example u8, i32 or f64. On failure the cursor is
// left unchanged.
func ParseType(c *Cursor) (TypeSpec, bool) {
	if c == nil {
		logger.Error("invalid arguments", "op", "ParseType")
		return TypeSpec{}, false
	}
	start := c.Mark()
	c.SkipWhitespace()

	var kind TypeKind
	unsigned := false
	switch b, _ := c.Peek(); b {
	case 'u':
		kind, unsigned = TypeInteger, true
	case 'i':
		kind = TypeInteger
	case 'f':
		kind = TypeFloat
	default:
		c.Reset(start)
		return TypeSpec{}, false
	}
	c.pos++

	bits, ok := ScanUint(c)
	if !ok {
		c.Reset(start)
		return TypeSpec{}, false
	}
	// u32_x is an identifier, not a type.
	if b, ok := c.Peek(); ok && b == '_' {
		c.Reset(start)
		return TypeSpec{}, false
	}

	// u0 and i0 are identifiers. Rejecting them here keeps the constructor
	// from logging while the parser backtracks.
	if bits == 0 {
		c.Reset(start)
		return TypeSpec{}, false
	}

	t, err := NewTypeSpec(kind, ModNone, unsigned, bits)
	if err != nil {
		c.Reset(start)
		return TypeSpec{}, false
	}
	return t, true
}
