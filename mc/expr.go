package mc

import (
	"strconv"
	"strings"

	"github.com/anvielabs/mcc/logger"
)

// ExprKind represents the kind of an expression node
type ExprKind int

const (
	ExprInvalid ExprKind = iota

	// Two children: left, right.
	ExprAdd
	ExprSub
	ExprMul
	ExprDiv
	ExprMod
	ExprAnd
	ExprOr
	ExprXor
	ExprShl
	ExprShr
	ExprLt
	ExprGt
	ExprLe
	ExprGe
	ExprEq
	ExprNe
	ExprLogAnd
	ExprLogOr
	ExprAssign
	ExprAddAssign
	ExprSubAssign
	ExprMulAssign
	ExprDivAssign
	ExprModAssign
	ExprAndAssign
	ExprOrAssign
	ExprXorAssign
	ExprShrAssign
	ExprShlAssign
	ExprCall      // callee, argument list
	ExprSubscript // array, index
	ExprAccess    // value, field identifier
	ExprPtrAccess // pointer, field identifier

	// One child.
	ExprLogNot
	ExprNot
	ExprPlus
	ExprMinus
	ExprAddr
	ExprDeref
	ExprSizeOf
	ExprAlignOf
	ExprPreInc
	ExprPostInc
	ExprPreDec
	ExprPostDec

	ExprCast    // Type plus one child
	ExprTernary // condition, then, else
	ExprList    // any number of children, in source order
	ExprIdent   // Name
	ExprNumber  // IsInt, Int or Float

	exprKindMax
)

var exprKindNames = [...]string{
	ExprInvalid:   "invalid",
	ExprAdd:       "add",
	ExprSub:       "sub",
	ExprMul:       "mul",
	ExprDiv:       "div",
	ExprMod:       "mod",
	ExprAnd:       "and",
	ExprOr:        "or",
	ExprXor:       "xor",
	ExprShl:       "shl",
	ExprShr:       "shr",
	ExprLt:        "lt",
	ExprGt:        "gt",
	ExprLe:        "le",
	ExprGe:        "ge",
	ExprEq:        "eq",
	ExprNe:        "ne",
	ExprLogAnd:    "log-and",
	ExprLogOr:     "log-or",
	ExprAssign:    "assign",
	ExprAddAssign: "add-assign",
	ExprSubAssign: "sub-assign",
	ExprMulAssign: "mul-assign",
	ExprDivAssign: "div-assign",
	ExprModAssign: "mod-assign",
	ExprAndAssign: "and-assign",
	ExprOrAssign:  "or-assign",
	ExprXorAssign: "xor-assign",
	ExprShrAssign: "shr-assign",
	ExprShlAssign: "shl-assign",
	ExprCall:      "call",
	ExprSubscript: "subscript",
	ExprAccess:    "access",
	ExprPtrAccess: "ptr-access",
	ExprLogNot:    "log-not",
	ExprNot:       "not",
	ExprPlus:      "plus",
	ExprMinus:     "minus",
	ExprAddr:      "addr",
	ExprDeref:     "deref",
	ExprSizeOf:    "sizeof",
	ExprAlignOf:   "alignof",
	ExprPreInc:    "pre-inc",
	ExprPostInc:   "post-inc",
	ExprPreDec:    "pre-dec",
	ExprPostDec:   "post-dec",
	ExprCast:      "cast",
	ExprTernary:   "ternary",
	ExprList:      "list",
	ExprIdent:     "ident",
	ExprNumber:    "number",
}

func (k ExprKind) String() string {
	if k < 0 || k >= exprKindMax {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return exprKindNames[k]
}

// ParseExprKind returns the kind whose String form is name.
func ParseExprKind(name string) (ExprKind, bool) {
	for k, n := range exprKindNames {
		if n == name {
			return ExprKind(k), true
		}
	}
	return ExprInvalid, false
}

// IsBinary reports whether nodes of kind k hold exactly two children.
func (k ExprKind) IsBinary() bool {
	return k >= ExprAdd && k <= ExprPtrAccess
}

// IsUnary reports whether nodes of kind k hold exactly one child.
func (k ExprKind) IsUnary() bool {
	return k >= ExprLogNot && k <= ExprPostDec
}

// IsAssignment reports whether k is plain or compound assignment.
func (k ExprKind) IsAssignment() bool {
	return k >= ExprAssign && k <= ExprShlAssign
}

// Expr is a node of the expression tree. Every node exclusively owns its
// children.
type Expr struct {
	Kind     ExprKind
	Children []*Expr

	// ExprCast:
	Type *TypeSpec
	// ExprIdent:
	Name string
	// ExprNumber:
	IsInt bool
	Int   uint64
	Float float64
}

// Allocator hands out expression nodes and takes them back when a tree is
// destroyed.
type Allocator interface {
	Alloc() *Expr
	Release(e *Expr)
}

type heapAllocator struct{}

func (heapAllocator) Alloc() *Expr    { return &Expr{} }
func (heapAllocator) Release(e *Expr) {}

// Destroy releases e and everything below it using the heap allocator.
func Destroy(e *Expr) {
	destroy(heapAllocator{}, e)
}

// destroy walks e post-order, returning each node to a exactly once. A node
// that has already been cleared is left alone.
func destroy(a Allocator, e *Expr) {
	if e == nil {
		return
	}

	switch {
	case e.Kind == ExprInvalid:
		return
	case e.Kind.IsBinary(), e.Kind.IsUnary(), e.Kind == ExprCast,
		e.Kind == ExprTernary, e.Kind == ExprList:
		for _, child := range e.Children {
			destroy(a, child)
		}
	case e.Kind == ExprIdent, e.Kind == ExprNumber:
	default:
		logger.Error("unreachable code reached: invalid expression type", "kind", int(e.Kind))
	}

	*e = Expr{}
	a.Release(e)
}

// Count returns the number of nodes in the tree rooted at e.
func Count(e *Expr) int {
	if e == nil || e.Kind == ExprInvalid {
		return 0
	}
	n := 1
	for _, child := range e.Children {
		n += Count(child)
	}
	return n
}

// ToSExpr converts an expression tree to its s-expression form
func ToSExpr(e *Expr) string {
	var b strings.Builder
	writeSExpr(&b, e)
	return b.String()
}

func writeSExpr(b *strings.Builder, e *Expr) {
	if e == nil {
		b.WriteString("nil")
		return
	}
	switch e.Kind {
	case ExprNumber:
		if e.IsInt {
			b.WriteString("(int " + strconv.FormatUint(e.Int, 10) + ")")
		} else {
			b.WriteString("(float \"" + strconv.FormatFloat(e.Float, 'g', -1, 64) + "\")")
		}
	case ExprIdent:
		b.WriteString("(ident \"" + e.Name + "\")")
	case ExprCast:
		typ := "<invalid>"
		if e.Type != nil {
			typ = e.Type.String()
		}
		b.WriteString("(cast \"" + typ + "\"")
		for _, child := range e.Children {
			b.WriteByte(' ')
			writeSExpr(b, child)
		}
		b.WriteByte(')')
	case ExprInvalid:
		b.WriteString("(invalid)")
	default:
		b.WriteString("(" + e.Kind.String())
		for _, child := range e.Children {
			b.WriteByte(' ')
			writeSExpr(b, child)
		}
		b.WriteByte(')')
	}
}
