package mc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anvielabs/mcc/logger"
)

var (
	// ErrSyntax is wrapped by every SyntaxError caused by malformed input.
	ErrSyntax = errors.New("syntax error")
	// ErrTooDeep is wrapped by a SyntaxError when nesting exceeds the depth limit.
	ErrTooDeep = errors.New("expression nested too deeply")
)

// SyntaxError reports where a top-level parse stopped making progress.
type SyntaxError struct {
	Offset int
	Near   string
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("%v at offset %d (end of input)", e.Err, e.Offset)
	}
	return fmt.Sprintf("%v at offset %d near %q", e.Err, e.Offset, e.Near)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// DefaultMaxDepth bounds the number of nested grammar tiers a single parse
// may enter. Every level of parentheses costs sixteen tiers, so the default
// admits about 250 nested parentheses.
const DefaultMaxDepth = 4096

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth overrides DefaultMaxDepth. Non-positive values are ignored.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// WithAllocator makes the parser take nodes from a and return them to a when
// an attempt backtracks or a tree is destroyed.
func WithAllocator(a Allocator) Option {
	return func(p *Parser) {
		if a != nil {
			p.alloc = a
		}
	}
}

// Parser is a backtracking recursive descent parser over a Cursor.
type Parser struct {
	c        *Cursor
	alloc    Allocator
	maxDepth int
	depth    int
	tooDeep  bool
	far      int // furthest position any successful match reached
}

// NewParser returns a parser reading from c.
func NewParser(c *Cursor, opts ...Option) *Parser {
	p := &Parser{
		c:        c,
		alloc:    heapAllocator{},
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Cursor returns the cursor the parser reads from.
func (p *Parser) Cursor() *Cursor {
	return p.c
}

// Destroy releases e and all of its descendants to the parser's allocator.
func (p *Parser) Destroy(e *Expr) {
	destroy(p.alloc, e)
}

// Parse parses src as a single expression that must span the whole input.
func Parse(src string, opts ...Option) (*Expr, error) {
	return NewParser(NewCursorString(src), opts...).ParseAll()
}

// ParseExpr parses a possibly comma separated expression at the cursor.
// On failure the cursor is left where it was and nothing stays allocated.
func (p *Parser) ParseExpr() (*Expr, bool) {
	if p == nil || p.c == nil {
		logger.Error("invalid arguments", "op", "ParseExpr")
		return nil, false
	}
	p.depth = 0
	p.tooDeep = false
	p.far = p.c.Mark()
	return p.parseList()
}

// ParseAll parses an expression and requires that only whitespace follows it.
func (p *Parser) ParseAll() (*Expr, error) {
	if p == nil || p.c == nil {
		logger.Error("invalid arguments", "op", "ParseAll")
		return nil, &SyntaxError{Err: ErrSyntax}
	}
	start := p.c.Mark()

	e, ok := p.ParseExpr()
	if ok {
		p.c.SkipWhitespace()
		if p.c.AtEnd() {
			logger.LogParsing("expression", true, p.c.Pos()-start)
			return e, nil
		}
		if p.c.Pos() > p.far {
			p.far = p.c.Pos()
		}
		p.Destroy(e)
	}

	err := p.syntaxError()
	p.c.Reset(start)
	logger.LogParsing("expression", false, 0)
	return nil, err
}

// Err describes where the last failed ParseExpr or ParseProgram stopped.
func (p *Parser) Err() error {
	return p.syntaxError()
}

func (p *Parser) syntaxError() *SyntaxError {
	cause := ErrSyntax
	if p.tooDeep {
		cause = ErrTooDeep
	}
	off := p.far
	near := string(p.c.src[off:])
	if len(near) > 16 {
		near = near[:16]
	}
	return &SyntaxError{Offset: off, Near: near, Err: cause}
}

type parseFunc func() (*Expr, bool)

// binaryOp is one operator of a tier: its text, the bytes that must not
// directly follow it, and the node kind it builds.
type binaryOp struct {
	text string
	not  string
	kind ExprKind
}

var (
	mulOps    = []binaryOp{{"*", "=", ExprMul}, {"/", "=", ExprDiv}, {"%", "=", ExprMod}}
	addOps    = []binaryOp{{"+", "+=", ExprAdd}, {"-", "-=>", ExprSub}}
	shiftOps  = []binaryOp{{"<<", "=", ExprShl}, {">>", "=", ExprShr}}
	relOps    = []binaryOp{{"<=", "", ExprLe}, {">=", "", ExprGe}, {"<", "<", ExprLt}, {">", ">", ExprGt}}
	eqOps     = []binaryOp{{"==", "", ExprEq}, {"!=", "", ExprNe}}
	bitAndOps = []binaryOp{{"&", "&=", ExprAnd}}
	bitXorOps = []binaryOp{{"^", "=", ExprXor}}
	bitOrOps  = []binaryOp{{"|", "|=", ExprOr}}
	logAndOps = []binaryOp{{"&&", "", ExprLogAnd}}
	logOrOps  = []binaryOp{{"||", "", ExprLogOr}}

	// Longer operators come first so "<<=" is never read as "<".
	assignOps = []binaryOp{
		{">>=", "", ExprShrAssign},
		{"<<=", "", ExprShlAssign},
		{"+=", "", ExprAddAssign},
		{"-=", "", ExprSubAssign},
		{"*=", "", ExprMulAssign},
		{"/=", "", ExprDivAssign},
		{"%=", "", ExprModAssign},
		{"&=", "", ExprAndAssign},
		{"|=", "", ExprOrAssign},
		{"^=", "", ExprXorAssign},
		{"=", "=", ExprAssign},
	}

	prefixOps = []binaryOp{
		{"++", "", ExprPreInc},
		{"--", "", ExprPreDec},
		{"+", "=", ExprPlus},
		{"-", "=", ExprMinus},
		{"!", "=", ExprLogNot},
		{"~", "", ExprNot},
		{"&", "&=", ExprAddr},
		{"*", "=", ExprDeref},
	}
)

func (p *Parser) enter() bool {
	if p.depth >= p.maxDepth {
		p.tooDeep = true
		p.progress()
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) progress() {
	if p.c.pos > p.far {
		p.far = p.c.pos
	}
}

func (p *Parser) node(kind ExprKind, children ...*Expr) *Expr {
	p.progress()
	e := p.alloc.Alloc()
	e.Kind = kind
	e.Children = children
	return e
}

func (p *Parser) castNode(t TypeSpec, operand *Expr) *Expr {
	e := p.node(ExprCast, operand)
	e.Type = &t
	return e
}

// matchOp consumes op.text unless it is followed by one of op.not.
func (p *Parser) matchOp(op binaryOp) bool {
	if !p.c.HasPrefix(op.text) {
		return false
	}
	if b, ok := p.c.peekAt(len(op.text)); ok && strings.IndexByte(op.not, b) >= 0 {
		return false
	}
	p.c.pos += len(op.text)
	p.progress()
	return true
}

func (p *Parser) matchAny(ops []binaryOp) (binaryOp, bool) {
	for _, op := range ops {
		if p.matchOp(op) {
			return op, true
		}
	}
	return binaryOp{}, false
}

// parseBinary is the shared shape of every left-associative binary tier:
// parse the tighter tier, then fold "op operand" pairs onto the left.
func (p *Parser) parseBinary(ops []binaryOp, next parseFunc) (*Expr, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	start := p.c.Mark()
	p.c.SkipWhitespace()

	left, ok := next()
	if !ok {
		p.c.Reset(start)
		return nil, false
	}

	for {
		mark := p.c.Mark()
		p.c.SkipWhitespace()

		op, found := p.matchAny(ops)
		if !found {
			p.c.Reset(mark)
			return left, true
		}

		right, ok := next()
		if !ok {
			p.Destroy(left)
			p.c.Reset(start)
			return nil, false
		}
		left = p.node(op.kind, left, right)
	}
}

func (p *Parser) parseMultiplicative() (*Expr, bool) { return p.parseBinary(mulOps, p.parseUnary) }
func (p *Parser) parseAdditive() (*Expr, bool)       { return p.parseBinary(addOps, p.parseMultiplicative) }
func (p *Parser) parseShift() (*Expr, bool)          { return p.parseBinary(shiftOps, p.parseAdditive) }
func (p *Parser) parseRelational() (*Expr, bool)     { return p.parseBinary(relOps, p.parseShift) }
func (p *Parser) parseEquality() (*Expr, bool)       { return p.parseBinary(eqOps, p.parseRelational) }
func (p *Parser) parseBitAnd() (*Expr, bool)         { return p.parseBinary(bitAndOps, p.parseEquality) }
func (p *Parser) parseBitXor() (*Expr, bool)         { return p.parseBinary(bitXorOps, p.parseBitAnd) }
func (p *Parser) parseBitOr() (*Expr, bool)          { return p.parseBinary(bitOrOps, p.parseBitXor) }
func (p *Parser) parseLogicalAnd() (*Expr, bool)     { return p.parseBinary(logAndOps, p.parseBitOr) }
func (p *Parser) parseLogicalOr() (*Expr, bool)      { return p.parseBinary(logOrOps, p.parseLogicalAnd) }

// parseTernary handles cond ? then : else. Both branches recurse into the
// ternary tier, so a ? b : c ? d : e groups to the right.
func (p *Parser) parseTernary() (*Expr, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	start := p.c.Mark()
	p.c.SkipWhitespace()

	cond, ok := p.parseLogicalOr()
	if !ok {
		p.c.Reset(start)
		return nil, false
	}

	mark := p.c.Mark()
	p.c.SkipWhitespace()
	if !p.c.ReadChar('?') {
		p.c.Reset(mark)
		return cond, true
	}

	then, ok := p.parseTernary()
	if !ok {
		p.Destroy(cond)
		p.c.Reset(start)
		return nil, false
	}

	p.c.SkipWhitespace()
	if !p.c.ReadChar(':') {
		p.Destroy(cond)
		p.Destroy(then)
		p.c.Reset(start)
		return nil, false
	}

	els, ok := p.parseTernary()
	if !ok {
		p.Destroy(cond)
		p.Destroy(then)
		p.c.Reset(start)
		return nil, false
	}
	return p.node(ExprTernary, cond, then, els), true
}

// parseAssignment handles "=" and the compound assignments, which group to
// the right.
func (p *Parser) parseAssignment() (*Expr, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	start := p.c.Mark()
	p.c.SkipWhitespace()

	left, ok := p.parseTernary()
	if !ok {
		p.c.Reset(start)
		return nil, false
	}

	mark := p.c.Mark()
	p.c.SkipWhitespace()
	op, found := p.matchAny(assignOps)
	if !found {
		p.c.Reset(mark)
		return left, true
	}

	right, ok := p.parseAssignment()
	if !ok {
		p.Destroy(left)
		p.c.Reset(start)
		return nil, false
	}
	return p.node(op.kind, left, right), true
}

// parseList handles the comma operator. A single expression is returned as
// is; two or more become an ExprList.
func (p *Parser) parseList() (*Expr, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	start := p.c.Mark()
	p.c.SkipWhitespace()

	first, ok := p.parseAssignment()
	if !ok {
		p.c.Reset(start)
		return nil, false
	}

	mark := p.c.Mark()
	p.c.SkipWhitespace()
	if !p.c.ReadChar(',') {
		p.c.Reset(mark)
		return first, true
	}

	list := p.node(ExprList, first)
	for {
		item, ok := p.parseAssignment()
		if !ok {
			p.Destroy(list)
			p.c.Reset(start)
			return nil, false
		}
		list.Children = append(list.Children, item)

		mark = p.c.Mark()
		p.c.SkipWhitespace()
		if !p.c.ReadChar(',') {
			p.c.Reset(mark)
			return list, true
		}
	}
}

// parseUnary handles prefix operators, sizeof, alignof and (Type) casts.
func (p *Parser) parseUnary() (*Expr, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	start := p.c.Mark()
	p.c.SkipWhitespace()

	if e, isCast, ok := p.parseCast(); isCast {
		if !ok {
			p.c.Reset(start)
			return nil, false
		}
		return e, true
	}

	kind := ExprInvalid
	if op, ok := p.matchAny(prefixOps); ok {
		kind = op.kind
	} else if readKeyword(p.c, "sizeof") {
		kind = ExprSizeOf
	} else if readKeyword(p.c, "alignof") {
		kind = ExprAlignOf
	}

	if kind == ExprInvalid {
		e, ok := p.parsePostfix()
		if !ok {
			p.c.Reset(start)
			return nil, false
		}
		return e, true
	}

	operand, ok := p.parseUnary()
	if !ok {
		p.c.Reset(start)
		return nil, false
	}
	return p.node(kind, operand), true
}

// parseCast handles "(Type) operand". Type names are reserved inside
// parentheses: once "(Type)" is read the operand must follow, except for '{'
// which starts a compound literal and is left for parsePostfix.
func (p *Parser) parseCast() (e *Expr, isCast, ok bool) {
	start := p.c.Mark()

	t, ok := p.parseParenType()
	if !ok {
		return nil, false, false
	}

	p.c.SkipWhitespace()
	if b, ok := p.c.Peek(); ok && b == '{' {
		p.c.Reset(start)
		return nil, false, false
	}

	operand, ok := p.parseUnary()
	if !ok {
		p.c.Reset(start)
		return nil, true, false
	}
	return p.castNode(t, operand), true, true
}

func (p *Parser) parseParenType() (TypeSpec, bool) {
	start := p.c.Mark()
	if !p.c.ReadChar('(') {
		return TypeSpec{}, false
	}
	t, ok := ParseType(p.c)
	if !ok {
		p.c.Reset(start)
		return TypeSpec{}, false
	}
	p.c.SkipWhitespace()
	if !p.c.ReadChar(')') {
		p.c.Reset(start)
		return TypeSpec{}, false
	}
	return t, true
}

// parsePostfix handles a primary or compound literal followed by any number
// of ++, --, member access, calls and subscripts.
func (p *Parser) parsePostfix() (*Expr, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	start := p.c.Mark()
	p.c.SkipWhitespace()

	e, ok := p.parseCompoundLiteral()
	if !ok {
		e, ok = p.parsePrimary()
	}
	if !ok {
		p.c.Reset(start)
		return nil, false
	}

	fail := func() (*Expr, bool) {
		p.Destroy(e)
		p.c.Reset(start)
		return nil, false
	}

	for {
		mark := p.c.Mark()
		p.c.SkipWhitespace()

		switch {
		case p.c.ReadLiteral("++"):
			e = p.node(ExprPostInc, e)
		case p.c.ReadLiteral("--"):
			e = p.node(ExprPostDec, e)
		case p.c.ReadLiteral("->"):
			field, ok := p.parseField()
			if !ok {
				return fail()
			}
			e = p.node(ExprPtrAccess, e, field)
		case p.c.ReadChar('.'):
			field, ok := p.parseField()
			if !ok {
				return fail()
			}
			e = p.node(ExprAccess, e, field)
		case p.c.ReadChar('('):
			args, ok := p.parseItems(')')
			if !ok {
				return fail()
			}
			e = p.node(ExprCall, e, args)
		case p.c.ReadChar('['):
			index, ok := p.parseList()
			if !ok {
				return fail()
			}
			p.c.SkipWhitespace()
			if !p.c.ReadChar(']') {
				p.Destroy(index)
				return fail()
			}
			e = p.node(ExprSubscript, e, index)
		default:
			p.c.Reset(mark)
			return e, true
		}
	}
}

func (p *Parser) parseField() (*Expr, bool) {
	p.c.SkipWhitespace()
	name, ok := ScanIdent(p.c)
	if !ok {
		return nil, false
	}
	e := p.node(ExprIdent)
	e.Name = name
	return e, true
}

// parseCompoundLiteral handles (Type){ a, b, ... }.
func (p *Parser) parseCompoundLiteral() (*Expr, bool) {
	start := p.c.Mark()

	t, ok := p.parseParenType()
	if !ok {
		return nil, false
	}
	p.c.SkipWhitespace()
	if !p.c.ReadChar('{') {
		p.c.Reset(start)
		return nil, false
	}

	items, ok := p.parseItems('}')
	if !ok {
		p.c.Reset(start)
		return nil, false
	}
	return p.castNode(t, items), true
}

// parseItems reads assignment expressions separated by commas up to and
// including the closing byte, always producing an ExprList. Initializer
// lists may end with a trailing comma.
func (p *Parser) parseItems(closing byte) (*Expr, bool) {
	list := p.node(ExprList)

	p.c.SkipWhitespace()
	if p.c.ReadChar(closing) {
		return list, true
	}

	for {
		item, ok := p.parseAssignment()
		if !ok {
			p.Destroy(list)
			return nil, false
		}
		list.Children = append(list.Children, item)

		p.c.SkipWhitespace()
		if p.c.ReadChar(closing) {
			return list, true
		}
		if !p.c.ReadChar(',') {
			p.Destroy(list)
			return nil, false
		}
		if closing == '}' {
			p.c.SkipWhitespace()
			if p.c.ReadChar(closing) {
				return list, true
			}
		}
	}
}

// parsePrimary handles parenthesized expressions, identifiers and numeric
// literals.
func (p *Parser) parsePrimary() (*Expr, bool) {
	if !p.enter() {
		return nil, false
	}
	defer p.leave()

	start := p.c.Mark()
	p.c.SkipWhitespace()

	if p.c.ReadChar('(') {
		inner, ok := p.parseList()
		if ok {
			p.c.SkipWhitespace()
			if p.c.ReadChar(')') {
				return inner, true
			}
			p.Destroy(inner)
		}
		p.c.Reset(start)
		return nil, false
	}

	if name, ok := ScanIdent(p.c); ok {
		e := p.node(ExprIdent)
		e.Name = name
		return e, true
	}
	if v, ok := ScanHex(p.c); ok {
		return p.intNode(v), true
	}
	if v, ok := ScanFloat(p.c); ok {
		e := p.node(ExprNumber)
		e.Float = v
		return e, true
	}
	if v, ok := ScanUint(p.c); ok {
		return p.intNode(v), true
	}

	p.c.Reset(start)
	return nil, false
}

func (p *Parser) intNode(v uint64) *Expr {
	e := p.node(ExprNumber)
	e.IsInt = true
	e.Int = v
	return e
}
