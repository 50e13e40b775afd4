package mc

import (
	"strings"

	"github.com/anvielabs/mcc/logger"
)

// Statement is one ';'-terminated entry of a program: an optional leading
// type followed by an optional expression. At least one is present.
type Statement struct {
	Type *TypeSpec
	Expr *Expr
}

// Program is the sequence of statements in a source file.
type Program struct {
	Statements []Statement
}

func (prog *Program) String() string {
	var b strings.Builder
	for i, st := range prog.Statements {
		if i > 0 {
			b.WriteByte('\n')
		}
		if st.Type != nil {
			b.WriteString(st.Type.String())
			if st.Expr != nil {
				b.WriteByte(' ')
			}
		}
		if st.Expr != nil {
			b.WriteString(ToSExpr(st.Expr))
		}
	}
	return b.String()
}

// ToSExpr renders prog as (program (stmt "type" expr) ...), leaving out
// whichever half of a statement is absent.
func (prog *Program) ToSExpr() string {
	var b strings.Builder
	b.WriteString("(program")
	for _, st := range prog.Statements {
		b.WriteString(" (stmt")
		if st.Type != nil {
			b.WriteString(" \"" + st.Type.String() + "\"")
		}
		if st.Expr != nil {
			b.WriteByte(' ')
			writeSExpr(&b, st.Expr)
		}
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}

// ParseProgram parses src as a whole program.
func ParseProgram(src []byte, opts ...Option) (*Program, error) {
	p := NewParser(NewCursor(src), opts...)
	prog, ok := p.ParseProgram()
	if !ok {
		return nil, p.syntaxError()
	}
	return prog, nil
}

// ParseProgram reads statements until the input is exhausted. If any input
// remains that no statement can consume, the whole program fails and the
// cursor is restored.
func (p *Parser) ParseProgram() (*Program, bool) {
	if p == nil || p.c == nil {
		logger.Error("invalid arguments", "op", "ParseProgram")
		return nil, false
	}
	start := p.c.Mark()
	prog := &Program{}
	far := start
	p.far = start

	for {
		p.c.SkipWhitespace()
		if p.c.AtEnd() {
			logger.LogParsing("program", true, p.c.Pos()-start)
			return prog, true
		}
		if p.c.ReadChar(';') {
			continue
		}

		st, ok := p.parseStatement()
		if p.far > far {
			far = p.far
		}
		if !ok {
			break
		}
		prog.Statements = append(prog.Statements, st)
		p.c.SkipWhitespace()
		p.c.ReadChar(';')
		far = max(far, p.c.Pos())
	}

	p.DestroyProgram(prog)
	p.c.Reset(start)
	p.far = far
	logger.LogParsing("program", false, 0)
	return nil, false
}

// parseStatement consults the type parser first. When a leading type does
// not lead to a complete statement, the statement is retried as a plain
// expression.
func (p *Parser) parseStatement() (Statement, bool) {
	start := p.c.Mark()
	p.c.SkipWhitespace()

	// ParseExpr restarts progress tracking, so keep the furthest point of
	// every attempt for error reporting.
	far := p.c.Pos()
	defer func() { p.far = max(p.far, far) }()

	if t, ok := ParseType(p.c); ok {
		st := Statement{Type: &t}
		if e, ok := p.ParseExpr(); ok {
			st.Expr = e
		}
		far = max(far, p.far)
		if p.atStatementEnd() {
			return st, true
		}
		p.Destroy(st.Expr)
		p.c.Reset(start)
	}

	e, ok := p.ParseExpr()
	far = max(far, p.far)
	if ok && p.atStatementEnd() {
		return Statement{Expr: e}, true
	}
	p.Destroy(e)
	p.c.Reset(start)
	return Statement{}, false
}

func (p *Parser) atStatementEnd() bool {
	mark := p.c.Mark()
	defer p.c.Reset(mark)
	p.c.SkipWhitespace()
	b, ok := p.c.Peek()
	return !ok || b == ';'
}

// DestroyProgram releases every expression of prog.
func (p *Parser) DestroyProgram(prog *Program) {
	if prog == nil {
		return
	}
	for _, st := range prog.Statements {
		p.Destroy(st.Expr)
	}
	prog.Statements = nil
}
