// Package sexy reads the s-expressions used to describe expected parse trees
// and matches them against actual trees.
package sexy

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrMismatch is wrapped by every error Match returns.
var ErrMismatch = errors.New("pattern mismatch")

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeEllipsis
	NodeList
)

func (t NodeType) String() string {
	switch t {
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeInteger:
		return "integer"
	case NodeEllipsis:
		return "ellipsis"
	case NodeList:
		return "list"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is an atom or a list.
type Node struct {
	Type  NodeType
	Text  string  // NodeSymbol, NodeString, NodeInteger
	Items []*Node // NodeList
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return "\"" + escaped + "\""
	case NodeEllipsis:
		return "..."
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewEllipsis() *Node {
	return &Node{Type: NodeEllipsis}
}

func NewList(items ...*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	return n.Type != NodeList
}

// Head returns the leading symbol of a list, or "" for anything else.
func (n *Node) Head() string {
	if n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}
	return n.Items[0].Text
}

// Match reports whether actual has the shape of pattern. In a pattern, "_"
// matches any single datum, "..." matches any whole datum, and "..." as the
// last list item matches any number of remaining items.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

func match(pattern, actual *Node, path string) error {
	if pattern == nil || actual == nil {
		if pattern == actual {
			return nil
		}
		return fmt.Errorf("%w at %s: expected %v, got %v", ErrMismatch, path, pattern, actual)
	}

	if pattern.Type == NodeEllipsis || (pattern.Type == NodeSymbol && pattern.Text == "_") {
		return nil
	}
	if pattern.Type != actual.Type {
		return fmt.Errorf("%w at %s: expected %s %s, got %s %s",
			ErrMismatch, path, pattern.Type, pattern, actual.Type, actual)
	}
	if pattern.IsAtom() {
		if pattern.Text != actual.Text {
			return fmt.Errorf("%w at %s: expected %s, got %s", ErrMismatch, path, pattern, actual)
		}
		return nil
	}

	if head := pattern.Head(); head != "" {
		path = path + "/" + head
	}
	for i, item := range pattern.Items {
		if item.Type == NodeEllipsis && i == len(pattern.Items)-1 {
			return nil
		}
		if i >= len(actual.Items) {
			return fmt.Errorf("%w at %s: expected %d items, got %d",
				ErrMismatch, path, len(pattern.Items), len(actual.Items))
		}
		if err := match(item, actual.Items[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	if len(actual.Items) != len(pattern.Items) {
		return fmt.Errorf("%w at %s: expected %d items, got %d",
			ErrMismatch, path, len(pattern.Items), len(actual.Items))
	}
	return nil
}

type parser struct {
	lexer        *lexer
	currentToken token
}

// Parse parses the entire input and returns the top-level datum
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.nextToken()

	result, err := p.parseDatum()
	if p.lexer.err != nil {
		// Lexer errors take priority because they might cause confusing parser errors.
		return nil, p.lexer.err
	}
	if err != nil {
		return nil, err
	}
	if p.currentToken.Type != tokenEOF {
		return nil, fmt.Errorf("offset %d: expected EOF but got %s", p.currentToken.Position, p.currentToken.Type)
	}
	return result, nil
}

func (p *parser) nextToken() {
	p.currentToken = p.lexer.nextToken()
}

func (p *parser) parseDatum() (*Node, error) {
	tok := p.currentToken
	switch tok.Type {
	case tokenSymbol:
		p.nextToken()
		return NewSymbol(tok.Value), nil
	case tokenString:
		p.nextToken()
		return NewString(tok.Value), nil
	case tokenInteger:
		p.nextToken()
		return NewInteger(tok.Value), nil
	case tokenEllipsis:
		p.nextToken()
		return NewEllipsis(), nil
	case tokenLParen:
		return p.parseList()
	default:
		return nil, fmt.Errorf("offset %d: unexpected token: %s", tok.Position, tok.Type)
	}
}

func (p *parser) parseList() (*Node, error) {
	open := p.currentToken.Position
	p.nextToken() // consume '('

	list := NewList()
	for p.currentToken.Type != tokenRParen && p.currentToken.Type != tokenEOF {
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}

	if p.currentToken.Type != tokenRParen {
		return nil, fmt.Errorf("offset %d: unclosed '('", open)
	}
	p.nextToken() // consume ')'
	return list, nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenEllipsis
	tokenLParen
	tokenRParen
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenEllipsis:
		return "ellipsis"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	Type     tokenType
	Value    string
	Position int
}

type lexer struct {
	input string
	pos   int
	err   error
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) current() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *lexer) fail(format string, args ...any) token {
	if l.err == nil {
		l.err = fmt.Errorf("offset %d: "+format, append([]any{l.pos}, args...)...)
	}
	return token{Type: tokenEOF, Position: l.pos}
}

func (l *lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		switch c := l.current(); {
		case c == ';':
			for l.pos < len(l.input) && l.current() != '\n' {
				l.pos++
			}
		case unicode.IsSpace(rune(c)):
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) readWhile(pred func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.input) && pred(l.current()) {
		l.pos++
	}
	return l.input[start:l.pos]
}

func (l *lexer) readString() (string, error) {
	var b strings.Builder
	l.pos++ // opening quote

	for l.pos < len(l.input) && l.current() != '"' {
		c := l.current()
		if c == '\\' {
			l.pos++
			switch l.current() {
			case '"', '\\':
				c = l.current()
			default:
				return "", fmt.Errorf("offset %d: invalid escape sequence: \\%c", l.pos, l.current())
			}
		}
		b.WriteByte(c)
		l.pos++
	}

	if l.current() != '"' {
		return "", fmt.Errorf("offset %d: unterminated string", l.pos)
	}
	l.pos++ // closing quote
	return b.String(), nil
}

func (l *lexer) nextToken() token {
	l.skipWhitespaceAndComments()
	pos := l.pos

	switch c := l.current(); {
	case l.pos >= len(l.input):
		return token{Type: tokenEOF, Position: pos}
	case c == '(':
		l.pos++
		return token{Type: tokenLParen, Value: "(", Position: pos}
	case c == ')':
		l.pos++
		return token{Type: tokenRParen, Value: ")", Position: pos}
	case c == '"':
		str, err := l.readString()
		if err != nil {
			if l.err == nil {
				l.err = err
			}
			return token{Type: tokenEOF, Position: pos}
		}
		return token{Type: tokenString, Value: str, Position: pos}
	case strings.HasPrefix(l.input[l.pos:], "..."):
		l.pos += 3
		return token{Type: tokenEllipsis, Value: "...", Position: pos}
	case isDigit(c), (c == '+' || c == '-') && isDigit(l.peek()):
		l.pos++
		l.readWhile(isDigit)
		return token{Type: tokenInteger, Value: l.input[pos:l.pos], Position: pos}
	case isSymbolStart(c):
		return token{Type: tokenSymbol, Value: l.readWhile(isSymbolChar), Position: pos}
	default:
		return l.fail("unexpected character %q", c)
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSymbolStart(c byte) bool {
	return unicode.IsLetter(rune(c)) || c == '_' || c == '+' || c == '-' || c == '<' || c == '>'
}

func isSymbolChar(c byte) bool {
	return isSymbolStart(c) || isDigit(c)
}
