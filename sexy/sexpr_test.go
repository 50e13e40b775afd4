package sexy

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestParseAtoms(t *testing.T) {
	tests := []struct {
		input    string
		typ      NodeType
		text     string
		expected string
	}{
		{"add", NodeSymbol, "add", "add"},
		{"log-and", NodeSymbol, "log-and", "log-and"},
		{"ptr_access2", NodeSymbol, "ptr_access2", "ptr_access2"},
		{"_", NodeSymbol, "_", "_"},
		{"-", NodeSymbol, "-", "-"},
		{`"u32"`, NodeString, "u32", `"u32"`},
		{`""`, NodeString, "", `""`},
		{`"a\"b"`, NodeString, `a"b`, `"a\"b"`},
		{`"a\\b"`, NodeString, `a\b`, `"a\\b"`},
		{"42", NodeInteger, "42", "42"},
		{"-7", NodeInteger, "-7", "-7"},
		{"+7", NodeInteger, "+7", "+7"},
		{"3405691582", NodeInteger, "3405691582", "3405691582"},
		{"...", NodeEllipsis, "", "..."},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)
		be.Equal(t, result.Type, test.typ)
		be.Equal(t, result.Text, test.text)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseLists(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"()", "()"},
		{"(int 9)", "(int 9)"},
		{"(add (int 1)\n\t(int 2))", "(add (int 1) (int 2))"},
		{`(cast "u8" (ident "x"))`, `(cast "u8" (ident "x"))`},
		{"(list ...)", "(list ...)"},
		{"  (a ; comment\n b)  ", "(a b)"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)
		be.Equal(t, result.Type, NodeList)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseNested(t *testing.T) {
	result, err := Parse(`(sub (sub (int 1) (int 2)) (int 3))`)
	be.Err(t, err, nil)
	be.Equal(t, result.Head(), "sub")
	be.Equal(t, len(result.Items), 3)
	be.Equal(t, result.Items[1].Head(), "sub")
	be.Equal(t, result.Items[2].Items[1].Text, "3")
	be.Equal(t, result.Items[2].Items[1].Type, NodeInteger)
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"(",
		"(a b",
		")",
		"a b",
		`"unterminated`,
		`"bad \n escape"`,
		"(a . b)",
		"{a}",
		"#x=1",
	}

	for _, input := range inputs {
		_, err := Parse(input)
		be.Err(t, err)
	}
}

func TestHead(t *testing.T) {
	be.Equal(t, NewList(NewSymbol("add"), NewInteger("1")).Head(), "add")
	be.Equal(t, NewList().Head(), "")
	be.Equal(t, NewList(NewString("x")).Head(), "")
	be.Equal(t, NewSymbol("x").Head(), "")
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		actual  string
	}{
		{"(int 9)", "(int 9)"},
		{"(add (int 1) _)", "(add (int 1) (ident \"x\"))"},
		{"(add ... (int 2))", "(add (mul (int 1) (int 3)) (int 2))"},
		{"(call (ident \"f\") (list ...))", "(call (ident \"f\") (list (int 1) (int 2)))"},
		{"(list ...)", "(list)"},
		{"...", "(anything at all)"},
		{"_", "7"},
	}

	for _, test := range tests {
		pattern, err := Parse(test.pattern)
		be.Err(t, err, nil)
		actual, err := Parse(test.actual)
		be.Err(t, err, nil)
		be.Err(t, Match(pattern, actual), nil)
	}
}

func TestMatchMismatch(t *testing.T) {
	tests := []struct {
		pattern  string
		actual   string
		expected string
	}{
		{"(int 9)", "(int 8)", "pattern mismatch at root/int[1]: expected 9, got 8"},
		{"(add (int 1) (int 2))", "(sub (int 1) (int 2))", "pattern mismatch at root/add[0]: expected add, got sub"},
		{"(add (int 1))", "(add (int 1) (int 2))", "pattern mismatch at root/add: expected 2 items, got 3"},
		{"(add (int 1) (int 2))", "(add (int 1))", "pattern mismatch at root/add: expected 3 items, got 2"},
		{`(ident "x")`, "(ident x)", `pattern mismatch at root/ident[1]: expected string "x", got symbol x`},
		{"(list _ ...)", "(list)", "pattern mismatch at root/list: expected 3 items, got 1"},
	}

	for _, test := range tests {
		pattern, err := Parse(test.pattern)
		be.Err(t, err, nil)
		actual, err := Parse(test.actual)
		be.Err(t, err, nil)

		err = Match(pattern, actual)
		be.Err(t, err, ErrMismatch)
		be.Equal(t, err.Error(), test.expected)
	}
}

func TestMatchNil(t *testing.T) {
	be.Err(t, Match(nil, nil), nil)
	be.Err(t, Match(NewSymbol("x"), nil), ErrMismatch)
	be.Err(t, Match(nil, NewSymbol("x")), ErrMismatch)
}
