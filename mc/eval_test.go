package mc

import (
	"math"
	"testing"

	"github.com/nalgeon/be"
)

func evalString(t *testing.T, input string) float64 {
	t.Helper()
	e, err := Parse(input)
	be.Err(t, err, nil)
	return Eval(e)
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-7
}

func TestEvalNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"9", 9},
		{" 10", 10},
		{" 141   ", 141},
		{"9134235", 9134235},
		{"0xff", 255},
		{"2.5", 2.5},
		{".25f", 0.25},
	}

	for _, test := range tests {
		got := evalString(t, test.input)
		be.True(t, approxEqual(got, test.expected))
	}
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1 + 2", 3},
		{"1 - 2", -1},
		{"1 / 2", 0.5},
		{"100 / 1000.f", 0.1},
		{"1337.f * 1337.f", 1787569},
		{"1 * 2", 2},
		{"13 % 5", 3},
		{"1 - 2 - 3", -4},
		{"8 / 4 / 2", 1},
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"-1 + 3", 2},
		{"+4", 4},
	}

	for _, test := range tests {
		got := evalString(t, test.input)
		be.True(t, approxEqual(got, test.expected))
	}
}

func TestEvalShifts(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"0xcafebabe << 4", float64(uint64(0xcafebabe) << 4)},
		{"0xbaadb00b << 13", float64(uint64(0xbaadb00b) << 13)},
		{"256 >> 4", 16},
		{"1 << 64", 0},
		{"1 << 63", float64(uint64(1) << 63)},
	}

	for _, test := range tests {
		got := evalString(t, test.input)
		be.Equal(t, got, test.expected)
	}
}

func TestEvalBitwise(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"12 & 10", 8},
		{"12 | 3", 15},
		{"12 ^ 10", 6},
		{"-1 & 0xff", 255},
		{"~0", float64(uint64(math.MaxUint64))},
		{"7.9 & 7", 7},
	}

	for _, test := range tests {
		got := evalString(t, test.input)
		be.Equal(t, got, test.expected)
	}
}

func TestEvalComparisonAndLogic(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1 < 2", 1},
		{"2 < 1", 0},
		{"2 > 1", 1},
		{"2 <= 2", 1},
		{"1 >= 2", 0},
		{"3 == 3", 1},
		{"3 != 3", 0},
		{"1 && 2", 1},
		{"1 && 0", 0},
		{"0 || 0", 0},
		{"0 || 5", 1},
		{"!0", 1},
		{"!7", 0},
		{"2 ? 1 : 0", 1},
		{"0 ? 1 : 5", 5},
		{"0 ? 1 : 0 ? 2 : 3", 3},
	}

	for _, test := range tests {
		got := evalString(t, test.input)
		be.Equal(t, got, test.expected)
	}
}

func TestEvalUnaryAndPostfix(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"-5", -5},
		{"- -5", 5},
		{"++(4)", 5},
		{"--(4)", 3},
		{"(u8) 300", 300},
		{"(f32) 1.5", 1.5},
		{"(u32){1, 2, 3}", 3},
	}

	for _, test := range tests {
		got := evalString(t, test.input)
		be.True(t, approxEqual(got, test.expected))
	}
}

func TestEvalWithoutStore(t *testing.T) {
	inputs := []string{
		"x",
		"x = 5",
		"x += 5",
		"f(1)",
		"a[2]",
		"s.x",
		"p->x",
		"&x",
		"*p",
		"sizeof x",
		"alignof x",
	}

	for _, input := range inputs {
		be.Equal(t, evalString(t, input), 0.0)
	}
}

func TestEvalListYieldsLastValue(t *testing.T) {
	be.Equal(t, evalString(t, "1, 2, 3"), 3.0)
	be.Equal(t, evalString(t, "(4, 5) * 2"), 10.0)
	be.Equal(t, Eval(&Expr{Kind: ExprList}), 0.0)
}

func TestEvalModByZero(t *testing.T) {
	be.True(t, math.IsNaN(evalString(t, "5 % 0")))
	be.True(t, math.IsInf(evalString(t, "1 / 0"), 1))
}

func TestEvalMalformedNodes(t *testing.T) {
	be.Equal(t, Eval(nil), 0.0)
	be.Equal(t, Eval(&Expr{}), 0.0)
	be.Equal(t, Eval(&Expr{Kind: ExprKind(1000)}), 0.0)
	be.Equal(t, Eval(&Expr{Kind: ExprAdd}), 0.0)
	be.Equal(t, Eval(&Expr{Kind: ExprTernary, Children: []*Expr{{Kind: ExprNumber, IsInt: true, Int: 1}}}), 0.0)
}

func TestToUint(t *testing.T) {
	tests := []struct {
		input    float64
		expected uint64
	}{
		{0, 0},
		{3.9, 3},
		{-1, math.MaxUint64},
		{-2.5, math.MaxUint64 - 1},
		{math.NaN(), 0},
		{math.Inf(1), math.MaxUint64},
		{math.Inf(-1), 1 << 63},
	}

	for _, test := range tests {
		be.Equal(t, toUint(test.input), test.expected)
	}
}
