package mc

import (
	"testing"

	"github.com/nalgeon/be"
)

func FuzzParseExpr(f *testing.F) {
	seeds := []string{
		"1 + 2 * 3",
		"a = b ? c : d, e",
		"(u32){1, 2,}[0]++",
		"f(x)->y.z--",
		"sizeof (i8) -x",
		"0xcafebabe << 4",
		"((((1",
		"(u8)(u8)(u8)",
		"1..2",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		a := newCountingAllocator()
		p := NewParser(NewCursorString(input), WithAllocator(a), WithMaxDepth(512))

		e, err := p.ParseAll()
		if err != nil {
			be.True(t, e == nil)
			be.Equal(t, p.Cursor().Pos(), 0)
			be.Equal(t, len(a.live), 0)
			be.Equal(t, a.doubleFrees, 0)
			return
		}

		be.Equal(t, Count(e), len(a.live))
		_ = Eval(e)
		_ = ToSExpr(e)
		p.Destroy(e)
		be.Equal(t, len(a.live), 0)
		be.Equal(t, a.doubleFrees, 0)
	})
}
