package mc

import (
	"math"

	"github.com/anvielabs/mcc/logger"
)

// Eval reduces e to a number. It is a pure calculator: identifiers and
// assignments evaluate to 0 because there is no store behind them, and
// postfix increments yield the operand unchanged.
func Eval(e *Expr) float64 {
	if e == nil {
		return 0
	}

	switch e.Kind {
	case ExprNumber:
		if e.IsInt {
			return float64(e.Int)
		}
		return e.Float

	case ExprAdd:
		return evalChild(e, 0) + evalChild(e, 1)
	case ExprSub:
		return evalChild(e, 0) - evalChild(e, 1)
	case ExprMul:
		return evalChild(e, 0) * evalChild(e, 1)
	case ExprDiv:
		return evalChild(e, 0) / evalChild(e, 1)

	case ExprAnd, ExprOr, ExprXor, ExprMod, ExprShl, ExprShr:
		return evalBitwise(e.Kind, toUint(evalChild(e, 0)), toUint(evalChild(e, 1)))

	case ExprLt:
		return boolValue(evalChild(e, 0) < evalChild(e, 1))
	case ExprGt:
		return boolValue(evalChild(e, 0) > evalChild(e, 1))
	case ExprLe:
		return boolValue(evalChild(e, 0) <= evalChild(e, 1))
	case ExprGe:
		return boolValue(evalChild(e, 0) >= evalChild(e, 1))
	case ExprEq:
		return boolValue(evalChild(e, 0) == evalChild(e, 1))
	case ExprNe:
		return boolValue(evalChild(e, 0) != evalChild(e, 1))

	// Both sides are always evaluated; nothing here has side effects.
	case ExprLogAnd:
		l, r := evalChild(e, 0) != 0, evalChild(e, 1) != 0
		return boolValue(l && r)
	case ExprLogOr:
		l, r := evalChild(e, 0) != 0, evalChild(e, 1) != 0
		return boolValue(l || r)

	case ExprPlus:
		return evalChild(e, 0)
	case ExprMinus:
		return -evalChild(e, 0)
	case ExprLogNot:
		return boolValue(evalChild(e, 0) == 0)
	case ExprNot:
		return float64(^toUint(evalChild(e, 0)))
	case ExprPreInc:
		return evalChild(e, 0) + 1
	case ExprPreDec:
		return evalChild(e, 0) - 1
	case ExprPostInc, ExprPostDec:
		return evalChild(e, 0)

	case ExprTernary:
		if evalChild(e, 0) != 0 {
			return evalChild(e, 1)
		}
		return evalChild(e, 2)

	case ExprCast:
		return evalChild(e, 0)

	case ExprList:
		if len(e.Children) == 0 {
			return 0
		}
		return Eval(e.Children[len(e.Children)-1])

	case ExprIdent, ExprAssign, ExprAddAssign, ExprSubAssign, ExprMulAssign,
		ExprDivAssign, ExprModAssign, ExprAndAssign, ExprOrAssign, ExprXorAssign,
		ExprShrAssign, ExprShlAssign:
		return 0

	// No memory, calls or layout information exist to evaluate these.
	case ExprCall, ExprSubscript, ExprAccess, ExprPtrAccess, ExprAddr, ExprDeref,
		ExprSizeOf, ExprAlignOf, ExprInvalid:
		return 0

	default:
		logger.Error("unreachable code reached: invalid expression type", "kind", int(e.Kind))
		return 0
	}
}

func evalBitwise(kind ExprKind, l, r uint64) float64 {
	switch kind {
	case ExprAnd:
		return float64(l & r)
	case ExprOr:
		return float64(l | r)
	case ExprXor:
		return float64(l ^ r)
	case ExprShl:
		return float64(l << r)
	case ExprShr:
		return float64(l >> r)
	default: // ExprMod
		if r == 0 {
			return math.NaN()
		}
		return float64(l % r)
	}
}

// toUint truncates f to 64 bits. Negative values wrap the way a C cast
// through a signed integer does.
func toUint(f float64) uint64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f < 0:
		if f <= math.MinInt64 {
			return 1 << 63
		}
		return uint64(int64(f))
	case f >= math.MaxUint64:
		return math.MaxUint64
	default:
		return uint64(f)
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// evalChild evaluates the i-th child, treating a missing child as absent.
func evalChild(e *Expr, i int) float64 {
	if i >= len(e.Children) {
		return 0
	}
	return Eval(e.Children[i])
}
