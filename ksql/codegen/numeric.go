package codegen

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// compileArithmetic emits the numeric semantics spec.md §4.4 requires:
// exactly the promotion type inference computed (§4.2), decimal math via
// shopspring/decimal rescaled to the inferred scale (MathContext(precision,
// UNNECESSARY) in spirit — the type system's scale/precision is
// authoritative and the evaluator never silently rounds beyond it), and
// null-propagation (either operand nil yields a nil result).
func compileArithmetic(n *expression.Arithmetic, path string, ctx *compileCtx) (evalFunc, error) {
	lhsType, err := inferOf(n.Left, ctx)
	if err != nil {
		return nil, err
	}
	rhsType, err := inferOf(n.Right, ctx)
	if err != nil {
		return nil, err
	}
	resultType, err := ksql.PromoteArithmetic(lhsType, rhsType, n.Op)
	if err != nil {
		return nil, err
	}

	left, err := compileNode(n.Left, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}
	right, err := compileNode(n.Right, childPath(path, 1), ctx)
	if err != nil {
		return nil, err
	}

	switch resultType.Kind() {
	case ksql.KindDecimal:
		scale := int32(resultType.Scale())
		return func(row ksql.Row) (interface{}, error) {
			lv, err := left(row)
			if err != nil || lv == nil {
				return nil, err
			}
			rv, err := right(row)
			if err != nil || rv == nil {
				return nil, err
			}
			ld, err := toDecimal(lv)
			if err != nil {
				return nil, err
			}
			rd, err := toDecimal(rv)
			if err != nil {
				return nil, err
			}
			return decimalArithmetic(ld, rd, n.Op, scale), nil
		}, nil

	case ksql.KindDouble:
		return func(row ksql.Row) (interface{}, error) {
			lv, err := left(row)
			if err != nil || lv == nil {
				return nil, err
			}
			rv, err := right(row)
			if err != nil || rv == nil {
				return nil, err
			}
			lf, ok := toFloat64(lv)
			if !ok {
				return nil, fmt.Errorf("codegen: %v is not numeric", lv)
			}
			rf, ok := toFloat64(rv)
			if !ok {
				return nil, fmt.Errorf("codegen: %v is not numeric", rv)
			}
			return floatArithmetic(lf, rf, n.Op), nil
		}, nil

	default: // INTEGER or BIGINT
		asInt32 := resultType.Equals(ksql.Integer)
		return func(row ksql.Row) (interface{}, error) {
			lv, err := left(row)
			if err != nil || lv == nil {
				return nil, err
			}
			rv, err := right(row)
			if err != nil || rv == nil {
				return nil, err
			}
			li, ok := toInt64(lv)
			if !ok {
				return nil, fmt.Errorf("codegen: %v is not numeric", lv)
			}
			ri, ok := toInt64(rv)
			if !ok {
				return nil, fmt.Errorf("codegen: %v is not numeric", rv)
			}
			result := intArithmetic(li, ri, n.Op)
			if asInt32 {
				return int32(result), nil
			}
			return result, nil
		}, nil
	}
}

func compileNegate(n *expression.Negate, path string, ctx *compileCtx) (evalFunc, error) {
	operandType, err := inferOf(n.Operand, ctx)
	if err != nil {
		return nil, err
	}
	operand, err := compileNode(n.Operand, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}

	switch operandType.Kind() {
	case ksql.KindDecimal:
		return func(row ksql.Row) (interface{}, error) {
			v, err := operand(row)
			if err != nil || v == nil {
				return nil, err
			}
			d, err := toDecimal(v)
			if err != nil {
				return nil, err
			}
			return d.Neg(), nil
		}, nil
	case ksql.KindDouble:
		return func(row ksql.Row) (interface{}, error) {
			v, err := operand(row)
			if err != nil || v == nil {
				return nil, err
			}
			f, _ := toFloat64(v)
			return -f, nil
		}, nil
	default:
		asInt32 := operandType.Equals(ksql.Integer)
		return func(row ksql.Row) (interface{}, error) {
			v, err := operand(row)
			if err != nil || v == nil {
				return nil, err
			}
			i, _ := toInt64(v)
			if asInt32 {
				return int32(-i), nil
			}
			return -i, nil
		}, nil
	}
}

func decimalArithmetic(l, r decimal.Decimal, op ksql.ArithmeticOp, scale int32) decimal.Decimal {
	switch op {
	case ksql.OpAdd:
		return l.Add(r).Truncate(scale).Round(scale)
	case ksql.OpSub:
		return l.Sub(r).Truncate(scale).Round(scale)
	case ksql.OpMul:
		return l.Mul(r).Truncate(scale).Round(scale)
	case ksql.OpDiv:
		return l.DivRound(r, scale)
	default:
		return decimal.Zero
	}
}

func floatArithmetic(l, r float64, op ksql.ArithmeticOp) float64 {
	switch op {
	case ksql.OpAdd:
		return l + r
	case ksql.OpSub:
		return l - r
	case ksql.OpMul:
		return l * r
	case ksql.OpDiv:
		return l / r
	default:
		return 0
	}
}

func intArithmetic(l, r int64, op ksql.ArithmeticOp) int64 {
	switch op {
	case ksql.OpAdd:
		return l + r
	case ksql.OpSub:
		return l - r
	case ksql.OpMul:
		return l * r
	case ksql.OpDiv:
		if r == 0 {
			return 0
		}
		return l / r
	default:
		return 0
	}
}

// toDecimal widens any numeric runtime value (int32, int64, float64,
// string, or decimal.Decimal itself) to a decimal.Decimal. Grounded on
// sql/decimal.go's use of shopspring/decimal as the teacher's DECIMAL
// backing representation; non-decimal numeric conversion delegates to
// spf13/cast, the same interface{}-numeric-conversion library the teacher
// imports in sql/numbertype.go and sql/textbintype.go, rather than a
// hand-rolled type switch.
func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case int32:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case string:
		return decimal.NewFromString(x)
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("codegen: %v (%T) is not decimal-convertible", v, v)
		}
		return decimal.NewFromFloat(f), nil
	}
}

func toFloat64(v interface{}) (float64, bool) {
	if d, ok := v.(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f, true
	}
	f, err := cast.ToFloat64E(v)
	return f, err == nil
}

func toInt64(v interface{}) (int64, bool) {
	i, err := cast.ToInt64E(v)
	return i, err == nil
}
