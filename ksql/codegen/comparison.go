package codegen

import (
	"strings"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// compileComparison implements spec.md §4.4: "return false for any
// comparison where either operand is null", and "comparison between DECIMAL
// and non-decimal widens the non-decimal side to decimal".
func compileComparison(n *expression.Comparison, path string, ctx *compileCtx) (evalFunc, error) {
	lhsType, err := inferOf(n.Left, ctx)
	if err != nil {
		return nil, err
	}
	rhsType, err := inferOf(n.Right, ctx)
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
	op := n.Op

	return func(row ksql.Row) (interface{}, error) {
		lv, err := left(row)
		if err != nil {
			return nil, err
		}
		rv, err := right(row)
		if err != nil {
			return nil, err
		}
		if lv == nil || rv == nil {
			return false, nil
		}
		cmp, err := compareValues(lv, rv, lhsType, rhsType)
		if err != nil {
			return nil, err
		}
		return applyCompareOp(op, cmp), nil
	}, nil
}

func applyCompareOp(op expression.CompareOp, cmp int) bool {
	switch op {
	case expression.CmpEq:
		return cmp == 0
	case expression.CmpNeq:
		return cmp != 0
	case expression.CmpLt:
		return cmp < 0
	case expression.CmpLte:
		return cmp <= 0
	case expression.CmpGt:
		return cmp > 0
	case expression.CmpGte:
		return cmp >= 0
	default:
		return false
	}
}

func compareValues(lv, rv interface{}, lt, rt ksql.SqlType) (int, error) {
	switch {
	case lt.Kind() == ksql.KindString || rt.Kind() == ksql.KindString:
		ls, _ := lv.(string)
		rs, _ := rv.(string)
		return strings.Compare(ls, rs), nil

	case lt.Kind() == ksql.KindBoolean || rt.Kind() == ksql.KindBoolean:
		lb, _ := lv.(bool)
		rb, _ := rv.(bool)
		switch {
		case lb == rb:
			return 0, nil
		case lb:
			return 1, nil
		default:
			return -1, nil
		}

	case lt.Kind() == ksql.KindDecimal || rt.Kind() == ksql.KindDecimal:
		ld, err := toDecimal(lv)
		if err != nil {
			return 0, err
		}
		rd, err := toDecimal(rv)
		if err != nil {
			return 0, err
		}
		return ld.Cmp(rd), nil

	case lt.Kind() == ksql.KindDouble || rt.Kind() == ksql.KindDouble:
		lf, _ := toFloat64(lv)
		rf, _ := toFloat64(rv)
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		default:
			return 0, nil
		}

	default:
		li, _ := toInt64(lv)
		ri, _ := toInt64(rv)
		switch {
		case li < ri:
			return -1, nil
		case li > ri:
			return 1, nil
		default:
			return 0, nil
		}
	}
}

// compileBetween desugars Operand BETWEEN Low AND High into the two
// comparisons it's equivalent to, AND'd together with the same short
// circuit AND gets elsewhere (§4.4).
func compileBetween(n *expression.Between, path string, ctx *compileCtx) (evalFunc, error) {
	ge, err := compileComparison(&expression.Comparison{Op: expression.CmpGte, Left: n.Operand, Right: n.Low}, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}
	le, err := compileComparison(&expression.Comparison{Op: expression.CmpLte, Left: n.Operand, Right: n.High}, childPath(path, 1), ctx)
	if err != nil {
		return nil, err
	}
	return func(row ksql.Row) (interface{}, error) {
		lo, err := ge(row)
		if err != nil {
			return nil, err
		}
		if !lo.(bool) {
			return false, nil
		}
		return le(row)
	}, nil
}

// compileIn evaluates Operand IN (Items...): true if Operand equals any
// item, false (never null) if the operand or every item is non-matching —
// matching the teacher's comparison-based desugaring of IN into a chain of
// equality checks (sql/expression/in.go evaluates each item against the
// left side the same way).
func compileIn(n *expression.In, path string, ctx *compileCtx) (evalFunc, error) {
	operandType, err := inferOf(n.Operand, ctx)
	if err != nil {
		return nil, err
	}
	operand, err := compileNode(n.Operand, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}

	type item struct {
		eval evalFunc
		typ  ksql.SqlType
	}
	items := make([]item, len(n.Items))
	for i, it := range n.Items {
		itType, err := inferOf(it, ctx)
		if err != nil {
			return nil, err
		}
		itEval, err := compileNode(it, childPath(path, i+1), ctx)
		if err != nil {
			return nil, err
		}
		items[i] = item{eval: itEval, typ: itType}
	}

	return func(row ksql.Row) (interface{}, error) {
		lv, err := operand(row)
		if err != nil || lv == nil {
			return false, err
		}
		for _, it := range items {
			rv, err := it.eval(row)
			if err != nil {
				return nil, err
			}
			if rv == nil {
				continue
			}
			cmp, err := compareValues(lv, rv, operandType, it.typ)
			if err != nil {
				return nil, err
			}
			if cmp == 0 {
				return true, nil
			}
		}
		return false, nil
	}, nil
}
