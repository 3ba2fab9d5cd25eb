package codegen

import (
	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// compileLogical implements the short-circuit AND/OR of spec.md §4.4: for
// AND, a false left side short-circuits to false without evaluating right;
// for OR, a true left side short-circuits to true. A null operand that does
// not short-circuit the result propagates as null, matching three-valued
// SQL boolean logic.
func compileLogical(n *expression.Logical, path string, ctx *compileCtx) (evalFunc, error) {
	left, err := compileNode(n.Left, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}
	right, err := compileNode(n.Right, childPath(path, 1), ctx)
	if err != nil {
		return nil, err
	}

	if n.Op == expression.LogicalAnd {
		return func(row ksql.Row) (interface{}, error) {
			lv, err := left(row)
			if err != nil {
				return nil, err
			}
			if lv != nil && !lv.(bool) {
				return false, nil
			}
			rv, err := right(row)
			if err != nil {
				return nil, err
			}
			if rv != nil && !rv.(bool) {
				return false, nil
			}
			if lv == nil || rv == nil {
				return nil, nil
			}
			return true, nil
		}, nil
	}

	return func(row ksql.Row) (interface{}, error) {
		lv, err := left(row)
		if err != nil {
			return nil, err
		}
		if lv != nil && lv.(bool) {
			return true, nil
		}
		rv, err := right(row)
		if err != nil {
			return nil, err
		}
		if rv != nil && rv.(bool) {
			return true, nil
		}
		if lv == nil || rv == nil {
			return nil, nil
		}
		return false, nil
	}, nil
}

func compileNot(n *expression.Not, path string, ctx *compileCtx) (evalFunc, error) {
	operand, err := compileNode(n.Operand, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}
	return func(row ksql.Row) (interface{}, error) {
		v, err := operand(row)
		if err != nil || v == nil {
			return nil, err
		}
		return !v.(bool), nil
	}, nil
}

func compileIsNull(n *expression.IsNull, path string, ctx *compileCtx) (evalFunc, error) {
	operand, err := compileNode(n.Operand, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}
	return func(row ksql.Row) (interface{}, error) {
		v, err := operand(row)
		if err != nil {
			return nil, err
		}
		return v == nil, nil
	}, nil
}

func compileIsNotNull(n *expression.IsNotNull, path string, ctx *compileCtx) (evalFunc, error) {
	operand, err := compileNode(n.Operand, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}
	return func(row ksql.Row) (interface{}, error) {
		v, err := operand(row)
		if err != nil {
			return nil, err
		}
		return v != nil, nil
	}, nil
}
