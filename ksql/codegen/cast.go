package codegen

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

func compileCast(n *expression.Cast, path string, ctx *compileCtx) (evalFunc, error) {
	srcType, err := inferOf(n.Operand, ctx)
	if err != nil {
		return nil, err
	}
	if !ksql.CastableTo(srcType, n.TargetType) {
		return nil, ksql.ErrCastNotSupported.New(srcType, n.TargetType)
	}
	operand, err := compileNode(n.Operand, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}
	target := n.TargetType
	return func(row ksql.Row) (interface{}, error) {
		v, err := operand(row)
		if err != nil || v == nil {
			return nil, err
		}
		return castValue(v, target)
	}, nil
}

// castValue implements the runtime side of CastableTo: it actually
// converts a value of whatever type inference validated as castable to
// target's Go representation. Conversion itself is delegated to
// spf13/cast, the same interface{}-numeric-conversion library the teacher
// imports in sql/numbertype.go and sql/textbintype.go; decimal.Decimal is
// handled separately since cast has no notion of it.
func castValue(v interface{}, target ksql.SqlType) (interface{}, error) {
	switch target.Kind() {
	case ksql.KindString:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("codegen: cannot cast %v to STRING", v)
		}
		return s, nil

	case ksql.KindBoolean:
		if d, ok := v.(decimal.Decimal); ok {
			return !d.IsZero(), nil
		}
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, fmt.Errorf("codegen: cannot cast %v to BOOLEAN", v)
		}
		return b, nil

	case ksql.KindInteger, ksql.KindBigInt:
		i, err := castToInt64(v)
		if err != nil {
			return nil, err
		}
		if target.Kind() == ksql.KindInteger {
			return int32(i), nil
		}
		return i, nil

	case ksql.KindDouble:
		if d, ok := v.(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f, nil
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("codegen: cannot cast %v to DOUBLE", v)
		}
		return f, nil

	case ksql.KindDecimal:
		var d decimal.Decimal
		var err error
		switch x := v.(type) {
		case bool:
			if x {
				d = decimal.NewFromInt(1)
			} else {
				d = decimal.Zero
			}
		default:
			d, err = toDecimal(x)
			if err != nil {
				return nil, err
			}
		}
		return d.Truncate(int32(target.Scale())), nil

	default:
		return nil, fmt.Errorf("codegen: cannot cast to %s", target)
	}
}

func castToInt64(v interface{}) (int64, error) {
	if d, ok := v.(decimal.Decimal); ok {
		return d.IntPart(), nil
	}
	i, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("codegen: cannot cast %v to an integer type", v)
	}
	return i, nil
}

// compileSubscript implements ARRAY/MAP indexing (spec.md §4.2, §4.4):
// negative array indices count from the end.
func compileSubscript(n *expression.Subscript, path string, ctx *compileCtx) (evalFunc, error) {
	baseType, err := inferOf(n.Base, ctx)
	if err != nil {
		return nil, err
	}
	base, err := compileNode(n.Base, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}
	index, err := compileNode(n.Index, childPath(path, 1), ctx)
	if err != nil {
		return nil, err
	}

	switch baseType.Kind() {
	case ksql.KindArray:
		return func(row ksql.Row) (interface{}, error) {
			bv, err := base(row)
			if err != nil || bv == nil {
				return nil, err
			}
			iv, err := index(row)
			if err != nil || iv == nil {
				return nil, err
			}
			arr, ok := bv.([]interface{})
			if !ok {
				return nil, fmt.Errorf("codegen: %v is not an array", bv)
			}
			idx64, _ := toInt64(iv)
			idx := int(idx64)
			if idx < 0 {
				idx += len(arr)
			}
			if idx < 0 || idx >= len(arr) {
				return nil, nil
			}
			return arr[idx], nil
		}, nil

	case ksql.KindMap:
		return func(row ksql.Row) (interface{}, error) {
			bv, err := base(row)
			if err != nil || bv == nil {
				return nil, err
			}
			iv, err := index(row)
			if err != nil || iv == nil {
				return nil, err
			}
			m, ok := bv.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("codegen: %v is not a map", bv)
			}
			key, _ := iv.(string)
			v, ok := m[key]
			if !ok {
				return nil, nil
			}
			return v, nil
		}, nil

	default:
		return nil, ksql.ErrSubscriptBaseNotContainer.New(baseType)
	}
}

// compileDereference accesses a named STRUCT field (spec.md §3
// Dereference). Runtime STRUCT values are represented as
// map[string]interface{}, matching codegen's Subscript MAP representation.
func compileDereference(n *expression.Dereference, path string, ctx *compileCtx) (evalFunc, error) {
	baseType, err := inferOf(n.Base, ctx)
	if err != nil {
		return nil, err
	}
	if baseType.Kind() != ksql.KindStruct {
		return nil, ksql.ErrDereferenceUnresolved.New(n.Field)
	}
	base, err := compileNode(n.Base, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}
	field := n.Field
	return func(row ksql.Row) (interface{}, error) {
		bv, err := base(row)
		if err != nil || bv == nil {
			return nil, err
		}
		m, ok := bv.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("codegen: %v is not a struct", bv)
		}
		return m[field], nil
	}, nil
}
