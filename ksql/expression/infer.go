package expression

import (
	"github.com/johnswan/ksql/ksql"
)

// InferContext carries the state a type-inference walk needs at every node
// (spec.md §4.2): the schema the expression is checked against and the
// function registry collaborator used to resolve FunctionCall. Grounded on
// the teacher's pattern of threading a *sql.Context through Type()
// resolution, narrowed here to the two read-only collaborators inference
// actually needs.
type InferContext struct {
	Schema   ksql.LogicalSchema
	Registry ksql.FunctionRegistry
}

// Infer walks e against ctx and returns its SqlType, or a typed error
// matching one of the kinds in spec.md §7. It is a pure function: the same
// (e, ctx) always returns the same result (§5 determinism).
func Infer(e Expression, ctx InferContext) (ksql.SqlType, error) {
	switch n := e.(type) {
	case *Literal:
		if !n.Typed {
			return ksql.Unknown, nil
		}
		return n.Typ, nil

	case *ColumnRef:
		col, ok := ctx.Schema.FindColumn(n.FullName)
		if !ok {
			return ksql.SqlType{}, ksql.ErrUnknownColumn.New(n.FullName)
		}
		return col.Type(), nil

	case *Arithmetic:
		lt, err := Infer(n.Left, ctx)
		if err != nil {
			return ksql.SqlType{}, err
		}
		rt, err := Infer(n.Right, ctx)
		if err != nil {
			return ksql.SqlType{}, err
		}
		return ksql.PromoteArithmetic(lt, rt, n.Op)

	case *Negate:
		t, err := Infer(n.Operand, ctx)
		if err != nil {
			return ksql.SqlType{}, err
		}
		if !t.IsNumeric() && !t.IsUnknown() {
			return ksql.SqlType{}, ksql.ErrArithmeticTypeMismatch.New("-", t, t)
		}
		return t, nil

	case *Comparison:
		return inferComparison(n.Left, n.Right, ctx)

	case *Between:
		if _, err := inferComparison(n.Operand, n.Low, ctx); err != nil {
			return ksql.SqlType{}, err
		}
		if _, err := inferComparison(n.Operand, n.High, ctx); err != nil {
			return ksql.SqlType{}, err
		}
		return ksql.Boolean, nil

	case *Like:
		ot, err := Infer(n.Operand, ctx)
		if err != nil {
			return ksql.SqlType{}, err
		}
		pt, err := Infer(n.Pattern, ctx)
		if err != nil {
			return ksql.SqlType{}, err
		}
		if !ot.IsUnknown() && !ot.Equals(ksql.String) {
			return ksql.SqlType{}, ksql.ErrTypeMismatch.New("LIKE operand must be STRING, got " + ot.String())
		}
		if !pt.IsUnknown() && !pt.Equals(ksql.String) {
			return ksql.SqlType{}, ksql.ErrTypeMismatch.New("LIKE pattern must be STRING, got " + pt.String())
		}
		return ksql.Boolean, nil

	case *In:
		if _, err := Infer(n.Operand, ctx); err != nil {
			return ksql.SqlType{}, err
		}
		for _, item := range n.Items {
			if _, err := inferComparison(n.Operand, item, ctx); err != nil {
				return ksql.SqlType{}, err
			}
		}
		return ksql.Boolean, nil

	case *Logical:
		if err := requireBoolean(n.Left, ctx); err != nil {
			return ksql.SqlType{}, err
		}
		if err := requireBoolean(n.Right, ctx); err != nil {
			return ksql.SqlType{}, err
		}
		return ksql.Boolean, nil

	case *Not:
		if err := requireBoolean(n.Operand, ctx); err != nil {
			return ksql.SqlType{}, err
		}
		return ksql.Boolean, nil

	case *IsNull:
		if _, err := Infer(n.Operand, ctx); err != nil {
			return ksql.SqlType{}, err
		}
		return ksql.Boolean, nil

	case *IsNotNull:
		if _, err := Infer(n.Operand, ctx); err != nil {
			return ksql.SqlType{}, err
		}
		return ksql.Boolean, nil

	case *Cast:
		src, err := Infer(n.Operand, ctx)
		if err != nil {
			return ksql.SqlType{}, err
		}
		if !ksql.CastableTo(src, n.TargetType) {
			return ksql.SqlType{}, ksql.ErrCastNotSupported.New(src, n.TargetType)
		}
		return n.TargetType, nil

	case *Subscript:
		bt, err := Infer(n.Base, ctx)
		if err != nil {
			return ksql.SqlType{}, err
		}
		it, err := Infer(n.Index, ctx)
		if err != nil {
			return ksql.SqlType{}, err
		}
		switch bt.Kind() {
		case ksql.KindArray:
			if !it.IsUnknown() && !it.Equals(ksql.Integer) && !it.Equals(ksql.BigInt) {
				return ksql.SqlType{}, ksql.ErrTypeMismatch.New("ARRAY subscript index must be INTEGER, got " + it.String())
			}
			return bt.ElementType(), nil
		case ksql.KindMap:
			if !it.IsUnknown() && !it.Equals(ksql.String) {
				return ksql.SqlType{}, ksql.ErrTypeMismatch.New("MAP subscript index must be STRING, got " + it.String())
			}
			return bt.ElementType(), nil
		default:
			return ksql.SqlType{}, ksql.ErrSubscriptBaseNotContainer.New(bt)
		}

	case *Dereference:
		bt, err := Infer(n.Base, ctx)
		if err != nil {
			return ksql.SqlType{}, err
		}
		if bt.Kind() != ksql.KindStruct {
			return ksql.SqlType{}, ksql.ErrDereferenceUnresolved.New(n.Field)
		}
		for _, f := range bt.Fields() {
			if f.Name == n.Field {
				return f.Type, nil
			}
		}
		return ksql.SqlType{}, ksql.ErrDereferenceUnresolved.New(n.Field)

	case *SearchedCase:
		var branchTypes []ksql.SqlType
		for _, wt := range n.Whens {
			if err := requireBoolean(wt.When, ctx); err != nil {
				return ksql.SqlType{}, err
			}
			tt, err := Infer(wt.Then, ctx)
			if err != nil {
				return ksql.SqlType{}, err
			}
			branchTypes = append(branchTypes, tt)
		}
		if n.Default != nil {
			dt, err := Infer(n.Default, ctx)
			if err != nil {
				return ksql.SqlType{}, err
			}
			branchTypes = append(branchTypes, dt)
		}
		return commonSupertype(branchTypes)

	case *SimpleCase:
		if _, err := Infer(n.Comparand, ctx); err != nil {
			return ksql.SqlType{}, err
		}
		var branchTypes []ksql.SqlType
		for _, wt := range n.Whens {
			if _, err := inferComparison(n.Comparand, wt.When, ctx); err != nil {
				return ksql.SqlType{}, err
			}
			tt, err := Infer(wt.Then, ctx)
			if err != nil {
				return ksql.SqlType{}, err
			}
			branchTypes = append(branchTypes, tt)
		}
		if n.Default != nil {
			dt, err := Infer(n.Default, ctx)
			if err != nil {
				return ksql.SqlType{}, err
			}
			branchTypes = append(branchTypes, dt)
		}
		return commonSupertype(branchTypes)

	case *FunctionCall:
		return inferFunctionCall(n, ctx)

	default:
		return ksql.SqlType{}, ksql.ErrTypeMismatch.New("unrecognized expression node")
	}
}

func requireBoolean(e Expression, ctx InferContext) error {
	t, err := Infer(e, ctx)
	if err != nil {
		return err
	}
	if t.IsUnknown() {
		return nil
	}
	if !t.Equals(ksql.Boolean) {
		return ksql.ErrTypeMismatch.New("expected BOOLEAN, got " + t.String())
	}
	return nil
}

func inferComparison(left, right Expression, ctx InferContext) (ksql.SqlType, error) {
	lt, err := Infer(left, ctx)
	if err != nil {
		return ksql.SqlType{}, err
	}
	rt, err := Infer(right, ctx)
	if err != nil {
		return ksql.SqlType{}, err
	}
	if !ksql.PromoteComparison(lt, rt) {
		return ksql.SqlType{}, ksql.ErrComparisonIncompatible.New(lt, rt)
	}
	return ksql.Boolean, nil
}

// commonSupertype implements the SearchedCase/SimpleCase rule of spec.md
// §4.2: all THEN results and the ELSE must share a common supertype, else
// CaseTypeMismatch. Unknown (NULL) branches are skipped when determining
// the supertype; if every branch is Unknown, the case's type is Unknown.
func commonSupertype(types []ksql.SqlType) (ksql.SqlType, error) {
	result := ksql.Unknown
	have := false
	for _, t := range types {
		if t.IsUnknown() {
			continue
		}
		if !have {
			result = t
			have = true
			continue
		}
		if result.Equals(t) {
			continue
		}
		if result.IsNumeric() && t.IsNumeric() {
			result = ksql.WidenForComparison(result, t)
			continue
		}
		return ksql.SqlType{}, ksql.ErrCaseTypeMismatch.New(describeTypes(types))
	}
	return result, nil
}

func describeTypes(types []ksql.SqlType) string {
	s := ""
	for i, t := range types {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s
}

func inferFunctionCall(n *FunctionCall, ctx InferContext) (ksql.SqlType, error) {
	if ctx.Registry == nil {
		return ksql.SqlType{}, ksql.ErrUnknownFunction.New(n.Name.Text())
	}

	argTypes := make([]ksql.SqlType, len(n.Args))
	for i, a := range n.Args {
		t, err := Infer(a, ctx)
		if err != nil {
			return ksql.SqlType{}, err
		}
		argTypes[i] = t
	}

	if ctx.Registry.IsAggregate(n.Name) {
		if len(argTypes) != 1 {
			return ksql.SqlType{}, ksql.ErrFunctionArityMismatch.New(n.Name.Text(), 1, len(argTypes))
		}
		desc, err := ctx.Registry.GetAggregate(n.Name, argTypes[0])
		if err != nil {
			return ksql.SqlType{}, err
		}
		return desc.ReturnType(argTypes[0])
	}

	desc, err := ctx.Registry.GetScalar(n.Name, argTypes)
	if err != nil {
		return ksql.SqlType{}, err
	}
	return desc.ReturnType(argTypes)
}
