package codegen

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

func testSchema(t *testing.T) ksql.LogicalSchema {
	s, err := ksql.Build(
		[]ksql.Column{ksql.NewColumn(ksql.ColumnNameOf("a"), ksql.Integer, ksql.NamespaceKey, 0)},
		[]ksql.Column{
			ksql.NewColumn(ksql.ColumnNameOf("a"), ksql.Integer, ksql.NamespaceValue, 0),
			ksql.NewColumn(ksql.ColumnNameOf("b"), ksql.String, ksql.NamespaceValue, 1),
			ksql.NewColumn(ksql.ColumnNameOf("p"), ksql.Decimal(5, 2), ksql.NamespaceValue, 2),
			ksql.NewColumn(ksql.ColumnNameOf("q"), ksql.Decimal(4, 1), ksql.NamespaceValue, 3),
		},
	)
	require.NoError(t, err)
	return s
}

func TestCompileColumnRef(t *testing.T) {
	eval, err := Compile(expression.NewColumnRef("b"), testSchema(t), nil)
	require.NoError(t, err)
	v, err := eval.Eval(ksql.NewRow(int32(1), "hello", decimal.Zero, decimal.Zero))
	require.NoError(t, err)
	require.Equal(t, "hello", v)
}

func TestCompileRequiredColumns(t *testing.T) {
	e := expression.NewComparison(expression.CmpEq, expression.NewColumnRef("a"), expression.NewColumnRef("a"))
	eval, err := Compile(e, testSchema(t), nil)
	require.NoError(t, err)
	require.Len(t, eval.RequiredColumns(), 1)
	require.Equal(t, "a", eval.RequiredColumns()[0].FullName)
}

func TestCompileDecimalArithmeticExactRescale(t *testing.T) {
	e := expression.NewArithmetic(ksql.OpAdd, expression.NewColumnRef("p"), expression.NewColumnRef("q"))
	eval, err := Compile(e, testSchema(t), nil)
	require.NoError(t, err)
	require.Equal(t, ksql.KindDecimal, eval.Type().Kind())

	p := decimal.NewFromFloat(1.23)
	q := decimal.NewFromFloat(4.5)
	v, err := eval.Eval(ksql.NewRow(int32(0), "", p, q))
	require.NoError(t, err)
	result := v.(decimal.Decimal)
	require.True(t, result.Equal(decimal.NewFromFloat(5.73)), result.String())
	require.Equal(t, int32(eval.Type().Scale()), result.Exponent()*-1)
}

func TestCompileComparisonNullIsFalse(t *testing.T) {
	e := expression.NewComparison(expression.CmpEq, expression.NewColumnRef("a"), expression.NewColumnRef("a"))
	eval, err := Compile(e, testSchema(t), nil)
	require.NoError(t, err)
	v, err := eval.Eval(ksql.NewRow(nil, "", decimal.Zero, decimal.Zero))
	require.NoError(t, err)
	require.Equal(t, false, v)
}

func TestCompileLogicalAndUnresolvedColumnFailsToCompile(t *testing.T) {
	left := expression.NewComparison(expression.CmpEq, expression.NewColumnRef("a"), expression.NewLiteral(int32(999), ksql.Integer))
	right := expression.NewColumnRef("nonexistent")
	_, err := Compile(expression.NewLogical(expression.LogicalAnd, left, right), testSchema(t), nil)
	require.Error(t, err) // unresolved column still fails to *compile*; short circuit is a runtime property only
}

func TestCompileLogicalAndShortCircuitsAtRuntime(t *testing.T) {
	calls := 0
	reg := probeRegistry{calls: &calls}
	probe := expression.NewFunctionCall(ksql.FunctionNameOf("PROBE"), nil)

	and := expression.NewLogical(expression.LogicalAnd, expression.NewLiteral(false, ksql.Boolean), probe)
	eval, err := Compile(and, testSchema(t), reg)
	require.NoError(t, err)
	v, err := eval.Eval(ksql.NewRow(int32(0), "", decimal.Zero, decimal.Zero))
	require.NoError(t, err)
	require.Equal(t, false, v)
	require.Equal(t, 0, calls)

	and = expression.NewLogical(expression.LogicalAnd, expression.NewLiteral(true, ksql.Boolean), probe)
	eval, err = Compile(and, testSchema(t), reg)
	require.NoError(t, err)
	v, err = eval.Eval(ksql.NewRow(int32(0), "", decimal.Zero, decimal.Zero))
	require.NoError(t, err)
	require.Equal(t, true, v)
	require.Equal(t, 1, calls)
}

// probeRegistry resolves PROBE() to a BOOLEAN function that counts its calls.
type probeFunc struct{ calls *int }

func (f probeFunc) Apply(args []interface{}) (interface{}, error) {
	*f.calls++
	return true, nil
}

type probeDescriptor struct{ calls *int }

func (probeDescriptor) Name() ksql.FunctionName { return ksql.FunctionNameOf("PROBE") }
func (probeDescriptor) ReturnType(argTypes []ksql.SqlType) (ksql.SqlType, error) {
	return ksql.Boolean, nil
}
func (d probeDescriptor) NewInstance() ksql.FunctionInstance { return probeFunc{calls: d.calls} }

type probeRegistry struct{ calls *int }

func (probeRegistry) IsAggregate(name ksql.FunctionName) bool { return false }
func (r probeRegistry) GetScalar(name ksql.FunctionName, argTypes []ksql.SqlType) (ksql.FunctionDescriptor, error) {
	if name.Text() != "PROBE" {
		return nil, ksql.ErrUnknownFunction.New(name.Text())
	}
	return probeDescriptor{calls: r.calls}, nil
}
func (probeRegistry) GetAggregate(name ksql.FunctionName, argType ksql.SqlType) (ksql.AggregateDescriptor, error) {
	return nil, ksql.ErrUnknownFunction.New(name.Text())
}

func TestCompileLikePatterns(t *testing.T) {
	cases := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"hello", "hello", true},
		{"hello", "hellx", false},
		{"he%", "hello", true},
		{"%lo", "hello", true},
		{"%ell%", "hello", true},
		// A pattern with no '%' is compared for equality, so '_' is literal.
		{"h_llo", "hello", false},
		{"h_llo", "hallo", false},
		{"h_llo", "hxllo", false},
		{"h_llo", "halo", false},
	}
	for _, c := range cases {
		e := expression.NewLike(expression.NewColumnRef("b"), expression.NewLiteral(c.pattern, ksql.String))
		eval, err := Compile(e, testSchema(t), nil)
		require.NoError(t, err)
		v, err := eval.Eval(ksql.NewRow(int32(0), c.value, decimal.Zero, decimal.Zero))
		require.NoError(t, err)
		require.Equal(t, c.want, v, "pattern %q value %q", c.pattern, c.value)
	}
}

func TestCompileCastStringToBoolean(t *testing.T) {
	e := expression.NewCast(expression.NewColumnRef("b"), ksql.Boolean)
	eval, err := Compile(e, testSchema(t), nil)
	require.NoError(t, err)
	v, err := eval.Eval(ksql.NewRow(int32(0), "true", decimal.Zero, decimal.Zero))
	require.NoError(t, err)
	require.Equal(t, true, v)
}

func TestCompileSubscriptNegativeArrayIndex(t *testing.T) {
	schema, err := ksql.Build(nil, []ksql.Column{
		ksql.NewColumn(ksql.ColumnNameOf("arr"), ksql.Array(ksql.Integer), ksql.NamespaceValue, 0),
	})
	require.NoError(t, err)
	e := expression.NewSubscript(expression.NewColumnRef("arr"), expression.NewLiteral(int32(-1), ksql.Integer))
	eval, err := Compile(e, schema, nil)
	require.NoError(t, err)
	v, err := eval.Eval(ksql.NewRow([]interface{}{1, 2, 3}))
	require.NoError(t, err)
	require.Equal(t, 3, v)
}

func TestCompileSearchedCase(t *testing.T) {
	c := expression.NewSearchedCase([]expression.WhenThen{
		{When: expression.NewComparison(expression.CmpEq, expression.NewColumnRef("a"), expression.NewLiteral(int32(1), ksql.Integer)), Then: expression.NewLiteral("one", ksql.String)},
	}, expression.NewLiteral("other", ksql.String))
	eval, err := Compile(c, testSchema(t), nil)
	require.NoError(t, err)

	v, err := eval.Eval(ksql.NewRow(int32(1), "", decimal.Zero, decimal.Zero))
	require.NoError(t, err)
	require.Equal(t, "one", v)

	v, err = eval.Eval(ksql.NewRow(int32(2), "", decimal.Zero, decimal.Zero))
	require.NoError(t, err)
	require.Equal(t, "other", v)
}

type upperFunc struct{}

func (upperFunc) Apply(args []interface{}) (interface{}, error) {
	return args[0], nil
}

type upperDescriptor struct{}

func (upperDescriptor) Name() ksql.FunctionName { return ksql.FunctionNameOf("UPPER") }
func (upperDescriptor) ReturnType(argTypes []ksql.SqlType) (ksql.SqlType, error) {
	return ksql.String, nil
}
func (upperDescriptor) NewInstance() ksql.FunctionInstance { return upperFunc{} }

type fnRegistry struct{}

func (fnRegistry) IsAggregate(name ksql.FunctionName) bool { return name.Text() == "COUNT" }
func (fnRegistry) GetScalar(name ksql.FunctionName, argTypes []ksql.SqlType) (ksql.FunctionDescriptor, error) {
	if name.Text() != "UPPER" {
		return nil, ksql.ErrUnknownFunction.New(name.Text())
	}
	return upperDescriptor{}, nil
}
func (fnRegistry) GetAggregate(name ksql.FunctionName, argType ksql.SqlType) (ksql.AggregateDescriptor, error) {
	return nil, ksql.ErrUnknownFunction.New(name.Text())
}

func TestCompileFunctionCallSites(t *testing.T) {
	e := expression.NewComparison(expression.CmpEq,
		expression.NewFunctionCall(ksql.FunctionNameOf("UPPER"), []expression.Expression{expression.NewLiteral(int32(1), ksql.Integer)}),
		expression.NewFunctionCall(ksql.FunctionNameOf("UPPER"), []expression.Expression{expression.NewLiteral(int32(2), ksql.Integer)}),
	)
	eval, err := Compile(e, testSchema(t), fnRegistry{})
	require.NoError(t, err)
	require.Len(t, eval.FunctionSites(), 2)
	require.NotEqual(t, eval.FunctionSites()[0].ID, eval.FunctionSites()[1].ID)
}

func TestCompileAggregateInScalarContextErrors(t *testing.T) {
	e := expression.NewFunctionCall(ksql.FunctionNameOf("COUNT"), []expression.Expression{expression.NewColumnRef("a")})
	_, err := Compile(e, testSchema(t), fnRegistry{})
	require.Error(t, err)
}
