package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// Scenario 1 (spec.md §8): SELECT a, b FROM S.
func TestScenarioSimpleSelect(t *testing.T) {
	catalog := testCatalog()
	ds, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)

	proj, err := NewProject(testRegistry{}, ds, []ProjectItem{
		{Name: ksql.ColumnNameOf("a"), Expr: expression.NewColumnRef("a")},
		{Name: ksql.ColumnNameOf("b"), Expr: expression.NewColumnRef("b")},
	})
	require.NoError(t, err)

	require.Len(t, proj.Schema().Key(), 1)
	require.Equal(t, "ROWKEY", proj.Schema().Key()[0].Name().Text())
	values := proj.Schema().Value()
	require.Len(t, values, 2)
	require.Equal(t, "a", values[0].Name().Text())
	require.Equal(t, "b", values[1].Name().Text())

	name, ok := proj.KeyField().Name()
	require.True(t, ok)
	require.Equal(t, "a", name.Text())
}

// Scenario 2 (spec.md §8): SELECT COUNT(*) FROM S GROUP BY b.
func TestScenarioGroupByCount(t *testing.T) {
	catalog := testCatalog()
	ds, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)

	gb, err := NewGroupBy(nil, testRegistry{}, ds, []expression.Expression{expression.NewColumnRef("b")}, false)
	require.NoError(t, err)
	require.NotNil(t, gb.Repartition())

	name, ok := gb.KeyField().Name()
	require.True(t, ok)
	require.Equal(t, "b", name.Text())
	require.Equal(t, ksql.SourceTable, gb.Type())

	outputSchema := ksql.MustBuild(
		[]ksql.Column{ksql.NewColumn(ksql.RowkeyName, ksql.String, ksql.NamespaceKey, 0)},
		[]ksql.Column{
			ksql.NewColumn(ksql.ColumnNameOf("b"), ksql.String, ksql.NamespaceValue, 0),
			ksql.NewColumn(ksql.ColumnNameOf("KSQL_COL_0"), ksql.BigInt, ksql.NamespaceValue, 1),
		},
	)
	agg, err := NewAggregate(testRegistry{}, gb, 1, []AggregateFunc{{Name: ksql.FunctionNameOf("COUNT")}}, Window{}, outputSchema)
	require.NoError(t, err)
	require.Equal(t, ksql.SourceTable, agg.Type())
	require.Len(t, agg.Schema().Value(), 2)
}

// Scenario 3 (spec.md §8): SELECT s.a, t.v FROM S s JOIN T t ON s.a = t.a.
func TestScenarioStreamTableJoin(t *testing.T) {
	catalog := testCatalog()
	sAlias := ksql.SourceNameOf("s")
	tAlias := ksql.SourceNameOf("t")

	s, err := NewDataSource(catalog, ksql.SourceNameOf("S"), &sAlias)
	require.NoError(t, err)
	tb, err := NewDataSource(catalog, ksql.SourceNameOf("T"), &tAlias)
	require.NoError(t, err)

	join, err := NewJoin(nil, InnerJoin, s, "s", "s.a", tb, "t", "t.a", nil)
	require.NoError(t, err)

	require.Equal(t, ksql.SourceStream, join.Type())
	require.Equal(t, StreamTableJoiner, join.Joiner())
	require.Len(t, join.Schema().Key(), 1)
	require.Equal(t, "ROWKEY", join.Schema().Key()[0].Name().Text())

	name, ok := join.KeyField().Name()
	require.True(t, ok)
	require.Equal(t, "s.a", name.Text())
}

func TestJoinWithQueryContextSucceeds(t *testing.T) {
	catalog := testCatalog()
	sAlias := ksql.SourceNameOf("s")
	tAlias := ksql.SourceNameOf("t")

	s, err := NewDataSource(catalog, ksql.SourceNameOf("S"), &sAlias)
	require.NoError(t, err)
	tb, err := NewDataSource(catalog, ksql.SourceNameOf("T"), &tAlias)
	require.NoError(t, err)

	ctx := ksql.NewQueryContext("q1", ksql.DefaultConfig())
	join, err := NewJoin(ctx, InnerJoin, s, "s", "s.a", tb, "t", "t.a", nil)
	require.NoError(t, err)
	require.Equal(t, StreamTableJoiner, join.Joiner())
}

// Scenario 4 (spec.md §8): SELECT * FROM S s LEFT JOIN S2 s2 WITHIN 10
// SECONDS ON s.a = s2.a.
func TestScenarioStreamStreamLeftJoinWithin(t *testing.T) {
	catalog := testCatalog()
	sAlias := ksql.SourceNameOf("s")
	s2Alias := ksql.SourceNameOf("s2")

	s, err := NewDataSource(catalog, ksql.SourceNameOf("S"), &sAlias)
	require.NoError(t, err)
	s2, err := NewDataSource(catalog, ksql.SourceNameOf("S2"), &s2Alias)
	require.NoError(t, err)

	within := SymmetricWithin(10 * time.Second)
	join, err := NewJoin(nil, LeftJoin, s, "s", "s.a", s2, "s2", "s2.a", &within)
	require.NoError(t, err)

	require.Equal(t, ksql.SourceStream, join.Type())
	require.Equal(t, StreamStreamJoiner, join.Joiner())
	require.NotNil(t, join.Within())
}

func TestStreamStreamJoinWithoutWithinFails(t *testing.T) {
	catalog := testCatalog()
	s, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)
	s2, err := NewDataSource(catalog, ksql.SourceNameOf("S2"), nil)
	require.NoError(t, err)

	_, err = NewJoin(nil, InnerJoin, s, "", "a", s2, "", "a", nil)
	require.Error(t, err)
}

func TestStreamTableJoinWithWithinFails(t *testing.T) {
	catalog := testCatalog()
	s, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)
	tb, err := NewDataSource(catalog, ksql.SourceNameOf("T"), nil)
	require.NoError(t, err)

	within := SymmetricWithin(time.Second)
	_, err = NewJoin(nil, InnerJoin, s, "", "a", tb, "", "a", &within)
	require.Error(t, err)
}

func TestTableStreamJoinIsIllegal(t *testing.T) {
	catalog := testCatalog()
	tb, err := NewDataSource(catalog, ksql.SourceNameOf("T"), nil)
	require.NoError(t, err)
	s, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)

	_, err = NewJoin(nil, InnerJoin, tb, "", "a", s, "", "a", nil)
	require.Error(t, err)
}

func TestOuterJoinHasNoKeyField(t *testing.T) {
	catalog := testCatalog()
	sAlias := ksql.SourceNameOf("s")
	tAlias := ksql.SourceNameOf("t")
	s, err := NewDataSource(catalog, ksql.SourceNameOf("S"), &sAlias)
	require.NoError(t, err)
	tb, err := NewDataSource(catalog, ksql.SourceNameOf("T"), &tAlias)
	require.NoError(t, err)

	join, err := NewJoin(nil, OuterJoin, s, "s", "s.a", tb, "t", "t.a", nil)
	require.NoError(t, err)
	require.False(t, join.KeyField().IsPresent())
}

func TestJoinPartitionCountMismatch(t *testing.T) {
	catalog := testCatalog()
	s, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)
	t2, err := NewDataSource(catalog, ksql.SourceNameOf("T2"), nil)
	require.NoError(t, err)

	_, err = NewJoin(nil, InnerJoin, s, "", "a", t2, "", "a", nil)
	require.Error(t, err)
}

func TestTableJoinKeyMismatchRejected(t *testing.T) {
	catalog := testCatalog()
	s, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)
	tb, err := NewDataSource(catalog, ksql.SourceNameOf("T"), nil)
	require.NoError(t, err)

	// T is keyed on "a" but the join criterion names "v" on the table side.
	_, err = NewJoin(nil, InnerJoin, s, "", "a", tb, "", "v", nil)
	require.Error(t, err)
}

// Scenario 5 (spec.md §8): SELECT * FROM S WHERE ROWTIME > '...'
func TestScenarioFilterRewritesRowtimeLiteral(t *testing.T) {
	catalog := testCatalog()
	ds, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)

	cond := expression.NewComparison(expression.CmpGt,
		expression.NewColumnRef("ROWTIME"),
		expression.NewLiteral("2020-01-02T03:04:05", ksql.String),
	)
	f, err := NewFilter(testRegistry{}, ds, cond)
	require.NoError(t, err)

	cmp, ok := f.Condition().(*expression.Comparison)
	require.True(t, ok)
	lit, ok := cmp.Right.(*expression.Literal)
	require.True(t, ok)
	require.Equal(t, ksql.BigInt, lit.Typ)
	require.Equal(t, ksql.SourceStream, f.Type())
}

func TestGroupByRowkeyNoRepartition(t *testing.T) {
	catalog := testCatalog()
	ds, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)

	gb, err := NewGroupBy(nil, testRegistry{}, ds, []expression.Expression{expression.NewColumnRef("ROWKEY")}, false)
	require.NoError(t, err)
	require.Nil(t, gb.Repartition())
}

func TestPartitionByNoOpWhenAlreadyKeyed(t *testing.T) {
	catalog := testCatalog()
	ds, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)

	out, err := PartitionBy(nil, ds, ksql.ColumnNameOf("a"))
	require.NoError(t, err)
	require.Same(t, ds, out)
}

func TestPartitionByInsertsRepartition(t *testing.T) {
	catalog := testCatalog()
	ds, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)

	out, err := PartitionBy(nil, ds, ksql.ColumnNameOf("b"))
	require.NoError(t, err)
	rep, ok := out.(*Repartition)
	require.True(t, ok)
	name, ok := rep.KeyField().Name()
	require.True(t, ok)
	require.Equal(t, "b", name.Text())
}

func TestPartitionByWithQueryContextProducesStableTopic(t *testing.T) {
	catalog := testCatalog()
	build := func() string {
		ds, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
		require.NoError(t, err)
		ctx := ksql.NewQueryContext("q1", ksql.DefaultConfig())
		out, err := PartitionBy(ctx, ds, ksql.ColumnNameOf("b"))
		require.NoError(t, err)
		rep, ok := out.(*Repartition)
		require.True(t, ok)
		require.NotEmpty(t, rep.Topic())
		return rep.Topic()
	}

	require.Equal(t, build(), build())
}

func TestSinkPassesThroughSchema(t *testing.T) {
	catalog := testCatalog()
	ds, err := NewDataSource(catalog, ksql.SourceNameOf("S"), nil)
	require.NoError(t, err)

	sink := NewSink(ds, "out-topic", "JSON")
	require.True(t, ds.Schema().Equals(sink.Schema()))
	require.Equal(t, "out-topic", sink.Topic())
}
