package insertvalues

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

func testCatalog() ksql.MapCatalog {
	sSchema := ksql.MustBuild(nil, []ksql.Column{
		ksql.NewColumn(ksql.ColumnNameOf("a"), ksql.Integer, ksql.NamespaceValue, 0),
		ksql.NewColumn(ksql.ColumnNameOf("b"), ksql.String, ksql.NamespaceValue, 1),
		ksql.NewColumn(ksql.ColumnNameOf("ts"), ksql.BigInt, ksql.NamespaceValue, 2),
	})
	windowedSchema := ksql.MustBuild(nil, []ksql.Column{
		ksql.NewColumn(ksql.ColumnNameOf("a"), ksql.Integer, ksql.NamespaceValue, 0),
	})

	return ksql.MapCatalog{
		"S": ksql.DataSourceInfo{
			Schema:   sSchema,
			Type:     ksql.SourceStream,
			KeyField: ksql.KeyFieldOf(ksql.ColumnNameOf("a")),
		},
		"WINDOWED": ksql.DataSourceInfo{
			Schema:   windowedSchema,
			Type:     ksql.SourceTable,
			Windowed: true,
		},
	}
}

func fixedClock(ms int64) Clock { return func() int64 { return ms } }

// Scenario 6 (spec.md §8): INSERT INTO S (a, b) VALUES (1, 'x').
func TestScenarioInsertValues(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	result, err := Insert(catalog, config, fixedClock(1000), ksql.SourceNameOf("S"),
		[]ksql.ColumnName{ksql.ColumnNameOf("a"), ksql.ColumnNameOf("b")},
		[]expression.Expression{
			expression.NewLiteral(int32(1), ksql.Integer),
			expression.NewLiteral("x", ksql.String),
		},
	)
	require.NoError(t, err)

	require.Equal(t, int64(1000), result.Timestamp)
	require.Equal(t, ksql.Row{"1"}, result.Key)
	require.Equal(t, ksql.Row{nil, nil, int32(1), "x", nil}, result.Value)
}

func TestInsertExplicitRowkeyDerivesKeyFieldValue(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	result, err := Insert(catalog, config, fixedClock(5), ksql.SourceNameOf("S"),
		[]ksql.ColumnName{ksql.ColumnNameOf("b"), ksql.ColumnNameOf("ROWKEY")},
		[]expression.Expression{
			expression.NewLiteral("x", ksql.String),
			expression.NewLiteral("42", ksql.String),
		},
	)
	require.NoError(t, err)
	require.Equal(t, ksql.Row{"42"}, result.Key)
	require.Equal(t, ksql.Row{nil, "42", "42", "x", nil}, result.Value)
}

func TestInsertKeyFieldRowkeyMismatchRejected(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	_, err := Insert(catalog, config, fixedClock(5), ksql.SourceNameOf("S"),
		[]ksql.ColumnName{ksql.ColumnNameOf("a"), ksql.ColumnNameOf("ROWKEY")},
		[]expression.Expression{
			expression.NewLiteral(int32(1), ksql.Integer),
			expression.NewLiteral("99", ksql.String),
		},
	)
	require.Error(t, err)
}

func TestInsertExplicitRowtimeOverridesClock(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	result, err := Insert(catalog, config, fixedClock(1000), ksql.SourceNameOf("S"),
		[]ksql.ColumnName{ksql.ColumnNameOf("a"), ksql.ColumnNameOf("b"), ksql.ColumnNameOf("ROWTIME")},
		[]expression.Expression{
			expression.NewLiteral(int32(1), ksql.Integer),
			expression.NewLiteral("x", ksql.String),
			expression.NewLiteral(int64(123456), ksql.BigInt),
		},
	)
	require.NoError(t, err)
	require.Equal(t, int64(123456), result.Timestamp)
}

func TestInsertDefaultColumnsOrderIsKeyThenValue(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	result, err := Insert(catalog, config, fixedClock(1), ksql.SourceNameOf("S"), nil,
		[]expression.Expression{
			expression.NewLiteral("7", ksql.String), // ROWKEY (synthesized key column), agrees with a=7
			expression.NewLiteral(int32(7), ksql.Integer),
			expression.NewLiteral("y", ksql.String),
			expression.NewLiteral(int64(9), ksql.BigInt),
		},
	)
	require.NoError(t, err)
	require.Equal(t, ksql.Row{"7"}, result.Key)
	require.Equal(t, ksql.Row{nil, "7", int32(7), "y", int64(9)}, result.Value)
}

func TestInsertNonLiteralExpressionRejected(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	_, err := Insert(catalog, config, fixedClock(1), ksql.SourceNameOf("S"),
		[]ksql.ColumnName{ksql.ColumnNameOf("a")},
		[]expression.Expression{expression.NewColumnRef("b")},
	)
	require.Error(t, err)
}

func TestInsertIntegerWidensToBigintAndDouble(t *testing.T) {
	catalog := ksql.MapCatalog{
		"T": ksql.DataSourceInfo{
			Schema: ksql.MustBuild(nil, []ksql.Column{
				ksql.NewColumn(ksql.ColumnNameOf("big"), ksql.BigInt, ksql.NamespaceValue, 0),
				ksql.NewColumn(ksql.ColumnNameOf("dbl"), ksql.Double, ksql.NamespaceValue, 1),
			}),
		},
	}
	config := ksql.DefaultConfig()

	result, err := Insert(catalog, config, fixedClock(1), ksql.SourceNameOf("T"),
		[]ksql.ColumnName{ksql.ColumnNameOf("big"), ksql.ColumnNameOf("dbl")},
		[]expression.Expression{
			expression.NewLiteral(int32(5), ksql.Integer),
			expression.NewLiteral(int32(5), ksql.Integer),
		},
	)
	require.NoError(t, err)
	require.Equal(t, int64(5), result.Value[2])
	require.Equal(t, float64(5), result.Value[3])
}

func TestInsertTypeMismatchRejected(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	_, err := Insert(catalog, config, fixedClock(1), ksql.SourceNameOf("S"),
		[]ksql.ColumnName{ksql.ColumnNameOf("a")},
		[]expression.Expression{expression.NewLiteral("not a number", ksql.String)},
	)
	require.Error(t, err)
}

func TestInsertNullLiteralPassesThrough(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	result, err := Insert(catalog, config, fixedClock(1), ksql.SourceNameOf("S"),
		[]ksql.ColumnName{ksql.ColumnNameOf("a"), ksql.ColumnNameOf("b")},
		[]expression.Expression{
			expression.NewNullLiteral(),
			expression.NewLiteral("x", ksql.String),
		},
	)
	require.NoError(t, err)
	require.Nil(t, result.Key[0])
}

func TestInsertIntoWindowedSourceRejected(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	_, err := Insert(catalog, config, fixedClock(1), ksql.SourceNameOf("WINDOWED"), nil,
		[]expression.Expression{
			expression.NewLiteral("rk", ksql.String),
			expression.NewLiteral(int32(1), ksql.Integer),
		},
	)
	require.Error(t, err)
}

func TestInsertDisabledByConfigRejected(t *testing.T) {
	catalog := testCatalog()
	config := ksql.Config{InsertValuesEnabled: false}

	_, err := Insert(catalog, config, fixedClock(1), ksql.SourceNameOf("S"), nil,
		[]expression.Expression{
			expression.NewLiteral("rk", ksql.String),
			expression.NewLiteral(int32(1), ksql.Integer),
			expression.NewLiteral("x", ksql.String),
			expression.NewLiteral(int64(1), ksql.BigInt),
		},
	)
	require.Error(t, err)
}

func TestInsertUnknownSourceRejected(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	_, err := Insert(catalog, config, fixedClock(1), ksql.SourceNameOf("NOPE"), nil, nil)
	require.Error(t, err)
}

func TestInsertColumnValueArityMismatchRejected(t *testing.T) {
	catalog := testCatalog()
	config := ksql.DefaultConfig()

	_, err := Insert(catalog, config, fixedClock(1), ksql.SourceNameOf("S"),
		[]ksql.ColumnName{ksql.ColumnNameOf("a"), ksql.ColumnNameOf("b")},
		[]expression.Expression{expression.NewLiteral(int32(1), ksql.Integer)},
	)
	require.Error(t, err)
}
