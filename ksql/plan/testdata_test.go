package plan

import (
	"github.com/johnswan/ksql/ksql"
)

// testCatalog builds the catalog described by spec.md §8's seed scenarios:
// a stream S(a INT, b STRING, ts BIGINT) keyed on a, a table T(a INT,
// v DOUBLE) keyed on a, and a second stream S2 with S's shape, all with
// matching partition counts.
func testCatalog() ksql.MapCatalog {
	sSchema := ksql.MustBuild(nil, []ksql.Column{
		ksql.NewColumn(ksql.ColumnNameOf("a"), ksql.Integer, ksql.NamespaceValue, 0),
		ksql.NewColumn(ksql.ColumnNameOf("b"), ksql.String, ksql.NamespaceValue, 1),
		ksql.NewColumn(ksql.ColumnNameOf("ts"), ksql.BigInt, ksql.NamespaceValue, 2),
	})
	tSchema := ksql.MustBuild(nil, []ksql.Column{
		ksql.NewColumn(ksql.ColumnNameOf("a"), ksql.Integer, ksql.NamespaceValue, 0),
		ksql.NewColumn(ksql.ColumnNameOf("v"), ksql.Double, ksql.NamespaceValue, 1),
	})

	return ksql.MapCatalog{
		"S": ksql.DataSourceInfo{
			Schema:         sSchema,
			Type:           ksql.SourceStream,
			KeyField:       ksql.KeyFieldOf(ksql.ColumnNameOf("a")),
			PartitionCount: 4,
		},
		"S2": ksql.DataSourceInfo{
			Schema:         sSchema,
			Type:           ksql.SourceStream,
			KeyField:       ksql.KeyFieldOf(ksql.ColumnNameOf("a")),
			PartitionCount: 4,
		},
		"T": ksql.DataSourceInfo{
			Schema:         tSchema,
			Type:           ksql.SourceTable,
			KeyField:       ksql.KeyFieldOf(ksql.ColumnNameOf("a")),
			PartitionCount: 4,
		},
		"T2": ksql.DataSourceInfo{
			Schema:         tSchema,
			Type:           ksql.SourceTable,
			KeyField:       ksql.KeyFieldOf(ksql.ColumnNameOf("a")),
			PartitionCount: 7,
		},
	}
}

type countAggregator struct{}

func (countAggregator) Init() interface{} { return int64(0) }
func (countAggregator) Accumulate(state interface{}, arg interface{}) (interface{}, error) {
	return state.(int64) + 1, nil
}
func (countAggregator) Merge(a, b interface{}) (interface{}, error) { return a.(int64) + b.(int64), nil }
func (countAggregator) Result(state interface{}) (interface{}, error) { return state, nil }

type countDescriptor struct{}

func (countDescriptor) Name() ksql.FunctionName                 { return ksql.FunctionNameOf("COUNT") }
func (countDescriptor) ReturnType(ksql.SqlType) (ksql.SqlType, error) { return ksql.BigInt, nil }
func (countDescriptor) NewAccumulator() ksql.Aggregator          { return countAggregator{} }

// testRegistry supports COUNT as the only aggregate and no scalar
// functions, enough for the seed scenarios.
type testRegistry struct{}

func (testRegistry) IsAggregate(name ksql.FunctionName) bool { return name.Text() == "COUNT" }
func (testRegistry) GetScalar(name ksql.FunctionName, argTypes []ksql.SqlType) (ksql.FunctionDescriptor, error) {
	return nil, ksql.ErrUnknownFunction.New(name.Text())
}
func (testRegistry) GetAggregate(name ksql.FunctionName, argType ksql.SqlType) (ksql.AggregateDescriptor, error) {
	if name.Text() != "COUNT" {
		return nil, ksql.ErrUnknownFunction.New(name.Text())
	}
	return countDescriptor{}, nil
}
