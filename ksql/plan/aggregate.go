package plan

import (
	"fmt"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// WindowStartFunction and WindowEndFunction are the pseudo-functions
// spec.md §4.5's "window selector" recognizes: an aggregate list entry
// naming either is resolved by the planner itself, not via the function
// registry, and is only legal inside a windowed Aggregate.
var (
	WindowStartFunction = ksql.FunctionNameOf("WindowStart")
	WindowEndFunction   = ksql.FunctionNameOf("WindowEnd")
)

// AggregateFunc is one aggregate FunctionCall in an Aggregate's selection
// list (spec.md §4.5). Arg is nil for an argument-less call such as
// COUNT(*).
type AggregateFunc struct {
	Name ksql.FunctionName
	Arg  expression.Expression
}

type resolvedAggregate struct {
	name          ksql.FunctionName
	isWindowStart bool
	isWindowEnd   bool
	descriptor    ksql.AggregateDescriptor
}

// Aggregate implements spec.md §4.5 Aggregate/WindowedAggregate: a grouped
// input, a non-func column count n, a list of aggregate FunctionCalls, and
// an optional Window. Grounded on the teacher's GroupBy row-evaluation half
// (sql/plan/group_by.go's aggregation.Aggregation NewBuffer/Update/Eval
// contract), generalized to the Aggregator init/accumulate/merge/result
// shape of ksql.AggregateDescriptor.
type Aggregate struct {
	unaryNode
	nonFuncCount int
	aggregates   []resolvedAggregate
	window       Window
	schema       ksql.LogicalSchema
	keyField     ksql.KeyField
}

// NewAggregate validates the output schema's arity against
// nonFuncColumnCount + len(funcs) (spec.md §4.5: mismatch is
// SchemaArityMismatch), resolves each aggregate function (or pseudo window
// selector) against registry, and wraps child (expected to be a GroupBy or
// its Repartition).
func NewAggregate(registry ksql.FunctionRegistry, child Node, nonFuncColumnCount int, funcs []AggregateFunc, window Window, outputSchema ksql.LogicalSchema) (*Aggregate, error) {
	want := nonFuncColumnCount + len(funcs)
	if got := len(outputSchema.Value()); got != want {
		return nil, ksql.ErrSchemaArityMismatch.New(got, want)
	}

	inputSchema := child.Schema()
	aggregates := make([]resolvedAggregate, len(funcs))
	for i, f := range funcs {
		switch {
		case f.Name.Equals(WindowStartFunction):
			if window.Kind == NoWindow {
				return nil, ErrWindowSelectorRequiresWindow.New(f.Name.Text())
			}
			aggregates[i] = resolvedAggregate{name: f.Name, isWindowStart: true}

		case f.Name.Equals(WindowEndFunction):
			if window.Kind == NoWindow {
				return nil, ErrWindowSelectorRequiresWindow.New(f.Name.Text())
			}
			aggregates[i] = resolvedAggregate{name: f.Name, isWindowEnd: true}

		default:
			argType := ksql.Unknown
			if f.Arg != nil {
				t, err := expression.Infer(f.Arg, expression.InferContext{Schema: inputSchema, Registry: registry})
				if err != nil {
					return nil, err
				}
				argType = t
			}
			desc, err := registry.GetAggregate(f.Name, argType)
			if err != nil {
				return nil, err
			}
			aggregates[i] = resolvedAggregate{name: f.Name, descriptor: desc}
		}
	}

	return &Aggregate{
		unaryNode:    unaryNode{child: child},
		nonFuncCount: nonFuncColumnCount,
		aggregates:   aggregates,
		window:       window,
		schema:       outputSchema,
		keyField:     child.KeyField(),
	}, nil
}

// Window is the configured windowing strategy, or the NoWindow zero value.
func (a *Aggregate) Window() Window { return a.window }

// ResultMapper prepends the n group-key values ahead of the per-aggregate
// results, matching spec.md §4.5's "result mapper that prepends the n
// group-key columns to the aggregate output row."
func (a *Aggregate) ResultMapper() func(groupKeyValues, aggregateResults []interface{}) (ksql.Row, error) {
	nonFuncCount := a.nonFuncCount
	aggCount := len(a.aggregates)
	return func(groupKeyValues, aggregateResults []interface{}) (ksql.Row, error) {
		if len(groupKeyValues) != nonFuncCount {
			return nil, ksql.ErrSchemaArityMismatch.New(len(groupKeyValues), nonFuncCount)
		}
		if len(aggregateResults) != aggCount {
			return nil, ksql.ErrSchemaArityMismatch.New(len(aggregateResults), aggCount)
		}
		row := make(ksql.Row, 0, nonFuncCount+aggCount)
		row = append(row, groupKeyValues...)
		row = append(row, aggregateResults...)
		return row, nil
	}
}

// ApplyWindowSelector rewrites any WindowStart/WindowEnd slot in row to the
// window's boundary in epoch milliseconds (spec.md §4.5's window selector
// post-transform).
func (a *Aggregate) ApplyWindowSelector(row ksql.Row, windowStartMillis, windowEndMillis int64) ksql.Row {
	out := make(ksql.Row, len(row))
	copy(out, row)
	for i, agg := range a.aggregates {
		idx := a.nonFuncCount + i
		if idx >= len(out) {
			continue
		}
		switch {
		case agg.isWindowStart:
			out[idx] = windowStartMillis
		case agg.isWindowEnd:
			out[idx] = windowEndMillis
		}
	}
	return out
}

func (a *Aggregate) Schema() ksql.LogicalSchema { return a.schema }
func (a *Aggregate) KeyField() ksql.KeyField    { return a.keyField }
func (a *Aggregate) Type() ksql.SourceType      { return ksql.SourceTable }

func (a *Aggregate) String() string {
	if a.window.Kind == NoWindow {
		return fmt.Sprintf("Aggregate(n=%d, aggs=%d)", a.nonFuncCount, len(a.aggregates))
	}
	return fmt.Sprintf("WindowedAggregate(n=%d, aggs=%d, window=%s)", a.nonFuncCount, len(a.aggregates), a.window)
}
