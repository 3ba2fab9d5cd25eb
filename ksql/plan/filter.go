package plan

import (
	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// Filter implements spec.md §4.5 Filter: one BOOLEAN expression, row-time
// normalized (§4.3) before being type-checked. Output schema and key field
// pass through unchanged, grounded on the teacher's Filter
// (sql/plan/filter.go), minus RowIter.
type Filter struct {
	unaryNode
	condition expression.Expression
}

// NewFilter rewrites condition's rowtime literal comparisons, type-checks
// the result as BOOLEAN against child's schema, and wraps it.
func NewFilter(registry ksql.FunctionRegistry, child Node, condition expression.Expression) (*Filter, error) {
	rewritten, err := expression.RewriteRowtime(condition)
	if err != nil {
		return nil, err
	}

	typ, err := expression.Infer(rewritten, expression.InferContext{Schema: child.Schema(), Registry: registry})
	if err != nil {
		return nil, err
	}
	if !typ.Equals(ksql.Boolean) && !typ.IsUnknown() {
		return nil, ksql.ErrTypeMismatch.New("FILTER condition must be BOOLEAN, got " + typ.String())
	}

	return &Filter{unaryNode: unaryNode{child: child}, condition: rewritten}, nil
}

// Condition is the (row-time-normalized) filter expression.
func (f *Filter) Condition() expression.Expression { return f.condition }

func (f *Filter) Schema() ksql.LogicalSchema { return f.child.Schema() }
func (f *Filter) KeyField() ksql.KeyField    { return f.child.KeyField() }
func (f *Filter) Type() ksql.SourceType      { return f.child.Type() }

func (f *Filter) String() string { return "Filter(" + f.condition.String() + ")" }
