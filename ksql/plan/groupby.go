package plan

import (
	"strings"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// GroupBy implements spec.md §4.5 GroupBy: rekey is skipped iff the grouping
// list has exactly one expression that is a ColumnRef equal to ROWKEY or the
// current key field; otherwise a Repartition is synthesized with a key-field
// name built by joining the grouping expressions' textual forms with
// "|+|". Grounded on the teacher's GroupBy (sql/plan/group_by.go), minus the
// row-evaluation half (NewBuffer/Update/Eval lives in Aggregate here).
type GroupBy struct {
	unaryNode
	exprs       []expression.Expression
	repartition *Repartition
	schema      ksql.LogicalSchema
	keyField    ksql.KeyField
}

// GroupKeySeparator joins grouping-expression texts into a synthetic
// key-field name when a GroupBy needs a repartition (spec.md §4.5).
const GroupKeySeparator = "|+|"

// NewGroupBy type-checks exprs against child's schema, decides whether a
// rekey is required, and inserts the Repartition step when it is. ctx may
// be nil; see newRepartitionNode.
func NewGroupBy(ctx *ksql.QueryContext, registry ksql.FunctionRegistry, child Node, exprs []expression.Expression, legacyKeyFieldSemantics bool) (*GroupBy, error) {
	for _, e := range exprs {
		if _, err := expression.Infer(e, expression.InferContext{Schema: child.Schema(), Registry: registry}); err != nil {
			return nil, err
		}
	}

	if !legacyKeyFieldSemantics && rekeyNotRequired(child.Schema(), child.KeyField(), exprs) {
		return &GroupBy{
			unaryNode: unaryNode{child: child},
			exprs:     exprs,
			schema:    child.Schema(),
			keyField:  child.KeyField(),
		}, nil
	}

	name := syntheticGroupKeyName(exprs)
	rep, err := newRepartitionNode(ctx, child, ksql.ColumnNameOf(name))
	if err != nil {
		return nil, err
	}

	return &GroupBy{
		unaryNode:   unaryNode{child: rep},
		exprs:       exprs,
		repartition: rep,
		schema:      rep.Schema(),
		keyField:    rep.KeyField(),
	}, nil
}

// rekeyNotRequired implements the exact test of spec.md §4.5: a single
// grouping expression that is a ColumnRef naming ROWKEY or the current key
// field.
func rekeyNotRequired(schema ksql.LogicalSchema, keyField ksql.KeyField, exprs []expression.Expression) bool {
	if len(exprs) != 1 {
		return false
	}
	ref, ok := exprs[0].(*expression.ColumnRef)
	if !ok {
		return false
	}
	if isRowkeyRef(ref.FullName) {
		return true
	}
	name, present := keyField.Name()
	if !present {
		return false
	}
	keyCol, found := schema.FindColumn(name.Text())
	if !found {
		return false
	}
	col, found := schema.FindColumn(ref.FullName)
	return found && col.Equals(keyCol)
}

func isRowkeyRef(fullName string) bool {
	bare := fullName
	if idx := strings.IndexByte(fullName, '.'); idx >= 0 {
		bare = fullName[idx+1:]
	}
	return bare == ksql.RowkeyName.Text()
}

func syntheticGroupKeyName(exprs []expression.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, GroupKeySeparator)
}

// Exprs are the grouping expressions.
func (g *GroupBy) Exprs() []expression.Expression { return g.exprs }

// Repartition is the inserted rekey step, or nil if none was needed.
func (g *GroupBy) Repartition() *Repartition { return g.repartition }

func (g *GroupBy) Schema() ksql.LogicalSchema { return g.schema }
func (g *GroupBy) KeyField() ksql.KeyField    { return g.keyField }

// Type is always TABLE: a GroupBy's result is materialized by key
// (spec.md §4.5: "The grouped result's output type is TABLE").
func (g *GroupBy) Type() ksql.SourceType { return ksql.SourceTable }

func (g *GroupBy) String() string {
	parts := make([]string, len(g.exprs))
	for i, e := range g.exprs {
		parts[i] = e.String()
	}
	return "GroupBy(" + strings.Join(parts, ", ") + ")"
}
