package plan

import (
	"github.com/johnswan/ksql/ksql"
)

// Repartition rekeys a stream or table on a new column, producing a STRING
// key, per spec.md §4.5 PartitionBy/Repartition. Grounded on the teacher's
// Exchange node (sql/plan/exchange.go) as the closest "repartitions the
// stream of rows" analogue, though Exchange is about parallelism and this
// is about partitioning key identity.
type Repartition struct {
	unaryNode
	column   ksql.ColumnName
	schema   ksql.LogicalSchema
	keyField ksql.KeyField
	topic    string
}

// newRepartitionNode builds a rekey step. ctx may be nil (tests routinely
// build nodes outside a query-planning call); when given, the
// repartition's internal topic name is its Stacker path with
// "Repartition-<column>" pushed onto it (spec.md §5). The name is
// deterministic; two rekeys on the same column built from the same ctx get
// the same name.
func newRepartitionNode(ctx *ksql.QueryContext, child Node, column ksql.ColumnName) (*Repartition, error) {
	schema := child.Schema()
	key := []ksql.Column{ksql.NewColumn(ksql.RowkeyName, ksql.String, ksql.NamespaceKey, 0)}
	rebuilt, err := ksql.Build(key, schema.Value())
	if err != nil {
		return nil, err
	}
	topic := "Repartition." + column.Text()
	if ctx != nil {
		topic = ctx.Push("Repartition-" + column.Text()).Stacker().QueryContext()
		ctx.Logger().Debugf("inserting repartition on %s, topic %s", column.Text(), topic)
	}
	return &Repartition{
		unaryNode: unaryNode{child: child},
		column:    column,
		schema:    rebuilt,
		keyField:  ksql.KeyFieldOf(column),
		topic:     topic,
	}, nil
}

// PartitionBy returns child unchanged if column already names the current
// key field (spec.md §4.5: "is a no-op"), or a new Repartition on column.
func PartitionBy(ctx *ksql.QueryContext, child Node, column ksql.ColumnName) (Node, error) {
	if name, ok := child.KeyField().Name(); ok && name.Equals(column) {
		return child, nil
	}
	return newRepartitionNode(ctx, child, column)
}

// Column is the new partitioning column's name.
func (r *Repartition) Column() ksql.ColumnName { return r.column }

// Topic is the internal repartition topic's deterministic synthetic name
// (spec.md §5).
func (r *Repartition) Topic() string { return r.topic }

func (r *Repartition) Schema() ksql.LogicalSchema { return r.schema }
func (r *Repartition) KeyField() ksql.KeyField    { return r.keyField }
func (r *Repartition) Type() ksql.SourceType      { return r.child.Type() }

func (r *Repartition) String() string { return "Repartition(" + r.column.Text() + ")" }
