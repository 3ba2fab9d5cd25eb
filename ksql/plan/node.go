// Package plan implements the relational plan-node algebra of spec.md §4.5:
// DataSource, Project, Filter, GroupBy, Aggregate/WindowedAggregate, the
// three join variants, PartitionBy/Repartition, and Sink. Every node is an
// immutable value, grounded on the teacher's sql.Node contract
// (dolthub-go-mysql-server/sql/plan) but stripped of RowIter/execution: this
// core only ever builds and inspects a plan tree, per spec.md §5's "pure
// synchronous, single-threaded planner" and §6.5's "output is a tree of
// plan-node value objects."
package plan

import (
	"github.com/johnswan/ksql/ksql"
)

// Node is the common interface every plan variant implements. Like
// expression.Expression, this is a closed sum with an exhaustive type
// switch at every consumer rather than a visitor hierarchy (spec.md §9).
type Node interface {
	// Schema is this node's output LogicalSchema.
	Schema() ksql.LogicalSchema
	// KeyField is this node's output key-field attribute, recomputed at
	// construction time and never mutated (spec.md §9).
	KeyField() ksql.KeyField
	// Type is STREAM or TABLE.
	Type() ksql.SourceType
	// PartitionCount is the number of partitions this node's output is
	// spread across, used by the join planner's partition-count check.
	PartitionCount() int
	// Children returns this node's immediate inputs, in a fixed order.
	Children() []Node
	// String renders the node for diagnostics and golden tests.
	String() string
}

// unaryNode is embedded by every single-input node (Project, Filter,
// GroupBy, Repartition, Sink) to share the Children/PartitionCount
// boilerplate, mirroring the teacher's UnaryNode (sql/plan/common.go).
type unaryNode struct {
	child Node
}

func (n unaryNode) Children() []Node      { return []Node{n.child} }
func (n unaryNode) PartitionCount() int   { return n.child.PartitionCount() }

// binaryNode is embedded by Join, mirroring the teacher's BinaryNode.
type binaryNode struct {
	left, right Node
}

func (n binaryNode) Children() []Node { return []Node{n.left, n.right} }
