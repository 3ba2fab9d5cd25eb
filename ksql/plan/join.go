package plan

import (
	"fmt"

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/johnswan/ksql/ksql"
)

// JoinType is the closed sum of join kinds spec.md §4.5 names.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	OuterJoin
)

func (t JoinType) String() string {
	switch t {
	case LeftJoin:
		return "LEFT"
	case OuterJoin:
		return "OUTER"
	default:
		return "INNER"
	}
}

// Joiner names which of the three joiner implementations a Join selected,
// per the (leftType, rightType) table of spec.md §4.5.
type Joiner int

const (
	StreamStreamJoiner Joiner = iota
	StreamTableJoiner
	TableTableJoiner
)

func (j Joiner) String() string {
	switch j {
	case StreamTableJoiner:
		return "stream-table"
	case TableTableJoiner:
		return "table-table"
	default:
		return "stream-stream"
	}
}

// Join implements spec.md §4.5 Joins: joiner selection by (leftType,
// rightType), the WITHIN-required/forbidden rules, the partition-count and
// table-join-key checks, and output schema/type/key-field derivation.
// Grounded on the teacher's join node family (sql/plan/innerjoin.go,
// naturaljoin.go) for the BinaryNode shape, generalized to the
// streaming-specific joiner table this spec adds.
type Join struct {
	binaryNode
	joinType      JoinType
	joiner        Joiner
	leftKeyColumn string
	rightKeyColumn string
	within        *WithinExpression
	schema        ksql.LogicalSchema
	keyField      ksql.KeyField
	typ           ksql.SourceType
}

// NewJoin validates and constructs a Join. leftLabel/rightLabel are used
// only in TableJoinKeyMismatch diagnostics (e.g. the source alias); an empty
// label falls back to "left"/"right". ctx may be nil (tests routinely build
// nodes outside a query-planning call); when given, its Span wraps this
// join-planning decision end to end, matching QueryContext.Span's use
// around ctx.Span in the teacher's group_by.go/window.go.
func NewJoin(
	ctx *ksql.QueryContext,
	joinType JoinType,
	left Node, leftLabel string, leftKeyColumn string,
	right Node, rightLabel string, rightKeyColumn string,
	within *WithinExpression,
) (*Join, error) {
	if ctx != nil {
		var span opentracing.Span
		span, ctx = ctx.Span("Join")
		defer span.Finish()
	}

	if leftLabel == "" {
		leftLabel = "left"
	}
	if rightLabel == "" {
		rightLabel = "right"
	}

	joiner, err := selectJoiner(left.Type(), right.Type(), within)
	if err != nil {
		return nil, err
	}

	if left.PartitionCount() != right.PartitionCount() {
		return nil, ksql.ErrPartitionCountMismatch.New(left.PartitionCount(), right.PartitionCount())
	}

	if _, ok := left.Schema().FindValueColumn(leftKeyColumn); !ok {
		return nil, ksql.ErrUnknownColumn.New(leftKeyColumn)
	}
	if _, ok := right.Schema().FindValueColumn(rightKeyColumn); !ok {
		return nil, ksql.ErrUnknownColumn.New(rightKeyColumn)
	}

	if joiner == StreamTableJoiner || joiner == TableTableJoiner {
		if err := validateTableJoinKey(right, rightLabel, rightKeyColumn); err != nil {
			return nil, err
		}
	}
	if joiner == TableTableJoiner {
		if err := validateTableJoinKey(left, leftLabel, leftKeyColumn); err != nil {
			return nil, err
		}
	}

	values := append(append([]ksql.Column{}, left.Schema().Value()...), right.Schema().Value()...)
	key := []ksql.Column{ksql.NewColumn(ksql.RowkeyName, ksql.String, ksql.NamespaceKey, 0)}
	schema, err := ksql.Build(key, values)
	if err != nil {
		return nil, err
	}

	typ := ksql.SourceStream
	if left.Type() == ksql.SourceTable && right.Type() == ksql.SourceTable {
		typ = ksql.SourceTable
	}

	keyField := ksql.NoKeyField
	if joinType == InnerJoin || joinType == LeftJoin {
		if name, ok := left.KeyField().Name(); ok {
			keyField = ksql.KeyFieldOf(name)
		} else {
			keyField = ksql.KeyFieldOf(ksql.RowkeyName)
		}
	}

	return &Join{
		binaryNode:     binaryNode{left: left, right: right},
		joinType:       joinType,
		joiner:         joiner,
		leftKeyColumn:  leftKeyColumn,
		rightKeyColumn: rightKeyColumn,
		within:         within,
		schema:         schema,
		keyField:       keyField,
		typ:            typ,
	}, nil
}

// selectJoiner implements the (leftType, rightType) table of spec.md §4.5
// together with the WITHIN-required/forbidden rules.
func selectJoiner(leftType, rightType ksql.SourceType, within *WithinExpression) (Joiner, error) {
	switch {
	case leftType == ksql.SourceStream && rightType == ksql.SourceStream:
		if within == nil {
			return 0, ksql.ErrWithinRequired.New()
		}
		return StreamStreamJoiner, nil

	case leftType == ksql.SourceStream && rightType == ksql.SourceTable:
		if within != nil {
			return 0, ksql.ErrWithinForbidden.New("stream-table")
		}
		return StreamTableJoiner, nil

	case leftType == ksql.SourceTable && rightType == ksql.SourceStream:
		return 0, ksql.ErrJoinCombinationIllegal.New(leftType, "JOIN", rightType)

	default: // TABLE, TABLE
		if within != nil {
			return 0, ksql.ErrWithinForbidden.New("table-table")
		}
		return TableTableJoiner, nil
	}
}

// validateTableJoinKey implements spec.md §4.5's "table inputs ... must be
// keyed by the declared join field or by ROWKEY" rule.
func validateTableJoinKey(side Node, label, joinKeyColumn string) error {
	name, ok := side.KeyField().Name()
	if !ok {
		return ksql.ErrTableJoinKeyMismatch.New(label, joinKeyColumn, "<none>")
	}
	bare := name.Text()
	if idx := lastDot(bare); idx >= 0 {
		bare = bare[idx+1:]
	}
	joinBare := joinKeyColumn
	if idx := lastDot(joinBare); idx >= 0 {
		joinBare = joinBare[idx+1:]
	}
	if bare == joinBare || bare == ksql.RowkeyName.Text() {
		return nil
	}
	return ksql.ErrTableJoinKeyMismatch.New(label, joinKeyColumn, bare)
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// Joiner reports which of the three joiner implementations this Join uses.
func (j *Join) Joiner() Joiner { return j.joiner }

// Within is the converted join window, non-nil only for a stream-stream
// join.
func (j *Join) Within() *WithinExpression { return j.within }

func (j *Join) Schema() ksql.LogicalSchema { return j.schema }
func (j *Join) KeyField() ksql.KeyField    { return j.keyField }
func (j *Join) Type() ksql.SourceType      { return j.typ }

func (j *Join) String() string {
	return fmt.Sprintf("%sJoin[%s](%s = %s)", j.joinType, j.joiner, j.leftKeyColumn, j.rightKeyColumn)
}
