package plan

import "github.com/johnswan/ksql/ksql"

// Sink is the terminal plan node of spec.md §4.5 Sink: a target topic and a
// value format, passing its input schema through unchanged. Grounded on the
// teacher's terminal nodes (e.g. sql/plan/insert_into.go) as the closest
// "writes the child's rows somewhere and produces no further rows" shape.
type Sink struct {
	unaryNode
	topic       string
	valueFormat string
}

// NewSink wraps child as a terminal Sink targeting topic with valueFormat.
func NewSink(child Node, topic, valueFormat string) *Sink {
	return &Sink{unaryNode: unaryNode{child: child}, topic: topic, valueFormat: valueFormat}
}

// Topic is the target topic name.
func (s *Sink) Topic() string { return s.topic }

// ValueFormat is the target value serialization format.
func (s *Sink) ValueFormat() string { return s.valueFormat }

func (s *Sink) Schema() ksql.LogicalSchema { return s.child.Schema() }
func (s *Sink) KeyField() ksql.KeyField    { return s.child.KeyField() }
func (s *Sink) Type() ksql.SourceType      { return s.child.Type() }

func (s *Sink) String() string { return "Sink(" + s.topic + ")" }
