package expression

import (
	"fmt"

	"github.com/johnswan/ksql/ksql"
)

// Literal is a constant value, optionally typed (§3: "Literal(value,
// SqlType?)"). An untyped Literal (Typed == false) represents SQL NULL: its
// type is unknown until it appears somewhere type inference can resolve it
// contextually (e.g. the opposite side of a Comparison).
type Literal struct {
	Value interface{}
	Typ   ksql.SqlType
	Typed bool
}

// NewLiteral builds a typed Literal.
func NewLiteral(value interface{}, typ ksql.SqlType) *Literal {
	return &Literal{Value: value, Typ: typ, Typed: true}
}

// NewNullLiteral builds the untyped NULL literal.
func NewNullLiteral() *Literal {
	return &Literal{Value: nil, Typed: false}
}

func (l *Literal) Children() []Expression { return noChildren(l) }

func (l *Literal) WithChildren(children ...Expression) (Expression, error) {
	return withNoChildren("Literal", l, children...)
}

func (l *Literal) String() string {
	if !l.Typed {
		return "NULL"
	}
	if l.Typ.Kind() == ksql.KindString {
		return fmt.Sprintf("'%v'", l.Value)
	}
	return fmt.Sprintf("%v", l.Value)
}
