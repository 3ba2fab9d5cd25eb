package expression

import (
	"fmt"

	"github.com/johnswan/ksql/ksql"
)

// Cast converts Operand to TargetType (§3 Cast), grounded on the teacher's
// sql/expression/convert.go Convert expression.
type Cast struct {
	Operand    Expression
	TargetType ksql.SqlType
}

func NewCast(operand Expression, target ksql.SqlType) *Cast {
	return &Cast{Operand: operand, TargetType: target}
}

func (c *Cast) Children() []Expression { return []Expression{c.Operand} }

func (c *Cast) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 1 {
		return nil, wrongChildren("Cast", len(children), 1)
	}
	return &Cast{Operand: children[0], TargetType: c.TargetType}, nil
}

func (c *Cast) String() string { return fmt.Sprintf("CAST(%s AS %s)", c.Operand, c.TargetType) }

// Subscript indexes into an ARRAY or MAP (§3 Subscript, §4.2): Base[Index].
type Subscript struct {
	Base, Index Expression
}

func NewSubscript(base, index Expression) *Subscript { return &Subscript{Base: base, Index: index} }

func (s *Subscript) Children() []Expression { return []Expression{s.Base, s.Index} }

func (s *Subscript) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 2 {
		return nil, wrongChildren("Subscript", len(children), 2)
	}
	return &Subscript{Base: children[0], Index: children[1]}, nil
}

func (s *Subscript) String() string { return fmt.Sprintf("%s[%s]", s.Base, s.Index) }

// Dereference accesses a named field of a STRUCT-typed Base (§3
// Dereference). Unlike Subscript, the field name is static, not an
// evaluated expression.
type Dereference struct {
	Base  Expression
	Field string
}

func NewDereference(base Expression, field string) *Dereference {
	return &Dereference{Base: base, Field: field}
}

func (d *Dereference) Children() []Expression { return []Expression{d.Base} }

func (d *Dereference) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 1 {
		return nil, wrongChildren("Dereference", len(children), 1)
	}
	return &Dereference{Base: children[0], Field: d.Field}, nil
}

func (d *Dereference) String() string { return fmt.Sprintf("%s.%s", d.Base, d.Field) }
