package expression

import (
	"fmt"

	"github.com/johnswan/ksql/ksql"
)

// Arithmetic is a binary arithmetic expression (§3 Arithmetic{Binary}),
// grounded on the teacher's sql/expression/arithmetic.go binary-op-with-two-
// children shape, generalized here to a single struct carrying the operator
// as data (an exhaustive enum, per the closed-sum design note) rather than
// one Go type per operator.
type Arithmetic struct {
	Op          ksql.ArithmeticOp
	Left, Right Expression
}

// NewArithmetic builds a binary arithmetic expression.
func NewArithmetic(op ksql.ArithmeticOp, left, right Expression) *Arithmetic {
	return &Arithmetic{Op: op, Left: left, Right: right}
}

func (a *Arithmetic) Children() []Expression { return []Expression{a.Left, a.Right} }

func (a *Arithmetic) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 2 {
		return nil, wrongChildren("Arithmetic", len(children), 2)
	}
	return &Arithmetic{Op: a.Op, Left: children[0], Right: children[1]}, nil
}

func (a *Arithmetic) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Left, a.Op, a.Right)
}

// Negate is unary arithmetic negation (§3 Arithmetic{Unary}).
type Negate struct {
	Operand Expression
}

func NewNegate(operand Expression) *Negate { return &Negate{Operand: operand} }

func (n *Negate) Children() []Expression { return []Expression{n.Operand} }

func (n *Negate) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 1 {
		return nil, wrongChildren("Negate", len(children), 1)
	}
	return &Negate{Operand: children[0]}, nil
}

func (n *Negate) String() string { return fmt.Sprintf("-(%s)", n.Operand) }
