package expression

import "fmt"

// CompareOp enumerates the comparison operators of §3/§4.2.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNeq
	CmpLt
	CmpLte
	CmpGt
	CmpGte
)

func (op CompareOp) String() string {
	switch op {
	case CmpEq:
		return "="
	case CmpNeq:
		return "!="
	case CmpLt:
		return "<"
	case CmpLte:
		return "<="
	case CmpGt:
		return ">"
	case CmpGte:
		return ">="
	default:
		return "?"
	}
}

// Comparison is a binary comparison (§3 Comparison), grounded on the
// teacher's sql/expression/comparison.go Comparison/BinaryExpression, here
// as a single struct with the operator carried as data.
type Comparison struct {
	Op          CompareOp
	Left, Right Expression
}

func NewComparison(op CompareOp, left, right Expression) *Comparison {
	return &Comparison{Op: op, Left: left, Right: right}
}

func (c *Comparison) Children() []Expression { return []Expression{c.Left, c.Right} }

func (c *Comparison) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 2 {
		return nil, wrongChildren("Comparison", len(children), 2)
	}
	return &Comparison{Op: c.Op, Left: children[0], Right: children[1]}, nil
}

func (c *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Left, c.Op, c.Right)
}

// Between is the BETWEEN predicate (§3 Between): Operand BETWEEN Low AND High.
type Between struct {
	Operand, Low, High Expression
}

func NewBetween(operand, low, high Expression) *Between {
	return &Between{Operand: operand, Low: low, High: high}
}

func (b *Between) Children() []Expression { return []Expression{b.Operand, b.Low, b.High} }

func (b *Between) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 3 {
		return nil, wrongChildren("Between", len(children), 3)
	}
	return &Between{Operand: children[0], Low: children[1], High: children[2]}, nil
}

func (b *Between) String() string {
	return fmt.Sprintf("(%s BETWEEN %s AND %s)", b.Operand, b.Low, b.High)
}

// Like is the LIKE predicate (§3 Like): Operand LIKE Pattern. The pattern
// need not be a literal; compilation to a matcher happens in codegen only
// when it is.
type Like struct {
	Operand, Pattern Expression
}

func NewLike(operand, pattern Expression) *Like { return &Like{Operand: operand, Pattern: pattern} }

func (l *Like) Children() []Expression { return []Expression{l.Operand, l.Pattern} }

func (l *Like) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 2 {
		return nil, wrongChildren("Like", len(children), 2)
	}
	return &Like{Operand: children[0], Pattern: children[1]}, nil
}

func (l *Like) String() string { return fmt.Sprintf("(%s LIKE %s)", l.Operand, l.Pattern) }

// In is the IN predicate (§3 In): Operand IN (Items...).
type In struct {
	Operand Expression
	Items   []Expression
}

func NewIn(operand Expression, items []Expression) *In { return &In{Operand: operand, Items: items} }

func (i *In) Children() []Expression {
	out := make([]Expression, 0, 1+len(i.Items))
	out = append(out, i.Operand)
	out = append(out, i.Items...)
	return out
}

func (i *In) WithChildren(children ...Expression) (Expression, error) {
	if len(children) < 1 {
		return nil, wrongChildren("In", len(children), 1)
	}
	return &In{Operand: children[0], Items: children[1:]}, nil
}

func (i *In) String() string { return fmt.Sprintf("(%s IN %v)", i.Operand, i.Items) }
