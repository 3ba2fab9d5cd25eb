package expression

import (
	"fmt"
	"strings"
)

// WhenThen is one branch of a CASE expression.
type WhenThen struct {
	When, Then Expression
}

// SearchedCase is `CASE WHEN cond THEN val ... [ELSE default] END` (§3
// SearchedCase), grounded on the teacher's sql/expression/case.go CaseExpr
// used in "searched" form (no top-level comparand).
type SearchedCase struct {
	Whens   []WhenThen
	Default Expression // nil if no ELSE
}

func NewSearchedCase(whens []WhenThen, def Expression) *SearchedCase {
	return &SearchedCase{Whens: whens, Default: def}
}

func (c *SearchedCase) Children() []Expression {
	out := make([]Expression, 0, 2*len(c.Whens)+1)
	for _, wt := range c.Whens {
		out = append(out, wt.When, wt.Then)
	}
	if c.Default != nil {
		out = append(out, c.Default)
	}
	return out
}

func (c *SearchedCase) WithChildren(children ...Expression) (Expression, error) {
	want := 2 * len(c.Whens)
	hasDefault := c.Default != nil
	if hasDefault {
		want++
	}
	if len(children) != want {
		return nil, wrongChildren("SearchedCase", len(children), want)
	}
	whens := make([]WhenThen, len(c.Whens))
	for i := range whens {
		whens[i] = WhenThen{When: children[2*i], Then: children[2*i+1]}
	}
	var def Expression
	if hasDefault {
		def = children[len(children)-1]
	}
	return &SearchedCase{Whens: whens, Default: def}, nil
}

func (c *SearchedCase) String() string {
	var b strings.Builder
	b.WriteString("CASE")
	for _, wt := range c.Whens {
		fmt.Fprintf(&b, " WHEN %s THEN %s", wt.When, wt.Then)
	}
	if c.Default != nil {
		fmt.Fprintf(&b, " ELSE %s", c.Default)
	}
	b.WriteString(" END")
	return b.String()
}

// SimpleCase is `CASE comparand WHEN val THEN result ... [ELSE default] END`
// (§3 SimpleCase): each When is compared for equality against Comparand
// rather than evaluated as a standalone BOOLEAN.
type SimpleCase struct {
	Comparand Expression
	Whens     []WhenThen
	Default   Expression
}

func NewSimpleCase(comparand Expression, whens []WhenThen, def Expression) *SimpleCase {
	return &SimpleCase{Comparand: comparand, Whens: whens, Default: def}
}

func (c *SimpleCase) Children() []Expression {
	out := make([]Expression, 0, 2*len(c.Whens)+2)
	out = append(out, c.Comparand)
	for _, wt := range c.Whens {
		out = append(out, wt.When, wt.Then)
	}
	if c.Default != nil {
		out = append(out, c.Default)
	}
	return out
}

func (c *SimpleCase) WithChildren(children ...Expression) (Expression, error) {
	want := 1 + 2*len(c.Whens)
	hasDefault := c.Default != nil
	if hasDefault {
		want++
	}
	if len(children) != want {
		return nil, wrongChildren("SimpleCase", len(children), want)
	}
	comparand := children[0]
	rest := children[1:]
	if hasDefault {
		rest = rest[:len(rest)-1]
	}
	whens := make([]WhenThen, len(rest)/2)
	for i := range whens {
		whens[i] = WhenThen{When: rest[2*i], Then: rest[2*i+1]}
	}
	var def Expression
	if hasDefault {
		def = children[len(children)-1]
	}
	return &SimpleCase{Comparand: comparand, Whens: whens, Default: def}, nil
}

func (c *SimpleCase) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CASE %s", c.Comparand)
	for _, wt := range c.Whens {
		fmt.Fprintf(&b, " WHEN %s THEN %s", wt.When, wt.Then)
	}
	if c.Default != nil {
		fmt.Fprintf(&b, " ELSE %s", c.Default)
	}
	b.WriteString(" END")
	return b.String()
}
