package expression

// ColumnRef names a column, bare or qualified, exactly as it appeared in the
// statement (§3: "ColumnRef(qualifiedName)"). FullName is resolved against a
// LogicalSchema by type inference (infer.go); ColumnRef itself carries no
// type.
type ColumnRef struct {
	FullName string
}

// NewColumnRef wraps a bare or qualified name.
func NewColumnRef(fullName string) *ColumnRef {
	return &ColumnRef{FullName: fullName}
}

func (c *ColumnRef) Children() []Expression { return noChildren(c) }

func (c *ColumnRef) WithChildren(children ...Expression) (Expression, error) {
	return withNoChildren("ColumnRef", c, children...)
}

func (c *ColumnRef) String() string { return c.FullName }
