package ksql

import "fmt"

// Namespace tags which part of a row a Column belongs to (spec.md §3).
type Namespace int

const (
	NamespaceKey Namespace = iota
	NamespaceValue
	NamespaceMeta
)

func (n Namespace) String() string {
	switch n {
	case NamespaceKey:
		return "KEY"
	case NamespaceValue:
		return "VALUE"
	case NamespaceMeta:
		return "META"
	default:
		return "UNKNOWN"
	}
}

// Column is a qualified column, as described in spec.md §3: an optional
// source qualifier, a name, a type, a namespace, and a positional index
// within its namespace's column list.
type Column struct {
	source    SourceName
	hasSource bool
	name      ColumnName
	typ       SqlType
	namespace Namespace
	index     uint32
}

// NewColumn builds an unqualified Column.
func NewColumn(name ColumnName, typ SqlType, ns Namespace, index uint32) Column {
	return Column{name: name, typ: typ, namespace: ns, index: index}
}

// NewQualifiedColumn builds a Column qualified by source.
func NewQualifiedColumn(source SourceName, name ColumnName, typ SqlType, ns Namespace, index uint32) Column {
	return Column{source: source, hasSource: true, name: name, typ: typ, namespace: ns, index: index}
}

func (c Column) Name() ColumnName   { return c.name }
func (c Column) Type() SqlType      { return c.typ }
func (c Column) Namespace() Namespace { return c.namespace }
func (c Column) Index() uint32      { return c.index }

// Source returns the column's qualifier and whether one is set.
func (c Column) Source() (SourceName, bool) { return c.source, c.hasSource }

// WithSource returns a copy of c qualified by source.
func (c Column) WithSource(source SourceName) Column {
	c.source = source
	c.hasSource = true
	return c
}

// WithoutSource returns a copy of c with its qualifier removed.
func (c Column) WithoutSource() Column {
	c.source = SourceName{}
	c.hasSource = false
	return c
}

// WithIndex returns a copy of c with a new positional index.
func (c Column) WithIndex(index uint32) Column {
	c.index = index
	return c
}

// FullName is "source.name" when qualified, else "name" (spec.md §3).
func (c Column) FullName() string {
	if c.hasSource {
		return c.source.Text() + "." + c.name.Text()
	}
	return c.name.Text()
}

// Equals holds iff all attributes match (spec.md §3).
func (c Column) Equals(o Column) bool {
	return c.hasSource == o.hasSource &&
		(!c.hasSource || c.source.Equals(o.source)) &&
		c.name.Equals(o.name) &&
		c.typ.Equals(o.typ) &&
		c.namespace == o.namespace &&
		c.index == o.index
}

// String renders "qualifier.name TYPE" (KEY suffix is applied by the
// schema renderer, which knows the namespace context) per the quoting rules
// of spec.md §6.1.
func (c Column) String() string {
	return c.format(DefaultFormatOptions())
}

func (c Column) format(opts FormatOptions) string {
	name := FormatColumnName(c.name, opts)
	if c.hasSource {
		name = FormatSourceName(c.source, opts) + "." + name
	}
	return fmt.Sprintf("%s %s", name, c.typ.format(opts))
}
