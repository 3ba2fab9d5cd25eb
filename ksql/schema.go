package ksql

import (
	"strings"
)

// RowtimeName and RowkeyName are the reserved metadata/synthetic-key column
// names injected by every LogicalSchema (spec.md §3, "Row-time"/"Row-key" in
// the GLOSSARY).
var (
	RowtimeName = ColumnNameOf("ROWTIME")
	RowkeyName  = ColumnNameOf("ROWKEY")
)

// LogicalSchema is the ordered (keyColumns, valueColumns) pair plus the
// implicit [ROWTIME BIGINT] metadata column described in spec.md §3. It is
// immutable: every "with"-prefixed method returns a new value. This mirrors
// the teacher's sql.Schema ([]*Column) but adds the key/value/meta split and
// alias bookkeeping that a flat MySQL row schema does not need.
type LogicalSchema struct {
	keys   []Column
	values []Column
	// aliasedWith is the source applied by withAlias, if any.
	aliasedWith SourceName
	hasAlias    bool
}

// Build constructs a LogicalSchema from ordered key and value columns
// (spec.md §4.1 build). Positional indices are assigned in the given order,
// overriding whatever index the caller's Column values already carried.
// Fails with ErrDuplicateColumn if any two keys, or any two values, share a
// FullName. An empty keys list synthesizes a single ROWKEY STRING key
// column, per spec.md's "no explicit key -> synthetic ROWKEY" invariant.
func Build(keys, values []Column) (LogicalSchema, error) {
	if len(keys) == 0 {
		keys = []Column{NewColumn(RowkeyName, String, NamespaceKey, 0)}
	}

	ks := make([]Column, len(keys))
	seen := map[string]bool{}
	for i, c := range keys {
		c = c.WithIndex(uint32(i))
		c.namespace = NamespaceKey
		if seen[c.FullName()] {
			return LogicalSchema{}, ErrDuplicateColumn.New(c.FullName())
		}
		seen[c.FullName()] = true
		ks[i] = c
	}

	vs := make([]Column, len(values))
	seen = map[string]bool{}
	for i, c := range values {
		c = c.WithIndex(uint32(i))
		c.namespace = NamespaceValue
		if seen[c.FullName()] {
			return LogicalSchema{}, ErrDuplicateColumn.New(c.FullName())
		}
		seen[c.FullName()] = true
		vs[i] = c
	}

	return LogicalSchema{keys: ks, values: vs}, nil
}

// MustBuild is Build but panics on error; useful for schema literals in
// tests and collaborator adapters that construct schemas from data already
// known to be duplicate-free.
func MustBuild(keys, values []Column) LogicalSchema {
	s, err := Build(keys, values)
	if err != nil {
		panic(err)
	}
	return s
}

// Key returns the key columns, in order, qualified if the schema is
// aliased.
func (s LogicalSchema) Key() []Column { return cloneCols(s.keys) }

// Value returns the value columns, in order, qualified if the schema is
// aliased.
func (s LogicalSchema) Value() []Column { return cloneCols(s.values) }

// Metadata returns the implicit [ROWTIME BIGINT] column, qualified if the
// schema is aliased.
func (s LogicalSchema) Metadata() []Column {
	c := NewColumn(RowtimeName, BigInt, NamespaceMeta, 0)
	if s.hasAlias {
		c = c.WithSource(s.aliasedWith)
	}
	return []Column{c}
}

// Columns returns metadata ++ key ++ value, in that order, matching the
// teacher-adjacent convention (and the Java source's LogicalSchema.columns())
// of metadata-first ordering.
func (s LogicalSchema) Columns() []Column {
	out := make([]Column, 0, 1+len(s.keys)+len(s.values))
	out = append(out, s.Metadata()...)
	out = append(out, s.keys...)
	out = append(out, s.values...)
	return out
}

func cloneCols(cs []Column) []Column {
	out := make([]Column, len(cs))
	copy(out, cs)
	return out
}

// WithAlias applies source to every top-level key, value, and metadata
// column (spec.md §4.1 withAlias). Nested STRUCT field names are never
// re-qualified. Fails with ErrAlreadyAliased if any top-level column already
// has a source.
func (s LogicalSchema) WithAlias(source SourceName) (LogicalSchema, error) {
	if s.hasAlias {
		return LogicalSchema{}, ErrAlreadyAliased.New(s.aliasedWith.Text())
	}
	out := LogicalSchema{
		keys:        aliasCols(s.keys, source),
		values:      aliasCols(s.values, source),
		aliasedWith: source,
		hasAlias:    true,
	}
	return out, nil
}

func aliasCols(cs []Column, source SourceName) []Column {
	out := make([]Column, len(cs))
	for i, c := range cs {
		out[i] = c.WithSource(source)
	}
	return out
}

// WithoutAlias strips source from every top-level column (spec.md §4.1
// withoutAlias). Nested STRUCT field names are untouched even if they
// contain a literal "." in their name. Fails with ErrNotAliased if no
// top-level column is aliased.
func (s LogicalSchema) WithoutAlias() (LogicalSchema, error) {
	if !s.hasAlias {
		return LogicalSchema{}, ErrNotAliased.New()
	}
	return LogicalSchema{
		keys:   unaliasCols(s.keys),
		values: unaliasCols(s.values),
	}, nil
}

func unaliasCols(cs []Column) []Column {
	out := make([]Column, len(cs))
	for i, c := range cs {
		out[i] = c.WithoutSource()
	}
	return out
}

// IsAliased reports whether WithAlias has been applied, and the alias if so.
func (s LogicalSchema) IsAliased() (SourceName, bool) { return s.aliasedWith, s.hasAlias }

// findIn searches cs for a column matching nameOrQualified, which may be
// bare ("f0") or qualified ("bob.f0"). Matching is always case-sensitive;
// a bare query only matches an unqualified column, and a qualified query
// only matches a column whose source and name both match exactly.
func findIn(cs []Column, nameOrQualified string) (Column, bool) {
	source, bare, qualified := splitQualified(nameOrQualified)
	for _, c := range cs {
		if qualified {
			if s, ok := c.Source(); ok && s.Text() == source && c.name.Text() == bare {
				return c, true
			}
		} else {
			if _, ok := c.Source(); !ok && c.name.Text() == bare {
				return c, true
			}
		}
	}
	return Column{}, false
}

func splitQualified(name string) (source, bare string, qualified bool) {
	idx := strings.IndexByte(name, '.')
	if idx < 0 {
		return "", name, false
	}
	return name[:idx], name[idx+1:], true
}

// FindColumn searches value, then key, then meta columns, in that order,
// for nameOrQualified, accepting both bare and qualified forms
// (spec.md §4.1 findColumn). Returns the first match; never folds case.
func (s LogicalSchema) FindColumn(nameOrQualified string) (Column, bool) {
	if c, ok := findIn(s.values, nameOrQualified); ok {
		return c, true
	}
	if c, ok := findIn(s.keys, nameOrQualified); ok {
		return c, true
	}
	if c, ok := findIn(s.Metadata(), nameOrQualified); ok {
		return c, true
	}
	return Column{}, false
}

// FindValueColumn restricts FindColumn's search to value columns.
func (s LogicalSchema) FindValueColumn(nameOrQualified string) (Column, bool) {
	return findIn(s.values, nameOrQualified)
}

// FindKeyColumn restricts FindColumn's search to key columns.
func (s LogicalSchema) FindKeyColumn(nameOrQualified string) (Column, bool) {
	return findIn(s.keys, nameOrQualified)
}

// IsMetaColumn reports whether name matches the implicit ROWTIME column.
func (s LogicalSchema) IsMetaColumn(name ColumnName) bool {
	_, ok := findIn(s.Metadata(), name.Text())
	return ok
}

// IsKeyColumn reports whether name matches a key column's bare name.
func (s LogicalSchema) IsKeyColumn(name ColumnName) bool {
	_, ok := findIn(s.keys, name.Text())
	return ok
}

// ValueColumnIndex returns the positional index of a value column, or
// false if it is not found.
func (s LogicalSchema) ValueColumnIndex(nameOrQualified string) (int, bool) {
	c, ok := findIn(s.values, nameOrQualified)
	if !ok {
		return 0, false
	}
	return int(c.Index()), true
}

// WithMetaAndKeyColsInValue prepends ROWTIME then ROWKEY to the value list,
// removing any prior occurrences of either name anywhere in the value list
// first (spec.md §4.1). Idempotent: calling it again on its own result is a
// no-op. Alias qualification, if any, carries onto the prepended columns.
func (s LogicalSchema) WithMetaAndKeyColsInValue() LogicalSchema {
	// The injected ROWKEY value column is always STRING: ROWKEY is the
	// serialized form of the record key, regardless of the declared key
	// column's own SQL type (spec.md GLOSSARY: "Row-key ... injected as
	// STRING when no user key is declared").
	rowtime := s.Metadata()[0]
	rowkey := NewColumn(RowkeyName, String, NamespaceValue, 0)
	if s.hasAlias {
		rowkey = rowkey.WithSource(s.aliasedWith)
	}
	rowtime.namespace = NamespaceValue

	filtered := removeByBareName(s.values, RowtimeName, RowkeyName)
	out := append([]Column{rowtime, rowkey}, filtered...)
	return reindexed(LogicalSchema{keys: s.keys, values: out, aliasedWith: s.aliasedWith, hasAlias: s.hasAlias})
}

func removeByBareName(cs []Column, names ...ColumnName) []Column {
	var out []Column
	for _, c := range cs {
		skip := false
		for _, n := range names {
			if c.name.Equals(n) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, c)
		}
	}
	return out
}

// WithoutMetaAndKeyColsInValue removes any value column named ROWTIME or
// ROWKEY, wherever it occurs in the value list (spec.md §4.1). It is the
// mutual inverse of WithMetaAndKeyColsInValue modulo alias preservation and
// is idempotent.
func (s LogicalSchema) WithoutMetaAndKeyColsInValue() LogicalSchema {
	filtered := removeByBareName(s.values, RowtimeName, RowkeyName)
	return reindexed(LogicalSchema{keys: s.keys, values: filtered, aliasedWith: s.aliasedWith, hasAlias: s.hasAlias})
}

func reindexed(s LogicalSchema) LogicalSchema {
	for i := range s.values {
		s.values[i] = s.values[i].WithIndex(uint32(i))
	}
	for i := range s.keys {
		s.keys[i] = s.keys[i].WithIndex(uint32(i))
	}
	return s
}

// AsColumns returns a flat, positionally re-indexed copy of the columns in
// namespace ns (spec.md §4.9, generalizing the Java source's
// keyConnectSchema()/valueConnectSchema()). The serializer collaborator
// (§6.4) uses this to describe the wire schema for a single namespace
// without re-walking the full LogicalSchema split.
func (s LogicalSchema) AsColumns(ns Namespace) []Column {
	var src []Column
	switch ns {
	case NamespaceKey:
		src = s.keys
	case NamespaceValue:
		src = s.values
	case NamespaceMeta:
		src = s.Metadata()
	}
	out := make([]Column, len(src))
	for i, c := range src {
		out[i] = c.WithIndex(uint32(i))
	}
	return out
}

// Equals compares the key list and the value list column by column
// (qualifiers included). A schema round-tripped through
// WithMetaAndKeyColsInValue then WithoutMetaAndKeyColsInValue, or through
// WithAlias then WithoutAlias, compares equal to the original; a schema with
// the meta and key columns copied into its value list does not compare
// equal to one without them.
func (s LogicalSchema) Equals(o LogicalSchema) bool {
	if len(s.keys) != len(o.keys) || len(s.values) != len(o.values) {
		return false
	}
	for i := range s.keys {
		if !s.keys[i].Equals(o.keys[i]) {
			return false
		}
	}
	for i := range s.values {
		if !s.values[i].Equals(o.values[i]) {
			return false
		}
	}
	return true
}

// String renders the canonical bracketed column list of spec.md §6.1.
func (s LogicalSchema) String() string {
	return s.Format(DefaultFormatOptions())
}

// Format renders the schema per opts.
func (s LogicalSchema) Format(opts FormatOptions) string {
	var parts []string
	for _, c := range s.keys {
		parts = append(parts, c.format(opts)+" KEY")
	}
	for _, c := range s.values {
		parts = append(parts, c.format(opts))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
