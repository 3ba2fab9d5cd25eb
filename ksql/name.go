// Package ksql is the logical planning core of a streaming SQL engine: the
// schema model, the expression algebra and type system, and the relational
// plan algebra, over streams and tables partitioned on top of an external
// pub/sub substrate. Subpackages build on these types: expression (the
// expression tree, type inference, and rewriters), codegen (row-level
// evaluator compilation), plan (the relational plan nodes and the join/rekey
// planner), and insertvalues (the INSERT ... VALUES literal-row path).
package ksql

import (
	"fmt"
	"strings"
	"unicode"
)

// ColumnName, SourceName, and FunctionName are disjoint name kinds. Each
// wraps a non-empty string; equality is case-sensitive and names carry no
// inherent qualification. Keeping these as distinct types (rather than bare
// strings) means a bare column name can never be passed where a source name
// is expected, and the reverse, without a compile error.
type ColumnName struct {
	name string
}

// SourceName identifies a data source (stream or table) or an alias applied
// to one.
type SourceName struct {
	name string
}

// FunctionName identifies a scalar or aggregate function. Per the function
// registry boundary (§6.3, §9 open question), function name matching is
// exact; the registry itself is responsible for any upper-casing it wants to
// apply at lookup time.
type FunctionName struct {
	name string
}

// ColumnNameOf wraps a non-empty string as a ColumnName. It panics on an
// empty string: this is a programming error at every call site, never a
// condition produced by user input (which is validated by the parser
// collaborator before it reaches the core).
func ColumnNameOf(name string) ColumnName {
	mustNonEmpty("ColumnName", name)
	return ColumnName{name: name}
}

// SourceNameOf wraps a non-empty string as a SourceName.
func SourceNameOf(name string) SourceName {
	mustNonEmpty("SourceName", name)
	return SourceName{name: name}
}

// FunctionNameOf wraps a non-empty string as a FunctionName.
func FunctionNameOf(name string) FunctionName {
	mustNonEmpty("FunctionName", name)
	return FunctionName{name: name}
}

func mustNonEmpty(kind, name string) {
	if name == "" {
		panic(fmt.Sprintf("%s: name must not be empty", kind))
	}
}

func (n ColumnName) Text() string   { return n.name }
func (n SourceName) Text() string   { return n.name }
func (n FunctionName) Text() string { return n.name }

func (n ColumnName) String() string   { return n.name }
func (n SourceName) String() string   { return n.name }
func (n FunctionName) String() string { return n.name }

// Equals performs case-sensitive equality.
func (n ColumnName) Equals(o ColumnName) bool     { return n.name == o.name }
func (n SourceName) Equals(o SourceName) bool     { return n.name == o.name }
func (n FunctionName) Equals(o FunctionName) bool { return n.name == o.name }

// FormatOptions controls identifier quoting during rendering (§6.1). It is a
// pluggable predicate set so that callers with different reserved-word lists
// can reuse the same rendering logic.
type FormatOptions struct {
	// AlwaysQuote, when set, forces quoting regardless of IsReservedWord.
	AlwaysQuote bool
	// IsReservedWord reports whether word collides with a reserved word and
	// therefore must be quoted even though it would otherwise be a valid bare
	// identifier. A nil func means no reserved words.
	IsReservedWord func(word string) bool
}

// DefaultFormatOptions never treats any word as reserved.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{}
}

func (o FormatOptions) reserved(word string) bool {
	return o.IsReservedWord != nil && o.IsReservedWord(word)
}

// IsBareIdentifier reports whether word is a valid identifier with no
// quoting: starts with a letter or underscore, followed by letters, digits,
// or underscores.
func IsBareIdentifier(word string) bool {
	if word == "" {
		return false
	}
	for i, r := range word {
		if i == 0 {
			if !(unicode.IsLetter(r) || r == '_') {
				return false
			}
			continue
		}
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}

// quoteIdentifier renders word, back-tick-quoted when it is not a bare
// identifier or collides with a reserved word under opts.
func quoteIdentifier(word string, opts FormatOptions) string {
	if opts.AlwaysQuote || !IsBareIdentifier(word) || opts.reserved(word) {
		return "`" + strings.ReplaceAll(word, "`", "``") + "`"
	}
	return word
}

// FormatColumnName renders a ColumnName per opts.
func FormatColumnName(n ColumnName, opts FormatOptions) string {
	return quoteIdentifier(n.name, opts)
}

// FormatSourceName renders a SourceName per opts.
func FormatSourceName(n SourceName, opts FormatOptions) string {
	return quoteIdentifier(n.name, opts)
}
