package ksql

import (
	"fmt"
	"strings"
)

// TypeKind tags the closed sum of SQL types (spec.md §3 SqlType).
type TypeKind int

const (
	KindBoolean TypeKind = iota
	KindInteger
	KindBigInt
	KindDouble
	KindString
	KindDecimal
	KindArray
	KindMap
	KindStruct
	// KindUnknown is the type of an untyped NULL literal (spec.md §3: "NULL
	// has unknown type, propagates as any"). It never appears as the
	// declared type of a schema column; it only arises as an intermediate
	// result of type inference over a Literal with Typed == false.
	KindUnknown
)

func (k TypeKind) String() string {
	switch k {
	case KindBoolean:
		return "BOOLEAN"
	case KindInteger:
		return "INTEGER"
	case KindBigInt:
		return "BIGINT"
	case KindDouble:
		return "DOUBLE"
	case KindString:
		return "STRING"
	case KindDecimal:
		return "DECIMAL"
	case KindArray:
		return "ARRAY"
	case KindMap:
		return "MAP"
	case KindStruct:
		return "STRUCT"
	case KindUnknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// StructField is a single (name, type) pair within a STRUCT. Order matters:
// two STRUCT types with the same fields in different order are different
// types, matching the ordered-list invariant in spec.md §3.
type StructField struct {
	Name string
	Type SqlType
}

// SqlType is the closed sum described in spec.md §3. It is implemented as a
// single immutable value type rather than an interface hierarchy: the
// "polymorphism over plan and expression variants" design note (§9) applies
// equally here — a tagged value with a Kind discriminant, matched
// exhaustively by helpers, is simpler than a type hierarchy for a closed sum
// with no planned extension point.
type SqlType struct {
	kind TypeKind

	// DECIMAL
	precision, scale int

	// ARRAY / MAP value type
	elem *SqlType

	// STRUCT fields, in declaration order
	fields []StructField
}

var (
	Boolean = SqlType{kind: KindBoolean}
	Integer = SqlType{kind: KindInteger}
	BigInt  = SqlType{kind: KindBigInt}
	Double  = SqlType{kind: KindDouble}
	String  = SqlType{kind: KindString}

	// Unknown is the type assigned to an untyped NULL literal by inference.
	// It is a wildcard for casting, arithmetic, and comparison purposes
	// (type_rules.go), and must never be used as a schema column's declared
	// type.
	Unknown = SqlType{kind: KindUnknown}
)

// IsUnknown reports whether t is the NULL-literal wildcard type.
func (t SqlType) IsUnknown() bool { return t.kind == KindUnknown }

// Decimal builds a DECIMAL(precision, scale) type. Panics if the invariant
// 1 <= scale <= precision <= 38 (spec.md §3) is violated: malformed DECIMAL
// bounds are a caller-programming error, always caught by construction, not
// a condition the core needs to report as a typed planning error.
func Decimal(precision, scale int) SqlType {
	if !(1 <= scale && scale <= precision && precision <= 38) {
		panic(fmt.Sprintf("invalid DECIMAL(%d, %d): require 1 <= scale <= precision <= 38", precision, scale))
	}
	return SqlType{kind: KindDecimal, precision: precision, scale: scale}
}

// Array builds an ARRAY<elem> type.
func Array(elem SqlType) SqlType {
	e := elem
	return SqlType{kind: KindArray, elem: &e}
}

// Map builds a MAP<STRING, elem> type. Map keys are always STRING
// (spec.md §3 invariant); there is no key-type parameter.
func Map(elem SqlType) SqlType {
	e := elem
	return SqlType{kind: KindMap, elem: &e}
}

// Struct builds a STRUCT<fields...> type with the given fields in order.
func Struct(fields ...StructField) SqlType {
	fs := make([]StructField, len(fields))
	copy(fs, fields)
	return SqlType{kind: KindStruct, fields: fs}
}

func (t SqlType) Kind() TypeKind { return t.kind }

// Precision and Scale are only meaningful for DECIMAL; they return 0 for
// every other kind.
func (t SqlType) Precision() int { return t.precision }
func (t SqlType) Scale() int     { return t.scale }

// ElementType is only meaningful for ARRAY/MAP.
func (t SqlType) ElementType() SqlType {
	if t.elem == nil {
		return SqlType{}
	}
	return *t.elem
}

// Fields is only meaningful for STRUCT.
func (t SqlType) Fields() []StructField {
	out := make([]StructField, len(t.fields))
	copy(out, t.fields)
	return out
}

// Equals is structural equality over the closed sum.
func (t SqlType) Equals(o SqlType) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindDecimal:
		return t.precision == o.precision && t.scale == o.scale
	case KindArray, KindMap:
		return t.ElementType().Equals(o.ElementType())
	case KindStruct:
		if len(t.fields) != len(o.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i].Name != o.fields[i].Name || !t.fields[i].Type.Equals(o.fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// IsNumeric reports whether t participates in arithmetic promotion.
func (t SqlType) IsNumeric() bool {
	switch t.kind {
	case KindInteger, KindBigInt, KindDouble, KindDecimal:
		return true
	default:
		return false
	}
}

// IsPrimitive reports whether t is one of BOOLEAN/INTEGER/BIGINT/DOUBLE/STRING.
func (t SqlType) IsPrimitive() bool {
	switch t.kind {
	case KindBoolean, KindInteger, KindBigInt, KindDouble, KindString:
		return true
	default:
		return false
	}
}

// String renders the type per spec.md §6.1: STRUCT<f1 T1, f2 T2>,
// ARRAY<T>, MAP<STRING, T>, DECIMAL(p, s), and bare names otherwise.
func (t SqlType) String() string {
	return t.format(DefaultFormatOptions())
}

func (t SqlType) format(opts FormatOptions) string {
	switch t.kind {
	case KindDecimal:
		return fmt.Sprintf("DECIMAL(%d, %d)", t.precision, t.scale)
	case KindArray:
		return fmt.Sprintf("ARRAY<%s>", t.ElementType().format(opts))
	case KindMap:
		return fmt.Sprintf("MAP<STRING, %s>", t.ElementType().format(opts))
	case KindStruct:
		parts := make([]string, len(t.fields))
		for i, f := range t.fields {
			parts[i] = fmt.Sprintf("%s %s", quoteIdentifier(f.Name, opts), f.Type.format(opts))
		}
		return "STRUCT<" + strings.Join(parts, ", ") + ">"
	default:
		return t.kind.String()
	}
}
