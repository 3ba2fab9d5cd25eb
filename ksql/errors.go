package ksql

import errors "gopkg.in/src-d/go-errors.v1"

// Error kinds, grouped as in spec.md §7. Each is a *errors.Kind from
// gopkg.in/src-d/go-errors.v1, the same typed-error pattern the teacher uses
// throughout sql/errors.go: a package-level Kind whose .New(args...) builds a
// *errors.Error carrying a formatted message and a stack trace.
var (
	// Name/schema errors.
	ErrDuplicateColumn = errors.NewKind("duplicate column: %s")
	ErrUnknownColumn   = errors.NewKind("column %q could not be found in schema")
	ErrAlreadyAliased  = errors.NewKind("schema is already aliased with %q")
	ErrNotAliased      = errors.NewKind("schema has no alias to remove")

	// Type errors.
	ErrTypeMismatch              = errors.NewKind("type mismatch: %s")
	ErrCastNotSupported           = errors.NewKind("cannot cast %s to %s")
	ErrCaseTypeMismatch          = errors.NewKind("CASE branches have incompatible types: %s")
	ErrArithmeticTypeMismatch    = errors.NewKind("cannot apply operator %q to types %s and %s")
	ErrComparisonIncompatible    = errors.NewKind("cannot compare %s with %s")
	ErrSubscriptBaseNotContainer = errors.NewKind("subscript base must be ARRAY or MAP, got %s")

	// Expression errors.
	ErrUnknownFunction          = errors.NewKind("unknown function: %s")
	ErrFunctionArityMismatch    = errors.NewKind("function %s expects %d arguments, got %d")
	ErrFunctionSignatureMismatch = errors.NewKind("function %s has no signature matching argument types %v")
	ErrInvalidTimestampLiteral  = errors.NewKind("invalid timestamp literal: %q")
	ErrDereferenceUnresolved    = errors.NewKind("cannot dereference field %q of unresolved type")

	// Plan errors.
	ErrJoinCombinationIllegal = errors.NewKind("illegal join combination: %s %s %s")
	ErrWithinRequired         = errors.NewKind("stream-stream joins require a WITHIN clause")
	ErrWithinForbidden        = errors.NewKind("WITHIN is not allowed for %s joins")
	ErrTableJoinKeyMismatch   = errors.NewKind("table %s join key %q does not match its key column %q or ROWKEY")
	ErrPartitionCountMismatch = errors.NewKind("partition counts do not match: left has %d, right has %d")
	ErrSchemaArityMismatch    = errors.NewKind("aggregate output schema has %d value columns, expected %d")

	// Insert errors.
	ErrInsertNonLiteral            = errors.NewKind("INSERT VALUES expression for column %q is not a literal")
	ErrInsertTypeMismatch          = errors.NewKind("cannot coerce value for column %q of type %s to %s")
	ErrInsertKeyMismatch           = errors.NewKind("ROWKEY value %q does not match key field value %q")
	ErrInsertIntoWindowedNotAllowed = errors.NewKind("cannot INSERT VALUES into a windowed aggregate result")
	ErrInsertDisabled              = errors.NewKind("INSERT VALUES is disabled by configuration")

	// Internal/programming errors not in the spec's taxonomy proper but
	// needed to report malformed calls from other packages in this module.
	ErrInvalidChildrenNumber = errors.NewKind("%s: invalid children number, got %d, expected %d")
)

// Location is a source position, attached to an error when the caller's AST
// carries one (§7: "each error carries the offending node's source location
// ... when the AST provides one"). The core itself never produces a
// Location; it is supplied by the (external) parser collaborator when it
// calls into the core and wants location-annotated errors back.
type Location struct {
	Line, Column int
}

// String renders "line:column", or "" for the zero Location.
func (l Location) String() string {
	if l == (Location{}) {
		return ""
	}
	return fmtPos(l.Line, l.Column)
}

func fmtPos(line, col int) string {
	return itoa(line) + ":" + itoa(col)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// AtLocation wraps err with a source location, producing a new error whose
// message is prefixed with "line:column: ". It is a no-op for the zero
// Location so callers can always pass one through without branching.
func AtLocation(loc Location, err error) error {
	if err == nil || loc == (Location{}) {
		return err
	}
	return &locatedError{loc: loc, err: err}
}

type locatedError struct {
	loc Location
	err error
}

func (e *locatedError) Error() string {
	return e.loc.String() + ": " + e.err.Error()
}

func (e *locatedError) Unwrap() error { return e.err }

// ErrLocation extracts the Location attached by AtLocation, if any.
func ErrLocation(err error) (Location, bool) {
	for err != nil {
		if le, ok := err.(*locatedError); ok {
			return le.loc, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return Location{}, false
}
