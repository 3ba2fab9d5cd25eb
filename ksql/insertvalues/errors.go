package insertvalues

import errors "gopkg.in/src-d/go-errors.v1"

// ErrSourceNotFound reports a target named by an INSERT statement that the
// catalog does not know about. It is not one of spec.md §7's Insert errors
// proper (those all assume a resolved source) but must be reported the same
// way: a typed error, never a panic.
var ErrSourceNotFound = errors.NewKind("insert target %q is not a known source")

// ErrColumnValueArityMismatch reports a column list and value list of
// different lengths. Not one of spec.md §7's five Insert error kinds (those
// all assume the lists already line up); kept local to this package since
// it is purely a caller-input-shape error.
var ErrColumnValueArityMismatch = errors.NewKind("expected %d values, got %d")
