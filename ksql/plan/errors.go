package plan

import errors "gopkg.in/src-d/go-errors.v1"

// ErrSourceNotFound is raised when DataSource is asked to resolve a name the
// catalog does not carry. It is not one of spec.md §7's named kinds (that
// taxonomy starts once the core is past catalog resolution), but follows the
// same *errors.Kind construction the rest of the module uses for any error
// crossing a package boundary.
var ErrSourceNotFound = errors.NewKind("no such source in catalog: %s")

// ErrHoppingAdvanceExceedsSize guards the Hopping window invariant of
// spec.md §4.5 ("require advance <= size").
var ErrHoppingAdvanceExceedsSize = errors.NewKind("hopping window advance (%s) must not exceed its size (%s)")

// ErrWindowSelectorRequiresWindow is raised when an aggregate list names the
// WindowStart/WindowEnd pseudo-functions (spec.md §4.5's "window selector")
// over an unwindowed Aggregate.
var ErrWindowSelectorRequiresWindow = errors.NewKind("%s is only valid in a windowed aggregate")
