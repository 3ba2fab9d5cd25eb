package plan

import (
	"fmt"
	"time"
)

// WindowKind is the closed sum of windowing strategies spec.md §4.5 names
// for Aggregate/WindowedAggregate.
type WindowKind int

const (
	// NoWindow marks an unwindowed Aggregate.
	NoWindow WindowKind = iota
	WindowTumbling
	WindowHopping
	WindowSession
)

func (k WindowKind) String() string {
	switch k {
	case WindowTumbling:
		return "TUMBLING"
	case WindowHopping:
		return "HOPPING"
	case WindowSession:
		return "SESSION"
	default:
		return "NONE"
	}
}

// Window carries the parameters of one windowing strategy (spec.md §4.5):
// Tumbling(size), Hopping(size, advance) with advance <= size, and
// Session(gap). The zero value is NoWindow.
type Window struct {
	Kind    WindowKind
	Size    time.Duration
	Advance time.Duration
	Gap     time.Duration
}

// TumblingWindow builds a fixed, non-overlapping window of the given size.
func TumblingWindow(size time.Duration) Window {
	return Window{Kind: WindowTumbling, Size: size}
}

// HoppingWindow builds an overlapping window advancing by advance every
// size-length window. Fails if advance exceeds size (spec.md §4.5: "require
// advance <= size").
func HoppingWindow(size, advance time.Duration) (Window, error) {
	if advance > size {
		return Window{}, ErrHoppingAdvanceExceedsSize.New(advance, size)
	}
	return Window{Kind: WindowHopping, Size: size, Advance: advance}, nil
}

// SessionWindow builds a variable-length window that closes after gap of
// inactivity and merges with an adjacent session on overlap.
func SessionWindow(gap time.Duration) Window {
	return Window{Kind: WindowSession, Gap: gap}
}

func (w Window) String() string {
	switch w.Kind {
	case WindowTumbling:
		return fmt.Sprintf("TUMBLING(%s)", w.Size)
	case WindowHopping:
		return fmt.Sprintf("HOPPING(%s, %s)", w.Size, w.Advance)
	case WindowSession:
		return fmt.Sprintf("SESSION(%s)", w.Gap)
	default:
		return "NONE"
	}
}

// WithinExpression converts a join's WITHIN clause into the engine-level
// join window (spec.md §4.9 supplement, §8 scenario 4): a join match is
// valid when the right row's timestamp falls within [leftTs - Before,
// leftTs + After].
type WithinExpression struct {
	Before time.Duration
	After  time.Duration
}

// SymmetricWithin builds a WithinExpression whose Before and After are both
// d, matching the common "WITHIN d" SQL syntax (as opposed to the asymmetric
// "WITHIN (b, a)" form).
func SymmetricWithin(d time.Duration) WithinExpression {
	return WithinExpression{Before: d, After: d}
}
