package expression

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/johnswan/ksql/ksql"
)

// RewriteRowtime is the mandatory canonicalization rewriter of spec.md §4.3.
// If a Comparison or Between has the ROWTIME column on one side and a
// STRING literal on the other, the literal is parsed per the fixed
// date-time grammar (yyyy-MM-dd'T'HH:mm:ss.SSS with optional trailing
// offset, leftward zero-completion) and replaced with a BIGINT epoch-millis
// Literal. It is idempotent: the replacement is itself a typed BIGINT
// literal, so a second pass finds no STRING literal left to rewrite (§8).
//
// Grounded on the teacher's transform.Expr bottom-up rewrite idiom
// (sql/transform/expr.go), specialized to this one canonicalization.
func RewriteRowtime(e Expression) (Expression, error) {
	out, _, err := Rewrite(e, rewriteRowtimeNode)
	return out, err
}

func rewriteRowtimeNode(e Expression) (Expression, TreeIdentity, error) {
	switch n := e.(type) {
	case *Comparison:
		left, right, changed, err := rewriteRowtimePair(n.Left, n.Right)
		if err != nil {
			return nil, SameTree, err
		}
		if !changed {
			return e, SameTree, nil
		}
		return &Comparison{Op: n.Op, Left: left, Right: right}, NewTree, nil

	case *Between:
		if !isRowtimeColumn(n.Operand) {
			return e, SameTree, nil
		}
		low, lowChanged, err := rewriteStringLiteralAsRowtime(n.Low)
		if err != nil {
			return nil, SameTree, err
		}
		high, highChanged, err := rewriteStringLiteralAsRowtime(n.High)
		if err != nil {
			return nil, SameTree, err
		}
		if !lowChanged && !highChanged {
			return e, SameTree, nil
		}
		return &Between{Operand: n.Operand, Low: low, High: high}, NewTree, nil
	}
	return e, SameTree, nil
}

func rewriteRowtimePair(left, right Expression) (Expression, Expression, bool, error) {
	switch {
	case isRowtimeColumn(left):
		r, changed, err := rewriteStringLiteralAsRowtime(right)
		return left, r, changed, err
	case isRowtimeColumn(right):
		l, changed, err := rewriteStringLiteralAsRowtime(left)
		return l, right, changed, err
	default:
		return left, right, false, nil
	}
}

func isRowtimeColumn(e Expression) bool {
	ref, ok := e.(*ColumnRef)
	if !ok {
		return false
	}
	if idx := strings.LastIndexByte(ref.FullName, '.'); idx >= 0 {
		return ref.FullName[idx+1:] == ksql.RowtimeName.Text()
	}
	return ref.FullName == ksql.RowtimeName.Text()
}

// rewriteStringLiteralAsRowtime replaces e with a BIGINT epoch-millis
// literal if e is a typed STRING Literal; otherwise e is returned unchanged
// with changed=false, which is what makes the rewriter idempotent (a
// BIGINT literal never matches the STRING-typed check on a second pass).
func rewriteStringLiteralAsRowtime(e Expression) (Expression, bool, error) {
	lit, ok := e.(*Literal)
	if !ok || !lit.Typed || lit.Typ.Kind() != ksql.KindString {
		return e, false, nil
	}
	s, ok := lit.Value.(string)
	if !ok {
		return e, false, nil
	}
	millis, err := parseTimestampLiteral(s)
	if err != nil {
		return nil, false, err
	}
	return NewLiteral(millis, ksql.BigInt), true, nil
}

// parseTimestampLiteral implements the date-time grammar of spec.md §4.3:
// yyyy[-MM[-dd]]['T'HH[:mm[:ss[.SSS]]]][offset]. Missing month/day default
// to 01; missing time components default to 0; a missing offset means UTC
// (documented resolution of the §9 open question — the source's ambient
// default is not reproduced here, UTC is chosen explicitly).
func parseTimestampLiteral(s string) (int64, error) {
	datePart, timePart, hasTime := strings.Cut(s, "T")

	dateFields := strings.Split(datePart, "-")
	if len(dateFields) == 0 || len(dateFields) > 3 || dateFields[0] == "" {
		return 0, ksql.ErrInvalidTimestampLiteral.New(s)
	}
	year, err := strconv.Atoi(dateFields[0])
	if err != nil {
		return 0, ksql.ErrInvalidTimestampLiteral.New(s)
	}
	month, err := optionalIntField(dateFields, 1, 1)
	if err != nil {
		return 0, ksql.ErrInvalidTimestampLiteral.New(s)
	}
	day, err := optionalIntField(dateFields, 2, 1)
	if err != nil {
		return 0, ksql.ErrInvalidTimestampLiteral.New(s)
	}

	hour, minute, second, nanos := 0, 0, 0, 0
	loc := time.UTC
	if hasTime {
		offsetStr, rest := splitTrailingOffset(timePart)
		timeFields := strings.Split(rest, ":")
		if len(timeFields) == 0 || len(timeFields) > 3 {
			return 0, ksql.ErrInvalidTimestampLiteral.New(s)
		}
		hour, err = strconv.Atoi(timeFields[0])
		if err != nil {
			return 0, ksql.ErrInvalidTimestampLiteral.New(s)
		}
		minute, err = optionalIntField(timeFields, 1, 0)
		if err != nil {
			return 0, ksql.ErrInvalidTimestampLiteral.New(s)
		}
		if len(timeFields) > 2 {
			secStr, fracStr, hasFrac := strings.Cut(timeFields[2], ".")
			second, err = strconv.Atoi(secStr)
			if err != nil {
				return 0, ksql.ErrInvalidTimestampLiteral.New(s)
			}
			if hasFrac {
				millis, err := parseMillisFraction(fracStr)
				if err != nil {
					return 0, ksql.ErrInvalidTimestampLiteral.New(s)
				}
				nanos = millis * int(time.Millisecond)
			}
		}
		if offsetStr != "" && offsetStr != "Z" {
			fixedLoc, err := parseOffset(offsetStr)
			if err != nil {
				return 0, ksql.ErrInvalidTimestampLiteral.New(s)
			}
			loc = fixedLoc
		}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, nanos, loc)
	return t.UnixMilli(), nil
}

func optionalIntField(fields []string, idx, def int) (int, error) {
	if idx >= len(fields) {
		return def, nil
	}
	return strconv.Atoi(fields[idx])
}

func parseMillisFraction(frac string) (int, error) {
	for len(frac) < 3 {
		frac += "0"
	}
	return strconv.Atoi(frac[:3])
}

// splitTrailingOffset splits a time string such as "03:04:05.000+02:00" or
// "03:04:05Z" into its offset suffix (if any) and the remaining time
// fields. The sign of an offset is distinguished from a leading sign on the
// first time field by requiring the marker not be at index 0.
func splitTrailingOffset(timePart string) (offset, rest string) {
	for i := 0; i < len(timePart); i++ {
		c := timePart[i]
		if c == 'Z' {
			return timePart[i:], timePart[:i]
		}
		if i > 0 && (c == '+' || c == '-') {
			return timePart[i:], timePart[:i]
		}
	}
	return "", timePart
}

func parseOffset(s string) (*time.Location, error) {
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil, fmt.Errorf("invalid offset %q", s)
	}
	digits := strings.ReplaceAll(s[1:], ":", "")
	if len(digits) != 4 {
		return nil, fmt.Errorf("invalid offset %q", s)
	}
	hh, err := strconv.Atoi(digits[:2])
	if err != nil {
		return nil, err
	}
	mm, err := strconv.Atoi(digits[2:])
	if err != nil {
		return nil, err
	}
	seconds := sign * (hh*3600 + mm*60)
	return time.FixedZone(s, seconds), nil
}
