package codegen

import (
	"regexp"
	"strings"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// compileLike implements the LIKE compilation rules of spec.md §4.4: a
// pattern without '%' compiles to equality; "pat%" to startsWith; "%pat" to
// endsWith; "%pat%" to contains; any other pattern to a regex built by
// escaping the literal segments and substituting '%' -> ".*", '_' -> '.'.
// When the pattern is not a literal, the same classification runs once per
// row against the evaluated pattern value — still correct, just unable to
// precompile, grounded on the teacher's like.go distinguishing a "cached"
// (literal, precompiled) pattern from a per-row one.
func compileLike(n *expression.Like, path string, ctx *compileCtx) (evalFunc, error) {
	operand, err := compileNode(n.Operand, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}

	if lit, ok := n.Pattern.(*expression.Literal); ok && lit.Typed && lit.Typ.Kind() == ksql.KindString {
		pattern, _ := lit.Value.(string)
		matcher, err := compileLikeMatcher(pattern)
		if err != nil {
			return nil, err
		}
		return func(row ksql.Row) (interface{}, error) {
			v, err := operand(row)
			if err != nil || v == nil {
				return nil, err
			}
			s, _ := v.(string)
			return matcher(s), nil
		}, nil
	}

	pattern, err := compileNode(n.Pattern, childPath(path, 1), ctx)
	if err != nil {
		return nil, err
	}
	return func(row ksql.Row) (interface{}, error) {
		v, err := operand(row)
		if err != nil || v == nil {
			return nil, err
		}
		pv, err := pattern(row)
		if err != nil || pv == nil {
			return nil, err
		}
		ps, _ := pv.(string)
		matcher, err := compileLikeMatcher(ps)
		if err != nil {
			return nil, err
		}
		s, _ := v.(string)
		return matcher(s), nil
	}, nil
}

type likeMatcher func(s string) bool

func compileLikeMatcher(pattern string) (likeMatcher, error) {
	count := strings.Count(pattern, "%")
	switch {
	case count == 0:
		return func(s string) bool { return s == pattern }, nil

	case count == 1 && strings.HasSuffix(pattern, "%"):
		prefix := pattern[:len(pattern)-1]
		if !strings.Contains(prefix, "_") {
			return func(s string) bool { return strings.HasPrefix(s, prefix) }, nil
		}

	case count == 1 && strings.HasPrefix(pattern, "%"):
		suffix := pattern[1:]
		if !strings.Contains(suffix, "_") {
			return func(s string) bool { return strings.HasSuffix(s, suffix) }, nil
		}

	case count == 2 && strings.HasPrefix(pattern, "%") && strings.HasSuffix(pattern, "%"):
		inner := pattern[1 : len(pattern)-1]
		if !strings.Contains(inner, "%") && !strings.Contains(inner, "_") {
			return func(s string) bool { return strings.Contains(s, inner) }, nil
		}
	}

	re, err := regexp.Compile(likePatternToRegex(pattern))
	if err != nil {
		return nil, err
	}
	return func(s string) bool { return re.MatchString(s) }, nil
}

// likePatternToRegex escapes pattern as a literal regex except for '%'
// (-> ".*") and '_' (-> "."), anchoring the whole match.
func likePatternToRegex(pattern string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return b.String()
}
