// Package expression implements the SQL expression algebra of spec.md §3,
// its type inference (§4.2), and a generic rewriter framework (§4.3),
// grounded on the teacher's sql.Expression interface
// (dolthub-go-mysql-server/sql/expression) and its transform.Expr tree
// walker (sql/transform/expr.go).
//
// Each variant is a small immutable struct implementing Expression rather
// than a class hierarchy: a closed sum with an exhaustive type switch at
// every consumer (type inference, codegen, rewriting) in place of a visitor
// hierarchy, per the "polymorphism over plan and expression variants"
// design note.
package expression

import "fmt"

// Expression is the common interface every variant in the algebra
// implements. It intentionally exposes only tree-shape operations;
// type inference and evaluation are separate, external walks over the
// concrete variants (infer.go, and the codegen package), matching the
// teacher's separation of sql.Expression.Type()/Eval() from
// transform.Expr's generic Children()/WithChildren() walk — except that
// here Type() is not on the interface at all, since a raw Expression is
// not yet type-checked.
type Expression interface {
	// Children returns the expression's immediate subexpressions, in a
	// fixed, meaningful order.
	Children() []Expression
	// WithChildren returns a copy of the expression with its children
	// replaced. len(children) must equal len(e.Children()).
	WithChildren(children ...Expression) (Expression, error)
	// String renders the expression for diagnostics and golden tests.
	String() string
}

// TreeIdentity reports whether a rewrite changed a (sub)tree, mirroring the
// teacher's transform.TreeIdentity (sql/transform/tree_identity.go): SameTree
// lets a rewrite avoid reallocating nodes it did not change.
type TreeIdentity bool

const (
	SameTree TreeIdentity = true
	NewTree  TreeIdentity = false
)

// RewriteFunc is a per-node plug-in for Rewrite: it may return a changed
// expression with NewTree, or the input with SameTree to keep traversing.
type RewriteFunc func(Expression) (Expression, TreeIdentity, error)

// Rewrite applies f to e from the bottom up: children are rewritten first,
// then f runs on the (possibly rebuilt) node. Rewrite never observes the
// identity of an unchanged subtree — a SameTree result from every child and
// from f itself returns the original e unchanged (§4.3: "must not observe
// the identity of nodes they do not change").
func Rewrite(e Expression, f RewriteFunc) (Expression, TreeIdentity, error) {
	children := e.Children()
	if len(children) == 0 {
		return f(e)
	}

	var newChildren []Expression
	for i, c := range children {
		rc, same, err := Rewrite(c, f)
		if err != nil {
			return nil, SameTree, err
		}
		if same == NewTree {
			if newChildren == nil {
				newChildren = make([]Expression, len(children))
				copy(newChildren, children)
			}
			newChildren[i] = rc
		}
	}

	sameChildren := SameTree
	if newChildren != nil {
		sameChildren = NewTree
		var err error
		e, err = e.WithChildren(newChildren...)
		if err != nil {
			return nil, SameTree, err
		}
	}

	e, sameNode, err := f(e)
	if err != nil {
		return nil, SameTree, err
	}
	if sameChildren == SameTree && sameNode == SameTree {
		return e, SameTree, nil
	}
	return e, NewTree, nil
}

// RequiredColumns returns the set of distinct column full-names referenced
// anywhere in e, in first-occurrence order (§8: "Codegen's required columns
// is exactly the set of distinct ColumnRef names in e").
func RequiredColumns(e Expression) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Expression)
	walk = func(e Expression) {
		if ref, ok := e.(*ColumnRef); ok {
			if !seen[ref.FullName] {
				seen[ref.FullName] = true
				out = append(out, ref.FullName)
			}
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	walk(e)
	return out
}

func wrongChildren(name string, got, want int) error {
	return fmt.Errorf("%s: WithChildren expects %d children, got %d", name, want, got)
}

func noChildren(e Expression) []Expression { return nil }

func withNoChildren(name string, e Expression, children ...Expression) (Expression, error) {
	if len(children) != 0 {
		return nil, wrongChildren(name, len(children), 0)
	}
	return e, nil
}
