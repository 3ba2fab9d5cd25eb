// Package codegen lowers a type-checked expression (package expression)
// into a compiled row-level ExpressionEvaluator, per spec.md §4.4. It is
// grounded on the teacher's sql.Expression.Eval(ctx, row) pattern
// (dolthub-go-mysql-server/sql/expression), but separates "compile" from
// "eval": Compile walks the tree once, resolving function instances and
// column indices, and returns a closure tree that Eval merely invokes —
// there is no further tree-walking or registry lookup cost per row.
package codegen

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// ColumnRequirement is one entry of the "minimal set of required columns"
// codegen must declare (spec.md §4.4): a value column's full name, its
// positional index in the row, and its declared type.
type ColumnRequirement struct {
	FullName string
	Index    int
	Type     ksql.SqlType
}

// FunctionSite records the stable per-call-site identifier codegen assigns
// to each resolved FunctionCall (spec.md §4.4: "given a stable per-site
// identifier"), derived from the call's path-qualified tree position,
// matching the teacher's use of xxhash to derive stable state keys for
// grouping state (sql/plan/group_by.go).
type FunctionSite struct {
	ID   uint64
	Name string
}

// ExpressionEvaluator is a compiled row-level evaluator (spec.md §4.4). Eval
// takes a row sized to the schema's value-column count and returns the
// expression's value, or nil if a non-null-tolerant operator's input was
// nil.
type ExpressionEvaluator interface {
	Eval(row ksql.Row) (interface{}, error)
	// Type is the expression's inferred SQL type.
	Type() ksql.SqlType
	// RequiredColumns is the minimal, order-stable set of value columns
	// this evaluator reads.
	RequiredColumns() []ColumnRequirement
	// FunctionSites lists every resolved FunctionCall call site compiled
	// into this evaluator, in tree order.
	FunctionSites() []FunctionSite
}

type compiled struct {
	typ      ksql.SqlType
	eval     evalFunc
	required []ColumnRequirement
	sites    []FunctionSite
}

func (c *compiled) Eval(row ksql.Row) (interface{}, error)      { return c.eval(row) }
func (c *compiled) Type() ksql.SqlType                          { return c.typ }
func (c *compiled) RequiredColumns() []ColumnRequirement         { return c.required }
func (c *compiled) FunctionSites() []FunctionSite                { return c.sites }

type evalFunc func(row ksql.Row) (interface{}, error)

type compileCtx struct {
	schema   ksql.LogicalSchema
	registry ksql.FunctionRegistry
	sites    []FunctionSite
}

// Compile type-checks e against schema (failing with the same typed error
// type inference would produce — spec.md §8: "typeInfer(e, S) is defined
// iff code generation succeeds") and lowers it to an ExpressionEvaluator.
//
// Column references are resolved against schema's VALUE columns only: the
// row codegen compiles against is the value row, so callers that need to
// reference a key or meta column (ROWTIME, ROWKEY) must first project the
// schema with LogicalSchema.WithMetaAndKeyColsInValue, matching how the
// core itself prepares a row-level evaluator's input schema.
func Compile(e expression.Expression, schema ksql.LogicalSchema, registry ksql.FunctionRegistry) (ExpressionEvaluator, error) {
	inferCtx := expression.InferContext{Schema: schema, Registry: registry}
	typ, err := expression.Infer(e, inferCtx)
	if err != nil {
		return nil, err
	}

	names := expression.RequiredColumns(e)
	required := make([]ColumnRequirement, 0, len(names))
	for _, name := range names {
		col, ok := schema.FindValueColumn(name)
		if !ok {
			return nil, ksql.ErrUnknownColumn.New(name)
		}
		required = append(required, ColumnRequirement{
			FullName: name,
			Index:    int(col.Index()),
			Type:     col.Type(),
		})
	}

	ctx := &compileCtx{schema: schema, registry: registry}
	fn, err := compileNode(e, "0", ctx)
	if err != nil {
		return nil, err
	}

	return &compiled{typ: typ, eval: fn, required: required, sites: ctx.sites}, nil
}

func childPath(path string, i int) string {
	return path + "." + strconv.Itoa(i)
}

func callSiteID(path, name string) uint64 {
	return xxhash.Sum64String(name + "@" + path)
}

func inferOf(e expression.Expression, ctx *compileCtx) (ksql.SqlType, error) {
	return expression.Infer(e, expression.InferContext{Schema: ctx.schema, Registry: ctx.registry})
}

func compileNode(e expression.Expression, path string, ctx *compileCtx) (evalFunc, error) {
	switch n := e.(type) {
	case *expression.Literal:
		return compileLiteral(n), nil
	case *expression.ColumnRef:
		return compileColumnRef(n, ctx)
	case *expression.Arithmetic:
		return compileArithmetic(n, path, ctx)
	case *expression.Negate:
		return compileNegate(n, path, ctx)
	case *expression.Comparison:
		return compileComparison(n, path, ctx)
	case *expression.Between:
		return compileBetween(n, path, ctx)
	case *expression.Like:
		return compileLike(n, path, ctx)
	case *expression.In:
		return compileIn(n, path, ctx)
	case *expression.Logical:
		return compileLogical(n, path, ctx)
	case *expression.Not:
		return compileNot(n, path, ctx)
	case *expression.IsNull:
		return compileIsNull(n, path, ctx)
	case *expression.IsNotNull:
		return compileIsNotNull(n, path, ctx)
	case *expression.Cast:
		return compileCast(n, path, ctx)
	case *expression.Subscript:
		return compileSubscript(n, path, ctx)
	case *expression.Dereference:
		return compileDereference(n, path, ctx)
	case *expression.SearchedCase:
		return compileSearchedCase(n, path, ctx)
	case *expression.SimpleCase:
		return compileSimpleCase(n, path, ctx)
	case *expression.FunctionCall:
		return compileFunctionCall(n, path, ctx)
	default:
		return nil, fmt.Errorf("codegen: unrecognized expression node %T", e)
	}
}

func compileLiteral(n *expression.Literal) evalFunc {
	v := n.Value
	if !n.Typed {
		v = nil
	}
	return func(ksql.Row) (interface{}, error) { return v, nil }
}

func compileColumnRef(n *expression.ColumnRef, ctx *compileCtx) (evalFunc, error) {
	col, ok := ctx.schema.FindValueColumn(n.FullName)
	if !ok {
		return nil, ksql.ErrUnknownColumn.New(n.FullName)
	}
	idx := int(col.Index())
	return func(row ksql.Row) (interface{}, error) {
		if idx >= len(row) {
			return nil, nil
		}
		return row[idx], nil
	}, nil
}
