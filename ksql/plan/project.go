package plan

import (
	"strings"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// ProjectItem is one (outputName, expression) pair of a Project list
// (spec.md §4.5 Project).
type ProjectItem struct {
	Name ksql.ColumnName
	Expr expression.Expression
}

// Project implements spec.md §4.5 Project (select): value columns are named
// and typed from items, key columns pass through unchanged, and the key
// field propagates to the output name of whichever item re-references the
// input key field (never ROWTIME/ROWKEY), grounded on the teacher's
// Project/ProjectedTable schema derivation (sql/plan/project.go).
type Project struct {
	unaryNode
	items    []ProjectItem
	schema   ksql.LogicalSchema
	keyField ksql.KeyField
	typ      ksql.SourceType
}

// NewProject type-checks each item's expression against child's schema and
// builds the output schema and key field.
func NewProject(registry ksql.FunctionRegistry, child Node, items []ProjectItem) (*Project, error) {
	inputSchema := child.Schema()

	values := make([]ksql.Column, len(items))
	for i, it := range items {
		typ, err := expression.Infer(it.Expr, expression.InferContext{Schema: inputSchema, Registry: registry})
		if err != nil {
			return nil, err
		}
		values[i] = ksql.NewColumn(it.Name, typ, ksql.NamespaceValue, uint32(i))
	}

	schema, err := ksql.Build(inputSchema.Key(), values)
	if err != nil {
		return nil, err
	}

	return &Project{
		unaryNode: unaryNode{child: child},
		items:     items,
		schema:    schema,
		keyField:  propagateProjectKeyField(inputSchema, child.KeyField(), items),
		typ:       child.Type(),
	}, nil
}

// propagateProjectKeyField implements spec.md §4.5's Project key-field rule:
// if the projection contains a reference to the input key field (possibly
// re-aliased), the new key field takes the corresponding output name;
// ROWTIME/ROWKEY references never become the new key field; otherwise the
// key field is dropped.
func propagateProjectKeyField(inputSchema ksql.LogicalSchema, inputKeyField ksql.KeyField, items []ProjectItem) ksql.KeyField {
	name, ok := inputKeyField.Name()
	if !ok {
		return ksql.NoKeyField
	}
	keyCol, ok := inputSchema.FindColumn(name.Text())
	if !ok {
		return ksql.NoKeyField
	}
	for _, it := range items {
		ref, isRef := it.Expr.(*expression.ColumnRef)
		if !isRef || isRowtimeOrRowkeyRef(ref.FullName) {
			continue
		}
		col, found := inputSchema.FindColumn(ref.FullName)
		if !found {
			continue
		}
		if col.Equals(keyCol) {
			return ksql.KeyFieldOf(it.Name)
		}
	}
	return ksql.NoKeyField
}

// isRowtimeOrRowkeyRef reports whether a (possibly qualified) column
// reference's bare name is the reserved ROWTIME or ROWKEY name.
func isRowtimeOrRowkeyRef(fullName string) bool {
	bare := fullName
	if idx := strings.IndexByte(fullName, '.'); idx >= 0 {
		bare = fullName[idx+1:]
	}
	return bare == ksql.RowtimeName.Text() || bare == ksql.RowkeyName.Text()
}

func (p *Project) Schema() ksql.LogicalSchema { return p.schema }
func (p *Project) KeyField() ksql.KeyField    { return p.keyField }
func (p *Project) Type() ksql.SourceType      { return p.typ }

func (p *Project) String() string {
	names := make([]string, len(p.items))
	for i, it := range p.items {
		names[i] = it.Expr.String() + " AS " + it.Name.Text()
	}
	return "Project(" + strings.Join(names, ", ") + ")"
}
