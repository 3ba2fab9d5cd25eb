package plan

import (
	"github.com/johnswan/ksql/ksql"
)

// DataSource is a leaf plan node resolving a catalog entry, per spec.md
// §4.5 DataSource: "Output schema is the catalog schema aliased by the
// declared source alias, with ROWTIME, ROWKEY projected into value. Output
// key field is the catalog's declared key column, if any." Grounded on the
// teacher's leaf table nodes (sql/plan/resolved_table.go), reduced to a pure
// value since this core never executes a plan.
type DataSource struct {
	name     ksql.SourceName
	alias    ksql.SourceName
	hasAlias bool
	info     ksql.DataSourceInfo
	schema   ksql.LogicalSchema
	keyField ksql.KeyField
}

// NewDataSource resolves name against catalog and, if alias is non-nil,
// applies it to the output schema and key field. A nil alias leaves the
// schema unaliased, matching scenario 1 of spec.md §8 ("Key field: a", not
// "S.a", for a bare "FROM S").
func NewDataSource(catalog ksql.Catalog, name ksql.SourceName, alias *ksql.SourceName) (*DataSource, error) {
	info, ok := catalog.Source(name)
	if !ok {
		return nil, ErrSourceNotFound.New(name.Text())
	}

	schema := info.Schema
	keyField := info.KeyField

	if alias != nil {
		aliased, err := schema.WithAlias(*alias)
		if err != nil {
			return nil, err
		}
		schema = aliased
		keyField = qualify(keyField, *alias)
	}

	schema = schema.WithMetaAndKeyColsInValue()

	ds := &DataSource{info: info, schema: schema, keyField: keyField, name: name}
	if alias != nil {
		ds.alias = *alias
		ds.hasAlias = true
	}
	return ds, nil
}

// qualify re-homes a bare KeyField under alias, e.g. "a" -> "s.a". A KeyField
// with no name is returned unchanged.
func qualify(kf ksql.KeyField, alias ksql.SourceName) ksql.KeyField {
	name, ok := kf.Name()
	if !ok {
		return kf
	}
	return ksql.KeyFieldOf(ksql.ColumnNameOf(alias.Text() + "." + name.Text()))
}

func (d *DataSource) Schema() ksql.LogicalSchema { return d.schema }
func (d *DataSource) KeyField() ksql.KeyField    { return d.keyField }
func (d *DataSource) Type() ksql.SourceType      { return d.info.Type }
func (d *DataSource) PartitionCount() int        { return d.info.PartitionCount }
func (d *DataSource) Children() []Node           { return nil }

// Info exposes the resolved catalog entry for downstream collaborators
// (serde selection at Sink/insert-values time).
func (d *DataSource) Info() ksql.DataSourceInfo { return d.info }

func (d *DataSource) String() string {
	if d.hasAlias {
		return "DataSource(" + d.name.Text() + " AS " + d.alias.Text() + ")"
	}
	return "DataSource(" + d.name.Text() + ")"
}
