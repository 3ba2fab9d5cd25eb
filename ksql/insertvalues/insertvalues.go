// Package insertvalues implements spec.md §4.6's INSERT ... VALUES path:
// resolving a target catalog source, defaulting omitted columns, coercing
// each value expression (which must be a Literal) to its column's type, and
// splitting the result into a (timestamp, key row, value row) triple ready
// to hand to the Serializer collaborator (spec.md §6.4).
//
// Grounded on the original Java InsertValuesExecutor
// (ksql-engine/.../engine/InsertValuesExecutor.java): same resolve-columns,
// coerce-literals, reconcile-key-field, inject-clock structure, adapted to
// this core's pure-value, no-I/O boundary (no producer, no serde wiring —
// the caller takes Result.Key/Result.Value to its own Serializer).
package insertvalues

import (
	"fmt"

	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

// Clock supplies the injected wall-clock timestamp used when no ROWTIME
// value is given explicitly (spec.md §4.6). Grounded on the Java source's
// LongSupplier clock field.
type Clock func() int64

// Assignment is one (column, expression) pair of an INSERT ... VALUES
// statement's column/value lists, already paired positionally by the
// caller (the parser collaborator resolves column-list-omitted form before
// calling Insert, or passes nil Columns and lets Insert default them).
type Assignment struct {
	Column ksql.ColumnName
	Expr   expression.Expression
}

// Result is the (timestamp, keyRow, valueRow) triple of spec.md §4.6, ready
// for the Serializer collaborator. Key is aligned to the target schema's
// Key() columns; Value is aligned to its WithMetaAndKeyColsInValue() Value()
// columns (ROWTIME, ROWKEY, then the declared value columns, in schema
// order).
type Result struct {
	Timestamp int64
	Key       ksql.Row
	Value     ksql.Row
}

// Insert implements spec.md §4.6 end to end. columns may be nil, in which
// case it defaults to [keyColumns..., valueColumns...] per the target's raw
// schema, and values must then have exactly that many entries.
func Insert(catalog ksql.Catalog, config ksql.Config, clock Clock, target ksql.SourceName, columns []ksql.ColumnName, values []expression.Expression) (Result, error) {
	if !config.InsertValuesEnabled {
		return Result{}, ksql.ErrInsertDisabled.New()
	}

	info, ok := catalog.Source(target)
	if !ok {
		return Result{}, ErrSourceNotFound.New(target.Text())
	}
	if info.Windowed {
		return Result{}, ksql.ErrInsertIntoWindowedNotAllowed.New()
	}

	schema := info.Schema

	if columns == nil {
		columns = defaultColumns(schema)
	}
	if len(columns) != len(values) {
		return Result{}, ErrColumnValueArityMismatch.New(len(columns), len(values))
	}

	resolved := make(map[string]interface{}, len(columns))
	for i, col := range columns {
		targetCol, ok := schema.FindColumn(col.Text())
		if !ok {
			return Result{}, ksql.ErrUnknownColumn.New(col.Text())
		}

		lit, ok := values[i].(*expression.Literal)
		if !ok {
			return Result{}, ksql.ErrInsertNonLiteral.New(col.Text())
		}

		if !lit.Typed || lit.Value == nil {
			resolved[col.Text()] = nil
			continue
		}

		coerced, err := coerceLiteral(lit.Value, lit.Typ, targetCol.Type(), col)
		if err != nil {
			return Result{}, err
		}
		resolved[col.Text()] = coerced
	}

	derivedRowkey, err := reconcileKeyField(resolved, info.KeyField)
	if err != nil {
		return Result{}, err
	}

	ts := clock()
	if v, present := resolved[ksql.RowtimeName.Text()]; present && v != nil {
		if explicit, ok := v.(int64); ok {
			ts = explicit
		}
	}

	key := buildKeyRow(schema, resolved, derivedRowkey)
	value := buildValueRow(schema, resolved)

	return Result{Timestamp: ts, Key: key, Value: value}, nil
}

// defaultColumns implements spec.md §4.6's "if columns are omitted, default
// to [keyColumns..., valueColumns...]".
func defaultColumns(schema ksql.LogicalSchema) []ksql.ColumnName {
	out := make([]ksql.ColumnName, 0, len(schema.Key())+len(schema.Value()))
	for _, c := range schema.Key() {
		out = append(out, c.Name())
	}
	for _, c := range schema.Value() {
		out = append(out, c.Name())
	}
	return out
}

// reconcileKeyField implements spec.md §4.6's "the explicit key field, if
// any, must agree with ROWKEY if both are supplied; if only one is
// supplied, the other is derived (ROWKEY is keyField.toString())". The
// derived ROWKEY value is returned for use in the key row only — it is
// never written back into resolved, so an omitted ROWKEY value column stays
// nil in the value row (only the key struct sees the derivation).
func reconcileKeyField(resolved map[string]interface{}, keyField ksql.KeyField) (interface{}, error) {
	name, present := keyField.Name()
	if !present {
		return resolved[ksql.RowkeyName.Text()], nil
	}

	keyValue, keyGiven := resolved[name.Text()]
	rowkeyValue, rowkeyGiven := resolved[ksql.RowkeyName.Text()]
	keyGiven = keyGiven && keyValue != nil
	rowkeyGiven = rowkeyGiven && rowkeyValue != nil

	switch {
	case keyGiven && rowkeyGiven:
		if toText(keyValue) != toText(rowkeyValue) {
			return nil, ksql.ErrInsertKeyMismatch.New(toText(rowkeyValue), toText(keyValue))
		}
		return rowkeyValue, nil
	case keyGiven:
		return toText(keyValue), nil
	case rowkeyGiven:
		resolved[name.Text()] = rowkeyValue
		return rowkeyValue, nil
	default:
		return nil, nil
	}
}

func toText(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func buildKeyRow(schema ksql.LogicalSchema, resolved map[string]interface{}, derivedRowkey interface{}) ksql.Row {
	keys := schema.Key()
	row := make(ksql.Row, len(keys))
	for i, c := range keys {
		if c.Name().Equals(ksql.RowkeyName) {
			row[i] = derivedRowkey
			continue
		}
		row[i] = resolved[c.Name().Text()]
	}
	return row
}

func buildValueRow(schema ksql.LogicalSchema, resolved map[string]interface{}) ksql.Row {
	decorated := schema.WithMetaAndKeyColsInValue()
	values := decorated.Value()
	row := make(ksql.Row, len(values))
	for i, c := range values {
		row[i] = resolved[c.Name().Text()]
	}
	return row
}
