package ksql

// Row is an ordered list of nullable values, sized to a schema's
// value-column count, matching the teacher's sql.Row ([]interface{})
// convention used throughout sql/expression and sql/plan.
type Row []interface{}

// NewRow is a convenience constructor mirroring sql.NewRow in the teacher.
func NewRow(values ...interface{}) Row {
	return Row(values)
}
