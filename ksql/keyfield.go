package ksql

// KeyField carries the "which column is the partition key?" attribute that
// every plan node produces (spec.md §3, §4.9 Key-Field Tracking). It is a
// pure value attached to each plan node and recomputed at construction
// time, never mutated (spec.md §9).
type KeyField struct {
	name ColumnName
	set  bool
}

// NoKeyField is the absent key field, produced by outer joins in particular
// (spec.md §3 KeyField invariant).
var NoKeyField = KeyField{}

// KeyFieldOf builds a present KeyField naming the given column.
func KeyFieldOf(name ColumnName) KeyField {
	return KeyField{name: name, set: true}
}

// Name returns the key column's name and whether a key field is present.
func (k KeyField) Name() (ColumnName, bool) { return k.name, k.set }

// IsPresent reports whether this KeyField names a column.
func (k KeyField) IsPresent() bool { return k.set }

// Validate checks the KeyField invariant from spec.md §3: if a name is
// present, it must resolve in schema.
func (k KeyField) Validate(schema LogicalSchema) error {
	if !k.set {
		return nil
	}
	if _, ok := schema.FindColumn(k.name.Text()); !ok {
		return ErrUnknownColumn.New(k.name.Text())
	}
	return nil
}

func (k KeyField) String() string {
	if !k.set {
		return "<none>"
	}
	return k.name.Text()
}

// Equals is value equality.
func (k KeyField) Equals(o KeyField) bool {
	return k.set == o.set && (!k.set || k.name.Equals(o.name))
}
