package ksql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	k0 = ColumnNameOf("k0")
	f0 = ColumnNameOf("f0")
	f1 = ColumnNameOf("f1")
	bob = SourceNameOf("bob")
)

func someSchema(t *testing.T) LogicalSchema {
	s, err := Build(
		[]Column{NewColumn(k0, BigInt, NamespaceKey, 0)},
		[]Column{
			NewColumn(f0, String, NamespaceValue, 0),
			NewColumn(f1, BigInt, NamespaceValue, 1),
		},
	)
	require.NoError(t, err)
	return s
}

func TestSchemaBuildSyntheticKey(t *testing.T) {
	s, err := Build(nil, []Column{NewColumn(f0, String, NamespaceValue, 0)})
	require.NoError(t, err)
	require.Len(t, s.Key(), 1)
	require.True(t, s.Key()[0].Name().Equals(RowkeyName))
	require.True(t, s.Key()[0].Type().Equals(String))
}

func TestSchemaBuildDuplicateColumn(t *testing.T) {
	_, err := Build(nil, []Column{
		NewColumn(f0, String, NamespaceValue, 0),
		NewColumn(f0, BigInt, NamespaceValue, 1),
	})
	require.Error(t, err)
	require.True(t, ErrDuplicateColumn.Is(err))
}

func TestSchemaAliasRoundTrip(t *testing.T) {
	s := someSchema(t)

	aliased, err := s.WithAlias(bob)
	require.NoError(t, err)
	src, ok := aliased.Key()[0].Source()
	require.True(t, ok)
	require.Equal(t, bob, src)

	back, err := aliased.WithoutAlias()
	require.NoError(t, err)
	require.True(t, back.Equals(s))
}

func TestSchemaAliasOnlyTopLevel(t *testing.T) {
	nested := Struct(StructField{Name: "bob.nested", Type: BigInt})
	s, err := Build(
		[]Column{NewColumn(k0, BigInt, NamespaceKey, 0)},
		[]Column{NewColumn(f1, nested, NamespaceValue, 0)},
	)
	require.NoError(t, err)
	s = MustAlias(t, s, bob)
	back, err := s.WithoutAlias()
	require.NoError(t, err)
	require.True(t, back.Value()[0].Type().Equals(nested))
}

func MustAlias(t *testing.T, s LogicalSchema, source SourceName) LogicalSchema {
	out, err := s.WithAlias(source)
	require.NoError(t, err)
	return out
}

func TestSchemaAlreadyAliased(t *testing.T) {
	s := MustAlias(t, someSchema(t), bob)
	_, err := s.WithAlias(bob)
	require.Error(t, err)
	require.True(t, ErrAlreadyAliased.Is(err))
}

func TestSchemaNotAliased(t *testing.T) {
	_, err := someSchema(t).WithoutAlias()
	require.Error(t, err)
	require.True(t, ErrNotAliased.Is(err))
}

func TestFindValueColumnCaseSensitive(t *testing.T) {
	s := someSchema(t)
	_, ok := s.FindValueColumn("F0")
	require.False(t, ok)
	c, ok := s.FindValueColumn("f0")
	require.True(t, ok)
	require.True(t, c.Type().Equals(String))
}

func TestFindValueColumnByAliasedName(t *testing.T) {
	s := someSchema(t)
	c, ok := s.FindValueColumn("SomeAlias.f0")
	require.False(t, ok)
	require.Equal(t, Column{}, c)
}

func TestFindValueColumnBothAliased(t *testing.T) {
	s := MustAlias(t, someSchema(t), bob)
	c, ok := s.FindValueColumn("bob.f0")
	require.True(t, ok)
	require.Equal(t, "bob.f0", c.FullName())
}

func TestFindValueColumnExcludesMetaAndKey(t *testing.T) {
	s := someSchema(t)
	_, ok := s.FindValueColumn("ROWTIME")
	require.False(t, ok)
	_, ok = s.FindValueColumn("k0")
	require.False(t, ok)
}

func TestValueColumnIndex(t *testing.T) {
	s := someSchema(t)
	idx, ok := s.ValueColumnIndex("f0")
	require.True(t, ok)
	require.Equal(t, 0, idx)
	idx, ok = s.ValueColumnIndex("f1")
	require.True(t, ok)
	require.Equal(t, 1, idx)
	_, ok = s.ValueColumnIndex("wontfindme")
	require.False(t, ok)
}

func TestWithMetaAndKeyColsInValueRoundTrip(t *testing.T) {
	s := someSchema(t)
	withMeta := s.WithMetaAndKeyColsInValue()
	require.Len(t, withMeta.Value(), len(s.Value())+2)
	require.True(t, withMeta.Value()[0].Name().Equals(RowtimeName))
	require.True(t, withMeta.Value()[1].Name().Equals(RowkeyName))

	back := withMeta.WithoutMetaAndKeyColsInValue()
	require.True(t, back.Equals(s))
}

func TestWithMetaAndKeyColsInValueIdempotent(t *testing.T) {
	s := someSchema(t).WithMetaAndKeyColsInValue()
	again := s.WithMetaAndKeyColsInValue()
	require.True(t, again.Equals(s))
}

func TestWithMetaAndKeyColsRemovesPriorOccurrences(t *testing.T) {
	s, err := Build(nil, []Column{
		NewColumn(f0, BigInt, NamespaceValue, 0),
		NewColumn(RowkeyName, Double, NamespaceValue, 1),
		NewColumn(f1, BigInt, NamespaceValue, 2),
		NewColumn(RowtimeName, Double, NamespaceValue, 3),
	})
	require.NoError(t, err)

	result := s.WithMetaAndKeyColsInValue()
	require.Equal(t, 4, len(result.Value()))
	require.True(t, result.Value()[0].Name().Equals(RowtimeName))
	require.True(t, result.Value()[0].Type().Equals(BigInt))
	require.True(t, result.Value()[1].Name().Equals(RowkeyName))
	require.True(t, result.Value()[1].Type().Equals(String))
	require.True(t, result.Value()[2].Name().Equals(f0))
	require.True(t, result.Value()[3].Name().Equals(f1))
}

func TestIsMetaAndKeyColumn(t *testing.T) {
	s := someSchema(t)
	require.True(t, s.IsMetaColumn(RowtimeName))
	require.False(t, s.IsKeyColumn(RowtimeName))
	require.False(t, s.IsMetaColumn(k0))
	require.True(t, s.IsKeyColumn(k0))
	require.False(t, s.IsMetaColumn(f0))
	require.False(t, s.IsKeyColumn(f0))
}

func TestSchemaToString(t *testing.T) {
	s, err := Build(
		[]Column{NewColumn(k0, BigInt, NamespaceKey, 0)},
		[]Column{
			NewColumn(f0, Boolean, NamespaceValue, 0),
			NewColumn(f1, Integer, NamespaceValue, 1),
		},
	)
	require.NoError(t, err)
	require.Equal(t, "[k0 BIGINT KEY, f0 BOOLEAN, f1 INTEGER]", s.String())
}

func TestSchemaToStringAliased(t *testing.T) {
	s, err := Build(nil, []Column{NewColumn(f0, Boolean, NamespaceValue, 0)})
	require.NoError(t, err)
	s = MustAlias(t, s, bob)
	require.Equal(t, "[bob.ROWKEY STRING KEY, bob.f0 BOOLEAN]", s.String())
}

func TestSchemaEqualsIgnoresMetaKeyRoundTripAndAlias(t *testing.T) {
	a := someSchema(t)
	roundTripped := a.WithMetaAndKeyColsInValue().WithoutMetaAndKeyColsInValue()
	require.True(t, a.Equals(roundTripped))

	aliasRoundTripped, err := MustAlias(t, a, bob).WithoutAlias()
	require.NoError(t, err)
	require.True(t, a.Equals(aliasRoundTripped))
}

func TestKeyFieldValidate(t *testing.T) {
	s := someSchema(t)
	require.NoError(t, KeyFieldOf(k0).Validate(s))
	require.NoError(t, NoKeyField.Validate(s))
	require.Error(t, KeyFieldOf(ColumnNameOf("nope")).Validate(s))
}
