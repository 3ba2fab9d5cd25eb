package ksql

// ByteProducer turns a decoded key or value into wire bytes; supplied by the
// Serializer collaborator and used only at Sink and insert-values time
// (spec.md §6.4).
type ByteProducer func(value interface{}) ([]byte, error)

// Serializer is the collaborator that turns a (schema, keyFormat,
// valueFormat) triple into opaque byte producers. The core never interprets
// the produced bytes.
type Serializer interface {
	KeySerializer(schema LogicalSchema, keyFormat string) (ByteProducer, error)
	ValueSerializer(schema LogicalSchema, valueFormat string) (ByteProducer, error)
}
