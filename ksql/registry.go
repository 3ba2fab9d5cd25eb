package ksql

// FunctionInstance is a concrete, constructed function ready to be invoked
// by a compiled evaluator; its behavior is opaque to the core (spec.md
// §4.4, §6.3: "a factory for runtime instances").
type FunctionInstance interface {
	// Apply evaluates the function over already-evaluated argument values.
	Apply(args []interface{}) (interface{}, error)
}

// FunctionDescriptor exposes what the core needs to type-check and compile
// a scalar FunctionCall: its return type given argument types, and a
// factory for runtime instances (spec.md §6.3).
type FunctionDescriptor interface {
	Name() FunctionName
	ReturnType(argTypes []SqlType) (SqlType, error)
	NewInstance() FunctionInstance
}

// AggregateDescriptor exposes what the core needs for an aggregate
// FunctionCall: its return type given the aggregated column's type, plus
// the init/accumulate/merge/map contract of spec.md §4.5 Aggregate.
type AggregateDescriptor interface {
	Name() FunctionName
	ReturnType(argType SqlType) (SqlType, error)
	// NewAccumulator returns a fresh Aggregator for one grouping key.
	NewAccumulator() Aggregator
}

// Aggregator is the init/accumulator/merger contract an AggregateDescriptor
// hands back (spec.md §4.5). Merge is only invoked for session windows.
type Aggregator interface {
	// Init returns the accumulator's zero value.
	Init() interface{}
	// Accumulate folds one row's argument value into the accumulator state.
	Accumulate(state interface{}, arg interface{}) (interface{}, error)
	// Merge combines two accumulator states produced by the same
	// Aggregator, used when adjacent session windows merge.
	Merge(a, b interface{}) (interface{}, error)
	// Result maps accumulator state to the aggregate's output value.
	Result(state interface{}) (interface{}, error)
}

// FunctionRegistry is the read-only collaborator the core consults to
// resolve FunctionCall expressions (spec.md §6.3). Function name matching
// is exact (§9 open question, resolved): the registry is responsible for
// any case normalization it wants at lookup time, e.g. upper-casing before
// comparing against its own table.
type FunctionRegistry interface {
	// IsAggregate reports whether name is a registered aggregate function.
	IsAggregate(name FunctionName) bool
	// GetScalar resolves a scalar function by name and argument types.
	GetScalar(name FunctionName, argTypes []SqlType) (FunctionDescriptor, error)
	// GetAggregate resolves an aggregate function by name and the type of
	// the (single) aggregated argument.
	GetAggregate(name FunctionName, argType SqlType) (AggregateDescriptor, error)
}
