package expression

import (
	"fmt"
	"strings"

	"github.com/johnswan/ksql/ksql"
)

// FunctionCall applies a named scalar or aggregate function to its
// arguments (§3 FunctionCall(name, args)), grounded on the teacher's
// sql/expression/function package pattern of a Name plus an argument slice
// resolved against a registry.
type FunctionCall struct {
	Name ksql.FunctionName
	Args []Expression
}

func NewFunctionCall(name ksql.FunctionName, args []Expression) *FunctionCall {
	return &FunctionCall{Name: name, Args: args}
}

func (f *FunctionCall) Children() []Expression { return f.Args }

func (f *FunctionCall) WithChildren(children ...Expression) (Expression, error) {
	return &FunctionCall{Name: f.Name, Args: children}, nil
}

func (f *FunctionCall) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name.Text(), strings.Join(parts, ", "))
}
