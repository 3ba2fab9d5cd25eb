package codegen

import (
	"github.com/johnswan/ksql/ksql"
	"github.com/johnswan/ksql/ksql/expression"
)

type compiledBranch struct {
	when evalFunc
	then evalFunc
}

func compileSearchedCase(n *expression.SearchedCase, path string, ctx *compileCtx) (evalFunc, error) {
	branches := make([]compiledBranch, len(n.Whens))
	for i, wt := range n.Whens {
		when, err := compileNode(wt.When, childPath(path, 2*i), ctx)
		if err != nil {
			return nil, err
		}
		then, err := compileNode(wt.Then, childPath(path, 2*i+1), ctx)
		if err != nil {
			return nil, err
		}
		branches[i] = compiledBranch{when: when, then: then}
	}
	var def evalFunc
	if n.Default != nil {
		var err error
		def, err = compileNode(n.Default, childPath(path, 2*len(n.Whens)), ctx)
		if err != nil {
			return nil, err
		}
	}

	return func(row ksql.Row) (interface{}, error) {
		for _, b := range branches {
			cond, err := b.when(row)
			if err != nil {
				return nil, err
			}
			if cond != nil && cond.(bool) {
				return b.then(row)
			}
		}
		if def != nil {
			return def(row)
		}
		return nil, nil
	}, nil
}

func compileSimpleCase(n *expression.SimpleCase, path string, ctx *compileCtx) (evalFunc, error) {
	comparandType, err := inferOf(n.Comparand, ctx)
	if err != nil {
		return nil, err
	}
	comparand, err := compileNode(n.Comparand, childPath(path, 0), ctx)
	if err != nil {
		return nil, err
	}

	type branch struct {
		whenType ksql.SqlType
		when     evalFunc
		then     evalFunc
	}
	branches := make([]branch, len(n.Whens))
	for i, wt := range n.Whens {
		whenType, err := inferOf(wt.When, ctx)
		if err != nil {
			return nil, err
		}
		when, err := compileNode(wt.When, childPath(path, 2*i+1), ctx)
		if err != nil {
			return nil, err
		}
		then, err := compileNode(wt.Then, childPath(path, 2*i+2), ctx)
		if err != nil {
			return nil, err
		}
		branches[i] = branch{whenType: whenType, when: when, then: then}
	}
	var def evalFunc
	if n.Default != nil {
		var derr error
		def, derr = compileNode(n.Default, childPath(path, 2*len(n.Whens)+1), ctx)
		if derr != nil {
			return nil, derr
		}
	}

	return func(row ksql.Row) (interface{}, error) {
		cv, err := comparand(row)
		if err != nil {
			return nil, err
		}
		if cv != nil {
			for _, b := range branches {
				wv, err := b.when(row)
				if err != nil {
					return nil, err
				}
				if wv == nil {
					continue
				}
				cmp, err := compareValues(cv, wv, comparandType, b.whenType)
				if err != nil {
					return nil, err
				}
				if cmp == 0 {
					return b.then(row)
				}
			}
		}
		if def != nil {
			return def(row)
		}
		return nil, nil
	}, nil
}
