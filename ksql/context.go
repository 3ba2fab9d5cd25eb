package ksql

import (
	"strconv"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// QueryContext carries the per-planning-call state that must be threaded
// through every plan-construction call but is not itself part of the
// immutable plan value: the naming Stacker (§5, determinism of synthetic
// names), the Config (§6.6), and an ambient logger, mirroring the teacher's
// sql.Context carrying a *logrus.Entry and wrapping calls in opentracing
// spans (sql/base_session.go, sql/plan/group_by.go).
type QueryContext struct {
	stacker Stacker
	config  Config
	logger  *logrus.Entry
	tracer  opentracing.Tracer
}

// NewQueryContext builds a QueryContext rooted at the given query id, using
// cfg for this planning call. The context starts with logrus's standard
// logger and a no-op tracer; WithLogger replaces the logger.
func NewQueryContext(queryID string, cfg Config) *QueryContext {
	return &QueryContext{
		stacker: Stacker{path: []string{queryID}},
		config:  cfg,
		logger:  logrus.NewEntry(logrus.StandardLogger()),
		tracer:  opentracing.NoopTracer{},
	}
}

// Config returns the configuration this context was built with.
func (c *QueryContext) Config() Config { return c.config }

// Logger returns the ambient structured logger. Planning may log at Debug
// level to record decisions (e.g. "inserted repartition on b"); it never
// branches on whether a logger is attached, so determinism (§5) is
// unaffected by logging configuration.
func (c *QueryContext) Logger() *logrus.Entry { return c.logger }

// WithLogger returns a copy of c using logger instead of the current one.
func (c *QueryContext) WithLogger(logger *logrus.Entry) *QueryContext {
	n := *c
	n.logger = logger
	return &n
}

// Span starts an opentracing span named name, returning it and a child
// QueryContext whose Stacker is unchanged. Planning performs no I/O, so
// spans here are pure instrumentation: nothing about the returned plan
// value depends on whether tracing is enabled.
func (c *QueryContext) Span(name string) (opentracing.Span, *QueryContext) {
	span := c.tracer.StartSpan(name)
	child := *c
	return span, &child
}

// Stacker returns the context's current naming stacker.
func (c *QueryContext) Stacker() Stacker { return c.stacker }

// Push returns a copy of c with name appended to the Stacker's path,
// matching the QueryContext.Stacker pattern the Java source passes into
// each plan node during construction (inferred from JoinNode's use of
// QueryContext.Stacker for per-node naming).
func (c *QueryContext) Push(name string) *QueryContext {
	n := *c
	n.stacker = c.stacker.Push(name)
	return &n
}

// Stacker is a deterministic, monotonically assigned path of plan-node
// names (spec.md §5: "they may embed stable, monotonically assigned
// per-node indices taken from a stacker context that is passed in from the
// caller"). Two plans built from the same statement, catalog, and registry
// push the same sequence of names and therefore produce equal synthetic
// identifiers.
type Stacker struct {
	path    []string
	counter map[string]int
}

// Push returns a Stacker with name appended to the path. A name already
// pushed earlier along this path gets a numeric suffix ("Join-1",
// "Join-2", ...). Push does not modify s, so two Push calls with the same
// name on the same Stacker return equal paths.
func (s Stacker) Push(name string) Stacker {
	counter := make(map[string]int, len(s.counter)+1)
	for k, v := range s.counter {
		counter[k] = v
	}
	n := counter[name]
	counter[name] = n + 1

	label := name
	if n > 0 {
		label = name + "-" + strconv.Itoa(n)
	}

	path := make([]string, len(s.path)+1)
	copy(path, s.path)
	path[len(path)-1] = label
	return Stacker{path: path, counter: counter}
}

// QueryContext returns the full dotted path. The planner uses it for
// repartition topic names; synthetic group-by key-field names and codegen's
// per-call-site function identifiers do not depend on it.
func (s Stacker) QueryContext() string {
	return strings.Join(s.path, ".")
}
