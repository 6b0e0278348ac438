package engine

import (
	"log/slog"

	"github.com/fHachenberg/groupq/internal/ir"
	"github.com/fHachenberg/groupq/internal/queryir"
)

// IdentifierDB maps identifiers to indices. Populated once by the caller
// before evaluation and treated as read-only for the lifetime of any
// Evaluator built over it.
type IdentifierDB map[ir.Identifier]ir.Index

// GroupDB maps group labels to queries. Unlike IdentifierDB it is mutable
// by the caller at any time: registering or reassigning a label is
// immediately visible to every previously constructed GroupReference
// naming it (late binding).
type GroupDB map[ir.GroupLabel]queryir.Query

// Context is a non-owning view of the two databases an evaluation runs
// against. Both maps are shared by reference, never copied; the Evaluator
// reads them and nothing else.
type Context struct {
	Identifiers IdentifierDB
	Groups      GroupDB
}

// DefaultMaxDepth is the default query nesting depth quota.
const DefaultMaxDepth = 256

// Evaluator resolves queries against a Context.
//
// Evaluation is a pure function of the query tree and the database state
// at evaluation time: it never mutates either database, allocates a fresh
// result set per call, and is repeatable indefinitely - queries are not
// consumed or invalidated by evaluation.
type Evaluator struct {
	ctx      Context
	maxDepth int
	tokenGen EvalTokenGenerator
	logger   *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxDepth sets the query nesting depth quota.
//
// Default: 256 (DefaultMaxDepth). Use a small value to test quota
// enforcement; raise it for pathologically deep generated queries.
func WithMaxDepth(maxDepth int) Option {
	return func(e *Evaluator) {
		e.maxDepth = maxDepth
	}
}

// WithTokenGenerator overrides the evaluation token generator (for
// deterministic tests).
func WithTokenGenerator(g EvalTokenGenerator) Option {
	return func(e *Evaluator) {
		e.tokenGen = g
	}
}

// WithLogger sets the structured logger used for debug-level evaluation
// logs. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// New creates an Evaluator over the given context.
//
// The Evaluator holds the context's maps by reference. Late binding
// follows from that: caller-side writes to the group database between
// evaluations change what group references resolve to.
func New(ctx Context, opts ...Option) *Evaluator {
	e := &Evaluator{
		ctx:      ctx,
		maxDepth: DefaultMaxDepth,
		tokenGen: UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate resolves a query to a fresh IndexSet.
//
// Errors are typed EvalErrors raised at evaluation time (see errors.go).
// A failure anywhere in the tree fails the whole evaluation - combinators
// never return partial results.
func (e *Evaluator) Evaluate(q queryir.Query) (ir.IndexSet, error) {
	token := e.tokenGen.Generate()

	set, err := e.eval(q, newGuard(e.maxDepth))
	if err != nil {
		e.logger.Debug("query evaluation failed", "eval_token", token, "error", err)
		return nil, err
	}
	e.logger.Debug("query evaluated", "eval_token", token, "size", set.Len())
	return set, nil
}

// eval dispatches on the sealed variant set. Pointer forms are accepted
// alongside value forms so callers may share large subtrees.
func (e *Evaluator) eval(q queryir.Query, g *guard) (ir.IndexSet, error) {
	if err := g.enter(); err != nil {
		return nil, err
	}
	defer g.leave()

	switch query := q.(type) {
	case queryir.SingleLookup:
		return e.evalSingle(query)
	case *queryir.SingleLookup:
		return e.evalSingle(*query)
	case queryir.RangeLookup:
		return e.evalRange(query)
	case *queryir.RangeLookup:
		return e.evalRange(*query)
	case queryir.GroupReference:
		return e.evalGroup(query, g)
	case *queryir.GroupReference:
		return e.evalGroup(*query, g)
	case queryir.ListCombination:
		return e.evalList(query, g)
	case *queryir.ListCombination:
		return e.evalList(*query, g)
	case queryir.Intersection:
		return e.evalIntersection(query, g)
	case *queryir.Intersection:
		return e.evalIntersection(*query, g)
	case queryir.Difference:
		return e.evalDifference(query, g)
	case *queryir.Difference:
		return e.evalDifference(*query, g)
	default:
		return nil, NewInvalidQueryError(q)
	}
}

func (e *Evaluator) evalSingle(q queryir.SingleLookup) (ir.IndexSet, error) {
	idx, ok := e.ctx.Identifiers[q.Identifier]
	if !ok {
		return nil, NewKeyNotFoundError(q.Identifier)
	}
	return ir.NewIndexSet(idx), nil
}

func (e *Evaluator) evalRange(q queryir.RangeLookup) (ir.IndexSet, error) {
	firstIdx, ok := e.ctx.Identifiers[q.First]
	if !ok {
		return nil, NewKeyNotFoundError(q.First)
	}
	lastIdx, ok := e.ctx.Identifiers[q.Last]
	if !ok {
		return nil, NewKeyNotFoundError(q.Last)
	}
	if firstIdx > lastIdx {
		return nil, NewInvalidRangeError(q.First, q.Last, firstIdx, lastIdx)
	}
	return ir.FromRange(firstIdx, lastIdx), nil
}

func (e *Evaluator) evalGroup(q queryir.GroupReference, g *guard) (ir.IndexSet, error) {
	if err := g.enterGroup(q.Label); err != nil {
		return nil, err
	}
	defer g.leaveGroup(q.Label)

	sub, ok := e.ctx.Groups[q.Label]
	if !ok {
		return nil, NewUnknownGroupError(q.Label)
	}
	return e.eval(sub, g)
}

func (e *Evaluator) evalList(q queryir.ListCombination, g *guard) (ir.IndexSet, error) {
	res := ir.NewIndexSet()
	for _, sub := range q.Queries {
		part, err := e.eval(sub, g)
		if err != nil {
			return nil, err
		}
		for idx := range part {
			res.Add(idx)
		}
	}
	return res, nil
}

func (e *Evaluator) evalIntersection(q queryir.Intersection, g *guard) (ir.IndexSet, error) {
	if len(q.Queries) == 0 {
		return nil, NewEmptyIntersectionError()
	}
	res, err := e.eval(q.Queries[0], g)
	if err != nil {
		return nil, err
	}
	for _, sub := range q.Queries[1:] {
		part, err := e.eval(sub, g)
		if err != nil {
			return nil, err
		}
		res = res.Intersect(part)
	}
	return res, nil
}

func (e *Evaluator) evalDifference(q queryir.Difference, g *guard) (ir.IndexSet, error) {
	left, err := e.eval(q.Left, g)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(q.Right, g)
	if err != nil {
		return nil, err
	}
	return left.Difference(right), nil
}
