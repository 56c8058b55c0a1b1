package tinqer

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/internal/lower"
)

// Initial is the handle a fresh DefineSelect returns. Every method legal
// on it is also legal on Queryable — the spec's `Initial → Queryable`
// split exists to keep `thenBy` from compiling before an `orderBy`, not to
// give the from-only stage a narrower surface — so Initial is simply
// Queryable under another name (spec §4.2).
type Initial[T any] = Queryable[T]

// DefineSelect opens a SELECT plan rooted at schema's table (spec §6.1).
func DefineSelect[T any](c *cache.Cache, schema Schema[T]) *Initial[T] {
	ctx := lower.NewContext()
	op := lower.LowerFrom(ctx, schema.Table(), schema.Alias())
	logger.Debugw("select plan opened", "table", schema.Table())
	return &Queryable[T]{plan{ctx: ctx, cache: c, op: op, tableCount: 1}}
}

// Queryable is a SELECT plan in progress: every row-returning stage method
// is legal on it (spec §4.2).
type Queryable[T any] struct{ plan }

// Where narrows the row set by a predicate lambda's source text.
func (q *Queryable[T]) Where(predicateSrc string) (*Queryable[T], error) {
	op, err := lower.LowerWhere(q.ctx, q.cache, q.op, predicateSrc)
	if err != nil {
		return nil, err
	}
	return &Queryable[T]{q.plan.withOp(op)}, nil
}

// Select projects the row set through a projector lambda's source text.
// It returns a plain Queryable of the projected row's own type R: the
// result of a projection is no longer T-shaped, so the stage-type system
// follows it.
func Select[T, R any](q *Queryable[T], projectorSrc string) (*Queryable[R], error) {
	op, err := lower.LowerSelect(q.ctx, q.cache, q.op, projectorSrc)
	if err != nil {
		return nil, err
	}
	return &Queryable[R]{q.plan.withOp(op)}, nil
}

// Distinct flips SELECT DISTINCT.
func (q *Queryable[T]) Distinct() *Queryable[T] {
	return &Queryable[T]{q.plan.withOp(lower.LowerDistinct(q.op))}
}

// Take lowers a LIMIT count expression (a numeric literal or a
// `p => p.pageSize`-shaped lambda source text).
func (q *Queryable[T]) Take(countSrc string) (*Queryable[T], error) {
	op, err := lower.LowerTake(q.ctx, q.cache, q.op, countSrc)
	if err != nil {
		return nil, err
	}
	return &Queryable[T]{q.plan.withOp(op)}, nil
}

// Skip lowers an OFFSET count expression the same way Take does.
func (q *Queryable[T]) Skip(countSrc string) (*Queryable[T], error) {
	op, err := lower.LowerSkip(q.ctx, q.cache, q.op, countSrc)
	if err != nil {
		return nil, err
	}
	return &Queryable[T]{q.plan.withOp(op)}, nil
}

// TakeWhile and SkipWhile lower row predicates with no direct SQL
// translation (spec §4.3.1 has no LIMIT-equivalent for them); a dialect's
// Render call rejects them with UnsupportedDialect, but composing the
// operation itself is always legal — the error surfaces at render time
// like every other unsupported construct (spec §6.4).
func (q *Queryable[T]) TakeWhile(predicateSrc string) (*Queryable[T], error) {
	op, err := lower.LowerTakeWhile(q.ctx, q.cache, q.op, predicateSrc)
	if err != nil {
		return nil, err
	}
	return &Queryable[T]{q.plan.withOp(op)}, nil
}

func (q *Queryable[T]) SkipWhile(predicateSrc string) (*Queryable[T], error) {
	op, err := lower.LowerSkipWhile(q.ctx, q.cache, q.op, predicateSrc)
	if err != nil {
		return nil, err
	}
	return &Queryable[T]{q.plan.withOp(op)}, nil
}

// OrderBy and OrderByDescending start an ORDER BY chain, returning an
// OrderedQueryable so ThenBy becomes callable (spec §4.2).
func (q *Queryable[T]) OrderBy(keySrc string) (*OrderedQueryable[T], error) {
	op, err := lower.LowerOrderBy(q.ctx, q.cache, q.op, keySrc, false)
	if err != nil {
		return nil, err
	}
	return &OrderedQueryable[T]{Queryable[T]{q.plan.withOp(op)}}, nil
}

func (q *Queryable[T]) OrderByDescending(keySrc string) (*OrderedQueryable[T], error) {
	op, err := lower.LowerOrderBy(q.ctx, q.cache, q.op, keySrc, true)
	if err != nil {
		return nil, err
	}
	return &OrderedQueryable[T]{Queryable[T]{q.plan.withOp(op)}}, nil
}

// Join attaches an INNER (or LEFT, via joinType) JOIN whose result
// selector's source text produces the new, joined row shape R.
func Join[T, I, R any](q *Queryable[T], joinType ir.JoinType, inner Schema[I], outerKeySrc, innerKeySrc, resultSelectorSrc string) (*Queryable[R], error) {
	op, err := lower.LowerJoin(q.ctx, q.cache, joinType, q.op, q.tableCount, inner.Table(), inner.Alias(), outerKeySrc, innerKeySrc, resultSelectorSrc)
	if err != nil {
		return nil, err
	}
	p := q.plan.withOp(op)
	p.tableCount = op.TableCount()
	return &Queryable[R]{p}, nil
}

// SelectMany flattens a correlated per-row collection (spec §4.1.5.1).
// isLeftJoin mirrors the caller's choice of a `defaultIfEmpty()`-wrapped
// collection selector in the source language, since Go has no equivalent
// call-wrapping idiom to recover it from the lambda text itself.
func SelectMany[T, I, R any](q *Queryable[T], collection Schema[I], correlatedPredicateSrc string, isLeftJoin bool, resultSelectorSrc string) (*Queryable[R], error) {
	op, err := lower.LowerSelectMany(q.ctx, q.cache, q.op, q.tableCount, collection.Table(), collection.Alias(), correlatedPredicateSrc, isLeftJoin, resultSelectorSrc)
	if err != nil {
		return nil, err
	}
	p := q.plan.withOp(op)
	p.tableCount = op.TableCount()
	return &Queryable[R]{p}, nil
}

// GroupBy starts a grouped pipeline: only Select/Having are legal on the
// result, never the plain row-returning stage methods (spec §4.1.6).
func (q *Queryable[T]) GroupBy(keySrc string) (*Grouped[T], error) {
	g, err := lower.LowerGroupBy(q.ctx, q.cache, q.op, keySrc)
	if err != nil {
		return nil, err
	}
	return &Grouped[T]{plan: q.plan.withOp(g)}, nil
}

// OrderedQueryable is a Queryable that has already started an ORDER BY
// chain, unlocking ThenBy (spec §4.2). Every Queryable method remains
// available (embedding), but using one demotes the handle back to a plain
// Queryable: that matches the spec's own scoping of the stage typing to
// "is ThenBy legal", nothing broader.
type OrderedQueryable[T any] struct{ Queryable[T] }

func (o *OrderedQueryable[T]) ThenBy(keySrc string) (*OrderedQueryable[T], error) {
	op, err := lower.LowerThenBy(o.ctx, o.cache, o.op, keySrc, false)
	if err != nil {
		return nil, err
	}
	return &OrderedQueryable[T]{Queryable[T]{o.plan.withOp(op)}}, nil
}

func (o *OrderedQueryable[T]) ThenByDescending(keySrc string) (*OrderedQueryable[T], error) {
	op, err := lower.LowerThenBy(o.ctx, o.cache, o.op, keySrc, true)
	if err != nil {
		return nil, err
	}
	return &OrderedQueryable[T]{Queryable[T]{o.plan.withOp(op)}}, nil
}
