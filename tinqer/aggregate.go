package tinqer

import "github.com/tinqerjs-org/tinqer-sub004/internal/lower"

// Terminal wraps a finished aggregate/quantifier operation (count, sum,
// any, first, ...): a scalar or truth value, never a further row-returning
// stage (spec §3.2). Its only further operation is Finalize/ToSQL.
type Terminal[T any] struct{ plan }

// Count lowers an optional row predicate into a COUNT terminal; pass ""
// for an unconditional count of the current row set.
func (q *Queryable[T]) Count(predicateSrc string) (*Terminal[T], error) {
	op, err := lower.LowerCount(q.ctx, q.cache, q.op, predicateSrc)
	if err != nil {
		return nil, err
	}
	return &Terminal[T]{q.plan.withOp(op)}, nil
}

func (q *Queryable[T]) Sum(selectorSrc string) (*Terminal[T], error) {
	op, err := lower.LowerSum(q.ctx, q.cache, q.op, selectorSrc)
	if err != nil {
		return nil, err
	}
	return &Terminal[T]{q.plan.withOp(op)}, nil
}

func (q *Queryable[T]) Avg(selectorSrc string) (*Terminal[T], error) {
	op, err := lower.LowerAvg(q.ctx, q.cache, q.op, selectorSrc)
	if err != nil {
		return nil, err
	}
	return &Terminal[T]{q.plan.withOp(op)}, nil
}

func (q *Queryable[T]) Min(selectorSrc string) (*Terminal[T], error) {
	op, err := lower.LowerMin(q.ctx, q.cache, q.op, selectorSrc)
	if err != nil {
		return nil, err
	}
	return &Terminal[T]{q.plan.withOp(op)}, nil
}

func (q *Queryable[T]) Max(selectorSrc string) (*Terminal[T], error) {
	op, err := lower.LowerMax(q.ctx, q.cache, q.op, selectorSrc)
	if err != nil {
		return nil, err
	}
	return &Terminal[T]{q.plan.withOp(op)}, nil
}

// Any reports whether the row set (optionally filtered by predicateSrc,
// "" for none) has at least one row.
func (q *Queryable[T]) Any(predicateSrc string) (*Terminal[T], error) {
	op, err := lower.LowerAny(q.ctx, q.cache, q.op, predicateSrc)
	if err != nil {
		return nil, err
	}
	return &Terminal[T]{q.plan.withOp(op)}, nil
}

// All requires predicateSrc: it reports whether every row satisfies it.
func (q *Queryable[T]) All(predicateSrc string) (*Terminal[T], error) {
	op, err := lower.LowerAll(q.ctx, q.cache, q.op, predicateSrc)
	if err != nil {
		return nil, err
	}
	return &Terminal[T]{q.plan.withOp(op)}, nil
}

// First, Last and Single take no lambda: any filtering already happened
// in earlier Where stages. Last requires a preceding OrderBy (enforced at
// render time, spec §4.3.1).
func (q *Queryable[T]) First() *Terminal[T] {
	return &Terminal[T]{q.plan.withOp(lower.LowerFirst(q.op))}
}

func (q *Queryable[T]) Last() *Terminal[T] {
	return &Terminal[T]{q.plan.withOp(lower.LowerLast(q.op))}
}

func (q *Queryable[T]) Single() *Terminal[T] {
	return &Terminal[T]{q.plan.withOp(lower.LowerSingle(q.op))}
}

// Contains reports whether the (single-column-projected) row set contains
// valueSrc's value.
func (q *Queryable[T]) Contains(valueSrc string) (*Terminal[T], error) {
	op, err := lower.LowerContains(q.ctx, q.cache, q.op, valueSrc)
	if err != nil {
		return nil, err
	}
	return &Terminal[T]{q.plan.withOp(op)}, nil
}
