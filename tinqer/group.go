package tinqer

import "github.com/tinqerjs-org/tinqer-sub004/internal/lower"

// Grouped is the handle a GroupBy returns: its row parameter is a group
// handle (`.key`, `.count()`, `.sum(...)`, ...) rather than a plain row, so
// it exposes only Select and Having, never the row-returning stage methods
// a plain Queryable has (spec §4.1.6).
type Grouped[T any] struct{ plan }

// Having filters groups by a predicate lambda whose parameter is the same
// group handle a following Select sees (spec §4.1.6). It may be chained
// more than once or interleaved with nothing else; the resulting operation
// still descends to the same GroupBy, so every Having folds into one
// HAVING clause joined by AND at render time.
func (g *Grouped[T]) Having(predicateSrc string) (*Grouped[T], error) {
	op, err := lower.LowerHaving(g.ctx, g.cache, g.op, predicateSrc)
	if err != nil {
		return nil, err
	}
	return &Grouped[T]{g.plan.withOp(op)}, nil
}

// GroupedSelect projects a grouped pipeline into row type R. A free
// function, not a method, for the same reason Select is: Go methods
// cannot introduce a type parameter the receiver doesn't already carry.
func GroupedSelect[T, R any](g *Grouped[T], selectorSrc string) (*Queryable[R], error) {
	op, err := lower.LowerGroupedSelect(g.ctx, g.cache, g.op, selectorSrc)
	if err != nil {
		return nil, err
	}
	return &Queryable[R]{g.plan.withOp(op)}, nil
}
