package tinqer

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/internal/lower"
)

// InsertHandle accumulates an INSERT statement's pieces (spec §4.1.2's
// `insertInto` root plus `values`/`returning` attachments) without lowering
// any of them until Finalize: values and returning are lowered by one
// combined internal/lower call sharing a single row-scope context, so
// lowering either piece separately would double-count auto-params on a
// second pass. Finalize is therefore the one and only lowering pass, which
// also matches spec §4.2's own framing of `finalize` as the step that
// actually produces `{operation, params}`.
type InsertHandle[T any] struct {
	ctx          *lower.Context
	cache        *cache.Cache
	table        string
	valuesSrc    string
	returningSrc string
}

// DefineInsert opens an INSERT plan targeting schema's table.
func DefineInsert[T any](c *cache.Cache, schema Schema[T]) *InsertHandle[T] {
	return &InsertHandle[T]{ctx: lower.NewContext(), cache: c, table: schema.Table()}
}

// Values records the row-constructing object-literal lambda's source text.
func (h *InsertHandle[T]) Values(valuesSrc string) *InsertHandle[T] {
	nh := *h
	nh.valuesSrc = valuesSrc
	return &nh
}

// Returning records an optional RETURNING projection's source text.
func (h *InsertHandle[T]) Returning(returningSrc string) *InsertHandle[T] {
	nh := *h
	nh.returningSrc = returningSrc
	return &nh
}

// Finalize lowers the accumulated pieces into an ir.Insert and merges
// auto-params with the caller-supplied params (spec §4.2).
func (h *InsertHandle[T]) Finalize(params map[string]any) (ir.Operation, map[string]any, error) {
	op, err := lower.LowerInsert(h.ctx, h.cache, h.table, h.valuesSrc, h.returningSrc)
	if err != nil {
		return nil, nil, err
	}
	logger.Debugw("insert plan finalized", "table", h.table)
	p := plan{ctx: h.ctx, cache: h.cache, op: op, tableCount: 1}
	return p.Finalize(params)
}
