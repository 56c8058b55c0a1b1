package tinqer

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/internal/lower"
)

// DeleteHandle accumulates a DELETE statement's pieces, deferring lowering
// to Finalize for the same reason InsertHandle and UpdateHandle do.
type DeleteHandle[T any] struct {
	ctx           *lower.Context
	cache         *cache.Cache
	table         string
	alias         string
	predicateSrc  string
	allowFullScan bool
}

// DefineDelete opens a DELETE plan targeting schema's table.
func DefineDelete[T any](c *cache.Cache, schema Schema[T]) *DeleteHandle[T] {
	return &DeleteHandle[T]{ctx: lower.NewContext(), cache: c, table: schema.Table(), alias: schema.Alias()}
}

// Where records the row predicate's source text.
func (h *DeleteHandle[T]) Where(predicateSrc string) *DeleteHandle[T] {
	nh := *h
	nh.predicateSrc = predicateSrc
	return &nh
}

// AllowFullTableDelete waives the mandatory-WHERE safety check (spec §6.4).
func (h *DeleteHandle[T]) AllowFullTableDelete() *DeleteHandle[T] {
	nh := *h
	nh.allowFullScan = true
	return &nh
}

// Finalize lowers the accumulated pieces into an ir.Delete and merges
// auto-params with the caller-supplied params.
func (h *DeleteHandle[T]) Finalize(params map[string]any) (ir.Operation, map[string]any, error) {
	op, err := lower.LowerDelete(h.ctx, h.cache, h.table, h.alias, h.predicateSrc, h.allowFullScan)
	if err != nil {
		return nil, nil, err
	}
	logger.Debugw("delete plan finalized", "table", h.table)
	p := plan{ctx: h.ctx, cache: h.cache, op: op, tableCount: 1}
	return p.Finalize(params)
}
