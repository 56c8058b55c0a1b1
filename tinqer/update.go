package tinqer

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/internal/lower"
)

// UpdateHandle accumulates an UPDATE statement's pieces the same way
// InsertHandle does: nothing is lowered until Finalize, since
// lower.LowerUpdate lowers the assignments, predicate and returning
// projection together in one pass over a shared row-scope context.
type UpdateHandle[T any] struct {
	ctx           *lower.Context
	cache         *cache.Cache
	table         string
	alias         string
	sqlSchema     string
	setSrc        string
	predicateSrc  string
	allowFullScan bool
	returningSrc  string
}

// DefineUpdate opens an UPDATE plan targeting schema's table.
func DefineUpdate[T any](c *cache.Cache, schema Schema[T]) *UpdateHandle[T] {
	return &UpdateHandle[T]{ctx: lower.NewContext(), cache: c, table: schema.Table(), alias: schema.Alias()}
}

// WithSchema attaches an optional SQL schema/namespace qualifier (spec
// §3.2's `update { ..., schema?, ... }`), distinct from the generic Schema[T]
// handle naming the table and row type.
func (h *UpdateHandle[T]) WithSchema(sqlSchema string) *UpdateHandle[T] {
	nh := *h
	nh.sqlSchema = sqlSchema
	return &nh
}

// Set records the row-mutating object-literal lambda's source text.
func (h *UpdateHandle[T]) Set(setSrc string) *UpdateHandle[T] {
	nh := *h
	nh.setSrc = setSrc
	return &nh
}

// Where records the row predicate's source text.
func (h *UpdateHandle[T]) Where(predicateSrc string) *UpdateHandle[T] {
	nh := *h
	nh.predicateSrc = predicateSrc
	return &nh
}

// AllowFullTableUpdate waives the mandatory-WHERE safety check (spec §6.4).
func (h *UpdateHandle[T]) AllowFullTableUpdate() *UpdateHandle[T] {
	nh := *h
	nh.allowFullScan = true
	return &nh
}

// Returning records an optional RETURNING projection's source text.
func (h *UpdateHandle[T]) Returning(returningSrc string) *UpdateHandle[T] {
	nh := *h
	nh.returningSrc = returningSrc
	return &nh
}

// Finalize lowers the accumulated pieces into an ir.Update and merges
// auto-params with the caller-supplied params.
func (h *UpdateHandle[T]) Finalize(params map[string]any) (ir.Operation, map[string]any, error) {
	op, err := lower.LowerUpdate(h.ctx, h.cache, h.table, h.alias, h.sqlSchema, h.setSrc, h.predicateSrc, h.allowFullScan, h.returningSrc)
	if err != nil {
		return nil, nil, err
	}
	logger.Debugw("update plan finalized", "table", h.table, "schema", h.sqlSchema)
	p := plan{ctx: h.ctx, cache: h.cache, op: op, tableCount: 1}
	return p.Finalize(params)
}
