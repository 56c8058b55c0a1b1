package tinqer

import (
	"github.com/google/uuid"

	"github.com/tinqerjs-org/tinqer-sub004/dialect"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
)

// Finalizer is implemented by every stage handle that can close a plan:
// Terminal, Queryable (a SELECT with no terminal stage renders its row set
// directly), InsertHandle, UpdateHandle and DeleteHandle.
type Finalizer interface {
	Finalize(params map[string]any) (ir.Operation, map[string]any, error)
}

// ToSQL finalizes f against params and renders the resulting operation
// through d, the single name resolving the spec's own open question about
// duplicate `selectStatement`/`toSql` naming. Each call gets its own
// render id, logged alongside the dialect and param count for correlating
// a slow render with a specific call site in aggregated logs; the id never
// reaches the returned SQL or params.
func ToSQL(d dialect.Dialect, f Finalizer, params map[string]any) (string, map[string]any, error) {
	renderID := uuid.New()
	op, mergedParams, err := f.Finalize(params)
	if err != nil {
		logger.Warnw("finalize failed", "renderId", renderID, "dialect", d.Name(), "error", err)
		return "", nil, err
	}
	sql, outParams, err := d.Render(op, mergedParams)
	if err != nil {
		logger.Warnw("render rejected", "renderId", renderID, "dialect", d.Name(), "error", err)
		return "", nil, err
	}
	logger.Debugw("rendered", "renderId", renderID, "dialect", d.Name(), "paramCount", len(outParams))
	return sql, outParams, nil
}
