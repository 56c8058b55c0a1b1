package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
)

// LowerSelect lowers a projector lambda into a Select operation over
// source. It leaves the context's current row unchanged, so a later stage
// lambda still binds its row parameter to the pre-projection row (the
// source table, or the JOIN shape), not to the projected fields.
func LowerSelect(ctx *Context, c *cache.Cache, source ir.Operation, projectorSrc string) (*ir.Select, error) {
	body, err := parseStageLambda(ctx, c, projectorSrc)
	if err != nil {
		return nil, err
	}
	projection, err := LowerProjection(ctx, body)
	if err != nil {
		return nil, err
	}
	return ir.NewSelect(source, projection), nil
}
