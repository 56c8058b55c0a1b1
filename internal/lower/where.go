package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
)

// LowerWhere lowers a predicate lambda into a Where operation over source
// (spec §4.1.1, §4.1.9).
func LowerWhere(ctx *Context, c *cache.Cache, source ir.Operation, predicateSrc string) (*ir.Where, error) {
	body, err := parseStageLambda(ctx, c, predicateSrc)
	if err != nil {
		return nil, err
	}
	predicate, err := LowerBoolean(ctx, body)
	if err != nil {
		return nil, err
	}
	return ir.NewWhere(source, predicate), nil
}
