package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
)

// LowerOrderBy lowers a key-selector lambda into the first ORDER BY term.
func LowerOrderBy(ctx *Context, c *cache.Cache, source ir.Operation, keySrc string, descending bool) (*ir.OrderBy, error) {
	key, err := lowerSortKey(ctx, c, keySrc)
	if err != nil {
		return nil, err
	}
	return ir.NewOrderBy(source, key, descending), nil
}

// LowerThenBy lowers a key-selector lambda into a secondary ORDER BY term
// chained onto an existing OrderBy/ThenBy (spec §8.1 invariant 6).
func LowerThenBy(ctx *Context, c *cache.Cache, source ir.Operation, keySrc string, descending bool) (*ir.ThenBy, error) {
	key, err := lowerSortKey(ctx, c, keySrc)
	if err != nil {
		return nil, err
	}
	return ir.NewThenBy(source, key, descending), nil
}

func lowerSortKey(ctx *Context, c *cache.Cache, keySrc string) (ir.ValueExpression, error) {
	body, err := parseStageLambda(ctx, c, keySrc)
	if err != nil {
		return nil, err
	}
	return LowerValue(ctx, body)
}
