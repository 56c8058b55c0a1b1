package tinqer

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/internal/lower"
)

// plan is the state every stage-typed handle shares: the lowering context
// (accumulating auto-params across the whole chain, spec §4.1.1), the
// parse cache each stage's lambda is lowered through, the operation tree
// built so far, and the table count a JOIN/SelectMany chain has reached
// (spec §3.3). Composition methods never mutate a plan in place; each
// returns a new handle wrapping a new plan value, matching spec §4.2 step
// 5's "returns a new handle wrapping the cloned ... operation tree" — the
// clone is free here because every internal/ir node is immutable by
// construction (unexported fields, accessor methods only).
type plan struct {
	ctx        *lower.Context
	cache      *cache.Cache
	op         ir.Operation
	tableCount int
}

func (p plan) withOp(op ir.Operation) plan {
	p.op = op
	return p
}

// Finalize merges this plan's accumulated auto-params with caller-supplied
// params, the caller's value winning on key collision, and returns the
// operation tree ready for a dialect.Dialect to render (spec §4.2).
func (p plan) Finalize(params map[string]any) (ir.Operation, map[string]any, error) {
	merged := p.ctx.AutoParams()
	for k, v := range params {
		merged[k] = v
	}
	logger.Debugw("plan finalized", "autoParamCount", len(p.ctx.AutoParams()), "paramCount", len(merged), "tableCount", p.tableCount)
	return p.op, merged, nil
}
