package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerDelete lowers a delete's predicate lambda, bound to the row under
// alias, into an ir.Delete. The mandatory-WHERE safety check is enforced
// once, at render time, by dialect.Render rather than here (spec §4.3.5,
// §6.4).
func LowerDelete(ctx *Context, c *cache.Cache, table, alias, predicateSrc string, allowFullTableDelete bool) (*ir.Delete, error) {
	ctx.SetCurrentTable(table)
	ctx.SetCurrentRowTable(alias)

	var predicate ir.BooleanExpression
	if predicateSrc != "" {
		program, err := ParseLambda(c, predicateSrc)
		if err != nil {
			return nil, err
		}
		fn, ok := arrowFunction(program)
		if !ok {
			return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
		}
		if err := bindRowLambdaParams(ctx, fn); err != nil {
			return nil, err
		}
		body := arrowBody(fn)
		if body == nil {
			return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
		}
		predicate, err = LowerBoolean(ctx, body)
		if err != nil {
			return nil, err
		}
	}
	return ir.NewDelete(table, predicate, allowFullTableDelete), nil
}
