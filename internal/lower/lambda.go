package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// bindRowLambdaParams resets the lambda parameter namespace and binds a
// one-to-three argument stage lambda: `(row)`, `(row, params)`, or
// `(row, params, helpers)` (spec §4.1.1, §4.1.9 for the helpers slot).
func bindRowLambdaParams(ctx *Context, fn *ast.ArrowFunction) error {
	if len(fn.Params) == 0 || len(fn.Params) > 3 {
		return qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	ctx.ResetRowScope()
	ctx.BindCurrentRow(fn.Params[0].Name)
	if len(fn.Params) >= 2 {
		ctx.BindQueryParam(fn.Params[1].Name)
	}
	if len(fn.Params) == 3 {
		ctx.SetHelpersParam(fn.Params[2].Name)
	}
	return nil
}
