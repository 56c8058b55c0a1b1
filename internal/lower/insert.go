package lower

import (
	"github.com/samber/lo"

	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerInsert lowers an insert's values lambda (its parameter, if present,
// is bound to the external parameters object, never a row) and an optional
// returning projection (bound to the freshly inserted row) into an
// ir.Insert (spec §4.3.2).
func LowerInsert(ctx *Context, c *cache.Cache, table, valuesSrc, returningSrc string) (*ir.Insert, error) {
	ctx.ResetRowScope()
	program, err := ParseLambda(c, valuesSrc)
	if err != nil {
		return nil, err
	}
	fn, ok := arrowFunction(program)
	if !ok {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	switch len(fn.Params) {
	case 0:
	case 1:
		ctx.BindQueryParam(fn.Params[0].Name)
	default:
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	body := arrowBody(fn)
	if body == nil {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	// Drop any property whose literal value is `undefined` before lowering
	// (spec §4.1.8/§6.4): an optional column the caller chose to omit, not
	// a value that should round-trip as SQL NULL.
	if obj, ok := body.(*ast.ObjectLiteral); ok {
		filtered := lo.Filter(obj.Properties, func(p ast.Property, _ int) bool {
			_, isUndefined := p.Value.(*ast.UndefinedLiteral)
			return !isUndefined
		})
		if len(filtered) == 0 {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgAllValuesUndefined)
		}
		body = &ast.ObjectLiteral{Properties: filtered}
	}
	projection, err := LowerProjection(ctx, body)
	if err != nil {
		return nil, err
	}
	assignments, ok := projection.(*ir.Object)
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}

	returning, err := lowerReturning(ctx, c, table, returningSrc)
	if err != nil {
		return nil, err
	}
	return ir.NewInsert(table, assignments, returning), nil
}

// lowerReturning lowers an optional returning projection lambda, bound to
// the affected row under alias. An empty source means no RETURNING clause
// was requested.
func lowerReturning(ctx *Context, c *cache.Cache, alias, returningSrc string) (ir.Expression, error) {
	if returningSrc == "" {
		return nil, nil
	}
	ctx.ResetRowScope()
	program, err := ParseLambda(c, returningSrc)
	if err != nil {
		return nil, err
	}
	fn, ok := arrowFunction(program)
	if !ok || len(fn.Params) != 1 {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	ctx.BindTableParamAlias(fn.Params[0].Name, alias)
	body := arrowBody(fn)
	if body == nil {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	return LowerProjection(ctx, body)
}
