package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerTake lowers a count expression (a bare numeric literal, or a
// `() => 10` / `p => p.pageSize` style lambda over the external parameters
// only) into a Take operation. A numeric literal becomes an auto-param
// whose field name is "LIMIT".
func LowerTake(ctx *Context, c *cache.Cache, source ir.Operation, countSrc string) (*ir.Take, error) {
	count, err := lowerCountExpr(ctx, c, countSrc, "LIMIT")
	if err != nil {
		return nil, err
	}
	return ir.NewTake(source, count), nil
}

// LowerSkip is LowerTake's OFFSET counterpart (literal field name
// "OFFSET").
func LowerSkip(ctx *Context, c *cache.Cache, source ir.Operation, countSrc string) (*ir.Skip, error) {
	count, err := lowerCountExpr(ctx, c, countSrc, "OFFSET")
	if err != nil {
		return nil, err
	}
	return ir.NewSkip(source, count), nil
}

func lowerCountExpr(ctx *Context, c *cache.Cache, source, fieldName string) (ir.ValueExpression, error) {
	program, err := ParseLambda(c, source)
	if err != nil {
		return nil, err
	}
	hint := ir.AutoParamInfo{FieldName: fieldName, HasField: true}
	if num, ok := program.Body.(*ast.NumberLiteral); ok {
		return ctx.NewAutoParam(numericLiteral(num), &hint), nil
	}
	fn, ok := arrowFunction(program)
	if !ok {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	if len(fn.Params) > 1 {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	ctx.ResetRowScope()
	if len(fn.Params) == 1 {
		ctx.BindQueryParam(fn.Params[0].Name)
	}
	body := arrowBody(fn)
	if body == nil {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	return lowerValueHinted(ctx, body, hint)
}

// LowerTakeWhile lowers a row predicate lambda into a TakeWhile operation.
func LowerTakeWhile(ctx *Context, c *cache.Cache, source ir.Operation, predicateSrc string) (*ir.TakeWhile, error) {
	body, err := parseStageLambda(ctx, c, predicateSrc)
	if err != nil {
		return nil, err
	}
	predicate, err := LowerBoolean(ctx, body)
	if err != nil {
		return nil, err
	}
	return ir.NewTakeWhile(source, predicate), nil
}

// LowerSkipWhile is LowerTakeWhile's dual.
func LowerSkipWhile(ctx *Context, c *cache.Cache, source ir.Operation, predicateSrc string) (*ir.SkipWhile, error) {
	body, err := parseStageLambda(ctx, c, predicateSrc)
	if err != nil {
		return nil, err
	}
	predicate, err := LowerBoolean(ctx, body)
	if err != nil {
		return nil, err
	}
	return ir.NewSkipWhile(source, predicate), nil
}
