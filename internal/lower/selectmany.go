package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerSelectMany lowers a correlated-subquery flatten into an
// ir.SelectMany. Unlike Join, the two rows are related by an arbitrary
// predicate rather than an equi-join key. isLeftJoin is supplied by the
// caller's choice of stage method (SelectMany vs. a left-outer variant)
// rather than recovered from a `defaultIfEmpty()` wrapper in the lambda
// text, since Go has no equivalent call-wrapping idiom (spec §4.1.5.1).
func LowerSelectMany(
	ctx *Context,
	c *cache.Cache,
	source ir.Operation,
	sourceTableCount int,
	collectionTable, collectionAlias string,
	correlatedPredicateSrc string,
	isLeftJoin bool,
	resultSelectorSrc string,
) (*ir.SelectMany, error) {
	program, err := ParseLambda(c, correlatedPredicateSrc)
	if err != nil {
		return nil, err
	}
	fn, ok := arrowFunction(program)
	if !ok || len(fn.Params) != 2 {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	ctx.ResetRowScope()
	ctx.BindCurrentRow(fn.Params[0].Name)
	ctx.BindTableParamAlias(fn.Params[1].Name, collectionAlias)
	body := arrowBody(fn)
	if body == nil {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	predicate, err := LowerBoolean(ctx, body)
	if err != nil {
		return nil, err
	}
	collectionOp := ir.NewWhere(ir.NewFrom(collectionTable, collectionAlias), predicate)

	newInnerIndex := sourceTableCount
	newTableCount := sourceTableCount + 1

	resultProgram, err := ParseLambda(c, resultSelectorSrc)
	if err != nil {
		return nil, err
	}
	resultFn, ok := arrowFunction(resultProgram)
	if !ok || len(resultFn.Params) != 2 {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	outerShape, outerComposite := ctx.CurrentRowShape()
	bindJoinResultParams(ctx, resultFn.Params[0].Name, outerComposite, outerShape, resultFn.Params[1].Name, newInnerIndex)
	resultBody := arrowBody(resultFn)
	if resultBody == nil {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	projection, err := LowerProjection(ctx, resultBody)
	if err != nil {
		return nil, err
	}
	resultShape, ok := exprToShape(projection)
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}

	sm := ir.NewSelectMany(source, collectionOp, collectionAlias, isLeftJoin, resultShape, newTableCount)
	ctx.SetCurrentRowShape(resultShape)
	return sm, nil
}
