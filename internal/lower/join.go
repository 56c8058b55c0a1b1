package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerJoin lowers the four pieces of a LINQ-style join (inner table, an
// outer key selector, an inner key selector, and a result selector) into
// an ir.Join over source (spec §3.3, §4.1.5, §4.3.1).
func LowerJoin(
	ctx *Context,
	c *cache.Cache,
	joinType ir.JoinType,
	source ir.Operation,
	sourceTableCount int,
	innerTable, innerAlias string,
	outerKeySrc, innerKeySrc, resultSelectorSrc string,
) (*ir.Join, error) {
	outerKeyName, outerKeySource, err := lowerJoinKey(ctx, c, outerKeySrc, true, innerAlias)
	if err != nil {
		return nil, err
	}
	innerKeyName, _, err := lowerJoinKey(ctx, c, innerKeySrc, false, innerAlias)
	if err != nil {
		return nil, err
	}

	newInnerIndex := sourceTableCount
	newTableCount := sourceTableCount + 1

	program, err := ParseLambda(c, resultSelectorSrc)
	if err != nil {
		return nil, err
	}
	fn, ok := arrowFunction(program)
	if !ok || len(fn.Params) != 2 {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	outerShape, outerComposite := ctx.CurrentRowShape()
	bindJoinResultParams(ctx, fn.Params[0].Name, outerComposite, outerShape, fn.Params[1].Name, newInnerIndex)
	body := arrowBody(fn)
	if body == nil {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	projection, err := LowerProjection(ctx, body)
	if err != nil {
		return nil, err
	}
	resultShape, ok := exprToShape(projection)
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}

	innerOp := ir.NewFrom(innerTable, innerAlias)
	join := ir.NewJoin(joinType, source, innerOp, innerAlias, outerKeyName, outerKeySource, innerKeyName, resultShape, newTableCount)
	ctx.SetCurrentRowShape(resultShape)
	return join, nil
}

// bindJoinResultParams binds a join's result-selector parameters to
// ShapeReference slots so every column/whole-row reference inside the
// selector resolves through the shape machinery uniformly, regardless of
// whether the outer side is still a plain table or an earlier join's
// composite row (spec §4.1.5).
func bindJoinResultParams(ctx *Context, outerName string, outerComposite bool, outerShape ir.ShapeNode, innerName string, innerIndex int) {
	ctx.ResetRowScope()
	if outerComposite {
		ctx.BindRowShape(outerName, outerShape)
	} else {
		ctx.BindRowShape(outerName, ir.NewShapeReference(0))
	}
	ctx.BindRowShape(innerName, ir.NewShapeReference(innerIndex))
}

// lowerJoinKey parses a one-parameter key-selector lambda and returns the
// column it resolves to plus the table-slot index it addresses (only
// meaningful, and only returned, for the outer key).
func lowerJoinKey(ctx *Context, c *cache.Cache, source string, isOuter bool, innerAlias string) (string, int, error) {
	program, err := ParseLambda(c, source)
	if err != nil {
		return "", 0, err
	}
	fn, ok := arrowFunction(program)
	if !ok || len(fn.Params) != 1 {
		return "", 0, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	ctx.ResetRowScope()
	if isOuter {
		ctx.BindCurrentRow(fn.Params[0].Name)
	} else {
		ctx.BindTableParamAlias(fn.Params[0].Name, innerAlias)
	}
	body := arrowBody(fn)
	if body == nil {
		return "", 0, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	value, err := LowerValue(ctx, body)
	if err != nil {
		return "", 0, err
	}
	col, ok := value.(*ir.Column)
	if !ok {
		return "", 0, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	switch origin := col.Source().(type) {
	case ir.OriginJoinSlot:
		return col.Name(), origin.Index(), nil
	default:
		return col.Name(), 0, nil
	}
}
