package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerUpdate lowers an update's set-assignments lambda, an optional
// predicate, and an optional returning projection into an ir.Update. The
// row being updated is bound under alias for all three lambdas. The
// mandatory-WHERE safety check is enforced once, at render time, by
// dialect.Render rather than here (spec §4.3.3, §6.4).
func LowerUpdate(
	ctx *Context,
	c *cache.Cache,
	table, alias, schema string,
	assignmentsSrc, predicateSrc string,
	allowFullTableUpdate bool,
	returningSrc string,
) (*ir.Update, error) {
	ctx.SetCurrentTable(table)
	ctx.SetCurrentRowTable(alias)

	assignProgram, err := ParseLambda(c, assignmentsSrc)
	if err != nil {
		return nil, err
	}
	assignFn, ok := arrowFunction(assignProgram)
	if !ok {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	if err := bindRowLambdaParams(ctx, assignFn); err != nil {
		return nil, err
	}
	assignBody := arrowBody(assignFn)
	if assignBody == nil {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	projection, err := LowerProjection(ctx, assignBody)
	if err != nil {
		return nil, err
	}
	assignments, ok := projection.(*ir.Object)
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}

	var predicate ir.BooleanExpression
	if predicateSrc != "" {
		ctx.SetCurrentRowTable(alias)
		predProgram, err := ParseLambda(c, predicateSrc)
		if err != nil {
			return nil, err
		}
		predFn, ok := arrowFunction(predProgram)
		if !ok {
			return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
		}
		if err := bindRowLambdaParams(ctx, predFn); err != nil {
			return nil, err
		}
		predBody := arrowBody(predFn)
		if predBody == nil {
			return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
		}
		predicate, err = LowerBoolean(ctx, predBody)
		if err != nil {
			return nil, err
		}
	}
	ctx.SetCurrentRowTable(alias)
	returning, err := lowerReturning(ctx, c, alias, returningSrc)
	if err != nil {
		return nil, err
	}

	return ir.NewUpdate(table, schema, assignments, predicate, allowFullTableUpdate, returning), nil
}
