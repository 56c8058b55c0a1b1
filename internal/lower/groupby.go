package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerGroupBy lowers a groupBy key-selector lambda into an ir.GroupBy
// (spec §4.1.6). The per-row shape the key was computed from is recorded
// on the context so a following grouped select or having lambda can bind
// its own aggregate sub-lambdas against the original, pre-group rows.
func LowerGroupBy(ctx *Context, c *cache.Cache, source ir.Operation, keySrc string) (*ir.GroupBy, error) {
	row := ctx.currentRow
	body, err := parseStageLambda(ctx, c, keySrc)
	if err != nil {
		return nil, err
	}
	value, err := LowerValue(ctx, body)
	if err != nil {
		return nil, err
	}
	key := ir.GroupByKey{Expr: value}
	if col, ok := value.(*ir.Column); ok {
		key.ColumnName = col.Name()
		key.HasColumn = true
	}
	ctx.RecordGroup(row, key)
	return ir.NewGroupBy(source, key), nil
}

// LowerGroupedSelect lowers a select/result-selector lambda that follows a
// GroupBy. Its sole parameter is bound as the group handle: `.key` resolves
// to the grouping key, and `.sum/.avg/.min/.max(...)`/`.count()` resolve to
// aggregates over the grouped rows (spec §4.1.6). source is the GroupBy
// itself, or a Having already layered on top of it — either way the
// group-key/aggregate binding context lives on ctx, not on source's static
// type, so a caller may chain Select directly after Having.
func LowerGroupedSelect(ctx *Context, c *cache.Cache, source ir.Operation, selectorSrc string) (*ir.Select, error) {
	body, err := parseGroupLambda(ctx, c, selectorSrc)
	if err != nil {
		return nil, err
	}
	projection, err := LowerProjection(ctx, body)
	if err != nil {
		return nil, err
	}
	return ir.NewSelect(source, projection), nil
}

// LowerHaving lowers a having predicate lambda the same way as a grouped
// select, producing a Where over source (the GroupBy, or an earlier
// Having) whose predicate may reference the group's key and aggregate
// methods.
func LowerHaving(ctx *Context, c *cache.Cache, source ir.Operation, predicateSrc string) (*ir.Where, error) {
	body, err := parseGroupLambda(ctx, c, predicateSrc)
	if err != nil {
		return nil, err
	}
	predicate, err := LowerBoolean(ctx, body)
	if err != nil {
		return nil, err
	}
	return ir.NewWhere(source, predicate), nil
}

func parseGroupLambda(ctx *Context, c *cache.Cache, source string) (ast.Expr, error) {
	program, err := ParseLambda(c, source)
	if err != nil {
		return nil, err
	}
	fn, ok := arrowFunction(program)
	if !ok || len(fn.Params) != 1 {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	ctx.ResetRowScope()
	ctx.BindGroupParam(fn.Params[0].Name)
	body := arrowBody(fn)
	if body == nil {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	return body, nil
}

var groupAggregateFunctions = map[string]ir.AggregateFunction{
	"sum": ir.AggSum,
	"avg": ir.AggAvg,
	"min": ir.AggMin,
	"max": ir.AggMax,
}

// lowerGroupAggregateCall lowers a `g.sum(x => x.field)`-shaped call (or
// the zero-argument `g.count()`) into an ir.Aggregate, binding the inner
// lambda's row parameter against the shape that was active before the
// group was formed.
func lowerGroupAggregateCall(ctx *Context, property string, args []ast.Expr) (ir.ValueExpression, error) {
	if property == "count" {
		if len(args) != 0 {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
		}
		return ir.NewAggregate(ir.AggCount, nil), nil
	}
	fn, ok := groupAggregateFunctions[property]
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
	}
	if len(args) != 1 {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
	}
	lambda, ok := args[0].(*ast.ArrowFunction)
	if !ok || len(lambda.Params) != 1 {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
	}
	snap := ctx.Snapshot()
	prevRow := ctx.currentRow
	restore := func() {
		ctx.Restore(snap)
		ctx.currentRow = prevRow
	}
	ctx.ResetRowScope()
	ctx.currentRow = ctx.GroupRow()
	ctx.BindCurrentRow(lambda.Params[0].Name)
	body := arrowBody(lambda)
	if body == nil {
		restore()
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}
	value, err := LowerValue(ctx, body)
	restore()
	if err != nil {
		return nil, err
	}
	return ir.NewAggregate(fn, value), nil
}

// groupKeyExpression returns the value expression recorded for `.key` on
// the active group parameter.
func groupKeyExpression(ctx *Context) (ir.ValueExpression, error) {
	key, ok := ctx.GroupKey()
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	return key.Expr, nil
}
