package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerCount lowers an optional row predicate into a COUNT terminal.
func LowerCount(ctx *Context, c *cache.Cache, source ir.Operation, predicateSrc string) (*ir.AggregateTerminal, error) {
	predicate, err := lowerOptionalRowPredicate(ctx, c, predicateSrc)
	if err != nil {
		return nil, err
	}
	return ir.NewAggregateTerminal(source, ir.TerminalCount, nil, predicate, nil), nil
}

// LowerSum lowers a required per-row selector into a SUM terminal.
func LowerSum(ctx *Context, c *cache.Cache, source ir.Operation, selectorSrc string) (*ir.AggregateTerminal, error) {
	return lowerScalarTerminal(ctx, c, source, ir.TerminalSum, selectorSrc)
}

// LowerAvg lowers a required per-row selector into an AVG terminal.
func LowerAvg(ctx *Context, c *cache.Cache, source ir.Operation, selectorSrc string) (*ir.AggregateTerminal, error) {
	return lowerScalarTerminal(ctx, c, source, ir.TerminalAvg, selectorSrc)
}

// LowerMin lowers a required per-row selector into a MIN terminal.
func LowerMin(ctx *Context, c *cache.Cache, source ir.Operation, selectorSrc string) (*ir.AggregateTerminal, error) {
	return lowerScalarTerminal(ctx, c, source, ir.TerminalMin, selectorSrc)
}

// LowerMax lowers a required per-row selector into a MAX terminal.
func LowerMax(ctx *Context, c *cache.Cache, source ir.Operation, selectorSrc string) (*ir.AggregateTerminal, error) {
	return lowerScalarTerminal(ctx, c, source, ir.TerminalMax, selectorSrc)
}

func lowerScalarTerminal(ctx *Context, c *cache.Cache, source ir.Operation, kind ir.AggregateTerminalKind, selectorSrc string) (*ir.AggregateTerminal, error) {
	body, err := parseStageLambda(ctx, c, selectorSrc)
	if err != nil {
		return nil, err
	}
	value, err := LowerValue(ctx, body)
	if err != nil {
		return nil, err
	}
	return ir.NewAggregateTerminal(source, kind, value, nil, nil), nil
}

// LowerAny lowers an optional row predicate into an ANY terminal (spec's
// existence check, with or without a filtering condition).
func LowerAny(ctx *Context, c *cache.Cache, source ir.Operation, predicateSrc string) (*ir.AggregateTerminal, error) {
	predicate, err := lowerOptionalRowPredicate(ctx, c, predicateSrc)
	if err != nil {
		return nil, err
	}
	return ir.NewAggregateTerminal(source, ir.TerminalAny, nil, predicate, nil), nil
}

// LowerAll lowers a required row predicate into an ALL terminal.
func LowerAll(ctx *Context, c *cache.Cache, source ir.Operation, predicateSrc string) (*ir.AggregateTerminal, error) {
	body, err := parseStageLambda(ctx, c, predicateSrc)
	if err != nil {
		return nil, err
	}
	predicate, err := LowerBoolean(ctx, body)
	if err != nil {
		return nil, err
	}
	return ir.NewAggregateTerminal(source, ir.TerminalAll, nil, predicate, nil), nil
}

// LowerFirst, LowerLast and LowerSingle take no lambda; the row shape and
// any filtering already happened in earlier Where stages.
func LowerFirst(source ir.Operation) *ir.AggregateTerminal {
	return ir.NewAggregateTerminal(source, ir.TerminalFirst, nil, nil, nil)
}

func LowerLast(source ir.Operation) *ir.AggregateTerminal {
	return ir.NewAggregateTerminal(source, ir.TerminalLast, nil, nil, nil)
}

func LowerSingle(source ir.Operation) *ir.AggregateTerminal {
	return ir.NewAggregateTerminal(source, ir.TerminalSingle, nil, nil, nil)
}

// LowerContains lowers the value being searched for into a CONTAINS
// terminal. Its lambda, if it has a parameter at all, binds only the
// external parameters object — the value isn't addressed relative to a row
// (spec §3.2).
func LowerContains(ctx *Context, c *cache.Cache, source ir.Operation, valueSrc string) (*ir.AggregateTerminal, error) {
	ctx.ResetRowScope()
	program, err := ParseLambda(c, valueSrc)
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
	value, err := LowerValue(ctx, body)
	if err != nil {
		return nil, err
	}
	return ir.NewAggregateTerminal(source, ir.TerminalContains, nil, nil, value), nil
}

func lowerOptionalRowPredicate(ctx *Context, c *cache.Cache, predicateSrc string) (ir.BooleanExpression, error) {
	if predicateSrc == "" {
		return nil, nil
	}
	body, err := parseStageLambda(ctx, c, predicateSrc)
	if err != nil {
		return nil, err
	}
	return LowerBoolean(ctx, body)
}
