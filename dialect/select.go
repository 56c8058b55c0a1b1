package dialect

import (
	"strings"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// RenderOperation is the single entry point both Dialect implementations
// delegate to: it dispatches on the operation's root shape (a mutation
// statement, an aggregate/quantifier terminal, or a plain row-returning
// chain) and renders the matching SQL text plus the parameter subset the
// statement actually binds.
func RenderOperation(dialectName string, params map[string]any, op ir.Operation) (string, map[string]any, error) {
	switch o := op.(type) {
	case *ir.Insert:
		return renderInsert(dialectName, params, o)
	case *ir.Update:
		return renderUpdate(dialectName, params, o)
	case *ir.Delete:
		return renderDelete(dialectName, params, o)
	case *ir.AggregateTerminal:
		return renderAggregateTerminal(dialectName, params, o)
	default:
		return renderSelectChain(dialectName, params, op)
	}
}

func renderSelectChain(dialectName string, params map[string]any, op ir.Operation) (string, map[string]any, error) {
	plan, err := buildQueryPlan(op)
	if err != nil {
		return "", nil, err
	}
	r := newRenderer(dialectName, params)
	query := &strings.Builder{}
	if err := r.renderSelectCore(query, plan, plan.projection, plan.wheres, true); err != nil {
		return "", nil, err
	}
	return query.String(), r.out, nil
}

// renderSelectCore writes `SELECT <proj> FROM ... [WHERE ...] [GROUP BY
// ...] [HAVING ...] [ORDER BY ...] [LIMIT/OFFSET ...]` for plan, with the
// WHERE bucket overridden by wheres (terminals fold an extra predicate or a
// negation into the chain's own wheres before calling in). withOrdering
// controls whether LIMIT/OFFSET/ORDER BY are emitted: aggregate scalar
// terminals (COUNT/SUM/...) never paginate their own single row.
func (r *renderer) renderSelectCore(query *strings.Builder, plan *queryPlan, projection ir.Expression, wheres []ir.BooleanExpression, withOrdering bool) error {
	query.WriteString("SELECT ")
	if plan.distinct {
		query.WriteString("DISTINCT ")
	}
	proj := projection
	if proj == nil {
		proj = ir.AllColumns{}
	}
	if err := requireProjectionColumn(proj); err != nil {
		return err
	}
	if err := r.renderProjection(query, plan, proj); err != nil {
		return err
	}
	if err := r.renderFrom(query, plan); err != nil {
		return err
	}
	if err := r.renderWhereLike(query, plan, "WHERE", wheres); err != nil {
		return err
	}
	if plan.isGrouped {
		query.WriteString(" GROUP BY ")
		if err := r.renderValue(query, plan, plan.groupKey.Expr); err != nil {
			return err
		}
	}
	if err := r.renderWhereLike(query, plan, "HAVING", plan.having); err != nil {
		return err
	}
	if !withOrdering {
		return nil
	}
	if err := r.renderOrderBy(query, plan, plan.orderBy); err != nil {
		return err
	}
	if plan.take != nil {
		query.WriteString(" LIMIT ")
		if err := r.renderValue(query, plan, plan.take); err != nil {
			return err
		}
	}
	if plan.skip != nil {
		query.WriteString(" OFFSET ")
		if err := r.renderValue(query, plan, plan.skip); err != nil {
			return err
		}
	}
	return nil
}

var terminalAggregateFunctions = map[ir.AggregateTerminalKind]ir.AggregateFunction{
	ir.TerminalSum: ir.AggSum,
	ir.TerminalAvg: ir.AggAvg,
	ir.TerminalMin: ir.AggMin,
	ir.TerminalMax: ir.AggMax,
}

func renderAggregateTerminal(dialectName string, params map[string]any, at *ir.AggregateTerminal) (string, map[string]any, error) {
	plan, err := buildQueryPlan(at.Source())
	if err != nil {
		return "", nil, err
	}
	r := newRenderer(dialectName, params)
	query := &strings.Builder{}

	switch at.Kind() {
	case ir.TerminalCount:
		wheres := plan.wheres
		if at.Predicate() != nil {
			wheres = append(append([]ir.BooleanExpression(nil), wheres...), at.Predicate())
		}
		countExpr := ir.ValueExpressionNode{Value: ir.NewAggregate(ir.AggCount, nil)}
		if err := r.renderSelectCore(query, plan, countExpr, wheres, false); err != nil {
			return "", nil, err
		}
	case ir.TerminalSum, ir.TerminalAvg, ir.TerminalMin, ir.TerminalMax:
		fn := terminalAggregateFunctions[at.Kind()]
		aggExpr := ir.ValueExpressionNode{Value: ir.NewAggregate(fn, at.Expression())}
		if err := r.renderSelectCore(query, plan, aggExpr, plan.wheres, false); err != nil {
			return "", nil, err
		}
	case ir.TerminalAny:
		wheres := plan.wheres
		if at.Predicate() != nil {
			wheres = append(append([]ir.BooleanExpression(nil), wheres...), at.Predicate())
		}
		inner := &strings.Builder{}
		if err := r.renderSelectCore(inner, plan, ir.ValueExpressionNode{Value: ir.NewAggregate(ir.AggCount, nil)}, wheres, false); err != nil {
			return "", nil, err
		}
		query.WriteString("SELECT EXISTS (")
		query.WriteString(rewriteCountAsOne(inner.String()))
		query.WriteString(")")
	case ir.TerminalAll:
		wheres := append(append([]ir.BooleanExpression(nil), plan.wheres...), ir.NewNot(at.Predicate()))
		inner := &strings.Builder{}
		if err := r.renderSelectCore(inner, plan, ir.ValueExpressionNode{Value: ir.NewAggregate(ir.AggCount, nil)}, wheres, false); err != nil {
			return "", nil, err
		}
		query.WriteString("SELECT NOT EXISTS (")
		query.WriteString(rewriteCountAsOne(inner.String()))
		query.WriteString(")")
	case ir.TerminalFirst:
		if err := r.renderSelectCore(query, plan, plan.projection, plan.wheres, true); err != nil {
			return "", nil, err
		}
		query.WriteString(" LIMIT 1")
	case ir.TerminalLast:
		if len(plan.orderBy) == 0 {
			return "", nil, qerrors.New(qerrors.UnsupportedDialect, "last() requires a preceding orderBy to determine the last row")
		}
		reversed := &queryPlan{
			tables: plan.tables, joins: plan.joins, wheres: plan.wheres,
			isGrouped: plan.isGrouped, groupKey: plan.groupKey, having: plan.having,
			orderBy: reverseOrderTerms(plan.orderBy), take: plan.take, skip: plan.skip,
			distinct: plan.distinct, projection: plan.projection,
		}
		if err := r.renderSelectCore(query, reversed, reversed.projection, reversed.wheres, true); err != nil {
			return "", nil, err
		}
		query.WriteString(" LIMIT 1")
	case ir.TerminalSingle:
		if err := r.renderSelectCore(query, plan, plan.projection, plan.wheres, true); err != nil {
			return "", nil, err
		}
		query.WriteString(" LIMIT 2")
	case ir.TerminalContains:
		col, ok := singleProjectedValue(plan.projection)
		if !ok {
			return "", nil, qerrors.New(qerrors.UnsupportedDialect, "contains() requires a single-column projection")
		}
		cmp := ir.NewComparison(ir.CmpEq, ir.ValueComparand{Value: col}, ir.ValueComparand{Value: at.Value()})
		wheres := append(append([]ir.BooleanExpression(nil), plan.wheres...), cmp)
		inner := &strings.Builder{}
		if err := r.renderSelectCore(inner, plan, ir.ValueExpressionNode{Value: ir.NewAggregate(ir.AggCount, nil)}, wheres, false); err != nil {
			return "", nil, err
		}
		query.WriteString("SELECT EXISTS (")
		query.WriteString(rewriteCountAsOne(inner.String()))
		query.WriteString(")")
	default:
		return "", nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	return query.String(), r.out, nil
}

// rewriteCountAsOne swaps a `SELECT COUNT(*)` core for `SELECT 1` so it can
// be nested under EXISTS/NOT EXISTS without computing an unused count.
func rewriteCountAsOne(sql string) string {
	return strings.Replace(sql, "SELECT COUNT(*)", "SELECT 1", 1)
}

// singleProjectedValue returns the sole scalar value a projection resolves
// to, if it is exactly one ValueExpressionNode (not an Object, Reference,
// or AllColumns) — the shape `contains()` needs to compare against.
func singleProjectedValue(expr ir.Expression) (ir.ValueExpression, bool) {
	v, ok := expr.(ir.ValueExpressionNode)
	if !ok {
		return nil, false
	}
	return v.Value, true
}
