package dialect

import (
	"strings"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// renderer accumulates the subset of the caller's parameters a rendered
// statement actually references.
type renderer struct {
	dialect string
	in      map[string]any
	out     map[string]any
}

func newRenderer(dialect string, in map[string]any) *renderer {
	return &renderer{dialect: dialect, in: in, out: map[string]any{}}
}

func (r *renderer) paramToken(name string) (string, error) {
	value, ok := r.in[name]
	if !ok {
		return "", qerrors.New(qerrors.UnsupportedDialect, "missing parameter value for "+name)
	}
	r.out[name] = value
	return "@" + name, nil
}

// ident double-quotes a SQL identifier, doubling any embedded quote (spec
// §9: both dialects quote identically).
func ident(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// tableSlot is one FROM/JOIN participant, indexed the same way
// ir.OriginJoinSlot addresses it.
type tableSlot struct {
	table string
	alias string
}

// joinClause describes how tableSlot at innerSlot attaches to the rest of
// the FROM clause: either an equi-join key pair or an arbitrary correlated
// predicate (from a SelectMany).
type joinClause struct {
	joinType  ir.JoinType
	innerSlot int
	equi      bool
	outerSlot int
	outerKey  string
	innerKey  string
	predicate ir.BooleanExpression
}

// queryPlan is the bucketed, render-ready form of a SELECT-shaped
// operation tree, built by descending the operation chain once (spec
// §4.3, mirroring the teacher's own clause-bucket builder).
type queryPlan struct {
	tables     []tableSlot
	joins      []joinClause
	wheres     []ir.BooleanExpression
	isGrouped  bool
	groupKey   *ir.GroupByKey
	having     []ir.BooleanExpression
	orderBy    []ir.OrderTerm
	take       ir.ValueExpression
	skip       ir.ValueExpression
	distinct   bool
	projection ir.Expression
}

func buildQueryPlan(root ir.Operation) (*queryPlan, error) {
	plan := &queryPlan{}
	if err := plan.descend(root); err != nil {
		return nil, err
	}
	return plan, nil
}

// descend peels clause operations (Where/Select/OrderBy/...) off the top
// of the chain, recursing toward the FROM backbone first so bucketed
// clauses accumulate in the same relative order they were declared in
// (spec §8.1 invariant 6 for ORDER BY; WHERE vs. HAVING placement falls
// out naturally since a Where's frame only runs its own bucketing after
// whatever GroupBy lies beneath it has already flipped isGrouped).
func (p *queryPlan) descend(op ir.Operation) error {
	switch o := op.(type) {
	case *ir.From:
		p.tables = append(p.tables, tableSlot{table: o.Table(), alias: o.Alias()})
		return nil
	case *ir.Join:
		return p.descendJoin(o)
	case *ir.SelectMany:
		return p.descendSelectMany(o)
	case *ir.GroupBy:
		if err := p.descend(o.Source()); err != nil {
			return err
		}
		key := o.Key()
		p.groupKey = &key
		p.isGrouped = true
		return nil
	case *ir.Where:
		if err := p.descend(o.Source()); err != nil {
			return err
		}
		if p.isGrouped {
			p.having = append(p.having, o.Predicate())
		} else {
			p.wheres = append(p.wheres, o.Predicate())
		}
		return nil
	case *ir.Select:
		if err := p.descend(o.Source()); err != nil {
			return err
		}
		p.projection = o.Projection()
		return nil
	case *ir.OrderBy:
		if err := p.descend(o.Source()); err != nil {
			return err
		}
		p.orderBy = append(p.orderBy, ir.OrderTerm{Expr: o.Key(), Descending: o.Descending()})
		return nil
	case *ir.ThenBy:
		if err := p.descend(o.Source()); err != nil {
			return err
		}
		p.orderBy = append(p.orderBy, ir.OrderTerm{Expr: o.Key(), Descending: o.Descending()})
		return nil
	case *ir.Take:
		if err := p.descend(o.Source()); err != nil {
			return err
		}
		p.take = o.Count()
		return nil
	case *ir.Skip:
		if err := p.descend(o.Source()); err != nil {
			return err
		}
		p.skip = o.Count()
		return nil
	case *ir.Distinct:
		if err := p.descend(o.Source()); err != nil {
			return err
		}
		p.distinct = true
		return nil
	case *ir.TakeWhile:
		return qerrors.New(qerrors.UnsupportedDialect, "takeWhile has no direct SQL translation")
	case *ir.SkipWhile:
		return qerrors.New(qerrors.UnsupportedDialect, "skipWhile has no direct SQL translation")
	default:
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
}

func (p *queryPlan) descendJoin(o *ir.Join) error {
	if err := p.descend(o.Source()); err != nil {
		return err
	}
	innerFrom, ok := o.Inner().(*ir.From)
	if !ok {
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	slot := len(p.tables)
	p.tables = append(p.tables, tableSlot{table: innerFrom.Table(), alias: innerFrom.Alias()})
	p.joins = append(p.joins, joinClause{
		joinType:  o.Type(),
		innerSlot: slot,
		equi:      true,
		outerSlot: o.OuterKeySource(),
		outerKey:  o.OuterKey(),
		innerKey:  o.InnerKey(),
	})
	return nil
}

func (p *queryPlan) descendSelectMany(o *ir.SelectMany) error {
	if err := p.descend(o.Source()); err != nil {
		return err
	}
	whereOp, ok := o.Collection().(*ir.Where)
	if !ok {
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	fromOp, ok := whereOp.Source().(*ir.From)
	if !ok {
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	slot := len(p.tables)
	p.tables = append(p.tables, tableSlot{table: fromOp.Table(), alias: fromOp.Alias()})
	jt := ir.JoinInner
	if o.IsLeftJoin() {
		jt = ir.JoinLeft
	}
	p.joins = append(p.joins, joinClause{
		joinType:  jt,
		innerSlot: slot,
		predicate: whereOp.Predicate(),
	})
	return nil
}

func (p *queryPlan) alias(slot int) string {
	if slot < 0 || slot >= len(p.tables) {
		return ""
	}
	return p.tables[slot].alias
}

// renderFrom writes the FROM table and every JOIN clause onto query, in
// the order tables were introduced.
func (r *renderer) renderFrom(query *strings.Builder, plan *queryPlan) error {
	if len(plan.tables) == 0 {
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	query.WriteString(" FROM ")
	query.WriteString(ident(plan.tables[0].table))
	query.WriteString(" AS ")
	query.WriteString(ident(plan.tables[0].alias))

	for _, j := range plan.joins {
		query.WriteString(" ")
		if j.joinType == ir.JoinLeft {
			query.WriteString("LEFT JOIN ")
		} else {
			query.WriteString("INNER JOIN ")
		}
		query.WriteString(ident(plan.tables[j.innerSlot].table))
		query.WriteString(" AS ")
		query.WriteString(ident(plan.tables[j.innerSlot].alias))
		query.WriteString(" ON ")
		if j.equi {
			query.WriteString(ident(plan.alias(j.outerSlot)))
			query.WriteString(".")
			query.WriteString(ident(j.outerKey))
			query.WriteString(" = ")
			query.WriteString(ident(plan.alias(j.innerSlot)))
			query.WriteString(".")
			query.WriteString(ident(j.innerKey))
		} else {
			if err := r.renderBoolean(query, plan, j.predicate); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *renderer) renderWhereLike(query *strings.Builder, plan *queryPlan, clause string, predicates []ir.BooleanExpression) error {
	if len(predicates) == 0 {
		return nil
	}
	query.WriteString(" ")
	query.WriteString(clause)
	query.WriteString(" ")
	for i, pred := range predicates {
		if i > 0 {
			query.WriteString(" AND ")
		}
		query.WriteString("(")
		if err := r.renderBoolean(query, plan, pred); err != nil {
			return err
		}
		query.WriteString(")")
	}
	return nil
}

func (r *renderer) renderOrderBy(query *strings.Builder, plan *queryPlan, terms []ir.OrderTerm) error {
	if len(terms) == 0 {
		return nil
	}
	query.WriteString(" ORDER BY ")
	for i, term := range terms {
		if i > 0 {
			query.WriteString(", ")
		}
		if err := r.renderValue(query, plan, term.Expr); err != nil {
			return err
		}
		if term.Descending {
			query.WriteString(" DESC")
		} else {
			query.WriteString(" ASC")
		}
	}
	return nil
}

func reverseOrderTerms(terms []ir.OrderTerm) []ir.OrderTerm {
	out := make([]ir.OrderTerm, len(terms))
	for i, t := range terms {
		out[i] = ir.OrderTerm{Expr: t.Expr, Descending: !t.Descending}
	}
	return out
}
