package dialect

import (
	"strconv"
	"strings"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// columnRef renders a column reference, qualifying it with its table alias
// only when the surrounding operation has more than one source slot (spec
// §4.3.2) — a plain single-table query renders bare column names.
func (r *renderer) columnRef(query *strings.Builder, plan *queryPlan, name string, source ir.Origin) error {
	var alias string
	switch origin := source.(type) {
	case ir.OriginTable:
		alias = origin.Alias()
	case ir.OriginJoinSlot:
		alias = plan.alias(origin.Index())
	default:
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	if len(plan.tables) > 1 {
		query.WriteString(ident(alias))
		query.WriteString(".")
	}
	query.WriteString(ident(name))
	return nil
}

func (r *renderer) renderValue(query *strings.Builder, plan *queryPlan, expr ir.ValueExpression) error {
	switch e := expr.(type) {
	case *ir.Column:
		return r.columnRef(query, plan, e.Name(), e.Source())
	case *ir.Constant:
		query.WriteString("NULL")
		return nil
	case *ir.Param:
		return r.renderParam(query, e)
	case *ir.Arithmetic:
		query.WriteString("(")
		if err := r.renderValue(query, plan, e.Left()); err != nil {
			return err
		}
		query.WriteString(" ")
		query.WriteString(string(e.Operator()))
		query.WriteString(" ")
		if err := r.renderValue(query, plan, e.Right()); err != nil {
			return err
		}
		query.WriteString(")")
		return nil
	case *ir.Concat:
		query.WriteString("(")
		if err := r.renderValue(query, plan, e.Left()); err != nil {
			return err
		}
		query.WriteString(" || ")
		if err := r.renderValue(query, plan, e.Right()); err != nil {
			return err
		}
		query.WriteString(")")
		return nil
	case *ir.StringMethod:
		if e.Method() == ir.StringToLower {
			query.WriteString("LOWER(")
		} else {
			query.WriteString("UPPER(")
		}
		if err := r.renderValue(query, plan, e.Object()); err != nil {
			return err
		}
		query.WriteString(")")
		return nil
	case *ir.Aggregate:
		query.WriteString(string(e.Function()))
		query.WriteString("(")
		if e.Expression() == nil {
			query.WriteString("*")
		} else if err := r.renderValue(query, plan, e.Expression()); err != nil {
			return err
		}
		query.WriteString(")")
		return nil
	case *ir.Coalesce:
		query.WriteString("COALESCE(")
		for i, inner := range e.Expressions() {
			if i > 0 {
				query.WriteString(", ")
			}
			if err := r.renderValue(query, plan, inner); err != nil {
				return err
			}
		}
		query.WriteString(")")
		return nil
	case *ir.Conditional:
		query.WriteString("(CASE WHEN ")
		if err := r.renderBoolean(query, plan, e.Condition()); err != nil {
			return err
		}
		query.WriteString(" THEN ")
		if err := r.renderValue(query, plan, e.Then()); err != nil {
			return err
		}
		query.WriteString(" ELSE ")
		if err := r.renderValue(query, plan, e.Else()); err != nil {
			return err
		}
		query.WriteString(" END)")
		return nil
	case *ir.Case:
		query.WriteString("(CASE")
		for _, branch := range e.Branches() {
			query.WriteString(" WHEN ")
			if err := r.renderBoolean(query, plan, branch.When); err != nil {
				return err
			}
			query.WriteString(" THEN ")
			if err := r.renderValue(query, plan, branch.Then); err != nil {
				return err
			}
		}
		if els := e.Else(); els != nil {
			query.WriteString(" ELSE ")
			if err := r.renderValue(query, plan, els); err != nil {
				return err
			}
		}
		query.WriteString(" END)")
		return nil
	case *ir.Window:
		return r.renderWindow(query, plan, e)
	default:
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
}

func (r *renderer) renderParam(query *strings.Builder, p *ir.Param) error {
	if prop, ok := p.Property(); ok {
		return r.renderParamObjectProperty(query, p.Name(), prop)
	}
	if idx, ok := p.Index(); ok {
		return r.renderParamArrayIndex(query, p.Name(), idx)
	}
	token, err := r.paramToken(p.Name())
	if err != nil {
		return err
	}
	query.WriteString(token)
	return nil
}

// renderParamObjectProperty renders `p.prop`-shaped access to a field of
// the external parameters object as a bare `@prop` token: the params bag
// passed to the generator is keyed by property name directly (spec
// §8.4 scenario 1: `{minAge:18}`, not `{"p.minAge":18}`), so the
// parameter's own bound name (`p`, `params`, ...) never appears in the
// rendered token or the lookup key.
func (r *renderer) renderParamObjectProperty(query *strings.Builder, name, prop string) error {
	token, err := r.paramToken(prop)
	if err != nil {
		return err
	}
	query.WriteString(token)
	return nil
}

func (r *renderer) renderParamArrayIndex(query *strings.Builder, name string, idx int) error {
	token, err := r.paramToken(name + "." + strconv.Itoa(idx))
	if err != nil {
		return err
	}
	query.WriteString(token)
	return nil
}

func (r *renderer) renderWindow(query *strings.Builder, plan *queryPlan, w *ir.Window) error {
	switch w.Function() {
	case ir.WindowRank:
		query.WriteString("RANK() OVER (")
	case ir.WindowDenseRank:
		query.WriteString("DENSE_RANK() OVER (")
	default:
		query.WriteString("ROW_NUMBER() OVER (")
	}
	if parts := w.PartitionBy(); len(parts) > 0 {
		query.WriteString("PARTITION BY ")
		for i, part := range parts {
			if i > 0 {
				query.WriteString(", ")
			}
			if err := r.renderValue(query, plan, part); err != nil {
				return err
			}
		}
	}
	if terms := w.OrderBy(); len(terms) > 0 {
		if len(w.PartitionBy()) > 0 {
			query.WriteString(" ")
		}
		query.WriteString("ORDER BY ")
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
	}
	query.WriteString(")")
	return nil
}

func (r *renderer) renderComparand(query *strings.Builder, plan *queryPlan, c ir.Comparand) error {
	switch cc := c.(type) {
	case ir.ValueComparand:
		return r.renderValue(query, plan, cc.Value)
	case ir.BooleanComparand:
		query.WriteString("(CASE WHEN ")
		if err := r.renderBoolean(query, plan, cc.Value); err != nil {
			return err
		}
		query.WriteString(" THEN 1 ELSE 0 END)")
		return nil
	default:
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
}

func isNullComparand(c ir.Comparand) bool {
	vc, ok := c.(ir.ValueComparand)
	if !ok {
		return false
	}
	_, ok = vc.Value.(*ir.Constant)
	return ok
}

func (r *renderer) renderBoolean(query *strings.Builder, plan *queryPlan, expr ir.BooleanExpression) error {
	switch e := expr.(type) {
	case *ir.Comparison:
		if isNullComparand(e.Left()) || isNullComparand(e.Right()) {
			var other ir.Comparand = e.Right()
			if isNullComparand(e.Right()) {
				other = e.Left()
			}
			if err := r.renderComparand(query, plan, other); err != nil {
				return err
			}
			if e.Operator() == ir.CmpNe {
				query.WriteString(" IS NOT NULL")
			} else {
				query.WriteString(" IS NULL")
			}
			return nil
		}
		if err := r.renderComparand(query, plan, e.Left()); err != nil {
			return err
		}
		query.WriteString(" ")
		query.WriteString(string(e.Operator()))
		query.WriteString(" ")
		return r.renderComparand(query, plan, e.Right())
	case *ir.Logical:
		query.WriteString("(")
		if err := r.renderBoolean(query, plan, e.Left()); err != nil {
			return err
		}
		query.WriteString(" ")
		query.WriteString(string(e.Operator()))
		query.WriteString(" ")
		if err := r.renderBoolean(query, plan, e.Right()); err != nil {
			return err
		}
		query.WriteString(")")
		return nil
	case *ir.Not:
		query.WriteString("NOT (")
		if err := r.renderBoolean(query, plan, e.Expression()); err != nil {
			return err
		}
		query.WriteString(")")
		return nil
	case *ir.BooleanColumn:
		return r.columnRef(query, plan, e.Name(), e.Source())
	case *ir.BooleanConstant:
		if e.Value() {
			query.WriteString("(1 = 1)")
		} else {
			query.WriteString("(1 = 0)")
		}
		return nil
	case *ir.BooleanMethod:
		return r.renderBooleanMethod(query, plan, e)
	case *ir.In:
		return r.renderIn(query, plan, e)
	case *ir.CaseInsensitiveFunction:
		return r.renderCaseInsensitive(query, plan, e)
	case *ir.IsNull:
		if err := r.renderValue(query, plan, e.Value()); err != nil {
			return err
		}
		query.WriteString(" IS NULL")
		return nil
	case *ir.IsNotNull:
		if err := r.renderValue(query, plan, e.Value()); err != nil {
			return err
		}
		query.WriteString(" IS NOT NULL")
		return nil
	default:
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
}

func (r *renderer) renderBooleanMethod(query *strings.Builder, plan *queryPlan, m *ir.BooleanMethod) error {
	if m.Method() == ir.MethodContains || m.Method() == ir.MethodIncludes {
		query.WriteString("(")
		if err := r.renderValue(query, plan, m.Object()); err != nil {
			return err
		}
		query.WriteString(" LIKE '%' || ")
		if err := r.renderValue(query, plan, m.Arguments()[0]); err != nil {
			return err
		}
		query.WriteString(" || '%')")
		return nil
	}
	query.WriteString("(")
	if err := r.renderValue(query, plan, m.Object()); err != nil {
		return err
	}
	query.WriteString(" LIKE ")
	switch m.Method() {
	case ir.MethodStartsWith:
		if err := r.renderValue(query, plan, m.Arguments()[0]); err != nil {
			return err
		}
		query.WriteString(" || '%')")
	case ir.MethodEndsWith:
		query.WriteString("'%' || ")
		if err := r.renderValue(query, plan, m.Arguments()[0]); err != nil {
			return err
		}
		query.WriteString(")")
	default:
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	return nil
}

// renderIn emits `(value IN (...))`. An empty inline list has no valid SQL
// spelling, so it is rewritten to an always-false literal instead (spec
// §4.3.3); a parameter-bound list is trusted to hold at least one element
// at bind time and is rendered as a single array placeholder regardless.
func (r *renderer) renderIn(query *strings.Builder, plan *queryPlan, in *ir.In) error {
	if list, ok := in.List().(ir.InListValues); ok && len(list.Values) == 0 {
		query.WriteString(r.alwaysFalse())
		return nil
	}
	query.WriteString("(")
	if err := r.renderValue(query, plan, in.Value()); err != nil {
		return err
	}
	query.WriteString(" IN (")
	switch list := in.List().(type) {
	case ir.InListValues:
		for i, v := range list.Values {
			if i > 0 {
				query.WriteString(", ")
			}
			if err := r.renderValue(query, plan, v); err != nil {
				return err
			}
		}
	case ir.InListParam:
		if err := r.renderParam(query, list.Param); err != nil {
			return err
		}
	default:
		return qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	query.WriteString("))")
	return nil
}

// alwaysFalse returns the dialect's always-false literal: `FALSE` for
// PostgreSQL, `0` for SQLite (spec §4.3.3).
func (r *renderer) alwaysFalse() string {
	if r.dialect == "postgres" {
		return "FALSE"
	}
	return "0"
}

func (r *renderer) renderCaseInsensitive(query *strings.Builder, plan *queryPlan, f *ir.CaseInsensitiveFunction) error {
	left, right := f.Arguments()
	switch f.Function() {
	case ir.FuncIEquals:
		query.WriteString("(LOWER(")
		if err := r.renderValue(query, plan, left); err != nil {
			return err
		}
		query.WriteString(") = LOWER(")
		if err := r.renderValue(query, plan, right); err != nil {
			return err
		}
		query.WriteString("))")
		return nil
	case ir.FuncIStartsWith:
		query.WriteString("(LOWER(")
		if err := r.renderValue(query, plan, left); err != nil {
			return err
		}
		query.WriteString(") LIKE LOWER(")
		if err := r.renderValue(query, plan, right); err != nil {
			return err
		}
		query.WriteString(") || '%')")
		return nil
	case ir.FuncIEndsWith:
		query.WriteString("(LOWER(")
		if err := r.renderValue(query, plan, left); err != nil {
			return err
		}
		query.WriteString(") LIKE '%' || LOWER(")
		if err := r.renderValue(query, plan, right); err != nil {
			return err
		}
		query.WriteString("))")
		return nil
	default:
		query.WriteString("(LOWER(")
		if err := r.renderValue(query, plan, left); err != nil {
			return err
		}
		query.WriteString(") LIKE '%' || LOWER(")
		if err := r.renderValue(query, plan, right); err != nil {
			return err
		}
		query.WriteString(") || '%')")
		return nil
	}
}
