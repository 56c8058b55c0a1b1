package dialect

import (
	"strings"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// projCol is one flattened entry of a SELECT/RETURNING list: a rendered
// SQL fragment plus the alias it binds to (empty for a bare `*`/`alias.*`
// entry, which cannot take an AS clause).
type projCol struct {
	alias  string
	render func(query *strings.Builder) error
}

// flattenProjection walks an ir.Expression tree (Object / Reference /
// AllColumns / ValueExpressionNode) into a flat list of SQL columns.
// Nested objects flatten with dotted aliases (`"outer.inner"`) since SQL
// has no nested-column concept; a Reference expands to every column of its
// table slot via a qualified star, since this module has no schema
// column list to enumerate individually.
func (r *renderer) flattenProjection(plan *queryPlan, alias string, expr ir.Expression) ([]projCol, error) {
	switch e := expr.(type) {
	case ir.AllColumns:
		starAlias := ""
		if len(plan.tables) > 1 {
			starAlias = plan.tables[0].alias
		}
		return []projCol{{render: func(query *strings.Builder) error {
			if starAlias != "" {
				query.WriteString(ident(starAlias))
				query.WriteString(".")
			}
			query.WriteString("*")
			return nil
		}}}, nil
	case ir.ValueExpressionNode:
		v := e.Value
		return []projCol{{alias: alias, render: func(query *strings.Builder) error {
			return r.renderValue(query, plan, v)
		}}}, nil
	case *ir.Reference:
		refAlias := plan.alias(e.TableIndex())
		return []projCol{{render: func(query *strings.Builder) error {
			if len(plan.tables) > 1 {
				query.WriteString(ident(refAlias))
				query.WriteString(".")
			}
			query.WriteString("*")
			return nil
		}}}, nil
	case *ir.Object:
		var out []projCol
		for _, key := range e.Keys() {
			child, _ := e.Get(key)
			childAlias := key
			if alias != "" {
				childAlias = alias + "." + key
			}
			sub, err := r.flattenProjection(plan, childAlias, child)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	default:
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
}

// renderProjection writes a comma-separated SELECT/RETURNING list for expr.
func (r *renderer) renderProjection(query *strings.Builder, plan *queryPlan, expr ir.Expression) error {
	cols, err := r.flattenProjection(plan, "", expr)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return qerrors.New(qerrors.Safety, qerrors.MsgSelectNeedsColumn)
	}
	for i, c := range cols {
		if i > 0 {
			query.WriteString(", ")
		}
		if err := c.render(query); err != nil {
			return err
		}
		if c.alias != "" {
			query.WriteString(" AS ")
			query.WriteString(ident(c.alias))
		}
	}
	return nil
}
