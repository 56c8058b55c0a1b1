package dialect

import (
	"strings"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// singleTablePlan builds the minimal queryPlan a mutation statement's
// WHERE/RETURNING clauses need: one table slot, no joins. A single source
// slot means columnRef renders bare column names (spec §4.3.2), and
// flattenProjection's AllColumns case renders a bare `*`.
func singleTablePlan(table, alias string) *queryPlan {
	return &queryPlan{tables: []tableSlot{{table: table, alias: alias}}}
}

// qualifiedTable renders table with its optional SQL schema/namespace
// prefix (spec §3.2's `update { ..., schema?, ... }`), e.g. `"public"."orders"`.
func qualifiedTable(schema, table string) string {
	if schema == "" {
		return ident(table)
	}
	return ident(schema) + "." + ident(table)
}

// assignmentKeys returns the column names of an INSERT/UPDATE Object in
// the Object's own insertion order (spec §3.1: projections, and by
// extension assignments built the same way, preserve declaration order),
// failing when the Object has no properties at all.
func assignmentKeys(assignments *ir.Object) ([]string, error) {
	keys := assignments.Keys()
	if len(keys) == 0 {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgAllValuesUndefined)
	}
	return keys, nil
}

func assignmentValue(assignments *ir.Object, key string) (ir.ValueExpression, error) {
	expr, ok := assignments.Get(key)
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	v, ok := expr.(ir.ValueExpressionNode)
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	return v.Value, nil
}

func renderInsert(dialectName string, params map[string]any, ins *ir.Insert) (string, map[string]any, error) {
	keys, err := assignmentKeys(ins.Assignments())
	if err != nil {
		return "", nil, err
	}
	plan := singleTablePlan(ins.Table(), "")
	r := newRenderer(dialectName, params)
	query := &strings.Builder{}

	query.WriteString("INSERT INTO ")
	query.WriteString(ident(ins.Table()))
	query.WriteString(" (")
	for i, key := range keys {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString(ident(key))
	}
	query.WriteString(") VALUES (")
	for i, key := range keys {
		if i > 0 {
			query.WriteString(", ")
		}
		value, err := assignmentValue(ins.Assignments(), key)
		if err != nil {
			return "", nil, err
		}
		if err := r.renderValue(query, plan, value); err != nil {
			return "", nil, err
		}
	}
	query.WriteString(")")

	if ret := ins.Returning(); ret != nil {
		query.WriteString(" RETURNING ")
		if err := r.renderProjection(query, plan, ret); err != nil {
			return "", nil, err
		}
	}
	return query.String(), r.out, nil
}

func renderUpdate(dialectName string, params map[string]any, upd *ir.Update) (string, map[string]any, error) {
	if err := requireWhere(upd.Predicate(), upd.AllowFullTableUpdate(), qerrors.MsgUpdateRequiresWhere); err != nil {
		return "", nil, err
	}
	keys, err := assignmentKeys(upd.Assignments())
	if err != nil {
		return "", nil, err
	}
	plan := singleTablePlan(upd.Table(), upd.Table())
	r := newRenderer(dialectName, params)
	query := &strings.Builder{}

	query.WriteString("UPDATE ")
	query.WriteString(qualifiedTable(upd.Schema(), upd.Table()))
	query.WriteString(" SET ")
	for i, key := range keys {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString(ident(key))
		query.WriteString(" = ")
		value, err := assignmentValue(upd.Assignments(), key)
		if err != nil {
			return "", nil, err
		}
		if err := r.renderValue(query, plan, value); err != nil {
			return "", nil, err
		}
	}

	if predicate := upd.Predicate(); predicate != nil {
		if err := r.renderWhereLike(query, plan, "WHERE", []ir.BooleanExpression{predicate}); err != nil {
			return "", nil, err
		}
	}

	if ret := upd.Returning(); ret != nil {
		query.WriteString(" RETURNING ")
		if err := r.renderProjection(query, plan, ret); err != nil {
			return "", nil, err
		}
	}
	return query.String(), r.out, nil
}

func renderDelete(dialectName string, params map[string]any, del *ir.Delete) (string, map[string]any, error) {
	if err := requireWhere(del.Predicate(), del.AllowFullTableDelete(), qerrors.MsgDeleteRequiresWhere); err != nil {
		return "", nil, err
	}
	plan := singleTablePlan(del.Table(), del.Table())
	r := newRenderer(dialectName, params)
	query := &strings.Builder{}

	query.WriteString("DELETE FROM ")
	query.WriteString(ident(del.Table()))

	if predicate := del.Predicate(); predicate != nil {
		if err := r.renderWhereLike(query, plan, "WHERE", []ir.BooleanExpression{predicate}); err != nil {
			return "", nil, err
		}
	}
	return query.String(), r.out, nil
}
