package tinqer

import (
	"testing"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"

	"github.com/tinqerjs-org/tinqer-sub004/dialect"
)

type order struct{}
type joinedRow struct{ ID, Total string }

func TestJoinThenSelectRendersInnerJoin(t *testing.T) {
	c, userSchema := newUserSchema(t)
	orderSchema := NewSchema[order]("orders")

	q := DefineSelect(c, userSchema)
	joined, err := Join[user, order, joinedRow](q, ir.JoinInner, orderSchema,
		"u => u.id", "o => o.userId", "(u, o) => ({ id: u.id, total: o.total })")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	projected, err := Select[joinedRow, joinedRow](joined, "r => ({ id: r.id, total: r.total })")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	sql, params, err := ToSQL(dialect.Postgres{}, projected, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `SELECT "users"."id" AS "id", "orders"."total" AS "total" ` +
		`FROM "users" AS "users" INNER JOIN "orders" AS "orders" ON "users"."id" = "orders"."userId"`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	if len(params) != 0 {
		t.Fatalf("params = %#v, want empty", params)
	}
}

func TestLeftJoinRendersLeftJoin(t *testing.T) {
	c, userSchema := newUserSchema(t)
	orderSchema := NewSchema[order]("orders")

	q := DefineSelect(c, userSchema)
	joined, err := Join[user, order, joinedRow](q, ir.JoinLeft, orderSchema,
		"u => u.id", "o => o.userId", "(u, o) => ({ id: u.id, total: o.total })")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	projected, err := Select[joinedRow, joinedRow](joined, "r => ({ id: r.id, total: r.total })")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	sql, _, err := ToSQL(dialect.SQLite{}, projected, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	if want := `LEFT JOIN "orders" AS "orders"`; !containsSubstring(sql, want) {
		t.Fatalf("sql %q does not contain %q", sql, want)
	}
}
