package tinqer

import (
	"testing"

	"github.com/tinqerjs-org/tinqer-sub004/dialect"
)

type statusTotal struct{ Status, Total string }

func TestGroupByWithAggregateAndHaving(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	grouped, err := q.GroupBy("u => u.status")
	if err != nil {
		t.Fatalf("GroupBy: %v", err)
	}
	grouped, err = grouped.Having("g => g.count() > 1")
	if err != nil {
		t.Fatalf("Having: %v", err)
	}
	projected, err := GroupedSelect[user, statusTotal](grouped, "g => ({ status: g.key, total: g.sum(u => u.age) })")
	if err != nil {
		t.Fatalf("GroupedSelect: %v", err)
	}

	sql, params, err := ToSQL(dialect.Postgres{}, projected, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `SELECT "status" AS "status", SUM("age") AS "total" ` +
		`FROM "users" AS "users" GROUP BY "status" HAVING (COUNT(*) > @__p1)`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	count, ok := params["__p1"]
	if !ok {
		t.Fatalf("params = %#v, missing __p1", params)
	}
	_ = count
}
