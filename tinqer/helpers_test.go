package tinqer

import (
	"testing"

	"github.com/tinqerjs-org/tinqer-sub004/dialect"
)

func TestIcontainsCaseInsensitiveSubstring(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	q, err := q.Where(`(u, p, h) => h.icontains(u.bio, "dev")`)
	if err != nil {
		t.Fatalf("Where: %v", err)
	}

	sql, params, err := ToSQL(dialect.SQLite{}, q, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `SELECT * FROM "users" AS "users" WHERE ((LOWER("bio") LIKE '%' || LOWER(@__p1) || '%'))`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	if params["__p1"] != "dev" {
		t.Fatalf("params[\"__p1\"] = %v, want dev", params["__p1"])
	}
}

type rankedRow struct{ ID, Rank string }

func TestWindowRankOverPartitionOrdersDescending(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	projected, err := Select[user, rankedRow](q,
		`(u, p, h) => ({ id: u.id, rank: h.rank({partitionBy: [u.departmentId], orderBy: [{expr: u.salary, desc: true}]}) })`)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	sql, params, err := ToSQL(dialect.Postgres{}, projected, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `SELECT "id" AS "id", RANK() OVER (PARTITION BY "departmentId" ORDER BY "salary" DESC) AS "rank" ` +
		`FROM "users" AS "users"`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	if len(params) != 0 {
		t.Fatalf("params = %#v, want empty", params)
	}
}

func TestWindowDenseRankOverPartitionOrdersDescending(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	projected, err := Select[user, rankedRow](q,
		`(u, p, h) => ({ id: u.id, rank: h.denseRank({partitionBy: [u.departmentId], orderBy: [{expr: u.salary, desc: true}]}) })`)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	sql, _, err := ToSQL(dialect.Postgres{}, projected, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `SELECT "id" AS "id", DENSE_RANK() OVER (PARTITION BY "departmentId" ORDER BY "salary" DESC) AS "rank" ` +
		`FROM "users" AS "users"`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
}

func TestArrayLiteralIncludesLowersToIn(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	q, err := q.Where("u => [1, 2, 3].includes(u.id)")
	if err != nil {
		t.Fatalf("Where: %v", err)
	}

	sql, params, err := ToSQL(dialect.Postgres{}, q, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `SELECT * FROM "users" AS "users" WHERE (("id" IN (@__p1, @__p2, @__p3)))`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	if len(params) != 3 {
		t.Fatalf("params = %#v, want 3 entries", params)
	}
}

func TestParamArrayIncludesLowersToInWithParamList(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	q, err := q.Where("(u, p) => p.allowedIds.includes(u.id)")
	if err != nil {
		t.Fatalf("Where: %v", err)
	}

	sql, params, err := ToSQL(dialect.Postgres{}, q, map[string]any{"allowedIds": []int{1, 2, 3}})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `SELECT * FROM "users" AS "users" WHERE (("id" IN (@allowedIds)))`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	if _, ok := params["allowedIds"]; !ok {
		t.Fatalf("params = %#v, missing allowedIds", params)
	}
}
