package tinqer

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/dialect"
)

type user struct{}

func newUserSchema(t *testing.T) (*cache.Cache, Schema[user]) {
	t.Helper()
	c, err := cache.New(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	return c, NewSchema[user]("users")
}

func TestSelectWhereProjectOrderTake(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	q, err := q.Where("(u, p) => u.age >= p.minAge && u.isActive")
	if err != nil {
		t.Fatalf("Where: %v", err)
	}
	type row struct{ ID, Name string }
	projected, err := Select[user, row](q, "u => ({id: u.id, name: u.name})")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	ordered, err := projected.OrderBy("u => u.name")
	if err != nil {
		t.Fatalf("OrderBy: %v", err)
	}
	limited, err := ordered.Take("() => 10")
	if err != nil {
		t.Fatalf("Take: %v", err)
	}

	sql, params, err := ToSQL(dialect.Postgres{}, limited, map[string]any{"minAge": 18})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	wantSQL := `SELECT "id" AS "id", "name" AS "name" FROM "users" AS "users" ` +
		`WHERE (("age" >= @minAge AND "isActive")) ` +
		`ORDER BY "name" ASC LIMIT @__p1`
	if sql != wantSQL {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, wantSQL)
	}

	if got, ok := params["minAge"]; !ok || got != 18 {
		t.Fatalf("params[\"minAge\"] = %v, want 18", got)
	}
	limit, ok := params["__p1"].(decimal.Decimal)
	if !ok {
		t.Fatalf("params[\"__p1\"] is %T, want decimal.Decimal", params["__p1"])
	}
	if !limit.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("params[\"__p1\"] = %s, want 10", limit.String())
	}
}

func TestSelectNullComparisons(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	q, err := q.Where("u => u.email != null && u.phone == null")
	if err != nil {
		t.Fatalf("Where: %v", err)
	}

	sql, params, err := ToSQL(dialect.SQLite{}, q, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	wantSQL := `SELECT * FROM "users" AS "users" ` +
		`WHERE (("email" IS NOT NULL AND "phone" IS NULL))`
	if sql != wantSQL {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, wantSQL)
	}
	if len(params) != 0 {
		t.Fatalf("params = %#v, want empty", params)
	}
}

func TestSelectOptionalFilterGuard(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	q, err := q.Where("(u, p) => (p.role === undefined || u.role === p.role) && (p.city === undefined || u.city === p.city)")
	if err != nil {
		t.Fatalf("Where: %v", err)
	}

	sql, params, err := ToSQL(dialect.Postgres{}, q, map[string]any{"role": nil, "city": "Portland"})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	wantSQL := `SELECT * FROM "users" AS "users" WHERE ` +
		`(((@role IS NULL OR "role" = @role) AND (@city IS NULL OR "city" = @city)))`
	if sql != wantSQL {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, wantSQL)
	}
	if params["city"] != "Portland" {
		t.Fatalf("params[\"city\"] = %v, want Portland", params["city"])
	}
}

func TestSelectEmptyInListRewritesToAlwaysFalse(t *testing.T) {
	c, schema := newUserSchema(t)

	q2 := DefineSelect(c, schema)
	q2, err := q2.Where("u => u.status in []")
	if err != nil {
		t.Fatalf("Where: %v", err)
	}

	sqlPg, _, err := ToSQL(dialect.Postgres{}, q2, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL(postgres): %v", err)
	}
	if want := `WHERE (FALSE)`; !containsSubstring(sqlPg, want) {
		t.Fatalf("postgres sql %q does not contain %q", sqlPg, want)
	}

	c2, schema2 := newUserSchema(t)
	q3 := DefineSelect(c2, schema2)
	q3, err = q3.Where("u => u.status in []")
	if err != nil {
		t.Fatalf("Where: %v", err)
	}
	sqlLite, _, err := ToSQL(dialect.SQLite{}, q3, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL(sqlite): %v", err)
	}
	if want := `WHERE (0)`; !containsSubstring(sqlLite, want) {
		t.Fatalf("sqlite sql %q does not contain %q", sqlLite, want)
	}
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestSelectDistinctAndCount(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	q = q.Distinct()
	term, err := q.Count("")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	sql, params, err := ToSQL(dialect.Postgres{}, term, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	want := `SELECT DISTINCT COUNT(*) FROM "users" AS "users"`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	if len(params) != 0 {
		t.Fatalf("params = %#v, want empty", params)
	}
}
