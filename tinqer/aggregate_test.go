package tinqer

import (
	"testing"

	"github.com/tinqerjs-org/tinqer-sub004/dialect"
)

func TestSumTerminal(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	term, err := q.Sum("u => u.age")
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}

	sql, params, err := ToSQL(dialect.Postgres{}, term, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	want := `SELECT SUM("age") FROM "users" AS "users"`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	if len(params) != 0 {
		t.Fatalf("params = %#v, want empty", params)
	}
}

func TestAnyTerminalWithPredicate(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	term, err := q.Any("u => u.isActive")
	if err != nil {
		t.Fatalf("Any: %v", err)
	}

	sql, _, err := ToSQL(dialect.Postgres{}, term, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	want := `SELECT EXISTS (SELECT 1 FROM "users" AS "users" WHERE ("isActive"))`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
}

func TestFirstTerminalAddsLimitOne(t *testing.T) {
	c, schema := newUserSchema(t)

	q := DefineSelect(c, schema)
	term := q.First()

	sql, _, err := ToSQL(dialect.Postgres{}, term, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	want := `SELECT * FROM "users" AS "users" LIMIT 1`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
}
