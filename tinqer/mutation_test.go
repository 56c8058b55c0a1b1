package tinqer

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/dialect"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

func newOrderSchema(t *testing.T) (*cache.Cache, Schema[user]) {
	t.Helper()
	c, err := cache.New(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	return c, NewSchema[user]("users")
}

func TestInsertRendersColumnsInDeclarationOrder(t *testing.T) {
	c, schema := newOrderSchema(t)

	h := DefineInsert(c, schema).Values(`u => ({name: "Alice", age: 30})`)
	sql, params, err := ToSQL(dialect.Postgres{}, h, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `INSERT INTO "users" ("name", "age") VALUES (@__p1, @__p2)`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	if params["__p1"] != "Alice" {
		t.Fatalf("params[\"__p1\"] = %v, want Alice", params["__p1"])
	}
	age, ok := params["__p2"].(decimal.Decimal)
	if !ok || !age.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("params[\"__p2\"] = %v, want 30", params["__p2"])
	}
}

func TestInsertWithReturning(t *testing.T) {
	c, schema := newOrderSchema(t)

	h := DefineInsert(c, schema).
		Values(`u => ({name: "Bob"})`).
		Returning("u => ({id: u.id, name: u.name})")
	sql, _, err := ToSQL(dialect.Postgres{}, h, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `INSERT INTO "users" ("name") VALUES (@__p1) RETURNING "id" AS "id", "name" AS "name"`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
}

func TestInsertAllUndefinedValuesFails(t *testing.T) {
	c, schema := newOrderSchema(t)

	h := DefineInsert(c, schema).Values("u => ({name: undefined})")
	_, _, err := h.Finalize(map[string]any{})
	if err == nil {
		t.Fatal("expected an all-values-undefined error, got nil")
	}
	var qerr *qerrors.Error
	if !errors.As(err, &qerr) {
		t.Fatalf("error is not a *qerrors.Error: %v", err)
	}
	if qerr.Message != qerrors.MsgAllValuesUndefined {
		t.Fatalf("Message = %q, want %q", qerr.Message, qerrors.MsgAllValuesUndefined)
	}
}

func TestUpdateRendersSetAndWhere(t *testing.T) {
	c, schema := newOrderSchema(t)

	h := DefineUpdate(c, schema).
		Set("u => ({active: true})").
		Where("u => u.id == 5")
	sql, params, err := ToSQL(dialect.Postgres{}, h, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `UPDATE "users" SET "active" = @__p1 WHERE ("id" = @__p2)`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	if params["__p1"] != true {
		t.Fatalf("params[\"__p1\"] = %v, want true", params["__p1"])
	}
	id, ok := params["__p2"].(decimal.Decimal)
	if !ok || !id.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("params[\"__p2\"] = %v, want 5", params["__p2"])
	}
}

func TestUpdateWithoutWhereFails(t *testing.T) {
	c, schema := newOrderSchema(t)

	h := DefineUpdate(c, schema).Set("u => ({active: true})")
	_, _, err := ToSQL(dialect.Postgres{}, h, map[string]any{})
	if err == nil {
		t.Fatal("expected a missing-WHERE error, got nil")
	}
	var qerr *qerrors.Error
	if !errors.As(err, &qerr) {
		t.Fatalf("error is not a *qerrors.Error: %v", err)
	}
	if qerr.Kind != qerrors.Safety {
		t.Fatalf("Kind = %v, want Safety", qerr.Kind)
	}
	if qerr.Message != qerrors.MsgUpdateRequiresWhere {
		t.Fatalf("Message = %q, want %q", qerr.Message, qerrors.MsgUpdateRequiresWhere)
	}
}

func TestUpdateAllowFullTableUpdateWaivesWhere(t *testing.T) {
	c, schema := newOrderSchema(t)

	h := DefineUpdate(c, schema).Set("u => ({active: false})").AllowFullTableUpdate()
	sql, _, err := ToSQL(dialect.Postgres{}, h, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	want := `UPDATE "users" SET "active" = @__p1`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
}

func TestDeleteRendersWhere(t *testing.T) {
	c, schema := newOrderSchema(t)

	h := DefineDelete(c, schema).Where("u => u.archived == true")
	sql, params, err := ToSQL(dialect.Postgres{}, h, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := `DELETE FROM "users" WHERE ("archived" = @__p1)`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
	if params["__p1"] != true {
		t.Fatalf("params[\"__p1\"] = %v, want true", params["__p1"])
	}
}

func TestDeleteWithoutWhereFails(t *testing.T) {
	c, schema := newOrderSchema(t)

	h := DefineDelete(c, schema)
	_, _, err := ToSQL(dialect.Postgres{}, h, map[string]any{})
	if err == nil {
		t.Fatal("expected a missing-WHERE error, got nil")
	}
	var qerr *qerrors.Error
	if !errors.As(err, &qerr) {
		t.Fatalf("error is not a *qerrors.Error: %v", err)
	}
	if qerr.Kind != qerrors.Safety {
		t.Fatalf("Kind = %v, want Safety", qerr.Kind)
	}
	if qerr.Message != qerrors.MsgDeleteRequiresWhere {
		t.Fatalf("Message = %q, want %q", qerr.Message, qerrors.MsgDeleteRequiresWhere)
	}
}

func TestDeleteAllowFullTableDeleteWaivesWhere(t *testing.T) {
	c, schema := newOrderSchema(t)

	h := DefineDelete(c, schema).AllowFullTableDelete()
	sql, _, err := ToSQL(dialect.Postgres{}, h, map[string]any{})
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	want := `DELETE FROM "users"`
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
}
