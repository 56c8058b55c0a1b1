package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/tinqerjs-org/tinqer-sub004/cache"
	"github.com/tinqerjs-org/tinqer-sub004/dialect"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
	"github.com/tinqerjs-org/tinqer-sub004/tinqer"
)

type fakeStatement struct {
	result Result
	err    error
}

func (s fakeStatement) Run(ctx context.Context, params map[string]any) (Result, error) {
	return s.result, s.err
}

type fakePreparer struct {
	sql        string
	stmt       fakeStatement
	prepareErr error
}

func (p *fakePreparer) Prepare(ctx context.Context, sql string) (Statement, error) {
	p.sql = sql
	if p.prepareErr != nil {
		return nil, p.prepareErr
	}
	return p.stmt, nil
}

func newUsersSelect() *tinqer.Queryable[any] {
	c, err := cache.New(cache.DefaultConfig())
	if err != nil {
		panic(err)
	}
	schema := tinqer.NewSchema[any]("users")
	return tinqer.DefineSelect(c, schema)
}

func TestExecuteSelectRunsRenderedSQL(t *testing.T) {
	q, err := newUsersSelect().Where("(u, p) => u.age >= p.minAge")
	if err != nil {
		t.Fatalf("Where: %v", err)
	}
	term, err := q.Count("")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	conn := &fakePreparer{stmt: fakeStatement{result: Result{RowCount: 3}}}
	result, err := ExecuteSelect(context.Background(), conn, dialect.Postgres{}, term, map[string]any{"minAge": 21})
	if err != nil {
		t.Fatalf("ExecuteSelect: %v", err)
	}
	if result.RowCount != 3 {
		t.Fatalf("RowCount = %d, want 3", result.RowCount)
	}
	if conn.sql == "" {
		t.Fatal("Prepare was never called with rendered SQL")
	}
}

func TestExecuteSelectPropagatesRenderError(t *testing.T) {
	q, err := newUsersSelect().Where("(u, p) => u.age >= p.minAge")
	if err != nil {
		t.Fatalf("Where: %v", err)
	}
	term, err := q.Count("")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	conn := &fakePreparer{stmt: fakeStatement{}}
	_, err = ExecuteSelect(context.Background(), conn, dialect.Postgres{}, term, map[string]any{})
	if err == nil {
		t.Fatal("expected a missing-param render error, got nil")
	}
	if conn.sql != "" {
		t.Fatal("Prepare should not run when finalize/render fails")
	}
}

func TestExecuteInsertRunsRenderedSQL(t *testing.T) {
	c, err := cache.New(cache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	schema := tinqer.NewSchema[any]("users")
	h := tinqer.DefineInsert(c, schema).Values(`u => ({name: "Alice"})`)

	conn := &fakePreparer{stmt: fakeStatement{result: Result{RowCount: 1}}}
	result, err := ExecuteInsert(context.Background(), conn, dialect.Postgres{}, h, map[string]any{})
	if err != nil {
		t.Fatalf("ExecuteInsert: %v", err)
	}
	if result.RowCount != 1 {
		t.Fatalf("RowCount = %d, want 1", result.RowCount)
	}
	if conn.sql == "" {
		t.Fatal("Prepare was never called with rendered SQL")
	}
}

func TestExecuteWrapsDriverError(t *testing.T) {
	q, err := newUsersSelect().Where("(u, p) => u.age >= p.minAge")
	if err != nil {
		t.Fatalf("Where: %v", err)
	}
	term, err := q.Count("")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	driverErr := errors.New("unique constraint violation")
	conn := &fakePreparer{stmt: fakeStatement{err: driverErr}}
	_, err = ExecuteSelect(context.Background(), conn, dialect.Postgres{}, term, map[string]any{"minAge": 21})
	if err == nil {
		t.Fatal("expected a wrapped driver error, got nil")
	}
	var qerr *qerrors.Error
	if !errors.As(err, &qerr) {
		t.Fatalf("error is not a *qerrors.Error: %v", err)
	}
	if qerr.Kind != qerrors.Driver {
		t.Fatalf("Kind = %v, want Driver", qerr.Kind)
	}
	if !errors.Is(err, driverErr) {
		t.Fatal("wrapped error does not unwrap to the original driver error")
	}
}
