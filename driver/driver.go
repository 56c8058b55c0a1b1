// Package driver defines the minimal database driver contract this module
// requires (spec §6.2) and the Execute* wrappers that turn a finalized
// tinqer plan into a driver call. The driver itself — connection pooling,
// retries, transactions — is an external collaborator; this package only
// specifies the boundary and passes the driver's own errors through
// unchanged (spec §7's DriverError kind).
package driver

import (
	"context"

	"github.com/tinqerjs-org/tinqer-sub004/dialect"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
	"github.com/tinqerjs-org/tinqer-sub004/tinqer"
)

// Result holds a driver run's rows (for SELECT/RETURNING) and affected-row
// count (for INSERT/UPDATE/DELETE without RETURNING).
type Result struct {
	Rows     []map[string]any
	RowCount int64
}

// Statement is a prepared, parameterized SQL statement bound to a driver
// connection. Implementations resolve named parameters (`@name` tokens, or
// an equivalent) against Run's params.
type Statement interface {
	Run(ctx context.Context, params map[string]any) (Result, error)
}

// Preparer prepares SQL text into a reusable Statement. A database/sql-backed
// implementation, a pgx pool, or an embedded SQLite driver all satisfy this
// with a thin adapter; this package never imports a concrete driver.
type Preparer interface {
	Prepare(ctx context.Context, sql string) (Statement, error)
}

// execute prepares and runs sql/params against conn, wrapping any driver
// failure as a qerrors.Driver error so it surfaces through the same
// structured-error contract as planner failures, without altering the
// driver's own message (spec §7).
func execute(ctx context.Context, conn Preparer, sql string, params map[string]any) (Result, error) {
	stmt, err := conn.Prepare(ctx, sql)
	if err != nil {
		return Result{}, qerrors.Wrap(qerrors.Driver, err.Error(), err)
	}
	result, err := stmt.Run(ctx, params)
	if err != nil {
		return Result{}, qerrors.Wrap(qerrors.Driver, err.Error(), err)
	}
	return result, nil
}

// ExecuteSelect renders plan, runs it against conn, and returns its rows.
func ExecuteSelect(ctx context.Context, conn Preparer, d dialect.Dialect, plan tinqer.Finalizer, params map[string]any) (Result, error) {
	sql, outParams, err := tinqer.ToSQL(d, plan, params)
	if err != nil {
		return Result{}, err
	}
	return execute(ctx, conn, sql, outParams)
}

// ExecuteInsert renders and runs an INSERT plan, returning RETURNING rows
// if the plan requested them, else just the affected-row count.
func ExecuteInsert(ctx context.Context, conn Preparer, d dialect.Dialect, plan tinqer.Finalizer, params map[string]any) (Result, error) {
	sql, outParams, err := tinqer.ToSQL(d, plan, params)
	if err != nil {
		return Result{}, err
	}
	return execute(ctx, conn, sql, outParams)
}

// ExecuteUpdate renders and runs an UPDATE plan.
func ExecuteUpdate(ctx context.Context, conn Preparer, d dialect.Dialect, plan tinqer.Finalizer, params map[string]any) (Result, error) {
	sql, outParams, err := tinqer.ToSQL(d, plan, params)
	if err != nil {
		return Result{}, err
	}
	return execute(ctx, conn, sql, outParams)
}

// ExecuteDelete renders and runs a DELETE plan.
func ExecuteDelete(ctx context.Context, conn Preparer, d dialect.Dialect, plan tinqer.Finalizer, params map[string]any) (Result, error) {
	sql, outParams, err := tinqer.ToSQL(d, plan, params)
	if err != nil {
		return Result{}, err
	}
	return execute(ctx, conn, sql, outParams)
}
