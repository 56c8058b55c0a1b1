// Package dialect renders the dialect-neutral internal/ir tree into a SQL
// string plus the subset of the caller's parameter map the statement
// actually references (spec §4.3). Postgres and SQLite share one
// recursive core in render.go; each dialect's own file only supplies its
// name and anything genuinely dialect-specific (spec §9's resolution of
// the quoting-consistency Open Question: both double-quote identifiers,
// and both use `@name` placeholders, so that turned out to be nothing).
package dialect

import "github.com/tinqerjs-org/tinqer-sub004/internal/ir"

// Dialect renders a lowered operation tree into SQL text and the
// parameters it binds.
type Dialect interface {
	Name() string
	Render(op ir.Operation, params map[string]any) (sql string, outParams map[string]any, err error)
}
