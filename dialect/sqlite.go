package dialect

import "github.com/tinqerjs-org/tinqer-sub004/internal/ir"

// SQLite renders operation trees as SQLite SQL text: double-quoted
// identifiers, `@name` placeholders, and `0` for the always-empty
// predicate an empty `in()` list lowers to.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Render(op ir.Operation, params map[string]any) (string, map[string]any, error) {
	return RenderOperation("sqlite", params, op)
}
