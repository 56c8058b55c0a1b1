package dialect

import "github.com/tinqerjs-org/tinqer-sub004/internal/ir"

// Postgres renders operation trees as PostgreSQL SQL text: double-quoted
// identifiers, `@name` placeholders, and `FALSE` for the always-empty
// predicate an empty `in()` list lowers to.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Render(op ir.Operation, params map[string]any) (string, map[string]any, error) {
	return RenderOperation("postgres", params, op)
}
