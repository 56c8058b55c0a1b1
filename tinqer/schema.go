// Package tinqer is the public API surface: schema descriptors and
// stage-typed plan handles that turn a chain of lambda-source-text method
// calls into an internal/ir operation tree, plus the top-level ToSQL
// renderer (spec §6.1, §4.2). The fluent, chainable handle style is
// generalized from Serajian-go-query-builder/qb's single *QueryBuilder
// root into the stage-typed family the spec requires.
package tinqer

// Schema is a phantom-typed handle binding a SQL table to the Go row type
// T a plan built from it describes. T never appears in a field; it exists
// only so the compiler keeps a plan's generic parameter tied to one row
// shape end to end (spec §6.1's "phantom handle parameterized by a row
// type").
type Schema[T any] struct {
	table string
	alias string
}

// NewSchema declares table as its own default row alias.
func NewSchema[T any](table string) Schema[T] {
	return Schema[T]{table: table, alias: table}
}

// As rebinds the row alias lambdas address this table's columns through
// (e.g. so a self-join's two sides can be told apart), leaving the
// underlying table name unchanged.
func (s Schema[T]) As(alias string) Schema[T] {
	s.alias = alias
	return s
}

func (s Schema[T]) Table() string { return s.table }
func (s Schema[T]) Alias() string { return s.alias }
