package lower

import "github.com/tinqerjs-org/tinqer-sub004/internal/ir"

// LowerFrom builds the root operation of a query plan. It binds no lambda
// (the table name and alias come straight from the schema descriptor) but
// still seeds the context so the first stage's lambda can refer to table's
// alias as its row parameter.
func LowerFrom(ctx *Context, table, alias string) *ir.From {
	ctx.SetCurrentTable(table)
	ctx.SetCurrentRowTable(alias)
	ctx.BindCurrentRow(alias)
	return ir.NewFrom(table, alias)
}
