package dialect

import (
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// requireWhere rejects an UPDATE/DELETE that has no predicate and no
// explicit full-table waiver (spec §4.3.4, §6.4).
func requireWhere(predicate ir.BooleanExpression, waived bool, msg string) error {
	if predicate == nil && !waived {
		return qerrors.New(qerrors.Safety, msg)
	}
	return nil
}

// requireProjectionColumn rejects a SELECT/RETURNING projection with no
// column reference anywhere in its tree (spec §4.3.4): a projection like
// `{ mixed: 1 + 2 }` computes a constant and isn't a meaningful query.
// AllColumns/Reference entries always pass (they expand to real columns at
// render time); an Object must have at least one property that does.
func requireProjectionColumn(expr ir.Expression) error {
	if !expressionHasColumn(expr) {
		return qerrors.New(qerrors.Safety, qerrors.MsgSelectNeedsColumn)
	}
	return nil
}

func expressionHasColumn(expr ir.Expression) bool {
	switch e := expr.(type) {
	case ir.AllColumns:
		return true
	case *ir.Reference:
		return true
	case ir.ValueExpressionNode:
		return valueHasColumn(e.Value)
	case *ir.Object:
		for _, key := range e.Keys() {
			child, _ := e.Get(key)
			if expressionHasColumn(child) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func valueHasColumn(v ir.ValueExpression) bool {
	switch e := v.(type) {
	case *ir.Column:
		return true
	case *ir.Arithmetic:
		return valueHasColumn(e.Left()) || valueHasColumn(e.Right())
	case *ir.Concat:
		return valueHasColumn(e.Left()) || valueHasColumn(e.Right())
	case *ir.StringMethod:
		return valueHasColumn(e.Object())
	case *ir.Aggregate:
		return e.Expression() == nil || valueHasColumn(e.Expression())
	case *ir.Coalesce:
		for _, inner := range e.Expressions() {
			if valueHasColumn(inner) {
				return true
			}
		}
		return false
	case *ir.Conditional:
		return valueHasColumn(e.Then()) || valueHasColumn(e.Else()) || booleanHasColumn(e.Condition())
	case *ir.Case:
		for _, branch := range e.Branches() {
			if valueHasColumn(branch.Then) || booleanHasColumn(branch.When) {
				return true
			}
		}
		if els := e.Else(); els != nil && valueHasColumn(els) {
			return true
		}
		return false
	case *ir.Window:
		for _, part := range e.PartitionBy() {
			if valueHasColumn(part) {
				return true
			}
		}
		for _, term := range e.OrderBy() {
			if valueHasColumn(term.Expr) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func booleanHasColumn(b ir.BooleanExpression) bool {
	switch e := b.(type) {
	case *ir.Comparison:
		return comparandHasColumn(e.Left()) || comparandHasColumn(e.Right())
	case *ir.Logical:
		return booleanHasColumn(e.Left()) || booleanHasColumn(e.Right())
	case *ir.Not:
		return booleanHasColumn(e.Expression())
	case *ir.BooleanColumn:
		return true
	case *ir.BooleanMethod:
		if valueHasColumn(e.Object()) {
			return true
		}
		for _, arg := range e.Arguments() {
			if valueHasColumn(arg) {
				return true
			}
		}
		return false
	case *ir.In:
		return valueHasColumn(e.Value())
	case *ir.CaseInsensitiveFunction:
		left, right := e.Arguments()
		return valueHasColumn(left) || valueHasColumn(right)
	case *ir.IsNull:
		return valueHasColumn(e.Value())
	case *ir.IsNotNull:
		return valueHasColumn(e.Value())
	default:
		return false
	}
}

func comparandHasColumn(c ir.Comparand) bool {
	switch cc := c.(type) {
	case ir.ValueComparand:
		return valueHasColumn(cc.Value)
	case ir.BooleanComparand:
		return booleanHasColumn(cc.Value)
	default:
		return false
	}
}
