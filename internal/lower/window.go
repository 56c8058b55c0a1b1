package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

var windowFunctionsByName = map[string]ir.WindowFunction{
	"rank":      ir.WindowRank,
	"denseRank": ir.WindowDenseRank,
	"rowNumber": ir.WindowRowNumber,
}

// tryLowerWindowCall recognizes `helpers.rank(...)`/`helpers.denseRank(...)`/
// `helpers.rowNumber(...)` calls and lowers them to an ir.Window value
// expression (SPEC_FULL.md §7 supplement). The third return value reports
// whether the call matched this shape at all, so callers can fall through
// to their own "unsupported call" error otherwise.
func tryLowerWindowCall(ctx *Context, member *ast.MemberExpr, args []ast.Expr) (ir.ValueExpression, error, bool) {
	id, ok := member.Object.(*ast.Identifier)
	if !ok || !ctx.IsHelpersParam(id.Name) {
		return nil, nil, false
	}
	fn, ok := windowFunctionsByName[member.Property]
	if !ok {
		return nil, nil, false
	}
	if len(args) > 1 {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall), true
	}
	var partitionBy []ir.ValueExpression
	var orderBy []ir.OrderTerm
	if len(args) == 1 {
		obj, ok := args[0].(*ast.ObjectLiteral)
		if !ok {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall), true
		}
		for _, prop := range obj.Properties {
			switch prop.Key {
			case "partitionBy":
				arr, ok := prop.Value.(*ast.ArrayLiteral)
				if !ok {
					return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall), true
				}
				for _, elem := range arr.Elements {
					v, err := LowerValue(ctx, elem)
					if err != nil {
						return nil, err, true
					}
					partitionBy = append(partitionBy, v)
				}
			case "orderBy":
				arr, ok := prop.Value.(*ast.ArrayLiteral)
				if !ok {
					return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall), true
				}
				for _, elem := range arr.Elements {
					term, err := lowerWindowOrderTerm(ctx, elem)
					if err != nil {
						return nil, err, true
					}
					orderBy = append(orderBy, term)
				}
			default:
				return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall), true
			}
		}
	}
	return ir.NewWindow(fn, partitionBy, orderBy), nil, true
}

func lowerWindowOrderTerm(ctx *Context, node ast.Expr) (ir.OrderTerm, error) {
	if obj, ok := node.(*ast.ObjectLiteral); ok {
		var expr ir.ValueExpression
		descending := false
		for _, prop := range obj.Properties {
			switch prop.Key {
			case "expr":
				v, err := LowerValue(ctx, prop.Value)
				if err != nil {
					return ir.OrderTerm{}, err
				}
				expr = v
			case "desc":
				lit, ok := prop.Value.(*ast.BooleanLiteral)
				if !ok {
					return ir.OrderTerm{}, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
				}
				descending = lit.Value
			default:
				return ir.OrderTerm{}, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
			}
		}
		if expr == nil {
			return ir.OrderTerm{}, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
		}
		return ir.OrderTerm{Expr: expr, Descending: descending}, nil
	}
	v, err := LowerValue(ctx, node)
	if err != nil {
		return ir.OrderTerm{}, err
	}
	return ir.OrderTerm{Expr: v}, nil
}
