package lower

import (
	"github.com/shopspring/decimal"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerValue lowers an AST expression node into a scalar IR value
// expression (spec §4.1.3, §4.1.7).
func LowerValue(ctx *Context, node ast.Expr) (ir.ValueExpression, error) {
	return lowerValueHinted(ctx, node, ir.AutoParamInfo{})
}

func lowerValueHinted(ctx *Context, node ast.Expr, hint ir.AutoParamInfo) (ir.ValueExpression, error) {
	switch n := node.(type) {
	case *ast.MemberExpr:
		return lowerMemberChain(ctx, n)
	case *ast.Identifier:
		return resolveBoundPath(ctx, n.Name, nil)
	case *ast.NumberLiteral:
		return ctx.NewAutoParam(numericLiteral(n), &hint), nil
	case *ast.StringLiteral:
		return ctx.NewAutoParam(n.Value, &hint), nil
	case *ast.BooleanLiteral:
		return ctx.NewAutoParam(n.Value, &hint), nil
	case *ast.NullLiteral:
		return ir.NewNullConstant(), nil
	case *ast.UndefinedLiteral:
		return ir.NewNullConstant(), nil
	case *ast.UnaryExpr:
		return lowerUnaryValue(ctx, n, hint)
	case *ast.BinaryExpr:
		return lowerArithmetic(ctx, n)
	case *ast.LogicalExpr:
		if n.Op == ast.LogNullish {
			left, err := LowerValue(ctx, n.Left)
			if err != nil {
				return nil, err
			}
			right, err := LowerValue(ctx, n.Right)
			if err != nil {
				return nil, err
			}
			return ir.NewCoalesce([]ir.ValueExpression{left, right}), nil
		}
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	case *ast.ConditionalExpr:
		cond, err := LowerBoolean(ctx, n.Test)
		if err != nil {
			return nil, err
		}
		then, err := LowerValue(ctx, n.Consequent)
		if err != nil {
			return nil, err
		}
		els, err := LowerValue(ctx, n.Alternate)
		if err != nil {
			return nil, err
		}
		return ir.NewConditional(cond, then, els), nil
	case *ast.CallExpr:
		return lowerValueCall(ctx, n)
	default:
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
}

func lowerUnaryValue(ctx *Context, n *ast.UnaryExpr, hint ir.AutoParamInfo) (ir.ValueExpression, error) {
	if n.Op != ast.UnaryNeg {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	if num, ok := n.Operand.(*ast.NumberLiteral); ok {
		v := numericLiteral(num)
		negated := negateNumeric(v)
		return ctx.NewAutoParam(negated, &hint), nil
	}
	return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
}

func negateNumeric(v any) any {
	switch x := v.(type) {
	case float64:
		return -x
	default:
		if neg, ok := negateDecimal(x); ok {
			return neg
		}
		return x
	}
}

var arithBinOps = map[ast.BinaryOp]ir.ArithmeticOp{
	ast.BinAdd: ir.ArithAdd,
	ast.BinSub: ir.ArithSub,
	ast.BinMul: ir.ArithMul,
	ast.BinDiv: ir.ArithDiv,
	ast.BinMod: ir.ArithMod,
}

func lowerArithmetic(ctx *Context, n *ast.BinaryExpr) (ir.ValueExpression, error) {
	op, ok := arithBinOps[n.Op]
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	left, err := LowerValue(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := LowerValue(ctx, n.Right)
	if err != nil {
		return nil, err
	}
	return ir.NewArithmetic(op, left, right), nil
}

func lowerValueCall(ctx *Context, n *ast.CallExpr) (ir.ValueExpression, error) {
	member, ok := n.Callee.(*ast.MemberExpr)
	if !ok || member.Computed {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
	}
	if id, ok := member.Object.(*ast.Identifier); ok && ctx.IsGroupParam(id.Name) {
		return lowerGroupAggregateCall(ctx, member.Property, n.Args)
	}
	switch member.Property {
	case "toLowerCase", "toUpperCase":
		if len(n.Args) != 0 {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
		}
		obj, err := LowerValue(ctx, member.Object)
		if err != nil {
			return nil, err
		}
		kind := ir.StringToLower
		if member.Property == "toUpperCase" {
			kind = ir.StringToUpper
		}
		return ir.NewStringMethod(kind, obj), nil
	case "concat":
		if len(n.Args) != 1 {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
		}
		obj, err := LowerValue(ctx, member.Object)
		if err != nil {
			return nil, err
		}
		arg, err := LowerValue(ctx, n.Args[0])
		if err != nil {
			return nil, err
		}
		return ir.NewConcat(obj, arg), nil
	default:
		if win, err, handled := tryLowerWindowCall(ctx, member, n.Args); handled {
			return win, err
		}
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
	}
}

// lowerMemberChain walks a chain of MemberExpr nodes down to its root
// Identifier and resolves the accumulated property path against whatever
// that identifier is bound to (a table row, the active JOIN result shape,
// or the external parameters object).
func lowerMemberChain(ctx *Context, node ast.Expr) (ir.ValueExpression, error) {
	var path []string
	cur := ast.Expr(node)
	for {
		me, ok := cur.(*ast.MemberExpr)
		if !ok {
			break
		}
		if me.Computed {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
		}
		path = append([]string{me.Property}, path...)
		cur = me.Object
	}
	id, ok := cur.(*ast.Identifier)
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	return resolveBoundPath(ctx, id.Name, path)
}

func resolveBoundPath(ctx *Context, base string, path []string) (ir.ValueExpression, error) {
	if ctx.IsGroupParam(base) {
		if len(path) != 1 || path[0] != "key" {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
		}
		return groupKeyExpression(ctx)
	}
	if shape, ok := ctx.RowShape(base); ok {
		if len(path) == 0 {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
		}
		return resolveShapePath(shape, path)
	}
	switch {
	case ctx.IsTableParam(base):
		if len(path) != 1 {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
		}
		alias, _ := ctx.TableAlias(base)
		return ir.NewColumn(path[0], ir.NewOriginTable(alias)), nil
	case ctx.IsQueryParam(base):
		if len(path) != 1 {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
		}
		return ir.NewParamProperty(base, path[0]), nil
	case base == "Number" && len(path) == 1 && path[0] == "MAX_SAFE_INTEGER":
		return ctx.NewAutoParam(decimal.NewFromInt(9007199254740991), nil), nil
	default:
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
}

func resolveShapePath(shape ir.ShapeNode, path []string) (ir.ValueExpression, error) {
	cur := shape
	for i, key := range path {
		last := i == len(path)-1
		switch node := cur.(type) {
		case *ir.ShapeObject:
			next, ok := node.Get(key)
			if !ok {
				return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
			}
			cur = next
		case *ir.ShapeReference:
			return ir.NewColumn(key, ir.NewOriginJoinSlot(node.SourceTable())), nil
		case *ir.ShapeColumn:
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
		default:
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
		}
		if last {
			break
		}
	}
	switch leaf := cur.(type) {
	case *ir.ShapeColumn:
		return ir.NewColumn(leaf.ColumnName(), ir.NewOriginJoinSlot(leaf.SourceTable())), nil
	default:
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
}
