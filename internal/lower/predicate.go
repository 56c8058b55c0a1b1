package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerBoolean lowers an AST expression node into an IR boolean expression
// (spec §4.1.3, §4.1.9).
func LowerBoolean(ctx *Context, node ast.Expr) (ir.BooleanExpression, error) {
	switch n := node.(type) {
	case *ast.MemberExpr:
		return lowerBooleanMember(ctx, n)
	case *ast.Identifier:
		return lowerBooleanMember(ctx, n)
	case *ast.BooleanLiteral:
		return ir.NewBooleanConstant(n.Value), nil
	case *ast.UnaryExpr:
		if n.Op != ast.UnaryNot {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
		}
		inner, err := LowerBoolean(ctx, n.Operand)
		if err != nil {
			return nil, err
		}
		return ir.NewNot(inner), nil
	case *ast.LogicalExpr:
		switch n.Op {
		case ast.LogAnd, ast.LogOr:
			left, err := LowerBoolean(ctx, n.Left)
			if err != nil {
				return nil, err
			}
			right, err := LowerBoolean(ctx, n.Right)
			if err != nil {
				return nil, err
			}
			op := ir.LogicalAnd
			if n.Op == ast.LogOr {
				op = ir.LogicalOr
			}
			return ir.NewLogical(op, left, right), nil
		default:
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
		}
	case *ast.BinaryExpr:
		if n.Op == ast.BinIn {
			return lowerInExpr(ctx, n)
		}
		return lowerComparison(ctx, n)
	case *ast.CallExpr:
		return lowerBooleanCall(ctx, n)
	default:
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
}

func lowerBooleanMember(ctx *Context, node ast.Expr) (ir.BooleanExpression, error) {
	v, err := LowerValue(ctx, node)
	if err != nil {
		return nil, err
	}
	if col, ok := v.(*ir.Column); ok {
		return ir.NewBooleanColumn(col.Name(), col.Source()), nil
	}
	return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
}

var comparisonOps = map[ast.BinaryOp]ir.ComparisonOp{
	ast.BinEq:       ir.CmpEq,
	ast.BinStrictEq: ir.CmpEq,
	ast.BinNe:       ir.CmpNe,
	ast.BinStrictNe: ir.CmpNe,
	ast.BinGt:       ir.CmpGt,
	ast.BinGte:      ir.CmpGte,
	ast.BinLt:       ir.CmpLt,
	ast.BinLte:      ir.CmpLte,
}

func isNullishNode(node ast.Expr) bool {
	switch node.(type) {
	case *ast.NullLiteral, *ast.UndefinedLiteral:
		return true
	default:
		return false
	}
}

func isLiteralNode(node ast.Expr) bool {
	switch node.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NullLiteral, *ast.UndefinedLiteral:
		return true
	default:
		return false
	}
}

func lowerComparison(ctx *Context, n *ast.BinaryExpr) (ir.BooleanExpression, error) {
	op, ok := comparisonOps[n.Op]
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}

	if isNullishNode(n.Left) != isNullishNode(n.Right) {
		nonNull := n.Right
		if isNullishNode(n.Right) {
			nonNull = n.Left
		}
		v, err := LowerValue(ctx, nonNull)
		if err != nil {
			return nil, err
		}
		switch op {
		case ir.CmpEq:
			return ir.NewIsNull(v), nil
		case ir.CmpNe:
			return ir.NewIsNotNull(v), nil
		default:
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
		}
	}

	var first, second ast.Expr
	firstIsLeft := !isLiteralNode(n.Left)
	if firstIsLeft {
		first, second = n.Left, n.Right
	} else {
		first, second = n.Right, n.Left
	}

	firstComparand, err := lowerComparand(ctx, first, ir.AutoParamInfo{})
	if err != nil {
		return nil, err
	}
	hint := ir.AutoParamInfo{}
	if vc, ok := firstComparand.(ir.ValueComparand); ok {
		hint = hintFromValue(vc.Value)
	}
	secondComparand, err := lowerComparand(ctx, second, hint)
	if err != nil {
		return nil, err
	}

	left, right := firstComparand, secondComparand
	if !firstIsLeft {
		left, right = secondComparand, firstComparand
	}
	return ir.NewComparison(op, left, right), nil
}

func lowerComparand(ctx *Context, node ast.Expr, hint ir.AutoParamInfo) (ir.Comparand, error) {
	if v, err := lowerValueHinted(ctx, node, hint); err == nil {
		return ir.ValueComparand{Value: v}, nil
	}
	b, err := LowerBoolean(ctx, node)
	if err != nil {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	return ir.BooleanComparand{Value: b}, nil
}

func hintFromValue(v ir.ValueExpression) ir.AutoParamInfo {
	col, ok := v.(*ir.Column)
	if !ok {
		return ir.AutoParamInfo{}
	}
	info := ir.AutoParamInfo{FieldName: col.Name(), HasField: true}
	switch origin := col.Source().(type) {
	case ir.OriginTable:
		info.TableName = origin.Alias()
	case ir.OriginJoinSlot:
		info.SourceTable = origin.Index()
		info.HasSourceTable = true
	}
	return info
}

var stringPredicateMethods = map[string]ir.BooleanMethodKind{
	"startsWith": ir.MethodStartsWith,
	"endsWith":   ir.MethodEndsWith,
	"includes":   ir.MethodIncludes,
}

var caseInsensitiveFunctions = map[string]ir.CaseInsensitiveFunctionKind{
	"iequals":     ir.FuncIEquals,
	"istartsWith": ir.FuncIStartsWith,
	"iendsWith":   ir.FuncIEndsWith,
	"icontains":   ir.FuncIContains,
}

func lowerBooleanCall(ctx *Context, n *ast.CallExpr) (ir.BooleanExpression, error) {
	member, ok := n.Callee.(*ast.MemberExpr)
	if !ok || member.Computed {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
	}

	if member.Property == "includes" {
		if in, matched, err := tryLowerArrayIncludes(ctx, member.Object, n.Args); matched {
			return in, err
		}
	}

	if kind, ok := stringPredicateMethods[member.Property]; ok {
		if len(n.Args) != 1 {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
		}
		obj, err := LowerValue(ctx, member.Object)
		if err != nil {
			return nil, err
		}
		arg, err := lowerValueHinted(ctx, n.Args[0], hintFromValue(obj))
		if err != nil {
			return nil, err
		}
		return ir.NewBooleanMethod(kind, obj, []ir.ValueExpression{arg}), nil
	}

	if member.Property == "contains" {
		// Plain object `.contains` (substring test without `helpers`)
		// lowers to MethodContains, which renders the same as `includes`.
		if len(n.Args) != 1 {
			return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
		}
		obj, err := LowerValue(ctx, member.Object)
		if err != nil {
			return nil, err
		}
		arg, err := lowerValueHinted(ctx, n.Args[0], hintFromValue(obj))
		if err != nil {
			return nil, err
		}
		return ir.NewBooleanMethod(ir.MethodContains, obj, []ir.ValueExpression{arg}), nil
	}

	if isHelpersReceiver(ctx, member.Object) {
		if kind, ok := caseInsensitiveFunctions[member.Property]; ok {
			if len(n.Args) != 2 {
				return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
			}
			left, err := LowerValue(ctx, n.Args[0])
			if err != nil {
				return nil, err
			}
			right, err := lowerValueHinted(ctx, n.Args[1], hintFromValue(left))
			if err != nil {
				return nil, err
			}
			return ir.NewCaseInsensitiveFunction(kind, left, right), nil
		}
	}

	return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnsupportedCall)
}

// isHelpersReceiver reports whether node is the helpers parameter itself
// (`h.icontains(...)`) or its `functions` namespace
// (`h.functions.icontains(...)`).
func isHelpersReceiver(ctx *Context, node ast.Expr) bool {
	if m, ok := node.(*ast.MemberExpr); ok && !m.Computed && m.Property == "functions" {
		node = m.Object
	}
	id, ok := node.(*ast.Identifier)
	return ok && ctx.IsHelpersParam(id.Name)
}

// tryLowerArrayIncludes recognizes `array.includes(x)`-shaped membership
// tests — an inline array literal or a parameter bound to a list — and
// lowers them the same way `x in array` does (spec §4.1.3). The bool
// return reports whether receiver matched an array-like shape at all; a
// caller with matched=false falls through to the plain string-method
// handling for `.includes()` on a column/string value.
func tryLowerArrayIncludes(ctx *Context, receiver ast.Expr, args []ast.Expr) (ir.BooleanExpression, bool, error) {
	if len(args) != 1 {
		return nil, false, nil
	}
	if arr, ok := receiver.(*ast.ArrayLiteral); ok {
		value, err := LowerValue(ctx, args[0])
		if err != nil {
			return nil, true, err
		}
		values := make([]ir.ValueExpression, 0, len(arr.Elements))
		for _, elem := range arr.Elements {
			v, err := lowerValueHinted(ctx, elem, hintFromValue(value))
			if err != nil {
				return nil, true, err
			}
			values = append(values, v)
		}
		return ir.NewIn(value, ir.InListValues{Values: values}), true, nil
	}
	switch receiver.(type) {
	case *ast.MemberExpr, *ast.Identifier:
		v, err := LowerValue(ctx, receiver)
		if err != nil {
			return nil, false, nil
		}
		param, ok := v.(*ir.Param)
		if !ok {
			return nil, false, nil
		}
		value, err := LowerValue(ctx, args[0])
		if err != nil {
			return nil, true, err
		}
		return ir.NewIn(value, ir.InListParam{Param: param}), true, nil
	default:
		return nil, false, nil
	}
}

func lowerInExpr(ctx *Context, n *ast.BinaryExpr) (ir.BooleanExpression, error) {
	value, err := LowerValue(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	switch right := n.Right.(type) {
	case *ast.ArrayLiteral:
		values := make([]ir.ValueExpression, 0, len(right.Elements))
		for _, elem := range right.Elements {
			v, err := lowerValueHinted(ctx, elem, hintFromValue(value))
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return ir.NewIn(value, ir.InListValues{Values: values}), nil
	case *ast.MemberExpr:
		param, err := lowerParamReference(ctx, right)
		if err != nil {
			return nil, err
		}
		return ir.NewIn(value, ir.InListParam{Param: param}), nil
	case *ast.Identifier:
		param, err := lowerParamReference(ctx, right)
		if err != nil {
			return nil, err
		}
		return ir.NewIn(value, ir.InListParam{Param: param}), nil
	default:
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
}

// lowerParamReference resolves the right-hand side of `in` to a parameter
// binding; spec §3.1 requires the list to come from a parameter, never be
// inlined as a literal array mixed with computed values.
func lowerParamReference(ctx *Context, node ast.Expr) (*ir.Param, error) {
	v, err := LowerValue(ctx, node)
	if err != nil {
		return nil, err
	}
	p, ok := v.(*ir.Param)
	if !ok {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
	}
	return p, nil
}
