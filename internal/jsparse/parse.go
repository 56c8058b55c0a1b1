// Package jsparse adapts github.com/dop251/goja's ECMAScript parser into
// this module's own internal/ast contract. It is the only package that
// knows goja's node shapes; everything downstream of Parse works against
// internal/ast instead.
package jsparse

import (
	"fmt"
	"strings"

	gojaast "github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// Parse parses a lambda's source text (as produced by the host caller's
// function-to-string reflection, e.g. `"u => u.age >= p.minAge"`) into this
// module's AST contract.
func Parse(source string) (*ast.Program, error) {
	wrapped := "(" + strings.TrimSpace(source) + ")"

	prog, err := parser.ParseFile(nil, "", wrapped, 0)
	if err != nil {
		return nil, qerrors.Wrap(qerrors.Parse, qerrors.MsgFailedToParse, err)
	}
	if len(prog.Body) != 1 {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}

	stmt, ok := prog.Body[0].(*gojaast.ExpressionStatement)
	if !ok {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgFailedToParse)
	}

	body, err := adaptExpr(stmt.Expression)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Body: body}, nil
}

func adaptExpr(n gojaast.Expression) (ast.Expr, error) {
	switch e := n.(type) {
	case *gojaast.ArrowFunctionLiteral:
		return adaptArrow(e)
	case *gojaast.Identifier:
		if e.Name == "undefined" {
			return &ast.UndefinedLiteral{}, nil
		}
		return &ast.Identifier{Name: string(e.Name)}, nil
	case *gojaast.DotExpression:
		obj, err := adaptExpr(e.Left)
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpr{Object: obj, Property: string(e.Identifier.Name)}, nil
	case *gojaast.BracketExpression:
		obj, err := adaptExpr(e.Left)
		if err != nil {
			return nil, err
		}
		switch idx := e.Member.(type) {
		case *gojaast.StringLiteral:
			return &ast.MemberExpr{Object: obj, Property: string(idx.Value), Computed: true}, nil
		case *gojaast.NumberLiteral:
			return &ast.MemberExpr{Object: obj, Property: fmt.Sprintf("%v", idx.Value), Computed: true}, nil
		default:
			return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
		}
	case *gojaast.CallExpression:
		callee, err := adaptExpr(e.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, 0, len(e.ArgumentList))
		for _, a := range e.ArgumentList {
			adapted, err := adaptExpr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, adapted)
		}
		return &ast.CallExpr{Callee: callee, Args: args}, nil
	case *gojaast.BinaryExpression:
		return adaptBinary(e)
	case *gojaast.UnaryExpression:
		return adaptUnary(e)
	case *gojaast.ConditionalExpression:
		test, err := adaptExpr(e.Test)
		if err != nil {
			return nil, err
		}
		cons, err := adaptExpr(e.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := adaptExpr(e.Alternate)
		if err != nil {
			return nil, err
		}
		return &ast.ConditionalExpr{Test: test, Consequent: cons, Alternate: alt}, nil
	case *gojaast.ObjectLiteral:
		return adaptObject(e)
	case *gojaast.ArrayLiteral:
		elems := make([]ast.Expr, 0, len(e.Value))
		for _, v := range e.Value {
			adapted, err := adaptExpr(v)
			if err != nil {
				return nil, err
			}
			elems = append(elems, adapted)
		}
		return &ast.ArrayLiteral{Elements: elems}, nil
	case *gojaast.NumberLiteral:
		return &ast.NumberLiteral{Text: fmt.Sprintf("%v", e.Value), Value: toFloat(e.Value)}, nil
	case *gojaast.StringLiteral:
		return &ast.StringLiteral{Value: string(e.Value)}, nil
	case *gojaast.BooleanLiteral:
		return &ast.BooleanLiteral{Value: e.Value}, nil
	case *gojaast.NullLiteral:
		return &ast.NullLiteral{}, nil
	case *gojaast.SequenceExpression:
		exprs := make([]ast.Expr, 0, len(e.Sequence))
		for _, v := range e.Sequence {
			adapted, err := adaptExpr(v)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, adapted)
		}
		return &ast.SequenceExpr{Expressions: exprs}, nil
	default:
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
}

func adaptArrow(e *gojaast.ArrowFunctionLiteral) (ast.Expr, error) {
	params := make([]*ast.Identifier, 0, len(e.ParameterList.List))
	for _, p := range e.ParameterList.List {
		id, ok := p.Target.(*gojaast.Identifier)
		if !ok {
			return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
		}
		params = append(params, &ast.Identifier{Name: string(id.Name)})
	}

	switch body := e.Body.(type) {
	case *gojaast.ExpressionBody:
		adapted, err := adaptExpr(body.Expression)
		if err != nil {
			return nil, err
		}
		return &ast.ArrowFunction{Params: params, Body: adapted}, nil
	case *gojaast.BlockStatement:
		ret, err := singleReturn(body)
		if err != nil {
			return nil, err
		}
		return &ast.ArrowFunction{Params: params, Body: &ast.BlockStatement{Return: ret}}, nil
	default:
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
}

func singleReturn(block *gojaast.BlockStatement) (ast.Expr, error) {
	if len(block.List) != 1 {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	ret, ok := block.List[0].(*gojaast.ReturnStatement)
	if !ok || ret.Argument == nil {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	return adaptExpr(ret.Argument)
}

func adaptBinary(e *gojaast.BinaryExpression) (ast.Expr, error) {
	left, err := adaptExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := adaptExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.String() {
	case "&&":
		return &ast.LogicalExpr{Op: ast.LogAnd, Left: left, Right: right}, nil
	case "||":
		return &ast.LogicalExpr{Op: ast.LogOr, Left: left, Right: right}, nil
	case "??":
		return &ast.LogicalExpr{Op: ast.LogNullish, Left: left, Right: right}, nil
	}

	op, ok := binaryOpFor(e.Operator.String())
	if !ok {
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
	return &ast.BinaryExpr{Op: op, Left: left, Right: right}, nil
}

func binaryOpFor(tok string) (ast.BinaryOp, bool) {
	switch tok {
	case "==":
		return ast.BinEq, true
	case "===":
		return ast.BinStrictEq, true
	case "!=":
		return ast.BinNe, true
	case "!==":
		return ast.BinStrictNe, true
	case ">":
		return ast.BinGt, true
	case ">=":
		return ast.BinGte, true
	case "<":
		return ast.BinLt, true
	case "<=":
		return ast.BinLte, true
	case "+":
		return ast.BinAdd, true
	case "-":
		return ast.BinSub, true
	case "*":
		return ast.BinMul, true
	case "/":
		return ast.BinDiv, true
	case "%":
		return ast.BinMod, true
	case "in":
		return ast.BinIn, true
	default:
		return "", false
	}
}

func adaptUnary(e *gojaast.UnaryExpression) (ast.Expr, error) {
	operand, err := adaptExpr(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Operator.String() {
	case "!":
		return &ast.UnaryExpr{Op: ast.UnaryNot, Operand: operand}, nil
	case "-":
		return &ast.UnaryExpr{Op: ast.UnaryNeg, Operand: operand}, nil
	default:
		return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
}

func adaptObject(e *gojaast.ObjectLiteral) (ast.Expr, error) {
	props := make([]ast.Property, 0, len(e.Value))
	for _, p := range e.Value {
		keyed, ok := p.(*gojaast.PropertyKeyed)
		if !ok {
			return nil, qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
		}
		key, err := propertyKeyName(keyed.Key)
		if err != nil {
			return nil, err
		}
		val, err := adaptExpr(keyed.Value)
		if err != nil {
			return nil, err
		}
		shorthand := !keyed.Computed && isShorthand(keyed)
		props = append(props, ast.Property{Key: key, Value: val, Shorthand: shorthand})
	}
	return &ast.ObjectLiteral{Properties: props}, nil
}

func isShorthand(p *gojaast.PropertyKeyed) bool {
	return p.Kind == gojaast.PropertyKindValue && sameIdentText(p.Key, p.Value)
}

func sameIdentText(key, value gojaast.Expression) bool {
	k, ok1 := key.(*gojaast.Identifier)
	v, ok2 := value.(*gojaast.Identifier)
	return ok1 && ok2 && k.Name == v.Name
}

func propertyKeyName(key gojaast.Expression) (string, error) {
	switch k := key.(type) {
	case *gojaast.Identifier:
		return string(k.Name), nil
	case *gojaast.StringLiteral:
		return string(k.Value), nil
	default:
		return "", qerrors.New(qerrors.Parse, qerrors.MsgUnsupportedCall)
	}
}

func toFloat(v float64) float64 { return v }
