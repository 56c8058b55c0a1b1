package lower

import (
	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
	"github.com/tinqerjs-org/tinqer-sub004/qerrors"
)

// LowerProjection lowers a select/returning/result-selector lambda body
// into an IR projection Expression: an Object for `{ ... }` literals, a
// passthrough AllColumns/Reference for a bare identity parameter, or a
// single scalar value expression otherwise (spec §3.1, §4.1.4).
func LowerProjection(ctx *Context, node ast.Expr) (ir.Expression, error) {
	if id, ok := node.(*ast.Identifier); ok {
		if shape, ok := ctx.RowShape(id.Name); ok {
			expr, ok := shapeToExpression(shape)
			if !ok {
				return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
			}
			return expr, nil
		}
		if ctx.IsTableParam(id.Name) {
			return ir.AllColumns{}, nil
		}
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgSelectNeedsColumn)
	}
	if obj, ok := node.(*ast.ObjectLiteral); ok {
		return buildObjectProjection(ctx, obj)
	}
	v, err := LowerValue(ctx, node)
	if err != nil {
		return nil, err
	}
	return ir.ValueExpressionNode{Value: v}, nil
}

func buildObjectProjection(ctx *Context, obj *ast.ObjectLiteral) (*ir.Object, error) {
	keys := make([]string, 0, len(obj.Properties))
	props := make(map[string]ir.Expression, len(obj.Properties))
	for _, prop := range obj.Properties {
		expr, err := lowerProjectionProperty(ctx, prop)
		if err != nil {
			return nil, err
		}
		keys = append(keys, prop.Key)
		props[prop.Key] = expr
	}
	if len(keys) == 0 {
		return nil, qerrors.New(qerrors.Lowering, qerrors.MsgSelectNeedsColumn)
	}
	return ir.NewObject(keys, props), nil
}

func lowerProjectionProperty(ctx *Context, prop ast.Property) (ir.Expression, error) {
	if id, ok := prop.Value.(*ast.Identifier); ok {
		if shape, ok := ctx.RowShape(id.Name); ok {
			expr, ok := shapeToExpression(shape)
			if !ok {
				return nil, qerrors.New(qerrors.Lowering, qerrors.MsgUnknownExpressionType)
			}
			return expr, nil
		}
	}
	if nested, ok := prop.Value.(*ast.ObjectLiteral); ok {
		return buildObjectProjection(ctx, nested)
	}
	v, err := LowerValue(ctx, prop.Value)
	if err != nil {
		return nil, err
	}
	return ir.ValueExpressionNode{Value: v}, nil
}

// shapeToExpression converts a resolved JOIN shape subtree into the
// projection Expression that reproduces it inline (used for shorthand
// whole-row properties like `{ u, d }`).
func shapeToExpression(shape ir.ShapeNode) (ir.Expression, bool) {
	switch s := shape.(type) {
	case *ir.ShapeReference:
		return ir.NewReference(s.SourceTable()), true
	case *ir.ShapeColumn:
		return ir.ValueExpressionNode{Value: ir.NewColumn(s.ColumnName(), ir.NewOriginJoinSlot(s.SourceTable()))}, true
	case *ir.ShapeObject:
		keys := s.Keys()
		props := make(map[string]ir.Expression, len(keys))
		for _, k := range keys {
			child, ok := s.Get(k)
			if !ok {
				continue
			}
			e, ok := shapeToExpression(child)
			if !ok {
				continue
			}
			props[k] = e
		}
		return ir.NewObject(keys, props), true
	default:
		return nil, false
	}
}

// exprToShape converts a lowered projection Expression back into a
// ShapeNode, used while building a JOIN/SelectMany's result shape from its
// result-selector's object literal (spec §4.1.5). Both join-side
// parameters are bound to ShapeReference slots before the result selector
// is lowered (see bindJoinResultParams), so every Column reaching here
// carries an OriginJoinSlot.
func exprToShape(expr ir.Expression) (ir.ShapeNode, bool) {
	switch e := expr.(type) {
	case ir.ValueExpressionNode:
		col, ok := e.Value.(*ir.Column)
		if !ok {
			return nil, false
		}
		slot, ok := col.Source().(ir.OriginJoinSlot)
		if !ok {
			return nil, false
		}
		return ir.NewShapeColumn(slot.Index(), col.Name()), true
	case *ir.Reference:
		return ir.NewShapeReference(e.TableIndex()), true
	case *ir.Object:
		keys := e.Keys()
		props := make(map[string]ir.ShapeNode, len(keys))
		for _, k := range keys {
			child, ok := e.Get(k)
			if !ok {
				continue
			}
			s, ok := exprToShape(child)
			if !ok {
				continue
			}
			props[k] = s
		}
		return ir.NewShapeObject(keys, props), true
	default:
		return nil, false
	}
}
