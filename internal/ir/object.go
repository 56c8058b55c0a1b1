package ir

// Expression is the union of everything that can occupy a projection
// property value: a scalar ValueExpression, a nested Object, or a
// Reference into a JOIN's result shape.
type Expression interface {
	expression()
}

func (ValueExpressionNode) expression() {}
func (*Object) expression()             {}
func (*Reference) expression()          {}

// ValueExpressionNode adapts a ValueExpression into an Expression so a
// projection property can hold either.
type ValueExpressionNode struct {
	Value ValueExpression
}

// Object is a SELECT/RETURNING projection or a JOIN result selector.
// Properties preserves insertion order (spec §3.1).
type Object struct {
	order []string
	props map[string]Expression
}

func NewObject(keys []string, values map[string]Expression) *Object {
	o := &Object{order: append([]string(nil), keys...), props: make(map[string]Expression, len(values))}
	for k, v := range values {
		o.props[k] = v
	}
	return o
}

// Keys returns the property names in insertion order.
func (o *Object) Keys() []string { return append([]string(nil), o.order...) }

// Get returns the expression bound to a property name.
func (o *Object) Get(key string) (Expression, bool) {
	v, ok := o.props[key]
	return v, ok
}

// Reference is an entire JOIN-table-slot participating as a nested
// record in a projection (spec §3.3 ShapeNode "reference").
type Reference struct {
	tableIndex int
}

func NewReference(tableIndex int) *Reference { return &Reference{tableIndex: tableIndex} }
func (r *Reference) TableIndex() int         { return r.tableIndex }

// AllColumns is the `SELECT *` / identity-projection marker (spec §4.1.4,
// §7 supplement: given a concrete type so `insert.returning` and `select`
// share one marker).
type AllColumns struct{}

func (AllColumns) expression() {}

// ShapeNode describes how a JOIN's virtual output record maps back to its
// source tables (spec §3.3).
type ShapeNode interface {
	shapeNode()
}

// ShapeObject mirrors Object but at the shape-tree level, built during
// JOIN lowering before column/reference resolution.
type ShapeObject struct {
	order []string
	props map[string]ShapeNode
}

func NewShapeObject(keys []string, values map[string]ShapeNode) *ShapeObject {
	s := &ShapeObject{order: append([]string(nil), keys...), props: make(map[string]ShapeNode, len(values))}
	for k, v := range values {
		s.props[k] = v
	}
	return s
}
func (s *ShapeObject) Keys() []string { return append([]string(nil), s.order...) }
func (s *ShapeObject) Get(key string) (ShapeNode, bool) {
	v, ok := s.props[key]
	return v, ok
}
func (*ShapeObject) shapeNode() {}

// ShapeColumn resolves a shape leaf to one concrete column of one source
// table slot.
type ShapeColumn struct {
	sourceTable int
	columnName  string
}

func NewShapeColumn(sourceTable int, columnName string) *ShapeColumn {
	return &ShapeColumn{sourceTable: sourceTable, columnName: columnName}
}
func (s *ShapeColumn) SourceTable() int  { return s.sourceTable }
func (s *ShapeColumn) ColumnName() string { return s.columnName }
func (*ShapeColumn) shapeNode()           {}

// ShapeReference resolves a shape leaf to an entire table slot's row.
type ShapeReference struct {
	sourceTable int
}

func NewShapeReference(sourceTable int) *ShapeReference { return &ShapeReference{sourceTable: sourceTable} }
func (s *ShapeReference) SourceTable() int              { return s.sourceTable }
func (*ShapeReference) shapeNode()                       {}
