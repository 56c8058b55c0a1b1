// Package ir declares the dialect-neutral intermediate representation:
// value expressions, boolean expressions, object (projection) expressions,
// query operations, and JOIN result shapes. Every concrete type has only
// unexported fields; construction happens through package-level
// constructor functions and every accessor returns a copy, so a tree built
// here is immutable by construction once handed out; there is no separate
// frozen-wrapper type (see SPEC_FULL.md §4 for why this replaces JS "deep
// freeze").
package ir

import "github.com/shopspring/decimal"

// ValueExpression yields a scalar SQL value.
type ValueExpression interface {
	valueExpr()
}

// BooleanExpression yields a truth value.
type BooleanExpression interface {
	booleanExpr()
}

// Origin tags where a column reference resolves to: a named table alias,
// or a slot in a JOIN's result shape. Tagged explicitly (never a formatted
// string) per SPEC_FULL.md's resolution of the JOIN-shape Design Note.
type Origin interface {
	origin()
}

// OriginTable is a plain table alias, e.g. the `u` in `u.age`.
type OriginTable struct{ alias string }

func NewOriginTable(alias string) OriginTable { return OriginTable{alias: alias} }
func (o OriginTable) Alias() string           { return o.alias }
func (OriginTable) origin()                   {}

// OriginJoinSlot is a table-index slot inside a JOIN's result shape.
type OriginJoinSlot struct{ index int }

func NewOriginJoinSlot(index int) OriginJoinSlot { return OriginJoinSlot{index: index} }
func (o OriginJoinSlot) Index() int              { return o.index }
func (OriginJoinSlot) origin()                   {}

// Column is a column reference value expression.
type Column struct {
	name   string
	source Origin
}

func NewColumn(name string, source Origin) *Column { return &Column{name: name, source: source} }
func (c *Column) Name() string                     { return c.name }
func (c *Column) Source() Origin                   { return c.source }
func (*Column) valueExpr()                         {}

// ValueType enumerates the literal-type tags a Constant can carry. Only
// Null is ever used for an inline Constant; every other literal is lifted
// to an auto-parameter (spec §3.1).
type ValueType int

const (
	ValueTypeNull ValueType = iota
)

// Constant is a NULL-preserving literal, used only for NULL in
// comparisons.
type Constant struct {
	valueType ValueType
}

func NewNullConstant() *Constant { return &Constant{valueType: ValueTypeNull} }
func (c *Constant) ValueType() ValueType { return c.valueType }
func (*Constant) valueExpr()             {}

// Param is a reference to an external or auto-parameter, optionally
// selecting a field of a parameter object or an index of a parameter
// array.
type Param struct {
	name     string
	property string
	hasProp  bool
	index    int
	hasIndex bool
}

func NewParam(name string) *Param { return &Param{name: name} }

func NewParamProperty(name, property string) *Param {
	return &Param{name: name, property: property, hasProp: true}
}

func NewParamIndex(name string, index int) *Param {
	return &Param{name: name, index: index, hasIndex: true}
}

func (p *Param) Name() string             { return p.name }
func (p *Param) Property() (string, bool) { return p.property, p.hasProp }
func (p *Param) Index() (int, bool)       { return p.index, p.hasIndex }
func (*Param) valueExpr()                 {}

// ArithmeticOp enumerates +, -, *, /, %.
type ArithmeticOp string

const (
	ArithAdd ArithmeticOp = "+"
	ArithSub ArithmeticOp = "-"
	ArithMul ArithmeticOp = "*"
	ArithDiv ArithmeticOp = "/"
	ArithMod ArithmeticOp = "%"
)

// Arithmetic is a binary arithmetic value expression.
type Arithmetic struct {
	op    ArithmeticOp
	left  ValueExpression
	right ValueExpression
}

func NewArithmetic(op ArithmeticOp, left, right ValueExpression) *Arithmetic {
	return &Arithmetic{op: op, left: left, right: right}
}
func (a *Arithmetic) Operator() ArithmeticOp  { return a.op }
func (a *Arithmetic) Left() ValueExpression   { return a.left }
func (a *Arithmetic) Right() ValueExpression  { return a.right }
func (*Arithmetic) valueExpr()                {}

// Concat is textual concatenation, rendered `||` in both target dialects.
type Concat struct {
	left  ValueExpression
	right ValueExpression
}

func NewConcat(left, right ValueExpression) *Concat { return &Concat{left: left, right: right} }
func (c *Concat) Left() ValueExpression             { return c.left }
func (c *Concat) Right() ValueExpression            { return c.right }
func (*Concat) valueExpr()                          {}

// StringMethodKind enumerates toLowerCase/toUpperCase.
type StringMethodKind string

const (
	StringToLower StringMethodKind = "toLowerCase"
	StringToUpper StringMethodKind = "toUpperCase"
)

// StringMethod renders LOWER(...)/UPPER(...).
type StringMethod struct {
	method StringMethodKind
	object ValueExpression
}

func NewStringMethod(method StringMethodKind, object ValueExpression) *StringMethod {
	return &StringMethod{method: method, object: object}
}
func (s *StringMethod) Method() StringMethodKind { return s.method }
func (s *StringMethod) Object() ValueExpression   { return s.object }
func (*StringMethod) valueExpr()                  {}

// AggregateFunction enumerates SUM/AVG/MIN/MAX/COUNT.
type AggregateFunction string

const (
	AggSum   AggregateFunction = "SUM"
	AggAvg   AggregateFunction = "AVG"
	AggMin   AggregateFunction = "MIN"
	AggMax   AggregateFunction = "MAX"
	AggCount AggregateFunction = "COUNT"
)

// Aggregate is an aggregate function call; Expression is nil for
// COUNT(*).
type Aggregate struct {
	function   AggregateFunction
	expression ValueExpression
}

func NewAggregate(function AggregateFunction, expression ValueExpression) *Aggregate {
	return &Aggregate{function: function, expression: expression}
}
func (a *Aggregate) Function() AggregateFunction { return a.function }
func (a *Aggregate) Expression() ValueExpression  { return a.expression }
func (*Aggregate) valueExpr()                     {}

// Coalesce is COALESCE(e1, e2, ...).
type Coalesce struct {
	expressions []ValueExpression
}

func NewCoalesce(expressions []ValueExpression) *Coalesce {
	return &Coalesce{expressions: append([]ValueExpression(nil), expressions...)}
}
func (c *Coalesce) Expressions() []ValueExpression {
	return append([]ValueExpression(nil), c.expressions...)
}
func (*Coalesce) valueExpr() {}

// Conditional lowers a ternary to SQL CASE WHEN cond THEN then ELSE else END.
type Conditional struct {
	condition BooleanExpression
	then      ValueExpression
	els       ValueExpression
}

func NewConditional(condition BooleanExpression, then, els ValueExpression) *Conditional {
	return &Conditional{condition: condition, then: then, els: els}
}
func (c *Conditional) Condition() BooleanExpression { return c.condition }
func (c *Conditional) Then() ValueExpression        { return c.then }
func (c *Conditional) Else() ValueExpression        { return c.els }
func (*Conditional) valueExpr()                     {}

// CaseBranch is one WHEN/THEN arm of a Case.
type CaseBranch struct {
	When BooleanExpression
	Then ValueExpression
}

// Case is a multi-branch SQL CASE expression.
type Case struct {
	branches []CaseBranch
	els      ValueExpression
}

func NewCase(branches []CaseBranch, els ValueExpression) *Case {
	return &Case{branches: append([]CaseBranch(nil), branches...), els: els}
}
func (c *Case) Branches() []CaseBranch { return append([]CaseBranch(nil), c.branches...) }
func (c *Case) Else() ValueExpression  { return c.els }
func (*Case) valueExpr()               {}

// WindowFunction enumerates the ranking functions a Window expression can
// compute (SPEC_FULL.md §7 supplement).
type WindowFunction string

const (
	WindowRank      WindowFunction = "RANK"
	WindowDenseRank WindowFunction = "DENSE_RANK"
	WindowRowNumber WindowFunction = "ROW_NUMBER"
)

// OrderTerm is one ORDER BY term, reused by both Window and the orderBy
// operation.
type OrderTerm struct {
	Expr       ValueExpression
	Descending bool
}

// Window is a ranking window-function value expression.
type Window struct {
	function    WindowFunction
	partitionBy []ValueExpression
	orderBy     []OrderTerm
}

func NewWindow(function WindowFunction, partitionBy []ValueExpression, orderBy []OrderTerm) *Window {
	return &Window{
		function:    function,
		partitionBy: append([]ValueExpression(nil), partitionBy...),
		orderBy:     append([]OrderTerm(nil), orderBy...),
	}
}
func (w *Window) Function() WindowFunction        { return w.function }
func (w *Window) PartitionBy() []ValueExpression  { return append([]ValueExpression(nil), w.partitionBy...) }
func (w *Window) OrderBy() []OrderTerm             { return append([]OrderTerm(nil), w.orderBy...) }
func (*Window) valueExpr()                         {}

// DecimalLiteral wraps a decimal.Decimal numeric literal. The lowering
// does not construct it: the auto-param registry (see lower.Context)
// stores numeric literals as plain decimal.Decimal values, and literals
// never appear directly inside an expression tree — they are always lifted
// to Param before they enter the IR (spec §3.1, §4.1.8).
type DecimalLiteral struct {
	decimal.Decimal
}

func NewDecimalLiteral(d decimal.Decimal) DecimalLiteral { return DecimalLiteral{d} }
