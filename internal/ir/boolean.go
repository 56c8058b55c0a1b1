package ir

// ComparisonOp enumerates ==, !=, >, >=, <, <= after normalization (spec
// §4.1.3: `==`/`===` and `!=`/`!==` both collapse to one spelling each).
type ComparisonOp string

const (
	CmpEq  ComparisonOp = "="
	CmpNe  ComparisonOp = "!="
	CmpGt  ComparisonOp = ">"
	CmpGte ComparisonOp = ">="
	CmpLt  ComparisonOp = "<"
	CmpLte ComparisonOp = "<="
)

// Comparand is either side of a Comparison: most comparisons hold two
// ValueExpressions, but spec §3.1 allows a BooleanExpression operand
// (treated as a 0/1 value) so that `u.isActive === true`-shaped code and
// bare boolean columns both work.
type Comparand interface {
	comparand()
}

// ValueComparand wraps a ValueExpression as a Comparand.
type ValueComparand struct{ Value ValueExpression }

func (ValueComparand) comparand() {}

// BooleanComparand wraps a BooleanExpression as a Comparand.
type BooleanComparand struct{ Value BooleanExpression }

func (BooleanComparand) comparand() {}

// Comparison is `left op right`. NULL-constant operands are rendered by
// the generator as IS [NOT] NULL regardless of which side holds the
// literal (spec §4.1.3, §8.2).
type Comparison struct {
	op    ComparisonOp
	left  Comparand
	right Comparand
}

func NewComparison(op ComparisonOp, left, right Comparand) *Comparison {
	return &Comparison{op: op, left: left, right: right}
}
func (c *Comparison) Operator() ComparisonOp { return c.op }
func (c *Comparison) Left() Comparand        { return c.left }
func (c *Comparison) Right() Comparand       { return c.right }
func (*Comparison) booleanExpr()             {}

// LogicalOp enumerates AND/OR.
type LogicalOp string

const (
	LogicalAnd LogicalOp = "AND"
	LogicalOr  LogicalOp = "OR"
)

// Logical is `left op right` for AND/OR.
type Logical struct {
	op    LogicalOp
	left  BooleanExpression
	right BooleanExpression
}

func NewLogical(op LogicalOp, left, right BooleanExpression) *Logical {
	return &Logical{op: op, left: left, right: right}
}
func (l *Logical) Operator() LogicalOp       { return l.op }
func (l *Logical) Left() BooleanExpression   { return l.left }
func (l *Logical) Right() BooleanExpression  { return l.right }
func (*Logical) booleanExpr()                {}

// Not is logical negation.
type Not struct {
	expression BooleanExpression
}

func NewNot(expression BooleanExpression) *Not { return &Not{expression: expression} }
func (n *Not) Expression() BooleanExpression   { return n.expression }
func (*Not) booleanExpr()                      {}

// BooleanColumn is a column reference used directly as a predicate (a
// column whose declared type is boolean).
type BooleanColumn struct {
	name   string
	source Origin
}

func NewBooleanColumn(name string, source Origin) *BooleanColumn {
	return &BooleanColumn{name: name, source: source}
}
func (b *BooleanColumn) Name() string   { return b.name }
func (b *BooleanColumn) Source() Origin { return b.source }
func (*BooleanColumn) booleanExpr()     {}

// BooleanConstant is a literal `true`/`false` used directly as a
// predicate.
type BooleanConstant struct {
	value bool
}

func NewBooleanConstant(value bool) *BooleanConstant { return &BooleanConstant{value: value} }
func (b *BooleanConstant) Value() bool               { return b.value }
func (*BooleanConstant) booleanExpr()                {}

// BooleanMethodKind enumerates startsWith/endsWith/includes/contains.
type BooleanMethodKind string

const (
	MethodStartsWith BooleanMethodKind = "startsWith"
	MethodEndsWith   BooleanMethodKind = "endsWith"
	MethodIncludes   BooleanMethodKind = "includes"
	MethodContains   BooleanMethodKind = "contains"
)

// BooleanMethod is a string predicate method call.
type BooleanMethod struct {
	method    BooleanMethodKind
	object    ValueExpression
	arguments []ValueExpression
}

func NewBooleanMethod(method BooleanMethodKind, object ValueExpression, arguments []ValueExpression) *BooleanMethod {
	return &BooleanMethod{method: method, object: object, arguments: append([]ValueExpression(nil), arguments...)}
}
func (b *BooleanMethod) Method() BooleanMethodKind  { return b.method }
func (b *BooleanMethod) Object() ValueExpression    { return b.object }
func (b *BooleanMethod) Arguments() []ValueExpression {
	return append([]ValueExpression(nil), b.arguments...)
}
func (*BooleanMethod) booleanExpr() {}

// InList is either an array-parameter reference or an inline list of
// value expressions.
type InList interface {
	inList()
}

// InListParam refers to a parameter binding holding an array (spec §3.1:
// "must refer to a parameter binding, not inlined").
type InListParam struct {
	Param *Param
}

func (InListParam) inList() {}

// InListValues is an explicit, small inline list.
type InListValues struct {
	Values []ValueExpression
}

func (InListValues) inList() {}

// In is `value IN (list)`.
type In struct {
	value ValueExpression
	list  InList
}

func NewIn(value ValueExpression, list InList) *In { return &In{value: value, list: list} }
func (i *In) Value() ValueExpression               { return i.value }
func (i *In) List() InList                         { return i.list }
func (*In) booleanExpr()                           {}

// CaseInsensitiveFunctionKind enumerates iequals/istartsWith/iendsWith/icontains.
type CaseInsensitiveFunctionKind string

const (
	FuncIEquals     CaseInsensitiveFunctionKind = "iequals"
	FuncIStartsWith CaseInsensitiveFunctionKind = "istartsWith"
	FuncIEndsWith   CaseInsensitiveFunctionKind = "iendsWith"
	FuncIContains   CaseInsensitiveFunctionKind = "icontains"
)

// CaseInsensitiveFunction is a `helpers.functions.i*` call.
type CaseInsensitiveFunction struct {
	function  CaseInsensitiveFunctionKind
	arguments [2]ValueExpression
}

func NewCaseInsensitiveFunction(function CaseInsensitiveFunctionKind, left, right ValueExpression) *CaseInsensitiveFunction {
	return &CaseInsensitiveFunction{function: function, arguments: [2]ValueExpression{left, right}}
}
func (c *CaseInsensitiveFunction) Function() CaseInsensitiveFunctionKind { return c.function }
func (c *CaseInsensitiveFunction) Arguments() (ValueExpression, ValueExpression) {
	return c.arguments[0], c.arguments[1]
}
func (*CaseInsensitiveFunction) booleanExpr() {}

// IsNull is `value IS NULL`.
type IsNull struct {
	value ValueExpression
}

func NewIsNull(value ValueExpression) *IsNull { return &IsNull{value: value} }
func (n *IsNull) Value() ValueExpression      { return n.value }
func (*IsNull) booleanExpr()                  {}

// IsNotNull is `value IS NOT NULL`.
type IsNotNull struct {
	value ValueExpression
}

func NewIsNotNull(value ValueExpression) *IsNotNull { return &IsNotNull{value: value} }
func (n *IsNotNull) Value() ValueExpression         { return n.value }
func (*IsNotNull) booleanExpr()                     {}
