// Package ast declares the shape of the ECMAScript-family AST that the
// lowering pipeline consumes. It is independent of any particular parser
// library: internal/jsparse is the only package that knows how to produce
// one of these trees, by adapting a third-party parser's own AST.
package ast

// Node is the root of every node in a lowered lambda body.
type Node interface {
	node()
}

// Expr is any node that can appear in an expression position.
type Expr interface {
	Node
	exprNode()
}

// Program is the top-level parse result: a single expression statement
// wrapping the lambda (an arrow function, possibly parenthesized).
type Program struct {
	Body Expr
}

func (*Program) node() {}

// ArrowFunction is `(p1, p2) => body` or `p1 => body`. Body is either a
// single Expr (concise body) or a *BlockStatement (braced body containing
// a single `return` — the only block-body shape this module's lowering
// recognizes).
type ArrowFunction struct {
	Params []*Identifier
	Body   Node
}

func (*ArrowFunction) node()     {}
func (*ArrowFunction) exprNode() {}

// BlockStatement holds a single `return <Expr>;` — the only supported
// braced-arrow-body shape.
type BlockStatement struct {
	Return Expr
}

func (*BlockStatement) node() {}

// Identifier is a bare name reference.
type Identifier struct {
	Name string
}

func (*Identifier) node()     {}
func (*Identifier) exprNode() {}

// MemberExpr is `object.property` or `object[computed]`. Computed member
// access is recognized only when Property is itself a constant-foldable
// string/number literal; anything else is a ParseError at adaptation time.
type MemberExpr struct {
	Object   Expr
	Property string
	Computed bool
}

func (*MemberExpr) node()     {}
func (*MemberExpr) exprNode() {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Callee Expr
	Args   []Expr
}

func (*CallExpr) node()     {}
func (*CallExpr) exprNode() {}

// BinaryOp enumerates the binary operators this module's lowering
// recognizes. Operators outside this set surface as ParseError.
type BinaryOp string

const (
	BinEq       BinaryOp = "=="
	BinStrictEq BinaryOp = "==="
	BinNe       BinaryOp = "!="
	BinStrictNe BinaryOp = "!=="
	BinGt       BinaryOp = ">"
	BinGte      BinaryOp = ">="
	BinLt       BinaryOp = "<"
	BinLte      BinaryOp = "<="
	BinAdd      BinaryOp = "+"
	BinSub      BinaryOp = "-"
	BinMul      BinaryOp = "*"
	BinDiv      BinaryOp = "/"
	BinMod      BinaryOp = "%"
	BinIn       BinaryOp = "in"
)

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) node()     {}
func (*BinaryExpr) exprNode() {}

// LogicalOp enumerates `&&`, `||`, `??`.
type LogicalOp string

const (
	LogAnd        LogicalOp = "&&"
	LogOr         LogicalOp = "||"
	LogNullish    LogicalOp = "??"
)

// LogicalExpr is `left op right` for the three short-circuiting operators.
type LogicalExpr struct {
	Op    LogicalOp
	Left  Expr
	Right Expr
}

func (*LogicalExpr) node()     {}
func (*LogicalExpr) exprNode() {}

// UnaryOp enumerates the unary operators this module recognizes.
type UnaryOp string

const (
	UnaryNot UnaryOp = "!"
	UnaryNeg UnaryOp = "-"
)

// UnaryExpr is `op operand`.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) node()     {}
func (*UnaryExpr) exprNode() {}

// ConditionalExpr is `test ? consequent : alternate`.
type ConditionalExpr struct {
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

func (*ConditionalExpr) node()     {}
func (*ConditionalExpr) exprNode() {}

// ObjectLiteral is `{ k1: v1, k2: v2, ... }`, order preserved.
type ObjectLiteral struct {
	Properties []Property
}

func (*ObjectLiteral) node()     {}
func (*ObjectLiteral) exprNode() {}

// Property is one key/value pair of an ObjectLiteral. Shorthand `{ u }`
// lowers to Property{Key: "u", Value: &Identifier{Name: "u"}, Shorthand: true}.
type Property struct {
	Key       string
	Value     Expr
	Shorthand bool
}

// ArrayLiteral is `[e1, e2, ...]`, used for inline IN-lists.
type ArrayLiteral struct {
	Elements []Expr
}

func (*ArrayLiteral) node()     {}
func (*ArrayLiteral) exprNode() {}

// NumberLiteral is a numeric literal, carried as text (the parser's value
// formatted with %v) as well as a float64, so the lowering layer can decide
// fixed vs. floating decoding.
type NumberLiteral struct {
	Text  string
	Value float64
}

func (*NumberLiteral) node()     {}
func (*NumberLiteral) exprNode() {}

// StringLiteral is a string literal.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) node()     {}
func (*StringLiteral) exprNode() {}

// BooleanLiteral is `true`/`false`.
type BooleanLiteral struct {
	Value bool
}

func (*BooleanLiteral) node()     {}
func (*BooleanLiteral) exprNode() {}

// NullLiteral is `null`.
type NullLiteral struct{}

func (*NullLiteral) node()     {}
func (*NullLiteral) exprNode() {}

// UndefinedLiteral is the identifier `undefined` used in a value position.
type UndefinedLiteral struct{}

func (*UndefinedLiteral) node()     {}
func (*UndefinedLiteral) exprNode() {}

// SequenceExpr is a comma expression `a, b, c`; only used while adapting
// parenthesized parameter lists, never reaches the lowering visitors.
type SequenceExpr struct {
	Expressions []Expr
}

func (*SequenceExpr) node()     {}
func (*SequenceExpr) exprNode() {}
