// Package lower implements the lambda-to-IR lowering pipeline: the
// visitors that walk a parsed lambda body (internal/ast) and produce
// internal/ir nodes, plus the Context threaded through them (spec §4.1.1).
package lower

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/tinqerjs-org/tinqer-sub004/internal/ast"
	"github.com/tinqerjs-org/tinqer-sub004/internal/ir"
)

// Context is the mutable bag threaded through every visitor call for one
// top-level parse (spec §4.1.1). It is owned by the plan handle that
// creates it and is never shared across goroutines (spec §5).
type Context struct {
	// tableParams maps a bound lambda parameter name to the SQL table
	// alias it addresses; these usually coincide (the From stage's own
	// parameter), but a later stage can rename the row variable in its own
	// lambda while the underlying alias stays fixed.
	tableParams map[string]string
	queryParams map[string]struct{}

	helpersParam string
	hasHelpers   bool

	autoParams     map[string]any
	autoParamInfos map[string]ir.AutoParamInfo
	autoParamOrder []string
	autoParamSeq   int

	currentTable string

	// rowBindings maps a bound lambda parameter name to the shape it
	// addresses once any JOIN/SelectMany has occurred: a single table slot
	// (ShapeReference) or, for a chained join's outer parameter, the whole
	// nested composite (ShapeObject) built by the previous join (spec
	// §3.3, §4.1.5).
	rowBindings map[string]ir.ShapeNode

	// currentRow is the descriptor of whatever the previous stage's row
	// shape resolved to, rebound to each new stage lambda's own parameter
	// name in turn (spec §4.1.2: every stage parses its own lambda text
	// independently, so names don't have to match across stages).
	currentRow *rowDescriptor

	// groupRow and groupKey remember the per-row shape and key expression
	// a GroupBy was computed from, so a following grouped select/having
	// lambda can bind its own aggregate sub-lambdas against the original
	// (pre-group) rows (spec §4.1.6).
	groupRow   *rowDescriptor
	groupKey   ir.GroupByKey
	groupBound bool

	groupParam    string
	hasGroupParam bool
}

type rowDescriptor struct {
	isComposite bool
	table       string
	shape       ir.ShapeNode
}

// NewContext creates an empty lowering context.
func NewContext() *Context {
	return &Context{
		tableParams:    map[string]string{},
		queryParams:    map[string]struct{}{},
		autoParams:     map[string]any{},
		autoParamInfos: map[string]ir.AutoParamInfo{},
		rowBindings:    map[string]ir.ShapeNode{},
	}
}

// Snapshot captures enough of the context to restore it after lowering one
// fragment in isolation, so composing a new stage never leaks that stage's
// scratch bindings (bound row-parameter names, bound JOIN shapes) into the
// next one (spec §4.2 step 4).
type Snapshot struct {
	tableParams map[string]string
	currentTable string
	rowBindings  map[string]ir.ShapeNode
}

func (c *Context) Snapshot() Snapshot {
	tp := make(map[string]string, len(c.tableParams))
	for k, v := range c.tableParams {
		tp[k] = v
	}
	rb := make(map[string]ir.ShapeNode, len(c.rowBindings))
	for k, v := range c.rowBindings {
		rb[k] = v
	}
	return Snapshot{tableParams: tp, currentTable: c.currentTable, rowBindings: rb}
}

func (c *Context) Restore(s Snapshot) {
	c.tableParams = s.tableParams
	c.currentTable = s.currentTable
	c.rowBindings = s.rowBindings
}

// BindTableParam registers name as a row-variable parameter whose SQL
// alias is the same name (the From stage's own lambda argument).
func (c *Context) BindTableParam(name string) { c.tableParams[name] = name }

// BindTableParamAlias registers name as a row-variable parameter
// addressing the SQL alias (which may differ from name when a later
// stage's lambda renames its row variable, spec §4.1.2).
func (c *Context) BindTableParamAlias(name, alias string) { c.tableParams[name] = alias }

// BindQueryParam registers name as the external-parameter slot (typically
// `p`/`params`).
func (c *Context) BindQueryParam(name string) { c.queryParams[name] = struct{}{} }

// SetHelpersParam registers the name bound to the helpers/utilities
// parameter (case-insensitive functions, window builders).
func (c *Context) SetHelpersParam(name string) {
	c.helpersParam = name
	c.hasHelpers = true
}

func (c *Context) IsTableParam(name string) bool {
	_, ok := c.tableParams[name]
	return ok
}

// TableAlias returns the SQL alias a bound table-parameter name
// addresses.
func (c *Context) TableAlias(name string) (string, bool) {
	alias, ok := c.tableParams[name]
	return alias, ok
}

func (c *Context) IsQueryParam(name string) bool {
	_, ok := c.queryParams[name]
	return ok
}

func (c *Context) IsHelpersParam(name string) bool {
	return c.hasHelpers && c.helpersParam == name
}

// SetCurrentTable records the table whose columns are in scope, used to
// harvest field-info for literals compared against its columns.
func (c *Context) SetCurrentTable(table string) { c.currentTable = table }
func (c *Context) CurrentTable() string         { return c.currentTable }

// BindRowShape binds a lambda parameter name to a JOIN/SelectMany table
// slot or composite shape, activating shape-path resolution for member
// access and shorthand whole-row references through that name.
func (c *Context) BindRowShape(name string, shape ir.ShapeNode) { c.rowBindings[name] = shape }

// RowShape returns the shape bound to name, if any.
func (c *Context) RowShape(name string) (ir.ShapeNode, bool) {
	s, ok := c.rowBindings[name]
	return s, ok
}

// SetCurrentRowTable records that the active row is a single plain table,
// addressed via OriginTable.
func (c *Context) SetCurrentRowTable(table string) {
	c.currentRow = &rowDescriptor{table: table}
}

// SetCurrentRowShape records that the active row is a JOIN/SelectMany
// composite, addressed via the given shape.
func (c *Context) SetCurrentRowShape(shape ir.ShapeNode) {
	c.currentRow = &rowDescriptor{isComposite: true, shape: shape}
}

// CurrentRowShape returns the active composite shape, if the current row
// is one (i.e. a JOIN/SelectMany has already occurred).
func (c *Context) CurrentRowShape() (ir.ShapeNode, bool) {
	if c.currentRow == nil || !c.currentRow.isComposite {
		return nil, false
	}
	return c.currentRow.shape, true
}

// ResetRowScope drops every name bound by the previous stage's lambda, so
// a new stage starts with a clean parameter namespace.
func (c *Context) ResetRowScope() {
	c.tableParams = map[string]string{}
	c.queryParams = map[string]struct{}{}
	c.rowBindings = map[string]ir.ShapeNode{}
	c.hasHelpers = false
	c.helpersParam = ""
	c.hasGroupParam = false
	c.groupParam = ""
}

// RecordGroup remembers the row shape a GroupBy's key selector was lowered
// against, plus the key itself, for a following grouped select/having.
func (c *Context) RecordGroup(row *rowDescriptor, key ir.GroupByKey) {
	c.groupRow = row
	c.groupKey = key
	c.groupBound = true
}

// GroupKey returns the most recently recorded GroupBy key.
func (c *Context) GroupKey() (ir.GroupByKey, bool) { return c.groupKey, c.groupBound }

// GroupRow returns the row descriptor recorded by the most recent GroupBy.
func (c *Context) GroupRow() *rowDescriptor { return c.groupRow }

// BindGroupParam registers name as the active group-handle parameter in a
// post-GroupBy select/having lambda (`.key`, `.sum(...)`, `.count()`, ...).
func (c *Context) BindGroupParam(name string) {
	c.groupParam = name
	c.hasGroupParam = true
}

// IsGroupParam reports whether name is the active group-handle parameter.
func (c *Context) IsGroupParam(name string) bool {
	return c.hasGroupParam && c.groupParam == name
}

// BindCurrentRow rebinds the active row descriptor (set by the previous
// stage) under a new stage lambda's own row-parameter name.
func (c *Context) BindCurrentRow(name string) {
	if c.currentRow == nil {
		c.BindTableParam(name)
		return
	}
	if c.currentRow.isComposite {
		c.BindRowShape(name, c.currentRow.shape)
		return
	}
	c.BindTableParamAlias(name, c.currentRow.table)
}

// NewAutoParam lifts a literal value into the auto-param registry,
// assigning it the next `__p{N}` name (spec §3.4, §4.1.1).
func (c *Context) NewAutoParam(value any, info *ir.AutoParamInfo) *ir.Param {
	c.autoParamSeq++
	name := autoParamName(c.autoParamSeq)
	c.autoParams[name] = value
	c.autoParamOrder = append(c.autoParamOrder, name)
	if info != nil {
		info.Value = value
		c.autoParamInfos[name] = *info
	} else {
		c.autoParamInfos[name] = ir.AutoParamInfo{Value: value}
	}
	return ir.NewParam(name)
}

func autoParamName(seq int) string {
	return "__p" + itoa(seq)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// AutoParams returns the accumulated auto-param value map.
func (c *Context) AutoParams() map[string]any {
	out := make(map[string]any, len(c.autoParams))
	for k, v := range c.autoParams {
		out[k] = v
	}
	return out
}

// AutoParamInfos returns the accumulated auto-param field-info map.
func (c *Context) AutoParamInfos() map[string]ir.AutoParamInfo {
	out := make(map[string]ir.AutoParamInfo, len(c.autoParamInfos))
	for k, v := range c.autoParamInfos {
		out[k] = v
	}
	return out
}

// MergeFrozen folds another auto-param registry (values plus field-info)
// into this context, renumbering names so the merged entries never collide
// with this context's own counter. The parse cache holds only parsed ASTs,
// so a cache hit carries no registry of its own to merge.
func (c *Context) MergeFrozen(values map[string]any, infos map[string]ir.AutoParamInfo) map[string]string {
	rename := make(map[string]string, len(values))
	for _, oldName := range sortedKeys(values) {
		newParam := c.NewAutoParam(values[oldName], infoPtr(infos, oldName))
		rename[oldName] = newParam.Name()
	}
	return rename
}

func infoPtr(infos map[string]ir.AutoParamInfo, key string) *ir.AutoParamInfo {
	if v, ok := infos[key]; ok {
		return &v
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// numericLiteral decodes a number literal's text into a decimal.Decimal,
// falling back to the float64 value when the text doesn't parse as a
// decimal, so money-shaped literals keep exact precision through the
// parameter bag (SPEC_FULL §3).
func numericLiteral(n *ast.NumberLiteral) any {
	if d, err := decimal.NewFromString(n.Text); err == nil {
		return d
	}
	return n.Value
}
