package ir

// Operation is one node of the query operation tree (spec §3.2). Each
// operation (other than From and the mutation roots) holds a Source
// pointing at its predecessor; Join additionally owns a sibling source
// tree for its inner table.
type Operation interface {
	operation()
}

// From is the root of a SELECT-shaped operation tree.
type From struct {
	table string
	alias string
}

func NewFrom(table, alias string) *From { return &From{table: table, alias: alias} }
func (f *From) Table() string           { return f.table }
func (f *From) Alias() string           { return f.alias }
func (*From) operation()                {}

// Where filters its source by a boolean predicate.
type Where struct {
	source    Operation
	predicate BooleanExpression
}

func NewWhere(source Operation, predicate BooleanExpression) *Where {
	return &Where{source: source, predicate: predicate}
}
func (w *Where) Source() Operation            { return w.source }
func (w *Where) Predicate() BooleanExpression { return w.predicate }
func (*Where) operation()                     {}

// Select projects its source through an Object or the AllColumns marker.
type Select struct {
	source     Operation
	projection Expression
}

func NewSelect(source Operation, projection Expression) *Select {
	return &Select{source: source, projection: projection}
}
func (s *Select) Source() Operation      { return s.source }
func (s *Select) Projection() Expression { return s.projection }
func (*Select) operation()               {}

// JoinType enumerates INNER/LEFT joins this module renders (spec §4.3.1:
// INNER by default, LEFT via selectMany+defaultIfEmpty).
type JoinType string

const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
)

// Join combines an outer source with an inner source sub-tree on two
// column keys, producing a virtual record described by ResultShape (spec
// §3.3, §4.1.5).
type Join struct {
	joinType       JoinType
	source         Operation
	inner          Operation
	innerAlias     string
	outerKey       string
	outerKeySource int
	innerKey       string
	resultShape    ShapeNode
	tableCount     int
}

// NewJoin builds a Join operation. tableCount is the number of table slots
// participating in ResultShape after this join (used by chained joins to
// assign the next inner table its index, spec §3.3).
func NewJoin(joinType JoinType, source, inner Operation, innerAlias, outerKey string, outerKeySource int, innerKey string, resultShape ShapeNode, tableCount int) *Join {
	return &Join{
		joinType:       joinType,
		source:         source,
		inner:          inner,
		innerAlias:     innerAlias,
		outerKey:       outerKey,
		outerKeySource: outerKeySource,
		innerKey:       innerKey,
		resultShape:    resultShape,
		tableCount:     tableCount,
	}
}

func (j *Join) Type() JoinType           { return j.joinType }
func (j *Join) Source() Operation        { return j.source }
func (j *Join) Inner() Operation         { return j.inner }
func (j *Join) InnerAlias() string       { return j.innerAlias }
func (j *Join) OuterKey() string         { return j.outerKey }
func (j *Join) OuterKeySource() int      { return j.outerKeySource }
func (j *Join) InnerKey() string         { return j.innerKey }
func (j *Join) ResultShape() ShapeNode   { return j.resultShape }
func (j *Join) TableCount() int          { return j.tableCount }
func (*Join) operation()                {}

// SelectMany flattens a per-row collection, optionally as a LEFT JOIN when
// the collection selector is wrapped in defaultIfEmpty() (spec §4.1.5.1).
type SelectMany struct {
	source          Operation
	collection      Operation
	collectionAlias string
	isLeftJoin      bool
	resultShape     ShapeNode
	tableCount      int
}

func NewSelectMany(source, collection Operation, collectionAlias string, isLeftJoin bool, resultShape ShapeNode, tableCount int) *SelectMany {
	return &SelectMany{
		source:          source,
		collection:      collection,
		collectionAlias: collectionAlias,
		isLeftJoin:      isLeftJoin,
		resultShape:     resultShape,
		tableCount:      tableCount,
	}
}

func (s *SelectMany) Source() Operation          { return s.source }
func (s *SelectMany) Collection() Operation      { return s.collection }
func (s *SelectMany) CollectionAlias() string    { return s.collectionAlias }
func (s *SelectMany) IsLeftJoin() bool           { return s.isLeftJoin }
func (s *SelectMany) ResultShape() ShapeNode     { return s.resultShape }
func (s *SelectMany) TableCount() int            { return s.tableCount }
func (*SelectMany) operation()                   {}

// GroupByKey is either a simple column name or a computed value
// expression (spec §4.1.6).
type GroupByKey struct {
	ColumnName string
	HasColumn  bool
	Expr       ValueExpression
}

// GroupBy groups its source by Key.
type GroupBy struct {
	source Operation
	key    GroupByKey
}

func NewGroupBy(source Operation, key GroupByKey) *GroupBy { return &GroupBy{source: source, key: key} }
func (g *GroupBy) Source() Operation                       { return g.source }
func (g *GroupBy) Key() GroupByKey                         { return g.key }
func (*GroupBy) operation()                                {}

// OrderBy is the first ORDER BY term; additional terms attach as ThenBy
// (spec §4.1.2, §8.1 invariant 6: stable relative ordering regardless of
// intervening Where calls).
type OrderBy struct {
	source     Operation
	key        ValueExpression
	descending bool
}

func NewOrderBy(source Operation, key ValueExpression, descending bool) *OrderBy {
	return &OrderBy{source: source, key: key, descending: descending}
}
func (o *OrderBy) Source() Operation     { return o.source }
func (o *OrderBy) Key() ValueExpression  { return o.key }
func (o *OrderBy) Descending() bool      { return o.descending }
func (*OrderBy) operation()              {}

// ThenBy attaches a secondary ORDER BY term on top of an existing OrderBy
// or ThenBy.
type ThenBy struct {
	source     Operation
	key        ValueExpression
	descending bool
}

func NewThenBy(source Operation, key ValueExpression, descending bool) *ThenBy {
	return &ThenBy{source: source, key: key, descending: descending}
}
func (t *ThenBy) Source() Operation     { return t.source }
func (t *ThenBy) Key() ValueExpression  { return t.key }
func (t *ThenBy) Descending() bool      { return t.descending }
func (*ThenBy) operation()              {}

// Take is LIMIT.
type Take struct {
	source Operation
	count  ValueExpression
}

func NewTake(source Operation, count ValueExpression) *Take { return &Take{source: source, count: count} }
func (t *Take) Source() Operation                            { return t.source }
func (t *Take) Count() ValueExpression                        { return t.count }
func (*Take) operation()                                      {}

// Skip is OFFSET.
type Skip struct {
	source Operation
	count  ValueExpression
}

func NewSkip(source Operation, count ValueExpression) *Skip { return &Skip{source: source, count: count} }
func (s *Skip) Source() Operation                            { return s.source }
func (s *Skip) Count() ValueExpression                        { return s.count }
func (*Skip) operation()                                      {}

// TakeWhile / SkipWhile bound a result set by predicate rather than count.
// No native SQL equivalent exists: the dialect renderer (dialect/render.go)
// rejects every TakeWhile/SkipWhile with an UnsupportedDialect error.
type TakeWhile struct {
	source    Operation
	predicate BooleanExpression
}

func NewTakeWhile(source Operation, predicate BooleanExpression) *TakeWhile {
	return &TakeWhile{source: source, predicate: predicate}
}
func (t *TakeWhile) Source() Operation            { return t.source }
func (t *TakeWhile) Predicate() BooleanExpression { return t.predicate }
func (*TakeWhile) operation()                     {}

type SkipWhile struct {
	source    Operation
	predicate BooleanExpression
}

func NewSkipWhile(source Operation, predicate BooleanExpression) *SkipWhile {
	return &SkipWhile{source: source, predicate: predicate}
}
func (s *SkipWhile) Source() Operation            { return s.source }
func (s *SkipWhile) Predicate() BooleanExpression { return s.predicate }
func (*SkipWhile) operation()                     {}

// Distinct flips SELECT DISTINCT.
type Distinct struct {
	source Operation
}

func NewDistinct(source Operation) *Distinct { return &Distinct{source: source} }
func (d *Distinct) Source() Operation        { return d.source }
func (*Distinct) operation()                 {}

// Insert is an INSERT INTO statement.
type Insert struct {
	table       string
	assignments *Object
	returning   Expression
}

func NewInsert(table string, assignments *Object, returning Expression) *Insert {
	return &Insert{table: table, assignments: assignments, returning: returning}
}
func (i *Insert) Table() string          { return i.table }
func (i *Insert) Assignments() *Object   { return i.assignments }
func (i *Insert) Returning() Expression  { return i.returning }
func (*Insert) operation()               {}

// Update is an UPDATE statement. AllowFullTableUpdate waives the
// mandatory-WHERE safety check (spec §4.3.4, §6.4).
type Update struct {
	table                string
	schema               string
	assignments          *Object
	predicate            BooleanExpression
	allowFullTableUpdate bool
	returning            Expression
}

func NewUpdate(table, schema string, assignments *Object, predicate BooleanExpression, allowFullTableUpdate bool, returning Expression) *Update {
	return &Update{
		table:                table,
		schema:               schema,
		assignments:          assignments,
		predicate:            predicate,
		allowFullTableUpdate: allowFullTableUpdate,
		returning:            returning,
	}
}
func (u *Update) Table() string                { return u.table }
func (u *Update) Schema() string                { return u.schema }
func (u *Update) Assignments() *Object          { return u.assignments }
func (u *Update) Predicate() BooleanExpression  { return u.predicate }
func (u *Update) AllowFullTableUpdate() bool    { return u.allowFullTableUpdate }
func (u *Update) Returning() Expression         { return u.returning }
func (*Update) operation()                      {}

// Delete is a DELETE statement. AllowFullTableDelete waives the
// mandatory-WHERE safety check.
type Delete struct {
	table                string
	predicate            BooleanExpression
	allowFullTableDelete bool
}

func NewDelete(table string, predicate BooleanExpression, allowFullTableDelete bool) *Delete {
	return &Delete{table: table, predicate: predicate, allowFullTableDelete: allowFullTableDelete}
}
func (d *Delete) Table() string               { return d.table }
func (d *Delete) Predicate() BooleanExpression { return d.predicate }
func (d *Delete) AllowFullTableDelete() bool   { return d.allowFullTableDelete }
func (*Delete) operation()                     {}

// AggregateTerminalKind enumerates the aggregate/quantifier terminals.
type AggregateTerminalKind string

const (
	TerminalCount    AggregateTerminalKind = "count"
	TerminalSum      AggregateTerminalKind = "sum"
	TerminalAvg      AggregateTerminalKind = "avg"
	TerminalMin      AggregateTerminalKind = "min"
	TerminalMax      AggregateTerminalKind = "max"
	TerminalAny      AggregateTerminalKind = "any"
	TerminalAll      AggregateTerminalKind = "all"
	TerminalFirst    AggregateTerminalKind = "first"
	TerminalLast     AggregateTerminalKind = "last"
	TerminalSingle   AggregateTerminalKind = "single"
	TerminalContains AggregateTerminalKind = "contains"
)

// AggregateTerminal is a terminal query operation that reduces its source
// to a scalar or a truth value instead of a row set (spec §3.2).
type AggregateTerminal struct {
	source     Operation
	kind       AggregateTerminalKind
	expression ValueExpression   // sum/avg/min/max selector
	predicate  BooleanExpression // any/all predicate
	value      ValueExpression   // contains value
}

func NewAggregateTerminal(source Operation, kind AggregateTerminalKind, expression ValueExpression, predicate BooleanExpression, value ValueExpression) *AggregateTerminal {
	return &AggregateTerminal{source: source, kind: kind, expression: expression, predicate: predicate, value: value}
}
func (a *AggregateTerminal) Source() Operation            { return a.source }
func (a *AggregateTerminal) Kind() AggregateTerminalKind  { return a.kind }
func (a *AggregateTerminal) Expression() ValueExpression  { return a.expression }
func (a *AggregateTerminal) Predicate() BooleanExpression { return a.predicate }
func (a *AggregateTerminal) Value() ValueExpression       { return a.value }
func (*AggregateTerminal) operation()                     {}
