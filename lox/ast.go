package lox

type Node interface {
	Pos() Position
}

// Expression is implemented only by the node types in this file: Literal,
// Unary, Binary and Grouping. New grammar productions add new cases here.
type Expression interface {
	Node
	exprNode()
}

// Literal holds a float64, string, bool, or nil Value.
type Literal struct {
	Value    any
	position Position
}

func (e *Literal) exprNode()     {}
func (e *Literal) Pos() Position { return e.position }

type Unary struct {
	Operator Token
	Right    Expression
}

func (e *Unary) exprNode()     {}
func (e *Unary) Pos() Position { return e.Operator.Pos }

type Binary struct {
	Left     Expression
	Operator Token
	Right    Expression
}

func (e *Binary) exprNode()     {}
func (e *Binary) Pos() Position { return e.Operator.Pos }

type Grouping struct {
	Expression Expression
	position   Position
}

func (e *Grouping) exprNode()     {}
func (e *Grouping) Pos() Position { return e.position }

// NewLiteral builds a Literal at pos. Callers outside the parser use it to
// construct trees by hand, mostly in tests and tooling.
func NewLiteral(value any, pos Position) *Literal {
	return &Literal{Value: value, position: pos}
}

// NewGrouping builds a Grouping whose opening parenthesis sits at pos.
func NewGrouping(inner Expression, pos Position) *Grouping {
	return &Grouping{Expression: inner, position: pos}
}
