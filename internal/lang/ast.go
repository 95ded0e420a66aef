package lang

// Node is one expression tree node. The concrete types below form a closed
// set of variants; consumers switch on the concrete type.
type Node interface {
	node()
}

// Ident is a bare identifier reference.
type Ident struct {
	Name string
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	Value float64
}

// StrLit is a string literal (decoded).
type StrLit struct {
	Value string
}

// BoolLit is TRUE or FALSE.
type BoolLit struct {
	Value bool
}

// NullLit is the NULL literal.
type NullLit struct{}

// Unary is a prefix operator application ("-" or "!").
type Unary struct {
	Op  string
	X   Node
	Pos Pos
}

// Binary is an infix operator application, including the ":" range operator.
type Binary struct {
	Op   string
	L, R Node
	Pos  Pos
}

// Assign binds the value of X to Target in the evaluation environment.
// Both "<-" and "=" at statement level parse to Assign.
type Assign struct {
	Target string
	X      Node
	Pos    Pos
}

// Arg is one call argument, optionally named.
type Arg struct {
	Name string // empty for positional arguments
	X    Node
}

// Call is a function application. The callee is an identifier; the language
// has no first-class function expressions.
type Call struct {
	Callee string
	Args   []Arg
	Pos    Pos
}

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

func (*Ident) node()    {}
func (*IntLit) node()   {}
func (*FloatLit) node() {}
func (*StrLit) node()   {}
func (*BoolLit) node()  {}
func (*NullLit) node()  {}
func (*Unary) node()    {}
func (*Binary) node()   {}
func (*Assign) node()   {}
func (*Call) node()     {}

// Stmt is one top-level statement: the parsed node plus the exact source
// text it was parsed from. Statements are the unit of evaluation and caching.
// A Stmt produced by SplitLenient may carry a nil Node with Err holding the
// parse failure.
type Stmt struct {
	Node Node
	Text string
	Line int
	Err  error
}
