package miniscript

// The syntax tree is plain data: one struct per expression and statement
// kind, discriminated through the Expr/Stmt marker interfaces. The parser
// owns construction; the interpreter walks it read-only.

// Expr is implemented by all expression nodes.
type Expr interface {
	exprNode()
	Pos() int // source line
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	stmtNode()
	Pos() int
}

// ----- expressions -----

// LiteralExpr is a number, string, boolean or nil constant.
type LiteralExpr struct {
	Value Value
	Line  int
}

// VariableExpr reads a name from the environment.
type VariableExpr struct {
	Name string
	Line int
}

// AssignExpr writes a name; an unknown name is declared in the innermost
// scope.
type AssignExpr struct {
	Name  string
	Value Expr
	Line  int
}

// BinaryExpr covers arithmetic, comparison and equality operators.
type BinaryExpr struct {
	Left  Expr
	Op    TokenType
	Right Expr
	Line  int
}

// UnaryExpr is "-" or "!".
type UnaryExpr struct {
	Op    TokenType
	Right Expr
	Line  int
}

// LogicalExpr is "&&" or "||" with short-circuit evaluation.
type LogicalExpr struct {
	Left  Expr
	Op    TokenType
	Right Expr
	Line  int
}

// CallExpr invokes a user function or builtin.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Line   int
}

// IndexExpr reads an element of a list.
type IndexExpr struct {
	Target Expr
	Index  Expr
	Line   int
}

// IndexAssignExpr writes an element of a list in place.
type IndexAssignExpr struct {
	Target Expr
	Index  Expr
	Value  Expr
	Line   int
}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Inner Expr
	Line  int
}

// ListExpr is a list literal.
type ListExpr struct {
	Elems []Expr
	Line  int
}

func (*LiteralExpr) exprNode()     {}
func (*VariableExpr) exprNode()    {}
func (*AssignExpr) exprNode()      {}
func (*BinaryExpr) exprNode()      {}
func (*UnaryExpr) exprNode()       {}
func (*LogicalExpr) exprNode()     {}
func (*CallExpr) exprNode()        {}
func (*IndexExpr) exprNode()       {}
func (*IndexAssignExpr) exprNode() {}
func (*GroupingExpr) exprNode()    {}
func (*ListExpr) exprNode()        {}

func (e *LiteralExpr) Pos() int     { return e.Line }
func (e *VariableExpr) Pos() int    { return e.Line }
func (e *AssignExpr) Pos() int      { return e.Line }
func (e *BinaryExpr) Pos() int      { return e.Line }
func (e *UnaryExpr) Pos() int       { return e.Line }
func (e *LogicalExpr) Pos() int     { return e.Line }
func (e *CallExpr) Pos() int        { return e.Line }
func (e *IndexExpr) Pos() int       { return e.Line }
func (e *IndexAssignExpr) Pos() int { return e.Line }
func (e *GroupingExpr) Pos() int    { return e.Line }
func (e *ListExpr) Pos() int        { return e.Line }

// ----- statements -----

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	Expr Expr
	Line int
}

// PrintStmt writes the stringified operands, space-joined, with a newline.
type PrintStmt struct {
	Args []Expr
	Line int
}

// VarStmt declares a name in the current scope.
type VarStmt struct {
	Name string
	Init Expr // nil means initialize to nil
	Line int
}

// BlockStmt executes its body in a fresh child scope.
type BlockStmt struct {
	Body []Stmt
	Line int
}

// IfStmt branches on truthiness.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
	Line int
}

// WhileStmt loops while the condition is truthy. "for" loops desugar to
// this at parse time.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	Line int
}

// FunctionStmt declares a named function that captures the declaration
// environment.
type FunctionStmt struct {
	Name   string
	Params []string
	Body   []Stmt
	Line   int
}

// ReturnStmt unwinds the current call with a value (nil when omitted).
type ReturnStmt struct {
	Value Expr // may be nil
	Line  int
}

// AssertStmt aborts the run when the condition is falsy. Message is optional
// and must evaluate to a string.
type AssertStmt struct {
	Cond    Expr
	Message Expr // may be nil
	Line    int
}

// ImportStmt runs another source file in the importing environment.
type ImportStmt struct {
	Path string
	Line int
}

func (*ExprStmt) stmtNode()     {}
func (*PrintStmt) stmtNode()    {}
func (*VarStmt) stmtNode()      {}
func (*BlockStmt) stmtNode()    {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*FunctionStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
func (*AssertStmt) stmtNode()   {}
func (*ImportStmt) stmtNode()   {}

func (s *ExprStmt) Pos() int     { return s.Line }
func (s *PrintStmt) Pos() int    { return s.Line }
func (s *VarStmt) Pos() int      { return s.Line }
func (s *BlockStmt) Pos() int    { return s.Line }
func (s *IfStmt) Pos() int       { return s.Line }
func (s *WhileStmt) Pos() int    { return s.Line }
func (s *FunctionStmt) Pos() int { return s.Line }
func (s *ReturnStmt) Pos() int   { return s.Line }
func (s *AssertStmt) Pos() int   { return s.Line }
func (s *ImportStmt) Pos() int   { return s.Line }
