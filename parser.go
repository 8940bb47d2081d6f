package miniscript

import "fmt"

// Parser turns a token stream into statements by recursive descent. The
// first syntax error aborts the parse.
type Parser struct {
	toks []Token
	cur  int
}

// NewParser creates a parser over tokens, which must end with EOF.
func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// Parse consumes the whole stream and returns the program.
func Parse(src string) ([]Stmt, error) {
	return NewParser(NewLexer(src).Scan()).Program()
}

// Program parses declarations until EOF.
func (p *Parser) Program() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(EOF) {
		s, err := p.declaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// ----- token helpers -----

func (p *Parser) peek() Token     { return p.toks[p.cur] }
func (p *Parser) previous() Token { return p.toks[p.cur-1] }

func (p *Parser) advance() Token {
	t := p.toks[p.cur]
	if t.Type != EOF {
		p.cur++
	}
	return t
}

func (p *Parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *Parser) match(tts ...TokenType) bool {
	for _, tt := range tts {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) need(tt TokenType, msg string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errorAtCurrent(msg)
}

func (p *Parser) errorAtCurrent(msg string) *ParseError {
	t := p.peek()
	if t.Type == ILLEGAL {
		if s, ok := t.Literal.(string); ok {
			msg = s
		}
	}
	return &ParseError{
		Line:       t.Line,
		Msg:        msg,
		Incomplete: t.Type == EOF,
	}
}

// ----- statements -----

func (p *Parser) declaration() (Stmt, error) {
	switch {
	case p.match(FUNCTION):
		return p.functionDecl()
	case p.match(VAR):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) functionDecl() (Stmt, error) {
	kw := p.previous()
	name, err := p.need(ID, "expected function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LPAREN, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []string
	if !p.check(RPAREN) {
		for {
			param, err := p.need(ID, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param.Lexeme)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	if _, err := p.need(LBRACE, "expected '{' before function body"); err != nil {
		return nil, err
	}
	body, err := p.blockBody()
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name.Lexeme, Params: params, Body: body, Line: kw.Line}, nil
}

func (p *Parser) varDecl() (Stmt, error) {
	kw := p.previous()
	name, err := p.need(ID, "expected variable name")
	if err != nil {
		return nil, err
	}
	var init Expr
	if p.match(ASSIGN) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMI, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name.Lexeme, Init: init, Line: kw.Line}, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(PRINT):
		return p.printStmt()
	case p.match(LBRACE):
		line := p.previous().Line
		body, err := p.blockBody()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Body: body, Line: line}, nil
	case p.match(IF):
		return p.ifStmt()
	case p.match(WHILE):
		return p.whileStmt()
	case p.match(FOR):
		return p.forStmt()
	case p.match(RETURN):
		return p.returnStmt()
	case p.match(ASSERT):
		return p.assertStmt()
	case p.match(IMPORT):
		return p.importStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) exprStmt() (Stmt, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMI, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: e, Line: e.Pos()}, nil
}

func (p *Parser) printStmt() (Stmt, error) {
	kw := p.previous()
	var args []Expr
	for {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(SEMI, "expected ';' after print"); err != nil {
		return nil, err
	}
	return &PrintStmt{Args: args, Line: kw.Line}, nil
}

// blockBody parses statements until the closing brace, which the caller's
// LBRACE already opened.
func (p *Parser) blockBody() ([]Stmt, error) {
	var body []Stmt
	for !p.check(RBRACE) && !p.check(EOF) {
		s, err := p.declaration()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
	if _, err := p.need(RBRACE, "expected '}' after block"); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) ifStmt() (Stmt, error) {
	kw := p.previous()
	if _, err := p.need(LPAREN, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RPAREN, "expected ')' after if condition"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var els Stmt
	if p.match(ELSE) {
		els, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Cond: cond, Then: then, Else: els, Line: kw.Line}, nil
}

func (p *Parser) whileStmt() (Stmt, error) {
	kw := p.previous()
	if _, err := p.need(LPAREN, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RPAREN, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body, Line: kw.Line}, nil
}

// forStmt desugars "for (init; cond; incr) body" into
// "{ init; while (cond) { body; incr; } }" so the evaluator only knows
// while. The outer block scopes the initializer; the inner block gives each
// iteration a fresh scope.
func (p *Parser) forStmt() (Stmt, error) {
	kw := p.previous()
	if _, err := p.need(LPAREN, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var init Stmt
	var err error
	switch {
	case p.match(SEMI):
		init = nil
	case p.match(VAR):
		init, err = p.varDecl()
	default:
		init, err = p.exprStmt()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr
	if !p.check(SEMI) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	} else {
		cond = &LiteralExpr{Value: Bool(true), Line: kw.Line}
	}
	if _, err := p.need(SEMI, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var incr Expr
	if !p.check(RPAREN) {
		incr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(RPAREN, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if incr != nil {
		body = &BlockStmt{
			Body: []Stmt{body, &ExprStmt{Expr: incr, Line: incr.Pos()}},
			Line: body.Pos(),
		}
	}
	var loop Stmt = &WhileStmt{Cond: cond, Body: body, Line: kw.Line}
	if init != nil {
		loop = &BlockStmt{Body: []Stmt{init, loop}, Line: kw.Line}
	}
	return loop, nil
}

func (p *Parser) returnStmt() (Stmt, error) {
	kw := p.previous()
	var val Expr
	var err error
	if !p.check(SEMI) {
		val, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMI, "expected ';' after return"); err != nil {
		return nil, err
	}
	return &ReturnStmt{Value: val, Line: kw.Line}, nil
}

func (p *Parser) assertStmt() (Stmt, error) {
	kw := p.previous()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	var msg Expr
	if p.match(COMMA) {
		msg, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(SEMI, "expected ';' after assert"); err != nil {
		return nil, err
	}
	return &AssertStmt{Cond: cond, Message: msg, Line: kw.Line}, nil
}

func (p *Parser) importStmt() (Stmt, error) {
	kw := p.previous()
	path, err := p.need(STRING, "expected module path string after 'import'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMI, "expected ';' after import"); err != nil {
		return nil, err
	}
	return &ImportStmt{Path: path.Literal.(string), Line: kw.Line}, nil
}

// ----- expressions, highest binding last -----

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

// assignment is right-associative; valid targets are a bare name or an
// index expression.
func (p *Parser) assignment() (Expr, error) {
	left, err := p.logicOr()
	if err != nil {
		return nil, err
	}
	if !p.match(ASSIGN) {
		return left, nil
	}
	eq := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	switch target := left.(type) {
	case *VariableExpr:
		return &AssignExpr{Name: target.Name, Value: value, Line: eq.Line}, nil
	case *IndexExpr:
		return &IndexAssignExpr{
			Target: target.Target,
			Index:  target.Index,
			Value:  value,
			Line:   eq.Line,
		}, nil
	default:
		return nil, &ParseError{Line: eq.Line, Msg: "invalid assignment target"}
	}
}

func (p *Parser) logicOr() (Expr, error) {
	left, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(OR_OR) {
		op := p.previous()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: op.Type, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) logicAnd() (Expr, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND_AND) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: op.Type, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) equality() (Expr, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(EQ, NEQ) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op.Type, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) comparison() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.match(LESS, LESS_EQ, GREATER, GREATER_EQ) {
		op := p.previous()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op.Type, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.match(PLUS, MINUS) {
		op := p.previous()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op.Type, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) multiplicative() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(STAR, SLASH) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op.Type, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) unary() (Expr, error) {
	if p.match(BANG, MINUS) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op.Type, Right: right, Line: op.Line}, nil
	}
	return p.postfix()
}

// postfix handles call and index chains: f(a)(b), l[0][1], f(a)[0].
func (p *Parser) postfix() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(LPAREN):
			open := p.previous()
			var args []Expr
			if !p.check(RPAREN) {
				for {
					a, err := p.expression()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
					if !p.match(COMMA) {
						break
					}
				}
			}
			if _, err := p.need(RPAREN, "expected ')' after arguments"); err != nil {
				return nil, err
			}
			e = &CallExpr{Callee: e, Args: args, Line: open.Line}
		case p.match(LBRACKET):
			open := p.previous()
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(RBRACKET, "expected ']' after index"); err != nil {
				return nil, err
			}
			e = &IndexExpr{Target: e, Index: idx, Line: open.Line}
		default:
			return e, nil
		}
	}
}

func (p *Parser) primary() (Expr, error) {
	t := p.peek()
	switch t.Type {
	case NUMBER:
		p.advance()
		return &LiteralExpr{Value: Num(t.Literal.(float64)), Line: t.Line}, nil
	case STRING, CHAR:
		p.advance()
		return &LiteralExpr{Value: Str(t.Literal.(string)), Line: t.Line}, nil
	case TRUE, FALSE:
		p.advance()
		return &LiteralExpr{Value: Bool(t.Literal.(bool)), Line: t.Line}, nil
	case NIL:
		p.advance()
		return &LiteralExpr{Value: NilVal(), Line: t.Line}, nil
	case ID:
		p.advance()
		return &VariableExpr{Name: t.Lexeme, Line: t.Line}, nil
	case LPAREN:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return &GroupingExpr{Inner: inner, Line: t.Line}, nil
	case LBRACKET:
		p.advance()
		var elems []Expr
		if !p.check(RBRACKET) {
			for {
				e, err := p.expression()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.need(RBRACKET, "expected ']' after list literal"); err != nil {
			return nil, err
		}
		return &ListExpr{Elems: elems, Line: t.Line}, nil
	default:
		return nil, p.errorAtCurrent("unexpected " + describeToken(t))
	}
}

func describeToken(t Token) string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("token %q", t.Lexeme)
}
