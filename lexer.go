package miniscript

import (
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	COMMA    // ","
	SEMI     // ";"

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
	BANG    // "!"
	AND_AND // "&&"
	OR_OR   // "||"

	// Literals & identifiers
	ID
	STRING
	CHAR
	NUMBER

	// Keywords
	VAR
	IF
	ELSE
	WHILE
	FOR
	FUNCTION
	RETURN
	TRUE
	FALSE
	NIL
	PRINT
	IMPORT
	ASSERT
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int
}

// keywords map
var keywords = map[string]TokenType{
	"var":      VAR,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"function": FUNCTION,
	"return":   RETURN,
	"true":     TRUE,
	"false":    FALSE,
	"nil":      NIL,
	"print":    PRINT,
	"import":   IMPORT,
	"assert":   ASSERT,
}

// Lexer scans a Mini Script source string into tokens. Scanning is total:
// malformed input produces ILLEGAL tokens instead of errors, and the stream
// always terminates with EOF.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	tokens []Token

	tokStartLine int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	lex := l.src[l.start:l.cur]
	tok := Token{
		Type:    tt,
		Lexeme:  lex,
		Literal: lit,
		Line:    l.tokStartLine,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		case '/':
			// "//" comment runs to end of line
			if b, ok := l.peekN(1); ok && b == '/' {
				l.ignoreUntilNewline()
				l.start = l.cur
			} else {
				return
			}
		default:
			return
		}
	}
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

// ----- scanners -----

// scanString parses a double-quoted string literal. An unterminated string
// yields a single ILLEGAL token covering the rest of the source.
func (l *Lexer) scanString() Token {
	var out []byte
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '"' {
			return l.addToken(STRING, string(out))
		}
		if ch == '\\' {
			esc, ok := l.advance()
			if !ok {
				break
			}
			switch esc {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case '0':
				out = append(out, 0)
			default:
				// unknown escapes keep the escaped character
				out = append(out, esc)
			}
			continue
		}
		out = append(out, ch)
	}
	return l.addToken(ILLEGAL, "unterminated string")
}

// scanChar parses a single-quoted character literal; it evaluates to a
// one-character string.
func (l *Lexer) scanChar() Token {
	ch, ok := l.advance()
	if !ok {
		return l.addToken(ILLEGAL, "unterminated character literal")
	}
	if ch == '\\' {
		esc, ok := l.advance()
		if !ok {
			return l.addToken(ILLEGAL, "unterminated character literal")
		}
		switch esc {
		case 'n':
			ch = '\n'
		case 'r':
			ch = '\r'
		case 't':
			ch = '\t'
		case '\'':
			ch = '\''
		case '\\':
			ch = '\\'
		case '0':
			ch = 0
		default:
			ch = esc
		}
	}
	if b, ok := l.peek(); !ok || b != '\'' {
		return l.addToken(ILLEGAL, "unterminated character literal")
	}
	l.advance() // closing quote
	return l.addToken(CHAR, string(ch))
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// scanNumber parses digits with an optional fractional part. Every number is
// a float64 at runtime.
func (l *Lexer) scanNumber() Token {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance() // consume '.'
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}
	lex := l.src[l.start:l.cur]
	v, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return l.addToken(ILLEGAL, "malformed number")
	}
	return l.addToken(NUMBER, v)
}

// ignoreUntilNewline eats until '\n' or EOF.
func (l *Lexer) ignoreUntilNewline() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// ----- main scanner -----

func (l *Lexer) scanToken() Token {
	l.skipWhitespace()
	l.tokStartLine = l.line
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF, nil)
	}

	ch, _ := l.advance()

	switch ch {
	case '(':
		return l.addToken(LPAREN, nil)
	case ')':
		return l.addToken(RPAREN, nil)
	case '[':
		return l.addToken(LBRACKET, nil)
	case ']':
		return l.addToken(RBRACKET, nil)
	case '{':
		return l.addToken(LBRACE, nil)
	case '}':
		return l.addToken(RBRACE, nil)
	case ',':
		return l.addToken(COMMA, nil)
	case ';':
		return l.addToken(SEMI, nil)
	case '+':
		return l.addToken(PLUS, nil)
	case '-':
		return l.addToken(MINUS, nil)
	case '*':
		return l.addToken(STAR, nil)
	case '/':
		return l.addToken(SLASH, nil)
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(EQ, nil)
		}
		return l.addToken(ASSIGN, nil)
	case '!':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(NEQ, nil)
		}
		return l.addToken(BANG, nil)
	case '<':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(LESS_EQ, nil)
		}
		return l.addToken(LESS, nil)
	case '>':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(GREATER_EQ, nil)
		}
		return l.addToken(GREATER, nil)
	case '&':
		if b, ok := l.peek(); ok && b == '&' {
			l.advance()
			return l.addToken(AND_AND, nil)
		}
		return l.addToken(ILLEGAL, "unexpected character: '&'")
	case '|':
		if b, ok := l.peek(); ok && b == '|' {
			l.advance()
			return l.addToken(OR_OR, nil)
		}
		return l.addToken(ILLEGAL, "unexpected character: '|'")
	case '"':
		return l.scanString()
	case '\'':
		return l.scanChar()
	}

	if isDigit(ch) {
		l.cur = l.start
		return l.scanNumber()
	}

	if isAlpha(ch) {
		l.cur = l.start
		lex := l.scanIdentifier()
		if tt, ok := keywords[lex]; ok {
			switch tt {
			case TRUE:
				return l.addToken(TRUE, true)
			case FALSE:
				return l.addToken(FALSE, false)
			case NIL:
				return l.addToken(NIL, nil)
			default:
				return l.addToken(tt, nil)
			}
		}
		return l.addToken(ID, lex)
	}

	return l.addToken(ILLEGAL, "unexpected character: "+strconv.QuoteRune(rune(ch)))
}

// Scan tokenizes the entire source and returns the tokens (EOF included).
// It never fails; the parser reports the first ILLEGAL token it meets.
func (l *Lexer) Scan() []Token {
	for {
		tok := l.scanToken()
		if tok.Type == EOF {
			return l.tokens
		}
	}
}
