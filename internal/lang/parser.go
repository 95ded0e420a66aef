// Package lang implements the small R-flavored statement language evaluated
// by memo: a newline-aware lexer, a Pratt parser producing tagged AST nodes,
// and the runtime Value/Env types.
package lang

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// Operator precedence levels, loosely following R's operator table.
// Higher binds tighter.
const (
	precNone    = iota
	precOr      // ||
	precAnd     // &&
	precNot     // ! (prefix)
	precCompare // == != < <= > >=
	precAdd     // + -
	precMul     // * /
	precSpecial // %%
	precRange   // :
	precUnary   // unary -
	precPower   // ^ (right-assoc)
)

var binaryPrec = map[TokenType]int{
	OR2:        precOr,
	AND2:       precAnd,
	EQ:         precCompare,
	NEQ:        precCompare,
	LESS:       precCompare,
	LESS_EQ:    precCompare,
	GREATER:    precCompare,
	GREATER_EQ: precCompare,
	PLUS:       precAdd,
	MINUS:      precAdd,
	STAR:       precMul,
	SLASH:      precMul,
	PERCENT2:   precSpecial,
	COLON:      precRange,
	CARET:      precPower,
}

// Parser turns a token stream into statements.
type Parser struct {
	src    string
	tokens []Token
	pos    int
}

// Split parses source text into its ordered top-level statements. Statements
// are separated by newlines or semicolons. A parse failure is reported for
// the whole source; per-statement decomposition failures are not a parser
// concern (every returned Stmt carries a well-formed node).
func Split(src string) ([]Stmt, error) {
	lx := NewLexer(src)
	tokens, err := lx.Scan()
	if err != nil {
		return nil, err
	}

	p := &Parser{src: src, tokens: tokens}
	var stmts []Stmt
	for {
		p.skipSeparators()
		if p.peek().Type == EOF {
			return stmts, nil
		}
		start := p.peek()
		node, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		end := p.prev()
		text := strings.TrimSpace(p.src[start.Offset : end.Offset+len(end.Lexeme)])
		stmts = append(stmts, Stmt{Node: node, Text: text, Line: start.Line})

		if t := p.peek().Type; t != NEWLINE && t != SEMI && t != EOF {
			return nil, p.errorf("unexpected %q after statement", p.peek().Lexeme)
		}
	}
}

// SplitLenient parses like Split but recovers at statement boundaries: a
// malformed statement yields a Stmt with a nil Node and Err set, and parsing
// resumes after the next separator. Statement order and source text are
// preserved either way. An untokenizable source has no statement boundaries
// to recover at and comes back as a single failed Stmt.
func SplitLenient(src string) []Stmt {
	lx := NewLexer(src)
	tokens, err := lx.Scan()
	if err != nil {
		return []Stmt{{Text: strings.TrimSpace(src), Line: 1, Err: err}}
	}

	p := &Parser{src: src, tokens: tokens}
	var stmts []Stmt
	for {
		p.skipSeparators()
		if p.peek().Type == EOF {
			return stmts
		}
		start := p.peek()
		node, err := p.parseStatement()
		if err == nil {
			if t := p.peek().Type; t != NEWLINE && t != SEMI && t != EOF {
				err = p.errorf("unexpected %q after statement", p.peek().Lexeme)
			}
		}
		if err != nil {
			node = nil
			p.resync()
		}
		end := p.prev()
		text := strings.TrimSpace(p.src[start.Offset : end.Offset+len(end.Lexeme)])
		stmts = append(stmts, Stmt{Node: node, Text: text, Line: start.Line, Err: err})
	}
}

// resync advances to the next statement boundary.
func (p *Parser) resync() {
	for {
		switch p.peek().Type {
		case NEWLINE, SEMI, EOF:
			return
		}
		p.advance()
	}
}

// ParseExpr parses a single expression from source text. Used by callers
// that already hold one statement's text.
func ParseExpr(src string) (Node, error) {
	stmts, err := Split(src)
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		return nil, zerr.With(zerr.New("expected exactly one expression"), "count", len(stmts))
	}
	return stmts[0].Node, nil
}

func (p *Parser) skipSeparators() {
	for p.peek().Type == NEWLINE || p.peek().Type == SEMI {
		p.advance()
	}
}

func (p *Parser) peek() Token { return p.tokens[p.pos] }

func (p *Parser) prev() Token { return p.tokens[p.pos-1] }

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if t.Type != EOF {
		p.pos++
	}
	return t
}

func (p *Parser) match(tt TokenType) bool {
	if p.peek().Type != tt {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	if p.peek().Type != tt {
		return Token{}, p.errorf("expected %s, found %q", what, p.peek().Lexeme)
	}
	return p.advance(), nil
}

// parseStatement handles top-level assignment, which is only legal as a
// statement: `x <- expr` or `x = expr`.
func (p *Parser) parseStatement() (Node, error) {
	if p.peek().Type == IDENT {
		if op := p.tokens[p.pos+1].Type; op == LARROW || op == ASSIGN {
			name := p.advance()
			p.advance() // arrow
			x, err := p.parseExpr(precNone)
			if err != nil {
				return nil, err
			}
			return &Assign{Target: name.Lexeme, X: x, Pos: Pos{Line: name.Line, Col: name.Col}}, nil
		}
	}
	return p.parseExpr(precNone)
}

func (p *Parser) parseExpr(minPrec int) (Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		prec, ok := binaryPrec[op.Type]
		if !ok || prec <= minPrec {
			return left, nil
		}
		p.advance()

		// "^" is right-associative; everything else is left-associative.
		nextMin := prec
		if op.Type == CARET {
			nextMin = prec - 1
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op.Lexeme, L: left, R: right, Pos: Pos{Line: op.Line, Col: op.Col}}
	}
}

func (p *Parser) parsePrefix() (Node, error) {
	switch t := p.peek(); t.Type {
	case MINUS:
		p.advance()
		x, err := p.parseExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "-", X: x, Pos: Pos{Line: t.Line, Col: t.Col}}, nil
	case BANG:
		p.advance()
		x, err := p.parseExpr(precNot)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "!", X: x, Pos: Pos{Line: t.Line, Col: t.Col}}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (Node, error) {
	t := p.advance()
	switch t.Type {
	case INTEGER:
		return &IntLit{Value: t.Literal.(int64)}, nil
	case NUMBER:
		return &FloatLit{Value: t.Literal.(float64)}, nil
	case STRING:
		return &StrLit{Value: t.Literal.(string)}, nil
	case BOOLEAN:
		return &BoolLit{Value: t.Literal.(bool)}, nil
	case NULL:
		return &NullLit{}, nil
	case IDENT:
		if p.peek().Type == LPAREN {
			return p.parseCall(t)
		}
		return &Ident{Name: t.Lexeme}, nil
	case LPAREN:
		x, err := p.parseExpr(precNone)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, `")"`); err != nil {
			return nil, err
		}
		return x, nil
	case EOF:
		return nil, p.errorf("unexpected end of input")
	default:
		return nil, p.errorf("unexpected %q", t.Lexeme)
	}
}

func (p *Parser) parseCall(callee Token) (Node, error) {
	p.advance() // "("
	call := &Call{Callee: callee.Lexeme, Pos: Pos{Line: callee.Line, Col: callee.Col}}

	if p.match(RPAREN) {
		return call, nil
	}
	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.match(COMMA) {
			continue
		}
		if _, err := p.expect(RPAREN, `")" or ","`); err != nil {
			return nil, err
		}
		return call, nil
	}
}

func (p *Parser) parseArg() (Arg, error) {
	// Named argument: `name = expr`. A bare `=` after an identifier inside a
	// call is always a named argument, never assignment.
	if p.peek().Type == IDENT && p.tokens[p.pos+1].Type == ASSIGN {
		name := p.advance()
		p.advance() // "="
		x, err := p.parseExpr(precNone)
		if err != nil {
			return Arg{}, err
		}
		return Arg{Name: name.Lexeme, X: x}, nil
	}
	x, err := p.parseExpr(precNone)
	if err != nil {
		return Arg{}, err
	}
	return Arg{X: x}, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	t := p.peek()
	err := zerr.New("parse error: " + fmt.Sprintf(format, args...))
	return zerr.With(zerr.With(err, "line", t.Line), "col", t.Col)
}
