package lang

import (
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Lexer scans source text into a token stream. Newlines are significant:
// they terminate statements unless the scanner is inside an open paren group.
type Lexer struct {
	src   string
	pos   int // byte offset of the next rune
	start int // byte offset of the current token
	line  int
	col   int // column of the next rune, 1-based

	parenDepth int
	tokens     []Token
}

// NewLexer creates a Lexer over the given source text.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Scan tokenizes the whole source. It returns the token list terminated by
// EOF, or an error for an input the scanner cannot tokenize.
func (l *Lexer) Scan() ([]Token, error) {
	for !l.atEnd() {
		l.start = l.pos
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.emit(EOF, nil)
	return l.tokens, nil
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	l.col++
	return c
}

func (l *Lexer) match(c byte) bool {
	if l.peek() != c {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) emit(tt TokenType, literal any) {
	lexeme := l.src[l.start:l.pos]
	col := l.col - len(lexeme)
	if tt == EOF {
		lexeme = ""
		col = l.col
	}
	l.tokens = append(l.tokens, Token{Type: tt, Lexeme: lexeme, Literal: literal, Offset: l.start, Line: l.line, Col: col})
}

func (l *Lexer) scanToken() error {
	c := l.advance()
	switch c {
	case ' ', '\t', '\r':
		return nil
	case '\n':
		l.line++
		l.col = 1
		// Newlines inside a paren group are continuation whitespace.
		if l.parenDepth == 0 {
			l.emitNewline()
		}
		return nil
	case '#':
		for !l.atEnd() && l.peek() != '\n' {
			l.advance()
		}
		return nil
	case '(':
		l.parenDepth++
		l.emit(LPAREN, nil)
	case ')':
		if l.parenDepth > 0 {
			l.parenDepth--
		}
		l.emit(RPAREN, nil)
	case ',':
		l.emit(COMMA, nil)
	case ':':
		l.emit(COLON, nil)
	case ';':
		l.emit(SEMI, nil)
	case '+':
		l.emit(PLUS, nil)
	case '-':
		l.emit(MINUS, nil)
	case '*':
		l.emit(STAR, nil)
	case '/':
		l.emit(SLASH, nil)
	case '^':
		l.emit(CARET, nil)
	case '%':
		if !l.match('%') {
			return l.errorf("unexpected character %q", string(c))
		}
		l.emit(PERCENT2, nil)
	case '=':
		if l.match('=') {
			l.emit(EQ, nil)
		} else {
			l.emit(ASSIGN, nil)
		}
	case '!':
		if l.match('=') {
			l.emit(NEQ, nil)
		} else {
			l.emit(BANG, nil)
		}
	case '<':
		switch {
		case l.match('-'):
			l.emit(LARROW, nil)
		case l.match('='):
			l.emit(LESS_EQ, nil)
		default:
			l.emit(LESS, nil)
		}
	case '>':
		if l.match('=') {
			l.emit(GREATER_EQ, nil)
		} else {
			l.emit(GREATER, nil)
		}
	case '&':
		if !l.match('&') {
			return l.errorf("unexpected character %q", string(c))
		}
		l.emit(AND2, nil)
	case '|':
		if !l.match('|') {
			return l.errorf("unexpected character %q", string(c))
		}
		l.emit(OR2, nil)
	case '"', '\'':
		return l.scanString(c)
	default:
		switch {
		case isDigit(c):
			return l.scanNumber()
		case isAlpha(c):
			l.scanIdent()
		default:
			return l.errorf("unexpected character %q", string(c))
		}
	}
	return nil
}

// emitNewline collapses runs of statement terminators into one token.
func (l *Lexer) emitNewline() {
	if n := len(l.tokens); n > 0 && l.tokens[n-1].Type == NEWLINE {
		return
	}
	if len(l.tokens) == 0 {
		return
	}
	l.tokens = append(l.tokens, Token{Type: NEWLINE, Lexeme: "\n", Offset: l.pos - 1, Line: l.line - 1, Col: l.col})
}

func (l *Lexer) scanString(quote byte) error {
	var sb strings.Builder
	for !l.atEnd() && l.peek() != quote {
		c := l.advance()
		if c == '\n' {
			return l.errorf("unterminated string")
		}
		if c == '\\' && !l.atEnd() {
			switch e := l.advance(); e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '"', '\'':
				sb.WriteByte(e)
			default:
				return l.errorf("invalid escape \\%s", string(e))
			}
			continue
		}
		sb.WriteByte(c)
	}
	if l.atEnd() {
		return l.errorf("unterminated string")
	}
	l.advance() // closing quote
	l.emit(STRING, sb.String())
	return nil
}

func (l *Lexer) scanNumber() error {
	for isDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekNext()) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		save := l.pos
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if !isDigit(l.peek()) {
			l.pos = save
		} else {
			isFloat = true
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	text := l.src[l.start:l.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.errorf("invalid number %q", text)
		}
		l.emit(NUMBER, f)
		return nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Integer overflow degrades to a double, as R does.
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return l.errorf("invalid number %q", text)
		}
		l.emit(NUMBER, f)
		return nil
	}
	l.emit(INTEGER, n)
	return nil
}

func (l *Lexer) scanIdent() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	text := l.src[l.start:l.pos]
	if tt, ok := keywords[text]; ok {
		switch tt {
		case BOOLEAN:
			l.emit(BOOLEAN, text == "TRUE")
		case NULL:
			l.emit(NULL, nil)
		default:
			l.emit(tt, nil)
		}
		return
	}
	l.emit(IDENT, nil)
}

func (l *Lexer) errorf(format string, args ...any) error {
	err := zerr.New("lex error: " + fmt.Sprintf(format, args...))
	return zerr.With(zerr.With(err, "line", l.line), "col", l.col-1)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
