package syntax

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/traitir/internal/ir"
)

// TokenType is the kind of a token.
type TokenType int

const (
	EOF TokenType = iota

	IDENT       // Vec, u32, forall, _
	INT         // 42
	ITEM        // #3
	BOUND       // ^0.1
	INFER       // ?3, ?3i, ?3f
	PLACEHOLDER // !1_0
	LIFETIME    // 'a, 'static, '_
	QUOTE       // ' before ?, ! or ^

	LANGLE    // <
	RANGLE    // >
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LSQUARE   // [
	RSQUARE   // ]
	COMMA     // ,
	SEMI      // ;
	COLON     // :
	AMP       // &
	STAR      // *
	EQUALS    // =
	PLUS      // +
	BANG      // !
	ARROW     // ->
	IMPLIEDBY // :-
	TURNSTILE // |-
	ELLIPSIS  // ...
)

var tokenNames = map[TokenType]string{
	EOF:         "end of input",
	IDENT:       "identifier",
	INT:         "integer",
	ITEM:        "item id",
	BOUND:       "bound variable",
	INFER:       "inference variable",
	PLACEHOLDER: "placeholder",
	LIFETIME:    "lifetime",
	QUOTE:       "'",
	LANGLE:      "<",
	RANGLE:      ">",
	LPAREN:      "(",
	RPAREN:      ")",
	LBRACE:      "{",
	RBRACE:      "}",
	LSQUARE:     "[",
	RSQUARE:     "]",
	COMMA:       ",",
	SEMI:        ";",
	COLON:       ":",
	AMP:         "&",
	STAR:        "*",
	EQUALS:      "=",
	PLUS:        "+",
	BANG:        "!",
	ARROW:       "->",
	IMPLIEDBY:   ":-",
	TURNSTILE:   "|-",
	ELLIPSIS:    "...",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexical token. Literal holds the decoded value:
//
//	IDENT, LIFETIME  string (NFC-normalized, without the quote)
//	INT, ITEM        uint64
//	BOUND            ir.BoundVar
//	INFER            InferLiteral
//	PLACEHOLDER      ir.PlaceholderIndex
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
	Col     int
}

// InferLiteral is a decoded inference variable token.
type InferLiteral struct {
	Var  ir.InferenceVar
	Kind ir.TyVariableKind
}

// LexError reports malformed input at a 1-based line and column.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans fixture notation into tokens.
type Lexer struct {
	src   string
	start int
	cur   int
	line  int
	col   int

	tokLine int
	tokCol  int
	tokens  []Token
}

// NewLexer creates a lexer for src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Lex scans src to completion. The last token is always EOF.
func Lex(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

// Scan returns every token in the source followed by EOF.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipSpaceAndComments()
		l.start = l.cur
		l.tokLine, l.tokCol = l.line, l.col
		if l.isAtEnd() {
			l.emit(EOF, nil)
			return l.tokens, nil
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekAt(n int) byte {
	if l.cur+n >= len(l.src) {
		return 0
	}
	return l.src[l.cur+n]
}

func (l *Lexer) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(l.src[l.cur:])
	return r
}

func (l *Lexer) advance() {
	if l.isAtEnd() {
		return
	}
	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) emit(tt TokenType, lit any) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.tokLine,
		Col:     l.tokCol,
	})
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &LexError{Line: l.tokLine, Col: l.tokCol, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) skipSpaceAndComments() {
	for !l.isAtEnd() {
		switch c := l.peek(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekAt(1) == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

var punct = map[byte]TokenType{
	'<': LANGLE,
	'>': RANGLE,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'[': LSQUARE,
	']': RSQUARE,
	',': COMMA,
	';': SEMI,
	'&': AMP,
	'*': STAR,
	'=': EQUALS,
	'+': PLUS,
}

func (l *Lexer) scanToken() error {
	c := l.peek()
	switch {
	case isDigit(c):
		n, err := l.number()
		if err != nil {
			return err
		}
		l.emit(INT, n)
		return nil
	case isIdentStart(l.peekRune()):
		l.emit(IDENT, l.ident())
		return nil
	}

	switch c {
	case '#':
		l.advance()
		n, err := l.number()
		if err != nil {
			return err
		}
		l.emit(ITEM, n)
	case '^':
		l.advance()
		d, err := l.number()
		if err != nil {
			return err
		}
		if l.peek() != '.' {
			return l.errorf("expected '.' in bound variable")
		}
		l.advance()
		i, err := l.number()
		if err != nil {
			return err
		}
		l.emit(BOUND, ir.NewBoundVar(ir.DebruijnIndex(d), int(i)))
	case '?':
		l.advance()
		n, err := l.number()
		if err != nil {
			return err
		}
		lit := InferLiteral{Var: ir.InferenceVar(n), Kind: ir.TyVarGeneral}
		switch l.peek() {
		case 'i':
			lit.Kind = ir.TyVarInteger
			l.advance()
		case 'f':
			lit.Kind = ir.TyVarFloat
			l.advance()
		}
		l.emit(INFER, lit)
	case '!':
		l.advance()
		if !isDigit(l.peek()) {
			l.emit(BANG, nil)
			return nil
		}
		ui, err := l.number()
		if err != nil {
			return err
		}
		if l.peek() != '_' {
			return l.errorf("expected '_' in placeholder")
		}
		l.advance()
		idx, err := l.number()
		if err != nil {
			return err
		}
		l.emit(PLACEHOLDER, ir.PlaceholderIndex{UI: ir.UniverseIndex(ui), Idx: int(idx)})
	case '\'':
		l.advance()
		if l.isAtEnd() || !isIdentStart(l.peekRune()) {
			l.emit(QUOTE, nil)
			return nil
		}
		l.emit(LIFETIME, l.ident())
	case '-':
		l.advance()
		if l.peek() != '>' {
			return l.errorf("unexpected '-'")
		}
		l.advance()
		l.emit(ARROW, nil)
	case ':':
		l.advance()
		if l.peek() == '-' {
			l.advance()
			l.emit(IMPLIEDBY, nil)
			return nil
		}
		l.emit(COLON, nil)
	case '|':
		l.advance()
		if l.peek() != '-' {
			return l.errorf("unexpected '|'")
		}
		l.advance()
		l.emit(TURNSTILE, nil)
	case '.':
		if l.peekAt(1) != '.' || l.peekAt(2) != '.' {
			return l.errorf("unexpected '.'")
		}
		l.advance()
		l.advance()
		l.advance()
		l.emit(ELLIPSIS, nil)
	default:
		tt, ok := punct[c]
		if !ok {
			return l.errorf("unexpected character %q", l.peekRune())
		}
		l.advance()
		l.emit(tt, nil)
	}
	return nil
}

func (l *Lexer) number() (uint64, error) {
	from := l.cur
	for isDigit(l.peek()) {
		l.advance()
	}
	if from == l.cur {
		return 0, l.errorf("expected a number")
	}
	n, err := strconv.ParseUint(l.src[from:l.cur], 10, 64)
	if err != nil {
		return 0, l.errorf("number out of range: %s", l.src[from:l.cur])
	}
	return n, nil
}

func (l *Lexer) ident() string {
	from := l.cur
	for !l.isAtEnd() && isIdentPart(l.peekRune()) {
		l.advance()
	}
	return norm.NFC.String(l.src[from:l.cur])
}
