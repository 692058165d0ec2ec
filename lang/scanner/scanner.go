// Package scanner tokenizes SysY source text.
//
// The scanning loop is adapted from the Go project's own lexer:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
package scanner

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

var PrintError = scanner.PrintError

// TokenValue is a scanned token together with its literal text, resolved
// integer value (for INT) and position.
type TokenValue struct {
	Tok Token
	Lit string
	Int int64
	Pos token.Pos
}

// ScanFile tokenizes the full contents of a single file and returns every
// token, including the trailing EOF. Lexical errors are collected into the
// returned ErrorList rather than stopping the scan early.
func ScanFile(fset *token.FileSet, filename string, src []byte) ([]TokenValue, error) {
	var el ErrorList
	file := fset.AddFile(filename, -1, len(src))

	var s Scanner
	s.Init(file, src, el.Add)

	var toks []TokenValue
	for {
		tv := s.Scan()
		toks = append(toks, tv)
		if tv.Tok == EOF {
			break
		}
	}
	el.Sort()
	return toks, el.Err()
}

// Scanner tokenizes a single source file for the parser to consume.
type Scanner struct {
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	cur  rune // current character, -1 at EOF
	off  int  // byte offset of cur
	roff int  // byte offset following cur
}

// Init prepares s to scan src, whose length must equal file.Size().
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	s.file = file
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}

	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}

	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

// advanceIf advances and returns true if cur equals b.
func (s *Scanner) advanceIf(b byte) bool {
	if s.cur == rune(b) {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		for isWhitespace(s.cur) {
			s.advance()
		}
		if s.cur == '/' && s.peek() == '/' {
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
			continue
		}
		if s.cur == '/' && s.peek() == '*' {
			start := s.off
			s.advance()
			s.advance()
			closed := false
			for s.cur != -1 {
				if s.cur == '*' && s.peek() == '/' {
					s.advance()
					s.advance()
					closed = true
					break
				}
				s.advance()
			}
			if !closed {
				s.error(start, "comment not terminated")
			}
			continue
		}
		return
	}
}

// Scan returns the next token in the source file.
func (s *Scanner) Scan() TokenValue {
	s.skipWhitespaceAndComments()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		return TokenValue{Tok: Lookup(lit), Lit: lit, Pos: pos}

	case isDigit(cur):
		lit, base := s.number()
		v, err := parseIntLiteral(lit, base)
		if err != nil {
			s.errorf(start, "invalid integer literal %q: %s", lit, err)
		}
		return TokenValue{Tok: INT, Lit: lit, Int: v, Pos: pos}

	default:
		s.advance() // always make progress
		switch cur {
		case '+':
			return TokenValue{Tok: PLUS, Lit: "+", Pos: pos}
		case '-':
			return TokenValue{Tok: MINUS, Lit: "-", Pos: pos}
		case '*':
			return TokenValue{Tok: STAR, Lit: "*", Pos: pos}
		case '/':
			return TokenValue{Tok: SLASH, Lit: "/", Pos: pos}
		case '%':
			return TokenValue{Tok: PERCENT, Lit: "%", Pos: pos}
		case ',':
			return TokenValue{Tok: COMMA, Lit: ",", Pos: pos}
		case ';':
			return TokenValue{Tok: SEMI, Lit: ";", Pos: pos}
		case '(':
			return TokenValue{Tok: LPAREN, Lit: "(", Pos: pos}
		case ')':
			return TokenValue{Tok: RPAREN, Lit: ")", Pos: pos}
		case '{':
			return TokenValue{Tok: LBRACE, Lit: "{", Pos: pos}
		case '}':
			return TokenValue{Tok: RBRACE, Lit: "}", Pos: pos}
		case '[':
			return TokenValue{Tok: LBRACK, Lit: "[", Pos: pos}
		case ']':
			return TokenValue{Tok: RBRACK, Lit: "]", Pos: pos}
		case '=':
			if s.advanceIf('=') {
				return TokenValue{Tok: EQL, Lit: "==", Pos: pos}
			}
			return TokenValue{Tok: ASSIGN, Lit: "=", Pos: pos}
		case '<':
			if s.advanceIf('=') {
				return TokenValue{Tok: LE, Lit: "<=", Pos: pos}
			}
			return TokenValue{Tok: LT, Lit: "<", Pos: pos}
		case '>':
			if s.advanceIf('=') {
				return TokenValue{Tok: GE, Lit: ">=", Pos: pos}
			}
			return TokenValue{Tok: GT, Lit: ">", Pos: pos}
		case '!':
			if s.advanceIf('=') {
				return TokenValue{Tok: NEQ, Lit: "!=", Pos: pos}
			}
			return TokenValue{Tok: NOT, Lit: "!", Pos: pos}
		case '&':
			if s.advanceIf('&') {
				return TokenValue{Tok: LAND, Lit: "&&", Pos: pos}
			}
			s.errorf(start, "illegal character %#U, expected '&&'", cur)
			return TokenValue{Tok: ILLEGAL, Lit: "&", Pos: pos}
		case '|':
			if s.advanceIf('|') {
				return TokenValue{Tok: LOR, Lit: "||", Pos: pos}
			}
			s.errorf(start, "illegal character %#U, expected '||'", cur)
			return TokenValue{Tok: ILLEGAL, Lit: "|", Pos: pos}
		case -1:
			return TokenValue{Tok: EOF, Pos: pos}
		default:
			s.errorf(start, "illegal character %#U", cur)
			return TokenValue{Tok: ILLEGAL, Lit: string(cur), Pos: pos}
		}
	}
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

// number scans a decimal, octal or hexadecimal integer literal and reports
// its base (8, 10 or 16) alongside the raw literal text.
func (s *Scanner) number() (lit string, base int) {
	start := s.off
	base = 10
	if s.cur == '0' {
		switch {
		case s.peek() == 'x' || s.peek() == 'X':
			s.advance()
			s.advance()
			for isHexDigit(s.cur) {
				s.advance()
			}
			return string(s.src[start:s.off]), 16
		case isDigit(rune(s.peek())):
			base = 8
		}
	}
	for isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off]), base
}

func parseIntLiteral(lit string, base int) (int64, error) {
	switch base {
	case 16:
		return strconv.ParseInt(lit[2:], 16, 64)
	case 8:
		if lit == "0" {
			return 0, nil
		}
		return strconv.ParseInt(lit, 8, 64)
	default:
		return strconv.ParseInt(lit, 10, 64)
	}
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r'
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return '0' <= rn && rn <= '9'
}

func isHexDigit(rn rune) bool {
	return isDigit(rn) || 'a' <= rn && rn <= 'f' || 'A' <= rn && rn <= 'F'
}
