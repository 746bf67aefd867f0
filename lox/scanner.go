package lox

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Scanner turns Lox source text into tokens. A Scanner is single use and
// is not safe for concurrent use; Scan is the usual entry point.
type Scanner struct {
	source string

	start   int
	current int

	line   int
	column int

	startPos Position

	tokens      []Token
	diagnostics Diagnostics
	done        bool
}

func NewScanner(source string) *Scanner {
	return &Scanner{source: source, line: 1, column: 1}
}

// Scan tokenizes source. The token slice always ends with a single EOF
// token, even when diagnostics were reported.
func Scan(source string) ([]Token, Diagnostics) {
	return NewScanner(source).ScanTokens()
}

// ScanTokens runs the scanner to the end of its input. Calling it again
// returns the same result.
func (s *Scanner) ScanTokens() ([]Token, Diagnostics) {
	if s.done {
		return s.tokens, s.diagnostics
	}
	for !s.isAtEnd() {
		s.start = s.current
		s.startPos = Position{Line: s.line, Column: s.column}
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{
		Type: TokenEOF,
		Pos:  Position{Line: s.line, Column: s.column},
	})
	s.done = true
	return s.tokens, s.diagnostics
}

func (s *Scanner) scanToken() {
	r := s.advance()
	switch r {
	case '(':
		s.addToken(TokenLeftParen)
	case ')':
		s.addToken(TokenRightParen)
	case '{':
		s.addToken(TokenLeftBrace)
	case '}':
		s.addToken(TokenRightBrace)
	case ',':
		s.addToken(TokenComma)
	case '.':
		s.addToken(TokenDot)
	case '-':
		s.addToken(TokenMinus)
	case '+':
		s.addToken(TokenPlus)
	case ';':
		s.addToken(TokenSemicolon)
	case '*':
		s.addToken(TokenStar)
	case '!':
		if s.match('=') {
			s.addToken(TokenBangEqual)
		} else {
			s.addToken(TokenBang)
		}
	case '=':
		if s.match('=') {
			s.addToken(TokenEqualEqual)
		} else {
			s.addToken(TokenEqual)
		}
	case '<':
		if s.match('=') {
			s.addToken(TokenLessEqual)
		} else {
			s.addToken(TokenLess)
		}
	case '>':
		if s.match('=') {
			s.addToken(TokenGreaterEqual)
		} else {
			s.addToken(TokenGreater)
		}
	case '/':
		if s.match('/') {
			s.skipComment()
		} else {
			s.addToken(TokenSlash)
		}
	case ' ', '\r', '\t', '\n':
		// advance already moved the line counter past newlines.
	case '"':
		s.readString()
	default:
		switch {
		case isDigit(r):
			s.readNumber()
		case isIdentifierStart(r):
			s.readIdentifier()
		default:
			s.addError(fmt.Sprintf("unexpected character %q", r))
		}
	}
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) advance() rune {
	r, w := utf8.DecodeRuneInString(s.source[s.current:])
	s.current += w
	if r == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return r
}

// match consumes the next rune only if it is expected.
func (s *Scanner) match(expected rune) bool {
	if s.isAtEnd() {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.current:])
	if r != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.current:])
	return r
}

func (s *Scanner) peekNext() rune {
	if s.isAtEnd() {
		return 0
	}
	_, w := utf8.DecodeRuneInString(s.source[s.current:])
	if s.current+w >= len(s.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.current+w:])
	return r
}

func (s *Scanner) skipComment() {
	for s.peek() != '\n' && !s.isAtEnd() {
		s.advance()
	}
}

func (s *Scanner) readString() {
	for s.peek() != '"' && !s.isAtEnd() {
		s.advance()
	}

	if s.isAtEnd() {
		s.diagnostics = append(s.diagnostics, &Diagnostic{
			Kind:    LexicalError,
			Pos:     s.startPos,
			Message: "unterminated string",
			Lexeme:  `"`,
		})
		return
	}

	// closing quote
	s.advance()
	s.addTokenLiteral(TokenString, s.source[s.start+1:s.current-1])
}

func (s *Scanner) readNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}

	// A dot without a digit after it belongs to the next token.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	text := s.source[s.start:s.current]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		s.addError("number literal out of range")
		return
	}
	s.addTokenLiteral(TokenNumber, value)
}

func (s *Scanner) readIdentifier() {
	for isIdentifierRune(s.peek()) {
		s.advance()
	}
	s.addToken(LookupIdent(s.source[s.start:s.current]))
}

func (s *Scanner) addToken(tt TokenType) {
	s.addTokenLiteral(tt, nil)
}

func (s *Scanner) addTokenLiteral(tt TokenType, literal any) {
	s.tokens = append(s.tokens, Token{
		Type:    tt,
		Lexeme:  s.source[s.start:s.current],
		Literal: literal,
		Pos:     s.startPos,
	})
}

func (s *Scanner) addError(msg string) {
	s.diagnostics = append(s.diagnostics, &Diagnostic{
		Kind:    LexicalError,
		Pos:     s.startPos,
		Message: msg,
		Lexeme:  s.source[s.start:s.current],
	})
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
