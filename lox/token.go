package lox

import (
	"fmt"
	"sort"
)

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	TokenEOF TokenType = "EOF"

	TokenLeftParen  TokenType = "("
	TokenRightParen TokenType = ")"
	TokenLeftBrace  TokenType = "{"
	TokenRightBrace TokenType = "}"
	TokenComma      TokenType = ","
	TokenDot        TokenType = "."
	TokenMinus      TokenType = "-"
	TokenPlus       TokenType = "+"
	TokenSemicolon  TokenType = ";"
	TokenSlash      TokenType = "/"
	TokenStar       TokenType = "*"

	TokenBang         TokenType = "!"
	TokenBangEqual    TokenType = "!="
	TokenEqual        TokenType = "="
	TokenEqualEqual   TokenType = "=="
	TokenGreater      TokenType = ">"
	TokenGreaterEqual TokenType = ">="
	TokenLess         TokenType = "<"
	TokenLessEqual    TokenType = "<="

	TokenIdentifier TokenType = "IDENTIFIER"
	TokenString     TokenType = "STRING"
	TokenNumber     TokenType = "NUMBER"

	TokenAnd    TokenType = "AND"
	TokenClass  TokenType = "CLASS"
	TokenElse   TokenType = "ELSE"
	TokenFalse  TokenType = "FALSE"
	TokenFun    TokenType = "FUN"
	TokenFor    TokenType = "FOR"
	TokenIf     TokenType = "IF"
	TokenNil    TokenType = "NIL"
	TokenOr     TokenType = "OR"
	TokenPrint  TokenType = "PRINT"
	TokenReturn TokenType = "RETURN"
	TokenSuper  TokenType = "SUPER"
	TokenThis   TokenType = "THIS"
	TokenTrue   TokenType = "TRUE"
	TokenVar    TokenType = "VAR"
	TokenWhile  TokenType = "WHILE"
)

// IsKeyword reports whether tt is one of the reserved-word kinds.
func (tt TokenType) IsKeyword() bool {
	for _, kw := range keywords {
		if kw == tt {
			return true
		}
	}
	return false
}

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Pos     Position
}

func (t Token) String() string {
	if t.Literal == nil {
		return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
	}
	return fmt.Sprintf("%s %q %v", t.Type, t.Lexeme, t.Literal)
}

// Position identifies a 1-based line and rune column in the source.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before other in the source.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// keywords is never written after package initialization.
var keywords = map[string]TokenType{
	"and":    TokenAnd,
	"class":  TokenClass,
	"else":   TokenElse,
	"false":  TokenFalse,
	"for":    TokenFor,
	"fun":    TokenFun,
	"if":     TokenIf,
	"nil":    TokenNil,
	"or":     TokenOr,
	"print":  TokenPrint,
	"return": TokenReturn,
	"super":  TokenSuper,
	"this":   TokenThis,
	"true":   TokenTrue,
	"var":    TokenVar,
	"while":  TokenWhile,
}

// LookupIdent returns the keyword kind for ident, or TokenIdentifier when
// ident is not reserved.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TokenIdentifier
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for word := range keywords {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}
