package lox

import "fmt"

func (p *Parser) errorExpected(tok Token, expected string) {
	p.errorAt(tok, "expected "+expected)
}

func (p *Parser) errorAt(tok Token, msg string) {
	p.diagnostics = append(p.diagnostics, &Diagnostic{
		Kind:    SyntaxError,
		Pos:     tok.Pos,
		Message: fmt.Sprintf("%s, got %s", msg, tokenLabel(tok)),
		Lexeme:  tok.Lexeme,
	})
}

func tokenLabel(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return "end of input"
	case TokenNumber:
		return "number " + tok.Lexeme
	case TokenString:
		return "string " + tok.Lexeme
	case TokenIdentifier:
		return "identifier " + tok.Lexeme
	default:
		if tok.Lexeme == "" {
			return fmt.Sprintf("'%s'", tok.Type)
		}
		return fmt.Sprintf("'%s'", tok.Lexeme)
	}
}
