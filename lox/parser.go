package lox

// Parser builds an expression tree from a token sequence. Its only state
// is the token slice and the index of the next unconsumed token.
type Parser struct {
	tokens  []Token
	current int

	diagnostics Diagnostics
}

// NewParser prepares tokens for parsing. A missing EOF sentinel is added so
// that hand-built token slices behave like scanner output.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		pos := Position{Line: 1, Column: 1}
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Pos
		}
		terminated := make([]Token, len(tokens), len(tokens)+1)
		copy(terminated, tokens)
		tokens = append(terminated, Token{Type: TokenEOF, Pos: pos})
	}
	return &Parser{tokens: tokens}
}

// Parse parses tokens as a single expression.
func Parse(tokens []Token) (Expression, Diagnostics) {
	return NewParser(tokens).Parse()
}

// ParseExpression scans and parses source. Lexical diagnostics come before
// syntax diagnostics in the result.
func ParseExpression(source string) (Expression, Diagnostics) {
	tokens, lexical := Scan(source)
	root, syntax := Parse(tokens)
	diags := make(Diagnostics, 0, len(lexical)+len(syntax))
	diags = append(diags, lexical...)
	diags = append(diags, syntax...)
	return root, diags
}

// Parse returns the first expression that parsed cleanly along with every
// diagnostic found. After an error the parser synchronizes and keeps going
// so later, independent errors are reported in the same pass.
func (p *Parser) Parse() (Expression, Diagnostics) {
	var root Expression
	for {
		expr := p.expression()
		if expr != nil {
			if root == nil {
				root = expr
			}
			if p.isAtEnd() {
				break
			}
			p.errorExpected(p.peek(), "end of expression")
		}
		p.synchronize()
		if p.isAtEnd() {
			break
		}
	}
	return root, p.diagnostics
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == TokenEOF
}

// advance never moves past the EOF token.
func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt TokenType, message string) (Token, bool) {
	if p.check(tt) {
		return p.advance(), true
	}
	p.errorAt(p.peek(), message)
	return Token{}, false
}

// synchronize discards tokens until just after a semicolon or just before a
// keyword that starts a statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == TokenSemicolon {
			return
		}

		switch p.peek().Type {
		case TokenClass, TokenFun, TokenVar, TokenFor, TokenIf, TokenWhile, TokenPrint, TokenReturn:
			return
		}

		p.advance()
	}
}
