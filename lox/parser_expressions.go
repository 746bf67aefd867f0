package lox

import "strconv"

func (p *Parser) expression() Expression {
	return p.equality()
}

func (p *Parser) equality() Expression {
	return p.leftAssociative(p.comparison, TokenBangEqual, TokenEqualEqual)
}

func (p *Parser) comparison() Expression {
	return p.leftAssociative(p.term, TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual)
}

func (p *Parser) term() Expression {
	return p.leftAssociative(p.factor, TokenMinus, TokenPlus)
}

func (p *Parser) factor() Expression {
	return p.leftAssociative(p.unary, TokenSlash, TokenStar)
}

// leftAssociative parses operand (operator operand)* and folds the results
// to the left, so 1 - 2 - 3 becomes (1 - 2) - 3.
func (p *Parser) leftAssociative(operand func() Expression, operators ...TokenType) Expression {
	expr := operand()
	if expr == nil {
		return nil
	}

	for p.match(operators...) {
		operator := p.previous()
		right := operand()
		if right == nil {
			return nil
		}
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) unary() Expression {
	if p.match(TokenBang, TokenMinus) {
		operator := p.previous()
		right := p.unary()
		if right == nil {
			return nil
		}
		return &Unary{Operator: operator, Right: right}
	}
	return p.primary()
}

func (p *Parser) primary() Expression {
	switch {
	case p.match(TokenFalse):
		return &Literal{Value: false, position: p.previous().Pos}
	case p.match(TokenTrue):
		return &Literal{Value: true, position: p.previous().Pos}
	case p.match(TokenNil):
		return &Literal{Value: nil, position: p.previous().Pos}
	case p.match(TokenNumber):
		return p.parseNumberLiteral(p.previous())
	case p.match(TokenString):
		return p.parseStringLiteral(p.previous())
	case p.match(TokenLeftParen):
		open := p.previous()
		inner := p.expression()
		if inner == nil {
			return nil
		}
		if _, ok := p.consume(TokenRightParen, "expected ')' after expression"); !ok {
			return nil
		}
		return &Grouping{Expression: inner, position: open.Pos}
	}

	p.errorExpected(p.peek(), "expression")
	return nil
}

func (p *Parser) parseNumberLiteral(tok Token) Expression {
	if value, ok := tok.Literal.(float64); ok {
		return &Literal{Value: value, position: tok.Pos}
	}
	value, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		p.errorAt(tok, "invalid number literal")
		return nil
	}
	return &Literal{Value: value, position: tok.Pos}
}

func (p *Parser) parseStringLiteral(tok Token) Expression {
	if value, ok := tok.Literal.(string); ok {
		return &Literal{Value: value, position: tok.Pos}
	}
	text := tok.Lexeme
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	return &Literal{Value: text, position: tok.Pos}
}
