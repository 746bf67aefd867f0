package lox

import (
	"strings"
	"testing"
)

func num(v float64) Expression { return NewLiteral(v, Position{}) }

func str(v string) Expression { return NewLiteral(v, Position{}) }

func lit(v any) Expression { return NewLiteral(v, Position{}) }

func group(inner Expression) Expression { return NewGrouping(inner, Position{}) }

func unary(op string, right Expression) Expression {
	return &Unary{Operator: Token{Type: TokenType(op), Lexeme: op}, Right: right}
}

func binary(left Expression, op string, right Expression) Expression {
	return &Binary{Left: left, Operator: Token{Type: TokenType(op), Lexeme: op}, Right: right}
}

func mustParse(t *testing.T, source string) Expression {
	t.Helper()
	root, diags := ParseExpression(source)
	if len(diags) > 0 {
		t.Fatalf("parse %q: unexpected diagnostics %v", source, diags)
	}
	if root == nil {
		t.Fatalf("parse %q: expected a root expression", source)
	}
	return root
}

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	cases := []struct {
		source string
		want   Expression
	}{
		{"1 + 2 * 3", binary(num(1), "+", binary(num(2), "*", num(3)))},
		{"1 * 2 + 3", binary(binary(num(1), "*", num(2)), "+", num(3))},
		{"1 - 2 - 3", binary(binary(num(1), "-", num(2)), "-", num(3))},
		{"8 / 4 / 2", binary(binary(num(8), "/", num(4)), "/", num(2))},
		{"(1 + 2) * 3", binary(group(binary(num(1), "+", num(2))), "*", num(3))},
		{"1 - (2 - 3)", binary(num(1), "-", group(binary(num(2), "-", num(3))))},
		{"-1", unary("-", num(1))},
		{"!!true", unary("!", unary("!", lit(true)))},
		{"-2 * 3", binary(unary("-", num(2)), "*", num(3))},
		{"1 < 2 == 3 >= 4", binary(binary(num(1), "<", num(2)), "==", binary(num(3), ">=", num(4)))},
		{"1 != 2 == 3", binary(binary(num(1), "!=", num(2)), "==", num(3))},
		{"1 + 2 > 3 * 4", binary(binary(num(1), "+", num(2)), ">", binary(num(3), "*", num(4)))},
		{"1 <= 2 < 3 > 4", binary(binary(binary(num(1), "<=", num(2)), "<", num(3)), ">", num(4))},
		{`"a" != nil`, binary(str("a"), "!=", lit(nil))},
		{"false == !true", binary(lit(false), "==", unary("!", lit(true)))},
		{"((1))", group(group(num(1)))},
		{"12.5", num(12.5)},
	}
	for _, tc := range cases {
		got := mustParse(t, tc.source)
		if diff := Diff(tc.want, got); diff != "" {
			t.Fatalf("parse %q mismatch (-want +got):\n%s", tc.source, diff)
		}
	}
}

func TestParseRecordsOperatorTokens(t *testing.T) {
	root := mustParse(t, "1 +\n 2")
	bin, ok := root.(*Binary)
	if !ok {
		t.Fatalf("expected binary expression, got %T", root)
	}
	if bin.Operator.Type != TokenPlus || bin.Operator.Lexeme != "+" {
		t.Fatalf("unexpected operator %v", bin.Operator)
	}
	if bin.Pos() != (Position{Line: 1, Column: 3}) {
		t.Fatalf("binary should be positioned at its operator, got %s", bin.Pos())
	}
	if bin.Right.Pos() != (Position{Line: 2, Column: 2}) {
		t.Fatalf("right operand at wrong position %s", bin.Right.Pos())
	}
}

func TestParseGroupingPosition(t *testing.T) {
	root := mustParse(t, "  (1)")
	g, ok := root.(*Grouping)
	if !ok {
		t.Fatalf("expected grouping, got %T", root)
	}
	if g.Pos() != (Position{Line: 1, Column: 3}) {
		t.Fatalf("grouping should sit at its open paren, got %s", g.Pos())
	}
}

func TestParseMissingCloseParen(t *testing.T) {
	root, diags := ParseExpression("(1 + 2")
	if root != nil {
		t.Fatalf("expected no root, got %s", PrintAST(root))
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	d := diags[0]
	if d.Kind != SyntaxError {
		t.Fatalf("expected syntax error, got %s", d.Kind)
	}
	if d.Message != "expected ')' after expression, got end of input" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if d.Pos != (Position{Line: 1, Column: 7}) {
		t.Fatalf("expected diagnostic at 1:7, got %s", d.Pos)
	}
}

func TestParseMissingCloseParenBeforeOtherToken(t *testing.T) {
	_, diags := ParseExpression("(1 2)")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	if diags[0].Message != "expected ')' after expression, got number 2" || diags[0].Lexeme != "2" {
		t.Fatalf("unexpected diagnostic %#v", diags[0])
	}
}

func TestParseExpectedExpression(t *testing.T) {
	root, diags := ParseExpression("*3")
	if root != nil {
		t.Fatalf("expected no root, got %s", PrintAST(root))
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	if diags[0].Message != "expected expression, got '*'" {
		t.Fatalf("unexpected message %q", diags[0].Message)
	}
	if diags[0].Lexeme != "*" || diags[0].Pos.Line != 1 {
		t.Fatalf("unexpected diagnostic %#v", diags[0])
	}
}

func TestParseEmptyInput(t *testing.T) {
	root, diags := ParseExpression("")
	if root != nil {
		t.Fatalf("expected no root")
	}
	if len(diags) != 1 || diags[0].Message != "expected expression, got end of input" {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
}

func TestParseDanglingOperator(t *testing.T) {
	_, diags := ParseExpression("1 +")
	if len(diags) != 1 || diags[0].Message != "expected expression, got end of input" {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
}

func TestParseIdentifierIsNotAPrimary(t *testing.T) {
	_, diags := ParseExpression("x + 1")
	if len(diags) != 1 || diags[0].Message != "expected expression, got identifier x" {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
}

func TestParseTrailingTokens(t *testing.T) {
	root, diags := ParseExpression("1 2")
	if diff := Diff(num(1), root); diff != "" {
		t.Fatalf("root mismatch (-want +got):\n%s", diff)
	}
	if len(diags) != 1 || diags[0].Message != "expected end of expression, got number 2" {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
}

func TestParseReportsMultipleErrors(t *testing.T) {
	_, diags := ParseExpression("(1 + ; *2")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
	if diags[0].Message != "expected expression, got ';'" {
		t.Fatalf("unexpected first diagnostic %q", diags[0].Message)
	}
	if diags[1].Message != "expected expression, got '*'" {
		t.Fatalf("unexpected second diagnostic %q", diags[1].Message)
	}
}

func TestParseRecoversRootAfterError(t *testing.T) {
	root, diags := ParseExpression("* 1; 2 + 3")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	want := binary(num(2), "+", num(3))
	if diff := Diff(want, root); diff != "" {
		t.Fatalf("root mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStopsAtStatementKeyword(t *testing.T) {
	_, diags := ParseExpression("1 + ) var )")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
	if diags[1].Message != "expected expression, got 'var'" {
		t.Fatalf("parser should resume at var, got %q", diags[1].Message)
	}
}

func TestParseMergesLexicalAndSyntaxDiagnostics(t *testing.T) {
	_, diags := ParseExpression("1 + @")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
	if diags[0].Kind != LexicalError || diags[1].Kind != SyntaxError {
		t.Fatalf("expected lexical then syntax, got %s then %s", diags[0].Kind, diags[1].Kind)
	}
}

func TestSynchronize(t *testing.T) {
	cases := []struct {
		source string
		want   TokenType
	}{
		{"a b ; c", TokenIdentifier},
		{"a b var c", TokenVar},
		{"a b c", TokenEOF},
		{"a return", TokenReturn},
		{"a class", TokenClass},
		{"a fun", TokenFun},
		{"a for", TokenFor},
		{"a if", TokenIf},
		{"a while", TokenWhile},
		{"a print", TokenPrint},
	}
	for _, tc := range cases {
		tokens, _ := Scan(tc.source)
		p := NewParser(tokens)
		p.synchronize()
		if got := p.peek().Type; got != tc.want {
			t.Fatalf("synchronize %q: expected to stop before %s, got %s", tc.source, tc.want, got)
		}
	}
}

func TestSynchronizeConsumesSemicolon(t *testing.T) {
	tokens, _ := Scan("a ; b")
	p := NewParser(tokens)
	p.synchronize()
	if p.previous().Type != TokenSemicolon || p.peek().Lexeme != "b" {
		t.Fatalf("expected to stop right after ';', at %v", p.peek())
	}
}

func TestParserPrimitivesStopAtEOF(t *testing.T) {
	p := NewParser([]Token{{Type: TokenNumber, Lexeme: "1", Literal: 1.0}})
	if got := p.advance(); got.Type != TokenNumber {
		t.Fatalf("expected number, got %v", got)
	}
	for i := 0; i < 3; i++ {
		p.advance()
	}
	if !p.isAtEnd() || p.peek().Type != TokenEOF {
		t.Fatalf("advance moved past EOF")
	}
	if p.match(TokenEOF) {
		t.Fatalf("match must not consume EOF")
	}
}

func TestParseHandBuiltTokens(t *testing.T) {
	tokens := []Token{
		{Type: TokenNumber, Lexeme: "4"},
		{Type: TokenStar, Lexeme: "*"},
		{Type: TokenString, Lexeme: `"x"`},
	}
	root, diags := Parse(tokens)
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
	want := binary(num(4), "*", str("x"))
	if diff := Diff(want, root); diff != "" {
		t.Fatalf("root mismatch (-want +got):\n%s", diff)
	}
	if len(tokens) != 3 {
		t.Fatalf("caller's slice was modified")
	}
}

func TestParseInvalidHandBuiltNumber(t *testing.T) {
	_, diags := Parse([]Token{{Type: TokenNumber, Lexeme: "abc"}})
	if len(diags) != 1 || !strings.HasPrefix(diags[0].Message, "invalid number literal") {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
}

func TestParseDeepNesting(t *testing.T) {
	depth := 500
	source := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth)
	root := mustParse(t, source)
	for i := 0; i < depth; i++ {
		g, ok := root.(*Grouping)
		if !ok {
			t.Fatalf("level %d: expected grouping, got %T", i, root)
		}
		root = g.Expression
	}
	if diff := Diff(num(1), root); diff != "" {
		t.Fatalf("innermost mismatch:\n%s", diff)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	sources := []string{
		"1 + 2 * 3",
		"1 - 2 - 3",
		"(1 - 2) - 3",
		"1 - (2 - 3)",
		"--1",
		"!(1 == 2)",
		`"hello world" == "hello" + " world"`,
		"12.5 / 0.25 >= 3",
		"nil != false",
		"((((1))))",
		"\"multi\nline\" + 1",
		"1 / -2",
	}
	for _, source := range sources {
		first := mustParse(t, source)
		rendered := Render(first)
		second := mustParse(t, rendered)
		if !Equal(first, second) {
			t.Fatalf("round trip of %q via %q changed the tree:\n%s", source, rendered, Diff(first, second))
		}
		if again := Render(second); again != rendered {
			t.Fatalf("render not stable: %q then %q", rendered, again)
		}
	}
}
