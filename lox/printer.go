package lox

import (
	"fmt"
	"strconv"
	"strings"
)

// PrintAST renders expr in parenthesized prefix form, e.g. (+ 1 (* 2 3)).
func PrintAST(expr Expression) string {
	var b strings.Builder
	writePrefix(&b, expr)
	return b.String()
}

func writePrefix(b *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case nil:
	case *Literal:
		b.WriteString(FormatValue(e.Value))
	case *Unary:
		parenthesize(b, operatorText(e.Operator), e.Right)
	case *Binary:
		parenthesize(b, operatorText(e.Operator), e.Left, e.Right)
	case *Grouping:
		parenthesize(b, "group", e.Expression)
	default:
		fmt.Fprintf(b, "<unknown %T>", expr)
	}
}

func parenthesize(b *strings.Builder, name string, exprs ...Expression) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteByte(' ')
		writePrefix(b, expr)
	}
	b.WriteByte(')')
}

// Render turns expr back into Lox source. Scanning and parsing the result
// of Render on a parsed tree gives back an equal tree.
func Render(expr Expression) string {
	var b strings.Builder
	writeSource(&b, expr)
	return b.String()
}

func writeSource(b *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case nil:
	case *Literal:
		if s, ok := e.Value.(string); ok {
			b.WriteByte('"')
			b.WriteString(s)
			b.WriteByte('"')
			return
		}
		b.WriteString(FormatValue(e.Value))
	case *Unary:
		b.WriteString(operatorText(e.Operator))
		writeSource(b, e.Right)
	case *Binary:
		writeSource(b, e.Left)
		b.WriteByte(' ')
		b.WriteString(operatorText(e.Operator))
		b.WriteByte(' ')
		writeSource(b, e.Right)
	case *Grouping:
		b.WriteByte('(')
		writeSource(b, e.Expression)
		b.WriteByte(')')
	}
}

// Dump returns an indented, one-node-per-line view of expr.
func Dump(expr Expression) string {
	var b strings.Builder
	writeTree(&b, expr, 0)
	return b.String()
}

func writeTree(b *strings.Builder, expr Expression, depth int) {
	indent := strings.Repeat("  ", depth)
	switch e := expr.(type) {
	case nil:
		fmt.Fprintf(b, "%s<nil>\n", indent)
	case *Literal:
		if s, ok := e.Value.(string); ok {
			fmt.Fprintf(b, "%sLiteral %q\n", indent, s)
			return
		}
		fmt.Fprintf(b, "%sLiteral %s\n", indent, FormatValue(e.Value))
	case *Unary:
		fmt.Fprintf(b, "%sUnary %s\n", indent, operatorText(e.Operator))
		writeTree(b, e.Right, depth+1)
	case *Binary:
		fmt.Fprintf(b, "%sBinary %s\n", indent, operatorText(e.Operator))
		writeTree(b, e.Left, depth+1)
		writeTree(b, e.Right, depth+1)
	case *Grouping:
		fmt.Fprintf(b, "%sGrouping\n", indent)
		writeTree(b, e.Expression, depth+1)
	}
}

// FormatValue prints a literal value the way Lox displays it: nil, true,
// false, integral numbers without a fractional part, strings unquoted.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func operatorText(tok Token) string {
	if tok.Lexeme != "" {
		return tok.Lexeme
	}
	return string(tok.Type)
}
