// Package lox implements the front end of the Lox language: a scanner that
// turns source text into tokens and a recursive-descent parser that builds
// expression trees from them. The supported grammar is
//
//	expression → equality
//	equality   → comparison ( ( "!=" | "==" ) comparison )*
//	comparison → term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term       → factor ( ( "-" | "+" ) factor )*
//	factor     → unary ( ( "/" | "*" ) unary )*
//	unary      → ( "!" | "-" ) unary | primary
//	primary    → NUMBER | STRING | "true" | "false" | "nil" | "(" expression ")"
//
// Neither stage stops at the first problem. Both return their best-effort
// output together with Diagnostics, and the parser resynchronizes after a
// syntax error so that later errors are reported in the same pass.
//
// Comments beginning with `//` run to the end of the line.
package lox
