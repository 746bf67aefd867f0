package lox

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// structuralOptions compare trees by shape, operators and literal values
// while ignoring where in the source each node came from.
var structuralOptions = cmp.Options{
	cmpopts.IgnoreUnexported(Literal{}, Grouping{}),
	cmp.Comparer(func(a, b Token) bool {
		return a.Type == b.Type
	}),
}

// Equal reports whether a and b have the same structure, operators and
// literal values. Source positions are ignored.
func Equal(a, b Expression) bool {
	return cmp.Equal(a, b, structuralOptions)
}

// Diff returns a human-readable description of how b differs from a, or ""
// when they are Equal.
func Diff(a, b Expression) string {
	return cmp.Diff(a, b, structuralOptions)
}
