package lox

import (
	"fmt"
	"sort"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
)

// DiagnosticKind separates scanner problems from parser problems.
type DiagnosticKind int

const (
	LexicalError DiagnosticKind = iota
	SyntaxError
)

func (k DiagnosticKind) String() string {
	switch k {
	case LexicalError:
		return "lexical"
	case SyntaxError:
		return "syntax"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

// Diagnostic is a single lexical or syntax error. Lexeme is the offending
// input when there is one; it is empty at end of input.
type Diagnostic struct {
	Kind    DiagnosticKind
	Pos     Position
	Message string
	Lexeme  string

	source string
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s error at %d:%d: %s", d.Kind, d.Pos.Line, d.Pos.Column, d.Message)
	if frame := formatCodeFrame(d.source, d.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

// Diagnostics is the ordered list of problems found in one scan or parse.
type Diagnostics []*Diagnostic

func (ds Diagnostics) HasErrors() bool {
	return len(ds) > 0
}

// Err folds every diagnostic into one error, or returns nil when there are
// none.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	if len(ds) == 1 {
		return ds[0]
	}
	var result *multierror.Error
	for _, d := range ds {
		result = multierror.Append(result, d)
	}
	result.ErrorFormat = combineErrors
	return result.ErrorOrNil()
}

// Sort orders diagnostics by source position, keeping lexical diagnostics
// ahead of syntax diagnostics at the same position.
func (ds Diagnostics) Sort() {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Pos != ds[j].Pos {
			return ds[i].Pos.Before(ds[j].Pos)
		}
		return ds[i].Kind < ds[j].Kind
	})
}

func (ds Diagnostics) withSource(source string) Diagnostics {
	out := make(Diagnostics, len(ds))
	for i, d := range ds {
		cp := *d
		cp.source = source
		out[i] = &cp
	}
	return out
}

func combineErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n\n")
}
