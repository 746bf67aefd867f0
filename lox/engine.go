package lox

// Config controls how an Engine reports what it finds.
type Config struct {
	// CodeFrames appends a caret-annotated excerpt of the offending source
	// line to every diagnostic's error text.
	CodeFrames bool
}

// Engine runs the scanner and parser with a fixed configuration. It holds
// no per-source state and may be shared between goroutines.
type Engine struct {
	config Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{config: cfg}
}

// Script is the result of compiling one source text. It is populated even
// when compilation reports diagnostics.
type Script struct {
	source      string
	tokens      []Token
	root        Expression
	diagnostics Diagnostics
}

// Compile scans and parses source. The returned Script is never nil; the
// error aggregates every diagnostic and is nil only for clean input.
func (e *Engine) Compile(source string) (*Script, error) {
	tokens, lexical := Scan(source)
	root, syntax := Parse(tokens)

	diags := make(Diagnostics, 0, len(lexical)+len(syntax))
	diags = append(diags, lexical...)
	diags = append(diags, syntax...)
	if e.config.CodeFrames {
		diags = diags.withSource(source)
	}

	script := &Script{
		source:      source,
		tokens:      tokens,
		root:        root,
		diagnostics: diags,
	}
	return script, diags.Err()
}

func (s *Script) Source() string { return s.source }

func (s *Script) Tokens() []Token { return s.tokens }

// Root is nil when no expression parsed cleanly.
func (s *Script) Root() Expression { return s.root }

func (s *Script) Diagnostics() Diagnostics { return s.diagnostics }
