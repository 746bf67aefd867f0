package lox

import (
	"strings"
	"sync"
	"testing"
)

func TestEngineCompileClean(t *testing.T) {
	engine := NewEngine(Config{})
	script, err := engine.Compile("1 + 2")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if script.Source() != "1 + 2" {
		t.Fatalf("unexpected source %q", script.Source())
	}
	if len(script.Tokens()) != 4 {
		t.Fatalf("expected 4 tokens, got %v", script.Tokens())
	}
	if got := PrintAST(script.Root()); got != "(+ 1 2)" {
		t.Fatalf("unexpected root %q", got)
	}
	if script.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics %v", script.Diagnostics())
	}
}

func TestEngineCompileKeepsPartialResults(t *testing.T) {
	engine := NewEngine(Config{})
	script, err := engine.Compile("\"open")
	if err == nil {
		t.Fatalf("expected compile error")
	}
	if script == nil {
		t.Fatalf("script must be returned alongside the error")
	}
	if len(script.Tokens()) != 1 || script.Tokens()[0].Type != TokenEOF {
		t.Fatalf("expected only EOF, got %v", script.Tokens())
	}
	if len(script.Diagnostics()) != 2 {
		t.Fatalf("expected lexical and syntax diagnostics, got %v", script.Diagnostics())
	}
	if !strings.Contains(err.Error(), "unterminated string") {
		t.Fatalf("error should mention the unterminated string: %v", err)
	}
}

func TestEngineCodeFrames(t *testing.T) {
	plain, err := NewEngine(Config{}).Compile("1 + *")
	if err == nil || strings.Contains(err.Error(), "-->") {
		t.Fatalf("plain engine should not attach code frames: %v", err)
	}
	if plain.Root() != nil {
		t.Fatalf("expected no root")
	}

	_, err = NewEngine(Config{CodeFrames: true}).Compile("1 + *")
	if err == nil {
		t.Fatalf("expected compile error")
	}
	if !strings.Contains(err.Error(), "  --> line 1, column 5") {
		t.Fatalf("expected code frame in error, got %v", err)
	}
}

func TestEngineConcurrentCompile(t *testing.T) {
	engine := NewEngine(Config{CodeFrames: true})
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.Compile("(1 + 2) * 3 == 9"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected compile error: %v", err)
	}
}
