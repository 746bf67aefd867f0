package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mgomes/loxfront/lox"
)

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "write result to source files instead of stdout")
	check := fs.Bool("check", false, "fail if any source file needs formatting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("lox fmt: path required")
	}

	files, err := collectLoxFiles(targets)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted, err := formatLoxSource(original)
		if err != nil {
			return fmt.Errorf("format %s: %w", path, err)
		}
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case *write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case !*write && !*check:
			fmt.Print(formatted)
		}
	}

	if *check && changedCount > 0 {
		return fmt.Errorf("lox fmt: %d file(s) need formatting", changedCount)
	}

	return nil
}

func collectLoxFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		if filepath.Ext(path) != ".lox" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatLoxSource rewrites source in canonical form. The result is parsed
// again and compared with the original tree before it is returned.
func formatLoxSource(source string) (string, error) {
	script, err := lox.NewEngine(lox.Config{}).Compile(source)
	if err != nil {
		return "", err
	}
	if hasComments(source, script.Tokens()) {
		return "", errors.New("source contains comments, which formatting would drop")
	}

	formatted := lox.Render(script.Root())
	again, diags := lox.ParseExpression(formatted)
	if diags.HasErrors() {
		return "", fmt.Errorf("formatted output does not parse: %w", diags.Err())
	}
	if diff := lox.Diff(script.Root(), again); diff != "" {
		return "", fmt.Errorf("formatting changed the expression (-before +after):\n%s", diff)
	}
	return formatted + "\n", nil
}

// hasComments reports whether any "//" in source lies outside a string
// literal.
func hasComments(source string, tokens []lox.Token) bool {
	inStrings := 0
	for _, tok := range tokens {
		if tok.Type == lox.TokenString {
			inStrings += strings.Count(tok.Lexeme, "//")
		}
	}
	return strings.Count(source, "//") > inStrings
}
