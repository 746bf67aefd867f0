package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgomes/loxfront/lox"
)

// exitUsage is the sysexits EX_USAGE code.
const exitUsage = 64

var errUsage = errors.New("invalid command")

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(exitUsage)
		}
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "tokens":
		return tokensCommand(args[2:])
	case "parse":
		return parseCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "explore":
		return runExplore()
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func tokensCommand(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, source, err := readSourceArg(fs.Args(), "lox tokens")
	if err != nil {
		return err
	}

	tokens, diags := lox.Scan(source)
	for _, tok := range tokens {
		fmt.Println(formatTokenLine(tok))
	}
	if diags.HasErrors() {
		return fmt.Errorf("%s: %w", path, diags.Err())
	}
	return nil
}

func formatTokenLine(tok lox.Token) string {
	line := fmt.Sprintf("%d:%d %s %q", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Lexeme)
	if tok.Literal != nil {
		line += " " + lox.FormatValue(tok.Literal)
	}
	return line
}

func parseCommand(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	tree := fs.Bool("tree", false, "print an indented tree instead of prefix form")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, source, err := readSourceArg(fs.Args(), "lox parse")
	if err != nil {
		return err
	}

	engine := lox.NewEngine(lox.Config{CodeFrames: true})
	script, err := engine.Compile(source)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if *tree {
		fmt.Print(lox.Dump(script.Root()))
		return nil
	}
	fmt.Println(lox.PrintAST(script.Root()))
	return nil
}

func readSourceArg(args []string, command string) (string, string, error) {
	if len(args) == 0 {
		return "", "", fmt.Errorf("%s: source path required", command)
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return "", "", fmt.Errorf("resolve source path: %w", err)
	}
	input, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read source: %w", err)
	}
	return path, string(input), nil
}

func usageError() error {
	printUsage()
	return errUsage
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  tokens <file>         print the token stream")
	fmt.Fprintln(os.Stderr, "  parse [-tree] <file>  print the expression tree")
	fmt.Fprintln(os.Stderr, "  check <file>          report lexical and syntax errors")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <path...>")
	fmt.Fprintln(os.Stderr, "                        rewrite .lox files in canonical form")
	fmt.Fprintln(os.Stderr, "  explore               inspect tokens and trees interactively")
	fmt.Fprintln(os.Stderr, "  lsp                   serve diagnostics over stdio")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
