package main

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/loxfront/lox"
)

var (
	checkPathStyle  = lipgloss.NewStyle().Bold(true)
	checkKindStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	checkCleanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, source, err := readSourceArg(fs.Args(), "lox check")
	if err != nil {
		return err
	}

	script, _ := lox.NewEngine(lox.Config{}).Compile(source)
	diags := script.Diagnostics()
	if !diags.HasErrors() {
		fmt.Println(checkCleanStyle.Render("No issues found"))
		return nil
	}

	diags.Sort()
	for _, d := range diags {
		fmt.Println(formatCheckLine(path, d))
	}
	return fmt.Errorf("check found %d issue(s)", len(diags))
}

func formatCheckLine(path string, d *lox.Diagnostic) string {
	line := d.Pos.Line
	column := d.Pos.Column
	if line <= 0 {
		line = 1
	}
	if column <= 0 {
		column = 1
	}
	location := checkPathStyle.Render(fmt.Sprintf("%s:%d:%d:", path, line, column))
	kind := checkKindStyle.Render(d.Kind.String() + " error:")
	return fmt.Sprintf("%s %s %s", location, kind, d.Message)
}
