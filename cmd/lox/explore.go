package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/loxfront/lox"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

// exploreEntry is one analyzed input. Nothing is evaluated; the entry only
// records what the scanner and parser produced.
type exploreEntry struct {
	input  string
	tokens []lox.Token
	prefix string
	tree   string
	errors []string
	note   string
}

type exploreModel struct {
	textInput   textinput.Model
	viewport    viewport.Model
	engine      *lox.Engine
	entries     []exploreEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showTokens  bool
	showTree    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	CtrlC    key.Binding
	CtrlD    key.Binding
	CtrlL    key.Binding
	Tab      key.Binding
	CtrlT    key.Binding
	CtrlR    key.Binding
	Help     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous input"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next input"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "analyze"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "complete keyword"),
	),
	CtrlT: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "toggle tokens"),
	),
	CtrlR: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "toggle tree"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
	),
}

func newExploreModel() exploreModel {
	ti := textinput.New()
	ti.Placeholder = "type an expression..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "lox> "

	return exploreModel{
		textInput:  ti,
		viewport:   viewport.New(80, 20),
		engine:     lox.NewEngine(lox.Config{}),
		entries:    make([]exploreEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
		showTokens: true,
		showTree:   true,
	}
}

func (m exploreModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-m.reservedLines(), 3)
		m.initialized = true
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.entries = make([]exploreEntry, 0)
			m.refreshViewport()
			return m, nil

		case key.Matches(msg, keys.CtrlT):
			m.showTokens = !m.showTokens
			m.refreshViewport()
			return m, nil

		case key.Matches(msg, keys.CtrlR):
			m.showTree = !m.showTree
			m.refreshViewport()
			return m, nil

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.PageUp), key.Matches(msg, keys.PageDown):
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			m.refreshViewport()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				m.refreshViewport()
				return m, cmd
			}

			m.entries = append(m.entries, m.analyze(input))
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			m.refreshViewport()
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m exploreModel) handleCommand(input string) (exploreModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.entries = make([]exploreEntry, 0)
	case ":tokens", ":t":
		m.showTokens = !m.showTokens
	case ":tree":
		m.showTree = !m.showTree
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.entries = append(m.entries, exploreEntry{
			input:  input,
			errors: []string{fmt.Sprintf("Unknown command: %s", cmd)},
		})
	}
	return m, nil
}

func (m exploreModel) handleAutocomplete() exploreModel {
	input := m.textInput.Value()
	if input == "" {
		return m
	}

	words := strings.Fields(input)
	if len(words) == 0 || strings.HasSuffix(input, " ") {
		return m
	}
	lastWord := words[len(words)-1]

	var completions []string
	for _, k := range lox.Keywords() {
		if strings.HasPrefix(k, lastWord) {
			completions = append(completions, k)
		}
	}

	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.entries = append(m.entries, exploreEntry{
			note: "Completions: " + strings.Join(completions, ", "),
		})
	}

	return m
}

func (m exploreModel) analyze(input string) exploreEntry {
	entry := exploreEntry{input: input}
	script, _ := m.engine.Compile(input)
	entry.tokens = script.Tokens()
	if root := script.Root(); root != nil {
		entry.prefix = lox.PrintAST(root)
		entry.tree = lox.Dump(root)
	}
	for _, d := range script.Diagnostics() {
		entry.errors = append(entry.errors, d.Error())
	}
	return entry
}

func (m exploreModel) reservedLines() int {
	lines := 7 // header, rule, input, footer, spacing
	if m.showHelp {
		lines += 11
	}
	return lines
}

func (m *exploreModel) refreshViewport() {
	m.viewport.SetContent(m.renderEntries())
	m.viewport.GotoBottom()
}

func (m exploreModel) renderEntries() string {
	var b strings.Builder
	for _, entry := range m.entries {
		if entry.note != "" {
			b.WriteString("  " + mutedStyle.Render(entry.note) + "\n\n")
			continue
		}
		b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		if m.showTokens && len(entry.tokens) > 0 {
			b.WriteString("  " + mutedStyle.Render(formatTokenSummary(entry.tokens)) + "\n")
		}
		if entry.prefix != "" {
			b.WriteString("  " + resultStyle.Render("→ "+entry.prefix) + "\n")
			if m.showTree {
				for _, line := range strings.Split(strings.TrimRight(entry.tree, "\n"), "\n") {
					b.WriteString("    " + mutedStyle.Render(line) + "\n")
				}
			}
		}
		for _, msg := range entry.errors {
			b.WriteString("  " + errorStyle.Render("✗ "+msg) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatTokenSummary(tokens []lox.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Type {
		case lox.TokenEOF:
			parts = append(parts, "EOF")
		case lox.TokenNumber, lox.TokenString, lox.TokenIdentifier:
			parts = append(parts, fmt.Sprintf("%s(%s)", tok.Type, tok.Lexeme))
		default:
			parts = append(parts, string(tok.Type))
		}
	}
	return strings.Join(parts, " ")
}

func (m exploreModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("Lox Explorer")
	subtitle := mutedStyle.Render("tokens and trees, no evaluation")
	b.WriteString(header + " " + subtitle + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	b.WriteString(m.viewport.View() + "\n")

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+t") + helpDescStyle.Render(" tokens  ") +
		helpKeyStyle.Render("ctrl+r") + helpDescStyle.Render(" tree  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate input history"},
		{"PgUp/Dn", "Scroll results"},
		{"Tab", "Complete keyword"},
		{"Enter", "Scan and parse input"},
		{":help", "Toggle this help"},
		{":tokens", "Toggle token list"},
		{":tree", "Toggle tree view"},
		{":clear", "Clear results"},
		{":quit", "Exit"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runExplore() error {
	p := tea.NewProgram(newExploreModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
