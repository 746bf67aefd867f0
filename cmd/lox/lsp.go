package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mgomes/loxfront/lox"
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspDidCloseParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	engine *lox.Engine
	docs   map[string]string
	logger *slog.Logger
}

func runLSP() error {
	server := newLSPServer(os.Stdin, os.Stdout, newLSPLogger(os.Stderr, os.Getenv("LOX_LOG_LEVEL")))
	return server.serve()
}

func newLSPServer(in io.Reader, out io.Writer, logger *slog.Logger) *lspServer {
	return &lspServer{
		reader: bufio.NewReader(in),
		writer: bufio.NewWriter(out),
		engine: lox.NewEngine(lox.Config{}),
		docs:   make(map[string]string),
		logger: logger,
	}
}

// newLSPLogger writes text logs to w. Unknown levels fall back to warn so
// stdout stays reserved for protocol traffic.
func newLSPLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil || level == "" {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func (s *lspServer) serve() error {
	s.logger.Info("lsp server started")
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("lsp input closed")
				return nil
			}
			s.logger.Error("read payload", "error", err)
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			s.logger.Warn("discarding malformed message", "error", err)
			continue
		}
		s.logger.Debug("message received", "method", incoming.Method)

		messages := s.handleMessage(incoming)
		for _, msg := range messages {
			if err := s.writePayload(msg); err != nil {
				s.logger.Error("write payload", "error", err)
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync": 1,
						"hoverProvider":    true,
						"completionProvider": map[string]any{
							"resolveProvider": false,
						},
					},
					"serverInfo": map[string]any{
						"name": "lox-lsp",
					},
				},
			},
		}
	case "initialized":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
	case "exit":
		return nil
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			s.logger.Warn("invalid didOpen params", "error", err)
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			s.logger.Warn("invalid didChange params", "error", err)
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/didClose":
		var params lspDidCloseParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		delete(s.docs, params.TextDocument.URI)
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				Method:  "textDocument/publishDiagnostics",
				Params: map[string]any{
					"uri":         params.TextDocument.URI,
					"diagnostics": []map[string]any{},
				},
			},
		}
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"isIncomplete": false,
					"items":        completionItems(),
				},
			},
		}
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid hover params"},
				},
			}
		}
		source := s.docs[params.TextDocument.URI]
		tok, ok := tokenAtPosition(source, params.Position.Line, params.Position.Character)
		if !ok {
			return []lspOutboundMessage{
				{JSONRPC: "2.0", ID: incoming.ID, Result: nil},
			}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": fmt.Sprintf("`%s`\n\nLox %s", tok.Lexeme, classifyToken(tok)),
					},
				},
			},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		s.logger.Debug("method not found", "method", incoming.Method)
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(s.engine, source),
		},
	}
}

func diagnosticsForSource(engine *lox.Engine, source string) []map[string]any {
	script, _ := engine.Compile(source)
	diags := script.Diagnostics()
	diags.Sort()

	out := make([]map[string]any, 0, len(diags))
	for _, d := range diags {
		lineIdx := max(0, d.Pos.Line-1)
		colIdx := max(0, d.Pos.Column-1)
		width := max(1, utf8.RuneCountInString(d.Lexeme))
		out = append(out, newDiagnostic(lineIdx, colIdx, width, d.Kind.String()+" error: "+d.Message))
	}
	return out
}

func newDiagnostic(line, character, width int, message string) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + width,
			},
		},
		"severity": 1,
		"source":   "lox-lsp",
		"message":  message,
	}
}

func completionItems() []map[string]any {
	words := lox.Keywords()
	items := make([]map[string]any, 0, len(words))
	for _, word := range words {
		items = append(items, map[string]any{
			"label":  word,
			"kind":   14, // Keyword
			"detail": "keyword",
		})
	}
	return items
}

func classifyToken(tok lox.Token) string {
	switch {
	case tok.Type.IsKeyword():
		return "keyword"
	case tok.Type == lox.TokenIdentifier:
		return "identifier"
	case tok.Type == lox.TokenNumber:
		return "number literal"
	case tok.Type == lox.TokenString:
		return "string literal"
	default:
		return "operator"
	}
}

// tokenAtPosition finds the token covering a zero-based line and character.
// A cursor just past the end of a token still selects it.
func tokenAtPosition(source string, line, character int) (lox.Token, bool) {
	tokens, _ := lox.Scan(source)
	target := lox.Position{Line: line + 1, Column: character + 1}

	var best lox.Token
	found := false
	for _, tok := range tokens {
		if tok.Type == lox.TokenEOF || tok.Pos.Line != target.Line {
			continue
		}
		if strings.Contains(tok.Lexeme, "\n") {
			continue
		}
		start := tok.Pos.Column
		end := start + utf8.RuneCountInString(tok.Lexeme)
		if target.Column >= start && target.Column < end {
			return tok, true
		}
		if target.Column == end {
			best = tok
			found = true
		}
	}
	return best, found
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.EqualFold(name, "Content-Length") {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
