package codebase

import (
	"path/filepath"
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"kr.dev/diff"

	"github.com/torland/botls/config"
)

type notification struct {
	method string
	params any
}

func newTestServer(t *testing.T) (*LSPServer, *glsp.Context, *[]notification) {
	t.Helper()
	ls := NewLSPServer("test", config.Default())
	var sent []notification
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			sent = append(sent, notification{method, params})
		},
	}
	root := t.TempDir()
	if _, err := ls.initialize(ctx, &protocol.InitializeParams{RootPath: &root}); err != nil {
		t.Fatalf("initialize() error = %v", err)
	}
	return ls, ctx, &sent
}

func open(t *testing.T, ls *LSPServer, ctx *glsp.Context, uri, languageID, text string) {
	t.Helper()
	err := ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: languageID, Text: text},
	})
	if err != nil {
		t.Fatalf("didOpen error = %v", err)
	}
}

func position(uri string, line, char uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: line, Character: char},
	}
}

func TestInitializeCapabilities(t *testing.T) {
	ls := NewLSPServer("1.2.3", config.Default())
	root := t.TempDir()
	res, err := ls.initialize(&glsp.Context{}, &protocol.InitializeParams{RootPath: &root})
	if err != nil {
		t.Fatalf("initialize() error = %v", err)
	}
	result := res.(protocol.InitializeResult)
	if *result.ServerInfo.Version != "1.2.3" {
		t.Errorf("Version = %s, want 1.2.3", *result.ServerInfo.Version)
	}
	opts, ok := result.Capabilities.SemanticTokensProvider.(*protocol.SemanticTokensOptions)
	if !ok {
		t.Fatalf("SemanticTokensProvider = %T", result.Capabilities.SemanticTokensProvider)
	}
	diff.Test(t, t.Errorf, opts.Legend.TokenTypes, TokenTypes)
	if ls.codebase.RootDir() != root {
		t.Errorf("RootDir() = %s, want %s", ls.codebase.RootDir(), root)
	}
}

func TestPublishDiagnostics(t *testing.T) {
	ls, ctx, sent := newTestServer(t)
	uri := "file://" + filepath.Join(ls.codebase.RootDir(), "a.bot")

	open(t, ls, ctx, uri, "botlang", "mov up\nnop")
	if len(*sent) != 1 {
		t.Fatalf("notifications = %d, want 1", len(*sent))
	}
	n := (*sent)[0]
	if n.method != protocol.ServerTextDocumentPublishDiagnostics {
		t.Errorf("method = %s", n.method)
	}
	params := n.params.(protocol.PublishDiagnosticsParams)
	if len(params.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(params.Diagnostics))
	}
	want := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 4},
		End:   protocol.Position{Line: 0, Character: 6},
	}
	diff.Test(t, t.Errorf, params.Diagnostics[0].Range, want)

	err := ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "mov front"}},
	})
	if err != nil {
		t.Fatalf("didChange error = %v", err)
	}
	params = (*sent)[1].params.(protocol.PublishDiagnosticsParams)
	if len(params.Diagnostics) != 0 {
		t.Errorf("diagnostics after fix = %d, want 0", len(params.Diagnostics))
	}
}

func TestLanguageIDFallback(t *testing.T) {
	ls, ctx, sent := newTestServer(t)

	open(t, ls, ctx, "file:///tmp/prog.txt", "nilang", "If x")
	if ls.codebase.GetFile("/tmp/prog.txt") == nil {
		t.Error("file with nilang language id not tracked")
	}

	open(t, ls, ctx, "file:///tmp/notes.md", "markdown", "# hi")
	if ls.codebase.GetFile("/tmp/notes.md") != nil {
		t.Error("markdown file tracked")
	}
	if len(*sent) != 1 {
		t.Errorf("notifications = %d, want 1", len(*sent))
	}
}

func TestCompletion(t *testing.T) {
	ls, ctx, _ := newTestServer(t)
	uri := "file:///w/a.bot"
	open(t, ls, ctx, uri, "botlang", "loop:\nmov fr\njmp lo")

	res, err := ls.textDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: position(uri, 1, 6),
	})
	if err != nil {
		t.Fatalf("completion error = %v", err)
	}
	items := res.([]protocol.CompletionItem)
	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	diff.Test(t, t.Errorf, labels, []string{"front", "frontright", "frontleft"})

	edit := items[0].TextEdit.(protocol.TextEdit)
	want := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 4},
		End:   protocol.Position{Line: 1, Character: 6},
	}
	diff.Test(t, t.Errorf, edit.Range, want)
	if *items[0].Kind != protocol.CompletionItemKindEnumMember {
		t.Errorf("Kind = %v, want EnumMember", *items[0].Kind)
	}

	res, _ = ls.textDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: position(uri, 2, 6),
	})
	items = res.([]protocol.CompletionItem)
	if len(items) != 1 || items[0].Label != "loop" || *items[0].Kind != protocol.CompletionItemKindReference {
		t.Errorf("label completion = %+v", items)
	}
}

func TestDefinitionHoverSymbols(t *testing.T) {
	ls, ctx, _ := newTestServer(t)
	uri := "file:///w/a.bot"
	open(t, ls, ctx, uri, "botlang", "start:\n  jmp start\nend:")

	def, err := ls.textDocumentDefinition(ctx, &protocol.DefinitionParams{
		TextDocumentPositionParams: position(uri, 1, 8),
	})
	if err != nil {
		t.Fatalf("definition error = %v", err)
	}
	loc := def.(protocol.Location)
	want := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 6},
	}
	diff.Test(t, t.Errorf, loc.Range, want)

	hover, err := ls.textDocumentHover(ctx, &protocol.HoverParams{
		TextDocumentPositionParams: position(uri, 1, 3),
	})
	if err != nil || hover == nil {
		t.Fatalf("hover = %v, %v", hover, err)
	}
	content := hover.Contents.(protocol.MarkupContent)
	if content.Value != "`jmp Label`\n\nJump unconditionally." {
		t.Errorf("hover = %q", content.Value)
	}

	syms, err := ls.textDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("documentSymbol error = %v", err)
	}
	var names []string
	for _, s := range syms.([]protocol.DocumentSymbol) {
		names = append(names, s.Name)
	}
	diff.Test(t, t.Errorf, names, []string{"start", "end"})

	tokens, err := ls.textDocumentSemanticTokensFull(ctx, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("semanticTokens error = %v", err)
	}
	if got := len(tokens.Data); got != 4*5 {
		t.Errorf("len(Data) = %d, want 20", got)
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/bot/a.bot", "/home/bot/a.bot"},
		{"file:///home/bot/my%20prog.bot", "/home/bot/my prog.bot"},
		{"untitled:1", "untitled:1"},
	}
	for _, tt := range tests {
		got, err := uriToPath(tt.uri)
		if err != nil || got != tt.want {
			t.Errorf("uriToPath(%q) = %q, %v, want %q", tt.uri, got, err, tt.want)
		}
	}
}
