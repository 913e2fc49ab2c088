package codebase

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/torland/botls/complete"
	"github.com/torland/botls/config"
	"github.com/torland/botls/dialect"
	"github.com/torland/botls/lexer"
)

const lsName = "botls"

type LSPServer struct {
	codebase *Codebase
	config   *config.Config
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
}

// NewLSPServer creates a server. A nil cfg loads the workspace config on
// initialize.
func NewLSPServer(version string, cfg *config.Config) *LSPServer {
	ls := &LSPServer{
		version: version,
		config:  cfg,
	}

	ls.handler = protocol.Handler{
		Initialize:                     ls.initialize,
		Initialized:                    ls.initialized,
		Shutdown:                       ls.shutdown,
		SetTrace:                       ls.setTrace,
		TextDocumentDidOpen:            ls.textDocumentDidOpen,
		TextDocumentDidChange:          ls.textDocumentDidChange,
		TextDocumentDidClose:           ls.textDocumentDidClose,
		TextDocumentDidSave:            ls.textDocumentDidSave,
		TextDocumentCompletion:         ls.textDocumentCompletion,
		TextDocumentHover:              ls.textDocumentHover,
		TextDocumentDefinition:         ls.textDocumentDefinition,
		TextDocumentDocumentSymbol:     ls.textDocumentDocumentSymbol,
		TextDocumentSemanticTokensFull: ls.textDocumentSemanticTokensFull,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) RunTCP(address string) error {
	return ls.server.RunTCP(address)
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	if ls.config == nil {
		cfg, err := config.ForWorkspace(rootDir)
		if err != nil {
			log.Errorf("config: %s", err)
			cfg = config.Default()
		}
		ls.config = cfg
	}
	ls.codebase = New(rootDir, ls.config)
	log.Infof("initialize %s (config %q)", rootDir, ls.config.Path)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.HoverProvider = true
	capabilities.DefinitionProvider = true
	capabilities.DocumentSymbolProvider = true
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     TokenTypes,
			TokenModifiers: TokenModifiers,
		},
		Full: true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		log.Warningf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	ls.watcher = NewFileWatcher(ls.codebase, ls.config.PollInterval())
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	content := []byte(params.TextDocument.Text)
	if d, ok := ls.config.DialectFor(path); ok {
		ls.codebase.UpdateFileWithDialect(path, content, d)
	} else if d, err := dialect.Lookup(params.TextDocument.LanguageID); err == nil {
		ls.codebase.UpdateFileWithDialect(path, content, d)
	} else {
		log.Debugf("ignoring %s: no dialect", path)
		return nil
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil || len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.codebase.UpdateFileWithDialect(path, []byte(textChange.Text), f.Dialect)
		ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	f := ls.codebase.GetFile(path)
	switch {
	case f != nil && params.Text != nil:
		ls.codebase.UpdateFileWithDialect(path, []byte(*params.Text), f.Dialect)
	case params.Text != nil:
		err = ls.codebase.UpdateFile(path, []byte(*params.Text))
	default:
		err = ls.codebase.ScanFile(path)
	}
	if err != nil {
		log.Debugf("save %s: %s", path, err)
		return nil
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, path string) {
	f := ls.codebase.GetFile(path)
	if f == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toProtocolDiagnostics(f),
	})
}

func toProtocolDiagnostics(f *FileInfo) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	diagnostics := []protocol.Diagnostic{}
	for _, d := range f.Diagnostics {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toRange(f, d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return diagnostics
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}

	offset := f.OffsetAt(int(params.Position.Line), int(params.Position.Character))
	res, ok := ls.codebase.CompletionsAt(path, offset)
	if !ok || len(res.Candidates) == 0 {
		return nil, nil
	}

	replace := toRange(f, res.Replace)
	var items []protocol.CompletionItem
	for _, c := range res.Candidates {
		kind := toProtocolKind(c.Source)
		item := protocol.CompletionItem{
			Label: c.Text,
			Kind:  &kind,
			TextEdit: protocol.TextEdit{
				Range:   replace,
				NewText: c.Text,
			},
		}
		if c.Detail != "" {
			detail := c.Detail
			item.Detail = &detail
		}
		items = append(items, item)
	}

	return items, nil
}

func toProtocolKind(source complete.Source) protocol.CompletionItemKind {
	switch source {
	case complete.SourceCommand:
		return protocol.CompletionItemKindKeyword
	case complete.SourceValue:
		return protocol.CompletionItemKindEnumMember
	case complete.SourceLabel:
		return protocol.CompletionItemKindReference
	default:
		return protocol.CompletionItemKindText
	}
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	offset := f.OffsetAt(int(params.Position.Line), int(params.Position.Character))
	text, span, ok := ls.codebase.HoverAt(path, offset)
	if !ok {
		return nil, nil
	}
	r := toRange(f, span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
		Range: &r,
	}, nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	offset := f.OffsetAt(int(params.Position.Line), int(params.Position.Character))
	label, ok := ls.codebase.DefinitionAt(path, offset)
	if !ok {
		return nil, nil
	}
	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: toRange(f, label.Span),
	}, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	symbols := []protocol.DocumentSymbol{}
	for _, l := range f.Labels.All() {
		r := toRange(f, l.Span)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           l.Name,
			Kind:           protocol.SymbolKindFunction,
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols, nil
}

func (ls *LSPServer) textDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return &protocol.SemanticTokens{Data: []protocol.UInteger{}}, nil
	}
	return &protocol.SemanticTokens{Data: f.SemanticTokens()}, nil
}

func toRange(f *FileInfo, span lexer.Span) protocol.Range {
	startLine, startChar := f.PointAt(span.Start.Offset)
	endLine, endChar := f.PointAt(span.End.Offset)
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(startLine), Character: protocol.UInteger(startChar)},
		End:   protocol.Position{Line: protocol.UInteger(endLine), Character: protocol.UInteger(endChar)},
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
