package codebase

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tliron/commonlog"

	"github.com/torland/botls/complete"
	"github.com/torland/botls/dialect"
	"github.com/torland/botls/labels"
	"github.com/torland/botls/lexer"
)

var log = commonlog.GetLogger("botls.codebase")

// Resolver picks the dialect of a file.
type Resolver interface {
	DialectFor(path string) (*dialect.Dialect, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(path string) (*dialect.Dialect, bool)

func (f ResolverFunc) DialectFor(path string) (*dialect.Dialect, bool) {
	return f(path)
}

type Codebase struct {
	mu       sync.RWMutex
	rootDir  string
	resolver Resolver
	files    map[string]*FileInfo
}

type FileInfo struct {
	Path        string
	Content     []byte
	Dialect     *dialect.Dialect
	Tokens      []lexer.Token
	Labels      *labels.Index
	Diagnostics []Diagnostic

	lineStarts []int
}

// Diagnostic is an error token in a form ready for reporting.
type Diagnostic struct {
	Span    lexer.Span
	Problem lexer.Problem
	Message string
}

func New(rootDir string, resolver Resolver) *Codebase {
	if resolver == nil {
		resolver = ResolverFunc(dialect.ForPath)
	}
	return &Codebase{
		rootDir:  rootDir,
		resolver: resolver,
		files:    make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// Supports reports whether path belongs to a known dialect.
func (c *Codebase) Supports(path string) bool {
	_, ok := c.resolver.DialectFor(path)
	return ok
}

func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != c.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if c.Supports(path) {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

// UpdateFile re-scans a file with the dialect chosen by the resolver.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	d, ok := c.resolver.DialectFor(path)
	if !ok {
		return fmt.Errorf("%s: no dialect for file", path)
	}
	c.UpdateFileWithDialect(path, content, d)
	return nil
}

// UpdateFileWithDialect re-scans a file with an explicit dialect.
func (c *Codebase) UpdateFileWithDialect(path string, content []byte, d *dialect.Dialect) *FileInfo {
	f := analyze(path, content, d)

	c.mu.Lock()
	c.files[path] = f
	c.mu.Unlock()

	log.Debugf("updated %s (%s): %d tokens, %d diagnostics", path, d.Name, len(f.Tokens), len(f.Diagnostics))
	return f
}

func analyze(path string, content []byte, d *dialect.Dialect) *FileInfo {
	text := string(content)
	f := &FileInfo{
		Path:       path,
		Content:    content,
		Dialect:    d,
		Tokens:     lexer.Tokenize(d, text),
		Labels:     labels.Build(d, text),
		lineStarts: []int{0},
	}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	for _, tok := range f.Tokens {
		if tok.Category == dialect.Error {
			f.Diagnostics = append(f.Diagnostics, Diagnostic{
				Span:    tok.Span,
				Problem: tok.Problem,
				Message: tok.Message(),
			})
		}
	}
	return f
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths lists the known files in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// CompletionsAt completes the word around offset in the file at path.
func (c *Codebase) CompletionsAt(path string, offset int) (complete.Result, bool) {
	f := c.GetFile(path)
	if f == nil {
		return complete.Result{}, false
	}
	return complete.Complete(f.Dialect, string(f.Content), offset), true
}

// DefinitionAt resolves the label reference at offset to its first
// definition.
func (c *Codebase) DefinitionAt(path string, offset int) (labels.Label, bool) {
	f := c.GetFile(path)
	if f == nil {
		return labels.Label{}, false
	}
	tok, ok := f.TokenAt(offset)
	if !ok || tok.Category != dialect.LabelRef {
		return labels.Label{}, false
	}
	defs := f.Labels.Lookup(tok.Text)
	if len(defs) == 0 {
		return labels.Label{}, false
	}
	return defs[0], true
}

// HoverAt describes the token at offset in Markdown.
func (c *Codebase) HoverAt(path string, offset int) (string, lexer.Span, bool) {
	f := c.GetFile(path)
	if f == nil {
		return "", lexer.Span{}, false
	}
	tok, ok := f.TokenAt(offset)
	if !ok {
		return "", lexer.Span{}, false
	}

	switch tok.Category {
	case dialect.Keyword:
		cmd, _ := f.Dialect.Command(tok.Text)
		text := "`" + cmd.Signature() + "`"
		if cmd.Doc != "" {
			text += "\n\n" + cmd.Doc
		}
		return text, tok.Span, true
	case dialect.LabelRef:
		defs := f.Labels.Lookup(tok.Text)
		if len(defs) == 0 {
			return fmt.Sprintf("label `%s` (undefined)", tok.Text), tok.Span, true
		}
		return fmt.Sprintf("label `%s` defined on line %d", defs[0].Name, defs[0].Span.Start.Line), tok.Span, true
	case dialect.Error:
		return tok.Message(), tok.Span, true
	}
	if tok.Category.IsOperand() {
		return fmt.Sprintf("%s `%s`", tok.Role, tok.Text), tok.Span, true
	}
	return "", lexer.Span{}, false
}

// TokenAt returns the token whose span holds offset. A cursor right after
// a word still selects it.
func (f *FileInfo) TokenAt(offset int) (lexer.Token, bool) {
	i := sort.Search(len(f.Tokens), func(i int) bool {
		return f.Tokens[i].Span.End.Offset >= offset
	})
	if i < len(f.Tokens) && f.Tokens[i].Span.Contains(offset) {
		return f.Tokens[i], true
	}
	return lexer.Token{}, false
}

// OffsetAt converts a 0-based line and UTF-16 character index to a byte
// offset, clamping to the line end.
func (f *FileInfo) OffsetAt(line, char int) int {
	if line < 0 {
		return 0
	}
	if line >= len(f.lineStarts) {
		return len(f.Content)
	}
	start := f.lineStarts[line]
	end := len(f.Content)
	if line+1 < len(f.lineStarts) {
		end = f.lineStarts[line+1] - 1
	}

	units := 0
	pos := start
	for pos < end && units < char {
		r, size := utf8.DecodeRune(f.Content[pos:end])
		units += utf16Len(r)
		pos += size
	}
	return pos
}

// PointAt converts a byte offset to a 0-based line and UTF-16 character
// index.
func (f *FileInfo) PointAt(offset int) (line, char int) {
	offset = max(0, min(offset, len(f.Content)))
	line = sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	for pos := f.lineStarts[line]; pos < offset; {
		r, size := utf8.DecodeRune(f.Content[pos:offset])
		char += utf16Len(r)
		pos += size
	}
	return line, char
}

func utf16Len(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}
