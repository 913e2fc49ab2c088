package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/torland/botls/dialect"
	"kr.dev/diff"
)

const sample = "start:\nmov front // go\njmp start\njmp nowhere\nmov up"

func newSample(t *testing.T) (*Codebase, string) {
	t.Helper()
	c := New(t.TempDir(), nil)
	path := filepath.Join(c.RootDir(), "main.bot")
	if err := c.UpdateFile(path, []byte(sample)); err != nil {
		t.Fatalf("UpdateFile() error = %v", err)
	}
	return c, path
}

func TestUpdateFile(t *testing.T) {
	c, path := newSample(t)

	f := c.GetFile(path)
	if f == nil {
		t.Fatal("GetFile() = nil")
	}
	if f.Dialect.Name != "botlang" {
		t.Errorf("Dialect = %s, want botlang", f.Dialect.Name)
	}
	if got := len(f.Tokens); got != 10 {
		t.Errorf("len(Tokens) = %d, want 10", got)
	}
	diff.Test(t, t.Errorf, f.Labels.Names(), []string{"start"})

	if err := c.UpdateFile("notes.txt", []byte("mov")); err == nil {
		t.Error("UpdateFile(notes.txt) error = nil, want error")
	}
	diff.Test(t, t.Errorf, c.Paths(), []string{path})

	c.RemoveFile(path)
	if c.GetFile(path) != nil {
		t.Error("GetFile() after RemoveFile != nil")
	}
}

func TestDiagnostics(t *testing.T) {
	c, path := newSample(t)
	f := c.GetFile(path)

	if len(f.Diagnostics) != 1 {
		t.Fatalf("len(Diagnostics) = %d, want 1", len(f.Diagnostics))
	}
	d := f.Diagnostics[0]
	if d.Message != `"up" is not a valid Dir` {
		t.Errorf("Message = %q", d.Message)
	}
	if d.Span.Start.Offset != 49 || d.Span.End.Offset != 51 {
		t.Errorf("Span = %d..%d, want 49..51", d.Span.Start.Offset, d.Span.End.Offset)
	}
}

func TestScanAll(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.bot":         "mov front",
		"sub/b.ni":      "If True",
		"notes.txt":     "mov up",
		".hidden/c.bot": "nop",
		"sub/d.botlang": "nop",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := New(dir, nil)
	if err := c.ScanAll(); err != nil {
		t.Fatalf("ScanAll() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.bot"),
		filepath.Join(dir, "sub/b.ni"),
		filepath.Join(dir, "sub/d.botlang"),
	}
	diff.Test(t, t.Errorf, c.Paths(), want)

	if got := c.GetFile(filepath.Join(dir, "sub/b.ni")).Dialect.Name; got != "nilang" {
		t.Errorf("b.ni dialect = %s, want nilang", got)
	}
}

func TestResolverFunc(t *testing.T) {
	c := New(t.TempDir(), ResolverFunc(func(string) (*dialect.Dialect, bool) {
		return dialect.NiLang(), true
	}))
	if err := c.UpdateFile("x.txt", []byte("If")); err != nil {
		t.Fatalf("UpdateFile() error = %v", err)
	}
	if got := c.GetFile("x.txt").Dialect.Name; got != "nilang" {
		t.Errorf("Dialect = %s, want nilang", got)
	}
}

func TestCompletionsAt(t *testing.T) {
	c := New(t.TempDir(), nil)
	path := filepath.Join(c.RootDir(), "main.bot")
	if err := c.UpdateFile(path, []byte("start:\nstarter:\njmp start")); err != nil {
		t.Fatalf("UpdateFile() error = %v", err)
	}

	// "jmp st|art" completes the whole token.
	res, ok := c.CompletionsAt(path, 22)
	if !ok {
		t.Fatal("CompletionsAt() ok = false")
	}
	if res.Prefix != "start" {
		t.Errorf("Prefix = %q, want start", res.Prefix)
	}
	diff.Test(t, t.Errorf, res.Texts(), []string{"starter"})
	if res.Replace.Start.Offset != 20 || res.Replace.End.Offset != 25 {
		t.Errorf("Replace = %d..%d, want 20..25", res.Replace.Start.Offset, res.Replace.End.Offset)
	}

	if _, ok := c.CompletionsAt("missing.bot", 0); ok {
		t.Error("CompletionsAt(missing) ok = true")
	}
}

func TestDefinitionAt(t *testing.T) {
	c, path := newSample(t)

	tests := []struct {
		name   string
		offset int
		want   bool
	}{
		{"label reference", 28, true},
		{"end of reference", 32, true},
		{"undefined label", 40, false},
		{"command", 24, false},
		{"command at line start", 45, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := c.DefinitionAt(path, tt.offset)
			if ok != tt.want {
				t.Fatalf("DefinitionAt(%d) ok = %v, want %v", tt.offset, ok, tt.want)
			}
			if ok && (l.Name != "start" || l.Span.Start.Offset != 0) {
				t.Errorf("DefinitionAt(%d) = %+v", tt.offset, l)
			}
		})
	}
}

func TestHoverAt(t *testing.T) {
	c, path := newSample(t)

	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"command", 8, "`mov Dir`"},
		{"operand", 12, "Dir `front`"},
		{"label", 28, "label `start` defined on line 1"},
		{"undefined label", 40, "label `nowhere` (undefined)"},
		{"error", 50, `"up" is not a valid Dir`},
		{"comment", 20, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _ := c.HoverAt(path, tt.offset)
			if !strings.HasPrefix(got, tt.want) || (tt.want == "" && got != "") {
				t.Errorf("HoverAt(%d) = %q, want prefix %q", tt.offset, got, tt.want)
			}
		})
	}
}

func TestOffsetAndPoint(t *testing.T) {
	f := analyze("x.bot", []byte("é😀x\nab"), dialect.BotLang())

	offsets := []struct {
		line, char int
		want       int
	}{
		{0, 0, 0},
		{0, 1, 2},
		{0, 3, 6},
		{0, 99, 7},
		{1, 1, 9},
		{5, 0, 10},
		{-1, 4, 0},
	}
	for _, tt := range offsets {
		if got := f.OffsetAt(tt.line, tt.char); got != tt.want {
			t.Errorf("OffsetAt(%d, %d) = %d, want %d", tt.line, tt.char, got, tt.want)
		}
	}

	points := []struct {
		offset     int
		line, char int
	}{
		{0, 0, 0},
		{6, 0, 3},
		{7, 0, 4},
		{8, 1, 0},
		{9, 1, 1},
		{99, 1, 2},
	}
	for _, tt := range points {
		line, char := f.PointAt(tt.offset)
		if line != tt.line || char != tt.char {
			t.Errorf("PointAt(%d) = %d:%d, want %d:%d", tt.offset, line, char, tt.line, tt.char)
		}
	}
}
