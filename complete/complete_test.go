package complete

import (
	"strings"
	"testing"

	"github.com/torland/botls/dialect"
	"github.com/torland/botls/lexer"
	"kr.dev/diff"
)

func texts(cands []Candidate) []string {
	var out []string
	for _, c := range cands {
		out = append(out, c.Text)
	}
	return out
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name    string
		dialect *dialect.Dialect
		prefix  string
		labels  []string
		want    []string
	}{
		{
			name:    "pools concatenate without dedupe",
			dialect: dialect.BotLang(),
			prefix:  "a",
			labels:  []string{"alpha", "beta"},
			want:    []string{"absorb", "add", "addv", "ax", "ax", "ag", "alpha"},
		},
		{
			name:    "exact match excluded",
			dialect: dialect.BotLang(),
			prefix:  "add",
			want:    []string{"addv"},
		},
		{
			name:    "prefix case folded",
			dialect: dialect.BotLang(),
			prefix:  "AD",
			want:    []string{"add", "addv"},
		},
		{
			name:    "labels folded too",
			dialect: dialect.BotLang(),
			prefix:  "LO",
			labels:  []string{"Loop", "lo"},
			want:    []string{"Loop"},
		},
		{
			name:    "directives",
			dialect: dialect.BotLang(),
			prefix:  "#",
			want:    []string{"#len", "#mem_size"},
		},
		{
			name:    "empty prefix",
			dialect: dialect.BotLang(),
			prefix:  "",
			labels:  []string{"start"},
			want:    nil,
		},
		{
			name:    "no match",
			dialect: dialect.BotLang(),
			prefix:  "zz",
			want:    nil,
		},
		{
			name:    "nilang value categories in table order",
			dialect: dialect.NiLang(),
			prefix:  "F",
			labels:  []string{"Finish"},
			want:    []string{"Fun", "False", "Finish"},
		},
		{
			name:    "nilang is case sensitive",
			dialect: dialect.NiLang(),
			prefix:  "f",
			want:    []string{"front", "frontright", "frontleft"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(Candidates(tt.dialect, tt.prefix, tt.labels))
			diff.Test(t, t.Errorf, got, tt.want)
		})
	}
}

func TestCandidateSourcesAndDetails(t *testing.T) {
	got := Candidates(dialect.BotLang(), "sp", []string{"spot"})
	want := []Candidate{
		{Text: "split", Source: SourceCommand, Detail: "split Dir Label"},
		{Text: "spot", Source: SourceLabel},
	}
	diff.Test(t, t.Errorf, got, want)
}

func TestPrefixLaw(t *testing.T) {
	labelNames := []string{"start", "Loop", "end_2", "_tmp"}
	for _, d := range []*dialect.Dialect{dialect.BotLang(), dialect.NiLang()} {
		var words []string
		words = append(words, d.CommandNames()...)
		words = append(words, labelNames...)
		for _, r := range d.Roles {
			if e, ok := r.(dialect.Enumerated); ok {
				words = append(words, e.Values...)
			}
		}

		for _, w := range words {
			for i := 1; i <= len(w); i++ {
				prefix := w[:i]
				p := d.Normalize(prefix)
				for _, c := range Candidates(d, prefix, labelNames) {
					n := d.Normalize(c.Text)
					if !strings.HasPrefix(n, p) || n == p {
						t.Errorf("%s: prefix %q yielded %q", d.Name, prefix, c.Text)
					}
				}
			}
		}
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		offset      int
		wantPrefix  string
		wantTexts   []string
		wantReplace lexer.Span
	}{
		{
			name:       "end of buffer",
			text:       "start:\nmov front\nj",
			offset:     18,
			wantPrefix: "j",
			wantTexts: []string{
				"jmp", "jme", "jne", "jmg", "jml", "jle", "jge", "jmo", "jno",
				"jmb", "jnb", "jmc", "jnc", "jmf", "jnf",
			},
			wantReplace: lexer.Span{
				Start: lexer.Position{Offset: 17, Line: 3, Column: 1},
				End:   lexer.Position{Offset: 18, Line: 3, Column: 2},
			},
		},
		{
			name:       "middle of word uses the whole token",
			text:       "mov front",
			offset:     6,
			wantPrefix: "front",
			wantTexts:  []string{"frontright", "frontleft"},
			wantReplace: lexer.Span{
				Start: lexer.Position{Offset: 4, Line: 1, Column: 5},
				End:   lexer.Position{Offset: 9, Line: 1, Column: 10},
			},
		},
		{
			name:       "duplicate labels offered per definition",
			text:       "foo: foo:\nf",
			offset:     11,
			wantPrefix: "f",
			wantTexts:  []string{"fork", "front", "frontright", "frontleft", "foo", "foo"},
			wantReplace: lexer.Span{
				Start: lexer.Position{Offset: 10, Line: 2, Column: 1},
				End:   lexer.Position{Offset: 11, Line: 2, Column: 2},
			},
		},
		{
			name:       "cursor at word start",
			text:       "jmp st\nstart:",
			offset:     4,
			wantPrefix: "st",
			wantTexts:  []string{"start"},
			wantReplace: lexer.Span{
				Start: lexer.Position{Offset: 4, Line: 1, Column: 5},
				End:   lexer.Position{Offset: 6, Line: 1, Column: 7},
			},
		},
		{
			name:       "cursor on whitespace",
			text:       "mov  ",
			offset:     4,
			wantPrefix: "",
			wantTexts:  nil,
			wantReplace: lexer.Span{
				Start: lexer.Position{Offset: 4, Line: 1, Column: 5},
				End:   lexer.Position{Offset: 4, Line: 1, Column: 5},
			},
		},
		{
			name:       "offset clamped",
			text:       "ca",
			offset:     99,
			wantPrefix: "ca",
			wantTexts:  []string{"call"},
			wantReplace: lexer.Span{
				Start: lexer.Position{Offset: 0, Line: 1, Column: 1},
				End:   lexer.Position{Offset: 2, Line: 1, Column: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Complete(dialect.BotLang(), tt.text, tt.offset)
			if res.Prefix != tt.wantPrefix {
				t.Errorf("Prefix = %q, want %q", res.Prefix, tt.wantPrefix)
			}
			diff.Test(t, t.Errorf, texts(res.Candidates), tt.wantTexts)
			diff.Test(t, t.Errorf, res.Replace, tt.wantReplace)
		})
	}
}
