// Package complete suggests words for the token under the cursor.
//
// Candidates come from three pools, in this order: the dialect's commands,
// the values of its enumerated roles in table order, and the labels defined
// in the buffer. The pools are concatenated without ranking or
// de-duplication.
package complete

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/torland/botls/dialect"
	"github.com/torland/botls/labels"
	"github.com/torland/botls/lexer"
)

// Source tells which pool a candidate came from.
type Source int

const (
	SourceCommand Source = iota
	SourceValue
	SourceLabel
)

func (s Source) String() string {
	switch s {
	case SourceCommand:
		return "command"
	case SourceValue:
		return "value"
	case SourceLabel:
		return "label"
	default:
		return "unknown"
	}
}

type Candidate struct {
	Text   string
	Source Source
	// Detail is the command signature, the role name of a value, or empty
	// for labels.
	Detail string
}

type Result struct {
	Prefix     string
	Candidates []Candidate
	// Replace covers the whole word under the cursor.
	Replace lexer.Span
}

// Texts returns the candidate strings in order.
func (r Result) Texts() []string {
	texts := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		texts[i] = c.Text
	}
	return texts
}

// Candidates filters the pools by prefix. A candidate is kept when it
// starts with prefix and differs from it, both compared under the
// dialect's case policy. An empty prefix yields nothing.
func Candidates(d *dialect.Dialect, prefix string, labelNames []string) []Candidate {
	if prefix == "" {
		return nil
	}
	p := d.Normalize(prefix)
	keep := func(s string) bool {
		s = d.Normalize(s)
		return s != p && strings.HasPrefix(s, p)
	}

	var out []Candidate
	for _, c := range d.Commands {
		if keep(c.Name) {
			out = append(out, Candidate{Text: c.Name, Source: SourceCommand, Detail: c.Signature()})
		}
	}
	for _, r := range d.Roles {
		enum, ok := r.(dialect.Enumerated)
		if !ok {
			continue
		}
		for _, v := range enum.Values {
			if keep(v) {
				out = append(out, Candidate{Text: v, Source: SourceValue, Detail: enum.Name})
			}
		}
	}
	for _, name := range labelNames {
		if keep(name) {
			out = append(out, Candidate{Text: name, Source: SourceLabel})
		}
	}
	return out
}

// Complete finds the word around offset in text and returns the
// candidates for the whole of it.
func Complete(d *dialect.Dialect, text string, offset int) Result {
	offset = max(0, min(offset, len(text)))

	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsSpace(r) {
			break
		}
		start -= size
	}
	end := offset
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if unicode.IsSpace(r) {
			break
		}
		end += size
	}

	prefix := text[start:end]
	var names []string
	if prefix != "" {
		names = labels.Build(d, text).Names()
	}

	return Result{
		Prefix:     prefix,
		Candidates: Candidates(d, prefix, names),
		Replace: lexer.Span{
			Start: positionAt(text, start),
			End:   positionAt(text, end),
		},
	}
}

func positionAt(text string, offset int) lexer.Position {
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return lexer.Position{
		Offset: offset,
		Line:   strings.Count(text[:offset], "\n") + 1,
		Column: offset - lineStart + 1,
	}
}
