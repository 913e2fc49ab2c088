// Package labels indexes the label definitions of a whole buffer.
//
// The index is rebuilt from scratch on every call and does not police
// duplicates: a label defined twice is recorded and named twice. Every
// whitespace separated word counts, comments included.
package labels

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/torland/botls/dialect"
	"github.com/torland/botls/lexer"
)

// Label is one definition occurrence. Span covers the word including its
// colon.
type Label struct {
	Name string
	Span lexer.Span
}

type Index struct {
	dialect *dialect.Dialect
	labels  []Label
	byName  map[string][]int
}

// Build scans text for label definitions.
func Build(d *dialect.Dialect, text string) *Index {
	idx := &Index{
		dialect: d,
		byName:  make(map[string][]int),
	}

	offset := 0
	for lineNo, line := range strings.Split(text, "\n") {
		idx.scanLine(line, lineNo+1, offset)
		offset += len(line) + 1
	}
	return idx
}

func (idx *Index) scanLine(line string, lineNo, base int) {
	pos := 0
	for pos < len(line) {
		r, size := utf8.DecodeRuneInString(line[pos:])
		if unicode.IsSpace(r) {
			pos += size
			continue
		}

		start := pos
		for pos < len(line) {
			r, size := utf8.DecodeRuneInString(line[pos:])
			if unicode.IsSpace(r) {
				break
			}
			pos += size
		}

		name, ok := dialect.DefinedLabel(line[start:pos])
		if !ok {
			continue
		}
		key := idx.dialect.Normalize(name)
		idx.byName[key] = append(idx.byName[key], len(idx.labels))
		idx.labels = append(idx.labels, Label{
			Name: name,
			Span: lexer.Span{
				Start: lexer.Position{Offset: base + start, Line: lineNo, Column: start + 1},
				End:   lexer.Position{Offset: base + pos, Line: lineNo, Column: pos + 1},
			},
		})
	}
}

// All returns every definition in buffer order.
func (idx *Index) All() []Label {
	return idx.labels
}

// Names returns the name of every definition in buffer order. A label
// defined twice is named twice.
func (idx *Index) Names() []string {
	var names []string
	for _, l := range idx.labels {
		names = append(names, l.Name)
	}
	return names
}

// Lookup returns the definitions of name under the dialect's case policy.
func (idx *Index) Lookup(name string) []Label {
	var out []Label
	for _, i := range idx.byName[idx.dialect.Normalize(name)] {
		out = append(out, idx.labels[i])
	}
	return out
}
