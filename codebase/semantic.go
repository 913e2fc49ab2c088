package codebase

import (
	"github.com/torland/botls/dialect"
)

// Semantic token legend advertised to clients. The order of the slices
// fixes the indices used in the encoded data.
var (
	TokenTypes     = []string{"keyword", "variable", "number", "function", "property", "comment"}
	TokenModifiers = []string{"declaration"}
)

const (
	typeKeyword = iota
	typeVariable
	typeNumber
	typeFunction
	typeProperty
	typeComment
)

const modDeclaration = 1 << 0

// semanticType maps a category to a legend index. Plain words and errors
// are left to diagnostics and get no semantic token.
func semanticType(c dialect.Category) (typ, mods int, ok bool) {
	switch c {
	case dialect.Keyword:
		return typeKeyword, 0, true
	case dialect.Variable:
		return typeVariable, 0, true
	case dialect.Number:
		return typeNumber, 0, true
	case dialect.LabelDef:
		return typeFunction, modDeclaration, true
	case dialect.LabelRef:
		return typeFunction, 0, true
	case dialect.Memory:
		return typeProperty, 0, true
	case dialect.Comment:
		return typeComment, 0, true
	}
	return 0, 0, false
}

// SemanticTokens encodes the file's tokens in the LSP relative format:
// five integers per token (delta line, delta start, length, type,
// modifiers), with positions and lengths in UTF-16 units.
func (f *FileInfo) SemanticTokens() []uint32 {
	var data []uint32
	prevLine, prevChar := 0, 0
	for _, tok := range f.Tokens {
		typ, mods, ok := semanticType(tok.Category)
		if !ok {
			continue
		}
		line, char := f.PointAt(tok.Span.Start.Offset)
		_, endChar := f.PointAt(tok.Span.End.Offset)

		deltaChar := char
		if line == prevLine {
			deltaChar = char - prevChar
		}
		data = append(data,
			uint32(line-prevLine),
			uint32(deltaChar),
			uint32(endChar-char),
			uint32(typ),
			uint32(mods),
		)
		prevLine, prevChar = line, char
	}
	return data
}
