// Package format writes token streams and diagnostics for the command line.
package format

import (
	"encoding"

	"github.com/torland/botls/dialect"
	"github.com/torland/botls/lexer"
)

// Document is a scanned buffer.
type Document struct {
	Path    string
	Dialect string
	Tokens  []lexer.Token
}

// Problems returns the error tokens of the document.
func (d *Document) Problems() []lexer.Token {
	var out []lexer.Token
	for _, tok := range d.Tokens {
		if tok.Category == dialect.Error {
			out = append(out, tok)
		}
	}
	return out
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *Document) error
}
