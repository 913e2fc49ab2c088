package format

import (
	"encoding/json"
	"io"

	"github.com/torland/botls/lexer"
)

type JSONEncoder struct {
	w   io.Writer
	doc *Document
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := jsonDocument{
		Path:    e.doc.Path,
		Dialect: e.doc.Dialect,
		Tokens:  JSONTokens(e.doc.Tokens),
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonDocument struct {
	Path    string      `json:"path,omitempty"`
	Dialect string      `json:"dialect"`
	Tokens  []JSONToken `json:"tokens"`
}

// JSONToken is the wire form of a token shared by the CLI and the
// playground.
type JSONToken struct {
	Text     string       `json:"text"`
	Category string       `json:"category"`
	Start    JSONPosition `json:"start"`
	End      JSONPosition `json:"end"`
	Role     string       `json:"role,omitempty"`
	Message  string       `json:"message,omitempty"`
}

type JSONPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func NewJSONToken(tok lexer.Token) JSONToken {
	return JSONToken{
		Text:     tok.Text,
		Category: tok.Category.String(),
		Start:    jsonPosition(tok.Span.Start),
		End:      jsonPosition(tok.Span.End),
		Role:     tok.Role,
		Message:  tok.Message(),
	}
}

func JSONTokens(tokens []lexer.Token) []JSONToken {
	result := make([]JSONToken, len(tokens))
	for i, tok := range tokens {
		result[i] = NewJSONToken(tok)
	}
	return result
}

func jsonPosition(p lexer.Position) JSONPosition {
	return JSONPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}
