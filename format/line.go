package format

import (
	"fmt"
	"io"
	"strings"
)

// LineEncoder prints one token per line: position, category, text and the
// argument role (or "-").
type LineEncoder struct {
	w   io.Writer
	doc *Document
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.doc.Tokens {
		role := tok.Role
		if role == "" {
			role = "-"
		}
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", tok.Span.Start, tok.Category, tok.Text, role)
	}
	return []byte(sb.String()), nil
}

// DiagnosticEncoder prints the document's problems as path:line:col: message.
type DiagnosticEncoder struct {
	w   io.Writer
	doc *Document
}

func NewDiagnosticEncoder(w io.Writer) *DiagnosticEncoder {
	return &DiagnosticEncoder{w: w}
}

func (e *DiagnosticEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *DiagnosticEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.doc.Problems() {
		fmt.Fprintf(&sb, "%s:%s: %s\n", e.doc.Path, tok.Span.Start, tok.Message())
	}
	return []byte(sb.String()), nil
}
