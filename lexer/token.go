package lexer

import (
	"fmt"

	"github.com/torland/botls/dialect"
)

// Position is a location in the scanned text. Line and Column are 1-based,
// Column counts bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers [Start, End).
type Span struct {
	Start Position
	End   Position
}

// Contains reports whether offset lies inside the span or at its end.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset <= s.End.Offset
}

// Problem explains why a token was classified as an error.
type Problem int

const (
	NoProblem Problem = iota
	MalformedArgument
	DuplicateLabel
)

func (p Problem) String() string {
	switch p {
	case NoProblem:
		return "none"
	case MalformedArgument:
		return "malformed argument"
	case DuplicateLabel:
		return "duplicate label"
	default:
		return fmt.Sprintf("Problem(%d)", int(p))
	}
}

// Token is one classified word or comment.
type Token struct {
	Text     string
	Span     Span
	Category dialect.Category
	// Role is the argument role the word was checked against, empty outside
	// argument positions.
	Role    string
	Problem Problem
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Span.Start, t.Category, t.Text)
}

// Message describes the problem of an error token.
func (t Token) Message() string {
	switch t.Problem {
	case MalformedArgument:
		return fmt.Sprintf("%q is not a valid %s", t.Text, t.Role)
	case DuplicateLabel:
		return fmt.Sprintf("label %s is already defined", t.Text[:len(t.Text)-1])
	default:
		return ""
	}
}
