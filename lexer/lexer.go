// Package lexer classifies the words of a bot program.
//
// The lexer is driven by a dialect table. Outside an instruction a word is
// a label definition, a command keyword or plain text. A command queues the
// roles of its operands, and each following word on the same line is
// checked against the next queued role. Malformed operands and duplicate
// labels are reported as Error tokens; scanning never stops early.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/torland/botls/dialect"
)

// State is the scan state shared by the lines of one scan.
type State struct {
	pending []dialect.ArgRole
	labels  map[string]bool
}

func NewState() *State {
	return &State{labels: make(map[string]bool)}
}

// Pending returns the names of the roles still expected.
func (s *State) Pending() []string {
	names := make([]string, len(s.pending))
	for i, r := range s.pending {
		names[i] = r.RoleName()
	}
	return names
}

// Seen reports whether a label with the given normalised name was defined
// earlier in the scan.
func (s *State) Seen(name string) bool {
	return s.labels[name]
}

// EndLine drops the roles of an unfinished instruction.
func (s *State) EndLine() {
	s.pending = nil
}

func (s *State) pop() (dialect.ArgRole, bool) {
	if len(s.pending) == 0 {
		return nil, false
	}
	r := s.pending[0]
	s.pending = s.pending[1:]
	return r, true
}

type Lexer struct {
	dialect *dialect.Dialect
	state   *State
	input   string
	pos     int
	line    int
	column  int
}

// NewLexer starts a scan of text with a fresh state.
func NewLexer(d *dialect.Dialect, text string) *Lexer {
	return newLexer(d, NewState(), text, 1)
}

func newLexer(d *dialect.Dialect, state *State, text string, line int) *Lexer {
	return &Lexer{
		dialect: d,
		state:   state,
		input:   text,
		line:    line,
		column:  1,
	}
}

func (l *Lexer) State() *State {
	return l.state
}

func (l *Lexer) Position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

// Next returns the next classified token. It reports false once the input
// is exhausted. Roles still pending at the end of the input stay in the
// state.
func (l *Lexer) Next() (Token, bool) {
	for l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.state.EndLine()
			l.advance(1)
			continue
		}

		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) {
			l.advance(size)
			continue
		}

		if strings.HasPrefix(l.input[l.pos:], l.dialect.CommentPrefix) {
			return l.scanComment(), true
		}

		return l.scanWord(), true
	}
	return Token{}, false
}

func (l *Lexer) scanComment() Token {
	start := l.Position()
	end := strings.IndexByte(l.input[l.pos:], '\n')
	if end < 0 {
		end = len(l.input) - l.pos
	}
	text := strings.TrimRight(l.input[l.pos:l.pos+end], "\r")
	l.advance(len(text))
	return Token{
		Text:     text,
		Span:     Span{Start: start, End: l.Position()},
		Category: dialect.Comment,
	}
}

func (l *Lexer) scanWord() Token {
	start := l.Position()
	n := 0
	for l.pos+n < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos+n:])
		if unicode.IsSpace(r) {
			break
		}
		n += size
	}
	word := l.input[l.pos : l.pos+n]
	l.advance(n)

	tok := Token{
		Text: word,
		Span: Span{Start: start, End: l.Position()},
	}
	l.classify(&tok)
	return tok
}

func (l *Lexer) classify(tok *Token) {
	if role, ok := l.state.pop(); ok {
		tok.Role = role.RoleName()
		tok.Category = l.dialect.Match(role, tok.Text)
		if tok.Category == dialect.Error {
			tok.Problem = MalformedArgument
		}
		return
	}

	if name, ok := dialect.DefinedLabel(tok.Text); ok {
		key := l.dialect.Normalize(name)
		if l.state.labels[key] {
			tok.Category = dialect.Error
			tok.Problem = DuplicateLabel
			return
		}
		l.state.labels[key] = true
		tok.Category = dialect.LabelDef
		return
	}

	if cmd, ok := l.dialect.Command(tok.Text); ok {
		tok.Category = dialect.Keyword
		l.state.pending = make([]dialect.ArgRole, 0, len(cmd.Args))
		for _, arg := range cmd.Args {
			role, _ := l.dialect.ArgRole(arg)
			l.state.pending = append(l.state.pending, role)
		}
		return
	}

	tok.Category = dialect.Plain
}

// Tokenize classifies every word of text in a single scan. Labels are
// tracked across lines, operand expectations end with their line.
func Tokenize(d *dialect.Dialect, text string) []Token {
	l := NewLexer(d, text)
	var tokens []Token
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// TokenizeLine classifies one line as part of the scan held by state.
// lineNo numbers the positions of the returned tokens; offsets are relative
// to the start of line.
func TokenizeLine(d *dialect.Dialect, state *State, line string, lineNo int) []Token {
	l := newLexer(d, state, line, lineNo)
	var tokens []Token
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	state.EndLine()
	return tokens
}
