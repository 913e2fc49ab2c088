// Package ebnflex matches text against EBNF grammars.
//
// Productions follow the golang.org/x/exp/ebnf convention: a name starting
// with a lower-case letter is lexical and matches characters exactly. Inside
// the other productions blanks (space, tab, carriage return) may precede
// every terminal, and a terminal ending in a word character must not be
// directly followed by another one.
//
// Matching is greedy: alternatives take their longest match and
// repetitions never give input back.
package ebnflex

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

const noMatch = -1

// Position is a location in the input. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

type Option func(*Matcher)

// FoldCase makes literal tokens match regardless of case.
func FoldCase() Option {
	return func(m *Matcher) { m.fold = true }
}

type Matcher struct {
	grammar  ebnf.Grammar
	input    []byte
	fold     bool
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func NewMatcher(grammar ebnf.Grammar, input []byte, opts ...Option) *Matcher {
	m := &Matcher{
		grammar:  grammar,
		input:    input,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match returns the length of the longest prefix of the input at offset
// matched by the named production, or false if there is none.
func (m *Matcher) Match(name string, offset int) (int, bool) {
	n := m.matchName(name, offset)
	return n, n != noMatch
}

// RejectedLines matches production against every line of the input and
// returns the start of each line it does not consume completely, newline
// included. A missing final newline is supplied.
func (m *Matcher) RejectedLines(production string) []Position {
	if len(m.input) > 0 && m.input[len(m.input)-1] != '\n' {
		m.input = append(m.input[:len(m.input):len(m.input)], '\n')
		m.memo = make(map[memoKey]int)
	}

	var rejected []Position
	line := 1
	for offset := 0; offset < len(m.input); line++ {
		end := offset
		for m.input[end] != '\n' {
			end++
		}
		n, ok := m.Match(production, offset)
		if !ok || n != end+1-offset {
			rejected = append(rejected, Position{Offset: offset, Line: line, Column: 1})
		}
		offset = end + 1
	}
	return rejected
}

func (m *Matcher) match(expr ebnf.Expression, offset int, lexical bool) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		skip := m.blanks(offset, lexical)
		n := m.matchToken(e.String, offset+skip)
		return m.bounded(offset, skip, n, lexical)

	case *ebnf.Range:
		skip := m.blanks(offset, lexical)
		n := m.matchRange(e.Begin.String, e.End.String, offset+skip)
		return m.bounded(offset, skip, n, lexical)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := m.match(item, offset+total, lexical)
			if n == noMatch {
				return noMatch
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := noMatch
		for _, alt := range e {
			if n := m.match(alt, offset, lexical); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := m.match(e.Body, offset+total, lexical)
			if n <= 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		if n := m.match(e.Body, offset, lexical); n != noMatch {
			return n
		}
		return 0

	case *ebnf.Group:
		return m.match(e.Body, offset, lexical)

	case *ebnf.Name:
		if lexical || !isLexical(e.String) {
			return m.matchName(e.String, offset)
		}
		// A lexical production used as a terminal of a syntactic one.
		skip := m.blanks(offset, false)
		n := m.matchName(e.String, offset+skip)
		return m.bounded(offset, skip, n, false)

	default:
		return noMatch
	}
}

// matchName matches a named production with memoization and cycle
// detection.
func (m *Matcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}

	if result, ok := m.memo[key]; ok {
		return result
	}

	// Left recursion: the production is already being tried here.
	if m.visiting[key] {
		return noMatch
	}

	prod, ok := m.grammar[name]
	if !ok || prod.Expr == nil {
		m.memo[key] = noMatch
		return noMatch
	}

	m.visiting[key] = true
	result := m.match(prod.Expr, offset, isLexical(name))
	delete(m.visiting, key)

	m.memo[key] = result
	return result
}

func (m *Matcher) matchToken(lit string, offset int) int {
	if offset+len(lit) > len(m.input) {
		return noMatch
	}
	got := string(m.input[offset : offset+len(lit)])
	if got == lit || (m.fold && strings.EqualFold(got, lit)) {
		return len(lit)
	}
	return noMatch
}

func (m *Matcher) matchRange(begin, end string, offset int) int {
	if offset >= len(m.input) {
		return noMatch
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRune(m.input[offset:])
	if r == utf8.RuneError && size <= 1 {
		return noMatch
	}
	if r >= lo && r <= hi {
		return size
	}
	return noMatch
}

// blanks counts the blanks at offset that a syntactic production skips.
func (m *Matcher) blanks(offset int, lexical bool) int {
	if lexical {
		return 0
	}
	n := 0
	for offset+n < len(m.input) {
		switch m.input[offset+n] {
		case ' ', '\t', '\r':
			n++
		default:
			return n
		}
	}
	return n
}

// bounded adds the skipped blanks to a terminal match and rejects it when
// it ends inside a word.
func (m *Matcher) bounded(offset, skip, n int, lexical bool) int {
	if n == noMatch {
		return noMatch
	}
	end := offset + skip + n
	if !lexical && n > 0 && end < len(m.input) {
		last, _ := utf8.DecodeLastRune(m.input[:end])
		next, _ := utf8.DecodeRune(m.input[end:])
		if isWord(last) && isWord(next) {
			return noMatch
		}
	}
	return skip + n
}

func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
