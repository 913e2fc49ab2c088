package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/ebnf"
)

// StartProduction is the root of every exported grammar.
const StartProduction = "Program"

// LineProduction matches one source line including its newline.
const LineProduction = "Line"

var fixedLexical = map[string]bool{
	"ident": true, "letter": true, "digit": true, "word": true,
	"comment": true, "char": true, "newline": true,
}

// EBNF renders the line grammar of the dialect in the notation accepted by
// golang.org/x/exp/ebnf. Words are separated by whitespace, which the
// grammar leaves implicit. Roles no command references are omitted.
func (d *Dialect) EBNF() string {
	var sb strings.Builder

	prods := make([]string, len(d.Commands))
	used := make(map[string]bool)
	taken := make(map[string]bool)
	for i, c := range d.Commands {
		name := productionName(c.Name)
		for taken[name] {
			name += "_"
		}
		taken[name] = true
		prods[i] = name
		for _, arg := range c.Args {
			used[arg] = true
		}
	}

	fmt.Fprintf(&sb, "%s = { %s } .\n", StartProduction, LineProduction)
	fmt.Fprintf(&sb, "%s = { Item } [ comment ] newline .\n", LineProduction)
	if len(prods) == 0 {
		sb.WriteString("Item = LabelDef .\n")
	} else {
		sb.WriteString("Item = LabelDef | Instruction .\n")
		fmt.Fprintf(&sb, "Instruction = %s .\n", strings.Join(prods, " | "))
	}
	sb.WriteString("LabelDef = ident \":\" .\n")

	for i, c := range d.Commands {
		fmt.Fprintf(&sb, "%s = %s", prods[i], strconv.Quote(c.Name))
		for _, arg := range c.Args {
			sb.WriteString(" " + arg)
		}
		sb.WriteString(" .\n")
	}

	for _, r := range d.Roles {
		if !used[r.RoleName()] {
			continue
		}
		switch r := r.(type) {
		case Enumerated:
			quoted := make([]string, len(r.Values))
			for i, v := range r.Values {
				quoted[i] = strconv.Quote(v)
			}
			fmt.Fprintf(&sb, "%s = %s .\n", r.Name, strings.Join(quoted, " | "))
		case Validated:
			syntax := r.Syntax
			if syntax == "" {
				syntax = "word"
				used["word"] = true
			}
			// The syntax goes into a lexical production so that no blanks
			// are allowed inside the word.
			lex := strings.ToLower(r.Name)
			for fixedLexical[lex] {
				lex += "_"
			}
			fmt.Fprintf(&sb, "%s = %s .\n%s = %s .\n", r.Name, lex, lex, syntax)
		}
	}

	sb.WriteString("ident = letter { letter | digit } .\n")
	sb.WriteString("letter = \"A\" … \"Z\" | \"a\" … \"z\" | \"_\" .\n")
	sb.WriteString("digit = \"0\" … \"9\" .\n")
	if used["word"] {
		sb.WriteString("word = ( \"!\" … \"~\" ) { \"!\" … \"~\" } .\n")
	}
	fmt.Fprintf(&sb, "comment = %s { char } .\n", strconv.Quote(d.CommentPrefix))
	sb.WriteString("char = \"!\" … \"~\" | \" \" | \"\\t\" | \"\\u0080\" … \"\\U0010FFFF\" .\n")
	sb.WriteString("newline = \"\\n\" .\n")

	return sb.String()
}

// Grammar parses and verifies the exported grammar.
func (d *Dialect) Grammar() (ebnf.Grammar, error) {
	src := d.EBNF()
	grammar, err := ebnf.Parse(d.Name+".ebnf", strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(grammar, StartProduction); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return grammar, nil
}

// productionName turns a command into a non-lexical production name.
func productionName(cmd string) string {
	var sb strings.Builder
	sb.WriteString("Cmd_")
	for _, r := range cmd {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
