// Package dialect describes the bot control languages as static tables.
//
// A Dialect lists its commands, the ordered argument roles each command
// expects and how every role validates a word. The lexer and completion
// engine are driven entirely by these tables.
package dialect

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Category is the classification assigned to a token.
type Category int

const (
	Plain Category = iota
	Comment
	Keyword
	LabelDef
	Variable
	Number
	LabelRef
	Memory
	Error
)

var categoryNames = [...]string{
	Plain:    "plain",
	Comment:  "comment",
	Keyword:  "keyword",
	LabelDef: "label-definition",
	Variable: "variable",
	Number:   "number",
	LabelRef: "label-reference",
	Memory:   "memory",
	Error:    "error",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// IsOperand reports whether c is produced by an argument role.
func (c Category) IsOperand() bool {
	switch c {
	case Variable, Number, LabelRef, Memory:
		return true
	}
	return false
}

// ArgRole is the type contract of one operand position. The only
// implementations are Enumerated and Validated.
type ArgRole interface {
	RoleName() string
	RoleCategory() Category
	isArgRole()
}

// Enumerated accepts a fixed set of literal values.
type Enumerated struct {
	Name     string
	Values   []string
	Category Category
}

func (r Enumerated) RoleName() string       { return r.Name }
func (r Enumerated) RoleCategory() Category { return r.Category }
func (Enumerated) isArgRole()               {}

// Validated accepts any word matching Pattern. Syntax is the same rule as
// an EBNF expression and is only used when exporting the grammar.
type Validated struct {
	Name     string
	Pattern  *regexp.Regexp
	Syntax   string
	Category Category
}

func (r Validated) RoleName() string       { return r.Name }
func (r Validated) RoleCategory() Category { return r.Category }
func (Validated) isArgRole()               {}

// CommandSpec declares a command and the roles of its operands, in order.
type CommandSpec struct {
	Name string
	Args []string
	Doc  string
}

// Signature renders the command followed by its role names.
func (c CommandSpec) Signature() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Dialect is a complete language definition.
type Dialect struct {
	Name          string
	CommentPrefix string
	FoldCase      bool
	Extensions    []string
	Commands      []CommandSpec
	Roles         []ArgRole

	commands map[string]int
	roles    map[string]int
}

// New validates the tables of d and returns a ready to use copy.
// Every role referenced by a command must be declared, and command and
// role names must be unique.
func New(d Dialect) (*Dialect, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("dialect has no name")
	}
	if d.CommentPrefix == "" {
		return nil, fmt.Errorf("dialect %s: empty comment prefix", d.Name)
	}

	out := &Dialect{
		Name:          d.Name,
		CommentPrefix: d.CommentPrefix,
		FoldCase:      d.FoldCase,
		Extensions:    append([]string(nil), d.Extensions...),
		roles:         make(map[string]int, len(d.Roles)),
		commands:      make(map[string]int, len(d.Commands)),
	}

	for _, r := range d.Roles {
		name := r.RoleName()
		if _, dup := out.roles[name]; dup {
			return nil, fmt.Errorf("dialect %s: role %s declared twice", d.Name, name)
		}
		switch r := r.(type) {
		case Enumerated:
			values := make([]string, len(r.Values))
			for i, v := range r.Values {
				values[i] = out.Normalize(v)
			}
			r.Values = values
			out.Roles = append(out.Roles, r)
		case Validated:
			if r.Pattern == nil {
				return nil, fmt.Errorf("dialect %s: role %s has no pattern", d.Name, name)
			}
			out.Roles = append(out.Roles, r)
		}
		out.roles[name] = len(out.Roles) - 1
	}

	for _, c := range d.Commands {
		name := out.Normalize(c.Name)
		if _, dup := out.commands[name]; dup {
			return nil, fmt.Errorf("dialect %s: command %s declared twice", d.Name, name)
		}
		for _, arg := range c.Args {
			if _, ok := out.roles[arg]; !ok {
				return nil, fmt.Errorf("dialect %s: command %s references unknown role %s", d.Name, name, arg)
			}
		}
		out.Commands = append(out.Commands, CommandSpec{
			Name: name,
			Args: append([]string(nil), c.Args...),
			Doc:  c.Doc,
		})
		out.commands[name] = len(out.Commands) - 1
	}

	return out, nil
}

// MustNew is like New but panics on an invalid table.
func MustNew(d Dialect) *Dialect {
	out, err := New(d)
	if err != nil {
		panic(err)
	}
	return out
}

// Normalize applies the dialect's case policy to word.
func (d *Dialect) Normalize(word string) string {
	if d.FoldCase {
		return strings.ToLower(word)
	}
	return word
}

// CommandNames returns the normalised command names in declaration order.
func (d *Dialect) CommandNames() []string {
	names := make([]string, len(d.Commands))
	for i, c := range d.Commands {
		names[i] = c.Name
	}
	return names
}

// Command looks up a command by name under the case policy.
func (d *Dialect) Command(name string) (CommandSpec, bool) {
	i, ok := d.commands[d.Normalize(name)]
	if !ok {
		return CommandSpec{}, false
	}
	return d.Commands[i], true
}

// CommandArgs returns the role names a command expects.
func (d *Dialect) CommandArgs(name string) ([]string, bool) {
	c, ok := d.Command(name)
	if !ok {
		return nil, false
	}
	return c.Args, true
}

// ArgRole looks up a role by its exact name.
func (d *Dialect) ArgRole(name string) (ArgRole, bool) {
	i, ok := d.roles[name]
	if !ok {
		return nil, false
	}
	return d.Roles[i], true
}

// Match classifies word against role. A word that does not satisfy the
// role yields Error.
func (d *Dialect) Match(role ArgRole, word string) Category {
	switch r := role.(type) {
	case Enumerated:
		w := d.Normalize(word)
		for _, v := range r.Values {
			if v == w {
				return r.Category
			}
		}
		return Error
	case Validated:
		if r.Pattern.MatchString(word) {
			return r.Category
		}
		return Error
	default:
		panic(fmt.Sprintf("dialect: unknown role type %T", role))
	}
}

// HasExtension reports whether path carries one of the dialect's file
// extensions.
func (d *Dialect) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range d.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

var labelDefPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*:$`)

// DefinedLabel reports whether word is a label definition and returns the
// label name without its trailing colon.
func DefinedLabel(word string) (string, bool) {
	if !labelDefPattern.MatchString(word) {
		return "", false
	}
	return word[:len(word)-1], true
}
