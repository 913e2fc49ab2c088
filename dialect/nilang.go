package dialect

// NiLang returns the table of the keyword dialect. Keywords are matched
// case-sensitively.
func NiLang() *Dialect {
	return niLang
}

var niLang = MustNew(Dialect{
	Name:          "nilang",
	CommentPrefix: "#",
	Extensions:    []string{".ni", ".nilang"},
	Roles: []ArgRole{
		Enumerated{Name: "Types", Values: []string{"Int", "Bool", "Dir"}, Category: Variable},
		Enumerated{Name: "Bools", Values: []string{"False", "True"}, Category: Variable},
		Enumerated{Name: "Dir", Values: directions, Category: Variable},
		Validated{Name: "Val", Pattern: valPattern, Syntax: valSyntax, Category: Number},
		Validated{Name: "Mem", Pattern: memPattern, Syntax: memSyntax, Category: Memory},
		Validated{Name: "Label", Pattern: identPattern, Syntax: identSyntax, Category: LabelRef},
	},
	Commands: []CommandSpec{
		{Name: "If"},
		{Name: "While"},
		{Name: "Break"},
		{Name: "Continue"},
		{Name: "Using"},
		{Name: "Else"},
		{Name: "Elif"},
		{Name: "And"},
		{Name: "Or"},
		{Name: "Fun"},
		{Name: "$"},
		{Name: "Return"},
	},
})
