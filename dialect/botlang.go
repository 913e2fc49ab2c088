package dialect

import "regexp"

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	valPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	memPattern   = regexp.MustCompile(`^\[[0-9]+\]$`)
	sizePattern  = regexp.MustCompile(`^[0-9]+$`)
)

const (
	identSyntax = `ident`
	valSyntax   = `[ "+" | "-" ] digit { digit }`
	memSyntax   = `"[" digit { digit } "]"`
	sizeSyntax  = `digit { digit }`
)

// Directions in the order the simulation numbers them.
var directions = []string{
	"front", "frontright", "right", "backright",
	"back", "backleft", "left", "frontleft",
}

func jump(name, doc string) CommandSpec {
	return CommandSpec{Name: name, Args: []string{"Label"}, Doc: doc}
}

// BotLang returns the table of the register/jump dialect. It mirrors the
// command grammar accepted by the bot compiler.
func BotLang() *Dialect {
	return botLang
}

var botLang = MustNew(Dialect{
	Name:          "botlang",
	CommentPrefix: "//",
	FoldCase:      true,
	Extensions:    []string{".bot", ".botlang"},
	Roles: []ArgRole{
		Enumerated{Name: "Dir", Values: directions, Category: Variable},
		Enumerated{Name: "RwReg", Values: []string{"ax", "bx", "cx", "dx"}, Category: Variable},
		Enumerated{Name: "Reg", Values: []string{"ax", "bx", "cx", "dx", "en", "ag", "sd", "md"}, Category: Variable},
		Validated{Name: "Label", Pattern: identPattern, Syntax: identSyntax, Category: LabelRef},
		Validated{Name: "Val", Pattern: valPattern, Syntax: valSyntax, Category: Number},
		Validated{Name: "Mem", Pattern: memPattern, Syntax: memSyntax, Category: Memory},
		Validated{Name: "Size", Pattern: sizePattern, Syntax: sizeSyntax, Category: Number},
	},
	Commands: []CommandSpec{
		{Name: "nop", Doc: "Do nothing for one step."},
		{Name: "mov", Args: []string{"Dir"}, Doc: "Move one cell in a direction."},
		{Name: "rot", Args: []string{"Dir"}, Doc: "Rotate to face a direction."},
		jump("jmp", "Jump unconditionally."),
		{Name: "cmp", Args: []string{"Reg", "Reg"}, Doc: "Compare two registers."},
		jump("jme", "Jump if the last comparison was equal."),
		jump("jne", "Jump if the last comparison was not equal."),
		jump("jmg", "Jump if the last comparison was greater."),
		jump("jml", "Jump if the last comparison was less."),
		jump("jle", "Jump if the last comparison was less or equal."),
		jump("jge", "Jump if the last comparison was greater or equal."),
		jump("jmo", "Jump if the last check found another bot."),
		jump("jno", "Jump if the last check found no other bot."),
		jump("jmb", "Jump if the last check found a related bot."),
		jump("jnb", "Jump if the last check found no related bot."),
		jump("jmc", "Jump if the last check found a corpse."),
		jump("jnc", "Jump if the last check found no corpse."),
		jump("jmf", "Jump if the last check found a free cell."),
		jump("jnf", "Jump if the last check found no free cell."),
		{Name: "chk", Args: []string{"Dir"}, Doc: "Inspect the neighbouring cell in a direction."},
		{Name: "cmpv", Args: []string{"Reg", "Val"}, Doc: "Compare a register with a constant."},
		{Name: "split", Args: []string{"Dir", "Label"}, Doc: "Split off a new bot that starts at a label."},
		{Name: "fork", Args: []string{"Dir", "Label"}, Doc: "Fork a related bot that starts at a label."},
		{Name: "bite", Args: []string{"Dir"}, Doc: "Bite the neighbour in a direction."},
		{Name: "eatsun", Doc: "Collect energy from the sun."},
		{Name: "absorb", Doc: "Absorb minerals from the current cell."},
		{Name: "call", Args: []string{"Label"}, Doc: "Call the subroutine at a label."},
		{Name: "ret", Doc: "Return from a subroutine."},
		{Name: "ld", Args: []string{"RwReg", "Reg"}, Doc: "Load a register into a writable register."},
		{Name: "ldv", Args: []string{"RwReg", "Val"}, Doc: "Load a constant into a writable register."},
		{Name: "ldr", Args: []string{"Mem", "Reg"}, Doc: "Store a register into a memory cell."},
		{Name: "ldm", Args: []string{"RwReg", "Mem"}, Doc: "Load a memory cell into a writable register."},
		{Name: "neg", Args: []string{"RwReg"}, Doc: "Negate a writable register."},
		{Name: "add", Args: []string{"RwReg", "Reg"}, Doc: "Add a register."},
		{Name: "addv", Args: []string{"RwReg", "Val"}, Doc: "Add a constant."},
		{Name: "sub", Args: []string{"RwReg", "Reg"}, Doc: "Subtract a register."},
		{Name: "subv", Args: []string{"RwReg", "Val"}, Doc: "Subtract a constant."},
		{Name: "mul", Args: []string{"RwReg", "Reg"}, Doc: "Multiply by a register."},
		{Name: "mulv", Args: []string{"RwReg", "Val"}, Doc: "Multiply by a constant."},
		{Name: "div", Args: []string{"RwReg", "Reg"}, Doc: "Divide by a register."},
		{Name: "divv", Args: []string{"RwReg", "Val"}, Doc: "Divide by a constant."},
		{Name: "mod", Args: []string{"RwReg", "Reg"}, Doc: "Remainder by a register."},
		{Name: "modv", Args: []string{"RwReg", "Val"}, Doc: "Remainder by a constant."},
		{Name: "pow", Args: []string{"RwReg", "Reg"}, Doc: "Raise to the power of a register."},
		{Name: "powv", Args: []string{"RwReg", "Val"}, Doc: "Raise to the power of a constant."},
		{Name: "#len", Args: []string{"Size"}, Doc: "Pad the genome to a fixed number of commands."},
		{Name: "#mem_size", Args: []string{"Size"}, Doc: "Limit memory cell addresses."},
	},
})
