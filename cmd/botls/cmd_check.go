package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/torland/botls/dialect"
	"github.com/torland/botls/ebnflex"
	"github.com/torland/botls/format"
	"github.com/torland/botls/lexer"
)

func newCheckCmd() *cobra.Command {
	var (
		dialectName string
		strict      bool
	)

	cmd := &cobra.Command{
		Use:          "check <file>...",
		Short:        "Report malformed operands and duplicate labels",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder := format.NewDiagnosticEncoder(os.Stdout)
			problems := 0
			for _, filename := range args {
				d, text, err := readSource(cmd, filename, dialectName)
				if err != nil {
					return err
				}
				doc := &format.Document{
					Path:    filename,
					Dialect: d.Name,
					Tokens:  lexer.Tokenize(d, text),
				}
				if err := encoder.Encode(doc); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				problems += len(doc.Problems())

				if strict {
					n, err := checkGrammar(d, filename, text)
					if err != nil {
						return err
					}
					problems += n
				}
			}
			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dialectName, "dialect", "", "dialect to use instead of the file extension")
	cmd.Flags().BoolVar(&strict, "strict", false, "also match every line against the dialect grammar")

	return cmd
}

// checkGrammar reports the lines of text the dialect's EBNF grammar does not
// accept.
func checkGrammar(d *dialect.Dialect, filename, text string) (int, error) {
	g, err := d.Grammar()
	if err != nil {
		return 0, fmt.Errorf("%s grammar: %w", d.Name, err)
	}
	var opts []ebnflex.Option
	if d.FoldCase {
		opts = append(opts, ebnflex.FoldCase())
	}
	rejected := ebnflex.NewMatcher(g, []byte(text), opts...).RejectedLines(dialect.LineProduction)
	for _, pos := range rejected {
		fmt.Printf("%s:%s: line does not match the %s grammar\n", filename, pos, d.Name)
	}
	return len(rejected), nil
}
