package main

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/torland/botls/dialect"
)

func newGrammarCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:           "grammar [dialect]",
		Short:         "Print the EBNF line grammar of a dialect",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := dialect.Names()
			if len(args) == 1 {
				names = args
			}

			for i, name := range names {
				d, err := dialect.Lookup(name)
				if err != nil {
					fmt.Println(err)
					return err
				}
				if verify {
					if _, err := d.Grammar(); err != nil {
						printErrors(err)
						return err
					}
					fmt.Printf("%s: ok\n", d.Name)
					continue
				}
				if i > 0 {
					fmt.Println()
				}
				fmt.Printf("(* %s *)\n%s", d.Name, d.EBNF())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "parse and verify the grammar instead of printing it")

	return cmd
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(err error) {
	fmt.Println(err)
	inner := errors.Unwrap(err)
	if inner == nil {
		return
	}
	v := reflect.ValueOf(inner)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Println("  ", v.Index(i).Interface())
		}
	}
}
