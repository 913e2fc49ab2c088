package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torland/botls/dialect"
)

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the builtin dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range dialect.Names() {
				d, err := dialect.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%s\t%d commands\t%s\n", d.Name, d.CommentPrefix, len(d.Commands), strings.Join(d.Extensions, " "))
			}
			return nil
		},
	}
}
