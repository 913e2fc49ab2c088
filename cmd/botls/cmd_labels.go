package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torland/botls/labels"
)

func newLabelsCmd() *cobra.Command {
	var dialectName string

	cmd := &cobra.Command{
		Use:   "labels <file>",
		Short: "List label definitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, text, err := readSource(cmd, args[0], dialectName)
			if err != nil {
				return err
			}
			for _, l := range labels.Build(d, text).All() {
				fmt.Printf("%s\t%s\n", l.Span.Start, l.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dialectName, "dialect", "", "dialect to use instead of the file extension")

	return cmd
}
