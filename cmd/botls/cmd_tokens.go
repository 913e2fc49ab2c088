package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/torland/botls/format"
	"github.com/torland/botls/lexer"
)

func newTokensCmd() *cobra.Command {
	var outputFormat string
	var dialectName string

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the classified tokens of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			d, text, err := readSource(cmd, filename, dialectName)
			if err != nil {
				return err
			}

			var encoder format.Encoder
			switch outputFormat {
			case "line":
				encoder = format.NewLineEncoder(os.Stdout)
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			doc := &format.Document{
				Path:    filename,
				Dialect: d.Name,
				Tokens:  lexer.Tokenize(d, text),
			}
			if err := encoder.Encode(doc); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (line, json)")
	cmd.Flags().StringVar(&dialectName, "dialect", "", "dialect to use instead of the file extension")

	return cmd
}
