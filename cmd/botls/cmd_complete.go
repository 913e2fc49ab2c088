package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torland/botls/complete"
)

func newCompleteCmd() *cobra.Command {
	var dialectName string

	cmd := &cobra.Command{
		Use:   "complete <file> <line>:<col>",
		Short: "List completions at a position (1-based line and byte column)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, text, err := readSource(cmd, args[0], dialectName)
			if err != nil {
				return err
			}
			line, col, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			res := complete.Complete(d, text, offsetOf(text, line, col))
			for _, c := range res.Candidates {
				fmt.Printf("%s\t%s\t%s\n", c.Text, c.Source, c.Detail)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dialectName, "dialect", "", "dialect to use instead of the file extension")

	return cmd
}

func parsePosition(s string) (line, col int, err error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid position %q (expected line:col)", s)
	}
	line, err = strconv.Atoi(l)
	if err != nil || line < 1 {
		return 0, 0, fmt.Errorf("invalid line in %q", s)
	}
	col, err = strconv.Atoi(c)
	if err != nil || col < 1 {
		return 0, 0, fmt.Errorf("invalid column in %q", s)
	}
	return line, col, nil
}

// offsetOf converts a 1-based line and byte column to an offset, clamping
// the column to the end of the line.
func offsetOf(text string, line, col int) int {
	start := 0
	for i := 1; i < line; i++ {
		nl := strings.IndexByte(text[start:], '\n')
		if nl < 0 {
			return len(text)
		}
		start += nl + 1
	}
	end := len(text)
	if nl := strings.IndexByte(text[start:], '\n'); nl >= 0 {
		end = start + nl
	}
	return min(start+col-1, end)
}
