package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "botls",
		Short:   "Language tools for BotLang and NiLang",
		Version: version,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default $BOTLS_CONFIG, ./.botls.yaml or ~/.botls.yaml)")

	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newCompleteCmd())
	rootCmd.AddCommand(newLabelsCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newDialectsCmd())
	rootCmd.AddCommand(newUICmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
