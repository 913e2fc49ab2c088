package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/torland/botls/config"
	"github.com/torland/botls/dialect"
)

// loadConfig reads the file named by --config, or the workspace config of
// the current directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	return config.ForWorkspace(".")
}

// readSource reads filename and picks its dialect: the explicit name when
// given, otherwise the one configured for the file's extension.
func readSource(cmd *cobra.Command, filename, dialectName string) (*dialect.Dialect, string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}

	if dialectName != "" {
		d, err := dialect.Lookup(dialectName)
		if err != nil {
			return nil, "", err
		}
		return d, string(data), nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	d, ok := cfg.DialectFor(filename)
	if !ok {
		return nil, "", fmt.Errorf("%s: unknown file type (use --dialect)", filename)
	}
	return d, string(data), nil
}
