package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/torland/botls/codebase"
)

func newLSPCmd() *cobra.Command {
	var tcpAddr string
	var verbosity int
	var logFile string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("verbose") {
				verbosity = cfg.Verbosity
			}
			if !cmd.Flags().Changed("log-file") {
				logFile = cfg.LogFile
			}

			// stdout carries the protocol; without a file logs go to stderr.
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbosity, path)

			// Without --config the server loads the config of the workspace
			// root the client sends.
			if configPath, _ := cmd.Flags().GetString("config"); configPath == "" {
				cfg = nil
			}
			server := codebase.NewLSPServer(version, cfg)
			if tcpAddr != "" {
				return server.RunTCP(tcpAddr)
			}
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&tcpAddr, "tcp", "", "listen on this TCP address instead of stdio")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "log verbosity (repeat for more)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")

	return cmd
}
