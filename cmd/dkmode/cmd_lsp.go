package main

import (
	"github.com/dhamidi/dkmode/codebase"
	"github.com/spf13/cobra"
)

func newLSPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, opts.cfg)
			return server.RunStdio()
		},
	}
}
