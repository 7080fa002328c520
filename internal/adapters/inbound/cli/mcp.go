package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/abdidvp/docqms/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the docqms MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start docqms MCP server (stdio)",
		Long:  "Start the docqms MCP server using stdio transport. AI assistants can read the compliance snapshot, preview fixes, and apply them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			s := mcpadapter.NewDocQMSMCPServer(version, mcpadapter.Services{
				Snapshots:   rt.snapshots,
				Remediation: rt.remediation,
				Logger:      rt.logger.Named("mcp"),
			})
			return server.ServeStdio(s)
		},
	}
}
