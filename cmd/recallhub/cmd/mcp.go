package cmd

import (
	"github.com/habiliai/recallhub/tool"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the memory tools over MCP on stdio",
		Long:  "Serve save_memory, search_memories and delete_memory over MCP on stdio. Every call acts on DEFAULT_OWNER.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			a.logger.Info("serving MCP on stdio", "owner", a.conf.Server.DefaultOwner)
			return mcpserver.ServeStdio(tool.NewMCPServer(a.service, flags.version, a.logger))
		},
	}
}
