// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"github.com/harperreed/bmi/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to calculate BMI and manage your history
through a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "bmi": {
        "command": "bmi",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  calculate_bmi    Calculate BMI without saving
  save_bmi         Calculate BMI and save it
  list_history     List saved records, newest first
  delete_record    Delete a record by ID
  undo_delete      Restore the last deleted record
  clear_history    Delete every record (confirm=true)
  export_history   Export as csv, json, yaml or markdown

AVAILABLE RESOURCES:

  bmi://history    All saved records
  bmi://latest     Most recent record with guidance
  bmi://trend      Chart-ready BMI series`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(store, logger)
		if err != nil {
			return err
		}

		// main cancels the context on SIGINT/SIGTERM.
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
