// Package cmd provides the CLI commands for caregate.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caregate/caregate/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "caregate",
	Short: "caregate - Care healthcare API as gated MCP tools",
	Long: `caregate exposes the Care healthcare-management API as tools for MCP
(Model Context Protocol) clients.

It fetches the API's OpenAPI schema at startup, filters the described
operations through a default-deny whitelist, and synthesizes one tool
per allowed operation. Destructive operations (record deletion) are
blocked by substring patterns that override the whitelist.

Quick start:
  1. Export credentials: CAREGATE_USERNAME / CAREGATE_PASSWORD
  2. Run: caregate run

Configuration:
  Config is loaded from caregate.yaml in the current directory,
  $HOME/.caregate/, or /etc/caregate/.

  Environment variables override config values with the CAREGATE_ prefix.
  Example: CAREGATE_BASE_URL=https://care.example.org

Commands:
  run         Serve generated tools over stdio
  operations  List schema operations and their policy decision
  policy      Export or import the whitelist policy
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./caregate.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
