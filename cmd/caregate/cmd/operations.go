package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/caregate/caregate/internal/config"
	"github.com/caregate/caregate/internal/domain/schema"
)

var operationsAllowedOnly bool

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List schema operations and their policy decision",
	Long: `Operations fetches the OpenAPI schema and prints every addressable
operation with the whitelist decision that would apply during
generation. No authentication and no MCP server are involved; this is
a dry run of the gate.`,
	RunE: listOperations,
}

func init() {
	operationsCmd.Flags().BoolVar(&operationsAllowedOnly, "allowed-only", false, "only show operations that would become tools")
	rootCmd.AddCommand(operationsCmd)
}

func listOperations(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	parser := schema.NewParser(cfg.SchemaURL, logger)
	if err := parser.Fetch(context.Background()); err != nil {
		return fmt.Errorf("schema load failed: %w", err)
	}

	whitelist, err := loadWhitelist(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DECISION\tOPERATION\tMETHOD\tPATH")
	var allowed, total int
	for _, op := range parser.Operations() {
		total++
		decision := "deny"
		if whitelist.IsAllowed(op.ID) {
			decision = "allow"
			allowed++
		} else if operationsAllowedOnly {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", decision, op.ID, strings.ToUpper(op.Method), op.Path)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n%d of %d operations would become tools\n", allowed, total)
	return nil
}
