package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caregate/caregate/internal/config"
	"github.com/caregate/caregate/internal/domain/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Export or import the whitelist policy",
}

var policyExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the effective policy to a YAML file",
	Long: `Export writes the effective whitelist policy (the configured policy
file when one is set, otherwise the built-in defaults) to the given
path. The document has top-level keys "whitelist" and
"blocked_patterns" and can be edited and fed back via import.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		w, err := loadWhitelist(cfg)
		if err != nil {
			return err
		}
		if err := w.ExportFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %d allowed operations to %s\n", len(w.Allowed()), args[0])
		return nil
	},
}

var policyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Install a policy file as the configured whitelist",
	Long: `Import validates the given policy document and installs it at the
configured whitelist_file path, replacing the previous policy
wholesale. There is no merging. Requires whitelist_file to be set in
the configuration.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.WhitelistFile == "" {
			return fmt.Errorf("whitelist_file is not configured, nowhere to install the policy")
		}

		imported, err := policy.ImportFile(args[0])
		if err != nil {
			return err
		}
		if err := imported.ExportFile(cfg.WhitelistFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "installed policy with %d allowed operations at %s\n",
			len(imported.Allowed()), cfg.WhitelistFile)
		return nil
	},
}

func init() {
	policyCmd.AddCommand(policyExportCmd)
	policyCmd.AddCommand(policyImportCmd)
	rootCmd.AddCommand(policyCmd)
}
