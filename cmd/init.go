package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docqa/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long:  `Writes a .docqa.yml with default settings to the current directory as a starting point.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("%s already exists; edit it or remove it first", cfgFile)
		}

		cfg := config.DefaultConfig()
		if err := cfg.Save(cfgFile); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Wrote %s\n", cfgFile)
		fmt.Printf("Set %s to use the %s provider, then run `docqa ingest`.\n",
			config.APIKeyEnvVar(cfg.Provider), cfg.Provider)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
