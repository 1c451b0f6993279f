/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/skuld/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize Skuld configuration for local development",
	Long: `Initialize the Skuld configuration file and data directory.

This command will:
- Create the data directory
- Create the configuration file with a generated principal

Todos added from this machine are owned by its principal.

Examples:
  skuld init
  skuld init --data-dir ./mydata
  skuld init --force`,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		configPath, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists. Use --force to recreate.\n")
			cmd.Printf("Configuration location: %s\n", configPath)
			return
		}

		cmd.Printf("Initializing Skuld...\n")
		cmd.Printf("Data directory: %s\n", dataDir)

		// Create data directory
		if err := os.MkdirAll(dataDir, 0750); err != nil {
			cmd.Printf("Error creating data directory: %v\n", err)
			os.Exit(1)
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			cmd.Printf("Error creating configuration: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("✅ Skuld initialization completed successfully!\n")
		cmd.Printf("Principal: %s\n", cfg.Principal)
		cmd.Printf("Configuration: %s\n", configPath)
		cmd.Printf("\nYou can now start the server with:\n")
		cmd.Printf("  skuld up --config %s\n", configPath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Force reinitialization even if configuration already exists")
}
