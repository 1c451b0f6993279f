/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/skuld/pkg/config"
	"github.com/ssargent/skuld/pkg/store"
)

// upCmd represents the up command
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Bootstrap and start Skuld server",
	Long: `Bootstrap Skuld by creating configuration if it doesn't exist, then
start the REST API server. This is the recommended way to get Skuld running.

The command will:
- Create a configuration file with a generated principal if missing
- Open the todo store, repairing any interrupted writes
- Start the REST API server

Examples:
  skuld up
  skuld up --data-dir ./mydata --port 9000
  skuld up --config ./custom-config.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		configPath, _ := cmd.Flags().GetString("config")
		printPrincipal, _ := cmd.Flags().GetBool("print-principal")

		// Use default config path if not specified
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		var cfg *config.Config
		var err error

		// Check if config exists
		if config.ConfigExists(configPath) {
			// Load existing config
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				cmd.Printf("Error loading existing config: %v\n", err)
				os.Exit(1)
			}
			cmd.Printf("✅ Loaded existing configuration from %s\n", configPath)
		} else {
			// Bootstrap new config
			cmd.Printf("🔧 First run detected. Bootstrapping Skuld...\n")

			cfg, err = config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				cmd.Printf("Error bootstrapping config: %v\n", err)
				os.Exit(1)
			}

			cmd.Printf("✅ Configuration created at %s\n", configPath)

			if printPrincipal {
				cmd.Printf("\n🔑 Generated principal: %s\n", cfg.Principal)
				cmd.Printf("Todos added from this machine are owned by it. It is also saved in %s\n", configPath)
			}
		}

		// Override config with command line flags if explicitly set
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind = bind
		}

		// Start the server
		cmd.Printf("🚀 Starting Skuld server on %s:%d\n", cfg.Bind, cfg.Port)
		cmd.Printf("📁 Data directory: %s\n", cfg.DataDir)

		if container == nil {
			cmd.Printf("Error: dependency container not initialized\n")
			os.Exit(1)
		}

		serverFactory := container.GetServerFactory()
		serverStarter := serverFactory.CreateServerStarter()

		// Get store from context (opened by root command)
		todos, ok := cmd.Context().Value("store").(*store.TodoStore)
		if !ok {
			cmd.Printf("Error: store not found in context\n")
			os.Exit(1)
		}

		if err := serverStarter.StartServer(todos, cfg.Port, cfg.Bind, cfg.DataDir); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(upCmd)

	upCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	upCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	upCmd.Flags().Bool("print-principal", false, "Print the generated principal to console")
}
