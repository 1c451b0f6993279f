/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ssargent/skuld/pkg/api"
	"github.com/ssargent/skuld/pkg/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the Skuld REST API server without touching configuration on
disk. Use this when the store is already initialized; 'skuld up' is the
recommended way to get a fresh install running.

Callers identify themselves with the X-Caller-Id header. Requests without
one are treated as anonymous.

Examples:
  skuld serve
  skuld serve --port 9000 --bind 0.0.0.0`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			cmd.Printf("Error resolving config: %v\n", err)
			return
		}

		// Get store from context
		todos, ok := cmd.Context().Value("store").(*store.TodoStore)
		if !ok {
			cmd.Println("Error: store not found in context")
			return
		}

		// Start API server
		serverConfig := api.ServerConfig{
			Port:    cfg.Port,
			Bind:    cfg.Bind,
			DataDir: cfg.DataDir,
		}

		if err := api.StartServer(todos, serverConfig); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
}
