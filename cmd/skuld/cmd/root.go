/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ssargent/skuld/pkg/config"
	"github.com/ssargent/skuld/pkg/di"
	"github.com/ssargent/skuld/pkg/store"

	"github.com/spf13/cobra"
)

// container holds the dependencies injected by main
var container *di.Container

// SetContainer injects the dependency container into the cmd package
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skuld",
	Short: "Skuld - Durable Todo Store",
	Long: `Skuld is a durable todo record store backed by a single region file.
Every write is checksummed and fsynced, and interrupted shutdowns are
repaired the next time the store is opened.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
		todoStore, recovery, err := openStore(store.Config{
			DataDir:    cfg.DataDir,
			BucketSize: cfg.BucketSizeBytes(),
		})
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		if recovery.SlotsRepaired > 0 {
			fmt.Printf("Recovered from interrupted shutdown: %d slots repaired\n", recovery.SlotsRepaired)
		}
		// Store in command context
		ctx := context.WithValue(cmd.Context(), "store", todoStore)
		ctx = context.WithValue(ctx, "principal", resolvePrincipal(cmd, cfg))
		cmd.SetContext(ctx)
		return nil
	},
}

// openStore opens the todo store through the injected factory, falling back
// to a direct open when no container has been set.
func openStore(cfg store.Config) (*store.TodoStore, *store.RecoveryResult, error) {
	if container != nil {
		return container.GetStoreFactory().CreateStoreOpener().OpenStore(cfg)
	}
	todoStore, err := store.NewTodoStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	recovery, err := todoStore.Open()
	if err != nil {
		return nil, nil, err
	}
	return todoStore, recovery, nil
}

// resolveConfig loads the configuration file and applies command line
// overrides. Flags the user set explicitly win over the config file; the
// config file wins over defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("bind") {
		cfg.Bind, _ = cmd.Flags().GetString("bind")
	}

	return cfg, nil
}

// resolvePrincipal determines the identity used for ownership checks.
// The --as flag wins, then the configured principal, then anonymous.
func resolvePrincipal(cmd *cobra.Command, cfg *config.Config) string {
	if as, _ := cmd.Flags().GetString("as"); as != "" {
		return as
	}
	if cfg.Principal != "" && cfg.Principal != "auto" {
		return cfg.Principal
	}
	return "anonymous"
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags shared by every subcommand
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the store")
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file")
	rootCmd.PersistentFlags().String("as", "", "Principal to act as (overrides the configured one)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "table", "Output format (table or json)")
}
