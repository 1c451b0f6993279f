package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/skuld/pkg/store"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Long: `Show statistics for the Skuld store.

Example:
  skuld stats`,
	Run: func(cmd *cobra.Command, args []string) {
		// Get store from context
		todos, ok := cmd.Context().Value("store").(*store.TodoStore)
		if !ok {
			fmt.Printf("Error: store not found in context\n")
			return
		}

		stats := todos.Stats()
		fmt.Printf("Todos:     %d\n", stats.Todos)
		fmt.Printf("Last id:   %d\n", stats.LastID)
		fmt.Printf("Data size: %d bytes\n", stats.DataSize)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
