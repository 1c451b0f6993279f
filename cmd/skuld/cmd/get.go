package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/skuld/pkg/store"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a todo by id",
	Long: `Get a todo from the Skuld store by its id.

Example:
  skuld get 42`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Error: invalid todo id %q\n", args[0])
			return
		}

		// Get store from context
		todos, ok := cmd.Context().Value("store").(*store.TodoStore)
		if !ok {
			fmt.Printf("Error: store not found in context\n")
			return
		}

		t, err := todos.Get(id)
		if err != nil {
			fmt.Printf("Error getting todo: %v\n", err)
			return
		}

		if err := printTodo(t); err != nil {
			fmt.Printf("Error printing todo: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
