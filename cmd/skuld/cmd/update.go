package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/skuld/pkg/store"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <id> <title>",
	Short: "Update a todo",
	Long: `Update a todo in the Skuld store. The whole payload is replaced,
so pass every field you want to keep. Only the owner may update a todo.

Example:
  skuld update 42 "Water the plants twice" --priority urgent`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Error: invalid todo id %q\n", args[0])
			return
		}

		payload, err := payloadFromFlags(cmd, args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		// Get store from context
		todos, ok := cmd.Context().Value("store").(*store.TodoStore)
		if !ok {
			fmt.Printf("Error: store not found in context\n")
			return
		}
		principal, _ := cmd.Context().Value("principal").(string)

		updated, err := todos.Update(id, principal, payload)
		if err != nil {
			fmt.Printf("Error updating todo: %v\n", err)
			return
		}

		if err := printTodo(updated); err != nil {
			fmt.Printf("Error printing todo: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().String("description", "", "Longer description of the todo")
	updateCmd.Flags().String("priority", "medium", "Priority (low, medium, high, urgent)")
	updateCmd.Flags().String("due", "", "Due date in RFC3339 format")
}
