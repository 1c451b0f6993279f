package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/skuld/pkg/store"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a todo",
	Long: `Delete a todo from the Skuld store. Only the owner may delete
a todo.

Example:
  skuld delete 42`,
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
		principal, _ := cmd.Context().Value("principal").(string)

		deleted, err := todos.Delete(id, principal)
		if err != nil {
			fmt.Printf("Error deleting todo: %v\n", err)
			return
		}

		fmt.Printf("Successfully deleted todo %d: %q\n", deleted.ID, deleted.Title)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
