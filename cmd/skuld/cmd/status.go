package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/skuld/pkg/store"
	"github.com/ssargent/skuld/pkg/todo"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change the status of a todo",
	Long: `Change the status of a todo in the Skuld store. Only the owner
may change the status.

Example:
  skuld status 42 completed`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Printf("Error: invalid todo id %q\n", args[0])
			return
		}

		status, err := todo.ParseStatus(args[1])
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

		updated, err := todos.UpdateStatus(id, principal, status)
		if err != nil {
			fmt.Printf("Error updating status: %v\n", err)
			return
		}

		if err := printTodo(updated); err != nil {
			fmt.Printf("Error printing todo: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
