package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ssargent/skuld/pkg/store"
	"github.com/ssargent/skuld/pkg/todo"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new todo",
	Long: `Add a new todo to the Skuld store. The todo is owned by the
current principal and starts out pending.

Example:
  skuld add "Water the plants" --priority high --due 2026-09-01T09:00:00Z`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		payload, err := payloadFromFlags(cmd, args[0])
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

		created, err := todos.Add(principal, payload)
		if err != nil {
			fmt.Printf("Error adding todo: %v\n", err)
			return
		}

		if err := printTodo(created); err != nil {
			fmt.Printf("Error printing todo: %v\n", err)
		}
	},
}

// payloadFromFlags builds a todo payload from the shared add/update flags
func payloadFromFlags(cmd *cobra.Command, title string) (todo.Payload, error) {
	description, _ := cmd.Flags().GetString("description")
	priorityName, _ := cmd.Flags().GetString("priority")
	dueRaw, _ := cmd.Flags().GetString("due")

	priority, err := todo.ParsePriority(priorityName)
	if err != nil {
		return todo.Payload{}, err
	}

	var dueDate *uint64
	if dueRaw != "" {
		due, err := time.Parse(time.RFC3339, dueRaw)
		if err != nil {
			return todo.Payload{}, fmt.Errorf("invalid due date %q, expected RFC3339", dueRaw)
		}
		ns := uint64(due.UnixNano())
		dueDate = &ns
	}

	return todo.Payload{
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     dueDate,
	}, nil
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().String("description", "", "Longer description of the todo")
	addCmd.Flags().String("priority", "medium", "Priority (low, medium, high, urgent)")
	addCmd.Flags().String("due", "", "Due date in RFC3339 format")
}
