package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ssargent/skuld/pkg/todo"
)

// outputFormat is bound to the global --format flag
var outputFormat string

// printTodo displays a single todo in the selected output format
func printTodo(t *todo.Todo) error {
	if outputFormat == "json" {
		return printTodoJSON(t)
	}
	return printTodoTable(t)
}

// printTodoTable displays a single todo in table format
func printTodoTable(t *todo.Todo) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID:\t%d\n", t.ID)
	fmt.Fprintf(w, "Title:\t%s\n", t.Title)

	if t.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", t.Description)
	}

	fmt.Fprintf(w, "Status:\t%s\n", t.Status)
	fmt.Fprintf(w, "Priority:\t%s\n", t.Priority)

	if t.DueDate != nil {
		fmt.Fprintf(w, "Due:\t%s\n", formatTimestamp(*t.DueDate))
	}

	fmt.Fprintf(w, "Owner:\t%s\n", t.Owner)
	fmt.Fprintf(w, "Created:\t%s\n", formatTimestamp(t.CreatedAt))

	if t.UpdatedAt != nil {
		fmt.Fprintf(w, "Updated:\t%s\n", formatTimestamp(*t.UpdatedAt))
	}

	return nil
}

// printTodoJSON displays a single todo in JSON format
func printTodoJSON(t *todo.Todo) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(t)
}

// formatTimestamp renders a nanosecond timestamp as RFC3339
func formatTimestamp(ns uint64) string {
	return time.Unix(0, int64(ns)).Format(time.RFC3339)
}
