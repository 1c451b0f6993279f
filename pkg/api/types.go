package api

//go:generate mockgen -destination=./mock_store.go -package=api . ITodoStore

import (
	"github.com/ssargent/skuld/pkg/store"
	"github.com/ssargent/skuld/pkg/todo"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TodoRequest carries the caller-editable fields for create and update.
// Priority and status names travel as strings ("low", "in_progress", ...)
// and are rejected during decoding when unknown.
type TodoRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    todo.Priority `json:"priority"`
	DueDate     *uint64       `json:"due_date,omitempty"`
}

// StatusRequest carries the target status for a status change
type StatusRequest struct {
	Status todo.Status `json:"status"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port    int
	Bind    string
	DataDir string
}

// ITodoStore defines the interface for the record store operations
type ITodoStore interface {
	Get(id uint64) (*todo.Todo, error)
	Add(caller string, payload todo.Payload) (*todo.Todo, error)
	Update(id uint64, caller string, payload todo.Payload) (*todo.Todo, error)
	Delete(id uint64, caller string) (*todo.Todo, error)
	UpdateStatus(id uint64, caller string, status todo.Status) (*todo.Todo, error)

	// Diagnostics
	Stats() *store.StoreStats
}
