// Package api provides interfaces for dependency injection
package api

import "github.com/ssargent/skuld/pkg/store"

// StoreOpener defines the interface for opening the todo store
type StoreOpener interface {
	// OpenStore opens the store at the configured location, repairing
	// any damage left by an interrupted shutdown
	OpenStore(config store.Config) (*store.TodoStore, *store.RecoveryResult, error)
}

// StoreFactory creates store openers
type StoreFactory interface {
	// CreateStoreOpener creates a store opener
	CreateStoreOpener() StoreOpener
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer starts the API server with the given configuration
	StartServer(todoStore *store.TodoStore, port int, bind, dataDir string) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
