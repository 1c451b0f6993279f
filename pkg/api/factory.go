// Package api provides factory implementations for dependency injection
package api

import (
	"github.com/ssargent/skuld/pkg/store"
)

// DefaultStoreFactory is the default implementation of StoreFactory
type DefaultStoreFactory struct{}

// NewStoreFactory creates a new store factory
func NewStoreFactory() StoreFactory {
	return &DefaultStoreFactory{}
}

// CreateStoreOpener creates a store opener
func (f *DefaultStoreFactory) CreateStoreOpener() StoreOpener {
	return &DefaultStoreOpener{}
}

// DefaultStoreOpener is the default implementation of StoreOpener
type DefaultStoreOpener struct{}

// OpenStore opens the store at the configured location, repairing
// any damage left by an interrupted shutdown
func (o *DefaultStoreOpener) OpenStore(config store.Config) (*store.TodoStore, *store.RecoveryResult, error) {
	todoStore, err := store.NewTodoStore(config)
	if err != nil {
		return nil, nil, err
	}
	recovery, err := todoStore.Open()
	if err != nil {
		return nil, nil, err
	}
	return todoStore, recovery, nil
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(todoStore *store.TodoStore, port int, bind, dataDir string) error {
	config := ServerConfig{
		Port:    port,
		Bind:    bind,
		DataDir: dataDir,
	}
	return StartServer(todoStore, config)
}
