package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ssargent/skuld/pkg/codec"
	"github.com/ssargent/skuld/pkg/region"
	"github.com/ssargent/skuld/pkg/todo"
)

// RegionFileName is the single file holding every durable structure.
const RegionFileName = "skuld.region"

// Region assignments inside the store file. Persisted data depends on
// these staying put; never reassign an id.
const (
	counterRegion = 0
	todosRegion   = 1
)

// TodoStore orchestrates the durable structures behind the record
// operations: the id counter in region 0 and the todo map in region 1.
// Every operation runs to completion under one mutex; persistence is
// synchronous with the call.
type TodoStore struct {
	config  Config
	manager *region.Manager
	ids     *Cell
	todos   *Map
	clock   func() uint64
	mutex   sync.Mutex
	isOpen  bool
}

// NewTodoStore creates a new store instance rooted at config.DataDir.
func NewTodoStore(config Config) (*TodoStore, error) {
	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return nil, err
	}

	clock := config.Clock
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().UnixNano()) }
	}

	return &TodoStore{
		config: config,
		clock:  clock,
	}, nil
}

// Open maps the region file and rebuilds all in-memory state from it.
func (s *TodoStore) Open() (*RecoveryResult, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.isOpen {
		return &RecoveryResult{}, nil
	}

	start := time.Now()

	manager, err := region.Open(region.Config{
		Path:       filepath.Join(s.config.DataDir, RegionFileName),
		BucketSize: s.config.BucketSize,
	})
	if err != nil {
		return nil, err
	}

	ids, err := OpenCell(manager.Region(counterRegion))
	if err != nil {
		manager.Close()
		return nil, err
	}

	todos, result, err := OpenMap(manager.Region(todosRegion), codec.NewTodoCodec())
	if err != nil {
		manager.Close()
		return nil, err
	}

	s.manager = manager
	s.ids = ids
	s.todos = todos
	s.isOpen = true

	result.RecoveryTime = time.Since(start).Nanoseconds()
	return result, nil
}

// Get returns the record with the given id. Reads are unauthenticated.
func (s *TodoStore) Get(id uint64) (*todo.Todo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return nil, ErrNotOpen
	}

	t, ok := s.todos.Get(id)
	if !ok {
		return nil, todo.NotFoundf("Todo with id=%d not found", id)
	}
	return t, nil
}

// Add validates the payload, allocates the next id and persists a new
// record owned by caller. The id is consumed even if the insert fails;
// ids are never reused.
func (s *TodoStore) Add(caller string, payload todo.Payload) (*todo.Todo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return nil, ErrNotOpen
	}

	if strings.TrimSpace(payload.Title) == "" {
		return nil, todo.InvalidInputf("Title cannot be empty")
	}
	if err := validatePayload(payload); err != nil {
		return nil, err
	}
	if len(caller) > todo.MaxOwnerLen {
		return nil, todo.InvalidInputf("Owner cannot exceed %d bytes", todo.MaxOwnerLen)
	}

	id, err := s.ids.Next()
	if err != nil {
		return nil, err
	}

	t := &todo.Todo{
		ID:          id,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      todo.StatusPending,
		Priority:    payload.Priority,
		DueDate:     payload.DueDate,
		CreatedAt:   s.clock(),
		Owner:       caller,
	}

	if _, err := s.todos.Insert(id, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update overwrites the caller-supplied fields of an existing record and
// stamps UpdatedAt. Only the owner may update; a non-owner gets NotFound,
// indistinguishable from a missing record. Id, creation time, owner and
// status are untouched.
func (s *TodoStore) Update(id uint64, caller string, payload todo.Payload) (*todo.Todo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return nil, ErrNotOpen
	}

	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	t, ok := s.todos.Get(id)
	if !ok {
		return nil, todo.NotFoundf("Couldn't update todo with id=%d. Todo not found", id)
	}
	if t.Owner != caller {
		return nil, todo.NotFoundf("Not authorized to update todo with id=%d", id)
	}

	now := s.clock()
	t.Title = payload.Title
	t.Description = payload.Description
	t.Priority = payload.Priority
	t.DueDate = payload.DueDate
	t.UpdatedAt = &now

	if _, err := s.todos.Insert(id, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the record with the given id and returns it. Removal
// happens before the ownership check: a non-owner's call reports NotFound
// even though the record is already gone.
func (s *TodoStore) Delete(id uint64, caller string) (*todo.Todo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return nil, ErrNotOpen
	}

	t, ok, err := s.todos.Remove(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, todo.NotFoundf("Couldn't delete todo with id=%d. Todo not found.", id)
	}
	if t.Owner != caller {
		return nil, todo.NotFoundf("Not authorized to delete todo with id=%d", id)
	}
	return t, nil
}

// UpdateStatus sets the record's status and stamps UpdatedAt. The
// transition is caller-specified: any status value may replace any other.
// Ownership semantics match Update.
func (s *TodoStore) UpdateStatus(id uint64, caller string, status todo.Status) (*todo.Todo, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return nil, ErrNotOpen
	}

	if !status.Valid() {
		return nil, todo.InvalidInputf("Unknown status tag %d", uint8(status))
	}

	t, ok := s.todos.Get(id)
	if !ok {
		return nil, todo.NotFoundf("Couldn't update todo status with id=%d. Todo not found", id)
	}
	if t.Owner != caller {
		return nil, todo.NotFoundf("Not authorized to update todo with id=%d", id)
	}

	now := s.clock()
	t.Status = status
	t.UpdatedAt = &now

	if _, err := s.todos.Insert(id, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Stats returns store statistics
func (s *TodoStore) Stats() *StoreStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return &StoreStats{}
	}

	return &StoreStats{
		Todos:    s.todos.Len(),
		LastID:   s.ids.Current(),
		DataSize: s.manager.Size(),
	}
}

// Close shuts down the store
func (s *TodoStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return nil
	}

	s.isOpen = false
	return s.manager.Close()
}

func validatePayload(payload todo.Payload) error {
	if len(payload.Title) > todo.MaxTitleLen {
		return todo.InvalidInputf("Title cannot exceed %d bytes", todo.MaxTitleLen)
	}
	if len(payload.Description) > todo.MaxDescriptionLen {
		return todo.InvalidInputf("Description cannot exceed %d bytes", todo.MaxDescriptionLen)
	}
	if !payload.Priority.Valid() {
		return todo.InvalidInputf("Unknown priority tag %d", uint8(payload.Priority))
	}
	return nil
}
