package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ssargent/skuld/pkg/todo"
)

// Server holds the API server state
type Server struct {
	store   ITodoStore
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(store ITodoStore, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
	}
}

// parseTodoID extracts the {id} route parameter as a uint64.
func parseTodoID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleAddTodo godoc
//
//	@Summary		Create a todo
//	@Description	Create a new todo owned by the caller
//	@Tags			todos
//	@Accept			json
//	@Produce		json
//	@Param			X-Caller-Id	header		string		false	"Caller identity (defaults to anonymous)"
//	@Param			request		body		TodoRequest	true	"Todo fields"
//	@Success		200			{object}	todo.Todo
//	@Failure		400			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Router			/todos [post]
func (s *Server) handleAddTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if s.metrics != nil {
			s.metrics.RecordTodoOperation("add", false, time.Since(start))
		}
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	payload := todo.Payload{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}

	created, err := s.store.Add(callerIdentity(r), payload)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordTodoOperation("add", false, time.Since(start))
		}
		sendStoreError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordTodoOperation("add", true, time.Since(start))
	}
	sendSuccess(w, created)
}

// handleGetTodo godoc
//
//	@Summary		Get a todo by id
//	@Description	Retrieve the todo with the given id
//	@Tags			todos
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"Todo id"
//	@Success		200	{object}	todo.Todo
//	@Failure		400	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/todos/{id} [get]
func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := parseTodoID(r)
	if err != nil {
		s.metrics.RecordTodoOperation("get", false, time.Since(start))
		sendError(w, "Invalid todo id", http.StatusBadRequest)
		return
	}

	t, err := s.store.Get(id)
	if err != nil {
		s.metrics.RecordTodoOperation("get", false, time.Since(start))
		sendStoreError(w, err)
		return
	}

	s.metrics.RecordTodoOperation("get", true, time.Since(start))
	sendSuccess(w, t)
}

// handleUpdateTodo godoc
//
//	@Summary		Update a todo
//	@Description	Replace the caller-editable fields of a todo. Only the owner may update.
//	@Tags			todos
//	@Accept			json
//	@Produce		json
//	@Param			X-Caller-Id	header		string		false	"Caller identity (defaults to anonymous)"
//	@Param			id			path		int			true	"Todo id"
//	@Param			request		body		TodoRequest	true	"Todo fields"
//	@Success		200			{object}	todo.Todo
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Router			/todos/{id} [put]
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := parseTodoID(r)
	if err != nil {
		s.metrics.RecordTodoOperation("update", false, time.Since(start))
		sendError(w, "Invalid todo id", http.StatusBadRequest)
		return
	}

	var req TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordTodoOperation("update", false, time.Since(start))
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	payload := todo.Payload{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}

	updated, err := s.store.Update(id, callerIdentity(r), payload)
	if err != nil {
		s.metrics.RecordTodoOperation("update", false, time.Since(start))
		sendStoreError(w, err)
		return
	}

	s.metrics.RecordTodoOperation("update", true, time.Since(start))
	sendSuccess(w, updated)
}

// handleDeleteTodo godoc
//
//	@Summary		Delete a todo
//	@Description	Delete the todo with the given id. Only the owner may delete.
//	@Tags			todos
//	@Accept			json
//	@Produce		json
//	@Param			X-Caller-Id	header		string	false	"Caller identity (defaults to anonymous)"
//	@Param			id			path		int		true	"Todo id"
//	@Success		200			{object}	todo.Todo
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Router			/todos/{id} [delete]
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := parseTodoID(r)
	if err != nil {
		s.metrics.RecordTodoOperation("delete", false, time.Since(start))
		sendError(w, "Invalid todo id", http.StatusBadRequest)
		return
	}

	deleted, err := s.store.Delete(id, callerIdentity(r))
	if err != nil {
		s.metrics.RecordTodoOperation("delete", false, time.Since(start))
		sendStoreError(w, err)
		return
	}

	s.metrics.RecordTodoOperation("delete", true, time.Since(start))
	sendSuccess(w, deleted)
}

// handleUpdateStatus godoc
//
//	@Summary		Update a todo's status
//	@Description	Move a todo through its lifecycle. Only the owner may change status.
//	@Tags			todos
//	@Accept			json
//	@Produce		json
//	@Param			X-Caller-Id	header		string			false	"Caller identity (defaults to anonymous)"
//	@Param			id			path		int				true	"Todo id"
//	@Param			request		body		StatusRequest	true	"New status"
//	@Success		200			{object}	todo.Todo
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Router			/todos/{id}/status [put]
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := parseTodoID(r)
	if err != nil {
		s.metrics.RecordTodoOperation("update_status", false, time.Since(start))
		sendError(w, "Invalid todo id", http.StatusBadRequest)
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordTodoOperation("update_status", false, time.Since(start))
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	updated, err := s.store.UpdateStatus(id, callerIdentity(r), req.Status)
	if err != nil {
		s.metrics.RecordTodoOperation("update_status", false, time.Since(start))
		sendStoreError(w, err)
		return
	}

	s.metrics.RecordTodoOperation("update_status", true, time.Since(start))
	sendSuccess(w, updated)
}

// handleStats godoc
//
//	@Summary		Get store statistics
//	@Description	Get statistics about the store including todo count and region size
//	@Tags			diagnostics
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		500	{object}	map[string]string
//	@Router			/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.store.Stats()
	// Update metrics with current stats
	s.metrics.UpdateStoreStats(stats.Todos, stats.DataSize)
	sendSuccess(w, stats)
}

// startMetricsUpdater periodically refreshes store gauges
func (s *Server) startMetricsUpdater() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		stats := s.store.Stats()
		s.metrics.UpdateStoreStats(stats.Todos, stats.DataSize)
	}
}
