package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ssargent/skuld/pkg/store"
	"github.com/ssargent/skuld/pkg/todo"
)

// Metrics register against the default prometheus registry, so one shared
// instance serves every test in the package.
var testMetrics = NewMetrics()

func setupTestServer(t *testing.T) (*Server, func()) {
	// Create temporary directory for test
	tmpDir, err := os.MkdirTemp("", "skuld_api_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	// Create todo store
	config := store.Config{
		DataDir: tmpDir,
	}

	todoStore, err := store.NewTodoStore(config)
	if err != nil {
		t.Fatalf("Failed to create todo store: %v", err)
	}

	_, err = todoStore.Open()
	if err != nil {
		t.Fatalf("Failed to open todo store: %v", err)
	}

	// Create API server
	server := NewServer(todoStore, ServerConfig{}, testMetrics)

	// Cleanup function
	cleanup := func() {
		todoStore.Close()
		os.RemoveAll(tmpDir)
	}

	return server, cleanup
}

// todoRequest builds a request with the {id} route param wired into the
// chi route context, the way the router would.
func todoRequest(method, id, caller string, body string) *http.Request {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, "/todos/"+id, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(CallerHeader, caller)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestServer_handleHealth(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	server.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response APIResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !response.Success {
		t.Error("Expected success to be true")
	}

	if response.Data == nil {
		t.Error("Expected data to be present")
	}
}

func TestServer_handleAddTodo(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid todo",
			body:           `{"title":"Write report","description":"quarterly numbers","priority":"high"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty title",
			body:           `{"title":"","description":"no title"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid json",
			body:           `{"title":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown priority",
			body:           `{"title":"Sort inbox","priority":"whenever"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "oversize title",
			body:           `{"title":"` + strings.Repeat("a", todo.MaxTitleLen+1) + `"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/todos", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(CallerHeader, "alice")

			w := httptest.NewRecorder()

			handler := server.handleAddTodo
			handler(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var response APIResponse
				if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if !response.Success {
					t.Error("Expected success to be true")
				}

				data, ok := response.Data.(map[string]interface{})
				if !ok {
					t.Fatal("Expected data to be a map")
				}
				if data["title"] != "Write report" {
					t.Errorf("Expected title %q, got %v", "Write report", data["title"])
				}
				if data["status"] != "pending" {
					t.Errorf("Expected status pending, got %v", data["status"])
				}
				if data["owner"] != "alice" {
					t.Errorf("Expected owner alice, got %v", data["owner"])
				}
			}
		})
	}
}

func TestServer_handleGetTodo(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	created, err := server.store.Add("alice", todo.Payload{Title: "Water plants"})
	if err != nil {
		t.Fatalf("Failed to add test todo: %v", err)
	}
	idStr := strconv.FormatUint(created.ID, 10)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{
			name:           "existing todo",
			id:             idStr,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-existing todo",
			id:             "9999",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "non-numeric id",
			id:             "abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := todoRequest("GET", tt.id, "", "")
			w := httptest.NewRecorder()

			handler := server.handleGetTodo
			handler(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var response APIResponse
				if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				data, ok := response.Data.(map[string]interface{})
				if !ok {
					t.Fatal("Expected data to be a map")
				}
				if data["title"] != "Water plants" {
					t.Errorf("Expected title %q, got %v", "Water plants", data["title"])
				}
			}
		})
	}
}

func TestServer_handleUpdateTodo(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	created, err := server.store.Add("alice", todo.Payload{Title: "Draft release notes"})
	if err != nil {
		t.Fatalf("Failed to add test todo: %v", err)
	}
	idStr := strconv.FormatUint(created.ID, 10)

	tests := []struct {
		name           string
		id             string
		caller         string
		body           string
		expectedStatus int
	}{
		{
			name:           "owner updates",
			id:             idStr,
			caller:         "alice",
			body:           `{"title":"Publish release notes","description":"v1.0","priority":"urgent"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-owner gets not found",
			id:             idStr,
			caller:         "mallory",
			body:           `{"title":"hijacked"}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing todo",
			id:             "9999",
			caller:         "alice",
			body:           `{"title":"ghost"}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "non-numeric id",
			id:             "abc",
			caller:         "alice",
			body:           `{"title":"x"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid json",
			id:             idStr,
			caller:         "alice",
			body:           `{"title":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := todoRequest("PUT", tt.id, tt.caller, tt.body)
			w := httptest.NewRecorder()

			handler := server.handleUpdateTodo
			handler(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var response APIResponse
				if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				data, ok := response.Data.(map[string]interface{})
				if !ok {
					t.Fatal("Expected data to be a map")
				}
				if data["title"] != "Publish release notes" {
					t.Errorf("Expected updated title, got %v", data["title"])
				}
				if data["updated_at"] == nil {
					t.Error("Expected updated_at to be set")
				}
			}
		})
	}
}

func TestServer_handleDeleteTodo(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	created, err := server.store.Add("alice", todo.Payload{Title: "Cancel subscription"})
	if err != nil {
		t.Fatalf("Failed to add test todo: %v", err)
	}
	idStr := strconv.FormatUint(created.ID, 10)

	tests := []struct {
		name           string
		id             string
		caller         string
		expectedStatus int
	}{
		{
			name:           "non-numeric id",
			id:             "abc",
			caller:         "alice",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing todo",
			id:             "9999",
			caller:         "alice",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "owner deletes",
			id:             idStr,
			caller:         "alice",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "already deleted",
			id:             idStr,
			caller:         "alice",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := todoRequest("DELETE", tt.id, tt.caller, "")
			w := httptest.NewRecorder()

			handler := server.handleDeleteTodo
			handler(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var response APIResponse
				if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				data, ok := response.Data.(map[string]interface{})
				if !ok {
					t.Fatal("Expected data to be a map")
				}
				if data["title"] != "Cancel subscription" {
					t.Errorf("Expected deleted record in response, got %v", data["title"])
				}
			}
		})
	}
}

func TestServer_handleDeleteTodoNonOwner(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	created, err := server.store.Add("alice", todo.Payload{Title: "Pay invoice"})
	if err != nil {
		t.Fatalf("Failed to add test todo: %v", err)
	}

	req := todoRequest("DELETE", strconv.FormatUint(created.ID, 10), "mallory", "")
	w := httptest.NewRecorder()

	server.handleDeleteTodo(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	// The removal happens before the ownership check, so the record is
	// gone even though the caller was told it was not found.
	if _, err := server.store.Get(created.ID); !todo.IsNotFound(err) {
		t.Errorf("Expected record to be gone, got %v", err)
	}
}

func TestServer_handleUpdateStatus(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	created, err := server.store.Add("alice", todo.Payload{Title: "Review pull request"})
	if err != nil {
		t.Fatalf("Failed to add test todo: %v", err)
	}
	idStr := strconv.FormatUint(created.ID, 10)

	tests := []struct {
		name           string
		id             string
		caller         string
		body           string
		expectedStatus int
	}{
		{
			name:           "owner completes",
			id:             idStr,
			caller:         "alice",
			body:           `{"status":"completed"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-owner gets not found",
			id:             idStr,
			caller:         "mallory",
			body:           `{"status":"pending"}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing todo",
			id:             "9999",
			caller:         "alice",
			body:           `{"status":"completed"}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown status",
			id:             idStr,
			caller:         "alice",
			body:           `{"status":"reopened"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-numeric id",
			id:             "abc",
			caller:         "alice",
			body:           `{"status":"completed"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := todoRequest("PUT", tt.id, tt.caller, tt.body)
			w := httptest.NewRecorder()

			handler := server.handleUpdateStatus
			handler(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var response APIResponse
				if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				data, ok := response.Data.(map[string]interface{})
				if !ok {
					t.Fatal("Expected data to be a map")
				}
				if data["status"] != "completed" {
					t.Errorf("Expected status completed, got %v", data["status"])
				}
			}
		})
	}
}

func TestServer_handleStats(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	for _, title := range []string{"One", "Two", "Three"} {
		if _, err := server.store.Add("alice", todo.Payload{Title: title}); err != nil {
			t.Fatalf("Failed to add test todo: %v", err)
		}
	}

	req := httptest.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()

	server.handleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response APIResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !response.Success {
		t.Error("Expected success to be true")
	}

	data, ok := response.Data.(map[string]interface{})
	if !ok {
		t.Fatal("Expected data to be a map")
	}

	if todos, ok := data["Todos"].(float64); !ok || int(todos) != 3 {
		t.Errorf("Expected 3 todos, got %v", data["Todos"])
	}
}
