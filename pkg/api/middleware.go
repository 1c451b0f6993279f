package api

import (
	"encoding/json"
	"net/http"

	"github.com/ssargent/skuld/pkg/todo"
)

const (
	// CallerHeader carries the opaque caller identity supplied by the
	// platform in front of the API.
	CallerHeader = "X-Caller-Id"

	// AnonymousCaller is the identity assumed when the header is absent.
	AnonymousCaller = "anonymous"
)

// callerIdentity extracts the caller identity from the request. The value
// is treated as opaque: it is recorded as a todo's owner at creation and
// compared verbatim on later mutations. There is no authentication.
func callerIdentity(r *http.Request) string {
	if caller := r.Header.Get(CallerHeader); caller != "" {
		return caller
	}
	return AnonymousCaller
}

// sendSuccess sends a successful JSON response
func sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	response := APIResponse{
		Success: true,
		Data:    data,
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// sendError sends an error JSON response
func sendError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: false,
		Error:   message,
	}
	_ = json.NewEncoder(w).Encode(response)
}

// sendStoreError maps a store error onto the wire. The two typed kinds
// keep their messages: NotFound becomes 404 (covering not-authorized as
// well, deliberately indistinguishable) and InvalidInput becomes 400.
// Anything else is a 500.
func sendStoreError(w http.ResponseWriter, err error) {
	switch {
	case todo.IsNotFound(err):
		sendError(w, err.Error(), http.StatusNotFound)
	case todo.IsInvalidInput(err):
		sendError(w, err.Error(), http.StatusBadRequest)
	default:
		sendError(w, err.Error(), http.StatusInternalServerError)
	}
}
