package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/langexch/langexch/internal/language"
	"github.com/langexch/langexch/internal/nameindex"
)

// Response messages
const (
	msgUnsupportedFormat = "Unsupported input format"
	msgInvalidJSON       = "Invalid JSON"
	msgInvalidInput      = "Invalid input"
	msgAlreadyExists     = "Language already exists"
	msgNameNotUnique     = "Language name must be unique"
	msgDoesNotExist      = "Language does not exist"
	msgInternal          = "Internal server error"
)

// Pinger reports whether the storage backend is reachable
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// Handlers contains all HTTP handlers
type Handlers struct {
	manager *language.Manager
	index   *nameindex.Index
	pinger  Pinger
}

// New creates a new Handlers instance
func New(manager *language.Manager, index *nameindex.Index, pinger Pinger) *Handlers {
	return &Handlers{
		manager: manager,
		index:   index,
		pinger:  pinger,
	}
}

// envelope is the body of every response
type envelope struct {
	Error string `json:"error"`
	Data  any    `json:"data"`
}

// idData is the payload returned by mutations
type idData struct {
	ID int64 `json:"lang_id"`
}

// writeJSON sends a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// jsonData sends a success envelope
func jsonData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

// jsonError sends an error envelope
func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, envelope{Error: message, Data: ""})
}

// storageFailure maps an error from the manager to a response.
// conflictMsg is used when the storage reports a duplicate name.
func storageFailure(w http.ResponseWriter, r *http.Request, err error, conflictMsg string) {
	var validationErr *language.ValidationError
	switch {
	case errors.As(err, &validationErr):
		jsonError(w, msgInvalidInput, http.StatusUnprocessableEntity)
	case errors.Is(err, language.ErrConflict):
		jsonError(w, conflictMsg, http.StatusConflict)
	case errors.Is(err, language.ErrNotFound):
		jsonError(w, msgDoesNotExist, http.StatusNotFound)
	default:
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Language request failed")
		jsonError(w, msgInternal, http.StatusInternalServerError)
	}
}
