package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/langexch/langexch/internal/language"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// requestError is a parse failure that already knows its response
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string {
	return e.message
}

var (
	errUnsupportedFormat = &requestError{status: http.StatusUnsupportedMediaType, message: msgUnsupportedFormat}
	errInvalidJSON       = &requestError{status: http.StatusUnsupportedMediaType, message: msgInvalidJSON}
	errInvalidInput      = &requestError{status: http.StatusUnprocessableEntity, message: msgInvalidInput}
)

// isJSONContentType reports whether the header names application/json.
// Parameters such as charset are allowed.
func isJSONContentType(header string) bool {
	if header == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// decodeLanguageName reads {"lang_name": "..."} from the request body and
// checks the name against the language rules
func decodeLanguageName(w http.ResponseWriter, r *http.Request) (string, error) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		return "", errUnsupportedFormat
	}

	var body map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return "", errInvalidJSON
	}
	// the body must hold exactly one JSON value
	if _, err := dec.Token(); err != io.EOF {
		return "", errInvalidJSON
	}

	name, ok := body["lang_name"].(string)
	if !ok || name == "" {
		return "", errInvalidInput
	}
	if err := language.Validate(name); err != nil {
		return "", errInvalidInput
	}

	return name, nil
}

// parseID extracts the {id} URL parameter. ok is false for anything that is not an integer.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// writeRequestError sends the response for a decode failure
func writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		jsonError(w, reqErr.message, reqErr.status)
		return
	}
	jsonError(w, msgInvalidInput, http.StatusUnprocessableEntity)
}
