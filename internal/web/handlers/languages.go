package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// CreateLanguage handles POST /languages
func (h *Handlers) CreateLanguage(w http.ResponseWriter, r *http.Request) {
	name, err := decodeLanguageName(w, r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	if h.index.HasName(name) {
		jsonError(w, msgAlreadyExists, http.StatusConflict)
		return
	}

	id, err := h.manager.AddLanguage(r.Context(), name)
	if err != nil {
		storageFailure(w, r, err, msgAlreadyExists)
		return
	}
	h.index.Put(id, name)

	log.Info().Int64("lang_id", id).Str("lang_name", name).Msg("Language created")
	jsonData(w, http.StatusCreated, idData{ID: id})
}

// GetLanguage handles GET /languages/{id}
func (h *Handlers) GetLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		jsonError(w, msgDoesNotExist, http.StatusNotFound)
		return
	}

	lang, err := h.manager.GetLanguage(r.Context(), id)
	if err != nil {
		storageFailure(w, r, err, msgAlreadyExists)
		return
	}
	h.index.Put(lang.ID, lang.Name)

	jsonData(w, http.StatusOK, lang)
}

// UpdateLanguage handles PUT /languages/{id}
func (h *Handlers) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		jsonError(w, msgDoesNotExist, http.StatusNotFound)
		return
	}

	name, err := decodeLanguageName(w, r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	exists, err := h.index.HasID(r.Context(), id)
	if err != nil {
		storageFailure(w, r, err, msgNameNotUnique)
		return
	}
	if !exists {
		jsonError(w, msgDoesNotExist, http.StatusNotFound)
		return
	}

	// Renaming to the current name also counts as a duplicate
	if h.index.HasName(name) {
		jsonError(w, msgNameNotUnique, http.StatusConflict)
		return
	}

	if err := h.manager.UpdateLanguage(r.Context(), id, name); err != nil {
		storageFailure(w, r, err, msgNameNotUnique)
		return
	}
	h.index.Put(id, name)

	log.Info().Int64("lang_id", id).Str("lang_name", name).Msg("Language updated")
	jsonData(w, http.StatusOK, idData{ID: id})
}

// DeleteLanguage handles DELETE /languages/{id}
func (h *Handlers) DeleteLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		jsonError(w, msgDoesNotExist, http.StatusNotFound)
		return
	}

	exists, err := h.index.HasID(r.Context(), id)
	if err != nil {
		storageFailure(w, r, err, msgAlreadyExists)
		return
	}
	if !exists {
		jsonError(w, msgDoesNotExist, http.StatusNotFound)
		return
	}

	if err := h.manager.DeleteLanguage(r.Context(), id); err != nil {
		storageFailure(w, r, err, msgAlreadyExists)
		return
	}
	h.index.Remove(id)

	log.Info().Int64("lang_id", id).Msg("Language deleted")
	jsonData(w, http.StatusOK, idData{ID: id})
}

// ListLanguages handles GET /languages/
func (h *Handlers) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.manager.GetLanguages(r.Context())
	if err != nil {
		storageFailure(w, r, err, msgAlreadyExists)
		return
	}

	jsonData(w, http.StatusOK, languages)
}
