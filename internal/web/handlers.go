package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hpungsan/sift/internal/config"
	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/filter"
	"github.com/hpungsan/sift/internal/ops"
	"github.com/hpungsan/sift/internal/store"
)

// maxBodyBytes bounds a create request body.
const maxBodyBytes = 1 << 20

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	store   store.Store
	cfg     *config.Config
	version string
}

// HandleCreate handles POST /strings: analyze and store a new string.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	value, err := decodeValue(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		renderError(w, r, err)
		return
	}

	rec, err := ops.Create(r.Context(), h.store, ops.CreateInput{Value: value})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, rec)
}

// decodeValue extracts the "value" field of a create body.
// Missing, null or empty is INVALID_REQUEST; any non-string is INVALID_VALUE_TYPE.
func decodeValue(body io.Reader) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		return "", errors.NewInvalidRequest("request body must be a JSON object")
	}

	raw, ok := fields["value"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", errors.NewInvalidRequest(`missing "value" field`)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", errors.NewInvalidValueType("value", "a string")
	}
	if value == "" {
		return "", errors.NewInvalidRequest(`missing "value" field`)
	}
	return value, nil
}

// HandleList handles GET /strings: list with structured filters.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := make(map[string]string)
	for _, name := range filter.Params {
		if query.Has(name) {
			params[name] = query.Get(name)
		}
	}

	result, err := ops.List(r.Context(), h.store, ops.ListInput{Params: params})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleNaturalLanguage handles GET /strings/filter-by-natural-language.
func (h *Handlers) HandleNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Query(r.Context(), h.store, ops.QueryInput{Query: r.URL.Query().Get("query")})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleGet handles GET /strings/{value}.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := ops.Fetch(r.Context(), h.store, ops.FetchInput{Value: r.PathValue("value")})
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, rec)
}

// HandleDelete handles DELETE /strings/{value}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := ops.Delete(r.Context(), h.store, ops.DeleteInput{Value: r.PathValue("value")}); err != nil {
		renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		renderError(w, r, errors.NewInternal(err))
		return
	}
	n, err := h.store.Count(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"backend": h.cfg.Backend,
		"version": h.version,
		"count":   n,
	})
}
