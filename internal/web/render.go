package web

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/hpungsan/sift/internal/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// renderError writes err as a JSON error response.
// Non-SiftErrors become INTERNAL; internal details are logged, never sent.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var sErr *errors.SiftError
	if !stderrors.As(err, &sErr) {
		sErr = errors.NewInternal(err)
	}

	if sErr.Code == errors.ErrInternal {
		log.WithFields(log.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"details": sErr.Details,
		}).Error("internal error")
	}

	renderJSON(w, sErr.Status, errorBody{Error: errorPayload{
		Code:    string(sErr.Code),
		Message: sErr.Message,
		Status:  sErr.Status,
	}})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}
