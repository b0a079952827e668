package server

import (
	"encoding/json"
	"net/http"

	"github.com/mattlianje/pipeviz-sub000/pkg/cache"
	"github.com/mattlianje/pipeviz-sub000/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Names   []string    `json:"names,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"code":"INTERNAL_ERROR","message":"encoding failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError maps the structured error taxonomy onto HTTP statuses: unknown
// identifiers are 404, bad inputs are 400, everything else is 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNodeNotFound, errors.ErrCodeAttributeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidSelection, errors.ErrCodeMissingLink,
		errors.ErrCodeConfigInvalid, errors.ErrCodeConfigDecode:
		status = http.StatusBadRequest
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{
		Code:    code,
		Message: errors.UserMessage(err),
		Names:   errors.GetNames(err),
	})
}

// cached serves a GET result through the response cache. The key embeds the
// snapshot hash, so entries from superseded snapshots are unreachable. Cache
// failures degrade to computing the result; they are logged, not surfaced.
func (s *Server) cached(w http.ResponseWriter, r *http.Request, op string, params []string, compute func() (any, error)) {
	key := cache.ResultKey(s.engine.SnapshotHash(), op, params...)

	if data, ok, err := s.cache.Get(r.Context(), key); err != nil {
		s.logger.Warn("cache get failed", "op", op, "error", err)
	} else if ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encoding %s result", op))
		return
	}
	if err := s.cache.Set(r.Context(), key, data, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "op", op, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(data)
}
