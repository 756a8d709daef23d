package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"inkwell/internal/domain"
	"inkwell/internal/httputil"
	"inkwell/internal/realtime"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(),
			map[string]interface{}{
				"resource_type": conflictErr.ResourceType,
				"resource_id":   conflictErr.ResourceID,
			})
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// HandleCreateConflict handles conflicts during creation by returning the
// existing resource with 409. Non-conflict errors fall through to the
// normal mapping.
func HandleCreateConflict[T any](w http.ResponseWriter, err error, fetchFn func(id string) (*T, error)) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		existing, fetchErr := fetchFn(conflictErr.ResourceID)
		if fetchErr != nil {
			handleError(w, fetchErr)
			return
		}
		httputil.RespondJSON(w, http.StatusConflict, existing)
		return
	}

	handleError(w, err)
}

// publishInsert notifies subscribed websocket clients about a new row.
// Delivery is best-effort; marshal failures are dropped silently since the
// write itself already succeeded.
func publishInsert(hub *realtime.Hub, table, databaseID string, record interface{}) {
	if hub == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	hub.Publish(realtime.Event{
		Type:   realtime.EventInsert,
		Table:  table,
		Filter: "database_id=eq." + databaseID,
		Record: raw,
	})
}

// databaseID extracts the required database_id query parameter.
func databaseID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.URL.Query().Get("database_id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "database_id query parameter is required")
		return "", false
	}
	return id, true
}
