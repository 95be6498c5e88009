package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps domain and store failures onto response codes: validation
// problems are 400, missing references 404, booking conflicts and terminal
// state violations 409, everything else a generic 500.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, store.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "dentist already has an appointment in that time window"})
	case errors.Is(err, domain.ErrAppointmentCancelled):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "appointment is cancelled"})
	default:
		log.Error("request failed", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
