package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"clinicbook/internal/service/scheduling"
)

var validate = validator.New()

type SchedulingService interface {
	Book(ctx context.Context, dentistID, patientID, serviceID uuid.UUID, startUTC time.Time) (uuid.UUID, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID, reason string) error
	Reschedule(ctx context.Context, appointmentID uuid.UUID, newStartUTC time.Time) error
	ListByDentist(ctx context.Context, dentistID uuid.UUID, day *time.Time) ([]scheduling.AppointmentListItem, error)
	Availability(ctx context.Context, dentistID uuid.UUID, date time.Time) ([]scheduling.Slot, error)
}

type AppointmentsHandler struct {
	svc SchedulingService
	log *slog.Logger
}

func NewAppointmentsHandler(svc SchedulingService, log *slog.Logger) *AppointmentsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsHandler{
		svc: svc,
		log: log.With(slog.String("component", "httpapi.appointments")),
	}
}

type bookRequest struct {
	DentistID string    `json:"dentist_id" validate:"required,uuid"`
	PatientID string    `json:"patient_id" validate:"required,uuid"`
	ServiceID string    `json:"service_id" validate:"required,uuid"`
	StartUTC  time.Time `json:"start_utc" validate:"required"`
}

type bookResponse struct {
	ID string `json:"id"`
}

func (h *AppointmentsHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if err := validate.Struct(req); err != nil {
		h.log.Warn("invalid book request", slog.Any("err", err))
		badRequest(w, "dentist_id, patient_id, service_id and start_utc are required")
		return
	}

	id, err := h.svc.Book(r.Context(),
		uuid.MustParse(req.DentistID),
		uuid.MustParse(req.PatientID),
		uuid.MustParse(req.ServiceID),
		req.StartUTC,
	)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	h.log.Info("appointment booked",
		slog.String("appointment_id", id.String()),
		slog.String("dentist_id", req.DentistID),
		slog.Time("start_utc", req.StartUTC.UTC()),
	)
	writeJSON(w, http.StatusOK, bookResponse{ID: id.String()})
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"required,max=200"`
}

func (h *AppointmentsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if err := validate.Struct(req); err != nil {
		badRequest(w, "reason is required and must be at most 200 characters")
		return
	}

	if err := h.svc.Cancel(r.Context(), id, req.Reason); err != nil {
		writeError(w, h.log, err)
		return
	}

	h.log.Info("appointment cancelled", slog.String("appointment_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

type rescheduleRequest struct {
	NewStartUTC time.Time `json:"new_start_utc" validate:"required"`
}

func (h *AppointmentsHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if err := validate.Struct(req); err != nil {
		badRequest(w, "new_start_utc is required")
		return
	}

	if err := h.svc.Reschedule(r.Context(), id, req.NewStartUTC); err != nil {
		writeError(w, h.log, err)
		return
	}

	h.log.Info("appointment rescheduled",
		slog.String("appointment_id", id.String()),
		slog.Time("new_start_utc", req.NewStartUTC.UTC()),
	)
	w.WriteHeader(http.StatusNoContent)
}

type appointmentListItem struct {
	ID              string    `json:"id"`
	StartUTC        time.Time `json:"start_utc"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	PatientID       string    `json:"patient_id"`
	PatientName     string    `json:"patient_name"`
	ServiceID       string    `json:"service_id"`
	ServiceName     string    `json:"service_name"`
}

func (h *AppointmentsHandler) ListByDentist(w http.ResponseWriter, r *http.Request) {
	dentistID, err := uuid.Parse(r.URL.Query().Get("dentist_id"))
	if err != nil {
		badRequest(w, "dentist_id is required")
		return
	}

	var day *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			badRequest(w, "date must be YYYY-MM-DD")
			return
		}
		day = &d
	}

	items, err := h.svc.ListByDentist(r.Context(), dentistID, day)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	out := make([]appointmentListItem, 0, len(items))
	for _, it := range items {
		out = append(out, appointmentListItem{
			ID:              it.ID.String(),
			StartUTC:        it.StartUTC,
			DurationMinutes: it.DurationMinutes,
			Status:          it.Status.String(),
			PatientID:       it.PatientID.String(),
			PatientName:     it.PatientName,
			ServiceID:       it.ServiceID.String(),
			ServiceName:     it.ServiceName,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type slotItem struct {
	StartUTC time.Time `json:"start_utc"`
	EndUTC   time.Time `json:"end_utc"`
}

func (h *AppointmentsHandler) Availability(w http.ResponseWriter, r *http.Request) {
	dentistID, err := uuid.Parse(r.URL.Query().Get("dentist_id"))
	if err != nil {
		badRequest(w, "dentist_id is required")
		return
	}
	date, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.UTC)
	if err != nil {
		badRequest(w, "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.svc.Availability(r.Context(), dentistID, date)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	out := make([]slotItem, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotItem{StartUTC: s.StartUTC, EndUTC: s.EndUTC})
	}
	writeJSON(w, http.StatusOK, out)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		badRequest(w, name+" must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
