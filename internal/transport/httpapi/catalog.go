package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
)

type CatalogService interface {
	ListDentists(ctx context.Context) ([]domain.Dentist, error)
	CreateDentist(ctx context.Context, fullName string) (domain.Dentist, error)
	UpdateDentist(ctx context.Context, id uuid.UUID, fullName string) (domain.Dentist, error)
	DeleteDentist(ctx context.Context, id uuid.UUID) error

	ListPatients(ctx context.Context) ([]domain.Patient, error)
	CreatePatient(ctx context.Context, fullName, email string) (domain.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, fullName, email string) (domain.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error

	ListServices(ctx context.Context) ([]domain.Service, error)
	CreateService(ctx context.Context, name string, durationMinutes int) (domain.Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, name string, durationMinutes int) (domain.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}

type CatalogHandler struct {
	svc CatalogService
	log *slog.Logger
}

func NewCatalogHandler(svc CatalogService, log *slog.Logger) *CatalogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogHandler{
		svc: svc,
		log: log.With(slog.String("component", "httpapi.catalog")),
	}
}

type dentistRequest struct {
	FullName string `json:"full_name" validate:"required,max=200"`
}

type dentistResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

func toDentistResponse(d domain.Dentist) dentistResponse {
	return dentistResponse{ID: d.ID.String(), FullName: d.FullName}
}

func (h *CatalogHandler) ListDentists(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListDentists(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out := make([]dentistResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, toDentistResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) CreateDentist(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[dentistRequest](w, r, "full_name is required")
	if !ok {
		return
	}
	d, err := h.svc.CreateDentist(r.Context(), req.FullName)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDentistResponse(d))
}

func (h *CatalogHandler) UpdateDentist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeValid[dentistRequest](w, r, "full_name is required")
	if !ok {
		return
	}
	d, err := h.svc.UpdateDentist(r.Context(), id, req.FullName)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toDentistResponse(d))
}

func (h *CatalogHandler) DeleteDentist(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.svc.DeleteDentist)
}

type patientRequest struct {
	FullName string `json:"full_name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=256"`
}

type patientResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func toPatientResponse(p domain.Patient) patientResponse {
	return patientResponse{ID: p.ID.String(), FullName: p.FullName, Email: p.Email}
}

func (h *CatalogHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListPatients(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out := make([]patientResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, toPatientResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[patientRequest](w, r, "full_name and a valid email are required")
	if !ok {
		return
	}
	p, err := h.svc.CreatePatient(r.Context(), req.FullName, req.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPatientResponse(p))
}

func (h *CatalogHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeValid[patientRequest](w, r, "full_name and a valid email are required")
	if !ok {
		return
	}
	p, err := h.svc.UpdatePatient(r.Context(), id, req.FullName, req.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPatientResponse(p))
}

func (h *CatalogHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.svc.DeletePatient)
}

type serviceRequest struct {
	Name            string `json:"name" validate:"required,max=150"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
}

type serviceResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

func toServiceResponse(s domain.Service) serviceResponse {
	return serviceResponse{ID: s.ID.String(), Name: s.Name, DurationMinutes: s.DurationMinutes}
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListServices(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out := make([]serviceResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, toServiceResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[serviceRequest](w, r, "name and a positive duration_minutes are required")
	if !ok {
		return
	}
	s, err := h.svc.CreateService(r.Context(), req.Name, req.DurationMinutes)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toServiceResponse(s))
}

func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeValid[serviceRequest](w, r, "name and a positive duration_minutes are required")
	if !ok {
		return
	}
	s, err := h.svc.UpdateService(r.Context(), id, req.Name, req.DurationMinutes)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceResponse(s))
}

func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.svc.DeleteService)
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) error) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := fn(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeValid[T any](w http.ResponseWriter, r *http.Request, msg string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json body")
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		badRequest(w, msg)
		return req, false
	}
	return req, true
}
