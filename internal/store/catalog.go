package store

import (
	"context"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
)

// CatalogStore holds the reference entities appointments point at. The
// scheduler only ever reads them; the catalog service owns their lifecycle.
type CatalogStore interface {
	GetDentist(ctx context.Context, id uuid.UUID) (domain.Dentist, error)
	ListDentists(ctx context.Context) ([]domain.Dentist, error)
	CreateDentist(ctx context.Context, d domain.Dentist) (domain.Dentist, error)
	UpdateDentist(ctx context.Context, d domain.Dentist) (domain.Dentist, error)
	DeleteDentist(ctx context.Context, id uuid.UUID) error

	GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error)
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error)
	UpdatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error

	GetService(ctx context.Context, id uuid.UUID) (domain.Service, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
	CreateService(ctx context.Context, s domain.Service) (domain.Service, error)
	UpdateService(ctx context.Context, s domain.Service) (domain.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}
