package catalog

import (
	"context"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

// Service is plain CRUD over the reference entities the scheduler books
// against. Validation lives in the domain constructors.
type Service struct {
	store store.CatalogStore
}

func NewService(st store.CatalogStore) *Service {
	return &Service{store: st}
}

func (s *Service) ListDentists(ctx context.Context) ([]domain.Dentist, error) {
	return s.store.ListDentists(ctx)
}

func (s *Service) CreateDentist(ctx context.Context, fullName string) (domain.Dentist, error) {
	d, err := domain.NewDentist(fullName)
	if err != nil {
		return domain.Dentist{}, err
	}
	return s.store.CreateDentist(ctx, d)
}

func (s *Service) UpdateDentist(ctx context.Context, id uuid.UUID, fullName string) (domain.Dentist, error) {
	d, err := s.store.GetDentist(ctx, id)
	if err != nil {
		return domain.Dentist{}, err
	}
	if err := d.Rename(fullName); err != nil {
		return domain.Dentist{}, err
	}
	return s.store.UpdateDentist(ctx, d)
}

func (s *Service) DeleteDentist(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteDentist(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	return s.store.ListPatients(ctx)
}

func (s *Service) CreatePatient(ctx context.Context, fullName, email string) (domain.Patient, error) {
	p, err := domain.NewPatient(fullName, email)
	if err != nil {
		return domain.Patient{}, err
	}
	return s.store.CreatePatient(ctx, p)
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, fullName, email string) (domain.Patient, error) {
	p, err := s.store.GetPatient(ctx, id)
	if err != nil {
		return domain.Patient{}, err
	}
	if err := p.Update(fullName, email); err != nil {
		return domain.Patient{}, err
	}
	return s.store.UpdatePatient(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.store.DeletePatient(ctx, id)
}

func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.store.ListServices(ctx)
}

func (s *Service) CreateService(ctx context.Context, name string, durationMinutes int) (domain.Service, error) {
	sv, err := domain.NewService(name, durationMinutes)
	if err != nil {
		return domain.Service{}, err
	}
	return s.store.CreateService(ctx, sv)
}

// UpdateService changes the template only; durations already copied onto
// booked appointments are unaffected.
func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, name string, durationMinutes int) (domain.Service, error) {
	sv, err := s.store.GetService(ctx, id)
	if err != nil {
		return domain.Service{}, err
	}
	if err := sv.Update(name, durationMinutes); err != nil {
		return domain.Service{}, err
	}
	return s.store.UpdateService(ctx, sv)
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteService(ctx, id)
}
