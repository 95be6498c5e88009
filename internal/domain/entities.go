package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Dentist struct {
	bun.BaseModel `bun:"table:dentists"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	FullName  string    `bun:"full_name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func NewDentist(fullName string) (Dentist, error) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return Dentist{}, NewValidationError("full_name is required")
	}
	if len(name) > 200 {
		return Dentist{}, NewValidationError("full_name too long")
	}
	return Dentist{FullName: name}, nil
}

func (d *Dentist) Rename(fullName string) error {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return NewValidationError("full_name is required")
	}
	if len(name) > 200 {
		return NewValidationError("full_name too long")
	}
	d.FullName = name
	return nil
}

func (d *Dentist) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if d.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			d.ID = id
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
		}
		if d.UpdatedAt.IsZero() {
			d.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		d.UpdatedAt = now
	}
	return nil
}

type Patient struct {
	bun.BaseModel `bun:"table:patients"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	FullName  string    `bun:"full_name,notnull"`
	Email     string    `bun:"email,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func NewPatient(fullName, email string) (Patient, error) {
	p := Patient{}
	if err := p.Update(fullName, email); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (p *Patient) Update(fullName, email string) error {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return NewValidationError("full_name is required")
	}
	if len(name) > 200 {
		return NewValidationError("full_name too long")
	}
	addr := strings.TrimSpace(email)
	if addr == "" {
		return NewValidationError("email is required")
	}
	if len(addr) > 256 {
		return NewValidationError("email too long")
	}
	p.FullName = name
	p.Email = addr
	return nil
}

func (p *Patient) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if p.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			p.ID = id
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		p.UpdatedAt = now
	}
	return nil
}

const (
	minServiceDurationMinutes = 15
	maxServiceDurationMinutes = 240
)

type Service struct {
	bun.BaseModel `bun:"table:services"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	Name            string    `bun:"name,notnull"`
	DurationMinutes int       `bun:"duration_minutes,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`
}

func NewService(name string, durationMinutes int) (Service, error) {
	s := Service{}
	if err := s.Update(name, durationMinutes); err != nil {
		return Service{}, err
	}
	return s, nil
}

func (s *Service) Update(name string, durationMinutes int) error {
	n := strings.TrimSpace(name)
	if n == "" {
		return NewValidationError("name is required")
	}
	if len(n) > 150 {
		return NewValidationError("name too long")
	}
	if durationMinutes < minServiceDurationMinutes || durationMinutes > maxServiceDurationMinutes {
		return NewValidationError("duration_minutes must be between 15 and 240")
	}
	if durationMinutes%minServiceDurationMinutes != 0 {
		return NewValidationError("duration_minutes must align to the 15-minute grid")
	}
	s.Name = n
	s.DurationMinutes = durationMinutes
	return nil
}

func (s *Service) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}
