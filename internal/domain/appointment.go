package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus int

const (
	StatusScheduled AppointmentStatus = 0
	StatusCancelled AppointmentStatus = 1
)

func (s AppointmentStatus) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID              uuid.UUID         `bun:"id,pk,type:uuid"`
	DentistID       uuid.UUID         `bun:"dentist_id,notnull,type:uuid"`
	PatientID       uuid.UUID         `bun:"patient_id,notnull,type:uuid"`
	ServiceID       uuid.UUID         `bun:"service_id,notnull,type:uuid"`
	StartUTC        time.Time         `bun:"start_utc,notnull"`
	DurationMinutes int               `bun:"duration_minutes,notnull"`
	Status          AppointmentStatus `bun:"status,notnull"`
	CreatedAt       time.Time         `bun:"created_at,notnull"`
	UpdatedAt       time.Time         `bun:"updated_at,notnull"`

	pending []Event
}

func (a *Appointment) EndUTC() time.Time {
	return a.StartUTC.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// NewAppointment builds a Scheduled appointment from resolved entities.
// Conflict detection against other appointments is not done here; the
// scheduler runs it with a consistent view of the dentist's calendar.
func NewAppointment(dentist *Dentist, patient *Patient, service *Service, startUTC, now time.Time) (*Appointment, error) {
	if dentist == nil {
		return nil, NewValidationError("dentist is required")
	}
	if patient == nil {
		return nil, NewValidationError("patient is required")
	}
	if service == nil {
		return nil, NewValidationError("service is required")
	}
	start := startUTC.UTC()
	if !start.After(now) {
		return nil, NewValidationError("start_utc must be in the future")
	}
	if service.DurationMinutes%minServiceDurationMinutes != 0 {
		return nil, NewValidationError("service duration must align to the 15-minute grid")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		ID:              id,
		DentistID:       dentist.ID,
		PatientID:       patient.ID,
		ServiceID:       service.ID,
		StartUTC:        start,
		DurationMinutes: service.DurationMinutes,
		Status:          StatusScheduled,
	}
	a.record(AppointmentBooked{
		AppointmentID:   a.ID,
		DentistID:       a.DentistID,
		PatientID:       a.PatientID,
		StartUTC:        a.StartUTC,
		DurationMinutes: a.DurationMinutes,
	})
	return a, nil
}

// Cancel is idempotent: cancelling an already-cancelled appointment is a
// no-op and records no duplicate event.
func (a *Appointment) Cancel(reason string) {
	if a.Status == StatusCancelled {
		return
	}
	a.Status = StatusCancelled
	a.record(AppointmentCancelled{AppointmentID: a.ID, Reason: reason})
}

// Reschedule moves the start time. Duration and dentist/patient/service
// references never change.
func (a *Appointment) Reschedule(newStartUTC, now time.Time) error {
	if a.Status == StatusCancelled {
		return ErrAppointmentCancelled
	}
	start := newStartUTC.UTC()
	if !start.After(now) {
		return NewValidationError("new_start_utc must be in the future")
	}
	a.StartUTC = start
	a.record(AppointmentRescheduled{AppointmentID: a.ID, NewStartUTC: start})
	return nil
}

func (a *Appointment) record(e Event) {
	a.pending = append(a.pending, e)
}

// TakeEvents returns the pending lifecycle events and clears them. Dispatch
// only after the transition has been persisted.
func (a *Appointment) TakeEvents() []Event {
	out := a.pending
	a.pending = nil
	return out
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
