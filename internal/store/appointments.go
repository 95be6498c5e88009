package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
)

type AppointmentStore interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)

	// ListByDentist returns every appointment for the dentist ordered by
	// start time; day, when non-nil, restricts to [day 00:00Z, day+24h).
	ListByDentist(ctx context.Context, dentistID uuid.UUID, day *time.Time) ([]domain.Appointment, error)

	// ListScheduledStartingBetween returns Scheduled appointments with
	// StartUTC in [from, to), ordered by start time.
	ListScheduledStartingBetween(ctx context.Context, dentistID uuid.UUID, from, to time.Time) ([]domain.Appointment, error)

	// InDentistSchedule runs fn inside a transaction that holds the
	// dentist's calendar lock, serializing check-then-write sequences for
	// the same dentist. Different dentists never contend.
	InDentistSchedule(ctx context.Context, dentistID uuid.UUID, fn func(ctx context.Context, tx ScheduleTx) error) error
}

// ScheduleTx is the view of a dentist's calendar inside the locked
// transaction obtained from InDentistSchedule.
type ScheduleTx interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)

	// ListScheduledOverlapping returns Scheduled appointments whose
	// [start, end) interval intersects [windowStart, windowEnd).
	ListScheduledOverlapping(ctx context.Context, dentistID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error)

	Insert(ctx context.Context, appt *domain.Appointment) error
	Update(ctx context.Context, appt *domain.Appointment) error
}
