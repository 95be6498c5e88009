package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinicbook/internal/domain"
	"clinicbook/internal/events"
	"clinicbook/internal/store"
)

const maxCancelReasonLength = 200

// EntityResolver is the read-only slice of the catalog the scheduler needs:
// per-operation lookups of the entities a booking references.
type EntityResolver interface {
	GetDentist(ctx context.Context, id uuid.UUID) (domain.Dentist, error)
	GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error)
	GetService(ctx context.Context, id uuid.UUID) (domain.Service, error)
}

// Service orchestrates booking, cancellation, rescheduling, and availability
// for dentist calendars. Conflict checks run inside the store's per-dentist
// schedule lock so concurrent bookings for the same dentist serialize; the
// store's partial unique constraint backstops the same invariant.
type Service struct {
	appts   store.AppointmentStore
	catalog EntityResolver
	rules   domain.CalendarRules
	sink    events.Sink
	log     *slog.Logger
	now     func() time.Time
}

func NewService(appts store.AppointmentStore, catalog EntityResolver, rules domain.CalendarRules, sink events.Sink, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		appts:   appts,
		catalog: catalog,
		rules:   rules,
		sink:    sink,
		log:     log.With(slog.String("component", "scheduling")),
		now:     time.Now,
	}
}

func (s *Service) Book(ctx context.Context, dentistID, patientID, serviceID uuid.UUID, startUTC time.Time) (uuid.UUID, error) {
	dentist, err := s.catalog.GetDentist(ctx, dentistID)
	if err != nil {
		return uuid.Nil, err
	}
	patient, err := s.catalog.GetPatient(ctx, patientID)
	if err != nil {
		return uuid.Nil, err
	}
	service, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		return uuid.Nil, err
	}

	start := startUTC.UTC()
	if err := s.validateStart(start); err != nil {
		return uuid.Nil, err
	}
	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

	var (
		apptID  uuid.UUID
		pending []domain.Event
	)
	err = s.appts.InDentistSchedule(ctx, dentist.ID, func(ctx context.Context, tx store.ScheduleTx) error {
		existing, err := tx.ListScheduledOverlapping(ctx, dentist.ID, start, end)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if domain.Overlaps(other.StartUTC, other.EndUTC(), start, end) {
				return store.ErrConflict
			}
		}

		appt, err := domain.NewAppointment(&dentist, &patient, &service, start, s.now())
		if err != nil {
			return err
		}
		if err := tx.Insert(ctx, appt); err != nil {
			return err
		}
		apptID = appt.ID
		pending = appt.TakeEvents()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.dispatch(ctx, pending)
	return apptID, nil
}

func (s *Service) Cancel(ctx context.Context, appointmentID uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.NewValidationError("reason is required")
	}
	if len(reason) > maxCancelReasonLength {
		return domain.NewValidationError("reason must be at most 200 characters")
	}

	appt, err := s.appts.Get(ctx, appointmentID)
	if err != nil {
		return err
	}

	var pending []domain.Event
	err = s.appts.InDentistSchedule(ctx, appt.DentistID, func(ctx context.Context, tx store.ScheduleTx) error {
		cur, err := tx.Get(ctx, appointmentID)
		if err != nil {
			return err
		}
		cur.Cancel(reason)
		evs := cur.TakeEvents()
		if len(evs) == 0 {
			// Already cancelled; double-cancel is success, not an error.
			return nil
		}
		if err := tx.Update(ctx, &cur); err != nil {
			return err
		}
		pending = evs
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(ctx, pending)
	return nil
}

func (s *Service) Reschedule(ctx context.Context, appointmentID uuid.UUID, newStartUTC time.Time) error {
	appt, err := s.appts.Get(ctx, appointmentID)
	if err != nil {
		return err
	}

	start := newStartUTC.UTC()
	if err := s.validateStart(start); err != nil {
		return err
	}

	var pending []domain.Event
	err = s.appts.InDentistSchedule(ctx, appt.DentistID, func(ctx context.Context, tx store.ScheduleTx) error {
		cur, err := tx.Get(ctx, appointmentID)
		if err != nil {
			return err
		}

		// New end keeps the duration fixed at booking time.
		end := start.Add(time.Duration(cur.DurationMinutes) * time.Minute)
		existing, err := tx.ListScheduledOverlapping(ctx, cur.DentistID, start, end)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if other.ID == cur.ID {
				continue
			}
			if domain.Overlaps(other.StartUTC, other.EndUTC(), start, end) {
				return store.ErrConflict
			}
		}

		if err := cur.Reschedule(start, s.now()); err != nil {
			return err
		}
		if err := tx.Update(ctx, &cur); err != nil {
			return err
		}
		pending = cur.TakeEvents()
		return nil
	})
	if err != nil {
		return err
	}

	s.dispatch(ctx, pending)
	return nil
}

type AppointmentListItem struct {
	ID              uuid.UUID
	StartUTC        time.Time
	DurationMinutes int
	Status          domain.AppointmentStatus
	PatientID       uuid.UUID
	PatientName     string
	ServiceID       uuid.UUID
	ServiceName     string
}

// ListByDentist returns the dentist's appointments ordered by start time,
// optionally restricted to a single UTC day.
func (s *Service) ListByDentist(ctx context.Context, dentistID uuid.UUID, day *time.Time) ([]AppointmentListItem, error) {
	appts, err := s.appts.ListByDentist(ctx, dentistID, day)
	if err != nil {
		return nil, err
	}

	patientNames := make(map[uuid.UUID]string)
	serviceNames := make(map[uuid.UUID]string)
	out := make([]AppointmentListItem, 0, len(appts))
	for _, a := range appts {
		patientName, ok := patientNames[a.PatientID]
		if !ok {
			p, err := s.catalog.GetPatient(ctx, a.PatientID)
			if err != nil {
				return nil, err
			}
			patientName = p.FullName
			patientNames[a.PatientID] = patientName
		}
		serviceName, ok := serviceNames[a.ServiceID]
		if !ok {
			sv, err := s.catalog.GetService(ctx, a.ServiceID)
			if err != nil {
				return nil, err
			}
			serviceName = sv.Name
			serviceNames[a.ServiceID] = serviceName
		}
		out = append(out, AppointmentListItem{
			ID:              a.ID,
			StartUTC:        a.StartUTC,
			DurationMinutes: a.DurationMinutes,
			Status:          a.Status,
			PatientID:       a.PatientID,
			PatientName:     patientName,
			ServiceID:       a.ServiceID,
			ServiceName:     serviceName,
		})
	}
	return out, nil
}

// Slot is one free grid cell inside the clinic window.
type Slot struct {
	StartUTC time.Time
	EndUTC   time.Time
}

// Availability computes the free slots for a dentist's day: walk a cursor
// across the clinic window, emitting full grid cells for every gap between
// Scheduled appointments. Partial trailing cells are dropped, never emitted
// short.
func (s *Service) Availability(ctx context.Context, dentistID uuid.UUID, date time.Time) ([]Slot, error) {
	dayStart, dayEnd := s.rules.DayWindow(date)
	appts, err := s.appts.ListScheduledStartingBetween(ctx, dentistID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	step := s.rules.SlotDuration()
	slots := make([]Slot, 0, int(dayEnd.Sub(dayStart)/step))
	cursor := dayStart
	for _, a := range appts {
		if cursor.Before(a.StartUTC) {
			slots = appendGridSlots(slots, cursor, a.StartUTC, step)
		}
		if end := a.EndUTC(); end.After(cursor) {
			cursor = end
		}
	}
	if cursor.Before(dayEnd) {
		slots = appendGridSlots(slots, cursor, dayEnd, step)
	}
	return slots, nil
}

func appendGridSlots(slots []Slot, from, to time.Time, step time.Duration) []Slot {
	for cur := from; cur.Before(to); {
		next := cur.Add(step)
		if !next.After(to) {
			slots = append(slots, Slot{StartUTC: cur, EndUTC: next})
		}
		cur = next
	}
	return slots
}

func (s *Service) validateStart(start time.Time) error {
	if !start.After(s.now()) {
		return domain.NewValidationError("start_utc must be in the future")
	}
	if !s.rules.GridAligned(start) {
		return domain.NewValidationError(fmt.Sprintf("start_utc must align to the %d-minute grid", s.rules.SlotMinutes))
	}
	if !s.rules.WithinClinicHours(start) {
		return domain.NewValidationError(fmt.Sprintf("outside clinic hours (%02d:00-%02d:00 UTC)", s.rules.OpenHourUTC, s.rules.CloseHourUTC))
	}
	return nil
}

// dispatch sends lifecycle events after a durable write. Sink failures are
// logged and never surfaced: the booking decision is already committed.
func (s *Service) dispatch(ctx context.Context, evs []domain.Event) {
	if s.sink == nil {
		return
	}
	for _, e := range evs {
		if err := s.sink.Publish(ctx, e); err != nil {
			s.log.Warn("event publish failed", slog.String("event", e.EventName()), slog.Any("err", err))
		}
	}
}
