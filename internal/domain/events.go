package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is an appointment lifecycle notification. Events accumulate on the
// appointment during a state transition and are dispatched by the caller
// only after the transition has been durably persisted.
type Event interface {
	EventName() string
}

type AppointmentBooked struct {
	AppointmentID   uuid.UUID `json:"appointment_id"`
	DentistID       uuid.UUID `json:"dentist_id"`
	PatientID       uuid.UUID `json:"patient_id"`
	StartUTC        time.Time `json:"start_utc"`
	DurationMinutes int       `json:"duration_minutes"`
}

func (AppointmentBooked) EventName() string { return "appointment.booked" }

type AppointmentCancelled struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Reason        string    `json:"reason"`
}

func (AppointmentCancelled) EventName() string { return "appointment.cancelled" }

type AppointmentRescheduled struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	NewStartUTC   time.Time `json:"new_start_utc"`
}

func (AppointmentRescheduled) EventName() string { return "appointment.rescheduled" }
