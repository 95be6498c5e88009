package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

// scheduledStartUnique is the partial unique index on
// (dentist_id, start_utc) WHERE status = 0. It is the storage-level backstop
// for the no-double-booking invariant; hitting it is reported as a conflict.
const scheduledStartUnique = "appointments_dentist_start_scheduled_ux"

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.NewSelect().
		Model(&a).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentRepo) ListByDentist(ctx context.Context, dentistID uuid.UUID, day *time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	q := r.db.NewSelect().
		Model(&rows).
		Where("dentist_id = ?", dentistID)
	if day != nil {
		d := day.UTC()
		dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.Add(24 * time.Hour)
		q = q.Where("start_utc >= ?", dayStart).Where("start_utc < ?", dayEnd)
	}
	if err := q.OrderExpr("start_utc ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListScheduledStartingBetween(ctx context.Context, dentistID uuid.UUID, from, to time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("dentist_id = ?", dentistID).
		Where("status = ?", domain.StatusScheduled).
		Where("start_utc >= ?", from).
		Where("start_utc < ?", to).
		OrderExpr("start_utc ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) InDentistSchedule(ctx context.Context, dentistID uuid.UUID, fn func(ctx context.Context, tx store.ScheduleTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockDentistSchedule(ctx, tx, dentistID); err != nil {
			return err
		}
		return fn(ctx, scheduleTx{tx: tx})
	})
}

func lockDentistSchedule(ctx context.Context, tx bun.Tx, dentistID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", dentistID.String()).Exec(ctx)
	return err
}

type scheduleTx struct {
	tx bun.Tx
}

func (s scheduleTx) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var a domain.Appointment
	err := s.tx.NewSelect().
		Model(&a).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return a, nil
}

func (s scheduleTx) ListScheduledOverlapping(ctx context.Context, dentistID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := s.tx.NewSelect().
		Model(&rows).
		Where("dentist_id = ?", dentistID).
		Where("status = ?", domain.StatusScheduled).
		Where("start_utc < ?", windowEnd).
		Where("start_utc + make_interval(mins => duration_minutes) > ?", windowStart).
		OrderExpr("start_utc ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s scheduleTx) Insert(ctx context.Context, appt *domain.Appointment) error {
	if _, err := s.tx.NewInsert().Model(appt).Exec(ctx); err != nil {
		return translateAppointmentError(err)
	}
	return nil
}

func (s scheduleTx) Update(ctx context.Context, appt *domain.Appointment) error {
	res, err := s.tx.NewUpdate().
		Model(appt).
		Column("start_utc", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return translateAppointmentError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func translateAppointmentError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		if pgErr.ConstraintName == scheduledStartUnique {
			return store.ErrConflict
		}
	case "23503":
		// Referenced dentist/patient/service disappeared between the
		// resolve step and the write.
		return store.ErrNotFound
	}
	return err
}
