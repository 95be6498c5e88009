package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

// Seeded by migrations/0002_seed.sql.
var (
	seedDentistID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	seedPatientID = uuid.MustParse("22222222-2222-2222-2222-111111111111")
	seedServiceID = uuid.MustParse("33333333-3333-3333-3333-111111111111")
)

func TestPostgresIntegration_AppointmentConstraintsAndCatalog(t *testing.T) {
	databaseURL := strings.TrimSpace(os.Getenv("CLINICBOOK_TEST_DATABASE_URL"))
	if databaseURL == "" {
		t.Skip("CLINICBOOK_TEST_DATABASE_URL not set")
	}

	// One connection so the session search_path applies to every query.
	db, err := Open(databaseURL, PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(db)
	})

	schema := "clinicbook_test_" + randomHex(t, 8)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := db.NewRaw("CREATE SCHEMA " + schema).Exec(ctx); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cleanupCancel()
		_, _ = db.NewRaw("DROP SCHEMA IF EXISTS " + schema + " CASCADE").Exec(cleanupCtx)
	})
	if _, err := db.NewRaw("SET search_path TO " + schema).Exec(ctx); err != nil {
		t.Fatalf("set search_path: %v", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	repo := NewAppointmentRepo(db)
	cat := NewCatalogRepo(db)

	start := time.Date(2027, time.March, 1, 10, 0, 0, 0, time.UTC)

	var firstID uuid.UUID
	err = repo.InDentistSchedule(ctx, seedDentistID, func(ctx context.Context, tx store.ScheduleTx) error {
		a := newTestAppointment(t, start, 30)
		if err := tx.Insert(ctx, a); err != nil {
			return err
		}
		firstID = a.ID
		return nil
	})
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}

	// Second Scheduled row at the same start trips the partial unique
	// index even without the in-transaction overlap check.
	err = repo.InDentistSchedule(ctx, seedDentistID, func(ctx context.Context, tx store.ScheduleTx) error {
		return tx.Insert(ctx, newTestAppointment(t, start, 30))
	})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate start error = %v, want ErrConflict", err)
	}

	// A different start inside the first window is invisible to the
	// index; the overlap query is what surfaces it.
	err = repo.InDentistSchedule(ctx, seedDentistID, func(ctx context.Context, tx store.ScheduleTx) error {
		rows, err := tx.ListScheduledOverlapping(ctx, seedDentistID, start.Add(15*time.Minute), start.Add(45*time.Minute))
		if err != nil {
			return err
		}
		if len(rows) != 1 {
			return fmt.Errorf("overlapping rows = %d, want 1", len(rows))
		}
		if rows[0].ID != firstID {
			return fmt.Errorf("overlapping id = %s, want %s", rows[0].ID, firstID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("overlap query error: %v", err)
	}

	// Cancelling releases the slot for a fresh booking at the same start.
	err = repo.InDentistSchedule(ctx, seedDentistID, func(ctx context.Context, tx store.ScheduleTx) error {
		cur, err := tx.Get(ctx, firstID)
		if err != nil {
			return err
		}
		cur.Cancel("integration test")
		return tx.Update(ctx, &cur)
	})
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	err = repo.InDentistSchedule(ctx, seedDentistID, func(ctx context.Context, tx store.ScheduleTx) error {
		return tx.Insert(ctx, newTestAppointment(t, start, 30))
	})
	if err != nil {
		t.Fatalf("rebook after cancel error: %v", err)
	}

	rows, err := repo.ListScheduledStartingBetween(ctx, seedDentistID, start.Add(-time.Hour), start.Add(time.Hour))
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("scheduled rows = %d, want 1 (cancelled row excluded)", len(rows))
	}

	day := start
	all, err := repo.ListByDentist(ctx, seedDentistID, &day)
	if err != nil {
		t.Fatalf("ListByDentist error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all rows = %d, want 2 (cancelled row included)", len(all))
	}

	// A vanished reference comes back as not-found, not as a raw pg error.
	err = repo.InDentistSchedule(ctx, seedDentistID, func(ctx context.Context, tx store.ScheduleTx) error {
		a := newTestAppointment(t, start.Add(2*time.Hour), 30)
		a.DentistID = uuid.New()
		return tx.Insert(ctx, a)
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("dangling reference error = %v, want ErrNotFound", err)
	}

	// Catalog: a dentist with appointments cannot be removed.
	if err := cat.DeleteDentist(ctx, seedDentistID); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("delete referenced dentist error = %v, want ErrConflict", err)
	}
	fresh, err := cat.CreateDentist(ctx, domain.Dentist{FullName: "Dr. Temp"})
	if err != nil {
		t.Fatalf("CreateDentist error: %v", err)
	}
	if err := cat.DeleteDentist(ctx, fresh.ID); err != nil {
		t.Fatalf("delete unreferenced dentist error: %v", err)
	}
	if _, err := cat.GetDentist(ctx, fresh.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get deleted dentist error = %v, want ErrNotFound", err)
	}
}

func newTestAppointment(t *testing.T, start time.Time, durationMinutes int) *domain.Appointment {
	t.Helper()
	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("uuid.NewV7 error: %v", err)
	}
	return &domain.Appointment{
		ID:              id,
		DentistID:       seedDentistID,
		PatientID:       seedPatientID,
		ServiceID:       seedServiceID,
		StartUTC:        start,
		DurationMinutes: durationMinutes,
		Status:          domain.StatusScheduled,
	}
}

func randomHex(t *testing.T, bytesLen int) string {
	t.Helper()
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read error: %v", err)
	}
	return hex.EncodeToString(b)
}

type rawExecutor interface {
	NewRaw(query string, args ...any) *bun.RawQuery
}

func applyMigrations(ctx context.Context, exec rawExecutor) error {
	dir, err := migrationsDir()
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type mig struct {
		name string
		path string
	}
	migs := make([]mig, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		migs = append(migs, mig{name: e.Name(), path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].name < migs[j].name })

	for _, m := range migs {
		b, err := os.ReadFile(m.path)
		if err != nil {
			return err
		}
		upSQL, err := extractGooseUp(string(b))
		if err != nil {
			return err
		}
		for _, stmt := range splitSQLStatements(upSQL) {
			if _, err := exec.NewRaw(stmt).Exec(ctx); err != nil {
				return fmt.Errorf("%s: %w", m.name, err)
			}
		}
	}
	return nil
}

func migrationsDir() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("runtime.Caller failed")
	}
	base := filepath.Dir(file)
	return filepath.Clean(filepath.Join(base, "..", "..", "..", "migrations")), nil
}

func extractGooseUp(sql string) (string, error) {
	upMarker := "-- +goose Up"
	downMarker := "-- +goose Down"

	upIdx := strings.Index(sql, upMarker)
	if upIdx < 0 {
		return "", fmt.Errorf("missing goose up marker")
	}
	afterUp := sql[upIdx+len(upMarker):]
	afterUp = strings.TrimLeft(afterUp, "\r\n")

	downIdx := strings.Index(afterUp, downMarker)
	if downIdx < 0 {
		return strings.TrimSpace(afterUp), nil
	}
	return strings.TrimSpace(afterUp[:downIdx]), nil
}

func splitSQLStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
