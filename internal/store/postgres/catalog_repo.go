package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"clinicbook/internal/domain"
	"clinicbook/internal/store"
)

type CatalogRepo struct {
	db *bun.DB
}

func NewCatalogRepo(db *bun.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) GetDentist(ctx context.Context, id uuid.UUID) (domain.Dentist, error) {
	var d domain.Dentist
	if err := r.scanByID(ctx, &d, id); err != nil {
		return domain.Dentist{}, err
	}
	return d, nil
}

func (r *CatalogRepo) ListDentists(ctx context.Context) ([]domain.Dentist, error) {
	var rows []domain.Dentist
	err := r.db.NewSelect().Model(&rows).OrderExpr("full_name ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) CreateDentist(ctx context.Context, d domain.Dentist) (domain.Dentist, error) {
	if _, err := r.db.NewInsert().Model(&d).Exec(ctx); err != nil {
		return domain.Dentist{}, err
	}
	return d, nil
}

func (r *CatalogRepo) UpdateDentist(ctx context.Context, d domain.Dentist) (domain.Dentist, error) {
	res, err := r.db.NewUpdate().
		Model(&d).
		Column("full_name", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Dentist{}, err
	}
	if err := requireAffected(res); err != nil {
		return domain.Dentist{}, err
	}
	return d, nil
}

func (r *CatalogRepo) DeleteDentist(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, (*domain.Dentist)(nil), id)
}

func (r *CatalogRepo) GetPatient(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	var p domain.Patient
	if err := r.scanByID(ctx, &p, id); err != nil {
		return domain.Patient{}, err
	}
	return p, nil
}

func (r *CatalogRepo) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	var rows []domain.Patient
	err := r.db.NewSelect().Model(&rows).OrderExpr("full_name ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	if _, err := r.db.NewInsert().Model(&p).Exec(ctx); err != nil {
		return domain.Patient{}, err
	}
	return p, nil
}

func (r *CatalogRepo) UpdatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error) {
	res, err := r.db.NewUpdate().
		Model(&p).
		Column("full_name", "email", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Patient{}, err
	}
	if err := requireAffected(res); err != nil {
		return domain.Patient{}, err
	}
	return p, nil
}

func (r *CatalogRepo) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, (*domain.Patient)(nil), id)
}

func (r *CatalogRepo) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var s domain.Service
	if err := r.scanByID(ctx, &s, id); err != nil {
		return domain.Service{}, err
	}
	return s, nil
}

func (r *CatalogRepo) ListServices(ctx context.Context) ([]domain.Service, error) {
	var rows []domain.Service
	err := r.db.NewSelect().Model(&rows).OrderExpr("name ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) CreateService(ctx context.Context, s domain.Service) (domain.Service, error) {
	if _, err := r.db.NewInsert().Model(&s).Exec(ctx); err != nil {
		return domain.Service{}, err
	}
	return s, nil
}

func (r *CatalogRepo) UpdateService(ctx context.Context, s domain.Service) (domain.Service, error) {
	res, err := r.db.NewUpdate().
		Model(&s).
		Column("name", "duration_minutes", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Service{}, err
	}
	if err := requireAffected(res); err != nil {
		return domain.Service{}, err
	}
	return s, nil
}

func (r *CatalogRepo) DeleteService(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, (*domain.Service)(nil), id)
}

func (r *CatalogRepo) scanByID(ctx context.Context, model any, id uuid.UUID) error {
	err := r.db.NewSelect().
		Model(model).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func (r *CatalogRepo) deleteByID(ctx context.Context, model any, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model(model).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			// Entity still referenced by an appointment; deletes are
			// restricted, not cascaded.
			return store.ErrConflict
		}
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
