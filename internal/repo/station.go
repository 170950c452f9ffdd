package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/casccoach/platform/backend/internal/domain"
)

// StationRepo persists the three-level station taxonomy:
// category → subcategory → station. Reads of stations join through the
// hierarchy so the reported category is always the subcategory's parent.
type StationRepo interface {
	ListCategories(ctx context.Context) ([]domain.StationCategory, error)
	CreateCategory(ctx context.Context, name string) (domain.StationCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (domain.StationCategory, error)
	// DeleteCategory returns domain.ErrConflict while subcategories remain.
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// ListSubcategories filters by parent when categoryID is non-nil.
	ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]domain.StationSubcategory, error)
	CreateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error)
	UpdateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error)
	// DeleteSubcategory returns domain.ErrConflict while stations remain.
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error

	// ListStations filters by parent when subcategoryID is non-nil and hides
	// inactive stations when activeOnly is set.
	ListStations(ctx context.Context, subcategoryID *uuid.UUID, activeOnly bool) ([]domain.Station, error)
	GetStation(ctx context.Context, id uuid.UUID) (domain.Station, error)
	CreateStation(ctx context.Context, st domain.Station) (domain.Station, error)
	UpdateStation(ctx context.Context, st domain.Station) (domain.Station, error)
	// DeleteStation returns domain.ErrConflict once a booking references it.
	DeleteStation(ctx context.Context, id uuid.UUID) error

	// CountActive reports how many of ids name active stations.
	CountActive(ctx context.Context, ids []uuid.UUID) (int, error)
}

type pgStationRepo struct {
	db db
}

// NewStationRepo constructs a StationRepo backed by db.
func NewStationRepo(db db) StationRepo {
	return &pgStationRepo{db: db}
}

// ---- categories ----

func (r *pgStationRepo) ListCategories(ctx context.Context) ([]domain.StationCategory, error) {
	const q = `SELECT id, name, created_at FROM station_categories ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.ListCategories: %w", err)
	}
	cats, err := collect(rows, scanCategory)
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.ListCategories: scan: %w", err)
	}
	return cats, nil
}

func (r *pgStationRepo) CreateCategory(ctx context.Context, name string) (domain.StationCategory, error) {
	const q = `
		INSERT INTO station_categories (name) VALUES (@name)
		RETURNING id, name, created_at`

	c, err := scanCategory(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		return domain.StationCategory{}, fmt.Errorf("repo.StationRepo.CreateCategory: %w", mapError(err))
	}
	return c, nil
}

func (r *pgStationRepo) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (domain.StationCategory, error) {
	const q = `
		UPDATE station_categories SET name = @name WHERE id = @id
		RETURNING id, name, created_at`

	c, err := scanCategory(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "name": name}))
	if err != nil {
		return domain.StationCategory{}, fmt.Errorf("repo.StationRepo.UpdateCategory: %w", mapError(err))
	}
	return c, nil
}

func (r *pgStationRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, "DeleteCategory", `DELETE FROM station_categories WHERE id = @id`, id)
}

// ---- subcategories ----

func (r *pgStationRepo) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]domain.StationSubcategory, error) {
	const q = `
		SELECT id, category_id, name, created_at
		FROM station_subcategories
		WHERE @category_id::uuid IS NULL OR category_id = @category_id
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"category_id": categoryID})
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.ListSubcategories: %w", err)
	}
	subs, err := collect(rows, scanSubcategory)
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.ListSubcategories: scan: %w", err)
	}
	return subs, nil
}

func (r *pgStationRepo) CreateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error) {
	const q = `
		INSERT INTO station_subcategories (category_id, name)
		VALUES (@category_id, @name)
		RETURNING id, category_id, name, created_at`

	got, err := scanSubcategory(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"category_id": sc.CategoryID,
		"name":        sc.Name,
	}))
	if err != nil {
		return domain.StationSubcategory{}, fmt.Errorf("repo.StationRepo.CreateSubcategory: %w", mapError(err))
	}
	return got, nil
}

func (r *pgStationRepo) UpdateSubcategory(ctx context.Context, sc domain.StationSubcategory) (domain.StationSubcategory, error) {
	const q = `
		UPDATE station_subcategories
		SET category_id = @category_id, name = @name
		WHERE id = @id
		RETURNING id, category_id, name, created_at`

	got, err := scanSubcategory(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":          sc.ID,
		"category_id": sc.CategoryID,
		"name":        sc.Name,
	}))
	if err != nil {
		return domain.StationSubcategory{}, fmt.Errorf("repo.StationRepo.UpdateSubcategory: %w", mapError(err))
	}
	return got, nil
}

func (r *pgStationRepo) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, "DeleteSubcategory", `DELETE FROM station_subcategories WHERE id = @id`, id)
}

// ---- stations ----

const stationSelect = `
	SELECT s.id, s.subcategory_id, sc.category_id, s.name, s.is_active, s.created_at
	FROM stations s
	JOIN station_subcategories sc ON sc.id = s.subcategory_id`

func (r *pgStationRepo) ListStations(ctx context.Context, subcategoryID *uuid.UUID, activeOnly bool) ([]domain.Station, error) {
	const q = stationSelect + `
		WHERE (@subcategory_id::uuid IS NULL OR s.subcategory_id = @subcategory_id)
		  AND (NOT @active_only OR s.is_active)
		ORDER BY s.name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"subcategory_id": subcategoryID,
		"active_only":    activeOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.ListStations: %w", err)
	}
	stations, err := collect(rows, scanStation)
	if err != nil {
		return nil, fmt.Errorf("repo.StationRepo.ListStations: scan: %w", err)
	}
	return stations, nil
}

func (r *pgStationRepo) GetStation(ctx context.Context, id uuid.UUID) (domain.Station, error) {
	const q = stationSelect + ` WHERE s.id = @id`

	st, err := scanStation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Station{}, fmt.Errorf("repo.StationRepo.GetStation: %w", mapError(err))
	}
	return st, nil
}

// CreateStation and UpdateStation write through a CTE so the returned row
// carries the category derived from the subcategory.
func (r *pgStationRepo) CreateStation(ctx context.Context, st domain.Station) (domain.Station, error) {
	const q = `
		WITH s AS (
			INSERT INTO stations (subcategory_id, name, is_active)
			VALUES (@subcategory_id, @name, @is_active)
			RETURNING id, subcategory_id, name, is_active, created_at
		)
		SELECT s.id, s.subcategory_id, sc.category_id, s.name, s.is_active, s.created_at
		FROM s JOIN station_subcategories sc ON sc.id = s.subcategory_id`

	got, err := scanStation(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"subcategory_id": st.SubcategoryID,
		"name":           st.Name,
		"is_active":      st.IsActive,
	}))
	if err != nil {
		return domain.Station{}, fmt.Errorf("repo.StationRepo.CreateStation: %w", mapError(err))
	}
	return got, nil
}

func (r *pgStationRepo) UpdateStation(ctx context.Context, st domain.Station) (domain.Station, error) {
	const q = `
		WITH s AS (
			UPDATE stations
			SET subcategory_id = @subcategory_id, name = @name, is_active = @is_active
			WHERE id = @id
			RETURNING id, subcategory_id, name, is_active, created_at
		)
		SELECT s.id, s.subcategory_id, sc.category_id, s.name, s.is_active, s.created_at
		FROM s JOIN station_subcategories sc ON sc.id = s.subcategory_id`

	got, err := scanStation(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":             st.ID,
		"subcategory_id": st.SubcategoryID,
		"name":           st.Name,
		"is_active":      st.IsActive,
	}))
	if err != nil {
		return domain.Station{}, fmt.Errorf("repo.StationRepo.UpdateStation: %w", mapError(err))
	}
	return got, nil
}

func (r *pgStationRepo) DeleteStation(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, "DeleteStation", `DELETE FROM stations WHERE id = @id`, id)
}

func (r *pgStationRepo) CountActive(ctx context.Context, ids []uuid.UUID) (int, error) {
	const q = `SELECT count(*) FROM stations WHERE is_active AND id = ANY(@ids)`

	var n int
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"ids": ids}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.StationRepo.CountActive: %w", err)
	}
	return n, nil
}

func (r *pgStationRepo) delete(ctx context.Context, op, q string, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.StationRepo.%s: %w", op, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StationRepo.%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func scanCategory(s scanner) (domain.StationCategory, error) {
	var (
		c  domain.StationCategory
		id pgtype.UUID
	)
	if err := s.Scan(&id, &c.Name, &c.CreatedAt); err != nil {
		return domain.StationCategory{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}

func scanSubcategory(s scanner) (domain.StationSubcategory, error) {
	var (
		sc         domain.StationSubcategory
		id, parent pgtype.UUID
	)
	if err := s.Scan(&id, &parent, &sc.Name, &sc.CreatedAt); err != nil {
		return domain.StationSubcategory{}, err
	}
	sc.ID = uuid.UUID(id.Bytes)
	sc.CategoryID = uuid.UUID(parent.Bytes)
	return sc, nil
}

func scanStation(s scanner) (domain.Station, error) {
	var (
		st               domain.Station
		id, subID, catID pgtype.UUID
	)
	if err := s.Scan(&id, &subID, &catID, &st.Name, &st.IsActive, &st.CreatedAt); err != nil {
		return domain.Station{}, err
	}
	st.ID = uuid.UUID(id.Bytes)
	st.SubcategoryID = uuid.UUID(subID.Bytes)
	st.CategoryID = uuid.UUID(catID.Bytes)
	return st, nil
}
