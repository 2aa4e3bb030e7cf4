package pgparcel

import (
	"context"

	"github.com/BearBump/ParcelBox/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

func (s *Storage) Insert(ctx context.Context, p *models.Parcel) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO parcels (id, tracking_number, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5)
`, p.ID, p.TrackingNumber, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.ErrConflict
		}
		return errors.Wrap(err, "insert parcel")
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, p *models.Parcel) error {
	tag, err := s.db.Exec(ctx, `
UPDATE parcels SET status = $2, updated_at = $3 WHERE id = $1
`, p.ID, p.Status, p.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "update parcel")
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id string) (*models.Parcel, error) {
	return s.getOne(ctx, `
SELECT id, tracking_number, status, created_at, updated_at
FROM parcels
WHERE id = $1
`, id)
}

func (s *Storage) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Parcel, error) {
	return s.getOne(ctx, `
SELECT id, tracking_number, status, created_at, updated_at
FROM parcels
WHERE tracking_number = $1
`, trackingNumber)
}

func (s *Storage) getOne(ctx context.Context, query string, arg any) (*models.Parcel, error) {
	var p models.Parcel
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.TrackingNumber, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select parcel")
	}
	return &p, nil
}

func (s *Storage) ListAll(ctx context.Context) ([]*models.Parcel, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, tracking_number, status, created_at, updated_at
FROM parcels
ORDER BY created_at
`)
	if err != nil {
		return nil, errors.Wrap(err, "select parcels")
	}
	defer rows.Close()

	var out []*models.Parcel
	for rows.Next() {
		var p models.Parcel
		if err := rows.Scan(&p.ID, &p.TrackingNumber, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan parcel")
		}
		out = append(out, &p)
	}

	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
