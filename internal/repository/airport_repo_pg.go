package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/airline/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirportRepository interface {
	// Upsert inserts the airport or updates the city of an existing code.
	Upsert(ctx context.Context, airport *domain.Airport) error
	GetByCode(ctx context.Context, code string) (*domain.Airport, error)
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

func (r *PGAirportRepository) Upsert(ctx context.Context, airport *domain.Airport) error {
	airport.Code = strings.ToUpper(airport.Code)
	return r.db.QueryRow(ctx, `INSERT INTO airports (code, city) VALUES ($1, $2)
		ON CONFLICT (code) DO UPDATE SET city = EXCLUDED.city
		RETURNING id`, airport.Code, airport.City).Scan(&airport.ID)
}

func (r *PGAirportRepository) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	var a domain.Airport
	err := r.db.QueryRow(ctx, `SELECT id, code, city FROM airports WHERE code=$1`, strings.ToUpper(code)).Scan(&a.ID, &a.Code, &a.City)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

var _ AirportRepository = (*PGAirportRepository)(nil)
