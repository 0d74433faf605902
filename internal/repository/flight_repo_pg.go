package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airline/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Passengers(ctx context.Context, flightID int64) ([]domain.Passenger, error)
	NonPassengers(ctx context.Context, flightID int64) ([]domain.Passenger, error)
	AddPassenger(ctx context.Context, flightID, passengerID int64) (bool, error)
	UpdateCapacity(ctx context.Context, flightID int64, capacity int) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const selectFlight = `SELECT f.id, o.id, o.code, o.city, d.id, d.code, d.city, f.duration, f.capacity,
	(SELECT count(*) FROM flight_passengers fp WHERE fp.flight_id = f.id),
	f.created_at, f.updated_at
FROM flights f
JOIN airports o ON o.id = f.origin_id
JOIN airports d ON d.id = f.destination_id`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.Origin.ID, &f.Origin.Code, &f.Origin.City, &f.Destination.ID, &f.Destination.Code, &f.Destination.City,
		&f.Duration, &f.Capacity, &f.Passengers, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, selectFlight+` ORDER BY f.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, selectFlight+` WHERE f.id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	if err := flight.Validate(); err != nil {
		return err
	}
	err := r.db.QueryRow(ctx, `INSERT INTO flights (origin_id, destination_id, duration, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`, flight.Origin.ID, flight.Destination.ID, flight.Duration, flight.Capacity).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("airport: %w", domain.ErrNotFound)
	}
	return err
}

func (r *PGFlightRepository) Passengers(ctx context.Context, flightID int64) ([]domain.Passenger, error) {
	return r.queryPassengers(ctx, `SELECT p.id, p.first, p.last FROM passengers p
		JOIN flight_passengers fp ON fp.passenger_id = p.id
		WHERE fp.flight_id = $1
		ORDER BY fp.booked_at, p.id`, flightID)
}

func (r *PGFlightRepository) NonPassengers(ctx context.Context, flightID int64) ([]domain.Passenger, error) {
	return r.queryPassengers(ctx, `SELECT p.id, p.first, p.last FROM passengers p
		WHERE NOT EXISTS (SELECT 1 FROM flight_passengers fp WHERE fp.flight_id = $1 AND fp.passenger_id = p.id)
		ORDER BY p.last, p.first, p.id`, flightID)
}

func (r *PGFlightRepository) queryPassengers(ctx context.Context, query string, args ...any) ([]domain.Passenger, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.First, &p.Last); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

// AddPassenger seats the passenger while holding a row lock on the flight, so
// concurrent bookings can not push the count past capacity. It reports false
// when the passenger was already on the flight.
func (r *PGFlightRepository) AddPassenger(ctx context.Context, flightID, passengerID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var capacity int
	if err := tx.QueryRow(ctx, `SELECT capacity FROM flights WHERE id=$1 FOR UPDATE`, flightID).Scan(&capacity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, err
	}

	var (
		booked   int
		onFlight bool
	)
	if err := tx.QueryRow(ctx, `SELECT count(*), coalesce(bool_or(passenger_id = $2), false)
		FROM flight_passengers WHERE flight_id=$1`, flightID, passengerID).Scan(&booked, &onFlight); err != nil {
		return false, err
	}
	if onFlight {
		return false, nil
	}
	if booked >= capacity {
		return false, domain.ErrFlightFull
	}

	if _, err := tx.Exec(ctx, `INSERT INTO flight_passengers (flight_id, passenger_id) VALUES ($1, $2)`, flightID, passengerID); err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.ErrPassengerNotFound
		}
		return false, err
	}
	if _, err := tx.Exec(ctx, `UPDATE flights SET updated_at = now() WHERE id=$1`, flightID); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

func (r *PGFlightRepository) UpdateCapacity(ctx context.Context, flightID int64, capacity int) (*domain.Flight, error) {
	if capacity < 0 {
		return nil, domain.ErrInvalidCapacity
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var booked int
	if err := tx.QueryRow(ctx, `SELECT (SELECT count(*) FROM flight_passengers WHERE flight_id = f.id)
		FROM flights f WHERE f.id=$1 FOR UPDATE`, flightID).Scan(&booked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if capacity < booked {
		return nil, fmt.Errorf("%w: %d passengers already booked", domain.ErrInvalidCapacity, booked)
	}

	if _, err := tx.Exec(ctx, `UPDATE flights SET capacity=$2, updated_at=now() WHERE id=$1`, flightID, capacity); err != nil {
		return nil, err
	}
	flight, err := scanFlight(tx.QueryRow(ctx, selectFlight+` WHERE f.id=$1`, flightID))
	if err != nil {
		return nil, err
	}
	return flight, tx.Commit(ctx)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ FlightRepository = (*PGFlightRepository)(nil)
