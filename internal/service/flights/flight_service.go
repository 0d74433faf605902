package flights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Domenick1991/airline/internal/domain"
	"github.com/Domenick1991/airline/internal/kafka"
	"github.com/Domenick1991/airline/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Detail(ctx context.Context, id int64) (*domain.FlightDetail, error)
	Book(ctx context.Context, flightID, passengerID int64) (*domain.Flight, error)
	UpdateCapacity(ctx context.Context, flightID int64, capacity int) (*domain.Flight, error)
	AuditCapacity(ctx context.Context) ([]domain.Flight, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type FlightService struct {
	flights            repository.FlightRepository
	passengers         repository.PassengerRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	logger             *slog.Logger
	now                func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithNotificationsTopic(topic string) FlightServiceOption {
	return func(s *FlightService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(logger *slog.Logger) FlightServiceOption {
	return func(s *FlightService) {
		s.logger = logger
	}
}

// cache and producer may be nil.
func NewFlightService(
	flights repository.FlightRepository,
	passengers repository.PassengerRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...FlightServiceOption,
) *FlightService {
	s := &FlightService{
		flights:      flights,
		passengers:   passengers,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "flights cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.logger.WarnContext(ctx, "flights cache write failed", "error", err)
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("flight %d: %w", id, err)
	}
	return flight, nil
}

func (s *FlightService) Detail(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	flight, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	passengers, err := s.flights.Passengers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("flight %d passengers: %w", id, err)
	}
	others, err := s.flights.NonPassengers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("flight %d non-passengers: %w", id, err)
	}
	return &domain.FlightDetail{Flight: *flight, Passengers: passengers, NonPassengers: others}, nil
}

// Book seats the passenger on the flight. A full flight yields
// domain.ErrFlightFull and leaves the passengers unchanged. Booking a
// passenger who is already on the flight is a no-op, even when it is full.
func (s *FlightService) Book(ctx context.Context, flightID, passengerID int64) (*domain.Flight, error) {
	flight, err := s.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	passenger, err := s.passengers.GetByID(ctx, passengerID)
	if err != nil {
		return nil, fmt.Errorf("passenger %d: %w", passengerID, err)
	}
	// The repository checks membership before capacity, so rebooking a
	// passenger on a full flight stays a no-op.
	added, err := s.flights.AddPassenger(ctx, flightID, passengerID)
	if err != nil {
		return nil, fmt.Errorf("book passenger %d on flight %d: %w", passengerID, flightID, err)
	}
	if !added {
		return flight, nil
	}
	flight.Passengers++

	s.logger.InfoContext(ctx, "passenger booked", "flight_id", flightID, "passenger_id", passengerID, "seats_left", flight.SeatsLeft())
	s.invalidate(ctx)

	event := kafka.BookingEvent{
		Type:        kafka.EventPassengerBooked,
		FlightID:    flight.ID,
		Flight:      flight.String(),
		PassengerID: passenger.ID,
		Passenger:   passenger.String(),
		SeatsLeft:   flight.SeatsLeft(),
		BookedAt:    s.now(),
	}
	if err := s.publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish booking event", "flight_id", flightID, "passenger_id", passengerID, "error", err)
	}
	return flight, nil
}

func (s *FlightService) UpdateCapacity(ctx context.Context, flightID int64, capacity int) (*domain.Flight, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must not be negative", domain.ErrInvalidCapacity)
	}
	flight, err := s.flights.UpdateCapacity(ctx, flightID, capacity)
	if err != nil {
		return nil, fmt.Errorf("flight %d: %w", flightID, err)
	}
	s.logger.InfoContext(ctx, "flight capacity updated", "flight_id", flightID, "capacity", capacity)
	s.invalidate(ctx)
	return flight, nil
}

// AuditCapacity reads straight from the store and returns every flight
// carrying more passengers than its capacity.
func (s *FlightService) AuditCapacity(ctx context.Context) ([]domain.Flight, error) {
	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	var over []domain.Flight
	for _, f := range flights {
		if f.Passengers > f.Capacity {
			over = append(over, f)
		}
	}
	return over, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.logger.WarnContext(ctx, "flights cache invalidation failed", "error", err)
	}
}

func (s *FlightService) publish(ctx context.Context, event kafka.BookingEvent) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	key := strconv.FormatInt(event.FlightID, 10)
	err := s.producer.Publish(ctx, s.bookingTopic, key, event)
	if s.notificationsTopic != "" {
		err = errors.Join(err, s.producer.Publish(ctx, s.notificationsTopic, key, event))
	}
	return err
}

var _ FlightUseCase = (*FlightService)(nil)
