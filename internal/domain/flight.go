package domain

import (
	"fmt"
	"time"
)

type Airport struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	City string `json:"city"`
}

func (a Airport) String() string {
	return fmt.Sprintf("%s (%s)", a.City, a.Code)
}

type Flight struct {
	ID          int64     `json:"id"`
	Origin      Airport   `json:"origin"`
	Destination Airport   `json:"destination"`
	Duration    int       `json:"duration"`
	Capacity    int       `json:"capacity"`
	Passengers  int       `json:"passengers"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (f Flight) String() string {
	return fmt.Sprintf("%d: %s to %s", f.ID, f.Origin, f.Destination)
}

// SeatsLeft is never negative.
func (f Flight) SeatsLeft() int {
	if f.Passengers >= f.Capacity {
		return 0
	}
	return f.Capacity - f.Passengers
}

func (f Flight) Full() bool {
	return f.Passengers >= f.Capacity
}

// Validate checks the fields a flight must satisfy before it is stored.
func (f Flight) Validate() error {
	switch {
	case f.Origin.ID != 0 && f.Origin.ID == f.Destination.ID,
		f.Origin.Code != "" && f.Origin.Code == f.Destination.Code:
		return fmt.Errorf("%w: origin and destination must differ", ErrInvalidFlight)
	case f.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalidFlight)
	case f.Capacity < 0:
		return fmt.Errorf("%w: capacity must not be negative", ErrInvalidFlight)
	}
	return nil
}

// FlightDetail is a flight together with who is and is not booked on it.
type FlightDetail struct {
	Flight        Flight      `json:"flight"`
	Passengers    []Passenger `json:"passengers"`
	NonPassengers []Passenger `json:"non_passengers"`
}
