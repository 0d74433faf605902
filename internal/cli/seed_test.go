package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/Domenick1991/airline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAirports struct {
	byCode map[string]domain.Airport
}

func (f *fakeAirports) Upsert(ctx context.Context, airport *domain.Airport) error {
	airport.Code = strings.ToUpper(airport.Code)
	if existing, ok := f.byCode[airport.Code]; ok {
		airport.ID = existing.ID
	} else {
		airport.ID = int64(len(f.byCode) + 1)
	}
	f.byCode[airport.Code] = *airport
	return nil
}

func (f *fakeAirports) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	a, ok := f.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

type fakePassengers struct {
	list []domain.Passenger
}

func (f *fakePassengers) Create(ctx context.Context, passenger *domain.Passenger) error {
	passenger.ID = int64(len(f.list) + 1)
	f.list = append(f.list, *passenger)
	return nil
}

func (f *fakePassengers) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	if id < 1 || int(id) > len(f.list) {
		return nil, domain.ErrPassengerNotFound
	}
	return &f.list[id-1], nil
}

func (f *fakePassengers) List(ctx context.Context) ([]domain.Passenger, error) {
	return f.list, nil
}

type fakeFlights struct {
	flights []domain.Flight
	booked  map[int64][]int64
}

func (f *fakeFlights) List(ctx context.Context) ([]domain.Flight, error) {
	return f.flights, nil
}

func (f *fakeFlights) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	if id < 1 || int(id) > len(f.flights) {
		return nil, domain.ErrNotFound
	}
	fl := f.flights[id-1]
	fl.Passengers = len(f.booked[id])
	return &fl, nil
}

func (f *fakeFlights) Create(ctx context.Context, flight *domain.Flight) error {
	if err := flight.Validate(); err != nil {
		return err
	}
	flight.ID = int64(len(f.flights) + 1)
	f.flights = append(f.flights, *flight)
	return nil
}

func (f *fakeFlights) Passengers(ctx context.Context, flightID int64) ([]domain.Passenger, error) {
	return nil, nil
}

func (f *fakeFlights) NonPassengers(ctx context.Context, flightID int64) ([]domain.Passenger, error) {
	return nil, nil
}

func (f *fakeFlights) AddPassenger(ctx context.Context, flightID, passengerID int64) (bool, error) {
	for _, id := range f.booked[flightID] {
		if id == passengerID {
			return false, nil
		}
	}
	if len(f.booked[flightID]) >= f.flights[flightID-1].Capacity {
		return false, domain.ErrFlightFull
	}
	f.booked[flightID] = append(f.booked[flightID], passengerID)
	return true, nil
}

func (f *fakeFlights) UpdateCapacity(ctx context.Context, flightID int64, capacity int) (*domain.Flight, error) {
	f.flights[flightID-1].Capacity = capacity
	return f.GetByID(ctx, flightID)
}

func newTestSeeder() (*Seeder, *fakeFlights) {
	flights := &fakeFlights{booked: make(map[int64][]int64)}
	return &Seeder{
		Airports:        &fakeAirports{byCode: make(map[string]domain.Airport)},
		Flights:         flights,
		Passengers:      &fakePassengers{},
		DefaultCapacity: 100,
	}, flights
}

const sampleFixtures = `
airports:
  - code: aaa
    city: City A
  - code: BBB
    city: City B
passengers:
  - first: harry
    last: potter
  - first: hermione
    last: granger
flights:
  - origin: AAA
    destination: BBB
    duration: 400
    capacity: 1
    passengers: [harry potter]
  - origin: BBB
    destination: AAA
    duration: 410
    passengers: [harry potter, hermione granger, harry potter]
`

func TestLoadFixtures(t *testing.T) {
	fx, err := LoadFixtures(strings.NewReader(sampleFixtures))
	require.NoError(t, err)

	assert.Len(t, fx.Airports, 2)
	assert.Len(t, fx.Passengers, 2)
	require.Len(t, fx.Flights, 2)
	require.NotNil(t, fx.Flights[0].Capacity)
	assert.Equal(t, 1, *fx.Flights[0].Capacity)
	assert.Nil(t, fx.Flights[1].Capacity)
}

func TestLoadFixtures_UnknownField(t *testing.T) {
	_, err := LoadFixtures(strings.NewReader("planes: []\n"))
	assert.Error(t, err)
}

func TestSeeder_Seed(t *testing.T) {
	seeder, flights := newTestSeeder()
	fx, err := LoadFixtures(strings.NewReader(sampleFixtures))
	require.NoError(t, err)

	res, err := seeder.Seed(context.Background(), fx)

	require.NoError(t, err)
	assert.Equal(t, SeedResult{Airports: 2, Passengers: 2, Flights: 2, Bookings: 3}, res)
	assert.Equal(t, 1, flights.flights[0].Capacity)
	assert.Equal(t, 100, flights.flights[1].Capacity)
	assert.Equal(t, "AAA", flights.flights[0].Origin.Code)
	assert.Len(t, flights.booked[2], 2)
}

func TestSeeder_Seed_RespectsCapacity(t *testing.T) {
	seeder, flights := newTestSeeder()
	fx := &Fixtures{
		Airports:   []AirportFixture{{Code: "AAA", City: "City A"}, {Code: "BBB", City: "City B"}},
		Passengers: []PassengerFixture{{First: "harry", Last: "potter"}, {First: "hermione", Last: "granger"}},
		Flights: []FlightFixture{{
			Origin: "AAA", Destination: "BBB", Duration: 400, Capacity: new(int),
			Passengers: []string{"harry potter"},
		}},
	}

	_, err := seeder.Seed(context.Background(), fx)

	assert.ErrorIs(t, err, domain.ErrFlightFull)
	assert.Empty(t, flights.booked[1])
}

func TestSeeder_Seed_Errors(t *testing.T) {
	ctx := context.Background()

	seeder, _ := newTestSeeder()
	_, err := seeder.Seed(ctx, &Fixtures{Flights: []FlightFixture{{Origin: "XXX", Destination: "YYY", Duration: 10}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	seeder, _ = newTestSeeder()
	_, err = seeder.Seed(ctx, &Fixtures{
		Airports: []AirportFixture{{Code: "AAA", City: "City A"}, {Code: "BBB", City: "City B"}},
		Flights:  []FlightFixture{{Origin: "AAA", Destination: "BBB", Duration: 10, Passengers: []string{"ron weasley"}}},
	})
	assert.ErrorIs(t, err, domain.ErrPassengerNotFound)

	seeder, _ = newTestSeeder()
	_, err = seeder.Seed(ctx, &Fixtures{
		Airports: []AirportFixture{{Code: "AAA", City: "City A"}},
		Flights:  []FlightFixture{{Origin: "AAA", Destination: "AAA", Duration: 10}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFlight)
}
