package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Domenick1991/airline/internal/domain"
	"github.com/Domenick1991/airline/internal/repository"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Fixtures describe airports, passengers and flights to load. Flight
// passengers are referenced by "First Last".
type Fixtures struct {
	Airports   []AirportFixture   `yaml:"airports"`
	Passengers []PassengerFixture `yaml:"passengers"`
	Flights    []FlightFixture    `yaml:"flights"`
}

type AirportFixture struct {
	Code string `yaml:"code"`
	City string `yaml:"city"`
}

type PassengerFixture struct {
	First string `yaml:"first"`
	Last  string `yaml:"last"`
}

type FlightFixture struct {
	Origin      string   `yaml:"origin"`
	Destination string   `yaml:"destination"`
	Duration    int      `yaml:"duration"`
	Capacity    *int     `yaml:"capacity"`
	Passengers  []string `yaml:"passengers"`
}

func LoadFixtures(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &fx, nil
}

type Seeder struct {
	Airports        repository.AirportRepository
	Flights         repository.FlightRepository
	Passengers      repository.PassengerRepository
	DefaultCapacity int
}

type SeedResult struct {
	Airports   int
	Passengers int
	Flights    int
	Bookings   int
}

// Seed stores the fixtures in order: airports, passengers, flights, then
// each flight's bookings. Bookings obey flight capacity.
func (s *Seeder) Seed(ctx context.Context, fx *Fixtures) (SeedResult, error) {
	var res SeedResult

	airports := make(map[string]domain.Airport, len(fx.Airports))
	for _, a := range fx.Airports {
		airport := domain.Airport{Code: a.Code, City: a.City}
		if err := s.Airports.Upsert(ctx, &airport); err != nil {
			return res, fmt.Errorf("airport %s: %w", a.Code, err)
		}
		airports[strings.ToUpper(airport.Code)] = airport
		res.Airports++
	}

	passengers := make(map[string]domain.Passenger, len(fx.Passengers))
	for _, p := range fx.Passengers {
		passenger := domain.Passenger{First: p.First, Last: p.Last}
		if err := s.Passengers.Create(ctx, &passenger); err != nil {
			return res, fmt.Errorf("passenger %s: %w", passenger, err)
		}
		passengers[passenger.String()] = passenger
		res.Passengers++
	}

	for i, f := range fx.Flights {
		origin, err := s.airport(ctx, airports, f.Origin)
		if err != nil {
			return res, fmt.Errorf("flight %d origin: %w", i+1, err)
		}
		destination, err := s.airport(ctx, airports, f.Destination)
		if err != nil {
			return res, fmt.Errorf("flight %d destination: %w", i+1, err)
		}

		flight := domain.Flight{Origin: origin, Destination: destination, Duration: f.Duration, Capacity: s.DefaultCapacity}
		if f.Capacity != nil {
			flight.Capacity = *f.Capacity
		}
		if err := s.Flights.Create(ctx, &flight); err != nil {
			return res, fmt.Errorf("flight %d: %w", i+1, err)
		}
		res.Flights++

		for _, name := range f.Passengers {
			passenger, ok := passengers[name]
			if !ok {
				return res, fmt.Errorf("flight %d passenger %q: %w", flight.ID, name, domain.ErrPassengerNotFound)
			}
			added, err := s.Flights.AddPassenger(ctx, flight.ID, passenger.ID)
			if err != nil {
				return res, fmt.Errorf("flight %d passenger %q: %w", flight.ID, name, err)
			}
			if added {
				res.Bookings++
			}
		}
	}
	return res, nil
}

func (s *Seeder) airport(ctx context.Context, known map[string]domain.Airport, code string) (domain.Airport, error) {
	if a, ok := known[strings.ToUpper(code)]; ok {
		return a, nil
	}
	a, err := s.Airports.GetByCode(ctx, code)
	if err != nil {
		return domain.Airport{}, fmt.Errorf("airport %s: %w", code, err)
	}
	return *a, nil
}

func (c *CLI) newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load airports, passengers and flights from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open fixtures: %w", err)
			}
			defer f.Close()

			fx, err := LoadFixtures(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := c.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			seeder := &Seeder{
				Airports:        repository.NewAirportRepository(pool),
				Flights:         repository.NewFlightRepository(pool),
				Passengers:      repository.NewPassengerRepository(pool),
				DefaultCapacity: c.cfg.Flights.DefaultCapacity,
			}
			res, err := seeder.Seed(ctx, fx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d airports, %d passengers, %d flights, %d bookings\n",
				res.Airports, res.Passengers, res.Flights, res.Bookings)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "fixtures.yaml", "fixtures file")
	return cmd
}
