package cli

import (
	"fmt"
	"strconv"

	"github.com/Domenick1991/airline/internal/cache"
	"github.com/Domenick1991/airline/internal/repository"
	"github.com/Domenick1991/airline/internal/service/flights"
	"github.com/spf13/cobra"
)

func (c *CLI) newSetCapacityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-capacity FLIGHT_ID CAPACITY",
		Short: "Change how many passengers a flight may carry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flightID, capacity, err := parseCapacityArgs(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := c.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			redisClient := cache.NewRedisClient(c.cfg.Redis)
			defer redisClient.Close()

			service := flights.NewFlightService(
				repository.NewFlightRepository(pool),
				repository.NewPassengerRepository(pool),
				cache.NewRedisCache(redisClient, c.cfg.Flights.CacheTTL()),
				nil,
				"",
				flights.WithLogger(c.logger),
			)
			flight, err := service.UpdateCapacity(ctx, flightID, capacity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Flight %s: capacity %d, %d seats left\n", flight, flight.Capacity, flight.SeatsLeft())
			return nil
		},
	}
}

func parseCapacityArgs(args []string) (int64, int, error) {
	flightID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid flight id %q", args[0])
	}
	capacity, err := strconv.Atoi(args[1])
	if err != nil || capacity < 0 {
		return 0, 0, fmt.Errorf("invalid capacity %q", args[1])
	}
	return flightID, capacity, nil
}
