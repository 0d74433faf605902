package cli

import (
	"fmt"

	"github.com/Domenick1991/airline/internal/repository"
	"github.com/Domenick1991/airline/internal/service/users"
	"github.com/spf13/cobra"
)

func (c *CLI) newCreateUserCmd() *cobra.Command {
	var input users.CreateUserInput

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a user that can log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := c.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			// Creating users never touches sessions.
			service := users.NewUserService(repository.NewUserRepository(pool), nil, 0, users.WithLogger(c.logger))
			user, err := service.CreateUser(ctx, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "login name")
	cmd.Flags().StringVar(&input.Password, "password", "", "password")
	cmd.Flags().StringVar(&input.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&input.LastName, "last", "", "last name")
	cmd.Flags().StringVar(&input.Email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
