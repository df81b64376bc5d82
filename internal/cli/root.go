// Package cli implements bloguserctl, the admin command line for the user
// store. Every command goes through the same account service as the HTTP
// API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haguru/bloguser/config"
	"github.com/haguru/bloguser/internal/app"
	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/pkg/zerolog"
)

const (
	FlagConfig          = "config"
	FlagPassword        = "password"
	FlagID              = "id"
	FlagUsername        = "username"
	FlagJSON            = "json"
	ErrOpeningService   = "failed to open user service"
	ErrReadingPassword  = "failed to read password"
	ErrCreatingUser     = "failed to create user"
	ErrListingUsers     = "failed to list users"
	ErrDeletingUser     = "failed to delete user"
	MsgUserCreated      = "Created user %s (id %d)\n"
	MsgUserDeleted      = "Deleted user %s\n"
	MsgNoUsers          = "No users."
	PromptPassword      = "Password: "
	PromptPasswordAgain = "Confirm password: "
)

// ServiceFactory opens the account service for the config at configPath.
// The returned func releases whatever the service holds open.
type ServiceFactory func(ctx context.Context, configPath string) (interfaces.UserService, func() error, error)

// DefaultServiceFactory connects to the stores named in the config.
func DefaultServiceFactory(ctx context.Context, configPath string) (interfaces.UserService, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName, zerolog.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	}).With(map[string]any{"component": "cli"})

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	service, _, err := app.BuildUserService(cfg, stores, logger)
	if err != nil {
		return nil, nil, errors.Join(err, stores.Close(ctx))
	}

	return service, func() error { return stores.Close(context.Background()) }, nil
}

type rootOptions struct {
	configPath string
	factory    ServiceFactory
}

// withService opens the service, runs fn and closes the service again.
func (o *rootOptions) withService(cmd *cobra.Command, fn func(interfaces.UserService) error) error {
	service, closeFn, err := o.factory(cmd.Context(), o.configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrOpeningService, err)
	}
	return errors.Join(fn(service), closeFn())
}

// NewRootCommand builds bloguserctl with every subcommand attached.
func NewRootCommand(factory ServiceFactory) *cobra.Command {
	opts := &rootOptions{factory: factory}

	rootCmd := &cobra.Command{
		Use:   "bloguserctl",
		Short: "Administer bloguser accounts",
		Long: `bloguserctl creates, lists and deletes bloguser accounts directly against
the configured user store.

Environment Variables:
  DATABASE_URL             Overrides the database DSN from the config file
  BLOGUSER_LOG_LEVEL       Overrides the log level`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, FlagConfig, config.CONFIG_PATH, "Path to the service config file")

	rootCmd.AddCommand(
		newCreateUserCommand(opts),
		newListUsersCommand(opts),
		newDeleteUserCommand(opts),
	)

	return rootCmd
}
