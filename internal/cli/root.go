package cli

import (
	"os"
	"os/signal"
	"syscall"

	"goalgrid/internal/config"
	"goalgrid/internal/logging"
	"goalgrid/internal/server"
	"goalgrid/internal/store"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the goalgrid command. Running it without a
// subcommand serves the web app.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	serve := NewServeCommand(opts)

	cmd := &cobra.Command{
		Use:           "goalgrid",
		Short:         "GoalGrid - personal task board",
		Long:          "A personal task manager with a due-date calendar and daily suggestions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.EnvFile)
			if err != nil {
				return err
			}
			logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, cfg, logger)
		},
	}
}

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.EnvFile)
			if err != nil {
				return err
			}
			logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

			st, err := store.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer st.Close()

			logger.Info("schema ready", "driver", st.Driver())
			return nil
		},
	}
}
