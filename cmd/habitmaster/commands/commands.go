package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/habitmaster/core/internal/adapters/cli"
	"github.com/habitmaster/core/internal/application/services"
	"github.com/habitmaster/core/internal/domain/entities"
	"github.com/habitmaster/core/internal/infrastructure/config"
	"github.com/habitmaster/core/internal/infrastructure/datafile"
	"github.com/habitmaster/core/internal/infrastructure/logger"
	"github.com/habitmaster/core/internal/infrastructure/metrics"
	"github.com/habitmaster/core/internal/infrastructure/server"
	"github.com/habitmaster/core/internal/ports"
)

// Version is set at build time
var Version = "dev"

// Options holds flags shared by every command
type Options struct {
	ConfigFile string
	DataFile   string
}

// app bundles everything a command needs
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	file     *datafile.DataFile
	habits   *services.HabitService
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// NewMenuCommand creates the interactive menu command
func NewMenuCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive habit menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunMenu(cmd, opts)
		},
	}
}

// RunMenu starts the interactive shell on the command's input and output
func RunMenu(cmd *cobra.Command, opts *Options) error {
	a, err := bootstrap(cmd.Context(), opts, false)
	if err != nil {
		return err
	}
	defer a.logger.Close()

	return cli.NewShell(a.habits, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
}

// NewAddCommand creates the add command
func NewAddCommand(opts *Options) *cobra.Command {
	var category string

	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a new habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer a.logger.Close()

			if _, err := a.habits.AddHabit(cmd.Context(), ports.AddHabitRequest{Name: args[0], Category: category}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Habit '%s' added successfully!\n", args[0])
			return nil
		},
	}

	addCmd.Flags().StringVarP(&category, "category", "c", "", "Habit category (e.g. health, productivity)")
	return addCmd
}

// NewMarkCommand creates the mark command
func NewMarkCommand(opts *Options) *cobra.Command {
	var date string

	markCmd := &cobra.Command{
		Use:   "mark NAME",
		Short: "Mark a habit as completed (today by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer a.logger.Close()

			result, err := a.habits.MarkCompleted(cmd.Context(), ports.MarkCompletedRequest{Name: args[0], Date: date})
			if err != nil {
				if errors.Is(err, entities.ErrHabitNotFound) {
					return fmt.Errorf("%w (add it first with 'habitmaster add')", err)
				}
				return err
			}

			if result.Marked {
				fmt.Fprintf(cmd.OutOrStdout(), "Habit '%s' marked as completed for %s\n", result.Name, result.Date)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Habit '%s' already marked as completed for %s\n", result.Name, result.Date)
			}
			return nil
		},
	}

	markCmd.Flags().StringVarP(&date, "date", "d", "", "Completion date as YYYY-MM-DD (default today)")
	return markCmd
}

// NewListCommand creates the list command
func NewListCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all habits with their completion dates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer a.logger.Close()

			habits, err := a.habits.ListHabits(cmd.Context())
			if err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout()).Habits(habits)
			return nil
		},
	}
}

// NewStreaksCommand creates the streaks command
func NewStreaksCommand(opts *Options) *cobra.Command {
	var asOf string

	streaksCmd := &cobra.Command{
		Use:   "streaks",
		Short: "Show current and longest streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer a.logger.Close()

			var streaks []entities.HabitStreak
			if asOf == "" {
				streaks, err = a.habits.ViewStreaks(cmd.Context())
			} else {
				ref, parseErr := entities.ParseDate(asOf)
				if parseErr != nil {
					return parseErr
				}
				streaks, err = a.habits.StreaksAsOf(cmd.Context(), ref)
			}
			if err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout()).Streaks(streaks)
			return nil
		},
	}

	streaksCmd.Flags().StringVar(&asOf, "as-of", "", "Reference date as YYYY-MM-DD (default today)")
	return streaksCmd
}

// NewServeCommand creates the serve command
func NewServeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the habit API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print habitmaster version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "habitmaster %s\n", Version)
		},
	}
}

func runServer(ctx context.Context, opts *Options) error {
	a, err := bootstrap(ctx, opts, true)
	if err != nil {
		return err
	}
	defer a.logger.Close()

	srv := server.New(a.cfg, a.file, a.habits, a.validate, a.metrics, a.logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(a.cfg.Server.GetAddr())
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
