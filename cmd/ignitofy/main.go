package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/ignitofy-engine/internal/config"
	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
	"github.com/comitanigiacomo/ignitofy-engine/internal/core/services"
	"github.com/comitanigiacomo/ignitofy-engine/internal/logger"
	"github.com/comitanigiacomo/ignitofy-engine/internal/storage"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// session is everything a command needs once storage is open.
type session struct {
	habits *services.HabitService
	stats  *services.StatsService
	close  func() error
}

type opener func(ctx context.Context) (*session, error)

// openSession loads configuration, opens the configured backend and
// rehydrates the habit collection.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, err
	}

	lg, err := logger.New(logger.Config{Debug: cfg.LogDebug, Dir: cfg.LogDir})
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(ctx, cfg, lg)
	if err != nil {
		return nil, err
	}

	habits := services.NewHabitService(backend.Repo,
		services.WithClock(domain.SystemClock{Location: cfg.Location}),
		services.WithLogger(lg),
	)
	if _, err := habits.Load(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: could not read saved habits, starting empty:", err)
	}

	return &session{
		habits: habits,
		stats:  services.NewStatsService(habits),
		close:  backend.Close,
	}, nil
}

func main() {
	root, closeSession := newRootCmd(openSession)
	err := root.Execute()
	if cerr := closeSession(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Warning: failed to close storage:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The returned func closes the session if
// a command opened one; cobra skips post-run hooks when RunE fails, so callers
// run it after Execute.
func newRootCmd(open opener) (*cobra.Command, func() error) {
	var s *session

	closeSession := func() error {
		if s == nil || s.close == nil {
			return nil
		}
		err := s.close()
		s = nil
		return err
	}

	root := &cobra.Command{
		Use:           "ignitofy",
		Short:         "Track daily habits and streaks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			s, err = open(cmd.Context())
			return err
		},
	}

	get := func() *session { return s }

	root.AddCommand(
		newAddCmd(get),
		newListCmd(get),
		newToggleCmd(get),
		newEditCmd(get),
		newDeleteCmd(get),
		newClearCmd(get),
		newStatsCmd(get),
		newRateCmd(get),
		newCalendarCmd(get),
		newExportCmd(get),
		newImportCmd(get),
	)

	return root, closeSession
}

// warnPersistence downgrades a failed snapshot write to a warning; the change
// itself was applied.
func warnPersistence(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrPersistence) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: change applied but not saved:", err)
		return nil
	}
	return err
}
