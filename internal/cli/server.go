package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"iqscalar-assessment-service/internal/app"
	"iqscalar-assessment-service/internal/config"
	"iqscalar-assessment-service/internal/history"
	transport "iqscalar-assessment-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	var origins string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the assessment server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, splitOrigins(origins))
		},
	}
	cmd.Flags().StringVar(&origins, "cors-origins", os.Getenv("CORS_ORIGINS"), "comma-separated allowed origins (default *)")
	return cmd
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func runServer(ctx context.Context, configPath, portFlag string, origins []string) error {
	logger := newLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	timeLimit := config.TTLDuration(cfg.Test.TimeLimit, config.DefaultTimeLimit)
	recorder := history.NewRecorder(d.store, d.locker, cfg.History.Limit)
	assessment := app.NewAssessmentService(d.banks, app.NewExposureTracker(d.store), d.attempts,
		app.WithLogger(logger),
		app.WithRecorder(recorder),
		app.WithTestSize(cfg.Test.QuestionCount),
		app.WithPracticeSize(cfg.Practice.QuestionCount),
		app.WithLocker(d.locker),
	)
	daily := app.NewDailyService(d.banks, d.store,
		app.WithDailySalt(cfg.Daily.Salt),
		app.WithLocker(d.locker),
	)

	handler := transport.NewHandler(assessment, daily, recorder, d.banks, timeLimit, logger)
	wsHandler := transport.NewWSHandler(assessment, timeLimit, logger)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           transport.NewRouter(handler, wsHandler, origins),
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting assessment service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
