package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/cartograph/internal/config"
	"github.com/UnknownOlympus/cartograph/internal/geocoding"
	"github.com/UnknownOlympus/cartograph/internal/metrics"
	"github.com/UnknownOlympus/cartograph/internal/repository"
	"github.com/UnknownOlympus/cartograph/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the geocoding service",
	Long:  `Poll the task table and geocode pending addresses until interrupted.`,
	Args:  cobra.NoArgs,
	RunE:  runService,
}

func runService(cmd *cobra.Command, _ []string) error {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.OutOrStdout(), cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}
	defer dtb.Close()

	repo := repository.NewRepository(dtb, logger)

	geoProvider, err := newProvider(cfg, logger)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.ProviderType)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	geoService := service.NewGeocodingService(logger, repo, geoProvider, appMetrics, service.Options{
		Workers:       cfg.Workers,
		PollInterval:  cfg.Interval,
		BatchSize:     cfg.BatchSize,
		AddressPrefix: cfg.AddrPrefix,
		Limiter:       limiter,
	})

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	go startMonitoringServer(ctx, logger, reg, dtb, cfg.Port)

	geoService.Run(ctx)

	logger.InfoContext(ctx, "Application stopped gracefully.")

	return nil
}

// newProvider builds the configured geocoding provider.
func newProvider(cfg *config.Config, logger *slog.Logger) (geocoding.Provider, error) {
	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:          geocoding.ProviderType(cfg.ProviderType),
		Token:         cfg.ArcGIS.Token,
		SourceCountry: cfg.ArcGIS.SourceCountry,
		APIKey:        cfg.Google.APIKey,
		HTTPTimeout:   cfg.HTTPTimeout,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding provider: %w", err)
	}

	return geoProvider, nil
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It shuts down when ctx is cancelled.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler(ctx, log, dtb))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	const (
		readTimeout  = 5 * time.Second
		writeTimeout = 10 * time.Second
	)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

func healthHandler(ctx context.Context, log *slog.Logger, dtb pinger) http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := dtb.Ping(ctx); err != nil {
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	}
}
