package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hci/patientadmin/internal/config"
	"github.com/hci/patientadmin/internal/domain/patient"
	"github.com/hci/patientadmin/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "patient-server",
		Short: "Patient administration API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the patient administration API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a seed fixture into an empty store and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			return runSeed(cmd.OutOrStdout(), file)
		},
	}
	cmd.Flags().String("file", "", "YAML fixture to load instead of the embedded one")
	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

func loadFixture(file string) (*patient.Fixture, error) {
	if file == "" {
		return patient.DefaultFixture()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return patient.ParseFixture(data)
}

func runSeed(out io.Writer, file string) error {
	f, err := loadFixture(file)
	if err != nil {
		return err
	}
	store := patient.NewStore()
	if _, err := store.Seed(f); err != nil {
		return err
	}
	svc := newService(store, zerolog.Nop())

	ctx := context.Background()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"counts":    store.Counts(),
		"hospitals": svc.ListHospitals(ctx),
		"visits":    svc.ListVisits(ctx),
		"patients":  svc.ListPatients(ctx),
	})
}

func newService(store *patient.Store, logger zerolog.Logger) *patient.Service {
	return patient.NewService(
		patient.NewPatientRepoMem(store),
		patient.NewHospitalRepoMem(store),
		patient.NewVisitRepoMem(store),
		logger,
	)
}

// newServer wires the store, domain service and middleware into an echo
// instance. It does not start listening.
func newServer(cfg *config.Config, logger zerolog.Logger, store *patient.Store) (*echo.Echo, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}
	if err := patient.RegisterMetrics(reg, store); err != nil {
		return nil, fmt.Errorf("register store metrics: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{echo.HeaderContentType, middleware.RequestIDHeader},
		ExposeHeaders: []string{echo.HeaderLocation, middleware.RequestIDHeader},
	}))
	e.Use(echomw.Gzip())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 || rateLimitCfg.BurstSize <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.Audit(logger, "/api/v1"))

	patient.NewHandler(newService(store, logger)).RegisterRoutes(apiV1)

	return e, nil
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)

	// Store
	store := patient.NewStore()
	if cfg.SeedData {
		f, err := patient.DefaultFixture()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load seed fixture")
		}
		seeded, err := store.Seed(f)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed store")
		}
		if seeded {
			c := store.Counts()
			logger.Info().
				Int("patients", c.Patients).
				Int("hospitals", c.Hospitals).
				Int("visits", c.Visits).
				Msg("seeded store")
		}
	}

	e, err := newServer(cfg, logger, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		var err error
		if cfg.TLSEnabled {
			err = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
