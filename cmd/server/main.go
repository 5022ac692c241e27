package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"maintenance-route-service/internal/adapters/cache"
	"maintenance-route-service/internal/adapters/events"
	"maintenance-route-service/internal/adapters/platform"
	"maintenance-route-service/internal/adapters/repositories"
	"maintenance-route-service/internal/api"
	"maintenance-route-service/internal/api/handlers"
	"maintenance-route-service/internal/config"
	"maintenance-route-service/internal/platform/db"
	"maintenance-route-service/internal/platform/obs"
	"maintenance-route-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, platform API, Redis, Kafka) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	obs.RegisterDefault()

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				log.Printf("shutdown: close: %v", err)
			}
		}
	}()

	var conn *sql.DB
	if cfg.Database.URL != "" {
		var err error
		conn, err = db.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		closers = append(closers, conn)
	}

	plans := newPlanRepository(conn)

	devices, err := newDeviceSource(cfg, conn)
	if err != nil {
		return err
	}

	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		closers = append(closers, rdb)

		devices, err = cache.NewRedisDeviceCache(devices, rdb, cfg.Redis.DeviceTTL, cfg.Redis.KeyPrefix)
		if err != nil {
			return err
		}
		log.Printf("device cache enabled ttl=%s", cfg.Redis.DeviceTTL)
	}

	publisher, err := newEventPublisher(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, publisher)

	router := api.NewRouter(api.Deps{
		Devices: devices,
		Plans:   plans,
		Events:  publisher,
		Defaults: handlers.Defaults{
			WeightDistance:    cfg.Planner.WeightDistance,
			WeightCriticality: cfg.Planner.WeightCriticality,
			WeightAirQloud:    cfg.Planner.WeightAirQloud,
			BufferKm:          cfg.Planner.BufferKm,
			MaxStops:          cfg.Planner.MaxStops,
		},
		RateLimit: cfg.HTTP.RateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s", cfg.HTTP.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server: shutdown: %w", err)
	}
	return nil
}

func newPlanRepository(conn *sql.DB) ports.PlanRepository {
	if conn != nil {
		return repositories.NewPostgresPlanRepository(conn)
	}
	log.Println("DATABASE_URL not set: plans are kept in memory")
	return repositories.NewMemoryPlanRepository()
}

// newDeviceSource prefers the platform API, then Postgres, then the seed file.
func newDeviceSource(cfg *config.Config, conn *sql.DB) (ports.DeviceSource, error) {
	switch {
	case cfg.Platform.BaseURL != "":
		log.Printf("device source=platform url=%s", cfg.Platform.BaseURL)
		return platform.NewClient(cfg.Platform.BaseURL, cfg.Platform.Token, cfg.Platform.Timeout)
	case conn != nil:
		log.Println("device source=postgres")
		return repositories.NewPostgresDeviceRepository(conn), nil
	default:
		log.Printf("device source=seed path=%s", cfg.SeedPath)
		return repositories.NewMemoryDeviceRepositoryFromJSON(cfg.SeedPath)
	}
}

type closingPublisher interface {
	ports.EventPublisher
	io.Closer
}

func newEventPublisher(cfg *config.Config) (closingPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.LogPublisher{}, nil
	}
	log.Printf("plan events topic=%s brokers=%v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
	return events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
