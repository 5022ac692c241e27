package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"maintenance-route-service/internal/adapters/cache"
	"maintenance-route-service/internal/adapters/platform"
	"maintenance-route-service/internal/adapters/repositories"
	"maintenance-route-service/internal/config"
	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/platform/db"
)

// dbtool prepares the Postgres schema and loads device snapshots, either from
// the seed file or, with -sync, from the upstream platform API.
func main() {
	syncPlatform := flag.Bool("sync", false, "load devices from the platform API instead of the seed file")
	skipSeed := flag.Bool("schema-only", false, "create the schema without loading devices")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *skipSeed {
		return
	}

	if *syncPlatform {
		err = syncFromPlatform(ctx, conn, cfg)
	} else {
		log.Printf("Seeding devices from %s...", cfg.SeedPath)
		err = repositories.SeedFromJSON(ctx, conn, cfg.SeedPath)
	}
	if err != nil {
		log.Fatalf("loading devices failed: %v", err)
	}

	if cfg.Redis.URL != "" {
		if err := invalidateDeviceCache(ctx, cfg); err != nil {
			log.Printf("device cache not invalidated: %v", err)
		}
	}

	log.Println("Devices loaded.")
}

func syncFromPlatform(ctx context.Context, conn *sql.DB, cfg *config.Config) error {
	if cfg.Platform.BaseURL == "" {
		return fmt.Errorf("sync: PLATFORM_API_URL is required")
	}

	client, err := platform.NewClient(cfg.Platform.BaseURL, cfg.Platform.Token, cfg.Platform.Timeout)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	log.Printf("Syncing devices from %s...", cfg.Platform.BaseURL)
	devices, err := client.ListDevices(ctx, domain.DeviceFilter{})
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if err := repositories.NewPostgresDeviceRepository(conn).UpsertDevices(ctx, devices); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	log.Printf("Synced %d devices.", len(devices))
	return nil
}

// invalidateDeviceCache drops the snapshot cached by running servers so
// they pick up the new devices on their next lookup.
func invalidateDeviceCache(ctx context.Context, cfg *config.Config) error {
	rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	return cache.InvalidateSnapshot(ctx, rdb, cfg.Redis.KeyPrefix)
}
