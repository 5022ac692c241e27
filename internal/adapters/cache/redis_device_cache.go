package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"maintenance-route-service/internal/domain"
	"maintenance-route-service/internal/platform/obs"
	"maintenance-route-service/internal/ports"
	"maintenance-route-service/internal/services"
)

const snapshotKey = "devices:snapshot"

// RedisDeviceCache wraps a DeviceSource and keeps the unfiltered device
// snapshot in Redis for ttl. Filters are applied in process on every call,
// so one cached snapshot serves all queries.
//
// Redis failures never fail a lookup: the wrapped source is used instead.
type RedisDeviceCache struct {
	next   ports.DeviceSource
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisDeviceCache(
	next ports.DeviceSource,
	rdb *redis.Client,
	ttl time.Duration,
	prefix string,
) (*RedisDeviceCache, error) {
	if next == nil {
		return nil, errors.New("device cache: wrapped source is nil")
	}
	if rdb == nil {
		return nil, errors.New("device cache: redis client is nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("device cache: ttl must be positive, got %s", ttl)
	}

	return &RedisDeviceCache{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
	}, nil
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis client: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis client: ping: %w", err)
	}
	return rdb, nil
}

func (c *RedisDeviceCache) key() string {
	return snapshotKeyFor(c.prefix)
}

func snapshotKeyFor(prefix string) string {
	prefix = strings.TrimSuffix(prefix, ":")
	if prefix == "" {
		return snapshotKey
	}
	return prefix + ":" + snapshotKey
}

func (c *RedisDeviceCache) ListDevices(
	ctx context.Context,
	filter domain.DeviceFilter,
) (_ []domain.MaintenanceMapItem, err error) {
	defer obs.Time(ctx, "devices.cache.ListDevices")(&err)

	if devices, ok := c.lookup(ctx); ok {
		return services.FilterDevices(devices, filter), nil
	}

	devices, err := c.next.ListDevices(ctx, domain.DeviceFilter{})
	if err != nil {
		return nil, fmt.Errorf("device cache: load snapshot: %w", err)
	}

	c.store(ctx, devices)

	return services.FilterDevices(devices, filter), nil
}

// Invalidate drops the cached snapshot so the next lookup reloads it.
func (c *RedisDeviceCache) Invalidate(ctx context.Context) error {
	return InvalidateSnapshot(ctx, c.rdb, c.prefix)
}

// InvalidateSnapshot drops the snapshot stored under prefix. Used by tools
// that rewrite the device store outside a running server.
func InvalidateSnapshot(ctx context.Context, rdb *redis.Client, prefix string) error {
	if err := rdb.Del(ctx, snapshotKeyFor(prefix)).Err(); err != nil {
		return fmt.Errorf("device cache: invalidate: %w", err)
	}
	return nil
}

func (c *RedisDeviceCache) lookup(ctx context.Context) ([]domain.MaintenanceMapItem, bool) {
	raw, err := c.rdb.Get(ctx, c.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		obs.DeviceCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		obs.DeviceCacheLookups.WithLabelValues("error").Inc()
		log.Printf("req_id=%s op=devices.cache.get err=%v", obs.RequestID(ctx), err)
		return nil, false
	}

	var devices []domain.MaintenanceMapItem
	if err := json.Unmarshal(raw, &devices); err != nil {
		obs.DeviceCacheLookups.WithLabelValues("error").Inc()
		log.Printf("req_id=%s op=devices.cache.decode err=%v", obs.RequestID(ctx), err)
		return nil, false
	}

	obs.DeviceCacheLookups.WithLabelValues("hit").Inc()
	return devices, true
}

func (c *RedisDeviceCache) store(ctx context.Context, devices []domain.MaintenanceMapItem) {
	payload, err := json.Marshal(devices)
	if err != nil {
		log.Printf("req_id=%s op=devices.cache.encode err=%v", obs.RequestID(ctx), err)
		return
	}
	if err := c.rdb.Set(ctx, c.key(), payload, c.ttl).Err(); err != nil {
		log.Printf("req_id=%s op=devices.cache.set err=%v", obs.RequestID(ctx), err)
	}
}
