package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"courtbook/internal/booking"
)

const availabilityTTL = 5 * time.Minute

// AvailabilityCache is a read-through cache for availability grids. Writes to
// a facility's calendar bump a per-(facility, date) version counter, which
// orphans every cached grid for that day; the stale keys simply age out with
// their TTL. A nil client disables the cache entirely.
type AvailabilityCache struct {
	rdb *redis.Client
}

func NewAvailabilityCache(rdb *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb}
}

func (c *AvailabilityCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the cached grid for the current version, or nil on any miss.
// Cache errors degrade to a miss so availability reads never fail on Redis.
func (c *AvailabilityCache) Get(ctx context.Context, facilityID int64, sport, courtName string, date booking.Date) *booking.Availability {
	if !c.Enabled() {
		return nil
	}

	ver, err := c.version(ctx, facilityID, date)
	if err != nil {
		return nil
	}

	data, err := c.rdb.Get(ctx, gridKey(facilityID, sport, courtName, date, ver)).Bytes()
	if err != nil {
		return nil
	}

	var av booking.Availability
	if err := json.Unmarshal(data, &av); err != nil {
		return nil
	}
	return &av
}

func (c *AvailabilityCache) Set(ctx context.Context, facilityID int64, sport, courtName string, date booking.Date, av *booking.Availability) {
	if !c.Enabled() || av == nil {
		return
	}

	ver, err := c.version(ctx, facilityID, date)
	if err != nil {
		return
	}

	data, err := json.Marshal(av)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, gridKey(facilityID, sport, courtName, date, ver), data, availabilityTTL)
}

// Invalidate bumps the version for a facility's date so every cached grid
// for that day is no longer addressable.
func (c *AvailabilityCache) Invalidate(ctx context.Context, facilityID int64, date booking.Date) {
	if !c.Enabled() {
		return
	}
	key := versionKey(facilityID, date)
	c.rdb.Incr(ctx, key)
	c.rdb.Expire(ctx, key, 24*time.Hour)
}

func (c *AvailabilityCache) version(ctx context.Context, facilityID int64, date booking.Date) (int64, error) {
	ver, err := c.rdb.Get(ctx, versionKey(facilityID, date)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return ver, err
}

func versionKey(facilityID int64, date booking.Date) string {
	return fmt.Sprintf("avail:ver:%d:%s", facilityID, date)
}

func gridKey(facilityID int64, sport, courtName string, date booking.Date, ver int64) string {
	return fmt.Sprintf("avail:%d:%s:%s:%s:v%d", facilityID, sport, courtName, date, ver)
}
