// Package cache keeps computed dashboards in Redis so repeated requests on the
// same day skip the full-history read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Connect opens a Redis client from a URL or a bare host:port and pings it.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	if !strings.Contains(redisURL, "://") {
		redisURL = "redis://" + redisURL
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Dashboards caches serialized dashboards per user, generation and day. A nil
// client turns every call into a miss, so the service keeps working without Redis.
//
// Each user has a generation counter that Invalidate bumps. Readers fetch the
// generation before loading transactions and store under it, so a snapshot
// computed before a write lands under a generation no later read asks for.
type Dashboards struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewDashboards(client *redis.Client, ttl time.Duration, log zerolog.Logger) *Dashboards {
	return &Dashboards{client: client, ttl: ttl, log: log}
}

func userPrefix(userID int64) string {
	return fmt.Sprintf("dashboard:%d:", userID)
}

// GenerationKey holds the user's invalidation counter. It sits outside
// userPrefix so invalidation sweeps never delete it.
func GenerationKey(userID int64) string {
	return fmt.Sprintf("dashboard-gen:%d", userID)
}

// Key includes the day because the daily series depends on it.
func Key(userID, generation int64, today time.Time) string {
	return fmt.Sprintf("%s%d:%s", userPrefix(userID), generation, today.Format("2006-01-02"))
}

func (d *Dashboards) enabled() bool {
	return d != nil && d.client != nil && d.ttl > 0
}

// Generation returns the user's current generation. ok is false when the
// cache is disabled or unreachable, in which case callers skip Get and Set.
func (d *Dashboards) Generation(ctx context.Context, userID int64) (int64, bool) {
	if !d.enabled() {
		return 0, false
	}
	gen, err := d.client.Get(ctx, GenerationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		d.log.Warn().Err(err).Int64("user_id", userID).Msg("Dashboard cache generation read failed")
		return 0, false
	}
	return gen, true
}

// Get decodes a cached value into dst and reports whether it was found.
func (d *Dashboards) Get(ctx context.Context, userID, generation int64, today time.Time, dst any) bool {
	if !d.enabled() {
		return false
	}
	cached, err := d.client.Get(ctx, Key(userID, generation, today)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.log.Warn().Err(err).Int64("user_id", userID).Msg("Dashboard cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(cached, dst); err != nil {
		d.log.Warn().Err(err).Int64("user_id", userID).Msg("Discarding undecodable cached dashboard")
		return false
	}
	return true
}

// Set stores v for the user's generation and day.
func (d *Dashboards) Set(ctx context.Context, userID, generation int64, today time.Time, v any) {
	if !d.enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		d.log.Warn().Err(err).Msg("Dashboard cache encode failed")
		return
	}
	if err := d.client.SetEx(ctx, Key(userID, generation, today), data, d.ttl).Err(); err != nil {
		d.log.Warn().Err(err).Int64("user_id", userID).Msg("Dashboard cache write failed")
	}
}

// Invalidate bumps the user's generation, then drops the cached days it made obsolete.
func (d *Dashboards) Invalidate(ctx context.Context, userID int64) {
	if !d.enabled() {
		return
	}
	if err := d.client.Incr(ctx, GenerationKey(userID)).Err(); err != nil {
		d.log.Warn().Err(err).Int64("user_id", userID).Msg("Dashboard cache generation bump failed")
	}

	iter := d.client.Scan(ctx, 0, userPrefix(userID)+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		d.log.Warn().Err(err).Int64("user_id", userID).Msg("Dashboard cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := d.client.Del(ctx, keys...).Err(); err != nil {
		d.log.Warn().Err(err).Int64("user_id", userID).Msg("Dashboard cache invalidation failed")
	}
}
