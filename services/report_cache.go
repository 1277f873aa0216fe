package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const reportCachePrefix = "legalaid:summary:"

// ReportCache keeps rendered summaries in Redis for a short time
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// reportCache is nil when no Redis URL is configured
var reportCache *ReportCache

// InitReportCache connects the summary cache. An empty URL leaves caching disabled.
func InitReportCache(url string, ttl time.Duration) error {
	if url == "" {
		log.Info().Str("component", "cache").Msg("Report cache disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	reportCache = NewReportCache(client, ttl)
	log.Info().Str("component", "cache").Dur("ttl", ttl).Msg("Report cache enabled")
	return nil
}

// NewReportCache wraps an existing client
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportCache{client: client, ttl: ttl}
}

// CloseReportCache releases the Redis connection, if any
func CloseReportCache() error {
	if reportCache == nil {
		return nil
	}
	err := reportCache.client.Close()
	reportCache = nil
	return err
}

func reportCacheKey(kind string, w ReportWindow) string {
	return reportCachePrefix + kind + ":" + w.Key()
}

// load fills out from the cache. Cache errors count as misses.
func (c *ReportCache) load(ctx context.Context, kind string, w ReportWindow, out interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, reportCacheKey(kind, w)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Str("component", "cache").Str("kind", kind).Err(err).Msg("Report cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Warn().Str("component", "cache").Str("kind", kind).Err(err).Msg("Discarding unreadable cached report")
		return false
	}
	reportCacheHits.WithLabelValues(kind).Inc()
	return true
}

func (c *ReportCache) store(ctx context.Context, kind string, w ReportWindow, report interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, reportCacheKey(kind, w), data, c.ttl).Err(); err != nil {
		log.Warn().Str("component", "cache").Str("kind", kind).Err(err).Msg("Report cache write failed")
	}
}
