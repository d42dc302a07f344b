// Package cache holds the Redis-backed pieces of NyaySetu: request rate
// limiting and the logged-out session denylist.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const defaultPoolSize = 10

// Cache provides Redis cache access methods.
type Cache struct {
	client *redis.Client
	now    func() time.Time
}

// New connects to redisURL with a pool of poolSize connections (10 when
// poolSize is not positive) and pings the server.
func New(ctx context.Context, redisURL string, poolSize int) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	opt.PoolSize = poolSize
	opt.MinIdleConns = max(1, poolSize/5)
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewWithClient(client), nil
}

// NewWithClient wraps an existing client. Tests use it with miniredis.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client, now: time.Now}
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Collector exports the client's connection pool statistics.
func (c *Cache) Collector() prometheus.Collector {
	return &poolStatsCollector{
		stats:    c.client.PoolStats,
		hits:     prometheus.NewDesc("nyaysetu_redis_pool_hits_total", "Times a free connection was found in the pool.", nil, nil),
		misses:   prometheus.NewDesc("nyaysetu_redis_pool_misses_total", "Times a new connection had to be dialed.", nil, nil),
		timeouts: prometheus.NewDesc("nyaysetu_redis_pool_timeouts_total", "Times waiting for a connection timed out.", nil, nil),
		total:    prometheus.NewDesc("nyaysetu_redis_pool_total_connections", "Connections currently open.", nil, nil),
		idle:     prometheus.NewDesc("nyaysetu_redis_pool_idle_connections", "Connections currently idle.", nil, nil),
	}
}

type poolStatsCollector struct {
	stats func() *redis.PoolStats

	hits, misses, timeouts, total, idle *prometheus.Desc
}

func (p *poolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.hits
	ch <- p.misses
	ch <- p.timeouts
	ch <- p.total
	ch <- p.idle
}

func (p *poolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := p.stats()
	ch <- prometheus.MustNewConstMetric(p.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(p.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(p.timeouts, prometheus.CounterValue, float64(s.Timeouts))
	ch <- prometheus.MustNewConstMetric(p.total, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(p.idle, prometheus.GaugeValue, float64(s.IdleConns))
}
