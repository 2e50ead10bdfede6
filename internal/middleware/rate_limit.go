package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// DefaultRateLimitKeyPrefix namespaces the page limiter's Redis keys.
const DefaultRateLimitKeyPrefix = "rate_limit:pages"

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Config() RateLimitConfig
}

// RedisLimiter is a fixed-window limiter shared by every instance that talks
// to the same Redis.
type RedisLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRedisLimiter creates a new Redis backed limiter
func NewRedisLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultRateLimitKeyPrefix
	}
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Config returns the limiter configuration.
func (rl *RedisLimiter) Config() RateLimitConfig { return rl.config }

// Allow counts a request from key against the current window.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incrCmd.Val())
	return Decision{
		Allowed:   count <= rl.config.Limit,
		Remaining: max(rl.config.Limit-count, 0),
		Reset:     windowStart.Add(rl.config.Window),
	}, nil
}

// localLimiterMaxKeys caps the number of buckets a LocalLimiter tracks.
const localLimiterMaxKeys = 10000

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is an in-process token bucket per key, used when Redis is not
// configured. The bucket refills Limit tokens per Window.
type LocalLimiter struct {
	config  RateLimitConfig
	every   rate.Limit
	maxKeys int

	mu      sync.Mutex
	entries map[string]*localEntry
}

// NewLocalLimiter creates an in-process limiter.
func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		config:  config,
		every:   rate.Every(config.Window / time.Duration(max(config.Limit, 1))),
		maxKeys: localLimiterMaxKeys,
		entries: make(map[string]*localEntry),
	}
}

// Config returns the limiter configuration.
func (l *LocalLimiter) Config() RateLimitConfig { return l.config }

// Allow takes a token from key's bucket.
func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := time.Now()

	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		if len(l.entries) >= l.maxKeys {
			l.evict(now)
		}
		entry = &localEntry{limiter: rate.NewLimiter(l.every, l.config.Limit)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	allowed := entry.limiter.AllowN(now, 1)
	return Decision{
		Allowed:   allowed,
		Remaining: max(int(entry.limiter.TokensAt(now)), 0),
		Reset:     now.Add(l.config.Window),
	}, nil
}

// evict makes room for a new bucket. Idle buckets go first; if that frees
// less than a quarter of the capacity every bucket is dropped, so the scan
// runs at most once per maxKeys/4 new keys. Caller holds l.mu.
func (l *LocalLimiter) evict(now time.Time) {
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > l.config.Window {
			delete(l.entries, key)
		}
	}
	if len(l.entries) > l.maxKeys*3/4 {
		l.entries = make(map[string]*localEntry, l.maxKeys)
	}
}

// RateLimit rejects clients that exceed the limiter's budget with 429. A
// failing limiter lets the request through.
func RateLimit(limiter Limiter, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := limiter.Config()

	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limit check failed",
				slog.String("request_id", GetRequestID(c)),
				slog.Any("error", err),
			)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if !decision.Allowed {
			rateLimitRejects.Inc()
			retryAfter := max(int(time.Until(decision.Reset).Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", cfg.Limit, cfg.Window),
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
