package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/SmartFormAI/FormGuard/pkg/infra/metrics"
)

const (
	defaultRateLimit  = 10
	defaultRateWindow = time.Minute
)

// RateLimiterConfig is decoded from the rate_limiter settings block.
type RateLimiterConfig struct {
	Limit      int    `mapstructure:"limit"`
	Window     string `mapstructure:"window"`
	RetryAfter string `mapstructure:"retry_after"`
}

type RateLimiterOpts struct {
	TimeProvider func() time.Time
	UuidProvider func() uuid.UUID
}

type rateLimiterMiddleware struct {
	redis        *redis.Client
	logger       *logrus.Logger
	limit        int
	window       time.Duration
	retryAfter   string
	timeProvider func() time.Time
	uuidProvider func() uuid.UUID
}

// NewRateLimiterMiddleware builds a per-IP sliding-window limiter backed by
// Redis. When Redis is unreachable the request is allowed through: the
// limiter trades enforcement for availability.
func NewRateLimiterMiddleware(
	redisClient *redis.Client,
	logger *logrus.Logger,
	settings map[string]interface{},
	opts *RateLimiterOpts,
) (Middleware, error) {
	var cfg RateLimiterConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("invalid rate limiter config: %w", err)
	}

	if cfg.Limit <= 0 {
		cfg.Limit = defaultRateLimit
	}
	window := defaultRateWindow
	if cfg.Window != "" {
		parsed, err := time.ParseDuration(cfg.Window)
		if err != nil {
			return nil, fmt.Errorf("invalid rate limiter window: %w", err)
		}
		window = parsed
	}
	if cfg.RetryAfter == "" {
		cfg.RetryAfter = "60"
	}

	timeProvider := time.Now
	uuidProvider := uuid.New
	if opts != nil && opts.TimeProvider != nil {
		timeProvider = opts.TimeProvider
	}
	if opts != nil && opts.UuidProvider != nil {
		uuidProvider = opts.UuidProvider
	}

	return &rateLimiterMiddleware{
		redis:        redisClient,
		logger:       logger,
		limit:        cfg.Limit,
		window:       window,
		retryAfter:   cfg.RetryAfter,
		timeProvider: timeProvider,
		uuidProvider: uuidProvider,
	}, nil
}

func (m *rateLimiterMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		ip := ClientIP(c)
		key := fmt.Sprintf("ratelimit:scan:per_ip:%s", ip)

		now := m.timeProvider()
		windowStart := now.Add(-m.window).Unix()

		currentCount, err := m.redis.ZCount(ctx, key,
			strconv.FormatInt(windowStart, 10),
			strconv.FormatInt(now.Unix(), 10)).Result()
		if err != nil {
			m.logger.WithError(err).Warn("rate limit check failed, allowing request")
			return c.Next()
		}

		resetTime := now.Add(m.window)
		c.Set("X-RateLimit-Limit", strconv.Itoa(m.limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(int64(m.limit)-currentCount, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if currentCount >= int64(m.limit) {
			metrics.RateLimitedTotal.Inc()
			m.logger.WithFields(logrus.Fields{
				"ip":    ip,
				"count": currentCount,
				"limit": m.limit,
			}).Info("rate limit exceeded")
			c.Set("Retry-After", m.retryAfter)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}

		requestID := fmt.Sprintf("%d:%s", now.Unix(), m.uuidProvider().String())
		pipe := m.redis.TxPipeline()
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, key, &redis.Z{
			Score:  float64(now.Unix()),
			Member: requestID,
		})
		pipe.Expire(ctx, key, m.window)
		if _, err := pipe.Exec(ctx); err != nil {
			m.logger.WithError(err).Warn("failed to record rate limit entry")
		}

		return c.Next()
	}
}
