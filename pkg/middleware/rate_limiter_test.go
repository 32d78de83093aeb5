package middleware_test

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmartFormAI/FormGuard/pkg/middleware"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newApp(m middleware.Middleware) *fiber.App {
	app := fiber.New()
	app.Use(m.Middleware())
	app.Post("/scan", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimiter_LimitExceeded(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()
	testKey := "ratelimit:scan:per_ip:127.0.0.1"
	fixedTime := time.Unix(1740730536, 0)
	windowStart := fixedTime.Add(-time.Minute).Unix()

	mock.ExpectZCount(testKey,
		strconv.FormatInt(windowStart, 10),
		strconv.FormatInt(fixedTime.Unix(), 10)).SetVal(10)

	m, err := middleware.NewRateLimiterMiddleware(redisMock, newTestLogger(),
		map[string]interface{}{"limit": 10, "window": "1m"},
		&middleware.RateLimiterOpts{TimeProvider: func() time.Time { return fixedTime }},
	)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/scan", nil)
	req.Header.Set("X-Real-IP", "127.0.0.1")

	resp, err := newApp(m).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	assert.Equal(t, "10", resp.Header.Get("X-RateLimit-Limit"))
}

func TestRateLimiter_NoLimitExceeded(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()
	mock.MatchExpectationsInOrder(false)

	testKey := "ratelimit:scan:per_ip:127.0.0.1"
	testWindow := time.Minute
	fixedTime := time.Unix(1740730536, 0)
	windowStart := fixedTime.Add(-testWindow).Unix()
	fixedUUID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	mock.ExpectZCount(testKey,
		strconv.FormatInt(windowStart, 10),
		strconv.FormatInt(fixedTime.Unix(), 10)).SetVal(5)
	mock.ExpectTxPipeline()
	mock.ExpectZRemRangeByScore(testKey, "0", strconv.FormatInt(windowStart, 10)).SetVal(1)
	mock.ExpectZAdd(testKey, &redis.Z{
		Score:  float64(fixedTime.Unix()),
		Member: strconv.FormatInt(fixedTime.Unix(), 10) + ":" + fixedUUID.String(),
	}).SetVal(1)
	mock.ExpectExpire(testKey, testWindow).SetVal(true)
	mock.ExpectTxPipelineExec()

	m, err := middleware.NewRateLimiterMiddleware(redisMock, newTestLogger(),
		map[string]interface{}{"limit": 10, "window": "1m"},
		&middleware.RateLimiterOpts{
			TimeProvider: func() time.Time { return fixedTime },
			UuidProvider: func() uuid.UUID { return fixedUUID },
		},
	)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/scan", nil)
	req.Header.Set("X-Real-IP", "127.0.0.1")

	resp, err := newApp(m).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestRateLimiter_RedisFailureAllowsRequest(t *testing.T) {
	redisMock, mock := redismock.NewClientMock()
	// No expectations registered: the ZCount call errors and the request
	// passes through.
	_ = mock

	m, err := middleware.NewRateLimiterMiddleware(redisMock, newTestLogger(), nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/scan", nil)
	req.Header.Set("X-Real-IP", "127.0.0.1")

	resp, err := newApp(m).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRateLimiter_InvalidWindow(t *testing.T) {
	redisMock, _ := redismock.NewClientMock()

	_, err := middleware.NewRateLimiterMiddleware(redisMock, newTestLogger(),
		map[string]interface{}{"limit": 10, "window": "not-a-duration"}, nil)

	assert.Error(t, err)
}
