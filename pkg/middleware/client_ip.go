package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ipHeaders are checked in order of preference before falling back to the
// connection's remote address.
var ipHeaders = []string{
	"X-Real-IP",
	"X-Forwarded-For",
	"True-Client-IP",
	"CF-Connecting-IP",
}

// ClientIP resolves the caller's address for rate limiting and audit logs.
func ClientIP(c *fiber.Ctx) string {
	for _, header := range ipHeaders {
		if value := c.Get(header); value != "" {
			// X-Forwarded-For may carry a chain; the first hop is the client.
			if idx := strings.IndexByte(value, ','); idx >= 0 {
				value = value[:idx]
			}
			return strings.TrimSpace(value)
		}
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}
