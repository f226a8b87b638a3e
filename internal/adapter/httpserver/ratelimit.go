package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	apperrors "github.com/arvidhall/wellnessflow/internal/platform/errors"
)

// Idle clients are evicted from the store after this long, so the bucket map
// does not grow unbounded with one entry per source IP.
const rateLimiterIdleExpiry = 5 * time.Minute

// newAuthRateLimiter throttles the credential endpoints per client IP to slow
// down password guessing. Denials flow through the structured error
// middleware, so clients see the same {error, type} envelope as every other
// API failure.
func newAuthRateLimiter(ratePerSecond float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(ratePerSecond),
			Burst:     burst,
			ExpiresIn: rateLimiterIdleExpiry,
		},
	)
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return apperrors.RateLimitError("too many attempts, try again later").
				WithField("client", identifier)
		},
	})
}
