package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const loginLimiterPrefix = "console:login-limit"

// NewMemoryStore returns an in-process limiter store.
func NewMemoryStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: loginLimiterPrefix})
}

// NewRedisStore returns a limiter store shared by every console replica.
func NewRedisStore(client *redis.Client) (limiter.Store, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: loginLimiterPrefix})
	if err != nil {
		return nil, errors.Wrap(err, "redis limiter store")
	}
	return store, nil
}

// LoginRateLimit throttles login attempts per client IP. rate uses the limiter
// format, e.g. "10-M" for ten per minute.
func LoginRateLimit(rate string, store limiter.Store) (gin.HandlerFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, errors.Wrapf(err, "login rate %q", rate)
	}
	return mgin.NewMiddleware(
		limiter.New(store, r),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.String(http.StatusTooManyRequests, "Too many login attempts. Please wait a minute and try again.")
		}),
	), nil
}
