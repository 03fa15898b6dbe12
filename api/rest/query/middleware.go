package query

import (
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware bounds queries per client IP with an in-memory
// bucket. Counters reset on process restart and are not shared between
// replicas.
func RateLimitMiddleware(rate limiter.Rate) gin.HandlerFunc {
	return mgin.NewMiddleware(limiter.New(memorystore.NewStore(), rate))
}
