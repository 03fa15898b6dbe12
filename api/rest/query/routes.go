package query

import (
	"time"

	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
)

// queries allowed per client IP per minute
const queriesPerMinute = 30

// registers the query route
func RegisterRoutes(router *gin.RouterGroup, engine Engine) {
	rate := limiter.Rate{Period: time.Minute, Limit: queriesPerMinute}

	router.POST("/query", RateLimitMiddleware(rate), Handler(engine))
}
