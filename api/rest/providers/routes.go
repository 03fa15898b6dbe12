package providers

import (
	"github.com/gin-gonic/gin"

	"github.com/inlock-ai/ragserver/internal/llm"
)

// registers the provider listing route
func RegisterRoutes(router *gin.RouterGroup, registry *llm.Registry) {
	router.GET("/providers", Handler(registry))
}
