package providers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inlock-ai/ragserver/internal/llm"
)

// lists registered providers with their models and availability, so a
// client can populate a model picker without trial-and-error calls
func Handler(registry *llm.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		all := registry.All()
		infos := make([]Info, 0, len(all))

		for _, p := range all {
			infos = append(infos, Info{
				ID:        p.ID(),
				Name:      p.Name(),
				Models:    p.Models(),
				Available: p.IsAvailable(),
			})
		}

		c.JSON(http.StatusOK, Response{Providers: infos})
	}
}
