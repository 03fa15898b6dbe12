package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

type PingResponse struct {
	Message string `json:"message"`
}

// returns the server health status
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status:  "healthy",
		Service: "ragserver",
		Version: "1.0.0",
	})
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{
		Message: "pong",
	})
}
