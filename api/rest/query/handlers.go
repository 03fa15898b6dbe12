package query

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/inlock-ai/ragserver/internal/errors"
	"github.com/inlock-ai/ragserver/internal/logger"
	"github.com/inlock-ai/ragserver/internal/rag"
	"github.com/inlock-ai/ragserver/internal/retriever"
)

// Engine answers a workspace question with a token stream and citations.
type Engine interface {
	Query(ctx context.Context, workspaceID, query, templateID string) (*rag.Response, error)
}

// Handler runs the RAG engine and streams the answer as server-sent
// events: one citations event, then token events as they arrive, then a
// done sentinel. Failures before the first byte are plain JSON errors;
// failures mid-stream become an error event since the status line is
// already gone.
func Handler(engine Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request

		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.ValidationError(c, err)
			return
		}

		resp, err := engine.Query(c.Request.Context(), req.WorkspaceID, req.Query, req.TemplateID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				apperrors.NotFound(c, "workspace")
				return
			}

			apperrors.InternalError(c, "failed to run query", err)

			return
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Status(http.StatusOK)

		citations := resp.Citations
		if citations == nil {
			citations = []retriever.RetrievedChunk{}
		}

		citationsData, err := json.Marshal(citations)
		if err != nil {
			logger.ErrorErr(err, "failed to marshal citations")
			citationsData = []byte("[]")
		}

		c.SSEvent("citations", string(citationsData))
		c.Writer.Flush()

		for event := range resp.Stream {
			if event.Err != nil {
				logger.ErrorErr(event.Err, "completion stream failed",
					"workspaceId", req.WorkspaceID)

				c.SSEvent("error", `{"error":"stream interrupted"}`)
				c.Writer.Flush()

				return
			}

			// JSON-encode so newlines inside a token survive SSE framing
			tokenData, err := json.Marshal(event.Token)
			if err != nil {
				continue
			}

			c.SSEvent("token", string(tokenData))
			c.Writer.Flush()
		}

		c.SSEvent("done", "[DONE]")
		c.Writer.Flush()
	}
}
