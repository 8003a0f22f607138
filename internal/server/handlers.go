package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/archivist/internal/scp"
)

// Error bodies of the lookup endpoint
const (
	MsgQueryRequired = "Query is required"
	MsgUpstream      = "Internal Server Error or AI service failed."
)

type lookupRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleLookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: MsgQueryRequired})
		return
	}

	result, err := s.answerer.Answer(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, scp.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: MsgQueryRequired})
			return
		}
		s.logger.Error("lookup failed", zap.String("query", req.Query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: MsgUpstream})
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleHealth reports liveness. With ?deep=true it also probes the model
// provider and answers 503 when it is unreachable.
func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{"status": "ok"}

	info, ok := s.answerer.(ProviderInfo)
	if !ok {
		c.JSON(http.StatusOK, body)
		return
	}
	body["provider"] = info.ProviderName()

	if c.Query("deep") != "true" {
		c.JSON(http.StatusOK, body)
		return
	}

	available := info.ProviderAvailable(c.Request.Context())
	body["provider_available"] = available
	if !available {
		body["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
