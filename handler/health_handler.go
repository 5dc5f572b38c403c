package handler

import (
	"context"
	"net/http"

	"github.com/studyforge/backend/models"

	"github.com/gin-gonic/gin"
)

// StatusCounter reports how many library items sit in a given status.
type StatusCounter interface {
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type HealthHandler struct {
	counter StatusCounter
}

func NewHealthHandler(counter StatusCounter) *HealthHandler {
	return &HealthHandler{counter: counter}
}

// Health reports liveness plus the current processing backlog. A failing
// count means the database is unreachable, which is worth surfacing here.
// GET /healthz
func (h *HealthHandler) Health(c *gin.Context) {
	processing, err := h.counter.CountByStatus(c.Request.Context(), models.StatusProcessing)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "processing": processing})
}
