package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PipelineRunner is the orchestrator surface the trigger endpoint needs.
type PipelineRunner interface {
	Run(ctx context.Context, libraryID uuid.UUID) error
}

type PipelineHandler struct {
	runner PipelineRunner
}

func NewPipelineHandler(runner PipelineRunner) *PipelineHandler {
	return &PipelineHandler{runner: runner}
}

// Process runs the whole pipeline for one library item.
// POST /api/pipeline/process {"libraryId": "<id>"}
//
// Callers only see success or a flattened error message; the error taxonomy
// stays internal.
func (h *PipelineHandler) Process(c *gin.Context) {
	var req struct {
		LibraryID string `json:"libraryId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.LibraryID == "" {
		pipelineError(c, "libraryId is required")
		return
	}

	libraryID, err := uuid.Parse(req.LibraryID)
	if err != nil {
		pipelineError(c, "invalid libraryId")
		return
	}

	if err := h.runner.Run(c.Request.Context(), libraryID); err != nil {
		pipelineError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "libraryId": req.LibraryID})
}

func pipelineError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg})
}
