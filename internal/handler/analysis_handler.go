package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/binsight/footfall-backend-go/internal/service"
	"github.com/binsight/footfall-backend-go/pkg/response"
)

// AnalysisHandler handles HTTP requests for the analysis job
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// TriggerRun handles POST /api/v1/analysis/run
func (h *AnalysisHandler) TriggerRun(c *gin.Context) {
	runID, started := h.analysisService.TriggerRun()
	if !started {
		response.Conflict(c, "analysis already running")
		return
	}
	response.Success(c, gin.H{"run_id": runID})
}

// GetStatus handles GET /api/v1/analysis/status
func (h *AnalysisHandler) GetStatus(c *gin.Context) {
	response.Success(c, h.analysisService.Status())
}
