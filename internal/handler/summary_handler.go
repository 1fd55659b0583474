package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/binsight/footfall-backend-go/internal/service"
	"github.com/binsight/footfall-backend-go/pkg/response"
)

// SummaryHandler handles HTTP requests for ward and sensor summaries
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// GetWardSummaries handles GET /api/v1/summary/wards
func (h *SummaryHandler) GetWardSummaries(c *gin.Context) {
	response.Success(c, h.summaryService.WardSummaries())
}

// GetSensorSummaries handles GET /api/v1/summary/sensors
func (h *SummaryHandler) GetSensorSummaries(c *gin.Context) {
	response.Success(c, h.summaryService.SensorSummaries())
}
