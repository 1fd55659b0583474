package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/binsight/footfall-backend-go/internal/geojson"
	"github.com/binsight/footfall-backend-go/internal/models"
	"github.com/binsight/footfall-backend-go/internal/service"
	"github.com/binsight/footfall-backend-go/pkg/response"
)

// SourceHandler handles HTTP requests for footfall sources
type SourceHandler struct {
	analysisService *service.AnalysisService
}

// NewSourceHandler creates a new source handler
func NewSourceHandler(analysisService *service.AnalysisService) *SourceHandler {
	return &SourceHandler{
		analysisService: analysisService,
	}
}

// GetSources handles GET /api/v1/sources. Returns one point collection per
// source type from the latest run.
func (h *SourceHandler) GetSources(c *gin.Context) {
	artifacts := h.analysisService.Artifacts()
	if artifacts == nil {
		response.NotFound(c, "no analysis data available, trigger a run first")
		return
	}

	byType := make(map[models.SourceType][]models.FootfallSource)
	for _, s := range artifacts.Sources {
		byType[s.Type] = append(byType[s.Type], s)
	}

	payload := gin.H{}
	for _, t := range models.SourceTypes {
		payload[string(t)] = geojson.SourceCollection(byType[t])
	}
	response.Success(c, payload)
}
