package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/binsight/footfall-backend-go/internal/geojson"
	"github.com/binsight/footfall-backend-go/internal/models"
	"github.com/binsight/footfall-backend-go/internal/service"
	"github.com/binsight/footfall-backend-go/pkg/response"
)

// GridHandler handles HTTP requests for the analysis grid
type GridHandler struct {
	analysisService *service.AnalysisService
}

// NewGridHandler creates a new grid handler
func NewGridHandler(analysisService *service.AnalysisService) *GridHandler {
	return &GridHandler{
		analysisService: analysisService,
	}
}

// GetGrid handles GET /api/v1/grid. The optional source query parameter
// switches highlight_score to that source's sub-score.
func (h *GridHandler) GetGrid(c *gin.Context) {
	var source models.SourceType
	if raw := c.Query("source"); raw != "" {
		parsed, ok := parseSourceType(raw)
		if !ok {
			response.BadRequest(c, fmt.Sprintf("unknown source type: %s", raw))
			return
		}
		source = parsed
	}

	artifacts := h.analysisService.Artifacts()
	if artifacts == nil {
		response.NotFound(c, "no analysis data available, trigger a run first")
		return
	}

	response.Success(c, gin.H{
		"run_id": artifacts.RunID,
		"bands":  artifacts.Bands,
		"grid":   geojson.CellCollection(artifacts.Cells, source),
	})
}

func parseSourceType(raw string) (models.SourceType, bool) {
	for _, t := range models.SourceTypes {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}
