package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/binsight/footfall-backend-go/internal/geojson"
	"github.com/binsight/footfall-backend-go/internal/ingest"
	"github.com/binsight/footfall-backend-go/internal/service"
	"github.com/binsight/footfall-backend-go/pkg/response"
)

// BinHandler handles HTTP requests for the bin inventory
type BinHandler struct {
	analysisService *service.AnalysisService
}

// NewBinHandler creates a new bin handler
func NewBinHandler(analysisService *service.AnalysisService) *BinHandler {
	return &BinHandler{
		analysisService: analysisService,
	}
}

// GetBins handles GET /api/v1/bins
func (h *BinHandler) GetBins(c *gin.Context) {
	artifacts := h.analysisService.Artifacts()
	if artifacts == nil {
		response.NotFound(c, "no analysis data available, trigger a run first")
		return
	}
	response.Success(c, geojson.BinCollection(artifacts.Bins, artifacts.Selection))
}

// GetSelectedBins handles GET /api/v1/bins/selected
func (h *BinHandler) GetSelectedBins(c *gin.Context) {
	artifacts := h.analysisService.Artifacts()
	if artifacts == nil {
		response.NotFound(c, "no analysis data available, trigger a run first")
		return
	}
	response.Success(c, gin.H{
		"targets":    artifacts.Selection.Targets,
		"shortfalls": artifacts.Selection.Shortfalls,
		"bins":       geojson.SelectionCollection(artifacts.Bins, artifacts.Selection),
	})
}

// ImportBins handles POST /api/v1/bins/import. Accepts a CSV either as a
// multipart "file" field or as the raw request body. The imported inventory
// takes effect on the next analysis run.
func (h *BinHandler) ImportBins(c *gin.Context) {
	var result *ingest.ImportResult

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			response.BadRequest(c, fmt.Sprintf("failed to open uploaded file: %v", err))
			return
		}
		defer f.Close()
		result, err = ingest.ReadBinsCSV(f)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	} else {
		var err error
		result, err = ingest.ReadBinsCSV(c.Request.Body)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	h.analysisService.SetBinInventory(result.Bins)
	response.Success(c, gin.H{
		"imported": len(result.Bins),
		"skipped":  result.Skipped,
		"note":     "inventory takes effect on the next analysis run",
	})
}
