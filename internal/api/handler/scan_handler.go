package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pbes/hscode-service/internal/api/dto"
	"github.com/pbes/hscode-service/internal/scan"
)

// StartScan handles POST /api/v1/hscode/scan.
// Admission checks run synchronously; an accepted scan returns 202 with a
// job id and the classification proceeds in the background.
func (h *ScanHandler) StartScan(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid scan request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": scan.MsgMissingInput,
		})
		return
	}

	description := strings.TrimSpace(req.Description)
	imageBase64 := scan.NormalizeImageBase64(req.ImageBase64)

	if description == "" && imageBase64 == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": scan.MsgMissingInput,
		})
		return
	}

	if description != "" && !scan.IsGoodsRelated(description) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": scan.MsgNotGoods,
		})
		return
	}

	if description != "" && !scan.IsDescriptionSpecific(description) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": scan.MsgNotSpecific,
		})
		return
	}

	job := h.service.StartScan(req.RequestID, description, imageBase64)

	c.JSON(http.StatusAccepted, dto.ScanAcceptedResponse{
		RequestID: req.RequestID,
		Status:    "accepted",
		JobID:     job.ID,
	})
}

// GetScanStatus handles GET /api/v1/hscode/scan/:job_id.
// An expired job is indistinguishable from one that never existed.
func (h *ScanHandler) GetScanStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	job, ok := h.store.TryGetJob(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Scan job not found.",
		})
		return
	}

	switch job.Status {
	case scan.StatusCompleted:
		c.JSON(http.StatusOK, gin.H{
			"status":    scan.StatusCompleted,
			"requestId": job.RequestID,
			"result":    job.Result,
		})
	case scan.StatusFailed:
		c.JSON(http.StatusOK, gin.H{
			"status":    scan.StatusFailed,
			"requestId": job.RequestID,
			"error":     job.Error,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":    scan.StatusPending,
			"requestId": job.RequestID,
		})
	}
}

// GetRecent handles GET /api/v1/hscode/recent.
// Returns up to 10 recently classified items, most recent first.
func (h *ScanHandler) GetRecent(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Recent())
}
