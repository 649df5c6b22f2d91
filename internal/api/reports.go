package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealtracker/backend/internal/middleware"
	"github.com/pageza/mealtracker/backend/internal/service"
)

// ReportIDHeader carries the id of a freshly saved report.
const ReportIDHeader = "X-Report-ID"

type ReportHandler struct {
	reports service.IReportService
	limiter *middleware.RateLimiter
}

func NewReportHandler(reports service.IReportService, limiter *middleware.RateLimiter) *ReportHandler {
	return &ReportHandler{reports: reports, limiter: limiter}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		generate := []gin.HandlerFunc{h.GenerateReport}
		if h.limiter != nil {
			generate = append([]gin.HandlerFunc{h.limiter.RateLimitMiddleware()}, generate...)
		}
		reports.POST("/generate", generate...)
		reports.GET("", h.ListReports)
		reports.GET("/:id", h.GetReport)
		reports.GET("/:id/export", h.ExportReport)
		reports.DELETE("/:id", h.DeleteReport)
	}
}

// GenerateReport answers with the report content even when it could not be
// saved; the id header is only set for saved reports.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.reports.Generate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Report != nil {
		c.Header(ReportIDHeader, result.Report.ID.String())
	}
	c.JSON(http.StatusOK, result.Content)
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	reports, err := h.reports.List(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	report, err := h.reports.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) DeleteReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.reports.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReportHandler) ExportReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	url, err := h.reports.ExportURL(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":                url,
		"expires_in_seconds": int(service.ExportURLTTL.Seconds()),
	})
}
