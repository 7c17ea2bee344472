package handler

import (
	"net/http"
	"strconv"
	"time"

	"orderdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the read-only order reports
type ReportHandler struct {
	service service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// Monthly returns statistics for ?year=&month=, defaulting to the current UTC month.
func (h *ReportHandler) Monthly(c *gin.Context) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if yearParam := c.Query("year"); yearParam != "" {
		y, err := strconv.Atoi(yearParam)
		if err != nil {
			badRequest(c, "Invalid year format")
			return
		}
		year = y
	}
	if monthParam := c.Query("month"); monthParam != "" {
		m, err := strconv.Atoi(monthParam)
		if err != nil {
			badRequest(c, "Invalid month format")
			return
		}
		month = m
	}

	stats, err := h.service.Monthly(c.Request.Context(), year, time.Month(month))
	if err != nil {
		respondError(c, err, "Failed to retrieve monthly statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) Calendar(c *gin.Context) {
	marks, err := h.service.Calendar(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve calendar")
		return
	}
	c.JSON(http.StatusOK, marks)
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	role, err := getAuthUserRole(c)
	if err != nil {
		abortJSON(c, http.StatusUnauthorized, CodeUnauthorized, err.Error())
		return
	}

	d, err := h.service.Dashboard(c.Request.Context(), role)
	if err != nil {
		respondError(c, err, "Failed to retrieve dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

// RegisterReportRoutes registers report routes behind authentication
func (h *ReportHandler) RegisterReportRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	reports := rg.Group("/reports")
	reports.Use(authMW)
	{
		reports.GET("/monthly", h.Monthly)
		reports.GET("/calendar", h.Calendar)
		reports.GET("/dashboard", h.Dashboard)
	}
}
