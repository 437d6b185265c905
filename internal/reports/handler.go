package reports

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/katto-1204/upd-CROSSCERT/internal/events"
)

// Handler handles HTTP requests for attendance reports
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new reports handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers report routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	reportRoutes := router.Group("/reports")
	{
		reportRoutes.GET("/events/:id/attendance", h.attendance)
		reportRoutes.GET("/events/:id/attendance/export", h.exportAttendance)
	}
}

func (h *Handler) attendance(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	event, rows, err := h.service.AttendanceReport(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event": event,
		"rows":  rows,
	})
}

func (h *Handler) exportAttendance(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	workbook, err := h.service.ExportAttendanceExcel(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-event-%d.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

func (h *Handler) idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, events.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
