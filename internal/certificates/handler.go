package certificates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/katto-1204/upd-CROSSCERT/internal/events"
)

// Handler handles HTTP requests for certificates
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new certificates handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers certificate routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	certs := router.Group("/certificates")
	{
		certs.GET("/registration/:id", h.getByRegistration)
		certs.GET("/event/:id", h.listByEvent)
		certs.POST("/event/:id/issue", h.issueForEvent)
		certs.GET("/event/:id/preview", h.preview)
		certs.POST("/registration/:id/issue", h.issue)
		certs.POST("/registration/:id/resend", h.resend)
	}
}

func (h *Handler) getByRegistration(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	certificate, err := h.service.GetByRegistration(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, certificate)
}

func (h *Handler) listByEvent(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	certificateList, err := h.service.ListByEvent(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, certificateList)
}

func (h *Handler) issue(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	certificate, err := h.service.TryIssue(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, certificate)
}

func (h *Handler) issueForEvent(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	outcomes, err := h.service.IssueForEvent(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issued":   len(outcomes),
		"outcomes": outcomes,
	})
}

func (h *Handler) preview(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	doc, err := h.service.Preview(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"encoded_pdf": doc.Encoded})
}

func (h *Handler) resend(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.service.ResendEmail(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(StatusSent)})
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
	switch {
	case errors.Is(err, ErrCertificateNotFound),
		errors.Is(err, events.ErrEventNotFound),
		errors.Is(err, events.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotCheckedIn), errors.Is(err, ErrNotCheckedOut):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNumberConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
