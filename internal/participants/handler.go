package participants

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/katto-1204/upd-CROSSCERT/internal/events"
)

// Handler handles HTTP requests for evaluations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new participants handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers evaluation routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	evaluations := router.Group("/evaluations")
	{
		evaluations.POST("", h.submitEvaluation)
		evaluations.GET("/registration/:id", h.getEvaluation)
		evaluations.GET("/event/:id", h.listEvaluations)
	}
}

func (h *Handler) submitEvaluation(c *gin.Context) {
	var req SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evaluation, err := h.service.SubmitEvaluation(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, evaluation)
}

func (h *Handler) getEvaluation(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	evaluation, err := h.service.GetEvaluation(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if evaluation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "evaluation not found"})
		return
	}

	c.JSON(http.StatusOK, evaluation)
}

func (h *Handler) listEvaluations(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	evaluations, err := h.service.ListEvaluations(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluations)
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
	case errors.Is(err, events.ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotCheckedIn),
		errors.Is(err, ErrNotCheckedOut),
		errors.Is(err, ErrAlreadyEvaluated):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
