package events

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Handler handles HTTP requests for events and attendance
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new events handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers event and attendance routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	eventRoutes := router.Group("/events")
	{
		eventRoutes.POST("", h.createEvent)
		eventRoutes.GET("", h.listEvents)
		eventRoutes.GET("/:id", h.getEvent)
		eventRoutes.PUT("/:id", h.updateEvent)
		eventRoutes.DELETE("/:id", h.deleteEvent)
		eventRoutes.GET("/:id/registrations", h.listRegistrations)
		eventRoutes.POST("/:id/register", h.register)
	}

	checkins := router.Group("/checkins")
	{
		checkins.POST("/check-in", h.checkIn)
		checkins.POST("/check-in-by-code", h.checkInByCode)
		checkins.POST("/check-out-by-code", h.checkOutByCode)
	}
}

// CreateEventRequest carries the fields for a new event
type CreateEventRequest struct {
	Title          string         `json:"title" binding:"required"`
	Description    string         `json:"description"`
	Organizer      string         `json:"organizer" binding:"required"`
	OrganizerEmail string         `json:"organizer_email"`
	Date           string         `json:"date" binding:"required"`
	StartTime      string         `json:"start_time"`
	EndTime        string         `json:"end_time"`
	Location       string         `json:"location"`
	Capacity       int            `json:"capacity"`
	Category       EventCategory  `json:"category"`
	Department     string         `json:"department"`
	Theme          string         `json:"theme"`
	Speakers       datatypes.JSON `json:"speakers"`
	IsPublic       *bool          `json:"is_public"`

	CertificateTemplateImage string         `json:"certificate_template_image"`
	CertificateCoordinates   datatypes.JSON `json:"certificate_coordinates"`
	CertificateSampleText    datatypes.JSON `json:"certificate_sample_text"`
}

func (h *Handler) createEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
		return
	}

	event := &Event{
		Title:                    req.Title,
		Description:              req.Description,
		Organizer:                req.Organizer,
		OrganizerEmail:           req.OrganizerEmail,
		Date:                     date,
		StartTime:                req.StartTime,
		EndTime:                  req.EndTime,
		Location:                 req.Location,
		Capacity:                 req.Capacity,
		Category:                 req.Category,
		Department:               req.Department,
		Theme:                    req.Theme,
		Speakers:                 req.Speakers,
		CertificateTemplateImage: req.CertificateTemplateImage,
		CertificateCoordinates:   req.CertificateCoordinates,
		CertificateSampleText:    req.CertificateSampleText,
	}
	if req.IsPublic != nil {
		event.IsPublic = *req.IsPublic
	} else {
		event.IsPublic = true
	}

	if err := h.service.CreateEvent(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to create event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *Handler) listEvents(c *gin.Context) {
	var status *EventStatus
	if raw := c.Query("status"); raw != "" {
		s := EventStatus(raw)
		status = &s
	}

	eventList, err := h.service.ListEvents(c.Request.Context(), status)
	if err != nil {
		h.logger.Error("Failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, eventList)
}

func (h *Handler) getEvent(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	event, err := h.service.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handler) updateEvent(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var event Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event.ID = id

	if err := h.service.UpdateEvent(c.Request.Context(), &event); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *Handler) deleteEvent(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteEvent(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) listRegistrations(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	registrations, err := h.service.ListRegistrations(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, registrations)
}

func (h *Handler) register(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registration, err := h.service.Register(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registration)
}

type checkInRequest struct {
	RegistrationID uint `json:"registration_id" binding:"required"`
}

func (h *Handler) checkIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, err := h.service.CheckIn(c.Request.Context(), req.RegistrationID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkIn)
}

type codeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) checkInByCode(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, err := h.service.CheckInByCode(c.Request.Context(), req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkIn)
}

func (h *Handler) checkOutByCode(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, err := h.service.CheckOutByCode(c.Request.Context(), req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, checkIn)
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
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrRegistrationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAlreadyRegistered),
		errors.Is(err, ErrAlreadyCheckedIn),
		errors.Is(err, ErrNotCheckedIn),
		errors.Is(err, ErrAlreadyCheckedOut):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
