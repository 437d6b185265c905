package participants

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/katto-1204/upd-CROSSCERT/internal/certificates"
	"github.com/katto-1204/upd-CROSSCERT/internal/events"
)

var (
	// ErrNotCheckedOut indicates an evaluation before a completed checkout
	ErrNotCheckedOut = errors.New("you must check out before submitting an evaluation")
	// ErrNotCheckedIn indicates an evaluation before any check-in
	ErrNotCheckedIn = errors.New("you must check in and check out before submitting an evaluation")
	// ErrAlreadyEvaluated indicates a second evaluation submission
	ErrAlreadyEvaluated = errors.New("evaluation already submitted for this registration")
)

// SubmitEvaluationRequest carries the evaluation form fields
type SubmitEvaluationRequest struct {
	RegistrationID   uint   `json:"registration_id" binding:"required"`
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	YearLevel        string `json:"year_level"`
	ContentRating    int    `json:"content_rating" binding:"required,min=1,max=5"`
	InstructorRating int    `json:"instructor_rating" binding:"required,min=1,max=5"`
	FacilitiesRating int    `json:"facilities_rating" binding:"required,min=1,max=5"`
	OverallRating    int    `json:"overall_rating" binding:"required,min=1,max=5"`
	Feedback         string `json:"feedback"`
}

// Service handles evaluation submissions. Accepting an evaluation is the
// trigger for certificate issuance.
type Service struct {
	repo         Repository
	eventsRepo   events.Repository
	certificates *certificates.Service
	logger       *zap.Logger
}

// NewService creates a participants service
func NewService(repo Repository, eventsRepo events.Repository, certSvc *certificates.Service, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		eventsRepo:   eventsRepo,
		certificates: certSvc,
		logger:       logger,
	}
}

// SubmitEvaluation accepts an evaluation for a registration that has
// completed checkout, then fires certificate issuance. A certificate failure
// does not roll back the accepted evaluation.
func (s *Service) SubmitEvaluation(ctx context.Context, req SubmitEvaluationRequest) (*Evaluation, error) {
	registration, err := s.eventsRepo.GetRegistrationByID(ctx, req.RegistrationID)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, events.ErrRegistrationNotFound
	}

	checkIn, err := s.eventsRepo.GetCheckInByRegistration(ctx, req.RegistrationID)
	if err != nil {
		return nil, err
	}
	if checkIn == nil {
		return nil, ErrNotCheckedIn
	}
	if checkIn.CheckedOutAt == nil {
		return nil, ErrNotCheckedOut
	}

	evaluation := &Evaluation{
		RegistrationID:   req.RegistrationID,
		Name:             req.Name,
		Email:            req.Email,
		YearLevel:        req.YearLevel,
		ContentRating:    req.ContentRating,
		InstructorRating: req.InstructorRating,
		FacilitiesRating: req.FacilitiesRating,
		OverallRating:    req.OverallRating,
		Feedback:         req.Feedback,
	}
	if err := s.repo.CreateEvaluation(ctx, evaluation); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEvaluated
		}
		return nil, err
	}

	if _, err := s.certificates.TryIssue(ctx, req.RegistrationID); err != nil {
		s.logger.Error("Certificate issuance after evaluation failed",
			zap.Uint("registration_id", req.RegistrationID),
			zap.Error(err))
	}

	return evaluation, nil
}

// GetEvaluation fetches the evaluation for a registration, nil when none
// exists.
func (s *Service) GetEvaluation(ctx context.Context, registrationID uint) (*Evaluation, error) {
	return s.repo.GetEvaluationByRegistration(ctx, registrationID)
}

// ListEvaluations lists all evaluations submitted for an event
func (s *Service) ListEvaluations(ctx context.Context, eventID uint) ([]Evaluation, error) {
	return s.repo.ListEvaluationsByEvent(ctx, eventID)
}
