package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/katto-1204/upd-CROSSCERT/internal/notifications"
	"github.com/katto-1204/upd-CROSSCERT/pkg/workflows"
)

var (
	// ErrEventNotFound indicates the event does not exist
	ErrEventNotFound = errors.New("event not found")
	// ErrRegistrationNotFound indicates the registration does not exist
	ErrRegistrationNotFound = errors.New("registration not found")
	// ErrAlreadyRegistered indicates the email already holds a registration
	// for the event
	ErrAlreadyRegistered = errors.New("email already registered for this event")
	// ErrAlreadyCheckedIn indicates a second check-in attempt
	ErrAlreadyCheckedIn = errors.New("participant already checked in")
	// ErrNotCheckedIn indicates an operation requiring a prior check-in
	ErrNotCheckedIn = errors.New("participant has not checked in")
	// ErrAlreadyCheckedOut indicates a second check-out attempt
	ErrAlreadyCheckedOut = errors.New("participant already checked out")
)

// RegisterRequest carries the participant details for a new registration
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name"`
	Affiliation string `json:"affiliation"`
}

// Service provides event, registration, and attendance business logic
type Service struct {
	repo            Repository
	notifier        *notifications.Service
	machine         *workflows.StateMachine
	logger          *zap.Logger
	frontendBaseURL string
}

// NewService creates an events service
func NewService(repo Repository, notifier *notifications.Service, logger *zap.Logger, frontendBaseURL string) *Service {
	return &Service{
		repo:            repo,
		notifier:        notifier,
		machine:         workflows.NewStateMachine(),
		logger:          logger,
		frontendBaseURL: frontendBaseURL,
	}
}

// CreateEvent persists a new event, derives its code prefix and registration
// link, and notifies the organizer.
func (s *Service) CreateEvent(ctx context.Context, event *Event) error {
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return err
	}

	event.CodePrefix = CodePrefix(event.Title)
	event.RegistrationURL = fmt.Sprintf("%s/event/%d", s.frontendBaseURL, event.ID)
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return err
	}

	s.notifier.SendEventCreated(ctx, event.Title, event.Date.Format("January 02, 2006"), event.OrganizerEmail)
	return nil
}

// GetEvent fetches a single event
func (s *Service) GetEvent(ctx context.Context, id uint) (*Event, error) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents lists events, optionally filtered by status
func (s *Service) ListEvents(ctx context.Context, status *EventStatus) ([]Event, error) {
	return s.repo.ListEvents(ctx, status)
}

// UpdateEvent saves event changes. The code prefix is never recomputed: once
// assigned it stays stable even if the title changes.
func (s *Service) UpdateEvent(ctx context.Context, event *Event) error {
	existing, err := s.repo.GetEventByID(ctx, event.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEventNotFound
	}
	event.CodePrefix = existing.CodePrefix
	return s.repo.UpdateEvent(ctx, event)
}

// DeleteEvent removes an event
func (s *Service) DeleteEvent(ctx context.Context, id uint) error {
	return s.repo.DeleteEvent(ctx, id)
}

// EnsureCodePrefix returns the event's cached code prefix, deriving and
// persisting it on first use.
func (s *Service) EnsureCodePrefix(ctx context.Context, event *Event) (string, error) {
	if event.CodePrefix != "" {
		return event.CodePrefix, nil
	}
	event.CodePrefix = CodePrefix(event.Title)
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return "", err
	}
	return event.CodePrefix, nil
}

// Register creates a registration for an event, assigns the participant code
// value, and sends the confirmation email.
func (s *Service) Register(ctx context.Context, eventID uint, req RegisterRequest) (*EventRegistration, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	registration := &EventRegistration{
		EventID:     eventID,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Affiliation: req.Affiliation,
	}
	if err := s.repo.CreateRegistration(ctx, registration); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	prefix, err := s.EnsureCodePrefix(ctx, event)
	if err != nil {
		return nil, err
	}
	registration.CodeValue = ParticipantCode(prefix, registration.ID)
	if err := s.repo.UpdateRegistration(ctx, registration); err != nil {
		return nil, err
	}

	eventTime := fmt.Sprintf("%s - %s", event.StartTime, event.EndTime)
	s.notifier.SendRegistrationConfirmation(ctx,
		registration.FullName(),
		event.Title,
		event.Date.Format("January 02, 2006"),
		eventTime,
		event.Location,
		registration.Email)

	return registration, nil
}

// GetRegistration fetches a registration by id
func (s *Service) GetRegistration(ctx context.Context, id uint) (*EventRegistration, error) {
	registration, err := s.repo.GetRegistrationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, ErrRegistrationNotFound
	}
	return registration, nil
}

// ListRegistrations lists all registrations of an event
func (s *Service) ListRegistrations(ctx context.Context, eventID uint) ([]EventRegistration, error) {
	return s.repo.ListRegistrationsByEvent(ctx, eventID)
}

// CheckIn records a participant's check-in by registration id. A repeat call
// is rejected rather than duplicated.
func (s *Service) CheckIn(ctx context.Context, registrationID uint) (*CheckIn, error) {
	registration, err := s.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	return s.checkInRegistration(ctx, registration)
}

// CheckInByCode records a check-in using the participant's scannable code
// value.
func (s *Service) CheckInByCode(ctx context.Context, codeValue string) (*CheckIn, error) {
	registration, err := s.repo.GetRegistrationByCode(ctx, codeValue)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, ErrRegistrationNotFound
	}
	return s.checkInRegistration(ctx, registration)
}

func (s *Service) checkInRegistration(ctx context.Context, registration *EventRegistration) (*CheckIn, error) {
	existing, err := s.repo.GetCheckInByRegistration(ctx, registration.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyCheckedIn
	}

	checkIn := &CheckIn{RegistrationID: registration.ID}
	if err := s.repo.CreateCheckIn(ctx, checkIn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}

	event, err := s.GetEvent(ctx, registration.EventID)
	if err == nil {
		s.notifier.SendAttendanceConfirmation(ctx,
			registration.FullName(),
			event.Title,
			event.Date.Format("January 02, 2006"),
			event.Location,
			registration.Email)
	}

	return checkIn, nil
}

// CheckOutByCode stamps the checkout time for a checked-in participant and
// sends the evaluation-form link.
func (s *Service) CheckOutByCode(ctx context.Context, codeValue string) (*CheckIn, error) {
	registration, err := s.repo.GetRegistrationByCode(ctx, codeValue)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, ErrRegistrationNotFound
	}

	checkIn, err := s.repo.GetCheckInByRegistration(ctx, registration.ID)
	if err != nil {
		return nil, err
	}
	if checkIn == nil {
		return nil, ErrNotCheckedIn
	}
	if !s.machine.CanTransition(stateOf(checkIn), workflows.StateCheckedOut) {
		return nil, ErrAlreadyCheckedOut
	}

	now := time.Now()
	if err := s.repo.SetCheckedOut(ctx, checkIn.ID, now); err != nil {
		return nil, err
	}
	checkIn.CheckedOutAt = &now

	event, err := s.GetEvent(ctx, registration.EventID)
	if err == nil {
		evaluationURL := fmt.Sprintf("%s/participant/event/%d/evaluation", s.frontendBaseURL, event.ID)
		s.notifier.SendPostEventEvaluation(ctx,
			registration.FullName(),
			event.Title,
			evaluationURL,
			registration.Email)
	}

	return checkIn, nil
}

// AttendanceState derives the lifecycle stage of a registration from its
// check-in record.
func (s *Service) AttendanceState(ctx context.Context, registrationID uint) (workflows.RegistrationState, error) {
	checkIn, err := s.repo.GetCheckInByRegistration(ctx, registrationID)
	if err != nil {
		return "", err
	}
	if checkIn == nil {
		return workflows.StateRegistered, nil
	}
	return stateOf(checkIn), nil
}

func stateOf(checkIn *CheckIn) workflows.RegistrationState {
	return workflows.Derive(workflows.Snapshot{
		CheckedIn:  true,
		CheckedOut: checkIn.CheckedOutAt != nil,
	})
}
