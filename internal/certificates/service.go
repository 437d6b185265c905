package certificates

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/katto-1204/upd-CROSSCERT/internal/events"
	"github.com/katto-1204/upd-CROSSCERT/internal/notifications"
	"github.com/katto-1204/upd-CROSSCERT/pkg/certpdf"
	"github.com/katto-1204/upd-CROSSCERT/pkg/workflows"
)

var (
	// ErrNotCheckedIn indicates issuance was attempted before any check-in
	ErrNotCheckedIn = errors.New("registration has no check-in record")
	// ErrNotCheckedOut indicates issuance was attempted before checkout
	ErrNotCheckedOut = errors.New("registration has not checked out")
	// ErrNumberConflict indicates the certificate number collided twice
	ErrNumberConflict = errors.New("certificate number conflict, retry later")
	// ErrCertificateNotFound indicates no certificate exists yet
	ErrCertificateNotFound = errors.New("certificate not found")
)

// Service is the eligibility gate: it decides when a certificate may be
// created, drives the render engine, and guarantees at most one certificate
// per registration.
type Service struct {
	repo       Repository
	eventsRepo events.Repository
	renderer   *certpdf.Renderer
	notifier   *notifications.Service
	logger     *zap.Logger
}

// NewService creates a certificates service
func NewService(repo Repository, eventsRepo events.Repository, renderer *certpdf.Renderer, notifier *notifications.Service, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		eventsRepo: eventsRepo,
		renderer:   renderer,
		notifier:   notifier,
		logger:     logger,
	}
}

// TryIssue issues a certificate for the registration if it is eligible.
// Calling it again for the same registration returns the existing record
// unchanged.
func (s *Service) TryIssue(ctx context.Context, registrationID uint) (*Certificate, error) {
	registration, err := s.eventsRepo.GetRegistrationByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, events.ErrRegistrationNotFound
	}

	checkIn, err := s.eventsRepo.GetCheckInByRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	state := workflows.Derive(workflows.Snapshot{
		CheckedIn:  checkIn != nil,
		CheckedOut: checkIn != nil && checkIn.CheckedOutAt != nil,
	})
	switch state {
	case workflows.StateRegistered:
		return nil, ErrNotCheckedIn
	case workflows.StateCheckedIn:
		return nil, ErrNotCheckedOut
	}

	existing, err := s.repo.GetByRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	event, err := s.eventsRepo.GetEventByID(ctx, registration.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, events.ErrEventNotFound
	}

	doc, err := s.renderer.Render(s.buildRenderRequest(registration, event))
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}

	certificate := &Certificate{
		RegistrationID:    registrationID,
		CertificateNumber: mintNumber(event.ID),
		IssueDate:         time.Now(),
		Status:            StatusGenerated,
		EncodedPDF:        doc.Encoded,
	}
	if err := s.insertWithRetry(ctx, certificate, event.ID); err != nil {
		if errors.Is(err, errAlreadyIssued) {
			return s.repo.GetByRegistration(ctx, registrationID)
		}
		return nil, err
	}

	s.notifier.SendCertificate(ctx,
		registration.FullName(),
		event.Title,
		event.Date.Format("January 02, 2006"),
		certificate.CertificateNumber,
		registration.Email,
		doc.PDF)

	return certificate, nil
}

// errAlreadyIssued signals a duplicate-key insert on the registration
// relation; the caller fetches and returns the winner.
var errAlreadyIssued = errors.New("certificate already issued")

// insertWithRetry persists the certificate. A duplicate key on the
// registration relation means another caller already issued; a duplicate
// certificate number gets regenerated once.
func (s *Service) insertWithRetry(ctx context.Context, certificate *Certificate, eventID uint) error {
	err := s.repo.Create(ctx, certificate)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	winner, getErr := s.repo.GetByRegistration(ctx, certificate.RegistrationID)
	if getErr != nil {
		return getErr
	}
	if winner != nil {
		return errAlreadyIssued
	}

	// The conflict was on the certificate number. Mint a fresh one and try
	// once more.
	certificate.CertificateNumber = mintNumber(eventID)
	err = s.repo.Create(ctx, certificate)
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		winner, getErr = s.repo.GetByRegistration(ctx, certificate.RegistrationID)
		if getErr == nil && winner != nil {
			return errAlreadyIssued
		}
		return ErrNumberConflict
	}
	return err
}

// IssueForEvent attempts issuance for every eligible registration of an
// event. Registrations are processed independently: a failure is logged and
// skipped, never aborting the batch.
func (s *Service) IssueForEvent(ctx context.Context, eventID uint) ([]IssueOutcome, error) {
	registrations, err := s.repo.EligibleRegistrations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]IssueOutcome, 0, len(registrations))
	for _, registration := range registrations {
		certificate, err := s.TryIssue(ctx, registration.ID)
		if err != nil {
			s.logger.Warn("Certificate issuance failed",
				zap.Uint("registration_id", registration.ID),
				zap.String("email", registration.Email),
				zap.Error(err))
			continue
		}
		outcomes = append(outcomes, IssueOutcome{
			RegistrationID: registration.ID,
			Certificate:    certificate,
		})
	}
	return outcomes, nil
}

// GetByRegistration fetches the certificate for a registration
func (s *Service) GetByRegistration(ctx context.Context, registrationID uint) (*Certificate, error) {
	certificate, err := s.repo.GetByRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if certificate == nil {
		return nil, ErrCertificateNotFound
	}
	return certificate, nil
}

// ListByEvent lists all certificates issued for an event
func (s *Service) ListByEvent(ctx context.Context, eventID uint) ([]Certificate, error) {
	return s.repo.ListByEvent(ctx, eventID)
}

// Preview renders a sample certificate for an event using its stored layout
// and sample text, without a registration.
func (s *Service) Preview(ctx context.Context, eventID uint) (*certpdf.RenderedDocument, error) {
	event, err := s.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, events.ErrEventNotFound
	}
	return s.renderer.Render(certpdf.RenderRequest{
		Event: certpdf.Event{
			Title:     event.Title,
			Date:      event.Date.Format("January 02, 2006"),
			Organizer: event.Organizer,
		},
		TemplateImage: certpdf.DecodeTemplateImage(event.CertificateTemplateImage),
		Positions:     certpdf.ParseFieldPositions(event.CertificateCoordinates),
		Overrides:     certpdf.ParseTextOverrides(event.CertificateSampleText),
	})
}

// ResendEmail re-sends the certificate email and marks the record sent.
func (s *Service) ResendEmail(ctx context.Context, registrationID uint) error {
	certificate, err := s.GetByRegistration(ctx, registrationID)
	if err != nil {
		return err
	}
	registration, err := s.eventsRepo.GetRegistrationByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if registration == nil {
		return events.ErrRegistrationNotFound
	}
	event, err := s.eventsRepo.GetEventByID(ctx, registration.EventID)
	if err != nil {
		return err
	}
	if event == nil {
		return events.ErrEventNotFound
	}

	pdf, err := base64.StdEncoding.DecodeString(certificate.EncodedPDF)
	if err != nil {
		return fmt.Errorf("stored certificate payload is corrupt: %w", err)
	}

	s.notifier.SendCertificate(ctx,
		registration.FullName(),
		event.Title,
		event.Date.Format("January 02, 2006"),
		certificate.CertificateNumber,
		registration.Email,
		pdf)

	return s.repo.UpdateStatus(ctx, certificate.ID, StatusSent)
}

func (s *Service) buildRenderRequest(registration *events.EventRegistration, event *events.Event) certpdf.RenderRequest {
	return certpdf.RenderRequest{
		Participant: certpdf.Participant{
			Name:        registration.FullName(),
			Affiliation: registration.Affiliation,
		},
		Event: certpdf.Event{
			Title:     event.Title,
			Date:      event.Date.Format("January 02, 2006"),
			Organizer: event.Organizer,
		},
		TemplateImage: certpdf.DecodeTemplateImage(event.CertificateTemplateImage),
		Positions:     certpdf.ParseFieldPositions(event.CertificateCoordinates),
		Overrides:     certpdf.ParseTextOverrides(event.CertificateSampleText),
	}
}

// mintNumber builds a certificate number like CERT-12-9F3A61B0.
func mintNumber(eventID uint) string {
	token := uuid.New()
	return fmt.Sprintf("CERT-%d-%s", eventID, strings.ToUpper(hex.EncodeToString(token[:4])))
}
