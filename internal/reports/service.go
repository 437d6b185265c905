package reports

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/katto-1204/upd-CROSSCERT/internal/certificates"
	"github.com/katto-1204/upd-CROSSCERT/internal/events"
	"github.com/katto-1204/upd-CROSSCERT/internal/participants"
)

// AttendanceRow is one registration's attendance and certification status
type AttendanceRow struct {
	RegistrationID    uint       `json:"registration_id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Affiliation       string     `json:"affiliation"`
	CodeValue         string     `json:"code_value"`
	CheckedInAt       *time.Time `json:"checked_in_at"`
	CheckedOutAt      *time.Time `json:"checked_out_at"`
	Evaluated         bool       `json:"evaluated"`
	CertificateNumber string     `json:"certificate_number"`
	CertificateStatus string     `json:"certificate_status"`
}

// Service assembles attendance reports for an event
type Service struct {
	eventsRepo       events.Repository
	participantsRepo participants.Repository
	certificatesRepo certificates.Repository
	logger           *zap.Logger
}

// NewService creates a reports service
func NewService(eventsRepo events.Repository, participantsRepo participants.Repository, certificatesRepo certificates.Repository, logger *zap.Logger) *Service {
	return &Service{
		eventsRepo:       eventsRepo,
		participantsRepo: participantsRepo,
		certificatesRepo: certificatesRepo,
		logger:           logger,
	}
}

// AttendanceReport collects per-registration attendance, evaluation, and
// certificate status for an event.
func (s *Service) AttendanceReport(ctx context.Context, eventID uint) (*events.Event, []AttendanceRow, error) {
	event, err := s.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if event == nil {
		return nil, nil, events.ErrEventNotFound
	}

	registrations, err := s.eventsRepo.ListRegistrationsByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]AttendanceRow, 0, len(registrations))
	for _, registration := range registrations {
		row := AttendanceRow{
			RegistrationID: registration.ID,
			Name:           registration.FullName(),
			Email:          registration.Email,
			Affiliation:    registration.Affiliation,
			CodeValue:      registration.CodeValue,
		}

		checkIn, err := s.eventsRepo.GetCheckInByRegistration(ctx, registration.ID)
		if err != nil {
			return nil, nil, err
		}
		if checkIn != nil {
			checkedInAt := checkIn.CheckedInAt
			row.CheckedInAt = &checkedInAt
			row.CheckedOutAt = checkIn.CheckedOutAt
		}

		evaluation, err := s.participantsRepo.GetEvaluationByRegistration(ctx, registration.ID)
		if err != nil {
			return nil, nil, err
		}
		row.Evaluated = evaluation != nil

		certificate, err := s.certificatesRepo.GetByRegistration(ctx, registration.ID)
		if err != nil {
			return nil, nil, err
		}
		if certificate != nil {
			row.CertificateNumber = certificate.CertificateNumber
			row.CertificateStatus = string(certificate.Status)
		}

		rows = append(rows, row)
	}

	return event, rows, nil
}

// ExportAttendanceExcel produces the attendance report as an .xlsx workbook
func (s *Service) ExportAttendanceExcel(ctx context.Context, eventID uint) ([]byte, error) {
	event, rows, err := s.AttendanceReport(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return buildAttendanceWorkbook(event, rows)
}
