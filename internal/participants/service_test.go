package participants

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/katto-1204/upd-CROSSCERT/internal/certificates"
	"github.com/katto-1204/upd-CROSSCERT/internal/events"
	"github.com/katto-1204/upd-CROSSCERT/internal/notifications"
	"github.com/katto-1204/upd-CROSSCERT/pkg/certpdf"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateEvaluation(ctx context.Context, evaluation *Evaluation) error {
	args := m.Called(ctx, evaluation)
	return args.Error(0)
}

func (m *MockRepository) GetEvaluationByRegistration(ctx context.Context, registrationID uint) (*Evaluation, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Evaluation), args.Error(1)
}

func (m *MockRepository) ListEvaluationsByEvent(ctx context.Context, eventID uint) ([]Evaluation, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]Evaluation), args.Error(1)
}

// MockEventsRepository is a mock implementation of the events Repository
type MockEventsRepository struct {
	mock.Mock
}

func (m *MockEventsRepository) CreateEvent(ctx context.Context, event *events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventsRepository) GetEventByID(ctx context.Context, id uint) (*events.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.Event), args.Error(1)
}

func (m *MockEventsRepository) ListEvents(ctx context.Context, status *events.EventStatus) ([]events.Event, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]events.Event), args.Error(1)
}

func (m *MockEventsRepository) UpdateEvent(ctx context.Context, event *events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventsRepository) DeleteEvent(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventsRepository) CreateRegistration(ctx context.Context, registration *events.EventRegistration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockEventsRepository) GetRegistrationByID(ctx context.Context, id uint) (*events.EventRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.EventRegistration), args.Error(1)
}

func (m *MockEventsRepository) GetRegistrationByCode(ctx context.Context, codeValue string) (*events.EventRegistration, error) {
	args := m.Called(ctx, codeValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.EventRegistration), args.Error(1)
}

func (m *MockEventsRepository) ListRegistrationsByEvent(ctx context.Context, eventID uint) ([]events.EventRegistration, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]events.EventRegistration), args.Error(1)
}

func (m *MockEventsRepository) UpdateRegistration(ctx context.Context, registration *events.EventRegistration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockEventsRepository) CreateCheckIn(ctx context.Context, checkIn *events.CheckIn) error {
	args := m.Called(ctx, checkIn)
	return args.Error(0)
}

func (m *MockEventsRepository) GetCheckInByRegistration(ctx context.Context, registrationID uint) (*events.CheckIn, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.CheckIn), args.Error(1)
}

func (m *MockEventsRepository) SetCheckedOut(ctx context.Context, checkInID uint, at time.Time) error {
	args := m.Called(ctx, checkInID, at)
	return args.Error(0)
}

// MockCertificatesRepository is a mock implementation of the certificates
// Repository
type MockCertificatesRepository struct {
	mock.Mock
}

func (m *MockCertificatesRepository) Create(ctx context.Context, certificate *certificates.Certificate) error {
	args := m.Called(ctx, certificate)
	return args.Error(0)
}

func (m *MockCertificatesRepository) GetByRegistration(ctx context.Context, registrationID uint) (*certificates.Certificate, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certificates.Certificate), args.Error(1)
}

func (m *MockCertificatesRepository) ListByEvent(ctx context.Context, eventID uint) ([]certificates.Certificate, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]certificates.Certificate), args.Error(1)
}

func (m *MockCertificatesRepository) UpdateStatus(ctx context.Context, id uint, status certificates.CertificateStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCertificatesRepository) EligibleRegistrations(ctx context.Context, eventID uint) ([]events.EventRegistration, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]events.EventRegistration), args.Error(1)
}

func newTestService(repo Repository, eventsRepo events.Repository, certRepo certificates.Repository) *Service {
	logger := zap.NewNop()
	notifier := notifications.NewService(notifications.NewLogMailer(logger), logger)
	renderer := certpdf.NewRenderer(certpdf.DefaultOptions())
	certSvc := certificates.NewService(certRepo, eventsRepo, renderer, notifier, logger)
	return NewService(repo, eventsRepo, certSvc, logger)
}

func sampleRequest() SubmitEvaluationRequest {
	return SubmitEvaluationRequest{
		RegistrationID:   42,
		Name:             "Jane Doe",
		Email:            "jane@example.com",
		ContentRating:    5,
		InstructorRating: 4,
		FacilitiesRating: 4,
		OverallRating:    5,
		Feedback:         "Great session",
	}
}

func TestSubmitEvaluationRequiresCheckIn(t *testing.T) {
	mockRepo := new(MockRepository)
	mockEvents := new(MockEventsRepository)
	mockCerts := new(MockCertificatesRepository)
	service := newTestService(mockRepo, mockEvents, mockCerts)
	ctx := context.Background()

	registration := &events.EventRegistration{ID: 42, EventID: 1, Email: "jane@example.com", FirstName: "Jane"}
	mockEvents.On("GetRegistrationByID", ctx, uint(42)).Return(registration, nil)
	mockEvents.On("GetCheckInByRegistration", ctx, uint(42)).Return(nil, nil)

	_, err := service.SubmitEvaluation(ctx, sampleRequest())

	assert.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestSubmitEvaluationRequiresCheckOut(t *testing.T) {
	mockRepo := new(MockRepository)
	mockEvents := new(MockEventsRepository)
	mockCerts := new(MockCertificatesRepository)
	service := newTestService(mockRepo, mockEvents, mockCerts)
	ctx := context.Background()

	registration := &events.EventRegistration{ID: 42, EventID: 1, Email: "jane@example.com", FirstName: "Jane"}
	mockEvents.On("GetRegistrationByID", ctx, uint(42)).Return(registration, nil)
	mockEvents.On("GetCheckInByRegistration", ctx, uint(42)).Return(&events.CheckIn{ID: 5, RegistrationID: 42}, nil)

	_, err := service.SubmitEvaluation(ctx, sampleRequest())

	assert.ErrorIs(t, err, ErrNotCheckedOut)
}

func TestSubmitEvaluationRejectsDuplicate(t *testing.T) {
	mockRepo := new(MockRepository)
	mockEvents := new(MockEventsRepository)
	mockCerts := new(MockCertificatesRepository)
	service := newTestService(mockRepo, mockEvents, mockCerts)
	ctx := context.Background()

	out := time.Now()
	registration := &events.EventRegistration{ID: 42, EventID: 1, Email: "jane@example.com", FirstName: "Jane"}
	mockEvents.On("GetRegistrationByID", ctx, uint(42)).Return(registration, nil)
	mockEvents.On("GetCheckInByRegistration", ctx, uint(42)).Return(&events.CheckIn{ID: 5, RegistrationID: 42, CheckedOutAt: &out}, nil)
	mockRepo.On("CreateEvaluation", ctx, mock.AnythingOfType("*participants.Evaluation")).Return(gorm.ErrDuplicatedKey)

	_, err := service.SubmitEvaluation(ctx, sampleRequest())

	assert.ErrorIs(t, err, ErrAlreadyEvaluated)
}

func TestSubmitEvaluationTriggersIssuance(t *testing.T) {
	mockRepo := new(MockRepository)
	mockEvents := new(MockEventsRepository)
	mockCerts := new(MockCertificatesRepository)
	service := newTestService(mockRepo, mockEvents, mockCerts)
	ctx := context.Background()

	out := time.Now()
	registration := &events.EventRegistration{ID: 42, EventID: 1, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
	event := &events.Event{ID: 1, Title: "Research Colloquium 2025", Organizer: "Office of Research", Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)}

	mockEvents.On("GetRegistrationByID", ctx, uint(42)).Return(registration, nil)
	mockEvents.On("GetCheckInByRegistration", ctx, uint(42)).Return(&events.CheckIn{ID: 5, RegistrationID: 42, CheckedOutAt: &out}, nil)
	mockRepo.On("CreateEvaluation", ctx, mock.AnythingOfType("*participants.Evaluation")).Return(nil)
	mockCerts.On("GetByRegistration", ctx, uint(42)).Return(nil, nil)
	mockEvents.On("GetEventByID", ctx, uint(1)).Return(event, nil)
	mockCerts.On("Create", ctx, mock.AnythingOfType("*certificates.Certificate")).Return(nil)

	evaluation, err := service.SubmitEvaluation(ctx, sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, uint(42), evaluation.RegistrationID)
	assert.Equal(t, 5, evaluation.OverallRating)
	mockCerts.AssertCalled(t, "Create", ctx, mock.AnythingOfType("*certificates.Certificate"))
}

func TestSubmitEvaluationSurvivesIssuanceFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	mockEvents := new(MockEventsRepository)
	mockCerts := new(MockCertificatesRepository)
	service := newTestService(mockRepo, mockEvents, mockCerts)
	ctx := context.Background()

	out := time.Now()
	registration := &events.EventRegistration{ID: 42, EventID: 1, Email: "jane@example.com", FirstName: "Jane"}
	mockEvents.On("GetRegistrationByID", ctx, uint(42)).Return(registration, nil)
	mockEvents.On("GetCheckInByRegistration", ctx, uint(42)).Return(&events.CheckIn{ID: 5, RegistrationID: 42, CheckedOutAt: &out}, nil)
	mockRepo.On("CreateEvaluation", ctx, mock.AnythingOfType("*participants.Evaluation")).Return(nil)
	mockCerts.On("GetByRegistration", ctx, uint(42)).Return(nil, assert.AnError)

	evaluation, err := service.SubmitEvaluation(ctx, sampleRequest())

	require.NoError(t, err)
	assert.NotNil(t, evaluation)
}
