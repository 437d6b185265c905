package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/katto-1204/upd-CROSSCERT/internal/notifications"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateEvent(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRepository) GetEventByID(ctx context.Context, id uint) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockRepository) ListEvents(ctx context.Context, status *EventStatus) ([]Event, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]Event), args.Error(1)
}

func (m *MockRepository) UpdateEvent(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockRepository) DeleteEvent(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CreateRegistration(ctx context.Context, registration *EventRegistration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRepository) GetRegistrationByID(ctx context.Context, id uint) (*EventRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*EventRegistration), args.Error(1)
}

func (m *MockRepository) GetRegistrationByCode(ctx context.Context, codeValue string) (*EventRegistration, error) {
	args := m.Called(ctx, codeValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*EventRegistration), args.Error(1)
}

func (m *MockRepository) ListRegistrationsByEvent(ctx context.Context, eventID uint) ([]EventRegistration, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]EventRegistration), args.Error(1)
}

func (m *MockRepository) UpdateRegistration(ctx context.Context, registration *EventRegistration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRepository) CreateCheckIn(ctx context.Context, checkIn *CheckIn) error {
	args := m.Called(ctx, checkIn)
	return args.Error(0)
}

func (m *MockRepository) GetCheckInByRegistration(ctx context.Context, registrationID uint) (*CheckIn, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckIn), args.Error(1)
}

func (m *MockRepository) SetCheckedOut(ctx context.Context, checkInID uint, at time.Time) error {
	args := m.Called(ctx, checkInID, at)
	return args.Error(0)
}

func newTestService(repo Repository) *Service {
	logger := zap.NewNop()
	notifier := notifications.NewService(notifications.NewLogMailer(logger), logger)
	return NewService(repo, notifier, logger, "http://localhost:3000")
}

func sampleEvent() *Event {
	return &Event{
		ID:         1,
		Title:      "Research Colloquium 2025",
		Organizer:  "Office of Research",
		Date:       time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
		EndTime:    "17:00",
		Location:   "Main Auditorium",
		Status:     StatusScheduled,
		CodePrefix: "RC2",
	}
}

func TestCreateEvent(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	event := sampleEvent()
	event.ID = 0
	event.CodePrefix = ""

	mockRepo.On("CreateEvent", ctx, event).Run(func(args mock.Arguments) {
		args.Get(1).(*Event).ID = 9
	}).Return(nil)
	mockRepo.On("UpdateEvent", ctx, event).Return(nil)

	err := service.CreateEvent(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, "RC2", event.CodePrefix)
	assert.Equal(t, "http://localhost:3000/event/9", event.RegistrationURL)
	mockRepo.AssertExpectations(t)
}

func TestUpdateEventKeepsCodePrefix(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	existing := sampleEvent()
	updated := sampleEvent()
	updated.Title = "Renamed Colloquium"
	updated.CodePrefix = ""

	mockRepo.On("GetEventByID", ctx, uint(1)).Return(existing, nil)
	mockRepo.On("UpdateEvent", ctx, mock.MatchedBy(func(e *Event) bool {
		return e.CodePrefix == "RC2"
	})).Return(nil)

	err := service.UpdateEvent(ctx, updated)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRegisterAssignsCodeValue(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetEventByID", ctx, uint(1)).Return(sampleEvent(), nil)
	mockRepo.On("CreateRegistration", ctx, mock.AnythingOfType("*events.EventRegistration")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*EventRegistration).ID = 42
		}).Return(nil)
	mockRepo.On("UpdateRegistration", ctx, mock.AnythingOfType("*events.EventRegistration")).Return(nil)

	registration, err := service.Register(ctx, 1, RegisterRequest{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	require.NoError(t, err)
	assert.Equal(t, "RC2-000042", registration.CodeValue)
	assert.Equal(t, "Jane Doe", registration.FullName())
	mockRepo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetEventByID", ctx, uint(1)).Return(sampleEvent(), nil)
	mockRepo.On("CreateRegistration", ctx, mock.AnythingOfType("*events.EventRegistration")).
		Return(gorm.ErrDuplicatedKey)

	_, err := service.Register(ctx, 1, RegisterRequest{
		Email:     "jane@example.com",
		FirstName: "Jane",
	})

	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestCheckInRejectsRepeat(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	registration := &EventRegistration{ID: 42, EventID: 1, Email: "jane@example.com", FirstName: "Jane"}
	mockRepo.On("GetRegistrationByID", ctx, uint(42)).Return(registration, nil)
	mockRepo.On("GetCheckInByRegistration", ctx, uint(42)).Return(&CheckIn{ID: 5, RegistrationID: 42}, nil)

	_, err := service.CheckIn(ctx, 42)

	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestCheckInByCode(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	registration := &EventRegistration{ID: 42, EventID: 1, Email: "jane@example.com", FirstName: "Jane"}
	mockRepo.On("GetRegistrationByCode", ctx, "RC2-000042").Return(registration, nil)
	mockRepo.On("GetCheckInByRegistration", ctx, uint(42)).Return(nil, nil)
	mockRepo.On("CreateCheckIn", ctx, mock.AnythingOfType("*events.CheckIn")).Return(nil)
	mockRepo.On("GetEventByID", ctx, uint(1)).Return(sampleEvent(), nil)

	checkIn, err := service.CheckInByCode(ctx, "RC2-000042")

	require.NoError(t, err)
	assert.Equal(t, uint(42), checkIn.RegistrationID)
	mockRepo.AssertExpectations(t)
}

func TestCheckOutRequiresCheckIn(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	registration := &EventRegistration{ID: 42, EventID: 1, Email: "jane@example.com", FirstName: "Jane"}
	mockRepo.On("GetRegistrationByCode", ctx, "RC2-000042").Return(registration, nil)
	mockRepo.On("GetCheckInByRegistration", ctx, uint(42)).Return(nil, nil)

	_, err := service.CheckOutByCode(ctx, "RC2-000042")

	assert.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestCheckOutRejectsRepeat(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	out := time.Now()
	registration := &EventRegistration{ID: 42, EventID: 1, Email: "jane@example.com", FirstName: "Jane"}
	mockRepo.On("GetRegistrationByCode", ctx, "RC2-000042").Return(registration, nil)
	mockRepo.On("GetCheckInByRegistration", ctx, uint(42)).Return(&CheckIn{ID: 5, RegistrationID: 42, CheckedOutAt: &out}, nil)

	_, err := service.CheckOutByCode(ctx, "RC2-000042")

	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
}

func TestCheckOutStampsTime(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	registration := &EventRegistration{ID: 42, EventID: 1, Email: "jane@example.com", FirstName: "Jane"}
	mockRepo.On("GetRegistrationByCode", ctx, "RC2-000042").Return(registration, nil)
	mockRepo.On("GetCheckInByRegistration", ctx, uint(42)).Return(&CheckIn{ID: 5, RegistrationID: 42}, nil)
	mockRepo.On("SetCheckedOut", ctx, uint(5), mock.AnythingOfType("time.Time")).Return(nil)
	mockRepo.On("GetEventByID", ctx, uint(1)).Return(sampleEvent(), nil)

	checkIn, err := service.CheckOutByCode(ctx, "RC2-000042")

	require.NoError(t, err)
	require.NotNil(t, checkIn.CheckedOutAt)
	mockRepo.AssertExpectations(t)
}
