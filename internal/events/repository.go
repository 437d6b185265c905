package events

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository provides persistence for events, registrations, and check-ins
type Repository interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventByID(ctx context.Context, id uint) (*Event, error)
	ListEvents(ctx context.Context, status *EventStatus) ([]Event, error)
	UpdateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id uint) error

	CreateRegistration(ctx context.Context, registration *EventRegistration) error
	GetRegistrationByID(ctx context.Context, id uint) (*EventRegistration, error)
	GetRegistrationByCode(ctx context.Context, codeValue string) (*EventRegistration, error)
	ListRegistrationsByEvent(ctx context.Context, eventID uint) ([]EventRegistration, error)
	UpdateRegistration(ctx context.Context, registration *EventRegistration) error

	CreateCheckIn(ctx context.Context, checkIn *CheckIn) error
	GetCheckInByRegistration(ctx context.Context, registrationID uint) (*CheckIn, error)
	SetCheckedOut(ctx context.Context, checkInID uint, at time.Time) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed events repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateEvent(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *gormRepository) GetEventByID(ctx context.Context, id uint) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *gormRepository) ListEvents(ctx context.Context, status *EventStatus) ([]Event, error) {
	var events []Event
	query := r.db.WithContext(ctx).Order("date DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Find(&events).Error
	return events, err
}

func (r *gormRepository) UpdateEvent(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *gormRepository) DeleteEvent(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Event{}, id).Error
}

func (r *gormRepository) CreateRegistration(ctx context.Context, registration *EventRegistration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r *gormRepository) GetRegistrationByID(ctx context.Context, id uint) (*EventRegistration, error) {
	var registration EventRegistration
	err := r.db.WithContext(ctx).First(&registration, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *gormRepository) GetRegistrationByCode(ctx context.Context, codeValue string) (*EventRegistration, error) {
	var registration EventRegistration
	err := r.db.WithContext(ctx).Where("code_value = ?", codeValue).First(&registration).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *gormRepository) ListRegistrationsByEvent(ctx context.Context, eventID uint) ([]EventRegistration, error) {
	var registrations []EventRegistration
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("registered_at").Find(&registrations).Error
	return registrations, err
}

func (r *gormRepository) UpdateRegistration(ctx context.Context, registration *EventRegistration) error {
	return r.db.WithContext(ctx).Save(registration).Error
}

func (r *gormRepository) CreateCheckIn(ctx context.Context, checkIn *CheckIn) error {
	return r.db.WithContext(ctx).Create(checkIn).Error
}

func (r *gormRepository) GetCheckInByRegistration(ctx context.Context, registrationID uint) (*CheckIn, error) {
	var checkIn CheckIn
	err := r.db.WithContext(ctx).Where("registration_id = ?", registrationID).First(&checkIn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &checkIn, nil
}

func (r *gormRepository) SetCheckedOut(ctx context.Context, checkInID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&CheckIn{}).
		Where("id = ? AND checked_out_at IS NULL", checkInID).
		Update("checked_out_at", at).Error
}
