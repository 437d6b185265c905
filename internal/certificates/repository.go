package certificates

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/katto-1204/upd-CROSSCERT/internal/events"
)

// Repository provides persistence for certificates
type Repository interface {
	Create(ctx context.Context, certificate *Certificate) error
	GetByRegistration(ctx context.Context, registrationID uint) (*Certificate, error)
	ListByEvent(ctx context.Context, eventID uint) ([]Certificate, error)
	UpdateStatus(ctx context.Context, id uint, status CertificateStatus) error

	// EligibleRegistrations returns the registrations of an event holding a
	// completed checkout and an evaluation but no certificate yet.
	EligibleRegistrations(ctx context.Context, eventID uint) ([]events.EventRegistration, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed certificates repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, certificate *Certificate) error {
	return r.db.WithContext(ctx).Create(certificate).Error
}

func (r *gormRepository) GetByRegistration(ctx context.Context, registrationID uint) (*Certificate, error) {
	var certificate Certificate
	err := r.db.WithContext(ctx).Where("registration_id = ?", registrationID).First(&certificate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &certificate, nil
}

func (r *gormRepository) ListByEvent(ctx context.Context, eventID uint) ([]Certificate, error) {
	var certificates []Certificate
	err := r.db.WithContext(ctx).
		Joins("JOIN event_registrations ON event_registrations.id = certificates.registration_id").
		Where("event_registrations.event_id = ?", eventID).
		Find(&certificates).Error
	return certificates, err
}

func (r *gormRepository) UpdateStatus(ctx context.Context, id uint, status CertificateStatus) error {
	return r.db.WithContext(ctx).Model(&Certificate{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *gormRepository) EligibleRegistrations(ctx context.Context, eventID uint) ([]events.EventRegistration, error) {
	var registrations []events.EventRegistration
	err := r.db.WithContext(ctx).
		Model(&events.EventRegistration{}).
		Joins("JOIN check_ins ON check_ins.registration_id = event_registrations.id AND check_ins.checked_out_at IS NOT NULL").
		Joins("JOIN evaluations ON evaluations.registration_id = event_registrations.id").
		Joins("LEFT JOIN certificates ON certificates.registration_id = event_registrations.id").
		Where("event_registrations.event_id = ? AND certificates.id IS NULL", eventID).
		Find(&registrations).Error
	return registrations, err
}
