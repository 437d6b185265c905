package participants

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository provides persistence for evaluations
type Repository interface {
	CreateEvaluation(ctx context.Context, evaluation *Evaluation) error
	GetEvaluationByRegistration(ctx context.Context, registrationID uint) (*Evaluation, error)
	ListEvaluationsByEvent(ctx context.Context, eventID uint) ([]Evaluation, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed evaluations repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateEvaluation(ctx context.Context, evaluation *Evaluation) error {
	return r.db.WithContext(ctx).Create(evaluation).Error
}

func (r *gormRepository) GetEvaluationByRegistration(ctx context.Context, registrationID uint) (*Evaluation, error) {
	var evaluation Evaluation
	err := r.db.WithContext(ctx).Where("registration_id = ?", registrationID).First(&evaluation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *gormRepository) ListEvaluationsByEvent(ctx context.Context, eventID uint) ([]Evaluation, error) {
	var evaluations []Evaluation
	err := r.db.WithContext(ctx).
		Joins("JOIN event_registrations ON event_registrations.id = evaluations.registration_id").
		Where("event_registrations.event_id = ?", eventID).
		Order("evaluations.submitted_at").
		Find(&evaluations).Error
	return evaluations, err
}
