package participants

import (
	"time"

	"github.com/katto-1204/upd-CROSSCERT/internal/events"
)

// Evaluation is a participant's post-event feedback. One per registration,
// accepted only after a completed checkout.
type Evaluation struct {
	ID               uint                     `gorm:"primaryKey" json:"id"`
	RegistrationID   uint                     `gorm:"not null;uniqueIndex" json:"registration_id"`
	Name             string                   `gorm:"not null" json:"name"`
	Email            string                   `gorm:"not null" json:"email"`
	YearLevel        string                   `json:"year_level"`
	ContentRating    int                      `gorm:"not null" json:"content_rating"`
	InstructorRating int                      `gorm:"not null" json:"instructor_rating"`
	FacilitiesRating int                      `gorm:"not null" json:"facilities_rating"`
	OverallRating    int                      `gorm:"not null" json:"overall_rating"`
	Feedback         string                   `gorm:"type:text" json:"feedback"`
	SubmittedAt      time.Time                `gorm:"autoCreateTime" json:"submitted_at"`
	Registration     events.EventRegistration `gorm:"foreignKey:RegistrationID" json:"-"`
}
