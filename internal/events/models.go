package events

import (
	"time"

	"gorm.io/datatypes"
)

// EventStatus represents the publishing state of an event
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusScheduled EventStatus = "scheduled"
	StatusLive      EventStatus = "live"
	StatusCompleted EventStatus = "completed"
)

// EventCategory classifies who an event is for
type EventCategory string

const (
	CategoryInstitution EventCategory = "institution"
	CategoryDepartment  EventCategory = "department"
	CategoryOutside     EventCategory = "outside"
)

// Event represents a seminar or workshop participants register for
type Event struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `json:"description"`
	Organizer       string         `gorm:"not null" json:"organizer"`
	OrganizerEmail  string         `json:"organizer_email"`
	Date            time.Time      `gorm:"not null" json:"date"`
	StartTime       string         `json:"start_time"`
	EndTime         string         `json:"end_time"`
	Location        string         `json:"location"`
	Capacity        int            `gorm:"default:50" json:"capacity"`
	Status          EventStatus    `gorm:"not null;default:'draft'" json:"status"`
	Category        EventCategory  `gorm:"default:'institution'" json:"category"`
	Department      string         `json:"department"`
	Theme           string         `gorm:"default:'Professional Blue'" json:"theme"`
	Speakers        datatypes.JSON `gorm:"type:jsonb" json:"speakers"`
	IsPublic        bool           `gorm:"default:true" json:"is_public"`
	RequireApproval bool           `gorm:"default:false" json:"require_approval"`
	CodePrefix      string         `gorm:"size:16" json:"code_prefix"`
	RegistrationURL string         `json:"registration_url"`

	// Certificate layout configuration consumed verbatim by the renderer.
	CertificateTemplateImage string         `gorm:"type:text" json:"certificate_template_image"`
	CertificateCoordinates   datatypes.JSON `gorm:"type:jsonb" json:"certificate_coordinates"`
	CertificateSampleText    datatypes.JSON `gorm:"type:jsonb" json:"certificate_sample_text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventRegistration ties a participant to an event
type EventRegistration struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventID      uint      `gorm:"not null;uniqueIndex:idx_event_email" json:"event_id"`
	Email        string    `gorm:"not null;uniqueIndex:idx_event_email" json:"email"`
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `gorm:"not null" json:"last_name"`
	Affiliation  string    `json:"affiliation"`
	CodeValue    string    `gorm:"size:64;uniqueIndex" json:"code_value"`
	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`
	Event        Event     `gorm:"foreignKey:EventID" json:"-"`
}

// FullName returns the participant display name
func (r *EventRegistration) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// CheckIn records attendance for a registration. CheckedOutAt is stamped
// exactly once.
type CheckIn struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	RegistrationID uint              `gorm:"not null;uniqueIndex" json:"registration_id"`
	CheckedInAt    time.Time         `gorm:"autoCreateTime" json:"checked_in_at"`
	CheckedOutAt   *time.Time        `json:"checked_out_at"`
	Registration   EventRegistration `gorm:"foreignKey:RegistrationID" json:"-"`
}
