package certificates

import "time"

// CertificateStatus tracks delivery progress of a certificate
type CertificateStatus string

const (
	StatusPending   CertificateStatus = "pending"
	StatusGenerated CertificateStatus = "generated"
	StatusSent      CertificateStatus = "sent"
)

// Certificate is the issued certificate for a registration. The relation to
// a registration is one-to-one and immutable once created.
type Certificate struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	RegistrationID    uint              `gorm:"not null;uniqueIndex" json:"registration_id"`
	CertificateNumber string            `gorm:"size:50;not null;uniqueIndex" json:"certificate_number"`
	IssueDate         time.Time         `json:"issue_date"`
	Status            CertificateStatus `gorm:"not null;default:'pending'" json:"status"`
	EncodedPDF        string            `gorm:"type:text" json:"encoded_pdf"`
	CreatedAt         time.Time         `json:"created_at"`
}

// IssueOutcome is one successful issuance from a batch run
type IssueOutcome struct {
	RegistrationID uint         `json:"registration_id"`
	Certificate    *Certificate `json:"certificate"`
}
