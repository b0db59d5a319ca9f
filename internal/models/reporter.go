package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reporter is a public citizen account. Password is empty until the two-phase
// registration completes.
type Reporter struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email                string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password             string         `gorm:"size:255" json:"-"`
	Name                 string         `gorm:"not null;size:255" json:"name"`
	Phone                string         `gorm:"size:32" json:"phone"`
	RegistrationComplete bool           `gorm:"not null;default:false" json:"registration_complete"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// Session is a persisted reporter login. Only the SHA-256 hex of the bearer
// token is stored, never the raw token.
type Session struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	TokenHash  string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	IsRevoked  bool      `gorm:"not null;default:false" json:"is_revoked"`
	CreatedAt  time.Time `json:"created_at"`
	Reporter   Reporter  `gorm:"foreignKey:ReporterID" json:"-"`
}
