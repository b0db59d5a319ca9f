package models

import (
	"time"

	"github.com/google/uuid"
)

type Admin struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null;size:255" json:"-"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	AdminRole string    `gorm:"size:50;default:'Validator'" json:"admin_role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminSession mirrors Session for admin principals. Kept as a separate table
// so that revoking one principal kind never touches the other.
type AdminSession struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AdminID   uuid.UUID `gorm:"type:uuid;not null;index" json:"admin_id"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsRevoked bool      `gorm:"not null;default:false" json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
	Admin     Admin     `gorm:"foreignKey:AdminID" json:"-"`
}
