package models

import (
	"time"

	"github.com/google/uuid"
)

// Member is an organization affiliation of a reporter (foundation, school,
// supplier). Verification is an admin action that stamps who verified and when.
type Member struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"reporter_id"`
	MemberType       string     `gorm:"not null;size:50" json:"member_type"`
	OrganizationName string     `gorm:"not null;size:255" json:"organization_name"`
	OrganizationRole string     `gorm:"size:100" json:"organization_role"`
	AppliedAt        time.Time  `gorm:"not null;autoCreateTime" json:"applied_at"`
	VerifiedAt       *time.Time `json:"verified_at"`
	VerifiedBy       *uuid.UUID `gorm:"type:uuid" json:"verified_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Reporter         Reporter   `gorm:"foreignKey:ReporterID" json:"-"`
}

// MealSchedule is a school feeding schedule managed by admins.
// ScheduleDays encodes weekdays as digits, e.g. "12345" for Mon-Fri.
type MealSchedule struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SchoolName   string    `gorm:"not null;size:255" json:"school_name"`
	ProvinceID   string    `gorm:"not null;size:10;index" json:"province_id"`
	CityID       string    `gorm:"not null;size:10;index" json:"city_id"`
	ScheduleDays string    `gorm:"not null;size:7" json:"schedule_days"`
	StartTime    string    `gorm:"not null;size:5" json:"start_time"`
	EndTime      string    `gorm:"not null;size:5" json:"end_time"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
