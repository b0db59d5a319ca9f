package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateStatusRequest struct {
	Status           string  `json:"status"`
	CredibilityLevel *string `json:"credibilityLevel,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

type BulkStatusRequest struct {
	ReportIDs []uuid.UUID `json:"reportIds"`
	Status    string      `json:"status"`
	Notes     *string     `json:"notes,omitempty"`
}

type BulkStatusResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

type UpdateAdminRequest struct {
	Name      *string `json:"name,omitempty"`
	AdminRole *string `json:"adminRole,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

type MemberStatusRequest struct {
	IsVerified bool `json:"isVerified"`
}

type ScheduleRequest struct {
	SchoolName   string `json:"schoolName"`
	ProvinceID   string `json:"provinceId"`
	CityID       string `json:"cityId"`
	ScheduleDays string `json:"scheduleDays"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

type StatusHistoryResponse struct {
	ID         uuid.UUID `json:"id"`
	FromStatus *string   `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Notes      *string   `json:"notes"`
	ChangedBy  uuid.UUID `json:"changedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AdminReportsQuery struct {
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
	Status     string `query:"status"`
	Category   string `query:"category"`
	ProvinceID string `query:"provinceId"`
	CityID     string `query:"cityId"`
	StartDate  string `query:"startDate"`
	EndDate    string `query:"endDate"`
	Search     string `query:"search"`
}
