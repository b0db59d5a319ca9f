package models

import (
	"time"

	"github.com/google/uuid"
)

// Report statuses. The transition graph is deliberately fully connected: an
// admin may move a report between any two statuses, and every move is
// recorded in ReportStatusHistory.
const (
	StatusPending       = "pending"
	StatusAnalyzing     = "analyzing"
	StatusNeedsEvidence = "needs_evidence"
	StatusInProgress    = "in_progress"
	StatusResolved      = "resolved"
	StatusInvalid       = "invalid"
)

// Credibility tiers derived from the scoring engine.
const (
	CredibilityHigh   = "high"
	CredibilityMedium = "medium"
	CredibilityLow    = "low"
)

var ReportStatuses = []string{
	StatusPending, StatusAnalyzing, StatusNeedsEvidence,
	StatusInProgress, StatusResolved, StatusInvalid,
}

var ReportCategories = []string{
	"poisoning", "kitchen", "quality", "policy", "implementation", "social",
}

var ReporterRelations = []string{
	"parent", "teacher", "principal", "supplier", "student", "community", "other",
}

func ValidStatus(s string) bool { return contains(ReportStatuses, s) }

func ValidCategory(s string) bool { return contains(ReportCategories, s) }

func ValidRelation(s string) bool { return contains(ReporterRelations, s) }

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}

// Report is a citizen incident report against the meal program.
type Report struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID       uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Category         string    `gorm:"not null;size:50;index" json:"category"`
	Title            string    `gorm:"not null;size:255" json:"title"`
	Description      string    `gorm:"not null;type:text" json:"description"`
	ProvinceID       string    `gorm:"not null;size:10;index" json:"province_id"`
	CityID           string    `gorm:"not null;size:10;index" json:"city_id"`
	DistrictID       string    `gorm:"size:15" json:"district_id,omitempty"`
	Location         string    `gorm:"size:500" json:"location"`
	IncidentDate     time.Time `gorm:"not null" json:"incident_date"`
	Relation         string    `gorm:"not null;size:20" json:"relation"`
	Status           string    `gorm:"not null;default:'pending';size:20;index" json:"status"`
	CredibilityLevel *string   `gorm:"size:10" json:"credibility_level,omitempty"`
	AdminNotes       *string   `gorm:"size:1000" json:"admin_notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Reporter      Reporter              `gorm:"foreignKey:ReporterID" json:"-"`
	Files         []ReportFile          `gorm:"foreignKey:ReportID" json:"files,omitempty"`
	StatusHistory []ReportStatusHistory `gorm:"foreignKey:ReportID" json:"status_history,omitempty"`
}

// ReportFile is a stored attachment. Key is the storage location, URL the
// public address returned by the FileStore.
type ReportFile struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID     uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	Key          string    `gorm:"not null;size:500" json:"-"`
	URL          string    `gorm:"not null;size:500" json:"url"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	MimeType     string    `gorm:"size:100" json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReportStatusHistory is the append-only audit trail of status transitions.
// FromStatus is null only for the first entry of a report.
type ReportStatusHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID   uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	FromStatus *string   `gorm:"size:20" json:"from_status"`
	ToStatus   string    `gorm:"not null;size:20" json:"to_status"`
	Notes      *string   `gorm:"size:1000" json:"notes"`
	ChangedBy  uuid.UUID `gorm:"type:uuid;not null" json:"changed_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ReportStatusHistory) TableName() string {
	return "report_status_history"
}
