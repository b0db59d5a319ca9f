package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ampmbg/backend/internal/dto"
	"github.com/ampmbg/backend/internal/models"
	"github.com/ampmbg/backend/internal/scoring"
	"github.com/ampmbg/backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSelfDeactivation = errors.New("cannot deactivate your own account")
	ErrMemberNotFound   = errors.New("member not found")
	ErrScheduleNotFound = errors.New("schedule not found")
)

type AdminService struct {
	db    *gorm.DB
	store storage.FileStore
}

func NewAdminService(db *gorm.DB, store storage.FileStore) *AdminService {
	return &AdminService{db: db, store: store}
}

// UpdateStatus moves a report to a new status and appends the audit entry in
// the same transaction: the report row never changes without its history row.
func (s *AdminService) UpdateStatus(adminID, reportID uuid.UUID, req *dto.UpdateStatusRequest) (*models.Report, error) {
	if !models.ValidStatus(req.Status) {
		return nil, errors.New("invalid status")
	}
	if req.CredibilityLevel != nil {
		switch *req.CredibilityLevel {
		case models.CredibilityHigh, models.CredibilityMedium, models.CredibilityLow:
		default:
			return nil, errors.New("invalid credibility level")
		}
	}

	var report models.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			return ErrReportNotFound
		}

		prior := report.Status
		updates := map[string]interface{}{"status": req.Status}
		if req.CredibilityLevel != nil {
			updates["credibility_level"] = *req.CredibilityLevel
		}
		if req.Notes != nil {
			updates["admin_notes"] = *req.Notes
		}
		if err := tx.Model(&report).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update report: %w", err)
		}

		history := models.ReportStatusHistory{
			ID:         uuid.New(),
			ReportID:   report.ID,
			FromStatus: &prior,
			ToStatus:   req.Status,
			Notes:      req.Notes,
			ChangedBy:  adminID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// BulkUpdateStatus applies UpdateStatus semantics to every id. Unknown ids
// are skipped; the caller learns how many reports actually changed. Zero
// matches is the only failure.
func (s *AdminService) BulkUpdateStatus(adminID uuid.UUID, req *dto.BulkStatusRequest) (int64, error) {
	if !models.ValidStatus(req.Status) {
		return 0, errors.New("invalid status")
	}
	if len(req.ReportIDs) == 0 {
		return 0, errors.New("reportIds is required")
	}

	var updated int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range req.ReportIDs {
			var report models.Report
			if err := tx.First(&report, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("failed to load report: %w", err)
			}

			prior := report.Status
			if err := tx.Model(&report).Update("status", req.Status).Error; err != nil {
				return fmt.Errorf("failed to update report: %w", err)
			}

			history := models.ReportStatusHistory{
				ID:         uuid.New(),
				ReportID:   report.ID,
				FromStatus: &prior,
				ToStatus:   req.Status,
				Notes:      req.Notes,
				ChangedBy:  adminID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("failed to append status history: %w", err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if updated == 0 {
		return 0, ErrReportNotFound
	}
	return updated, nil
}

// DeleteReport removes a report with its files and history in one
// transaction, then clears stored objects (idempotent, failures only logged).
func (s *AdminService) DeleteReport(reportID uuid.UUID) error {
	var files []models.ReportFile

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			return ErrReportNotFound
		}

		if err := tx.Where("report_id = ?", reportID).Find(&files).Error; err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}

		if err := tx.Where("report_id = ?", reportID).Delete(&models.ReportStatusHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete history: %w", err)
		}
		if err := tx.Where("report_id = ?", reportID).Delete(&models.ReportFile{}).Error; err != nil {
			return fmt.Errorf("failed to delete file records: %w", err)
		}
		return tx.Delete(&report).Error
	})
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := s.store.Delete(f.Key); err != nil {
			slog.Error("storage delete failed", "key", f.Key, "error", err)
		}
	}
	return nil
}

// ScoreReport gathers the cross-report signals and runs the credibility
// engine. Nothing is persisted; admins store a tier explicitly via
// UpdateStatus when they accept the suggestion.
func (s *AdminService) ScoreReport(reportID uuid.UUID) (*scoring.Result, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		return nil, ErrReportNotFound
	}

	var fileCount int64
	if err := s.db.Model(&models.ReportFile{}).
		Where("report_id = ?", reportID).Count(&fileCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}

	var priorTotal, priorResolved, priorInvalid int64
	prior := s.db.Model(&models.Report{}).
		Where("reporter_id = ? AND id <> ?", report.ReporterID, report.ID)
	if err := prior.Count(&priorTotal).Error; err != nil {
		return nil, fmt.Errorf("failed to count prior reports: %w", err)
	}
	s.db.Model(&models.Report{}).
		Where("reporter_id = ? AND id <> ? AND status = ?", report.ReporterID, report.ID, models.StatusResolved).
		Count(&priorResolved)
	s.db.Model(&models.Report{}).
		Where("reporter_id = ? AND id <> ? AND status = ?", report.ReporterID, report.ID, models.StatusInvalid).
		Count(&priorInvalid)

	var corroborating int64
	s.db.Model(&models.Report{}).
		Where("id <> ? AND reporter_id <> ? AND city_id = ? AND category = ?",
			report.ID, report.ReporterID, report.CityID, report.Category).
		Where("incident_date BETWEEN ? AND ?",
			report.IncidentDate.Add(-7*24*time.Hour),
			report.IncidentDate.Add(7*24*time.Hour)).
		Count(&corroborating)

	result := scoring.Score(scoring.Input{
		Relation:      report.Relation,
		ProvinceID:    report.ProvinceID,
		CityID:        report.CityID,
		DistrictID:    report.DistrictID,
		Location:      report.Location,
		IncidentDate:  report.IncidentDate,
		SubmittedAt:   report.CreatedAt,
		Description:   report.Description,
		FileCount:     int(fileCount),
		PriorReports:  int(priorTotal),
		PriorResolved: int(priorResolved),
		PriorInvalid:  int(priorInvalid),
		Corroborating: int(corroborating),
	})
	return &result, nil
}

func (s *AdminService) ListReports(q *dto.AdminReportsQuery) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.ProvinceID != "" {
		query = query.Where("province_id = ?", q.ProvinceID)
	}
	if q.CityID != "" {
		query = query.Where("city_id = ?", q.CityID)
	}
	if q.StartDate != "" {
		query = query.Where("incident_date >= ?", q.StartDate)
	}
	if q.EndDate != "" {
		query = query.Where("incident_date <= ?", q.EndDate)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	query.Count(&total)

	if err := query.Preload("Reporter").Order("created_at DESC").
		Limit(q.Limit).Offset((q.Page - 1) * q.Limit).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *AdminService) GetReport(reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.Preload("Reporter").Preload("Files").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&report, "id = ?", reportID).Error; err != nil {
		return nil, ErrReportNotFound
	}
	return &report, nil
}

// GetHistory returns a report's transitions in creation order.
func (s *AdminService) GetHistory(reportID uuid.UUID) ([]models.ReportStatusHistory, error) {
	var report models.Report
	if err := s.db.Select("id").First(&report, "id = ?", reportID).Error; err != nil {
		return nil, ErrReportNotFound
	}

	var history []models.ReportStatusHistory
	if err := s.db.Where("report_id = ?", reportID).
		Order("created_at ASC").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return history, nil
}

// UpdateAdmin edits an admin account. The self-deactivation guard runs
// before any write.
func (s *AdminService) UpdateAdmin(actingAdminID, targetID uuid.UUID, req *dto.UpdateAdminRequest) (*models.Admin, error) {
	if req.IsActive != nil && !*req.IsActive && actingAdminID == targetID {
		return nil, ErrSelfDeactivation
	}

	var admin models.Admin
	if err := s.db.First(&admin, "id = ?", targetID).Error; err != nil {
		return nil, ErrAdminNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.AdminRole != nil {
		updates["admin_role"] = *req.AdminRole
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return &admin, nil
	}

	if err := s.db.Model(&admin).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}
	return &admin, nil
}

func (s *AdminService) ListAdmins() ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.db.Order("created_at ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// SetMemberStatus verifies or unverifies a member, stamping which admin did
// it and when. Unverifying clears both stamps.
func (s *AdminService) SetMemberStatus(adminID, memberID uuid.UUID, verified bool) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, "id = ?", memberID).Error; err != nil {
		return nil, ErrMemberNotFound
	}

	updates := map[string]interface{}{}
	if verified {
		now := time.Now()
		updates["verified_at"] = now
		updates["verified_by"] = adminID
		member.VerifiedAt = &now
		member.VerifiedBy = &adminID
	} else {
		updates["verified_at"] = nil
		updates["verified_by"] = nil
		member.VerifiedAt = nil
		member.VerifiedBy = nil
	}

	if err := s.db.Model(&member).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return &member, nil
}

func (s *AdminService) ListMembers(search string, page, limit int) ([]models.Member, int64, error) {
	var members []models.Member
	var total int64

	query := s.db.Model(&models.Member{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("organization_name ILIKE ?", like)
	}
	query.Count(&total)

	if err := query.Preload("Reporter").Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (s *AdminService) CreateSchedule(req *dto.ScheduleRequest) (*models.MealSchedule, error) {
	if req.SchoolName == "" || req.ProvinceID == "" || req.CityID == "" {
		return nil, errors.New("schoolName, provinceId and cityId are required")
	}

	schedule := models.MealSchedule{
		ID:           uuid.New(),
		SchoolName:   req.SchoolName,
		ProvinceID:   req.ProvinceID,
		CityID:       req.CityID,
		ScheduleDays: req.ScheduleDays,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		IsActive:     true,
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}
	if err := s.db.Create(&schedule).Error; err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return &schedule, nil
}

func (s *AdminService) UpdateSchedule(id uuid.UUID, req *dto.ScheduleRequest) (*models.MealSchedule, error) {
	var schedule models.MealSchedule
	if err := s.db.First(&schedule, "id = ?", id).Error; err != nil {
		return nil, ErrScheduleNotFound
	}

	updates := map[string]interface{}{}
	if req.SchoolName != "" {
		updates["school_name"] = req.SchoolName
	}
	if req.ProvinceID != "" {
		updates["province_id"] = req.ProvinceID
	}
	if req.CityID != "" {
		updates["city_id"] = req.CityID
	}
	if req.ScheduleDays != "" {
		updates["schedule_days"] = req.ScheduleDays
	}
	if req.StartTime != "" {
		updates["start_time"] = req.StartTime
	}
	if req.EndTime != "" {
		updates["end_time"] = req.EndTime
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&schedule).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update schedule: %w", err)
		}
	}
	return &schedule, nil
}

func (s *AdminService) DeleteSchedule(id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(&models.MealSchedule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (s *AdminService) ListSchedules(provinceID, search string, page, limit int) ([]models.MealSchedule, int64, error) {
	var schedules []models.MealSchedule
	var total int64

	query := s.db.Model(&models.MealSchedule{})
	if provinceID != "" {
		query = query.Where("province_id = ?", provinceID)
	}
	if search != "" {
		query = query.Where("school_name ILIKE ?", "%"+search+"%")
	}
	query.Count(&total)

	if err := query.Order("school_name ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&schedules).Error; err != nil {
		return nil, 0, err
	}
	return schedules, total, nil
}

// PublicSchedules lists active schedules for the public site. Inactive rows
// stay admin-only.
func (s *AdminService) PublicSchedules(provinceID string, page, limit int) ([]models.MealSchedule, int64, error) {
	var schedules []models.MealSchedule
	var total int64

	query := s.db.Model(&models.MealSchedule{}).Where("is_active = true")
	if provinceID != "" {
		query = query.Where("province_id = ?", provinceID)
	}
	query.Count(&total)

	if err := query.Order("school_name ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&schedules).Error; err != nil {
		return nil, 0, err
	}
	return schedules, total, nil
}

// DashboardStats aggregates the admin landing-page numbers.
type DashboardStats struct {
	TotalReports   int64            `json:"total_reports"`
	TotalReporters int64            `json:"total_reporters"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByCategory     map[string]int64 `json:"by_category"`
	Recent         []models.Report  `json:"recent_reports"`
}

func (s *AdminService) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{
		ByStatus:   make(map[string]int64),
		ByCategory: make(map[string]int64),
	}

	if err := s.db.Model(&models.Report{}).Count(&stats.TotalReports).Error; err != nil {
		return nil, err
	}
	s.db.Model(&models.Reporter{}).Count(&stats.TotalReporters)

	type bucket struct {
		Key   string
		Count int64
	}
	var byStatus []bucket
	s.db.Model(&models.Report{}).
		Select("status AS key, COUNT(*) AS count").Group("status").Scan(&byStatus)
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
	}

	var byCategory []bucket
	s.db.Model(&models.Report{}).
		Select("category AS key, COUNT(*) AS count").Group("category").Scan(&byCategory)
	for _, b := range byCategory {
		stats.ByCategory[b.Key] = b.Count
	}

	if err := s.db.Preload("Reporter").Order("created_at DESC").
		Limit(5).Find(&stats.Recent).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
