package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ampmbg/backend/internal/dto"
	"github.com/ampmbg/backend/internal/models"
	"github.com/ampmbg/backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrFileNotFound   = errors.New("file not found")
	ErrNotOwner       = errors.New("not the owner of this report")
	ErrNoFiles        = errors.New("no files provided")
	ErrInvalidFile    = errors.New("invalid file")
)

type ReportService struct {
	db    *gorm.DB
	store storage.FileStore
}

func NewReportService(db *gorm.DB, store storage.FileStore) *ReportService {
	return &ReportService{db: db, store: store}
}

// UploadFile is one decoded multipart part handed to AttachFiles.
type UploadFile struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

func (s *ReportService) Create(reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if !models.ValidCategory(req.Category) {
		return nil, errors.New("invalid category")
	}
	if !models.ValidRelation(req.Relation) {
		return nil, errors.New("invalid relation")
	}
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	if len(req.Description) < 20 {
		return nil, errors.New("description must be at least 20 characters")
	}
	if req.ProvinceID == "" || req.CityID == "" {
		return nil, errors.New("province and city are required")
	}
	if req.IncidentDate.IsZero() {
		return nil, errors.New("incident date is required")
	}

	report := models.Report{
		ID:           uuid.New(),
		ReporterID:   reporterID,
		Category:     req.Category,
		Title:        req.Title,
		Description:  req.Description,
		ProvinceID:   req.ProvinceID,
		CityID:       req.CityID,
		DistrictID:   req.DistrictID,
		Location:     req.Location,
		IncidentDate: req.IncidentDate,
		Relation:     req.Relation,
		Status:       models.StatusPending,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ReportService) ListMine(reporterID uuid.UUID, page, limit int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{}).Where("reporter_id = ?", reporterID)
	query.Count(&total)

	if err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// GetOwned fetches a report with files and history, enforcing ownership.
func (s *ReportService) GetOwned(reporterID, reportID uuid.UUID) (*models.Report, error) {
	report, err := s.ownedReport(reporterID, reportID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Files").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(report, "id = ?", reportID).Error; err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}

// AttachFiles validates and stores uploads on a report the principal owns.
// Validation happens before anything touches storage or the database, so a
// rejected batch leaves no partial writes.
func (s *ReportService) AttachFiles(reporterID, reportID uuid.UUID, files []UploadFile) ([]models.ReportFile, error) {
	if _, err := s.ownedReport(reporterID, reportID); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	for _, f := range files {
		if result := storage.Validate(f.MimeType, f.Size, f.Data); !result.Valid {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFile, result.Error)
		}
	}

	saved := make([]models.ReportFile, 0, len(files))
	for _, f := range files {
		uploaded, err := s.store.Upload(f.Data, f.Name, "reports")
		if err != nil {
			return nil, fmt.Errorf("failed to store file: %w", err)
		}

		row := models.ReportFile{
			ID:           uuid.New(),
			ReportID:     reportID,
			Key:          uploaded.Key,
			URL:          uploaded.URL,
			OriginalName: f.Name,
			MimeType:     f.MimeType,
			Size:         f.Size,
		}
		if err := s.db.Create(&row).Error; err != nil {
			if delErr := s.store.Delete(uploaded.Key); delErr != nil {
				slog.Error("orphan cleanup failed", "key", uploaded.Key, "error", delErr)
			}
			return nil, fmt.Errorf("failed to record file: %w", err)
		}
		saved = append(saved, row)
	}
	return saved, nil
}

// DeleteFile removes an attachment from an owned report. Storage deletion is
// idempotent so a missing object never fails the request.
func (s *ReportService) DeleteFile(reporterID, reportID, fileID uuid.UUID) error {
	if _, err := s.ownedReport(reporterID, reportID); err != nil {
		return err
	}

	var file models.ReportFile
	if err := s.db.Where("id = ? AND report_id = ?", fileID, reportID).First(&file).Error; err != nil {
		return ErrFileNotFound
	}

	if err := s.db.Delete(&file).Error; err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	if err := s.store.Delete(file.Key); err != nil {
		slog.Error("storage delete failed", "key", file.Key, "error", err)
	}
	return nil
}

// ownedReport resolves a report and checks ownership. Absence and wrong
// ownership are distinct failures (404 vs 403 at the boundary).
func (s *ReportService) ownedReport(reporterID, reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		return nil, ErrReportNotFound
	}
	if report.ReporterID != reporterID {
		return nil, ErrNotOwner
	}
	return &report, nil
}
