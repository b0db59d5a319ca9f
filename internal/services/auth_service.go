package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ampmbg/backend/internal/config"
	"github.com/ampmbg/backend/internal/dto"
	"github.com/ampmbg/backend/internal/mail"
	"github.com/ampmbg/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrIncompleteRegistration = errors.New("complete your registration first")
	ErrReporterNotFound       = errors.New("user not found")
	ErrAdminNotFound          = errors.New("admin not found")
	ErrAdminInactive          = errors.New("admin account is deactivated")
)

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer mail.Sender
}

func NewAuthService(db *gorm.DB, cfg *config.Config, mailer mail.Sender) *AuthService {
	return &AuthService{db: db, cfg: cfg, mailer: mailer}
}

// Register starts the two-phase signup: the account exists but carries no
// password until CompleteRegistration. The caller receives a temp token.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.TempAuthResponse, error) {
	if req.Email == "" || req.Name == "" {
		return nil, errors.New("email and name are required")
	}

	var existing models.Reporter
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	reporter := models.Reporter{
		ID:    uuid.New(),
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
	}
	if err := s.db.Create(&reporter).Error; err != nil {
		return nil, fmt.Errorf("failed to create reporter: %w", err)
	}

	token, err := SignTempToken(s.cfg, reporter.ID, reporter.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign temp token: %w", err)
	}

	if err := s.mailer.Send(reporter.Email, "Selesaikan pendaftaran akun AMP MBG",
		welcomeEmailBody(reporter.Name)); err != nil {
		slog.Warn("welcome email failed", "error", err, "email", reporter.Email)
	}

	return &dto.TempAuthResponse{
		TempToken: token,
		User:      reporterResponse(&reporter),
	}, nil
}

// CompleteRegistration finishes signup for a temp principal: sets the
// password, marks the account complete and opens a full session.
func (s *AuthService) CompleteRegistration(reporterID uuid.UUID, req *dto.CompleteRegistrationRequest) (*dto.AuthResponse, error) {
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if req.Password != req.ConfirmPassword {
		return nil, errors.New("passwords do not match")
	}

	var reporter models.Reporter
	if err := s.db.First(&reporter, "id = ?", reporterID).Error; err != nil {
		return nil, ErrReporterNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&reporter).Updates(map[string]interface{}{
		"password":              string(hash),
		"registration_complete": true,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to complete registration: %w", err)
	}
	reporter.RegistrationComplete = true

	return s.openSession(&reporter)
}

// Login authenticates a reporter and opens a session. Accounts that never
// completed registration are rejected distinctly so the client can resume
// the signup flow.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var reporter models.Reporter
	if err := s.db.Where("email = ?", req.Email).First(&reporter).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if !reporter.RegistrationComplete {
		return nil, ErrIncompleteRegistration
	}

	if err := bcrypt.CompareHashAndPassword([]byte(reporter.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(&reporter)
}

// AdminLogin authenticates an admin and opens an admin session.
func (s *AuthService) AdminLogin(req *dto.LoginRequest) (*dto.AdminAuthResponse, error) {
	var admin models.Admin
	if err := s.db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		return nil, ErrAdminInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := SignAdminToken(s.cfg, admin.ID, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	session := models.AdminSession{
		ID:        uuid.New(),
		AdminID:   admin.ID,
		TokenHash: HashToken(token),
		ExpiresAt: time.Now().Add(s.cfg.SessionExpiry),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &dto.AdminAuthResponse{
		Token: token,
		Admin: dto.AdminResponse{
			ID:        admin.ID,
			Email:     admin.Email,
			Name:      admin.Name,
			AdminRole: admin.AdminRole,
			IsActive:  admin.IsActive,
		},
	}, nil
}

// Logout revokes the session matching the presented token. Sessions are
// flagged revoked, never deleted, so the guard's lookup fails closed.
func (s *AuthService) Logout(token string, isAdmin bool) error {
	hash := HashToken(token)
	if isAdmin {
		return s.db.Model(&models.AdminSession{}).
			Where("token_hash = ?", hash).
			Update("is_revoked", true).Error
	}
	return s.db.Model(&models.Session{}).
		Where("token_hash = ?", hash).
		Update("is_revoked", true).Error
}

// RevokeAllSessions revokes every session of a reporter. Previously issued
// tokens keep verifying cryptographically but fail the guard's store lookup.
func (s *AuthService) RevokeAllSessions(reporterID uuid.UUID) error {
	var reporter models.Reporter
	if err := s.db.First(&reporter, "id = ?", reporterID).Error; err != nil {
		return ErrReporterNotFound
	}

	return s.db.Model(&models.Session{}).
		Where("reporter_id = ? AND is_revoked = false", reporterID).
		Update("is_revoked", true).Error
}

// ListSessions pages over reporter sessions for the admin panel.
func (s *AuthService) ListSessions(page, limit int) ([]models.Session, int64, error) {
	var sessions []models.Session
	var total int64

	query := s.db.Model(&models.Session{})
	query.Count(&total)

	if err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// Profile returns the reporter behind a principal.
func (s *AuthService) Profile(reporterID uuid.UUID) (*dto.ReporterResponse, error) {
	var reporter models.Reporter
	if err := s.db.First(&reporter, "id = ?", reporterID).Error; err != nil {
		return nil, ErrReporterNotFound
	}
	resp := reporterResponse(&reporter)
	return &resp, nil
}

func (s *AuthService) openSession(reporter *models.Reporter) (*dto.AuthResponse, error) {
	token, err := SignUserToken(s.cfg, reporter.ID, reporter.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	session := models.Session{
		ID:         uuid.New(),
		ReporterID: reporter.ID,
		TokenHash:  HashToken(token),
		ExpiresAt:  time.Now().Add(s.cfg.SessionExpiry),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User:  reporterResponse(reporter),
	}, nil
}

func reporterResponse(r *models.Reporter) dto.ReporterResponse {
	return dto.ReporterResponse{
		ID:                   r.ID,
		Email:                r.Email,
		Name:                 r.Name,
		Phone:                r.Phone,
		RegistrationComplete: r.RegistrationComplete,
		CreatedAt:            r.CreatedAt,
	}
}

func welcomeEmailBody(name string) string {
	return "<p>Halo " + name + ",</p>" +
		"<p>Akun Anda telah dibuat. Silakan selesaikan pendaftaran untuk mulai mengirim laporan.</p>"
}
