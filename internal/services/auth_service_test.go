package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ampmbg/backend/internal/dto"
	"github.com/ampmbg/backend/internal/mail"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCompleteRegistration_PasswordRules(t *testing.T) {
	_, db := setupMockDB(t)
	svc := NewAuthService(db, testConfig(), mail.NopSender{})

	_, err := svc.CompleteRegistration(uuid.New(), &dto.CompleteRegistrationRequest{
		Password:        "short",
		ConfirmPassword: "short",
	})
	assert.EqualError(t, err, "password must be at least 8 characters")

	_, err = svc.CompleteRegistration(uuid.New(), &dto.CompleteRegistrationRequest{
		Password:        "password123",
		ConfirmPassword: "password321",
	})
	assert.EqualError(t, err, "passwords do not match")
}

func TestLogin_IncompleteRegistration(t *testing.T) {
	mock, db := setupMockDB(t)
	svc := NewAuthService(db, testConfig(), mail.NopSender{})

	mock.ExpectQuery(`SELECT \* FROM "reporters"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "registration_complete"}).
			AddRow(uuid.New(), "warga@example.id", false))

	_, err := svc.Login(&dto.LoginRequest{Email: "warga@example.id", Password: "whatever"})
	assert.ErrorIs(t, err, ErrIncompleteRegistration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword(t *testing.T) {
	mock, db := setupMockDB(t)
	svc := NewAuthService(db, testConfig(), mail.NopSender{})

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "reporters"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "registration_complete"}).
			AddRow(uuid.New(), "warga@example.id", string(hash), true))

	_, err = svc.Login(&dto.LoginRequest{Email: "warga@example.id", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	mock, db := setupMockDB(t)
	svc := NewAuthService(db, testConfig(), mail.NopSender{})

	mock.ExpectQuery(`SELECT \* FROM "reporters"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Login(&dto.LoginRequest{Email: "nobody@example.id", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLogin_Inactive(t *testing.T) {
	mock, db := setupMockDB(t)
	svc := NewAuthService(db, testConfig(), mail.NopSender{})

	mock.ExpectQuery(`SELECT \* FROM "admins"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "is_active"}).
			AddRow(uuid.New(), "admin@ampmbg.id", false))

	_, err := svc.AdminLogin(&dto.LoginRequest{Email: "admin@ampmbg.id", Password: "x"})
	assert.ErrorIs(t, err, ErrAdminInactive)
}

func TestLogout_RevokesByTokenHash(t *testing.T) {
	mock, db := setupMockDB(t)
	svc := NewAuthService(db, testConfig(), mail.NopSender{})

	mock.ExpectExec(`UPDATE "sessions" SET`).
		WithArgs(true, HashToken("raw-token")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Logout("raw-token", false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogout_AdminUsesAdminSessions(t *testing.T) {
	mock, db := setupMockDB(t)
	svc := NewAuthService(db, testConfig(), mail.NopSender{})

	mock.ExpectExec(`UPDATE "admin_sessions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Logout("raw-token", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeAllSessions_UnknownReporter(t *testing.T) {
	mock, db := setupMockDB(t)
	svc := NewAuthService(db, testConfig(), mail.NopSender{})

	mock.ExpectQuery(`SELECT \* FROM "reporters"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.RevokeAllSessions(uuid.New())
	assert.ErrorIs(t, err, ErrReporterNotFound)
}

func TestRevokeAllSessions_FlagsActiveSessions(t *testing.T) {
	mock, db := setupMockDB(t)
	svc := NewAuthService(db, testConfig(), mail.NopSender{})

	reporterID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "reporters"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(reporterID))
	mock.ExpectExec(`UPDATE "sessions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, svc.RevokeAllSessions(reporterID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
