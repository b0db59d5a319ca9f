package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/ampmbg/backend/internal/config"
	"github.com/ampmbg/backend/internal/dto"
	"github.com/ampmbg/backend/internal/models"
	"github.com/ampmbg/backend/internal/principal"
	"github.com/ampmbg/backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JWTProtected verifies the bearer token's signature and expiry and stashes
// the parsed token for the principal guards that follow it.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "Invalid or expired token",
			})
		},
	})
}

type tokenClaims struct {
	ID    uuid.UUID
	Email string
	Kind  string
	Temp  bool
	Raw   string
}

func claimsFrom(c *fiber.Ctx) (*tokenClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("no token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid sub claim")
	}

	email, _ := claims["email"].(string)
	kind, _ := claims["type"].(string)
	temp, _ := claims["temp"].(bool)

	return &tokenClaims{ID: id, Email: email, Kind: kind, Temp: temp, Raw: token.Raw}, nil
}

// UserRequired accepts only fully registered user principals and confirms
// the session is still live. Runs after JWTProtected.
func UserRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFrom(c)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}

		if claims.Kind != "user" {
			return forbidden(c, "Access denied")
		}
		if claims.Temp {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "Complete your registration first",
			})
		}

		if err := checkUserSession(db, cfg, claims.Raw); err != nil {
			return sessionError(c, err)
		}

		storeUser(c, claims)
		return c.Next()
	}
}

// TempAllowed accepts both temp and full user tokens. Used by the
// registration-completion route; no session lookup because temp principals
// have no session yet.
func TempAllowed() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFrom(c)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}
		if claims.Kind != "user" {
			return forbidden(c, "Access denied")
		}

		storeUser(c, claims)
		return c.Next()
	}
}

// ReporterRequired guards report submission: full user principals only, and
// admins are explicitly rejected even though their tokens verify.
func ReporterRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFrom(c)
		if err != nil {
			return unauthorized(c, "Must be logged in to submit reports")
		}

		if claims.Kind == "admin" {
			return forbidden(c, "Admins cannot submit reports")
		}
		if claims.Kind != "user" {
			return forbidden(c, "Access denied")
		}
		if claims.Temp {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "Complete your registration first",
			})
		}

		if err := checkUserSession(db, cfg, claims.Raw); err != nil {
			return sessionError(c, err)
		}

		storeUser(c, claims)
		return c.Next()
	}
}

// AdminRequired accepts admin principals with a live admin session and an
// active account.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFrom(c)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}

		if claims.Kind != "admin" {
			return forbidden(c, "Admin access required")
		}

		if err := checkAdminSession(db, cfg, claims.Raw); err != nil {
			return sessionError(c, err)
		}

		if !cfg.IsTest() {
			var admin models.Admin
			if err := db.First(&admin, "id = ?", claims.ID).Error; err != nil || !admin.IsActive {
				return forbidden(c, "Admin account is deactivated")
			}
		}

		principal.Store(c, principal.Principal{
			Kind:  principal.KindAdmin,
			ID:    claims.ID,
			Email: claims.Email,
			Token: claims.Raw,
		})
		return c.Next()
	}
}

// Authenticated accepts any bearer principal, user or admin, checking the
// matching session store. Used by logout, which must work for both kinds.
// Temp principals pass without a session lookup because none exists yet.
func Authenticated(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFrom(c)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}

		switch claims.Kind {
		case "admin":
			if err := checkAdminSession(db, cfg, claims.Raw); err != nil {
				return sessionError(c, err)
			}
			principal.Store(c, principal.Principal{
				Kind:  principal.KindAdmin,
				ID:    claims.ID,
				Email: claims.Email,
				Token: claims.Raw,
			})
		case "user":
			if !claims.Temp {
				if err := checkUserSession(db, cfg, claims.Raw); err != nil {
					return sessionError(c, err)
				}
			}
			storeUser(c, claims)
		default:
			return forbidden(c, "Access denied")
		}
		return c.Next()
	}
}

// OptionalAuth resolves a user principal when a valid bearer token is
// present and lets the request through anonymously otherwise. It never
// fails the request.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Next()
		}
		kind, _ := claims["type"].(string)
		sub, _ := claims["sub"].(string)
		id, parseErr := uuid.Parse(sub)
		if kind != "user" || parseErr != nil {
			return c.Next()
		}

		email, _ := claims["email"].(string)
		temp, _ := claims["temp"].(bool)
		principal.Store(c, principal.Principal{
			Kind:  principal.KindUser,
			ID:    id,
			Email: email,
			Temp:  temp,
			Token: raw,
		})
		return c.Next()
	}
}

var (
	errSessionRevoked = errors.New("session has been revoked")
	errSessionLookup  = errors.New("session lookup failed")
)

// checkUserSession confirms a live, non-revoked, non-expired session exists
// for the token's hash. Always reads the persistent store so revocation is
// immediate; skipped only in test-execution mode.
func checkUserSession(db *gorm.DB, cfg *config.Config, token string) error {
	if cfg.IsTest() {
		return nil
	}

	var session models.Session
	err := db.Where("token_hash = ? AND is_revoked = false", services.HashToken(token)).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errSessionRevoked
	}
	if err != nil {
		return errSessionLookup
	}
	if session.ExpiresAt.Before(time.Now()) {
		return errSessionRevoked
	}
	return nil
}

func checkAdminSession(db *gorm.DB, cfg *config.Config, token string) error {
	if cfg.IsTest() {
		return nil
	}

	var session models.AdminSession
	err := db.Where("token_hash = ? AND is_revoked = false", services.HashToken(token)).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errSessionRevoked
	}
	if err != nil {
		return errSessionLookup
	}
	if session.ExpiresAt.Before(time.Now()) {
		return errSessionRevoked
	}
	return nil
}

func storeUser(c *fiber.Ctx, claims *tokenClaims) {
	principal.Store(c, principal.Principal{
		Kind:  principal.KindUser,
		ID:    claims.ID,
		Email: claims.Email,
		Temp:  claims.Temp,
		Token: claims.Raw,
	})
}

func sessionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errSessionLookup) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Internal server error",
		})
	}
	return unauthorized(c, "Session has been revoked")
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msg})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: msg})
}
