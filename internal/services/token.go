package services

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/ampmbg/backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// HashToken returns the SHA-256 hex of a bearer token. Sessions store only
// this hash; the raw token never reaches the database.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

// SignUserToken issues a full user access token.
func SignUserToken(cfg *config.Config, id uuid.UUID, email string) (string, error) {
	return signToken(cfg, id, email, "user", false, cfg.JWTAccessExpiry)
}

// SignTempToken issues a mid-registration token. It carries temp:true and is
// only accepted by the temp guard.
func SignTempToken(cfg *config.Config, id uuid.UUID, email string) (string, error) {
	return signToken(cfg, id, email, "user", true, cfg.JWTTempExpiry)
}

// SignAdminToken issues an admin access token.
func SignAdminToken(cfg *config.Config, id uuid.UUID, email string) (string, error) {
	return signToken(cfg, id, email, "admin", false, cfg.JWTAccessExpiry)
}

func signToken(cfg *config.Config, id uuid.UUID, email, kind string, temp bool, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   id.String(),
		"email": email,
		"type":  kind,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(expiry).Unix(),
	}
	if temp {
		claims["temp"] = true
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
