package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration
	JWTTempExpiry   time.Duration
	SessionExpiry   time.Duration

	// SMTP
	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
	SMTPSecure bool
	MailFrom   string

	// Storage
	StorageType    string
	LocalUploadDir string
	PublicURL      string

	// Bootstrap admin (created on first run if no admin exists)
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "ampmbg_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),
		JWTTempExpiry:   parseDuration(getEnv("JWT_TEMP_EXPIRY", "1h"), time.Hour),
		SessionExpiry:   parseDuration(getEnv("SESSION_EXPIRY", "168h"), 168*time.Hour),

		SMTPHost:   getEnv("SMTP_HOST", ""),
		SMTPPort:   getEnv("SMTP_PORT", "587"),
		SMTPUser:   getEnv("SMTP_USER", ""),
		SMTPPass:   getEnv("SMTP_PASS", ""),
		SMTPSecure: getEnv("SMTP_SECURE", "false") == "true",
		MailFrom:   getEnv("MAIL_FROM", ""),

		StorageType:    getEnv("STORAGE_TYPE", "local"),
		LocalUploadDir: getEnv("LOCAL_UPLOAD_DIR", "./uploads"),
		PublicURL:      getEnv("PUBLIC_URL", "http://localhost:8080"),

		BootstrapAdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@ampmbg.id"),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// IsTest reports whether the process runs in test-execution mode. Session
// revocation lookups and rate limiting are skipped in this mode.
func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
