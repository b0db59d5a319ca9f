package routes

import (
	"time"

	"github.com/ampmbg/backend/internal/config"
	"github.com/ampmbg/backend/internal/handlers"
	"github.com/ampmbg/backend/internal/middleware"
	"github.com/ampmbg/backend/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	limits *ratelimit.Store,
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per client IP + path
	api.Use(middleware.RateLimit(limits, cfg, 60, time.Minute))

	api.Get("/health", handlers.Health)

	// Public schedule listing; a principal is resolved when a token is sent
	api.Get("/meal-schedules", middleware.OptionalAuth(cfg), adminHandler.PublicSchedules)

	// Auth is public with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(limits, cfg, 10, time.Minute))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/admin/login", authHandler.AdminLogin)

	// Completion accepts the temp token issued at registration
	auth.Post("/complete-registration",
		middleware.JWTProtected(cfg), middleware.TempAllowed(),
		authHandler.CompleteRegistration)

	// Protected routes (JWT required) - apply middleware to individual routes
	// so the public auth routes stay untouched
	api.Post("/auth/logout",
		middleware.JWTProtected(cfg), middleware.Authenticated(db, cfg),
		authHandler.Logout)
	api.Get("/auth/me",
		middleware.JWTProtected(cfg), middleware.UserRequired(db, cfg),
		authHandler.Me)

	// Report routes accept reporter accounts only; admins are rejected here
	reports := api.Group("/reports",
		middleware.JWTProtected(cfg), middleware.ReporterRequired(db, cfg))
	reports.Post("/", reportHandler.Create)
	reports.Get("/my/reports", reportHandler.ListMine)
	reports.Get("/:id", reportHandler.Get)
	reports.Post("/:id/files", reportHandler.UploadFiles)
	reports.Delete("/:id/files/:fileId", reportHandler.DeleteFile)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin",
		middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/dashboard", adminHandler.Dashboard)

	admin.Get("/reports", adminHandler.ListReports)
	admin.Patch("/reports/bulk-status", adminHandler.BulkUpdateStatus)
	admin.Get("/reports/:id", adminHandler.GetReport)
	admin.Patch("/reports/:id/status", adminHandler.UpdateStatus)
	admin.Get("/reports/:id/history", adminHandler.GetHistory)
	admin.Get("/reports/:id/scoring", adminHandler.GetScoring)
	admin.Delete("/reports/:id", adminHandler.DeleteReport)

	admin.Get("/sessions", adminHandler.ListSessions)
	admin.Post("/sessions/:userId/revoke-all", adminHandler.RevokeAllSessions)

	admin.Get("/admins", adminHandler.ListAdmins)
	admin.Patch("/admins/:id", adminHandler.UpdateAdmin)

	admin.Get("/members", adminHandler.ListMembers)
	admin.Patch("/members/:id/status", adminHandler.SetMemberStatus)

	admin.Get("/meal-schedules", adminHandler.ListSchedules)
	admin.Post("/meal-schedules", adminHandler.CreateSchedule)
	admin.Patch("/meal-schedules/:id", adminHandler.UpdateSchedule)
	admin.Delete("/meal-schedules/:id", adminHandler.DeleteSchedule)
}
