package handlers

import (
	"errors"

	"github.com/ampmbg/backend/internal/dto"
	"github.com/ampmbg/backend/internal/principal"
	"github.com/ampmbg/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService *services.AdminService
	authService  *services.AuthService
}

func NewAdminHandler(adminService *services.AdminService, authService *services.AuthService) *AdminHandler {
	return &AdminHandler{adminService: adminService, authService: authService}
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.adminService.Dashboard()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(stats)
}

func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	var q dto.AdminReportsQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	reports, total, err := h.adminService.ListReports(&q)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(dto.PaginatedResponse{
		Data:       reports,
		Pagination: dto.NewPagination(q.Page, q.Limit, total),
	})
}

func (h *AdminHandler) GetReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.adminService.GetReport(reportID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"data": report})
}

func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	adminID, err := principal.AdminID(c)
	if err != nil {
		return unauthorized(c)
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.adminService.UpdateStatus(adminID, reportID, &req)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return notFound(c, err.Error())
		}
		return badRequest(c, err.Error())
	}

	return c.JSON(fiber.Map{
		"data":    report,
		"message": "Status updated successfully",
	})
}

func (h *AdminHandler) BulkUpdateStatus(c *fiber.Ctx) error {
	adminID, err := principal.AdminID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.adminService.BulkUpdateStatus(adminID, &req)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return notFound(c, "no matching reports found")
		}
		return badRequest(c, err.Error())
	}

	return c.JSON(dto.BulkStatusResponse{
		Message: "Reports updated successfully",
		Updated: updated,
	})
}

func (h *AdminHandler) DeleteReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	if err := h.adminService.DeleteReport(reportID); err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Message: "Report deleted successfully"})
}

func (h *AdminHandler) GetScoring(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	result, err := h.adminService.ScoreReport(reportID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"data": result})
}

func (h *AdminHandler) GetHistory(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	history, err := h.adminService.GetHistory(reportID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}

	entries := make([]dto.StatusHistoryResponse, len(history))
	for i, entry := range history {
		entries[i] = dto.StatusHistoryResponse{
			ID:         entry.ID,
			FromStatus: entry.FromStatus,
			ToStatus:   entry.ToStatus,
			Notes:      entry.Notes,
			ChangedBy:  entry.ChangedBy,
			CreatedAt:  entry.CreatedAt,
		}
	}
	return c.JSON(fiber.Map{"data": entries})
}

func (h *AdminHandler) ListSessions(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	sessions, total, err := h.authService.ListSessions(page, limit)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(dto.PaginatedResponse{
		Data:       sessions,
		Pagination: dto.NewPagination(page, limit, total),
	})
}

func (h *AdminHandler) RevokeAllSessions(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.authService.RevokeAllSessions(userID); err != nil {
		if errors.Is(err, services.ErrReporterNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Message: "All sessions revoked"})
}

func (h *AdminHandler) ListAdmins(c *fiber.Ctx) error {
	admins, err := h.adminService.ListAdmins()
	if err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"data": admins})
}

func (h *AdminHandler) UpdateAdmin(c *fiber.Ctx) error {
	actingID, err := principal.AdminID(c)
	if err != nil {
		return unauthorized(c)
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid admin ID")
	}

	var req dto.UpdateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	admin, err := h.adminService.UpdateAdmin(actingID, targetID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfDeactivation):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrAdminNotFound):
			return notFound(c, err.Error())
		default:
			return internalError(c)
		}
	}
	return c.JSON(fiber.Map{"data": admin})
}

func (h *AdminHandler) ListMembers(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	members, total, err := h.adminService.ListMembers(c.Query("search"), page, limit)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(dto.PaginatedResponse{
		Data:       members,
		Pagination: dto.NewPagination(page, limit, total),
	})
}

func (h *AdminHandler) SetMemberStatus(c *fiber.Ctx) error {
	adminID, err := principal.AdminID(c)
	if err != nil {
		return unauthorized(c)
	}

	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid member ID")
	}

	var req dto.MemberStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	member, err := h.adminService.SetMemberStatus(adminID, memberID, req.IsVerified)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(fiber.Map{"data": member})
}

// PublicSchedules serves the open schedule listing. No principal required;
// OptionalAuth may have resolved one, but the response is the same either way.
func (h *AdminHandler) PublicSchedules(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	schedules, total, err := h.adminService.PublicSchedules(c.Query("provinceId"), page, limit)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(dto.PaginatedResponse{
		Data:       schedules,
		Pagination: dto.NewPagination(page, limit, total),
	})
}

func (h *AdminHandler) ListSchedules(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	schedules, total, err := h.adminService.ListSchedules(
		c.Query("provinceId"), c.Query("search"), page, limit)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(dto.PaginatedResponse{
		Data:       schedules,
		Pagination: dto.NewPagination(page, limit, total),
	})
}

func (h *AdminHandler) CreateSchedule(c *fiber.Ctx) error {
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	schedule, err := h.adminService.CreateSchedule(&req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": schedule})
}

func (h *AdminHandler) UpdateSchedule(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid schedule ID")
	}

	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	schedule, err := h.adminService.UpdateSchedule(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrScheduleNotFound) {
			return notFound(c, err.Error())
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(fiber.Map{"data": schedule})
}

func (h *AdminHandler) DeleteSchedule(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid schedule ID")
	}

	if err := h.adminService.DeleteSchedule(id); err != nil {
		if errors.Is(err, services.ErrScheduleNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Message: "Schedule deleted successfully"})
}
