package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/ampmbg/backend/internal/dto"
	"github.com/ampmbg/backend/internal/principal"
	"github.com/ampmbg/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.Create(userID, &req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) ListMine(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	page, limit := pageParams(c)
	reports, total, err := h.reportService.ListMine(userID, page, limit)
	if err != nil {
		return internalError(c)
	}

	return c.JSON(dto.PaginatedResponse{
		Data:       reports,
		Pagination: dto.NewPagination(page, limit, total),
	})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	report, err := h.reportService.GetOwned(userID, reportID)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(fiber.Map{"data": report})
}

// UploadFiles accepts a multipart batch under the "files" field. The whole
// batch is validated before anything is stored.
func (h *ReportHandler) UploadFiles(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "Invalid multipart form")
	}

	uploads := make([]services.UploadFile, 0, len(form.File["files"]))
	for _, header := range form.File["files"] {
		f, err := header.Open()
		if err != nil {
			return badRequest(c, "Unreadable file: "+header.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return badRequest(c, "Unreadable file: "+header.Filename)
		}

		uploads = append(uploads, services.UploadFile{
			Name:     header.Filename,
			MimeType: header.Header.Get(fiber.HeaderContentType),
			Size:     header.Size,
			Data:     data,
		})
	}

	saved, err := h.reportService.AttachFiles(userID, reportID, uploads)
	if err != nil {
		return reportError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": saved})
}

func (h *ReportHandler) DeleteFile(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid report ID")
	}
	fileID, err := uuid.Parse(c.Params("fileId"))
	if err != nil {
		return badRequest(c, "Invalid file ID")
	}

	if err := h.reportService.DeleteFile(userID, reportID, fileID); err != nil {
		return reportError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "File deleted successfully"})
}

// reportError maps report-service failures onto the status-code taxonomy.
func reportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrReportNotFound), errors.Is(err, services.ErrFileNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, services.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNoFiles), errors.Is(err, services.ErrInvalidFile):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

func pageParams(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
