package handlers

import (
	"errors"

	"github.com/ampmbg/backend/internal/dto"
	"github.com/ampmbg/backend/internal/principal"
	"github.com/ampmbg/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) CompleteRegistration(c *fiber.Ctx) error {
	p, err := principal.FromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CompleteRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.CompleteRegistration(p.ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrReporterNotFound) {
			return notFound(c, err.Error())
		}
		return badRequest(c, err.Error())
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrIncompleteRegistration):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
		default:
			return internalError(c)
		}
	}

	return c.JSON(resp)
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.AdminLogin(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrAdminInactive):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
		default:
			return internalError(c)
		}
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := principal.FromCtx(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.authService.Logout(p.Token, p.Kind == principal.KindAdmin); err != nil {
		return internalError(c)
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	profile, err := h.authService.Profile(userID)
	if err != nil {
		if errors.Is(err, services.ErrReporterNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return c.JSON(profile)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
}
