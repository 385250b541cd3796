package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ronilson-users/backend-work-v2/internal/middleware"
	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/service"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
	"github.com/ronilson-users/backend-work-v2/pkg/response"
)

type AuthHandler struct {
	service   *service.AuthService
	auth      *middleware.AuthMiddleware
	validator *validator.Validate
}

func NewAuthHandler(svc *service.AuthService, auth *middleware.AuthMiddleware, v *validator.Validate) *AuthHandler {
	return &AuthHandler{service: svc, auth: auth, validator: v}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	user, err := h.service.Register(c.Context(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		return response.ServiceError(c, "Failed to issue token")
	}
	return response.Created(c, model.AuthResponse{User: user.Sanitized(), Token: token})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	user, err := h.service.Login(c.Context(), &req)
	if err != nil {
		// One generic answer for every credential failure.
		if kind := apperr.KindOf(err); kind == apperr.KindNotFound || kind == apperr.KindForbidden {
			return response.Unauthorized(c, "Invalid email or password")
		}
		return response.FromError(c, err)
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		return response.ServiceError(c, "Failed to issue token")
	}
	return response.OK(c, model.AuthResponse{User: user.Sanitized(), Token: token})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.service.GetByID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, user.Sanitized())
}
