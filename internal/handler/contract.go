package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ronilson-users/backend-work-v2/internal/middleware"
	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/service"
	"github.com/ronilson-users/backend-work-v2/pkg/response"
)

type ContractHandler struct {
	contracts *service.ContractService
	lifecycle *service.Lifecycle
	validator *validator.Validate
}

func NewContractHandler(contracts *service.ContractService, lifecycle *service.Lifecycle, v *validator.Validate) *ContractHandler {
	return &ContractHandler{contracts: contracts, lifecycle: lifecycle, validator: v}
}

// CreateFromJob handles POST /api/contracts/from-job/:jobId
func (h *ContractHandler) CreateFromJob(c *fiber.Ctx) error {
	contract, err := h.contracts.CreateFromJob(c.Context(), c.Params("jobId"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"message": "Contract created successfully", "contract": contract})
}

// Sign handles POST /api/contracts/:id/sign
func (h *ContractHandler) Sign(c *fiber.Ctx) error {
	var req model.SignContractRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if !req.Accept {
		return response.ValidationError(c, "Signature requires accepting the contract terms", nil)
	}

	contract, err := h.lifecycle.Sign(c.Context(), c.Params("id"), middleware.GetUserID(c), middleware.GetUserRole(c), c.IP())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": "Contract signed successfully", "contract": contract})
}

// Get handles GET /api/contracts/:id
func (h *ContractHandler) Get(c *fiber.Ctx) error {
	contract, err := h.contracts.GetByID(c.Context(), c.Params("id"), middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"contract": contract})
}

// My handles GET /api/contracts/my
func (h *ContractHandler) My(c *fiber.Ctx) error {
	status := model.ContractStatus(c.Query("status"))
	contracts, err := h.contracts.ListForUser(c.Context(), middleware.GetUserID(c), middleware.GetUserRole(c), status)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"contracts": contracts})
}

// UpdateStatus handles PATCH /api/contracts/:id/status
func (h *ContractHandler) UpdateStatus(c *fiber.Ctx) error {
	var req model.UpdateContractStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	contract, err := h.contracts.UpdateStatus(c.Context(), c.Params("id"), middleware.GetUserID(c), req.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": "Contract status updated", "contract": contract})
}
