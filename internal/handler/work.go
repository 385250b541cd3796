package handler

import (
	"bytes"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ronilson-users/backend-work-v2/internal/client"
	"github.com/ronilson-users/backend-work-v2/internal/middleware"
	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/service"
	"github.com/ronilson-users/backend-work-v2/pkg/response"
)

type WorkHandler struct {
	work      *service.WorkService
	routes    *service.RouteService
	lifecycle *service.Lifecycle
	storage   client.StorageClient
	validator *validator.Validate
}

func NewWorkHandler(work *service.WorkService, routes *service.RouteService, lifecycle *service.Lifecycle, storage client.StorageClient, v *validator.Validate) *WorkHandler {
	return &WorkHandler{work: work, routes: routes, lifecycle: lifecycle, storage: storage, validator: v}
}

// CheckIn handles POST /api/work/contracts/:contractId/check-in
func (h *WorkHandler) CheckIn(c *fiber.Ctx) error {
	var req model.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	session, err := h.work.CheckIn(c.Context(), c.Params("contractId"), middleware.GetUserID(c), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"message": "Check-in registered", "session": session})
}

// CheckOut handles POST /api/work/sessions/:id/check-out
func (h *WorkHandler) CheckOut(c *fiber.Ctx) error {
	var req model.CheckOutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	session, err := h.work.CheckOut(c.Context(), c.Params("id"), middleware.GetUserID(c), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": "Check-out registered", "session": session})
}

// ConfirmSession handles PATCH /api/work/sessions/:id/confirm
func (h *WorkHandler) ConfirmSession(c *fiber.Ctx) error {
	session, err := h.lifecycle.ConfirmSession(c.Context(), c.Params("id"), middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": "Session confirmed", "session": session})
}

// GetSession handles GET /api/work/sessions/:id
func (h *WorkHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.work.GetSession(c.Context(), c.Params("id"), middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"session": session})
}

// MySessions handles GET /api/work/sessions/my
func (h *WorkHandler) MySessions(c *fiber.Ctx) error {
	filters := model.SessionFilters{
		ContractID: c.Query("contractId"),
		Status:     c.Query("status"),
		StartDate:  queryTime(c, "startDate"),
		EndDate:    queryTime(c, "endDate"),
	}

	userID := middleware.GetUserID(c)
	var (
		sessions []*model.WorkSession
		err      error
	)
	if middleware.GetUserRole(c) == model.RoleCompany {
		sessions, err = h.work.ListForCompany(c.Context(), userID, filters)
	} else {
		sessions, err = h.work.ListForWorker(c.Context(), userID, filters)
	}
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"sessions": sessions})
}

// Stats handles GET /api/work/stats
func (h *WorkHandler) Stats(c *fiber.Ctx) error {
	filters := model.SessionFilters{
		ContractID: c.Query("contractId"),
		StartDate:  queryTime(c, "startDate"),
		EndDate:    queryTime(c, "endDate"),
	}

	stats, err := h.work.Stats(c.Context(), middleware.GetUserID(c), middleware.GetUserRole(c), filters)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"stats": stats})
}

// UploadPhoto handles POST /api/work/contracts/:contractId/photos.
// The payload carries the image as a base64 data URI, matching the
// mobile client capture flow.
func (h *WorkHandler) UploadPhoto(c *fiber.Ctx) error {
	if h.storage == nil {
		return response.ServiceError(c, "Photo storage is not configured")
	}

	var req struct {
		Kind string `json:"kind"`
		Data string `json:"data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if req.Kind != "check_in" && req.Kind != "check_out" {
		return response.ValidationError(c, "kind must be check_in or check_out", nil)
	}

	mimeType, raw, ok := decodeDataURI(req.Data)
	if !ok {
		return response.ValidationError(c, "data must be a base64 image data URI", nil)
	}

	key := client.WorkPhotoKey(middleware.GetUserID(c), c.Params("contractId"), req.Kind, mimeType)
	url, err := h.storage.Upload(c.Context(), key, bytes.NewReader(raw), mimeType)
	if err != nil {
		return response.ServiceError(c, "Failed to store photo")
	}
	return response.Created(c, fiber.Map{"url": url, "key": key, "size": len(raw)})
}

// CreateRouteSession handles POST /api/work/contracts/:contractId/route
func (h *WorkHandler) CreateRouteSession(c *fiber.Ctx) error {
	var req model.CreateRouteSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	session, err := h.routes.CreateRouteSession(c.Context(), c.Params("contractId"), middleware.GetUserID(c), req.JobID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"message": "Route session created", "session": session})
}

// CheckInLocation handles POST /api/work/sessions/:id/locations/:index/check-in
func (h *WorkHandler) CheckInLocation(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 {
		return response.ValidationError(c, "Location index must be a non-negative integer", nil)
	}

	var req model.StopCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	session, err := h.routes.CheckInLocation(c.Context(), c.Params("id"), middleware.GetUserID(c), index, &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": "Location check-in registered", "session": session})
}

// CheckOutLocation handles POST /api/work/sessions/:id/locations/:index/check-out
func (h *WorkHandler) CheckOutLocation(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 {
		return response.ValidationError(c, "Location index must be a non-negative integer", nil)
	}

	var req model.StopCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.routes.CheckOutLocation(c.Context(), c.Params("id"), middleware.GetUserID(c), index, &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{
		"message":         "Location check-out registered",
		"session":         result.Session,
		"nextLocation":    result.NextLocation,
		"isRouteComplete": result.IsRouteComplete,
	})
}

// decodeDataURI extracts the mime type and decoded bytes of a base64
// data URI. Bare base64 payloads default to image/jpeg.
func decodeDataURI(data string) (string, []byte, bool) {
	mimeType := "image/jpeg"
	payload := data
	if strings.HasPrefix(data, "data:") {
		semi := strings.Index(data, ";base64,")
		if semi < 0 {
			return "", nil, false
		}
		mimeType = data[len("data:"):semi]
		payload = data[semi+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(raw) == 0 {
		return "", nil, false
	}
	return mimeType, raw, true
}
