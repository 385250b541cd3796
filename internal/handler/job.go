package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ronilson-users/backend-work-v2/internal/middleware"
	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/policy"
	"github.com/ronilson-users/backend-work-v2/internal/service"
	"github.com/ronilson-users/backend-work-v2/pkg/response"
)

type JobHandler struct {
	jobs      *service.JobService
	lifecycle *service.Lifecycle
	validator *validator.Validate
}

func NewJobHandler(jobs *service.JobService, lifecycle *service.Lifecycle, v *validator.Validate) *JobHandler {
	return &JobHandler{jobs: jobs, lifecycle: lifecycle, validator: v}
}

// Create handles POST /api/jobs
func (h *JobHandler) Create(c *fiber.Ctx) error {
	var req model.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	job, err := h.jobs.Create(c.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, fiber.Map{"message": "Job created successfully", "job": job})
}

// List handles GET /api/jobs
func (h *JobHandler) List(c *fiber.Ctx) error {
	filters := model.JobFilters{
		Status:    c.Query("status"),
		Location:  c.Query("location"),
		Skills:    queryList(c, "skills"),
		MinBudget: queryFloat(c, "minBudget"),
		MaxBudget: queryFloat(c, "maxBudget"),
		StartDate: queryTime(c, "startDate"),
		EndDate:   queryTime(c, "endDate"),
	}

	page, err := h.jobs.Find(c.Context(), filters, queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, page)
}

// Get handles GET /api/jobs/:id
func (h *JobHandler) Get(c *fiber.Ctx) error {
	job, err := h.jobs.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"job": job})
}

// Update handles PUT /api/jobs/:id
func (h *JobHandler) Update(c *fiber.Ctx) error {
	var req model.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	job, err := h.jobs.Update(c.Context(), c.Params("id"), middleware.GetUserID(c), &req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": "Job updated successfully", "job": job})
}

// Apply handles POST /api/jobs/:id/apply
func (h *JobHandler) Apply(c *fiber.Ctx) error {
	job, err := h.lifecycle.Apply(c.Context(), c.Params("id"), middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": "Application successful", "job": job})
}

// MyCompanyJobs handles GET /api/jobs/company/my
func (h *JobHandler) MyCompanyJobs(c *fiber.Ctx) error {
	jobs, err := h.jobs.ListByCompany(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"jobs": jobs})
}

// SelectWorker handles PATCH /api/jobs/:id/select-worker
func (h *JobHandler) SelectWorker(c *fiber.Ctx) error {
	var req model.SelectWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	job, contract, err := h.lifecycle.SelectWorker(c.Context(), c.Params("id"), req.WorkerID, middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{
		"message":  "Worker selected successfully",
		"job":      job,
		"contract": contract,
	})
}

// Cancel handles PATCH /api/jobs/:id/cancel
func (h *JobHandler) Cancel(c *fiber.Ctx) error {
	var req model.CancelJobRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	initiatedBy := policy.ActorWorker
	if middleware.GetUserRole(c) == model.RoleCompany {
		initiatedBy = policy.ActorCompany
	}

	decision, err := h.lifecycle.Cancel(c.Context(), service.CancellationRequest{
		JobID:       c.Params("id"),
		InitiatedBy: initiatedBy,
		Reason:      req.Reason,
		UserID:      middleware.GetUserID(c),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.OK(c, fiber.Map{"message": "Job cancellation processed", "decision": decision})
}
