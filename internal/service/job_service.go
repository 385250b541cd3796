package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/policy"
	"github.com/ronilson-users/backend-work-v2/internal/store"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

// JobService owns job lifecycle transitions: open -> in_progress ->
// completed/cancelled, with open -> cancelled as the direct
// no-penalty path. Completed and cancelled are terminal.
type JobService struct {
	jobs  store.JobStore
	users store.UserStore
	now   func() time.Time
	newID func() string
}

func NewJobService(jobs store.JobStore, users store.UserStore) *JobService {
	return &JobService{
		jobs:  jobs,
		users: users,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Create posts a new job for the company.
func (s *JobService) Create(ctx context.Context, companyID string, req *model.CreateJobRequest) (*model.Job, error) {
	now := s.now()

	if req.Budget.Max < req.Budget.Min {
		return nil, apperr.Validation("maximum budget must be greater than or equal to minimum budget")
	}
	if !req.Dates.End.After(req.Dates.Start) {
		return nil, apperr.Validation("end date must be after start date")
	}
	if !req.Dates.Start.After(now) {
		return nil, apperr.Validation("start date must be in the future")
	}

	workType := req.WorkType
	if workType == "" {
		workType = model.WorkTypeSingleLocation
	}
	switch workType {
	case model.WorkTypeRoute:
		if len(req.Locations) == 0 {
			return nil, apperr.Validation("multi-location route jobs require at least one location")
		}
	case model.WorkTypeSingleLocation:
		if len(req.Locations) > 0 {
			return nil, apperr.Validation("location list is only allowed for multi-location route jobs")
		}
	}

	budget := req.Budget
	if budget.Type == "" {
		budget.Type = model.CompensationHourly
	}
	if budget.Currency == "" {
		budget.Currency = "BRL"
	}

	locations := make([]model.Location, len(req.Locations))
	for i, loc := range req.Locations {
		loc.Sequence = i
		locations[i] = loc
	}

	job := &model.Job{
		ID:             s.newID(),
		Title:          req.Title,
		Description:    req.Description,
		Company:        model.NewRef(companyID),
		Location:       req.Location,
		RequiredSkills: req.RequiredSkills,
		Budget:         budget,
		Duration:       req.Duration,
		WorkType:       workType,
		Locations:      locations,
		Status:         model.JobStatusOpen,
		Dates:          req.Dates,
		Applicants:     []model.Ref{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetByID loads one job.
func (s *JobService) GetByID(ctx context.Context, jobID string) (*model.Job, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// ListByCompany lists the company's own postings, newest first.
func (s *JobService) ListByCompany(ctx context.Context, companyID string) ([]*model.Job, error) {
	jobs, err := s.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	sortJobsByCreatedDesc(jobs)
	return jobs, nil
}

// Update edits an open posting. Only the owner may edit and terminal
// jobs are frozen.
func (s *JobService) Update(ctx context.Context, jobID, companyID string, req *model.UpdateJobRequest) (*model.Job, error) {
	return s.jobs.Update(ctx, jobID, func(job *model.Job) error {
		if !job.Company.Is(companyID) {
			return apperr.Forbidden("only the job owner can update this job")
		}
		if job.Status.Terminal() {
			return apperr.Conflict("cannot update a %s job", job.Status)
		}
		if req.Title != nil {
			job.Title = *req.Title
		}
		if req.Description != nil {
			job.Description = *req.Description
		}
		if req.Location != nil {
			job.Location = *req.Location
		}
		if req.RequiredSkills != nil {
			job.RequiredSkills = req.RequiredSkills
		}
		if req.Duration != nil {
			job.Duration = *req.Duration
		}
		if req.Budget != nil {
			if req.Budget.Max < req.Budget.Min {
				return apperr.Validation("maximum budget must be greater than or equal to minimum budget")
			}
			job.Budget = *req.Budget
		}
		if req.Dates != nil {
			if !req.Dates.End.After(req.Dates.Start) {
				return apperr.Validation("end date must be after start date")
			}
			job.Dates = *req.Dates
		}
		job.UpdatedAt = s.now()
		return nil
	})
}

// Apply adds a worker to the applicant set. Duplicate applications are
// rejected, not silently ignored.
func (s *JobService) Apply(ctx context.Context, jobID, workerID string) (*model.Job, error) {
	return s.jobs.Update(ctx, jobID, func(job *model.Job) error {
		if job.Status != model.JobStatusOpen {
			return apperr.Conflict("job is not accepting applications")
		}
		if job.HasApplicant(workerID) {
			return apperr.Conflict("worker has already applied to this job")
		}
		job.Applicants = append(job.Applicants, model.NewRef(workerID))
		job.UpdatedAt = s.now()
		return nil
	})
}

// SelectWorker picks an applicant and moves the job to in_progress.
func (s *JobService) SelectWorker(ctx context.Context, jobID, workerID, companyID string) (*model.Job, error) {
	return s.jobs.Update(ctx, jobID, func(job *model.Job) error {
		if !job.Company.Is(companyID) {
			return apperr.Forbidden("only the job owner can select a worker")
		}
		if !job.HasApplicant(workerID) {
			return apperr.FailedPrecondition("worker has not applied to this job")
		}
		if job.Status != model.JobStatusOpen {
			return apperr.FailedPrecondition("cannot select a worker for a job that is not open")
		}
		job.SelectedWorker = model.NewRef(workerID)
		job.Status = model.JobStatusInProgress
		job.UpdatedAt = s.now()
		return nil
	})
}

// CancellationRequest initiates the cancellation flow.
type CancellationRequest struct {
	JobID       string
	InitiatedBy policy.Actor
	Reason      string
	UserID      string
}

// Cancel validates permission, delegates the status check and the
// penalty table to the policy engine, and cancels the job atomically.
// The decision is returned without mutating anything else: no cascade
// to the contract or to active sessions.
func (s *JobService) Cancel(ctx context.Context, req CancellationRequest) (*policy.Decision, error) {
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	var decision policy.Decision
	_, err := s.jobs.Update(ctx, req.JobID, func(job *model.Job) error {
		switch req.InitiatedBy {
		case policy.ActorCompany:
			if !job.Company.Is(req.UserID) {
				return apperr.Forbidden("only the job owner can cancel this job")
			}
		case policy.ActorWorker:
			if !job.SelectedWorker.Is(req.UserID) {
				return apperr.Forbidden("only the selected worker can cancel this job")
			}
		default:
			return apperr.Forbidden("cancellation initiator must be the company or the selected worker")
		}

		if err := policy.ValidateCancellable(job.Status); err != nil {
			return err
		}

		hoursUntilStart := job.Dates.Start.Sub(s.now()).Hours()
		decision = policy.DecideCancellation(job.Status, req.InitiatedBy, hoursUntilStart, job.Budget.Min)

		job.Status = model.JobStatusCancelled
		job.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

// Find composes the read-only filter set and returns one page plus the
// total match count.
func (s *JobService) Find(ctx context.Context, filters model.JobFilters, page, limit int) (*model.JobPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	all, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*model.Job, 0, len(all))
	for _, job := range all {
		if matchesFilters(job, filters) {
			matched = append(matched, job)
		}
	}
	sortJobsByCreatedDesc(matched)

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &model.JobPage{
		Jobs:  matched[start:end],
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// matchesFilters composes equality, case-insensitive substring, range,
// and set-membership predicates.
func matchesFilters(job *model.Job, f model.JobFilters) bool {
	if f.Status != "" && string(job.Status) != f.Status {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(f.Location)) {
		return false
	}
	if len(f.Skills) > 0 && !hasAnySkill(job.RequiredSkills, f.Skills) {
		return false
	}
	if f.MinBudget != nil && job.Budget.Max < *f.MinBudget {
		return false
	}
	if f.MaxBudget != nil && job.Budget.Min > *f.MaxBudget {
		return false
	}
	if f.StartDate != nil && job.Dates.Start.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && job.Dates.End.After(*f.EndDate) {
		return false
	}
	return true
}

func hasAnySkill(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func sortJobsByCreatedDesc(jobs []*model.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
}
