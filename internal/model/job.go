package model

import "time"

// Budget is the posted pay range for a job. Max must be >= Min.
type Budget struct {
	Min      float64          `json:"min" validate:"min=0"`
	Max      float64          `json:"max"`
	Type     CompensationType `json:"type" validate:"omitempty,oneof=hourly daily fixed"`
	Currency string           `json:"currency"`
}

// DateRange is the scheduled work window. End must be after Start and,
// on creation, Start must be in the future.
type DateRange struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// Coordinates is a geographic point attached to locations and checks.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is one ordered stop of a multi-location route job.
type Location struct {
	Sequence          int          `json:"sequence"`
	Name              string       `json:"name" validate:"required"`
	Address           string       `json:"address" validate:"required"`
	Coordinates       *Coordinates `json:"coordinates,omitempty"`
	ScheduledTime     *time.Time   `json:"scheduledTime,omitempty"`
	EstimatedDuration *float64     `json:"estimatedDuration,omitempty"`
}

// Job is a posted work opportunity owned by a company.
type Job struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Company        Ref        `json:"company"`
	Location       string     `json:"location"`
	RequiredSkills []string   `json:"requiredSkills"`
	Budget         Budget     `json:"budget"`
	Duration       string     `json:"duration"`
	WorkType       WorkType   `json:"workType"`
	Locations      []Location `json:"locations,omitempty"`
	Status         JobStatus  `json:"status"`
	Dates          DateRange  `json:"dates"`
	Applicants     []Ref      `json:"applicants"`
	SelectedWorker Ref        `json:"selectedWorker,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// HasApplicant reports whether the worker already applied.
func (j *Job) HasApplicant(workerID string) bool {
	for _, a := range j.Applicants {
		if a.Is(workerID) {
			return true
		}
	}
	return false
}

// CreateJobRequest is the company-facing job creation payload.
type CreateJobRequest struct {
	Title          string     `json:"title" validate:"required,min=5,max=100"`
	Description    string     `json:"description" validate:"required,min=10,max=2000"`
	Location       string     `json:"location" validate:"required,max=200"`
	RequiredSkills []string   `json:"requiredSkills" validate:"required,min=1,max=20"`
	Budget         Budget     `json:"budget" validate:"required"`
	Duration       string     `json:"duration" validate:"required,max=50"`
	WorkType       WorkType   `json:"workType" validate:"omitempty,oneof=single_location multi_location_route"`
	Locations      []Location `json:"locations" validate:"omitempty,dive"`
	Dates          DateRange  `json:"dates" validate:"required"`
}

// UpdateJobRequest carries optional fields; nil means leave unchanged.
type UpdateJobRequest struct {
	Title          *string    `json:"title" validate:"omitempty,min=5,max=100"`
	Description    *string    `json:"description" validate:"omitempty,min=10,max=2000"`
	Location       *string    `json:"location" validate:"omitempty,max=200"`
	RequiredSkills []string   `json:"requiredSkills" validate:"omitempty,min=1,max=20"`
	Duration       *string    `json:"duration" validate:"omitempty,max=50"`
	Budget         *Budget    `json:"budget"`
	Dates          *DateRange `json:"dates"`
}

// SelectWorkerRequest picks an applicant for the job.
type SelectWorkerRequest struct {
	WorkerID string `json:"workerId" validate:"required"`
}

// CancelJobRequest initiates the cancellation-policy evaluation.
type CancelJobRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// JobFilters is the composable read-only filter set for job search.
type JobFilters struct {
	Status    string
	Location  string
	Skills    []string
	MinBudget *float64
	MaxBudget *float64
	StartDate *time.Time
	EndDate   *time.Time
}

// JobPage is one page of filtered jobs plus the total match count.
type JobPage struct {
	Jobs  []*Job `json:"jobs"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}
