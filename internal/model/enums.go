package model

// JobStatus is the lifecycle status of a job posting.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether no transition may leave the status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// WorkType distinguishes single-location jobs from multi-stop routes.
type WorkType string

const (
	WorkTypeSingleLocation WorkType = "single_location"
	WorkTypeRoute          WorkType = "multi_location_route"
)

// CompensationType drives the checkout amount calculation.
type CompensationType string

const (
	CompensationHourly CompensationType = "hourly"
	CompensationDaily  CompensationType = "daily"
	CompensationFixed  CompensationType = "fixed"
)

// PaymentSchedule is when contracted compensation is due.
type PaymentSchedule string

const (
	PaymentWeekly       PaymentSchedule = "weekly"
	PaymentBiweekly     PaymentSchedule = "biweekly"
	PaymentMonthly      PaymentSchedule = "monthly"
	PaymentOnCompletion PaymentSchedule = "on_completion"
)

// ContractStatus is the contract lifecycle status.
type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
	ContractStatusDisputed  ContractStatus = "disputed"
)

// Terminal reports whether the contract status accepts no further change.
func (s ContractStatus) Terminal() bool {
	switch s {
	case ContractStatusCompleted, ContractStatusCancelled, ContractStatusDisputed:
		return true
	}
	return false
}

// SessionStatus is the work-session lifecycle status.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// PaymentStatus tracks company confirmation of a completed session.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
)

// StopStatus is the per-stop status inside a route session.
type StopStatus string

const (
	StopStatusPending    StopStatus = "pending"
	StopStatusInProgress StopStatus = "in_progress"
	StopStatusCompleted  StopStatus = "completed"
)

// RouteStatus is the aggregate route progress status.
type RouteStatus string

const (
	RouteStatusNotStarted RouteStatus = "not_started"
	RouteStatusInProgress RouteStatus = "in_progress"
	RouteStatusCompleted  RouteStatus = "completed"
)

// Role is the authenticated actor role.
type Role string

const (
	RoleWorker  Role = "worker"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)
