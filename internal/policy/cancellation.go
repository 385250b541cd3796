// Package policy computes cancellation and compensation outcomes from
// time deltas and actor role. Pure functions, no side effects; the job
// service applies the resulting decision.
package policy

import (
	"math"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

// Actor identifies who initiated a cancellation.
type Actor string

const (
	ActorCompany Actor = "company"
	ActorWorker  Actor = "worker"
)

// Decision outcome tags, preserved from the existing wire format.
const (
	OutcomeCancelled      = "cancelled"
	OutcomePenaltyApplied = "penalty_applied"
	OutcomeRefundRequired = "refund_required"
)

// Decision is the cancellation outcome returned to the caller.
type Decision struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	RefundAmount  *float64 `json:"refundAmount,omitempty"`
	PenaltyAmount *float64 `json:"penaltyAmount,omitempty"`
	Details       string   `json:"details"`
}

// Timing thresholds (hours before scheduled start) and penalty rates.
const (
	freeWindowHours = 24
	lateWindowHours = 2

	companyLatePenaltyRate       = 0.10
	companyLastMinutePenaltyRate = 0.25
)

// ValidateCancellable rejects jobs whose status admits no cancellation.
// Terminal statuses are a Conflict; anything else outside
// open/in_progress is a failed precondition.
func ValidateCancellable(status model.JobStatus) error {
	switch status {
	case model.JobStatusCancelled:
		return apperr.Conflict("job is already cancelled")
	case model.JobStatusCompleted:
		return apperr.Conflict("cannot cancel a completed job")
	case model.JobStatusOpen, model.JobStatusInProgress:
		return nil
	default:
		return apperr.FailedPrecondition("job cannot be cancelled in its current status")
	}
}

// DecideCancellation evaluates the penalty table. hoursUntilStart is
// the signed distance to the scheduled start; budgetMin is the base for
// monetary penalties. The function assumes ValidateCancellable passed.
func DecideCancellation(status model.JobStatus, initiatedBy Actor, hoursUntilStart, budgetMin float64) Decision {
	if status == model.JobStatusOpen {
		return Decision{
			Status:  OutcomeCancelled,
			Message: "Job cancelled successfully",
			Details: "No penalties applied",
		}
	}

	if initiatedBy == ActorCompany {
		switch {
		case hoursUntilStart > freeWindowHours:
			return Decision{
				Status:  OutcomeCancelled,
				Message: "No penalty",
				Details: "Cancelled more than 24h before start",
			}
		case hoursUntilStart > lateWindowHours:
			amount := penalty(budgetMin, companyLatePenaltyRate)
			return Decision{
				Status:        OutcomePenaltyApplied,
				Message:       "10% penalty",
				PenaltyAmount: &amount,
				Details:       "Cancelled 2-24h before start",
			}
		default:
			amount := penalty(budgetMin, companyLastMinutePenaltyRate)
			return Decision{
				Status:        OutcomePenaltyApplied,
				Message:       "25% penalty",
				PenaltyAmount: &amount,
				Details:       "Cancelled less than 2h before start",
			}
		}
	}

	// Worker-initiated cancellation carries reputation impact instead
	// of a monetary penalty.
	switch {
	case hoursUntilStart > freeWindowHours:
		return Decision{
			Status:  OutcomeCancelled,
			Message: "No penalty",
			Details: "Worker cancelled more than 24h before start",
		}
	case hoursUntilStart > lateWindowHours:
		return Decision{
			Status:  OutcomePenaltyApplied,
			Message: "Rating impacted",
			Details: "Worker cancelled 2-24h before start",
		}
	default:
		return Decision{
			Status:  OutcomePenaltyApplied,
			Message: "Significant rating impact",
			Details: "Worker cancelled less than 2h before start",
		}
	}
}

// penalty applies a percentage to the base amount, rounded to cents.
func penalty(base, rate float64) float64 {
	return math.Round(base*rate*100) / 100
}
