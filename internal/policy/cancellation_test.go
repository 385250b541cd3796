package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

func TestValidateCancellable(t *testing.T) {
	tests := []struct {
		name    string
		status  model.JobStatus
		wantErr apperr.Kind
	}{
		{"open is cancellable", model.JobStatusOpen, ""},
		{"in_progress is cancellable", model.JobStatusInProgress, ""},
		{"already cancelled", model.JobStatusCancelled, apperr.KindConflict},
		{"completed", model.JobStatusCompleted, apperr.KindConflict},
		{"unknown status", model.JobStatus("archived"), apperr.KindFailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCancellable(tt.status)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, apperr.KindOf(err))
		})
	}
}

func TestDecideCancellation_OpenJobHasNoPenalty(t *testing.T) {
	d := DecideCancellation(model.JobStatusOpen, ActorCompany, 1, 1000)

	assert.Equal(t, OutcomeCancelled, d.Status)
	assert.Nil(t, d.PenaltyAmount)
	assert.Nil(t, d.RefundAmount)
}

func TestDecideCancellation_CompanyPenaltyTable(t *testing.T) {
	const budgetMin = 1000.0

	tests := []struct {
		name            string
		hoursUntilStart float64
		wantStatus      string
		wantPenalty     *float64
	}{
		{"30h before start", 30, OutcomeCancelled, nil},
		{"just over 24h", 24.01, OutcomeCancelled, nil},
		{"10h before start", 10, OutcomePenaltyApplied, ptr(100.0)},
		{"just over 2h", 2.01, OutcomePenaltyApplied, ptr(100.0)},
		{"exactly 2h", 2, OutcomePenaltyApplied, ptr(250.0)},
		{"1h before start", 1, OutcomePenaltyApplied, ptr(250.0)},
		{"already past start", -3, OutcomePenaltyApplied, ptr(250.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecideCancellation(model.JobStatusInProgress, ActorCompany, tt.hoursUntilStart, budgetMin)

			assert.Equal(t, tt.wantStatus, d.Status)
			if tt.wantPenalty == nil {
				assert.Nil(t, d.PenaltyAmount)
			} else {
				require.NotNil(t, d.PenaltyAmount)
				assert.InDelta(t, *tt.wantPenalty, *d.PenaltyAmount, 0.001)
			}
		})
	}
}

func TestDecideCancellation_PenaltyRoundsToCents(t *testing.T) {
	d := DecideCancellation(model.JobStatusInProgress, ActorCompany, 10, 333.33)

	require.NotNil(t, d.PenaltyAmount)
	assert.InDelta(t, 33.33, *d.PenaltyAmount, 0.001)
}

func TestDecideCancellation_WorkerHasNoMonetaryPenalty(t *testing.T) {
	tests := []struct {
		name            string
		hoursUntilStart float64
		wantStatus      string
	}{
		{"30h before start", 30, OutcomeCancelled},
		{"10h before start", 10, OutcomePenaltyApplied},
		{"1h before start", 1, OutcomePenaltyApplied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecideCancellation(model.JobStatusInProgress, ActorWorker, tt.hoursUntilStart, 1000)

			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Nil(t, d.PenaltyAmount)
			assert.Nil(t, d.RefundAmount)
		})
	}
}

func ptr(v float64) *float64 { return &v }
