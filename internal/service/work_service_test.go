package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

// activeContract seeds a signed, active contract for worker-1 on a
// single-location job with the given compensation.
func activeContract(t *testing.T, f *fixture, comp model.CompensationType, amount float64) *model.Contract {
	t.Helper()
	ctx := context.Background()

	req := f.createJobRequest()
	req.Budget = model.Budget{Min: amount, Max: amount * 2, Type: comp, Currency: "BRL"}
	job, err := f.jobSvc.Create(ctx, "company-1", req)
	require.NoError(t, err)
	_, err = f.jobSvc.Apply(ctx, job.ID, "worker-1")
	require.NoError(t, err)
	_, err = f.jobSvc.SelectWorker(ctx, job.ID, "worker-1", "company-1")
	require.NoError(t, err)

	contract, err := f.contractSvc.CreateFromJob(ctx, job.ID)
	require.NoError(t, err)
	_, err = f.contractSvc.Sign(ctx, contract.ID, "worker-1", model.RoleWorker, "10.0.0.1")
	require.NoError(t, err)
	contract, err = f.contractSvc.Sign(ctx, contract.ID, "company-1", model.RoleCompany, "10.0.0.1")
	require.NoError(t, err)
	return contract
}

func TestWorkCheckIn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	contract := activeContract(t, f, model.CompensationHourly, 50)

	session, err := f.workSvc.CheckIn(ctx, contract.ID, "worker-1", &model.CheckInRequest{
		Location: "Warehouse gate 3",
		Photos:   []string{"https://cdn.example.com/p1.jpg"},
		Notes:    "arrived",
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionStatusActive, session.Status)
	assert.Equal(t, model.PaymentStatusPending, session.PaymentStatus)
	assert.True(t, session.Contract.Is(contract.ID))
	assert.True(t, session.Worker.Is("worker-1"))
	assert.True(t, session.Company.Is("company-1"))
	require.NotNil(t, session.CheckIn)
	assert.Equal(t, "Warehouse gate 3", session.CheckIn.Location)
	require.Len(t, session.CheckIn.Photos, 1)
	assert.Nil(t, session.CheckOut)
}

func TestWorkCheckIn_OnlyContractWorker(t *testing.T) {
	f := newFixture()
	contract := activeContract(t, f, model.CompensationHourly, 50)

	_, err := f.workSvc.CheckIn(context.Background(), contract.ID, "worker-9", &model.CheckInRequest{Location: "gate"})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestWorkCheckIn_RouteJobsRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := f.createJobRequest()
	req.WorkType = model.WorkTypeRoute
	req.Locations = []model.Location{{Name: "A", Address: "Street 1"}}
	job, err := f.jobSvc.Create(ctx, "company-1", req)
	require.NoError(t, err)
	_, err = f.jobSvc.Apply(ctx, job.ID, "worker-1")
	require.NoError(t, err)
	_, err = f.jobSvc.SelectWorker(ctx, job.ID, "worker-1", "company-1")
	require.NoError(t, err)
	contract, err := f.contractSvc.CreateFromJob(ctx, job.ID)
	require.NoError(t, err)

	_, err = f.workSvc.CheckIn(ctx, contract.ID, "worker-1", &model.CheckInRequest{Location: "gate"})
	assert.Equal(t, apperr.KindFailedPrecondition, apperr.KindOf(err))
}

func TestWorkCheckOut_RouteSessionsRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	contract := routeContract(t, f, "Depot", "Mall")

	session, err := f.routeSvc.CreateRouteSession(ctx, contract.ID, "worker-1", contract.Job.ID())
	require.NoError(t, err)

	_, err = f.workSvc.CheckOut(ctx, session.ID, "worker-1", &model.CheckOutRequest{Location: "gate", HoursWorked: 8})
	assert.Equal(t, apperr.KindFailedPrecondition, apperr.KindOf(err))

	// the stop machine remains the only way to close the route
	session, err = f.workSvc.GetSession(ctx, session.ID, "worker-1")
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusActive, session.Status)
	assert.Nil(t, session.CheckOut)
	assert.Equal(t, model.RouteStatusNotStarted, session.RouteProgress.RouteStatus)
	assert.Zero(t, session.CalculatedAmount)
}

func TestWorkCheckOut(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	contract := activeContract(t, f, model.CompensationHourly, 50)

	session, err := f.workSvc.CheckIn(ctx, contract.ID, "worker-1", &model.CheckInRequest{Location: "gate"})
	require.NoError(t, err)
	f.advance(8 * time.Hour)

	session, err = f.workSvc.CheckOut(ctx, session.ID, "worker-1", &model.CheckOutRequest{
		Location:    "gate",
		HoursWorked: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionStatusCompleted, session.Status)
	require.NotNil(t, session.CheckOut)
	assert.Equal(t, 8.0, session.CheckOut.HoursWorked)
	assert.InDelta(t, 400, session.CalculatedAmount, 0.001)

	t.Run("second check-out rejected", func(t *testing.T) {
		_, err := f.workSvc.CheckOut(ctx, session.ID, "worker-1", &model.CheckOutRequest{Location: "gate", HoursWorked: 1})
		assert.Equal(t, apperr.KindFailedPrecondition, apperr.KindOf(err))
	})
}

func TestWorkCheckOut_OnlySessionWorker(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	contract := activeContract(t, f, model.CompensationHourly, 50)
	session, err := f.workSvc.CheckIn(ctx, contract.ID, "worker-1", &model.CheckInRequest{Location: "gate"})
	require.NoError(t, err)

	_, err = f.workSvc.CheckOut(ctx, session.ID, "company-1", &model.CheckOutRequest{Location: "gate", HoursWorked: 8})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestCalculateAmount(t *testing.T) {
	tests := []struct {
		name  string
		comp  model.Compensation
		hours float64
		want  float64
	}{
		{"hourly", model.Compensation{Type: model.CompensationHourly, Amount: 50}, 8, 400},
		{"daily assumes 8h day", model.Compensation{Type: model.CompensationDaily, Amount: 240}, 4, 120},
		{"daily full day", model.Compensation{Type: model.CompensationDaily, Amount: 240}, 8, 240},
		{"fixed ignores hours", model.Compensation{Type: model.CompensationFixed, Amount: 1000}, 3, 1000},
		{"unset type falls back to hourly", model.Compensation{Amount: 10}, 2, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calculateAmount(tt.hours, tt.comp), 0.001)
		})
	}
}

func TestWorkConfirmSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	contract := activeContract(t, f, model.CompensationHourly, 50)
	session, err := f.workSvc.CheckIn(ctx, contract.ID, "worker-1", &model.CheckInRequest{Location: "gate"})
	require.NoError(t, err)

	t.Run("active session cannot be confirmed", func(t *testing.T) {
		_, err := f.workSvc.ConfirmSession(ctx, session.ID, "company-1")
		assert.Equal(t, apperr.KindFailedPrecondition, apperr.KindOf(err))
	})

	_, err = f.workSvc.CheckOut(ctx, session.ID, "worker-1", &model.CheckOutRequest{Location: "gate", HoursWorked: 8})
	require.NoError(t, err)

	t.Run("only the company confirms", func(t *testing.T) {
		_, err := f.workSvc.ConfirmSession(ctx, session.ID, "worker-1")
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("confirmation marks payable", func(t *testing.T) {
		confirmed, err := f.workSvc.ConfirmSession(ctx, session.ID, "company-1")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusConfirmed, confirmed.PaymentStatus)
	})

	t.Run("re-confirmation is a no-op", func(t *testing.T) {
		confirmed, err := f.workSvc.ConfirmSession(ctx, session.ID, "company-1")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusConfirmed, confirmed.PaymentStatus)
	})
}

func TestWorkGetSession_PartiesOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	contract := activeContract(t, f, model.CompensationHourly, 50)
	session, err := f.workSvc.CheckIn(ctx, contract.ID, "worker-1", &model.CheckInRequest{Location: "gate"})
	require.NoError(t, err)

	_, err = f.workSvc.GetSession(ctx, session.ID, "worker-1")
	assert.NoError(t, err)
	_, err = f.workSvc.GetSession(ctx, session.ID, "company-1")
	assert.NoError(t, err)
	_, err = f.workSvc.GetSession(ctx, session.ID, "stranger")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestWorkStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	contract := activeContract(t, f, model.CompensationHourly, 50)

	// two completed sessions, one confirmed, one still active
	for i := 0; i < 2; i++ {
		session, err := f.workSvc.CheckIn(ctx, contract.ID, "worker-1", &model.CheckInRequest{Location: "gate"})
		require.NoError(t, err)
		_, err = f.workSvc.CheckOut(ctx, session.ID, "worker-1", &model.CheckOutRequest{Location: "gate", HoursWorked: 4})
		require.NoError(t, err)
		if i == 0 {
			_, err = f.workSvc.ConfirmSession(ctx, session.ID, "company-1")
			require.NoError(t, err)
		}
		f.advance(24 * time.Hour)
	}
	_, err := f.workSvc.CheckIn(ctx, contract.ID, "worker-1", &model.CheckInRequest{Location: "gate"})
	require.NoError(t, err)

	stats, err := f.workSvc.Stats(ctx, "worker-1", model.RoleWorker, model.SessionFilters{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 2, stats.CompletedSessions)
	assert.Equal(t, 1, stats.ConfirmedSessions)
	assert.InDelta(t, 8, stats.TotalHours, 0.001)
	assert.InDelta(t, 400, stats.TotalAmount, 0.001)

	companyStats, err := f.workSvc.Stats(ctx, "company-1", model.RoleCompany, model.SessionFilters{})
	require.NoError(t, err)
	assert.Equal(t, stats.TotalSessions, companyStats.TotalSessions)
}

func TestWorkListFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	contract := activeContract(t, f, model.CompensationHourly, 50)

	first, err := f.workSvc.CheckIn(ctx, contract.ID, "worker-1", &model.CheckInRequest{Location: "gate"})
	require.NoError(t, err)
	_, err = f.workSvc.CheckOut(ctx, first.ID, "worker-1", &model.CheckOutRequest{Location: "gate", HoursWorked: 4})
	require.NoError(t, err)

	f.advance(48 * time.Hour)
	second, err := f.workSvc.CheckIn(ctx, contract.ID, "worker-1", &model.CheckInRequest{Location: "gate"})
	require.NoError(t, err)

	t.Run("status filter", func(t *testing.T) {
		sessions, err := f.workSvc.ListForWorker(ctx, "worker-1", model.SessionFilters{Status: string(model.SessionStatusActive)})
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, second.ID, sessions[0].ID)
	})

	t.Run("date range filter", func(t *testing.T) {
		cutoff := f.now.Add(-24 * time.Hour)
		sessions, err := f.workSvc.ListForWorker(ctx, "worker-1", model.SessionFilters{StartDate: &cutoff})
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, second.ID, sessions[0].ID)
	})

	t.Run("newest first", func(t *testing.T) {
		sessions, err := f.workSvc.ListForWorker(ctx, "worker-1", model.SessionFilters{})
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, second.ID, sessions[0].ID)
		assert.Equal(t, first.ID, sessions[1].ID)
	})
}

func TestConvertWorkPhotos(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	photos := convertWorkPhotos([]string{
		"https://cdn.example.com/p1.jpg",
		"data:image/png;base64,aGVsbG8gd29ybGQ=",
	}, "check-in", now)

	require.Len(t, photos, 2)
	assert.Equal(t, "image/jpeg", photos[0].Metadata.MimeType)
	assert.Equal(t, int64(500000), photos[0].Metadata.Size)
	assert.Equal(t, "image/png", photos[1].Metadata.MimeType)
	assert.Equal(t, int64(12), photos[1].Metadata.Size)
}
