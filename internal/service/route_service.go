package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/store"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

// ProgressBroadcaster pushes route progress to session subscribers.
type ProgressBroadcaster interface {
	BroadcastRouteProgress(sessionID string, progress model.RouteProgress)
}

// RouteService manages multi-location route sessions: one ordered stop
// list, each stop independently checked in/out, advancing strictly
// pending -> in_progress -> completed. The route completes exactly
// when the last stop is checked out.
type RouteService struct {
	sessions  store.SessionStore
	contracts store.ContractStore
	jobs      store.JobStore
	hub       ProgressBroadcaster
	now       func() time.Time
	newID     func() string
}

func NewRouteService(sessions store.SessionStore, contracts store.ContractStore, jobs store.JobStore, hub ProgressBroadcaster) *RouteService {
	return &RouteService{
		sessions:  sessions,
		contracts: contracts,
		jobs:      jobs,
		hub:       hub,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// CreateRouteSession starts a route traversal for the contract: one
// pending stop per job location plus a not_started progress record.
func (s *RouteService) CreateRouteSession(ctx context.Context, contractID, workerID, jobID string) (*model.WorkSession, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !contract.Worker.Is(workerID) {
		return nil, apperr.Forbidden("only the contract worker can start a route session")
	}
	if !contract.Job.Is(jobID) {
		return nil, apperr.FailedPrecondition("job does not belong to this contract")
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.WorkType != model.WorkTypeRoute {
		return nil, apperr.FailedPrecondition("this job is not a multi-location route")
	}

	now := s.now()
	stops := make([]model.LocationSession, len(job.Locations))
	for i, loc := range job.Locations {
		stops[i] = model.LocationSession{
			LocationIndex:   i,
			LocationName:    loc.Name,
			LocationAddress: loc.Address,
			Status:          model.StopStatusPending,
		}
	}

	session := &model.WorkSession{
		ID:       s.newID(),
		Contract: model.NewRef(contract.ID),
		Worker:   contract.Worker,
		Company:  job.Company,
		Job:      model.NewRef(job.ID),
		WorkType: model.WorkTypeRoute,
		WorkDate: now,
		CheckIn: &model.CheckIn{
			Timestamp: now,
			Location:  "Route start",
			Photos:    []model.WorkPhoto{},
			Notes:     fmt.Sprintf("Route with %d stops", len(stops)),
		},
		LocationSessions: stops,
		RouteProgress: &model.RouteProgress{
			TotalLocations: len(stops),
			RouteStatus:    model.RouteStatusNotStarted,
		},
		Status:        model.SessionStatusActive,
		PaymentStatus: model.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CheckInLocation opens one stop. Only a pending stop whose
// predecessors are all completed can be checked in; out-of-order calls
// fail rather than silently succeed.
func (s *RouteService) CheckInLocation(ctx context.Context, sessionID, workerID string, locationIndex int, req *model.StopCheckRequest) (*model.WorkSession, error) {
	session, err := s.sessions.Update(ctx, sessionID, func(session *model.WorkSession) error {
		if !session.Worker.Is(workerID) {
			return apperr.Forbidden("only the session worker can check in")
		}
		stop, err := stopAt(session, locationIndex)
		if err != nil {
			return err
		}
		if stop.Status != model.StopStatusPending {
			return apperr.FailedPrecondition("stop not available for check-in")
		}
		for i := 0; i < locationIndex; i++ {
			if session.LocationSessions[i].Status != model.StopStatusCompleted {
				return apperr.FailedPrecondition("previous stops must be completed first")
			}
		}

		now := s.now()
		stop.CheckIn = &model.StopCheck{
			Timestamp:   now,
			Coordinates: req.Coordinates,
			Photos:      convertWorkPhotos(req.Photos, "check-in", now),
			Notes:       req.Notes,
		}
		stop.Status = model.StopStatusInProgress

		idx := locationIndex
		session.RouteProgress.CurrentLocationIndex = &idx
		session.RouteProgress.RouteStatus = model.RouteStatusInProgress
		session.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(session)
	return session, nil
}

// CheckOutLocation closes one stop and reports the next destination,
// or completes the whole route when the last stop is checked out.
func (s *RouteService) CheckOutLocation(ctx context.Context, sessionID, workerID string, locationIndex int, req *model.StopCheckRequest) (*model.RouteCheckOutResult, error) {
	result := &model.RouteCheckOutResult{}
	session, err := s.sessions.Update(ctx, sessionID, func(session *model.WorkSession) error {
		if !session.Worker.Is(workerID) {
			return apperr.Forbidden("only the session worker can check out")
		}
		stop, err := stopAt(session, locationIndex)
		if err != nil {
			return err
		}
		if stop.Status != model.StopStatusInProgress {
			return apperr.FailedPrecondition("stop not available for check-out")
		}

		now := s.now()
		stop.CheckOut = &model.StopCheck{
			Timestamp:   now,
			Coordinates: req.Coordinates,
			Photos:      convertWorkPhotos(req.Photos, "check-out", now),
			Notes:       req.Notes,
		}
		stop.Status = model.StopStatusCompleted
		session.RouteProgress.CompletedLocations++

		next := locationIndex + 1
		if next < len(session.LocationSessions) {
			session.RouteProgress.NextScheduledLocation = &next
			result.NextLocation = &model.NextStop{
				Index:   next,
				Name:    session.LocationSessions[next].LocationName,
				Address: session.LocationSessions[next].LocationAddress,
			}
		} else {
			session.RouteProgress.RouteStatus = model.RouteStatusCompleted
			session.RouteProgress.NextScheduledLocation = nil
			session.Status = model.SessionStatusCompleted
			session.CheckOut = &model.CheckOut{
				Timestamp:       now,
				Location:        "Route end",
				Photos:          []model.WorkPhoto{},
				HoursWorked:     routeHours(session),
				CompletionNotes: fmt.Sprintf("Route completed: %d stops", len(session.LocationSessions)),
			}
			result.IsRouteComplete = true
		}
		session.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Session = session
	s.broadcast(session)
	return result, nil
}

// routeHours spans first stop check-in to last stop check-out, rounded
// to two decimals; zero when either timestamp is missing.
func routeHours(session *model.WorkSession) float64 {
	if len(session.LocationSessions) == 0 {
		return 0
	}
	first := session.LocationSessions[0].CheckIn
	last := session.LocationSessions[len(session.LocationSessions)-1].CheckOut
	if first == nil || last == nil {
		return 0
	}
	hours := last.Timestamp.Sub(first.Timestamp).Hours()
	return math.Round(hours*100) / 100
}

func stopAt(session *model.WorkSession, locationIndex int) (*model.LocationSession, error) {
	if locationIndex < 0 || locationIndex >= len(session.LocationSessions) {
		return nil, apperr.NotFound("stop not found on this route")
	}
	return &session.LocationSessions[locationIndex], nil
}

func (s *RouteService) broadcast(session *model.WorkSession) {
	if s.hub == nil || session.RouteProgress == nil {
		return
	}
	s.hub.BroadcastRouteProgress(session.ID, *session.RouteProgress)
}
