package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/store"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

// WorkService manages single-location work sessions: check-in opens a
// session, check-out closes it and computes the payable amount, and
// the company confirms completed sessions for payment.
type WorkService struct {
	sessions  store.SessionStore
	contracts store.ContractStore
	jobs      store.JobStore
	now       func() time.Time
	newID     func() string
}

func NewWorkService(sessions store.SessionStore, contracts store.ContractStore, jobs store.JobStore) *WorkService {
	return &WorkService{
		sessions:  sessions,
		contracts: contracts,
		jobs:      jobs,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// CheckIn opens a new active session for the contract. The worker
// identity is resolved canonically whether the contract reference is a
// bare id or a populated object. Route jobs must use the route flow.
func (s *WorkService) CheckIn(ctx context.Context, contractID, workerID string, req *model.CheckInRequest) (*model.WorkSession, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !contract.Worker.Is(workerID) {
		return nil, apperr.Forbidden("only the contract worker can check in")
	}

	job, err := s.jobs.GetByID(ctx, contract.Job.ID())
	if err != nil {
		return nil, err
	}
	if job.WorkType == model.WorkTypeRoute {
		return nil, apperr.FailedPrecondition("this job is a multi-location route; use the route check-in")
	}

	now := s.now()
	session := &model.WorkSession{
		ID:       s.newID(),
		Contract: model.NewRef(contract.ID),
		Worker:   contract.Worker,
		Company:  contract.Company,
		Job:      contract.Job,
		WorkType: job.WorkType,
		WorkDate: now,
		CheckIn: &model.CheckIn{
			Timestamp:   now,
			Location:    req.Location,
			Coordinates: req.Coordinates,
			Photos:      convertWorkPhotos(req.Photos, "check-in", now),
			Notes:       req.Notes,
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

// CheckOut closes the session and computes calculatedAmount from the
// contracted compensation type. A session can only be checked out once
// and only from the active status. Route sessions close through the
// stop machine, never through this path.
func (s *WorkService) CheckOut(ctx context.Context, sessionID, workerID string, req *model.CheckOutRequest) (*model.WorkSession, error) {
	current, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	contract, err := s.contracts.GetByID(ctx, current.Contract.ID())
	if err != nil {
		return nil, err
	}

	return s.sessions.Update(ctx, sessionID, func(session *model.WorkSession) error {
		if !session.Worker.Is(workerID) {
			return apperr.Forbidden("only the session worker can check out")
		}
		if session.WorkType == model.WorkTypeRoute {
			return apperr.FailedPrecondition("this session is a multi-location route; use the route check-out")
		}
		if session.Status != model.SessionStatusActive || session.CheckOut != nil {
			return apperr.FailedPrecondition("session is not active for check-out")
		}

		now := s.now()
		session.CheckOut = &model.CheckOut{
			Timestamp:       now,
			Location:        req.Location,
			Coordinates:     req.Coordinates,
			Photos:          convertWorkPhotos(req.Photos, "check-out", now),
			HoursWorked:     req.HoursWorked,
			CompletionNotes: req.CompletionNotes,
		}
		session.Status = model.SessionStatusCompleted
		session.CalculatedAmount = calculateAmount(req.HoursWorked, contract.Terms.Compensation)
		session.UpdatedAt = now
		return nil
	})
}

// calculateAmount applies the compensation-type rule: hourly pays per
// hour, daily assumes an 8-hour day, fixed ignores hours.
func calculateAmount(hoursWorked float64, comp model.Compensation) float64 {
	switch comp.Type {
	case model.CompensationHourly:
		return hoursWorked * comp.Amount
	case model.CompensationDaily:
		return (hoursWorked / 8) * comp.Amount
	case model.CompensationFixed:
		return comp.Amount
	default:
		return hoursWorked * comp.Amount
	}
}

// ConfirmSession marks a completed session payable. Confirming an
// already-confirmed session is a no-op.
func (s *WorkService) ConfirmSession(ctx context.Context, sessionID, companyID string) (*model.WorkSession, error) {
	return s.sessions.Update(ctx, sessionID, func(session *model.WorkSession) error {
		if !session.Company.Is(companyID) {
			return apperr.Forbidden("only the session company can confirm")
		}
		if session.PaymentStatus == model.PaymentStatusConfirmed {
			return nil
		}
		if session.Status != model.SessionStatusCompleted {
			return apperr.FailedPrecondition("session must be completed before confirmation")
		}
		session.PaymentStatus = model.PaymentStatusConfirmed
		session.UpdatedAt = s.now()
		return nil
	})
}

// GetSession loads one session for one of its parties.
func (s *WorkService) GetSession(ctx context.Context, sessionID, userID string) (*model.WorkSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := session.Party(userID); !ok {
		return nil, apperr.Forbidden("access to this work session is not authorized")
	}
	return session, nil
}

// ListForWorker lists the worker's sessions, newest first.
func (s *WorkService) ListForWorker(ctx context.Context, workerID string, filters model.SessionFilters) ([]*model.WorkSession, error) {
	sessions, err := s.sessions.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	return filterSessions(sessions, filters), nil
}

// ListForCompany lists the company's sessions, newest first.
func (s *WorkService) ListForCompany(ctx context.Context, companyID string, filters model.SessionFilters) ([]*model.WorkSession, error) {
	sessions, err := s.sessions.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return filterSessions(sessions, filters), nil
}

// Stats aggregates a session listing into dashboard numbers.
func (s *WorkService) Stats(ctx context.Context, userID string, role model.Role, filters model.SessionFilters) (*model.WorkStats, error) {
	var (
		sessions []*model.WorkSession
		err      error
	)
	switch role {
	case model.RoleWorker:
		sessions, err = s.ListForWorker(ctx, userID, filters)
	case model.RoleCompany:
		sessions, err = s.ListForCompany(ctx, userID, filters)
	default:
		return nil, apperr.Forbidden("only workers and companies have work sessions")
	}
	if err != nil {
		return nil, err
	}

	stats := &model.WorkStats{TotalSessions: len(sessions)}
	for _, session := range sessions {
		if session.Status == model.SessionStatusCompleted {
			stats.CompletedSessions++
			stats.TotalAmount += session.CalculatedAmount
			if session.CheckOut != nil {
				stats.TotalHours += session.CheckOut.HoursWorked
			}
		}
		if session.PaymentStatus == model.PaymentStatusConfirmed {
			stats.ConfirmedSessions++
		}
	}
	return stats, nil
}

func filterSessions(sessions []*model.WorkSession, f model.SessionFilters) []*model.WorkSession {
	out := make([]*model.WorkSession, 0, len(sessions))
	for _, session := range sessions {
		if f.ContractID != "" && !session.Contract.Is(f.ContractID) {
			continue
		}
		if f.WorkerID != "" && !session.Worker.Is(f.WorkerID) {
			continue
		}
		if f.Status != "" && string(session.Status) != f.Status {
			continue
		}
		if f.StartDate != nil && session.WorkDate.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && session.WorkDate.After(*f.EndDate) {
			continue
		}
		out = append(out, session)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WorkDate.After(out[j].WorkDate)
	})
	return out
}

// convertWorkPhotos turns raw photo payloads (URLs or data URIs) into
// stored photo records with estimated metadata.
func convertWorkPhotos(photos []string, kind string, now time.Time) []model.WorkPhoto {
	out := make([]model.WorkPhoto, 0, len(photos))
	for i, photo := range photos {
		out = append(out, model.WorkPhoto{
			URL:          photo,
			ThumbnailURL: photo,
			Metadata: model.PhotoMetadata{
				OriginalName: kindPhotoName(kind, now, i),
				Size:         estimatePhotoSize(photo),
				MimeType:     detectMimeType(photo),
				UploadedAt:   now,
				TakenAt:      now,
			},
		})
	}
	return out
}

func kindPhotoName(kind string, now time.Time, index int) string {
	return fmt.Sprintf("%s_%s_%d.jpg", kind, now.UTC().Format("20060102T150405"), index)
}

// estimatePhotoSize infers the byte size from a data URI, falling back
// to 500KB for plain URLs.
func estimatePhotoSize(photo string) int64 {
	if strings.HasPrefix(photo, "data:") {
		if idx := strings.IndexByte(photo, ','); idx >= 0 {
			return int64(len(photo)-idx-1) * 3 / 4
		}
	}
	return 500000
}

func detectMimeType(photo string) string {
	switch {
	case strings.HasPrefix(photo, "data:image/png"):
		return "image/png"
	case strings.HasPrefix(photo, "data:image/webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
