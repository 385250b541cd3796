package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/store"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

// ContractService derives contracts from completed selections and
// manages the signature quorum: a contract activates exactly when both
// parties have signed.
type ContractService struct {
	contracts store.ContractStore
	jobs      store.JobStore
	now       func() time.Time
	newID     func() string
}

func NewContractService(contracts store.ContractStore, jobs store.JobStore) *ContractService {
	return &ContractService{
		contracts: contracts,
		jobs:      jobs,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// CreateFromJob derives a contract from a job whose worker has been
// selected. The contracted amount is the budget minimum, a deliberate
// simplification; the schedule is snapshotted from the job dates. At
// most one contract exists per job.
func (s *ContractService) CreateFromJob(ctx context.Context, jobID string) (*model.Contract, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.SelectedWorker.IsZero() {
		return nil, apperr.FailedPrecondition("no worker selected for this job")
	}

	now := s.now()
	contract := &model.Contract{
		ID:      s.newID(),
		Job:     model.NewRef(job.ID),
		Worker:  job.SelectedWorker,
		Company: job.Company,
		Terms: model.Terms{
			Title:       job.Title,
			Description: job.Description,
			Compensation: model.Compensation{
				Amount:          job.Budget.Min,
				Currency:        job.Budget.Currency,
				Type:            job.Budget.Type,
				PaymentSchedule: model.PaymentMonthly,
			},
			Schedule: model.Schedule{
				StartDate:  job.Dates.Start,
				EndDate:    job.Dates.End,
				WorkHours:  "09:00-18:00",
				DaysOfWeek: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
				TotalHours: totalContractedHours(job.Dates.Start, job.Dates.End),
			},
			Deliverables:     []string{"Deliverables as scoped by the job posting"},
			Responsibilities: []string{"Keep the agreed schedule", "Report progress regularly"},
		},
		Clauses: model.Clauses{
			TerminationNotice:    7,
			Confidentiality:      true,
			IntellectualProperty: "company",
			Penalties: model.Penalties{
				LateCompletion:   0.1,
				EarlyTermination: 0.2,
			},
		},
		Status:    model.ContractStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// totalContractedHours approximates the contracted workload: business
// days estimated as calendar days scaled by 5/7, eight hours each. A
// heuristic, not a calendar; kept on purpose.
func totalContractedHours(start, end time.Time) int {
	calendarDays := math.Ceil(end.Sub(start).Hours() / 24)
	workDays := math.Ceil(calendarDays * 5 / 7)
	return int(math.Round(workDays * 8))
}

// Sign records one party's signature. Re-signing by the same party
// overwrites the timestamp and ip; once both parties have signed a
// pending contract activates and activatedAt is stamped exactly once.
// Terminal contracts cannot be signed back to life.
func (s *ContractService) Sign(ctx context.Context, contractID, userID string, role model.Role, ip string) (*model.Contract, error) {
	return s.contracts.Update(ctx, contractID, func(contract *model.Contract) error {
		if contract.Status.Terminal() {
			return apperr.Conflict("cannot sign a %s contract", contract.Status)
		}

		now := s.now()
		switch role {
		case model.RoleWorker:
			if !contract.Worker.Is(userID) {
				return apperr.Forbidden("only the contract worker can sign this contract")
			}
			contract.Signatures.Worker = model.Signature{Signed: true, SignedAt: &now, IP: ip}
		case model.RoleCompany:
			if !contract.Company.Is(userID) {
				return apperr.Forbidden("only the contract company can sign this contract")
			}
			contract.Signatures.Company = model.Signature{Signed: true, SignedAt: &now, IP: ip}
		default:
			return apperr.Forbidden("only contract parties can sign")
		}

		if contract.FullySigned() && contract.Status == model.ContractStatusPending {
			contract.Status = model.ContractStatusActive
			if contract.ActivatedAt == nil {
				activated := now
				contract.ActivatedAt = &activated
			}
		}
		contract.UpdatedAt = now
		return nil
	})
}

// GetByID loads a contract for one of its parties. Identity is
// compared by canonical id whichever wire form the references carry.
func (s *ContractService) GetByID(ctx context.Context, contractID, userID string) (*model.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if _, ok := contract.Party(userID); !ok {
		return nil, apperr.Forbidden("access to this contract is not authorized")
	}
	return contract, nil
}

// ListForUser lists the user's contracts by role, newest first,
// optionally narrowed by status.
func (s *ContractService) ListForUser(ctx context.Context, userID string, role model.Role, status model.ContractStatus) ([]*model.Contract, error) {
	var (
		contracts []*model.Contract
		err       error
	)
	switch role {
	case model.RoleWorker:
		contracts, err = s.contracts.ListByWorker(ctx, userID)
	case model.RoleCompany:
		contracts, err = s.contracts.ListByCompany(ctx, userID)
	default:
		return nil, apperr.Forbidden("only workers and companies have contracts")
	}
	if err != nil {
		return nil, err
	}

	if status != "" {
		filtered := contracts[:0]
		for _, c := range contracts {
			if c.Status == status {
				filtered = append(filtered, c)
			}
		}
		contracts = filtered
	}
	sort.SliceStable(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.After(contracts[j].CreatedAt)
	})
	return contracts, nil
}

// UpdateStatus transitions the contract on request of one of its
// parties. Completed, cancelled, and disputed are terminal; the only
// admitted transitions are pending -> cancelled/disputed and
// active -> completed/cancelled/disputed.
func (s *ContractService) UpdateStatus(ctx context.Context, contractID, userID string, next model.ContractStatus) (*model.Contract, error) {
	return s.contracts.Update(ctx, contractID, func(contract *model.Contract) error {
		if _, ok := contract.Party(userID); !ok {
			return apperr.Forbidden("only contract parties can change the contract status")
		}
		if contract.Status.Terminal() {
			return apperr.Conflict("contract is already %s", contract.Status)
		}
		if !contractTransitionAllowed(contract.Status, next) {
			return apperr.FailedPrecondition("cannot move contract from %s to %s", contract.Status, next)
		}

		now := s.now()
		contract.Status = next
		if next == model.ContractStatusCompleted && contract.CompletedAt == nil {
			completed := now
			contract.CompletedAt = &completed
		}
		contract.UpdatedAt = now
		return nil
	})
}

func contractTransitionAllowed(from, to model.ContractStatus) bool {
	switch from {
	case model.ContractStatusPending:
		return to == model.ContractStatusCancelled || to == model.ContractStatusDisputed
	case model.ContractStatusActive:
		return to == model.ContractStatusCompleted || to == model.ContractStatusCancelled || to == model.ContractStatusDisputed
	}
	return false
}
