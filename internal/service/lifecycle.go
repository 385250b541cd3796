package service

import (
	"context"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/internal/policy"
)

// Lifecycle is the façade composing the three managers and the policy
// engine for cross-entity actor commands. Single-entity reads go
// straight to the owning manager; the commands here touch more than
// one aggregate or emit notifications.
type Lifecycle struct {
	jobs      *JobService
	contracts *ContractService
	work      *WorkService
	notifier  *Notifier
}

func NewLifecycle(jobs *JobService, contracts *ContractService, work *WorkService, notifier *Notifier) *Lifecycle {
	return &Lifecycle{jobs: jobs, contracts: contracts, work: work, notifier: notifier}
}

// Apply records a worker application and notifies the company.
func (l *Lifecycle) Apply(ctx context.Context, jobID, workerID string) (*model.Job, error) {
	job, err := l.jobs.Apply(ctx, jobID, workerID)
	if err != nil {
		return nil, err
	}
	l.notifier.Notify(NotificationEvent{
		Type:   EventApplicationReceived,
		UserID: job.Company.ID(),
		Data:   map[string]interface{}{"jobId": job.ID, "workerId": workerID},
	})
	return job, nil
}

// SelectWorker selects the applicant and derives the contract in one
// command. If contract creation fails after the selection committed,
// the error surfaces and the contract can be re-derived through the
// dedicated from-job endpoint; the selection itself is never rolled
// back.
func (l *Lifecycle) SelectWorker(ctx context.Context, jobID, workerID, companyID string) (*model.Job, *model.Contract, error) {
	job, err := l.jobs.SelectWorker(ctx, jobID, workerID, companyID)
	if err != nil {
		return nil, nil, err
	}
	contract, err := l.contracts.CreateFromJob(ctx, jobID)
	if err != nil {
		return job, nil, err
	}
	l.notifier.Notify(NotificationEvent{
		Type:   EventWorkerSelected,
		UserID: workerID,
		Data:   map[string]interface{}{"jobId": job.ID, "contractId": contract.ID},
	})
	return job, contract, nil
}

// Sign records a signature and, when this signature completes the
// quorum, notifies both parties of the activation.
func (l *Lifecycle) Sign(ctx context.Context, contractID, userID string, role model.Role, ip string) (*model.Contract, error) {
	contract, err := l.contracts.Sign(ctx, contractID, userID, role, ip)
	if err != nil {
		return nil, err
	}
	// ActivatedAt equals UpdatedAt only on the call that activated.
	if contract.Status == model.ContractStatusActive &&
		contract.ActivatedAt != nil && contract.ActivatedAt.Equal(contract.UpdatedAt) {
		data := map[string]interface{}{"contractId": contract.ID}
		l.notifier.Notify(NotificationEvent{Type: EventContractActivated, UserID: contract.Worker.ID(), Data: data})
		l.notifier.Notify(NotificationEvent{Type: EventContractActivated, UserID: contract.Company.ID(), Data: data})
	}
	return contract, nil
}

// Cancel runs the cancellation policy and notifies the counterpart of
// the decision, including any penalty amount.
func (l *Lifecycle) Cancel(ctx context.Context, req CancellationRequest) (*policy.Decision, error) {
	decision, err := l.jobs.Cancel(ctx, req)
	if err != nil {
		return nil, err
	}

	if job, jobErr := l.jobs.GetByID(ctx, req.JobID); jobErr == nil {
		counterpart := job.Company.ID()
		if req.InitiatedBy == policy.ActorCompany {
			counterpart = job.SelectedWorker.ID()
		}
		if counterpart != "" {
			data := map[string]interface{}{
				"jobId":  job.ID,
				"reason": req.Reason,
				"status": decision.Status,
			}
			if decision.PenaltyAmount != nil {
				data["penaltyAmount"] = *decision.PenaltyAmount
			}
			l.notifier.Notify(NotificationEvent{Type: EventJobCancelled, UserID: counterpart, Data: data})
		}
	}
	return decision, nil
}

// ConfirmSession marks a session payable and notifies the worker.
func (l *Lifecycle) ConfirmSession(ctx context.Context, sessionID, companyID string) (*model.WorkSession, error) {
	session, err := l.work.ConfirmSession(ctx, sessionID, companyID)
	if err != nil {
		return nil, err
	}
	l.notifier.Notify(NotificationEvent{
		Type:   EventSessionConfirmed,
		UserID: session.Worker.ID(),
		Data:   map[string]interface{}{"sessionId": session.ID, "calculatedAmount": session.CalculatedAmount},
	})
	return session, nil
}
