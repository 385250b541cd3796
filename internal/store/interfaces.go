package store

import (
	"context"

	"github.com/ronilson-users/backend-work-v2/internal/model"
)

// JobStore persists job documents. Update applies mutate atomically
// against the current document; a domain error returned by mutate
// aborts the write and propagates verbatim.
type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	Update(ctx context.Context, id string, mutate func(*model.Job) error) (*model.Job, error)
	List(ctx context.Context) ([]*model.Job, error)
	ListByCompany(ctx context.Context, companyID string) ([]*model.Job, error)
}

// ContractStore persists contract documents and enforces the
// one-contract-per-job invariant on Create.
type ContractStore interface {
	Create(ctx context.Context, contract *model.Contract) error
	GetByID(ctx context.Context, id string) (*model.Contract, error)
	GetByJob(ctx context.Context, jobID string) (*model.Contract, error)
	Update(ctx context.Context, id string, mutate func(*model.Contract) error) (*model.Contract, error)
	ListByWorker(ctx context.Context, workerID string) ([]*model.Contract, error)
	ListByCompany(ctx context.Context, companyID string) ([]*model.Contract, error)
}

// SessionStore persists work-session documents.
type SessionStore interface {
	Create(ctx context.Context, session *model.WorkSession) error
	GetByID(ctx context.Context, id string) (*model.WorkSession, error)
	Update(ctx context.Context, id string, mutate func(*model.WorkSession) error) (*model.WorkSession, error)
	ListByWorker(ctx context.Context, workerID string) ([]*model.WorkSession, error)
	ListByCompany(ctx context.Context, companyID string) ([]*model.WorkSession, error)
}

// UserStore persists accounts and enforces email uniqueness on Create.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
