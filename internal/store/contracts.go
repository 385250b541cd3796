package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

const (
	contractKeyPrefix        = "contract:"
	contractByJobPrefix      = "contracts:byjob:"
	contractWorkerSetPrefix  = "contracts:worker:"
	contractCompanySetPrefix = "contracts:company:"
)

// RedisContractStore implements ContractStore. The byjob sentinel key
// carries the one-contract-per-job invariant: SETNX either claims the
// job or reports the conflict atomically.
type RedisContractStore struct {
	client *redis.Client
}

func NewContractStore(s *Store) *RedisContractStore {
	return &RedisContractStore{client: s.client}
}

func contractNotFound() error { return apperr.NotFound("contract not found") }

func (s *RedisContractStore) Create(ctx context.Context, contract *model.Contract) error {
	claimed, err := s.client.SetNX(ctx, contractByJobPrefix+contract.Job.ID(), contract.ID, 0).Result()
	if err != nil {
		return apperr.Internal(err, "storage write failed")
	}
	if !claimed {
		return apperr.Conflict("contract already exists for this job")
	}

	if err := setDoc(ctx, s.client, contractKeyPrefix+contract.ID, contract); err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, contractWorkerSetPrefix+contract.Worker.ID(), contract.ID)
	pipe.SAdd(ctx, contractCompanySetPrefix+contract.Company.ID(), contract.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Internal(err, "storage write failed")
	}
	return nil
}

func (s *RedisContractStore) GetByID(ctx context.Context, id string) (*model.Contract, error) {
	return getDoc[model.Contract](ctx, s.client, contractKeyPrefix+id, contractNotFound())
}

func (s *RedisContractStore) GetByJob(ctx context.Context, jobID string) (*model.Contract, error) {
	id, err := s.client.Get(ctx, contractByJobPrefix+jobID).Result()
	if err == redis.Nil {
		return nil, contractNotFound()
	}
	if err != nil {
		return nil, apperr.Internal(err, "storage read failed")
	}
	return s.GetByID(ctx, id)
}

func (s *RedisContractStore) Update(ctx context.Context, id string, mutate func(*model.Contract) error) (*model.Contract, error) {
	return updateDoc(ctx, s.client, contractKeyPrefix+id, contractNotFound(), mutate)
}

func (s *RedisContractStore) ListByWorker(ctx context.Context, workerID string) ([]*model.Contract, error) {
	return listDocs[model.Contract](ctx, s.client, contractWorkerSetPrefix+workerID, contractKeyPrefix)
}

func (s *RedisContractStore) ListByCompany(ctx context.Context, companyID string) ([]*model.Contract, error) {
	return listDocs[model.Contract](ctx, s.client, contractCompanySetPrefix+companyID, contractKeyPrefix)
}
