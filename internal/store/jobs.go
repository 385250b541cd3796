package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

const (
	jobKeyPrefix        = "job:"
	jobAllSet           = "jobs:all"
	jobCompanySetPrefix = "jobs:company:"
)

// RedisJobStore implements JobStore on the shared Redis connection.
type RedisJobStore struct {
	client *redis.Client
}

func NewJobStore(s *Store) *RedisJobStore {
	return &RedisJobStore{client: s.client}
}

func jobNotFound() error { return apperr.NotFound("job not found") }

func (s *RedisJobStore) Create(ctx context.Context, job *model.Job) error {
	if err := setDoc(ctx, s.client, jobKeyPrefix+job.ID, job); err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, jobAllSet, job.ID)
	pipe.SAdd(ctx, jobCompanySetPrefix+job.Company.ID(), job.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Internal(err, "storage write failed")
	}
	return nil
}

func (s *RedisJobStore) GetByID(ctx context.Context, id string) (*model.Job, error) {
	return getDoc[model.Job](ctx, s.client, jobKeyPrefix+id, jobNotFound())
}

func (s *RedisJobStore) Update(ctx context.Context, id string, mutate func(*model.Job) error) (*model.Job, error) {
	return updateDoc(ctx, s.client, jobKeyPrefix+id, jobNotFound(), mutate)
}

func (s *RedisJobStore) List(ctx context.Context) ([]*model.Job, error) {
	return listDocs[model.Job](ctx, s.client, jobAllSet, jobKeyPrefix)
}

func (s *RedisJobStore) ListByCompany(ctx context.Context, companyID string) ([]*model.Job, error) {
	return listDocs[model.Job](ctx, s.client, jobCompanySetPrefix+companyID, jobKeyPrefix)
}
