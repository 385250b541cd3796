package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

const (
	sessionKeyPrefix        = "session:"
	sessionWorkerSetPrefix  = "sessions:worker:"
	sessionCompanySetPrefix = "sessions:company:"
)

// RedisSessionStore implements SessionStore.
type RedisSessionStore struct {
	client *redis.Client
}

func NewSessionStore(s *Store) *RedisSessionStore {
	return &RedisSessionStore{client: s.client}
}

func sessionNotFound() error { return apperr.NotFound("work session not found") }

func (s *RedisSessionStore) Create(ctx context.Context, session *model.WorkSession) error {
	if err := setDoc(ctx, s.client, sessionKeyPrefix+session.ID, session); err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, sessionWorkerSetPrefix+session.Worker.ID(), session.ID)
	pipe.SAdd(ctx, sessionCompanySetPrefix+session.Company.ID(), session.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Internal(err, "storage write failed")
	}
	return nil
}

func (s *RedisSessionStore) GetByID(ctx context.Context, id string) (*model.WorkSession, error) {
	return getDoc[model.WorkSession](ctx, s.client, sessionKeyPrefix+id, sessionNotFound())
}

func (s *RedisSessionStore) Update(ctx context.Context, id string, mutate func(*model.WorkSession) error) (*model.WorkSession, error) {
	return updateDoc(ctx, s.client, sessionKeyPrefix+id, sessionNotFound(), mutate)
}

func (s *RedisSessionStore) ListByWorker(ctx context.Context, workerID string) ([]*model.WorkSession, error) {
	return listDocs[model.WorkSession](ctx, s.client, sessionWorkerSetPrefix+workerID, sessionKeyPrefix)
}

func (s *RedisSessionStore) ListByCompany(ctx context.Context, companyID string) ([]*model.WorkSession, error) {
	return listDocs[model.WorkSession](ctx, s.client, sessionCompanySetPrefix+companyID, sessionKeyPrefix)
}
