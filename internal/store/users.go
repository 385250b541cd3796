package store

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/ronilson-users/backend-work-v2/internal/model"
	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

const (
	userKeyPrefix   = "user:"
	userEmailPrefix = "users:email:"
)

// RedisUserStore implements UserStore. The email sentinel key enforces
// unique emails atomically via SETNX.
type RedisUserStore struct {
	client *redis.Client
}

func NewUserStore(s *Store) *RedisUserStore {
	return &RedisUserStore{client: s.client}
}

func userNotFound() error { return apperr.NotFound("user not found") }

func emailKey(email string) string {
	return userEmailPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (s *RedisUserStore) Create(ctx context.Context, user *model.User) error {
	claimed, err := s.client.SetNX(ctx, emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return apperr.Internal(err, "storage write failed")
	}
	if !claimed {
		return apperr.Conflict("email already in use")
	}
	return setDoc(ctx, s.client, userKeyPrefix+user.ID, user)
}

func (s *RedisUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return getDoc[model.User](ctx, s.client, userKeyPrefix+id, userNotFound())
}

func (s *RedisUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	id, err := s.client.Get(ctx, emailKey(email)).Result()
	if err == redis.Nil {
		return nil, userNotFound()
	}
	if err != nil {
		return nil, apperr.Internal(err, "storage read failed")
	}
	return s.GetByID(ctx, id)
}
