// Package store persists marketplace documents in Redis as JSON blobs.
// Every status transition runs through an optimistic WATCH/MULTI
// transaction so the prior-state check and the write are one atomic
// step; two concurrent transitions on the same document cannot both
// succeed.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ronilson-users/backend-work-v2/pkg/apperr"
)

// maxTxRetries bounds optimistic retries when a watched key changes
// under a concurrent writer.
const maxTxRetries = 5

// Store owns the Redis connection lifecycle. The process entry point
// opens it, health-checks it, and closes it on shutdown; nothing else
// tracks connection state.
type Store struct {
	client *redis.Client
	log    *zap.Logger
}

// Options configures the connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Open connects and verifies the connection with a ping.
func Open(opts Options, log *zap.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperr.Internal(err, "storage unavailable")
	}

	log.Info("connected to redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return &Store{client: client, log: log}, nil
}

// HealthCheck pings the backing store.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return apperr.Internal(err, "storage unavailable")
	}
	return nil
}

// Close releases the connection.
func (s *Store) Close() error {
	s.log.Info("closing redis connection")
	return s.client.Close()
}

// Client exposes the raw client for collaborators that share the
// connection (rate limiter).
func (s *Store) Client() *redis.Client {
	return s.client
}

// getDoc loads and unmarshals one document, mapping absence to the
// caller's NotFound error.
func getDoc[T any](ctx context.Context, c *redis.Client, key string, notFound error) (*T, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, notFound
	}
	if err != nil {
		return nil, apperr.Internal(err, "storage read failed")
	}
	doc := new(T)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, apperr.Internal(err, "corrupt document %q", key)
	}
	return doc, nil
}

// setDoc marshals and writes one document.
func setDoc(ctx context.Context, c *redis.Client, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperr.Internal(err, "marshal document %q", key)
	}
	if err := c.Set(ctx, key, data, 0).Err(); err != nil {
		return apperr.Internal(err, "storage write failed")
	}
	return nil
}

// updateDoc applies mutate to the document under an optimistic
// transaction. A domain error returned by mutate aborts without
// writing and propagates verbatim; TxFailedErr triggers a bounded
// retry with a fresh read.
func updateDoc[T any](ctx context.Context, c *redis.Client, key string, notFound error, mutate func(*T) error) (*T, error) {
	var out *T
	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return notFound
		}
		if err != nil {
			return apperr.Internal(err, "storage read failed")
		}
		doc := new(T)
		if err := json.Unmarshal(data, doc); err != nil {
			return apperr.Internal(err, "corrupt document %q", key)
		}
		if err := mutate(doc); err != nil {
			return err
		}
		buf, err := json.Marshal(doc)
		if err != nil {
			return apperr.Internal(err, "marshal document %q", key)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, buf, 0)
			return nil
		})
		if err != nil {
			return err
		}
		out = doc
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := c.Watch(ctx, txn, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, apperr.Internal(redis.TxFailedErr, "storage transaction contention on %q", key)
}

// listDocs loads every member of an id set.
func listDocs[T any](ctx context.Context, c *redis.Client, setKey, keyPrefix string) ([]*T, error) {
	ids, err := c.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, apperr.Internal(err, "storage read failed")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}
	values, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperr.Internal(err, "storage read failed")
	}
	out := make([]*T, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // member with a missing document
		}
		doc := new(T)
		if err := json.Unmarshal([]byte(raw), doc); err != nil {
			return nil, apperr.Internal(err, "corrupt document in %q", setKey)
		}
		out = append(out, doc)
	}
	return out, nil
}
