package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/constants"
)

// RedisStore persists the token pair in Redis, so kiosk and workstation
// processes of the same practice share one session the way browser tabs
// share origin-scoped storage.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Redis-backed token store. The prefix namespaces
// the session keys; an empty prefix uses the library defaults.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Load implements TokenStore.Load.
func (r *RedisStore) Load() (*oauth2.Token, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	data, err := r.client.Get(ctx, r.tokenKey()).Bytes()
	if err == nil {
		var token oauth2.Token
		if uerr := json.Unmarshal(data, &token); uerr != nil {
			return nil, fmt.Errorf("failed to parse token pair under %s: %w", r.tokenKey(), ErrStorageCorrupted)
		}
		return &token, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read token pair under %s: %w", r.tokenKey(), err)
	}

	access, err := r.client.Get(ctx, r.legacyKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read legacy token under %s: %w", r.legacyKey(), err)
	}
	if access == "" {
		return nil, nil
	}
	return &oauth2.Token{AccessToken: access}, nil
}

// Store implements TokenStore.Store. The pair write and the legacy key
// deletion are issued in one transaction.
func (r *RedisStore) Store(token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token pair: %w", err)
	}

	ctx, cancel := r.opContext()
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.tokenKey(), data, 0)
	pipe.Del(ctx, r.legacyKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write token pair under %s: %w", r.tokenKey(), err)
	}
	return nil
}

// Clear implements TokenStore.Clear.
func (r *RedisStore) Clear() error {
	ctx, cancel := r.opContext()
	defer cancel()

	if err := r.client.Del(ctx, r.tokenKey(), r.legacyKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear session keys: %w", err)
	}
	return nil
}

// HasToken implements TokenStore.HasToken.
func (r *RedisStore) HasToken() bool {
	ctx, cancel := r.opContext()
	defer cancel()

	n, err := r.client.Exists(ctx, r.tokenKey(), r.legacyKey()).Result()
	return err == nil && n > 0
}

// SeedLegacyToken installs a value under the legacy single-token key, as
// written by pre-pair releases.
func (r *RedisStore) SeedLegacyToken(raw string) error {
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.Set(ctx, r.legacyKey(), raw, 0).Err()
}

func (r *RedisStore) tokenKey() string {
	if r.prefix == "" {
		return constants.SessionTokenKey
	}
	return r.prefix + ":" + constants.SessionTokenKey
}

func (r *RedisStore) legacyKey() string {
	if r.prefix == "" {
		return constants.LegacyTokenKey
	}
	return r.prefix + ":" + constants.LegacyTokenKey
}

func (r *RedisStore) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.StorageOpTimeout)
}
