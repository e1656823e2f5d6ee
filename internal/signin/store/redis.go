package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "signin:request:"

// Redis stores records as JSON values that expire with the key request.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	clock  time2.Clock
}

var _ Store = (*Redis)(nil)

func NewRedis(client *redis.Client, ttl time.Duration, clock time2.Clock) *Redis {
	if clock == nil {
		clock = time2.DefaultClock
	}

	return &Redis{
		client: client,
		ttl:    ttl,
		clock:  clock,
	}
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

func (r *Redis) Save(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "failed to marshal sign-in record")
	}

	if err := r.client.Set(ctx, redisKey(rec.Token), data, r.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to save sign-in record")
	}

	return nil
}

func (r *Redis) Get(ctx context.Context, token string) (*Record, error) {
	data, err := r.client.Get(ctx, redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get sign-in record")
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal sign-in record")
	}

	return &rec, nil
}

// UpdateState rewrites the record but keeps its remaining TTL.
func (r *Redis) UpdateState(ctx context.Context, token string, state string, userFID *int64) error {
	rec, err := r.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	rec.State = state
	rec.UserFID = userFID
	rec.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "failed to marshal sign-in record")
	}

	if err := r.client.Set(ctx, redisKey(token), data, redis.KeepTTL).Err(); err != nil {
		return errors.Wrap(err, "failed to update sign-in record")
	}

	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
