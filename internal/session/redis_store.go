package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fbconsole/internal/models"
	"fbconsole/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "fbconsole:session:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(conf structures.RedisConfig, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (models.PagerState, bool, error) {
	data, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.PagerState{}, false, nil
	}
	if err != nil {
		return models.PagerState{}, false, fmt.Errorf("failed to read session: %w", err)
	}

	var state models.PagerState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.PagerState{}, false, fmt.Errorf("failed to decode session: %w", err)
	}
	return state, true, nil
}

// Put refreshes the key TTL, redis takes care of idle eviction.
func (r *RedisStore) Put(ctx context.Context, id string, state models.PagerState) error {
	if state.LastSeen.IsZero() {
		state.LastSeen = time.Now()
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKey(id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (r *RedisStore) Count() int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	count := 0
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
