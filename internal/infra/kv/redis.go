package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 200

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) (Store, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisStore{client: client}, nil
}

func storageKey(table, key string) string {
	return table + ":" + key
}

func (r *redisStore) Get(ctx context.Context, table, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, storageKey(table, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *redisStore) ScanAll(ctx context.Context, table string) ([][]byte, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, table+":*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	raw, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	values := make([][]byte, 0, len(raw))
	for _, entry := range raw {
		// MGet returns nil for keys deleted between SCAN and MGET.
		if entry == nil {
			continue
		}
		if s, ok := entry.(string); ok {
			values = append(values, []byte(s))
		}
	}
	return values, nil
}

func (r *redisStore) PutIfAbsent(ctx context.Context, table, key string, value []byte) error {
	stored, err := r.client.SetNX(ctx, storageKey(table, key), value, 0).Result()
	if err != nil {
		return err
	}
	if !stored {
		return ErrKeyExists
	}
	return nil
}

func (r *redisStore) Put(ctx context.Context, table, key string, value []byte) error {
	return r.client.Set(ctx, storageKey(table, key), value, 0).Err()
}

func (r *redisStore) Delete(ctx context.Context, table, key string) error {
	return r.client.Del(ctx, storageKey(table, key)).Err()
}
