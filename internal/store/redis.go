package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps each collection as a hash (id -> JSON) plus a list of ids
// that preserves insertion order. It backs the session-scoped collections
// (cart) where durability beyond the Redis instance is not required.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func hashKey(collection string) string  { return fmt.Sprintf("kv:%s", collection) }
func orderKey(collection string) string { return fmt.Sprintf("kv:%s:order", collection) }

func (s *RedisStore) ReadAll(ctx context.Context, collection string) ([]Record, error) {
	ids, err := s.rdb.LRange(ctx, orderKey(collection), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := s.rdb.HMGet(ctx, hashKey(collection), ids...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(ids))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			// id still listed but hash entry gone; skip the orphan
			continue
		}
		records = append(records, Record{ID: ids[i], Data: []byte(data)})
	}

	return records, nil
}

func (s *RedisStore) ReadByID(ctx context.Context, collection, id string) (Record, error) {
	data, err := s.rdb.HGet(ctx, hashKey(collection), id).Result()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	return Record{ID: id, Data: []byte(data)}, nil
}

func (s *RedisStore) Append(ctx context.Context, collection string, rec Record) error {
	if err := s.rdb.HSet(ctx, hashKey(collection), rec.ID, string(rec.Data)).Err(); err != nil {
		return err
	}
	return s.rdb.RPush(ctx, orderKey(collection), rec.ID).Err()
}

func (s *RedisStore) Replace(ctx context.Context, collection, id string, rec Record) error {
	exists, err := s.rdb.HExists(ctx, hashKey(collection), id).Result()
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	return s.rdb.HSet(ctx, hashKey(collection), id, string(rec.Data)).Err()
}

func (s *RedisStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.rdb.HDel(ctx, hashKey(collection), id).Err(); err != nil {
		return err
	}
	return s.rdb.LRem(ctx, orderKey(collection), 0, id).Err()
}
