package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/replaylab/quizreplay/internal/quiz"
)

const (
	redisCaptureKeyPrefix = "quizreplay:capture:"
	redisLatestKey        = "quizreplay:latest"
	redisIndexKey         = "quizreplay:captures" // list of IDs, newest first
)

// RedisStore keeps each capture as a JSON blob plus a latest pointer and a
// newest-first ID list, for deployments where the capture and replay
// contexts cannot share a database file.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: rdb}, nil
}

func (s *RedisStore) SaveCapture(ctx context.Context, c quiz.Capture) error {
	buf, err := json.Marshal(c)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, redisCaptureKeyPrefix+c.ID, buf, 0)
	pipe.Set(ctx, redisLatestKey, c.ID, 0)
	pipe.LRem(ctx, redisIndexKey, 0, c.ID)
	pipe.LPush(ctx, redisIndexKey, c.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) GetCapture(ctx context.Context, id string) (quiz.Capture, error) {
	buf, err := s.client.Get(ctx, redisCaptureKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return quiz.Capture{}, ErrNotFound
		}
		return quiz.Capture{}, err
	}
	var c quiz.Capture
	if err := json.Unmarshal(buf, &c); err != nil {
		return quiz.Capture{}, err
	}
	return c, nil
}

func (s *RedisStore) LatestCapture(ctx context.Context) (quiz.Capture, error) {
	id, err := s.client.Get(ctx, redisLatestKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return quiz.Capture{}, ErrNotFound
		}
		return quiz.Capture{}, err
	}
	return s.GetCapture(ctx, id)
}

func (s *RedisStore) ListCaptures(ctx context.Context, limit int) ([]quiz.CaptureSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	ids, err := s.client.LRange(ctx, redisIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]quiz.CaptureSummary, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetCapture(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // index entry outlived its blob
			}
			return nil, err
		}
		out = append(out, summarize(c))
	}
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
