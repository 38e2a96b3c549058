package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"quizcraft/internal/models"
)

// payloadTTL matches the lifetime of a handed-out quiz link: long
// enough to retake or export, short enough to not hoard memory.
const payloadTTL = 24 * time.Hour

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetQuizPayload(payload *models.QuizPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	key := "quiz:" + payload.ID
	return c.client.Set(c.ctx, key, data, payloadTTL).Err()
}

func (c *RedisCache) GetQuizPayload(quizID string) (*models.QuizPayload, error) {
	key := "quiz:" + quizID
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var payload models.QuizPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *RedisCache) DeleteQuizPayload(quizID string) error {
	return c.client.Del(c.ctx, "quiz:"+quizID).Err()
}

// Ping verifies the connection at startup.
func (c *RedisCache) Ping() error {
	return c.client.Ping(c.ctx).Err()
}
