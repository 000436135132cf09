package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vtumanov/filevault/internal/logging"
)

// popTimeout bounds each blocking pop so consumers notice context
// cancellation promptly.
const popTimeout = time.Second

// failedSuffix names the list that collects payloads whose handler failed.
const failedSuffix = ":failed"

// RedisQueue implements Queue over Redis lists: LPUSH to enqueue, BRPOP to
// consume. Multiple consumers may pop from the same list; each payload is
// delivered to exactly one of them.
type RedisQueue struct {
	client *redis.Client
	logger logging.Logger
}

func NewRedisQueue(client *redis.Client, logger logging.Logger) *RedisQueue {
	return &RedisQueue{client: client, logger: logger}
}

func (q *RedisQueue) Enqueue(ctx context.Context, queueName string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("queue marshal: %w", err)
	}
	if err := q.client.LPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("queue enqueue: %w", err)
	}
	return nil
}

// Consume loops until ctx is done. A handler error fails the job: the
// payload is moved to <queueName>:failed and the loop continues, so one bad
// job never affects the rest of the queue.
func (q *RedisQueue) Consume(ctx context.Context, queueName string, handler Handler) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := q.client.BRPop(ctx, popTimeout, queueName).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			q.logger.Error(ctx, "queue pop failed", "queue", queueName, "error", err.Error())
			continue
		}

		// BRPop returns [key, value].
		payload := []byte(res[1])

		if err := handler(ctx, payload); err != nil {
			q.logger.Error(ctx, "job failed", "queue", queueName, "error", err.Error())
			if pushErr := q.client.LPush(ctx, queueName+failedSuffix, payload).Err(); pushErr != nil {
				q.logger.Error(ctx, "failed-list push failed", "queue", queueName, "error", pushErr.Error())
			}
		}
	}
}
