package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Enqueuer is what services depend on to push background work.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error
}

// Client wraps asynq.Client with JSON payload encoding.
type Client struct {
	client *asynq.Client
}

func RedisOpt(addr, password string, db int) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: addr, Password: password, DB: db}
}

func NewClient(opt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(opt)}
}

func (c *Client) Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, body), opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	log.Debug().
		Str("task_id", info.ID).
		Str("type", taskType).
		Str("queue", info.Queue).
		Msg("Task enqueued")
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
