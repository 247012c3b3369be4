package main

import (
	"github.com/hibiken/asynq"

	"coursestore-backend/internal/config"
	"coursestore-backend/internal/infrastructure/queue"
	"coursestore-backend/internal/shared"
)

// Config holds the worker settings derived from the application config.
type Config struct {
	Redis       asynq.RedisClientOpt
	RedisAddr   string
	Concurrency int
	// Queues maps queue names to their asynq priority weight.
	Queues     map[string]int
	HealthAddr string
	Schedule   queue.ScheduleConfig
}

func loadConfig(app *config.Config) *Config {
	concurrency := app.Queue.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	return &Config{
		Redis:       queue.RedisOpt(app.Redis.Host, app.Redis.Password, app.Redis.DB),
		RedisAddr:   app.Redis.Host,
		Concurrency: concurrency,
		Queues: map[string]int{
			shared.QueueCritical: 6,
			shared.QueueDefault:  3,
			shared.QueueLow:      1,
		},
		HealthAddr: ":9999",
		Schedule: queue.ScheduleConfig{
			ExpireStaleCheckoutCron: app.Queue.ExpireStaleCheckoutCron,
			StaleCheckoutAfter:      app.Queue.StaleCheckoutAfter,
		},
	}
}
