package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"coursestore-backend/internal/shared"
	"coursestore-backend/pkg/logger"
)

// ScheduleConfig controls the periodic jobs.
type ScheduleConfig struct {
	ExpireStaleCheckoutCron string
	StaleCheckoutAfter      time.Duration
}

type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       ScheduleConfig
}

func NewScheduler(opt asynq.RedisClientOpt, cfg ScheduleConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		opt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler, cfg: cfg}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerExpireStaleCheckoutsJob()
}

// ================================================
// Expire stale checkouts (hourly by default)
// ================================================
func (s *Scheduler) registerExpireStaleCheckoutsJob() error {
	payload, err := json.Marshal(shared.ExpireStaleCheckoutsPayload{OlderThan: s.cfg.StaleCheckoutAfter})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpireStaleCheckouts, payload)

	_, err = s.scheduler.Register(
		s.cfg.ExpireStaleCheckoutCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ExpireStaleCheckouts job", err)
		return err
	}

	logger.Info("Registered ExpireStaleCheckouts", map[string]interface{}{
		"cron":       s.cfg.ExpireStaleCheckoutCron,
		"older_than": s.cfg.StaleCheckoutAfter.String(),
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
