package config

import (
	"fmt"
	"time"

	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

func newAsynqRedisOpt(v *viper.Viper) asynq.RedisClientOpt {
	host := v.GetString("redis.host")
	if host == "" {
		host = "127.0.0.1"
	}

	port := v.GetInt("redis.port")
	if port == 0 {
		port = 6379
	}

	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

// NewAsynqClient returns nil when Redis is disabled; the sweep then runs
// inline.
func NewAsynqClient(v *viper.Viper) *asynq.Client {
	if !v.GetBool("redis.enabled") {
		return nil
	}
	return asynq.NewClient(newAsynqRedisOpt(v))
}

func NewAsynqServer(v *viper.Viper) *asynq.Server {
	if !v.GetBool("redis.enabled") {
		return nil
	}
	return asynq.NewServer(newAsynqRedisOpt(v), asynq.Config{
		Concurrency: v.GetInt("worker.concurrency"),
		Queues: map[string]int{
			"default": 1,
		},
	})
}

// NewAsynqScheduler enqueues the daily VIP settle sweep on vip.sweep.cron,
// evaluated in vip.timezone.
func NewAsynqScheduler(v *viper.Viper, log log.Log) (*asynq.Scheduler, error) {
	if !v.GetBool("redis.enabled") || !v.GetBool("vip.sweep.enabled") {
		return nil, nil
	}
	loc, err := time.LoadLocation(v.GetString("vip.timezone"))
	if err != nil {
		return nil, fmt.Errorf("vip.timezone: %w", err)
	}

	scheduler := asynq.NewScheduler(newAsynqRedisOpt(v), &asynq.SchedulerOpts{Location: loc})
	spec := v.GetString("vip.sweep.cron")
	entryID, err := scheduler.Register(spec, asynq.NewTask(usecase.TypeVipSettleSweep, nil),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("register sweep %q: %w", spec, err)
	}
	log.Info("asynq-config", "vip settle sweep scheduled", spec, entryID)
	return scheduler, nil
}
