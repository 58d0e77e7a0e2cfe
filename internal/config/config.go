package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN      string `env:"DATABASE_DSN,required=true"`
	RedisURL         string `env:"REDIS_URL,required=true"`
	ReminderAPIToken string `env:"REMINDER_API_TOKEN,required=true"`

	// Optional outbound webhook endpoints per channel. A channel without an
	// endpoint falls back to the log-only dispatcher.
	WebhookEmailURL string `env:"WEBHOOK_EMAIL_URL"`
	WebhookSMSURL   string `env:"WEBHOOK_SMS_URL"`

	RateLimitPerSec int    `env:"RATE_LIMIT_PER_SEC,default=10"`
	APIPort         int    `env:"API_PORT,default=8080"`
	LogLevel        string `env:"LOG_LEVEL,default=info"`

	// In-process scheduler for deployments without an external cron. When
	// enabled, a user id is required since reminder runs are per user.
	SchedulerEnabled     bool   `env:"SCHEDULER_ENABLED,default=false"`
	SchedulerIntervalRaw string `env:"SCHEDULER_INTERVAL,default=1h"`
	SchedulerUserID      string `env:"SCHEDULER_USER_ID"`

	SchedulerInterval time.Duration
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.SchedulerInterval, err = time.ParseDuration(cfg.SchedulerIntervalRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_INTERVAL %q: %w", cfg.SchedulerIntervalRaw, err)
	}

	if cfg.SchedulerEnabled && cfg.SchedulerUserID == "" {
		return nil, fmt.Errorf("SCHEDULER_USER_ID is required when SCHEDULER_ENABLED is set")
	}

	return &cfg, nil
}
