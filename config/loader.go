package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// defaults first
	setDefaults(v)

	// File Config
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Env Config
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("service_name", "certwatch")
	v.SetDefault("port", 8080)

	v.SetDefault("auth.expiry_min", 30)

	v.SetDefault("scheduler.interval", "2s")
	v.SetDefault("scheduler.batch_size", 500)
	v.SetDefault("scheduler.visibility_timeout", "30s")

	v.SetDefault("reclaimer.interval", "5s")
	v.SetDefault("reclaimer.limit", 100)

	v.SetDefault("checkfeed.http_workers", 50)
	v.SetDefault("checkfeed.ssl_workers", 5)

	v.SetDefault("dispatch.workers", 50)
	v.SetDefault("dispatch.channel_size", 500)

	v.SetDefault("engine.ssl_expiring_soon_days", 14)
	v.SetDefault("engine.stale_after", "1h")

	v.SetDefault("rabbitmq.checks_exchange", "checks")
	v.SetDefault("rabbitmq.checks_routing_key", "check.due")
	v.SetDefault("rabbitmq.results_queue", "check-results")
	v.SetDefault("rabbitmq.results_routing_key", "check.result")
	v.SetDefault("rabbitmq.notify_exchange", "notifications")
	v.SetDefault("rabbitmq.notify_routing_key", "alert.decision")
	v.SetDefault("rabbitmq.consumer_workers", 20)

	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.conn_max_lifetime", "2m")
	v.SetDefault("redis.conn_max_idle_time", "30s")

	v.SetDefault("db.max_open_conns", 50)
	v.SetDefault("db.min_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "1h")
	v.SetDefault("db.conn_max_idle_time", "30m")
	v.SetDefault("db.health_timeout", "5s")
}

func validateConfig(cfg *Config) error {

	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return formatValidationErrors(ve)
		}
		return err
	}
	return nil
}

func formatValidationErrors(ve validator.ValidationErrors) error {
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")

	for _, fe := range ve {
		fmt.Fprintf(&sb, "- field '%s' failed on '%s'\n", fe.Namespace(), fe.Tag())
	}
	return errors.New(sb.String())
}
