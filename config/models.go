package config

import "time"

type AuthConfig struct {
	Secret    string `mapstructure:"secret" validate:"required"`
	ExpiryMin int    `mapstructure:"expiry_min" validate:"gt=0"`
}

type DBConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int32         `mapstructure:"max_open_conns"`
	MinIdleConns    int32         `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout"`
}

type RedisConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type RabbitMQConfig struct {
	BrokerLink         string `mapstructure:"broker_link" validate:"required"`
	ChecksExchange     string `mapstructure:"checks_exchange"`
	ChecksRoutingKey   string `mapstructure:"checks_routing_key"`
	ResultsQueue       string `mapstructure:"results_queue"`
	ResultsRoutingKey  string `mapstructure:"results_routing_key"`
	NotifyExchange     string `mapstructure:"notify_exchange"`
	NotifyRoutingKey   string `mapstructure:"notify_routing_key"`
	ConsumerWorkers    int    `mapstructure:"consumer_workers" validate:"gt=0"`
}

type SchedulerConfig struct {
	Interval  time.Duration `mapstructure:"interval" validate:"gt=0"`
	BatchSize int           `mapstructure:"batch_size" validate:"gt=0"`
	// how long a dispatched check may stay inflight before the reclaimer
	// hands it back to the schedule
	VisibilityTimeout time.Duration `mapstructure:"visibility_timeout"`
}

type ReclaimerConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
	Limit    int           `mapstructure:"limit" validate:"gt=0"`
}

type CheckfeedConfig struct {
	HTTPWorkers int `mapstructure:"http_workers" validate:"gt=0"`
	SSLWorkers  int `mapstructure:"ssl_workers" validate:"gt=0"`
}

type DispatchConfig struct {
	Workers     int `mapstructure:"workers" validate:"gt=0"`
	ChannelSize int `mapstructure:"channel_size" validate:"gt=0"`
}

type EngineConfig struct {
	// default certificate expiring-soon window, per-target override wins
	SSLExpiringSoonDays int `mapstructure:"ssl_expiring_soon_days" validate:"gt=0"`
	// latest check older than this makes the current status unknown
	StaleAfter time.Duration `mapstructure:"stale_after" validate:"gt=0"`
}

type Config struct {
	Env         string           `mapstructure:"env"`
	ServiceName string           `mapstructure:"service_name"`
	Port        int              `mapstructure:"port"`
	DB          DBConfig         `mapstructure:"db"`
	Redis       RedisConfig      `mapstructure:"redis"`
	RabbitMQ    RabbitMQConfig   `mapstructure:"rabbitmq"`
	Auth        AuthConfig       `mapstructure:"auth"`
	Scheduler   SchedulerConfig  `mapstructure:"scheduler"`
	Reclaimer   ReclaimerConfig  `mapstructure:"reclaimer"`
	Checkfeed   CheckfeedConfig  `mapstructure:"checkfeed"`
	Dispatch    DispatchConfig   `mapstructure:"dispatch"`
	Engine      EngineConfig     `mapstructure:"engine"`
}
