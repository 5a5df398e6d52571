// Package config loads service configuration from defaults, an optional
// config.yaml and BUSCATALOG_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "BUSCATALOG"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Broker   BrokerConfig   `mapstructure:"broker"`
	Seats    SeatsConfig    `mapstructure:"seats"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// StoreConfig selects the trip store: "postgres" or "memory".
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BrokerConfig selects the transport for TripCreated: "gochannel", "redis"
// or "kafka".
type BrokerConfig struct {
	Driver        string   `mapstructure:"driver"`
	KafkaBrokers  []string `mapstructure:"kafka_brokers"`
	ConsumerGroup string   `mapstructure:"consumer_group"`
	Consumer      string   `mapstructure:"consumer"`
}

// SeatsConfig selects the seat initializer: "redis" writes the inventory
// directly, "events" publishes TripCreated for the seat worker.
type SeatsConfig struct {
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	SeatsRedis  = "redis"
	SeatsEvents = "events"
)

// Load reads the configuration. configPaths are searched for config.yaml;
// a missing file is not an error.
func Load(configPaths ...string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("store.driver", StorePostgres)
	v.SetDefault("database.dsn", "host=localhost user=buscatalog password=buscatalog dbname=buscatalog port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("broker.driver", "gochannel")
	v.SetDefault("broker.kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("broker.consumer_group", "seat-worker")
	v.SetDefault("broker.consumer", "seat-worker-1")
	v.SetDefault("seats.mode", SeatsRedis)
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// BUSCATALOG_DATABASE_DSN -> database.dsn
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins)
	cfg.Broker.KafkaBrokers = splitList(cfg.Broker.KafkaBrokers)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var problems []string

	switch c.Store.Driver {
	case StorePostgres:
		if c.Database.DSN == "" {
			problems = append(problems, "database.dsn is required for the postgres store")
		}
	case StoreMemory:
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q is not one of postgres, memory", c.Store.Driver))
	}

	switch c.Seats.Mode {
	case SeatsRedis, SeatsEvents:
	default:
		problems = append(problems, fmt.Sprintf("seats.mode %q is not one of redis, events", c.Seats.Mode))
	}

	switch c.Broker.Driver {
	case "gochannel", "redis":
	case "kafka":
		if len(c.Broker.KafkaBrokers) == 0 {
			problems = append(problems, "broker.kafka_brokers is required for the kafka broker")
		}
	default:
		problems = append(problems, fmt.Sprintf("broker.driver %q is not one of gochannel, redis, kafka", c.Broker.Driver))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateWorker checks what the seat worker needs on top of validate. The
// gochannel broker only reaches consumers inside the publishing process, so
// a separate worker would never receive an event.
func (c *Config) ValidateWorker() error {
	if c.Broker.Driver == "gochannel" {
		return fmt.Errorf("invalid configuration: broker.driver gochannel cannot feed a separate seat worker; use redis or kafka")
	}
	return nil
}

// splitList accepts both real lists and a single comma-separated value as
// delivered by an environment variable.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
