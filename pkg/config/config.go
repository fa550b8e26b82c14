package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the process-wide configuration tree, loaded once at startup.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig

	RabbitMQURL string
	SentryDSN   string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig bounds the adaptive constraint-guided metaheuristic run
// that backs POST /scheduler and POST /scheduler/evaluate.
type SchedulerConfig struct {
	Enabled            bool
	MaxGenerations     int
	DefaultDeadline    time.Duration
	MaxDeadline        time.Duration
	MaxRestarts        int
	PopulationFloor    int
	PopulationCeiling  int
	RandomSeed         int64
	HistoryEnabled     bool
	IdempotencyTTL     time.Duration
	PenaltyOptimizerN  int
	ConvergenceWindow  int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		Enabled:           v.GetBool("ENABLE_SCHEDULER"),
		MaxGenerations:    v.GetInt("SCHEDULER_MAX_GENERATIONS"),
		DefaultDeadline:   parseDuration(v.GetString("SCHEDULER_DEFAULT_DEADLINE"), 30*time.Second),
		MaxDeadline:       parseDuration(v.GetString("SCHEDULER_MAX_DEADLINE"), 300*time.Second),
		MaxRestarts:       v.GetInt("SCHEDULER_MAX_RESTARTS"),
		PopulationFloor:   v.GetInt("SCHEDULER_POPULATION_FLOOR"),
		PopulationCeiling: v.GetInt("SCHEDULER_POPULATION_CEILING"),
		RandomSeed:        v.GetInt64("SCHEDULER_RANDOM_SEED"),
		HistoryEnabled:    v.GetBool("SCHEDULER_HISTORY_ENABLED"),
		IdempotencyTTL:    parseDuration(v.GetString("SCHEDULER_IDEMPOTENCY_TTL"), 5*time.Minute),
		PenaltyOptimizerN: v.GetInt("SCHEDULER_PENALTY_OPTIMIZER_CALLS"),
		ConvergenceWindow: v.GetInt("SCHEDULER_CONVERGENCE_WINDOW"),
	}

	cfg.RabbitMQURL = v.GetString("RABBITMQ_URL")
	cfg.SentryDSN = v.GetString("SENTRY_DSN")

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SCHEDULER", true)
	v.SetDefault("SCHEDULER_MAX_GENERATIONS", 10000)
	v.SetDefault("SCHEDULER_DEFAULT_DEADLINE", "30s")
	v.SetDefault("SCHEDULER_MAX_DEADLINE", "300s")
	v.SetDefault("SCHEDULER_MAX_RESTARTS", 3)
	v.SetDefault("SCHEDULER_POPULATION_FLOOR", 20)
	v.SetDefault("SCHEDULER_POPULATION_CEILING", 500)
	v.SetDefault("SCHEDULER_RANDOM_SEED", 0)
	v.SetDefault("SCHEDULER_HISTORY_ENABLED", false)
	v.SetDefault("SCHEDULER_IDEMPOTENCY_TTL", "5m")
	v.SetDefault("SCHEDULER_PENALTY_OPTIMIZER_CALLS", 12)
	v.SetDefault("SCHEDULER_CONVERGENCE_WINDOW", 20)

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("SENTRY_DSN", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
