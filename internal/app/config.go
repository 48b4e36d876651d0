package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/orderdesk-backend/internal/data/db"
	"github.com/yungbote/orderdesk-backend/internal/events"
	"github.com/yungbote/orderdesk-backend/internal/observability"
	"github.com/yungbote/orderdesk-backend/internal/pkg/envutil"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
)

const configFileEnv = "CONFIG_FILE"

type Config struct {
	LogMode string
	Port    string

	DB db.Config

	EventsBackend string
	Redis         events.RedisConfig
	Kafka         events.KafkaConfig
	Relay         events.RelayConfig

	Otel           observability.OtelConfig
	MetricsEnabled bool
	CORSOrigins    []string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		LogMode: envutil.GetEnv("LOG_MODE", "development", log),
		Port:    envutil.GetEnv("PORT", "8080", log),
		DB: db.Config{
			Driver:           envutil.GetEnv("DB_DRIVER", db.DriverPostgres, log),
			PostgresHost:     envutil.GetEnv("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.GetEnv("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.GetEnv("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.GetEnv("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.GetEnv("POSTGRES_NAME", "orderdesk", log),
			SQLitePath:       envutil.GetEnv("SQLITE_PATH", "orderdesk.db", log),
			MaxOpenConns:     envutil.GetEnvAsInt("DB_MAX_OPEN_CONNS", 20, log),
			MaxIdleConns:     envutil.GetEnvAsInt("DB_MAX_IDLE_CONNS", 5, log),
			SlowQuery:        envutil.GetEnvAsDuration("DB_SLOW_QUERY", time.Second, log),
		},
		EventsBackend: strings.ToLower(envutil.GetEnv("EVENTS_BACKEND", events.BackendNone, log)),
		Redis: events.RedisConfig{
			Addr:    envutil.GetEnv("REDIS_ADDR", "", log),
			Channel: envutil.GetEnv("REDIS_CHANNEL", "orderdesk", log),
		},
		Kafka: events.KafkaConfig{
			Brokers: envutil.GetEnvAsList("KAFKA_BROKERS", nil, log),
			Topic:   envutil.GetEnv("KAFKA_TOPIC", "", log),
		},
		Relay: events.RelayConfig{
			PollInterval: time.Duration(envutil.GetEnvAsInt("OUTBOX_POLL_INTERVAL_MS", 1000, log)) * time.Millisecond,
			BatchSize:    envutil.GetEnvAsInt("OUTBOX_BATCH_SIZE", 50, log),
			MaxAttempts:  envutil.GetEnvAsInt("OUTBOX_MAX_ATTEMPTS", 10, log),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.GetEnvAsBool("OTEL_ENABLED", false, log),
			ServiceName: envutil.GetEnv("OTEL_SERVICE_NAME", "orderdesk-backend", log),
			Environment: envutil.GetEnv("OTEL_ENVIRONMENT", "", log),
			Version:     envutil.GetEnv("OTEL_SERVICE_VERSION", "", log),
			Endpoint:    envutil.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseOTLPHeaders(envutil.GetEnv("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.GetEnvAsFloat("OTEL_SAMPLER_RATIO", 1, log),
		},
		MetricsEnabled: envutil.GetEnvAsBool("METRICS_ENABLED", true, log),
		CORSOrigins:    envutil.GetEnvAsList("CORS_ORIGINS", nil, log),
	}
}

// ApplyConfigFile loads the YAML file named by CONFIG_FILE and exports each
// key that is not already set in the environment. Keys use the same names as
// the environment variables.
func ApplyConfigFile(log *logger.Logger) error {
	path := strings.TrimSpace(os.Getenv(configFileEnv))
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", configFileEnv, err)
	}
	values, err := parseConfigFile(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	applied := 0
	for key, val := range values {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		applied++
	}
	if log != nil {
		log.Info("Config file applied", "path", path, "keys", applied)
	}
	return nil
}

func parseConfigFile(raw []byte) (map[string]string, error) {
	doc := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(doc))
	for key, v := range doc {
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" || v == nil {
			continue
		}
		switch val := v.(type) {
		case []interface{}:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				parts = append(parts, fmt.Sprint(p))
			}
			out[key] = strings.Join(parts, ",")
		case map[string]interface{}:
			return nil, fmt.Errorf("key %s: nested values are not supported", key)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return out, nil
}
