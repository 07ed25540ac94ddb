package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port      string `env:"PORT" default:"5000"`
	GinMode   string `env:"GIN_MODE" default:"release"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// MongoURI overrides the Atlas URI built from the credentials below.
	MongoURI  string `env:"MONGODB_URI"`
	DBUser    string `env:"DB_USER"`
	DBPass    string `env:"DB_PASS"`
	DBCluster string `env:"DB_CLUSTER" default:"cluster0.y5comcm.mongodb.net"`
	DBName    string `env:"DB_NAME" default:"RecipeDB"`

	MQTTBroker      string `env:"MQTT_BROKER"`
	MQTTClientID    string `env:"MQTT_CLIENT_ID" default:"mixer-server"`
	MQTTTopicPrefix string `env:"MQTT_TOPIC_PREFIX" default:"mixer/machine01"`

	InfluxURL    string `env:"INFLUX_URL"`
	InfluxToken  string `env:"INFLUX_TOKEN"`
	InfluxOrg    string `env:"INFLUX_ORG"`
	InfluxBucket string `env:"INFLUX_BUCKET" default:"mixer"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("GIN_MODE must be %q, %q or %q, got %q", gin.DebugMode, gin.ReleaseMode, gin.TestMode, cfg.GinMode)
	}
	if cfg.MongoURI == "" && (cfg.DBUser == "" || cfg.DBPass == "") {
		return errors.New("DB_USER and DB_PASS are required unless MONGODB_URI is set")
	}
	if cfg.InfluxURL != "" && cfg.InfluxOrg == "" {
		return errors.New("INFLUX_ORG is required when INFLUX_URL is set")
	}
	return nil
}

// DatabaseURI returns the MongoDB connection string.
func (c *Config) DatabaseURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPass), c.DBCluster)
}

// MQTTEnabled reports whether mixer state should be pushed to a broker.
func (c *Config) MQTTEnabled() bool {
	return c.MQTTBroker != ""
}

// InfluxEnabled reports whether readings should be mirrored to InfluxDB.
func (c *Config) InfluxEnabled() bool {
	return c.InfluxURL != ""
}
