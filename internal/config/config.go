package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can use values like "1s"
// or "750ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds everything the commands need. Values come from defaults,
// then an optional YAML file, then environment variables, each layer
// overriding the last.
type Config struct {
	DatabasePath    string   `yaml:"database_path"`
	RedisURL        string   `yaml:"redis_url"`
	RequestInterval Duration `yaml:"request_interval"`
	UseBrowser      bool     `yaml:"use_browser"`
	Port            string   `yaml:"port"`
	LogLevel        string   `yaml:"log_level"`
	LogFile         string   `yaml:"log_file"`
}

// Load builds the configuration. A .env file in the working directory is
// loaded first when present; configPath may be empty.
func Load(configPath string) (*Config, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:    "courtside.db",
		RequestInterval: Duration(time.Second),
		Port:            "8080",
		LogLevel:        "info",
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	cfg.DatabasePath = getEnv("COURTSIDE_DB", cfg.DatabasePath)
	cfg.RedisURL = getEnv("COURTSIDE_REDIS_URL", cfg.RedisURL)
	cfg.Port = getEnv("COURTSIDE_PORT", cfg.Port)
	cfg.LogLevel = getEnv("COURTSIDE_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("COURTSIDE_LOG_FILE", cfg.LogFile)

	if v := os.Getenv("COURTSIDE_REQUEST_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid COURTSIDE_REQUEST_INTERVAL_MS: %q", v)
		}
		cfg.RequestInterval = Duration(time.Duration(ms) * time.Millisecond)
	}
	if v := os.Getenv("COURTSIDE_USE_BROWSER"); v != "" {
		cfg.UseBrowser = v == "1" || v == "true"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
