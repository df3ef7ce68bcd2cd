package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the console configuration. Values come from the
// environment with defaults; an optional YAML file overrides both.
type Config struct {
	APIBaseURL     string        `yaml:"api_base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	UploadMaxBytes int           `yaml:"upload_max_bytes"`
	UploadMaxRows  int           `yaml:"upload_max_rows"`
	SearchDebounce time.Duration `yaml:"search_debounce"`
	DownloadDir    string        `yaml:"download_dir"`
}

// Load reads the environment.
func Load() *Config {
	return &Config{
		APIBaseURL:     getEnv("POS_API_URL", "http://localhost:8080/api"),
		RequestTimeout: getEnvDuration("POS_REQUEST_TIMEOUT", 30*time.Second),
		UploadMaxBytes: getEnvInt("POS_UPLOAD_MAX_BYTES", 5*1024*1024),
		UploadMaxRows:  getEnvInt("POS_UPLOAD_MAX_ROWS", 5000),
		SearchDebounce: getEnvDuration("POS_SEARCH_DEBOUNCE", 200*time.Millisecond),
		DownloadDir:    getEnv("POS_DOWNLOAD_DIR", "."),
	}
}

// LoadFile loads the environment, then applies overrides from a YAML
// file. Fields absent from the file keep their env/default values.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
