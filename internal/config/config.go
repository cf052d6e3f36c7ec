package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries everything the client needs to talk to a ManagerLab
// backend. Values resolve in precedence order: environment variable, then
// the optional config file, then the built-in default.
type Config struct {
	APIBaseURL  string        `yaml:"api_base_url"`
	WSBaseURL   string        `yaml:"ws_base_url"`
	SessionFile string        `yaml:"session_file"`
	DownloadDir string        `yaml:"download_dir"`
	Timeout     time.Duration `yaml:"timeout"`

	LogLevel string `yaml:"log_level"`
	Env      string `yaml:"env"`
}

// DefaultPath is where LoadConfig looks for the optional config file.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".managerlab", "config.yaml")
}

// LoadConfig builds the config from defaults, the optional YAML file at
// DefaultPath, and environment variables, in that order.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultPath())
}

// LoadConfigFrom is LoadConfig with an explicit file path. A missing file is
// not an error; a malformed one is.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := &Config{
		APIBaseURL:  "http://localhost:8080",
		WSBaseURL:   "ws://localhost:8080",
		SessionFile: filepath.Join(filepath.Dir(path), "session"),
		DownloadDir: ".",
		Timeout:     30 * time.Second,
		LogLevel:    "info",
		Env:         "development",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.APIBaseURL = GetEnv("MANAGERLAB_API_URL", cfg.APIBaseURL)
	cfg.WSBaseURL = GetEnv("MANAGERLAB_WS_URL", cfg.WSBaseURL)
	cfg.SessionFile = GetEnv("MANAGERLAB_SESSION_FILE", cfg.SessionFile)
	cfg.DownloadDir = GetEnv("MANAGERLAB_DOWNLOAD_DIR", cfg.DownloadDir)
	cfg.LogLevel = GetEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Env = GetEnv("ENV", cfg.Env)

	if v := os.Getenv("MANAGERLAB_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse MANAGERLAB_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// GetEnv returns the environment variable's value, or defaultValue when the
// variable is unset.
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
