package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearManagerLabEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MANAGERLAB_API_URL", "MANAGERLAB_WS_URL", "MANAGERLAB_SESSION_FILE",
		"MANAGERLAB_DOWNLOAD_DIR", "MANAGERLAB_TIMEOUT", "LOG_LEVEL", "ENV",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearManagerLabEnv(t)

	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.WSBaseURL != "ws://localhost:8080" {
		t.Errorf("WSBaseURL = %q", cfg.WSBaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.LogLevel != "info" || cfg.Env != "development" {
		t.Errorf("LogLevel = %q, Env = %q", cfg.LogLevel, cfg.Env)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	clearManagerLabEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("api_base_url: https://api.managerlab.app\nlog_level: debug\ntimeout: 10s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.managerlab.app" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	// Untouched keys keep their defaults.
	if cfg.WSBaseURL != "ws://localhost:8080" {
		t.Errorf("WSBaseURL = %q", cfg.WSBaseURL)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearManagerLabEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_base_url: https://from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MANAGERLAB_API_URL", "https://from-env")
	t.Setenv("MANAGERLAB_TIMEOUT", "5s")

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://from-env" {
		t.Errorf("APIBaseURL = %q, env must win", cfg.APIBaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	clearManagerLabEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFrom(path); err == nil {
		t.Error("malformed config should error, not silently default")
	}
}

func TestLoadConfig_BadTimeout(t *testing.T) {
	clearManagerLabEnv(t)
	t.Setenv("MANAGERLAB_TIMEOUT", "soon")

	if _, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Error("unparseable timeout should error")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MANAGERLAB_TEST_KEY", "set")
	if got := GetEnv("MANAGERLAB_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("MANAGERLAB_TEST_KEY_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv fallback = %q", got)
	}
}
