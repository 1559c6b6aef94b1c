package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("CURIO_TEST_KEY", "from-env")

	// Flag wins over env.
	if got := getConfigValue("from-flag", "CURIO_TEST_KEY", "default"); got != "from-flag" {
		t.Errorf("got %q, want from-flag", got)
	}
	// Env wins over default.
	if got := getConfigValue("", "CURIO_TEST_KEY", "default"); got != "from-env" {
		t.Errorf("got %q, want from-env", got)
	}
	// Default when nothing set.
	if got := getConfigValue("", "CURIO_TEST_UNSET", "default"); got != "default" {
		t.Errorf("got %q, want default", got)
	}
}

func TestGetBoolConfigValue(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"banana", false},
	}
	for _, tc := range cases {
		if got := getBoolConfigValue(tc.value, "CURIO_TEST_UNSET", false); got != tc.want {
			t.Errorf("getBoolConfigValue(%q): got %v, want %v", tc.value, got, tc.want)
		}
	}

	// Empty everywhere falls back to the default.
	if got := getBoolConfigValue("", "CURIO_TEST_UNSET", true); !got {
		t.Error("expected default true")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n\nFOO_FROM_FILE=bar\nQUOTED_VALUE=\"hello\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("FOO_FROM_FILE", "")
	t.Setenv("QUOTED_VALUE", "")
	os.Unsetenv("FOO_FROM_FILE")
	os.Unsetenv("QUOTED_VALUE")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	if got := os.Getenv("FOO_FROM_FILE"); got != "bar" {
		t.Errorf("FOO_FROM_FILE: got %q, want bar", got)
	}
	if got := os.Getenv("QUOTED_VALUE"); got != "hello" {
		t.Errorf("QUOTED_VALUE: got %q, want hello", got)
	}
}

func TestLoadEnvFileDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PRESET_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("PRESET_KEY", "from-env")
	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	if got := os.Getenv("PRESET_KEY"); got != "from-env" {
		t.Errorf("PRESET_KEY: got %q, want from-env", got)
	}
}

func validTestConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{Path: "/tmp/curio.db"},
		Identity: IdentityConfig{BaseURL: "https://id.example.com"},
	}
}

func TestValidate(t *testing.T) {
	if err := validTestConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := validTestConfig()
	bad.App.Environment = "sandbox"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown environment")
	}

	bad = validTestConfig()
	bad.Logger.Level = "loud"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}

	bad = validTestConfig()
	bad.Database.Path = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty database path")
	}

	bad = validTestConfig()
	bad.Identity.BaseURL = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected error for missing identity URL")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	got, err := expandPath("~/curio/data.db", "")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "curio", "data.db") {
		t.Errorf("got %q", got)
	}

	// Empty path falls back to the default.
	got, err = expandPath("", "/srv/default.db")
	if err != nil {
		t.Fatalf("expandPath default: %v", err)
	}
	if got != "/srv/default.db" {
		t.Errorf("got %q, want /srv/default.db", got)
	}
}
