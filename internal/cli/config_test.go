package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/citruspi/badger/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Bind != defaultBind {
		t.Errorf("Bind = %q, want %q", cfg.Bind, defaultBind)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if got := cfg.HTTP.Timeouts().Shutdown; got != 5*time.Second {
		t.Errorf("shutdown timeout = %v, want 5s", got)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "badger.toml", `
bind = "0.0.0.0:8080"
render_dataset = "/srv/metrics.json"
log_level = "debug"

[http]
read_timeout = "2s"
shutdown_timeout = "1m"
`)

	cfg, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Bind != "0.0.0.0:8080" || cfg.RenderDataset != "/srv/metrics.json" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	tm := cfg.HTTP.Timeouts()
	if tm.Read != 2*time.Second || tm.Shutdown != time.Minute {
		t.Errorf("timeouts = %+v, want read 2s and shutdown 1m", tm)
	}
	if tm.Write != 10*time.Second {
		t.Errorf("write timeout = %v, want the 10s default", tm.Write)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "badger.toml", `bind = "0.0.0.0:8080"`)

	cfg, err := LoadConfig(path, envMap(map[string]string{
		EnvBind:    "127.0.0.1:9000",
		EnvIcons:   "/srv/icons",
		EnvLogFile: "",
	}))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Bind != "127.0.0.1:9000" {
		t.Errorf("Bind = %q, want the environment value", cfg.Bind)
	}
	if cfg.IconsDir != "/srv/icons" {
		t.Errorf("IconsDir = %q, want /srv/icons", cfg.IconsDir)
	}
	if cfg.LogFile != "" {
		t.Errorf("empty env values should be ignored, LogFile = %q", cfg.LogFile)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		env  map[string]string
	}{
		{"missing explicit file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") }, nil},
		{"bad toml", func(t *testing.T) string { return writeFile(t, "c.toml", "bind = ") }, nil},
		{"unknown key", func(t *testing.T) string { return writeFile(t, "c.toml", `bnid = "x"`) }, nil},
		{"bad duration", func(t *testing.T) string { return writeFile(t, "c.toml", "[http]\nread_timeout = \"soon\"") }, nil},
		{"negative duration", func(t *testing.T) string { return writeFile(t, "c.toml", "[http]\nidle_timeout = \"-1s\"") }, nil},
		{"bad log level", func(t *testing.T) string { return "" }, map[string]string{EnvLogLevel: "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path(t), envMap(tt.env))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("LoadConfig() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestProcessEnv(t *testing.T) {
	dotenv := writeFile(t, ".env", "BADGER_BIND=10.0.0.1:1\nBADGER_ICONS=/from/dotenv\n")
	t.Setenv(EnvBind, "10.0.0.2:2")

	lookup := processEnv(dotenv)
	if v, _ := lookup(EnvBind); v != "10.0.0.2:2" {
		t.Errorf("%s = %q, want the process value", EnvBind, v)
	}
	if v, _ := lookup(EnvIcons); v != "/from/dotenv" {
		t.Errorf("%s = %q, want the dotenv value", EnvIcons, v)
	}
	if _, ok := lookup("BADGER_UNSET_FOR_TEST"); ok {
		t.Error("unset variables should not be found")
	}

	missing := processEnv(filepath.Join(t.TempDir(), ".env"))
	if v, _ := missing(EnvBind); v != "10.0.0.2:2" {
		t.Errorf("missing dotenv should fall back to the process, got %q", v)
	}
}
