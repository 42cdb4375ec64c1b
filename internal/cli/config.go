package cli

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/citruspi/badger/internal/server"
	"github.com/citruspi/badger/pkg/errors"
)

const (
	defaultConfigFile = appName + ".toml"
	defaultBind       = "127.0.0.1:4352"
	dotenvFile        = ".env"
)

// Environment variables, applied over the config file.
const (
	EnvBind          = "BADGER_BIND"
	EnvRenderDataset = "BADGER_RENDER_DATASET"
	EnvIcons         = "BADGER_ICONS"
	EnvLogLevel      = "BADGER_LOG_LEVEL"
	EnvLogFile       = "BADGER_LOG_FILE"
)

// Config is the merged badger configuration.
type Config struct {
	// Bind is the HTTP listen address.
	Bind string `toml:"bind"`
	// RenderDataset is the metrics dataset path. Empty uses the embedded Go
	// fonts.
	RenderDataset string `toml:"render_dataset"`
	// IconsDir is a directory of extra SVG icons.
	IconsDir string `toml:"icons_dir"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// LogFile, if set, receives a copy of the log.
	LogFile string `toml:"log_file"`

	HTTP HTTPConfig `toml:"http"`
}

// HTTPConfig holds server timeouts, written as Go durations ("10s").
type HTTPConfig struct {
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	IdleTimeout     Duration `toml:"idle_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Timeouts converts the config to server timeouts.
func (h HTTPConfig) Timeouts() server.Timeouts {
	return server.Timeouts{
		Read:     time.Duration(h.ReadTimeout),
		Write:    time.Duration(h.WriteTimeout),
		Idle:     time.Duration(h.IdleTimeout),
		Shutdown: time.Duration(h.ShutdownTimeout),
	}
}

// Duration is a time.Duration that reads and writes as text.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	t := server.DefaultTimeouts
	return &Config{
		Bind:     defaultBind,
		LogLevel: "info",
		HTTP: HTTPConfig{
			ReadTimeout:     Duration(t.Read),
			WriteTimeout:    Duration(t.Write),
			IdleTimeout:     Duration(t.Idle),
			ShutdownTimeout: Duration(t.Shutdown),
		},
	}
}

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadConfig merges the defaults, the TOML file at path and the environment.
// An empty path reads ./badger.toml when it exists. Unknown keys in the file
// are rejected.
func LoadConfig(path string, env LookupFunc) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	case !explicit && stderrors.Is(err, fs.ErrNotExist):
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if env != nil {
		cfg.applyEnv(env)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(env LookupFunc) {
	for key, dst := range map[string]*string{
		EnvBind:          &c.Bind,
		EnvRenderDataset: &c.RenderDataset,
		EnvIcons:         &c.IconsDir,
		EnvLogLevel:      &c.LogLevel,
		EnvLogFile:       &c.LogFile,
	} {
		if v, ok := env(key); ok && v != "" {
			*dst = v
		}
	}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if c.Bind == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "bind address is empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid log_level %q", c.LogLevel)
	}
	for name, d := range map[string]Duration{
		"read_timeout":     c.HTTP.ReadTimeout,
		"write_timeout":    c.HTTP.WriteTimeout,
		"idle_timeout":     c.HTTP.IdleTimeout,
		"shutdown_timeout": c.HTTP.ShutdownTimeout,
	} {
		if d < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "http.%s must not be negative", name)
		}
	}
	return nil
}

// processEnv looks variables up in the process environment first and in
// the dotenv file at path second. A missing dotenv file is ignored.
func processEnv(path string) LookupFunc {
	dotenv, err := godotenv.Read(path)
	if err != nil {
		dotenv = nil
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}
