package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/citruspi/badger/pkg/badge"
	"github.com/citruspi/badger/pkg/buildinfo"
	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/icons"
	"github.com/citruspi/badger/pkg/metrics"
	"github.com/citruspi/badger/pkg/template"
)

// appName is the application name used for the binary, env prefix and
// default config file.
const appName = "badger"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config

	stderr  io.Writer
	logFile io.Closer

	configPath  string
	logFilePath string
	verbose     bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
		stderr: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close releases the log file, if one was opened.
func (c *CLI) Close() error {
	if c.logFile == nil {
		return nil
	}
	return c.logFile.Close()
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Badger renders SVG status badges",
		Long: `Badger renders small SVG status badges (a title segment, an optional text
segment and an optional icon) from precomputed font metrics, and serves them
over HTTP.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default ./"+defaultConfigFile+" if present)")
	flags.StringVar(&c.logFilePath, "log-file", "", "also write logs to this rotating file")

	root.AddCommand(c.serverCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.datasetCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.iconsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the layered configuration and applies the logging settings
// before any subcommand runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(c.configPath, processEnv(dotenvFile))
	if err != nil {
		return err
	}
	if c.logFilePath != "" {
		cfg.LogFile = c.logFilePath
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid log level %q", cfg.LogLevel)
	}
	if c.verbose {
		level = LogDebug
	}

	if cfg.LogFile != "" {
		lj := newLogFile(cfg.LogFile)
		c.logFile = lj
		c.Logger = newLogger(io.MultiWriter(c.stderr, lj), level)
	} else {
		c.SetLogLevel(level)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// loadDataSet reads the metrics dataset at path, or builds the embedded Go
// font dataset when path is empty.
func loadDataSet(path string) (*metrics.DataSet, error) {
	if path == "" {
		return metrics.Builtin()
	}
	return metrics.Load(path)
}

// loadCatalog returns the embedded icon catalog merged with dir, if set.
func loadCatalog(dir string) (*icons.Catalog, error) {
	catalog, err := icons.Default()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return catalog, nil
	}
	return catalog.WithDir(dir)
}

// newFactory wires the dataset, catalog and badge template into a factory.
func (c *CLI) newFactory(datasetPath, iconsDir string) (*badge.Factory, error) {
	prog := newProgress(c.Logger)

	ds, err := loadDataSet(datasetPath)
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(iconsDir)
	if err != nil {
		return nil, err
	}
	engine, err := template.Default()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load badge template")
	}

	f, err := badge.NewFactory(badge.Options{
		DataSet: ds,
		Icons:   catalog,
		Engine:  engine,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, err
	}

	source := datasetPath
	if source == "" {
		source = "builtin"
	}
	prog.done("Loaded metrics dataset " + source)
	return f, nil
}
