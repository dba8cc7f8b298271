// Package main is the entry point for the softwrap viewer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/softwrap/internal/app"
	"github.com/dshills/softwrap/internal/config"
	"github.com/dshills/softwrap/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions holds parsed command-line flags.
type cliOptions struct {
	configPath string
	width      int
	tabSize    int
	noFold     bool
	noWrap     bool
	logLevel   string
	logFile    string
	debug      bool
	file       string

	// set records which flags were given explicitly.
	set map[string]bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	loader := config.NewLoader(opts.configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	override := opts.apply
	override(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	text, err := readDocument(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	viewer, err := app.New(app.Options{
		Backend:    term,
		Config:     cfg,
		Logger:     logger,
		Text:       text,
		Path:       opts.file,
		Loader:     loader,
		Override:   override,
		CheckIndex: opts.debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("softwrap %s viewing %q", version, opts.file)
	if err := viewer.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		logger.Error("viewer stopped: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newLogger builds the application logger. Logs go to the configured file
// because the terminal belongs to the viewer; without a file they are
// discarded.
func newLogger(cfg *config.Config) (*app.Logger, func(), error) {
	if cfg.Logging.File == "" {
		return app.NullLogger, func() {}, nil
	}
	f, err := app.OpenLogFile(cfg.Logging.File)
	if err != nil {
		return nil, nil, err
	}
	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Logging.Level),
		Output: f,
		Prefix: "softwrap",
	})
	return logger, func() { _ = f.Close() }, nil
}

// readDocument returns the content of path. A missing file opens as an
// empty document that is created on save.
func readDocument(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", app.NewOperationError("open", path, err)
	}
	return string(data), nil
}

// apply copies explicitly given flags over cfg so they take precedence
// over the config file and the environment.
func (o *cliOptions) apply(cfg *config.Config) {
	if o.set["width"] {
		cfg.Wrap.Width = o.width
	}
	if o.set["tab-size"] {
		cfg.Editor.TabSize = o.tabSize
	}
	if o.noFold {
		cfg.Wrap.Fold = false
	}
	if o.noWrap {
		cfg.Wrap.Disabled = true
	}
	if o.set["log-level"] {
		cfg.Logging.Level = o.logLevel
	}
	if o.set["log-file"] {
		cfg.Logging.File = o.logFile
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "softwrap", "config.toml")
}

func parseFlags() *cliOptions {
	opts := &cliOptions{set: make(map[string]bool)}
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", defaultConfigPath(), "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	flag.IntVar(&opts.width, "width", 0, "Wrap width in cells (0 follows the terminal width)")
	flag.IntVar(&opts.tabSize, "tab-size", 4, "Tab stop size")
	flag.BoolVar(&opts.noFold, "no-fold", false, "Do not break words wider than the wrap width")
	flag.BoolVar(&opts.noWrap, "no-wrap", false, "Start with soft wrapping turned off")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&opts.debug, "debug", false, "Verify the wrap index after every edit")
	flag.BoolVar(&opts.debug, "d", false, "Verify the wrap index after every edit (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "softwrap - soft-wrapping terminal text viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: softwrap [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+Q  quit      Ctrl+S  save\n")
		fmt.Fprintf(os.Stderr, "  Ctrl+W  toggle wrapping      Ctrl+F  toggle folding\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  softwrap notes.txt              Wrap to the terminal width\n")
		fmt.Fprintf(os.Stderr, "  softwrap -width 72 notes.txt    Wrap at 72 cells\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("softwrap %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	flag.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	switch flag.NArg() {
	case 0:
	case 1:
		opts.file = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: expected at most one file, got %d\n", flag.NArg())
		os.Exit(1)
	}

	return opts
}
