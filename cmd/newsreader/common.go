package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"newsreader/internal/catalog"
	cfgpkg "newsreader/internal/config"
)

// stdout is where commands write their results; logs go through slog.
var stdout io.Writer = os.Stdout

// set up slog logger according to level; defaults to info.
func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// Common flags for config/env/log-level across subcommands
type commonFlags struct {
	config   string
	envFile  string
	logLevel string
}

func addCommonFlags(fs *flag.FlagSet, cf *commonFlags) {
	fs.StringVar(&cf.config, "config", "config.json", "Path to config file")
	fs.StringVar(&cf.envFile, "env-file", ".env", "Optional .env file loaded before reading the environment")
	fs.StringVar(&cf.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// parseFlags returns done=true when -h was requested.
func parseFlags(fs *flag.FlagSet, args []string) (done bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// loadConfig merges config file -> .env/env -> flags and sets up logging.
func loadConfig(cf commonFlags, flagOv cfgpkg.Overrides) (cfgpkg.Config, error) {
	setupLogger(cf.logLevel)
	if err := cfgpkg.LoadDotEnv(cf.envFile); err != nil {
		return cfgpkg.Config{}, err
	}
	fileCfg, err := cfgpkg.LoadFile(cf.config)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	envOv, secrets := cfgpkg.FromEnv()
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, secrets)
	if cfg.Debug && !strings.EqualFold(cf.logLevel, "debug") {
		setupLogger("debug")
	}
	return cfg, nil
}

func loadCatalog(cfg cfgpkg.Config) (*catalog.Catalog, error) {
	c, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	slog.Debug("catalog loaded", "path", cfg.Catalog, "articles", c.Len())
	return c, nil
}

// stringFlag records whether a flag was given so unset flags never override config.
type stringFlag struct {
	v   string
	set bool
}

func (f *stringFlag) String() string { return f.v }

func (f *stringFlag) Set(s string) error {
	f.v = s
	f.set = true
	return nil
}

func (f *stringFlag) ptr() *string {
	if !f.set {
		return nil
	}
	return &f.v
}

type boolFlag struct {
	v   bool
	set bool
}

func (f *boolFlag) String() string { return strconv.FormatBool(f.v) }

func (f *boolFlag) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	f.v = b
	f.set = true
	return nil
}

func (f *boolFlag) IsBoolFlag() bool { return true }

func (f *boolFlag) ptr() *bool {
	if !f.set {
		return nil
	}
	return &f.v
}

// intListFlag parses comma-separated article IDs, e.g. --articles 1,2,3.
type intListFlag struct {
	ids []int
}

func (f *intListFlag) String() string {
	parts := make([]string, len(f.ids))
	for i, id := range f.ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func (f *intListFlag) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid article id %q", part)
		}
		f.ids = append(f.ids, id)
	}
	return nil
}
