// Package config resolves the runtime configuration from defaults, a TOML
// file, TASKLIST_* environment variables and command-line flags, in that
// order of increasing priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sandeepkv93/tasklist/internal/model"
)

var ErrInvalidConfig = errors.New("config: invalid value")

const (
	DefaultTasksFile  = "tasks.json"
	DefaultExportFile = "tasks_export.txt"
	appDirName        = "tasklist"
)

type RuntimeConfig struct {
	TasksFile     string `toml:"tasks_file"`
	Backend       string `toml:"backend"`
	ExportFile    string `toml:"export_file"`
	ExportFormat  string `toml:"export_format"`
	DueSoonDays   int    `toml:"due_soon_days"`
	ShowCompleted bool   `toml:"show_completed"`
	DisableColors bool   `toml:"disable_colors"`
	LogFile       string `toml:"log_file"`
	LogLevel      string `toml:"log_level"`

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string `toml:"-"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		TasksFile:     DefaultTasksFile,
		Backend:       "json",
		ExportFile:    DefaultExportFile,
		ExportFormat:  "txt",
		DueSoonDays:   model.DefaultDueSoonDays,
		ShowCompleted: false,
		DisableColors: false,
		LogFile:       "",
		LogLevel:      "info",
	}
}

// DefaultConfigPath is <user config dir>/tasklist/config.toml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDirName, "config.toml")
}

// Load builds the configuration for one launch. args excludes the program name.
func Load(fs *flag.FlagSet, args []string) (RuntimeConfig, error) {
	if fs == nil {
		fs = flag.NewFlagSet(appDirName, flag.ContinueOnError)
	}
	var flagged RuntimeConfig
	var configPath string
	bindFlags(fs, &flagged, &configPath)
	if err := fs.Parse(args); err != nil {
		return RuntimeConfig{}, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := DefaultRuntimeConfig()

	explicit := true
	if configPath == "" {
		configPath = strings.TrimSpace(os.Getenv("TASKLIST_CONFIG"))
	}
	if configPath == "" {
		configPath = DefaultConfigPath()
		explicit = false
	}
	if configPath != "" {
		if err := LoadFile(&cfg, expandPath(configPath), explicit); err != nil {
			return RuntimeConfig{}, err
		}
	}

	cfg = RuntimeConfigFromEnv(cfg)
	applyVisitedFlags(fs, &cfg, flagged)

	if err := finalize(&cfg); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// LoadFile overlays the TOML file at path onto cfg. A missing file is only an
// error when required is set.
func LoadFile(cfg *RuntimeConfig, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	cfg.ConfigFile = path
	return nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKLIST_TASKS_FILE"); ok {
		cfg.TasksFile = v
	}
	if v, ok := getEnvString("TASKLIST_BACKEND"); ok {
		cfg.Backend = v
	}
	if v, ok := getEnvString("TASKLIST_EXPORT_FILE"); ok {
		cfg.ExportFile = v
	}
	if v, ok := getEnvString("TASKLIST_EXPORT_FORMAT"); ok {
		cfg.ExportFormat = v
	}
	if v, ok := getEnvInt("TASKLIST_DUE_SOON_DAYS"); ok && v > 0 {
		cfg.DueSoonDays = v
	}
	if v, ok := getEnvBool("TASKLIST_SHOW_COMPLETED"); ok {
		cfg.ShowCompleted = v
	}
	if v, ok := getEnvBool("TASKLIST_DISABLE_COLORS"); ok {
		cfg.DisableColors = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.DisableColors = true
	}
	if v, ok := getEnvString("TASKLIST_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvString("TASKLIST_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	return cfg
}

func bindFlags(fs *flag.FlagSet, into *RuntimeConfig, configPath *string) {
	fs.StringVar(configPath, "config", "", "Path to TOML config file")
	fs.StringVar(&into.TasksFile, "file", "", "Path to the task store")
	fs.StringVar(&into.Backend, "backend", "", "Storage backend: json or sqlite")
	fs.StringVar(&into.ExportFile, "export-file", "", "Path written by export")
	fs.StringVar(&into.ExportFormat, "export-format", "", "Export format: txt or yaml")
	fs.IntVar(&into.DueSoonDays, "due-soon-days", 0, "Days ahead that count as due soon")
	fs.BoolVar(&into.ShowCompleted, "show-completed", false, "Show completed tasks at start")
	fs.BoolVar(&into.DisableColors, "no-color", false, "Disable urgency colors")
	fs.StringVar(&into.LogFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&into.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// applyVisitedFlags copies only the flags given on the command line.
func applyVisitedFlags(fs *flag.FlagSet, cfg *RuntimeConfig, flagged RuntimeConfig) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.TasksFile = flagged.TasksFile
		case "backend":
			cfg.Backend = flagged.Backend
		case "export-file":
			cfg.ExportFile = flagged.ExportFile
		case "export-format":
			cfg.ExportFormat = flagged.ExportFormat
		case "due-soon-days":
			cfg.DueSoonDays = flagged.DueSoonDays
		case "show-completed":
			cfg.ShowCompleted = flagged.ShowCompleted
		case "no-color":
			cfg.DisableColors = flagged.DisableColors
		case "log-file":
			cfg.LogFile = flagged.LogFile
		case "log-level":
			cfg.LogLevel = flagged.LogLevel
		}
	})
}

func finalize(cfg *RuntimeConfig) error {
	cfg.TasksFile = expandPath(strings.TrimSpace(cfg.TasksFile))
	cfg.ExportFile = expandPath(strings.TrimSpace(cfg.ExportFile))
	cfg.LogFile = expandPath(strings.TrimSpace(cfg.LogFile))
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.ExportFormat = strings.ToLower(strings.TrimSpace(cfg.ExportFormat))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if cfg.TasksFile == "" {
		return fmt.Errorf("%w: tasks_file is empty", ErrInvalidConfig)
	}
	if cfg.ExportFile == "" {
		cfg.ExportFile = DefaultExportFile
	}
	switch cfg.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalidConfig, cfg.Backend)
	}
	switch cfg.ExportFormat {
	case "txt", "yaml":
	default:
		return fmt.Errorf("%w: export_format %q", ErrInvalidConfig, cfg.ExportFormat)
	}
	if cfg.DueSoonDays <= 0 {
		return fmt.Errorf("%w: due_soon_days must be positive, got %d", ErrInvalidConfig, cfg.DueSoonDays)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, cfg.LogLevel)
	}
	return nil
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded, "~"))
	}
	return expanded
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
