// Package config loads the settings of a migration run from defaults, an
// optional esmify.toml, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/mouse-blink/esmify/internal/domain"
	"github.com/mouse-blink/esmify/internal/domain/rewrite"
)

// FileName is the config file looked up in the extension directory.
const FileName = "esmify.toml"

// Environment overrides.
const (
	EnvLogLevel = "ESMIFY_LOG_LEVEL"
	EnvParallel = "ESMIFY_PARALLEL"
)

// DefaultReportsDir is where reports are saved unless configured otherwise.
const DefaultReportsDir = ".esmify-reports"

// Config holds every tunable of a run.
type Config struct {
	EntryFile   string   `toml:"entry_file"`
	ScriptExt   string   `toml:"script_ext"`
	ManualFiles []string `toml:"manual_files"`

	NativeNamespace  string   `toml:"native_namespace"`
	NativeScheme     string   `toml:"native_scheme"`
	ResourceRoot     string   `toml:"resource_root"`
	ExtensionImport  string   `toml:"extension_import"`
	NamespaceImports []string `toml:"namespace_imports"`

	Parallel   int    `toml:"parallel"`
	ReportsDir string `toml:"reports_dir"`
	LogLevel   string `toml:"log_level"`
}

// Default returns the GNOME Shell 45 settings.
func Default() Config {
	rules := rewrite.DefaultRules()

	return Config{
		EntryFile:        rules.EntryFile,
		ScriptExt:        ".js",
		ManualFiles:      []string{"prefs.js"},
		NativeNamespace:  rules.NativeNamespace,
		NativeScheme:     rules.NativeScheme,
		ResourceRoot:     rules.ResourceRoot,
		ExtensionImport:  rules.ExtensionImport,
		NamespaceImports: rules.NamespaceImports,
		Parallel:         1,
		ReportsDir:       DefaultReportsDir,
		LogLevel:         "info",
	}
}

// Load builds the config for the extension in dir. path names an explicit
// config file; when empty, dir/esmify.toml is used if present.
func Load(path, dir string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	required := path != ""
	if !required {
		path = filepath.Join(dir, FileName)
	}

	if err := cfg.decodeFile(path); err != nil {
		if required || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	var file Config

	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		sort.Strings(keys)

		return fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	strs := []struct {
		key string
		dst *string
		src string
	}{
		{"entry_file", &c.EntryFile, file.EntryFile},
		{"script_ext", &c.ScriptExt, file.ScriptExt},
		{"native_namespace", &c.NativeNamespace, file.NativeNamespace},
		{"native_scheme", &c.NativeScheme, file.NativeScheme},
		{"resource_root", &c.ResourceRoot, file.ResourceRoot},
		{"extension_import", &c.ExtensionImport, file.ExtensionImport},
		{"reports_dir", &c.ReportsDir, file.ReportsDir},
		{"log_level", &c.LogLevel, file.LogLevel},
	}

	for _, s := range strs {
		if !meta.IsDefined(s.key) {
			continue
		}

		if strings.TrimSpace(s.src) == "" {
			return fmt.Errorf("config %s: %s must not be empty", path, s.key)
		}

		*s.dst = s.src
	}

	if meta.IsDefined("manual_files") {
		c.ManualFiles = file.ManualFiles
	}

	if meta.IsDefined("namespace_imports") {
		c.NamespaceImports = file.NamespaceImports
	}

	if meta.IsDefined("parallel") {
		if file.Parallel < 1 {
			return fmt.Errorf("config %s: parallel must be at least 1, got %d", path, file.Parallel)
		}

		c.Parallel = file.Parallel
	}

	return nil
}

func (c *Config) applyEnv() error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}

	if raw := os.Getenv(EnvParallel); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return fmt.Errorf("%s: want a positive integer, got %q", EnvParallel, raw)
		}

		c.Parallel = n
	}

	return nil
}

// Rules returns the rewrite rules of the config.
func (c Config) Rules() rewrite.Rules {
	return rewrite.Rules{
		NativeNamespace:  c.NativeNamespace,
		NativeScheme:     c.NativeScheme,
		ResourceRoot:     c.ResourceRoot,
		ExtensionImport:  c.ExtensionImport,
		EntryFile:        c.EntryFile,
		NamespaceImports: c.NamespaceImports,
	}
}

// Layout returns which files of the directory take part in a run.
func (c Config) Layout() domain.Layout {
	return domain.Layout{
		EntryFile:   c.EntryFile,
		ScriptExt:   c.ScriptExt,
		ManualFiles: c.ManualFiles,
	}
}
