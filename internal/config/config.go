package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	pserrors "github.com/standardbeagle/pyscope/internal/errors"
)

// DefaultConfigFile is the config file looked up in the project root.
const DefaultConfigFile = ".pyscope.toml"

// Config is the full analyzer configuration. Zero values are replaced by
// smart defaults in the validator; thresholds are the tunable inputs the
// metrics engine consumes instead of scattered magic numbers.
type Config struct {
	Project    Project    `toml:"project"`
	Analysis   Analysis   `toml:"analysis"`
	Thresholds Thresholds `toml:"thresholds"`
	Watch      Watch      `toml:"watch"`
}

type Project struct {
	Root string `toml:"root"`
	Name string `toml:"name"`
}

type Analysis struct {
	Include         []string `toml:"include"` // doublestar globs, default **/*.py
	Exclude         []string `toml:"exclude"`
	MaxFileSize     int64    `toml:"max_file_size"`    // bytes, files above are skipped
	Workers         int      `toml:"workers"`          // 0 = auto-detect (NumCPU)
	TopDependencies int      `toml:"top_dependencies"` // ranking size, default 10
}

type Thresholds struct {
	MaxParameters    int `toml:"max_parameters"`     // long-parameter-list smell
	MaxMethods       int `toml:"max_methods"`        // large-class smell
	MinDuplicateLine int `toml:"min_duplicate_line"` // minimum line length for duplicate detection
	MaxLineLength    int `toml:"max_line_length"`    // long-line report
}

type Watch struct {
	Enabled    bool `toml:"enabled"`
	DebounceMs int  `toml:"debounce_ms"`
}

// Default returns a config with every knob at its default value.
func Default() *Config {
	return &Config{
		Analysis: Analysis{
			Include:         []string{"**/*.py"},
			Exclude:         defaultExcludes(),
			MaxFileSize:     2 * 1024 * 1024,
			Workers:         0,
			TopDependencies: 10,
		},
		Thresholds: Thresholds{
			MaxParameters:    5,
			MaxMethods:       20,
			MinDuplicateLine: 10,
			MaxLineLength:    100,
		},
		Watch: Watch{
			Enabled:    false,
			DebounceMs: 250,
		},
	}
}

// defaultExcludes covers the directories no Python project wants analyzed.
func defaultExcludes() []string {
	return []string{
		"**/.git/**",
		"**/__pycache__/**",
		"**/.venv/**",
		"**/venv/**",
		"**/node_modules/**",
		"**/.tox/**",
		"**/build/**",
		"**/dist/**",
	}
}

// Load reads the config file at path, layering it over defaults and
// validating the result. A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if verr := NewValidator().ValidateAndSetDefaults(cfg); verr != nil {
				return nil, verr
			}
			return cfg, nil
		}
		return nil, pserrors.NewFileError("read", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, pserrors.NewConfigError("file", path, err)
	}

	if err := NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
