package config

import (
	"errors"
	"fmt"
	"runtime"

	pserrors "github.com/standardbeagle/pyscope/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Returns a ConfigError if validation fails; thresholds must be positive
// because the metrics engine is constructed from them.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateAnalysis(&cfg.Analysis); err != nil {
		return pserrors.NewConfigError("analysis", "", err)
	}

	if err := v.validateThresholds(&cfg.Thresholds); err != nil {
		return pserrors.NewConfigError("thresholds", "", err)
	}

	if err := v.validateWatch(&cfg.Watch); err != nil {
		return pserrors.NewConfigError("watch", "", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateAnalysis(a *Analysis) error {
	if a.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative, got %d", a.MaxFileSize)
	}
	if a.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", a.Workers)
	}
	if a.TopDependencies < 0 {
		return fmt.Errorf("top_dependencies must not be negative, got %d", a.TopDependencies)
	}
	for _, pattern := range a.Include {
		if pattern == "" {
			return errors.New("include patterns cannot be empty strings")
		}
	}
	return nil
}

func (v *Validator) validateThresholds(t *Thresholds) error {
	if t.MaxParameters < 0 {
		return fmt.Errorf("max_parameters must not be negative, got %d", t.MaxParameters)
	}
	if t.MaxMethods < 0 {
		return fmt.Errorf("max_methods must not be negative, got %d", t.MaxMethods)
	}
	if t.MinDuplicateLine < 0 {
		return fmt.Errorf("min_duplicate_line must not be negative, got %d", t.MinDuplicateLine)
	}
	if t.MaxLineLength < 0 {
		return fmt.Errorf("max_line_length must not be negative, got %d", t.MaxLineLength)
	}
	return nil
}

func (v *Validator) validateWatch(w *Watch) error {
	if w.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", w.DebounceMs)
	}
	return nil
}

// setSmartDefaults fills zero values with sensible runtime-derived defaults.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = runtime.NumCPU()
	}
	if cfg.Analysis.MaxFileSize == 0 {
		cfg.Analysis.MaxFileSize = 2 * 1024 * 1024
	}
	if cfg.Analysis.TopDependencies == 0 {
		cfg.Analysis.TopDependencies = 10
	}
	if len(cfg.Analysis.Include) == 0 {
		cfg.Analysis.Include = []string{"**/*.py"}
	}
	if cfg.Thresholds.MaxParameters == 0 {
		cfg.Thresholds.MaxParameters = 5
	}
	if cfg.Thresholds.MaxMethods == 0 {
		cfg.Thresholds.MaxMethods = 20
	}
	if cfg.Thresholds.MinDuplicateLine == 0 {
		cfg.Thresholds.MinDuplicateLine = 10
	}
	if cfg.Thresholds.MaxLineLength == 0 {
		cfg.Thresholds.MaxLineLength = 100
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = 250
	}
}
