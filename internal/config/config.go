package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds application configuration.
type Config struct {
	// ScoringMode selects how competing rule matches are resolved:
	// "cascade" (last matching rule wins) or "highest" (highest confidence wins).
	ScoringMode string `json:"scoring_mode,omitempty" validate:"omitempty,oneofci=cascade highest"`

	// ClassifyDelayMS is an artificial wait before each classification result,
	// standing in for a model round trip. 0 disables it.
	ClassifyDelayMS int `json:"classify_delay_ms,omitempty" validate:"lte=60000"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneofci=debug info warn warning error"`

	// WebBind is the interface the web UI listens on.
	WebBind string `json:"web_bind,omitempty" validate:"omitempty,ip|hostname"`

	// WebPort is the port the web UI listens on.
	WebPort int `json:"web_port,omitempty" validate:"omitempty,min=1,max=65535"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of type names to disable entirely.
	// All tools belonging to disabled types are excluded from registration.
	// Known types: "email", "customer", "pattern", "metrics".
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ScoringMode: "cascade",
		LogLevel:    "info",
		WebBind:     "127.0.0.1",
		WebPort:     8520,
	}
}

// ClassifyDelay returns ClassifyDelayMS as a duration. Negative values count as zero.
func (c *Config) ClassifyDelay() time.Duration {
	if c == nil || c.ClassifyDelayMS <= 0 {
		return 0
	}
	return time.Duration(c.ClassifyDelayMS) * time.Millisecond
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.mailtag.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.mailtag) and repo (.mailtag) directories.
// Repo config is found by walking upward from startDir to find the nearest .mailtag/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	cfg := Merge(Merge(DefaultConfig(), global), repo)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindRepoConfig walks upward from startDir to find the nearest .mailtag/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".mailtag", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Consumers lowercase and trim these values, so validation does too.
	_ = v.RegisterValidation("oneofci", func(fl validator.FieldLevel) bool {
		got := strings.TrimSpace(fl.Field().String())
		for _, want := range strings.Fields(fl.Param()) {
			if strings.EqualFold(got, want) {
				return true
			}
		}
		return false
	})
	return v
}

// Validate checks field values. It runs on every loaded config, after merging.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		return fmt.Errorf("config: %s: invalid value %v (%s)", fe.Field(), fe.Value(), rule)
	}
	return fmt.Errorf("config: %w", err)
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.ScoringMode = firstNonEmpty(overlay.ScoringMode, base.ScoringMode)
	result.LogLevel = firstNonEmpty(overlay.LogLevel, base.LogLevel)
	result.WebBind = firstNonEmpty(overlay.WebBind, base.WebBind)

	result.ClassifyDelayMS = overlay.ClassifyDelayMS
	if result.ClassifyDelayMS == 0 {
		result.ClassifyDelayMS = base.ClassifyDelayMS
	}

	result.WebPort = overlay.WebPort
	if result.WebPort == 0 {
		result.WebPort = base.WebPort
	}

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return strings.TrimSpace(b)
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
