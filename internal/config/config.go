package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file written by init
const FileName = "tdd.config.json"

// defaultArtifactsDir is also the directory searched first for FileName
const defaultArtifactsDir = "agent"

// frameworkCommands maps a framework tag to its conventional test command
var frameworkCommands = map[string]string{
	"vitest": "npm run test",
	"jest":   "npm test",
	"pytest": "pytest",
	"junit":  "mvn test",
	"go":     "go test ./...",
	"rspec":  "rspec",
}

// Config represents tddkit configuration options
type Config struct {
	// ArtifactsDir is the directory, relative to the project root, holding all TDD artifacts
	ArtifactsDir string `yaml:"artifacts_dir" json:"artifacts_dir"`

	// BehaviorIDFormat is the identifier template ({timestamp}, {slug}, {date}, {time}, {uuid})
	BehaviorIDFormat string `yaml:"behavior_id_format" json:"behavior_id_format"`

	// SlowTestThresholdMS flags tests whose runtime is strictly greater than this value
	SlowTestThresholdMS int `yaml:"slow_test_threshold_ms" json:"slow_test_threshold_ms"`

	// TestFramework selects the slow-test recognizer (vitest, jest, pytest, junit, go)
	TestFramework string `yaml:"test_framework" json:"test_framework"`

	// TestCommand is the command developers run the suite with
	TestCommand string `yaml:"test_command" json:"test_command"`

	// CommitAfterBehavior records the team convention of committing per behavior
	CommitAfterBehavior bool `yaml:"commit_after_behavior" json:"commit_after_behavior"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level,omitempty"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		ArtifactsDir:        defaultArtifactsDir,
		BehaviorIDFormat:    "B-{timestamp}-{slug}",
		SlowTestThresholdMS: 100,
		TestFramework:       "vitest",
		TestCommand:         "npm run test",
		CommitAfterBehavior: true,
		LogLevel:            "info",
	}
}

// DefaultTestCommand returns the conventional test command for a framework tag.
// Unknown tags fall back to "npm run test".
func DefaultTestCommand(framework string) string {
	if cmd, ok := frameworkCommands[strings.ToLower(framework)]; ok {
		return cmd
	}
	return "npm run test"
}

// CandidatePaths returns the config file locations searched under root, in order
func CandidatePaths(root string) []string {
	return []string{
		filepath.Join(root, defaultArtifactsDir, FileName),
		filepath.Join(root, FileName),
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// JSON is valid YAML, so one decoder covers tdd.config.json and
	// hand-written YAML variants alike
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Only keys present in the file override defaults; an explicit
	// zero threshold or false flag must survive the merge
	if _, ok := rawMap["artifacts_dir"]; ok {
		cfg.ArtifactsDir = fileCfg.ArtifactsDir
	}
	if _, ok := rawMap["behavior_id_format"]; ok {
		cfg.BehaviorIDFormat = fileCfg.BehaviorIDFormat
	}
	if _, ok := rawMap["slow_test_threshold_ms"]; ok {
		cfg.SlowTestThresholdMS = fileCfg.SlowTestThresholdMS
	}
	if _, ok := rawMap["test_framework"]; ok {
		cfg.TestFramework = fileCfg.TestFramework
	}
	if _, ok := rawMap["test_command"]; ok {
		cfg.TestCommand = fileCfg.TestCommand
	}
	if _, ok := rawMap["commit_after_behavior"]; ok {
		cfg.CommitAfterBehavior = fileCfg.CommitAfterBehavior
	}
	if _, ok := rawMap["log_level"]; ok {
		cfg.LogLevel = fileCfg.LogLevel
	}

	return cfg, nil
}

// Discover resolves the configuration for a project root.
// The first existing file from CandidatePaths wins; files are never merged.
// The returned source is the file that was loaded, or "" when defaults are used.
func Discover(root string) (*Config, string, error) {
	for _, path := range CandidatePaths(root) {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	return DefaultConfig(), "", nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(artifactsDir *string, threshold *int, framework *string, testCommand *string) {
	if artifactsDir != nil {
		c.ArtifactsDir = *artifactsDir
	}
	if threshold != nil {
		c.SlowTestThresholdMS = *threshold
	}
	if framework != nil {
		c.TestFramework = *framework
	}
	if testCommand != nil {
		c.TestCommand = *testCommand
	}
}

// ArtifactsPath returns the absolute-or-relative artifacts directory under root
func (c *Config) ArtifactsPath(root string) string {
	return filepath.Join(root, c.ArtifactsDir)
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ArtifactsDir) == "" {
		return fmt.Errorf("artifacts_dir cannot be empty")
	}
	for _, part := range strings.Split(filepath.ToSlash(c.ArtifactsDir), "/") {
		if part == ".." {
			return fmt.Errorf("artifacts_dir %q must not leave the project root", c.ArtifactsDir)
		}
	}

	if c.BehaviorIDFormat == "" {
		return fmt.Errorf("behavior_id_format cannot be empty")
	}
	if strings.ContainsAny(c.BehaviorIDFormat, `/\`) {
		return fmt.Errorf("behavior_id_format %q must not contain path separators", c.BehaviorIDFormat)
	}

	if c.SlowTestThresholdMS < 0 {
		return fmt.Errorf("slow_test_threshold_ms must be >= 0, got %d", c.SlowTestThresholdMS)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if c.LogLevel != "" && !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}
