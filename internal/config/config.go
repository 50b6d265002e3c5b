package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	units "github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

// ReportConfig represents Markdown/HTML report configuration
type ReportConfig struct {
	// Enabled writes report.md and report.html next to the summary
	Enabled bool `yaml:"enabled"`
}

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled records every run that gets past setup, failed ones included
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database (empty = <output_dir>/history.db)
	DBPath string `yaml:"db_path"`
}

// Config represents filestat configuration options
type Config struct {
	// InputDir is the folder whose direct-child files are processed
	InputDir string `yaml:"input_dir"`

	// OutputDir is the folder where the summary and log are written
	OutputDir string `yaml:"output_dir"`

	// SummaryFile is the file name of the JSON summary inside OutputDir
	SummaryFile string `yaml:"summary_file"`

	// LogFile is the file name of the run log inside OutputDir
	LogFile string `yaml:"log_file"`

	// LogLevel sets the console verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Verbose shows per-file detail on the console
	Verbose bool `yaml:"verbose"`

	// LargeFileThreshold is a size string such as "100MB"; larger files are flagged
	LargeFileThreshold string `yaml:"large_file_threshold"`

	// Report contains report rendering configuration
	Report ReportConfig `yaml:"report"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		InputDir:           "input",
		OutputDir:          "output",
		SummaryFile:        "summary.json",
		LogFile:            "processing.log",
		LogLevel:           "info",
		Verbose:            false,
		LargeFileThreshold: "100MB",
		Report: ReportConfig{
			Enabled: false,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
		},
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

	var yamlCfg Config
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.InputDir != "" {
		cfg.InputDir = yamlCfg.InputDir
	}
	if yamlCfg.OutputDir != "" {
		cfg.OutputDir = yamlCfg.OutputDir
	}
	if yamlCfg.SummaryFile != "" {
		cfg.SummaryFile = yamlCfg.SummaryFile
	}
	if yamlCfg.LogFile != "" {
		cfg.LogFile = yamlCfg.LogFile
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.Verbose {
		cfg.Verbose = true
	}
	if yamlCfg.LargeFileThreshold != "" {
		cfg.LargeFileThreshold = yamlCfg.LargeFileThreshold
	}

	// Nested sections: only keys actually present override defaults, so an
	// explicit "enabled: false" is honoured
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, ok := rawMap["report"].(map[string]interface{}); ok {
			if _, exists := section["enabled"]; exists {
				cfg.Report.Enabled = yamlCfg.Report.Enabled
			}
		}
		if section, ok := rawMap["history"].(map[string]interface{}); ok {
			if _, exists := section["enabled"]; exists {
				cfg.History.Enabled = yamlCfg.History.Enabled
			}
			if _, exists := section["db_path"]; exists {
				cfg.History.DBPath = yamlCfg.History.DBPath
			}
		}
	}

	return cfg, nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(inputDir, outputDir *string, verbose *bool, logLevel, largeFile *string, report, history *bool) {
	if inputDir != nil {
		c.InputDir = *inputDir
	}
	if outputDir != nil {
		c.OutputDir = *outputDir
	}
	if verbose != nil {
		c.Verbose = *verbose
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if largeFile != nil {
		c.LargeFileThreshold = *largeFile
	}
	if report != nil {
		c.Report.Enabled = *report
	}
	if history != nil {
		c.History.Enabled = *history
	}
}

// ConsoleLevel returns the effective console log level. Verbose mode
// lowers info to debug but never raises an explicitly lower level.
func (c *Config) ConsoleLevel() string {
	level := strings.ToLower(c.LogLevel)
	if c.Verbose && (level == "info" || level == "") {
		return "debug"
	}
	return level
}

// LargeFileThresholdBytes parses LargeFileThreshold using binary multiples
// ("100MB" = 100 * 1024 * 1024)
func (c *Config) LargeFileThresholdBytes() (int64, error) {
	n, err := units.RAMInBytes(c.LargeFileThreshold)
	if err != nil {
		return 0, fmt.Errorf("invalid large_file_threshold %q: %w", c.LargeFileThreshold, err)
	}
	return n, nil
}

// LogPath returns the full path of the run log
func (c *Config) LogPath() string {
	return filepath.Join(c.OutputDir, c.LogFile)
}

// HistoryDBPath returns the history database path, defaulting to the output folder
func (c *Config) HistoryDBPath() string {
	if c.History.DBPath != "" {
		return c.History.DBPath
	}
	return filepath.Join(c.OutputDir, "history.db")
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputDir) == "" {
		return fmt.Errorf("input_dir cannot be empty")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	// Output file names live directly in the output folder
	for key, name := range map[string]string{"summary_file": c.SummaryFile, "log_file": c.LogFile} {
		if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
			return fmt.Errorf("%s must be a plain file name, got %q", key, name)
		}
	}
	if c.SummaryFile == c.LogFile {
		return fmt.Errorf("summary_file and log_file must differ, both are %q", c.SummaryFile)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	threshold, err := c.LargeFileThresholdBytes()
	if err != nil {
		return err
	}
	if threshold <= 0 {
		return fmt.Errorf("large_file_threshold must be > 0, got %q", c.LargeFileThreshold)
	}

	return nil
}
