package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for augur.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis"`

	// Diff impact settings
	Diff DiffConfig `koanf:"diff"`

	// Thresholds for various metrics
	Thresholds ThresholdConfig `koanf:"thresholds"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// AnalysisConfig controls corpus selection and parallelism.
type AnalysisConfig struct {
	IncludeTests bool `koanf:"include_tests"`
	Workers      int  `koanf:"workers"`
}

// DiffConfig controls impact analysis.
type DiffConfig struct {
	ContextLines     int  `koanf:"context_lines"`
	IgnoreWhitespace bool `koanf:"ignore_whitespace"`
	// MinImprovementThreshold is the minimum percentage change for a
	// metric delta to count toward the improvement tally.
	MinImprovementThreshold float64 `koanf:"min_improvement_threshold"`
}

// ThresholdConfig defines metric thresholds.
type ThresholdConfig struct {
	CyclomaticComplexity int     `koanf:"cyclomatic_complexity"`
	WMC                  int     `koanf:"wmc"`
	CBO                  int     `koanf:"cbo"`
	LCOM                 int     `koanf:"lcom"`
	DIT                  int     `koanf:"dit"`
	LowQualityScore      float64 `koanf:"low_quality_score"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns"`
	Extensions []string `koanf:"extensions"`
	Dirs       []string `koanf:"dirs"`
	Gitignore  bool     `koanf:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			IncludeTests: false,
			Workers:      0, // 0 means NumCPU
		},
		Diff: DiffConfig{
			ContextLines:            3,
			IgnoreWhitespace:        true,
			MinImprovementThreshold: 5.0,
		},
		Thresholds: ThresholdConfig{
			CyclomaticComplexity: 10,
			WMC:                  50,
			CBO:                  9,
			LCOM:                 3,
			DIT:                  5,
			LowQualityScore:      3.0,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.min.css",
				"*.generated.*",
			},
			Extensions: []string{
				".lock",
				".sum",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".augur",
				"dist",
				"build",
				"target",
				"__pycache__",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	// Load the config file
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	// Unmarshal into config struct
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"augur.toml",
		"augur.yaml",
		"augur.yml",
		"augur.json",
		".augur.toml",
		".augur.yaml",
		".augur.yml",
		".augur.json",
	}

	searchDirs := []string{".", ".augur"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
