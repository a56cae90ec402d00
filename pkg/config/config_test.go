package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Analysis.IncludeTests {
		t.Error("Analysis.IncludeTests should be false by default")
	}
	if cfg.Analysis.Workers != 0 {
		t.Errorf("Analysis.Workers = %d, want 0", cfg.Analysis.Workers)
	}

	if cfg.Diff.ContextLines != 3 {
		t.Errorf("Diff.ContextLines = %d, want 3", cfg.Diff.ContextLines)
	}
	if !cfg.Diff.IgnoreWhitespace {
		t.Error("Diff.IgnoreWhitespace should be true by default")
	}
	if cfg.Diff.MinImprovementThreshold != 5.0 {
		t.Errorf("Diff.MinImprovementThreshold = %f, want 5.0", cfg.Diff.MinImprovementThreshold)
	}

	if cfg.Thresholds.CyclomaticComplexity != 10 {
		t.Errorf("Thresholds.CyclomaticComplexity = %d, want 10", cfg.Thresholds.CyclomaticComplexity)
	}
	if cfg.Thresholds.LowQualityScore != 3.0 {
		t.Errorf("Thresholds.LowQualityScore = %f, want 3.0", cfg.Thresholds.LowQualityScore)
	}

	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("Exclude.Dirs should have default values")
	}

	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "augur.toml")
	content := `
[analysis]
include_tests = true
workers = 4

[diff]
min_improvement_threshold = 10.0

[thresholds]
cyclomatic_complexity = 15

[output]
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !cfg.Analysis.IncludeTests {
		t.Error("Analysis.IncludeTests should be true")
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("Analysis.Workers = %d, want 4", cfg.Analysis.Workers)
	}
	if cfg.Diff.MinImprovementThreshold != 10.0 {
		t.Errorf("Diff.MinImprovementThreshold = %f, want 10.0", cfg.Diff.MinImprovementThreshold)
	}
	if cfg.Thresholds.CyclomaticComplexity != 15 {
		t.Errorf("Thresholds.CyclomaticComplexity = %d, want 15", cfg.Thresholds.CyclomaticComplexity)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
	// Untouched settings keep their defaults.
	if cfg.Diff.ContextLines != 3 {
		t.Errorf("Diff.ContextLines = %d, want 3", cfg.Diff.ContextLines)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "augur.yaml")
	content := `
output:
  format: markdown
  color: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
	if cfg.Output.Color {
		t.Error("Output.Color should be false")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/augur.toml"); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{"src/Order.java", false},
		{"vendor/lib/Dep.java", true},
		{"node_modules/pkg/index.js", true},
		{"app.min.js", true},
		{"go.sum", true},
		{"deep/build/Gen.java", true},
		{"src/builder/Order.java", false},
	}

	for _, tt := range tests {
		if got := cfg.ShouldExclude(tt.path); got != tt.want {
			t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
