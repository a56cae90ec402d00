package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/ferrith/augur/pkg/config"
)

// TestGetPaths verifies path handling from CLI arguments.
func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no args defaults to current dir",
			args:     []string{},
			expected: []string{"."},
		},
		{
			name:     "single path",
			args:     []string{"/foo/bar"},
			expected: []string{"/foo/bar"},
		},
		{
			name:     "multiple paths",
			args:     []string{"/foo", "/bar"},
			expected: []string{"/foo", "/bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &cli.App{
				Action: func(c *cli.Context) error {
					result := getPaths(c)
					if len(result) != len(tt.expected) {
						t.Errorf("getPaths() = %v, want %v", result, tt.expected)
						return nil
					}
					for i := range result {
						if result[i] != tt.expected[i] {
							t.Errorf("getPaths()[%d] = %q, want %q", i, result[i], tt.expected[i])
						}
					}
					return nil
				},
			}
			args := append([]string{"augur"}, tt.args...)
			if err := app.Run(args); err != nil {
				t.Fatalf("app.Run() error: %v", err)
			}
		})
	}
}

// TestLoadConfigOverrides verifies command-line flags override config values.
func TestLoadConfigOverrides(t *testing.T) {
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config"},
			&cli.BoolFlag{Name: "include-tests"},
			&cli.IntFlag{Name: "workers"},
			&cli.BoolFlag{Name: "verbose"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if !cfg.Analysis.IncludeTests {
				t.Error("expected include-tests override to apply")
			}
			if cfg.Analysis.Workers != 4 {
				t.Errorf("Workers = %d, want 4", cfg.Analysis.Workers)
			}
			return nil
		},
	}
	if err := app.Run([]string{"augur", "--include-tests", "--workers", "4"}); err != nil {
		t.Fatalf("app.Run() error: %v", err)
	}
}

// TestCollectFilesFileArgs verifies that file arguments are admitted
// individually, with non-source files filtered out.
func TestCollectFilesFileArgs(t *testing.T) {
	dir := t.TempDir()
	java := filepath.Join(dir, "Foo.java")
	md := filepath.Join(dir, "notes.md")
	for _, p := range []string{java, md} {
		if err := os.WriteFile(p, []byte("class Foo { }"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := collectFiles(config.DefaultConfig(), []string{java, md})
	if err != nil {
		t.Fatalf("collectFiles() error: %v", err)
	}
	if len(files) != 1 || files[0] != java {
		t.Errorf("collectFiles() = %v, want [%s]", files, java)
	}
}

// TestBuildReportFromDir runs the scan and extraction pipeline on a
// small corpus written to a temp directory.
func TestBuildReportFromDir(t *testing.T) {
	dir := t.TempDir()
	src := `public class Greeter {
    private String name;

    public String greet() {
        return "hello " + name;
    }
}
`
	if err := os.WriteFile(filepath.Join(dir, "Greeter.java"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	app := &cli.App{
		Flags: []cli.Flag{&cli.StringFlag{Name: "config"}},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			files, err := collectFiles(cfg, []string{dir})
			if err != nil {
				return err
			}
			if len(files) != 1 {
				t.Fatalf("collectFiles() = %d files, want 1", len(files))
			}

			result := buildReport(cfg, files, "test")
			if result.Summary.Classes != 1 {
				t.Errorf("Classes = %d, want 1", result.Summary.Classes)
			}
			if result.Class("Greeter") == nil {
				t.Error("expected Greeter in report")
			}
			return nil
		},
	}
	if err := app.Run([]string{"augur"}); err != nil {
		t.Fatalf("app.Run() error: %v", err)
	}
}
