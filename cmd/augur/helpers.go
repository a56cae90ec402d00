package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/ferrith/augur/internal/fileproc"
	"github.com/ferrith/augur/internal/output"
	"github.com/ferrith/augur/internal/progress"
	"github.com/ferrith/augur/internal/scanner"
	"github.com/ferrith/augur/pkg/config"
	"github.com/ferrith/augur/pkg/facts"
	"github.com/ferrith/augur/pkg/parser"
	"github.com/ferrith/augur/pkg/report"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig loads the config file named by --config, or searches the
// default locations, then applies command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if c.IsSet("include-tests") {
		cfg.Analysis.IncludeTests = c.Bool("include-tests")
	}
	if c.IsSet("workers") {
		cfg.Analysis.Workers = c.Int("workers")
	}
	if c.IsSet("verbose") {
		cfg.Output.Verbose = c.Bool("verbose")
	}
	return cfg, nil
}

// collectFiles scans each path and returns the combined source file
// list. Directory arguments are walked; file arguments are admitted
// individually under the same exclusion rules.
func collectFiles(cfg *config.Config, paths []string) ([]string, error) {
	scan := scanner.New(cfg)

	var files []string
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}
		if !info.IsDir() {
			ok, err := scan.ScanFile(absPath)
			if err != nil {
				return nil, fmt.Errorf("cannot scan %s: %w", path, err)
			}
			if ok {
				files = append(files, absPath)
			}
			continue
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// printLanguageBreakdown lists the corpus composition per language.
func printLanguageBreakdown(cfg *config.Config, files []string) {
	groups := scanner.New(cfg).GroupByLanguage(files)
	langs := make([]parser.Language, 0, len(groups))
	for lang := range groups {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	for _, lang := range langs {
		color.White("  %s: %d files", lang, len(groups[lang]))
	}
}

// buildReport extracts class facts from files in parallel and assembles
// the project report. Files that fail to parse become diagnostics.
func buildReport(cfg *config.Config, files []string, label string) *report.ProjectReport {
	tracker := progress.NewTracker(label, len(files))
	procErrs := &fileproc.ProcessingErrors{}

	perFile := fileproc.MapFilesN(files, cfg.Analysis.Workers,
		func(extractor *facts.Extractor, path string) ([]facts.ClassFact, error) {
			return extractor.ExtractFile(path)
		}, tracker.Tick, procErrs.Add)
	tracker.FinishSuccess()

	var classes []facts.ClassFact
	for _, fileClasses := range perFile {
		classes = append(classes, fileClasses...)
	}

	var diags []report.Diagnostic
	for _, pe := range procErrs.Errors {
		diags = append(diags, report.Diagnostic{
			Kind:    report.DiagParseFailure,
			Path:    pe.Path,
			Message: pe.Err.Error(),
		})
	}

	return report.Build(classes, diags)
}

// newFormatter builds the output formatter from the shared flags.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := output.ParseFormat(c.String("format"))
	return output.NewFormatter(format, c.String("output"), cfg.Output.Color)
}
