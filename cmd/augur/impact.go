package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/ferrith/augur/internal/output"
	"github.com/ferrith/augur/internal/vcs"
	"github.com/ferrith/augur/pkg/analyzer/impact"
	"github.com/ferrith/augur/pkg/source"
)

func impactCmd() *cli.Command {
	return &cli.Command{
		Name:      "impact",
		Aliases:   []string{"i"},
		Usage:     "Measure the metric impact of a diff against a base revision",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "diff",
				Aliases:  []string{"d"},
				Usage:    "Unified diff file to analyze",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "base",
				Usage: "Git revision holding the before versions (default HEAD)",
			},
		},
		Action: runImpactCmd,
	}
}

func runImpactCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	parsed, err := impact.ParseDiffFile(c.String("diff"))
	if err != nil {
		return err
	}

	root, err := filepath.Abs(getPaths(c)[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	// The before side comes from git. A missing repository or revision
	// is not fatal: every before version is reported as unmeasurable.
	var before source.ContentSource
	if repo, err := vcs.Open(root); err == nil {
		root = repo.Root()
		tree, err := repo.TreeAt(c.String("base"))
		if err != nil {
			return fmt.Errorf("failed to resolve base revision: %w", err)
		}
		before = source.NewTree(tree)
	} else {
		color.Yellow("Not a git repository; before versions unavailable")
	}

	files, err := collectFiles(cfg, []string{root})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	// Diff paths are repository-relative, so the corpus is too.
	relFiles := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			return fmt.Errorf("path %s outside repository root: %w", f, err)
		}
		relFiles = append(relFiles, rel)
	}

	var opts []impact.Option
	opts = append(opts, impact.WithMinImprovementThreshold(cfg.Diff.MinImprovementThreshold))
	if cfg.Analysis.IncludeTests {
		opts = append(opts, impact.WithIncludeTests())
	}

	analyzer := impact.New(opts...)
	result, err := analyzer.Analyze(c.Context, parsed, before, source.NewRooted(root), relFiles)
	if err != nil {
		return fmt.Errorf("impact analysis failed: %w", err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.ImpactRenderable(result))
}
