package main

import (
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/ferrith/augur/internal/output"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Run the full analysis: metrics, quality scores, dependency graph",
		ArgsUsage: "[path...]",
		Action:    runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	files, err := collectFiles(cfg, getPaths(c))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}
	if cfg.Output.Verbose {
		printLanguageBreakdown(cfg, files)
	}

	result := buildReport(cfg, files, "Analyzing classes...")

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.ProjectRenderable(result))
}
