package main

import (
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/ferrith/augur/internal/output"
)

func metricsCmd() *cli.Command {
	return &cli.Command{
		Name:      "metrics",
		Aliases:   []string{"m"},
		Usage:     "Show the per-class CK metric table",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sort",
				Value: "name",
				Usage: "Sort order: name, wmc, lcom, cbo, dit, risk",
			},
		},
		Action: runMetricsCmd,
	}
}

func runMetricsCmd(c *cli.Context) error {
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

	result := buildReport(cfg, files, "Computing metrics...")

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.ClassTable(result, c.String("sort")))
}
