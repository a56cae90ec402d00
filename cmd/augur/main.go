package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "augur",
		Usage:   "Object-oriented design metrics for multi-language codebases",
		Version: version,
		Description: `Augur computes the Chidamber-Kemerer metric suite (WMC, DIT, NOC,
CBO, RFC, CA, CE, LCOM) plus cyclomatic complexity per class, scores
design quality and risk, builds the class dependency graph with cycle
detection, and measures the metric impact of a diff.

Supports: Java, Python, TypeScript, JavaScript, C#, C++, Ruby, PHP`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"AUGUR_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "include-tests",
				Usage: "Include test files in the corpus",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel extraction workers (0 = NumCPU)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			metricsCmd(),
			graphCmd(),
			impactCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
