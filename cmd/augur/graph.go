package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/ferrith/augur/internal/output"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"dag"},
		Usage:     "Build the class dependency graph with cycle detection",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "mermaid",
				Usage: "Emit a Mermaid diagram instead of tables",
			},
		},
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
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

	result := buildReport(cfg, files, "Building dependency graph...")

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if c.Bool("mermaid") && formatter.Format() != output.FormatJSON {
		fmt.Fprintln(formatter.Writer(), "```mermaid")
		fmt.Fprint(formatter.Writer(), output.Mermaid(result.Graph))
		fmt.Fprintln(formatter.Writer(), "```")
		return nil
	}

	return formatter.Output(output.GraphRenderable(result.Graph))
}
