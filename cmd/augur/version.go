package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			fmt.Printf("augur %s (commit %s, built %s)\n", version, commit, date)
			return nil
		},
	}
}
