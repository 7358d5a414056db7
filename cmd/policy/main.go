package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-policy/internal/version"
	"github.com/urfave/cli/v3"
)

const envPrefix = "ARGO_POLICY_"

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "policy",
		Usage:   "Replay, validate and inspect multi-product trading policies",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "replay",
				Usage: "Step a policy over a newline-delimited JSON snapshot file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Policy configuration file (yaml, toml or json). Defaults to the built-in policy",
						Sources: cli.EnvVars(envPrefix + "CONFIG"),
					},
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Snapshot file with one JSON snapshot per line",
						Sources:  cli.EnvVars(envPrefix + "INPUT"),
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Folder the journal is exported to as parquet. Nothing is exported when empty",
						Sources: cli.EnvVars(envPrefix + "OUTPUT"),
					},
					&cli.StringFlag{
						Name:    "log-level",
						Usage:   "Log level (debug, info, warn, error)",
						Value:   "info",
						Sources: cli.EnvVars(envPrefix + "LOG_LEVEL"),
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Hide the progress bar",
					},
				},
				Action: replayAction,
			},
			{
				Name:  "validate",
				Usage: "Validate a policy configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Policy configuration file (yaml, toml or json)",
						Sources:  cli.EnvVars(envPrefix + "CONFIG"),
						Required: true,
					},
				},
				Action: validateAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the policy configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the schema to this file instead of stdout",
					},
				},
				Action: schemaAction,
			},
			{
				Name:  "generate",
				Usage: "Generate synthetic snapshots for the products of a policy",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Policy configuration whose products and observations are generated. Defaults to the built-in policy",
						Sources: cli.EnvVars(envPrefix + "CONFIG"),
					},
					&cli.IntFlag{
						Name:    "steps",
						Aliases: []string{"n"},
						Usage:   "Number of snapshots",
						Value:   1000,
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Random seed",
						Value: 42,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Snapshot file to write",
						Required: true,
					},
				},
				Action: generateAction,
			},
		},
	}
}

func main() {
	// a missing .env file is fine
	_ = godotenv.Load()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(fmt.Errorf("policy: %w", err))
	}
}
