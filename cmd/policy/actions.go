package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/rxtech-lab/argo-policy/internal/config"
	"github.com/rxtech-lab/argo-policy/internal/logger"
	"github.com/rxtech-lab/argo-policy/internal/policy"
	"github.com/rxtech-lab/argo-policy/internal/replay"
	"github.com/rxtech-lab/argo-policy/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// initialPrices are typical mid prices used when generating snapshots for known products.
var initialPrices = map[string]float64{
	"PEARLS":        10000,
	"BANANAS":       4900,
	"COCONUTS":      8000,
	"PINA_COLADAS":  15000,
	"DIVING_GEAR":   100000,
	"BERRIES":       3900,
	"BAGUETTE":      12000,
	"DIP":           7000,
	"UKULELE":       20000,
	"PICNIC_BASKET": 73000,
}

const defaultInitialPrice = 1000

// loadConfig loads the configuration at path, or the built-in one when path is empty.
func loadConfig(path string) (*config.PolicyConfig, error) {
	if path == "" {
		return config.Default()
	}

	return config.Load(path)
}

func replayAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	log, err := logger.NewLoggerWithLevel(logger.ParseLevel(cmd.String("log-level")))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	p, err := policy.NewFromConfig(cfg, log)
	if err != nil {
		return err
	}

	source, err := replay.NewNDJSONSource(cmd.String("input"))
	if err != nil {
		return err
	}
	defer source.Close()

	journal, err := replay.NewJournal(log)
	if err != nil {
		return err
	}
	defer journal.Close()

	runner, err := replay.NewRunner(p, journal, log)
	if err != nil {
		return err
	}

	callbacks := replay.Callbacks{}

	if !cmd.Bool("quiet") {
		var bar *progressbar.ProgressBar

		onStart := replay.OnRunStartCallback(func(runID string, totalSnapshots int) error {
			bar = progressbar.NewOptions(totalSnapshots,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("replaying"),
				progressbar.OptionShowCount(),
			)

			return nil
		})
		onStep := replay.OnStepCallback(func(_ int, _ int, _ policy.Trace) error {
			return bar.Add(1)
		})
		onEnd := replay.OnRunEndCallback(func(_ replay.Summary, _ error) {
			if bar != nil {
				_ = bar.Finish()
			}
		})

		callbacks.OnRunStart = &onStart
		callbacks.OnStep = &onStep
		callbacks.OnRunEnd = &onEnd
	}

	summary, err := runner.Run(ctx, source, callbacks)
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		if err := runner.Write(output); err != nil {
			return err
		}
	}

	marks, err := journal.GetRunMarkers(summary.RunID)
	if err != nil {
		return err
	}

	log.Info("Replay summary",
		zap.String("policy", cfg.Name),
		zap.String("run_id", summary.RunID),
		zap.Int("steps", summary.Steps),
		zap.Int("orders", summary.Orders),
		zap.Int("decisions", len(marks)),
		zap.Int("skipped", summary.Skipped),
		zap.Int("duplicates", summary.Duplicates),
	)

	return nil
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "%s is valid: version %s, %d rules over %d products\n",
		path, cfg.Version, len(cfg.Rules), len(cfg.Products()))

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schemaJSON, err := (&config.PolicyConfig{}).GenerateSchemaJSON()
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		_, err := fmt.Fprintln(cmd.Root().Writer, schemaJSON)

		return err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return os.WriteFile(output, []byte(schemaJSON), 0644)
}

func generateAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	snapshots := replay.NewSnapshotGenerator(int64(cmd.Int("seed"))).Generate(generatorConfig(cfg, int(cmd.Int("steps"))))

	output := cmd.String("output")
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer file.Close()

	if err := replay.WriteSnapshots(file, snapshots); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "wrote %d snapshots to %s\n", len(snapshots), output)

	return nil
}

// generatorConfig builds a generator configuration covering every product and observation cfg refers to.
func generatorConfig(cfg *config.PolicyConfig, steps int) replay.GeneratorConfig {
	generator := replay.DefaultGeneratorConfig()
	generator.Count = steps
	generator.Products = nil
	generator.Observations = nil

	seen := make(map[string]bool)

	addProduct := func(symbol string) {
		if seen[symbol] {
			return
		}

		seen[symbol] = true

		price, ok := initialPrices[symbol]
		if !ok {
			price = defaultInitialPrice
		}

		generator.Products = append(generator.Products, replay.DefaultProductConfig(symbol, price))
	}

	for _, product := range cfg.Products() {
		addProduct(product)
	}

	for _, rule := range cfg.Rules {
		switch rule.Type {
		case types.RuleTypePairsArbitrage:
			if rule.Pairs != nil {
				addProduct(rule.Pairs.Driver)
			}
		case types.RuleTypeBasketArbitrage:
			if rule.Basket != nil {
				for _, component := range slices.Sorted(maps.Keys(rule.Basket.Components)) {
					addProduct(component)
				}
			}
		case types.RuleTypeCorrelatedObservation:
			if rule.Correlated != nil && !seen[rule.Correlated.Observation] {
				seen[rule.Correlated.Observation] = true
				generator.Observations = append(generator.Observations, replay.ObservationConfig{
					Key:          rule.Correlated.Observation,
					InitialValue: 3000,
					StepSize:     5,
				})
			}
		}
	}

	return generator
}
