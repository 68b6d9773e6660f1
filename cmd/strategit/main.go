// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/poiesic/strategit"
	"github.com/poiesic/strategit/core"
	"github.com/poiesic/strategit/ledger"
	"github.com/poiesic/strategit/ledger/badgerstore"
	"github.com/poiesic/strategit/optimizer"
	"github.com/poiesic/strategit/predictor"
	"github.com/poiesic/strategit/resource"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "strategit",
		Usage: "Operational tooling for the adaptive retrieval strategy engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "retrain",
				Usage:  "Refit the strategy model from a persisted ledger and write a snapshot",
				Action: retrainCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB ledger directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "snapshot",
						Aliases:  []string{"s"},
						Usage:    "Output path for the model snapshot",
						Required: true,
					},
				},
			},
			{
				Name:   "inspect",
				Usage:  "Summarize a model snapshot",
				Action: inspectCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "snapshot",
						Aliases:  []string{"s"},
						Usage:    "Path to the model snapshot",
						Required: true,
					},
				},
			},
			{
				Name:      "decide",
				Usage:     "Run the decision pipeline for a query and print the chosen strategy",
				ArgsUsage: "<query>",
				Action:    decideCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB ledger directory (optional, enables learned predictions)",
					},
					&cli.StringFlag{
						Name:  "objective",
						Usage: "Optimization objective (accuracy, speed, cost, balanced, satisfaction)",
						Value: "balanced",
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Fill a ledger with synthetic strategy records for testing",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB ledger directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of records to generate",
						Value: 200,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed",
						Value: 1,
					},
				},
			},
			{
				Name:   "probe",
				Usage:  "Sample system resources and report their status",
				Action: probeCommand,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "duration",
						Usage: "How long to sample",
						Value: 5 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Sampling interval",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func retrainCommand(c *cli.Context) error {
	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("ledger path is required")
	}

	store, err := badgerstore.Open(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open ledger store: %w", err)
	}

	led, err := ledger.New(ledger.WithStore(store))
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	defer led.Close()

	pred, err := predictor.New(led)
	if err != nil {
		return fmt.Errorf("failed to create predictor: %w", err)
	}
	defer pred.Close()

	fmt.Fprintf(os.Stderr, "Ledger: %s (%d records)\n", dbPath, led.Size())

	if err := pred.Retrain(); err != nil {
		return fmt.Errorf("retraining failed: %w", err)
	}

	snapshotPath := c.String("snapshot")
	if err := pred.SaveSnapshot(snapshotPath); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Snapshot written to %s\n", snapshotPath)
	return nil
}

func inspectCommand(c *cli.Context) error {
	snapshot, err := predictor.ReadSnapshot(c.String("snapshot"))
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	fmt.Printf("Trained:    %v\n", snapshot.Trained)
	fmt.Printf("Confidence: %.3f\n", snapshot.Confidence)
	fmt.Printf("Records:    %d\n", len(snapshot.Records))
	if len(snapshot.Coefs) > 0 {
		fmt.Printf("Model:      %d features x %d targets\n", len(snapshot.Coefs), len(snapshot.Coefs[0]))
	}
	return nil
}

func decideCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a query argument is required")
	}

	opts := []strategit.EngineOption{
		strategit.WithObjective(optimizer.Objective(c.String("objective"))),
	}
	if dbPath := c.String("db"); dbPath != "" {
		store, err := badgerstore.Open(dbPath, false)
		if err != nil {
			return fmt.Errorf("failed to open ledger store: %w", err)
		}
		opts = append(opts, strategit.WithLedgerStore(store))
	}

	engine, err := strategit.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	result, err := engine.Process(context.Background(), query, strategit.QueryOptions{})
	if err != nil {
		return fmt.Errorf("decision failed: %w", err)
	}

	fmt.Printf("Query:       %s\n", query)
	fmt.Printf("Type:        %s (complexity %.2f, %s)\n",
		result.Features.QuestionType, result.Features.ComplexityScore, result.Features.Complexity())
	fmt.Printf("Strategy:    %s\n", result.Strategy.Weights.CanonicalString())
	fmt.Printf("Confidence:  %.2f (learned=%v)\n", result.Prediction.Confidence, result.Prediction.Learned)
	fmt.Printf("Rationale:   %s\n", result.Prediction.Rationale)
	fmt.Printf("Predicted:   accuracy=%.2f latency=%.0fms cost=$%.3f calls=%d\n",
		result.Strategy.Predicted.Accuracy, result.Strategy.Predicted.LatencyMillis,
		result.Strategy.Predicted.Cost, result.Strategy.Predicted.APICalls)
	fmt.Printf("Mode:        %s\n", result.Mode)
	return nil
}

func seedCommand(c *cli.Context) error {
	store, err := badgerstore.Open(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open ledger store: %w", err)
	}

	led, err := ledger.New(ledger.WithStore(store))
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	defer led.Close()

	rng := rand.New(rand.NewSource(c.Int64("seed")))
	count := c.Int("count")

	questionTypes := core.QuestionTypes
	for i := 0; i < count; i++ {
		features := core.QueryFeatures{
			ComplexityScore:    rng.Float64(),
			EntityCount:        rng.Intn(6),
			TokenCount:         3 + rng.Intn(30),
			QuestionType:       questionTypes[rng.Intn(len(questionTypes))],
			TemporalIndicators: rng.Intn(3),
			SemanticDensity:    rng.Float64(),
			AmbiguityScore:     rng.Float64() * 0.5,
		}

		weights := core.NewWeightVector(rng.Float64(), rng.Float64(), rng.Float64())
		weights.Normalize()

		// Dense-heavy strategies on complex queries earn better outcomes
		// so seeded data has a learnable signal.
		accuracy := 0.5 + 0.3*weights[core.BackendDense]*features.ComplexityScore + 0.2*rng.Float64()
		metrics := core.PerformanceMetrics{
			Accuracy:         clamp01(accuracy),
			LatencySeconds:   0.3 + 2.0*weights[core.BackendWeb] + rng.Float64(),
			Cost:             0.01 + 0.04*weights[core.BackendWeb],
			UserSatisfaction: clamp01(accuracy - 0.1 + 0.2*rng.Float64()),
		}

		if _, err := led.Record(features, weights, metrics); err != nil {
			return fmt.Errorf("failed to record sample %d: %w", i, err)
		}
	}

	fmt.Fprintf(os.Stderr, "Seeded %d records, ledger now holds %d\n", count, led.Size())
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func probeCommand(c *cli.Context) error {
	monitor, err := resource.NewMonitor(resource.WithInterval(c.Duration("interval")))
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := monitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	time.Sleep(c.Duration("duration"))

	if err := monitor.Stop(); err != nil {
		return fmt.Errorf("failed to stop monitor: %w", err)
	}

	snapshot := monitor.Current()
	status := monitor.Classify(snapshot)

	fmt.Printf("Samples:  %d\n", monitor.HistorySize())
	fmt.Printf("CPU:      %.1f%% (%s)\n", snapshot.CPUPercent, status.CPU)
	fmt.Printf("Memory:   %.1f%% (%s), %.0f MB available\n", snapshot.MemoryPercent, status.Memory, snapshot.MemoryAvailableMB)
	fmt.Printf("GPU:      %.1f%% (%s)\n", snapshot.GPUPercent, status.GPU)
	fmt.Printf("Network:  %.2f MB/s\n", snapshot.NetworkIOMBs)
	fmt.Printf("Disk:     %.2f MB/s\n", snapshot.DiskIOMBs)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
