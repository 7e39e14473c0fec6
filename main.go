// Command substrate runs the surface-dwelling agent simulation headlessly
// and writes per-step telemetry plus a final path snapshot for downstream
// pattern extraction.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/substrate/config"
	"github.com/pthm-cable/substrate/sim"
	"github.com/pthm-cable/substrate/surface"
	"github.com/pthm-cable/substrate/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	steps := flag.Int("steps", 0, "Simulation steps (0 = use config)")
	agents := flag.Int("agents", 0, "Initial agent count (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and snapshot")
	logStats := flag.Bool("log-stats", false, "Log step stats via slog")
	logEveryFlag := flag.Int("log-every", 0, "Steps between stats log lines (0 = use config)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	maxSteps := cfg.Run.Steps
	if *steps > 0 {
		maxSteps = *steps
	}
	initial := cfg.Population.Initial
	if *agents > 0 {
		initial = *agents
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	oracle := surface.New(cfg.SurfaceParams(), rngSeed)
	collector := telemetry.NewCollector()
	pop := sim.New(oracle, sim.Options{
		Seed:      rngSeed,
		Initial:   initial,
		Collector: collector,
	})
	params := cfg.Params()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"agents", pop.Len(),
		"steps", maxSteps,
	)

	logEvery := cfg.Run.LogEvery
	if *logEveryFlag > 0 {
		logEvery = *logEveryFlag
	}
	if logEvery < 1 {
		logEvery = 1
	}

	for i := 0; i < maxSteps; i++ {
		pop.Step(oracle, params)
		births, deaths := collector.Flush()

		stats := telemetry.ComputeStepStats(pop.Tick(), births, deaths, pop.Samples())
		if err := output.WriteStep(stats); err != nil {
			slog.Error("failed to write step stats", "error", err)
			os.Exit(1)
		}
		if *logStats && int(pop.Tick())%logEvery == 0 {
			slog.Info("step",
				"tick", stats.Step,
				"population", stats.Population,
				"births", stats.Births,
				"deaths", stats.Deaths,
				"mean_speed", stats.MeanSpeed,
				"spread", stats.Spread,
			)
		}

		if pop.Len() == 0 {
			break
		}
	}

	if err := output.WriteSnapshot(pop.Snapshot()); err != nil {
		slog.Error("failed to write snapshot", "error", err)
		os.Exit(1)
	}

	totalBirths, totalDeaths := collector.Totals()
	slog.Info("simulation complete",
		"steps", pop.Tick(),
		"population", pop.Len(),
		"births", totalBirths,
		"deaths", totalDeaths,
	)
}
