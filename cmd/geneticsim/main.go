package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pthm-cable/geneticsim/config"
	"github.com/pthm-cable/geneticsim/render/raylibview"
	"github.com/pthm-cable/geneticsim/sim"
	"github.com/pthm-cable/geneticsim/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use embedded defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config, continuing with embedded defaults", "error", err)
	}
	cfg := config.Cfg()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink := telemetry.NewCSVSink(logger)

	view := raylibview.New(cfg.Area.Title, int32(cfg.Area.ViewportWidth), int32(cfg.Area.ViewportHeight), int32(cfg.Area.Width), int32(cfg.Area.Height))
	defer view.Close()

	if cfg.Compute.RunMode == 1 {
		view.DisableFrameLimit()
	} else {
		view.SetTargetFPS(int32(cfg.Compute.StandardFramerate))
	}

	driver := sim.NewDriver(cfg, view, sink, logger)

	logger.Info("starting run",
		"run_mode", cfg.Compute.RunMode,
		"simulation_threads", cfg.Derived.SimulationThreads,
		"population_size", cfg.Population.PoolSize,
	)

	if err := driver.Run(ctx); err != nil {
		logger.Error("run ended with error", "error", err)
		os.Exit(1)
	}
}
