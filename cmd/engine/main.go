package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/gridnav/pkg/engine"
	"github.com/lintang-b-s/gridnav/pkg/http"
	"github.com/lintang-b-s/gridnav/pkg/http/usecases"
	"github.com/lintang-b-s/gridnav/pkg/logger"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"go.uber.org/zap"
)

var (
	configDir    = flag.String("config_dir", "./data", "directory holding config.{yaml,json,toml}")
	useRateLimit = flag.Bool("rate_limit", false, "enable the global request rate limiter")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(*configDir); err != nil {
		logger.Warn("no config file loaded, using defaults", zap.Error(err))
	}
	cfg := util.LoadSolverConfig()
	logger.Info("solver config",
		zap.Int("max_iterations", cfg.MaxIterations),
		zap.Int("snapshot_capacity", cfg.SnapshotCapacity),
		zap.Int("workers", cfg.Workers),
		zap.Bool("relaxation", cfg.Relaxation))

	flowFieldEngine := engine.NewEngine(logger, cfg)
	flowFieldService := usecases.NewFlowFieldService(logger, flowFieldEngine, cfg.SeedValue, cfg.SolveTimeout)

	api := http.NewServer(logger)

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	if _, err := api.Use(ctx, logger, *useRateLimit, flowFieldService); err != nil {
		panic(err)
	}

	signal := api.GracefulShutdown()

	logger.Info("gridnav flow field server stopping", zap.String("signal", signal.String()))
	cleanup()
	if err := api.Wait(); err != nil {
		logger.Error("server exited with error", zap.Error(err))
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
