package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine"
	"github.com/lintang-b-s/gridnav/pkg/engine/flowfield"
	"github.com/lintang-b-s/gridnav/pkg/engine/relaxation"
	"github.com/lintang-b-s/gridnav/pkg/logger"
	"github.com/lintang-b-s/gridnav/pkg/metrics"
	"github.com/lintang-b-s/gridnav/pkg/preprocessor"
	"github.com/lintang-b-s/gridnav/pkg/render"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	configDir     = flag.String("config_dir", "./data", "directory holding config.{yaml,json,toml}")
	terrainFile   = flag.String("terrain_file", "", "terrain grid (csv, optionally .bz2). empty generates a fallback maze")
	mazeWidth     = flag.Int("width", 32, "fallback maze width")
	mazeHeight    = flag.Int("height", 32, "fallback maze height")
	seedsFlag     = flag.String("seeds", "", "seeds as x:y[:value] separated by ';'. empty picks a goal near the centre")
	outDir        = flag.String("out_dir", "./out", "output directory")
	compress      = flag.Bool("compress", false, "write bzip2 compressed grids")
	maxIterations = flag.Int("max_iterations", 0, "iteration cap, 0 uses MAX_ITERATIONS")
	noRelax       = flag.Bool("no_relax", false, "keep the first wavefront value of every cell")
	cellSize      = flag.Int("cell_size", 16, "png pixels per cell")
	colorMap      = flag.String("colormap", "inferno", "png colour map (inferno, viridis)")
	drawFlow      = flag.Bool("draw_flow", true, "overlay flow vectors on the png")
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

	terrain, err := loadTerrain(logger, cfg.Delimiter)
	if err != nil {
		logger.Fatal("failed loading terrain", zap.Error(err))
	}

	seeds, err := parseSeeds(*seedsFlag, cfg.SeedValue)
	if err != nil {
		logger.Fatal("invalid seeds", zap.Error(err))
	}
	if len(seeds) == 0 {
		gx, gy, err := preprocessor.FindGoal(terrain)
		if err != nil {
			logger.Fatal("no seed given and no goal found", zap.Error(err))
		}
		seeds = append(seeds, relaxation.Seed{X: gx, Y: gy, Value: cfg.SeedValue})
		logger.Info("using goal as seed", zap.Int("x", gx), zap.Int("y", gy))
	}

	eng := engine.NewEngine(logger, cfg)
	ctx := context.Background()
	settings := engine.Settings{DisableRelaxation: *noRelax}
	if *maxIterations > 0 {
		settings.MaxIterations = maxIterations
	}
	sol, err := eng.Solve(ctx, engine.Query{
		Terrain:  terrain,
		Seeds:    seeds,
		Settings: settings,
	})
	if err != nil {
		logger.Fatal("solver failed", zap.Error(err))
	}
	logger.Info("solved",
		zap.Int("iterations", sol.Iterations), zap.Bool("converged", sol.Converged),
		zap.Float64("max_distance", util.RoundFloat(sol.Stats.MaxDistance, 3)), zap.Int("reached", sol.Stats.ReachedCells),
		zap.Int("unreached_passable", sol.Stats.UnreachedPassable))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatal("failed creating output directory", zap.Error(err))
	}

	ext := ".csv"
	if *compress {
		ext = ".csv.bz2"
	}

	g, _ := errgroup.WithContext(ctx)
	writeGrid := func(name string, grid *da.Grid[float64]) {
		g.Go(func() error {
			filename := filepath.Join(*outDir, name+ext)
			if err := da.WriteGridFile(filename, grid, cfg.Delimiter); err != nil {
				return fmt.Errorf("write %s: %w", filename, err)
			}
			logger.Info("grid written", zap.String("file", filename))
			return nil
		})
	}
	writeGrid("distance", sol.Distance)
	writeGrid("flow_x", sol.Flow.X())
	writeGrid("flow_y", sol.Flow.Y())

	g.Go(func() error {
		return writePNG(filepath.Join(*outDir, "distance.png"), sol, seeds)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("failed writing output", zap.Error(err))
	}
}

func loadTerrain(logger *zap.Logger, delimiter string) (*da.TerrainMap, error) {
	if *terrainFile == "" {
		logger.Info("no terrain file, generating fallback maze",
			zap.Int("width", *mazeWidth), zap.Int("height", *mazeHeight))
		return preprocessor.FallbackMaze(*mazeWidth, *mazeHeight)
	}
	return preprocessor.NewPreprocessor(logger).LoadTerrain(*terrainFile, delimiter)
}

func writePNG(filename string, sol *engine.Solution, seeds []relaxation.Seed) error {
	cm, ok := render.ColorMapByName(*colorMap)
	if !ok {
		return fmt.Errorf("unknown colour map %q", *colorMap)
	}

	opts := render.Options{
		CellSize:    *cellSize,
		MaxDistance: metrics.AdjustDisplayMax(metrics.InitialDisplayMax(sol.Terrain), sol.Stats),
		ColorMap:    cm,
	}
	if *drawFlow {
		opts.Flow = sol.Flow
	}
	for _, s := range seeds {
		opts.Sources = append(opts.Sources, flowfield.Cell{X: s.X, Y: s.Y})
	}

	img, err := render.Distance(sol.Terrain, sol.Distance, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return render.WritePNG(f, img)
}
