package main

import (
	"flag"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/logger"
	"github.com/lintang-b-s/gridnav/pkg/preprocessor"
	"go.uber.org/zap"
)

var (
	width     = flag.Int("width", 32, "maze width in cells")
	height    = flag.Int("height", 32, "maze height in cells")
	outFile   = flag.String("out", "./data/maze.csv", "output terrain file, a .bz2 suffix writes bzip2")
	delimiter = flag.String("delimiter", ",", "cell delimiter")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	maze, err := preprocessor.FallbackMaze(*width, *height)
	if err != nil {
		panic(err)
	}

	if err := da.WriteGridFile(*outFile, maze.Grid(), *delimiter); err != nil {
		panic(err)
	}

	gx, gy, err := preprocessor.FindGoal(maze)
	if err != nil {
		logger.Warn("maze has no open goal cell", zap.Error(err))
	}

	logger.Info("maze written",
		zap.String("file", *outFile),
		zap.Int("width", maze.Width()), zap.Int("height", maze.Height()),
		zap.Int("impassable", maze.CountImpassable()), zap.Int("difficult", maze.CountDifficult()),
		zap.Int("goal_x", gx), zap.Int("goal_y", gy))
}
