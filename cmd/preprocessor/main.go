package main

import (
	"flag"

	"github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/logger"
	preprocessor "github.com/lintang-b-s/gridnav/pkg/preprocessor"
	"go.uber.org/zap"
)

var (
	terrainFile = flag.String("terrain_file", "./data/maze.csv", "terrain grid to validate")
	outFile     = flag.String("out", "", "optional re-encoded copy of the validated terrain (e.g. terrain.csv.bz2)")
	delimiter   = flag.String("delimiter", ",", "cell delimiter")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	prep := preprocessor.NewPreprocessor(logger)
	terrain, err := prep.LoadTerrain(*terrainFile, *delimiter)
	if err != nil {
		panic(err)
	}

	if *outFile != "" {
		if err := datastructure.WriteGridFile(*outFile, terrain.Grid(), *delimiter); err != nil {
			panic(err)
		}
		logger.Info("terrain re-encoded", zap.String("file", *outFile))
	}

	logger.Sugar().Infof("Preprocessing completed successfully.")
}
