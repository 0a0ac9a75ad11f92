package util

import (
	"fmt"
	"runtime"
	"time"

	"github.com/lintang-b-s/gridnav/pkg"
	"github.com/spf13/viper"
)

func ReadConfig(path string) error {
	viper.SetConfigName("config")
	viper.AddConfigPath(path)

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

// SolverConfig. solver settings shared by the http server and the command line tools.
type SolverConfig struct {
	MaxIterations    int
	SnapshotCapacity int
	Workers          int
	Relaxation       bool
	SeedValue        float64
	Delimiter        string
	// MaxSnapshotCells. upper bound on snapshot capacity * width * height for one run, <= 0 disables the check.
	MaxSnapshotCells int
	// SolveTimeout. deadline for one solve started by the http api, <= 0 disables it.
	SolveTimeout time.Duration
}

func SetSolverDefaults() {
	viper.SetDefault("MAX_ITERATIONS", pkg.DEFAULT_MAX_ITERATIONS)
	viper.SetDefault("SNAPSHOT_CAPACITY", 0)
	viper.SetDefault("SWEEP_WORKERS", runtime.NumCPU())
	viper.SetDefault("RELAXATION", true)
	viper.SetDefault("SEED_VALUE", pkg.DEFAULT_SEED_VALUE)
	viper.SetDefault("GRID_DELIMITER", ",")
	viper.SetDefault("MAX_SNAPSHOT_CELLS", 1<<24)
	viper.SetDefault("API_TIMEOUT", "60s")
}

func LoadSolverConfig() SolverConfig {
	SetSolverDefaults()
	return SolverConfig{
		MaxIterations:    viper.GetInt("MAX_ITERATIONS"),
		SnapshotCapacity: viper.GetInt("SNAPSHOT_CAPACITY"),
		Workers:          viper.GetInt("SWEEP_WORKERS"),
		Relaxation:       viper.GetBool("RELAXATION"),
		SeedValue:        viper.GetFloat64("SEED_VALUE"),
		Delimiter:        viper.GetString("GRID_DELIMITER"),
		MaxSnapshotCells: viper.GetInt("MAX_SNAPSHOT_CELLS"),
		SolveTimeout:     viper.GetDuration("API_TIMEOUT"),
	}
}
