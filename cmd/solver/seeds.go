package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lintang-b-s/gridnav/pkg/engine/relaxation"
)

var errInvalidSeedFlag = errors.New("seed must look like x:y or x:y:value")

// parseSeeds. "x:y[:value]" entries separated by ';', a missing value uses defaultValue.
func parseSeeds(s string, defaultValue float64) ([]relaxation.Seed, error) {
	seeds := []relaxation.Seed{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 2 && len(fields) != 3 {
			return nil, fmt.Errorf("%w: %q", errInvalidSeedFlag, part)
		}

		x, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errInvalidSeedFlag, part)
		}
		y, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errInvalidSeedFlag, part)
		}
		value := defaultValue
		if len(fields) == 3 {
			value, err = strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", errInvalidSeedFlag, part)
			}
		}
		seeds = append(seeds, relaxation.Seed{X: x, Y: y, Value: value})
	}
	return seeds, nil
}
