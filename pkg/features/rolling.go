package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"liyu1981.xyz/agri-maintenance/pkg/config"
)

// Window is a trailing window over the last Size samples. Positions with
// fewer than MinPeriods samples produce NaN.
type Window struct {
	Size       int
	MinPeriods int
}

func (w Window) validate() error {
	if w.Size < 1 {
		return fmt.Errorf("window size must be positive, got %d", w.Size)
	}
	if w.MinPeriods < 1 || w.MinPeriods > w.Size {
		return fmt.Errorf("min periods must be within [1, %d], got %d", w.Size, w.MinPeriods)
	}
	return nil
}

type aggregator func(segment []float64) float64

// std is the sample standard deviation, undefined below two samples.
func std(segment []float64) float64 {
	if len(segment) < 2 {
		return math.NaN()
	}
	return stat.StdDev(segment, nil)
}

func mean(segment []float64) float64 {
	return stat.Mean(segment, nil)
}

var aggregators = map[string]aggregator{
	config.StatMean: mean,
	config.StatStd:  std,
	config.StatMin:  floats.Min,
	config.StatMax:  floats.Max,
}

// Rolling evaluates stat over a trailing window at every position of values.
func Rolling(values []float64, w Window, statName string) ([]float64, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	agg, ok := aggregators[statName]
	if !ok {
		return nil, fmt.Errorf("unknown rolling stat: %s", statName)
	}

	out := make([]float64, len(values))
	for i := range values {
		start := max(0, i-w.Size+1)
		segment := values[start : i+1]
		if len(segment) < w.MinPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = agg(segment)
	}
	return out, nil
}

// FillNaN replaces NaN entries in place and returns how many were replaced.
func FillNaN(values []float64, fill float64) int {
	n := 0
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = fill
			n++
		}
	}
	return n
}
