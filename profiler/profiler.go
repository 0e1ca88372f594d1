// Package profiler measures memory latency at a range of working set sizes by pointer chasing,
// which shows where each cache level runs out.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DefaultSizesKB spans L1 through past a typical L3
var DefaultSizesKB = []int{
	4, 8, 16, 24, 32, 48, 64, 96, 128, 192, 256, 384, 512, 768,
	1024, 1536, 2048, 3072, 4096, 6144, 8192,
}

const (
	DefaultIterations = 10000000
	DefaultSamples    = 10
)

// Result is one row of a measurement file
type Result struct {
	SizeKB         int
	LatencyNs      float64
	ThroughputMBps float64
	// StdDevNs is the spread of the samples the median was taken from. It is not written out.
	StdDevNs float64
}

type Config struct {
	SizesKB    []int
	Iterations int
	Samples    int
	// Rand shuffles the chains. A time seeded source is used when nil.
	Rand *rand.Rand
}

// DefaultConfig is the full benchmark
func DefaultConfig() Config {
	return Config{
		SizesKB:    DefaultSizesKB,
		Iterations: DefaultIterations,
		Samples:    DefaultSamples,
	}
}

func (c Config) validate() error {
	if len(c.SizesKB) == 0 {
		return errors.New("no test sizes given")
	}
	for _, size := range c.SizesKB {
		if size <= 0 {
			return fmt.Errorf("test size must be positive, got %d", size)
		}
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", c.Samples)
	}
	return nil
}

// Run measures every size in cfg in order. report, if not nil, is called as each size finishes.
// The context is checked between sizes; on cancellation the results so far are returned with ctx.Err().
func Run(ctx context.Context, cfg Config, report func(Result)) ([]Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]Result, 0, len(cfg.SizesKB))
	for _, sizeKB := range cfg.SizesKB {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := measureSize(sizeKB, cfg.Iterations, cfg.Samples, rng)
		results = append(results, result)
		if report != nil {
			report(result)
		}
	}
	return results, nil
}

func measureSize(sizeKB, iterations, samples int, rng *rand.Rand) Result {
	sizeBytes := sizeKB * 1024
	lines := sizeBytes / CacheLineSize
	latencies := make([]float64, 0, samples)
	for i := 0; i < samples; i++ {
		chain := newChain(sizeBytes, rng)
		start := &chain[0]
		// flush whatever the previous test left behind, then load this one
		flushCache()
		warmCache(start, lines)
		latencies = append(latencies, measureLatency(start, iterations))
	}
	median := Median(latencies)
	return Result{
		SizeKB:         sizeKB,
		LatencyNs:      median,
		ThroughputMBps: Throughput(median),
		StdDevNs:       stdDev(latencies),
	}
}

// Median returns the element at len/2 of the sorted samples, so the upper middle for even counts.
// samples is not modified.
func Median(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// Throughput converts a per access latency into MB/s, one cache line per access
func Throughput(latencyNs float64) float64 {
	if latencyNs <= 0 {
		return 0
	}
	return CacheLineSize / latencyNs * 1000.0
}

func stdDev(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	return stat.StdDev(samples, nil)
}

// ErrPinUnsupported is returned by PinToCore on platforms without thread affinity
var ErrPinUnsupported = errors.New("pinning to a core is not supported on this platform")
