package profiler

import (
	"cacheprofiler/cmd/util"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickConfig() Config {
	return Config{
		SizesKB:    []int{4, 8},
		Iterations: 1000,
		Samples:    3,
		Rand:       rand.New(rand.NewSource(1)),
	}
}

func TestNewChain_IsOneCycle(t *testing.T) {
	chain := newChain(64*CacheLineSize, rand.New(rand.NewSource(7)))
	require.Len(t, chain, 64)

	seen := make(map[*cacheLine]bool)
	ptr := &chain[0]
	for i := 0; i < len(chain); i++ {
		assert.False(t, seen[ptr], "line visited twice before closing the cycle")
		seen[ptr] = true
		ptr = ptr.next
	}
	assert.Len(t, seen, len(chain))
	assert.Same(t, &chain[0], ptr)
}

func TestNewChain_SmallerThanALine(t *testing.T) {
	chain := newChain(10, rand.New(rand.NewSource(7)))
	require.Len(t, chain, 1)
	assert.Same(t, &chain[0], chain[0].next)
}

func TestCacheLineLayout(t *testing.T) {
	assert.Equal(t, uintptr(CacheLineSize), unsafe.Sizeof(cacheLine{}))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	// upper middle for even counts
	assert.Equal(t, 3.0, Median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 0.0, Median(nil))

	samples := []float64{2, 1}
	Median(samples)
	assert.Equal(t, []float64{2, 1}, samples)
}

func TestThroughput(t *testing.T) {
	assert.InDelta(t, 64000.0, Throughput(1), 1e-9)
	assert.InDelta(t, 640.0, Throughput(100), 1e-9)
	assert.Equal(t, 0.0, Throughput(0))
}

func TestRun(t *testing.T) {
	var reported []int
	results, err := Run(context.Background(), quickConfig(), func(r Result) {
		reported = append(reported, r.SizeKB)
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []int{4, 8}, reported)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.LatencyNs, 0.0)
		assert.InDelta(t, Throughput(r.LatencyNs), r.ThroughputMBps, 1e-9)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, quickConfig(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRun_InvalidConfig(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"no sizes":      func(c *Config) { c.SizesKB = nil },
		"zero size":     func(c *Config) { c.SizesKB = []int{4, 0} },
		"no iterations": func(c *Config) { c.Iterations = 0 },
		"no samples":    func(c *Config) { c.Samples = -1 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := quickConfig()
			mutate(&cfg)
			_, err := Run(context.Background(), cfg, nil)
			assert.Error(t, err)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	old := util.Now
	util.Now = func() time.Time { return time.Date(2026, time.October, 14, 9, 30, 0, 0, time.Local) }
	defer func() { util.Now = old }()

	dir := filepath.Join(t.TempDir(), "measurements")
	results := []Result{
		{SizeKB: 4, LatencyNs: 1.25, ThroughputMBps: Throughput(1.25)},
		{SizeKB: 8192, LatencyNs: 85.4321, ThroughputMBps: Throughput(85.4321)},
	}
	path, err := WriteCSV(dir, results)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "results_14_10_2026-09_30_00.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Equal(t, []string{
		"Size_KB,Latency_ns,Throughput_MBps",
		"4,1.25,51200",
		"8192,85.4321,749.133",
	}, lines)

	// the measurement file is what the visualizer reads
	data, err := util.ReadMeasurements(path)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 8192}, data.TestSizes)
	assert.Equal(t, []float64{1.25, 85.4321}, data.Latencies)
}
