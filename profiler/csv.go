package profiler

import (
	"cacheprofiler/cmd/util"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{"Size_KB", "Latency_ns", "Throughput_MBps"}

// CSVFileName is results_<timestamp>.csv for the current clock
func CSVFileName() string {
	return "results_" + util.Timestamp() + ".csv"
}

// WriteCSV writes results into a new measurement file in dir and returns its path.
// dir is created if it does not exist.
func WriteCSV(dir string, results []Result) (string, error) {
	if err := util.EnsureDirectory(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, CSVFileName())
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, r := range results {
		row := []string{
			strconv.Itoa(r.SizeKB),
			formatFloat(r.LatencyNs),
			formatFloat(r.ThroughputMBps),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, file.Close()
}

// six significant digits, same as a default iostream
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
