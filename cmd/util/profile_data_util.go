package util

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/pprof/profile"
)

// ProfileSummary is what gets reported about a CPU profile of a benchmark run
type ProfileSummary struct {
	Duration time.Duration
	Samples  int
	CPUTime  time.Duration
	// Hottest is flat time per function, greatest first
	Hottest FunctionTimeArray
}

// GetProfileDataFromFile parses a pprof file
func GetProfileDataFromFile(path string) (*profile.Profile, error) {
	rawProfile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer rawProfile.Close()
	prof, err := profile.Parse(rawProfile)
	if err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return prof, nil
}

// SummarizeProfile totals the cpu samples of prof and keeps the top functions by flat time.
// top <= 0 keeps all of them.
func SummarizeProfile(prof *profile.Profile, top int) ProfileSummary {
	summary := ProfileSummary{
		Duration: time.Duration(prof.DurationNanos),
		Samples:  len(prof.Sample),
	}
	valueIndex := cpuValueIndex(prof)
	if valueIndex < 0 {
		return summary
	}

	flat := make(map[string]int64)
	for _, sample := range prof.Sample {
		if valueIndex >= len(sample.Value) {
			continue
		}
		v := sample.Value[valueIndex]
		summary.CPUTime += time.Duration(v)
		// the leaf frame is the first line of the first location
		if len(sample.Location) == 0 || len(sample.Location[0].Line) == 0 {
			continue
		}
		fn := sample.Location[0].Line[0].Function
		if fn == nil {
			continue
		}
		flat[fn.Name] += v
	}

	hottest := make(FunctionTimeArray, 0, len(flat))
	for name, v := range flat {
		hottest = append(hottest, FunctionTimePair{Function: name, Time: time.Duration(v)})
	}
	sort.Sort(hottest)
	if top > 0 && len(hottest) > top {
		hottest = hottest[:top]
	}
	summary.Hottest = hottest
	return summary
}

// cpuValueIndex finds the cpu/nanoseconds sample type, falling back to the last one
func cpuValueIndex(prof *profile.Profile) int {
	for i, st := range prof.SampleType {
		if st.Type == "cpu" {
			return i
		}
	}
	return len(prof.SampleType) - 1
}
