package util

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/pprof/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *profile.Profile {
	chase := &profile.Function{ID: 1, Name: "cacheprofiler/profiler.measureLatency"}
	flush := &profile.Function{ID: 2, Name: "cacheprofiler/profiler.flushCache"}
	chaseLoc := &profile.Location{ID: 1, Line: []profile.Line{{Function: chase}}}
	flushLoc := &profile.Location{ID: 2, Line: []profile.Line{{Function: flush}}}
	return &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "samples", Unit: "count"},
			{Type: "cpu", Unit: "nanoseconds"},
		},
		DurationNanos: int64(2 * time.Second),
		Function:      []*profile.Function{chase, flush},
		Location:      []*profile.Location{chaseLoc, flushLoc},
		Sample: []*profile.Sample{
			{Location: []*profile.Location{chaseLoc}, Value: []int64{3, int64(30 * time.Millisecond)}},
			{Location: []*profile.Location{flushLoc}, Value: []int64{1, int64(10 * time.Millisecond)}},
			{Location: []*profile.Location{chaseLoc, flushLoc}, Value: []int64{2, int64(20 * time.Millisecond)}},
		},
	}
}

func TestSummarizeProfile(t *testing.T) {
	summary := SummarizeProfile(testProfile(), 0)

	assert.Equal(t, 2*time.Second, summary.Duration)
	assert.Equal(t, 3, summary.Samples)
	assert.Equal(t, 60*time.Millisecond, summary.CPUTime)
	require.Len(t, summary.Hottest, 2)
	assert.Equal(t, FunctionTimePair{"cacheprofiler/profiler.measureLatency", 50 * time.Millisecond}, summary.Hottest[0])
	assert.Equal(t, FunctionTimePair{"cacheprofiler/profiler.flushCache", 10 * time.Millisecond}, summary.Hottest[1])
}

func TestSummarizeProfile_Top(t *testing.T) {
	summary := SummarizeProfile(testProfile(), 1)
	require.Len(t, summary.Hottest, 1)
	assert.Equal(t, "cacheprofiler/profiler.measureLatency", summary.Hottest[0].Function)
}

func TestRunProfiled_WritesReadableProfile(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "run")
	path, err := RunProfiled(folder, func() error {
		deadline := time.Now().Add(50 * time.Millisecond)
		x := 0
		for time.Now().Before(deadline) {
			x++
		}
		_ = x
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(folder, CPUProfileName), path)

	prof, err := GetProfileDataFromFile(path)
	require.NoError(t, err)
	assert.Greater(t, prof.DurationNanos, int64(0))
}

func TestRunProfiled_WithoutFolder(t *testing.T) {
	called := false
	path, err := RunProfiled("", func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, path)
}

func TestRunProfiled_PassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	_, err := RunProfiled(filepath.Join(t.TempDir(), "run"), func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestGetProfileDataFromFile_NotAProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.pprof")
	writeFile(t, path, "not a profile")

	_, err := GetProfileDataFromFile(path)
	assert.Error(t, err)
}
