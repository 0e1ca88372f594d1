package cmd

import (
	"cacheprofiler/cmd/util"
	"cacheprofiler/profiler"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/plus3it/gorecurcopy"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Short:   "Run the cache latency benchmark and write a measurement file",
	Aliases: []string{"p"},
	Args:    cobra.NoArgs,
	RunE:    profile,
}

var profileOutput string
var profileName string
var profileSizes []int
var profileIterations int
var profileSamples int
var profileCore int
var cpuProfile bool
var keepProfiles string

func init() {
	profileCmd.Flags().StringVarP(&profileOutput, "output", "o", "measurements", "The directory the measurement file is written to")
	profileCmd.Flags().StringVarP(&profileName, "name", "n", "", "The id/name of the run, used for the profile folder")
	profileCmd.Flags().IntSliceVarP(&profileSizes, "sizes", "s", profiler.DefaultSizesKB, "Test sizes in KB")
	profileCmd.Flags().IntVarP(&profileIterations, "iterations", "i", profiler.DefaultIterations, "Pointer loads timed per sample")
	profileCmd.Flags().IntVar(&profileSamples, "samples", profiler.DefaultSamples, "Samples per test size, the median is kept")
	profileCmd.Flags().IntVarP(&profileCore, "core", "c", 1, "Core to pin the benchmark to, -1 to not pin")
	profileCmd.Flags().BoolVar(&cpuProfile, "cpuprofile", false, "Record a CPU profile of the run in _tmp/<name>/")
	profileCmd.Flags().StringVar(&keepProfiles, "keep-profiles", "", "Copy the profile folder into this directory")
	RootCmd.AddCommand(profileCmd)
}

func profile(cmd *cobra.Command, args []string) error {
	name := profileName
	if len(name) == 0 {
		name = uuid.New().String()
	}
	logger := log.WithField("run", name)

	if profileCore >= 0 {
		if err := profiler.PinToCore(profileCore); err != nil {
			logger.WithError(err).Warnf("Could not pin to core %d, measurements may be less consistent", profileCore)
		} else {
			logger.Infof("Thread pinned to core %d", profileCore)
		}
	}

	cfg := profiler.Config{
		SizesKB:    profileSizes,
		Iterations: profileIterations,
		Samples:    profileSamples,
	}
	out := cmd.OutOrStdout()
	var tmpPath string
	if cpuProfile {
		tmpPath = util.TempFolder(name)
	}

	logger.Info("Running tests...")
	printTableHeader(out)
	var results []profiler.Result
	profilePath, err := util.RunProfiled(tmpPath, func() error {
		var err error
		results, err = profiler.Run(cmd.Context(), cfg, func(r profiler.Result) {
			printTableRow(out, r)
			logger.WithField("size_kb", r.SizeKB).WithField("stddev_ns", r.StdDevNs).Debug("Size measured")
		})
		return err
	})
	if err != nil {
		return err
	}

	csvPath, err := profiler.WriteCSV(profileOutput, results)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nResults saved to %s\n", csvPath)

	if profilePath == "" {
		return nil
	}
	if err := reportProfile(logger, profilePath); err != nil {
		return err
	}
	if keepProfiles != "" {
		dest := filepath.Join(keepProfiles, name)
		if err := util.CleanOrCreateTempFolder(dest); err != nil {
			return err
		}
		if err := gorecurcopy.CopyDirectory(tmpPath, dest); err != nil {
			return fmt.Errorf("copying profile folder: %w", err)
		}
		logger.WithField("dir", dest).Info("Profile kept")
	}
	return nil
}

func reportProfile(logger *log.Entry, profilePath string) error {
	prof, err := util.GetProfileDataFromFile(profilePath)
	if err != nil {
		return err
	}
	summary := util.SummarizeProfile(prof, 5)
	logger.WithFields(log.Fields{
		"profile":  profilePath,
		"duration": summary.Duration,
		"cpu":      summary.CPUTime,
		"samples":  summary.Samples,
	}).Info("CPU profile recorded")
	for _, ft := range summary.Hottest {
		logger.WithField("time", ft.Time).Debug(ft.Function)
	}
	return nil
}

func printTableHeader(out io.Writer) {
	fmt.Fprintf(out, "%12s%15s%20s\n", "Size (KB)", "Latency (ns)", "Throughput (MB/s)")
	fmt.Fprintln(out, strings.Repeat("-", 47))
}

func printTableRow(out io.Writer, r profiler.Result) {
	fmt.Fprintf(out, "%12d%15.2f%20.2f\n", r.SizeKB, r.LatencyNs, r.ThroughputMBps)
}
