package util

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
)

const p = string(os.PathSeparator)

// CPUProfileName is the file RunProfiled writes into its folder
const CPUProfileName = "cpu.pprof"

// RunProfiled runs fn. When folderPath is not empty a CPU profile of the run is recorded
// to folderPath/cpu.pprof, which is emptied first, and the profile path is returned.
func RunProfiled(folderPath string, fn func() error) (string, error) {
	if folderPath == "" {
		return "", fn()
	}
	if err := CleanOrCreateTempFolder(folderPath); err != nil {
		return "", err
	}
	profilePath := filepath.Join(folderPath, CPUProfileName)
	file, err := os.Create(profilePath)
	if err != nil {
		return "", fmt.Errorf("creating cpu profile: %w", err)
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return "", fmt.Errorf("starting cpu profile: %w", err)
	}
	runErr := fn()
	pprof.StopCPUProfile()
	if runErr != nil {
		return "", runErr
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return profilePath, nil
}

// TempFolder is _tmp/<id>/ under the working directory
func TempFolder(id string) string {
	return "_tmp" + p + id + p
}
