package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/djherbis/times"
)

// ErrNoFiles is returned when the measurements directory is missing or holds no files
var ErrNoFiles = errors.New("no files found")

// CreationTime gives the best available creation timestamp for path.
// Birth time is used where the filesystem records it, then the inode change time, then the modification time.
func CreationTime(path string) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	if ts.HasBirthTime() {
		return ts.BirthTime(), nil
	}
	if ts.HasChangeTime() {
		return ts.ChangeTime(), nil
	}
	return ts.ModTime(), nil
}

// LatestFile returns the path of the most recently created file in dir.
// Directories are skipped, but no filtering by extension is done.
// On equal timestamps the first entry in directory order (by name) wins.
func LatestFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w in %s: directory does not exist", ErrNoFiles, dir)
		}
		return "", err
	}

	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		created, err := CreationTime(path)
		if err != nil {
			return "", fmt.Errorf("reading creation time of %s: %w", path, err)
		}
		if latest == "" || created.After(latestTime) {
			latest = path
			latestTime = created
		}
	}
	if latest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}
	return latest, nil
}
