package util

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// TimestampLayout formats as day_month_year-hour_minute_second
const TimestampLayout = "02_01_2006-15_04_05"

// Now is the clock used for output file names. Tests replace it.
var Now = time.Now

// Timestamp returns the current local time in TimestampLayout
func Timestamp() string {
	return Now().Format(TimestampLayout)
}

// EnsureDirectory creates path if it does not exist yet. An existing directory is not an error.
func EnsureDirectory(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", path)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// CleanOrCreateTempFolder empties path, or creates it if it is not there
func CleanOrCreateTempFolder(path string) error {
	// file exist check is taken from: https://stackoverflow.com/questions/12518876/how-to-check-if-a-file-exists-in-go
	if _, err := os.Stat(path); err == nil {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing temp folder: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return fmt.Errorf("creating temp folder: %w", err)
	}
	return nil
}
