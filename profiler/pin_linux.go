//go:build linux

package profiler

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PinToCore locks the calling goroutine to its OS thread and that thread to core.
// Being moved between cores loses the cache state the measurements depend on.
func PinToCore(core int) error {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		runtime.UnlockOSThread()
		return fmt.Errorf("failed to set CPU affinity: %w", err)
	}

	// verify the affinity was set
	var got unix.CPUSet
	if err := unix.SchedGetaffinity(0, &got); err != nil {
		runtime.UnlockOSThread()
		return fmt.Errorf("failed to read CPU affinity: %w", err)
	}
	if !got.IsSet(core) || got.Count() != 1 {
		runtime.UnlockOSThread()
		return fmt.Errorf("thread not pinned to core %d", core)
	}
	return nil
}
