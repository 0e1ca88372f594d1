//go:build !linux

package profiler

// PinToCore is only implemented on linux
func PinToCore(core int) error {
	return ErrPinUnsupported
}
