//go:build !windows && !darwin && !linux

package input

// NewInjector always fails on platforms without an injection backend.
func NewInjector() (Injector, error) {
	return nil, ErrUnsupported
}

// NewDeviceQuery always fails on platforms without a query backend.
func NewDeviceQuery() (DeviceQuery, error) {
	return nil, ErrUnsupported
}
