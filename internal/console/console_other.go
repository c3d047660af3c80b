//go:build !windows

// Package console handles how the process was started and how it is asked to
// stop on platforms where signals are not enough.
package console

// IsRunningFromConsole is always true outside Windows.
func IsRunningFromConsole() bool {
	return true
}

// SetupConsoleHandler returns a channel that is never closed; os.Interrupt
// handling works on Unix-like systems.
func SetupConsoleHandler() (<-chan struct{}, func() error) {
	return nil, func() error { return nil }
}
