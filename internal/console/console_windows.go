//go:build windows

// Package console handles how the process was started and how it is asked to
// stop on platforms where signals are not enough.
package console

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleProcessList = kernel32.NewProc("GetConsoleProcessList")
	procSetConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")
)

const (
	ctrlCEvent     = 0
	ctrlBreakEvent = 1
	ctrlCloseEvent = 2
)

// IsRunningFromConsole reports whether the console is shared with a shell.
// A program started from Explorer is alone on its console.
func IsRunningFromConsole() bool {
	var pids [2]uint32
	n, _, _ := procGetConsoleProcessList.Call(uintptr(unsafe.Pointer(&pids[0])), uintptr(len(pids)))
	return n > 1
}

var (
	handlerOnce sync.Once
	handlerCh   = make(chan struct{})
	closeOnce   sync.Once
	callback    uintptr
)

// SetupConsoleHandler installs a console control handler for Ctrl+C, Ctrl+Break
// and window close; os.Interrupt is unreliable while SDL holds a locked thread.
// The returned channel is closed on the first event. The returned function
// registers the handler again and must be called after SDL init, which
// replaces console handlers.
func SetupConsoleHandler() (<-chan struct{}, func() error) {
	handlerOnce.Do(func() {
		callback = windows.NewCallback(func(ctrlType uintptr) uintptr {
			switch ctrlType {
			case ctrlCEvent, ctrlBreakEvent, ctrlCloseEvent:
				closeOnce.Do(func() { close(handlerCh) })
				return 1
			}
			return 0
		})
	})

	register := func() error {
		if ret, _, err := procSetConsoleCtrlHandler.Call(callback, 1); ret == 0 {
			return err
		}
		return nil
	}
	_ = register()
	return handlerCh, register
}
