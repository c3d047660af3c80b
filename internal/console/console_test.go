//go:build !windows

package console

import (
	"testing"
	"time"
)

func TestConsoleOther(t *testing.T) {
	if !IsRunningFromConsole() {
		t.Error("expected console mode")
	}

	ch, register := SetupConsoleHandler()
	if err := register(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ch:
		t.Fatal("handler channel fired")
	case <-time.After(10 * time.Millisecond):
	}
}
