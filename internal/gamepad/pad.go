package gamepad

import (
	"time"

	"github.com/soar/ps3arcade/internal/ps3"
)

const (
	// AxisCentre is the resting value of a stick axis.
	AxisCentre uint8 = 128

	DefaultPollInterval = 16 * time.Millisecond // ~60Hz
)

// Report is one poll of the active joystick.
type Report struct {
	Buttons ps3.ButtonMask
	Axes    [ps3.NumAxes]uint8
}

// NeutralReport has no buttons held and both sticks centred.
func NeutralReport() Report {
	var r Report
	for i := range r.Axes {
		r.Axes[i] = AxisCentre
	}
	return r
}

// Pad holds the latest report and implements ps3.Source on top of it.
// It is owned by the reader goroutine.
type Pad struct {
	report    Report
	clicks    ps3.ButtonMask
	connected bool
}

func NewPad() *Pad {
	return &Pad{report: NeutralReport()}
}

// Update stores r. Buttons that went down since the previous report are
// latched as clicks until read; a new change in buttons replaces the latch.
func (p *Pad) Update(r Report) {
	if r.Buttons != p.report.Buttons {
		p.clicks = r.Buttons &^ p.report.Buttons
	}
	p.report = r
}

// SetConnected marks the pad connected. Disconnecting resets it to neutral.
func (p *Pad) SetConnected(connected bool) {
	p.connected = connected
	if !connected {
		p.report = NeutralReport()
		p.clicks = 0
	}
}

func (p *Pad) ButtonClick(b ps3.Button) bool {
	click := p.clicks.Has(b)
	p.clicks &^= ps3.ButtonMask(0).With(b)
	return click
}

func (p *Pad) ButtonPress(b ps3.Button) bool { return p.report.Buttons.Has(b) }

func (p *Pad) AnalogHat(a ps3.Axis) uint8 {
	if int(a) >= len(p.report.Axes) {
		return AxisCentre
	}
	return p.report.Axes[a]
}

func (p *Pad) Connected() bool { return p.connected }
