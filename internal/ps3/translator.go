// Package ps3 translates a PS3 controller into logical arcade panel buttons.
//
// Directions fuse the d-pad with the left analog stick. A stick reads 0..255
// on each axis with 117..137 treated as centre; Sensitivity widens that band
// on both sides before a direction registers.
package ps3

import (
	"errors"

	"github.com/soar/ps3arcade/internal/arcade"
)

const (
	VendorID  uint16 = 0x054C
	ProductID uint16 = 0x0268

	centreLow  = 117
	centreHigh = 137

	DefaultSensitivity uint8 = 32
	MinSensitivity     uint8 = 1
	MaxSensitivity     uint8 = 116
)

var ErrSensitivityRange = errors.New("sensitivity out of range 1..116")

// Source is the raw controller driver the translator reads from.
type Source interface {
	// ButtonClick reports a press once per press.
	ButtonClick(b Button) bool
	// ButtonPress reports whether b is held.
	ButtonPress(b Button) bool
	AnalogHat(a Axis) uint8
	Connected() bool
}

type comparator uint8

const (
	noAnalog comparator = iota
	below
	above
)

type binding struct {
	button Button
	axis   Axis
	cmp    comparator
	// guarded bindings ignore the stick while the safeguard is engaged.
	guarded bool
}

// Only UP and LEFT are guarded: a digital-only pad stuck at 0,0 would
// otherwise hold them. DOWN and RIGHT keep their analog contribution under
// the safeguard; this matches the long-standing behaviour and is kept as is.
var bindings = [arcade.NumButtons]binding{
	arcade.Up:       {button: Up, axis: LeftHatY, cmp: below, guarded: true},
	arcade.Down:     {button: Down, axis: LeftHatY, cmp: above},
	arcade.Left:     {button: Left, axis: LeftHatX, cmp: below, guarded: true},
	arcade.Right:    {button: Right, axis: LeftHatX, cmp: above},
	arcade.Start:    {button: Start},
	arcade.Coin:     {button: Select},
	arcade.Action1:  {button: Square},
	arcade.Action2:  {button: Triangle},
	arcade.Action3:  {button: R1},
	arcade.Action4:  {button: Cross},
	arcade.Action5:  {button: Circle},
	arcade.Action6:  {button: R2},
	arcade.Action7:  {button: L1},
	arcade.Action8:  {button: L2},
	arcade.Action9:  {button: R3},
	arcade.Action10: {button: L3},
}

// Translator maps logical panel buttons onto a Source. It only reads from
// the source and is not safe for concurrent use.
type Translator struct {
	src       Source
	low, high int
	sens      uint8
}

// New returns a Translator using DefaultSensitivity.
func New(src Source) *Translator {
	t, _ := NewWithSensitivity(src, DefaultSensitivity)
	return t
}

func NewWithSensitivity(src Source, s uint8) (*Translator, error) {
	if s < MinSensitivity || s > MaxSensitivity {
		return nil, ErrSensitivityRange
	}
	low, high := Thresholds(s)
	return &Translator{src: src, low: low, high: high, sens: s}, nil
}

// Thresholds returns the analog trigger points for sensitivity s: a value
// below low registers up/left, above high registers down/right.
func Thresholds(s uint8) (low, high int) {
	return centreLow - int(s), centreHigh + int(s)
}

// Safeguard reports whether both axes read exactly zero, the signature of
// a digital-only pad feeding its analog channel with a constant.
func Safeguard(h, v uint8) bool { return h == 0 && v == 0 }

// QueryClick reports a logical button press. The digital part is
// edge-triggered by the source; the analog part stays level-triggered.
func (t *Translator) QueryClick(b arcade.Button) bool {
	return t.query(b, t.src.ButtonClick)
}

// QueryState reports whether a logical button is held.
func (t *Translator) QueryState(b arcade.Button) bool {
	return t.query(b, t.src.ButtonPress)
}

func (t *Translator) query(b arcade.Button, primitive func(Button) bool) bool {
	if !b.Valid() {
		return false
	}
	h, v := t.src.AnalogHat(LeftHatX), t.src.AnalogHat(LeftHatY)
	safeguard := Safeguard(h, v)

	bind := bindings[b]
	if primitive(bind.button) {
		return true
	}
	if bind.cmp == noAnalog || (bind.guarded && safeguard) {
		return false
	}

	value := int(v)
	if bind.axis == LeftHatX {
		value = int(h)
	}
	if bind.cmp == below {
		return value < t.low
	}
	return value > t.high
}

func (t *Translator) Connected() bool { return t.src.Connected() }

func (t *Translator) VendorID() uint16 { return VendorID }

func (t *Translator) ProductID() uint16 { return ProductID }

func (t *Translator) Sensitivity() uint8 { return t.sens }
