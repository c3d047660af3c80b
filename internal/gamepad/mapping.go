package gamepad

import "github.com/soar/ps3arcade/internal/ps3"

// AxisMapping defines how a raw axis index feeds the pad.
type AxisMapping struct {
	Index int32
	// Stick axes land on Target. Trigger axes press Button instead.
	Target    ps3.Axis
	IsTrigger bool
	Button    ps3.Button
	Invert    bool
	// For triggers: raw range. Some devices use -32768..32767, others 0..32767.
	RawMin int16
	RawMax int16
}

// ButtonMapping defines how a raw button index maps to a controller button.
type ButtonMapping struct {
	Index  int32
	Target ps3.Button
}

// DeviceMapping holds the complete mapping for a specific device type.
type DeviceMapping struct {
	Name    string
	Axes    []AxisMapping
	Buttons []ButtonMapping
	HasHat  bool
}

// triggerPressed is the travel past which a trigger counts as a button.
const triggerPressed = 0.5

// AxisToHat converts a raw axis value (-32768..32767) to the 0..255 range of
// the PS3 sticks, 0 being full up or full left.
func AxisToHat(raw int16, invert bool) uint8 {
	v := (int32(raw) + 32768) >> 8
	if invert {
		v = 255 - v
	}
	return uint8(v)
}

// NormalizeTrigger converts a raw trigger value to 0.0..1.0.
func NormalizeTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := (float64(raw) - float64(rawMin)) / (float64(rawMax) - float64(rawMin))
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// Hat bits as reported by SDL.
const (
	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

// HatButtons converts a hat value into d-pad buttons.
func HatButtons(hat uint8) ps3.ButtonMask {
	var m ps3.ButtonMask
	if hat&hatUp != 0 {
		m = m.With(ps3.Up)
	}
	if hat&hatRight != 0 {
		m = m.With(ps3.Right)
	}
	if hat&hatDown != 0 {
		m = m.With(ps3.Down)
	}
	if hat&hatLeft != 0 {
		m = m.With(ps3.Left)
	}
	return m
}

var sticks = []AxisMapping{
	{Index: 0, Target: ps3.LeftHatX},
	{Index: 1, Target: ps3.LeftHatY},
	{Index: 2, Target: ps3.RightHatX},
	{Index: 3, Target: ps3.RightHatY},
}

func withTriggers(lt, rt int32) []AxisMapping {
	return append(append([]AxisMapping(nil), sticks...),
		AxisMapping{Index: lt, IsTrigger: true, Button: ps3.L2, RawMin: -32768, RawMax: 32767},
		AxisMapping{Index: rt, IsTrigger: true, Button: ps3.R2, RawMin: -32768, RawMax: 32767},
	)
}

// Built-in mappings for common controllers.

// SDL's HIDAPI PS3 driver reports buttons in gamepad order with the d-pad
// as buttons rather than a hat.
var playstation3Mapping = &DeviceMapping{
	Name: "playstation3",
	Axes: withTriggers(4, 5),
	Buttons: []ButtonMapping{
		{Index: 0, Target: ps3.Cross},
		{Index: 1, Target: ps3.Circle},
		{Index: 2, Target: ps3.Square},
		{Index: 3, Target: ps3.Triangle},
		{Index: 4, Target: ps3.Select},
		{Index: 5, Target: ps3.PS},
		{Index: 6, Target: ps3.Start},
		{Index: 7, Target: ps3.L3},
		{Index: 8, Target: ps3.R3},
		{Index: 9, Target: ps3.L1},
		{Index: 10, Target: ps3.R1},
		{Index: 11, Target: ps3.Up},
		{Index: 12, Target: ps3.Down},
		{Index: 13, Target: ps3.Left},
		{Index: 14, Target: ps3.Right},
	},
}

var playstationMapping = &DeviceMapping{
	Name: "playstation",
	Axes: withTriggers(4, 5),
	Buttons: []ButtonMapping{
		{Index: 0, Target: ps3.Cross},
		{Index: 1, Target: ps3.Circle},
		{Index: 2, Target: ps3.Square},
		{Index: 3, Target: ps3.Triangle},
		{Index: 4, Target: ps3.Select}, // Share / Create
		{Index: 5, Target: ps3.PS},
		{Index: 6, Target: ps3.Start}, // Options
		{Index: 7, Target: ps3.L3},
		{Index: 8, Target: ps3.R3},
		{Index: 9, Target: ps3.L1},
		{Index: 10, Target: ps3.R1},
	},
	HasHat: true,
}

// Xbox and generic pads use the face button positions: A is Cross, B is
// Circle, X is Square, Y is Triangle.
var xboxMapping = &DeviceMapping{
	Name: "xbox",
	Axes: withTriggers(4, 5),
	Buttons: []ButtonMapping{
		{Index: 0, Target: ps3.Cross},
		{Index: 1, Target: ps3.Circle},
		{Index: 2, Target: ps3.Square},
		{Index: 3, Target: ps3.Triangle},
		{Index: 4, Target: ps3.L1},
		{Index: 5, Target: ps3.R1},
		{Index: 6, Target: ps3.Select},
		{Index: 7, Target: ps3.Start},
		{Index: 8, Target: ps3.L3},
		{Index: 9, Target: ps3.R3},
		{Index: 10, Target: ps3.PS},
	},
	HasHat: true,
}

var switchProMapping = &DeviceMapping{
	Name: "switch_pro",
	Axes: sticks,
	Buttons: []ButtonMapping{
		{Index: 0, Target: ps3.Cross},
		{Index: 1, Target: ps3.Circle},
		{Index: 2, Target: ps3.Square},
		{Index: 3, Target: ps3.Triangle},
		{Index: 4, Target: ps3.L1},
		{Index: 5, Target: ps3.R1},
		{Index: 6, Target: ps3.Select},
		{Index: 7, Target: ps3.Start},
		{Index: 8, Target: ps3.L3},
		{Index: 9, Target: ps3.R3},
		{Index: 10, Target: ps3.PS},
	},
	HasHat: true,
}

var genericMapping = &DeviceMapping{
	Name:    "generic",
	Axes:    xboxMapping.Axes,
	Buttons: xboxMapping.Buttons,
	HasHat:  true,
}

// Known vendor/product IDs.
type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	{ps3.VendorID, ps3.ProductID}: playstation3Mapping,
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxMapping, // Xbox 360
	{0x045E, 0x02FF}: xboxMapping, // Xbox One
	{0x045E, 0x0B12}: xboxMapping, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxMapping, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationMapping, // DualSense
	{0x054C, 0x09CC}: playstationMapping, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationMapping, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProMapping,
}

// GetMapping returns the appropriate mapping for a device identified by vendor/product ID.
// Falls back to generic mapping if no specific mapping is found.
func GetMapping(vendorID, productID uint16) *DeviceMapping {
	key := deviceKey{VendorID: vendorID, ProductID: productID}
	if m, ok := knownDevices[key]; ok {
		return m
	}
	return genericMapping
}

// Joystick is the subset of a joystick the mapping reads from.
type Joystick interface {
	Axis(index int32) int16
	NumAxes() int32
	Button(index int32) bool
	NumButtons() int32
	Hat() (uint8, bool)
}

// Read builds a report from js.
func (m *DeviceMapping) Read(js Joystick) Report {
	r := NeutralReport()

	// Missing axes read 0, which is half travel for a trigger.
	numAxes := js.NumAxes()
	for _, am := range m.Axes {
		if am.Index >= numAxes {
			continue
		}
		raw := js.Axis(am.Index)
		if am.IsTrigger {
			if NormalizeTrigger(raw, am.RawMin, am.RawMax) > triggerPressed {
				r.Buttons = r.Buttons.With(am.Button)
			}
			continue
		}
		if int(am.Target) < len(r.Axes) {
			r.Axes[am.Target] = AxisToHat(raw, am.Invert)
		}
	}

	numButtons := js.NumButtons()
	for _, bm := range m.Buttons {
		if bm.Index >= numButtons {
			continue
		}
		if js.Button(bm.Index) {
			r.Buttons = r.Buttons.With(bm.Target)
		}
	}

	if m.HasHat {
		if hat, ok := js.Hat(); ok {
			r.Buttons |= HatButtons(hat)
		}
	}

	return r
}
