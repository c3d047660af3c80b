package ps3

// Button is a physical button on the controller.
type Button uint8

const (
	Up Button = iota
	Right
	Down
	Left
	Select
	Start
	L3
	R3
	L2
	R2
	L1
	R1
	Triangle
	Circle
	Cross
	Square
	PS

	numButtons
)

var buttonNames = [numButtons]string{
	"up", "right", "down", "left", "select", "start", "l3", "r3",
	"l2", "r2", "l1", "r1", "triangle", "circle", "cross", "square", "ps",
}

func (b Button) String() string {
	if b >= numButtons {
		return "unknown"
	}
	return buttonNames[b]
}

// ButtonMask is a set of physical buttons, one bit per Button.
type ButtonMask uint32

func (m ButtonMask) Has(b Button) bool { return b < numButtons && m&(1<<b) != 0 }

// With returns m with b added.
func (m ButtonMask) With(b Button) ButtonMask {
	if b >= numButtons {
		return m
	}
	return m | 1<<b
}

// Axis is an analog stick axis.
type Axis uint8

const (
	LeftHatX Axis = iota
	LeftHatY
	RightHatX
	RightHatY

	NumAxes = int(RightHatY) + 1
)
