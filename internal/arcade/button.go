// Package arcade describes the logical buttons of an arcade control panel
// and the panel state built from them.
package arcade

import "fmt"

// Button is a logical arcade panel button.
type Button uint8

const (
	Up Button = iota
	Down
	Left
	Right
	Start
	Coin
	Action1
	Action2
	Action3
	Action4
	Action5
	Action6
	Action7
	Action8
	Action9
	Action10

	// NumButtons is the size of the logical button set.
	NumButtons = int(Action10) + 1
)

var buttonNames = [NumButtons]string{
	"up", "down", "left", "right", "start", "coin",
	"action1", "action2", "action3", "action4", "action5",
	"action6", "action7", "action8", "action9", "action10",
}

// Valid reports whether b belongs to the logical button set.
func (b Button) Valid() bool { return int(b) < NumButtons }

func (b Button) String() string {
	if !b.Valid() {
		return fmt.Sprintf("button(%d)", uint8(b))
	}
	return buttonNames[b]
}

// ParseButton returns the button named s.
func ParseButton(s string) (Button, error) {
	for i, name := range buttonNames {
		if name == s {
			return Button(i), nil
		}
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// Buttons returns every logical button in panel order.
func Buttons() []Button {
	all := make([]Button, NumButtons)
	for i := range all {
		all[i] = Button(i)
	}
	return all
}

// IsAction reports whether b is one of Action1..Action10.
func (b Button) IsAction() bool { return b >= Action1 && b <= Action10 }
