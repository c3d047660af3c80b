package arcade

type DirectionState struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

type MetaState struct {
	Start bool `json:"start"`
	Coin  bool `json:"coin"`
}

// ActionState holds Action1..Action10, index 0 being Action1.
type ActionState [10]bool

type PanelState struct {
	Connected  bool           `json:"connected"`
	Directions DirectionState `json:"directions"`
	Meta       MetaState      `json:"meta"`
	Actions    ActionState    `json:"actions"`
}

// Set records the pressed value of b. Buttons outside the set are ignored.
func (s *PanelState) Set(b Button, pressed bool) {
	switch {
	case b == Up:
		s.Directions.Up = pressed
	case b == Down:
		s.Directions.Down = pressed
	case b == Left:
		s.Directions.Left = pressed
	case b == Right:
		s.Directions.Right = pressed
	case b == Start:
		s.Meta.Start = pressed
	case b == Coin:
		s.Meta.Coin = pressed
	case b.IsAction():
		s.Actions[b-Action1] = pressed
	}
}

// Pressed returns the recorded value of b.
func (s PanelState) Pressed(b Button) bool {
	switch {
	case b == Up:
		return s.Directions.Up
	case b == Down:
		return s.Directions.Down
	case b == Left:
		return s.Directions.Left
	case b == Right:
		return s.Directions.Right
	case b == Start:
		return s.Meta.Start
	case b == Coin:
		return s.Meta.Coin
	case b.IsAction():
		return s.Actions[b-Action1]
	}
	return false
}

type DeltaChanges struct {
	Connected  *bool           `json:"connected,omitempty"`
	Directions *DirectionState `json:"directions,omitempty"`
	Meta       *MetaState      `json:"meta,omitempty"`
	Actions    *ActionState    `json:"actions,omitempty"`
}

func (d *DeltaChanges) IsEmpty() bool {
	return d.Connected == nil &&
		d.Directions == nil &&
		d.Meta == nil &&
		d.Actions == nil
}

func ComputeDelta(old, new_ PanelState) *DeltaChanges {
	d := &DeltaChanges{}

	if old.Connected != new_.Connected {
		d.Connected = &new_.Connected
	}
	if old.Directions != new_.Directions {
		d.Directions = &new_.Directions
	}
	if old.Meta != new_.Meta {
		d.Meta = &new_.Meta
	}
	if old.Actions != new_.Actions {
		d.Actions = &new_.Actions
	}

	return d
}
