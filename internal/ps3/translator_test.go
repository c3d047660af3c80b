package ps3

import (
	"errors"
	"testing"

	"github.com/soar/ps3arcade/internal/arcade"
)

type fakeSource struct {
	pressed   ButtonMask
	clicks    ButtonMask
	h, v      uint8
	connected bool
}

func (f *fakeSource) ButtonClick(b Button) bool {
	c := f.clicks.Has(b)
	f.clicks &^= 1 << b
	return c
}

func (f *fakeSource) ButtonPress(b Button) bool { return f.pressed.Has(b) }

func (f *fakeSource) AnalogHat(a Axis) uint8 {
	switch a {
	case LeftHatX:
		return f.h
	case LeftHatY:
		return f.v
	}
	return 128
}

func (f *fakeSource) Connected() bool { return f.connected }

func centred() *fakeSource { return &fakeSource{h: 128, v: 128, connected: true} }

func TestSafeguard(t *testing.T) {
	for h := 0; h < 256; h++ {
		for v := 0; v < 256; v++ {
			want := h == 0 && v == 0
			if got := Safeguard(uint8(h), uint8(v)); got != want {
				t.Fatalf("Safeguard(%d, %d) = %v", h, v, got)
			}
		}
	}
}

func TestThresholds(t *testing.T) {
	low, high := Thresholds(DefaultSensitivity)
	if low != 85 || high != 169 {
		t.Errorf("Thresholds(32) = %d, %d", low, high)
	}
	low, high = Thresholds(MaxSensitivity)
	if low != 1 || high != 253 {
		t.Errorf("Thresholds(116) = %d, %d", low, high)
	}
}

func TestAnalogDirections(t *testing.T) {
	src := centred()
	tr := New(src)

	for value := 0; value < 256; value++ {
		// keep the other axis off zero so the safeguard stays released
		src.h, src.v = 128, uint8(value)
		if got, want := tr.QueryState(arcade.Up), value < 85; got != want {
			t.Errorf("V=%d up = %v", value, got)
		}
		if got, want := tr.QueryState(arcade.Down), value > 169; got != want {
			t.Errorf("V=%d down = %v", value, got)
		}

		src.h, src.v = uint8(value), 128
		if got, want := tr.QueryState(arcade.Left), value < 85; got != want {
			t.Errorf("H=%d left = %v", value, got)
		}
		if got, want := tr.QueryState(arcade.Right), value > 169; got != want {
			t.Errorf("H=%d right = %v", value, got)
		}
	}
}

func TestCentreBandIsNeutral(t *testing.T) {
	src := centred()
	tr := New(src)
	for h := 85; h <= 169; h++ {
		for v := 85; v <= 169; v += 7 {
			src.h, src.v = uint8(h), uint8(v)
			for _, b := range []arcade.Button{arcade.Up, arcade.Down, arcade.Left, arcade.Right} {
				if tr.QueryState(b) {
					t.Fatalf("H=%d V=%d triggered %v", h, v, b)
				}
			}
		}
	}
}

func TestSafeguardSuppressesUpAndLeft(t *testing.T) {
	src := &fakeSource{h: 0, v: 0}
	tr := New(src)

	if tr.QueryState(arcade.Up) || tr.QueryState(arcade.Left) {
		t.Error("analog contribution not suppressed at 0,0")
	}

	src.pressed = src.pressed.With(Up).With(Left)
	if !tr.QueryState(arcade.Up) || !tr.QueryState(arcade.Left) {
		t.Error("digital press ignored under safeguard")
	}

	// one axis off zero releases the safeguard
	src.pressed = 0
	src.h = 1
	if !tr.QueryState(arcade.Up) {
		t.Error("up not registered with H=1 V=0")
	}
	if !tr.QueryState(arcade.Left) {
		t.Error("left not registered with H=1 V=0")
	}
}

func TestSafeguardLeavesDownAndRight(t *testing.T) {
	src := &fakeSource{h: 0, v: 0}
	tr := New(src)

	if tr.QueryState(arcade.Down) || tr.QueryState(arcade.Right) {
		t.Fatal("down/right registered at 0,0")
	}

	// at 0,0 neither axis passes the high threshold, so the asymmetry
	// is only visible in the binding table
	for _, tc := range []struct {
		button arcade.Button
		axis   Axis
	}{
		{arcade.Down, LeftHatY},
		{arcade.Right, LeftHatX},
	} {
		if bindings[tc.button].guarded {
			t.Errorf("%v is guarded", tc.button)
		}
		if bindings[tc.button].axis != tc.axis || bindings[tc.button].cmp != above {
			t.Errorf("%v binding = %+v", tc.button, bindings[tc.button])
		}
	}
	for _, b := range []arcade.Button{arcade.Up, arcade.Left} {
		if !bindings[b].guarded {
			t.Errorf("%v is not guarded", b)
		}
	}
}

func TestDigitalOnlyButtons(t *testing.T) {
	tests := []struct {
		logical  arcade.Button
		physical Button
	}{
		{arcade.Start, Start},
		{arcade.Coin, Select},
		{arcade.Action1, Square},
		{arcade.Action2, Triangle},
		{arcade.Action3, R1},
		{arcade.Action4, Cross},
		{arcade.Action5, Circle},
		{arcade.Action6, R2},
		{arcade.Action7, L1},
		{arcade.Action8, L2},
		{arcade.Action9, R3},
		{arcade.Action10, L3},
	}
	for _, tt := range tests {
		t.Run(tt.logical.String(), func(t *testing.T) {
			src := &fakeSource{h: 0, v: 255}
			tr := New(src)
			if tr.QueryState(tt.logical) {
				t.Fatal("pressed without input")
			}
			src.pressed = src.pressed.With(tt.physical)
			if !tr.QueryState(tt.logical) {
				t.Fatal("state not reported")
			}
			src.clicks = src.clicks.With(tt.physical)
			if !tr.QueryClick(tt.logical) {
				t.Fatal("click not reported")
			}
			if tr.QueryClick(tt.logical) {
				t.Fatal("click reported twice")
			}
		})
	}
}

func TestScenarios(t *testing.T) {
	t.Run("A", func(t *testing.T) {
		src := &fakeSource{h: 128, v: 100}
		tr := New(src)
		if tr.QueryState(arcade.Up) {
			t.Error("V=100 reported up")
		}
		src.v = 50
		if !tr.QueryState(arcade.Up) {
			t.Error("V=50 did not report up")
		}
	})

	t.Run("B", func(t *testing.T) {
		src := &fakeSource{pressed: ButtonMask(0).With(Left)}
		tr := New(src)
		if !tr.QueryState(arcade.Left) {
			t.Error("pressed left not reported")
		}
		src.pressed = 0
		if tr.QueryState(arcade.Left) {
			t.Error("left reported from suppressed analog")
		}
	})

	t.Run("C", func(t *testing.T) {
		src := &fakeSource{pressed: ^ButtonMask(0), clicks: ^ButtonMask(0), h: 255, v: 255}
		tr := New(src)
		for _, b := range []arcade.Button{arcade.Button(arcade.NumButtons), 200, 255} {
			if tr.QueryState(b) || tr.QueryClick(b) {
				t.Errorf("button %d reported pressed", b)
			}
		}
	})

	t.Run("D", func(t *testing.T) {
		src := &fakeSource{}
		tr := New(src)
		if tr.Connected() {
			t.Error("disconnected source reported connected")
		}
		if tr.VendorID() != 0x054C || tr.ProductID() != 0x0268 {
			t.Errorf("identity = %04X:%04X", tr.VendorID(), tr.ProductID())
		}
		src.connected = true
		if !tr.Connected() {
			t.Error("connected source reported disconnected")
		}
	})
}

func TestClickMixesEdgeAndLevel(t *testing.T) {
	src := &fakeSource{h: 128, v: 10}
	tr := New(src)

	// a held stick keeps reporting through the click query
	for i := 0; i < 3; i++ {
		if !tr.QueryClick(arcade.Up) {
			t.Fatalf("query %d: analog up not reported", i)
		}
	}

	src.v = 128
	src.clicks = src.clicks.With(Up)
	if !tr.QueryClick(arcade.Up) {
		t.Fatal("digital click not reported")
	}
	if tr.QueryClick(arcade.Up) {
		t.Fatal("digital click reported twice")
	}
}

func TestStateIsIdempotent(t *testing.T) {
	src := &fakeSource{h: 200, v: 30, pressed: ButtonMask(0).With(Cross)}
	tr := New(src)
	for i := 0; i < 5; i++ {
		if !tr.QueryState(arcade.Right) || !tr.QueryState(arcade.Up) || !tr.QueryState(arcade.Action4) {
			t.Fatalf("query %d changed result", i)
		}
		if tr.QueryState(arcade.Left) || tr.QueryState(arcade.Down) {
			t.Fatalf("query %d changed result", i)
		}
	}
}

func TestSensitivity(t *testing.T) {
	for _, s := range []uint8{0, 117, 255} {
		if _, err := NewWithSensitivity(centred(), s); !errors.Is(err, ErrSensitivityRange) {
			t.Errorf("sensitivity %d: err = %v", s, err)
		}
	}

	src := centred()
	tr, err := NewWithSensitivity(src, 1)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Sensitivity() != 1 {
		t.Errorf("Sensitivity() = %d", tr.Sensitivity())
	}
	src.v = 115
	if !tr.QueryState(arcade.Up) {
		t.Error("V=115 not up at sensitivity 1")
	}
	src.v = 116
	if tr.QueryState(arcade.Up) {
		t.Error("V=116 up at sensitivity 1")
	}
	src.v = 139
	if !tr.QueryState(arcade.Down) {
		t.Error("V=139 not down at sensitivity 1")
	}
}
