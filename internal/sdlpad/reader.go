// Package sdlpad feeds a gamepad.Pad from the SDL3 joystick API.
package sdlpad

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/jupiterrider/purego-sdl3/sdl"
	"github.com/soar/ps3arcade/internal/gamepad"
	"github.com/soar/ps3arcade/internal/logger"
)

var ErrInit = errors.New("sdl init failed")

type joystickInfo struct {
	joystick *sdl.Joystick
	mapping  *gamepad.DeviceMapping
	name     string
	id       sdl.JoystickID
}

// sdlJoystick reads one opened SDL joystick.
type sdlJoystick struct{ js *sdl.Joystick }

func (j sdlJoystick) Axis(index int32) int16  { return sdl.GetJoystickAxis(j.js, index) }
func (j sdlJoystick) NumAxes() int32          { return sdl.GetNumJoystickAxes(j.js) }
func (j sdlJoystick) Button(index int32) bool { return sdl.GetJoystickButton(j.js, index) }
func (j sdlJoystick) NumButtons() int32       { return sdl.GetNumJoystickButtons(j.js) }

func (j sdlJoystick) Hat() (uint8, bool) {
	if sdl.GetNumJoystickHats(j.js) == 0 {
		return 0, false
	}
	return sdl.GetJoystickHat(j.js, 0), true
}

// Reader polls the SDL3 Joystick API into a Pad and calls the tick hook
// after every poll, on the same goroutine.
type Reader struct {
	pad       *gamepad.Pad
	joysticks map[sdl.JoystickID]*joystickInfo
	activeID  sdl.JoystickID // the first connected joystick
	hasActive bool
	interval  time.Duration
	onInit    func() error
	onTick    func()
	log       *logger.Logger
}

func NewReader(pad *gamepad.Pad, interval time.Duration, log *logger.Logger) *Reader {
	if interval <= 0 {
		interval = gamepad.DefaultPollInterval
	}
	return &Reader{
		pad:       pad,
		joysticks: make(map[sdl.JoystickID]*joystickInfo),
		interval:  interval,
		onInit:    func() error { return nil },
		onTick:    func() {},
		log:       log.Component("reader"),
	}
}

// OnTick sets the function run after each poll. Set it before Run.
func (r *Reader) OnTick(fn func()) {
	if fn != nil {
		r.onTick = fn
	}
}

// OnInit sets a function run right after SDL is initialized. Set it before Run.
func (r *Reader) OnInit(fn func() error) {
	if fn != nil {
		r.onInit = fn
	}
}

// Run initializes SDL and runs the event+polling loop until ctx is done.
// SDL needs the calling goroutine locked to its thread, Run does that itself.
func (r *Reader) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		return errors.Join(ErrInit, errors.New(sdl.GetError()))
	}
	defer sdl.Quit()

	r.log.Info().Dur("interval", r.interval).Msg("SDL3 joystick subsystem initialized")
	if err := r.onInit(); err != nil {
		r.log.Warn().Err(err).Msg("post-init hook")
	}

	// Check for already-connected joysticks
	for _, id := range sdl.GetJoysticks() {
		r.openJoystick(id)
	}

	delay := uint64(r.interval.Nanoseconds())
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		default:
		}

		r.processEvents()
		r.pollState()
		r.onTick()
		sdl.DelayNS(delay)
	}
}

func (r *Reader) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			r.openJoystick(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			r.removeJoystick(event.JDevice().Which)
		}
	}
}

func (r *Reader) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := r.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		r.log.Warn().Uint32("id", uint32(instanceID)).Str("err", sdl.GetError()).Msg("failed to open joystick")
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	name := sdl.GetJoystickName(js)
	mapping := gamepad.GetMapping(vendorID, productID)

	r.joysticks[jsID] = &joystickInfo{
		joystick: js,
		mapping:  mapping,
		name:     name,
		id:       jsID,
	}

	r.log.Info().
		Str("name", name).
		Str("vidpid", formatIDs(vendorID, productID)).
		Str("mapping", mapping.Name).
		Int32("axes", sdl.GetNumJoystickAxes(js)).
		Int32("buttons", sdl.GetNumJoystickButtons(js)).
		Int32("hats", sdl.GetNumJoystickHats(js)).
		Msg("joystick connected")

	if !r.hasActive {
		r.activate(r.joysticks[jsID])
	}
}

func (r *Reader) activate(info *joystickInfo) {
	r.activeID = info.id
	r.hasActive = true
	r.pad.SetConnected(true)
	r.pad.Update(gamepad.NeutralReport())
	r.log.Info().Str("name", info.name).Uint32("id", uint32(info.id)).Msg("active joystick set")
}

func (r *Reader) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := r.joysticks[instanceID]
	if !exists {
		return
	}

	r.log.Info().Str("name", info.name).Msg("joystick disconnected")
	sdl.CloseJoystick(info.joystick)
	delete(r.joysticks, instanceID)

	if !r.hasActive || r.activeID != instanceID {
		return
	}
	r.hasActive = false
	r.pad.SetConnected(false)

	// Promote the next available joystick
	for _, js := range r.joysticks {
		if sdl.JoystickConnected(js.joystick) {
			r.activate(js)
			return
		}
	}
}

func (r *Reader) closeAll() {
	for id, info := range r.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(r.joysticks, id)
	}
	r.hasActive = false
	r.pad.SetConnected(false)
}

func (r *Reader) pollState() {
	if !r.hasActive {
		return
	}

	info, exists := r.joysticks[r.activeID]
	if !exists || !sdl.JoystickConnected(info.joystick) {
		return
	}

	r.pad.Update(info.mapping.Read(sdlJoystick{info.joystick}))
}

func formatIDs(vendorID, productID uint16) string {
	return fmt.Sprintf("%04X:%04X", vendorID, productID)
}
