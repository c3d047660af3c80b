// Package panel scans the logical arcade buttons at the poll cadence and
// publishes the resulting panel state.
package panel

import (
	"sync"

	"github.com/soar/ps3arcade/internal/arcade"
	"github.com/soar/ps3arcade/internal/logger"
	"github.com/soar/ps3arcade/internal/metrics"
	"github.com/soar/ps3arcade/internal/ps3"
)

// Querier answers logical button queries, see ps3.Translator.
type Querier interface {
	QueryClick(b arcade.Button) bool
	QueryState(b arcade.Button) bool
	Connected() bool
}

// AxisReader exposes the raw stick the querier reads from.
type AxisReader interface {
	AnalogHat(a ps3.Axis) uint8
}

const (
	changesBuffer = 64
	clicksBuffer  = 256
)

// Scanner polls a Querier once per Scan. Scan must be called from the
// goroutine that owns the querier's source; Current is safe from any.
type Scanner struct {
	q       Querier
	axes    AxisReader
	metrics *metrics.Panel
	log     *logger.Logger

	mu      sync.RWMutex
	state   arcade.PanelState
	emitted bool

	changes chan arcade.PanelState
	clicks  chan arcade.Button
}

func New(q Querier, axes AxisReader, m *metrics.Panel, log *logger.Logger) *Scanner {
	return &Scanner{
		q:       q,
		axes:    axes,
		metrics: m,
		log:     log.Component("panel"),
		changes: make(chan arcade.PanelState, changesBuffer),
		clicks:  make(chan arcade.Button, clicksBuffer),
	}
}

// Changes returns the channel on which panel state changes are sent.
func (s *Scanner) Changes() <-chan arcade.PanelState { return s.changes }

// Clicks returns the channel on which button clicks are sent. A stick held
// past the threshold clicks up/down/left/right on every scan.
func (s *Scanner) Clicks() <-chan arcade.Button { return s.clicks }

// Current returns the last scanned state.
func (s *Scanner) Current() arcade.PanelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Scanner) Scan() {
	var next arcade.PanelState
	next.Connected = s.q.Connected()

	for i := 0; i < arcade.NumButtons; i++ {
		b := arcade.Button(i)
		next.Set(b, s.q.QueryState(b))
		if s.q.QueryClick(b) {
			s.metrics.Click(b)
			s.emitClick(b)
		}
	}

	s.metrics.Scans.Inc()
	if s.axes != nil && next.Connected &&
		ps3.Safeguard(s.axes.AnalogHat(ps3.LeftHatX), s.axes.AnalogHat(ps3.LeftHatY)) {
		s.metrics.Safeguard.Inc()
	}

	s.mu.Lock()
	prev, emitted := s.state, s.emitted
	s.state, s.emitted = next, true
	s.mu.Unlock()

	if emitted && arcade.ComputeDelta(prev, next).IsEmpty() {
		return
	}
	if !emitted || prev.Connected != next.Connected {
		s.metrics.SetConnected(next.Connected)
		s.log.Info().Bool("connected", next.Connected).Msg("panel source")
	}

	select {
	case s.changes <- next:
	default:
		// Drop if channel is full to avoid blocking the poll loop
		s.metrics.Dropped.Inc()
		s.log.Debug().Msg("panel change dropped")
	}
}

func (s *Scanner) emitClick(b arcade.Button) {
	select {
	case s.clicks <- b:
	default:
		s.metrics.Dropped.Inc()
		s.log.Debug().Stringer("button", b).Msg("click dropped")
	}
}
