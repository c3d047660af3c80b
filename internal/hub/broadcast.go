package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/soar/ps3arcade/internal/arcade"
	"github.com/soar/ps3arcade/internal/logger"
	"github.com/soar/ps3arcade/internal/metrics"
)

const (
	DefaultFullSyncInterval = 5 * time.Second
	deltaCountSync          = 100
)

// Broadcaster listens for panel changes and clicks and broadcasts them to the hub.
type Broadcaster struct {
	hub      *Hub
	changes  <-chan arcade.PanelState
	clicks   <-chan arcade.Button
	identity Identity
	interval time.Duration
	metrics  *metrics.Panel
	log      *logger.Logger

	mu        sync.Mutex
	lastState arcade.PanelState
	seq       int64
}

func NewBroadcaster(h *Hub, changes <-chan arcade.PanelState, clicks <-chan arcade.Button,
	identity Identity, interval time.Duration, m *metrics.Panel, log *logger.Logger) *Broadcaster {
	if interval <= 0 {
		interval = DefaultFullSyncInterval
	}
	return &Broadcaster{
		hub:      h,
		changes:  changes,
		clicks:   clicks,
		identity: identity,
		interval: interval,
		metrics:  m,
		log:      log.Component("broadcast"),
	}
}

// Run starts the broadcaster loop until done is closed or changes is closed.
func (b *Broadcaster) Run(done <-chan struct{}) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	var deltaCount int64

	for {
		select {
		case <-done:
			return

		case state, ok := <-b.changes:
			if !ok {
				return
			}

			b.mu.Lock()
			delta := arcade.ComputeDelta(b.lastState, state)
			b.lastState = state
			if delta.IsEmpty() {
				b.mu.Unlock()
				continue
			}
			b.seq++
			seq := b.seq
			b.mu.Unlock()

			deltaCount++

			// Send full sync periodically
			if deltaCount >= deltaCountSync {
				b.broadcast(NewFullMessage(seq, &state))
				deltaCount = 0
			} else {
				b.broadcast(NewDeltaMessage(seq, delta))
			}

		case button, ok := <-b.clicks:
			if !ok {
				return
			}
			b.broadcast(NewClickMessage(b.nextSeq(), button))

		case <-ticker.C:
			b.mu.Lock()
			state := b.lastState
			b.mu.Unlock()
			if state.Connected {
				b.broadcast(NewFullMessage(b.nextSeq(), &state))
			}
		}
	}
}

// SendInitialState sends the identity and the current full state to a newly connected client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.send(c, NewIdentityMessage(b.identity))
	b.SendFullState(c)
}

// SendFullState sends the current full state to one client.
func (b *Broadcaster) SendFullState(c *Client) {
	b.mu.Lock()
	b.seq++
	state := b.lastState
	msg := NewFullMessage(b.seq, &state)
	b.mu.Unlock()
	b.send(c, msg)
}

func (b *Broadcaster) nextSeq() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	return b.seq
}

func (b *Broadcaster) send(c *Client, msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.log.Error().Err(err).Str("type", msg.Type).Msg("marshal failed")
		return
	}
	if !c.Send(data) {
		b.metrics.Dropped.Inc()
	}
}

func (b *Broadcaster) broadcast(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.log.Error().Err(err).Str("type", msg.Type).Msg("marshal failed")
		return
	}
	b.metrics.Deliveries.WithLabelValues(msg.Type).Inc()
	b.hub.Broadcast(data)
}
