package hub

import (
	"time"

	"github.com/soar/ps3arcade/internal/arcade"
)

// Message types.
const (
	TypeFull     = "full"
	TypeDelta    = "delta"
	TypeEvent    = "event"
	TypeIdentity = "identity"

	EventClick = "click"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string               `json:"type"`             // Message type: "full", "delta", "event", "identity"
	Seq       int64                `json:"seq"`              // Sequence number for ordering
	Timestamp int64                `json:"timestamp"`        // Unix timestamp in milliseconds
	Event     string               `json:"event,omitempty"`  // Event name for type "event"
	Button    string               `json:"button,omitempty"` // Logical button for event "click"
	Data      *arcade.PanelState   `json:"data,omitempty"`
	Changes   *arcade.DeltaChanges `json:"changes,omitempty"`
	Identity  *Identity            `json:"identity,omitempty"`
}

// Identity describes the controller model the panel is translating.
type Identity struct {
	VendorID    uint16 `json:"vendorId"`
	ProductID   uint16 `json:"productId"`
	Sensitivity uint8  `json:"sensitivity"`
}

func NewFullMessage(seq int64, state *arcade.PanelState) *WSMessage {
	return &WSMessage{
		Type:      TypeFull,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Data:      state,
	}
}

func NewDeltaMessage(seq int64, changes *arcade.DeltaChanges) *WSMessage {
	return &WSMessage{
		Type:      TypeDelta,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Changes:   changes,
	}
}

// NewClickMessage creates an "event" message for a logical button click.
func NewClickMessage(seq int64, b arcade.Button) *WSMessage {
	return &WSMessage{
		Type:      TypeEvent,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Event:     EventClick,
		Button:    b.String(),
	}
}

func NewIdentityMessage(id Identity) *WSMessage {
	return &WSMessage{
		Type:      TypeIdentity,
		Timestamp: time.Now().UnixMilli(),
		Identity:  &id,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type string `json:"type"`
}

// Client message types.
const ClientSync = "sync"
