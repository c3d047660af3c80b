package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/soar/ps3arcade/internal/arcade"
	"github.com/soar/ps3arcade/internal/hub"
	"github.com/soar/ps3arcade/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local use
	},
}

// StateSource returns the last scanned panel state.
type StateSource interface {
	Current() arcade.PanelState
}

// StateResponse is the body of GET /api/state.
type StateResponse struct {
	Identity hub.Identity      `json:"identity"`
	State    arcade.PanelState `json:"state"`
	Pressed  []string          `json:"pressed"`
}

// ButtonResponse is the body of GET /api/state?button=<name>.
type ButtonResponse struct {
	Button    string `json:"button"`
	Pressed   bool   `json:"pressed"`
	Connected bool   `json:"connected"`
}

func handleWebSocket(h *hub.Hub, b *hub.Broadcaster, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := hub.NewClient(h, conn)
		h.Register(client)

		// Send identity and current state to the new client
		b.SendInitialState(client)

		go client.WritePump()
		go client.ReadPump(b)
	}
}

func handleState(src StateSource, id hub.Identity, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		state := src.Current()

		if name := r.URL.Query().Get("button"); name != "" {
			b, err := arcade.ParseButton(name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, ButtonResponse{Button: b.String(), Pressed: state.Pressed(b), Connected: state.Connected}, log)
			return
		}

		resp := StateResponse{Identity: id, State: state, Pressed: []string{}}
		for _, b := range arcade.Buttons() {
			if state.Pressed(b) {
				resp.Pressed = append(resp.Pressed, b.String())
			}
		}
		writeJSON(w, resp, log)
	}
}

func writeJSON(w http.ResponseWriter, v any, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("state response")
	}
}
