package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soar/ps3arcade/internal/arcade"
	"github.com/soar/ps3arcade/internal/hub"
	"github.com/soar/ps3arcade/internal/logger"
	"github.com/soar/ps3arcade/internal/metrics"
)

type fixedState arcade.PanelState

func (f fixedState) Current() arcade.PanelState { return arcade.PanelState(f) }

var identity = hub.Identity{VendorID: 0x054C, ProductID: 0x0268, Sensitivity: 32}

func newTestServer(t *testing.T, state arcade.PanelState) *httptest.Server {
	t.Helper()
	done := make(chan struct{})

	m := metrics.New()
	h := hub.NewHub(m, logger.Nop())
	changes := make(chan arcade.PanelState)
	clicks := make(chan arcade.Button)
	b := hub.NewBroadcaster(h, changes, clicks, identity, time.Hour, m, logger.Nop())
	go h.Run(done)
	go b.Run(done)

	frontend := fstest.MapFS{
		"index.html": {Data: []byte("<!doctype html>\n<html>\n  <body>\n    <!-- panel -->\n    <p>  panel  </p>\n  </body>\n</html>\n")},
	}
	srv := New(Options{
		Hub:         h,
		Broadcaster: b,
		State:       fixedState(state),
		Identity:    identity,
		FrontendFS:  frontend,
		Metrics:     m,
		Log:         logger.Nop(),
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		close(done)
	})
	return ts
}

func TestStateEndpoint(t *testing.T) {
	state := arcade.PanelState{Connected: true}
	state.Set(arcade.Coin, true)
	state.Set(arcade.Action10, true)
	ts := newTestServer(t, state)

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var body StateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Identity != identity {
		t.Errorf("identity = %+v", body.Identity)
	}
	if !body.State.Connected || !body.State.Meta.Coin || !body.State.Actions[9] {
		t.Errorf("state = %+v", body.State)
	}
	if strings.Join(body.Pressed, ",") != "coin,action10" {
		t.Errorf("pressed = %v", body.Pressed)
	}
}

func TestStateEndpointMethod(t *testing.T) {
	ts := newTestServer(t, arcade.PanelState{})
	resp, err := http.Post(ts.URL+"/api/state", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestFrontendMinified(t *testing.T) {
	ts := newTestServer(t, arcade.PanelState{})
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "<!--") || strings.Contains(string(body), "\n  ") {
		t.Errorf("frontend not minified: %q", body)
	}
	if !strings.Contains(string(body), "panel") {
		t.Errorf("content lost: %q", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, arcade.PanelState{})
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ps3arcade_scans_total") {
		t.Errorf("metrics missing: %s", body)
	}
}

func TestWebSocketHandshake(t *testing.T) {
	ts := newTestServer(t, arcade.PanelState{})
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg hub.WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != hub.TypeIdentity || msg.Identity == nil || msg.Identity.Sensitivity != 32 {
		t.Fatalf("first message = %+v", msg)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != hub.TypeFull {
		t.Fatalf("second message = %+v", msg)
	}

	if err := conn.WriteJSON(hub.ClientMessage{Type: hub.ClientSync}); err != nil {
		t.Fatal(err)
	}
	msg = hub.WSMessage{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != hub.TypeFull || msg.Data == nil {
		t.Fatalf("sync reply = %+v", msg)
	}
}

func TestStateEndpointButton(t *testing.T) {
	state := arcade.PanelState{Connected: true}
	state.Set(arcade.Action3, true)
	ts := newTestServer(t, state)

	tests := []struct {
		query   string
		status  int
		pressed bool
	}{
		{"action3", http.StatusOK, true},
		{"coin", http.StatusOK, false},
		{"select", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/state?button=" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if tt.status != http.StatusOK {
				return
			}
			var body ButtonResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Button != tt.query || body.Pressed != tt.pressed || !body.Connected {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestShutdownBeforeServe(t *testing.T) {
	srv := New(Options{Addr: "127.0.0.1:0", State: fixedState{}, Log: logger.Nop()})
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("err = %v", err)
	}
}
