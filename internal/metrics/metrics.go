// Package metrics holds the Prometheus collectors of the panel bridge.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soar/ps3arcade/internal/arcade"
)

const namespace = "ps3arcade"

type Panel struct {
	registry *prometheus.Registry

	Scans      prometheus.Counter
	Safeguard  prometheus.Counter
	Clicks     *prometheus.CounterVec
	Connected  prometheus.Gauge
	Clients    prometheus.Gauge
	Dropped    prometheus.Counter
	Deliveries *prometheus.CounterVec
}

func New() *Panel {
	p := &Panel{
		registry: prometheus.NewRegistry(),
		Scans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Panel scans performed.",
		}),
		Safeguard: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "safeguard_scans_total",
			Help:      "Scans where both left stick axes read zero and stick up/left were ignored.",
		}),
		Clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Clicks reported per logical button.",
		}, []string{"button"}),
		Connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "controller_connected",
			Help:      "1 while a controller is connected.",
		}),
		Clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected WebSocket clients.",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_updates_total",
			Help:      "Panel updates dropped because a consumer was behind.",
		}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages broadcast per message type.",
		}, []string{"type"}),
	}
	p.registry.MustRegister(p.Scans, p.Safeguard, p.Clicks, p.Connected, p.Clients, p.Dropped, p.Deliveries)
	return p
}

func (p *Panel) Click(b arcade.Button) { p.Clicks.WithLabelValues(b.String()).Inc() }

func (p *Panel) SetConnected(connected bool) {
	if connected {
		p.Connected.Set(1)
	} else {
		p.Connected.Set(0)
	}
}

// Handler serves the registry in the Prometheus text format.
func (p *Panel) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
