package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ttpr0/go-streetwalker/graph"
	"github.com/ttpr0/go-streetwalker/navigator"
	"github.com/ttpr0/go-streetwalker/session"
	"github.com/ttpr0/go-streetwalker/structs"
)

//**********************************************************
// metrics
//**********************************************************

var _ session.IObserver = &Metrics{}

type Metrics struct {
	registry *prometheus.Registry

	commands      *prometheus.CounterVec
	ticks         prometheus.Counter
	tick_interval prometheus.Histogram
	edges_entered *prometheus.CounterVec
	dead_ends     prometheus.Counter
	ready         prometheus.Gauge
	graph_nodes   prometheus.Gauge
	graph_edges   prometheus.Gauge
	stream_conns  prometheus.Gauge
}

// Creates the service metrics on their own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "streetwalker_commands_total",
			Help: "Walker commands by command and result",
		}, []string{"command", "result"}),
		ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "streetwalker_ticks_total",
			Help: "Auto mode clock ticks",
		}),
		tick_interval: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "streetwalker_tick_interval_seconds",
			Help:    "Measured time between two clock ticks",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 8),
		}),
		edges_entered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "streetwalker_edges_entered_total",
			Help: "Edge transitions by cause",
		}, []string{"cause"}),
		dead_ends: factory.NewCounter(prometheus.CounterOpts{
			Name: "streetwalker_dead_ends_total",
			Help: "Moves clamped at a dead end",
		}),
		ready: factory.NewGauge(prometheus.GaugeOpts{
			Name: "streetwalker_ready",
			Help: "1 once the street graph is loaded",
		}),
		graph_nodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "streetwalker_graph_nodes",
			Help: "Vertices of the loaded street graph",
		}),
		graph_edges: factory.NewGauge(prometheus.GaugeOpts{
			Name: "streetwalker_graph_segments",
			Help: "Segments of the loaded street graph",
		}),
		stream_conns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "streetwalker_stream_connections",
			Help: "Open pose stream connections",
		}),
	}
}

func (self *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(self.registry, promhttp.HandlerOpts{})
}

func (self *Metrics) SetGraph(stats graph.GraphStats) {
	self.graph_nodes.Set(float64(stats.Nodes))
	self.graph_edges.Set(float64(stats.Segments))
	self.ready.Set(1)
}

func (self *Metrics) StreamOpened() {
	self.stream_conns.Inc()
}
func (self *Metrics) StreamClosed() {
	self.stream_conns.Dec()
}

func (self *Metrics) OnCommand(cmd session.Command, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	self.commands.WithLabelValues(cmd.String(), result).Inc()
}
func (self *Metrics) OnTick(dt time.Duration) {
	self.ticks.Inc()
	self.tick_interval.Observe(dt.Seconds())
}
func (self *Metrics) OnEdgeEnter(edge structs.Edge, cause navigator.EnterCause) {
	self.edges_entered.WithLabelValues(cause.String()).Inc()
}
func (self *Metrics) OnDeadEnd(node int32) {
	self.dead_ends.Inc()
}
