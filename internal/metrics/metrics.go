// Package metrics exports diagram, interaction and store activity as
// Prometheus metrics by implementing the observability hooks.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/issuegraph/pkg/observability"
)

// Metrics holds the collectors. Create with [New] and activate with
// [Metrics.Install].
type Metrics struct {
	registry *prometheus.Registry

	buildsTotal   *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	diagramNodes  *prometheus.GaugeVec
	diagramEdges  *prometheus.GaugeVec
	seededTotal   *prometheus.CounterVec

	eventsTotal  *prometheus.CounterVec
	intentsTotal *prometheus.CounterVec

	loadsTotal     *prometheus.CounterVec
	savesTotal     *prometheus.CounterVec
	saveBytes      *prometheus.HistogramVec
	recoveredTotal *prometheus.CounterVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		buildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "issuegraph_builds_total",
				Help: "Number of diagram rebuilds by project.",
			},
			[]string{"project"},
		),
		buildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "issuegraph_build_duration_seconds",
				Help:    "Time taken to rebuild a diagram.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"project"},
		),
		diagramNodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "issuegraph_diagram_nodes",
				Help: "Number of nodes in the last built diagram.",
			},
			[]string{"project"},
		),
		diagramEdges: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "issuegraph_diagram_edges",
				Help: "Number of edges in the last built diagram.",
			},
			[]string{"project"},
		),
		seededTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "issuegraph_seeded_positions_total",
				Help: "Number of positions written by the layout seed.",
			},
			[]string{"project"},
		),
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "issuegraph_events_total",
				Help: "Number of interaction events handled by type and source.",
			},
			[]string{"type", "source"},
		),
		intentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "issuegraph_intents_total",
				Help: "Number of intents emitted by name.",
			},
			[]string{"intent"},
		),
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "issuegraph_position_loads_total",
				Help: "Number of position record loads by backend and whether a record existed.",
			},
			[]string{"backend", "found"},
		),
		savesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "issuegraph_position_saves_total",
				Help: "Number of position record saves by backend and result.",
			},
			[]string{"backend", "result"},
		),
		saveBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "issuegraph_position_save_bytes",
				Help:    "Size of saved position records.",
				Buckets: prometheus.ExponentialBuckets(64, 4, 8),
			},
			[]string{"backend"},
		),
		recoveredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "issuegraph_position_recovered_total",
				Help: "Number of malformed position records replaced by an empty one.",
			},
			[]string{"backend"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.buildsTotal,
		m.buildDuration,
		m.diagramNodes,
		m.diagramEdges,
		m.seededTotal,
		m.eventsTotal,
		m.intentsTotal,
		m.loadsTotal,
		m.savesTotal,
		m.saveBytes,
		m.recoveredTotal,
	)
	return m
}

// Install registers m as the global diagram, interaction and store hooks.
func (m *Metrics) Install() {
	observability.SetDiagramHooks(diagramHooks{m})
	observability.SetInteractionHooks(interactionHooks{m})
	observability.SetStoreHooks(storeHooks{m})
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// =============================================================================
// Hook implementations
// =============================================================================

type diagramHooks struct{ m *Metrics }

func (h diagramHooks) OnBuildStart(context.Context, string) {}

func (h diagramHooks) OnBuildComplete(_ context.Context, project string, nodes, edges int, dur time.Duration) {
	h.m.buildsTotal.WithLabelValues(project).Inc()
	h.m.buildDuration.WithLabelValues(project).Observe(dur.Seconds())
	h.m.diagramNodes.WithLabelValues(project).Set(float64(nodes))
	h.m.diagramEdges.WithLabelValues(project).Set(float64(edges))
}

func (h diagramHooks) OnSeed(_ context.Context, project string, seeded int, _ time.Duration) {
	h.m.seededTotal.WithLabelValues(project).Add(float64(seeded))
}

type interactionHooks struct{ m *Metrics }

func (h interactionHooks) OnEvent(_ context.Context, eventType, source string) {
	h.m.eventsTotal.WithLabelValues(eventType, source).Inc()
}

func (h interactionHooks) OnIntent(_ context.Context, intent string) {
	h.m.intentsTotal.WithLabelValues(intent).Inc()
}

type storeHooks struct{ m *Metrics }

func (h storeHooks) OnLoad(_ context.Context, backend string, found bool) {
	h.m.loadsTotal.WithLabelValues(backend, strconv.FormatBool(found)).Inc()
}

func (h storeHooks) OnSave(_ context.Context, backend string, size int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		h.m.saveBytes.WithLabelValues(backend).Observe(float64(size))
	}
	h.m.savesTotal.WithLabelValues(backend, result).Inc()
}

func (h storeHooks) OnRecovered(_ context.Context, backend string, _ error) {
	h.m.recoveredTotal.WithLabelValues(backend).Inc()
}

var (
	_ observability.DiagramHooks     = diagramHooks{}
	_ observability.InteractionHooks = interactionHooks{}
	_ observability.StoreHooks       = storeHooks{}
)
