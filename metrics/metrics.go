// Package metrics exports camera boom activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/milk9111/camboom/springarm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booms counts what every boom did on each tick. Labels are rig names, which
// come from the loaded specs, so cardinality stays bounded.
type Booms struct {
	registry *prometheus.Registry

	ticks        *prometheus.CounterVec
	substeps     *prometheus.CounterVec
	clamps       *prometheus.CounterVec
	blocked      *prometheus.CounterVec
	probeFailed  *prometheus.CounterVec
	compression  *prometheus.HistogramVec
	tickDuration *prometheus.HistogramVec
}

func NewBooms() *Booms {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Booms{
		registry: reg,
		ticks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "camboom_ticks_total",
			Help: "Boom updates run",
		}, []string{"rig"}),
		substeps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "camboom_lag_substeps_total",
			Help: "Lag substeps run, by lagged quantity",
		}, []string{"rig", "lag"}), // lag: "location", "rotation"
		clamps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "camboom_lag_clamps_total",
			Help: "Updates where the lagged origin hit the max lag distance",
		}, []string{"rig"}),
		blocked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "camboom_probe_blocked_total",
			Help: "Updates where the collision probe pulled the camera in",
		}, []string{"rig"}),
		probeFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "camboom_probe_failures_total",
			Help: "Collision probes that returned an error",
		}, []string{"rig"}),
		compression: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "camboom_arm_compression_ratio",
			Help:    "Share of the arm length removed by collision on traced updates",
			Buckets: []float64{0, 0.05, 0.1, 0.25, 0.5, 0.75, 0.9, 1},
		}, []string{"rig"}),
		tickDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "camboom_tick_delta_seconds",
			Help:    "Frame time step seen by the boom",
			Buckets: []float64{0.004, 0.008, 0.0167, 0.033, 0.05, 0.1, 0.25},
		}, []string{"rig"}),
	}
}

// ObserveTick records one boom update.
func (b *Booms) ObserveTick(rig string, cfg springarm.Config, info springarm.TickInfo) {
	b.ticks.WithLabelValues(rig).Inc()
	b.tickDuration.WithLabelValues(rig).Observe(info.DeltaTime)
	if info.LocationSubsteps > 0 {
		b.substeps.WithLabelValues(rig, "location").Add(float64(info.LocationSubsteps))
	}
	if info.RotationSubsteps > 0 {
		b.substeps.WithLabelValues(rig, "rotation").Add(float64(info.RotationSubsteps))
	}
	if info.Clamped {
		b.clamps.WithLabelValues(rig).Inc()
	}
	if info.ProbeFailed {
		b.probeFailed.WithLabelValues(rig).Inc()
	}
	if info.Blocked {
		b.blocked.WithLabelValues(rig).Inc()
	}
	// a failed sweep leaves the arm at full length, which is not a measurement
	if info.Traced && !info.ProbeFailed && cfg.TargetArmLength > 0 {
		b.compression.WithLabelValues(rig).Observe(Compression(cfg, info))
	}
}

// Compression is how much of the arm the collision probe removed: 0 when the
// camera sits at full length, 1 when it was pulled onto the arm origin.
func Compression(cfg springarm.Config, info springarm.TickInfo) float64 {
	full := info.SweepEnd.Sub(info.ArmOrigin).Len()
	if full <= 0 || cfg.TargetArmLength <= 0 {
		return 0
	}
	got := info.ResultLocation.Sub(info.ArmOrigin).Len()
	ratio := 1 - got/full
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

func (b *Booms) Registry() *prometheus.Registry {
	return b.registry
}

// Handler serves the boom metrics in the Prometheus exposition format.
func (b *Booms) Handler() http.Handler {
	return promhttp.HandlerFor(b.registry, promhttp.HandlerOpts{Registry: b.registry})
}
