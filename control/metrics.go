// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for session pacing telemetry. Counters are
// updated by the session handle on its dispatcher thread; the
// collectors themselves are safe to scrape from anywhere.

package control

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	presentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framepace",
			Subsystem: "session",
			Name:      "presents_total",
			Help:      "Frame submissions transmitted to the compositor.",
		},
		[]string{"name"},
	)
	presentCredits = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "framepace",
			Subsystem: "session",
			Name:      "present_credits",
			Help:      "Present credits currently available.",
		},
		[]string{"name"},
	)
	parkedPresents = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "framepace",
			Subsystem: "session",
			Name:      "parked_presents",
			Help:      "Whether a present is parked awaiting credit (0 or 1).",
		},
		[]string{"name"},
	)
	vsyncResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framepace",
			Subsystem: "session",
			Name:      "vsync_callbacks_resolved_total",
			Help:      "Vsync timing callbacks resolved.",
		},
		[]string{"name"},
	)
	framesPresentedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framepace",
			Subsystem: "session",
			Name:      "frames_presented_total",
			Help:      "Completion events received from the compositor.",
		},
		[]string{"name"},
	)
	disconnectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framepace",
			Subsystem: "session",
			Name:      "disconnects_total",
			Help:      "Terminal transport failures by error code.",
		},
		[]string{"name", "code"},
	)
)

// RegisterMetrics registers all pacing collectors with the default
// Prometheus registry. Idempotent.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			presentsTotal,
			presentCredits,
			parkedPresents,
			vsyncResolvedTotal,
			framesPresentedTotal,
			disconnectsTotal,
		)
	})
}

// RecordPresent counts one transmitted submission.
func RecordPresent(name string) {
	presentsTotal.WithLabelValues(name).Inc()
}

// SetCredits exposes the current credit balance.
func SetCredits(name string, n uint32) {
	presentCredits.WithLabelValues(name).Set(float64(n))
}

// SetParked exposes whether a present is parked.
func SetParked(name string, parked bool) {
	v := 0.0
	if parked {
		v = 1.0
	}
	parkedPresents.WithLabelValues(name).Set(v)
}

// RecordVsyncResolved counts one resolved timing callback.
func RecordVsyncResolved(name string) {
	vsyncResolvedTotal.WithLabelValues(name).Inc()
}

// RecordFramePresented counts one completion event.
func RecordFramePresented(name string) {
	framesPresentedTotal.WithLabelValues(name).Inc()
}

// RecordDisconnect counts the terminal failure of one session.
func RecordDisconnect(name, code string) {
	disconnectsTotal.WithLabelValues(name, code).Inc()
}
