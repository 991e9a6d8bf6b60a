package runtime

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

type metrics struct {
	instructions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// newMetrics registers the runtime collectors on reg. A nil reg yields
// collectors that are never exported.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		instructions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mediapay_instructions_total",
			Help: "Instructions submitted, by instruction and result",
		}, []string{"instruction", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediapay_instruction_duration_seconds",
			Help:    "Time spent executing an instruction, including commit",
			Buckets: prometheus.DefBuckets,
		}, []string{"instruction"}),
	}
}

func (m *metrics) observe(instruction string, err error, elapsed time.Duration) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	m.instructions.WithLabelValues(instruction, result).Inc()
	m.duration.WithLabelValues(instruction).Observe(elapsed.Seconds())
}
