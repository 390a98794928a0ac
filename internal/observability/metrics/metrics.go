package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics exposes counters/histograms for the message pipeline.
type EngineMetrics struct {
	messagesTotal    *prometheus.CounterVec
	scamsDetected    *prometheus.CounterVec
	intelExtracted   *prometheus.CounterVec
	escalationsTotal *prometheus.CounterVec
	repliesTotal     *prometheus.CounterVec
	processLatency   *prometheus.HistogramVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Subsystem: "engine",
			Name:      "messages_total",
			Help:      "Total scammer messages processed",
		}, []string{"language", "status"}),
		scamsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Subsystem: "engine",
			Name:      "scams_detected_total",
			Help:      "Total sessions confirmed as scams",
		}, []string{"scam_type"}),
		intelExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Subsystem: "engine",
			Name:      "intel_extracted_total",
			Help:      "Total extracted intelligence identifiers",
		}, []string{"kind"}),
		escalationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Subsystem: "engine",
			Name:      "escalations_total",
			Help:      "Total escalation callbacks attempted",
		}, []string{"status"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "honeypot",
			Subsystem: "engine",
			Name:      "replies_total",
			Help:      "Total honeypot replies by generation source",
		}, []string{"source"}),
		processLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "honeypot",
			Subsystem: "engine",
			Name:      "process_latency_seconds",
			Help:      "Latency of full message pipeline processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"scam_detected"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.scamsDetected, m.intelExtracted,
		m.escalationsTotal, m.repliesTotal, m.processLatency)
	return m
}

func (m *EngineMetrics) ObserveMessage(language, status string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(language, status).Inc()
}

func (m *EngineMetrics) ObserveScamDetected(scamType string) {
	if m == nil {
		return
	}
	m.scamsDetected.WithLabelValues(scamType).Inc()
}

func (m *EngineMetrics) ObserveIntel(kind string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.intelExtracted.WithLabelValues(kind).Add(float64(count))
}

func (m *EngineMetrics) ObserveEscalation(status string) {
	if m == nil {
		return
	}
	m.escalationsTotal.WithLabelValues(status).Inc()
}

func (m *EngineMetrics) ObserveReply(source string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(source).Inc()
}

func (m *EngineMetrics) ObserveProcessLatency(scamDetected bool, seconds float64) {
	if m == nil {
		return
	}
	label := "false"
	if scamDetected {
		label = "true"
	}
	m.processLatency.WithLabelValues(label).Observe(seconds)
}
