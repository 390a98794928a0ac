package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestEngineMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)
	m.ObserveMessage("en", "ok")
	m.ObserveScamDetected("BANKING")
	m.ObserveIntel("upi_ids", 2)
	m.ObserveIntel("phone_numbers", 0)
	m.ObserveEscalation("delivered")
	m.ObserveReply("llm")
	m.ObserveProcessLatency(true, 0.25)
}

func TestEngineMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)
	m.ObserveReply("fallback")
}

func TestEngineMetricsNilSafe(t *testing.T) {
	var m *EngineMetrics
	m.ObserveMessage("en", "ok")
	m.ObserveScamDetected("KYC")
	m.ObserveIntel("upi_ids", 1)
	m.ObserveEscalation("failed")
	m.ObserveReply("neutral")
	m.ObserveProcessLatency(false, 0.1)
}
