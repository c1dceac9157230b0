// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/arloliu/tawzi/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// It is the default when no collector is configured, and can be embedded
// by collectors that implement only part of the interface.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordRunDuration does nothing.
func (n *NopMetrics) RecordRunDuration(_ float64) {}

// RecordRun does nothing.
func (n *NopMetrics) RecordRun(_ bool) {}

// RecordAssignments does nothing.
func (n *NopMetrics) RecordAssignments(_ string, _ int) {}

// RecordCoverage does nothing.
func (n *NopMetrics) RecordCoverage(_ float64) {}

// RecordUnassigned does nothing.
func (n *NopMetrics) RecordUnassigned(_ int) {}

// RecordWarnings does nothing.
func (n *NopMetrics) RecordWarnings(_ string, _ int) {}

// RecordStoreOperation does nothing.
func (n *NopMetrics) RecordStoreOperation(_ string, _ float64, _ bool) {}
