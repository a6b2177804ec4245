// Package observability provides a metrics extension for spindle.
// The MetricsExtension implements scheduler lifecycle hooks to record
// system-wide counters for push, pop, steal, lost-job, execution, and
// join events, enough to see whether the fast path dominates (pops far
// outnumber steals) or work is ping-ponging between workers.
package observability

import (
	"context"
	"time"

	gu "github.com/xraph/go-utils/metrics"

	"github.com/xraph/spindle/ext"
	"github.com/xraph/spindle/job"
)

// Compile-time interface checks.
var (
	_ ext.Extension   = (*MetricsExtension)(nil)
	_ ext.JobPushed   = (*MetricsExtension)(nil)
	_ ext.JobPopped   = (*MetricsExtension)(nil)
	_ ext.JobStolen   = (*MetricsExtension)(nil)
	_ ext.JobLost     = (*MetricsExtension)(nil)
	_ ext.JobExecuted = (*MetricsExtension)(nil)
	_ ext.JoinStarted = (*MetricsExtension)(nil)
)

// MetricsExtension records scheduler-wide counters via the go-utils
// MetricFactory. Register it on a pool to track steal traffic and join
// volume.
type MetricsExtension struct {
	JobPushed   gu.Counter
	JobPopped   gu.Counter
	JobStolen   gu.Counter
	JobLost     gu.Counter
	JobExecuted gu.Counter
	JoinStarted gu.Counter
}

// NewMetricsExtension creates a MetricsExtension using a default metrics collector.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithFactory(gu.NewMetricsCollector("spindle/observability"))
}

// NewMetricsExtensionWithFactory creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtensionWithFactory(factory gu.MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		JobPushed:   factory.Counter("spindle.job.pushed"),
		JobPopped:   factory.Counter("spindle.job.popped"),
		JobStolen:   factory.Counter("spindle.job.stolen"),
		JobLost:     factory.Counter("spindle.job.lost"),
		JobExecuted: factory.Counter("spindle.job.executed"),
		JoinStarted: factory.Counter("spindle.join.started"),
	}
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnJobPushed implements ext.JobPushed.
func (m *MetricsExtension) OnJobPushed(_ context.Context, _ int, _ *job.Ref) error {
	m.JobPushed.Inc()
	return nil
}

// OnJobPopped implements ext.JobPopped.
func (m *MetricsExtension) OnJobPopped(_ context.Context, _ int, _ *job.Ref) error {
	m.JobPopped.Inc()
	return nil
}

// OnJobStolen implements ext.JobStolen.
func (m *MetricsExtension) OnJobStolen(_ context.Context, _, _ int, _ *job.Ref) error {
	m.JobStolen.Inc()
	return nil
}

// OnJobLost implements ext.JobLost.
func (m *MetricsExtension) OnJobLost(_ context.Context, _ int, _ *job.Ref) error {
	m.JobLost.Inc()
	return nil
}

// OnJobExecuted implements ext.JobExecuted.
func (m *MetricsExtension) OnJobExecuted(_ context.Context, _ int, _ *job.Ref, _ time.Duration) error {
	m.JobExecuted.Inc()
	return nil
}

// OnJoinStarted implements ext.JoinStarted.
func (m *MetricsExtension) OnJoinStarted(_ context.Context, _ int) error {
	m.JoinStarted.Inc()
	return nil
}
