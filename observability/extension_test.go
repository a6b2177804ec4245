package observability_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	gu "github.com/xraph/go-utils/metrics"

	"github.com/xraph/spindle/ext"
	"github.com/xraph/spindle/job"
	"github.com/xraph/spindle/observability"
)

func newTestExtension() *observability.MetricsExtension {
	return observability.NewMetricsExtensionWithFactory(gu.NewMetricsCollector("test"))
}

type nopJob struct{}

func (nopJob) Execute(_ context.Context) {}

func newTestRef() *job.Ref { return job.NewRef(nopJob{}) }

func TestMetricsExtension_Name(t *testing.T) {
	e := newTestExtension()
	if e.Name() != "observability-metrics" {
		t.Errorf("expected name %q, got %q", "observability-metrics", e.Name())
	}
}

func TestMetricsExtension_JobPushed(t *testing.T) {
	e := newTestExtension()
	if err := e.OnJobPushed(context.Background(), 0, newTestRef()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.JobPushed.Value() != 1 {
		t.Errorf("JobPushed: want 1, got %v", e.JobPushed.Value())
	}
}

func TestMetricsExtension_JobPopped(t *testing.T) {
	e := newTestExtension()
	if err := e.OnJobPopped(context.Background(), 0, newTestRef()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.JobPopped.Value() != 1 {
		t.Errorf("JobPopped: want 1, got %v", e.JobPopped.Value())
	}
}

func TestMetricsExtension_JobStolen(t *testing.T) {
	e := newTestExtension()
	if err := e.OnJobStolen(context.Background(), 1, 0, newTestRef()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.JobStolen.Value() != 1 {
		t.Errorf("JobStolen: want 1, got %v", e.JobStolen.Value())
	}
}

func TestMetricsExtension_JobLost(t *testing.T) {
	e := newTestExtension()
	if err := e.OnJobLost(context.Background(), 0, newTestRef()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.JobLost.Value() != 1 {
		t.Errorf("JobLost: want 1, got %v", e.JobLost.Value())
	}
}

func TestMetricsExtension_JobExecuted(t *testing.T) {
	e := newTestExtension()
	if err := e.OnJobExecuted(context.Background(), 0, newTestRef(), 10*time.Microsecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.JobExecuted.Value() != 1 {
		t.Errorf("JobExecuted: want 1, got %v", e.JobExecuted.Value())
	}
}

func TestMetricsExtension_JoinStarted(t *testing.T) {
	e := newTestExtension()
	if err := e.OnJoinStarted(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.JoinStarted.Value() != 1 {
		t.Errorf("JoinStarted: want 1, got %v", e.JoinStarted.Value())
	}
}

func TestMetricsExtension_ViaRegistry(t *testing.T) {
	e := newTestExtension()
	logger := slog.Default()

	reg := ext.NewRegistry(logger)
	reg.Register(e)

	ctx := context.Background()
	ref := newTestRef()

	reg.EmitJobPushed(ctx, 0, ref)
	reg.EmitJobPopped(ctx, 0, ref)
	reg.EmitJobStolen(ctx, 1, 0, ref)
	reg.EmitJobLost(ctx, 0, ref)
	reg.EmitJobExecuted(ctx, 0, ref, time.Microsecond)
	reg.EmitJoinStarted(ctx, 0)

	checks := []struct {
		name  string
		value float64
	}{
		{"JobPushed", e.JobPushed.Value()},
		{"JobPopped", e.JobPopped.Value()},
		{"JobStolen", e.JobStolen.Value()},
		{"JobLost", e.JobLost.Value()},
		{"JobExecuted", e.JobExecuted.Value()},
		{"JoinStarted", e.JoinStarted.Value()},
	}

	for _, c := range checks {
		if c.value != 1 {
			t.Errorf("%s: want 1, got %v", c.name, c.value)
		}
	}
}
